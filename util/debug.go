package util

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/gookit/color"
)

var (
	outputLock sync.Mutex
	output     io.Writer = os.Stderr
	colorize   bool
)

// SetOutput redirects debug and warning messages. It returns the previous writer.
func SetOutput(w io.Writer) io.Writer {
	outputLock.Lock()
	defer outputLock.Unlock()
	prev := output
	output = w
	return prev
}

// Colorize enables or disables colored warnings.
func Colorize(ok bool) {
	outputLock.Lock()
	defer outputLock.Unlock()
	colorize = ok
}

// Debugging enables or disables debug logging.
func Debugging(ok bool) {
	if ok {
		Debug = enabledDebug
	} else {
		Debug = noopDebug
	}
}

type DebugFunction func(format string, args ...interface{})

// Debug writes a debug message to stderr if Debugging(true).
var Debug DebugFunction = noopDebug

func enabledDebug(format string, args ...interface{}) {
	write("DEBUG: "+format, 0, args...)
}

func noopDebug(format string, args ...interface{}) {}

// NamespacedDebug returns a DebugFunction that prefixes every message.
func NamespacedDebug(prefix string) DebugFunction {
	return func(format string, args ...interface{}) {
		Debug(prefix+format, args...)
	}
}

// Warning writes a warning message to stderr.
func Warning(format string, args ...interface{}) {
	write("WARNING: "+format, color.Yellow, args...)
}

// Notice writes a message to stderr without any prefix.
func Notice(format string, args ...interface{}) {
	write(format, color.Yellow, args...)
}

func write(format string, c color.Color, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	outputLock.Lock()
	defer outputLock.Unlock()
	if colorize && c != 0 {
		msg = c.Sprint(msg)
	}
	fmt.Fprintln(output, msg)
}
