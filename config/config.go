package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// DefaultFileName is the configuration file looked up by Find.
const DefaultFileName = ".fwspace.toml"

// DefaultFormat is the extension filter used when none is configured.
const DefaultFormat = ".md"

// DefaultTemplate formats one line of text output.
const DefaultTemplate = "Found full-width space in: {{.Path}}"

// DefaultFindingFormat used to print a finding.
var DefaultFindingFormat = &Template{template.Must(template.New("output").Parse(DefaultTemplate))}

var validate = validator.New()

type Duration time.Duration

func (d *Duration) UnmarshalText(text []byte) error {
	duration, err := time.ParseDuration(string(text))
	*d = Duration(duration)
	return err
}

type Regexp struct {
	*regexp.Regexp
}

func (r *Regexp) UnmarshalText(data []byte) (err error) {
	r.Regexp, err = regexp.Compile(string(data))
	return
}

type OutputFormat int

const (
	OutputText OutputFormat = iota
	OutputCheckstyle
	OutputJSON
)

// OutputFormats lists the accepted output names.
var OutputFormats = []string{"text", "checkstyle", "json"}

func (o OutputFormat) String() string {
	switch o {
	case OutputText:
		return "text"
	case OutputCheckstyle:
		return "checkstyle"
	case OutputJSON:
		return "json"
	default:
		return fmt.Sprintf("OutputFormat(%d)", int(o))
	}
}

func (o *OutputFormat) UnmarshalText(text []byte) error {
	switch string(text) {
	case "text":
		*o = OutputText
	case "checkstyle":
		*o = OutputCheckstyle
	case "json":
		*o = OutputJSON
	default:
		return fmt.Errorf("invalid output format %q", string(text))
	}
	return nil
}

type Template struct {
	*template.Template
}

func (t *Template) UnmarshalText(text []byte) (err error) {
	t.Template, err = template.New("output").Parse(string(text))
	return err
}

// Config for check-fullwidth-spaces.
//
// This can be loaded from a TOML file with --config.
type Config struct {
	// Directories whose immediate entries are scanned.
	Directories []string `toml:"directories"`
	// Files scanned regardless of Format.
	Inputs []string `toml:"inputs"`
	// Extension filter for directory entries. "*" scans every entry.
	Format string `toml:"format" validate:"required"`
	// Type of output to generate: text (default), checkstyle, json
	Output OutputFormat `toml:"output"`
	// Formatting template for text output.
	Template *Template `toml:"template" validate:"-"`
	// Maximum number of files read concurrently.
	Concurrency int `toml:"concurrency" validate:"min=1"`
	// Total deadline before abandoning outstanding reads.
	Deadline Duration `toml:"deadline" validate:"gte=0"`
	// Regexes matching absolute entry paths to skip.
	Exclude []Regexp `toml:"exclude" validate:"-"`
	// Sort order (defaults to no sorting): path, line, column, count
	Sort []string `toml:"sort" validate:"dive,oneof=none path line column count"`
	// Display debug messages.
	Debug bool `toml:"debug"`
	// Colorize warnings.
	Color bool `toml:"color"`
}

// Default returns the configuration used when no file is found.
func Default() *Config {
	return &Config{
		Format:      DefaultFormat,
		Template:    DefaultFindingFormat,
		Concurrency: runtime.NumCPU(),
		Deadline:    Duration(time.Second * 30),
		Sort:        []string{"none"},
	}
}

// Validate checks value constraints that TOML decoding cannot express.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Namespace(), fe.Tag()))
			}
			return fmt.Errorf("invalid configuration: %s", strings.Join(fields, ", "))
		}
		return err
	}
	return nil
}

// Read configuration from a reader.
func Read(r io.Reader) (*Config, error) {
	config := Default()
	md, err := toml.NewDecoder(r).Decode(config)
	if err != nil {
		return nil, err
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		return nil, fmt.Errorf("unknown keys %s", strings.Join(keys, ","))
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// ReadString reads configuration from a string.
func ReadString(s string) (*Config, error) {
	return Read(strings.NewReader(s))
}

// ReadFile reads configuration from a filename.
//
// Relative directories and inputs are made relative to the file's directory.
func ReadFile(filename string) (*Config, error) {
	r, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	config, err := Read(r)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	base, err := filepath.Abs(filepath.Dir(filename))
	if err != nil {
		return nil, err
	}
	config.Directories = rebase(base, config.Directories)
	config.Inputs = rebase(base, config.Inputs)
	return config, nil
}

func rebase(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		out = append(out, p)
	}
	return out
}

// Find looks for DefaultFileName in dir and each of its parents.
func Find(dir string) (string, bool, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, err
	}
	for {
		path := filepath.Join(dir, DefaultFileName)
		info, err := os.Stat(path)
		switch {
		case err == nil && !info.IsDir():
			return path, true, nil
		case err != nil && !os.IsNotExist(err):
			return "", false, err
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
