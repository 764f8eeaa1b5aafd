package api

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// FullWidthSpace is the ideographic space the linter looks for.
const FullWidthSpace = '\u3000'

// Exit status bits. A clean run exits with 0.
const (
	StatusInvalid    = 1
	StatusFindings   = 2
	StatusEntryError = 4
)

// Finding records a file containing at least one full-width space.
//
// Line and Col locate the first occurrence, both 1-based. Col counts runes.
type Finding struct {
	Path  string `json:"path"`
	Line  int    `json:"line"`
	Col   int    `json:"col"`
	Count int    `json:"count"`
}

// Message is a human readable description of the finding.
func (f *Finding) Message() string {
	if f.Count == 1 {
		return "found 1 full-width space (U+3000)"
	}
	return fmt.Sprintf("found %d full-width spaces (U+3000)", f.Count)
}

func (f *Finding) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", f.Path, f.Line, f.Col, f.Message())
}

// Locate returns a Finding for content at path, or nil if content has no
// full-width space.
func Locate(path, content string) *Finding {
	idx := strings.IndexRune(content, FullWidthSpace)
	if idx < 0 {
		return nil
	}
	before := content[:idx]
	lineStart := strings.LastIndexByte(before, '\n') + 1
	return &Finding{
		Path:  path,
		Line:  strings.Count(before, "\n") + 1,
		Col:   utf8.RuneCountInString(before[lineStart:]) + 1,
		Count: strings.Count(content, string(FullWidthSpace)),
	}
}

// EntryError is an entry that could not be checked.
type EntryError struct {
	Path string
	Err  error
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("%s: %s", e.Path, e.Err)
}

func (e *EntryError) Unwrap() error { return e.Err }

// SortKeys are the accepted values for an ordering of findings.
var SortKeys = []string{"none", "path", "line", "column", "count"}

// CompareFinding returns true if l should sort before r.
func CompareFinding(l, r Finding, order []string) bool {
	for _, key := range order {
		switch {
		case key == "path" && l.Path != r.Path:
			return l.Path < r.Path
		case key == "line" && l.Line != r.Line:
			return l.Line < r.Line
		case key == "column" && l.Col != r.Col:
			return l.Col < r.Col
		case key == "count" && l.Count != r.Count:
			return l.Count > r.Count
		}
	}
	return false
}

// Sort findings in place. An empty order or "none" leaves them untouched.
func Sort(findings []*Finding, order []string) {
	if len(order) == 0 || (len(order) == 1 && order[0] == "none") {
		return
	}
	sort.SliceStable(findings, func(i, j int) bool {
		return CompareFinding(*findings[i], *findings[j], order)
	})
}
