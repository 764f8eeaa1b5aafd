package scanner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"regexp"
	"unicode/utf8"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
	billyutil "github.com/go-git/go-billy/v5/util"

	"github.com/NaleRaphael/blog/api"
	"github.com/NaleRaphael/blog/util"
)

var debug = util.NamespacedDebug("scanner: ")

var (
	// ErrIsDirectory is recorded for directory entries that pass the filters.
	ErrIsDirectory = errors.New("is a directory")
	// ErrNotUTF8 is recorded for entries whose content is not valid UTF-8 text.
	ErrNotUTF8 = errors.New("content is not valid UTF-8")
)

// Scanner checks files for full-width spaces.
type Scanner struct {
	fs          billy.Filesystem
	concurrency int
	exclude     *regexp.Regexp
}

// Option configures a Scanner.
type Option func(*Scanner)

// Concurrency sets the maximum number of files read at once.
func Concurrency(n int) Option {
	return func(s *Scanner) { s.concurrency = n }
}

// Exclude skips entries whose absolute path matches re.
func Exclude(re *regexp.Regexp) Option {
	return func(s *Scanner) { s.exclude = re }
}

// New creates a Scanner reading from fs.
func New(fs billy.Filesystem, options ...Option) *Scanner {
	s := &Scanner{fs: fs, concurrency: 1}
	for _, option := range options {
		option(s)
	}
	return s
}

// Scan checks the immediate entries of every directory in req plus every input file.
//
// It returns once every scheduled check has completed. A failure to list a directory or read an entry is
// recorded in the result and does not stop the scan.
func (s *Scanner) Scan(ctx context.Context, req *Request) *Result {
	scan := newScanContext(ctx, s.concurrency)
	// Inputs may also be entries of a requested directory.
	seen := map[string]bool{}
	for _, dir := range req.Directories {
		entries, err := s.fs.ReadDir(dir)
		if err != nil {
			scan.Apply(dir, nil, fmt.Errorf("read directory: %w", err))
			continue
		}
		debug("%s has %d entries", dir, len(entries))
		for _, entry := range entries {
			path := filepath.Join(dir, entry.Name())
			if !req.Matches(entry.Name()) || s.excluded(path) {
				debug("skipping %s", path)
				continue
			}
			seen[path] = true
			if entry.IsDir() {
				scan.Apply(path, nil, ErrIsDirectory)
				continue
			}
			scan.Go(path, s.check)
		}
	}
	for _, input := range req.Inputs {
		if seen[input] || s.excluded(input) {
			debug("skipping %s", input)
			continue
		}
		seen[input] = true
		scan.Go(input, s.check)
	}
	return scan.Wait()
}

func (s *Scanner) excluded(path string) bool {
	return s.exclude != nil && s.exclude.MatchString(path)
}

func (s *Scanner) check(path string) (*api.Finding, error) {
	data, err := billyutil.ReadFile(s.fs, path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("%w (detected %s)", ErrNotUTF8, mimetype.Detect(data))
	}
	finding := api.Locate(path, string(data))
	if finding != nil {
		debug("%s has %d full-width spaces", path, finding.Count)
	}
	return finding, nil
}
