package scanner

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/samber/lo"
)

// AnyFormat disables extension filtering.
const AnyFormat = "*"

// Request is a validated, immutable scan request.
type Request struct {
	// Absolute directories whose immediate entries are checked.
	Directories []string
	// Absolute files checked regardless of Format.
	Inputs []string
	// Extension filter, including the leading dot, or AnyFormat.
	Format string
}

// ValidationError describes a directory or input argument that can not be scanned.
type ValidationError struct {
	Path   string
	Reason string
}

func (v *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", v.Reason, v.Path)
}

// NewRequest resolves and checks every directory and input.
//
// Every failing argument yields one ValidationError, in argument order, so all problems can be reported
// at once. The returned Request must not be used when any errors are returned.
//
// Directories are checked without following symlinks, so a link to a directory is rejected. Inputs
// follow symlinks.
func NewRequest(fs billy.Filesystem, directories, inputs []string, format string) (*Request, []*ValidationError) {
	req := &Request{Format: normalizeFormat(format)}
	var errs []*ValidationError

	for _, dir := range directories {
		path, err := filepath.Abs(dir)
		if err != nil {
			path = dir
		}
		info, err := fs.Lstat(path)
		switch {
		case err != nil:
			debug("lstat %s: %s", path, err)
			errs = append(errs, &ValidationError{Path: path, Reason: "Directory not exist"})
		case !info.IsDir():
			errs = append(errs, &ValidationError{Path: path, Reason: "Given entry is not a directory"})
		default:
			req.Directories = append(req.Directories, path)
		}
	}

	for _, input := range inputs {
		path, err := filepath.Abs(input)
		if err != nil {
			path = input
		}
		info, err := fs.Stat(path)
		switch {
		case err != nil:
			debug("stat %s: %s", path, err)
			errs = append(errs, &ValidationError{Path: path, Reason: "Input file not exist"})
		case info.IsDir():
			errs = append(errs, &ValidationError{Path: path, Reason: "Given entry is not a file"})
		default:
			req.Inputs = append(req.Inputs, path)
		}
	}

	req.Directories = lo.Uniq(req.Directories)
	req.Inputs = lo.Uniq(req.Inputs)
	return req, errs
}

// Matches reports whether an entry name passes the extension filter.
func (r *Request) Matches(name string) bool {
	if r.Format == AnyFormat {
		return true
	}
	return len(name) > len(r.Format) && strings.EqualFold(name[len(name)-len(r.Format):], r.Format)
}

func normalizeFormat(format string) string {
	format = strings.TrimSpace(format)
	if format == "" || format == AnyFormat {
		return AnyFormat
	}
	if !strings.HasPrefix(format, ".") {
		format = "." + format
	}
	return format
}
