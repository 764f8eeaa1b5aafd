package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequest(t *testing.T) {
	fs := blogFS(t)

	req, errs := NewRequest(fs, []string{"/posts", "/drafts", "/posts"}, []string{"/README.md"}, ".md")

	require.Empty(t, errs)
	assert.Equal(t, &Request{
		Directories: []string{"/posts", "/drafts"},
		Inputs:      []string{"/README.md"},
		Format:      ".md",
	}, req)
}

func TestNewRequestReportsEveryFailure(t *testing.T) {
	fs := blogFS(t)

	_, errs := NewRequest(fs,
		[]string{"/missing", "/posts", "/README.md", "/posts/../gone"},
		[]string{"/nope.md", "/drafts"},
		".md")

	messages := []string{}
	for _, err := range errs {
		messages = append(messages, err.Error())
	}
	assert.Equal(t, []string{
		"Directory not exist: /missing",
		"Given entry is not a directory: /README.md",
		"Directory not exist: /gone",
		"Input file not exist: /nope.md",
		"Given entry is not a file: /drafts",
	}, messages)
}

func TestNewRequestRejectsSymlinkedDirectory(t *testing.T) {
	fs := blogFS(t)
	require.NoError(t, fs.Symlink("/posts", "/latest"))
	require.NoError(t, fs.Symlink("/posts/a.md", "/a-link.md"))

	_, errs := NewRequest(fs, []string{"/latest"}, []string{"/a-link.md"}, ".md")

	require.Len(t, errs, 1)
	assert.Equal(t, "Given entry is not a directory: /latest", errs[0].Error())
}

func TestRequestMatches(t *testing.T) {
	tests := []struct {
		format   string
		name     string
		expected bool
	}{
		{".md", "a.md", true},
		{".md", "A.MD", true},
		{"md", "a.md", true},
		{".md", "a.markdown", false},
		{".md", ".md", false},
		{".md", "amd", false},
		{"*", "anything", true},
		{"", "anything", true},
	}
	for _, test := range tests {
		req := &Request{Format: normalizeFormat(test.format)}
		assert.Equal(t, test.expected, req.Matches(test.name), "%q matching %q", test.format, test.name)
	}
}
