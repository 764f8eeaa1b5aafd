package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	tests := []struct {
		config string
		key    string
		value  interface{}
	}{
		{`output = "json"`, "Output", OutputJSON},
		{`output = "invalid"`, "Output", errors.New("InvalidEnum")},
		{`deadline = "5m30s"`, "Deadline", Duration(time.Minute*5 + time.Second*30)},
		{`deadline = "soon"`, "Deadline", errors.New("InvalidDuration")},
		{``, "Template", DefaultFindingFormat}, // Test that defaults do not get overwritten.
		{``, "Format", DefaultFormat},
		{`format = ".txt"`, "Format", ".txt"},
		{`format = ""`, "Format", errors.New("EmptyFormat")},
		{`exclude = ["foo"]`, "Exclude", []Regexp{{regexp.MustCompile("foo")}}},
		{`exclude = ["*"]`, "Exclude", errors.New("InvalidRegex")},
		{`directories = ["posts", "drafts"]`, "Directories", []string{"posts", "drafts"}},
		{`concurrency = 0`, "Concurrency", errors.New("InvalidConcurrency")},
		{`sort = ["path", "line"]`, "Sort", []string{"path", "line"}},
		{`sort = ["linter"]`, "Sort", errors.New("InvalidSortKey")},
		{`unknown = true`, "Unknown", errors.New("UnknownKey")},
	}
	for _, test := range tests {
		name := test.key
		err, errors := test.value.(error)
		if errors {
			name += err.Error()
		}
		t.Run(name, func(t *testing.T) {
			config, err := ReadString(test.config)
			if errors {
				assert.Error(t, err)
				return
			}
			if !assert.NoError(t, err, test.key) {
				return
			}
			v := reflect.ValueOf(config).Elem().FieldByName(test.key)
			assert.Equal(t, test.value, v.Interface(), test.key)
		})
	}
}

func TestFormatTemplate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		config, err := ReadString(`template = "hello {{.world}}"`)
		require.NoError(t, err)
		w := &bytes.Buffer{}
		err = config.Template.Execute(w, map[string]string{"world": "world"})
		require.NoError(t, err)
		require.Equal(t, "hello world", w.String())
	})
	t.Run("Invalid", func(t *testing.T) {
		_, err := ReadString(`template = "hello {{.world"`)
		require.Error(t, err)
	})
}

func TestValidateMessage(t *testing.T) {
	config := Default()
	config.Concurrency = -1
	err := config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Concurrency (min)")
}

func TestReadFileRebasesPaths(t *testing.T) {
	dir := t.TempDir()
	filename := filepath.Join(dir, DefaultFileName)
	abs := filepath.Join(dir, "elsewhere")
	source := "directories = [\"posts\", " + quote(abs) + "]\ninputs = [\"README.md\"]\n"
	require.NoError(t, os.WriteFile(filename, []byte(source), 0644))

	config, err := ReadFile(filename)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "posts"), abs}, config.Directories)
	assert.Equal(t, []string{filepath.Join(dir, "README.md")}, config.Inputs)
}

func TestReadFileMissing(t *testing.T) {
	_, err := ReadFile(filepath.Join(t.TempDir(), DefaultFileName))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestFind(t *testing.T) {
	tmpdir := t.TempDir()
	mkDir(t, tmpdir, "contains", "foo", "bar")
	mkDir(t, tmpdir, "contains", "double")
	mkDir(t, tmpdir, "lacks")
	mkFile(t, filepath.Join(tmpdir, "contains"), DefaultFileName)
	mkFile(t, filepath.Join(tmpdir, "contains", "double"), DefaultFileName)

	testcases := []struct {
		dir      string
		expected string
		found    bool
	}{
		{
			dir:      filepath.Join(tmpdir, "contains"),
			expected: filepath.Join(tmpdir, "contains", DefaultFileName),
			found:    true,
		},
		{
			dir:      filepath.Join(tmpdir, "contains", "foo", "bar"),
			expected: filepath.Join(tmpdir, "contains", DefaultFileName),
			found:    true,
		},
		{
			dir:      filepath.Join(tmpdir, "contains", "double"),
			expected: filepath.Join(tmpdir, "contains", "double", DefaultFileName),
			found:    true,
		},
	}
	for _, testcase := range testcases {
		configFile, found, err := Find(testcase.dir)
		assert.NoError(t, err)
		assert.Equal(t, testcase.expected, configFile)
		assert.Equal(t, testcase.found, found)
	}
}

func mkDir(t *testing.T, paths ...string) {
	require.NoError(t, os.MkdirAll(filepath.Join(paths...), 0755))
}

func mkFile(t *testing.T, dir, name string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(""), 0644))
}

func quote(s string) string {
	return "'" + s + "'"
}
