package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, stdin string, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestReplayStdin(t *testing.T) {
	out, _, err := execute(t, "one two three\n", "--keys", "dw")
	require.NoError(t, err)
	assert.Equal(t, "two three\n", out)
}

func TestReplayFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("alpha\nbeta\n"), 0o644))

	out, _, err := execute(t, "", "-k", "yyjp", path)
	require.NoError(t, err)
	assert.Equal(t, "alpha\nbeta\nalpha\n", out)
}

func TestReplayKeepsCRLF(t *testing.T) {
	out, _, err := execute(t, "ab\r\ncd\r\n", "--keys", "x")
	require.NoError(t, err)
	assert.Equal(t, "b\r\ncd\r\n", out)
}

func TestReplayOutputFile(t *testing.T) {
	dst := filepath.Join(t.TempDir(), "out.txt")

	out, _, err := execute(t, "hello\n", "--keys", "A world<Esc>", "--output", dst)
	require.NoError(t, err)
	assert.Empty(t, out)

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "hello world\n", string(data))
}

func TestReplayDiff(t *testing.T) {
	out, _, err := execute(t, "abc\ndef\n", "--keys", "x", "--diff")
	require.NoError(t, err)
	assert.Equal(t, "-abc\n+bc\n def\n", out)
}

func TestReplayWithConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "keymode.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
keymap:
  - keys: Q
    action: editor.deleteLine
  - keys: gs
    lua: keymode.replace_line(1, string.upper(keymode.line(1)))
`), 0o644))

	out, _, err := execute(t, "a\nb\n", "--config", path, "--keys", "Qgs")
	require.NoError(t, err)
	assert.Equal(t, "B\n", out)
}

func TestReplayTrace(t *testing.T) {
	_, errOut, err := execute(t, "abc\n", "--keys", "x", "--trace", "stdout")
	require.NoError(t, err)
	assert.Contains(t, errOut, "dispatch editor.deleteChar")
}

func TestReplayDebugLogsKeys(t *testing.T) {
	_, errOut, err := execute(t, "abc\n", "--keys", "x", "--log-level", "debug")
	require.NoError(t, err)
	assert.Contains(t, errOut, "component=keys")
}

func TestPlayMacro(t *testing.T) {
	path := filepath.Join(t.TempDir(), "macros.toml")
	require.NoError(t, os.WriteFile(path, []byte("[macros]\nq = \"A;<Esc>j\"\n"), 0o644))

	out, _, err := execute(t, "a\nb\n", "--macros", path, "--play", "q")
	require.NoError(t, err)
	assert.Equal(t, "a;\nb\n", out)

	out, _, err = execute(t, "a\nb\n", "--macros", path, "--keys", "j", "--play", "q")
	require.NoError(t, err)
	assert.Equal(t, "a\nb;\n", out)
}

func TestReplayErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"missing keys", nil},
		{"missing file", []string{"--keys", "x", filepath.Join(t.TempDir(), "nope.txt")}},
		{"bad exporter", []string{"--keys", "x", "--trace", "jaeger"}},
		{"bad config", []string{"--keys", "x", "--config", "keymode.ini"}},
		{"too many files", []string{"--keys", "x", "a", "b"}},
		{"play without macros", []string{"--play", "q"}},
		{"record without interactive", []string{"--record", "--macros", "m.toml"}},
		{"bad play register", []string{"--play", "+", "--macros", "m.toml"}},
		{"empty play register", []string{"--play", "q", "--macros", filepath.Join(t.TempDir(), "none.toml")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "text\n", tt.args...)
			assert.Error(t, err)
		})
	}
}

func TestReadTextLineEndings(t *testing.T) {
	tests := []struct {
		in, text, eol string
	}{
		{"a\nb\n", "a\nb", "\n"},
		{"a\r\nb\r\n", "a\r\nb", "\r\n"},
		{"a\nb", "a\nb", ""},
		{"", "", ""},
	}
	for _, tt := range tests {
		text, eol, err := readText(nil, strings.NewReader(tt.in), false)
		require.NoError(t, err)
		assert.Equal(t, tt.text, text)
		assert.Equal(t, tt.eol, eol)
	}
}
