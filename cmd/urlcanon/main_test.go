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

func runCLI(t *testing.T, stdin string, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = run(args, &streams{in: strings.NewReader(stdin), out: &out, err: &errOut})
	return code, out.String(), errOut.String()
}

func TestNormalizeArgs(t *testing.T) {
	t.Parallel()

	code, out, stderr := runCLI(t, "", "normalize", "--no-cache",
		"see http://www.twingly.com/blog-data/ and blog.twingly.com")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "http://www.twingly.com/blog-data\nhttp://blog.twingly.com/\n", out)
}

func TestNormalizeStdinList(t *testing.T) {
	t.Parallel()

	code, out, stderr := runCLI(t, "twingly.com\nnot a url at all\n\nhttp://WWW.jlchen1026.blogspot.CO.UK/\n",
		"normalize", "--list", "--default-scheme", "https")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "https://www.twingly.com/\nhttp://jlchen1026.blogspot.com/\n", out)
}

func TestNormalizeFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "a.txt")
	second := filepath.Join(dir, "b.txt")
	require.NoError(t, os.WriteFile(first, []byte("Read http://twingly.com/ today."), 0o644))
	require.NoError(t, os.WriteFile(second, []byte("nothing to see here"), 0o644))

	code, out, stderr := runCLI(t, "ignored http://example.com/", "normalize", "-f", first, "-f", second, "--workers", "2")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "http://www.twingly.com/\n", out)
}

func TestNormalizeConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "urlcanon.yaml")
	require.NoError(t, os.WriteFile(path, []byte("default_scheme: https\ncache_size: 16\n"), 0o644))

	code, out, stderr := runCLI(t, "", "--config", path, "normalize", "twingly.com")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "https://www.twingly.com/\n", out)
}

func TestInvalidSettings(t *testing.T) {
	t.Parallel()

	code, out, stderr := runCLI(t, "", "normalize", "--workers", "1000", "twingly.com")
	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, stderr, "Workers")

	code, _, stderr = runCLI(t, "", "normalize", "--default-scheme", "ftp", "twingly.com")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "DefaultScheme")
}

func TestUnknownCommand(t *testing.T) {
	t.Parallel()

	code, _, stderr := runCLI(t, "", "frobnicate")
	assert.Equal(t, 2, code)
	assert.NotEmpty(t, stderr)
}

func TestNormalizeAllowUnknownSuffixes(t *testing.T) {
	t.Parallel()

	code, out, stderr := runCLI(t, "", "normalize", "http://blog.example.zz/")
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, out)

	code, out, stderr = runCLI(t, "", "--allow-unknown-suffixes", "normalize", "http://blog.example.zz/")
	require.Equal(t, 0, code, stderr)
	assert.Equal(t, "http://blog.example.zz/\n", out)
}
