package collector

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeFiles creates the given relative files under a fresh temp dir.
func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func TestCollect_SingleFile(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"fns.surql": "DEFINE FUNCTION fn::x() { RETURN 1; };",
	})

	sources, err := Collect([]string{filepath.Join(dir, "fns.surql")})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, filepath.Join(dir, "fns.surql"), sources[0].Origin)
	assert.Contains(t, sources[0].Content, "fn::x")
}

func TestCollect_DirectoryRecursiveLexicographic(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.surql":        "b",
		"a.surql":        "a",
		"nested/z.surql": "z",
		"nested/y.surql": "y",
		"readme.md":      "not surql",
	})

	sources, err := Collect([]string{dir})
	require.NoError(t, err)
	require.Len(t, sources, 4)
	assert.Equal(t, filepath.Join(dir, "a.surql"), sources[0].Origin)
	assert.Equal(t, filepath.Join(dir, "b.surql"), sources[1].Origin)
	assert.Equal(t, filepath.Join(dir, "nested", "y.surql"), sources[2].Origin)
	assert.Equal(t, filepath.Join(dir, "nested", "z.surql"), sources[3].Origin)
}

func TestCollect_ArgumentOrderBeforeDirOrder(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"a.surql": "a",
		"z.surql": "z",
	})

	// Explicit file first, then the directory containing it.
	sources, err := Collect([]string{filepath.Join(dir, "z.surql"), dir})
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, filepath.Join(dir, "z.surql"), sources[0].Origin)
	assert.Equal(t, filepath.Join(dir, "a.surql"), sources[1].Origin)
}

func TestCollect_DeduplicatesRepeatedArgs(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.surql": "a"})
	file := filepath.Join(dir, "a.surql")

	sources, err := Collect([]string{file, file, dir})
	require.NoError(t, err)
	assert.Len(t, sources, 1)
}

func TestCollect_EmptyPaths(t *testing.T) {
	_, err := Collect(nil)
	var noPath *NoPathError
	require.ErrorAs(t, err, &noPath)
}

func TestCollect_MissingPath(t *testing.T) {
	_, err := Collect([]string{filepath.Join(t.TempDir(), "nope.surql")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to stat")
}

func TestCollect_EnvInterpolation(t *testing.T) {
	dir := writeFiles(t, map[string]string{"a.surql": "a"})
	t.Setenv("SURBIND_TEST_DIR", dir)

	sources, err := Collect([]string{"$SURBIND_TEST_DIR"})
	require.NoError(t, err)
	require.Len(t, sources, 1)
	assert.Equal(t, filepath.Join(dir, "a.surql"), sources[0].Origin)
}

func TestResolvePath(t *testing.T) {
	getenv := func(name string) string {
		return map[string]string{
			"HOME":        "/home/dev",
			"PROJECT_DIR": "/work/proj",
		}[name]
	}

	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr string
	}{
		{name: "no variables", raw: "schema/fns.surql", want: "schema/fns.surql"},
		{name: "leading variable", raw: "$HOME/schema", want: "/home/dev/schema"},
		{name: "embedded variable", raw: "x/$PROJECT_DIR/y", want: "x//work/proj/y"},
		{name: "two variables", raw: "$HOME/$PROJECT_DIR", want: "/home/dev//work/proj"},
		{name: "unresolvable", raw: "$MISSING/schema", wantErr: "unable to resolve $MISSING"},
		{name: "bare dollar", raw: "schema/$", wantErr: "unable to parse a variable name"},
		{name: "dollar before digit", raw: "a/$1", wantErr: "unable to parse a variable name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.raw, getenv)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
