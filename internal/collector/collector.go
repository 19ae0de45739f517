// Package collector resolves the configured path list into an ordered
// set of SurrealQL sources.
//
// Directories are expanded recursively to .surql files in lexicographic
// path order, and paths may reference environment variables ($HOME,
// $PROJECT_DIR). The resulting order is stable across runs on identical
// inputs, which is what makes downstream symbol ordering reproducible.
package collector

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Ext is the SurrealQL file extension the collector looks for when
// expanding directories.
const Ext = ".surql"

// Source is one raw text chunk tagged with its origin.
type Source struct {
	// Origin is the cleaned file path the content came from.
	Origin string
	// Content is the raw file text.
	Content string
}

// NoPathError reports an empty path list.
type NoPathError struct{}

func (e *NoPathError) Error() string {
	return "no input paths supplied: provide at least one .surql file or directory"
}

// Collect expands the path arguments, in argument order, into sources.
// Each directory contributes its .surql files in lexicographic order;
// files repeated across arguments are read once (first seen).
func Collect(paths []string) ([]Source, error) {
	files, err := Expand(paths)
	if err != nil {
		return nil, err
	}

	sources := make([]Source, 0, len(files))
	for _, f := range files {
		content, err := os.ReadFile(f) //nolint:gosec // G304: paths come from user configuration
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", f, err)
		}
		sources = append(sources, Source{Origin: f, Content: string(content)})
	}
	return sources, nil
}

// Expand resolves path arguments to a deduplicated, ordered list of
// .surql file paths without reading them.
func Expand(paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, &NoPathError{}
	}

	var files []string
	seen := map[string]bool{}

	for _, raw := range paths {
		path, err := ResolvePath(raw, os.Getenv)
		if err != nil {
			return nil, err
		}
		path = filepath.Clean(path)

		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", path, err)
		}

		if !info.IsDir() {
			if !seen[path] {
				seen[path] = true
				files = append(files, path)
			}
			continue
		}

		expanded, err := expandDir(path)
		if err != nil {
			return nil, err
		}
		for _, f := range expanded {
			if !seen[f] {
				seen[f] = true
				files = append(files, f)
			}
		}
	}

	return files, nil
}

// expandDir walks a directory recursively collecting .surql files in
// lexicographic path order.
func expandDir(dir string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) == Ext {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", dir, err)
	}
	// WalkDir already visits lexically, but sort anyway so the ordering
	// contract doesn't depend on it.
	sort.Strings(files)
	return files, nil
}

// ResolvePath substitutes $VAR references in a raw path using getenv.
// A $ not followed by a variable name, or a variable getenv cannot
// resolve, is an error: silently generating from the wrong directory is
// worse than failing.
func ResolvePath(raw string, getenv func(string) string) (string, error) {
	var resolved strings.Builder
	rest := raw

	for {
		i := strings.IndexByte(rest, '$')
		if i < 0 {
			resolved.WriteString(rest)
			return resolved.String(), nil
		}
		resolved.WriteString(rest[:i])
		rest = rest[i+1:]

		name := takeIdentifier(rest)
		if name == "" {
			return "", fmt.Errorf("unable to parse a variable name from %q", "$"+rest)
		}
		value := getenv(name)
		if value == "" {
			return "", fmt.Errorf("unable to resolve $%s in path %q", name, raw)
		}
		resolved.WriteString(value)
		rest = rest[len(name):]
	}
}

// takeIdentifier returns the leading environment variable name of s:
// letters and underscores, with digits allowed after the first rune.
func takeIdentifier(s string) string {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '_', 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case '0' <= c && c <= '9' && i > 0:
		default:
			return s[:i]
		}
	}
	return s
}
