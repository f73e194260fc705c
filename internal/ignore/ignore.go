// Package ignore decides which filesystem entries are excluded from a
// report run, based on glob patterns loaded from an ignore file.
package ignore

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultIgnoreFileName is the ignore file picked up from the traversal
// root when no explicit ignore file is supplied.
const DefaultIgnoreFileName = ".gitignore"

// ErrIgnoreFileNotFound reports an explicitly supplied ignore file path
// that does not exist as a regular file.
var ErrIgnoreFileNotFound = errors.New("ignore file not found")

// compiledPattern holds both the pattern string and compiled glob.
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// Matcher answers exclusion queries for a fixed pattern set. It is built
// once per report run and is immutable afterwards.
type Matcher struct {
	ignoreName string
	patterns   []compiledPattern
}

// NewMatcher compiles the given glob patterns. The entry named ignoreName
// (the ignore file itself) is always excluded regardless of patterns;
// an empty ignoreName falls back to DefaultIgnoreFileName.
func NewMatcher(ignoreName string, patterns []string) (*Matcher, error) {
	if ignoreName == "" {
		ignoreName = DefaultIgnoreFileName
	}
	m := &Matcher{ignoreName: ignoreName}

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", pattern, err)
		}
		m.patterns = append(m.patterns, compiledPattern{pattern: pattern, glob: g})
	}

	return m, nil
}

// Excluded reports whether an entry should be dropped from traversal and
// from the report. Patterns match against the entry name and against its
// slash-separated path relative to the traversal root, so "*.pyc" excludes
// by name anywhere while "build/*" excludes by location.
func (m *Matcher) Excluded(name, relPath string) bool {
	if name == m.ignoreName {
		return true
	}
	for _, cp := range m.patterns {
		if cp.glob.Match(name) {
			return true
		}
		if relPath != "" && cp.glob.Match(relPath) {
			return true
		}
	}
	return false
}

// LoadPatterns reads glob patterns from an ignore file, one per line.
// Blank lines and lines starting with "#" (after trimming) are skipped.
// A missing file yields ErrIgnoreFileNotFound so callers can distinguish
// "no ignore file" from a read failure.
func LoadPatterns(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrIgnoreFileNotFound, path)
		}
		return nil, fmt.Errorf("failed to read ignore file %s: %w", path, err)
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns, nil
}
