// Package outline walks a directory tree, extracts the structure of every
// Python source file it meets, and assembles the per-file fragments into
// one deterministic report.
package outline

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/mvp-joe/pyoutline/internal/ignore"
)

// sourceExt identifies the files this tool outlines. Single language by
// design; no content sniffing.
const sourceExt = ".py"

// ErrNotDirectory reports a traversal root that does not exist or is not
// a directory.
var ErrNotDirectory = errors.New("not a directory")

// Progress receives per-file notifications during generation. Implementations
// must tolerate being called from the walking goroutine only; there is no
// concurrent delivery.
type Progress interface {
	OnFileProcessed(relPath string)
}

// Options carries the optional collaborators of a Generator.
type Options struct {
	// Cache, when set, is consulted before parsing a file and updated after.
	// Useful across repeated generations in watch mode.
	Cache *FragmentCache

	// Progress, when set, is notified once per processed source file.
	Progress Progress
}

// Generator produces outline reports for one fixed root directory.
type Generator struct {
	rootDir  string
	matcher  *ignore.Matcher
	parser   Parser
	cache    *FragmentCache
	progress Progress
}

// New creates a Generator. The root must exist and be a directory; that is
// checked here, before any traversal begins.
func New(rootDir string, matcher *ignore.Matcher, p Parser, opts Options) (*Generator, error) {
	info, err := os.Stat(rootDir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotDirectory, rootDir)
	}

	return &Generator{
		rootDir:  rootDir,
		matcher:  matcher,
		parser:   p,
		cache:    opts.Cache,
		progress: opts.Progress,
	}, nil
}

// Generate walks the tree depth-first and returns the assembled report.
// An empty tree yields an empty report, not an error. The first parse or
// I/O failure aborts the whole run.
func (g *Generator) Generate() (string, error) {
	return g.walk(g.rootDir)
}

// walk visits one directory and returns its subtree's fragment: per-file
// fragments and non-empty subdirectory fragments joined by one blank line,
// in listing order. Fragments are never reordered or deduplicated.
func (g *Generator) walk(dir string) (string, error) {
	entries, err := listEntries(dir)
	if err != nil {
		return "", err
	}

	var fragments []string
	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)
		rel := g.relPath(path)

		switch {
		case entry.IsDir():
			if g.matcher.Excluded(name, rel) {
				continue
			}
			sub, err := g.walk(path)
			if err != nil {
				return "", err
			}
			if sub != "" {
				fragments = append(fragments, sub)
			}

		case entry.Type().IsRegular():
			if g.matcher.Excluded(name, rel) || filepath.Ext(name) != sourceExt {
				continue
			}
			fragment, err := g.fileFragment(path, entry)
			if err != nil {
				return "", err
			}
			fragments = append(fragments, fragment)
			if g.progress != nil {
				g.progress.OnFileProcessed(rel)
			}

		default:
			// Symlinks and special files are silently skipped.
		}
	}

	return strings.Join(fragments, "\n\n"), nil
}

// fileFragment produces one file's fragment, going through the cache when
// one is configured. Cache entries are validated against mtime and size.
func (g *Generator) fileFragment(path string, entry fs.DirEntry) (string, error) {
	if g.cache == nil {
		return g.processFile(path)
	}

	info, err := entry.Info()
	if err != nil {
		return "", err
	}
	if fragment, ok := g.cache.Get(path, info); ok {
		return fragment, nil
	}

	fragment, err := g.processFile(path)
	if err != nil {
		return "", err
	}
	g.cache.Put(path, info, fragment)
	return fragment, nil
}

// relPath returns path relative to the traversal root, slash-separated for
// glob matching. Falls back to the base name if Rel fails.
func (g *Generator) relPath(path string) string {
	rel, err := filepath.Rel(g.rootDir, path)
	if err != nil {
		return filepath.Base(path)
	}
	return filepath.ToSlash(rel)
}

// listEntries lists a directory sorted by (is-file, lowercased name):
// directories first, then files, each group ordered case-insensitively.
// The sort is stable, so reruns on an unchanged directory agree.
func listEntries(dir string) ([]fs.DirEntry, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", dir, err)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].IsDir(), entries[j].IsDir()
		if di != dj {
			return di
		}
		return strings.ToLower(entries[i].Name()) < strings.ToLower(entries[j].Name())
	})

	return entries, nil
}
