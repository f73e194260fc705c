package outline

import (
	"io/fs"
	"path/filepath"

	"github.com/mvp-joe/pyoutline/internal/ignore"
)

// CountSourceFiles walks the tree applying the same exclusion rules as
// Generate and counts the source files generation would process. Used to
// size the progress bar before the real walk.
func CountSourceFiles(rootDir string, matcher *ignore.Matcher) (int, error) {
	count := 0
	err := filepath.WalkDir(rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == rootDir {
			return nil
		}

		rel, err := filepath.Rel(rootDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if matcher.Excluded(d.Name(), rel) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if matcher.Excluded(d.Name(), rel) || filepath.Ext(path) != sourceExt {
			return nil
		}

		count++
		return nil
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}
