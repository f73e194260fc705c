package outline

import (
	"io/fs"

	"github.com/maypok86/otter"
)

// cachedFragment pairs an outline fragment with the file state it was
// produced from. Mtime plus size is the same cheap staleness check the
// rest of the tool uses; a content hash would be overkill for watch mode.
type cachedFragment struct {
	modTime int64
	size    int64
	text    string
}

// FragmentCache remembers per-file outline fragments across report
// generations, keyed by absolute path and validated by (mtime, size).
// Watch mode reuses it so a regeneration only reparses changed files.
type FragmentCache struct {
	entries otter.Cache[string, cachedFragment]
}

// NewFragmentCache creates a cache holding up to capacity fragments.
func NewFragmentCache(capacity int) (*FragmentCache, error) {
	entries, err := otter.MustBuilder[string, cachedFragment](capacity).Build()
	if err != nil {
		return nil, err
	}
	return &FragmentCache{entries: entries}, nil
}

// Get returns the cached fragment for path if the file's current mtime and
// size still match the ones the fragment was produced from.
func (c *FragmentCache) Get(path string, info fs.FileInfo) (string, bool) {
	entry, ok := c.entries.Get(path)
	if !ok || entry.modTime != info.ModTime().UnixNano() || entry.size != info.Size() {
		return "", false
	}
	return entry.text, true
}

// Put stores a fragment together with the file state it was produced from.
func (c *FragmentCache) Put(path string, info fs.FileInfo, text string) {
	c.entries.Set(path, cachedFragment{
		modTime: info.ModTime().UnixNano(),
		size:    info.Size(),
		text:    text,
	})
}

// Close releases the cache's resources.
func (c *FragmentCache) Close() {
	c.entries.Close()
}
