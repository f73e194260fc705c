package outline

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/pyoutline/internal/ignore"
	"github.com/mvp-joe/pyoutline/internal/parser"
)

// Test Plan for the walker:
// - Directories are visited before files, both case-insensitively sorted
// - Fragments are separated by exactly one blank line, no leading/trailing
// - Excluded directories are never descended into (sentinel check)
// - The ignore file itself never appears in a report
// - Non-Python files are silently skipped
// - An empty tree yields an empty report, not an error
// - A missing or non-directory root fails construction with ErrNotDirectory
// - A parse failure aborts the whole run
// - Rerunning on an unchanged tree yields an identical report

func TestWalker_VisitOrder(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "B.py", "import sys\n")
	writeSource(t, root, "a.py", "import os\n")
	writeSource(t, root, "sub/z.py", "import re\n")

	g := newGenerator(t, root, nil, Options{})
	report, err := g.Generate()
	require.NoError(t, err)

	// Directory "sub" sorts before the files; "a.py" before "B.py"
	// case-insensitively.
	want := "- sub/z.py\nimports re\n\n- a.py\nimports os\n\n- B.py\nimports sys"
	assert.Equal(t, want, report)
}

func TestWalker_FragmentSeparator(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.py", "import os\n")
	writeSource(t, root, "b.py", "import sys\n")

	g := newGenerator(t, root, nil, Options{})
	report, err := g.Generate()
	require.NoError(t, err)

	assert.Equal(t, "- a.py\nimports os\n\n- b.py\nimports sys", report)
	assert.False(t, strings.HasPrefix(report, "\n"))
	assert.False(t, strings.HasSuffix(report, "\n"))
}

func TestWalker_ExcludedDirectoryNeverVisited(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "keep.py", "import os\n")
	// The sentinel is deliberately unparseable: descending into the
	// excluded directory would abort the run, so a clean pass proves the
	// directory was skipped entirely.
	writeSource(t, root, "skipdir/sentinel.py", "def broken(:\n")

	g := newGenerator(t, root, []string{"skipdir"}, Options{})
	report, err := g.Generate()
	require.NoError(t, err)

	assert.Equal(t, "- keep.py\nimports os", report)
	assert.NotContains(t, report, "sentinel")
}

func TestWalker_IgnoreFileNeverReported(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, ".gitignore", "*.pyc\n")
	writeSource(t, root, "a.py", "import os\n")

	g := newGenerator(t, root, nil, Options{})
	report, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "- a.py\nimports os", report)
}

func TestWalker_PatternExcludesFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.py", "import os\n")
	writeSource(t, root, "a_test.py", "import sys\n")

	g := newGenerator(t, root, []string{"*_test.py"}, Options{})
	report, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "- a.py\nimports os", report)
}

func TestWalker_NonSourceFilesSkipped(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "README.md", "# readme\n")
	writeSource(t, root, "data.json", "{}\n")
	writeSource(t, root, "a.py", "import os\n")

	g := newGenerator(t, root, nil, Options{})
	report, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "- a.py\nimports os", report)
}

func TestWalker_EmptyTree(t *testing.T) {
	t.Parallel()

	g := newGenerator(t, t.TempDir(), nil, Options{})
	report, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "", report)
}

func TestWalker_EmptySubdirectoryContributesNothing(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "empty"), 0o755))
	writeSource(t, root, "a.py", "import os\n")

	g := newGenerator(t, root, nil, Options{})
	report, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "- a.py\nimports os", report)
}

func TestWalker_InvalidRoot(t *testing.T) {
	t.Parallel()

	m, err := ignore.NewMatcher("", nil)
	require.NoError(t, err)

	_, err = New(filepath.Join(t.TempDir(), "absent"), m, parser.NewPython(), Options{})
	assert.ErrorIs(t, err, ErrNotDirectory)

	file := filepath.Join(t.TempDir(), "file.py")
	require.NoError(t, os.WriteFile(file, []byte("import os\n"), 0o644))
	_, err = New(file, m, parser.NewPython(), Options{})
	assert.ErrorIs(t, err, ErrNotDirectory)
}

func TestWalker_ParseFailureAbortsRun(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "good.py", "import os\n")
	writeSource(t, root, "zzz_bad.py", "def broken(:\n")

	g := newGenerator(t, root, nil, Options{})
	_, err := g.Generate()
	require.Error(t, err)

	var perr *parser.ParseError
	assert.True(t, errors.As(err, &perr))
	assert.Contains(t, err.Error(), "zzz_bad.py")
}

func TestWalker_Deterministic(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.py", "import os\n")
	writeSource(t, root, "b/c.py", "import sys\n")
	writeSource(t, root, "b/d.py", "import re\n")

	g := newGenerator(t, root, nil, Options{})
	first, err := g.Generate()
	require.NoError(t, err)
	second, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCountSourceFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.py", "import os\n")
	writeSource(t, root, "b/c.py", "import sys\n")
	writeSource(t, root, "b/notes.txt", "not code\n")
	writeSource(t, root, "skipdir/d.py", "import re\n")
	writeSource(t, root, ".gitignore", "\n")

	m, err := ignore.NewMatcher("", []string{"skipdir"})
	require.NoError(t, err)

	count, err := CountSourceFiles(root, m)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
