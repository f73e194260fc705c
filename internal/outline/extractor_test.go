package outline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mvp-joe/pyoutline/internal/ignore"
	"github.com/mvp-joe/pyoutline/internal/parser"
)

// Test Plan for the structure extractor:
// - Fragment opens with "- relative/path"
// - Imports render as "imports a, b" in source order
// - From-imports render as "from m imports a, b"
// - Functions render a header plus one tab-indented var line per assignment
// - Functions without qualifying assignments emit only the header
// - Classes render bases, methods one level deep, method vars two levels deep
// - Line order mirrors declaration and statement order exactly

func newGenerator(t *testing.T, root string, patterns []string, opts Options) *Generator {
	t.Helper()
	m, err := ignore.NewMatcher("", patterns)
	require.NoError(t, err)
	g, err := New(root, m, parser.NewPython(), opts)
	require.NoError(t, err)
	return g
}

func writeSource(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestExtractor_Imports(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.py", "import os, sys\n")

	g := newGenerator(t, root, nil, Options{})
	report, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "- a.py\nimports os, sys", report)
}

func TestExtractor_ImportFrom(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.py", "from pathlib import Path\n")

	g := newGenerator(t, root, nil, Options{})
	report, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "- a.py\nfrom pathlib imports Path", report)
}

func TestExtractor_FunctionWithVars(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.py", `def f(arg1, arg2):
    var1 = 1
    var2 = 2
`)

	g := newGenerator(t, root, nil, Options{})
	report, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "- a.py\nfunc f(arg1, arg2)\n\tvar var1\n\tvar var2", report)
}

func TestExtractor_FunctionWithoutVars(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.py", "def f():\n    pass\n")

	g := newGenerator(t, root, nil, Options{})
	report, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "- a.py\nfunc f()", report)
}

func TestExtractor_ClassWithMethod(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "a.py", `class C:
    def m(self):
        x = 1
`)

	g := newGenerator(t, root, nil, Options{})
	report, err := g.Generate()
	require.NoError(t, err)
	assert.Equal(t, "- a.py\nclass C()\n\tfunc m(self)\n\t\tvar x", report)
}

func TestExtractor_FullFile(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	writeSource(t, root, "pkg/mod.py", `import os, sys
from pathlib import Path

class User(Base):
    def __init__(self, name):
        local = name

def create(name):
    user = 1
`)

	g := newGenerator(t, root, nil, Options{})
	report, err := g.Generate()
	require.NoError(t, err)

	want := "- pkg/mod.py\n" +
		"imports os, sys\n" +
		"from pathlib imports Path\n" +
		"class User(Base)\n" +
		"\tfunc __init__(self, name)\n" +
		"\t\tvar local\n" +
		"func create(name)\n" +
		"\tvar user"
	assert.Equal(t, want, report)
}
