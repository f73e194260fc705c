package outline

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/pyoutline/internal/parser"
)

// Parser is the seam to the syntax parser backing extraction. The concrete
// implementation is parser.Python; tests substitute their own.
type Parser interface {
	Parse(source []byte) (*parser.SourceUnit, error)
}

// processFile reads and parses one source file and renders its outline
// fragment: a "- relative/path" header followed by one block of lines per
// recognized top-level declaration, in source order.
func (g *Generator) processFile(path string) (string, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}

	unit, err := g.parser.Parse(source)
	if err != nil {
		return "", fmt.Errorf("failed to parse %s: %w", path, err)
	}

	rel, err := filepath.Rel(g.rootDir, path)
	if err != nil {
		return "", err
	}

	lines := []string{"- " + filepath.ToSlash(rel)}
	for _, decl := range unit.Decls {
		switch d := decl.(type) {
		case parser.Import:
			lines = append(lines, "imports "+strings.Join(d.Names, ", "))
		case parser.ImportFrom:
			lines = append(lines, fmt.Sprintf("from %s imports %s", d.Module, strings.Join(d.Names, ", ")))
		case parser.Function:
			lines = append(lines, formatFunction(d, "")...)
		case parser.Class:
			lines = append(lines, formatClass(d)...)
		}
	}

	return strings.Join(lines, "\n"), nil
}

// formatFunction renders a function header and one "var" line per
// direct-body assignment target, each one tab deeper than the header.
func formatFunction(fn parser.Function, indent string) []string {
	out := []string{fmt.Sprintf("%sfunc %s(%s)", indent, fn.Name, strings.Join(fn.Params, ", "))}
	for _, v := range fn.Vars {
		out = append(out, indent+"\tvar "+v)
	}
	return out
}

// formatClass renders a class header followed by its methods. Methods sit
// one level deep, so their body variables come out two levels deep.
func formatClass(c parser.Class) []string {
	out := []string{fmt.Sprintf("class %s(%s)", c.Name, strings.Join(c.Bases, ", "))}
	for _, m := range c.Methods {
		out = append(out, formatFunction(m, "\t")...)
	}
	return out
}
