// Package parser turns Python source text into a flat structural
// representation (imports, functions, classes) suitable for outlining.
// It is the one seam to the underlying syntax parser: callers depend on
// Parse and the SourceUnit types, never on tree-sitter directly.
package parser

import (
	"fmt"

	sitter "github.com/tree-sitter/go-tree-sitter"
	python "github.com/tree-sitter/tree-sitter-python/bindings/go"
)

// Python parses Python source text into a SourceUnit.
type Python struct {
	language *sitter.Language
}

// NewPython creates a new Python parser.
func NewPython() *Python {
	return &Python{language: sitter.NewLanguage(python.Language())}
}

// Parse parses source text and extracts its top-level declarations.
// Syntactically invalid input yields a *ParseError; there is no partial
// recovery.
func (p *Python) Parse(source []byte) (*SourceUnit, error) {
	parser := sitter.NewParser()
	defer parser.Close()

	parser.SetLanguage(p.language)

	tree := parser.Parse(source, nil)
	if tree == nil {
		return nil, fmt.Errorf("tree-sitter returned no parse tree")
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		perr := &ParseError{}
		if errNode := firstErrorNode(root); errNode != nil {
			pos := errNode.StartPosition()
			perr.Row = uint(pos.Row)
			perr.Column = uint(pos.Column)
		}
		return nil, perr
	}

	unit := &SourceUnit{}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		item := root.NamedChild(uint(i))
		switch item.Kind() {
		case "import_statement":
			unit.Decls = append(unit.Decls, p.extractImport(item, source))
		case "import_from_statement", "future_import_statement":
			unit.Decls = append(unit.Decls, p.extractImportFrom(item, source))
		case "function_definition":
			unit.Decls = append(unit.Decls, p.extractFunction(item, source))
		case "class_definition":
			unit.Decls = append(unit.Decls, p.extractClass(item, source))
		}
		// Everything else (statements, decorated definitions, docstrings)
		// has no place in the outline.
	}

	return unit, nil
}

// extractImport extracts a plain import statement. Aliased imports keep the
// module name, not the alias, matching how the names read in source order.
func (p *Python) extractImport(node *sitter.Node, source []byte) Import {
	imp := Import{}
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		if name := importedName(child, source); name != "" {
			imp.Names = append(imp.Names, name)
		}
	}
	return imp
}

// extractImportFrom extracts a from-import statement, including the
// `from __future__ import x` form and wildcard imports.
func (p *Python) extractImportFrom(node *sitter.Node, source []byte) ImportFrom {
	imp := ImportFrom{}

	moduleNode := node.ChildByFieldName("module_name")
	if node.Kind() == "future_import_statement" {
		imp.Module = "__future__"
	} else if moduleNode != nil {
		imp.Module = nodeText(moduleNode, source)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(uint(i))
		// The module name is itself a named child; skip it.
		if moduleNode != nil && child.StartByte() == moduleNode.StartByte() {
			continue
		}
		if child.Kind() == "wildcard_import" {
			imp.Names = append(imp.Names, "*")
			continue
		}
		if name := importedName(child, source); name != "" {
			imp.Names = append(imp.Names, name)
		}
	}
	return imp
}

// importedName resolves one import clause to the name it binds in source.
func importedName(node *sitter.Node, source []byte) string {
	switch node.Kind() {
	case "dotted_name":
		return nodeText(node, source)
	case "aliased_import":
		return nodeText(node.ChildByFieldName("name"), source)
	}
	return ""
}

// extractFunction extracts a function definition: its name, positional
// parameter names, and the direct-body simple assignment targets.
func (p *Python) extractFunction(node *sitter.Node, source []byte) Function {
	fn := Function{
		Name:   nodeText(node.ChildByFieldName("name"), source),
		Params: p.extractParams(node.ChildByFieldName("parameters"), source),
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return fn
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		stmt := body.NamedChild(uint(i))
		if stmt.Kind() != "expression_statement" {
			continue
		}
		if name := simpleAssignTarget(stmt, source); name != "" {
			fn.Vars = append(fn.Vars, name)
		}
	}
	return fn
}

// extractParams collects positional parameter names. Splat parameters and
// everything after a bare `*` are excluded, and a `/` separator resets the
// collected names since the ones before it are positional-only.
func (p *Python) extractParams(params *sitter.Node, source []byte) []string {
	if params == nil {
		return nil
	}

	var names []string
	for i := 0; i < int(params.NamedChildCount()); i++ {
		child := params.NamedChild(uint(i))
		switch child.Kind() {
		case "identifier":
			names = append(names, nodeText(child, source))
		case "typed_parameter":
			if inner := child.NamedChild(0); inner != nil && inner.Kind() == "identifier" {
				names = append(names, nodeText(inner, source))
			}
		case "default_parameter", "typed_default_parameter":
			if nameNode := child.ChildByFieldName("name"); nameNode != nil && nameNode.Kind() == "identifier" {
				names = append(names, nodeText(nameNode, source))
			}
		case "positional_separator":
			names = nil
		case "list_splat_pattern", "dictionary_splat_pattern", "keyword_separator":
			return names
		}
	}
	return names
}

// simpleAssignTarget returns the assigned name if stmt wraps an assignment
// whose left-hand side is a single bare identifier. Annotated, augmented,
// tuple, attribute, and subscript assignments all disqualify.
func simpleAssignTarget(stmt *sitter.Node, source []byte) string {
	assign := stmt.NamedChild(0)
	if assign == nil || assign.Kind() != "assignment" {
		return ""
	}
	if assign.ChildByFieldName("type") != nil {
		return ""
	}
	left := assign.ChildByFieldName("left")
	if left == nil || left.Kind() != "identifier" {
		return ""
	}
	return nodeText(left, source)
}

// extractClass extracts a class definition: its name, identifier-only base
// classes, and the function definitions that sit directly in its body.
func (p *Python) extractClass(node *sitter.Node, source []byte) Class {
	cls := Class{
		Name: nodeText(node.ChildByFieldName("name"), source),
	}

	if supers := node.ChildByFieldName("superclasses"); supers != nil {
		for i := 0; i < int(supers.NamedChildCount()); i++ {
			base := supers.NamedChild(uint(i))
			// Expression bases (attributes, calls, keyword arguments such
			// as metaclass=...) are dropped from the list silently.
			if base.Kind() == "identifier" {
				cls.Bases = append(cls.Bases, nodeText(base, source))
			}
		}
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return cls
	}
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(uint(i))
		if child.Kind() == "function_definition" {
			cls.Methods = append(cls.Methods, p.extractFunction(child, source))
		}
	}
	return cls
}
