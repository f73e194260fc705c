package parser

// SourceUnit is the parsed structural representation of one source file:
// its top-level declarations in source order. It lives only for the
// duration of one file's outline extraction.
type SourceUnit struct {
	Decls []Declaration
}

// Declaration is the tagged variant over the declaration kinds the outline
// recognizes. Anything else in a source file is simply not represented.
type Declaration interface {
	decl()
}

// Import is a plain import statement (`import os, sys`).
type Import struct {
	Names []string
}

// ImportFrom is a from-import statement (`from pathlib import Path`).
type ImportFrom struct {
	Module string
	Names  []string
}

// Function is a function or method definition. Vars holds the names of
// direct-body assignments whose left-hand side is a single bare identifier;
// nested-scope assignments are never included.
type Function struct {
	Name   string
	Params []string
	Vars   []string
}

// Class is a class definition. Bases keeps only bases that are simple
// identifiers; Methods keeps only function definitions that are direct
// children of the class body.
type Class struct {
	Name    string
	Bases   []string
	Methods []Function
}

func (Import) decl()     {}
func (ImportFrom) decl() {}
func (Function) decl()   {}
func (Class) decl()      {}
