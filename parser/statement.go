package parser

import "github.com/zwade/ruulang/ast"

// StatementKind tags one top-level construct the parser produced (spec §4.2:
// "an ordered sequence of top-level statements (Comment | Fragment |
// Entrypoint | Entity)").
type StatementKind int

const (
	StmtComment StatementKind = iota
	StmtFragment
	StmtEntrypoint
	StmtEntity
)

// Statement is one top-level construct, still in source order, before the
// assembler separates it into a Schema and a SourceFile.
type Statement struct {
	Kind       StatementKind
	Comment    string
	Fragment   ast.Parsed[ast.Fragment]
	Entrypoint ast.Parsed[ast.Entrypoint]
	Entity     ast.Parsed[ast.Entity]
}

// Assemble collates an ordered statement list into a Schema (just the
// entities, for the symbol index) and a SourceFile (entrypoints, fragments,
// entities, each in declaration order) — spec §4.2's "assembler collates
// statements into (Schema{entities}, SourceFile{...})".
func Assemble(stmts []Statement) (ast.Schema, ast.SourceFile) {
	var schema ast.Schema
	var file ast.SourceFile

	for _, s := range stmts {
		switch s.Kind {
		case StmtComment:
			// Comments only contribute docstrings, attached during parsing;
			// they carry no data into the assembled tree.
		case StmtFragment:
			file.Fragments = append(file.Fragments, s.Fragment)
		case StmtEntrypoint:
			file.Entrypoints = append(file.Entrypoints, s.Entrypoint)
		case StmtEntity:
			file.Entities = append(file.Entities, s.Entity)
			schema.Entities = append(schema.Entities, s.Entity)
		}
	}

	return schema, file
}
