package parser

import (
	"testing"

	"github.com/zwade/ruulang/ruulangerrors"
)

func mustParse(t *testing.T, src string) []Statement {
	t.Helper()
	stmts, err := Parse([]byte(src))
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}
	return stmts
}

func TestParseEntityWithRelationshipAndGrant(t *testing.T) {
	src := `
entity User {
    org: Organization {
        :readonly
    }
    read.self;
}
`
	stmts := mustParse(t, src)
	if len(stmts) != 1 || stmts[0].Kind != StmtEntity {
		t.Fatalf("expected one entity statement, got %#v", stmts)
	}
	ent := stmts[0].Entity.Data
	if ent.Name.Value != "User" {
		t.Errorf("got entity name %q", ent.Name.Value)
	}
	if len(ent.Relationships) != 1 || ent.Relationships[0].Data.RelationshipName.Value != "org" {
		t.Fatalf("unexpected relationships: %#v", ent.Relationships)
	}
	if len(ent.Relationships[0].Data.Attributes) != 1 || ent.Relationships[0].Data.Attributes[0].Data.Name.Data.Value != "readonly" {
		t.Fatalf("unexpected attributes: %#v", ent.Relationships[0].Data.Attributes)
	}
	if len(ent.Grants) != 1 || ent.Grants[0].Data.String() != "read.self" {
		t.Fatalf("unexpected grants: %#v", ent.Grants)
	}
}

func TestParseAttributeWithArguments(t *testing.T) {
	src := `
entity User {
    org: Organization {
        :limit(n, m)
    }
}
`
	stmts := mustParse(t, src)
	attr := stmts[0].Entity.Data.Relationships[0].Data.Attributes[0].Data
	if attr.Name.Data.Value != "limit" {
		t.Fatalf("got attribute name %q", attr.Name.Data.Value)
	}
	if len(attr.Arguments) != 2 || attr.Arguments[0] != "n" || attr.Arguments[1] != "m" {
		t.Fatalf("unexpected arguments: %#v", attr.Arguments)
	}
}

func TestParseFragment(t *testing.T) {
	src := `
fragment Viewer for User {
    read.self;
    org {
        read.org;
    }
}
`
	stmts := mustParse(t, src)
	if len(stmts) != 1 || stmts[0].Kind != StmtFragment {
		t.Fatalf("expected one fragment statement, got %#v", stmts)
	}
	frag := stmts[0].Fragment.Data
	if frag.Name.Value != "Viewer" || frag.ForEntity.Value != "User" {
		t.Fatalf("unexpected fragment header: %#v", frag)
	}
	if len(frag.Grants) != 1 || frag.Grants[0].Data.String() != "read.self" {
		t.Fatalf("unexpected fragment grants: %#v", frag.Grants)
	}
	if len(frag.Rules) != 1 || frag.Rules[0].Data.Relationship.Value != "org" {
		t.Fatalf("unexpected fragment rules: %#v", frag.Rules)
	}
}

func TestParseEntrypointWithWildcardAndFragmentInclude(t *testing.T) {
	src := `
@User {
    org {
        #Viewer;
        *
    }
}
`
	stmts := mustParse(t, src)
	if len(stmts) != 1 || stmts[0].Kind != StmtEntrypoint {
		t.Fatalf("expected one entrypoint statement, got %#v", stmts)
	}
	ep := stmts[0].Entrypoint.Data
	if ep.Entrypoint.Value != "User" {
		t.Fatalf("unexpected entrypoint name: %q", ep.Entrypoint.Value)
	}
	if len(ep.Rules) != 1 || ep.Rules[0].Data.Relationship.Value != "org" {
		t.Fatalf("unexpected rules: %#v", ep.Rules)
	}
	orgRule := ep.Rules[0].Data
	if len(orgRule.IncludeFragments) != 1 || orgRule.IncludeFragments[0].Data.Value != "Viewer" {
		t.Fatalf("unexpected fragment includes: %#v", orgRule.IncludeFragments)
	}
	if len(orgRule.Rules) != 1 || !orgRule.Rules[0].Data.IsWildcard() {
		t.Fatalf("unexpected nested rules: %#v", orgRule.Rules)
	}
}

func TestParseDocstringAttachesToFollowingEntity(t *testing.T) {
	src := `
/*
 * A user of the system.
 */
entity User {
}
`
	stmts := mustParse(t, src)
	var entityStmt *Statement
	for i := range stmts {
		if stmts[i].Kind == StmtEntity {
			entityStmt = &stmts[i]
		}
	}
	if entityStmt == nil {
		t.Fatal("expected an entity statement")
	}
	if entityStmt.Entity.Docstring != "A user of the system." {
		t.Fatalf("unexpected docstring: %q", entityStmt.Entity.Docstring)
	}
}

func TestParseErrorReportsOffset(t *testing.T) {
	src := `entity User { !!! }`
	_, err := Parse([]byte(src))
	if err == nil {
		t.Fatal("expected a parse error")
	}
	pe, ok := err.(*ruulangerrors.ParseError)
	if !ok {
		t.Fatalf("unexpected error type: %T", err)
	}
	if pe.Offset != 14 {
		t.Fatalf("got offset %d, want 14 (the first '!')", pe.Offset)
	}
}

func TestAssembleCollatesStatements(t *testing.T) {
	src := `
entity User {}
fragment F for User {}
@User {}
`
	stmts := mustParse(t, src)
	schema, file := Assemble(stmts)
	if len(schema.Entities) != 1 {
		t.Fatalf("expected 1 schema entity, got %d", len(schema.Entities))
	}
	if len(file.Entities) != 1 || len(file.Fragments) != 1 || len(file.Entrypoints) != 1 {
		t.Fatalf("unexpected assembled file: %#v", file)
	}
}
