package jsongen

import (
	"encoding/json"
	"testing"

	"github.com/zwade/ruulang/parser"
)

func TestMarshalErasesLocationAndIsStable(t *testing.T) {
	src := `
entity Organization {
    read.self;
}
entity User {
    org: Organization {
        :readonly
    }
}
@User {
    org {
        read.self;
    }
}
`
	stmts, err := parser.Parse([]byte(src))
	if err != nil {
		t.Fatalf("parse error: %v", err)
	}
	_, file := parser.Assemble(stmts)

	out, err := Marshal(&file)
	if err != nil {
		t.Fatalf("Marshal error: %v", err)
	}

	var generic map[string]interface{}
	if err := json.Unmarshal(out, &generic); err != nil {
		t.Fatalf("produced invalid JSON: %v", err)
	}
	if _, ok := generic["pos"]; ok {
		t.Error("expected no location field in output")
	}
	if _, ok := generic["docstring"]; ok {
		t.Error("expected no docstring field in output")
	}

	out2, err := Marshal(&file)
	if err != nil {
		t.Fatalf("second Marshal error: %v", err)
	}
	if string(out) != string(out2) {
		t.Error("expected Marshal to be deterministic across calls")
	}
}
