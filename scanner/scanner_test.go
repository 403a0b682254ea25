package scanner

import "testing"

func TestScanBasic(t *testing.T) {
	src := `entity User { read.self; }`
	s := New([]byte(src))

	var kinds []Kind
	for {
		tok := s.Next()
		kinds = append(kinds, tok.Kind)
		if tok.Kind == EOF {
			break
		}
	}

	want := []Kind{IDENT, IDENT, LBRACE, IDENT, DOT, IDENT, SEMI, RBRACE, EOF}
	if len(kinds) != len(want) {
		t.Fatalf("got %d tokens %v, want %d", len(kinds), kinds, len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("token %d: got %v, want %v", i, kinds[i], want[i])
		}
	}
}

func TestScanComment(t *testing.T) {
	src := "/* hello\n * world\n */\nentity X {}"
	s := New([]byte(src))

	tok := s.Next()
	if tok.Kind != COMMENT {
		t.Fatalf("got %v, want COMMENT", tok.Kind)
	}
	if tok.Literal != "/* hello\n * world\n */" {
		t.Errorf("unexpected comment literal: %q", tok.Literal)
	}

	tok = s.Next()
	if tok.Kind != IDENT || tok.Literal != "entity" {
		t.Errorf("got %v %q, want IDENT entity", tok.Kind, tok.Literal)
	}
}

func TestScanPunctuation(t *testing.T) {
	src := "@ # . ; : , * { } ( )"
	s := New([]byte(src))
	want := []Kind{AT, HASH, DOT, SEMI, COLON, COMMA, STAR, LBRACE, RBRACE, LPAREN, RPAREN, EOF}
	for _, k := range want {
		tok := s.Next()
		if tok.Kind != k {
			t.Errorf("got %v, want %v", tok.Kind, k)
		}
	}
}

func TestScanIllegal(t *testing.T) {
	s := New([]byte("$"))
	tok := s.Next()
	if tok.Kind != ILLEGAL {
		t.Fatalf("got %v, want ILLEGAL", tok.Kind)
	}
}
