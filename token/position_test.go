package token

import "testing"

func TestFileOffset(t *testing.T) {
	content := []byte("abc\ndef\nghi")
	f := NewFile("x.ruulang", content)

	cases := []struct {
		offset int
		line   int
		column int
	}{
		{0, 1, 1},
		{3, 1, 4},
		{4, 2, 1},
		{7, 2, 4},
		{8, 3, 1},
		{10, 3, 3},
	}

	for _, c := range cases {
		got := f.Offset(c.offset)
		if got.Line != c.line || got.Column != c.column {
			t.Errorf("Offset(%d) = %d:%d, want %d:%d", c.offset, got.Line, got.Column, c.line, c.column)
		}
	}
}

func TestFileOffsetClamps(t *testing.T) {
	f := NewFile("x.ruulang", []byte("abc"))
	if got := f.Offset(-5); got.Offset != 0 {
		t.Errorf("negative offset not clamped: %+v", got)
	}
	if got := f.Offset(100); got.Offset != 3 {
		t.Errorf("overlong offset not clamped: %+v", got)
	}
}

func TestPosCovers(t *testing.T) {
	outer := Pos{Start: 0, End: 10}
	inner := Pos{Start: 2, End: 5}
	if !outer.Covers(inner) {
		t.Errorf("expected outer to cover inner")
	}
	if outer.Covers(Pos{Start: 0, End: 11}) {
		t.Errorf("expected outer to not cover a wider range")
	}
}
