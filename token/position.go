// Copyright 2018 The CUE Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package token defines byte-offset positions used throughout the parser,
// typechecker, and editor-facing diagnostics.
package token

import (
	"fmt"
	"sort"
)

// Pos is a half-open byte offset range (§3 Invariants: "Location ranges are
// half-open byte offsets into the original source"). End may equal Start for
// a zero-width position.
type Pos struct {
	Start int
	End   int
}

// NoPos is the zero value; it carries no location information.
var NoPos = Pos{}

// IsValid reports whether p carries real offsets.
func (p Pos) IsValid() bool {
	return p != NoPos
}

// Covers reports whether p fully contains q, inclusive of equal bounds. Used
// by the descent algorithm (§4.8) to decide which child's range covers a
// hover query.
func (p Pos) Covers(q Pos) bool {
	return p.Start <= q.Start && q.End <= p.End
}

// String renders "start-end" for debugging and error messages.
func (p Pos) String() string {
	if !p.IsValid() {
		return "-"
	}
	return fmt.Sprintf("%d-%d", p.Start, p.End)
}

// Position is the human-facing line/column unpacking of a Pos, relative to a
// particular file's content.
type Position struct {
	Filename string
	Offset   int
	Line     int
	Column   int
}

// IsValid reports whether the position carries a resolved line number.
func (p Position) IsValid() bool { return p.Line > 0 }

// String renders "file:line:column", omitting parts that aren't available.
func (p Position) String() string {
	s := p.Filename
	if p.IsValid() {
		if s != "" {
			s += ":"
		}
		s += fmt.Sprintf("%d:%d", p.Line, p.Column)
	}
	if s == "" {
		s = "-"
	}
	return s
}

// File precomputes the cumulative byte-prefix sums for a source's lines so
// that repeated offset→line/column lookups (one per diagnostic, one per
// hover request) are O(log n) instead of rescanning the source each time.
// This is the utility named in spec.md §6 ("a utility that precomputes
// per-line cumulative byte prefix sums").
type File struct {
	name string
	size int
	// lineStarts[i] is the byte offset of the first character of line i+1.
	lineStarts []int
}

// NewFile builds the line table for content.
func NewFile(name string, content []byte) *File {
	f := &File{name: name, size: len(content), lineStarts: []int{0}}
	for i, b := range content {
		if b == '\n' {
			f.lineStarts = append(f.lineStarts, i+1)
		}
	}
	return f
}

// Name returns the file name this table was built for.
func (f *File) Name() string { return f.name }

// Size returns the content length in bytes.
func (f *File) Size() int { return f.size }

// Offset resolves a byte offset to a Position. Offsets outside [0, size] are
// clamped, mirroring the teacher's token.File.Offset/Pos clamping behavior.
func (f *File) Offset(offset int) Position {
	if offset < 0 {
		offset = 0
	}
	if offset > f.size {
		offset = f.size
	}

	// Find the last line start <= offset.
	i := sort.Search(len(f.lineStarts), func(i int) bool {
		return f.lineStarts[i] > offset
	}) - 1
	if i < 0 {
		i = 0
	}

	return Position{
		Filename: f.name,
		Offset:   offset,
		Line:     i + 1,
		Column:   offset - f.lineStarts[i] + 1,
	}
}

// Range resolves both ends of p to a pair of Positions.
func (f *File) Range(p Pos) (start, end Position) {
	return f.Offset(p.Start), f.Offset(p.End)
}
