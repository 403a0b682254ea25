// Package ast declares the location-bearing syntax tree produced by the
// ruulang parser: entities, relationships, grants, rules, entrypoints, and
// fragments (spec §3), plus the descent algorithm that backs hover (§4.8).
package ast

import (
	"reflect"

	"github.com/zwade/ruulang/token"
)

// Parsed wraps a payload with its originating byte range, source file, and
// any docstring gathered from preceding block comments (§3). Location is
// metadata: equality and hashing of the wrapped data must ignore it, so
// transformations that only touch Data can freely keep or drop location.
type Parsed[T any] struct {
	Pos       token.Pos
	File      string
	Docstring string
	Data      T
}

// NewParsed builds a Parsed value with full metadata.
func NewParsed[T any](data T, pos token.Pos, file, docstring string) Parsed[T] {
	return Parsed[T]{Pos: pos, File: file, Docstring: docstring, Data: data}
}

// NoLoc wraps data with no location information at all, useful for
// synthesized or test fixtures.
func NoLoc[T any](data T) Parsed[T] {
	return Parsed[T]{Data: data}
}

// WithData returns a copy of p carrying newData but the same location,
// file, and docstring — the equivalent of the original's as_with_data.
func WithData[T, U any](p Parsed[T], newData U) Parsed[U] {
	return Parsed[U]{Pos: p.Pos, File: p.File, Docstring: p.Docstring, Data: newData}
}

// WithFile returns a copy of p tagged with a new originating file, and the
// file it previously carried (into_with_filename in the original).
func WithFile[T any](p Parsed[T], file string) (Parsed[T], string) {
	old := p.File
	p.File = file
	return p, old
}

// WithDocstring returns a copy of p carrying a new docstring, and the one it
// previously carried.
func WithDocstring[T any](p Parsed[T], docstring string) (Parsed[T], string) {
	old := p.Docstring
	p.Docstring = docstring
	return p, old
}

// EqualData reports whether two Parsed values carry equal payloads,
// ignoring location, file, and docstring — the location-ignoring equality
// required by spec §3 and exercised by the parser round-trip invariant.
func (p Parsed[T]) EqualData(o Parsed[T]) bool {
	return reflect.DeepEqual(p.Data, o.Data)
}

// HasDocstring reports whether a docstring was attached at parse time.
func (p Parsed[T]) HasDocstring() bool {
	return p.Docstring != ""
}

// WithOrigin tags any value with the workspace-relative path of the file
// that produced it (§3 WithOrigin<T>).
type WithOrigin[T any] struct {
	Origin string
	Data   T
}

// NewWithOrigin constructs a WithOrigin value.
func NewWithOrigin[T any](data T, origin string) WithOrigin[T] {
	return WithOrigin[T]{Origin: origin, Data: data}
}

// MapWithOrigin transforms the wrapped data, keeping the origin.
func MapWithOrigin[T, U any](w WithOrigin[T], op func(T) U) WithOrigin[U] {
	return WithOrigin[U]{Origin: w.Origin, Data: op(w.Data)}
}
