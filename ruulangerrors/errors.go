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

// Package ruulangerrors defines the error kinds shared across the parser,
// typechecker, codegen, and workspace (spec §7), following the shape of the
// teacher's cue/errors package: a small Error interface plus a List that
// aggregates without discarding.
package ruulangerrors

import (
	"fmt"
	"strings"

	"github.com/zwade/ruulang/token"
)

// Error is the common interface satisfied by every ruulang error kind.
type Error interface {
	error
	// Position returns the primary location of the error, or token.NoPos.
	Position() token.Pos
}

// FileNotFound reports an I/O failure reading a workspace source file.
type FileNotFound struct {
	Message string
}

func (e *FileNotFound) Error() string       { return e.Message }
func (e *FileNotFound) Position() token.Pos { return token.NoPos }

// ConfigParseError reports a TOML decode failure for the workspace config.
type ConfigParseError struct {
	Detail string
}

func (e *ConfigParseError) Error() string       { return fmt.Sprintf("invalid config: %s", e.Detail) }
func (e *ConfigParseError) Position() token.Pos { return token.NoPos }

// ParseError is the single diagnostic shape every grammar failure collapses
// to, regardless of the parser's internal error variant (spec §4.2):
// extra-token, invalid-token, unrecognized-EOF, and unrecognized-token all
// reduce to a byte offset; user errors carry a short message.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("parse error at byte %d: %s", e.Offset, e.Message)
	}
	return fmt.Sprintf("parse error at byte %d", e.Offset)
}

func (e *ParseError) Position() token.Pos { return token.Pos{Start: e.Offset, End: e.Offset} }

// DuplicateRelationship reports that an entity redeclared a relationship
// name. Per spec §3 this is policy-documented as a silent first-wins drop
// rather than a hard error; the type exists so callers that want to surface
// it as a diagnostic (rather than rely on the silent policy) can.
type DuplicateRelationship struct {
	Pos              token.Pos
	EntityName       string
	RelationshipName string
}

func (e *DuplicateRelationship) Error() string {
	return fmt.Sprintf("duplicate relationship %q on entity %q", e.RelationshipName, e.EntityName)
}
func (e *DuplicateRelationship) Position() token.Pos { return e.Pos }

// GeneralError is a human-readable, positioned message: the catch-all for
// UnknownEntity, UnknownRelationship, DisallowedGrant, InvalidGrant, and
// UnknownFragment (spec §4.3, §7).
type GeneralError struct {
	Pos     token.Pos
	Message string
}

func (e *GeneralError) Error() string       { return e.Message }
func (e *GeneralError) Position() token.Pos { return e.Pos }

// Other is an error with a fixed, static message not tied to a location.
type Other struct {
	Message string
}

func (e *Other) Error() string       { return e.Message }
func (e *Other) Position() token.Pos { return token.NoPos }

// List aggregates diagnostics without discarding any of them (spec §4.3:
// "Diagnostics are aggregated, never thrown; the file continues to be
// checked after the first failure"). It implements error so a List can be
// returned or wrapped like any other error, while still exposing its
// members for per-diagnostic reporting.
type List []Error

func (l List) Error() string {
	if len(l) == 0 {
		return ""
	}
	parts := make([]string, len(l))
	for i, e := range l {
		parts[i] = e.Error()
	}
	return strings.Join(parts, "; ")
}

// Add appends a new diagnostic in place.
func (l *List) Add(e Error) {
	*l = append(*l, e)
}

// Len reports the diagnostic count.
func (l List) Len() int { return len(l) }
