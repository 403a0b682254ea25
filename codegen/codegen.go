package codegen

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/zwade/ruulang/ast"
)

// State accumulates the imports, exports, and rendered code blocks a
// Codegen implementation produces while walking a schema and file (spec
// §4.4). Renders are deterministic: imports and exports are stored in sets
// but always rendered in sorted order.
type State[Import comparable] struct {
	imports    map[Import]struct{}
	exports    map[string]struct{}
	codeBlocks []string
}

// NewState returns an empty State.
func NewState[Import comparable]() *State[Import] {
	return &State[Import]{
		imports: make(map[Import]struct{}),
		exports: make(map[string]struct{}),
	}
}

// AddImport records an import to be rendered once, however many times it
// is added.
func (s *State[Import]) AddImport(imp Import) {
	s.imports[imp] = struct{}{}
}

// AddExport records a top-level name to export.
func (s *State[Import]) AddExport(name string) {
	s.exports[name] = struct{}{}
}

// WriteCode appends a rendered code block, in call order.
func (s *State[Import]) WriteCode(code string) {
	s.codeBlocks = append(s.codeBlocks, code)
}

// Concat merges other into a new State, keeping s's code blocks before
// other's.
func (s *State[Import]) Concat(other *State[Import]) *State[Import] {
	merged := NewState[Import]()
	for imp := range s.imports {
		merged.imports[imp] = struct{}{}
	}
	for imp := range other.imports {
		merged.imports[imp] = struct{}{}
	}
	for exp := range s.exports {
		merged.exports[exp] = struct{}{}
	}
	for exp := range other.exports {
		merged.exports[exp] = struct{}{}
	}
	merged.codeBlocks = append(append([]string{}, s.codeBlocks...), other.codeBlocks...)
	return merged
}

// sortedImports returns s's import keys sorted with less, giving a
// deterministic render order.
func sortedImports[Import comparable](s *State[Import], less func(a, b Import) bool) []Import {
	out := make([]Import, 0, len(s.imports))
	for imp := range s.imports {
		out = append(out, imp)
	}
	sort.Slice(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Stringify renders imports, code blocks, then exports, in that order,
// joined by newlines (spec §4.4).
func (s *State[Import]) Stringify(c Codegen[Import]) string {
	var out []string

	entities, _ := c.SchemaAndFile()
	entityPaths := make(map[string]string, len(entities))
	for _, e := range entities {
		entityPaths[e.Data.Data.Name.Value] = strings.TrimSuffix(e.Origin, filepath.Ext(e.Origin))
	}

	for _, imp := range sortedImports(s, c.LessImport) {
		if rendered, ok := c.SerializeImport(imp, entityPaths); ok {
			out = append(out, rendered)
		}
	}

	out = append(out, s.codeBlocks...)

	exports := make([]string, 0, len(s.exports))
	for exp := range s.exports {
		exports = append(exports, exp)
	}
	sort.Strings(exports)
	for _, exp := range exports {
		if rendered, ok := c.SerializeExport(exp); ok {
			out = append(out, rendered)
		}
	}

	return strings.Join(out, "\n")
}

// Codegen is the interface a concrete back-end implements (spec §4.4).
// Every hook is optional: the zero value (ok=false / nil state) means "no
// output for this node", matching the original's Option<...>-returning
// trait methods.
type Codegen[Import comparable] interface {
	SchemaAndFile() ([]ast.WithOrigin[ast.Parsed[ast.Entity]], *ast.SourceFile)
	Origin() string

	// LessImport orders two imports for deterministic rendering.
	LessImport(a, b Import) bool

	SerializeImport(imp Import, entityPaths map[string]string) (string, bool)
	SerializeHeader() (*State[Import], bool)
	SerializeGrant(entity ast.Entity, grant ast.Grant) (*State[Import], bool)
	SerializeAttribute(entity ast.Entity, rel ast.Relationship, attr ast.Attribute) (*State[Import], bool)
	SerializeRelationship(entity ast.Entity, rel ast.Relationship) (*State[Import], bool)
	SerializeFragment(fragment ast.Fragment) (*State[Import], bool)
	SerializeEntrypoint(entrypoint ast.Entrypoint) (*State[Import], bool)
	SerializeEntity(entity ast.Entity) (*State[Import], bool)
	SerializeFooter() (*State[Import], bool)
	SerializeExport(export string) (string, bool)
}

// SerializeSchemaAndFile drives a Codegen implementation over its own
// schema/file pair in the fixed order spec §4.4 requires: header, then
// per-entity (grants, then per-relationship attributes and the
// relationship itself, then the entity), then entrypoints, then
// fragments, then footer.
func SerializeSchemaAndFile[Import comparable](c Codegen[Import]) string {
	state := NewState[Import]()
	entities, file := c.SchemaAndFile()
	origin := c.Origin()

	if s, ok := c.SerializeHeader(); ok {
		state = state.Concat(s)
	}

	for _, entity := range entities {
		if entity.Origin != origin {
			continue
		}

		for _, grant := range entity.Data.Data.Grants {
			if s, ok := c.SerializeGrant(entity.Data.Data, grant.Data); ok {
				state = state.Concat(s)
			}
		}

		for _, rel := range entity.Data.Data.Relationships {
			for _, attr := range rel.Data.Attributes {
				if s, ok := c.SerializeAttribute(entity.Data.Data, rel.Data, attr.Data); ok {
					state = state.Concat(s)
				}
			}
			if s, ok := c.SerializeRelationship(entity.Data.Data, rel.Data); ok {
				state = state.Concat(s)
			}
		}

		if s, ok := c.SerializeEntity(entity.Data.Data); ok {
			state = state.Concat(s)
		}
	}

	for _, entrypoint := range file.Entrypoints {
		if s, ok := c.SerializeEntrypoint(entrypoint.Data); ok {
			state = state.Concat(s)
		}
	}

	for _, fragment := range file.Fragments {
		if s, ok := c.SerializeFragment(fragment.Data); ok {
			state = state.Concat(s)
		}
	}

	if s, ok := c.SerializeFooter(); ok {
		state = state.Concat(s)
	}

	return state.Stringify(c)
}
