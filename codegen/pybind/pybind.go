// Package pybind implements the typed-binding codegen back-end, targeting
// Python (spec §4.6). It drives the generic codegen.Codegen visitor
// (codegen/codegen.go) to emit one class per relationship, attribute,
// fragment, and entrypoint, plus a footer class embedding the file's AST
// as JSON for runtime replay. Ported from the original compiler's
// codegen/python.rs.
package pybind

import (
	"path/filepath"
	"strings"

	"github.com/zwade/ruulang/ast"
	"github.com/zwade/ruulang/codegen"
	"github.com/zwade/ruulang/codegen/jsongen"
)

type importKind int

const (
	globalNamed importKind = iota
	globalModule
	localImport
)

// Import is the codegen.Codegen Import type for the Python back-end: a
// bare module import, a `from module import name`, or a same-workspace
// import of a generated class from another file.
type Import struct {
	kind   importKind
	module string
	name   string
	entity string
}

// NewGlobal is a `from module import name` import.
func NewGlobal(module, name string) Import {
	return Import{kind: globalNamed, module: module, name: name}
}

// NewGlobalModule is a bare `import module`.
func NewGlobalModule(module string) Import {
	return Import{kind: globalModule, module: module}
}

// NewLocal imports a generated class named value, defined for entity,
// from whichever file that entity is declared in.
func NewLocal(entity, value string) Import {
	return Import{kind: localImport, entity: entity, name: value}
}

func withClass(h *codegen.Helper, name string, subclasses []string, body func(*codegen.Helper)) {
	h.WriteToken("class")
	h.WriteToken(name)
	if len(subclasses) > 0 {
		h.WithParens(func(h *codegen.Helper) {
			codegen.IterAndJoin(h, subclasses, ", ", func(h *codegen.Helper, s string) { h.Write(s) })
		})
	}
	h.WriteLine(":")
	h.WithIndent(body)
}

func newHelper() *codegen.Helper { return codegen.NewHelper("    ", "\n") }

// Codegen is the Python typed-binding back-end for one source file.
type Codegen struct {
	origin        string
	fileStem      string
	workspaceRoot string
	entities      []ast.WithOrigin[ast.Parsed[ast.Entity]]
	file          *ast.SourceFile
}

// New builds a Python Codegen for one source file, given every entity
// declared anywhere in the workspace (for cross-file type resolution) and
// the workspace root (for computing relative import paths).
func New(origin, workspaceRoot string, entities []ast.WithOrigin[ast.Parsed[ast.Entity]], file *ast.SourceFile) *Codegen {
	stem := filepath.Base(origin)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	return &Codegen{origin: origin, fileStem: stem, workspaceRoot: workspaceRoot, entities: entities, file: file}
}

// Render runs the generic codegen driver and returns the generated Python
// source.
func (c *Codegen) Render() string {
	return codegen.SerializeSchemaAndFile[Import](c)
}

func (c *Codegen) SchemaAndFile() ([]ast.WithOrigin[ast.Parsed[ast.Entity]], *ast.SourceFile) {
	return c.entities, c.file
}

func (c *Codegen) Origin() string { return c.origin }

func (c *Codegen) LessImport(a, b Import) bool {
	if a.kind != b.kind {
		return a.kind < b.kind
	}
	if a.module != b.module {
		return a.module < b.module
	}
	if a.entity != b.entity {
		return a.entity < b.entity
	}
	return a.name < b.name
}

func (c *Codegen) SerializeImport(imp Import, entityPaths map[string]string) (string, bool) {
	h := newHelper()
	switch imp.kind {
	case globalNamed:
		h.WriteToken("from")
		h.WriteToken(imp.module)
		h.WriteToken("import")
		h.WriteToken(imp.name)
		return h.Serialize(), true

	case globalModule:
		h.WriteToken("import")
		h.WriteToken(imp.module)
		return h.Serialize(), true

	case localImport:
		path, ok := entityPaths[imp.entity]
		if !ok {
			return "", false
		}
		localPath := strings.TrimSuffix(c.origin, filepath.Ext(c.origin))
		if path == localPath {
			return "", false
		}
		rel, err := filepath.Rel(c.workspaceRoot, path)
		if err != nil {
			return "", false
		}
		parts := strings.Split(filepath.ToSlash(rel), "/")
		h.WriteToken("from")
		codegen.IterAndJoin(h, parts, ".", func(h *codegen.Helper, s string) { h.Write(s) })
		h.Write(" ")
		h.WriteToken("import")
		h.WriteToken(imp.name)
		return h.Serialize(), true
	}
	return "", false
}

func (c *Codegen) SerializeHeader() (*codegen.State[Import], bool) { return nil, false }

func (c *Codegen) SerializeGrant(entity ast.Entity, grant ast.Grant) (*codegen.State[Import], bool) {
	return nil, false
}

func (c *Codegen) SerializeAttribute(entity ast.Entity, rel ast.Relationship, attr ast.Attribute) (*codegen.State[Import], bool) {
	h := newHelper()
	attrName := codegen.CamelCase(entity.Name.Value) + codegen.CamelCase(rel.RelationshipName.Value) + codegen.CamelCase(attr.Name.Data.Value) + "Attr"

	h.WriteLine(`@registry.register_attribute("` + entity.Name.Value + `", "` + rel.RelationshipName.Value + `", "` + attr.Name.Data.Value + `")`)
	withClass(h, attrName, []string{"Attribute"}, func(h *codegen.Helper) {
		h.Write("name: Literal[")
		h.WithDoubleQuote(func(h *codegen.Helper) { h.Write(attr.Name.Data.Value) })
		h.Write("]")
		h.WriteLine("")
	})

	state := codegen.NewState[Import]()
	state.AddImport(NewGlobal("slang_runtime", "Attribute"))
	state.AddImport(NewGlobal("slang_runtime", "registry"))
	state.AddImport(NewGlobal("typing", "Literal"))
	state.WriteCode(h.Serialize())
	return state, true
}

func (c *Codegen) findEntity(name string) (ast.Entity, bool) {
	for _, e := range c.entities {
		if e.Data.Data.Name.Value == name {
			return e.Data.Data, true
		}
	}
	return ast.Entity{}, false
}

func (c *Codegen) SerializeRelationship(entity ast.Entity, rel ast.Relationship) (*codegen.State[Import], bool) {
	state := codegen.NewState[Import]()
	h := newHelper()
	relName := codegen.CamelCase(entity.Name.Value) + codegen.CamelCase(rel.RelationshipName.Value) + "Rule"

	h.WriteLine(`@registry.register_relationship("` + entity.Name.Value + `", "` + rel.RelationshipName.Value + `", "` + rel.EntityName.Value + `")`)
	withClass(h, relName, []string{"Rule"}, func(h *codegen.Helper) {
		h.Write("relationship: Literal[")
		h.WithDoubleQuote(func(h *codegen.Helper) { h.Write(rel.RelationshipName.Value) })
		h.Write("]")
		h.WriteLine("")

		dstEntity, found := c.findEntity(rel.EntityName.Value)

		if !found || len(dstEntity.Grants) == 0 {
			h.Write("grants: tuple[()]")
		} else {
			h.Write("grants: tuple[")
			codegen.IterAndJoin(h, dstEntity.Grants, " | ", func(h *codegen.Helper, grant ast.Parsed[ast.Grant]) {
				h.WriteToken("tuple")
				h.WriteSymbol("[")
				codegen.IterAndJoin(h, grant.Data.Segments, ", ", func(h *codegen.Helper, seg string) {
					h.Write("Literal[")
					h.WithDoubleQuote(func(h *codegen.Helper) { h.Write(seg) })
					h.Write("]")
				})
				h.WriteSymbol("]")
			})
			h.Write(", ...]")
		}
		h.WriteLine("")

		if len(rel.Attributes) == 0 {
			h.Write("attributes: tuple[()]")
		} else {
			h.Write(`attributes: "tuple[`)
			codegen.IterAndJoin(h, rel.Attributes, " | ", func(h *codegen.Helper, attr ast.Parsed[ast.Attribute]) {
				attrName := codegen.CamelCase(entity.Name.Value) + codegen.CamelCase(rel.RelationshipName.Value) + codegen.CamelCase(attr.Data.Name.Data.Value) + "Attr"
				h.Write(attrName)
			})
			h.Write(`, ...]"`)
		}
		h.WriteLine("")

		if !found || len(dstEntity.Relationships) == 0 {
			h.Write("rules: tuple[Universal, ...]")
		} else {
			h.Write(`rules: "tuple[Universal | `)
			codegen.IterAndJoin(h, dstEntity.Relationships, " | ", func(h *codegen.Helper, r ast.Parsed[ast.Relationship]) {
				innerName := codegen.CamelCase(dstEntity.Name.Value) + codegen.CamelCase(r.Data.RelationshipName.Value) + "Rule"
				h.Write(innerName)
				state.AddImport(NewLocal(dstEntity.Name.Value, innerName))
			})
			h.Write(`, ...]"`)
		}
		h.WriteLine("")
	})

	state.AddImport(NewGlobal("slang_runtime", "Rule"))
	state.AddImport(NewGlobal("slang_runtime", "Universal"))
	state.AddImport(NewGlobal("slang_runtime", "registry"))
	state.AddImport(NewGlobal("typing", "Literal"))
	state.WriteCode(h.Serialize())
	return state, true
}

func (c *Codegen) SerializeFragment(fragment ast.Fragment) (*codegen.State[Import], bool) {
	h := newHelper()
	clsName := codegen.CamelCase(fragment.ForEntity.Value) + codegen.CamelCase(fragment.Name.Value) + "Fragment"

	h.WriteLine(`@registry.register_fragment("` + fragment.ForEntity.Value + `", "` + fragment.Name.Value + `")`)
	withClass(h, clsName, []string{"Fragment"}, func(h *codegen.Helper) {
		h.WriteToken("grants")
		h.WriteSymbol(": ")
		h.WriteSymbol("tuple[")
		codegen.IterAndJoin(h, fragment.Grants, " | ", func(h *codegen.Helper, grant ast.Parsed[ast.Grant]) {
			h.WriteToken("tuple")
			h.WriteSymbol("[")
			codegen.IterAndJoin(h, grant.Data.Segments, ", ", func(h *codegen.Helper, seg string) {
				h.Write("Literal[")
				h.WithDoubleQuote(func(h *codegen.Helper) { h.Write(seg) })
				h.Write("]")
			})
			h.WriteSymbol("]")
		})
		h.WriteSymbol(", ...]")
		h.WriteLine("")
	})

	state := codegen.NewState[Import]()
	state.WriteCode(h.Serialize())
	state.AddImport(NewGlobal("slang_runtime", "Fragment"))
	state.AddImport(NewGlobal("typing", "Literal"))
	return state, true
}

func (c *Codegen) SerializeEntrypoint(entrypoint ast.Entrypoint) (*codegen.State[Import], bool) {
	h := newHelper()
	state := codegen.NewState[Import]()
	name := codegen.CamelCase(entrypoint.Entrypoint.Value) + "Entrypoint"

	h.WriteLine("@registry.bind")
	withClass(h, name, []string{"Entrypoint"}, func(h *codegen.Helper) {
		h.WriteToken("entrypoint")
		h.WriteSymbol(": ")
		h.WriteSymbol("Literal[")
		h.WithDoubleQuote(func(h *codegen.Helper) { h.Write(entrypoint.Entrypoint.Value) })
		h.WriteSymbol("]")
		h.WriteLine("")

		h.WriteToken("rules")
		h.WriteSymbol(": ")
		h.WriteSymbol(`"tuple[`)
		codegen.IterAndJoin(h, entrypoint.Rules, " | ", func(h *codegen.Helper, rule ast.Parsed[ast.Rule]) {
			relName := codegen.CamelCase(entrypoint.Entrypoint.Value) + codegen.CamelCase(rule.Data.Relationship.Value) + "Rule"
			h.Write(relName)
			state.AddImport(NewLocal(entrypoint.Entrypoint.Value, relName))
		})
		h.WriteSymbol(`, ...]"`)
		h.WriteLine("")
	})

	state.WriteCode(h.Serialize())
	state.AddImport(NewGlobal("slang_runtime", "Entrypoint"))
	state.AddImport(NewGlobal("slang_runtime", "registry"))
	state.AddImport(NewGlobal("typing", "Literal"))
	return state, true
}

func (c *Codegen) SerializeEntity(entity ast.Entity) (*codegen.State[Import], bool) { return nil, false }

func (c *Codegen) SerializeFooter() (*codegen.State[Import], bool) {
	if len(c.file.Entrypoints) == 0 && len(c.file.Fragments) == 0 {
		return nil, false
	}

	h := newHelper()
	name := codegen.CamelCase(c.fileStem) + "Schema"

	h.WriteLine("@registry.bind")
	withClass(h, name, []string{"Schema"}, func(h *codegen.Helper) {
		if len(c.file.Entrypoints) > 0 {
			h.WriteToken("entrypoints")
			h.WriteSymbol(": ")
			h.WriteSymbol(`"tuple[`)
			codegen.IterAndJoin(h, c.file.Entrypoints, " | ", func(h *codegen.Helper, ep ast.Parsed[ast.Entrypoint]) {
				h.Write(codegen.CamelCase(ep.Data.Entrypoint.Value) + "Entrypoint")
			})
			h.WriteSymbol(`, ...]"`)
			h.WriteLine("")
		}
		if len(c.file.Fragments) > 0 {
			h.WriteToken("fragments")
			h.WriteSymbol(": ")
			h.WriteSymbol(`"tuple[`)
			codegen.IterAndJoin(h, c.file.Fragments, " | ", func(h *codegen.Helper, fr ast.Parsed[ast.Fragment]) {
				h.Write(codegen.CamelCase(fr.Data.ForEntity.Value) + codegen.CamelCase(fr.Data.Name.Value) + "Fragment")
			})
			h.WriteSymbol(`, ...]"`)
			h.WriteLine("")
		}

		h.WriteLine("")
		h.WriteLine("@classmethod")
		h.WriteLine("def load_from_obj(cls):")
		h.WithIndent(func(h *codegen.Helper) {
			h.WriteLine("assert cls._registry")
			h.WriteLine("cls._registry.update_annotations()")
			h.WriteLine("")
			h.WriteLine(`result = cls.parse_obj(json.loads("""`)
			h.WithIndent(func(h *codegen.Helper) {
				asJSON, err := jsongen.MarshalCompact(c.file)
				if err != nil {
					asJSON = []byte("{}")
				}
				h.WriteLine(string(asJSON))
			})
			h.WriteLine(`"""))`)
			h.WriteLine("")
			h.WriteLine("result.register_globals()")
			h.WriteLine("return result")
		})
	})
	h.WriteLine("")
	h.WriteLine("schema = " + name + ".load_from_obj()")

	state := codegen.NewState[Import]()
	state.WriteCode(h.Serialize())
	state.AddImport(NewGlobal("slang_runtime", "Schema"))
	state.AddImport(NewGlobal("slang_runtime", "registry"))
	state.AddImport(NewGlobalModule("json"))
	return state, true
}

func (c *Codegen) SerializeExport(export string) (string, bool) { return "", false }
