// Package jsongen implements the JSON codegen back-end (spec §4.5): a
// direct, pretty-printed serialization of a parsed file's AST, with
// locations and docstrings erased and a stable field order. Unlike the
// typed-binding back-end this does not run through the codegen.Codegen
// visitor — the original compiler renders its JSON artifact the same way,
// as a direct serde_json::to_string of the AST rather than a driven
// code-generation pass (see codegen/python.rs's embedded-JSON footer).
package jsongen

import (
	jsoniter "github.com/json-iterator/go"

	"github.com/zwade/ruulang/ast"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

type attribute struct {
	Name      string   `json:"name"`
	Arguments []string `json:"arguments,omitempty"`
}

type relationship struct {
	RelationshipName string      `json:"relationshipName"`
	EntityName       string      `json:"entityName"`
	Attributes       []attribute `json:"attributes,omitempty"`
}

type entity struct {
	Name          string         `json:"name"`
	Relationships []relationship `json:"relationships,omitempty"`
	Grants        []string       `json:"grants,omitempty"`
}

type rule struct {
	Relationship     string      `json:"relationship"`
	Attributes       []attribute `json:"attributes,omitempty"`
	Grants           []string    `json:"grants,omitempty"`
	Rules            []rule      `json:"rules,omitempty"`
	IncludeFragments []string    `json:"includeFragments,omitempty"`
}

type entrypoint struct {
	Entrypoint string `json:"entrypoint"`
	Rules      []rule `json:"rules,omitempty"`
}

type fragment struct {
	Name      string   `json:"name"`
	ForEntity string   `json:"forEntity"`
	Grants    []string `json:"grants,omitempty"`
	Rules     []rule   `json:"rules,omitempty"`
}

type sourceFile struct {
	Entrypoints []entrypoint `json:"entrypoints,omitempty"`
	Fragments   []fragment   `json:"fragments,omitempty"`
	Entities    []entity     `json:"entities,omitempty"`
}

func grantStrings(grants []ast.Parsed[ast.Grant]) []string {
	if len(grants) == 0 {
		return nil
	}
	out := make([]string, len(grants))
	for i, g := range grants {
		out[i] = g.Data.String()
	}
	return out
}

func identStrings(ids []ast.Parsed[ast.Identifier]) []string {
	if len(ids) == 0 {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.Data.Value
	}
	return out
}

func fromAttributes(attrs []ast.Parsed[ast.Attribute]) []attribute {
	if len(attrs) == 0 {
		return nil
	}
	out := make([]attribute, len(attrs))
	for i, a := range attrs {
		out[i] = attribute{Name: a.Data.Name.Data.Value, Arguments: a.Data.Arguments}
	}
	return out
}

func fromRelationships(rels []ast.Parsed[ast.Relationship]) []relationship {
	if len(rels) == 0 {
		return nil
	}
	out := make([]relationship, len(rels))
	for i, r := range rels {
		out[i] = relationship{
			RelationshipName: r.Data.RelationshipName.Value,
			EntityName:       r.Data.EntityName.Value,
			Attributes:       fromAttributes(r.Data.Attributes),
		}
	}
	return out
}

func fromRules(rules []ast.Parsed[ast.Rule]) []rule {
	if len(rules) == 0 {
		return nil
	}
	out := make([]rule, len(rules))
	for i, r := range rules {
		out[i] = rule{
			Relationship:     r.Data.Relationship.Value,
			Attributes:       fromAttributes(r.Data.Attributes),
			Grants:           grantStrings(r.Data.Grants),
			Rules:            fromRules(r.Data.Rules),
			IncludeFragments: identStrings(r.Data.IncludeFragments),
		}
	}
	return out
}

func fromEntities(entities []ast.Parsed[ast.Entity]) []entity {
	if len(entities) == 0 {
		return nil
	}
	out := make([]entity, len(entities))
	for i, e := range entities {
		out[i] = entity{
			Name:          e.Data.Name.Value,
			Relationships: fromRelationships(e.Data.Relationships),
			Grants:        grantStrings(e.Data.Grants),
		}
	}
	return out
}

func fromFile(f *ast.SourceFile) sourceFile {
	sf := sourceFile{Entities: fromEntities(f.Entities)}

	if len(f.Entrypoints) > 0 {
		sf.Entrypoints = make([]entrypoint, len(f.Entrypoints))
		for i, e := range f.Entrypoints {
			sf.Entrypoints[i] = entrypoint{Entrypoint: e.Data.Entrypoint.Value, Rules: fromRules(e.Data.Rules)}
		}
	}
	if len(f.Fragments) > 0 {
		sf.Fragments = make([]fragment, len(f.Fragments))
		for i, fr := range f.Fragments {
			sf.Fragments[i] = fragment{
				Name:      fr.Data.Name.Value,
				ForEntity: fr.Data.ForEntity.Value,
				Grants:    grantStrings(fr.Data.Grants),
				Rules:     fromRules(fr.Data.Rules),
			}
		}
	}

	return sf
}

// Marshal renders f as pretty-printed JSON, with every location and
// docstring erased (spec §4.5, §8 invariant 2).
func Marshal(f *ast.SourceFile) ([]byte, error) {
	return api.MarshalIndent(fromFile(f), "", "  ")
}

// MarshalCompact renders f as single-line JSON, used to embed a schema's
// AST inside generated typed-binding source (spec §4.6).
func MarshalCompact(f *ast.SourceFile) ([]byte, error) {
	return api.Marshal(fromFile(f))
}
