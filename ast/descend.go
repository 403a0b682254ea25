package ast

import "github.com/zwade/ruulang/token"

// ContextKind tags one frame of a descent stack (§4.8).
type ContextKind int

const (
	ContextNone ContextKind = iota
	ContextEntrypoint
	ContextEntity
	ContextFragment
	ContextRule
	ContextAttribute
	ContextGrant
	ContextRelationship
	ContextIdentifier
)

// DescentContext is one frame of the stack returned by DescendAt: the AST
// context a byte range falls inside, its name if it has one, and any
// docstring attached to it (§4.8).
type DescentContext struct {
	Context   ContextKind
	Name      string
	HasName   bool
	Docstring string
}

// descendable is satisfied by every node shape that can appear in a descent
// stack. children returns sub-nodes grouped by kind in a fixed order
// (attributes, grants, rules, fragment includes; for an entity, grants then
// relationships), with identifier leaves last (§4.8).
type descendable interface {
	pos() token.Pos
	frame() DescentContext
	children() []descendable
}

// descendAt walks n, pushing n's own frame, then recursing into the first
// child whose range covers query. It returns nil if n's own range (when
// valid) does not cover query.
func descendAt(query token.Pos, n descendable) []DescentContext {
	if p := n.pos(); p.IsValid() && !p.Covers(query) {
		return nil
	}

	stack := []DescentContext{n.frame()}
	for _, child := range n.children() {
		if sub := descendAt(query, child); sub != nil {
			return append(stack, sub...)
		}
	}
	return stack
}

// identifierNode is a leaf: a Parsed[Identifier] with no children.
type identifierNode struct {
	p Parsed[Identifier]
}

func (n identifierNode) pos() token.Pos { return n.p.Pos }
func (n identifierNode) frame() DescentContext {
	return DescentContext{Context: ContextIdentifier, Name: n.p.Data.Value, HasName: true, Docstring: n.p.Docstring}
}
func (n identifierNode) children() []descendable { return nil }

type grantNode struct {
	p Parsed[Grant]
}

func (n grantNode) pos() token.Pos { return n.p.Pos }
func (n grantNode) frame() DescentContext {
	return DescentContext{Context: ContextGrant, Name: n.p.Data.String(), HasName: true, Docstring: n.p.Docstring}
}
func (n grantNode) children() []descendable { return nil }

type attributeNode struct {
	p Parsed[Attribute]
}

func (n attributeNode) pos() token.Pos { return n.p.Pos }
func (n attributeNode) frame() DescentContext {
	return DescentContext{Context: ContextAttribute, Name: n.p.Data.Name.Data.Value, HasName: true, Docstring: n.p.Docstring}
}
func (n attributeNode) children() []descendable {
	return []descendable{identifierNode{n.p.Data.Name}}
}

type relationshipNode struct {
	p Parsed[Relationship]
}

func (n relationshipNode) pos() token.Pos { return n.p.Pos }
func (n relationshipNode) frame() DescentContext {
	return DescentContext{Context: ContextRelationship, Name: n.p.Data.RelationshipName.Value, HasName: true, Docstring: n.p.Docstring}
}
func (n relationshipNode) children() []descendable {
	var out []descendable
	for _, a := range n.p.Data.Attributes {
		out = append(out, attributeNode{a})
	}
	return out
}

type ruleNode struct {
	p Parsed[Rule]
}

func (n ruleNode) pos() token.Pos { return n.p.Pos }
func (n ruleNode) frame() DescentContext {
	return DescentContext{Context: ContextRule, Name: n.p.Data.Relationship.Value, HasName: true, Docstring: n.p.Docstring}
}
func (n ruleNode) children() []descendable {
	var out []descendable
	for _, a := range n.p.Data.Attributes {
		out = append(out, attributeNode{a})
	}
	for _, g := range n.p.Data.Grants {
		out = append(out, grantNode{g})
	}
	for _, r := range n.p.Data.Rules {
		out = append(out, ruleNode{r})
	}
	for _, f := range n.p.Data.IncludeFragments {
		out = append(out, identifierNode{f})
	}
	return out
}

type entrypointNode struct {
	p Parsed[Entrypoint]
}

func (n entrypointNode) pos() token.Pos { return n.p.Pos }
func (n entrypointNode) frame() DescentContext {
	return DescentContext{Context: ContextEntrypoint, Name: n.p.Data.Entrypoint.Value, HasName: true, Docstring: n.p.Docstring}
}
func (n entrypointNode) children() []descendable {
	out := make([]descendable, 0, len(n.p.Data.Rules)+1)
	for _, r := range n.p.Data.Rules {
		out = append(out, ruleNode{r})
	}
	out = append(out, identifierNode{NoLoc(n.p.Data.Entrypoint)})
	return out
}

type fragmentNode struct {
	p Parsed[Fragment]
}

func (n fragmentNode) pos() token.Pos { return n.p.Pos }
func (n fragmentNode) frame() DescentContext {
	return DescentContext{Context: ContextFragment, Name: n.p.Data.Name.Value, HasName: true, Docstring: n.p.Docstring}
}
func (n fragmentNode) children() []descendable {
	var out []descendable
	for _, g := range n.p.Data.Grants {
		out = append(out, grantNode{g})
	}
	for _, r := range n.p.Data.Rules {
		out = append(out, ruleNode{r})
	}
	out = append(out, identifierNode{NoLoc(n.p.Data.Name)}, identifierNode{NoLoc(n.p.Data.ForEntity)})
	return out
}

type entityNode struct {
	p Parsed[Entity]
}

func (n entityNode) pos() token.Pos { return n.p.Pos }
func (n entityNode) frame() DescentContext {
	return DescentContext{Context: ContextEntity, Name: n.p.Data.Name.Value, HasName: true, Docstring: n.p.Docstring}
}
func (n entityNode) children() []descendable {
	var out []descendable
	for _, g := range n.p.Data.Grants {
		out = append(out, grantNode{g})
	}
	for _, r := range n.p.Data.Relationships {
		out = append(out, relationshipNode{r})
	}
	out = append(out, identifierNode{NoLoc(n.p.Data.Name)})
	return out
}

type sourceFileNode struct {
	f *SourceFile
}

func (n sourceFileNode) pos() token.Pos { return token.NoPos }
func (n sourceFileNode) frame() DescentContext {
	return DescentContext{Context: ContextNone}
}
func (n sourceFileNode) children() []descendable {
	out := make([]descendable, 0, len(n.f.Entrypoints)+len(n.f.Fragments)+len(n.f.Entities))
	for _, e := range n.f.Entrypoints {
		out = append(out, entrypointNode{e})
	}
	for _, f := range n.f.Fragments {
		out = append(out, fragmentNode{f})
	}
	for _, e := range n.f.Entities {
		out = append(out, entityNode{e})
	}
	return out
}

// DescendAt returns the stack of AST contexts enclosing the byte range loc,
// outermost first, or nil if no entrypoint/fragment/entity covers it
// (§4.8). The root SourceFile itself has no location, so it always
// contributes a ContextNone frame; descent only fails entirely when none of
// its children cover loc either — expressed here by always matching at the
// root and letting the recursive search come up empty below it.
func (f *SourceFile) DescendAt(loc token.Pos) []DescentContext {
	root := sourceFileNode{f}
	for _, child := range root.children() {
		if sub := descendAt(loc, child); sub != nil {
			return append([]DescentContext{root.frame()}, sub...)
		}
	}
	return nil
}
