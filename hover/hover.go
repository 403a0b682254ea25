// Package hover renders the markdown documents an editor integration shows
// on hover, driven by the AST's location-indexed descent stack (spec §4.8,
// §6). It is LSP-agnostic: callers own the transport and are responsible
// for mapping an editor position to a byte offset before calling Render.
package hover

import (
	"fmt"
	"strings"

	"github.com/zwade/ruulang/ast"
	"github.com/zwade/ruulang/token"
)

// Resolver looks up a merged entity definition by name, letting Render walk
// relationship and entrypoint targets across file boundaries.
type Resolver interface {
	Entity(name string) (ast.Entity, bool)
}

// EntityIndex is the simplest Resolver: entities merged by name, with
// relationships first-wins the same way the typechecker's symbol index
// merges them (spec §4.3), since hover must see the same cross-file view a
// diagnostic would.
type EntityIndex map[string]ast.Entity

// NewEntityIndex builds an EntityIndex from every entity contributed across
// a workspace, merging declarations of the same name.
func NewEntityIndex(entities []ast.WithOrigin[ast.Parsed[ast.Entity]]) EntityIndex {
	idx := make(EntityIndex)
	seenRel := make(map[string]map[string]bool)

	for _, we := range entities {
		name := we.Data.Data.Name.Value
		ent, ok := idx[name]
		if !ok {
			ent = ast.Entity{Name: we.Data.Data.Name}
			seenRel[name] = make(map[string]bool)
		}
		for _, rel := range we.Data.Data.Relationships {
			relName := rel.Data.RelationshipName.Value
			if seenRel[name][relName] {
				continue
			}
			seenRel[name][relName] = true
			ent.Relationships = append(ent.Relationships, rel)
		}
		idx[name] = ent
	}

	return idx
}

// Entity implements Resolver.
func (idx EntityIndex) Entity(name string) (ast.Entity, bool) {
	e, ok := idx[name]
	return e, ok
}

func contextLabel(k ast.ContextKind) string {
	switch k {
	case ast.ContextEntrypoint:
		return "Entrypoint"
	case ast.ContextEntity:
		return "Entity"
	case ast.ContextFragment:
		return "Fragment"
	case ast.ContextRule:
		return "Rule"
	case ast.ContextAttribute:
		return "Attribute"
	case ast.ContextGrant:
		return "Grant"
	case ast.ContextRelationship:
		return "Relationship"
	case ast.ContextIdentifier:
		return "Identifier"
	default:
		return ""
	}
}

func relationshipTarget(idx Resolver, entity, relationship string) (string, bool) {
	e, ok := idx.Entity(entity)
	if !ok {
		return "", false
	}
	for _, rel := range e.Relationships {
		if rel.Data.RelationshipName.Value == relationship {
			return rel.Data.EntityName.Value, true
		}
	}
	return "", false
}

// Render walks file's descent stack at pos and renders a markdown hover
// document for the innermost construct covering it. It reports false if no
// entrypoint, fragment, or entity covers pos at all.
func Render(file *ast.SourceFile, idx Resolver, pos token.Pos) (string, bool) {
	stack := file.DescendAt(pos)
	if stack == nil {
		return "", false
	}
	return renderStack(stack, idx), true
}

// renderStack walks the stack outermost-first, tracking the entity each
// frame resolves against (spec §4.8: an Entrypoint or Entity frame defines
// the entity for later frames; a Rule or Relationship frame advances it to
// the relationship's target; an Attribute looks back through the entity
// that owned its parent relationship/rule rather than the target).
func renderStack(stack []ast.DescentContext, idx Resolver) string {
	target := stack[len(stack)-1]

	currentEntity := ""
	owningEntity := ""
	for _, frame := range stack {
		switch frame.Context {
		case ast.ContextEntrypoint:
			if frame.HasName {
				currentEntity = frame.Name
			}
		case ast.ContextEntity:
			if frame.HasName {
				currentEntity = frame.Name
			}
		case ast.ContextFragment:
			// ForEntity isn't carried on the fragment frame itself; the
			// frame's own name is the fragment's name, not an entity.
		case ast.ContextRule, ast.ContextRelationship:
			owningEntity = currentEntity
			if target, ok := relationshipTarget(idx, currentEntity, frame.Name); ok {
				currentEntity = target
			}
		case ast.ContextAttribute:
			// resolves against the entity that owned the parent
			// relationship/rule, not its target (spec §4.8).
			currentEntity = owningEntity
		}
	}

	var b strings.Builder
	label := contextLabel(target.Context)
	if target.HasName {
		fmt.Fprintf(&b, "### %s `%s`\n", label, target.Name)
	} else {
		fmt.Fprintf(&b, "### %s\n", label)
	}

	switch target.Context {
	case ast.ContextRule, ast.ContextRelationship:
		if dest, ok := relationshipTarget(idx, owningEntity, target.Name); ok {
			fmt.Fprintf(&b, "\n`%s` → `%s`\n", owningEntity, dest)
		}
	case ast.ContextAttribute:
		if owningEntity != "" {
			fmt.Fprintf(&b, "\non `%s`\n", owningEntity)
		}
	case ast.ContextEntrypoint:
		fmt.Fprintf(&b, "\nrooted at `%s`\n", target.Name)
	}

	if target.Docstring != "" {
		b.WriteString("\n")
		b.WriteString(target.Docstring)
		b.WriteString("\n")
	}

	return b.String()
}
