package ast

import (
	"fmt"
	"strings"
)

// Serialize renders f back into ruulang source text. The output is
// reparseable and, modulo location/docstring metadata, equal to f — the
// parser round-trip invariant of spec §8.
func (f *SourceFile) Serialize() string {
	var b strings.Builder

	for _, e := range f.Entities {
		serializeEntity(&b, 0, e.Data)
		b.WriteByte('\n')
	}

	for _, fr := range f.Fragments {
		serializeFragment(&b, 0, fr.Data)
		b.WriteByte('\n')
	}

	for i, ep := range f.Entrypoints {
		serializeEntrypoint(&b, 0, ep.Data)
		b.WriteByte('\n')
		if i < len(f.Entrypoints)-1 {
			b.WriteByte('\n')
		}
	}

	return b.String()
}

func indent(n int) string { return strings.Repeat("    ", n) }

func serializeEntity(b *strings.Builder, lvl int, e Entity) {
	fmt.Fprintf(b, "%sentity %s {\n", indent(lvl), e.Name.Value)
	for _, r := range e.Relationships {
		serializeRelationship(b, lvl+1, r.Data)
	}
	for _, g := range e.Grants {
		fmt.Fprintf(b, "%s%s;\n", indent(lvl+1), g.Data.String())
	}
	fmt.Fprintf(b, "%s}\n", indent(lvl))
}

func serializeRelationship(b *strings.Builder, lvl int, r Relationship) {
	fmt.Fprintf(b, "%s%s: %s {\n", indent(lvl), r.RelationshipName.Value, r.EntityName.Value)
	for _, a := range r.Attributes {
		serializeAttribute(b, lvl+1, a.Data)
	}
	fmt.Fprintf(b, "%s}\n", indent(lvl))
}

func serializeAttribute(b *strings.Builder, lvl int, a Attribute) {
	fmt.Fprintf(b, "%s:%s", indent(lvl), a.Name.Data.Value)
	if len(a.Arguments) > 0 {
		b.WriteByte('(')
		b.WriteString(strings.Join(a.Arguments, ", "))
		b.WriteByte(')')
	}
	b.WriteByte('\n')
}

func serializeFragment(b *strings.Builder, lvl int, fr Fragment) {
	fmt.Fprintf(b, "%sfragment %s for %s {\n", indent(lvl), fr.Name.Value, fr.ForEntity.Value)
	for _, g := range fr.Grants {
		fmt.Fprintf(b, "%s%s;\n", indent(lvl+1), g.Data.String())
	}
	for _, r := range fr.Rules {
		serializeRule(b, lvl+1, r.Data)
	}
	fmt.Fprintf(b, "%s}\n", indent(lvl))
}

func serializeEntrypoint(b *strings.Builder, lvl int, ep Entrypoint) {
	fmt.Fprintf(b, "%s@%s {\n", indent(lvl), ep.Entrypoint.Value)
	for _, r := range ep.Rules {
		serializeRule(b, lvl+1, r.Data)
	}
	fmt.Fprintf(b, "%s}\n", indent(lvl))
}

func serializeRule(b *strings.Builder, lvl int, r Rule) {
	if r.IsWildcard() {
		fmt.Fprintf(b, "%s*\n", indent(lvl))
		return
	}

	fmt.Fprintf(b, "%s%s", indent(lvl), r.Relationship.Value)
	for _, a := range r.Attributes {
		b.WriteByte(' ')
		fmt.Fprintf(b, ":%s", a.Data.Name.Data.Value)
		if len(a.Data.Arguments) > 0 {
			b.WriteByte('(')
			b.WriteString(strings.Join(a.Data.Arguments, ", "))
			b.WriteByte(')')
		}
	}
	b.WriteString(" {\n")

	for _, g := range r.Grants {
		fmt.Fprintf(b, "%s%s;\n", indent(lvl+1), g.Data.String())
	}
	for _, inc := range r.IncludeFragments {
		fmt.Fprintf(b, "%s#%s;\n", indent(lvl+1), inc.Data.Value)
	}
	for _, sub := range r.Rules {
		serializeRule(b, lvl+1, sub.Data)
	}

	fmt.Fprintf(b, "%s}\n", indent(lvl))
}
