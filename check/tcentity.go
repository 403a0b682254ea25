// Package check implements the symbol index and typechecker (spec §4.3):
// entity declarations are merged across files into a first-wins view of
// relationships and a union view of grants, then every fragment and
// entrypoint rule tree is validated against that view.
package check

import (
	"github.com/zwade/ruulang/ast"
	"github.com/zwade/ruulang/internal/trie"
)

// tcEntity is the merged, cross-file view of one entity: its relationships
// (first declaration wins on a name clash) and its grants (every declared
// grant path is accepted, across every file). Ported from the original's
// TcEntity.
type tcEntity struct {
	name          string
	relationships map[string]ast.Parsed[ast.Relationship]
	grants        *trie.Trie[string, ast.Parsed[ast.Grant]]
}

func newTcEntity(name string) *tcEntity {
	return &tcEntity{
		name:          name,
		relationships: make(map[string]ast.Parsed[ast.Relationship]),
		grants:        trie.New[string, ast.Parsed[ast.Grant]](),
	}
}

// addRelationship inserts rel unless this entity already declares a
// relationship of the same name; returns whether it was inserted.
func (e *tcEntity) addRelationship(rel ast.Parsed[ast.Relationship]) bool {
	name := rel.Data.RelationshipName.Value
	if _, exists := e.relationships[name]; exists {
		return false
	}
	e.relationships[name] = rel
	return true
}

// addGrant unions grant into this entity's grant trie, skipping paths
// already present.
func (e *tcEntity) addGrant(grant ast.Parsed[ast.Grant]) {
	if e.grants.Contains(grant.Data.Segments) {
		return
	}
	e.grants.Add(grant.Data.Segments, grant)
}

func (e *tcEntity) getRelationship(name string) (ast.Parsed[ast.Relationship], bool) {
	rel, ok := e.relationships[name]
	return rel, ok
}

// allowsGrant reports whether path is covered by a declared grant, using
// prefix containment (spec §4.1, §8 S1): a path is allowed if it equals a
// declared grant or is a prefix of one. A path that continues past the end
// of every declared grant is not allowed.
func (e *tcEntity) allowsGrant(path []string) bool {
	return e.grants.ContainsPrefix(path)
}
