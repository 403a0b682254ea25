package check

import (
	"fmt"

	"github.com/zwade/ruulang/ast"
	"github.com/zwade/ruulang/ruulangerrors"
)

// Typechecker validates fragments and entrypoints against the merged,
// cross-file symbol index (spec §4.3). It never mutates its index once
// built; validation only reads it.
type Typechecker struct {
	entities  map[string]*tcEntity
	fragments map[ast.FragmentKey]ast.Parsed[ast.Fragment]
}

// NewTypechecker builds the symbol index from every entity and fragment
// declared anywhere in the workspace. Entities sharing a name are merged:
// the first relationship declaration for a given name wins, and every
// grant path declared anywhere is unioned in (spec §4.3).
func NewTypechecker(entities []ast.WithOrigin[ast.Parsed[ast.Entity]], fragments []ast.WithOrigin[ast.Parsed[ast.Fragment]]) *Typechecker {
	entityMap := make(map[string]*tcEntity)

	for _, we := range entities {
		name := we.Data.Data.Name.Value
		e, ok := entityMap[name]
		if !ok {
			e = newTcEntity(name)
			entityMap[name] = e
		}

		for _, rel := range we.Data.Data.Relationships {
			tagged, _ := ast.WithFile(rel, we.Origin)
			e.addRelationship(tagged)
		}
		for _, grant := range we.Data.Data.Grants {
			tagged, _ := ast.WithFile(grant, we.Origin)
			e.addGrant(tagged)
		}
	}

	fragmentMap := make(map[ast.FragmentKey]ast.Parsed[ast.Fragment])
	for _, wf := range fragments {
		fragmentMap[wf.Data.Data.Key()] = wf.Data
	}

	return &Typechecker{entities: entityMap, fragments: fragmentMap}
}

// ValidateFile checks every fragment and entrypoint declared in file,
// returning every diagnostic found; it never stops at the first failure
// (spec §4.3).
func (t *Typechecker) ValidateFile(file *ast.SourceFile) ruulangerrors.List {
	var violations ruulangerrors.List

	for _, fragment := range file.Fragments {
		violations = append(violations, t.validateFragment(fragment)...)
	}
	for _, entrypoint := range file.Entrypoints {
		violations = append(violations, t.validateEntrypoint(entrypoint)...)
	}

	return violations
}

func (t *Typechecker) validateEntrypoint(entrypoint ast.Parsed[ast.Entrypoint]) ruulangerrors.List {
	var violations ruulangerrors.List

	startingEntity, ok := t.entities[entrypoint.Data.Entrypoint.Value]
	if !ok {
		violations = append(violations, &ruulangerrors.GeneralError{
			Pos:     entrypoint.Pos,
			Message: fmt.Sprintf("Unable to find entity name: %s", entrypoint.Data.Entrypoint.Value),
		})
		return violations
	}

	for _, rule := range entrypoint.Data.Rules {
		violations = append(violations, t.validateRule(startingEntity, rule)...)
	}

	return violations
}

func (t *Typechecker) validateFragment(fragment ast.Parsed[ast.Fragment]) ruulangerrors.List {
	var violations ruulangerrors.List

	startingEntity, ok := t.entities[fragment.Data.ForEntity.Value]
	if !ok {
		violations = append(violations, &ruulangerrors.GeneralError{
			Pos:     fragment.Pos,
			Message: fmt.Sprintf("Unable to find entity name: %s", fragment.Data.ForEntity.Value),
		})
		return violations
	}

	for _, grant := range fragment.Data.Grants {
		if !startingEntity.allowsGrant(grant.Data.Segments) {
			violations = append(violations, &ruulangerrors.GeneralError{
				Pos:     grant.Pos,
				Message: fmt.Sprintf("Entity %s does not allow grant: %s", startingEntity.name, grant.Data.String()),
			})
		}
	}

	for _, rule := range fragment.Data.Rules {
		violations = append(violations, t.validateRule(startingEntity, rule)...)
	}

	return violations
}

func (t *Typechecker) validateRule(startingEntity *tcEntity, currentRule ast.Parsed[ast.Rule]) ruulangerrors.List {
	var violations ruulangerrors.List

	currentRel, ok := startingEntity.getRelationship(currentRule.Data.Relationship.Value)
	if !ok {
		if currentRule.Data.IsWildcard() {
			return violations
		}
		violations = append(violations, &ruulangerrors.GeneralError{
			Pos:     currentRule.Pos,
			Message: fmt.Sprintf("Relationship %s not found for entity %s", currentRule.Data.Relationship.Value, startingEntity.name),
		})
		return violations
	}

	currentEntity, ok := t.entities[currentRel.Data.EntityName.Value]
	if !ok {
		violations = append(violations, &ruulangerrors.GeneralError{
			Pos:     currentRel.Pos,
			Message: fmt.Sprintf("Unable to find entity name: %s", currentRel.Data.EntityName.Value),
		})
		return violations
	}

	for _, grant := range currentRule.Data.Grants {
		if !currentEntity.allowsGrant(grant.Data.Segments) {
			violations = append(violations, &ruulangerrors.GeneralError{
				Pos:     grant.Pos,
				Message: fmt.Sprintf("Invalid grant %s", grant.Data.String()),
			})
		}
	}

	for _, included := range currentRule.Data.IncludeFragments {
		key := ast.FragmentKey{Name: included.Data.Value, ForEntity: currentEntity.name}
		if _, ok := t.fragments[key]; !ok {
			violations = append(violations, &ruulangerrors.GeneralError{
				Pos:     included.Pos,
				Message: fmt.Sprintf("Unable to find fragment name: %s for entity %s", key.Name, key.ForEntity),
			})
		}
	}

	for _, rule := range currentRule.Data.Rules {
		violations = append(violations, t.validateRule(currentEntity, rule)...)
	}

	return violations
}
