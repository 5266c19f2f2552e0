// Package eligibility decides whether a character's current
// profession, specialty set, and level permit gathering a resource or
// crafting a recipe. Decisions are pure functions over the catalog
// snapshot and plain state data: set membership plus numeric
// comparisons, no side effects. Unknown ids fail closed.
package eligibility

import (
	"github.com/forgeline/craft-api/internal/catalog"
	"github.com/forgeline/craft-api/internal/entities/crafting"
)

// Reason explains a negative decision
type Reason string

// Decision reasons
const (
	ReasonEligible         Reason = "eligible"
	ReasonUnknownEntity    Reason = "unknown_entity"
	ReasonSpecialtyMissing Reason = "specialty_missing"
	ReasonLevelTooLow      Reason = "level_too_low"
)

// Decision is the outcome of an eligibility check
type Decision struct {
	Eligible bool
	Reason   Reason
}

func eligible() Decision {
	return Decision{Eligible: true, Reason: ReasonEligible}
}

func notEligible(reason Reason) Decision {
	return Decision{Eligible: false, Reason: reason}
}

// Resolver answers eligibility queries against a catalog snapshot
type Resolver struct{}

// NewResolver creates an eligibility resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// CanGather reports whether the character may gather the resource: the
// character's unlocked specialty set must intersect the resource's
// eligible set and the character's level must meet the resource's
// minimum.
func (r *Resolver) CanGather(snap *catalog.Snapshot, state *crafting.ProfessionState, resourceID string) Decision {
	if state == nil {
		return notEligible(ReasonUnknownEntity)
	}

	res := snap.Resource(resourceID)
	if res == nil {
		return notEligible(ReasonUnknownEntity)
	}
	if len(res.EligibleSpecialtyIDs) == 0 {
		// Crafted resources are produced, not gathered
		return notEligible(ReasonSpecialtyMissing)
	}

	intersects := false
	for _, id := range res.EligibleSpecialtyIDs {
		if state.HasSpecialty(id) {
			intersects = true
			break
		}
	}
	if !intersects {
		return notEligible(ReasonSpecialtyMissing)
	}

	if state.Level < res.MinLevel {
		return notEligible(ReasonLevelTooLow)
	}

	return eligible()
}

// CanCraft reports whether the character may craft the recipe: the
// character's specialty set must include the recipe's required
// specialty and the character's level must meet the recipe's minimum.
func (r *Resolver) CanCraft(snap *catalog.Snapshot, state *crafting.ProfessionState, recipeID string) Decision {
	if state == nil {
		return notEligible(ReasonUnknownEntity)
	}

	rec := snap.Recipe(recipeID)
	if rec == nil {
		return notEligible(ReasonUnknownEntity)
	}

	if !state.HasSpecialty(rec.RequiredSpecialtyID) {
		return notEligible(ReasonSpecialtyMissing)
	}

	if state.Level < rec.MinLevel {
		return notEligible(ReasonLevelTooLow)
	}

	return eligible()
}

// UnlockedAt computes everything a character of the given profession
// holds at the given level, over the full catalog: specialties whose
// threshold is met, recipes craftable with those specialties, and
// resources gatherable with them. Used by the progression ledger to
// diff unlocks across a level change.
func (r *Resolver) UnlockedAt(snap *catalog.Snapshot, professionID string, level int32) (specialties, recipes, resources []string) {
	unlocked := make(map[string]bool)

	for _, id := range snap.SpecialtyIDs() {
		sp := snap.Specialty(id)
		if sp.ProfessionID != professionID {
			continue
		}
		if sp.MinLevel <= level {
			unlocked[id] = true
			specialties = append(specialties, id)
		}
	}

	for _, id := range snap.RecipeIDs() {
		rec := snap.Recipe(id)
		if unlocked[rec.RequiredSpecialtyID] && rec.MinLevel <= level {
			recipes = append(recipes, id)
		}
	}

	for _, id := range snap.ResourceIDs() {
		res := snap.Resource(id)
		if res.MinLevel > level {
			continue
		}
		for _, spID := range res.EligibleSpecialtyIDs {
			if unlocked[spID] {
				resources = append(resources, id)
				break
			}
		}
	}

	return specialties, recipes, resources
}
