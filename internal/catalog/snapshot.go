package catalog

import (
	"sort"

	"github.com/forgeline/craft-api/internal/entities/crafting"
	"github.com/forgeline/craft-api/internal/errors"
	"github.com/forgeline/craft-api/internal/recipegraph"
)

// Snapshot is a fully validated, immutable view of one catalog load.
// Safe for unsynchronized concurrent reads.
type Snapshot struct {
	professions map[string]*crafting.Profession
	specialties map[string]*crafting.Specialty
	resources   map[string]*crafting.Resource
	recipes     map[string]*crafting.Recipe

	durabilityCosts map[int32]int32

	graph *recipegraph.Graph

	// id lists in sorted order, for deterministic iteration
	recipeIDs    []string
	resourceIDs  []string
	specialtyIDs []string
}

// buildSnapshot validates raw catalog data and assembles the immutable
// snapshot. Any dangling reference, non-monotone threshold table, or
// recipe cycle rejects the whole catalog.
func buildSnapshot(data *Data) (*Snapshot, error) {
	if data == nil {
		return nil, errors.InvalidArgument("catalog data is required")
	}

	s := &Snapshot{
		professions:     make(map[string]*crafting.Profession, len(data.Professions)),
		specialties:     make(map[string]*crafting.Specialty, len(data.Specialties)),
		resources:       make(map[string]*crafting.Resource, len(data.Resources)),
		recipes:         make(map[string]*crafting.Recipe, len(data.Recipes)),
		durabilityCosts: make(map[int32]int32, len(data.DurabilityCosts)),
	}

	for i := range data.Professions {
		p := data.Professions[i]
		if p.ID == "" {
			return nil, errors.InvalidArgument("profession id is required")
		}
		if _, exists := s.professions[p.ID]; exists {
			return nil, errors.InvalidArgumentf("duplicate profession %q", p.ID)
		}
		if err := validateThresholds(p.ID, p.Thresholds); err != nil {
			return nil, err
		}
		s.professions[p.ID] = &p
	}

	for i := range data.Specialties {
		sp := data.Specialties[i]
		if sp.ID == "" {
			return nil, errors.InvalidArgument("specialty id is required")
		}
		if _, exists := s.specialties[sp.ID]; exists {
			return nil, errors.InvalidArgumentf("duplicate specialty %q", sp.ID)
		}
		if _, ok := s.professions[sp.ProfessionID]; !ok {
			return nil, errors.InvalidArgumentf("specialty %q references unknown profession %q", sp.ID, sp.ProfessionID)
		}
		s.specialties[sp.ID] = &sp
		s.specialtyIDs = append(s.specialtyIDs, sp.ID)
	}

	for i := range data.Resources {
		r := data.Resources[i]
		if r.ID == "" {
			return nil, errors.InvalidArgument("resource id is required")
		}
		if _, exists := s.resources[r.ID]; exists {
			return nil, errors.InvalidArgumentf("duplicate resource %q", r.ID)
		}
		for _, spID := range r.EligibleSpecialtyIDs {
			if _, ok := s.specialties[spID]; !ok {
				return nil, errors.InvalidArgumentf("resource %q references unknown specialty %q", r.ID, spID)
			}
		}
		s.resources[r.ID] = &r
		s.resourceIDs = append(s.resourceIDs, r.ID)
	}

	for i := range data.Recipes {
		rc := data.Recipes[i]
		if rc.ID == "" {
			return nil, errors.InvalidArgument("recipe id is required")
		}
		if _, exists := s.recipes[rc.ID]; exists {
			return nil, errors.InvalidArgumentf("duplicate recipe %q", rc.ID)
		}
		if _, ok := s.resources[rc.OutputResourceID]; !ok {
			return nil, errors.InvalidArgumentf("recipe %q outputs unknown resource %q", rc.ID, rc.OutputResourceID)
		}
		if _, ok := s.specialties[rc.RequiredSpecialtyID]; !ok {
			return nil, errors.InvalidArgumentf("recipe %q requires unknown specialty %q", rc.ID, rc.RequiredSpecialtyID)
		}
		if rc.BaseSuccessRate < 0 || rc.BaseSuccessRate > 1 {
			return nil, errors.InvalidArgumentf("recipe %q base success rate %g out of [0, 1]", rc.ID, rc.BaseSuccessRate)
		}
		if len(rc.Inputs) == 0 {
			return nil, errors.InvalidArgumentf("recipe %q has no inputs", rc.ID)
		}
		for _, in := range rc.Inputs {
			if _, ok := s.resources[in.ResourceID]; !ok {
				return nil, errors.InvalidArgumentf("recipe %q consumes unknown resource %q", rc.ID, in.ResourceID)
			}
			if in.Quantity <= 0 {
				return nil, errors.InvalidArgumentf("recipe %q input %q quantity must be positive", rc.ID, in.ResourceID)
			}
			if in.ResourceID == rc.OutputResourceID {
				return nil, errors.CycleDetected([]string{in.ResourceID, rc.OutputResourceID})
			}
		}
		s.recipes[rc.ID] = &rc
		s.recipeIDs = append(s.recipeIDs, rc.ID)
	}

	for tier, cost := range data.DurabilityCosts {
		if cost < 0 {
			return nil, errors.InvalidArgumentf("durability cost for tier %d must not be negative", tier)
		}
		s.durabilityCosts[tier] = cost
	}

	sort.Strings(s.recipeIDs)
	sort.Strings(s.resourceIDs)
	sort.Strings(s.specialtyIDs)

	s.graph = recipegraph.Build(data.Recipes)
	if err := s.graph.ValidateAcyclic(); err != nil {
		return nil, err
	}

	return s, nil
}

func validateThresholds(professionID string, thresholds []crafting.LevelThreshold) error {
	if len(thresholds) == 0 {
		return errors.InvalidArgumentf("profession %q has no level thresholds", professionID)
	}
	for i := 1; i < len(thresholds); i++ {
		if thresholds[i].Level <= thresholds[i-1].Level {
			return errors.InvalidArgumentf("profession %q thresholds not increasing at level %d", professionID, thresholds[i].Level)
		}
		if thresholds[i].XPRequired < thresholds[i-1].XPRequired {
			return errors.InvalidArgumentf("profession %q threshold XP not monotone at level %d", professionID, thresholds[i].Level)
		}
	}
	return nil
}

// Profession returns the profession for the given id, or nil
func (s *Snapshot) Profession(id string) *crafting.Profession {
	return s.professions[id]
}

// Specialty returns the specialty for the given id, or nil
func (s *Snapshot) Specialty(id string) *crafting.Specialty {
	return s.specialties[id]
}

// Resource returns the resource for the given id, or nil
func (s *Snapshot) Resource(id string) *crafting.Resource {
	return s.resources[id]
}

// Recipe returns the recipe for the given id, or nil
func (s *Snapshot) Recipe(id string) *crafting.Recipe {
	return s.recipes[id]
}

// Graph returns the validated recipe graph
func (s *Snapshot) Graph() *recipegraph.Graph {
	return s.graph
}

// DurabilityCost returns the per-craft workshop durability cost for a
// recipe tier. Tiers without an entry cost nothing.
func (s *Snapshot) DurabilityCost(tier int32) int32 {
	return s.durabilityCosts[tier]
}

// RecipeIDs returns all recipe ids in sorted order
func (s *Snapshot) RecipeIDs() []string {
	return append([]string(nil), s.recipeIDs...)
}

// ResourceIDs returns all resource ids in sorted order
func (s *Snapshot) ResourceIDs() []string {
	return append([]string(nil), s.resourceIDs...)
}

// SpecialtyIDs returns all specialty ids in sorted order
func (s *Snapshot) SpecialtyIDs() []string {
	return append([]string(nil), s.specialtyIDs...)
}
