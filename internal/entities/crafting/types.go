// Package crafting defines the domain entities for the crafting and
// progression engine: catalog reference data (professions, specialties,
// resources, recipes, level thresholds) and the mutable state records
// built on top of it.
package crafting

// ResourceCategory classifies a resource
type ResourceCategory string

// Resource categories
const (
	ResourceCategoryMineral ResourceCategory = "mineral"
	ResourceCategoryPlant   ResourceCategory = "plant"
	ResourceCategoryAnimal  ResourceCategory = "animal"
	ResourceCategoryCrafted ResourceCategory = "crafted"
)

// LevelThreshold maps a cumulative XP floor to a level. A character's
// level is always derived from these thresholds, never set directly.
type LevelThreshold struct {
	Level      int32 `json:"level"`
	XPRequired int64 `json:"xp_required"`
}

// Profession is a craft discipline a character follows. Immutable after
// catalog load.
type Profession struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	// SpecialtyIDs lists the specialties branching off this profession
	SpecialtyIDs []string `json:"specialty_ids"`

	// Thresholds is the monotone level table for this profession
	Thresholds []LevelThreshold `json:"thresholds"`
}

// Specialty is a level-gated sub-branch of a profession granting
// specific gather/craft capabilities.
type Specialty struct {
	ID           string `json:"id"`
	ProfessionID string `json:"profession_id"`
	Name         string `json:"name"`

	// MinLevel is the profession level at which this specialty unlocks
	MinLevel int32 `json:"min_level"`

	// GatherTags and CraftTags describe the capability set this
	// specialty grants. Eligibility is plain set membership over these
	// tags, no runtime dispatch.
	GatherTags []string `json:"gather_tags,omitempty"`
	CraftTags  []string `json:"craft_tags,omitempty"`
}

// Resource is a raw or crafted material
type Resource struct {
	ID       string           `json:"id"`
	Name     string           `json:"name"`
	Category ResourceCategory `json:"category"`

	// Tier is the rarity tier
	Tier int32 `json:"tier"`

	// EligibleSpecialtyIDs is the set of specialties allowed to gather
	// this resource. Empty for crafted resources.
	EligibleSpecialtyIDs []string `json:"eligible_specialty_ids,omitempty"`

	// MinLevel is the minimum profession level to gather
	MinLevel int32 `json:"min_level"`

	// GatherXP is the XP awarded per unit gathered
	GatherXP int64 `json:"gather_xp,omitempty"`
}

// RecipeInput is one typed input requirement of a recipe
type RecipeInput struct {
	ResourceID string `json:"resource_id"`
	Quantity   int64  `json:"quantity"`
}

// Recipe is a transformation rule: N typed input resources to one
// output resource, gated by specialty and level. Immutable after
// catalog load; validated acyclic against the recipe graph.
type Recipe struct {
	ID   string `json:"id"`
	Name string `json:"name"`

	OutputResourceID string        `json:"output_resource_id"`
	Inputs           []RecipeInput `json:"inputs"`

	MinLevel            int32  `json:"min_level"`
	RequiredSpecialtyID string `json:"required_specialty_id"`

	// BaseSuccessRate is the per-unit success probability before bonus
	// multipliers, in [0, 1].
	BaseSuccessRate float64 `json:"base_success_rate"`

	// BaseXP is the XP awarded when every unit of a batch succeeds;
	// partial batches award proportionally.
	BaseXP int64 `json:"base_xp"`

	// Tier determines the per-craft workshop durability cost
	Tier int32 `json:"tier"`

	// BaseDurationSeconds is the base crafting duration
	BaseDurationSeconds int32 `json:"base_duration_seconds"`
}
