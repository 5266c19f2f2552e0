package craft

import "github.com/forgeline/craft-api/internal/entities/crafting"

// AttemptInput contains parameters for a craft attempt. AttemptID is
// the caller's idempotency token; when empty one is generated, which
// forfeits replay protection.
type AttemptInput struct {
	AttemptID   string
	CharacterID string
	RecipeID    string
	Quantity    int64
	WorkshopID  string
}

// AttemptOutput contains the result of a craft attempt
type AttemptOutput struct {
	AttemptID string

	UnitsProduced int64
	UnitsFailed   int64

	EffectiveSuccessRate float64
	Bonuses              crafting.BonusFactors

	XPGained int64
	NewLevel int32

	WorkshopDurabilityAfter int32
	WorkshopNeedsRepair     bool

	NewlyUnlockedSpecialties []string
	NewlyUnlockedRecipes     []string
	NewlyUnlockedResources   []string
}

// GatherInput contains parameters for a gather action
type GatherInput struct {
	AttemptID   string
	CharacterID string
	ResourceID  string
	Quantity    int64
}

// GatherOutput contains the result of a gather action
type GatherOutput struct {
	AttemptID string

	QuantityGathered int64
	NewBalance       int64

	XPGained int64
	NewLevel int32

	NewlyUnlockedSpecialties []string
	NewlyUnlockedRecipes     []string
	NewlyUnlockedResources   []string
}
