package crafting

import "time"

// RecordCategory tags a history record for retention policy. Retention
// itself is external; the engine only tags.
type RecordCategory string

// History record categories
const (
	RecordCategoryCraftAttempt RecordCategory = "craft_attempt"
	RecordCategoryGather       RecordCategory = "gather"
	RecordCategoryAdmin        RecordCategory = "admin"
)

// BonusFactors are the multiplicative success-rate factors supplied by
// external collaborators. The engine applies them but never computes
// them.
type BonusFactors struct {
	Weather float64 `json:"weather"`
	Season  float64 `json:"season"`
	Mastery float64 `json:"mastery"`
}

// HistoryRecord is an immutable audit entry of one craft attempt or
// gather action. Appended exactly once per attempt id; never mutated or
// deleted except by retention purge.
type HistoryRecord struct {
	AttemptID   string         `json:"attempt_id"`
	Category    RecordCategory `json:"category"`
	CharacterID string         `json:"character_id"`

	// RecipeID is set for craft attempts, ResourceID for gathers
	RecipeID   string `json:"recipe_id,omitempty"`
	ResourceID string `json:"resource_id,omitempty"`

	QuantityRequested int64 `json:"quantity_requested"`

	// InputsConsumed records the exact deduction, success or not
	InputsConsumed []RecipeInput `json:"inputs_consumed,omitempty"`

	UnitsProduced int64 `json:"units_produced"`
	UnitsFailed   int64 `json:"units_failed"`

	EffectiveSuccessRate float64      `json:"effective_success_rate,omitempty"`
	Bonuses              BonusFactors `json:"bonuses,omitempty"`

	XPGained int64 `json:"xp_gained"`

	WorkshopID               string `json:"workshop_id,omitempty"`
	WorkshopDurabilityBefore int32  `json:"workshop_durability_before,omitempty"`
	WorkshopDurabilityAfter  int32  `json:"workshop_durability_after,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}
