package crafting

// ProfessionState is a character's progress in one profession. Level is
// a pure function of XP via the profession's threshold table.
type ProfessionState struct {
	CharacterID  string `json:"character_id"`
	ProfessionID string `json:"profession_id"`

	Level int32 `json:"level"`
	XP    int64 `json:"xp"`

	// UnlockedSpecialtyIDs are the specialties unlocked at the current
	// level. At most two may be active per character; activation is the
	// caller's concern, unlocking is the ledger's.
	UnlockedSpecialtyIDs []string `json:"unlocked_specialty_ids"`

	// Version is the optimistic concurrency token for compare-and-swap
	// updates. Incremented on every successful swap.
	Version int64 `json:"version"`
}

// HasSpecialty reports whether the given specialty is unlocked
func (s *ProfessionState) HasSpecialty(specialtyID string) bool {
	for _, id := range s.UnlockedSpecialtyIDs {
		if id == specialtyID {
			return true
		}
	}
	return false
}

// Workshop is an optional shared crafting fixture with finite
// durability consumed by crafting. Durability only decreases, clamped
// at zero; repair is an external action.
type Workshop struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id,omitempty"`

	// Shared marks a workshop usable by any character in scope
	Shared bool `json:"shared"`

	Durability    int32 `json:"durability"`
	MaxDurability int32 `json:"max_durability"`
}

// NeedsRepair reports whether the workshop is unusable until repaired
func (w *Workshop) NeedsRepair() bool {
	return w.Durability <= 0
}
