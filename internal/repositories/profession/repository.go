// Package profession provides the repository interface and types for
// character profession state. Updates go through compare-and-swap on a
// version token so concurrent XP applications for the same
// character+profession serialize instead of losing updates.
package profession

import (
	"context"

	"github.com/forgeline/craft-api/internal/entities/crafting"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=professionmock github.com/forgeline/craft-api/internal/repositories/profession Repository

// GetInput contains parameters for retrieving profession state
type GetInput struct {
	CharacterID  string
	ProfessionID string
}

// GetOutput contains the result of retrieving profession state
type GetOutput struct {
	State *crafting.ProfessionState
}

// CreateInput contains parameters for creating profession state when a
// character first selects a profession
type CreateInput struct {
	State *crafting.ProfessionState
}

// CreateOutput contains the result of creating profession state
type CreateOutput struct {
	State *crafting.ProfessionState
}

// CompareAndSwapInput contains parameters for a serialized update. Old
// carries the version observed by the caller; New is the desired state.
type CompareAndSwapInput struct {
	Old *crafting.ProfessionState
	New *crafting.ProfessionState
}

// CompareAndSwapOutput contains the result of a compare-and-swap.
// Swapped is false when another writer got there first; the caller
// re-reads and retries.
type CompareAndSwapOutput struct {
	Swapped bool
	State   *crafting.ProfessionState
}

// Repository defines the interface for profession state storage
type Repository interface {
	// Get retrieves a character's state in one profession
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Create stores initial state; fails with AlreadyExists when the
	// character already follows the profession
	Create(ctx context.Context, input CreateInput) (*CreateOutput, error)

	// CompareAndSwap replaces state only when the stored version
	// matches Old.Version
	CompareAndSwap(ctx context.Context, input CompareAndSwapInput) (*CompareAndSwapOutput, error)
}
