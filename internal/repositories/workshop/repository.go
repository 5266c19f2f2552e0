// Package workshop provides the repository interface and types for
// shared crafting fixtures. Durability decrements are atomic and
// clamped at zero; a zero-durability workshop stays at zero until an
// external repair action restores it.
package workshop

import (
	"context"

	"github.com/forgeline/craft-api/internal/entities/crafting"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=workshopmock github.com/forgeline/craft-api/internal/repositories/workshop Repository

// GetInput contains parameters for retrieving a workshop
type GetInput struct {
	WorkshopID string
}

// GetOutput contains the result of retrieving a workshop
type GetOutput struct {
	Workshop *crafting.Workshop
}

// PutInput contains parameters for storing a workshop
type PutInput struct {
	Workshop *crafting.Workshop
}

// PutOutput contains the result of storing a workshop
type PutOutput struct {
	Workshop *crafting.Workshop
}

// ConditionalDecrementInput contains parameters for a durability
// decrement
type ConditionalDecrementInput struct {
	WorkshopID string
	Cost       int32
}

// ConditionalDecrementOutput contains the result of a durability
// decrement. DurabilityAfter is clamped at zero; NeedsRepair is set
// when the workshop bottomed out.
type ConditionalDecrementOutput struct {
	DurabilityBefore int32
	DurabilityAfter  int32
	NeedsRepair      bool
}

// Repository defines the interface for workshop storage operations
type Repository interface {
	// Get retrieves a workshop by id
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// Put stores a workshop (acquisition and repair both land here)
	Put(ctx context.Context, input PutInput) (*PutOutput, error)

	// ConditionalDecrement atomically deducts durability, clamped at
	// zero. Decrementing an already-exhausted workshop is a no-op.
	ConditionalDecrement(ctx context.Context, input ConditionalDecrementInput) (*ConditionalDecrementOutput, error)
}
