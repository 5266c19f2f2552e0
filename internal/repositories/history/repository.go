// Package history provides append-only storage for craft and gather
// audit records. Appends are keyed by attempt id: replaying the same
// attempt id is a no-op, which makes recording safe to retry.
package history

import (
	"context"

	"github.com/forgeline/craft-api/internal/entities/crafting"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=historymock github.com/forgeline/craft-api/internal/repositories/history Repository

// AppendInput contains parameters for appending a record
type AppendInput struct {
	Record *crafting.HistoryRecord
}

// AppendOutput contains the result of an append. Recorded is false when
// a record with the same attempt id already existed.
type AppendOutput struct {
	Recorded bool
}

// GetInput contains parameters for retrieving a record
type GetInput struct {
	AttemptID string
}

// GetOutput contains the result of retrieving a record
type GetOutput struct {
	Record *crafting.HistoryRecord
}

// ListByCharacterInput contains parameters for listing a character's
// records, newest first
type ListByCharacterInput struct {
	CharacterID string
	Limit       int64
}

// ListByCharacterOutput contains the result of a character listing
type ListByCharacterOutput struct {
	Records []*crafting.HistoryRecord
}

// Repository defines the interface for history storage operations
type Repository interface {
	// Append stores a record exactly once per attempt id
	Append(ctx context.Context, input AppendInput) (*AppendOutput, error)

	// Get retrieves a record by attempt id
	Get(ctx context.Context, input GetInput) (*GetOutput, error)

	// ListByCharacter lists a character's records, newest first
	ListByCharacter(ctx context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error)
}
