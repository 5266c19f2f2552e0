// Package inventory provides the repository interface and types for
// character resource balances. Decrements are conditional: a balance is
// checked and deducted in one atomic step so concurrent attempts can
// never both pass a sufficiency check against the same depleting
// balance.
package inventory

import (
	"context"

	"github.com/forgeline/craft-api/internal/errors"
)

//go:generate mockgen -destination=mock/mock_repository.go -package=inventorymock github.com/forgeline/craft-api/internal/repositories/inventory Repository

// BatchItem is one resource deduction within an atomic batch
type BatchItem struct {
	ResourceID string
	Quantity   int64
}

// GetBalanceInput contains parameters for reading a balance
type GetBalanceInput struct {
	CharacterID string
	ResourceID  string
}

// GetBalanceOutput contains the result of reading a balance
type GetBalanceOutput struct {
	Quantity int64
}

// IncrementInput contains parameters for crediting a balance
type IncrementInput struct {
	CharacterID string
	ResourceID  string
	Quantity    int64
}

// IncrementOutput contains the result of crediting a balance
type IncrementOutput struct {
	NewQuantity int64
}

// ConditionalDecrementInput contains parameters for an atomic
// check-then-deduct of a single balance
type ConditionalDecrementInput struct {
	CharacterID string
	ResourceID  string
	Quantity    int64
}

// ConditionalDecrementOutput contains the result of a conditional
// decrement. Applied is false when the balance was short; in that case
// nothing was deducted.
type ConditionalDecrementOutput struct {
	Applied     bool
	NewQuantity int64
}

// DecrementBatchInput contains parameters for an atomic multi-resource
// check-then-deduct. Either every item is deducted or none is.
type DecrementBatchInput struct {
	CharacterID string
	Items       []BatchItem
}

// DecrementBatchOutput contains the result of a batch decrement
type DecrementBatchOutput struct {
	Applied bool
}

// aggregateItems merges batch items by resource id, preserving first-
// seen order. Recipe input lists may name the same resource more than
// once; the sufficiency check must see the combined quantity, not each
// line independently.
func aggregateItems(items []BatchItem) ([]BatchItem, error) {
	merged := make([]BatchItem, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		if item.ResourceID == "" {
			return nil, errors.InvalidArgument("resource ID cannot be empty")
		}
		if item.Quantity <= 0 {
			return nil, errors.InvalidArgument("quantity must be positive")
		}
		if i, seen := index[item.ResourceID]; seen {
			merged[i].Quantity += item.Quantity
			continue
		}
		index[item.ResourceID] = len(merged)
		merged = append(merged, item)
	}

	return merged, nil
}

// Repository defines the interface for inventory storage operations
type Repository interface {
	// GetBalance returns the character's balance for a resource,
	// zero for never-credited resources
	GetBalance(ctx context.Context, input GetBalanceInput) (*GetBalanceOutput, error)

	// Increment credits a balance
	Increment(ctx context.Context, input IncrementInput) (*IncrementOutput, error)

	// ConditionalDecrement atomically checks and deducts one balance
	ConditionalDecrement(ctx context.Context, input ConditionalDecrementInput) (*ConditionalDecrementOutput, error)

	// DecrementBatch atomically checks and deducts several balances;
	// all or nothing
	DecrementBatch(ctx context.Context, input DecrementBatchInput) (*DecrementBatchOutput, error)
}
