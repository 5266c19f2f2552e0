package inventory

import (
	"context"
	"sync"

	"github.com/forgeline/craft-api/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage.
// Used in tests and local development.
type InMemoryRepository struct {
	mu       sync.Mutex
	balances map[string]map[string]int64
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		balances: make(map[string]map[string]int64),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// GetBalance returns the character's balance for a resource
func (r *InMemoryRepository) GetBalance(_ context.Context, input GetBalanceInput) (*GetBalanceOutput, error) {
	if err := validateKeyInput(input.CharacterID, input.ResourceID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	return &GetBalanceOutput{Quantity: r.balances[input.CharacterID][input.ResourceID]}, nil
}

// Increment credits a balance
func (r *InMemoryRepository) Increment(_ context.Context, input IncrementInput) (*IncrementOutput, error) {
	if err := validateKeyInput(input.CharacterID, input.ResourceID); err != nil {
		return nil, err
	}
	if input.Quantity <= 0 {
		return nil, errors.InvalidArgument("quantity must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.balances[input.CharacterID] == nil {
		r.balances[input.CharacterID] = make(map[string]int64)
	}
	r.balances[input.CharacterID][input.ResourceID] += input.Quantity

	return &IncrementOutput{NewQuantity: r.balances[input.CharacterID][input.ResourceID]}, nil
}

// ConditionalDecrement atomically checks and deducts one balance
func (r *InMemoryRepository) ConditionalDecrement(_ context.Context, input ConditionalDecrementInput) (*ConditionalDecrementOutput, error) {
	if err := validateKeyInput(input.CharacterID, input.ResourceID); err != nil {
		return nil, err
	}
	if input.Quantity <= 0 {
		return nil, errors.InvalidArgument("quantity must be positive")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bal := r.balances[input.CharacterID][input.ResourceID]
	if bal < input.Quantity {
		return &ConditionalDecrementOutput{Applied: false, NewQuantity: bal}, nil
	}

	r.balances[input.CharacterID][input.ResourceID] = bal - input.Quantity
	return &ConditionalDecrementOutput{Applied: true, NewQuantity: bal - input.Quantity}, nil
}

// DecrementBatch atomically checks and deducts several balances
func (r *InMemoryRepository) DecrementBatch(_ context.Context, input DecrementBatchInput) (*DecrementBatchOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}
	if len(input.Items) == 0 {
		return nil, errors.InvalidArgument("batch cannot be empty")
	}

	items, err := aggregateItems(input.Items)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, item := range items {
		if r.balances[input.CharacterID][item.ResourceID] < item.Quantity {
			return &DecrementBatchOutput{Applied: false}, nil
		}
	}

	for _, item := range items {
		r.balances[input.CharacterID][item.ResourceID] -= item.Quantity
	}

	return &DecrementBatchOutput{Applied: true}, nil
}
