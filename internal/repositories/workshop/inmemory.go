package workshop

import (
	"context"
	"sync"

	"github.com/forgeline/craft-api/internal/entities/crafting"
	"github.com/forgeline/craft-api/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.Mutex
	store map[string]*crafting.Workshop
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*crafting.Workshop),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// Get retrieves a workshop by id
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.WorkshopID == "" {
		return nil, errors.InvalidArgument("workshop ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.store[input.WorkshopID]
	if !ok {
		return nil, errors.NotFoundf("workshop %q not found", input.WorkshopID)
	}

	cp := *ws
	return &GetOutput{Workshop: &cp}, nil
}

// Put stores a workshop
func (r *InMemoryRepository) Put(_ context.Context, input PutInput) (*PutOutput, error) {
	if input.Workshop == nil {
		return nil, errors.InvalidArgument("workshop cannot be nil")
	}
	if input.Workshop.ID == "" {
		return nil, errors.InvalidArgument("workshop ID cannot be empty")
	}
	if input.Workshop.Durability < 0 {
		return nil, errors.InvalidArgument("durability cannot be negative")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	cp := *input.Workshop
	r.store[cp.ID] = &cp

	return &PutOutput{Workshop: input.Workshop}, nil
}

// ConditionalDecrement deducts durability clamped at zero
func (r *InMemoryRepository) ConditionalDecrement(_ context.Context, input ConditionalDecrementInput) (*ConditionalDecrementOutput, error) {
	if input.WorkshopID == "" {
		return nil, errors.InvalidArgument("workshop ID cannot be empty")
	}
	if input.Cost < 0 {
		return nil, errors.InvalidArgument("cost cannot be negative")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	ws, ok := r.store[input.WorkshopID]
	if !ok {
		return nil, errors.NotFoundf("workshop %q not found", input.WorkshopID)
	}

	before := ws.Durability
	after := before - input.Cost
	if after < 0 {
		after = 0
	}
	ws.Durability = after

	return &ConditionalDecrementOutput{
		DurabilityBefore: before,
		DurabilityAfter:  after,
		NeedsRepair:      after == 0,
	}, nil
}
