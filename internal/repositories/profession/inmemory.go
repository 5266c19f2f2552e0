package profession

import (
	"context"
	"fmt"
	"sync"

	"github.com/forgeline/craft-api/internal/entities/crafting"
	"github.com/forgeline/craft-api/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.Mutex
	store map[string]*crafting.ProfessionState
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		store: make(map[string]*crafting.ProfessionState),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// Get retrieves a character's state in one profession
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if err := validateKey(input.CharacterID, input.ProfessionID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	state, ok := r.store[r.key(input.CharacterID, input.ProfessionID)]
	if !ok {
		return nil, errors.NotFoundf("character %q has no state in profession %q", input.CharacterID, input.ProfessionID)
	}

	cp := *state
	return &GetOutput{State: &cp}, nil
}

// Create stores initial state
func (r *InMemoryRepository) Create(_ context.Context, input CreateInput) (*CreateOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgument("state cannot be nil")
	}
	if err := validateKey(input.State.CharacterID, input.State.ProfessionID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.key(input.State.CharacterID, input.State.ProfessionID)
	if _, exists := r.store[key]; exists {
		return nil, errors.AlreadyExists("profession state already exists")
	}

	state := *input.State
	state.Version = 1
	r.store[key] = &state

	cp := state
	return &CreateOutput{State: &cp}, nil
}

// CompareAndSwap replaces state only when the stored version matches
func (r *InMemoryRepository) CompareAndSwap(_ context.Context, input CompareAndSwapInput) (*CompareAndSwapOutput, error) {
	if input.Old == nil || input.New == nil {
		return nil, errors.InvalidArgument("old and new state are required")
	}
	if err := validateKey(input.Old.CharacterID, input.Old.ProfessionID); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	key := r.key(input.Old.CharacterID, input.Old.ProfessionID)
	current, ok := r.store[key]
	if !ok || current.Version != input.Old.Version {
		return &CompareAndSwapOutput{Swapped: false}, nil
	}

	state := *input.New
	state.CharacterID = input.Old.CharacterID
	state.ProfessionID = input.Old.ProfessionID
	state.Version = input.Old.Version + 1
	r.store[key] = &state

	cp := state
	return &CompareAndSwapOutput{Swapped: true, State: &cp}, nil
}

func (r *InMemoryRepository) key(characterID, professionID string) string {
	return fmt.Sprintf("%s:%s", characterID, professionID)
}
