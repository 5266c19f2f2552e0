package history

import (
	"context"
	"sync"

	"github.com/forgeline/craft-api/internal/entities/crafting"
	"github.com/forgeline/craft-api/internal/errors"
)

// InMemoryRepository implements Repository using in-memory storage.
// Retention is not simulated; records live for the process lifetime.
type InMemoryRepository struct {
	mu      sync.Mutex
	records map[string]*crafting.HistoryRecord
	byChar  map[string][]string
}

// NewInMemory creates a new in-memory repository
func NewInMemory() *InMemoryRepository {
	return &InMemoryRepository{
		records: make(map[string]*crafting.HistoryRecord),
		byChar:  make(map[string][]string),
	}
}

// Ensure InMemoryRepository implements Repository
var _ Repository = (*InMemoryRepository)(nil)

// Append stores a record exactly once per attempt id
func (r *InMemoryRepository) Append(_ context.Context, input AppendInput) (*AppendOutput, error) {
	if err := validateRecord(input.Record); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[input.Record.AttemptID]; exists {
		return &AppendOutput{Recorded: false}, nil
	}

	cp := *input.Record
	r.records[cp.AttemptID] = &cp
	// newest first
	r.byChar[cp.CharacterID] = append([]string{cp.AttemptID}, r.byChar[cp.CharacterID]...)

	return &AppendOutput{Recorded: true}, nil
}

// Get retrieves a record by attempt id
func (r *InMemoryRepository) Get(_ context.Context, input GetInput) (*GetOutput, error) {
	if input.AttemptID == "" {
		return nil, errors.InvalidArgument("attempt ID cannot be empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[input.AttemptID]
	if !ok {
		return nil, errors.NotFoundf("history record %q not found", input.AttemptID)
	}

	cp := *record
	return &GetOutput{Record: &cp}, nil
}

// ListByCharacter lists a character's records, newest first
func (r *InMemoryRepository) ListByCharacter(_ context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	attemptIDs := r.byChar[input.CharacterID]
	if int64(len(attemptIDs)) > limit {
		attemptIDs = attemptIDs[:limit]
	}

	records := make([]*crafting.HistoryRecord, 0, len(attemptIDs))
	for _, attemptID := range attemptIDs {
		cp := *r.records[attemptID]
		records = append(records, &cp)
	}

	return &ListByCharacterOutput{Records: records}, nil
}
