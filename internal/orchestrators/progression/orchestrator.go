// Package progression implements the progression ledger: the single
// writer of per-character profession XP and level. Level is derived
// from the profession's threshold table, never stored independently of
// the XP that justifies it, and specialties unlock automatically the
// moment their level gate is met.
package progression

//go:generate mockgen -destination=mock/mock_service.go -package=progressionmock github.com/forgeline/craft-api/internal/orchestrators/progression Service

import (
	"context"
	"log/slog"
	"sort"

	"github.com/forgeline/craft-api/internal/catalog"
	"github.com/forgeline/craft-api/internal/eligibility"
	"github.com/forgeline/craft-api/internal/entities/crafting"
	"github.com/forgeline/craft-api/internal/errors"
	professionrepo "github.com/forgeline/craft-api/internal/repositories/profession"
)

const (
	// DefaultCASRetries bounds how often a lost ApplyXP race is retried
	// before surfacing a conflict
	DefaultCASRetries = 3
)

// Service defines the interface for progression operations
type Service interface {
	// ApplyXP credits XP to a character's profession, recomputing level
	// and unlocks
	ApplyXP(ctx context.Context, input *ApplyXPInput) (*ApplyXPOutput, error)

	// GetState retrieves a character's current state in a profession
	GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error)

	// JoinProfession creates a character's initial state in a profession
	JoinProfession(ctx context.Context, input *JoinProfessionInput) (*JoinProfessionOutput, error)
}

// ApplyXPInput contains parameters for crediting XP
type ApplyXPInput struct {
	CharacterID  string
	ProfessionID string
	XP           int64
}

// ApplyXPOutput contains the result of crediting XP, including the
// unlock diff across any level change
type ApplyXPOutput struct {
	State *crafting.ProfessionState

	PreviousLevel int32
	LeveledUp     bool

	NewlyUnlockedSpecialties []string
	NewlyUnlockedRecipes     []string
	NewlyUnlockedResources   []string
}

// GetStateInput contains parameters for retrieving state
type GetStateInput struct {
	CharacterID  string
	ProfessionID string
}

// GetStateOutput contains the retrieved state
type GetStateOutput struct {
	State *crafting.ProfessionState
}

// JoinProfessionInput contains parameters for joining a profession
type JoinProfessionInput struct {
	CharacterID  string
	ProfessionID string
}

// JoinProfessionOutput contains the created state
type JoinProfessionOutput struct {
	State *crafting.ProfessionState
}

// Config holds the dependencies for the progression orchestrator
type Config struct {
	Catalog    *catalog.Store
	StateRepo  professionrepo.Repository
	Resolver   *eligibility.Resolver
	CASRetries int
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.StateRepo == nil {
		vb.RequiredField("StateRepo")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}

	return vb.Build()
}

type orchestrator struct {
	catalog    *catalog.Store
	stateRepo  professionrepo.Repository
	resolver   *eligibility.Resolver
	casRetries int
}

// NewOrchestrator creates a new progression orchestrator with the
// provided dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	retries := cfg.CASRetries
	if retries <= 0 {
		retries = DefaultCASRetries
	}

	return &orchestrator{
		catalog:    cfg.Catalog,
		stateRepo:  cfg.StateRepo,
		resolver:   cfg.Resolver,
		casRetries: retries,
	}, nil
}

// LevelForXP returns the highest level whose threshold the XP total
// meets. Duplicate thresholds resolve to the higher level.
func LevelForXP(thresholds []crafting.LevelThreshold, xp int64) int32 {
	level := int32(1)
	for _, t := range thresholds {
		if xp >= t.XPRequired && t.Level > level {
			level = t.Level
		}
	}
	return level
}

func (o *orchestrator) ApplyXP(ctx context.Context, input *ApplyXPInput) (*ApplyXPOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("character_id", input.CharacterID, vb)
	errors.ValidateRequired("profession_id", input.ProfessionID, vb)
	if input.XP < 0 {
		vb.InvalidField("xp", "cannot be negative")
	}
	if err := vb.Build(); err != nil {
		return nil, err
	}

	snap := o.catalog.Snapshot()
	prof := snap.Profession(input.ProfessionID)
	if prof == nil {
		return nil, errors.NotFoundf("profession %q not found", input.ProfessionID)
	}

	for attempt := 0; attempt < o.casRetries; attempt++ {
		got, err := o.stateRepo.Get(ctx, professionrepo.GetInput{
			CharacterID:  input.CharacterID,
			ProfessionID: input.ProfessionID,
		})
		if err != nil {
			return nil, err
		}
		old := got.State

		updated := *old
		updated.XP = old.XP + input.XP
		updated.Level = LevelForXP(prof.Thresholds, updated.XP)
		updated.UnlockedSpecialtyIDs = o.specialtiesAt(snap, input.ProfessionID, updated.Level)

		swapped, err := o.stateRepo.CompareAndSwap(ctx, professionrepo.CompareAndSwapInput{
			Old: old,
			New: &updated,
		})
		if err != nil {
			return nil, err
		}
		if !swapped.Swapped {
			continue
		}

		out := &ApplyXPOutput{
			State:         swapped.State,
			PreviousLevel: old.Level,
			LeveledUp:     swapped.State.Level > old.Level,
		}
		if out.LeveledUp {
			out.NewlyUnlockedSpecialties, out.NewlyUnlockedRecipes, out.NewlyUnlockedResources =
				o.unlockDiff(snap, input.ProfessionID, old.Level, swapped.State.Level)

			slog.Info("profession level up",
				"character_id", input.CharacterID,
				"profession_id", input.ProfessionID,
				"previous_level", old.Level,
				"new_level", swapped.State.Level,
				"xp_total", swapped.State.XP,
			)
		}
		return out, nil
	}

	return nil, errors.ConcurrentConflictf(
		"could not apply xp for character %q in profession %q after %d attempts",
		input.CharacterID, input.ProfessionID, o.casRetries,
	)
}

func (o *orchestrator) GetState(ctx context.Context, input *GetStateInput) (*GetStateOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}

	got, err := o.stateRepo.Get(ctx, professionrepo.GetInput{
		CharacterID:  input.CharacterID,
		ProfessionID: input.ProfessionID,
	})
	if err != nil {
		return nil, err
	}

	return &GetStateOutput{State: got.State}, nil
}

func (o *orchestrator) JoinProfession(ctx context.Context, input *JoinProfessionInput) (*JoinProfessionOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("character_id", input.CharacterID, vb)
	errors.ValidateRequired("profession_id", input.ProfessionID, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	snap := o.catalog.Snapshot()
	if snap.Profession(input.ProfessionID) == nil {
		return nil, errors.NotFoundf("profession %q not found", input.ProfessionID)
	}

	state := &crafting.ProfessionState{
		CharacterID:          input.CharacterID,
		ProfessionID:         input.ProfessionID,
		Level:                1,
		XP:                   0,
		UnlockedSpecialtyIDs: o.specialtiesAt(snap, input.ProfessionID, 1),
	}

	created, err := o.stateRepo.Create(ctx, professionrepo.CreateInput{State: state})
	if err != nil {
		return nil, err
	}

	slog.Info("character joined profession",
		"character_id", input.CharacterID,
		"profession_id", input.ProfessionID,
	)

	return &JoinProfessionOutput{State: created.State}, nil
}

// specialtiesAt returns the sorted specialty set a character of the
// profession holds at the given level. The unlocked set is derived,
// never accumulated, so catalog changes take effect on the next write.
func (o *orchestrator) specialtiesAt(snap *catalog.Snapshot, professionID string, level int32) []string {
	specialties, _, _ := o.resolver.UnlockedAt(snap, professionID, level)
	sort.Strings(specialties)
	return specialties
}

// unlockDiff returns the specialties, recipes, and resources available
// at the new level but not the old one.
func (o *orchestrator) unlockDiff(snap *catalog.Snapshot, professionID string, oldLevel, newLevel int32) (specialties, recipes, resources []string) {
	oldSp, oldRec, oldRes := o.resolver.UnlockedAt(snap, professionID, oldLevel)
	newSp, newRec, newRes := o.resolver.UnlockedAt(snap, professionID, newLevel)

	specialties = diff(newSp, oldSp)
	recipes = diff(newRec, oldRec)
	resources = diff(newRes, oldRes)
	return specialties, recipes, resources
}

func diff(have, had []string) []string {
	prior := make(map[string]bool, len(had))
	for _, id := range had {
		prior[id] = true
	}

	var added []string
	for _, id := range have {
		if !prior[id] {
			added = append(added, id)
		}
	}
	sort.Strings(added)
	return added
}
