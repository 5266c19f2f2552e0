// Package craft implements the craft outcome engine: eligibility,
// atomic input deduction, per-unit success draws, workshop wear, XP
// crediting, and the audit trail for every accepted attempt.
//
// Ordering is load-bearing. Everything that can reject an attempt
// (eligibility, workshop existence, input sufficiency) happens before
// anything mutates, so a rejected attempt leaves no trace. Once inputs
// are deducted the attempt is committed: per-unit failures waste
// materials rather than refunding them.
package craft

//go:generate mockgen -destination=mock/mock_service.go -package=craftmock github.com/forgeline/craft-api/internal/orchestrators/craft Service

import (
	"context"
	"log/slog"

	"github.com/forgeline/craft-api/internal/catalog"
	"github.com/forgeline/craft-api/internal/eligibility"
	"github.com/forgeline/craft-api/internal/entities/crafting"
	"github.com/forgeline/craft-api/internal/errors"
	"github.com/forgeline/craft-api/internal/orchestrators/progression"
	"github.com/forgeline/craft-api/internal/pkg/clock"
	"github.com/forgeline/craft-api/internal/pkg/idgen"
	"github.com/forgeline/craft-api/internal/pkg/rng"
	historyrepo "github.com/forgeline/craft-api/internal/repositories/history"
	inventoryrepo "github.com/forgeline/craft-api/internal/repositories/inventory"
	professionrepo "github.com/forgeline/craft-api/internal/repositories/profession"
	workshoprepo "github.com/forgeline/craft-api/internal/repositories/workshop"
)

// Service defines the interface for craft and gather operations
type Service interface {
	// Attempt executes one craft attempt end to end
	Attempt(ctx context.Context, input *AttemptInput) (*AttemptOutput, error)

	// Gather credits gathered resources and gather XP
	Gather(ctx context.Context, input *GatherInput) (*GatherOutput, error)
}

// Config holds the dependencies for the craft orchestrator
type Config struct {
	Catalog       *catalog.Store
	Resolver      *eligibility.Resolver
	InventoryRepo inventoryrepo.Repository
	StateRepo     professionrepo.Repository
	WorkshopRepo  workshoprepo.Repository
	HistoryRepo   historyrepo.Repository
	Ledger        progression.Service
	Roller        rng.Roller
	Clock         clock.Clock
	IDGenerator   idgen.Generator

	// Bonus providers are optional; absent providers contribute a
	// neutral 1.0 factor
	WeatherBonus BonusProvider
	SeasonBonus  BonusProvider
	MasteryBonus BonusProvider
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()

	if c.Catalog == nil {
		vb.RequiredField("Catalog")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.InventoryRepo == nil {
		vb.RequiredField("InventoryRepo")
	}
	if c.StateRepo == nil {
		vb.RequiredField("StateRepo")
	}
	if c.WorkshopRepo == nil {
		vb.RequiredField("WorkshopRepo")
	}
	if c.HistoryRepo == nil {
		vb.RequiredField("HistoryRepo")
	}
	if c.Ledger == nil {
		vb.RequiredField("Ledger")
	}
	if c.Roller == nil {
		vb.RequiredField("Roller")
	}
	if c.Clock == nil {
		vb.RequiredField("Clock")
	}
	if c.IDGenerator == nil {
		vb.RequiredField("IDGenerator")
	}

	return vb.Build()
}

type orchestrator struct {
	catalog       *catalog.Store
	resolver      *eligibility.Resolver
	inventoryRepo inventoryrepo.Repository
	stateRepo     professionrepo.Repository
	workshopRepo  workshoprepo.Repository
	historyRepo   historyrepo.Repository
	ledger        progression.Service
	roller        rng.Roller
	clock         clock.Clock
	idGen         idgen.Generator

	weatherBonus BonusProvider
	seasonBonus  BonusProvider
	masteryBonus BonusProvider
}

// NewOrchestrator creates a new craft orchestrator with the provided
// dependencies
func NewOrchestrator(cfg *Config) (Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &orchestrator{
		catalog:       cfg.Catalog,
		resolver:      cfg.Resolver,
		inventoryRepo: cfg.InventoryRepo,
		stateRepo:     cfg.StateRepo,
		workshopRepo:  cfg.WorkshopRepo,
		historyRepo:   cfg.HistoryRepo,
		ledger:        cfg.Ledger,
		roller:        cfg.Roller,
		clock:         cfg.Clock,
		idGen:         cfg.IDGenerator,
		weatherBonus:  cfg.WeatherBonus,
		seasonBonus:   cfg.SeasonBonus,
		masteryBonus:  cfg.MasteryBonus,
	}, nil
}

func (o *orchestrator) Attempt(ctx context.Context, input *AttemptInput) (*AttemptOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("character_id", input.CharacterID, vb)
	errors.ValidateRequired("recipe_id", input.RecipeID, vb)
	errors.ValidatePositive("quantity", input.Quantity, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	attemptID := input.AttemptID
	if attemptID == "" {
		attemptID = o.idGen.Generate()
	}

	snap := o.catalog.Snapshot()
	rec := snap.Recipe(input.RecipeID)
	if rec == nil {
		return nil, errors.NotFoundf("recipe %q not found", input.RecipeID)
	}
	professionID := snap.Specialty(rec.RequiredSpecialtyID).ProfessionID

	state, err := o.characterState(ctx, input.CharacterID, professionID)
	if err != nil {
		return nil, err
	}

	decision := o.resolver.CanCraft(snap, state, input.RecipeID)
	if !decision.Eligible {
		return nil, errors.NotEligiblef("character %q may not craft recipe %q", input.CharacterID, input.RecipeID).
			WithMeta("reason", string(decision.Reason))
	}

	// Verify the workshop before touching inventory so a bad workshop
	// id cannot cost materials
	var durabilityCost int32
	if input.WorkshopID != "" {
		if _, err := o.workshopRepo.Get(ctx, workshoprepo.GetInput{WorkshopID: input.WorkshopID}); err != nil {
			return nil, err
		}
		durabilityCost = snap.DurabilityCost(rec.Tier)
	}

	now := o.clock.Now()
	bonuses := crafting.BonusFactors{
		Weather: factorOrNeutral(ctx, o.weatherBonus, input.CharacterID, now),
		Season:  factorOrNeutral(ctx, o.seasonBonus, input.CharacterID, now),
		Mastery: factorOrNeutral(ctx, o.masteryBonus, input.CharacterID, now),
	}
	effective := clamp01(rec.BaseSuccessRate * bonuses.Weather * bonuses.Season * bonuses.Mastery)

	consumed := make([]crafting.RecipeInput, 0, len(rec.Inputs))
	items := make([]inventoryrepo.BatchItem, 0, len(rec.Inputs))
	for _, in := range rec.Inputs {
		total := in.Quantity * input.Quantity
		consumed = append(consumed, crafting.RecipeInput{ResourceID: in.ResourceID, Quantity: total})
		items = append(items, inventoryrepo.BatchItem{ResourceID: in.ResourceID, Quantity: total})
	}

	deducted, err := o.inventoryRepo.DecrementBatch(ctx, inventoryrepo.DecrementBatchInput{
		CharacterID: input.CharacterID,
		Items:       items,
	})
	if err != nil {
		return nil, err
	}
	if !deducted.Applied {
		return nil, errors.InsufficientResourcesf(
			"character %q lacks inputs for %d x recipe %q", input.CharacterID, input.Quantity, input.RecipeID)
	}

	// Inputs are spent; everything below records outcomes rather than
	// gating them
	var produced int64
	for i := int64(0); i < input.Quantity; i++ {
		if o.roller.Float64() < effective {
			produced++
		}
	}
	failed := input.Quantity - produced

	out := &AttemptOutput{
		AttemptID:            attemptID,
		UnitsProduced:        produced,
		UnitsFailed:          failed,
		EffectiveSuccessRate: effective,
		Bonuses:              bonuses,
		NewLevel:             state.Level,
	}

	record := &crafting.HistoryRecord{
		AttemptID:            attemptID,
		Category:             crafting.RecordCategoryCraftAttempt,
		CharacterID:          input.CharacterID,
		RecipeID:             input.RecipeID,
		QuantityRequested:    input.Quantity,
		InputsConsumed:       consumed,
		UnitsProduced:        produced,
		UnitsFailed:          failed,
		EffectiveSuccessRate: effective,
		Bonuses:              bonuses,
		WorkshopID:           input.WorkshopID,
		CreatedAt:            now,
	}

	if input.WorkshopID != "" {
		wear, err := o.workshopRepo.ConditionalDecrement(ctx, workshoprepo.ConditionalDecrementInput{
			WorkshopID: input.WorkshopID,
			Cost:       durabilityCost,
		})
		if err != nil {
			return nil, err
		}
		out.WorkshopDurabilityAfter = wear.DurabilityAfter
		out.WorkshopNeedsRepair = wear.NeedsRepair
		record.WorkshopDurabilityBefore = wear.DurabilityBefore
		record.WorkshopDurabilityAfter = wear.DurabilityAfter
	}

	if produced > 0 {
		if _, err := o.inventoryRepo.Increment(ctx, inventoryrepo.IncrementInput{
			CharacterID: input.CharacterID,
			ResourceID:  rec.OutputResourceID,
			Quantity:    produced,
		}); err != nil {
			return nil, err
		}
	}

	xp := rec.BaseXP * produced / input.Quantity
	record.XPGained = xp
	if xp > 0 {
		applied, err := o.ledger.ApplyXP(ctx, &progression.ApplyXPInput{
			CharacterID:  input.CharacterID,
			ProfessionID: professionID,
			XP:           xp,
		})
		if err != nil {
			return nil, err
		}
		out.XPGained = xp
		out.NewLevel = applied.State.Level
		out.NewlyUnlockedSpecialties = applied.NewlyUnlockedSpecialties
		out.NewlyUnlockedRecipes = applied.NewlyUnlockedRecipes
		out.NewlyUnlockedResources = applied.NewlyUnlockedResources
	}

	if _, err := o.historyRepo.Append(ctx, historyrepo.AppendInput{Record: record}); err != nil {
		return nil, err
	}

	slog.Info("craft attempt resolved",
		"attempt_id", attemptID,
		"character_id", input.CharacterID,
		"recipe_id", input.RecipeID,
		"quantity", input.Quantity,
		"produced", produced,
		"failed", failed,
		"xp_gained", xp,
	)

	return out, nil
}

func (o *orchestrator) Gather(ctx context.Context, input *GatherInput) (*GatherOutput, error) {
	if input == nil {
		return nil, errors.InvalidArgument("input cannot be nil")
	}
	vb := errors.NewValidationBuilder()
	errors.ValidateRequired("character_id", input.CharacterID, vb)
	errors.ValidateRequired("resource_id", input.ResourceID, vb)
	errors.ValidatePositive("quantity", input.Quantity, vb)
	if err := vb.Build(); err != nil {
		return nil, err
	}

	attemptID := input.AttemptID
	if attemptID == "" {
		attemptID = o.idGen.Generate()
	}

	snap := o.catalog.Snapshot()
	res := snap.Resource(input.ResourceID)
	if res == nil {
		return nil, errors.NotFoundf("resource %q not found", input.ResourceID)
	}

	state, professionID, err := o.gatherStanding(ctx, snap, input.CharacterID, res)
	if err != nil {
		return nil, err
	}

	credited, err := o.inventoryRepo.Increment(ctx, inventoryrepo.IncrementInput{
		CharacterID: input.CharacterID,
		ResourceID:  input.ResourceID,
		Quantity:    input.Quantity,
	})
	if err != nil {
		return nil, err
	}

	out := &GatherOutput{
		AttemptID:        attemptID,
		QuantityGathered: input.Quantity,
		NewBalance:       credited.NewQuantity,
		NewLevel:         state.Level,
	}

	xp := res.GatherXP * input.Quantity
	if xp > 0 {
		applied, err := o.ledger.ApplyXP(ctx, &progression.ApplyXPInput{
			CharacterID:  input.CharacterID,
			ProfessionID: professionID,
			XP:           xp,
		})
		if err != nil {
			return nil, err
		}
		out.XPGained = xp
		out.NewLevel = applied.State.Level
		out.NewlyUnlockedSpecialties = applied.NewlyUnlockedSpecialties
		out.NewlyUnlockedRecipes = applied.NewlyUnlockedRecipes
		out.NewlyUnlockedResources = applied.NewlyUnlockedResources
	}

	record := &crafting.HistoryRecord{
		AttemptID:         attemptID,
		Category:          crafting.RecordCategoryGather,
		CharacterID:       input.CharacterID,
		ResourceID:        input.ResourceID,
		QuantityRequested: input.Quantity,
		UnitsProduced:     input.Quantity,
		XPGained:          xp,
		CreatedAt:         o.clock.Now(),
	}
	if _, err := o.historyRepo.Append(ctx, historyrepo.AppendInput{Record: record}); err != nil {
		return nil, err
	}

	slog.Info("gather resolved",
		"attempt_id", attemptID,
		"character_id", input.CharacterID,
		"resource_id", input.ResourceID,
		"quantity", input.Quantity,
		"xp_gained", xp,
	)

	return out, nil
}

// characterState loads profession state, translating absence into an
// eligibility rejection: a character with no standing in the
// profession is simply not eligible.
func (o *orchestrator) characterState(ctx context.Context, characterID, professionID string) (*crafting.ProfessionState, error) {
	got, err := o.stateRepo.Get(ctx, professionrepo.GetInput{
		CharacterID:  characterID,
		ProfessionID: professionID,
	})
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NotEligiblef("character %q has no standing in profession %q", characterID, professionID).
				WithMeta("reason", string(eligibility.ReasonUnknownEntity))
		}
		return nil, err
	}
	return got.State, nil
}

// gatherStanding resolves which profession a gather runs under and
// credits XP to. A resource may be gatherable by specialties from
// several professions; the character's eligible standing decides, not
// the catalog's listing order.
func (o *orchestrator) gatherStanding(ctx context.Context, snap *catalog.Snapshot, characterID string, res *crafting.Resource) (*crafting.ProfessionState, string, error) {
	professionIDs := gatherProfessionIDs(snap, res)
	if len(professionIDs) == 0 {
		// Crafted resources have no gathering specialty
		return nil, "", errors.NotEligiblef("resource %q cannot be gathered", res.ID).
			WithMeta("reason", string(eligibility.ReasonSpecialtyMissing))
	}

	reason := eligibility.ReasonUnknownEntity
	for _, professionID := range professionIDs {
		got, err := o.stateRepo.Get(ctx, professionrepo.GetInput{
			CharacterID:  characterID,
			ProfessionID: professionID,
		})
		if err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return nil, "", err
		}

		decision := o.resolver.CanGather(snap, got.State, res.ID)
		if decision.Eligible {
			return got.State, professionID, nil
		}
		reason = decision.Reason
	}

	return nil, "", errors.NotEligiblef("character %q may not gather resource %q", characterID, res.ID).
		WithMeta("reason", string(reason))
}

// gatherProfessionIDs lists, in catalog order without repeats, the
// professions whose specialties may gather the resource.
func gatherProfessionIDs(snap *catalog.Snapshot, res *crafting.Resource) []string {
	seen := make(map[string]bool)
	ids := make([]string, 0, len(res.EligibleSpecialtyIDs))
	for _, spID := range res.EligibleSpecialtyIDs {
		sp := snap.Specialty(spID)
		if sp == nil || seen[sp.ProfessionID] {
			continue
		}
		seen[sp.ProfessionID] = true
		ids = append(ids, sp.ProfessionID)
	}
	return ids
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
