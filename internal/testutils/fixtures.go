package testutils

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/forgeline/craft-api/internal/catalog"
	"github.com/forgeline/craft-api/internal/entities/crafting"
)

// Well-known fixture ids
const (
	ProfessionBlacksmith = "blacksmith"
	ProfessionTanner     = "tanner"

	SpecialtyIronworking    = "ironworking"
	SpecialtyLeatherworking = "leatherworking"

	ResourceIronOre      = "iron_ore"
	ResourceCoal         = "coal"
	ResourceLeather      = "leather"
	ResourceIronIngot    = "iron_ingot"
	ResourceIronPlate    = "iron_plate"
	ResourceLeatherBrace = "leather_bracer"

	RecipeIronIngot     = "smelt_iron_ingot"
	RecipeIronPlate     = "forge_iron_plate"
	RecipeLeatherBracer = "stitch_leather_bracer"

	TestCharacterID = "char_test_001"
	TestWorkshopID  = "forge_shared_01"
)

// CreateTestCatalogData builds the standard fixture catalog: a
// blacksmith profession with an ironworking specialty unlocked at level
// 3, an iron ingot recipe gated at level 4, a plate recipe gated at
// level 6, and a tanner-only leather recipe.
func CreateTestCatalogData() *catalog.Data {
	return &catalog.Data{
		Professions: []crafting.Profession{
			{
				ID:           ProfessionBlacksmith,
				Name:         "Blacksmith",
				SpecialtyIDs: []string{SpecialtyIronworking},
				Thresholds: []crafting.LevelThreshold{
					{Level: 1, XPRequired: 0},
					{Level: 2, XPRequired: 50},
					{Level: 3, XPRequired: 100},
					{Level: 4, XPRequired: 200},
					{Level: 5, XPRequired: 400},
					{Level: 6, XPRequired: 800},
				},
			},
			{
				ID:           ProfessionTanner,
				Name:         "Tanner",
				SpecialtyIDs: []string{SpecialtyLeatherworking},
				Thresholds: []crafting.LevelThreshold{
					{Level: 1, XPRequired: 0},
					{Level: 2, XPRequired: 60},
					{Level: 3, XPRequired: 150},
				},
			},
		},
		Specialties: []crafting.Specialty{
			{
				ID:           SpecialtyIronworking,
				ProfessionID: ProfessionBlacksmith,
				Name:         "Ironworking",
				MinLevel:     3,
				GatherTags:   []string{"mining"},
				CraftTags:    []string{"smelting", "forging"},
			},
			{
				ID:           SpecialtyLeatherworking,
				ProfessionID: ProfessionTanner,
				Name:         "Leatherworking",
				MinLevel:     2,
				GatherTags:   []string{"skinning"},
				CraftTags:    []string{"stitching"},
			},
		},
		Resources: []crafting.Resource{
			{
				ID:                   ResourceIronOre,
				Name:                 "Iron Ore",
				Category:             crafting.ResourceCategoryMineral,
				Tier:                 1,
				EligibleSpecialtyIDs: []string{SpecialtyIronworking},
				MinLevel:             3,
				GatherXP:             5,
			},
			{
				ID:                   ResourceCoal,
				Name:                 "Coal",
				Category:             crafting.ResourceCategoryMineral,
				Tier:                 1,
				EligibleSpecialtyIDs: []string{SpecialtyIronworking},
				MinLevel:             1,
				GatherXP:             3,
			},
			{
				ID:                   ResourceLeather,
				Name:                 "Leather",
				Category:             crafting.ResourceCategoryAnimal,
				Tier:                 1,
				EligibleSpecialtyIDs: []string{SpecialtyLeatherworking},
				MinLevel:             1,
				GatherXP:             4,
			},
			{
				ID:       ResourceIronIngot,
				Name:     "Iron Ingot",
				Category: crafting.ResourceCategoryCrafted,
				Tier:     1,
			},
			{
				ID:       ResourceIronPlate,
				Name:     "Iron Plate",
				Category: crafting.ResourceCategoryCrafted,
				Tier:     2,
			},
			{
				ID:       ResourceLeatherBrace,
				Name:     "Leather Bracer",
				Category: crafting.ResourceCategoryCrafted,
				Tier:     1,
			},
		},
		Recipes: []crafting.Recipe{
			{
				ID:               RecipeIronIngot,
				Name:             "Iron Ingot",
				OutputResourceID: ResourceIronIngot,
				Inputs: []crafting.RecipeInput{
					{ResourceID: ResourceIronOre, Quantity: 2},
				},
				MinLevel:            4,
				RequiredSpecialtyID: SpecialtyIronworking,
				BaseSuccessRate:     0.8,
				BaseXP:              50,
				Tier:                1,
				BaseDurationSeconds: 10,
			},
			{
				ID:               RecipeIronPlate,
				Name:             "Iron Plate",
				OutputResourceID: ResourceIronPlate,
				Inputs: []crafting.RecipeInput{
					{ResourceID: ResourceIronIngot, Quantity: 3},
					{ResourceID: ResourceCoal, Quantity: 1},
				},
				MinLevel:            6,
				RequiredSpecialtyID: SpecialtyIronworking,
				BaseSuccessRate:     0.7,
				BaseXP:              120,
				Tier:                2,
				BaseDurationSeconds: 30,
			},
			{
				ID:               RecipeLeatherBracer,
				Name:             "Leather Bracer",
				OutputResourceID: ResourceLeatherBrace,
				Inputs: []crafting.RecipeInput{
					{ResourceID: ResourceLeather, Quantity: 2},
				},
				MinLevel:            2,
				RequiredSpecialtyID: SpecialtyLeatherworking,
				BaseSuccessRate:     0.9,
				BaseXP:              30,
				Tier:                1,
				BaseDurationSeconds: 8,
			},
		},
		DurabilityCosts: map[int32]int32{
			1: 5,
			2: 10,
		},
	}
}

// CreateTestCatalog builds a validated catalog store over the fixture
// data.
func CreateTestCatalog(t *testing.T) *catalog.Store {
	t.Helper()

	store, err := catalog.New(context.Background(), &catalog.Config{
		Source: &catalog.StaticSource{Data: CreateTestCatalogData()},
	})
	require.NoError(t, err, "fixture catalog must validate")
	return store
}

// CreateBlacksmithState returns a level 5 blacksmith with ironworking
// unlocked, matching the reference crafting scenario.
func CreateBlacksmithState() *crafting.ProfessionState {
	return &crafting.ProfessionState{
		CharacterID:          TestCharacterID,
		ProfessionID:         ProfessionBlacksmith,
		Level:                5,
		XP:                   400,
		UnlockedSpecialtyIDs: []string{SpecialtyIronworking},
		Version:              1,
	}
}
