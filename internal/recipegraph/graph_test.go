package recipegraph_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forgeline/craft-api/internal/entities/crafting"
	"github.com/forgeline/craft-api/internal/errors"
	"github.com/forgeline/craft-api/internal/recipegraph"
)

func recipe(id, output string, inputs ...crafting.RecipeInput) crafting.Recipe {
	return crafting.Recipe{ID: id, OutputResourceID: output, Inputs: inputs}
}

func in(resourceID string, qty int64) crafting.RecipeInput {
	return crafting.RecipeInput{ResourceID: resourceID, Quantity: qty}
}

func TestValidateAcyclic(t *testing.T) {
	t.Run("cycle-free catalog passes", func(t *testing.T) {
		g := recipegraph.Build([]crafting.Recipe{
			recipe("smelt_iron", "iron_ingot", in("iron_ore", 2)),
			recipe("forge_plate", "iron_plate", in("iron_ingot", 3)),
			recipe("assemble_armor", "iron_armor", in("iron_plate", 4), in("leather_strap", 2)),
		})

		assert.NoError(t, g.ValidateAcyclic())
	})

	t.Run("cycle reported with offending path", func(t *testing.T) {
		g := recipegraph.Build([]crafting.Recipe{
			recipe("smelt_iron", "iron_ingot", in("iron_plate", 1)),
			recipe("forge_plate", "iron_plate", in("iron_ingot", 3)),
		})

		err := g.ValidateAcyclic()
		require.Error(t, err)
		assert.True(t, errors.IsCycleDetected(err))

		path, ok := errors.GetMeta(err)["path"].([]string)
		require.True(t, ok, "cycle error should carry the path")
		require.NotEmpty(t, path)
		assert.Equal(t, path[0], path[len(path)-1], "path should close the loop")
		assert.Contains(t, path, "iron_ingot")
		assert.Contains(t, path, "iron_plate")
	})

	t.Run("self-loop rejected", func(t *testing.T) {
		g := recipegraph.Build([]crafting.Recipe{
			recipe("duplicate_ingot", "iron_ingot", in("iron_ingot", 1)),
		})

		err := g.ValidateAcyclic()
		require.Error(t, err)
		assert.True(t, errors.IsCycleDetected(err))
	})

	t.Run("empty graph passes", func(t *testing.T) {
		assert.NoError(t, recipegraph.Build(nil).ValidateAcyclic())
	})
}

func TestResolve(t *testing.T) {
	g := recipegraph.Build([]crafting.Recipe{
		recipe("smelt_iron", "iron_ingot", in("iron_ore", 2), in("coal", 1)),
	})

	t.Run("known recipe returns ordered inputs", func(t *testing.T) {
		inputs, err := g.Resolve("smelt_iron")
		require.NoError(t, err)
		require.Len(t, inputs, 2)
		assert.Equal(t, "iron_ore", inputs[0].ResourceID)
		assert.Equal(t, int64(2), inputs[0].Quantity)
		assert.Equal(t, "coal", inputs[1].ResourceID)
	})

	t.Run("unknown recipe fails closed", func(t *testing.T) {
		_, err := g.Resolve("transmute_gold")
		require.Error(t, err)
		assert.True(t, errors.IsNotFound(err))
	})
}

func TestLookups(t *testing.T) {
	g := recipegraph.Build([]crafting.Recipe{
		recipe("smelt_iron", "iron_ingot", in("iron_ore", 2)),
		recipe("forge_plate", "iron_plate", in("iron_ingot", 3)),
		recipe("forge_nails", "iron_nails", in("iron_ingot", 1)),
	})

	assert.Equal(t, []string{"forge_nails", "forge_plate"}, g.ConsumersOf("iron_ingot"))
	assert.Equal(t, []string{"smelt_iron"}, g.ProducersOf("iron_ingot"))
	assert.Empty(t, g.ConsumersOf("iron_nails"))

	out, err := g.Output("forge_plate")
	require.NoError(t, err)
	assert.Equal(t, "iron_plate", out)
}

func TestCraftableFrom(t *testing.T) {
	g := recipegraph.Build([]crafting.Recipe{
		recipe("smelt_iron", "iron_ingot", in("iron_ore", 2)),
		recipe("forge_plate", "iron_plate", in("iron_ingot", 3)),
	})

	holdings := map[string]int64{"iron_ore": 10}

	assert.True(t, g.CraftableFrom("iron_plate", holdings, 5), "plate reachable from ore via two steps")
	assert.False(t, g.CraftableFrom("iron_plate", holdings, 1), "depth bound cuts the chain")
	assert.False(t, g.CraftableFrom("iron_plate", map[string]int64{}, 5), "nothing held, nothing craftable")
}
