// Package recipegraph models the directed graph over resources and
// recipes: each recipe draws an edge from every input resource to its
// output resource. The graph validates catalogs (the full graph must be
// a DAG) and answers advisory lookups. It never auto-executes crafting
// chains; intermediate resources are crafted explicitly by players.
package recipegraph

import (
	"sort"

	"github.com/forgeline/craft-api/internal/entities/crafting"
	"github.com/forgeline/craft-api/internal/errors"
)

// Graph is an adjacency structure over resource and recipe ids. Built
// once per catalog snapshot, read-only afterwards.
type Graph struct {
	// inputs and outputs by recipe id
	inputs  map[string][]crafting.RecipeInput
	outputs map[string]string

	// consumers and producers by resource id
	consumers map[string][]string
	producers map[string][]string

	// edges from input resource to output resources, for cycle checks
	edges map[string][]string
}

// Build constructs a graph from catalog recipes. Build itself does not
// validate; call ValidateAcyclic before serving the graph.
func Build(recipes []crafting.Recipe) *Graph {
	g := &Graph{
		inputs:    make(map[string][]crafting.RecipeInput, len(recipes)),
		outputs:   make(map[string]string, len(recipes)),
		consumers: make(map[string][]string),
		producers: make(map[string][]string),
		edges:     make(map[string][]string),
	}

	for _, r := range recipes {
		g.inputs[r.ID] = append([]crafting.RecipeInput(nil), r.Inputs...)
		g.outputs[r.ID] = r.OutputResourceID
		g.producers[r.OutputResourceID] = append(g.producers[r.OutputResourceID], r.ID)
		for _, in := range r.Inputs {
			g.consumers[in.ResourceID] = append(g.consumers[in.ResourceID], r.ID)
			g.edges[in.ResourceID] = append(g.edges[in.ResourceID], r.OutputResourceID)
		}
	}

	for _, m := range []map[string][]string{g.consumers, g.producers} {
		for k := range m {
			sort.Strings(m[k])
		}
	}

	return g
}

// Resolve returns the ordered list of input quantities required for one
// unit of the given recipe.
func (g *Graph) Resolve(recipeID string) ([]crafting.RecipeInput, error) {
	inputs, ok := g.inputs[recipeID]
	if !ok {
		return nil, errors.NotFoundf("recipe %q not in catalog", recipeID)
	}
	return append([]crafting.RecipeInput(nil), inputs...), nil
}

// Output returns the output resource id of the given recipe
func (g *Graph) Output(recipeID string) (string, error) {
	out, ok := g.outputs[recipeID]
	if !ok {
		return "", errors.NotFoundf("recipe %q not in catalog", recipeID)
	}
	return out, nil
}

// ConsumersOf returns the recipes that consume the given resource,
// sorted by id. Advisory lookup for UI collaborators.
func (g *Graph) ConsumersOf(resourceID string) []string {
	return append([]string(nil), g.consumers[resourceID]...)
}

// ProducersOf returns the recipes that output the given resource,
// sorted by id.
func (g *Graph) ProducersOf(resourceID string) []string {
	return append([]string(nil), g.producers[resourceID]...)
}

// ValidateAcyclic rejects graphs containing a cycle, returning a
// CycleDetected error carrying the offending resource path. Self-loops
// (a recipe consuming its own output) are the degenerate case.
func (g *Graph) ValidateAcyclic() error {
	const (
		white = 0 // unvisited
		gray  = 1 // on the current DFS path
		black = 2 // fully explored
	)

	color := make(map[string]int, len(g.edges))

	// Deterministic traversal order so the reported path is stable
	roots := make([]string, 0, len(g.edges))
	for res := range g.edges {
		roots = append(roots, res)
	}
	sort.Strings(roots)

	var path []string
	var visit func(res string) []string
	visit = func(res string) []string {
		color[res] = gray
		path = append(path, res)

		next := append([]string(nil), g.edges[res]...)
		sort.Strings(next)
		for _, out := range next {
			switch color[out] {
			case gray:
				// Close the loop for the reported path
				start := 0
				for i, p := range path {
					if p == out {
						start = i
						break
					}
				}
				return append(append([]string(nil), path[start:]...), out)
			case white:
				if cycle := visit(out); cycle != nil {
					return cycle
				}
			}
		}

		path = path[:len(path)-1]
		color[res] = black
		return nil
	}

	for _, res := range roots {
		if color[res] != white {
			continue
		}
		path = path[:0]
		if cycle := visit(res); cycle != nil {
			return errors.CycleDetected(cycle)
		}
	}

	return nil
}

// CraftableFrom reports whether the target resource is ultimately
// producible starting from the given raw holdings, walking producer
// recipes depth-first with a bounded depth. Advisory only; the engine
// never auto-crafts the intermediate steps.
func (g *Graph) CraftableFrom(targetResourceID string, holdings map[string]int64, maxDepth int) bool {
	var reachable func(res string, depth int) bool
	reachable = func(res string, depth int) bool {
		if holdings[res] > 0 {
			return true
		}
		if depth >= maxDepth {
			return false
		}
		for _, recipeID := range g.producers[res] {
			ok := true
			for _, in := range g.inputs[recipeID] {
				if !reachable(in.ResourceID, depth+1) {
					ok = false
					break
				}
			}
			if ok {
				return true
			}
		}
		return false
	}
	return reachable(targetResourceID, 0)
}
