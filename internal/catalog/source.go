// Package catalog loads and serves the immutable reference data for the
// crafting engine: professions, specialties, resources, recipes, level
// thresholds and per-tier workshop durability costs. A catalog is built
// once into a validated snapshot and swapped atomically on reload, so
// the hot read path never locks.
package catalog

//go:generate mockgen -destination=mock/mock_source.go -package=catalogmock github.com/forgeline/craft-api/internal/catalog Source

import (
	"context"

	"github.com/forgeline/craft-api/internal/entities/crafting"
)

// Data is the raw catalog payload returned by a Source, before
// validation.
type Data struct {
	Professions []crafting.Profession `json:"professions"`
	Specialties []crafting.Specialty  `json:"specialties"`
	Resources   []crafting.Resource   `json:"resources"`
	Recipes     []crafting.Recipe     `json:"recipes"`

	// DurabilityCosts maps recipe tier to the per-craft workshop
	// durability cost.
	DurabilityCosts map[int32]int32 `json:"durability_costs"`
}

// Source provides the full catalog payload. Implementations may read
// from files, object storage, or a config service; the store revalidates
// whatever they return before serving it.
type Source interface {
	Load(ctx context.Context) (*Data, error)
}

// StaticSource serves a fixed in-memory payload, used by tests and
// embedded catalogs.
type StaticSource struct {
	Data *Data
}

// Load returns the static payload
func (s *StaticSource) Load(_ context.Context) (*Data, error) {
	return s.Data, nil
}
