package catalog

import (
	"context"
	"log/slog"
	"sync/atomic"

	"github.com/forgeline/craft-api/internal/errors"
)

// Config holds the dependencies for the catalog store
type Config struct {
	Source Source
}

// Validate ensures all required dependencies are provided
func (c *Config) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Source == nil {
		vb.RequiredField("Source")
	}
	return vb.Build()
}

// Store serves the current catalog snapshot. The snapshot pointer is
// swapped atomically on reload; readers never block.
type Store struct {
	source  Source
	current atomic.Pointer[Snapshot]
}

// New loads and validates the initial catalog. A CycleDetected or
// reference error here is fatal; the engine must not start on a
// malformed catalog.
func New(ctx context.Context, cfg *Config) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	s := &Store{source: cfg.Source}
	if err := s.Reload(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// Snapshot returns the current immutable catalog view
func (s *Store) Snapshot() *Snapshot {
	return s.current.Load()
}

// Reload builds and validates a fresh snapshot from the source, then
// swaps it in. On any validation failure the previous snapshot keeps
// serving.
func (s *Store) Reload(ctx context.Context) error {
	data, err := s.source.Load(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to load catalog")
	}

	snap, err := buildSnapshot(data)
	if err != nil {
		return errors.Wrap(err, "catalog rejected")
	}

	s.current.Store(snap)
	slog.Info("Catalog snapshot loaded",
		"professions", len(snap.professions),
		"specialties", len(snap.specialties),
		"resources", len(snap.resources),
		"recipes", len(snap.recipes),
	)
	return nil
}
