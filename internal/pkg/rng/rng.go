// Package rng provides a seedable random source for per-unit craft
// outcome draws. Production code uses a time-seeded source; tests inject
// a fixed seed so that replaying the same attempt inputs yields an
// identical result.
package rng

import (
	"math/rand"
	"sync"
	"time"
)

//go:generate mockgen -destination=mock/mock.go -package=rngmock github.com/forgeline/craft-api/internal/pkg/rng Roller

// Roller draws uniform values in [0, 1).
type Roller interface {
	Float64() float64
}

// lockedRoller guards a rand.Rand for concurrent use.
type lockedRoller struct {
	mu sync.Mutex
	r  *rand.Rand
}

// Float64 returns a uniform value in [0, 1)
func (l *lockedRoller) Float64() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.r.Float64()
}

// New returns a time-seeded roller
func New() Roller {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a deterministic roller for the given seed
func NewSeeded(seed int64) Roller {
	return &lockedRoller{r: rand.New(rand.NewSource(seed))} // #nosec G404 // game outcomes, not crypto
}
