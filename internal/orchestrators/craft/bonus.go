package craft

import (
	"context"
	"time"
)

//go:generate mockgen -destination=mock/mock_bonus.go -package=craftmock github.com/forgeline/craft-api/internal/orchestrators/craft BonusProvider

// BonusProvider supplies one multiplicative success-rate factor for a
// character at a point in time. Providers own the factor's meaning
// (weather, season, mastery); the engine only multiplies.
type BonusProvider interface {
	Factor(ctx context.Context, characterID string, now time.Time) float64
}

// Static is a BonusProvider returning a constant factor
type Static float64

// Factor returns the constant factor
func (s Static) Factor(_ context.Context, _ string, _ time.Time) float64 {
	return float64(s)
}

// Neutral is the identity bonus
const Neutral = Static(1.0)

func factorOrNeutral(ctx context.Context, p BonusProvider, characterID string, now time.Time) float64 {
	if p == nil {
		return 1.0
	}
	return p.Factor(ctx, characterID, now)
}
