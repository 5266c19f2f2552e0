package workshop

import (
	"context"
	"encoding/json"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/forgeline/craft-api/internal/entities/crafting"
	"github.com/forgeline/craft-api/internal/errors"
	redisclient "github.com/forgeline/craft-api/internal/redis"
)

const (
	// Key pattern: workshop:{workshop_id} for metadata plus a sibling
	// :durability integer key for atomic decrements
	workshopKeyPrefix = "workshop:"
)

// decrementScript deducts durability clamped at zero, returning
// {before, after}. Missing workshops return {-1, -1}.
var decrementScript = redis.NewScript(`
local before = redis.call('GET', KEYS[1])
if not before then
	return {-1, -1}
end
before = tonumber(before)
local after = before - tonumber(ARGV[1])
if after < 0 then
	after = 0
end
redis.call('SET', KEYS[1], after)
return {before, after}
`)

// RedisConfig holds the configuration for the Redis repository
type RedisConfig struct {
	Client redisclient.Client
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	return nil
}

type redisRepository struct {
	client redisclient.Client
}

// NewRedisRepository creates a new Redis repository for workshops
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client: cfg.Client,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.WorkshopID == "" {
		return nil, errors.InvalidArgument("workshop ID cannot be empty")
	}

	raw, err := r.client.Get(ctx, r.metaKey(input.WorkshopID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("workshop %q not found", input.WorkshopID)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get workshop")
	}

	var ws crafting.Workshop
	if err := json.Unmarshal([]byte(raw), &ws); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal workshop")
	}

	durability, err := r.client.Get(ctx, r.durabilityKey(input.WorkshopID)).Int()
	if err != nil && err != redis.Nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get workshop durability")
	}
	ws.Durability = int32(durability) // #nosec G115 // durability fits int32

	return &GetOutput{Workshop: &ws}, nil
}

func (r *redisRepository) Put(ctx context.Context, input PutInput) (*PutOutput, error) {
	if input.Workshop == nil {
		return nil, errors.InvalidArgument("workshop cannot be nil")
	}
	if input.Workshop.ID == "" {
		return nil, errors.InvalidArgument("workshop ID cannot be empty")
	}
	if input.Workshop.Durability < 0 {
		return nil, errors.InvalidArgument("durability cannot be negative")
	}

	raw, err := json.Marshal(input.Workshop)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal workshop")
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.metaKey(input.Workshop.ID), raw, 0)
	pipe.Set(ctx, r.durabilityKey(input.Workshop.ID), input.Workshop.Durability, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to store workshop")
	}

	return &PutOutput{Workshop: input.Workshop}, nil
}

func (r *redisRepository) ConditionalDecrement(ctx context.Context, input ConditionalDecrementInput) (*ConditionalDecrementOutput, error) {
	if input.WorkshopID == "" {
		return nil, errors.InvalidArgument("workshop ID cannot be empty")
	}
	if input.Cost < 0 {
		return nil, errors.InvalidArgument("cost cannot be negative")
	}

	res, err := decrementScript.Run(ctx, r.client,
		[]string{r.durabilityKey(input.WorkshopID)},
		input.Cost,
	).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to decrement durability")
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return nil, errors.Internalf("unexpected decrement script reply: %v", res)
	}

	before, _ := vals[0].(int64)
	after, _ := vals[1].(int64)
	if before < 0 {
		return nil, errors.NotFoundf("workshop %q not found", input.WorkshopID)
	}

	return &ConditionalDecrementOutput{
		DurabilityBefore: int32(before), // #nosec G115 // durability fits int32
		DurabilityAfter:  int32(after),  // #nosec G115
		NeedsRepair:      after == 0,
	}, nil
}

func (r *redisRepository) metaKey(workshopID string) string {
	return fmt.Sprintf("%s%s", workshopKeyPrefix, workshopID)
}

func (r *redisRepository) durabilityKey(workshopID string) string {
	return fmt.Sprintf("%s%s:durability", workshopKeyPrefix, workshopID)
}
