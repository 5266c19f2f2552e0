package inventory

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"

	"github.com/forgeline/craft-api/internal/errors"
	redisclient "github.com/forgeline/craft-api/internal/redis"
)

const (
	// Key pattern: inventory:{character_id}:{resource_id}
	balanceKeyPrefix = "inventory:"
)

// decrementBatchScript checks every balance before deducting any, so a
// batch either applies fully or not at all. KEYS are balance keys, ARGV
// the matching quantities.
var decrementBatchScript = redis.NewScript(`
for i = 1, #KEYS do
	local bal = tonumber(redis.call('GET', KEYS[i]) or '0')
	if bal < tonumber(ARGV[i]) then
		return 0
	end
end
for i = 1, #KEYS do
	redis.call('DECRBY', KEYS[i], ARGV[i])
end
return 1
`)

// conditionalDecrementScript deducts a single balance only when
// sufficient, returning {applied, balance}.
var conditionalDecrementScript = redis.NewScript(`
local bal = tonumber(redis.call('GET', KEYS[1]) or '0')
local qty = tonumber(ARGV[1])
if bal < qty then
	return {0, bal}
end
return {1, redis.call('DECRBY', KEYS[1], qty)}
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

// NewRedisRepository creates a new Redis repository for inventory balances
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

func (r *redisRepository) GetBalance(ctx context.Context, input GetBalanceInput) (*GetBalanceOutput, error) {
	if err := validateKeyInput(input.CharacterID, input.ResourceID); err != nil {
		return nil, err
	}

	qty, err := r.client.Get(ctx, r.buildKey(input.CharacterID, input.ResourceID)).Int64()
	if err != nil {
		if err == redis.Nil {
			return &GetBalanceOutput{Quantity: 0}, nil
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to read balance")
	}

	return &GetBalanceOutput{Quantity: qty}, nil
}

func (r *redisRepository) Increment(ctx context.Context, input IncrementInput) (*IncrementOutput, error) {
	if err := validateKeyInput(input.CharacterID, input.ResourceID); err != nil {
		return nil, err
	}
	if input.Quantity <= 0 {
		return nil, errors.InvalidArgument("quantity must be positive")
	}

	newQty, err := r.client.IncrBy(ctx, r.buildKey(input.CharacterID, input.ResourceID), input.Quantity).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to credit balance")
	}

	return &IncrementOutput{NewQuantity: newQty}, nil
}

func (r *redisRepository) ConditionalDecrement(ctx context.Context, input ConditionalDecrementInput) (*ConditionalDecrementOutput, error) {
	if err := validateKeyInput(input.CharacterID, input.ResourceID); err != nil {
		return nil, err
	}
	if input.Quantity <= 0 {
		return nil, errors.InvalidArgument("quantity must be positive")
	}

	res, err := conditionalDecrementScript.Run(ctx, r.client,
		[]string{r.buildKey(input.CharacterID, input.ResourceID)},
		input.Quantity,
	).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to decrement balance")
	}

	vals, ok := res.([]interface{})
	if !ok || len(vals) != 2 {
		return nil, errors.Internalf("unexpected decrement script reply: %v", res)
	}

	applied, _ := vals[0].(int64)
	newQty, _ := vals[1].(int64)

	return &ConditionalDecrementOutput{
		Applied:     applied == 1,
		NewQuantity: newQty,
	}, nil
}

func (r *redisRepository) DecrementBatch(ctx context.Context, input DecrementBatchInput) (*DecrementBatchOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}
	if len(input.Items) == 0 {
		return nil, errors.InvalidArgument("batch cannot be empty")
	}

	items, err := aggregateItems(input.Items)
	if err != nil {
		return nil, err
	}

	keys := make([]string, len(items))
	args := make([]interface{}, len(items))
	for i, item := range items {
		keys[i] = r.buildKey(input.CharacterID, item.ResourceID)
		args[i] = item.Quantity
	}

	res, err := decrementBatchScript.Run(ctx, r.client, keys, args...).Int64()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to decrement batch")
	}

	return &DecrementBatchOutput{Applied: res == 1}, nil
}

func (r *redisRepository) buildKey(characterID, resourceID string) string {
	return fmt.Sprintf("%s%s:%s", balanceKeyPrefix, characterID, resourceID)
}

func validateKeyInput(characterID, resourceID string) error {
	if characterID == "" {
		return errors.InvalidArgument("character ID cannot be empty")
	}
	if resourceID == "" {
		return errors.InvalidArgument("resource ID cannot be empty")
	}
	return nil
}
