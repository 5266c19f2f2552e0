package profession

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
	// Key pattern: profession_state:{character_id}:{profession_id}
	// plus a sibling :version key carrying the CAS token
	stateKeyPrefix = "profession_state:"
)

// createScript stores initial state only when absent
var createScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end
redis.call('SET', KEYS[1], ARGV[1])
redis.call('SET', KEYS[2], ARGV[2])
return 1
`)

// casScript swaps state only when the stored version matches
var casScript = redis.NewScript(`
local v = tonumber(redis.call('GET', KEYS[2]) or '-1')
if v ~= tonumber(ARGV[1]) then
	return 0
end
redis.call('SET', KEYS[1], ARGV[2])
redis.call('INCR', KEYS[2])
return 1
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

// NewRedisRepository creates a new Redis repository for profession state
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
	if err := validateKey(input.CharacterID, input.ProfessionID); err != nil {
		return nil, err
	}

	raw, err := r.client.Get(ctx, r.stateKey(input.CharacterID, input.ProfessionID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("character %q has no state in profession %q", input.CharacterID, input.ProfessionID)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get profession state")
	}

	var state crafting.ProfessionState
	if err := json.Unmarshal([]byte(raw), &state); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal profession state")
	}

	return &GetOutput{State: &state}, nil
}

func (r *redisRepository) Create(ctx context.Context, input CreateInput) (*CreateOutput, error) {
	if input.State == nil {
		return nil, errors.InvalidArgument("state cannot be nil")
	}
	if err := validateKey(input.State.CharacterID, input.State.ProfessionID); err != nil {
		return nil, err
	}

	state := *input.State
	state.Version = 1

	raw, err := json.Marshal(&state)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal profession state")
	}

	created, err := createScript.Run(ctx, r.client,
		[]string{
			r.stateKey(state.CharacterID, state.ProfessionID),
			r.versionKey(state.CharacterID, state.ProfessionID),
		},
		raw, state.Version,
	).Int64()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to create profession state")
	}
	if created == 0 {
		return nil, errors.AlreadyExists("profession state already exists")
	}

	return &CreateOutput{State: &state}, nil
}

func (r *redisRepository) CompareAndSwap(ctx context.Context, input CompareAndSwapInput) (*CompareAndSwapOutput, error) {
	if input.Old == nil || input.New == nil {
		return nil, errors.InvalidArgument("old and new state are required")
	}
	if err := validateKey(input.Old.CharacterID, input.Old.ProfessionID); err != nil {
		return nil, err
	}

	state := *input.New
	state.CharacterID = input.Old.CharacterID
	state.ProfessionID = input.Old.ProfessionID
	state.Version = input.Old.Version + 1

	raw, err := json.Marshal(&state)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal profession state")
	}

	swapped, err := casScript.Run(ctx, r.client,
		[]string{
			r.stateKey(state.CharacterID, state.ProfessionID),
			r.versionKey(state.CharacterID, state.ProfessionID),
		},
		input.Old.Version, raw,
	).Int64()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to swap profession state")
	}
	if swapped == 0 {
		return &CompareAndSwapOutput{Swapped: false}, nil
	}

	return &CompareAndSwapOutput{Swapped: true, State: &state}, nil
}

func (r *redisRepository) stateKey(characterID, professionID string) string {
	return fmt.Sprintf("%s%s:%s", stateKeyPrefix, characterID, professionID)
}

func (r *redisRepository) versionKey(characterID, professionID string) string {
	return fmt.Sprintf("%s%s:%s:version", stateKeyPrefix, characterID, professionID)
}

func validateKey(characterID, professionID string) error {
	if characterID == "" {
		return errors.InvalidArgument("character ID cannot be empty")
	}
	if professionID == "" {
		return errors.InvalidArgument("profession ID cannot be empty")
	}
	return nil
}
