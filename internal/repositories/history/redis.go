package history

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/forgeline/craft-api/internal/entities/crafting"
	"github.com/forgeline/craft-api/internal/errors"
	redisclient "github.com/forgeline/craft-api/internal/redis"
)

const (
	// Key patterns: history:{attempt_id} for records,
	// history_index:{character_id} for the per-character list
	recordKeyPrefix = "history:"
	indexKeyPrefix  = "history_index:"

	defaultListLimit = 50
)

// RedisConfig holds the configuration for the Redis repository.
// RetentionByCategory maps record categories to their TTL; a zero or
// missing entry means the category is kept indefinitely.
type RedisConfig struct {
	Client              redisclient.Client
	RetentionByCategory map[crafting.RecordCategory]time.Duration
}

// Validate ensures all required dependencies are provided
func (c *RedisConfig) Validate() error {
	if c.Client == nil {
		return errors.InvalidArgument("redis client is required")
	}
	for category, ttl := range c.RetentionByCategory {
		if ttl < 0 {
			return errors.InvalidArgumentf("retention for category %q cannot be negative", category)
		}
	}
	return nil
}

type redisRepository struct {
	client    redisclient.Client
	retention map[crafting.RecordCategory]time.Duration
}

// NewRedisRepository creates a new Redis repository for history records
func NewRedisRepository(cfg *RedisConfig) (Repository, error) {
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	return &redisRepository{
		client:    cfg.Client,
		retention: cfg.RetentionByCategory,
	}, nil
}

// Ensure redisRepository implements Repository
var _ Repository = (*redisRepository)(nil)

func (r *redisRepository) Append(ctx context.Context, input AppendInput) (*AppendOutput, error) {
	if err := validateRecord(input.Record); err != nil {
		return nil, err
	}

	raw, err := json.Marshal(input.Record)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to marshal history record")
	}

	ttl := r.retention[input.Record.Category]
	recorded, err := r.client.SetNX(ctx, r.recordKey(input.Record.AttemptID), raw, ttl).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to append history record")
	}
	if !recorded {
		return &AppendOutput{Recorded: false}, nil
	}

	// Index write is best-effort ordering metadata; the record itself is
	// already durable.
	indexKey := r.indexKey(input.Record.CharacterID)
	pipe := r.client.TxPipeline()
	pipe.LPush(ctx, indexKey, input.Record.AttemptID)
	if ttl > 0 {
		pipe.Expire(ctx, indexKey, ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to index history record")
	}

	return &AppendOutput{Recorded: true}, nil
}

func (r *redisRepository) Get(ctx context.Context, input GetInput) (*GetOutput, error) {
	if input.AttemptID == "" {
		return nil, errors.InvalidArgument("attempt ID cannot be empty")
	}

	raw, err := r.client.Get(ctx, r.recordKey(input.AttemptID)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, errors.NotFoundf("history record %q not found", input.AttemptID)
		}
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to get history record")
	}

	var record crafting.HistoryRecord
	if err := json.Unmarshal([]byte(raw), &record); err != nil {
		return nil, errors.Wrapf(err, "failed to unmarshal history record")
	}

	return &GetOutput{Record: &record}, nil
}

func (r *redisRepository) ListByCharacter(ctx context.Context, input ListByCharacterInput) (*ListByCharacterOutput, error) {
	if input.CharacterID == "" {
		return nil, errors.InvalidArgument("character ID cannot be empty")
	}
	limit := input.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}

	attemptIDs, err := r.client.LRange(ctx, r.indexKey(input.CharacterID), 0, limit-1).Result()
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeUnavailable, "failed to list history records")
	}

	records := make([]*crafting.HistoryRecord, 0, len(attemptIDs))
	for _, attemptID := range attemptIDs {
		out, err := r.Get(ctx, GetInput{AttemptID: attemptID})
		if err != nil {
			// Retention may have purged the record while the index entry
			// lingers; skip it.
			if errors.IsNotFound(err) {
				continue
			}
			return nil, err
		}
		records = append(records, out.Record)
	}

	return &ListByCharacterOutput{Records: records}, nil
}

func (r *redisRepository) recordKey(attemptID string) string {
	return fmt.Sprintf("%s%s", recordKeyPrefix, attemptID)
}

func (r *redisRepository) indexKey(characterID string) string {
	return fmt.Sprintf("%s%s", indexKeyPrefix, characterID)
}

func validateRecord(record *crafting.HistoryRecord) error {
	if record == nil {
		return errors.InvalidArgument("record cannot be nil")
	}
	if record.AttemptID == "" {
		return errors.InvalidArgument("attempt ID cannot be empty")
	}
	if record.CharacterID == "" {
		return errors.InvalidArgument("character ID cannot be empty")
	}
	if record.Category == "" {
		return errors.InvalidArgument("record category cannot be empty")
	}
	return nil
}
