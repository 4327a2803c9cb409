package ledgerstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/Mycelium-Node-1/UCST-AI/internal/codec"
	"github.com/redis/go-redis/v9"
)

// defaultChannel is the pub/sub channel appended entries are broadcast on.
const defaultChannel = "sovereign:ledger"

// Redis mirrors ledger entries onto a Redis list so other nodes can replay
// the log and subscribe to live appends.
type Redis struct {
	client  redis.UniversalClient
	codec   codec.Codec
	prefix  string
	channel string
}

// RedisOptions configures a Redis ledger mirror.
type RedisOptions struct {
	Client  redis.UniversalClient
	Codec   codec.Codec
	Prefix  string // key namespace, e.g. the agent id
	Channel string // pub/sub channel; defaults to "sovereign:ledger"
}

// NewRedis creates a Redis ledger mirror.
func NewRedis(opts RedisOptions) *Redis {
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	if opts.Channel == "" {
		opts.Channel = defaultChannel
	}
	return &Redis{client: opts.Client, codec: opts.Codec, prefix: opts.Prefix, channel: opts.Channel}
}

// key returns the Redis list key holding the mirrored log.
func (s *Redis) key() string {
	if s.prefix != "" {
		return s.prefix + ":ledger:entries"
	}
	return "ledger:entries"
}

// Append RPUSHes an encoded record onto the mirror list and broadcasts it on
// the pub/sub channel. The broadcast is best-effort.
func (s *Redis) Append(ctx context.Context, rec Record) error {
	b, err := s.codec.Marshal(rec)
	if err != nil {
		return fmt.Errorf("ledgerstore marshal: %w", err)
	}
	if err := s.client.RPush(ctx, s.key(), b).Err(); err != nil {
		return fmt.Errorf("ledgerstore rpush %s: %w", s.key(), err)
	}
	_ = s.client.Publish(ctx, s.channel, b).Err()
	return nil
}

// AppendMany mirrors a batch of records in one pipeline round-trip.
func (s *Redis) AppendMany(ctx context.Context, recs []Record) error {
	pipe := s.client.Pipeline()
	for _, rec := range recs {
		b, err := s.codec.Marshal(rec)
		if err != nil {
			return fmt.Errorf("ledgerstore marshal id=%s: %w", rec.ID, err)
		}
		pipe.RPush(ctx, s.key(), b)
	}
	_, err := pipe.Exec(ctx)
	return err
}

// Replay reads the whole mirrored log back in append order. Undecodable
// elements are skipped rather than failing the replay.
func (s *Redis) Replay(ctx context.Context) ([]Record, error) {
	raw, err := s.client.LRange(ctx, s.key(), 0, -1).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("ledgerstore lrange %s: %w", s.key(), err)
	}
	recs := make([]Record, 0, len(raw))
	for _, item := range raw {
		var rec Record
		if err := s.codec.Unmarshal([]byte(item), &rec); err != nil {
			continue
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// Len returns the length of the mirrored log.
func (s *Redis) Len(ctx context.Context) (int64, error) {
	n, err := s.client.LLen(ctx, s.key()).Result()
	if err != nil {
		return 0, fmt.Errorf("ledgerstore llen %s: %w", s.key(), err)
	}
	return n, nil
}

// Subscribe returns a pub/sub subscription delivering appended entries.
func (s *Redis) Subscribe(ctx context.Context) *redis.PubSub {
	return s.client.Subscribe(ctx, s.channel)
}

// Ping checks that Redis is reachable.
func (s *Redis) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
