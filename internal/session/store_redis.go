package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"pos-platform/internal/principal"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps each principal's session list under one key as a JSON
// envelope {version, sessions}. Save runs inside WATCH/MULTI so a concurrent
// writer aborts the transaction, which surfaces as ErrVersionConflict.
//
// Keys expire after ttl so lists cannot outlive their refresh tokens by
// much; every Save renews the expiry.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

type redisEnvelope struct {
	Version  int64     `json:"version"`
	Sessions []Session `json:"sessions"`
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) key(ref principal.Ref) string {
	return fmt.Sprintf("sessions:%s:%s", ref.Kind, ref.ID)
}

func (s *RedisStore) Load(ctx context.Context, ref principal.Ref) ([]Session, int64, error) {
	raw, err := s.client.Get(ctx, s.key(ref)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, 0, nil
		}
		return nil, 0, err
	}
	var env redisEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, 0, fmt.Errorf("session: decode stored list: %w", err)
	}
	return env.Sessions, env.Version, nil
}

func (s *RedisStore) Save(ctx context.Context, ref principal.Ref, sessions []Session, expectedVersion int64) error {
	if sessions == nil {
		sessions = []Session{}
	}
	key := s.key(ref)

	txn := func(tx *redis.Tx) error {
		var current int64
		raw, err := tx.Get(ctx, key).Bytes()
		switch {
		case errors.Is(err, redis.Nil):
			current = 0
		case err != nil:
			return err
		default:
			var env redisEnvelope
			if err := json.Unmarshal(raw, &env); err != nil {
				return fmt.Errorf("session: decode stored list: %w", err)
			}
			current = env.Version
		}
		if current != expectedVersion {
			return ErrVersionConflict
		}

		next, err := json.Marshal(redisEnvelope{Version: current + 1, Sessions: sessions})
		if err != nil {
			return fmt.Errorf("session: encode list: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, next, s.ttl)
			return nil
		})
		return err
	}

	err := s.client.Watch(ctx, txn, key)
	if errors.Is(err, redis.TxFailedErr) {
		// Key changed between WATCH and EXEC.
		return ErrVersionConflict
	}
	return err
}
