package mystore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const redisTimeout = 5 * time.Second

// redisStore keeps every entity as a json document under "<kind>:<uid>".
type redisStore[T any] struct {
	client *goredis.Client
	kind   string
}

func newRedisStore[T any](c context.Context, addr string) (*redisStore[T], func(), error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: redisTimeout,
	})

	ctx, cancel := context.WithTimeout(c, redisTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("error connecting to redis at %s: %w", addr, err)
	}

	return &redisStore[T]{
			client: client,
			kind:   kindOf[T](),
		}, func() {
			client.Close()
		}, nil
}

func (s *redisStore[T]) key(uid string) string {
	return s.kind + ":" + uid
}

// RunInTransaction gives no isolation: single-key writes are atomic in redis
// and that is all the callers rely on.
func (s *redisStore[T]) RunInTransaction(c context.Context, f func(c context.Context) error) error {
	return f(c)
}

func (s *redisStore[T]) Put(c context.Context, uid string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("error encoding entity %s with uid %s: %w", s.kind, uid, err)
	}

	err = s.client.Set(c, s.key(uid), data, 0).Err()
	if err != nil {
		return fmt.Errorf("error storing entity %s with uid %s: %w", s.kind, uid, err)
	}
	return nil
}

func (s *redisStore[T]) Get(c context.Context, uid string) (T, bool, error) {
	var value T

	data, err := s.client.Get(c, s.key(uid)).Bytes()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return value, false, nil
		}
		return value, false, fmt.Errorf("error fetching entity %s with uid %s: %w", s.kind, uid, err)
	}

	err = json.Unmarshal(data, &value)
	if err != nil {
		return value, false, fmt.Errorf("error decoding entity %s with uid %s: %w", s.kind, uid, err)
	}
	return value, true, nil
}

func (s *redisStore[T]) Delete(c context.Context, uid string) error {
	err := s.client.Del(c, s.key(uid)).Err()
	if err != nil {
		return fmt.Errorf("error deleting entity %s with uid %s: %w", s.kind, uid, err)
	}
	return nil
}

func (s *redisStore[T]) List(c context.Context) ([]T, error) {
	keys := []string{}
	iter := s.client.Scan(c, 0, s.kind+":*", 100).Iterator()
	for iter.Next(c) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("error scanning entities %s: %w", s.kind, err)
	}

	result := make([]T, 0, len(keys))
	if len(keys) == 0 {
		return result, nil
	}

	values, err := s.client.MGet(c, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("error fetching all entities %s: %w", s.kind, err)
	}
	for _, v := range values {
		data, ok := v.(string)
		if !ok {
			// deleted between scan and fetch
			continue
		}
		var value T
		err = json.Unmarshal([]byte(data), &value)
		if err != nil {
			return nil, fmt.Errorf("error decoding entity %s: %w", s.kind, err)
		}
		result = append(result, value)
	}
	return result, nil
}
