package offline

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

const redisPrefix = "portal:offline:"

// redisStorage keeps each cache in a hash, and the cache names in a set.
type redisStorage struct {
	rdb *redis.Client
}

var _ Storage = (*redisStorage)(nil)

// NewRedisStorage connects to addr and returns a Storage shared by every portal process using it.
func NewRedisStorage(ctx context.Context, addr string) (Storage, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, errors.Wrap(err, "connecting to redis at "+addr)
	}
	return &redisStorage{rdb: rdb}, nil
}

func cacheKey(cache string) string { return redisPrefix + "cache:" + cache }

var namesKey = redisPrefix + "caches"

func (s *redisStorage) Put(ctx context.Context, cache, key string, res *Response) error {
	data, err := json.Marshal(res)
	if err != nil {
		return errors.Wrap(err, "encoding response")
	}
	pipe := s.rdb.TxPipeline()
	pipe.HSet(ctx, cacheKey(cache), key, data)
	pipe.SAdd(ctx, namesKey, cache)
	_, err = pipe.Exec(ctx)
	return errors.Wrap(err, "storing "+key)
}

func (s *redisStorage) Match(ctx context.Context, cache, key string) (*Response, bool, error) {
	data, err := s.rdb.HGet(ctx, cacheKey(cache), key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "matching "+key)
	}
	var res Response
	if err := json.Unmarshal(data, &res); err != nil {
		return nil, false, errors.Wrap(err, "decoding "+key)
	}
	return &res, true, nil
}

func (s *redisStorage) Caches(ctx context.Context) ([]string, error) {
	names, err := s.rdb.SMembers(ctx, namesKey).Result()
	if err != nil {
		return nil, errors.Wrap(err, "listing caches")
	}
	sort.Strings(names)
	return names, nil
}

func (s *redisStorage) Delete(ctx context.Context, cache string) error {
	pipe := s.rdb.TxPipeline()
	pipe.Del(ctx, cacheKey(cache))
	pipe.SRem(ctx, namesKey, cache)
	_, err := pipe.Exec(ctx)
	return errors.Wrap(err, "deleting cache "+cache)
}

func (s *redisStorage) Close() error {
	return s.rdb.Close()
}
