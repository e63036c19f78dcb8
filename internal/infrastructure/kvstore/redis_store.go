package kvstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"mediflow/internal/domain/entity"
	"mediflow/internal/domain/repository"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// compareAndSwapScript writes a new value only when the stored version matches.
// go-redis sends EVALSHA after the first call, so the script body travels once.
//
// Logic:
// 1. Read current version (missing hash = version 0)
// 2. If it differs from ARGV[1] -> return -1 (conflict)
// 3. Otherwise HSET value + version+1 and return the new version
var compareAndSwapScript = redis.NewScript(`
	local current = tonumber(redis.call('HGET', KEYS[1], 'version') or '0')
	if current ~= tonumber(ARGV[1]) then
		return -1
	end
	local nextVersion = current + 1
	redis.call('HSET', KEYS[1], 'value', ARGV[2], 'version', nextVersion)
	return nextVersion
`)

// setScript overwrites the value and bumps the version in one step
var setScript = redis.NewScript(`
	local nextVersion = redis.call('HINCRBY', KEYS[1], 'version', 1)
	redis.call('HSET', KEYS[1], 'value', ARGV[1])
	return nextVersion
`)

const (
	fieldValue   = "value"
	fieldVersion = "version"

	scanBatchSize = 100
)

// RedisStore keeps every key as a hash {value, version} under a common prefix
type RedisStore struct {
	client *redis.Client
	prefix string
	log    *logrus.Logger
}

var _ repository.KeyValueStore = (*RedisStore)(nil)

func NewRedisStore(client *redis.Client, prefix string, log *logrus.Logger) *RedisStore {
	return &RedisStore{
		client: client,
		prefix: prefix,
		log:    log,
	}
}

func (s *RedisStore) Get(ctx context.Context, key string) (*entity.KVItem, error) {
	vals, err := s.client.HMGet(ctx, s.redisKey(key), fieldValue, fieldVersion).Result()
	if err != nil {
		s.log.Warnf("Failed to read key %s from Redis: %+v", key, err)
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	if len(vals) != 2 || vals[0] == nil {
		return nil, nil
	}

	value, ok := vals[0].(string)
	if !ok {
		return nil, fmt.Errorf("redis get %s: unexpected value type %T", key, vals[0])
	}

	var version int64
	if raw, ok := vals[1].(string); ok {
		version, err = strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("redis get %s: bad version %q: %w", key, raw, err)
		}
	}

	return &entity.KVItem{
		Key:     key,
		Value:   []byte(value),
		Version: version,
	}, nil
}

func (s *RedisStore) Set(ctx context.Context, key string, value []byte) (int64, error) {
	version, err := setScript.Run(ctx, s.client, []string{s.redisKey(key)}, value).Int64()
	if err != nil {
		s.log.Warnf("Failed to write key %s to Redis: %+v", key, err)
		return 0, fmt.Errorf("redis set %s: %w", key, err)
	}
	return version, nil
}

func (s *RedisStore) CompareAndSwap(ctx context.Context, key string, expectedVersion int64, value []byte) (int64, error) {
	version, err := compareAndSwapScript.Run(ctx, s.client, []string{s.redisKey(key)}, expectedVersion, value).Int64()
	if err != nil {
		s.log.Warnf("Failed Lua compare-and-swap for key %s: %+v", key, err)
		return 0, fmt.Errorf("redis cas %s: %w", key, err)
	}
	if version == -1 {
		return 0, repository.ErrVersionConflict
	}
	return version, nil
}

func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.redisKey(key)).Err(); err != nil {
		s.log.Warnf("Failed to delete key %s from Redis: %+v", key, err)
		return fmt.Errorf("redis delete %s: %w", key, err)
	}
	return nil
}

// Keys walks the prefix with SCAN so a large keyspace never blocks Redis
func (s *RedisStore) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val()[len(s.prefix):])
	}
	if err := iter.Err(); err != nil {
		s.log.Warnf("Failed to scan Redis keys: %+v", err)
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return keys, nil
}

func (s *RedisStore) Close() error {
	if err := s.client.Close(); err != nil && !errors.Is(err, redis.ErrClosed) {
		return err
	}
	return nil
}

func (s *RedisStore) redisKey(key string) string {
	return s.prefix + key
}
