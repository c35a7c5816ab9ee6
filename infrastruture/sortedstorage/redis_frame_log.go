package sortedstorage

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/beka-birhanu/vinom-maze/service/i"
	"github.com/redis/go-redis/v9"
)

// RedisFrameLog keeps visualization frames in redis sorted sets scored by
// sequence number. Each key expires ttl after its latest append.
type RedisFrameLog struct {
	client *redis.Client
	ttl    time.Duration
}

var _ i.FrameLog = &RedisFrameLog{}

// NewRedisFrameLog initializes a RedisFrameLog with the provided Redis client and TTL.
func NewRedisFrameLog(client *redis.Client, ttlSeconds int) *RedisFrameLog {
	return &RedisFrameLog{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}
}

// Append adds frames to the sorted set at key and pushes its expiration ttl forward.
func (l *RedisFrameLog) Append(ctx context.Context, key string, frames []i.Frame) error {
	if len(frames) == 0 {
		return nil
	}

	members := make([]redis.Z, 0, len(frames))
	for _, f := range frames {
		payload, err := json.Marshal(f)
		if err != nil {
			return err
		}
		members = append(members, redis.Z{Score: float64(f.Seq), Member: string(payload)})
	}

	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.ZAdd(ctx, key, members...)
		if l.ttl > 0 {
			pipe.Expire(ctx, key, l.ttl)
		}
		return nil
	})
	return err
}

// Since returns the frames with a sequence number of at least seq.
func (l *RedisFrameLog) Since(ctx context.Context, key string, seq int64) ([]i.Frame, error) {
	payloads, err := l.client.ZRangeByScore(ctx, key, &redis.ZRangeBy{
		Min: strconv.FormatInt(seq, 10),
		Max: "+inf",
	}).Result()
	if err != nil {
		return nil, err
	}

	frames := make([]i.Frame, 0, len(payloads))
	for _, p := range payloads {
		var f i.Frame
		if err := json.Unmarshal([]byte(p), &f); err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
	return frames, nil
}

// Clear deletes the sorted set at key.
func (l *RedisFrameLog) Clear(ctx context.Context, key string) error {
	return l.client.Del(ctx, key).Err()
}
