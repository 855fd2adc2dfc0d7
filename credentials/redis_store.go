package credentials

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisFieldAccessToken  = "access_token"
	redisFieldRefreshToken = "refresh_token"
)

// RedisStore keeps the credential of one user/device in a redis hash, for
// gateways that relay Photi calls on behalf of many users.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// NewRedisStore stores under prefix:userID. A zero ttl keeps the key until Delete.
func NewRedisStore(client redis.UniversalClient, prefix, userID string, ttl time.Duration) *RedisStore {
	if prefix == "" {
		prefix = "photi:credential"
	}
	return &RedisStore{client: client, key: prefix + ":" + userID, ttl: ttl}
}

func (s *RedisStore) Key() string {
	return s.key
}

func (s *RedisStore) Get(ctx context.Context) (*Credential, error) {
	values, err := s.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, err
	}
	cred := NewCredential(values[redisFieldAccessToken], values[redisFieldRefreshToken])
	if !cred.IsValid() {
		return nil, ErrNoCredential
	}
	return cred, nil
}

func (s *RedisStore) Put(ctx context.Context, cred *Credential) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.HSet(ctx, s.key, redisFieldAccessToken, cred.AccessToken, redisFieldRefreshToken, cred.RefreshToken)
		if s.ttl > 0 {
			pipe.Expire(ctx, s.key, s.ttl)
		}
		return nil
	})
	return err
}

func (s *RedisStore) Delete(ctx context.Context) error {
	return s.client.Del(ctx, s.key).Err()
}

var _ Store = (*RedisStore)(nil)
