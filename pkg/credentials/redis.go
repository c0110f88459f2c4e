package credentials

import (
	"context"
	"fmt"

	redis "github.com/redis/go-redis/v9"
)

const DefaultRedisKeyPrefix = "operion:credentials:"

// RedisProvider stores each credential type as a hash under prefix+type.
type RedisProvider struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisProvider(ctx context.Context, redisURL string, prefix string) (*RedisProvider, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(opts)

	err = client.Ping(ctx).Err()
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return NewRedisProviderWithClient(client, prefix), nil
}

func NewRedisProviderWithClient(client redis.UniversalClient, prefix string) *RedisProvider {
	if prefix == "" {
		prefix = DefaultRedisKeyPrefix
	}

	return &RedisProvider{client: client, prefix: prefix}
}

func (p *RedisProvider) GetCredentials(ctx context.Context, credentialType string) (Credential, error) {
	fields, err := p.client.HGetAll(ctx, p.prefix+credentialType).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read credential %s: %w", credentialType, err)
	}

	if len(fields) == 0 {
		return nil, ErrNotFound
	}

	return Credential(fields), nil
}

// Save replaces the credential stored for credentialType.
func (p *RedisProvider) Save(ctx context.Context, credentialType string, credential Credential) error {
	key := p.prefix + credentialType

	values := make(map[string]any, len(credential))
	for k, v := range credential {
		values[k] = v
	}

	_, err := p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, key)
		pipe.HSet(ctx, key, values)

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to save credential %s: %w", credentialType, err)
	}

	return nil
}

func (p *RedisProvider) Close() error {
	return p.client.Close()
}
