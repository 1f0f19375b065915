package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// TokenDenylist keeps the jti of logged-out tokens until they would
// have expired anyway. A token on the list fails authentication.
type TokenDenylist struct {
	client *goredis.Client
	prefix string
}

func NewTokenDenylist(r *Redis) *TokenDenylist {
	return &TokenDenylist{
		client: r.Client,
		prefix: "tokens:revoked:",
	}
}

func (d *TokenDenylist) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		// already expired, nothing to deny
		return nil
	}
	return d.client.Set(ctx, d.prefix+tokenID, "1", ttl).Err()
}

func (d *TokenDenylist) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := d.client.Get(ctx, d.prefix+tokenID).Err()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
