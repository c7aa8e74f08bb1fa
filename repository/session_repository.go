package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront-api/models"

	"github.com/redis/go-redis/v9"
)

// SessionRepository holds the transient checkout state: buy-now tokens,
// in-flight checkout sessions and order-write idempotency keys.
type SessionRepository interface {
	SaveBuyNow(ctx context.Context, userID string, token *models.BuyNowToken) error
	GetBuyNow(ctx context.Context, userID string) (*models.BuyNowToken, error)
	DeleteBuyNow(ctx context.Context, userID string) error

	SaveSession(ctx context.Context, session *models.CheckoutSession) error
	GetSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error)

	// GetIdempotency returns the order id already recorded for the key,
	// or "" when the key is unused.
	GetIdempotency(ctx context.Context, key string) (string, error)
	SetIdempotency(ctx context.Context, key, orderID string) error
}

type redisSessionRepo struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSessionRepo(client *redis.Client, ttl time.Duration) SessionRepository {
	return &redisSessionRepo{client: client, ttl: ttl}
}

func (r *redisSessionRepo) buyNowKey(userID string) string {
	return fmt.Sprintf("checkout:buynow:%s", userID)
}

func (r *redisSessionRepo) sessionKey(sessionID string) string {
	return fmt.Sprintf("checkout:session:%s", sessionID)
}

func (r *redisSessionRepo) idemKey(key string) string {
	return "idem:order:" + key
}

func (r *redisSessionRepo) SaveBuyNow(ctx context.Context, userID string, token *models.BuyNowToken) error {
	data, err := json.Marshal(token)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.buyNowKey(userID), data, r.ttl).Err()
}

func (r *redisSessionRepo) GetBuyNow(ctx context.Context, userID string) (*models.BuyNowToken, error) {
	data, err := r.client.Get(ctx, r.buyNowKey(userID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var token models.BuyNowToken
	if err := json.Unmarshal([]byte(data), &token); err != nil {
		return nil, err
	}
	return &token, nil
}

func (r *redisSessionRepo) DeleteBuyNow(ctx context.Context, userID string) error {
	return r.client.Del(ctx, r.buyNowKey(userID)).Err()
}

func (r *redisSessionRepo) SaveSession(ctx context.Context, session *models.CheckoutSession) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.sessionKey(session.ID), data, r.ttl).Err()
}

func (r *redisSessionRepo) GetSession(ctx context.Context, sessionID string) (*models.CheckoutSession, error) {
	data, err := r.client.Get(ctx, r.sessionKey(sessionID)).Result()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var session models.CheckoutSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *redisSessionRepo) GetIdempotency(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.idemKey(key)).Result()
	if err == redis.Nil {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return val, nil
}

func (r *redisSessionRepo) SetIdempotency(ctx context.Context, key, orderID string) error {
	return r.client.Set(ctx, r.idemKey(key), orderID, r.ttl).Err()
}
