// Package redis implementa la guardia de idempotencia de ventas sobre Redis.
package redis

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/inventory-sales-api/internal/application/sales"
	"github.com/jhoicas/inventory-sales-api/pkg/config"
)

const (
	idempotencyKeyPrefix = "sale:idempotency:"
	idempotencyKeyTTL    = 24 * time.Hour
)

var _ sales.IdempotencyGuard = (*IdempotencyGuard)(nil)

// IdempotencyGuard reserva claves con SETNX; la clave expira sola a las 24 h.
type IdempotencyGuard struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewIdempotencyGuard(client *goredis.Client) *IdempotencyGuard {
	return &IdempotencyGuard{client: client, ttl: idempotencyKeyTTL}
}

// NewClient crea el cliente y verifica la conexión con Ping.
func NewClient(ctx context.Context, cfg config.RedisConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

// Reserve devuelve false si la clave ya fue usada dentro del TTL.
func (g *IdempotencyGuard) Reserve(ctx context.Context, key string) (bool, error) {
	ok, err := g.client.SetNX(ctx, idempotencyKeyPrefix+key, time.Now().Unix(), g.ttl).Result()
	if err != nil {
		return false, err
	}
	return ok, nil
}

// Release libera la clave para permitir reintentos tras una venta fallida.
func (g *IdempotencyGuard) Release(ctx context.Context, key string) error {
	return g.client.Del(ctx, idempotencyKeyPrefix+key).Err()
}
