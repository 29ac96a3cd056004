package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jcastellanos/registros-api/internal/application/billing"
	"github.com/jcastellanos/registros-api/pkg/logger"
)

var _ billing.ViewCache = (*RedisViewCache)(nil)

// viewKey arma la llave Redis para una vista.
func viewKey(view string) string {
	return "views:" + view
}

// RedisViewCache cachea el payload de cada vista en Redis y la invalida
// cuando una mutación la deja obsoleta. La invalidación es best-effort;
// un Redis caído nunca tumba la mutación.
type RedisViewCache struct {
	client *redis.Client
	ttl    time.Duration
	log    *logger.Logger
}

// NewRedisViewCache conecta al servidor y verifica con un ping.
func NewRedisViewCache(ctx context.Context, addr, password string, db int, ttl time.Duration, log *logger.Logger) (*RedisViewCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("conectar a redis: %w", err)
	}
	return &RedisViewCache{client: client, ttl: ttl, log: log}, nil
}

// Get devuelve el payload cacheado de la vista, si existe.
func (c *RedisViewCache) Get(ctx context.Context, view string) ([]byte, bool) {
	payload, err := c.client.Get(ctx, viewKey(view)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn().Err(err).Str("view", view).Msg("fallo leyendo cache de vista")
		}
		return nil, false
	}
	return payload, true
}

// Set guarda el payload de la vista con el TTL configurado.
func (c *RedisViewCache) Set(ctx context.Context, view string, payload []byte) {
	if err := c.client.Set(ctx, viewKey(view), payload, c.ttl).Err(); err != nil {
		c.log.Warn().Err(err).Str("view", view).Msg("fallo guardando cache de vista")
	}
}

// Invalidate borra la entrada de la vista. Los errores solo se registran.
func (c *RedisViewCache) Invalidate(ctx context.Context, view string) {
	if err := c.client.Del(ctx, viewKey(view)).Err(); err != nil {
		c.log.Warn().Err(err).Str("view", view).Msg("fallo invalidando cache de vista")
	}
}

// Close cierra la conexión con Redis.
func (c *RedisViewCache) Close() error {
	return c.client.Close()
}
