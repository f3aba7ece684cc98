package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "cohort-crm:"

// Deduplicator guarda ids de eventos já processados com SETNX + TTL.
type Deduplicator struct {
	client *redis.Client
}

func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("REDIS_URL inválida: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("falha ao conectar no Redis: %w", err)
	}
	return client, nil
}

func NewDeduplicator(client *redis.Client) *Deduplicator {
	return &Deduplicator{client: client}
}

// FirstSeen devolve true só na primeira vez que a chave aparece dentro do TTL.
func (d *Deduplicator) FirstSeen(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := d.client.SetNX(ctx, keyPrefix+key, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("redis setnx: %w", err)
	}
	return ok, nil
}

// Forget apaga a marca; chave inexistente não é erro.
func (d *Deduplicator) Forget(ctx context.Context, key string) error {
	if err := d.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

func (d *Deduplicator) Ping(ctx context.Context) error {
	return d.client.Ping(ctx).Err()
}
