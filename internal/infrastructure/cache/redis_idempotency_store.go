// Package cache adaptadores sobre Redis. Solo guardan respuestas de escrituras ya confirmadas;
// ningún saldo ni total vive aquí.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/Gestionale-api/internal/application/payments"
	"github.com/jhoicas/Gestionale-api/pkg/config"
)

var _ payments.IdempotencyStore = (*RedisIdempotencyStore)(nil)

// pending valor de una clave reservada cuya operación aún no terminó.
const pending = "\x00pending"

// RedisIdempotencyStore implementa payments.IdempotencyStore con SETNX + TTL.
type RedisIdempotencyStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisClient abre el cliente y comprueba la conexión.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("conectar a Redis: %w", err)
	}
	return client, nil
}

// NewRedisIdempotencyStore construye el almacén sobre un cliente existente.
func NewRedisIdempotencyStore(client *redis.Client, keyPrefix string) *RedisIdempotencyStore {
	if keyPrefix == "" {
		keyPrefix = "gestionale:idempotency:"
	}
	return &RedisIdempotencyStore{client: client, keyPrefix: keyPrefix}
}

// Reserve SETNX atómico: solo una petición gana la clave.
func (s *RedisIdempotencyStore) Reserve(ctx context.Context, key string, ttl time.Duration) ([]byte, bool, error) {
	k := s.keyPrefix + key
	for attempt := 0; attempt < 2; attempt++ {
		ok, err := s.client.SetNX(ctx, k, pending, ttl).Result()
		if err != nil {
			return nil, false, fmt.Errorf("reservar clave de idempotencia: %w", err)
		}
		if ok {
			return nil, false, nil
		}
		val, err := s.client.Get(ctx, k).Bytes()
		if errors.Is(err, redis.Nil) {
			// expiró entre SETNX y GET
			continue
		}
		if err != nil {
			return nil, false, fmt.Errorf("leer clave de idempotencia: %w", err)
		}
		if string(val) == pending {
			return nil, false, payments.ErrInFlight
		}
		return val, true, nil
	}
	return nil, false, payments.ErrInFlight
}

// Complete sustituye la reserva por el resultado.
func (s *RedisIdempotencyStore) Complete(ctx context.Context, key string, result []byte, ttl time.Duration) error {
	if err := s.client.Set(ctx, s.keyPrefix+key, result, ttl).Err(); err != nil {
		return fmt.Errorf("guardar resultado idempotente: %w", err)
	}
	return nil
}

// Release borra la reserva.
func (s *RedisIdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("liberar clave de idempotencia: %w", err)
	}
	return nil
}

// Ping comprobación de salud.
func (s *RedisIdempotencyStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
