package repository

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis key layout for the login guard. Counters are per source IP; blocks are
// written for both the IP and the browser fingerprint so clearing one identity
// component is not enough to resume guessing.
const (
	keyIntentos = "login:intentos:" // + ip → failure counter
	keyBlockIP  = "login:block:ip:" // + ip → block marker with TTL
	keyBlockFP  = "login:block:fp:" // + fingerprint → block marker with TTL
)

// IntentosStore tracks failed login attempts and temporary blocks.
// Backed by Redis atomic INCR so concurrent failures from the same IP cannot
// under-count.
type IntentosStore interface {
	RegistrarFallo(ctx context.Context, ip string, ventana time.Duration) (int64, error)
	Reset(ctx context.Context, ip string) error
	Bloquear(ctx context.Context, ip, fingerprint string, duracion time.Duration) error
	Bloqueado(ctx context.Context, ip, fingerprint string) (bool, error)
}

type intentosRedis struct{ rdb *redis.Client }

func NewIntentosStore(rdb *redis.Client) IntentosStore { return &intentosRedis{rdb: rdb} }

// RegistrarFallo increments the failure counter for ip and returns the new
// count. The counting window starts at the first failure.
func (s *intentosRedis) RegistrarFallo(ctx context.Context, ip string, ventana time.Duration) (int64, error) {
	key := keyIntentos + ip
	n, err := s.rdb.Incr(ctx, key).Result()
	if err != nil {
		return 0, err
	}
	// NX: only set the expiry on the first failure of the window
	if err := s.rdb.ExpireNX(ctx, key, ventana).Err(); err != nil {
		return n, err
	}
	return n, nil
}

func (s *intentosRedis) Reset(ctx context.Context, ip string) error {
	return s.rdb.Del(ctx, keyIntentos+ip).Err()
}

// Bloquear writes block markers for both identity components. The expiry is
// fixed from the triggering attempt; later attempts do not extend it.
func (s *intentosRedis) Bloquear(ctx context.Context, ip, fingerprint string, duracion time.Duration) error {
	pipe := s.rdb.TxPipeline()
	pipe.Set(ctx, keyBlockIP+ip, "1", duracion)
	pipe.Set(ctx, keyBlockFP+fingerprint, "1", duracion)
	_, err := pipe.Exec(ctx)
	return err
}

// Bloqueado reports true when either the IP or the fingerprint is blocked.
func (s *intentosRedis) Bloqueado(ctx context.Context, ip, fingerprint string) (bool, error) {
	n, err := s.rdb.Exists(ctx, keyBlockIP+ip, keyBlockFP+fingerprint).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
