package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"patient-access-portal/internal/domain/session"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "portal:session:"

type Config struct {
	Addr     string
	Password string
	DB       int
}

// Open crea el cliente y verifica la conexión con PING.
func Open(ctx context.Context, cfg Config) (*goredis.Client, error) {
	if strings.TrimSpace(cfg.Addr) == "" {
		return nil, errors.New("redis addr is empty")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return rdb, nil
}

// SessionStore implementa session.Persistence: un slot = una clave JSON con TTL.
type SessionStore struct {
	rdb *goredis.Client
	ttl time.Duration
}

// NewSessionStore: ttl <= 0 => sin expiración.
func NewSessionStore(rdb *goredis.Client, ttl time.Duration) *SessionStore {
	if ttl < 0 {
		ttl = 0
	}
	return &SessionStore{rdb: rdb, ttl: ttl}
}

func key(slot string) string { return keyPrefix + slot }

func (s *SessionStore) Save(ctx context.Context, slot string, snap session.Snapshot) error {
	if strings.TrimSpace(slot) == "" {
		return session.ErrSlotRequired
	}
	b, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.rdb.Set(ctx, key(slot), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set session: %w", err)
	}
	return nil
}

func (s *SessionStore) Load(ctx context.Context, slot string) (session.Snapshot, bool, error) {
	raw, err := s.rdb.Get(ctx, key(slot)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return session.Snapshot{}, false, nil
	}
	if err != nil {
		return session.Snapshot{}, false, fmt.Errorf("redis get session: %w", err)
	}

	var snap session.Snapshot
	if err := json.Unmarshal(raw, &snap); err != nil {
		return session.Snapshot{}, false, fmt.Errorf("decode session: %w", err)
	}
	return snap, true, nil
}

func (s *SessionStore) Delete(ctx context.Context, slot string) error {
	if err := s.rdb.Del(ctx, key(slot)).Err(); err != nil {
		return fmt.Errorf("redis del session: %w", err)
	}
	return nil
}

var _ session.Persistence = (*SessionStore)(nil)
