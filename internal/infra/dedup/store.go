package dedup

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrStore возвращается при ошибке хранилища обработанных событий
var ErrStore = errors.New("dedup: store error")

const keyPrefix = "booking:webhook:"

// RedisStore хранит идентификаторы обработанных событий в Redis с TTL
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore создает хранилище поверх Redis
func NewRedisStore(addr, password string, db int, ttl time.Duration) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStore{client: rdb, ttl: ttl}
}

// Ping проверяет доступность Redis
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("%w: ping: %v", ErrStore, err)
	}
	return nil
}

// MarkProcessed атомарно помечает событие обработанным (SETNX)
// Возвращает false, если событие уже встречалось
func (s *RedisStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	first, err := s.client.SetNX(ctx, keyPrefix+eventID, 1, s.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("%w: setnx %s: %v", ErrStore, eventID, err)
	}
	return first, nil
}

// Forget снимает отметку, чтобы повторная доставка события была обработана
func (s *RedisStore) Forget(ctx context.Context, eventID string) error {
	if err := s.client.Del(ctx, keyPrefix+eventID).Err(); err != nil {
		return fmt.Errorf("%w: del %s: %v", ErrStore, eventID, err)
	}
	return nil
}

// Close закрывает соединение
func (s *RedisStore) Close() error {
	return s.client.Close()
}

// MemoryStore хранилище обработанных событий в памяти процесса
type MemoryStore struct {
	mu    sync.Mutex
	seen  map[string]time.Time
	ttl   time.Duration
	clock func() time.Time
}

// NewMemoryStore создает хранилище в памяти
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		seen:  make(map[string]time.Time),
		ttl:   ttl,
		clock: time.Now,
	}
}

// WithClock подменяет источник времени (для тестов)
func (s *MemoryStore) WithClock(clock func() time.Time) *MemoryStore {
	s.clock = clock
	return s
}

// MarkProcessed помечает событие обработанным, если его еще не было
func (s *MemoryStore) MarkProcessed(ctx context.Context, eventID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.clock()
	if expiresAt, ok := s.seen[eventID]; ok && now.Before(expiresAt) {
		return false, nil
	}
	s.seen[eventID] = now.Add(s.ttl)
	return true, nil
}

// Forget снимает отметку
func (s *MemoryStore) Forget(ctx context.Context, eventID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, eventID)
	return nil
}
