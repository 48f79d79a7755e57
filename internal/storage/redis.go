package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore — бэкенд на Redis: хеш на профиль,
// поля хеша — ключи клиентского состояния.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore создаёт хранилище и проверяет соединение PING-ом.
func NewRedisStore(ctx context.Context, addr, password string, db int) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis недоступен по адресу %s: %w", addr, err)
	}
	return &RedisStore{client: client}, nil
}

// hashKey возвращает ключ хеша для профиля.
func hashKey(profile string) string {
	return "ac:state:" + profile
}

// Get возвращает значение по ключу или ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, profile, key string) ([]byte, error) {
	value, err := s.client.HGet(ctx, hashKey(profile), key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения %s/%s: %w", profile, key, err)
	}
	return value, nil
}

// Put сохраняет значение по ключу.
func (s *RedisStore) Put(ctx context.Context, profile, key string, value []byte) error {
	if err := s.client.HSet(ctx, hashKey(profile), key, value).Err(); err != nil {
		return fmt.Errorf("ошибка записи %s/%s: %w", profile, key, err)
	}
	return nil
}

// Delete удаляет значение по ключу. Отсутствие записи — не ошибка.
func (s *RedisStore) Delete(ctx context.Context, profile, key string) error {
	if err := s.client.HDel(ctx, hashKey(profile), key).Err(); err != nil {
		return fmt.Errorf("ошибка удаления %s/%s: %w", profile, key, err)
	}
	return nil
}

// Close закрывает соединение с Redis.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
