package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore — бэкенд на PostgreSQL: таблица client_state
// с первичным ключом (profile, key). Чистый SQL через pgx, без ORM.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore создаёт хранилище поверх существующего пула соединений.
// Схему создаёт database.Migrate, вызывается из main до конструктора.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Get возвращает значение по ключу или ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, profile, key string) ([]byte, error) {
	var value []byte
	err := s.pool.QueryRow(ctx,
		`SELECT value FROM client_state WHERE profile = $1 AND key = $2`,
		profile, key,
	).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения %s/%s: %w", profile, key, err)
	}
	return value, nil
}

// Put сохраняет значение по ключу (upsert).
func (s *PostgresStore) Put(ctx context.Context, profile, key string, value []byte) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO client_state (profile, key, value, updated_at)
		 VALUES ($1, $2, $3, now())
		 ON CONFLICT (profile, key)
		 DO UPDATE SET value = EXCLUDED.value, updated_at = now()`,
		profile, key, value,
	)
	if err != nil {
		return fmt.Errorf("ошибка записи %s/%s: %w", profile, key, err)
	}
	return nil
}

// Delete удаляет значение по ключу. Отсутствие записи — не ошибка.
func (s *PostgresStore) Delete(ctx context.Context, profile, key string) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM client_state WHERE profile = $1 AND key = $2`,
		profile, key,
	)
	if err != nil {
		return fmt.Errorf("ошибка удаления %s/%s: %w", profile, key, err)
	}
	return nil
}

// Close закрывает пул соединений.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
