// Пакет storage — долговременное локальное хранилище клиентского состояния.
// Аналог localStorage браузера: профиль пользователя → набор именованных
// JSON-блобов (сессия, токен, зеркало локального состояния).
// Бэкенды: файловый, PostgreSQL, Redis.
package storage

import (
	"context"
	"errors"
)

// Стандартные ключи клиентского состояния.
const (
	// KeyUser — сериализованный пользователь сессии.
	KeyUser = "assurance_user"
	// KeyToken — bearer-токен backend.
	KeyToken = "assurance_token"
	// KeyAppState — блоб оптимистичного локального зеркала.
	KeyAppState = "assurance_app_state"
)

// Ошибки хранилища.
var (
	// ErrNotFound — запись не найдена.
	ErrNotFound = errors.New("запись не найдена")
)

// Store — интерфейс долговременного хранилища клиентского состояния.
// profile разделяет состояние разных пользователей портала.
type Store interface {
	// Get возвращает значение по ключу или ErrNotFound.
	Get(ctx context.Context, profile, key string) ([]byte, error)
	// Put сохраняет значение по ключу (перезаписывает существующее).
	Put(ctx context.Context, profile, key string, value []byte) error
	// Delete удаляет значение по ключу. Отсутствие записи — не ошибка.
	Delete(ctx context.Context, profile, key string) error
	// Close освобождает ресурсы бэкенда.
	Close() error
}
