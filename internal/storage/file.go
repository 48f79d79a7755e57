package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
)

// FileStore — файловый бэкенд: один файл на пару профиль/ключ
// в каталоге данных. Подходит для единственного экземпляра портала.
type FileStore struct {
	dir string
}

// NewFileStore создаёт файловое хранилище в каталоге dir.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("не удалось создать каталог данных %s: %w", dir, err)
	}
	return &FileStore{dir: dir}, nil
}

// path возвращает путь файла для пары профиль/ключ.
// Имена экранируются, чтобы исключить выход за пределы каталога.
func (s *FileStore) path(profile, key string) string {
	return filepath.Join(s.dir, url.PathEscape(profile), url.PathEscape(key)+".json")
}

// Get возвращает значение по ключу или ErrNotFound.
func (s *FileStore) Get(_ context.Context, profile, key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(profile, key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("ошибка чтения %s/%s: %w", profile, key, err)
	}
	return data, nil
}

// Put сохраняет значение по ключу. Запись атомарная:
// временный файл в том же каталоге, затем rename.
func (s *FileStore) Put(_ context.Context, profile, key string, value []byte) error {
	target := s.path(profile, key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("не удалось создать каталог профиля %s: %w", profile, err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(target), ".tmp-*")
	if err != nil {
		return fmt.Errorf("не удалось создать временный файл: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("ошибка записи %s/%s: %w", profile, key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ошибка записи %s/%s: %w", profile, key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("ошибка записи %s/%s: %w", profile, key, err)
	}
	return nil
}

// Delete удаляет значение по ключу. Отсутствие файла — не ошибка.
func (s *FileStore) Delete(_ context.Context, profile, key string) error {
	err := os.Remove(s.path(profile, key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("ошибка удаления %s/%s: %w", profile, key, err)
	}
	return nil
}

// Close у файлового бэкенда ресурсов не держит.
func (s *FileStore) Close() error {
	return nil
}
