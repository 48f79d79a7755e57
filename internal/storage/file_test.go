package storage

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	s, err := NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() вернул ошибку: %v", err)
	}
	return s
}

func TestFileStore_PutGet(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	want := []byte(`{"name":"jdupont"}`)
	if err := s.Put(ctx, "jdupont", KeyUser, want); err != nil {
		t.Fatalf("Put() вернул ошибку: %v", err)
	}

	got, err := s.Get(ctx, "jdupont", KeyUser)
	if err != nil {
		t.Fatalf("Get() вернул ошибку: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Get() = %q, ожидается %q", got, want)
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	s := newTestFileStore(t)

	_, err := s.Get(context.Background(), "jdupont", KeyToken)
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() для отсутствующего ключа вернул %v, ожидается ErrNotFound", err)
	}
}

func TestFileStore_Overwrite(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "jdupont", KeyToken, []byte("old")); err != nil {
		t.Fatalf("Put() вернул ошибку: %v", err)
	}
	if err := s.Put(ctx, "jdupont", KeyToken, []byte("new")); err != nil {
		t.Fatalf("Повторный Put() вернул ошибку: %v", err)
	}

	got, err := s.Get(ctx, "jdupont", KeyToken)
	if err != nil {
		t.Fatalf("Get() вернул ошибку: %v", err)
	}
	if string(got) != "new" {
		t.Errorf("Get() = %q, ожидается перезаписанное значение", got)
	}
}

func TestFileStore_Delete(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "jdupont", KeyAppState, []byte("{}")); err != nil {
		t.Fatalf("Put() вернул ошибку: %v", err)
	}
	if err := s.Delete(ctx, "jdupont", KeyAppState); err != nil {
		t.Fatalf("Delete() вернул ошибку: %v", err)
	}
	if _, err := s.Get(ctx, "jdupont", KeyAppState); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() после Delete() вернул %v, ожидается ErrNotFound", err)
	}

	// Повторное удаление — не ошибка
	if err := s.Delete(ctx, "jdupont", KeyAppState); err != nil {
		t.Errorf("Повторный Delete() вернул ошибку: %v", err)
	}
}

func TestFileStore_ProfileIsolation(t *testing.T) {
	s := newTestFileStore(t)
	ctx := context.Background()

	if err := s.Put(ctx, "jdupont", KeyToken, []byte("token-a")); err != nil {
		t.Fatalf("Put() вернул ошибку: %v", err)
	}
	if err := s.Put(ctx, "mmartin", KeyToken, []byte("token-b")); err != nil {
		t.Fatalf("Put() вернул ошибку: %v", err)
	}

	got, err := s.Get(ctx, "jdupont", KeyToken)
	if err != nil {
		t.Fatalf("Get() вернул ошибку: %v", err)
	}
	if string(got) != "token-a" {
		t.Errorf("Профили не изолированы: Get() = %q", got)
	}
}

func TestFileStore_EscapesProfileName(t *testing.T) {
	dir := t.TempDir()
	s, err := NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() вернул ошибку: %v", err)
	}
	ctx := context.Background()

	// Имя профиля с разделителями пути не должно выйти за пределы каталога
	if err := s.Put(ctx, "../evil", KeyToken, []byte("x")); err != nil {
		t.Fatalf("Put() вернул ошибку: %v", err)
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(dir), "evil")); err == nil {
		t.Error("Запись вышла за пределы каталога данных")
	}

	got, err := s.Get(ctx, "../evil", KeyToken)
	if err != nil {
		t.Fatalf("Get() вернул ошибку: %v", err)
	}
	if string(got) != "x" {
		t.Errorf("Get() = %q, ожидается x", got)
	}
}
