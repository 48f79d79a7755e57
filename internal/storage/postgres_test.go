package storage

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/assuranceconnect/portal/internal/config"
	"github.com/assuranceconnect/portal/internal/database"
)

// setupPostgresStore запускает PostgreSQL контейнер, применяет миграции
// и возвращает готовое хранилище.
func setupPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()

	if os.Getenv("TEST_INTEGRATION") == "" {
		t.Skip("Пропуск интеграционного теста: TEST_INTEGRATION не установлена")
	}

	ctx := context.Background()

	container, err := postgres.Run(ctx,
		"docker.io/postgres:17-alpine",
		postgres.WithDatabase("assurance_test"),
		postgres.WithUsername("assurance"),
		postgres.WithPassword("test-password"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("Не удалось запустить PostgreSQL контейнер: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("Ошибка остановки контейнера: %v", err)
		}
	})

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Не удалось получить host контейнера: %v", err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		t.Fatalf("Не удалось получить port контейнера: %v", err)
	}

	t.Setenv("AC_API_BASE_URL", "http://localhost:8080")
	t.Setenv("AC_STORAGE_BACKEND", "postgres")
	t.Setenv("AC_DB_HOST", host)
	t.Setenv("AC_DB_PORT", port.Port())
	t.Setenv("AC_DB_NAME", "assurance_test")
	t.Setenv("AC_DB_USER", "assurance")
	t.Setenv("AC_DB_PASSWORD", "test-password")
	t.Setenv("AC_DB_SSL_MODE", "disable")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	if err := database.Migrate(cfg, logger); err != nil {
		t.Fatalf("Ошибка миграций: %v", err)
	}

	pool, err := database.Connect(ctx, cfg, logger)
	if err != nil {
		t.Fatalf("Ошибка подключения: %v", err)
	}
	t.Cleanup(func() { pool.Close() })

	return NewPostgresStore(pool)
}

func TestPostgresStore_PutGetDelete(t *testing.T) {
	s := setupPostgresStore(t)
	ctx := context.Background()

	if _, err := s.Get(ctx, "jdupont", KeyUser); err == nil {
		t.Fatal("Get() до записи должен вернуть ошибку")
	}

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

	// Upsert перезаписывает значение
	if err := s.Put(ctx, "jdupont", KeyUser, []byte("v2")); err != nil {
		t.Fatalf("Повторный Put() вернул ошибку: %v", err)
	}
	got, err = s.Get(ctx, "jdupont", KeyUser)
	if err != nil {
		t.Fatalf("Get() вернул ошибку: %v", err)
	}
	if string(got) != "v2" {
		t.Errorf("Get() = %q, ожидается v2", got)
	}

	if err := s.Delete(ctx, "jdupont", KeyUser); err != nil {
		t.Fatalf("Delete() вернул ошибку: %v", err)
	}
	if _, err := s.Get(ctx, "jdupont", KeyUser); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() после Delete() вернул %v, ожидается ErrNotFound", err)
	}

	// Повторное удаление — не ошибка
	if err := s.Delete(ctx, "jdupont", KeyUser); err != nil {
		t.Errorf("Повторный Delete() вернул ошибку: %v", err)
	}
}
