// Пакет config — загрузка и валидация конфигурации Assurance Connect Portal
// из переменных окружения.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// Версия приложения, задаётся при сборке через -ldflags.
var Version = "dev"

// Бэкенды долговременного локального хранилища клиентского состояния.
const (
	StorageFile     = "file"
	StoragePostgres = "postgres"
	StorageRedis    = "redis"
)

// Config содержит все параметры конфигурации Portal.
type Config struct {
	// --- Сервер ---

	// Порт HTTP-сервера
	Port int
	// Уровень логирования (debug, info, warn, error)
	LogLevel slog.Level
	// Формат логов (json, text)
	LogFormat string

	// --- Backend REST API (assurance-backend) ---

	// Базовый URL REST API (например, http://localhost:8080)
	APIBaseURL string
	// Таймаут HTTP-запросов к backend
	APITimeout time.Duration

	// --- Локальное хранилище клиентского состояния ---

	// Бэкенд хранилища: file, postgres, redis
	StorageBackend string
	// Каталог данных для file-бэкенда
	DataDir string

	// --- PostgreSQL (только при AC_STORAGE_BACKEND=postgres) ---

	// Хост PostgreSQL
	DBHost string
	// Порт PostgreSQL
	DBPort int
	// Имя базы данных
	DBName string
	// Имя пользователя PostgreSQL
	DBUser string
	// Пароль пользователя PostgreSQL
	DBPassword string
	// Режим SSL: disable, require, verify-ca, verify-full
	DBSSLMode string

	// --- Redis (только при AC_STORAGE_BACKEND=redis) ---

	// Адрес Redis (host:port)
	RedisAddr string
	// Пароль Redis (опционально)
	RedisPassword string
	// Номер базы Redis
	RedisDB int

	// --- UI-сессии ---

	// Секрет шифрования session cookie (AES-256-GCM)
	UISessionSecret string
	// Secure flag для cookie (true при работе за HTTPS)
	SecureCookie bool

	// --- Автоматический выход по бездействию ---

	// Полный бюджет бездействия до автоматического выхода
	IdleTimeout time.Duration
	// За сколько до выхода показывается предупреждение
	IdleWarning time.Duration

	// --- Фоновый опрос backend ---

	// Интервал опроса счётчика непрочитанных уведомлений
	NotifPollInterval time.Duration

	// --- Кэш прав доступа ---

	// Максимальный размер LRU-кэша прав (записей)
	PermCacheSize int
	// TTL записи кэша прав
	PermCacheTTL time.Duration

	// --- topologymetrics ---

	// Имя группы в метриках зависимостей
	DephealthGroup string
	// Интервал проверки зависимостей
	DephealthCheckInterval time.Duration

	// --- Graceful shutdown ---

	// Таймаут graceful shutdown HTTP-сервера
	ShutdownTimeout time.Duration
}

// Load загружает конфигурацию из переменных окружения, валидирует
// обязательные поля и возвращает Config или ошибку.
func Load() (*Config, error) {
	cfg := &Config{}
	var err error

	// --- Сервер ---

	// AC_PORT — порт HTTP-сервера (по умолчанию 8100)
	cfg.Port, err = getEnvInt("AC_PORT", 8100)
	if err != nil {
		return nil, fmt.Errorf("AC_PORT: %w", err)
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return nil, fmt.Errorf("AC_PORT: значение %d вне допустимого диапазона 1-65535", cfg.Port)
	}

	// AC_LOG_LEVEL — уровень логирования (по умолчанию info)
	cfg.LogLevel, err = parseLogLevel(getEnvDefault("AC_LOG_LEVEL", "info"))
	if err != nil {
		return nil, fmt.Errorf("AC_LOG_LEVEL: %w", err)
	}

	// AC_LOG_FORMAT — формат логов (по умолчанию json)
	cfg.LogFormat = getEnvDefault("AC_LOG_FORMAT", "json")
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return nil, fmt.Errorf("AC_LOG_FORMAT: недопустимое значение %q, допустимые: json, text", cfg.LogFormat)
	}

	// --- Backend REST API ---

	// AC_API_BASE_URL — обязательный
	cfg.APIBaseURL, err = getEnvRequired("AC_API_BASE_URL")
	if err != nil {
		return nil, err
	}
	// Убираем trailing slash
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	// AC_API_TIMEOUT — таймаут запросов к backend (по умолчанию 30s)
	cfg.APITimeout, err = getEnvDuration("AC_API_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AC_API_TIMEOUT: %w", err)
	}

	// --- Локальное хранилище ---

	// AC_STORAGE_BACKEND — бэкенд хранилища (по умолчанию file)
	cfg.StorageBackend = getEnvDefault("AC_STORAGE_BACKEND", StorageFile)
	switch cfg.StorageBackend {
	case StorageFile, StoragePostgres, StorageRedis:
	default:
		return nil, fmt.Errorf("AC_STORAGE_BACKEND: недопустимое значение %q, допустимые: file, postgres, redis", cfg.StorageBackend)
	}

	// AC_DATA_DIR — каталог данных file-бэкенда (по умолчанию ./data)
	cfg.DataDir = getEnvDefault("AC_DATA_DIR", "./data")

	// --- PostgreSQL ---

	if cfg.StorageBackend == StoragePostgres {
		// AC_DB_HOST — обязательный при postgres-бэкенде
		cfg.DBHost, err = getEnvRequired("AC_DB_HOST")
		if err != nil {
			return nil, err
		}

		// AC_DB_PORT — порт PostgreSQL (по умолчанию 5432)
		cfg.DBPort, err = getEnvInt("AC_DB_PORT", 5432)
		if err != nil {
			return nil, fmt.Errorf("AC_DB_PORT: %w", err)
		}

		// AC_DB_NAME — обязательный
		cfg.DBName, err = getEnvRequired("AC_DB_NAME")
		if err != nil {
			return nil, err
		}

		// AC_DB_USER — обязательный
		cfg.DBUser, err = getEnvRequired("AC_DB_USER")
		if err != nil {
			return nil, err
		}

		// AC_DB_PASSWORD — обязательный
		cfg.DBPassword, err = getEnvRequired("AC_DB_PASSWORD")
		if err != nil {
			return nil, err
		}

		// AC_DB_SSL_MODE — режим SSL (по умолчанию disable)
		cfg.DBSSLMode = getEnvDefault("AC_DB_SSL_MODE", "disable")
		validSSLModes := map[string]bool{
			"disable": true, "require": true, "verify-ca": true, "verify-full": true,
		}
		if !validSSLModes[cfg.DBSSLMode] {
			return nil, fmt.Errorf("AC_DB_SSL_MODE: недопустимое значение %q, допустимые: disable, require, verify-ca, verify-full", cfg.DBSSLMode)
		}
	}

	// --- Redis ---

	if cfg.StorageBackend == StorageRedis {
		// AC_REDIS_ADDR — обязательный при redis-бэкенде
		cfg.RedisAddr, err = getEnvRequired("AC_REDIS_ADDR")
		if err != nil {
			return nil, err
		}

		// AC_REDIS_PASSWORD — пароль (опционально)
		cfg.RedisPassword = getEnvDefault("AC_REDIS_PASSWORD", "")

		// AC_REDIS_DB — номер базы (по умолчанию 0)
		cfg.RedisDB, err = getEnvInt("AC_REDIS_DB", 0)
		if err != nil {
			return nil, fmt.Errorf("AC_REDIS_DB: %w", err)
		}
	}

	// --- UI-сессии ---

	// AC_UI_SESSION_SECRET — секрет шифрования cookie (опционально,
	// при пустом значении генерируется случайный ключ)
	cfg.UISessionSecret = getEnvDefault("AC_UI_SESSION_SECRET", "")

	// AC_SECURE_COOKIE — Secure flag для cookie (по умолчанию false)
	cfg.SecureCookie = getEnvDefault("AC_SECURE_COOKIE", "false") == "true"

	// --- Автоматический выход по бездействию ---

	// AC_IDLE_TIMEOUT — полный бюджет бездействия (по умолчанию 3m)
	cfg.IdleTimeout, err = getEnvDuration("AC_IDLE_TIMEOUT", 3*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("AC_IDLE_TIMEOUT: %w", err)
	}

	// AC_IDLE_WARNING — упреждение предупреждения (по умолчанию 1m)
	cfg.IdleWarning, err = getEnvDuration("AC_IDLE_WARNING", time.Minute)
	if err != nil {
		return nil, fmt.Errorf("AC_IDLE_WARNING: %w", err)
	}
	if cfg.IdleWarning >= cfg.IdleTimeout {
		return nil, fmt.Errorf("AC_IDLE_WARNING: упреждение %s должно быть меньше AC_IDLE_TIMEOUT %s",
			cfg.IdleWarning, cfg.IdleTimeout)
	}

	// --- Фоновый опрос backend ---

	// AC_NOTIF_POLL_INTERVAL — интервал опроса уведомлений (по умолчанию 30s)
	cfg.NotifPollInterval, err = getEnvDuration("AC_NOTIF_POLL_INTERVAL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AC_NOTIF_POLL_INTERVAL: %w", err)
	}

	// --- Кэш прав доступа ---

	// AC_PERM_CACHE_SIZE — размер LRU-кэша прав (по умолчанию 512)
	cfg.PermCacheSize, err = getEnvInt("AC_PERM_CACHE_SIZE", 512)
	if err != nil {
		return nil, fmt.Errorf("AC_PERM_CACHE_SIZE: %w", err)
	}
	if cfg.PermCacheSize < 1 {
		return nil, fmt.Errorf("AC_PERM_CACHE_SIZE: значение %d должно быть положительным", cfg.PermCacheSize)
	}

	// AC_PERM_CACHE_TTL — TTL записи кэша (по умолчанию 30s)
	cfg.PermCacheTTL, err = getEnvDuration("AC_PERM_CACHE_TTL", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AC_PERM_CACHE_TTL: %w", err)
	}

	// --- topologymetrics ---

	// AC_DEPHEALTH_GROUP — группа метрик (по умолчанию assurance)
	cfg.DephealthGroup = getEnvDefault("AC_DEPHEALTH_GROUP", "assurance")

	// AC_DEPHEALTH_CHECK_INTERVAL — интервал проверки зависимостей (по умолчанию 15s)
	cfg.DephealthCheckInterval, err = getEnvDuration("AC_DEPHEALTH_CHECK_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AC_DEPHEALTH_CHECK_INTERVAL: %w", err)
	}

	// --- Graceful shutdown ---

	// AC_SHUTDOWN_TIMEOUT — таймаут graceful shutdown (по умолчанию 5s)
	cfg.ShutdownTimeout, err = getEnvDuration("AC_SHUTDOWN_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("AC_SHUTDOWN_TIMEOUT: %w", err)
	}

	return cfg, nil
}

// DatabaseDSN возвращает строку подключения к PostgreSQL.
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d dbname=%s user=%s password=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBName, c.DBUser, c.DBPassword, c.DBSSLMode,
	)
}

// DatabaseURL возвращает URL подключения к PostgreSQL (для метрик и миграций).
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// SetupLogger настраивает глобальный slog-логгер на основе конфигурации.
func SetupLogger(cfg *Config) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

// --- Вспомогательные функции ---

// getEnvRequired возвращает значение переменной окружения или ошибку, если она не задана.
func getEnvRequired(key string) (string, error) {
	val := os.Getenv(key)
	if val == "" {
		return "", fmt.Errorf("%s: обязательная переменная окружения не задана", key)
	}
	return val, nil
}

// getEnvDefault возвращает значение переменной окружения или значение по умолчанию.
func getEnvDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// getEnvInt возвращает целочисленное значение переменной окружения или значение по умолчанию.
func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("некорректное целое число: %q", val)
	}
	return n, nil
}

// getEnvDuration возвращает time.Duration из переменной окружения или значение по умолчанию.
func getEnvDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(val)
	if err != nil {
		return 0, fmt.Errorf("некорректная длительность: %q (используйте формат Go: 30s, 1h, 15m)", val)
	}
	return d, nil
}

// parseLogLevel преобразует строку уровня логирования в slog.Level.
func parseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("недопустимый уровень %q, допустимые: debug, info, warn, error", level)
	}
}
