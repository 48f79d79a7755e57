// Точка входа Assurance Connect Portal.
// Загружает конфигурацию, открывает локальное хранилище клиентского
// состояния (file/postgres/redis), создаёт менеджер клиентских окружений,
// запускает мониторинг зависимостей (topologymetrics) и HTTP-сервер
// с graceful shutdown.
package main

import (
	"context"
	"database/sql"
	"log/slog"
	"os"
	"time"

	"github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	apihandlers "github.com/assuranceconnect/portal/internal/api/handlers"
	"github.com/assuranceconnect/portal/internal/apiclient"
	"github.com/assuranceconnect/portal/internal/config"
	"github.com/assuranceconnect/portal/internal/database"
	"github.com/assuranceconnect/portal/internal/server"
	"github.com/assuranceconnect/portal/internal/service"
	"github.com/assuranceconnect/portal/internal/storage"
	"github.com/assuranceconnect/portal/internal/ui/auth"
	uihandlers "github.com/assuranceconnect/portal/internal/ui/handlers"
	uimiddleware "github.com/assuranceconnect/portal/internal/ui/middleware"
)

func main() {
	// .env — для локальной разработки; в кластере переменные задаёт деплой
	if err := godotenv.Load(); err == nil {
		slog.Info("Переменные окружения загружены из .env")
	}

	// 1. Загрузка конфигурации из переменных окружения
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Ошибка загрузки конфигурации", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 2. Настройка логирования
	logger := config.SetupLogger(cfg)
	logger.Info("Portal запускается",
		slog.String("version", config.Version),
		slog.Int("port", cfg.Port),
		slog.String("storage_backend", cfg.StorageBackend),
		slog.String("api_base_url", cfg.APIBaseURL),
	)

	if cfg.UISessionSecret == "" {
		logger.Warn("AC_UI_SESSION_SECRET не задан, сессии браузеров не переживут рестарт")
	}

	ctx := context.Background()

	// 3. Локальное хранилище клиентского состояния.
	// pgDB нужен topologymetrics только при postgres-бэкенде.
	var (
		store storage.Store
		pgDB  *sql.DB
	)
	switch cfg.StorageBackend {
	case config.StoragePostgres:
		logger.Info("Применение миграций БД...")
		if err := database.Migrate(cfg, logger); err != nil {
			logger.Error("Ошибка миграций БД", slog.String("error", err.Error()))
			os.Exit(1)
		}

		pool, err := database.Connect(ctx, cfg, logger)
		if err != nil {
			logger.Error("Ошибка подключения к PostgreSQL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer pool.Close()

		// Адаптер pgxpool → *sql.DB для topologymetrics (connection pool mode)
		pgDB = stdlib.OpenDBFromPool(pool)
		defer pgDB.Close()

		store = storage.NewPostgresStore(pool)

	case config.StorageRedis:
		redisStore, err := storage.NewRedisStore(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			logger.Error("Ошибка подключения к Redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		store = redisStore

	default:
		fileStore, err := storage.NewFileStore(cfg.DataDir)
		if err != nil {
			logger.Error("Ошибка открытия каталога данных",
				slog.String("dir", cfg.DataDir),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		store = fileStore
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Ошибка закрытия хранилища", slog.String("error", err.Error()))
		}
	}()

	// 4. Менеджер клиентских окружений (сессия + зеркало + бездействие)
	runtimes := service.NewRuntimeManager(service.RuntimeConfig{
		APIBaseURL:        cfg.APIBaseURL,
		APITimeout:        cfg.APITimeout,
		IdleTimeout:       cfg.IdleTimeout,
		IdleWarning:       cfg.IdleWarning,
		NotifPollInterval: cfg.NotifPollInterval,
		PermCacheSize:     cfg.PermCacheSize,
		PermCacheTTL:      cfg.PermCacheTTL,
	}, store, logger)

	// 5. topologymetrics — мониторинг зависимостей (backend API + PostgreSQL)
	dephealthSvc, dephealthErr := service.NewDephealthService(
		"portal",
		cfg.DephealthGroup,
		cfg.APIBaseURL,
		pgDB,
		cfg.DatabaseURL(),
		cfg.DephealthCheckInterval,
		logger,
	)
	if dephealthErr != nil {
		logger.Warn("topologymetrics недоступен, запуск без мониторинга зависимостей",
			slog.String("error", dephealthErr.Error()),
		)
		dephealthSvc = nil
	} else {
		if startErr := dephealthSvc.Start(ctx); startErr != nil {
			logger.Warn("Ошибка запуска topologymetrics", slog.String("error", startErr.Error()))
			dephealthSvc = nil
		} else {
			logger.Info("topologymetrics запущен",
				slog.String("group", cfg.DephealthGroup),
				slog.String("check_interval", cfg.DephealthCheckInterval.String()),
			)
		}
	}

	// 6. Анонимный клиент backend: readiness-проба и публичная
	// регистрация по приглашению работают без сессии пользователя.
	anonClient := apiclient.New(cfg.APIBaseURL, cfg.APITimeout, nil, logger)
	healthHandler := apihandlers.NewHealthHandler(
		storage.NewReadinessProbe(store, 3*time.Second),
		apiclient.NewReadiness(anonClient, 3*time.Second),
	)

	// 7. Session Manager — шифрование cookie (AES-256-GCM)
	sessionMgr, err := auth.NewSessionManager(cfg.UISessionSecret, cfg.SecureCookie)
	if err != nil {
		logger.Error("Ошибка создания Session Manager", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 8. UI middleware и handlers
	uiAuth := uimiddleware.NewUIAuth(sessionMgr, runtimes, logger)

	deps := server.Deps{
		Health:        healthHandler,
		UIAuth:        uiAuth,
		Auth:          uihandlers.NewAuthHandler(sessionMgr, runtimes, logger),
		Register:      uihandlers.NewRegisterHandler(anonClient, logger),
		Session:       uihandlers.NewSessionHandler(sessionMgr, runtimes, logger),
		Dashboard:     uihandlers.NewDashboardHandler(logger),
		Dossiers:      uihandlers.NewDossiersHandler(logger),
		Rapports:      uihandlers.NewRapportsHandler(logger),
		Notifications: uihandlers.NewNotificationsHandler(logger),
		Admin:         uihandlers.NewAdminHandler(logger),
		Subscription:  uihandlers.NewSubscriptionHandler(logger),
		RateLimit:     uihandlers.NewRateLimitHandler(logger),
	}

	// 9. HTTP-сервер с graceful shutdown
	srv := server.New(cfg, logger, deps)
	if err := srv.Run(); err != nil {
		logger.Error("Ошибка сервера", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// 10. Остановка фоновых работ
	logger.Info("Останавливаем фоновые задачи...")
	if dephealthSvc != nil {
		dephealthSvc.Stop()
	}
	runtimes.Shutdown()

	logger.Info("Portal остановлен")
}
