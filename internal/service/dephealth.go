// dephealth.go — интеграция с topologymetrics SDK для мониторинга зависимостей.
//
// Портал мониторит:
//   - Assurance REST API — HTTP checker (critical): без backend портал бесполезен
//   - PostgreSQL — SQL checker через существующий pgxpool (connection pool mode),
//     только при AC_STORAGE_BACKEND=postgres
//
// Connection pool mode предпочтителен, т.к. отражает реальную способность
// сервиса работать с зависимостью и может обнаружить исчерпание пула соединений.
//
// Метрики доступны на /metrics вместе с остальными Prometheus-метриками:
//   - app_dependency_health — состояние зависимости (1 = ok, 0 = fail)
//   - app_dependency_latency_seconds — задержка проверки
//   - app_dependency_status — категория статуса
//   - app_dependency_status_detail — детальный статус
package service

import (
	"context"
	"database/sql"
	"log/slog"
	"net/url"
	"time"

	"github.com/BigKAA/topologymetrics/sdk-go/dephealth"
	_ "github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/httpcheck" // HTTP checker для backend API
	"github.com/BigKAA/topologymetrics/sdk-go/dephealth/checks/pgcheck"     // PostgreSQL checker (pool mode)
	"github.com/prometheus/client_golang/prometheus"
)

// DephealthService — сервис мониторинга зависимостей через topologymetrics.
type DephealthService struct {
	dh     *dephealth.DepHealth
	logger *slog.Logger
}

// NewDephealthService создаёт сервис мониторинга зависимостей.
// Метрики регистрируются в глобальном Prometheus registry.
//
// Параметры:
//   - serviceID — имя вершины графа текущего приложения (e.g. "portal")
//   - group — имя группы в метриках (AC_DEPHEALTH_GROUP)
//   - apiBaseURL — адрес Assurance REST API
//   - db — *sql.DB из pgxpool через stdlib.OpenDBFromPool(); nil, если
//     выбран не PostgreSQL-бэкенд хранилища
//   - pgConnURL — URL подключения к PostgreSQL (для лейблов метрик)
//   - checkInterval — интервал проверки зависимостей (AC_DEPHEALTH_CHECK_INTERVAL)
func NewDephealthService(
	serviceID string,
	group string,
	apiBaseURL string,
	db *sql.DB,
	pgConnURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, apiBaseURL, db, pgConnURL, checkInterval, logger)
}

// NewDephealthServiceWithRegisterer создаёт сервис с указанным Prometheus
// registerer. Используется в тестах для изоляции метрик.
func NewDephealthServiceWithRegisterer(
	serviceID string,
	group string,
	apiBaseURL string,
	db *sql.DB,
	pgConnURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	registerer prometheus.Registerer,
) (*DephealthService, error) {
	return newDephealthService(serviceID, group, apiBaseURL, db, pgConnURL, checkInterval, logger,
		dephealth.WithRegisterer(registerer))
}

// newDephealthService — внутренний конструктор.
func newDephealthService(
	serviceID string,
	group string,
	apiBaseURL string,
	db *sql.DB,
	pgConnURL string,
	checkInterval time.Duration,
	logger *slog.Logger,
	extraOpts ...dephealth.Option,
) (*DephealthService, error) {
	// У backend нет выделенного /health; публичная статистика пользователей
	// — дешёвый GET, подтверждающий доступность приложения целиком.
	apiHealthPath := "/api/users/stats"
	if parsed, parseErr := url.Parse(apiBaseURL); parseErr == nil && parsed.Path != "" {
		apiHealthPath = parsed.Path + apiHealthPath
	}

	opts := []dephealth.Option{
		dephealth.WithLogger(logger),
		// Assurance REST API — HTTP checker
		dephealth.HTTP("assurance-api",
			dephealth.FromURL(apiBaseURL),
			dephealth.WithHTTPHealthPath(apiHealthPath),
			dephealth.CheckInterval(checkInterval),
			dephealth.Critical(true),
		),
	}

	// PostgreSQL — только при postgres-бэкенде хранилища.
	// Connection pool mode через существующий pgxpool: проверка идёт через
	// *sql.DB (адаптер pgxpool) и может обнаружить исчерпание пула.
	if db != nil {
		opts = append(opts,
			dephealth.AddDependency("postgresql", dephealth.TypePostgres,
				pgcheck.New(pgcheck.WithDB(db)),
				dephealth.FromURL(pgConnURL),
				dephealth.CheckInterval(checkInterval),
				dephealth.Critical(true),
			),
		)
	}
	opts = append(opts, extraOpts...)

	dh, err := dephealth.New(serviceID, group, opts...)
	if err != nil {
		return nil, err
	}

	return &DephealthService{
		dh:     dh,
		logger: logger.With(slog.String("component", "dephealth")),
	}, nil
}

// Start запускает периодическую проверку зависимостей.
func (ds *DephealthService) Start(ctx context.Context) error {
	ds.logger.Info("Мониторинг зависимостей запущен")
	return ds.dh.Start(ctx)
}

// Stop останавливает мониторинг зависимостей.
func (ds *DephealthService) Stop() {
	ds.dh.Stop()
	ds.logger.Info("Мониторинг зависимостей остановлен")
}

// Health возвращает текущее состояние зависимостей.
// Ключ — имя зависимости, значение — true если ok.
func (ds *DephealthService) Health() map[string]bool {
	return ds.dh.Health()
}
