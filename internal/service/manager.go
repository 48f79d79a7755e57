// manager.go — реестр клиентских окружений, по одному на пользователя.
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/assuranceconnect/portal/internal/apiclient"
	"github.com/assuranceconnect/portal/internal/idle"
	"github.com/assuranceconnect/portal/internal/mirror"
	"github.com/assuranceconnect/portal/internal/session"
	"github.com/assuranceconnect/portal/internal/storage"
)

// RuntimeConfig — настройки клиентских окружений.
type RuntimeConfig struct {
	APIBaseURL        string
	APITimeout        time.Duration
	IdleTimeout       time.Duration
	IdleWarning       time.Duration
	NotifPollInterval time.Duration
	PermCacheSize     int
	PermCacheTTL      time.Duration
}

// RuntimeManager держит окружения пользователей, ключ — имя пользователя.
type RuntimeManager struct {
	cfg     RuntimeConfig
	storage storage.Store
	logger  *slog.Logger

	mu       sync.Mutex
	runtimes map[string]*Runtime
}

// NewRuntimeManager создаёт менеджер окружений.
func NewRuntimeManager(cfg RuntimeConfig, st storage.Store, logger *slog.Logger) *RuntimeManager {
	return &RuntimeManager{
		cfg:      cfg,
		storage:  st,
		logger:   logger.With(slog.String("component", "runtime_manager")),
		runtimes: make(map[string]*Runtime),
	}
}

// Acquire возвращает окружение пользователя, создавая его при
// необходимости. Сессия и зеркало восстанавливаются из хранилища.
func (m *RuntimeManager) Acquire(ctx context.Context, username string) *Runtime {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rt, ok := m.runtimes[username]; ok {
		return rt
	}

	sess := session.NewStore(ctx, m.storage, username, m.logger)
	api := apiclient.New(m.cfg.APIBaseURL, m.cfg.APITimeout, sess, m.logger)
	sess.SetClient(api)

	rt := &Runtime{
		Session:      sess,
		Mirror:       mirror.NewStore(ctx, m.storage, username, m.logger),
		API:          api,
		Perms:        apiclient.NewPermissionCache(api, m.cfg.PermCacheSize, m.cfg.PermCacheTTL),
		logger:       m.logger.With(slog.String("profile", username)),
		pollInterval: m.cfg.NotifPollInterval,
	}
	// Истечение бюджета бездействия равносильно выходу пользователя
	rt.Idle = idle.NewWatcher(m.cfg.IdleTimeout, m.cfg.IdleWarning, func() {
		m.expire(username)
	}, m.logger)

	m.runtimes[username] = rt
	m.logger.Info("Создано клиентское окружение", slog.String("profile", username))
	return rt
}

// Lookup возвращает существующее окружение без создания нового.
func (m *RuntimeManager) Lookup(username string) (*Runtime, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	rt, ok := m.runtimes[username]
	return rt, ok
}

// Drop завершает окружение пользователя: выход из сессии, остановка
// фоновых работ, удаление из реестра. Идемпотентен.
func (m *RuntimeManager) Drop(ctx context.Context, username string) {
	m.mu.Lock()
	rt, ok := m.runtimes[username]
	delete(m.runtimes, username)
	m.mu.Unlock()

	if !ok {
		return
	}

	// Сообщаем backend о выходе (учёт last logout, best effort)
	if user := rt.Session.User(); user != nil {
		if err := rt.API.LogoutUser(ctx, user.Name); err != nil {
			m.logger.Debug("Backend не подтвердил выход", slog.String("error", err.Error()))
		}
	}

	rt.shutdown()
	rt.Session.Logout(ctx)
	m.logger.Info("Клиентское окружение завершено", slog.String("profile", username))
}

// expire — выход по бездействию, вызывается наблюдателем.
func (m *RuntimeManager) expire(username string) {
	m.logger.Info("Сессия истекла по бездействию", slog.String("profile", username))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	m.Drop(ctx, username)
}

// Shutdown завершает все окружения (остановка сервиса).
// Сессии пользователей при этом сохраняются в хранилище и
// восстановятся после перезапуска.
func (m *RuntimeManager) Shutdown() {
	m.mu.Lock()
	runtimes := make([]*Runtime, 0, len(m.runtimes))
	for _, rt := range m.runtimes {
		runtimes = append(runtimes, rt)
	}
	m.runtimes = make(map[string]*Runtime)
	m.mu.Unlock()

	for _, rt := range runtimes {
		rt.shutdown()
	}
}
