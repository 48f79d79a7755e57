// runtime.go — клиентское окружение одного пользователя портала:
// сессия, локальное зеркало, наблюдатель бездействия и фоновый опрос
// счётчика непрочитанных уведомлений.
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
)

// Runtime — клиентское окружение одного пользователя.
// Создаётся менеджером при входе и живёт до выхода либо истечения
// бюджета бездействия.
type Runtime struct {
	Session *session.Store
	Mirror  *mirror.Store
	Idle    *idle.Watcher
	API     *apiclient.Client
	Perms   *apiclient.PermissionCache

	logger       *slog.Logger
	pollInterval time.Duration

	mu          sync.Mutex
	unreadCount int
	cancelPoll  context.CancelFunc
}

// StartSession запускает окружение после успешного входа:
// отсчёт бездействия, фоновый опрос уведомлений и одноразовый перенос
// локальных черновиков дел на backend (best effort).
func (r *Runtime) StartSession(ctx context.Context) {
	r.Idle.Start()

	user := r.Session.User()
	if user == nil {
		return
	}

	if migrated, err := r.Mirror.MigrateDrafts(ctx, r.API, user.Name); err != nil {
		r.logger.Warn("Перенос черновиков дел не завершён",
			slog.Int("migrated", migrated),
			slog.String("error", err.Error()),
		)
	} else if migrated > 0 {
		r.logger.Info("Черновики дел перенесены на backend", slog.Int("migrated", migrated))
	}

	pollCtx, cancel := context.WithCancel(context.Background())
	r.mu.Lock()
	r.cancelPoll = cancel
	r.mu.Unlock()
	go r.pollNotifications(pollCtx, user.Name)
}

// pollNotifications опрашивает счётчик непрочитанных уведомлений
// с фиксированным интервалом. Ответ, пришедший после отмены контекста,
// отбрасывается: устаревшее значение не должно перетереть свежее.
func (r *Runtime) pollNotifications(ctx context.Context, userID string) {
	ticker := time.NewTicker(r.pollInterval)
	defer ticker.Stop()

	fetch := func() {
		reqCtx, cancel := context.WithTimeout(ctx, r.pollInterval)
		defer cancel()

		count, err := r.API.UnreadNotificationsCount(reqCtx, userID)
		if err != nil {
			r.logger.Debug("Опрос уведомлений не удался", slog.String("error", err.Error()))
			return
		}
		if ctx.Err() != nil {
			return
		}
		r.mu.Lock()
		r.unreadCount = count
		r.mu.Unlock()
	}

	fetch()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fetch()
		}
	}
}

// UnreadCount возвращает последнее известное число непрочитанных
// уведомлений (значение фонового опроса).
func (r *Runtime) UnreadCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.unreadCount
}

// shutdown останавливает фоновые работы окружения. Идемпотентен.
func (r *Runtime) shutdown() {
	r.Idle.Stop()

	r.mu.Lock()
	cancel := r.cancelPoll
	r.cancelPoll = nil
	r.unreadCount = 0
	r.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}
