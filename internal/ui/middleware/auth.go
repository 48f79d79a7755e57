// Пакет middleware — HTTP middleware портала.
// auth.go — проверка сессии (cookie-based), привязка клиентского окружения
// и учёт активности пользователя.
package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/assuranceconnect/portal/internal/service"
	"github.com/assuranceconnect/portal/internal/ui/auth"
)

// contextKey — тип для ключей контекста UI.
type contextKey string

const (
	// ContextKeySession — данные сессии портала в контексте запроса.
	ContextKeySession contextKey = "portal_session"
	// ContextKeyRuntime — клиентское окружение пользователя в контексте запроса.
	ContextKeyRuntime contextKey = "portal_runtime"
)

// UIAuth — middleware проверки аутентификации пользователей портала.
// Извлекает сессию из зашифрованного cookie, находит клиентское окружение
// и отмечает активность в наблюдателе бездействия.
// Redirect на /portal/login при отсутствии сессии либо окружения.
type UIAuth struct {
	sessionManager *auth.SessionManager
	runtimes       *service.RuntimeManager
	logger         *slog.Logger
}

// NewUIAuth создаёт новый UIAuth middleware.
func NewUIAuth(
	sessionManager *auth.SessionManager,
	runtimes *service.RuntimeManager,
	logger *slog.Logger,
) *UIAuth {
	return &UIAuth{
		sessionManager: sessionManager,
		runtimes:       runtimes,
		logger:         logger.With(slog.String("component", "ui_auth_middleware")),
	}
}

// Middleware возвращает HTTP middleware для проверки сессии портала.
// Применяется к маршрутам /portal/*, кроме /portal/login, /portal/logout,
// /portal/429 и статики.
func (ua *UIAuth) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// 1. Извлекаем сессию из cookie
			session, err := ua.sessionManager.GetSessionFromRequest(r)
			if err != nil {
				ua.logger.Debug("Ошибка чтения сессии портала",
					slog.String("error", err.Error()),
					slog.String("remote_addr", r.RemoteAddr),
				)
				// Повреждённый cookie — очищаем и redirect на login
				ua.sessionManager.ClearSessionCookie(w)
				http.Redirect(w, r, "/portal/login", http.StatusFound)
				return
			}

			// 2. Если сессия отсутствует — redirect на login
			if session == nil {
				http.Redirect(w, r, "/portal/login", http.StatusFound)
				return
			}

			// 3. Окружение должно существовать и быть аутентифицированным.
			// Его нет после выхода по бездействию или перезапуска реестра.
			rt, ok := ua.runtimes.Lookup(session.Username)
			if !ok || !rt.Session.IsAuthenticated() {
				ua.logger.Info("Cookie без живого окружения, redirect на login",
					slog.String("username", session.Username),
				)
				ua.sessionManager.ClearSessionCookie(w)
				http.Redirect(w, r, "/portal/login", http.StatusFound)
				return
			}

			// 4. Каждый аутентифицированный запрос — активность пользователя
			rt.Idle.Touch()

			// 5. Помещаем сессию и окружение в контекст
			ctx := context.WithValue(r.Context(), ContextKeySession, session)
			ctx = context.WithValue(ctx, ContextKeyRuntime, rt)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext извлекает SessionData из контекста запроса.
// Возвращает nil если сессия не найдена (не прошёл через UIAuth middleware).
func SessionFromContext(ctx context.Context) *auth.SessionData {
	session, ok := ctx.Value(ContextKeySession).(*auth.SessionData)
	if !ok {
		return nil
	}
	return session
}

// RuntimeFromContext извлекает клиентское окружение из контекста запроса.
func RuntimeFromContext(ctx context.Context) *service.Runtime {
	rt, ok := ctx.Value(ContextKeyRuntime).(*service.Runtime)
	if !ok {
		return nil
	}
	return rt
}
