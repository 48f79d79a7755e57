// Пакет handlers — HTTP-обработчики страниц портала.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/templ"

	"github.com/assuranceconnect/portal/internal/apiclient"
	"github.com/assuranceconnect/portal/internal/service"
	"github.com/assuranceconnect/portal/internal/ui/auth"
	uimiddleware "github.com/assuranceconnect/portal/internal/ui/middleware"
	"github.com/assuranceconnect/portal/internal/ui/pages"
)

// shellFrom собирает общие данные страницы из сессии и окружения.
func shellFrom(session *auth.SessionData, rt *service.Runtime) pages.Shell {
	return pages.Shell{
		Username:    session.Username,
		Role:        session.Role,
		Company:     session.Company,
		UnreadCount: rt.UnreadCount(),
	}
}

// render пишет компонент в ответ; ошибка рендеринга — 500.
func render(w http.ResponseWriter, r *http.Request, logger *slog.Logger, component templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := component.Render(r.Context(), w); err != nil {
		logger.Error("Ошибка рендеринга страницы",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
		)
		http.Error(w, "Erreur interne du serveur", http.StatusInternalServerError)
	}
}

// redirectRateLimited перенаправляет на /portal/429 при ErrRateLimited.
// Возвращает true, если ответ уже отправлен. Повторного redirect со
// страницы 429 не происходит.
func redirectRateLimited(w http.ResponseWriter, r *http.Request, err error) bool {
	if !errors.Is(err, apiclient.ErrRateLimited) {
		return false
	}
	if r.URL.Path == "/portal/429" {
		return false
	}
	http.Redirect(w, r, "/portal/429", http.StatusFound)
	return true
}

// requireContext достаёт сессию и окружение, положенные UIAuth middleware.
// Отсутствие — ошибка конфигурации маршрутов, отвечаем redirect на login.
func requireContext(w http.ResponseWriter, r *http.Request) (*auth.SessionData, *service.Runtime, bool) {
	session := uimiddleware.SessionFromContext(r.Context())
	rt := uimiddleware.RuntimeFromContext(r.Context())
	if session == nil || rt == nil {
		http.Redirect(w, r, "/portal/login", http.StatusFound)
		return nil, nil, false
	}
	return session, rt, true
}
