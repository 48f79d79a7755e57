// session.go — JSON-endpoints предупреждения о бездействии.
// Опрос статуса не считается активностью пользователя, поэтому маршруты
// не проходят через UIAuth middleware с Touch: сессия проверяется здесь.
package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/assuranceconnect/portal/internal/service"
	"github.com/assuranceconnect/portal/internal/ui/auth"
)

// SessionHandler — статус и продление сессии.
type SessionHandler struct {
	sessionManager *auth.SessionManager
	runtimes       *service.RuntimeManager
	logger         *slog.Logger
}

// NewSessionHandler создаёт новый SessionHandler.
func NewSessionHandler(
	sessionManager *auth.SessionManager,
	runtimes *service.RuntimeManager,
	logger *slog.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessionManager: sessionManager,
		runtimes:       runtimes,
		logger:         logger.With(slog.String("component", "ui.session")),
	}
}

// sessionStatus — ответ GET /portal/session/status.
type sessionStatus struct {
	Warning          bool  `json:"warning"`
	RemainingSeconds int64 `json:"remaining_seconds"`
}

// lookup находит окружение по cookie без отметки активности.
func (h *SessionHandler) lookup(w http.ResponseWriter, r *http.Request) (*service.Runtime, bool) {
	session, err := h.sessionManager.GetSessionFromRequest(r)
	if err != nil || session == nil {
		http.Redirect(w, r, "/portal/login", http.StatusFound)
		return nil, false
	}
	rt, ok := h.runtimes.Lookup(session.Username)
	if !ok || !rt.Session.IsAuthenticated() {
		http.Redirect(w, r, "/portal/login", http.StatusFound)
		return nil, false
	}
	return rt, true
}

// HandleStatus — GET /portal/session/status.
func (h *SessionHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	rt, ok := h.lookup(w, r)
	if !ok {
		return
	}

	status := sessionStatus{
		Warning:          rt.Idle.InWarning(),
		RemainingSeconds: int64(rt.Idle.TimeRemaining().Seconds()),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(status); err != nil {
		h.logger.Debug("Ошибка записи статуса сессии", slog.String("error", err.Error()))
	}
}

// HandleExtend — POST /portal/session/extend: «Rester connecté».
func (h *SessionHandler) HandleExtend(w http.ResponseWriter, r *http.Request) {
	rt, ok := h.lookup(w, r)
	if !ok {
		return
	}

	rt.Idle.Extend()

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]bool{"extended": true}); err != nil {
		h.logger.Debug("Ошибка записи ответа продления", slog.String("error", err.Error()))
	}
}
