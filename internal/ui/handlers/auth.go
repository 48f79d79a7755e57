// auth.go — вход и выход из портала.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/assuranceconnect/portal/internal/service"
	"github.com/assuranceconnect/portal/internal/ui/auth"
	"github.com/assuranceconnect/portal/internal/ui/pages"
)

// AuthHandler — обработчики входа и выхода.
type AuthHandler struct {
	sessionManager *auth.SessionManager
	runtimes       *service.RuntimeManager
	logger         *slog.Logger
}

// NewAuthHandler создаёт новый AuthHandler.
func NewAuthHandler(
	sessionManager *auth.SessionManager,
	runtimes *service.RuntimeManager,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		sessionManager: sessionManager,
		runtimes:       runtimes,
		logger:         logger.With(slog.String("component", "ui.auth")),
	}
}

// HandleLoginPage — GET /portal/login: форма входа.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.logger, pages.Login(pages.LoginData{}))
}

// HandleLogin — POST /portal/login: проверка учётных данных через backend,
// создание клиентского окружения и установка session cookie.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	company := r.PostFormValue("company")
	password := r.PostFormValue("password")
	if username == "" || password == "" {
		render(w, r, h.logger, pages.Login(pages.LoginData{
			Error: "Veuillez renseigner le nom d'utilisateur et le mot de passe.",
		}))
		return
	}

	rt := h.runtimes.Acquire(r.Context(), username)
	if !rt.Session.Login(r.Context(), username, company, password) {
		// Неудачная попытка не должна оставлять окружение в реестре,
		// но восстановленную из хранилища сессию не трогаем
		if !rt.Session.IsAuthenticated() {
			h.runtimes.Drop(r.Context(), username)
		}
		h.logger.Info("Вход не удался", slog.String("username", username))
		render(w, r, h.logger, pages.Login(pages.LoginData{
			Error: "Identifiants invalides ou compte inactif.",
		}))
		return
	}

	// В cookie кладём ключ окружения (имя из формы): backend может
	// канонизировать имя в ответе, а Lookup идёт по ключу Acquire
	user := rt.Session.User()
	if err := h.sessionManager.SetSessionCookie(w, &auth.SessionData{
		UserID:   user.ID,
		Username: username,
		Role:     string(user.Role),
		Company:  user.InsuranceCompany,
	}); err != nil {
		h.logger.Error("Ошибка установки session cookie", slog.String("error", err.Error()))
		http.Error(w, "Erreur interne du serveur", http.StatusInternalServerError)
		return
	}

	rt.StartSession(r.Context())

	h.logger.Info("Пользователь вошёл в портал",
		slog.String("username", user.Name),
		slog.String("role", string(user.Role)),
	)
	http.Redirect(w, r, "/portal/", http.StatusFound)
}

// HandleLogout — POST /portal/logout: завершение окружения и очистка cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if session, err := h.sessionManager.GetSessionFromRequest(r); err == nil && session != nil {
		h.runtimes.Drop(r.Context(), session.Username)
		h.logger.Info("Пользователь вышел из портала", slog.String("username", session.Username))
	}

	h.sessionManager.ClearSessionCookie(w)
	http.Redirect(w, r, "/portal/login", http.StatusFound)
}
