// register.go — регистрация по приглашению. Маршруты публичные:
// у кандидата ещё нет ни сессии, ни клиентского окружения, поэтому
// обработчик ходит на backend анонимным клиентом.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/assuranceconnect/portal/internal/apiclient"
	"github.com/assuranceconnect/portal/internal/ui/pages"
)

// RegisterHandler — обработчики страницы регистрации.
type RegisterHandler struct {
	api    *apiclient.Client
	logger *slog.Logger
}

// NewRegisterHandler создаёт новый RegisterHandler.
func NewRegisterHandler(api *apiclient.Client, logger *slog.Logger) *RegisterHandler {
	return &RegisterHandler{
		api:    api,
		logger: logger.With(slog.String("component", "ui.register")),
	}
}

// HandleForm — GET /portal/inscription: проверка токена приглашения
// и форма регистрации.
func (h *RegisterHandler) HandleForm(w http.ResponseWriter, r *http.Request) {
	data := pages.InscriptionData{
		Token: strings.TrimSpace(r.URL.Query().Get("token")),
	}

	if data.Token != "" {
		inv, err := h.api.ValidateInvitation(r.Context(), data.Token)
		if err != nil {
			if redirectRateLimited(w, r, err) {
				return
			}
			h.logger.Info("Приглашение не прошло проверку", slog.String("error", err.Error()))
			data.Error = "Invitation invalide, expirée ou déjà utilisée."
		} else {
			data.Invitation = inv
		}
	}

	render(w, r, h.logger, pages.Inscription(data))
}

// HandleSubmit — POST /portal/inscription: создание учётной записи.
// Приглашение перепроверяется: форма могла пролежать открытой дольше
// срока действия токена.
func (h *RegisterHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	token := strings.TrimSpace(r.PostFormValue("token"))
	form := apiclient.RegistrationBody{
		Username:    strings.TrimSpace(r.PostFormValue("username")),
		FirstName:   strings.TrimSpace(r.PostFormValue("first_name")),
		LastName:    strings.TrimSpace(r.PostFormValue("last_name")),
		DateOfBirth: r.PostFormValue("date_of_birth"),
		Password:    r.PostFormValue("password"),
	}

	fail := func(data pages.InscriptionData, msg string) {
		data.Token = token
		data.Form = form
		data.Error = msg
		render(w, r, h.logger, pages.Inscription(data))
	}

	inv, err := h.api.ValidateInvitation(r.Context(), token)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Info("Приглашение не прошло проверку", slog.String("error", err.Error()))
		fail(pages.InscriptionData{}, "Invitation invalide, expirée ou déjà utilisée.")
		return
	}
	form.Email = inv.Email

	if form.Username == "" || form.Password == "" {
		fail(pages.InscriptionData{Invitation: inv}, "Veuillez renseigner le nom d'utilisateur et le mot de passe.")
		return
	}

	exists, err := h.api.CheckUsernameExists(r.Context(), form.Username)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Проверка имени пользователя не удалась", slog.String("error", err.Error()))
		fail(pages.InscriptionData{Invitation: inv}, "La vérification du nom d'utilisateur a échoué. Réessayez.")
		return
	}
	if exists {
		fail(pages.InscriptionData{Invitation: inv}, "Ce nom d'utilisateur est déjà pris.")
		return
	}

	user, err := h.api.RegisterUser(r.Context(), form)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Регистрация не удалась",
			slog.String("username", form.Username),
			slog.String("error", err.Error()),
		)
		fail(pages.InscriptionData{Invitation: inv}, "La création du compte a échoué. Réessayez plus tard.")
		return
	}

	// Погашение токена best effort: учётная запись уже создана
	if err := h.api.UseInvitation(r.Context(), token); err != nil {
		h.logger.Warn("Приглашение не погашено",
			slog.Int64("invitation_id", inv.ID),
			slog.String("error", err.Error()),
		)
	}

	h.logger.Info("Создана учётная запись по приглашению",
		slog.String("username", user.Username),
		slog.String("company", inv.InsuranceCompany),
	)

	render(w, r, h.logger, pages.Login(pages.LoginData{
		Notice: "Votre compte a été créé. Vous pouvez maintenant vous connecter.",
	}))
}
