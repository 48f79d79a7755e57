// admin.go — административный раздел: пользователи, приглашения, подписки.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/assuranceconnect/portal/internal/service"
	"github.com/assuranceconnect/portal/internal/ui/auth"
	"github.com/assuranceconnect/portal/internal/ui/pages"
)

// AdminHandler — обработчики административного раздела.
type AdminHandler struct {
	logger *slog.Logger
}

// NewAdminHandler создаёт новый AdminHandler.
func NewAdminHandler(logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		logger: logger.With(slog.String("component", "ui.admin")),
	}
}

// requireAdmin — раздел доступен только роли admin.
func (h *AdminHandler) requireAdmin(w http.ResponseWriter, r *http.Request) (*auth.SessionData, *service.Runtime, bool) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return nil, nil, false
	}
	if session.Role != "admin" {
		h.logger.Warn("Попытка доступа к администрированию без прав",
			slog.String("username", session.Username),
		)
		http.Redirect(w, r, "/portal/", http.StatusFound)
		return nil, nil, false
	}
	return session, rt, true
}

// HandleAdmin — GET /portal/admin.
func (h *AdminHandler) HandleAdmin(w http.ResponseWriter, r *http.Request) {
	h.renderAdmin(w, r, "", "")
}

func (h *AdminHandler) renderAdmin(w http.ResponseWriter, r *http.Request, errMsg, notice string) {
	session, rt, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}

	data := pages.AdminData{
		Shell:  shellFrom(session, rt),
		Error:  errMsg,
		Notice: notice,
	}

	if users, err := rt.API.Users(r.Context()); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Список пользователей недоступен", slog.String("error", err.Error()))
	} else {
		data.Users = users
	}

	if invitations, err := rt.API.Invitations(r.Context()); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Список приглашений недоступен", slog.String("error", err.Error()))
	} else {
		data.Invitations = invitations
	}

	if renewals, err := rt.API.PendingRenewalRequests(r.Context()); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Заявки на продление недоступны", slog.String("error", err.Error()))
	} else {
		data.RenewalRequests = renewals
	}

	if stats, err := rt.API.UserStats(r.Context()); err == nil {
		data.UserStats = stats
	}
	if stats, err := rt.API.InvitationStats(r.Context()); err == nil {
		data.InvitationStats = stats
	}
	if stats, err := rt.API.SubscriptionStats(r.Context()); err == nil {
		data.SubscriptionStats = stats
	}

	render(w, r, h.logger, pages.Admin(data))
}

// HandleCreateInvitation — POST /portal/admin/invitations.
func (h *AdminHandler) HandleCreateInvitation(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	email := r.PostFormValue("email")
	company := r.PostFormValue("company")
	if email == "" || company == "" {
		h.renderAdmin(w, r, "Veuillez renseigner l'adresse e-mail et la compagnie.", "")
		return
	}

	if _, err := rt.API.CreateInvitation(r.Context(), email, company, session.Username); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Создание приглашения не удалось", slog.String("error", err.Error()))
		h.renderAdmin(w, r, "L'invitation n'a pas pu être envoyée.", "")
		return
	}

	h.renderAdmin(w, r, "", "Invitation envoyée à "+email+".")
}

// HandleRenewInvitation — POST /portal/admin/invitations/renouveler.
func (h *AdminHandler) HandleRenewInvitation(w http.ResponseWriter, r *http.Request) {
	h.invitationAction(w, r, func(rt *service.Runtime, id int64) error {
		_, err := rt.API.RenewInvitation(r.Context(), id)
		return err
	})
}

// HandleCancelInvitation — POST /portal/admin/invitations/annuler.
func (h *AdminHandler) HandleCancelInvitation(w http.ResponseWriter, r *http.Request) {
	h.invitationAction(w, r, func(rt *service.Runtime, id int64) error {
		return rt.API.CancelInvitation(r.Context(), id)
	})
}

func (h *AdminHandler) invitationAction(w http.ResponseWriter, r *http.Request, op func(rt *service.Runtime, id int64) error) {
	_, rt, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Identifiant d'invitation invalide", http.StatusBadRequest)
		return
	}

	if err := op(rt, id); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Операция над приглашением не удалась",
			slog.Int64("invitation_id", id),
			slog.String("error", err.Error()),
		)
		h.renderAdmin(w, r, "L'opération sur l'invitation a échoué.", "")
		return
	}
	http.Redirect(w, r, "/portal/admin", http.StatusFound)
}

// HandleToggleUser — POST /portal/admin/utilisateurs/basculer.
func (h *AdminHandler) HandleToggleUser(w http.ResponseWriter, r *http.Request) {
	_, rt, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Identifiant d'utilisateur invalide", http.StatusBadRequest)
		return
	}

	if err := rt.API.ToggleUserStatus(r.Context(), id); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Смена статуса пользователя не удалась",
			slog.Int64("user_id", id),
			slog.String("error", err.Error()),
		)
		h.renderAdmin(w, r, "Le changement de statut de l'utilisateur a échoué.", "")
		return
	}
	http.Redirect(w, r, "/portal/admin", http.StatusFound)
}

// HandleApproveRenewal — POST /portal/admin/abonnements/approuver.
func (h *AdminHandler) HandleApproveRenewal(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Identifiant de demande invalide", http.StatusBadRequest)
		return
	}

	if _, err := rt.API.ApproveRenewalRequest(r.Context(), id, session.Username); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Одобрение продления не удалось",
			slog.Int64("request_id", id),
			slog.String("error", err.Error()),
		)
		h.renderAdmin(w, r, "L'approbation du renouvellement a échoué.", "")
		return
	}
	h.renderAdmin(w, r, "", "Renouvellement approuvé.")
}

// HandleRejectRenewal — POST /portal/admin/abonnements/rejeter.
func (h *AdminHandler) HandleRejectRenewal(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := h.requireAdmin(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	id, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Identifiant de demande invalide", http.StatusBadRequest)
		return
	}
	reason := r.PostFormValue("reason")

	if _, err := rt.API.RejectRenewalRequest(r.Context(), id, session.Username, reason); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Отклонение продления не удалось",
			slog.Int64("request_id", id),
			slog.String("error", err.Error()),
		)
		h.renderAdmin(w, r, "Le rejet du renouvellement a échoué.", "")
		return
	}
	h.renderAdmin(w, r, "", "Demande de renouvellement rejetée.")
}
