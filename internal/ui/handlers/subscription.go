// subscription.go — запрос продления подписки пользователем.
package handlers

import (
	"log/slog"
	"net/http"
)

// SubscriptionHandler — действия пользователя над своей подпиской.
type SubscriptionHandler struct {
	logger *slog.Logger
}

// NewSubscriptionHandler создаёт новый SubscriptionHandler.
func NewSubscriptionHandler(logger *slog.Logger) *SubscriptionHandler {
	return &SubscriptionHandler{
		logger: logger.With(slog.String("component", "ui.subscription")),
	}
}

// HandleRequestRenewal — POST /portal/abonnement/renouveler.
func (h *SubscriptionHandler) HandleRequestRenewal(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return
	}

	if _, err := rt.API.RequestSubscriptionRenewal(r.Context(), session.Username); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Запрос продления подписки не удался",
			slog.String("username", session.Username),
			slog.String("error", err.Error()),
		)
		http.Redirect(w, r, "/portal/", http.StatusFound)
		return
	}

	h.logger.Info("Запрошено продление подписки", slog.String("username", session.Username))
	http.Redirect(w, r, "/portal/", http.StatusFound)
}
