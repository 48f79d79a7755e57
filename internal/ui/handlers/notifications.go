// notifications.go — уведомления backend и корзина.
package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/assuranceconnect/portal/internal/ui/pages"
)

// NotificationsHandler — обработчики страницы уведомлений.
type NotificationsHandler struct {
	logger *slog.Logger
}

// NewNotificationsHandler создаёт новый NotificationsHandler.
func NewNotificationsHandler(logger *slog.Logger) *NotificationsHandler {
	return &NotificationsHandler{
		logger: logger.With(slog.String("component", "ui.notifications")),
	}
}

// HandleList — GET /portal/notifications.
func (h *NotificationsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return
	}

	data := pages.NotificationsData{
		Shell: shellFrom(session, rt),
		Local: rt.Mirror.Notifications(),
	}

	items, err := rt.API.UserNotifications(r.Context(), session.Username)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Уведомления недоступны", slog.String("error", err.Error()))
		data.Error = "Les notifications sont momentanément indisponibles."
	} else {
		data.Items = items
	}

	trash, err := rt.API.NotificationsTrash(r.Context(), session.Username)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Debug("Корзина уведомлений недоступна", slog.String("error", err.Error()))
	} else {
		data.Trash = trash
	}

	render(w, r, h.logger, pages.Notifications(data))
}

// mutate выполняет операцию над уведомлением и возвращает на страницу.
func (h *NotificationsHandler) mutate(w http.ResponseWriter, r *http.Request, op func(userID string, id int64) error, needsID bool, what string) {
	session, _, ok := requireContext(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	var id int64
	if needsID {
		var err error
		id, err = strconv.ParseInt(r.PostFormValue("id"), 10, 64)
		if err != nil {
			http.Error(w, "Identifiant de notification invalide", http.StatusBadRequest)
			return
		}
	}

	if err := op(session.Username, id); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Операция над уведомлениями не удалась",
			slog.String("op", what),
			slog.String("error", err.Error()),
		)
	}
	http.Redirect(w, r, "/portal/notifications", http.StatusFound)
}

// HandleMarkRead — POST /portal/notifications/lire.
func (h *NotificationsHandler) HandleMarkRead(w http.ResponseWriter, r *http.Request) {
	_, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, func(userID string, id int64) error {
		_, err := rt.API.MarkNotificationRead(r.Context(), id, userID)
		return err
	}, true, "mark_read")
}

// HandleMarkLocalRead — POST /portal/notifications/local/lire: отметка
// прочтения уведомления локального зеркала.
func (h *NotificationsHandler) HandleMarkLocalRead(w http.ResponseWriter, r *http.Request) {
	_, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}
	if err := rt.Mirror.MarkNotificationRead(r.Context(), r.PostFormValue("id")); err != nil {
		h.logger.Warn("Локальное уведомление не отмечено", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, "/portal/notifications", http.StatusFound)
}

// HandleMarkAllRead — POST /portal/notifications/tout-lire.
func (h *NotificationsHandler) HandleMarkAllRead(w http.ResponseWriter, r *http.Request) {
	_, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, func(userID string, _ int64) error {
		_, err := rt.API.MarkAllNotificationsRead(r.Context(), userID)
		return err
	}, false, "mark_all_read")
}

// HandleDelete — POST /portal/notifications/supprimer.
func (h *NotificationsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, func(userID string, id int64) error {
		_, err := rt.API.DeleteNotification(r.Context(), id, userID)
		return err
	}, true, "delete")
}

// HandleDeleteAll — POST /portal/notifications/tout-supprimer.
func (h *NotificationsHandler) HandleDeleteAll(w http.ResponseWriter, r *http.Request) {
	_, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, func(userID string, _ int64) error {
		_, err := rt.API.DeleteAllNotifications(r.Context(), userID)
		return err
	}, false, "delete_all")
}

// HandleRestore — POST /portal/notifications/restaurer.
func (h *NotificationsHandler) HandleRestore(w http.ResponseWriter, r *http.Request) {
	_, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, func(userID string, id int64) error {
		_, err := rt.API.RestoreNotification(r.Context(), id, userID)
		return err
	}, true, "restore")
}

// HandleRestoreAll — POST /portal/notifications/tout-restaurer.
func (h *NotificationsHandler) HandleRestoreAll(w http.ResponseWriter, r *http.Request) {
	_, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	h.mutate(w, r, func(userID string, _ int64) error {
		_, err := rt.API.RestoreAllNotifications(r.Context(), userID)
		return err
	}, false, "restore_all")
}
