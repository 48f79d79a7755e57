// dashboard.go — главная страница портала.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/assuranceconnect/portal/internal/ui/pages"
)

// DashboardHandler — обработчик главной страницы.
type DashboardHandler struct {
	logger *slog.Logger
}

// NewDashboardHandler создаёт новый DashboardHandler.
func NewDashboardHandler(logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		logger: logger.With(slog.String("component", "ui.dashboard")),
	}
}

// HandleDashboard — GET /portal/: статистика, подписка, журнал активности.
// Недоступность отдельного блока статистики не валит страницу целиком.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return
	}

	data := pages.DashboardData{
		Shell:       shellFrom(session, rt),
		AuditEvents: rt.Mirror.AuditEvents(),
	}

	reportStats, err := rt.API.ReportStats(r.Context())
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Статистика рапортов недоступна", slog.String("error", err.Error()))
	} else {
		data.ReportStats = reportStats
	}

	caseStats, err := rt.API.CaseStats(r.Context())
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Статистика дел недоступна", slog.String("error", err.Error()))
	} else {
		data.CaseStats = caseStats
	}

	pending, err := rt.API.CountOwnerPendingReportRequests(r.Context(), session.Username)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Debug("Счётчик входящих заявок недоступен", slog.String("error", err.Error()))
	} else {
		data.PendingReceived = pending
	}

	sub, err := rt.API.CheckSubscription(r.Context(), session.Username)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Debug("Проверка подписки не удалась", slog.String("error", err.Error()))
	} else {
		data.Subscription = sub
	}

	render(w, r, h.logger, pages.Dashboard(data))
}
