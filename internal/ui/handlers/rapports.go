// rapports.go — рапорты: избранное, заявки на доступ и их обработка
// владельцем, коды, скачивание.
package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/assuranceconnect/portal/internal/apiclient"
	"github.com/assuranceconnect/portal/internal/mirror"
	"github.com/assuranceconnect/portal/internal/ui/pages"
)

// RapportsHandler — обработчики страницы рапортов.
type RapportsHandler struct {
	logger *slog.Logger
}

// NewRapportsHandler создаёт новый RapportsHandler.
func NewRapportsHandler(logger *slog.Logger) *RapportsHandler {
	return &RapportsHandler{
		logger: logger.With(slog.String("component", "ui.rapports")),
	}
}

// HandleList — GET /portal/rapports.
func (h *RapportsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, "", "")
}

// parseBackendTime разбирает временную метку backend. Ошибка разбора —
// нулевое время.
func parseBackendTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (h *RapportsHandler) renderList(w http.ResponseWriter, r *http.Request, errMsg, notice string) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return
	}

	data := pages.RapportsData{
		Shell:           shellFrom(session, rt),
		PendingRequests: rt.Mirror.AccessRequests(),
		Error:           errMsg,
		Notice:          notice,
	}

	now := time.Now()

	// Мои заявки на backend: для одобренных с истёкшим кодом предлагаем
	// перевыпуск, для действующих — скачивание
	if my, err := rt.API.UserAccessRequests(r.Context(), session.Username); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Debug("Заявки пользователя недоступны", slog.String("error", err.Error()))
	} else {
		rows := make([]pages.BackendRequestRow, 0, len(my))
		for _, req := range my {
			row := pages.BackendRequestRow{Request: req}
			if strings.EqualFold(req.Status, "APPROVED") {
				expires := parseBackendTime(req.ExpiresAt)
				if !expires.IsZero() && expires.Before(now) {
					row.CanRenew = true
				} else {
					row.CanDownload = true
				}
			}
			if strings.EqualFold(req.Status, "EXPIRED") {
				row.CanRenew = true
			}
			rows = append(rows, row)
		}
		data.MyRequests = rows
	}

	// Заявки, адресованные текущему пользователю как владельцу рапортов
	if owner, err := rt.API.OwnerPendingReportRequests(r.Context(), session.Username); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Debug("Заявки владельца недоступны", slog.String("error", err.Error()))
	} else {
		data.OwnerRequests = owner
	}

	reports, err := rt.API.Reports(r.Context())
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Список рапортов недоступен", slog.String("error", err.Error()))
		if data.Error == "" {
			data.Error = "La liste des rapports est momentanément indisponible."
		}
		render(w, r, h.logger, pages.Rapports(data))
		return
	}

	rows := make([]pages.ReportRow, 0, len(reports))
	for _, rep := range reports {
		row := pages.ReportRow{
			Report:   rep,
			Favorite: rt.Mirror.IsFavorite(rep.Title),
		}
		// Права из кэша, чтобы не дёргать backend на каждую строку
		if perms, pErr := rt.Perms.ReportPermissions(r.Context(), rep.ID, session.Username); pErr == nil {
			row.CanEdit = perms.CanEdit
			row.CanDelete = perms.CanDelete
		}
		if req := rt.Mirror.GetApprovedAccessFor(rep.Title, session.Username); req != nil && req.ExpiresAt.After(now) {
			row.AccessCode = req.TemporaryCode
		}
		rows = append(rows, row)
	}
	data.Rows = rows

	render(w, r, h.logger, pages.Rapports(data))
}

// HandleToggleFavorite — POST /portal/rapports/favori.
func (h *RapportsHandler) HandleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	_, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	title := r.PostFormValue("title")
	if title == "" {
		http.Redirect(w, r, "/portal/rapports", http.StatusFound)
		return
	}
	if err := rt.Mirror.ToggleFavorite(r.Context(), title); err != nil {
		h.logger.Warn("Избранное не сохранено", slog.String("error", err.Error()))
	}
	http.Redirect(w, r, "/portal/rapports", http.StatusFound)
}

// HandleRequestAccess — POST /portal/rapports/demande: заявка на доступ.
// Заявка отправляется на backend; при его недоступности сохраняется
// в локальном зеркале (уведомление на дашборде и журнал аудита).
func (h *RapportsHandler) HandleRequestAccess(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	reportID, err := strconv.ParseInt(r.PostFormValue("report_id"), 10, 64)
	if err != nil {
		http.Error(w, "Identifiant de rapport invalide", http.StatusBadRequest)
		return
	}
	title := r.PostFormValue("title")

	user := rt.Session.User()
	_, err = rt.API.CreateReportRequest(r.Context(), apiclient.CreateReportRequestBody{
		ReportID:         reportID,
		ReportTitle:      title,
		RequesterID:      session.Username,
		RequesterName:    session.Username,
		RequesterEmail:   user.Email,
		RequesterCompany: session.Company,
		Reason:           r.PostFormValue("reason"),
	})
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			h.renderList(w, r, apiErr.Message, "")
			return
		}
		// Backend недоступен — фиксируем заявку в зеркале
		if _, mErr := rt.Mirror.CreateAccessRequest(r.Context(), mirror.CreateAccessRequestParams{
			ReportID:         reportID,
			ReportTitle:      title,
			RequesterID:      session.Username,
			RequesterName:    session.Username,
			RequesterEmail:   user.Email,
			RequesterCompany: session.Company,
		}); mErr != nil {
			h.logger.Error("Локальная заявка не создана", slog.String("error", mErr.Error()))
			h.renderList(w, r, "La demande d'accès n'a pas pu être enregistrée.", "")
			return
		}
		h.logger.Warn("Backend недоступен, заявка сохранена локально",
			slog.String("error", err.Error()),
		)
		h.renderList(w, r, "", fmt.Sprintf("Serveur indisponible : votre demande pour « %s » a été enregistrée localement.", title))
		return
	}

	h.renderList(w, r, "", fmt.Sprintf("Votre demande d'accès au rapport « %s » a été transmise.", title))
}

// HandleApproveRequest — POST /portal/rapports/demandes/approuver.
// Числовой идентификатор — заявка backend; иначе — локальная заявка
// зеркала, обрабатывать которую может только администратор.
func (h *RapportsHandler) HandleApproveRequest(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	id := r.PostFormValue("id")
	if numID, convErr := strconv.ParseInt(id, 10, 64); convErr == nil {
		if _, err := rt.API.ApproveReportRequest(r.Context(), numID, session.Username); err != nil {
			if redirectRateLimited(w, r, err) {
				return
			}
			h.logger.Warn("Одобрение заявки не удалось",
				slog.Int64("request_id", numID),
				slog.String("error", err.Error()),
			)
			h.renderList(w, r, "L'approbation de la demande a échoué.", "")
			return
		}
		h.renderList(w, r, "", "La demande a été approuvée. Le code de validation a été transmis au demandeur.")
		return
	}

	if session.Role != "admin" {
		http.Error(w, "Accès réservé aux administrateurs", http.StatusForbidden)
		return
	}
	fileID, _ := strconv.ParseInt(r.PostFormValue("file_id"), 10, 64)
	req, err := rt.Mirror.ApproveAccessRequest(r.Context(), id, session.Username, fileID)
	if err != nil {
		h.logger.Error("Локальное одобрение не сохранено", slog.String("error", err.Error()))
		h.renderList(w, r, "L'approbation de la demande a échoué.", "")
		return
	}
	if req == nil {
		h.renderList(w, r, "Demande introuvable.", "")
		return
	}
	h.renderList(w, r, "", fmt.Sprintf("Demande approuvée. Code d'accès : %s", req.TemporaryCode))
}

// HandleRejectRequest — POST /portal/rapports/demandes/rejeter.
func (h *RapportsHandler) HandleRejectRequest(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	id := r.PostFormValue("id")
	reason := r.PostFormValue("reason")
	if numID, convErr := strconv.ParseInt(id, 10, 64); convErr == nil {
		if _, err := rt.API.RejectReportRequest(r.Context(), numID, session.Username); err != nil {
			if redirectRateLimited(w, r, err) {
				return
			}
			h.logger.Warn("Отклонение заявки не удалось",
				slog.Int64("request_id", numID),
				slog.String("error", err.Error()),
			)
			h.renderList(w, r, "Le rejet de la demande a échoué.", "")
			return
		}
		h.renderList(w, r, "", "La demande a été rejetée.")
		return
	}

	if session.Role != "admin" {
		http.Error(w, "Accès réservé aux administrateurs", http.StatusForbidden)
		return
	}
	if _, err := rt.Mirror.RejectAccessRequest(r.Context(), id, session.Username, reason); err != nil {
		h.logger.Error("Локальное отклонение не сохранено", slog.String("error", err.Error()))
		h.renderList(w, r, "Le rejet de la demande a échoué.", "")
		return
	}
	h.renderList(w, r, "", "La demande a été rejetée.")
}

// HandleRenewCode — POST /portal/rapports/code/renouveler: перевыпуск
// истёкшего кода доступа.
func (h *RapportsHandler) HandleRenewCode(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	requestID, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Identifiant de demande invalide", http.StatusBadRequest)
		return
	}

	req, err := rt.API.RenewAccessCode(r.Context(), requestID, session.Username)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Перевыпуск кода не удался",
			slog.Int64("request_id", requestID),
			slog.String("error", err.Error()),
		)
		h.renderList(w, r, "Le renouvellement du code a échoué.", "")
		return
	}
	h.renderList(w, r, "", fmt.Sprintf("Un nouveau code a été généré : %s", req.TemporaryCode))
}

// HandleValidateCode — POST /portal/rapports/code: проверка кода доступа.
// Код может принадлежать любой из двух семей backend: временные коды
// скачивания и коды валидации заявок на выдачу.
func (h *RapportsHandler) HandleValidateCode(w http.ResponseWriter, r *http.Request) {
	_, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	reportID, err := strconv.ParseInt(r.PostFormValue("report_id"), 10, 64)
	if err != nil {
		http.Error(w, "Identifiant de rapport invalide", http.StatusBadRequest)
		return
	}
	code := r.PostFormValue("code")

	// Формат проверяем локально до обращения к backend
	if !mirror.ValidAccessCode(code) {
		h.renderList(w, r, "Format de code invalide. Formats acceptés : XXX-XXX-XXX ou CODE suivi de 6 chiffres.", "")
		return
	}

	validation, err := rt.API.ValidateAccessCode(r.Context(), reportID, code)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Проверка кода не удалась", slog.String("error", err.Error()))
		h.renderList(w, r, "La vérification du code a échoué.", "")
		return
	}
	if !validation.Valid {
		// Вторая семья: код валидации заявки на выдачу
		if _, rrErr := rt.API.ValidateReportRequestCode(r.Context(), code); rrErr == nil {
			h.renderList(w, r, "", "Code valide. Vous pouvez télécharger le rapport.")
			return
		}
		msg := validation.Message
		if msg == "" {
			msg = "Code invalide ou expiré."
		}
		h.renderList(w, r, msg, "")
		return
	}

	h.renderList(w, r, "", "Code valide. Vous pouvez télécharger le rapport.")
}

// HandleDownload — GET /portal/rapports/telecharger: скачивание по коду.
// Без кода в запросе используется действующий код пользователя,
// если backend его подтверждает.
func (h *RapportsHandler) HandleDownload(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return
	}

	reportID, err := strconv.ParseInt(r.URL.Query().Get("report_id"), 10, 64)
	if err != nil {
		http.Error(w, "Identifiant de rapport invalide", http.StatusBadRequest)
		return
	}
	code := r.URL.Query().Get("code")

	if code == "" {
		check, cErr := rt.API.CheckValidCode(r.Context(), session.Username, reportID)
		if cErr != nil {
			if redirectRateLimited(w, r, cErr) {
				return
			}
			h.logger.Debug("Проверка действующего кода не удалась", slog.String("error", cErr.Error()))
		} else if check.HasValidCode {
			code = check.Code
		}
		if code == "" {
			h.renderList(w, r, "Aucun code d'accès valide pour ce rapport.", "")
			return
		}
	}

	file, err := rt.API.DownloadSecured(r.Context(), reportID, session.Username, code)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Скачивание не удалось",
			slog.Int64("report_id", reportID),
			slog.String("error", err.Error()),
		)
		h.renderList(w, r, "Le téléchargement a échoué. Vérifiez votre code d'accès.", "")
		return
	}

	// Отметка в журнале аудита, best effort
	if err := rt.Mirror.RecordDownload(r.Context(), file.Filename, session.Username); err != nil {
		h.logger.Debug("Журнал скачивания не обновлён", slog.String("error", err.Error()))
	}

	w.Header().Set("Content-Type", file.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	if _, err := w.Write(file.Data); err != nil {
		h.logger.Debug("Передача файла прервана", slog.String("error", err.Error()))
	}
}

// HandleAccessCodes — GET /portal/rapports/codes: коды доступа к файлам
// рапорта (доступно владельцу, проверяет backend).
func (h *RapportsHandler) HandleAccessCodes(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return
	}

	reportID, err := strconv.ParseInt(r.URL.Query().Get("report_id"), 10, 64)
	if err != nil {
		http.Error(w, "Identifiant de rapport invalide", http.StatusBadRequest)
		return
	}

	data := pages.AccessCodesData{
		Shell:    shellFrom(session, rt),
		ReportID: reportID,
	}

	files, err := rt.API.FilesWithAccessCodes(r.Context(), reportID, session.Username)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Коды доступа недоступны",
			slog.Int64("report_id", reportID),
			slog.String("error", err.Error()),
		)
		data.Error = "Les codes d'accès sont momentanément indisponibles."
	} else {
		data.Files = files
	}

	render(w, r, h.logger, pages.AccessCodes(data))
}

// HandleDelete — POST /portal/rapports/supprimer.
func (h *RapportsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	_, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	reportID, err := strconv.ParseInt(r.PostFormValue("report_id"), 10, 64)
	if err != nil {
		http.Error(w, "Identifiant de rapport invalide", http.StatusBadRequest)
		return
	}

	if err := rt.API.DeleteReport(r.Context(), reportID); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Удаление рапорта не удалось",
			slog.Int64("report_id", reportID),
			slog.String("error", err.Error()),
		)
		h.renderList(w, r, "La suppression du rapport a échoué.", "")
		return
	}

	// Права на рапорт изменились
	rt.Perms.Invalidate()

	http.Redirect(w, r, "/portal/rapports", http.StatusFound)
}
