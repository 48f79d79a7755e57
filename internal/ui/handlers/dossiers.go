// dossiers.go — дела: список backend, локальные черновики, поиск по
// референсу, смена статуса.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/assuranceconnect/portal/internal/apiclient"
	"github.com/assuranceconnect/portal/internal/mirror"
	"github.com/assuranceconnect/portal/internal/service"
	"github.com/assuranceconnect/portal/internal/ui/pages"
)

// DossiersHandler — обработчики страницы дел.
type DossiersHandler struct {
	logger *slog.Logger
}

// NewDossiersHandler создаёт новый DossiersHandler.
func NewDossiersHandler(logger *slog.Logger) *DossiersHandler {
	return &DossiersHandler{
		logger: logger.With(slog.String("component", "ui.dossiers")),
	}
}

// HandleList — GET /portal/dossiers.
func (h *DossiersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	h.renderList(w, r, "", "")
}

// buildData собирает общие данные страницы дел. ok=false значит, что
// ответ уже записан (редирект 429 или отсутствие контекста).
func (h *DossiersHandler) buildData(w http.ResponseWriter, r *http.Request, errMsg, notice string) (pages.DossiersData, *service.Runtime, bool) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return pages.DossiersData{}, nil, false
	}

	data := pages.DossiersData{
		Shell:  shellFrom(session, rt),
		Drafts: rt.Mirror.Cases(),
		Error:  errMsg,
		Notice: notice,
	}

	cases, err := rt.API.MyCases(r.Context(), session.Username)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return pages.DossiersData{}, nil, false
		}
		h.logger.Warn("Список дел недоступен", slog.String("error", err.Error()))
		if data.Error == "" {
			data.Error = "La liste des dossiers est momentanément indisponible."
		}
	} else {
		data.Cases = cases
	}

	return data, rt, true
}

// renderList собирает и отображает страницу дел.
func (h *DossiersHandler) renderList(w http.ResponseWriter, r *http.Request, errMsg, notice string) {
	data, _, ok := h.buildData(w, r, errMsg, notice)
	if !ok {
		return
	}
	render(w, r, h.logger, pages.Dossiers(data))
}

// HandleSearch — GET /portal/dossiers/recherche?reference=: поиск дела
// по референсу. Отсутствие дела — не ошибка, а пустой результат.
func (h *DossiersHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	data, rt, ok := h.buildData(w, r, "", "")
	if !ok {
		return
	}

	reference := strings.TrimSpace(r.URL.Query().Get("reference"))
	data.SearchReference = reference
	if reference != "" {
		found, err := rt.API.CaseByReference(r.Context(), reference)
		switch {
		case err != nil:
			if redirectRateLimited(w, r, err) {
				return
			}
			h.logger.Warn("Поиск дела не удался",
				slog.String("reference", reference),
				slog.String("error", err.Error()),
			)
			data.Error = "La recherche de dossier a échoué."
		case found == nil:
			data.SearchMissing = true
		default:
			data.Found = found
		}
	}

	render(w, r, h.logger, pages.Dossiers(data))
}

// HandleCreate — POST /portal/dossiers: создание дела на backend.
// При недоступности backend дело сохраняется локальным черновиком
// и будет перенесено при следующем входе.
func (h *DossiersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	formType := r.PostFormValue("type")
	initiator := r.PostFormValue("initiator")
	description := r.PostFormValue("description")

	caseType := apiclient.CaseTypeInvestigation
	localType := mirror.CaseInvestigation
	status := apiclient.CaseStatusUnderInvestigation
	if formType == "frauduleux" {
		caseType = apiclient.CaseTypeFraudulent
		localType = mirror.CaseFraudulent
		status = apiclient.CaseStatusFraudulent
	}

	caseData := map[string]any{
		"initiator":   initiator,
		"description": description,
	}

	_, err := rt.API.CreateCase(r.Context(), caseType, status, caseData, session.Username, 0)
	if err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		var apiErr *apiclient.APIError
		if errors.As(err, &apiErr) {
			h.renderList(w, r, apiErr.Message, "")
			return
		}
		// Backend недоступен — сохраняем черновик локально
		if _, mErr := rt.Mirror.CreateCase(r.Context(), localType, mirror.CaseStatusOpen, caseData, session.Username); mErr != nil {
			h.logger.Error("Не удалось сохранить черновик дела", slog.String("error", mErr.Error()))
			h.renderList(w, r, "Le dossier n'a pas pu être enregistré.", "")
			return
		}
		h.logger.Warn("Backend недоступен, дело сохранено черновиком",
			slog.String("error", err.Error()),
		)
		h.renderList(w, r, "", "Serveur indisponible : le dossier a été enregistré localement et sera transmis automatiquement.")
		return
	}

	http.Redirect(w, r, "/portal/dossiers", http.StatusFound)
}

// HandleUpdateStatus — POST /portal/dossiers/statut.
func (h *DossiersHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	session, rt, ok := requireContext(w, r)
	if !ok {
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Requête invalide", http.StatusBadRequest)
		return
	}

	caseID, err := strconv.ParseInt(r.PostFormValue("id"), 10, 64)
	if err != nil {
		http.Error(w, "Identifiant de dossier invalide", http.StatusBadRequest)
		return
	}
	status := r.PostFormValue("status")

	if _, err := rt.API.UpdateCaseStatus(r.Context(), caseID, status, session.Username); err != nil {
		if redirectRateLimited(w, r, err) {
			return
		}
		h.logger.Warn("Смена статуса дела не удалась",
			slog.Int64("case_id", caseID),
			slog.String("error", err.Error()),
		)
		h.renderList(w, r, "La mise à jour du statut a échoué.", "")
		return
	}

	http.Redirect(w, r, "/portal/dossiers", http.StatusFound)
}
