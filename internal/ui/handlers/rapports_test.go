package handlers

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/assuranceconnect/portal/internal/mirror"
	"github.com/assuranceconnect/portal/internal/service"
	"github.com/assuranceconnect/portal/internal/ui/auth"
	uimiddleware "github.com/assuranceconnect/portal/internal/ui/middleware"
)

// rapportsBackend — счётчики обращений к backend из обработчиков рапортов.
type rapportsBackend struct {
	createReportRequests atomic.Int64
	approvals            atomic.Int64
	rejections           atomic.Int64
	codeValidations      atomic.Int64
	lastProcessedBy      atomic.Value
}

func newRapportsBackend(t *testing.T, st *rapportsBackend) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path
		switch {
		case path == "/api/auth/login":
			w.Write([]byte(`{"token":"tok-1","user":{"id":7,"username":"jdupont","role":"ADMIN","insuranceCompany":"AXA"}}`))
		case path == "/api/users/logout":
			w.Write([]byte(`{"success":true}`))
		case strings.HasSuffix(path, "/unread/count"):
			w.Write([]byte(`{"count":0}`))
		case path == "/api/reports":
			w.Write([]byte(`[]`))
		case path == "/api/report-requests" && r.Method == http.MethodPost:
			st.createReportRequests.Add(1)
			w.Write([]byte(`{"id":11,"reportId":42,"reportTitle":"Sinistre 42","status":"PENDING"}`))
		case path == "/api/report-requests/11/approve":
			st.approvals.Add(1)
			st.lastProcessedBy.Store(r.URL.Query().Get("processedBy"))
			w.Write([]byte(`{"id":11,"status":"APPROVED","validationCode":"CODE123456"}`))
		case path == "/api/report-requests/11/reject":
			st.rejections.Add(1)
			w.Write([]byte(`{"id":11,"status":"REJECTED"}`))
		case path == "/api/download/validate-code":
			w.Write([]byte(`{"valid":false,"message":"Code inconnu"}`))
		case path == "/api/report-requests/validate-code":
			st.codeValidations.Add(1)
			w.Write([]byte(`{"id":11,"status":"APPROVED","validationCode":"CODE123456"}`))
		case strings.HasPrefix(path, "/api/access-requests/user/"):
			w.Write([]byte(`[]`))
		case strings.HasPrefix(path, "/api/report-requests/owner/"):
			w.Write([]byte(`[]`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"introuvable"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// newRuntime создаёт аутентифицированное окружение против stub backend.
func newRuntime(t *testing.T, backendURL string) *service.Runtime {
	t.Helper()
	e := newTestEnv(t, backendURL)
	ctx := context.Background()
	rt := e.runtimes.Acquire(ctx, "jdupont")
	if !rt.Session.Login(ctx, "jdupont", "AXA", "secret") {
		t.Fatal("Login() против stub backend не удался")
	}
	return rt
}

// authedRequest — запрос с сессией и окружением в контексте,
// как после UIAuth middleware.
func authedRequest(rt *service.Runtime, role, method, target string, form url.Values) *http.Request {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	session := &auth.SessionData{UserID: 7, Username: "jdupont", Role: role, Company: "AXA"}
	ctx := context.WithValue(req.Context(), uimiddleware.ContextKeySession, session)
	ctx = context.WithValue(ctx, uimiddleware.ContextKeyRuntime, rt)
	return req.WithContext(ctx)
}

func pageBody(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	b, err := io.ReadAll(rec.Result().Body)
	if err != nil {
		t.Fatalf("тело ответа не прочитано: %v", err)
	}
	return string(b)
}

// Заявка на доступ уходит на backend; локальное зеркало при живом
// backend не трогается.
func TestRapports_RequestAccessGoesToBackend(t *testing.T) {
	var st rapportsBackend
	srv := newRapportsBackend(t, &st)
	rt := newRuntime(t, srv.URL)
	h := NewRapportsHandler(testLogger())

	form := url.Values{
		"report_id": {"42"},
		"title":     {"Sinistre 42"},
		"reason":    {"Enquête en cours"},
	}
	rec := httptest.NewRecorder()
	h.HandleRequestAccess(rec, authedRequest(rt, "point_focal", http.MethodPost, "/portal/rapports/demande", form))

	if got := st.createReportRequests.Load(); got != 1 {
		t.Errorf("backend получил %d заявок, ожидается 1", got)
	}
	if reqs := rt.Mirror.AccessRequests(); len(reqs) != 0 {
		t.Errorf("зеркало содержит %d заявок, при живом backend ожидается 0", len(reqs))
	}
	if !strings.Contains(pageBody(t, rec), "transmise") {
		t.Error("страница не подтверждает передачу заявки")
	}
}

// При недоступном backend заявка сохраняется в локальном зеркале.
func TestRapports_RequestAccessFallsBackToMirror(t *testing.T) {
	var st rapportsBackend
	srv := newRapportsBackend(t, &st)
	rt := newRuntime(t, srv.URL)
	h := NewRapportsHandler(testLogger())

	srv.Close()

	form := url.Values{
		"report_id": {"42"},
		"title":     {"Sinistre 42"},
	}
	rec := httptest.NewRecorder()
	h.HandleRequestAccess(rec, authedRequest(rt, "point_focal", http.MethodPost, "/portal/rapports/demande", form))

	reqs := rt.Mirror.AccessRequests()
	if len(reqs) != 1 {
		t.Fatalf("зеркало содержит %d заявок, ожидается 1", len(reqs))
	}
	if reqs[0].Status != mirror.AccessPending {
		t.Errorf("статус локальной заявки %q, ожидается pending", reqs[0].Status)
	}
	if !strings.Contains(pageBody(t, rec), "enregistrée localement") {
		t.Error("страница не сообщает о локальном сохранении")
	}
}

// Числовой идентификатор — одобрение на backend от имени пользователя.
func TestRapports_ApproveBackendRequest(t *testing.T) {
	var st rapportsBackend
	srv := newRapportsBackend(t, &st)
	rt := newRuntime(t, srv.URL)
	h := NewRapportsHandler(testLogger())

	rec := httptest.NewRecorder()
	h.HandleApproveRequest(rec, authedRequest(rt, "point_focal", http.MethodPost,
		"/portal/rapports/demandes/approuver", url.Values{"id": {"11"}}))

	if got := st.approvals.Load(); got != 1 {
		t.Errorf("backend получил %d одобрений, ожидается 1", got)
	}
	if got, _ := st.lastProcessedBy.Load().(string); got != "jdupont" {
		t.Errorf("processedBy = %q, ожидается jdupont", got)
	}
	if !strings.Contains(pageBody(t, rec), "approuvée") {
		t.Error("страница не подтверждает одобрение")
	}
}

func TestRapports_RejectBackendRequest(t *testing.T) {
	var st rapportsBackend
	srv := newRapportsBackend(t, &st)
	rt := newRuntime(t, srv.URL)
	h := NewRapportsHandler(testLogger())

	rec := httptest.NewRecorder()
	h.HandleRejectRequest(rec, authedRequest(rt, "point_focal", http.MethodPost,
		"/portal/rapports/demandes/rejeter", url.Values{"id": {"11"}}))

	if got := st.rejections.Load(); got != 1 {
		t.Errorf("backend получил %d отклонений, ожидается 1", got)
	}
	if !strings.Contains(pageBody(t, rec), "rejetée") {
		t.Error("страница не подтверждает отклонение")
	}
}

// Локальные заявки зеркала обрабатывает только администратор.
func TestRapports_LocalApprovalRequiresAdmin(t *testing.T) {
	var st rapportsBackend
	srv := newRapportsBackend(t, &st)
	rt := newRuntime(t, srv.URL)
	h := NewRapportsHandler(testLogger())

	ctx := context.Background()
	local, err := rt.Mirror.CreateAccessRequest(ctx, mirror.CreateAccessRequestParams{
		ReportID:      42,
		ReportTitle:   "Sinistre 42",
		RequesterID:   "jdupont",
		RequesterName: "jdupont",
	})
	if err != nil {
		t.Fatalf("CreateAccessRequest() вернул ошибку: %v", err)
	}

	rec := httptest.NewRecorder()
	h.HandleApproveRequest(rec, authedRequest(rt, "point_focal", http.MethodPost,
		"/portal/rapports/demandes/approuver", url.Values{"id": {local.ID}}))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("код %d для не-администратора, ожидается 403", rec.Code)
	}

	rec = httptest.NewRecorder()
	h.HandleApproveRequest(rec, authedRequest(rt, "admin", http.MethodPost,
		"/portal/rapports/demandes/approuver", url.Values{"id": {local.ID}, "file_id": {"7"}}))
	if rec.Code != http.StatusOK {
		t.Fatalf("код %d для администратора, ожидается 200", rec.Code)
	}

	reqs := rt.Mirror.AccessRequests()
	if len(reqs) != 1 || reqs[0].Status != mirror.AccessApproved {
		t.Fatalf("локальная заявка не одобрена: %+v", reqs)
	}
	if !strings.HasPrefix(reqs[0].TemporaryCode, "CODE") {
		t.Errorf("код %q, для file_id ожидается детерминированный CODE######", reqs[0].TemporaryCode)
	}
}

// Код, неизвестный семье кодов скачивания, проверяется по второй семье —
// кодам валидации заявок на выдачу.
func TestRapports_ValidateCodeSecondFamily(t *testing.T) {
	var st rapportsBackend
	srv := newRapportsBackend(t, &st)
	rt := newRuntime(t, srv.URL)
	h := NewRapportsHandler(testLogger())

	form := url.Values{
		"report_id": {"42"},
		"code":      {"CODE123456"},
	}
	rec := httptest.NewRecorder()
	h.HandleValidateCode(rec, authedRequest(rt, "point_focal", http.MethodPost, "/portal/rapports/code", form))

	if got := st.codeValidations.Load(); got != 1 {
		t.Errorf("вторая семья кодов проверена %d раз, ожидается 1", got)
	}
	if !strings.Contains(pageBody(t, rec), "Code valide") {
		t.Error("страница не подтверждает валидность кода")
	}
}
