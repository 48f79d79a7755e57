package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/assuranceconnect/portal/internal/apiclient"
)

// registerBackend — счётчики backend для тестов регистрации.
type registerBackend struct {
	registered       atomic.Int64
	invitationsUsed  atomic.Int64
	lastRegistration atomic.Value
	usernameTaken    bool
}

func newRegisterBackend(t *testing.T, st *registerBackend) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path
		switch {
		case path == "/api/invitations/validate/tok-abc":
			w.Write([]byte(`{"id":3,"email":"nv@axa.fr","insuranceCompany":"AXA","token":"tok-abc","status":"PENDING"}`))
		case strings.HasPrefix(path, "/api/invitations/validate/"):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Invitation introuvable"}`))
		case strings.HasPrefix(path, "/api/users/check-username/"):
			if st.usernameTaken {
				w.Write([]byte(`true`))
			} else {
				w.Write([]byte(`false`))
			}
		case path == "/api/users/register":
			var body apiclient.RegistrationBody
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				st.lastRegistration.Store(body)
			}
			st.registered.Add(1)
			w.Write([]byte(`{"id":12,"username":"nveau","email":"nv@axa.fr","insuranceCompany":"AXA","active":true}`))
		case path == "/api/invitations/tok-abc/use":
			st.invitationsUsed.Add(1)
			w.Write([]byte(`{"success":true}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"introuvable"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newRegisterHandler(t *testing.T, backendURL string) *RegisterHandler {
	t.Helper()
	api := apiclient.New(backendURL, 5*time.Second, nil, testLogger())
	return NewRegisterHandler(api, testLogger())
}

func registrationForm() url.Values {
	return url.Values{
		"token":         {"tok-abc"},
		"username":      {"nveau"},
		"first_name":    {"Nicolas"},
		"last_name":     {"Veau"},
		"date_of_birth": {"1990-01-15"},
		"password":      {"s3cret!"},
	}
}

func TestRegister_FormShowsInvitation(t *testing.T) {
	var st registerBackend
	srv := newRegisterBackend(t, &st)
	h := newRegisterHandler(t, srv.URL)

	rec := httptest.NewRecorder()
	h.HandleForm(rec, httptest.NewRequest(http.MethodGet, "/portal/inscription?token=tok-abc", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("код %d, ожидается 200", rec.Code)
	}
	page := pageBody(t, rec)
	if !strings.Contains(page, "nv@axa.fr") {
		t.Error("форма не показывает адрес из приглашения")
	}
	if !strings.Contains(page, `name="username"`) {
		t.Error("форма регистрации не отображена")
	}
}

func TestRegister_InvalidTokenShowsError(t *testing.T) {
	var st registerBackend
	srv := newRegisterBackend(t, &st)
	h := newRegisterHandler(t, srv.URL)

	rec := httptest.NewRecorder()
	h.HandleForm(rec, httptest.NewRequest(http.MethodGet, "/portal/inscription?token=tok-faux", nil))

	if !strings.Contains(pageBody(t, rec), "Invitation invalide") {
		t.Error("страница не сообщает о невалидном приглашении")
	}
}

func TestRegister_SubmitCreatesAccount(t *testing.T) {
	var st registerBackend
	srv := newRegisterBackend(t, &st)
	h := newRegisterHandler(t, srv.URL)

	req := httptest.NewRequest(http.MethodPost, "/portal/inscription", strings.NewReader(registrationForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if got := st.registered.Load(); got != 1 {
		t.Errorf("backend получил %d регистраций, ожидается 1", got)
	}
	if got := st.invitationsUsed.Load(); got != 1 {
		t.Errorf("приглашение погашено %d раз, ожидается 1", got)
	}
	// Email берётся из приглашения, а не из формы
	if body, ok := st.lastRegistration.Load().(apiclient.RegistrationBody); !ok || body.Email != "nv@axa.fr" {
		t.Errorf("тело регистрации %+v, ожидается email из приглашения", st.lastRegistration.Load())
	}
	if !strings.Contains(pageBody(t, rec), "compte a été créé") {
		t.Error("страница входа не подтверждает создание учётной записи")
	}
}

func TestRegister_TakenUsernameRejected(t *testing.T) {
	st := registerBackend{usernameTaken: true}
	srv := newRegisterBackend(t, &st)
	h := newRegisterHandler(t, srv.URL)

	req := httptest.NewRequest(http.MethodPost, "/portal/inscription", strings.NewReader(registrationForm().Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.HandleSubmit(rec, req)

	if got := st.registered.Load(); got != 0 {
		t.Errorf("backend получил %d регистраций при занятом имени, ожидается 0", got)
	}
	if !strings.Contains(pageBody(t, rec), "déjà pris") {
		t.Error("страница не сообщает о занятом имени")
	}
}
