package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newDossiersBackend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		path := r.URL.Path
		switch {
		case path == "/api/auth/login":
			w.Write([]byte(`{"token":"tok-1","user":{"id":7,"username":"jdupont","role":"USER","insuranceCompany":"AXA"}}`))
		case path == "/api/users/logout":
			w.Write([]byte(`{"success":true}`))
		case strings.HasSuffix(path, "/unread/count"):
			w.Write([]byte(`{"count":0}`))
		case path == "/api/cases/my-cases":
			w.Write([]byte(`[]`))
		case path == "/api/cases/reference/JD-042137":
			w.Write([]byte(`{"id":5,"reference":"JD-042137","type":"INVESTIGATION_IN_PROGRESS","status":"UNDER_INVESTIGATION","createdAt":"2026-08-01T10:00:00"}`))
		case strings.HasPrefix(path, "/api/cases/reference/"):
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"Dossier introuvable"}`))
		default:
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"introuvable"}`))
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestDossiers_SearchByReference(t *testing.T) {
	srv := newDossiersBackend(t)
	rt := newRuntime(t, srv.URL)
	h := NewDossiersHandler(testLogger())

	rec := httptest.NewRecorder()
	h.HandleSearch(rec, authedRequest(rt, "point_focal", http.MethodGet,
		"/portal/dossiers/recherche?reference=JD-042137", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("код %d, ожидается 200", rec.Code)
	}
	if !strings.Contains(pageBody(t, rec), "JD-042137") {
		t.Error("найденное дело не отображено")
	}
}

func TestDossiers_SearchMissingReference(t *testing.T) {
	srv := newDossiersBackend(t)
	rt := newRuntime(t, srv.URL)
	h := NewDossiersHandler(testLogger())

	rec := httptest.NewRecorder()
	h.HandleSearch(rec, authedRequest(rt, "point_focal", http.MethodGet,
		"/portal/dossiers/recherche?reference=XX-000000", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("код %d, ожидается 200", rec.Code)
	}
	if !strings.Contains(pageBody(t, rec), "Aucun dossier avec la référence") {
		t.Error("страница не сообщает об отсутствии дела")
	}
}
