package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/assuranceconnect/portal/internal/ui/auth"
)

// logRecord — разобранная JSON-запись журнала запросов.
type logRecord struct {
	Level      string `json:"level"`
	Msg        string `json:"msg"`
	Method     string `json:"method"`
	Path       string `json:"path"`
	Status     int    `json:"status"`
	HasSession bool   `json:"has_session"`
}

// captureLog выполняет запрос через RequestLogger и возвращает запись журнала.
func captureLog(t *testing.T, req *http.Request, status int) logRecord {
	t.Helper()

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var rec logRecord
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("Запись журнала не разобрана: %v (%q)", err, buf.String())
	}
	return rec
}

// TestRequestLogger_StatusLevels проверяет уровень записи по статус-коду.
func TestRequestLogger_StatusLevels(t *testing.T) {
	tests := []struct {
		status int
		level  string
	}{
		{http.StatusOK, "INFO"},
		{http.StatusFound, "INFO"},
		{http.StatusNotFound, "WARN"},
		{http.StatusInternalServerError, "ERROR"},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/portal/rapports", nil)
		rec := captureLog(t, req, tt.status)
		if rec.Level != tt.level {
			t.Errorf("Статус %d: уровень = %q, ожидали %q", tt.status, rec.Level, tt.level)
		}
		if rec.Status != tt.status {
			t.Errorf("Статус в записи = %d, ожидали %d", rec.Status, tt.status)
		}
	}
}

// TestRequestLogger_CollapsesStaticPath проверяет нормализацию пути статики.
func TestRequestLogger_CollapsesStaticPath(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/static/css/portal.css", nil)
	rec := captureLog(t, req, http.StatusOK)
	if rec.Path != "/static/*" {
		t.Errorf("Путь = %q, ожидали %q", rec.Path, "/static/*")
	}
}

// TestRequestLogger_SessionFlag проверяет признак наличия session cookie.
func TestRequestLogger_SessionFlag(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/portal/", nil)
	if rec := captureLog(t, req, http.StatusOK); rec.HasSession {
		t.Error("has_session = true для запроса без cookie")
	}

	req = httptest.NewRequest(http.MethodGet, "/portal/", nil)
	req.AddCookie(&http.Cookie{Name: auth.SessionCookieName, Value: "x"})
	if rec := captureLog(t, req, http.StatusOK); !rec.HasSession {
		t.Error("has_session = false для запроса с session cookie")
	}
}
