package session

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/assuranceconnect/portal/internal/apiclient"
	"github.com/assuranceconnect/portal/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// newBackend поднимает тестовый backend, отвечающий на логин.
func newBackend(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newStore(t *testing.T, st storage.Store, backendURL string) *Store {
	t.Helper()
	s := NewStore(context.Background(), st, "jdupont", testLogger())
	api := apiclient.New(backendURL, 5*time.Second, s, testLogger())
	s.SetClient(api)
	return s
}

const loginOK = `{"token":"jwt-abc","user":{"id":7,"username":"jdupont","role":"ADMIN","email":"j@axa.fr","insuranceCompany":"AXA"}}`

func TestStore_LoginSuccess(t *testing.T) {
	srv := newBackend(t, http.StatusOK, loginOK)
	st, _ := storage.NewFileStore(t.TempDir())
	s := newStore(t, st, srv.URL)

	if s.IsAuthenticated() {
		t.Fatal("Новая сессия не должна быть аутентифицирована")
	}

	if !s.Login(context.Background(), "jdupont", "  AXA  ", "secret") {
		t.Fatal("Login() вернул false при успешном ответе backend")
	}

	if !s.IsAuthenticated() {
		t.Error("После входа сессия должна быть аутентифицирована")
	}
	user := s.User()
	if user == nil || user.Name != "jdupont" {
		t.Fatalf("User() = %+v, ожидается jdupont", user)
	}
	if user.Role != RoleAdmin {
		t.Errorf("Role = %q, роль ADMIN должна нормализоваться в admin", user.Role)
	}
	if s.Token() != "jwt-abc" {
		t.Errorf("Token() = %q, ожидается jwt-abc", s.Token())
	}
}

func TestStore_LoginFailure(t *testing.T) {
	srv := newBackend(t, http.StatusUnauthorized, `{"error":"Identifiants invalides"}`)
	st, _ := storage.NewFileStore(t.TempDir())
	s := newStore(t, st, srv.URL)

	if s.Login(context.Background(), "jdupont", "AXA", "wrong") {
		t.Fatal("Login() вернул true при отказе backend")
	}
	if s.IsAuthenticated() {
		t.Error("После неудачного входа сессия не должна быть аутентифицирована")
	}
	if s.Token() != "" {
		t.Errorf("Token() = %q, токена быть не должно", s.Token())
	}
}

func TestStore_NonAdminRoleNormalized(t *testing.T) {
	srv := newBackend(t, http.StatusOK,
		`{"token":"jwt-abc","user":{"id":3,"username":"mmartin","role":"USER"}}`)
	st, _ := storage.NewFileStore(t.TempDir())
	s := newStore(t, st, srv.URL)

	if !s.Login(context.Background(), "mmartin", "MAIF", "secret") {
		t.Fatal("Login() вернул false")
	}
	if s.User().Role != RolePointFocal {
		t.Errorf("Role = %q, любая роль кроме ADMIN — point_focal", s.User().Role)
	}
}

// Вход, затем перезапуск: новая сессия восстанавливает того же
// пользователя и остаётся аутентифицированной.
func TestStore_SurvivesRestart(t *testing.T) {
	srv := newBackend(t, http.StatusOK, loginOK)
	st, _ := storage.NewFileStore(t.TempDir())

	s := newStore(t, st, srv.URL)
	if !s.Login(context.Background(), "jdupont", "AXA", "secret") {
		t.Fatal("Login() вернул false")
	}

	// «Перезапуск» — новая сессия поверх того же хранилища
	restored := newStore(t, st, srv.URL)
	if !restored.IsAuthenticated() {
		t.Fatal("Восстановленная сессия должна быть аутентифицирована")
	}
	if restored.User().Name != "jdupont" || restored.User().Role != RoleAdmin {
		t.Errorf("User() = %+v, ожидается исходный пользователь", restored.User())
	}
	if restored.Token() != "jwt-abc" {
		t.Errorf("Token() = %q, ожидается jwt-abc", restored.Token())
	}
}

// Выход, затем перезапуск: сессия разлогинена, токена в хранилище нет.
func TestStore_LogoutClearsStorage(t *testing.T) {
	srv := newBackend(t, http.StatusOK, loginOK)
	st, _ := storage.NewFileStore(t.TempDir())

	s := newStore(t, st, srv.URL)
	if !s.Login(context.Background(), "jdupont", "AXA", "secret") {
		t.Fatal("Login() вернул false")
	}
	s.Logout(context.Background())

	if s.IsAuthenticated() {
		t.Error("После выхода сессия не должна быть аутентифицирована")
	}
	if _, err := st.Get(context.Background(), "jdupont", storage.KeyToken); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Токен остался в хранилище после выхода: %v", err)
	}

	restored := newStore(t, st, srv.URL)
	if restored.IsAuthenticated() {
		t.Error("Восстановленная после выхода сессия должна быть разлогинена")
	}

	// Повторный выход — no-op
	s.Logout(context.Background())
}

func TestStore_CorruptedRecordPurged(t *testing.T) {
	srv := newBackend(t, http.StatusOK, loginOK)
	st, _ := storage.NewFileStore(t.TempDir())
	ctx := context.Background()

	// Повреждённая запись пользователя
	st.Put(ctx, "jdupont", storage.KeyUser, []byte("{не json"))
	st.Put(ctx, "jdupont", storage.KeyToken, []byte("jwt-abc"))

	s := newStore(t, st, srv.URL)
	if s.IsAuthenticated() {
		t.Error("Сессия с повреждённой записью должна стартовать разлогиненной")
	}
	if _, err := st.Get(ctx, "jdupont", storage.KeyUser); !errors.Is(err, storage.ErrNotFound) {
		t.Error("Повреждённая запись должна быть вычищена из хранилища")
	}
}

func TestStore_UserWithoutTokenNotAuthenticated(t *testing.T) {
	srv := newBackend(t, http.StatusOK, loginOK)
	st, _ := storage.NewFileStore(t.TempDir())
	ctx := context.Background()

	// Запись пользователя есть, токена нет — инвариант не выполняется
	st.Put(ctx, "jdupont", storage.KeyUser, []byte(`{"name":"jdupont","role":"admin"}`))

	s := newStore(t, st, srv.URL)
	if s.IsAuthenticated() {
		t.Error("Пользователь без токена не должен быть аутентифицирован")
	}
}

func TestStore_TokenExpiry(t *testing.T) {
	// JWT с exp = 4102444800 (2100-01-01), подпись не проверяется
	const token = "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9." +
		"eyJzdWIiOiJqZHVwb250IiwiZXhwIjo0MTAyNDQ0ODAwfQ." +
		"c2lnbmF0dXJl"

	srv := newBackend(t, http.StatusOK,
		`{"token":"`+token+`","user":{"username":"jdupont","role":"ADMIN"}}`)
	st, _ := storage.NewFileStore(t.TempDir())
	s := newStore(t, st, srv.URL)

	if !s.Login(context.Background(), "jdupont", "AXA", "secret") {
		t.Fatal("Login() вернул false")
	}

	exp, ok := s.TokenExpiry()
	if !ok {
		t.Fatal("TokenExpiry() не нашёл срок действия")
	}
	if exp.Year() != 2100 {
		t.Errorf("TokenExpiry() = %v, ожидается 2100 год", exp)
	}
}
