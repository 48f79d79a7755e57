package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestSessionEncryptDecryptRoundTrip проверяет шифрование и дешифрование SessionData.
func TestSessionEncryptDecryptRoundTrip(t *testing.T) {
	sm, err := NewSessionManager("", false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager: %v", err)
	}

	original := &SessionData{
		UserID:   42,
		Username: "jdupont",
		Role:     "point_focal",
		Company:  "AXA Assurances",
	}

	// Шифруем
	encrypted, err := sm.Encrypt(original)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	if encrypted == "" {
		t.Fatal("Зашифрованная строка пустая")
	}

	// Дешифруем
	decrypted, err := sm.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}

	// Сравниваем поля
	if decrypted.UserID != original.UserID {
		t.Errorf("UserID: want %d, got %d", original.UserID, decrypted.UserID)
	}
	if decrypted.Username != original.Username {
		t.Errorf("Username: want %q, got %q", original.Username, decrypted.Username)
	}
	if decrypted.Role != original.Role {
		t.Errorf("Role: want %q, got %q", original.Role, decrypted.Role)
	}
	if decrypted.Company != original.Company {
		t.Errorf("Company: want %q, got %q", original.Company, decrypted.Company)
	}
}

// TestSessionManagerWithStringKey проверяет инициализацию с произвольной строкой-ключом.
func TestSessionManagerWithStringKey(t *testing.T) {
	sm, err := NewSessionManager("my-secret-key-for-testing", false)
	if err != nil {
		t.Fatalf("Ошибка создания SessionManager с string-ключом: %v", err)
	}

	data := &SessionData{
		Username: "mmartin",
		Role:     "admin",
	}

	encrypted, err := sm.Encrypt(data)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	decrypted, err := sm.Decrypt(encrypted)
	if err != nil {
		t.Fatalf("Ошибка дешифрования: %v", err)
	}

	if decrypted.Username != data.Username {
		t.Errorf("Username: want %q, got %q", data.Username, decrypted.Username)
	}
}

// TestSessionDecryptWithWrongKey проверяет, что дешифрование чужим ключом не работает.
func TestSessionDecryptWithWrongKey(t *testing.T) {
	sm1, _ := NewSessionManager("key-one", false)
	sm2, _ := NewSessionManager("key-two", false)

	data := &SessionData{Username: "jdupont"}
	encrypted, err := sm1.Encrypt(data)
	if err != nil {
		t.Fatalf("Ошибка шифрования: %v", err)
	}

	// Попытка дешифрования другим ключом должна завершиться ошибкой
	_, err = sm2.Decrypt(encrypted)
	if err == nil {
		t.Error("Ожидалась ошибка при дешифровании чужим ключом")
	}
}

// TestSessionCookieSetAndGet проверяет установку и извлечение cookie.
func TestSessionCookieSetAndGet(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false)

	data := &SessionData{
		UserID:   7,
		Username: "jdupont",
		Role:     "point_focal",
		Company:  "AXA",
	}

	// Устанавливаем cookie
	w := httptest.NewRecorder()
	if err := sm.SetSessionCookie(w, data); err != nil {
		t.Fatalf("Ошибка установки cookie: %v", err)
	}

	// Извлекаем cookie из response и создаём request с ним
	resp := w.Result()
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie не установлен")
	}

	req := httptest.NewRequest(http.MethodGet, "/portal/", nil)
	req.AddCookie(cookies[0])

	// Читаем сессию из request
	got, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ошибка чтения сессии из cookie: %v", err)
	}
	if got == nil {
		t.Fatal("Сессия не найдена")
	}
	if got.Username != data.Username {
		t.Errorf("Username: want %q, got %q", data.Username, got.Username)
	}
	if got.UserID != data.UserID {
		t.Errorf("UserID: want %d, got %d", data.UserID, got.UserID)
	}

	// Проверяем атрибуты cookie
	cookie := cookies[0]
	if cookie.Name != SessionCookieName {
		t.Errorf("Cookie name: want %q, got %q", SessionCookieName, cookie.Name)
	}
	if cookie.Path != "/portal" {
		t.Errorf("Cookie path: want %q, got %q", "/portal", cookie.Path)
	}
	if !cookie.HttpOnly {
		t.Error("Cookie должен быть HttpOnly")
	}
	if cookie.SameSite != http.SameSiteLaxMode {
		t.Error("Cookie должен быть SameSite=Lax")
	}
}

// TestSessionCookieMissing проверяет, что отсутствие cookie возвращает nil, nil.
func TestSessionCookieMissing(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false)

	req := httptest.NewRequest(http.MethodGet, "/portal/", nil)
	data, err := sm.GetSessionFromRequest(req)
	if err != nil {
		t.Fatalf("Ожидалось nil error, получено: %v", err)
	}
	if data != nil {
		t.Error("Ожидалось nil data при отсутствии cookie")
	}
}

// TestClearSessionCookie проверяет очистку session cookie.
func TestClearSessionCookie(t *testing.T) {
	sm, _ := NewSessionManager("test-key", false)

	w := httptest.NewRecorder()
	sm.ClearSessionCookie(w)

	resp := w.Result()
	cookies := resp.Cookies()
	if len(cookies) == 0 {
		t.Fatal("Cookie очистки не установлен")
	}

	cookie := cookies[0]
	if cookie.MaxAge != -1 {
		t.Errorf("MaxAge: want -1, got %d", cookie.MaxAge)
	}
	if cookie.Value != "" {
		t.Error("Value должен быть пустым")
	}
}
