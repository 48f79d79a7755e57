package mirror

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/assuranceconnect/portal/internal/storage"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestStore(t *testing.T) (*Store, storage.Store) {
	t.Helper()
	st, err := storage.NewFileStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileStore() вернул ошибку: %v", err)
	}
	return NewStore(context.Background(), st, "jdupont", testLogger()), st
}

func sampleRequest() CreateAccessRequestParams {
	return CreateAccessRequestParams{
		ReportID:         42,
		ReportTitle:      "Rapport fraude AXA 2026",
		RequesterID:      "7",
		RequesterName:    "jdupont",
		RequesterEmail:   "j@axa.fr",
		RequesterCompany: "AXA",
		Reason:           "enquête interne",
	}
}

// Полный жизненный цикл заявки: создание → одобрение с кодом
// и сроком 24 часа → поиск одобренного доступа.
func TestStore_AccessRequestLifecycle(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	req, err := s.CreateAccessRequest(ctx, sampleRequest())
	if err != nil {
		t.Fatalf("CreateAccessRequest() вернул ошибку: %v", err)
	}
	if req.Status != AccessPending {
		t.Errorf("Status = %q, новая заявка должна быть pending", req.Status)
	}
	if req.TemporaryCode != "" {
		t.Error("До одобрения кода быть не должно")
	}

	// Создание даёт уведомление на дашборде и запись аудита
	if n := s.Notifications(); len(n) != 1 || n[0].Channel != ChannelDashboard {
		t.Errorf("Notifications = %+v, ожидается одно dashboard-уведомление", n)
	}
	if e := s.AuditEvents(); len(e) != 1 || e[0].Type != AuditAccessRequestCreated {
		t.Errorf("AuditEvents = %+v, ожидается ACCESS_REQUEST_CREATED", e)
	}

	approved, err := s.ApproveAccessRequest(ctx, req.ID, "admin", 0)
	if err != nil {
		t.Fatalf("ApproveAccessRequest() вернул ошибку: %v", err)
	}
	if approved == nil || approved.Status != AccessApproved {
		t.Fatalf("ApproveAccessRequest() = %+v, ожидается approved", approved)
	}
	if !ValidAccessCode(approved.TemporaryCode) {
		t.Errorf("TemporaryCode = %q не проходит проверку формата", approved.TemporaryCode)
	}
	wantExpiry := time.Now().Add(24 * time.Hour)
	if d := approved.ExpiresAt.Sub(wantExpiry); d < -time.Minute || d > time.Minute {
		t.Errorf("ExpiresAt = %v, ожидается примерно +24ч", approved.ExpiresAt)
	}

	// Одобрение добавляет inapp-уведомление
	if n := s.Notifications(); len(n) != 2 || n[0].Channel != ChannelInApp {
		t.Errorf("Notifications = %+v, новое inapp-уведомление должно быть первым", n)
	}

	found := s.GetApprovedAccessFor("Rapport fraude AXA 2026", "jdupont")
	if found == nil || found.ID != req.ID {
		t.Fatalf("GetApprovedAccessFor() = %+v, ожидается одобренная заявка", found)
	}
}

func TestStore_ApproveWithFileID(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	req, _ := s.CreateAccessRequest(ctx, sampleRequest())
	approved, err := s.ApproveAccessRequest(ctx, req.ID, "admin", 123)
	if err != nil {
		t.Fatalf("ApproveAccessRequest() вернул ошибку: %v", err)
	}
	if approved.TemporaryCode != "CODE000123" {
		t.Errorf("TemporaryCode = %q, ожидается CODE000123", approved.TemporaryCode)
	}
}

func TestStore_UnknownIDNoOp(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.CreateAccessRequest(ctx, sampleRequest())

	approved, err := s.ApproveAccessRequest(ctx, "несуществующий", "admin", 0)
	if err != nil {
		t.Fatalf("ApproveAccessRequest() вернул ошибку: %v", err)
	}
	if approved != nil {
		t.Errorf("ApproveAccessRequest() = %+v, неизвестный id — no-op", approved)
	}
	if reqs := s.AccessRequests(); reqs[0].Status != AccessPending {
		t.Error("Неизвестный id не должен менять существующие заявки")
	}

	rejected, err := s.RejectAccessRequest(ctx, "несуществующий", "admin", "причина")
	if err != nil || rejected != nil {
		t.Errorf("RejectAccessRequest() = (%+v, %v), неизвестный id — no-op", rejected, err)
	}

	if err := s.MarkNotificationRead(ctx, "несуществующий"); err != nil {
		t.Errorf("MarkNotificationRead() вернул ошибку: %v", err)
	}
}

func TestStore_RejectKeepsReason(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	req, _ := s.CreateAccessRequest(ctx, sampleRequest())
	rejected, err := s.RejectAccessRequest(ctx, req.ID, "admin", "dossier incomplet")
	if err != nil {
		t.Fatalf("RejectAccessRequest() вернул ошибку: %v", err)
	}
	if rejected.Status != AccessRejected || rejected.RejectionReason != "dossier incomplet" {
		t.Errorf("RejectAccessRequest() = %+v, ожидается rejected с причиной", rejected)
	}
	if s.GetApprovedAccessFor("Rapport fraude AXA 2026", "jdupont") != nil {
		t.Error("Отклонённая заявка не должна находиться как одобренная")
	}
}

// Повторное переключение избранного возвращает исходное состояние.
func TestStore_ToggleFavoriteIdempotent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	const title = "Rapport fraude AXA 2026"

	if s.IsFavorite(title) {
		t.Fatal("Новый рапорт не должен быть в избранном")
	}
	s.ToggleFavorite(ctx, title)
	if !s.IsFavorite(title) {
		t.Error("После первого переключения рапорт должен быть в избранном")
	}
	s.ToggleFavorite(ctx, title)
	if s.IsFavorite(title) {
		t.Error("После второго переключения рапорт не должен быть в избранном")
	}
	if len(s.Favorites()) != 0 {
		t.Errorf("Favorites = %v, список должен быть пуст", s.Favorites())
	}
}

func TestStore_GetApprovedAccessMostRecent(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first, _ := s.CreateAccessRequest(ctx, sampleRequest())
	s.ApproveAccessRequest(ctx, first.ID, "admin", 0)

	second, _ := s.CreateAccessRequest(ctx, sampleRequest())
	s.ApproveAccessRequest(ctx, second.ID, "admin", 0)

	found := s.GetApprovedAccessFor("Rapport fraude AXA 2026", "jdupont")
	if found == nil || found.ID != second.ID {
		t.Errorf("GetApprovedAccessFor() вернул %+v, ожидается самая свежая заявка", found)
	}
}

// Каждая мутация сохраняется до возврата: новое зеркало поверх того же
// хранилища видит все данные.
func TestStore_SurvivesRestart(t *testing.T) {
	s, st := newTestStore(t)
	ctx := context.Background()

	req, _ := s.CreateAccessRequest(ctx, sampleRequest())
	s.ApproveAccessRequest(ctx, req.ID, "admin", 0)
	s.ToggleFavorite(ctx, "Rapport fraude AXA 2026")
	s.CreateCase(ctx, CaseInvestigation, CaseStatusOpen,
		map[string]any{"initiator": "Jean Dupont"}, "jdupont")
	s.RecordDownload(ctx, "Rapport fraude AXA 2026", "jdupont")

	restored := NewStore(ctx, st, "jdupont", testLogger())

	if got := restored.AccessRequests(); len(got) != 1 || got[0].Status != AccessApproved {
		t.Errorf("AccessRequests = %+v, ожидается одобренная заявка", got)
	}
	if !restored.IsFavorite("Rapport fraude AXA 2026") {
		t.Error("Избранное потеряно после перезапуска")
	}
	if got := restored.Cases(); len(got) != 1 {
		t.Errorf("Cases = %+v, ожидается один черновик", got)
	}
	if got := restored.AuditEvents(); len(got) != 4 {
		t.Errorf("AuditEvents: %d записей, ожидается 4", len(got))
	}
}

func TestStore_CorruptedSnapshotDiscarded(t *testing.T) {
	st, _ := storage.NewFileStore(t.TempDir())
	ctx := context.Background()
	st.Put(ctx, "jdupont", storage.KeyAppState, []byte("{не json"))

	s := NewStore(ctx, st, "jdupont", testLogger())
	if len(s.AccessRequests()) != 0 || len(s.Notifications()) != 0 {
		t.Error("Повреждённый снимок должен быть отброшен, зеркало — пустым")
	}
}

func TestStore_CaseReferenceFromInitiator(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	c, err := s.CreateCase(ctx, CaseFraudulent, CaseStatusOpen,
		map[string]any{"initiateur": "Jean Dupont"}, "jdupont")
	if err != nil {
		t.Fatalf("CreateCase() вернул ошибку: %v", err)
	}
	if !strings.HasPrefix(c.Code, "JE-") {
		t.Errorf("Code = %q, ожидается префикс JE- из имени инициатора", c.Code)
	}
	if len(c.Code) != 9 {
		t.Errorf("Code = %q, ожидается формат XX-######", c.Code)
	}
}

func TestStore_MarkNotificationRead(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	s.CreateAccessRequest(ctx, sampleRequest())
	id := s.Notifications()[0].ID

	if err := s.MarkNotificationRead(ctx, id); err != nil {
		t.Fatalf("MarkNotificationRead() вернул ошибку: %v", err)
	}
	if !s.Notifications()[0].Read {
		t.Error("Уведомление не отмечено прочитанным")
	}
}
