// Пакет mirror — оптимистичное локальное зеркало пользователя:
// заявки на доступ, уведомления, черновики дел, журнал аудита и
// избранные рапорты. Весь снимок сериализуется в один JSON-блоб
// под ключом assurance_app_state; каждая мутация сохраняется
// в хранилище до возврата управления.
package mirror

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/assuranceconnect/portal/internal/storage"
)

// AccessRequestStatus — статус локальной заявки на доступ.
type AccessRequestStatus string

const (
	AccessPending  AccessRequestStatus = "pending"
	AccessApproved AccessRequestStatus = "approved"
	AccessRejected AccessRequestStatus = "rejected"
)

// NotificationChannel — канал локального уведомления.
type NotificationChannel string

const (
	ChannelEmail     NotificationChannel = "email"
	ChannelSMS       NotificationChannel = "sms"
	ChannelInApp     NotificationChannel = "inapp"
	ChannelDashboard NotificationChannel = "dashboard"
)

// CaseType — тип черновика дела.
type CaseType string

const (
	CaseInvestigation CaseType = "enquete"
	CaseFraudulent    CaseType = "frauduleux"
)

// Статусы черновика дела (отображаются как есть).
const (
	CaseStatusOpen   = "Enquête en cours"
	CaseStatusClosed = "Enquête terminée"
)

// AuditEventType — тип события журнала аудита.
type AuditEventType string

const (
	AuditAccessRequestCreated  AuditEventType = "ACCESS_REQUEST_CREATED"
	AuditAccessRequestApproved AuditEventType = "ACCESS_REQUEST_APPROVED"
	AuditAccessRequestRejected AuditEventType = "ACCESS_REQUEST_REJECTED"
	AuditReportDownloaded      AuditEventType = "REPORT_DOWNLOADED"
	AuditCaseCreated           AuditEventType = "CASE_CREATED"
)

// AccessRequest — локальная заявка на доступ к рапорту.
type AccessRequest struct {
	ID               string              `json:"id"`
	ReportID         int64               `json:"reportId,omitempty"`
	ReportTitle      string              `json:"reportTitle"`
	RequesterID      string              `json:"requesterId"`
	RequesterName    string              `json:"requesterName"`
	RequesterEmail   string              `json:"requesterEmail"`
	RequesterCompany string              `json:"requesterCompany"`
	RequesterPhone   string              `json:"requesterPhone,omitempty"`
	Reason           string              `json:"reason,omitempty"`
	Status           AccessRequestStatus `json:"status"`
	TemporaryCode    string              `json:"temporaryCode,omitempty"`
	ExpiresAt        time.Time           `json:"expiresAt,omitzero"`
	RejectionReason  string              `json:"rejectionReason,omitempty"`
	ProcessedBy      string              `json:"processedBy,omitempty"`
	ProcessedAt      time.Time           `json:"processedAt,omitzero"`
	RequestedAt      time.Time           `json:"requestedAt"`
}

// Notification — локальное уведомление зеркала.
type Notification struct {
	ID        string              `json:"id"`
	Channel   NotificationChannel `json:"type"`
	Title     string              `json:"title"`
	Message   string              `json:"message"`
	CreatedAt time.Time           `json:"createdAt"`
	Read      bool                `json:"read"`
}

// Case — черновик дела, ещё не отправленный на backend.
type Case struct {
	ID        string         `json:"id"`
	Code      string         `json:"code,omitempty"`
	Type      CaseType       `json:"type"`
	Status    string         `json:"status"`
	Data      map[string]any `json:"data"`
	CreatedAt time.Time      `json:"createdAt"`
}

// AuditEvent — событие журнала аудита.
type AuditEvent struct {
	ID      string         `json:"id"`
	Type    AuditEventType `json:"type"`
	Message string         `json:"message"`
	Actor   string         `json:"actor"`
	At      time.Time      `json:"atISO"`
}

// state — сериализуемый снимок зеркала. Все списки — LIFO, новое в начале.
type state struct {
	AccessRequests []AccessRequest `json:"accessRequests"`
	Notifications  []Notification  `json:"notifications"`
	Cases          []Case          `json:"cases"`
	AuditEvents    []AuditEvent    `json:"auditEvents"`
	Favorites      []string        `json:"favorites"`
}

// Store — зеркало одного пользователя.
type Store struct {
	mu      sync.Mutex
	storage storage.Store
	logger  *slog.Logger
	profile string
	state   state
}

// NewStore создаёт зеркало профиля и восстанавливает снимок из хранилища.
// Повреждённый блоб отбрасывается, зеркало стартует пустым.
func NewStore(ctx context.Context, st storage.Store, profile string, logger *slog.Logger) *Store {
	s := &Store{
		storage: st,
		logger:  logger.With(slog.String("component", "mirror"), slog.String("profile", profile)),
		profile: profile,
	}

	data, err := st.Get(ctx, profile, storage.KeyAppState)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Не удалось прочитать снимок зеркала", slog.String("error", err.Error()))
		}
		return s
	}
	if err := json.Unmarshal(data, &s.state); err != nil {
		s.logger.Warn("Повреждённый снимок зеркала отброшен", slog.String("error", err.Error()))
		s.state = state{}
	}
	return s
}

// persist сохраняет снимок. Вызывается под мьютексом, до возврата
// из мутирующей операции.
func (s *Store) persist(ctx context.Context) error {
	data, err := json.Marshal(s.state)
	if err != nil {
		return fmt.Errorf("сериализация снимка зеркала: %w", err)
	}
	if err := s.storage.Put(ctx, s.profile, storage.KeyAppState, data); err != nil {
		return fmt.Errorf("сохранение снимка зеркала: %w", err)
	}
	return nil
}

func newID() string {
	return uuid.NewString()
}

// CreateAccessRequestParams — параметры новой заявки на доступ.
type CreateAccessRequestParams struct {
	ReportID         int64
	ReportTitle      string
	RequesterID      string
	RequesterName    string
	RequesterEmail   string
	RequesterCompany string
	RequesterPhone   string
	Reason           string
}

// CreateAccessRequest создаёт заявку со статусом pending, уведомление
// на дашборде и запись аудита.
func (s *Store) CreateAccessRequest(ctx context.Context, p CreateAccessRequestParams) (*AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	req := AccessRequest{
		ID:               newID(),
		ReportID:         p.ReportID,
		ReportTitle:      p.ReportTitle,
		RequesterID:      p.RequesterID,
		RequesterName:    p.RequesterName,
		RequesterEmail:   p.RequesterEmail,
		RequesterCompany: p.RequesterCompany,
		RequesterPhone:   p.RequesterPhone,
		Reason:           p.Reason,
		Status:           AccessPending,
		RequestedAt:      now,
	}

	s.state.AccessRequests = append([]AccessRequest{req}, s.state.AccessRequests...)
	s.prependNotification(Notification{
		ID:        newID(),
		Channel:   ChannelDashboard,
		Title:     "Nouvelle demande d'accès",
		Message:   fmt.Sprintf("Demande créée pour %q", p.ReportTitle),
		CreatedAt: now,
	})
	s.prependAudit(AuditEvent{
		ID:      newID(),
		Type:    AuditAccessRequestCreated,
		Message: fmt.Sprintf("Demande d'accès pour %q", p.ReportTitle),
		Actor:   p.RequesterName,
		At:      now,
	})

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return &req, nil
}

// ApproveAccessRequest одобряет заявку: проставляет код доступа и срок
// действия 24 часа, добавляет inapp-уведомление и запись аудита.
// fileID > 0 даёт детерминированный код CODE######, иначе код случайный.
// Неизвестный id — no-op, возвращается nil.
func (s *Store) ApproveAccessRequest(ctx context.Context, id, approverName string, fileID int64) (*AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findAccessRequest(id)
	if idx < 0 {
		return nil, nil
	}

	now := time.Now()
	req := &s.state.AccessRequests[idx]
	req.Status = AccessApproved
	if fileID > 0 {
		req.TemporaryCode = FileAccessCode(fileID)
	} else {
		req.TemporaryCode = RandomAccessCode()
	}
	req.ExpiresAt = now.Add(24 * time.Hour)
	req.ProcessedBy = approverName
	req.ProcessedAt = now

	s.prependNotification(Notification{
		ID:      newID(),
		Channel: ChannelInApp,
		Title:   "Demande d'accès approuvée",
		Message: fmt.Sprintf("Votre demande pour %q a été approuvée. Les codes d'accès sont disponibles dans l'interface de téléchargement.",
			req.ReportTitle),
		CreatedAt: now,
	})
	s.prependAudit(AuditEvent{
		ID:      newID(),
		Type:    AuditAccessRequestApproved,
		Message: fmt.Sprintf("Demande approuvée pour %q", req.ReportTitle),
		Actor:   approverName,
		At:      now,
	})

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	approved := *req
	return &approved, nil
}

// RejectAccessRequest отклоняет заявку с причиной и пишет аудит.
// Неизвестный id — no-op.
func (s *Store) RejectAccessRequest(ctx context.Context, id, approverName, reason string) (*AccessRequest, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := s.findAccessRequest(id)
	if idx < 0 {
		return nil, nil
	}

	now := time.Now()
	req := &s.state.AccessRequests[idx]
	req.Status = AccessRejected
	req.RejectionReason = reason
	req.ProcessedBy = approverName
	req.ProcessedAt = now

	s.prependAudit(AuditEvent{
		ID:      newID(),
		Type:    AuditAccessRequestRejected,
		Message: fmt.Sprintf("Demande rejetée pour %q", req.ReportTitle),
		Actor:   approverName,
		At:      now,
	})

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	rejected := *req
	return &rejected, nil
}

// MarkNotificationRead отмечает локальное уведомление прочитанным.
// Неизвестный id — no-op.
func (s *Store) MarkNotificationRead(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.state.Notifications {
		if s.state.Notifications[i].ID == id {
			if s.state.Notifications[i].Read {
				return nil
			}
			s.state.Notifications[i].Read = true
			return s.persist(ctx)
		}
	}
	return nil
}

// CreateCase создаёт черновик дела с референсом из имени инициатора
// (поле initiator либо initiateur формы, по умолчанию "IN") и пишет аудит.
func (s *Store) CreateCase(ctx context.Context, caseType CaseType, status string, data map[string]any, actorName string) (*Case, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	initiator := "IN"
	if v, ok := data["initiator"].(string); ok && v != "" {
		initiator = v
	} else if v, ok := data["initiateur"].(string); ok && v != "" {
		initiator = v
	}

	now := time.Now()
	c := Case{
		ID:        newID(),
		Code:      CaseReference(initiator),
		Type:      caseType,
		Status:    status,
		Data:      data,
		CreatedAt: now,
	}

	s.state.Cases = append([]Case{c}, s.state.Cases...)
	s.prependAudit(AuditEvent{
		ID:      newID(),
		Type:    AuditCaseCreated,
		Message: fmt.Sprintf("Création dossier (%s)", caseType),
		Actor:   actorName,
		At:      now,
	})

	if err := s.persist(ctx); err != nil {
		return nil, err
	}
	return &c, nil
}

// ToggleFavorite добавляет или убирает рапорт из избранного.
// Ключом служит точный заголовок рапорта.
func (s *Store) ToggleFavorite(ctx context.Context, reportTitle string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, title := range s.state.Favorites {
		if title == reportTitle {
			s.state.Favorites = append(s.state.Favorites[:i], s.state.Favorites[i+1:]...)
			return s.persist(ctx)
		}
	}
	s.state.Favorites = append([]string{reportTitle}, s.state.Favorites...)
	return s.persist(ctx)
}

// IsFavorite сообщает, в избранном ли рапорт.
func (s *Store) IsFavorite(reportTitle string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, title := range s.state.Favorites {
		if title == reportTitle {
			return true
		}
	}
	return false
}

// GetApprovedAccessFor возвращает самую свежую одобренную заявку
// пользователя на рапорт (по времени подачи), либо nil.
func (s *Store) GetApprovedAccessFor(reportTitle, requesterName string) *AccessRequest {
	s.mu.Lock()
	defer s.mu.Unlock()

	var latest *AccessRequest
	for i := range s.state.AccessRequests {
		r := &s.state.AccessRequests[i]
		if r.ReportTitle != reportTitle || r.RequesterName != requesterName || r.Status != AccessApproved {
			continue
		}
		if latest == nil || r.RequestedAt.After(latest.RequestedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil
	}
	found := *latest
	return &found
}

// RecordDownload фиксирует скачивание рапорта: уведомление на дашборде
// и запись аудита.
func (s *Store) RecordDownload(ctx context.Context, reportTitle, requesterName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	s.prependNotification(Notification{
		ID:        newID(),
		Channel:   ChannelDashboard,
		Title:     "Téléchargement effectué",
		Message:   fmt.Sprintf("%s a téléchargé %q", requesterName, reportTitle),
		CreatedAt: now,
	})
	s.prependAudit(AuditEvent{
		ID:      newID(),
		Type:    AuditReportDownloaded,
		Message: fmt.Sprintf("Téléchargement de %q", reportTitle),
		Actor:   requesterName,
		At:      now,
	})
	return s.persist(ctx)
}

// ===== Снимки для отображения (копии, новое в начале) =====

// AccessRequests возвращает копию списка заявок.
func (s *Store) AccessRequests() []AccessRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AccessRequest, len(s.state.AccessRequests))
	copy(out, s.state.AccessRequests)
	return out
}

// Notifications возвращает копию списка локальных уведомлений.
func (s *Store) Notifications() []Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Notification, len(s.state.Notifications))
	copy(out, s.state.Notifications)
	return out
}

// Cases возвращает копию списка черновиков дел.
func (s *Store) Cases() []Case {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Case, len(s.state.Cases))
	copy(out, s.state.Cases)
	return out
}

// AuditEvents возвращает копию журнала аудита.
func (s *Store) AuditEvents() []AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]AuditEvent, len(s.state.AuditEvents))
	copy(out, s.state.AuditEvents)
	return out
}

// Favorites возвращает копию списка избранных рапортов.
func (s *Store) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.state.Favorites))
	copy(out, s.state.Favorites)
	return out
}

func (s *Store) findAccessRequest(id string) int {
	for i := range s.state.AccessRequests {
		if s.state.AccessRequests[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *Store) prependNotification(n Notification) {
	s.state.Notifications = append([]Notification{n}, s.state.Notifications...)
}

func (s *Store) prependAudit(e AuditEvent) {
	s.state.AuditEvents = append([]AuditEvent{e}, s.state.AuditEvents...)
}
