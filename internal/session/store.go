// Пакет session — сессия аутентификации пользователя портала.
// Хранит пользователя и bearer-токен backend, переживает перезапуск
// через долговременное хранилище (ключи assurance_user / assurance_token).
package session

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/assuranceconnect/portal/internal/apiclient"
	"github.com/assuranceconnect/portal/internal/storage"
)

// Store — сессия одного пользователя. Реализует apiclient.TokenSource.
// Инвариант: IsAuthenticated() == (пользователь есть И токен непустой).
type Store struct {
	mu      sync.RWMutex
	storage storage.Store
	api     *apiclient.Client
	logger  *slog.Logger
	profile string

	user  *User
	token string
}

// NewStore создаёт сессию профиля и восстанавливает её из хранилища.
// Повреждённая запись пользователя вычищается, сессия стартует разлогиненной.
// API-клиент подключается отдельно через SetClient: клиент сам использует
// Store как источник токена.
func NewStore(ctx context.Context, st storage.Store, profile string, logger *slog.Logger) *Store {
	s := &Store{
		storage: st,
		logger:  logger.With(slog.String("component", "session"), slog.String("profile", profile)),
		profile: profile,
	}
	s.rehydrate(ctx)
	return s
}

// SetClient подключает API-клиент для операции Login.
func (s *Store) SetClient(api *apiclient.Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.api = api
}

// rehydrate восстанавливает сессию из хранилища.
func (s *Store) rehydrate(ctx context.Context) {
	userData, err := s.storage.Get(ctx, s.profile, storage.KeyUser)
	if err != nil {
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Не удалось прочитать сессию из хранилища", slog.String("error", err.Error()))
		}
		return
	}

	var user User
	if err := json.Unmarshal(userData, &user); err != nil {
		// Повреждённую запись вычищаем, стартуем разлогиненными
		s.logger.Warn("Повреждённая запись сессии, запись удалена", slog.String("error", err.Error()))
		s.purge(ctx)
		return
	}

	tokenData, err := s.storage.Get(ctx, s.profile, storage.KeyToken)
	if err != nil {
		// Пользователь без токена не проходит инвариант аутентификации
		if !errors.Is(err, storage.ErrNotFound) {
			s.logger.Warn("Не удалось прочитать токен из хранилища", slog.String("error", err.Error()))
		}
		s.purge(ctx)
		return
	}

	s.user = &user
	s.token = string(tokenData)
	s.logger.Info("Сессия восстановлена из хранилища", slog.String("role", string(user.Role)))
}

// purge удаляет обе записи сессии из хранилища (best effort).
func (s *Store) purge(ctx context.Context) {
	if err := s.storage.Delete(ctx, s.profile, storage.KeyUser); err != nil {
		s.logger.Warn("Не удалось удалить запись пользователя", slog.String("error", err.Error()))
	}
	if err := s.storage.Delete(ctx, s.profile, storage.KeyToken); err != nil {
		s.logger.Warn("Не удалось удалить запись токена", slog.String("error", err.Error()))
	}
}

// Login аутентифицирует пользователя на backend.
// Любая ошибка HTTP или сети — false, без паник: форма логина просто
// показывает сообщение о неудаче. Название компании обрезается по краям.
func (s *Store) Login(ctx context.Context, username, insuranceCompany, password string) bool {
	s.mu.RLock()
	api := s.api
	s.mu.RUnlock()
	if api == nil {
		s.logger.Error("Login вызван до подключения API-клиента")
		return false
	}

	resp, err := api.Login(ctx, username, strings.TrimSpace(insuranceCompany), password)
	if err != nil {
		s.logger.Info("Неудачная попытка входа", slog.String("error", err.Error()))
		return false
	}
	if resp.Token == "" || resp.User == nil {
		s.logger.Warn("Backend вернул неполный ответ на логин")
		return false
	}

	user := normalizeUser(resp.User)

	s.mu.Lock()
	s.user = user
	s.token = resp.Token
	s.mu.Unlock()

	// Сохраняем сессию; сбой хранилища не отменяет вход,
	// сессия просто не переживёт перезапуск
	if data, err := json.Marshal(user); err == nil {
		if err := s.storage.Put(ctx, s.profile, storage.KeyUser, data); err != nil {
			s.logger.Warn("Не удалось сохранить пользователя", slog.String("error", err.Error()))
		}
	}
	if err := s.storage.Put(ctx, s.profile, storage.KeyToken, []byte(resp.Token)); err != nil {
		s.logger.Warn("Не удалось сохранить токен", slog.String("error", err.Error()))
	}

	s.logger.Info("Пользователь вошёл", slog.String("role", string(user.Role)))
	return true
}

// normalizeUser приводит запись backend к пользователю портала.
func normalizeUser(u *apiclient.AuthUser) *User {
	name := u.Username
	if name == "" {
		name = u.Name
	}
	return &User{
		ID:                     u.ID,
		Name:                   name,
		Role:                   NormalizeRole(u.Role),
		Email:                  u.Email,
		InsuranceCompany:       u.InsuranceCompany,
		FirstName:              u.FirstName,
		LastName:               u.LastName,
		SubscriptionStartDate:  u.SubscriptionStartDate,
		SubscriptionEndDate:    u.SubscriptionEndDate,
		SubscriptionActive:     u.SubscriptionActive,
		SubscriptionStatus:     u.SubscriptionStatus,
		DaysUntilExpiration:    u.DaysUntilExpiration,
		LastRenewalRequestDate: u.LastRenewalRequestDate,
	}
}

// Logout завершает сессию и удаляет обе записи из хранилища.
// Идемпотентен; сбои хранилища логируются и проглатываются.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	wasAuthenticated := s.user != nil
	s.user = nil
	s.token = ""
	s.mu.Unlock()

	s.purge(ctx)

	if wasAuthenticated {
		s.logger.Info("Пользователь вышел")
	}
}

// User возвращает пользователя сессии (nil — не аутентифицирован).
func (s *Store) User() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user
}

// IsAuthenticated сообщает, аутентифицирована ли сессия.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.token != ""
}

// Token возвращает bearer-токен backend (apiclient.TokenSource).
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// Profile возвращает профиль хранилища этой сессии.
func (s *Store) Profile() string {
	return s.profile
}

// TokenExpiry возвращает срок действия JWT, если он указан.
// Токен не верифицируется: подпись проверяет backend, портал лишь
// читает exp, чтобы не держать заведомо мёртвую сессию.
func (s *Store) TokenExpiry() (time.Time, bool) {
	s.mu.RLock()
	token := s.token
	s.mu.RUnlock()
	if token == "" {
		return time.Time{}, false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
