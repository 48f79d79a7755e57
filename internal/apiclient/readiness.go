// readiness.go — проверка доступности Assurance REST API для readiness probe.
package apiclient

import (
	"context"
	"errors"
	"time"
)

// Readiness проверяет backend лёгким запросом статистики пользователей.
type Readiness struct {
	client  *Client
	timeout time.Duration
}

// NewReadiness создаёт проверку доступности backend.
func NewReadiness(client *Client, timeout time.Duration) *Readiness {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &Readiness{client: client, timeout: timeout}
}

// CheckReady возвращает "ok", "degraded" (rate limit) или "fail".
func (rd *Readiness) CheckReady() (string, string) {
	ctx, cancel := context.WithTimeout(context.Background(), rd.timeout)
	defer cancel()

	if _, err := rd.client.UserStats(ctx); err != nil {
		if errors.Is(err, ErrRateLimited) {
			return "degraded", "backend ограничивает частоту запросов"
		}
		return "fail", err.Error()
	}
	return "ok", ""
}
