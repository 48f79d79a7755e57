// ratelimit.go — страница 429.
package handlers

import (
	"log/slog"
	"net/http"

	"github.com/assuranceconnect/portal/internal/ui/pages"
)

// RateLimitHandler — страница «Trop de requêtes».
type RateLimitHandler struct {
	logger *slog.Logger
}

// NewRateLimitHandler создаёт новый RateLimitHandler.
func NewRateLimitHandler(logger *slog.Logger) *RateLimitHandler {
	return &RateLimitHandler{
		logger: logger.With(slog.String("component", "ui.ratelimit")),
	}
}

// Handle429 — GET /portal/429.
func (h *RateLimitHandler) Handle429(w http.ResponseWriter, r *http.Request) {
	render(w, r, h.logger, pages.RateLimited())
}
