package mirror

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/assuranceconnect/portal/internal/apiclient"
)

// MigrateDrafts однократно отправляет локальные черновики дел на backend
// и очищает локальный список: зеркало не должно оставаться вторым
// источником истины по делам. Возвращает число перенесённых черновиков.
// При частичном сбое неперенесённые черновики остаются в зеркале.
func (s *Store) MigrateDrafts(ctx context.Context, api *apiclient.Client, actorName string) (int, error) {
	s.mu.Lock()
	drafts := make([]Case, len(s.state.Cases))
	copy(drafts, s.state.Cases)
	s.mu.Unlock()

	if len(drafts) == 0 {
		return 0, nil
	}

	// Черновики хранятся LIFO, переносим от старых к новым — с хвоста
	migrated := 0
	for i := len(drafts) - 1; i >= 0; i-- {
		draft := drafts[i]
		caseType, status := backendCaseEnums(draft)
		if _, err := api.CreateCase(ctx, caseType, status, draft.Data, actorName, 0); err != nil {
			s.dropMigrated(ctx, migrated)
			return migrated, fmt.Errorf("перенос черновика %s: %w", draft.ID, err)
		}
		migrated++
		s.logger.Info("Черновик дела перенесён на backend",
			slog.String("draft_id", draft.ID),
			slog.String("code", draft.Code),
		)
	}

	s.dropMigrated(ctx, migrated)
	return migrated, nil
}

// dropMigrated убирает n перенесённых черновиков с хвоста списка
// (черновики хранятся LIFO, переносятся от старых к новым — с хвоста).
func (s *Store) dropMigrated(ctx context.Context, n int) {
	if n == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if n >= len(s.state.Cases) {
		s.state.Cases = nil
	} else {
		s.state.Cases = s.state.Cases[:len(s.state.Cases)-n]
	}
	if err := s.persist(ctx); err != nil {
		s.logger.Warn("Не удалось сохранить зеркало после переноса черновиков",
			slog.String("error", err.Error()))
	}
}

// backendCaseEnums отображает локальные тип и статус черновика
// в перечисления backend.
func backendCaseEnums(draft Case) (caseType, status string) {
	switch draft.Type {
	case CaseFraudulent:
		caseType = apiclient.CaseTypeFraudulent
	default:
		caseType = apiclient.CaseTypeInvestigation
	}

	switch {
	case draft.Status == CaseStatusClosed && draft.Type == CaseFraudulent:
		status = apiclient.CaseStatusFraudulent
	case draft.Status == CaseStatusClosed:
		status = apiclient.CaseStatusInsufficientEvidence
	default:
		status = apiclient.CaseStatusUnderInvestigation
	}
	return caseType, status
}
