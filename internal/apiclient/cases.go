package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
)

// CreateCaseBody — тело создания дела. Произвольные поля формы
// сериализуются в DataJSON.
type CreateCaseBody struct {
	Type     string `json:"type"`
	Status   string `json:"status"`
	DataJSON string `json:"dataJson"`
}

// Cases возвращает все дела.
func (c *Client) Cases(ctx context.Context) ([]Case, error) {
	var out []Case
	if err := c.get(ctx, "/api/cases", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MyCases возвращает дела, созданные actorName.
func (c *Client) MyCases(ctx context.Context, actorName string) ([]Case, error) {
	query := url.Values{"actorName": {actorName}}
	var out []Case
	if err := c.get(ctx, "/api/cases/my-cases", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CaseByReference находит дело по референсу. Отсутствие — (nil, nil),
// остальные ошибки backend возвращаются как есть.
func (c *Client) CaseByReference(ctx context.Context, reference string) (*Case, error) {
	var out Case
	err := c.get(ctx, "/api/cases/reference/"+url.PathEscape(reference), nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// CreateCase создаёт дело от имени actorName; data — поля формы,
// reportID (> 0) связывает дело с рапортом.
func (c *Client) CreateCase(ctx context.Context, caseType, status string, data map[string]any, actorName string, reportID int64) (*Case, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("сериализация полей дела: %w", err)
	}

	query := url.Values{"actorName": {actorName}}
	if reportID > 0 {
		query.Set("reportId", strconv.FormatInt(reportID, 10))
	}

	body := CreateCaseBody{Type: caseType, Status: status, DataJSON: string(dataJSON)}
	var out Case
	if err := c.post(ctx, "/api/cases", query, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCase обновляет поля формы дела.
func (c *Client) UpdateCase(ctx context.Context, caseID int64, data map[string]any, actorName string) (*Case, error) {
	dataJSON, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("сериализация полей дела: %w", err)
	}

	query := url.Values{"actorName": {actorName}}
	body := map[string]string{"dataJson": string(dataJSON)}
	var out Case
	if err := c.put(ctx, fmt.Sprintf("/api/cases/%d", caseID), query, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateCaseStatus меняет статус дела.
func (c *Client) UpdateCaseStatus(ctx context.Context, caseID int64, status, actorName string) (*Case, error) {
	query := url.Values{"actorName": {actorName}}
	body := map[string]string{"status": status}
	var out Case
	if err := c.put(ctx, fmt.Sprintf("/api/cases/%d", caseID), query, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteCase удаляет дело.
func (c *Client) DeleteCase(ctx context.Context, caseID int64, actorName string) error {
	query := url.Values{"actorName": {actorName}}
	return c.delete(ctx, fmt.Sprintf("/api/cases/%d", caseID), query, nil)
}

// CasePermissions возвращает права пользователя на дело.
func (c *Client) CasePermissions(ctx context.Context, caseID int64, actorName string) (*Permissions, error) {
	query := url.Values{"actorName": {actorName}}
	var out Permissions
	if err := c.get(ctx, fmt.Sprintf("/api/cases/%d/permissions", caseID), query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CaseStats возвращает детальную статистику дел.
func (c *Client) CaseStats(ctx context.Context) (*CaseStats, error) {
	var out CaseStats
	if err := c.get(ctx, "/api/case-stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CasesByStatus возвращает количество дел по статусам.
func (c *Client) CasesByStatus(ctx context.Context) (map[string]int, error) {
	var out map[string]int
	if err := c.get(ctx, "/api/cases/stats/by-status", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CasesByCompany возвращает количество дел по компаниям.
func (c *Client) CasesByCompany(ctx context.Context) (map[string]int, error) {
	var out map[string]int
	if err := c.get(ctx, "/api/cases/stats/by-company", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
