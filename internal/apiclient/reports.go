package apiclient

import (
	"context"
	"fmt"
	"net/url"
)

// Reports возвращает все рапорты.
func (c *Client) Reports(ctx context.Context) ([]Report, error) {
	var out []Report
	if err := c.get(ctx, "/api/reports", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateReport создаёт рапорт от имени createdBy.
// hasFile указывает backend, что файл будет загружен отдельным запросом.
func (c *Client) CreateReport(ctx context.Context, body CreateReportBody, createdBy string, hasFile bool) (*Report, error) {
	query := url.Values{"createdBy": {createdBy}}
	if hasFile {
		query.Set("hasFile", "true")
	}
	var out Report
	if err := c.post(ctx, "/api/reports", query, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateReport обновляет рапорт.
func (c *Client) UpdateReport(ctx context.Context, id int64, body CreateReportBody) (*Report, error) {
	var out Report
	if err := c.put(ctx, fmt.Sprintf("/api/reports/%d", id), nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteReport удаляет рапорт.
func (c *Client) DeleteReport(ctx context.Context, id int64) error {
	return c.delete(ctx, fmt.Sprintf("/api/reports/%d", id), nil, nil)
}

// ReportPermissions возвращает права пользователя на рапорт.
// Backend ожидает имя в параметре userName.
func (c *Client) ReportPermissions(ctx context.Context, reportID int64, actorName string) (*Permissions, error) {
	query := url.Values{"userName": {actorName}}
	var out Permissions
	if err := c.get(ctx, fmt.Sprintf("/api/reports/%d/permissions", reportID), query, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReportStats возвращает детальную статистику рапортов.
func (c *Client) ReportStats(ctx context.Context) (*ReportStats, error) {
	var out ReportStats
	if err := c.get(ctx, "/api/report-stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ReportsByCompany возвращает количество рапортов по компаниям.
func (c *Client) ReportsByCompany(ctx context.Context) (map[string]int, error) {
	var out map[string]int
	if err := c.get(ctx, "/api/reports/stats/by-company", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
