package apiclient

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// ===== Заявки на доступ к рапортам =====

// CreateAccessRequest создаёт заявку на доступ от имени requesterID.
func (c *Client) CreateAccessRequest(ctx context.Context, body CreateAccessRequestBody, requesterID string) (*AccessRequest, error) {
	query := url.Values{"requesterId": {requesterID}}
	var out AccessRequest
	if err := c.post(ctx, "/api/access-requests", query, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingAccessRequests возвращает все ожидающие заявки (админ).
func (c *Client) PendingAccessRequests(ctx context.Context) ([]AccessRequest, error) {
	var out []AccessRequest
	if err := c.get(ctx, "/api/access-requests/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserAccessRequests возвращает заявки пользователя.
func (c *Client) UserAccessRequests(ctx context.Context, userID string) ([]AccessRequest, error) {
	var out []AccessRequest
	if err := c.get(ctx, "/api/access-requests/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApprovedUserAccessRequests возвращает одобренные заявки пользователя.
func (c *Client) ApprovedUserAccessRequests(ctx context.Context, userID string) ([]AccessRequest, error) {
	var out []AccessRequest
	if err := c.get(ctx, "/api/access-requests/user/"+url.PathEscape(userID)+"/approved", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveAccessRequest одобряет заявку: backend выдаёт временный код.
func (c *Client) ApproveAccessRequest(ctx context.Context, requestID int64, processedBy string) (*AccessRequest, error) {
	query := url.Values{"processedBy": {processedBy}}
	var out AccessRequest
	if err := c.post(ctx, fmt.Sprintf("/api/access-requests/%d/approve", requestID), query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectAccessRequest отклоняет заявку с указанием причины.
func (c *Client) RejectAccessRequest(ctx context.Context, requestID int64, processedBy, rejectionReason string) (*AccessRequest, error) {
	query := url.Values{
		"processedBy":     {processedBy},
		"rejectionReason": {rejectionReason},
	}
	var out AccessRequest
	if err := c.post(ctx, fmt.Sprintf("/api/access-requests/%d/reject", requestID), query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenewAccessCode выдаёт новый код по истёкшей заявке.
func (c *Client) RenewAccessCode(ctx context.Context, requestID int64, processedBy string) (*AccessRequest, error) {
	query := url.Values{"processedBy": {processedBy}}
	var out AccessRequest
	if err := c.post(ctx, fmt.Sprintf("/api/access-requests/%d/renew", requestID), query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckApprovedRequest проверяет, есть ли у пользователя одобренная
// заявка на рапорт. Отсутствие — (nil, nil).
func (c *Client) CheckApprovedRequest(ctx context.Context, userID string, reportID int64) (*AccessRequest, error) {
	var out AccessRequest
	err := c.get(ctx, fmt.Sprintf("/api/access-requests/check/%s/%d", url.PathEscape(userID), reportID), nil, &out)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) {
			return nil, nil
		}
		return nil, err
	}
	return &out, nil
}

// OwnerPendingAccessRequests возвращает ожидающие заявки на рапорты владельца.
func (c *Client) OwnerPendingAccessRequests(ctx context.Context, ownerID string) ([]AccessRequest, error) {
	var out []AccessRequest
	if err := c.get(ctx, "/api/access-requests/owner/"+url.PathEscape(ownerID)+"/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OwnerAccessRequests возвращает все заявки на рапорты владельца.
func (c *Client) OwnerAccessRequests(ctx context.Context, ownerID string) ([]AccessRequest, error) {
	var out []AccessRequest
	if err := c.get(ctx, "/api/access-requests/owner/"+url.PathEscape(ownerID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ===== Заявки на выдачу рапорта =====

// CreateReportRequest создаёт заявку на выдачу рапорта.
func (c *Client) CreateReportRequest(ctx context.Context, body CreateReportRequestBody) (*ReportRequest, error) {
	var out ReportRequest
	if err := c.post(ctx, "/api/report-requests", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// OwnerPendingReportRequests возвращает ожидающие заявки владельца.
func (c *Client) OwnerPendingReportRequests(ctx context.Context, ownerID string) ([]ReportRequest, error) {
	var out []ReportRequest
	if err := c.get(ctx, "/api/report-requests/owner/"+url.PathEscape(ownerID)+"/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OwnerReportRequests возвращает все заявки владельца.
func (c *Client) OwnerReportRequests(ctx context.Context, ownerID string) ([]ReportRequest, error) {
	var out []ReportRequest
	if err := c.get(ctx, "/api/report-requests/owner/"+url.PathEscape(ownerID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CountOwnerPendingReportRequests возвращает число ожидающих заявок владельца.
func (c *Client) CountOwnerPendingReportRequests(ctx context.Context, ownerID string) (int, error) {
	var out int
	if err := c.get(ctx, "/api/report-requests/owner/"+url.PathEscape(ownerID)+"/pending/count", nil, &out); err != nil {
		return 0, err
	}
	return out, nil
}

// ApproveReportRequest одобряет заявку: backend выдаёт код валидации.
func (c *Client) ApproveReportRequest(ctx context.Context, requestID int64, processedBy string) (*ReportRequest, error) {
	query := url.Values{"processedBy": {processedBy}}
	var out ReportRequest
	if err := c.post(ctx, fmt.Sprintf("/api/report-requests/%d/approve", requestID), query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectReportRequest отклоняет заявку.
func (c *Client) RejectReportRequest(ctx context.Context, requestID int64, processedBy string) (*ReportRequest, error) {
	query := url.Values{"processedBy": {processedBy}}
	var out ReportRequest
	if err := c.post(ctx, fmt.Sprintf("/api/report-requests/%d/reject", requestID), query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateReportRequestCode проверяет код валидации и отмечает выдачу.
func (c *Client) ValidateReportRequestCode(ctx context.Context, validationCode string) (*ReportRequest, error) {
	query := url.Values{"validationCode": {validationCode}}
	var out ReportRequest
	if err := c.post(ctx, "/api/report-requests/validate-code", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
