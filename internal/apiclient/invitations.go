package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// CreateInvitation создаёт и отправляет приглашение на регистрацию.
func (c *Client) CreateInvitation(ctx context.Context, email, insuranceCompany, invitedBy string) (*Invitation, error) {
	body := map[string]string{
		"email":            email,
		"insuranceCompany": insuranceCompany,
		"invitedBy":        invitedBy,
	}
	var out Invitation
	if err := c.post(ctx, "/api/invitations", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ValidateInvitation проверяет токен приглашения.
func (c *Client) ValidateInvitation(ctx context.Context, token string) (*Invitation, error) {
	var out Invitation
	if err := c.get(ctx, "/api/invitations/validate/"+url.PathEscape(token), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UseInvitation отмечает приглашение использованным.
func (c *Client) UseInvitation(ctx context.Context, token string) error {
	return c.post(ctx, "/api/invitations/"+url.PathEscape(token)+"/use", nil, nil, nil)
}

// Invitations возвращает все приглашения.
func (c *Client) Invitations(ctx context.Context) ([]Invitation, error) {
	var out []Invitation
	if err := c.get(ctx, "/api/invitations", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PendingInvitations возвращает приглашения в ожидании.
func (c *Client) PendingInvitations(ctx context.Context) ([]Invitation, error) {
	var out []Invitation
	if err := c.get(ctx, "/api/invitations/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ValidPendingInvitations возвращает действительные приглашения в ожидании.
func (c *Client) ValidPendingInvitations(ctx context.Context) ([]Invitation, error) {
	var out []Invitation
	if err := c.get(ctx, "/api/invitations/valid-pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExpiredInvitations возвращает истёкшие приглашения.
func (c *Client) ExpiredInvitations(ctx context.Context) ([]Invitation, error) {
	var out []Invitation
	if err := c.get(ctx, "/api/invitations/expired", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentInvitations возвращает последние приглашения.
func (c *Client) RecentInvitations(ctx context.Context, limit int) ([]Invitation, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	var out []Invitation
	if err := c.get(ctx, "/api/invitations/recent", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CancelInvitation аннулирует приглашение.
func (c *Client) CancelInvitation(ctx context.Context, invitationID int64) error {
	return c.post(ctx, fmt.Sprintf("/api/invitations/%d/cancel", invitationID), nil, nil, nil)
}

// RenewInvitation продлевает истёкшее приглашение.
func (c *Client) RenewInvitation(ctx context.Context, invitationID int64) (*Invitation, error) {
	var out Invitation
	if err := c.post(ctx, fmt.Sprintf("/api/invitations/%d/renew", invitationID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InvitationStats возвращает статистику приглашений.
func (c *Client) InvitationStats(ctx context.Context) (*InvitationStats, error) {
	var out InvitationStats
	if err := c.get(ctx, "/api/invitations/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
