package apiclient

import (
	"context"
	"fmt"
	"net/url"
)

// CheckSubscription возвращает состояние подписки пользователя.
func (c *Client) CheckSubscription(ctx context.Context, userID string) (*Subscription, error) {
	var out Subscription
	if err := c.get(ctx, "/api/subscriptions/check/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RequestSubscriptionRenewal создаёт заявку на продление подписки.
func (c *Client) RequestSubscriptionRenewal(ctx context.Context, userID string) (*RenewalRequest, error) {
	var out RenewalRequest
	if err := c.post(ctx, "/api/subscriptions/request-renewal/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RenewSubscription продлевает подписку пользователя (админ).
func (c *Client) RenewSubscription(ctx context.Context, userID string) (*Subscription, error) {
	var out Subscription
	if err := c.post(ctx, "/api/subscriptions/renew/"+url.PathEscape(userID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PendingRenewalRequests возвращает ожидающие заявки на продление (админ).
func (c *Client) PendingRenewalRequests(ctx context.Context) ([]RenewalRequest, error) {
	var out []RenewalRequest
	if err := c.get(ctx, "/api/subscriptions/renewal-requests/pending", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveRenewalRequest одобряет заявку на продление.
func (c *Client) ApproveRenewalRequest(ctx context.Context, requestID int64, adminID string) (*RenewalRequest, error) {
	query := url.Values{"adminId": {adminID}}
	var out RenewalRequest
	if err := c.post(ctx, fmt.Sprintf("/api/subscriptions/renewal-requests/%d/approve", requestID), query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectRenewalRequest отклоняет заявку на продление с причиной.
func (c *Client) RejectRenewalRequest(ctx context.Context, requestID int64, adminID, reason string) (*RenewalRequest, error) {
	query := url.Values{
		"adminId": {adminID},
		"reason":  {reason},
	}
	var out RenewalRequest
	if err := c.post(ctx, fmt.Sprintf("/api/subscriptions/renewal-requests/%d/reject", requestID), query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ExpiredSubscriptions возвращает истёкшие подписки.
func (c *Client) ExpiredSubscriptions(ctx context.Context) ([]Subscription, error) {
	var out []Subscription
	if err := c.get(ctx, "/api/subscriptions/expired", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PendingRenewalSubscriptions возвращает подписки с заявкой на продление.
func (c *Client) PendingRenewalSubscriptions(ctx context.Context) ([]Subscription, error) {
	var out []Subscription
	if err := c.get(ctx, "/api/subscriptions/pending-renewal", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ExpiringSoonSubscriptions возвращает подписки на грани истечения.
func (c *Client) ExpiringSoonSubscriptions(ctx context.Context) ([]Subscription, error) {
	var out []Subscription
	if err := c.get(ctx, "/api/subscriptions/expiring-soon", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ActiveSubscriptions возвращает действующие подписки.
func (c *Client) ActiveSubscriptions(ctx context.Context) ([]Subscription, error) {
	var out []Subscription
	if err := c.get(ctx, "/api/subscriptions/active", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SubscriptionStats возвращает статистику подписок.
func (c *Client) SubscriptionStats(ctx context.Context) (*SubscriptionStats, error) {
	var out SubscriptionStats
	if err := c.get(ctx, "/api/subscriptions/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
