package apiclient

import (
	"context"
	"fmt"
	"net/url"
)

// UserNotifications возвращает все уведомления пользователя.
func (c *Client) UserNotifications(ctx context.Context, userID string) ([]Notification, error) {
	var out []Notification
	if err := c.get(ctx, "/api/notifications/user/"+url.PathEscape(userID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadNotifications возвращает непрочитанные уведомления пользователя.
func (c *Client) UnreadNotifications(ctx context.Context, userID string) ([]Notification, error) {
	var out []Notification
	if err := c.get(ctx, "/api/notifications/user/"+url.PathEscape(userID)+"/unread", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UnreadNotificationsCount возвращает число непрочитанных уведомлений.
// Этот запрос выполняет фоновый опрос каждые 30 секунд.
func (c *Client) UnreadNotificationsCount(ctx context.Context, userID string) (int, error) {
	var out struct {
		Count int `json:"count"`
	}
	if err := c.get(ctx, "/api/notifications/user/"+url.PathEscape(userID)+"/unread/count", nil, &out); err != nil {
		return 0, err
	}
	return out.Count, nil
}

// MarkNotificationRead отмечает уведомление прочитанным.
func (c *Client) MarkNotificationRead(ctx context.Context, notificationID int64, userID string) (bool, error) {
	query := url.Values{"userId": {userID}}
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, fmt.Sprintf("/api/notifications/%d/read", notificationID), query, nil, &out); err != nil {
		return false, err
	}
	return out.Success, nil
}

// MarkAllNotificationsRead отмечает все уведомления пользователя прочитанными.
func (c *Client) MarkAllNotificationsRead(ctx context.Context, userID string) (bool, error) {
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, "/api/notifications/user/"+url.PathEscape(userID)+"/read-all", nil, nil, &out); err != nil {
		return false, err
	}
	return out.Success, nil
}

// DeleteNotification перемещает уведомление в корзину.
func (c *Client) DeleteNotification(ctx context.Context, notificationID int64, userID string) (bool, error) {
	query := url.Values{"userId": {userID}}
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.delete(ctx, fmt.Sprintf("/api/notifications/%d", notificationID), query, &out); err != nil {
		return false, err
	}
	return out.Success, nil
}

// DeleteAllNotifications перемещает все уведомления пользователя в корзину.
func (c *Client) DeleteAllNotifications(ctx context.Context, userID string) (bool, error) {
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.delete(ctx, "/api/notifications/user/"+url.PathEscape(userID)+"/all", nil, &out); err != nil {
		return false, err
	}
	return out.Success, nil
}

// NotificationsTrash возвращает корзину уведомлений пользователя.
func (c *Client) NotificationsTrash(ctx context.Context, userID string) ([]Notification, error) {
	var out []Notification
	if err := c.get(ctx, "/api/notifications/user/"+url.PathEscape(userID)+"/trash", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RestoreNotification восстанавливает уведомление из корзины.
func (c *Client) RestoreNotification(ctx context.Context, notificationID int64, userID string) (bool, error) {
	query := url.Values{"userId": {userID}}
	var out struct {
		Success bool `json:"success"`
	}
	if err := c.post(ctx, fmt.Sprintf("/api/notifications/%d/restore", notificationID), query, nil, &out); err != nil {
		return false, err
	}
	return out.Success, nil
}

// RestoreAllNotifications восстанавливает все уведомления из корзины.
// Возвращает число восстановленных.
func (c *Client) RestoreAllNotifications(ctx context.Context, userID string) (int, error) {
	var out struct {
		Restored int `json:"restored"`
	}
	if err := c.post(ctx, "/api/notifications/user/"+url.PathEscape(userID)+"/restore-all", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.Restored, nil
}
