package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// LogoutUser сообщает backend о выходе пользователя (учёт last logout).
func (c *Client) LogoutUser(ctx context.Context, username string) error {
	body := map[string]string{"username": username}
	return c.post(ctx, "/api/users/logout", nil, body, nil)
}

// RegisterUser завершает регистрацию приглашённого пользователя.
func (c *Client) RegisterUser(ctx context.Context, body RegistrationBody) (*UserAccount, error) {
	var out UserAccount
	if err := c.post(ctx, "/api/users/register", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CheckUsernameExists проверяет занятость имени пользователя.
func (c *Client) CheckUsernameExists(ctx context.Context, username string) (bool, error) {
	var out bool
	if err := c.get(ctx, "/api/users/check-username/"+url.PathEscape(username), nil, &out); err != nil {
		return false, err
	}
	return out, nil
}

// Users возвращает всех пользователей.
func (c *Client) Users(ctx context.Context) ([]UserAccount, error) {
	var out []UserAccount
	if err := c.get(ctx, "/api/users", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentUsers возвращает последних зарегистрированных пользователей.
func (c *Client) RecentUsers(ctx context.Context, limit int) ([]UserAccount, error) {
	query := url.Values{"limit": {strconv.Itoa(limit)}}
	var out []UserAccount
	if err := c.get(ctx, "/api/users/recent", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentlyLoggedIn возвращает пользователей, входивших за последние hours часов.
func (c *Client) RecentlyLoggedIn(ctx context.Context, hours int) ([]UserAccount, error) {
	query := url.Values{"hours": {strconv.Itoa(hours)}}
	var out []UserAccount
	if err := c.get(ctx, "/api/users/recently-logged-in", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// RecentlyLoggedOut возвращает пользователей, выходивших за последние hours часов.
func (c *Client) RecentlyLoggedOut(ctx context.Context, hours int) ([]UserAccount, error) {
	query := url.Values{"hours": {strconv.Itoa(hours)}}
	var out []UserAccount
	if err := c.get(ctx, "/api/users/recently-logged-out", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// OnlineUsers возвращает пользователей, активных за последние hours часов.
func (c *Client) OnlineUsers(ctx context.Context, hours int) ([]UserAccount, error) {
	query := url.Values{"hours": {strconv.Itoa(hours)}}
	var out []UserAccount
	if err := c.get(ctx, "/api/users/online", query, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UsersByCompany возвращает число пользователей по компаниям.
func (c *Client) UsersByCompany(ctx context.Context) (map[string]int, error) {
	var out map[string]int
	if err := c.get(ctx, "/api/users/stats/by-company", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UserStats возвращает общую статистику пользователей.
func (c *Client) UserStats(ctx context.Context) (*UserStats, error) {
	var out UserStats
	if err := c.get(ctx, "/api/users/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActivateUser включает учётную запись.
func (c *Client) ActivateUser(ctx context.Context, userID int64) error {
	return c.post(ctx, fmt.Sprintf("/api/users/%d/activate", userID), nil, nil, nil)
}

// DeactivateUser выключает учётную запись.
func (c *Client) DeactivateUser(ctx context.Context, userID int64) error {
	return c.post(ctx, fmt.Sprintf("/api/users/%d/deactivate", userID), nil, nil, nil)
}

// ToggleUserStatus переключает состояние учётной записи.
func (c *Client) ToggleUserStatus(ctx context.Context, userID int64) error {
	return c.post(ctx, fmt.Sprintf("/api/users/%d/toggle-status", userID), nil, nil, nil)
}
