package apiclient

import "context"

// LoginBody — тело запроса POST /api/auth/login.
type LoginBody struct {
	Username         string `json:"username"`
	InsuranceCompany string `json:"insuranceCompany"`
	Password         string `json:"password"`
}

// AuthUser — запись пользователя в ответе backend на логин.
// Роль приходит в формате backend (ADMIN и т.п.), нормализует её session.Store.
type AuthUser struct {
	ID                     int64  `json:"id"`
	Username               string `json:"username"`
	Name                   string `json:"name,omitempty"`
	Role                   string `json:"role"`
	Email                  string `json:"email,omitempty"`
	InsuranceCompany       string `json:"insuranceCompany,omitempty"`
	FirstName              string `json:"firstName,omitempty"`
	LastName               string `json:"lastName,omitempty"`
	SubscriptionStartDate  string `json:"subscriptionStartDate,omitempty"`
	SubscriptionEndDate    string `json:"subscriptionEndDate,omitempty"`
	SubscriptionActive     bool   `json:"subscriptionActive,omitempty"`
	SubscriptionStatus     string `json:"subscriptionStatus,omitempty"`
	DaysUntilExpiration    int    `json:"daysUntilExpiration,omitempty"`
	LastRenewalRequestDate string `json:"lastRenewalRequestDate,omitempty"`
}

// LoginResponse — ответ backend на логин: JWT и запись пользователя.
type LoginResponse struct {
	Token string    `json:"token"`
	User  *AuthUser `json:"user"`
}

// Login аутентифицирует пользователя.
// POST /api/auth/login — единственный запрос, который уходит без токена.
func (c *Client) Login(ctx context.Context, username, insuranceCompany, password string) (*LoginResponse, error) {
	body := LoginBody{
		Username:         username,
		InsuranceCompany: insuranceCompany,
		Password:         password,
	}
	var out LoginResponse
	if err := c.post(ctx, "/api/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
