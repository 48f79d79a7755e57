package apiclient

import "context"

// Dashboard возвращает агрегированные данные панели администратора.
func (c *Client) Dashboard(ctx context.Context) (AdminDashboard, error) {
	var out AdminDashboard
	if err := c.get(ctx, "/api/admin/dashboard", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
