package session

// Role — роль пользователя портала. Закрытый набор:
// роль ADMIN backend нормализуется в admin, всё остальное — point_focal.
type Role string

const (
	// RoleAdmin — администратор портала.
	RoleAdmin Role = "admin"
	// RolePointFocal — точка фокального контакта страховой компании.
	RolePointFocal Role = "point_focal"
)

// NormalizeRole приводит роль backend к роли портала.
func NormalizeRole(backendRole string) Role {
	if backendRole == "ADMIN" {
		return RoleAdmin
	}
	return RolePointFocal
}

// User — пользователь сессии. Сериализуется в storage под ключом
// assurance_user, формат совместим с записью, которую вёл старый клиент.
type User struct {
	ID                     int64  `json:"id,omitempty"`
	Name                   string `json:"name"`
	Role                   Role   `json:"role"`
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

// IsAdmin сообщает, является ли пользователь администратором.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
