package apiclient

// Статусы рапорта на backend.
const (
	ReportStatusAvailable = "DISPONIBLE"
	ReportStatusPending   = "EN_ATTENTE"
	ReportStatusProcessed = "TRAITE"
)

// Типы и статусы дела на backend.
const (
	CaseTypeInvestigation = "ENQUETE"
	CaseTypeFraudulent    = "FRAUDULEUX"

	CaseStatusUnderInvestigation   = "SOUS_ENQUETE"
	CaseStatusFraudulent           = "FRAUDULEUX"
	CaseStatusInsufficientEvidence = "PREUVE_INSUFFISANTE"
)

// Report — рапорт (ответ backend).
type Report struct {
	ID            int64  `json:"id"`
	Title         string `json:"title"`
	Status        string `json:"status"`
	Beneficiary   string `json:"beneficiary,omitempty"`
	Initiator     string `json:"initiator,omitempty"`
	Insured       string `json:"insured,omitempty"`
	Subscriber    string `json:"subscriber,omitempty"`
	CreatedAt     string `json:"createdAt"`
	CaseID        string `json:"caseId,omitempty"`
	CaseReference string `json:"caseReference,omitempty"`
	CaseCode      string `json:"caseCode,omitempty"`
	CreatedBy     string `json:"createdBy,omitempty"`
}

// CreateReportBody — тело создания/обновления рапорта.
type CreateReportBody struct {
	Title       string `json:"title"`
	Status      string `json:"status,omitempty"`
	Beneficiary string `json:"beneficiary,omitempty"`
	Initiator   string `json:"initiator,omitempty"`
	Insured     string `json:"insured,omitempty"`
	Subscriber  string `json:"subscriber,omitempty"`
	CaseID      string `json:"caseId,omitempty"`
}

// Case — дело (ответ backend). Произвольные поля формы лежат в DataJSON.
type Case struct {
	ID        int64   `json:"id"`
	Reference string  `json:"reference"`
	Type      string  `json:"type"`
	Status    string  `json:"status"`
	DataJSON  string  `json:"dataJson"`
	CreatedAt string  `json:"createdAt"`
	CreatedBy string  `json:"createdBy"`
	Report    *Report `json:"report,omitempty"`
}

// Permissions — права текущего пользователя на рапорт или дело.
type Permissions struct {
	CanEdit   bool `json:"canEdit"`
	CanDelete bool `json:"canDelete"`
}

// AccessRequest — демонстрационная заявка на доступ к рапорту (backend).
type AccessRequest struct {
	ID               int64  `json:"id"`
	ReportID         int64  `json:"reportId"`
	ReportTitle      string `json:"reportTitle"`
	RequesterID      string `json:"requesterId"`
	RequesterName    string `json:"requesterName"`
	RequesterEmail   string `json:"requesterEmail"`
	RequesterCompany string `json:"requesterCompany"`
	RequesterPhone   string `json:"requesterPhone,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Status           string `json:"status"`
	RequestedAt      string `json:"requestedAt"`
	ProcessedAt      string `json:"processedAt,omitempty"`
	ProcessedBy      string `json:"processedBy,omitempty"`
	TemporaryCode    string `json:"temporaryCode,omitempty"`
	ExpiresAt        string `json:"expiresAt,omitempty"`
	RejectionReason  string `json:"rejectionReason,omitempty"`
}

// CreateAccessRequestBody — тело создания заявки на доступ.
type CreateAccessRequestBody struct {
	ReportID         int64  `json:"reportId"`
	ReportTitle      string `json:"reportTitle"`
	RequesterName    string `json:"requesterName"`
	RequesterEmail   string `json:"requesterEmail"`
	RequesterCompany string `json:"requesterCompany"`
	RequesterPhone   string `json:"requesterPhone,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// ReportRequest — заявка на выдачу рапорта (backend).
type ReportRequest struct {
	ID               int64  `json:"id"`
	ReportID         int64  `json:"reportId"`
	ReportTitle      string `json:"reportTitle"`
	RequesterID      string `json:"requesterId"`
	RequesterName    string `json:"requesterName"`
	RequesterEmail   string `json:"requesterEmail"`
	RequesterCompany string `json:"requesterCompany"`
	RequesterPhone   string `json:"requesterPhone,omitempty"`
	Reason           string `json:"reason,omitempty"`
	Status           string `json:"status"`
	ValidationCode   string `json:"validationCode,omitempty"`
	ExpiresAt        string `json:"expiresAt,omitempty"`
	RequestedAt      string `json:"requestedAt"`
	ProcessedAt      string `json:"processedAt,omitempty"`
	ProcessedBy      string `json:"processedBy,omitempty"`
	DownloadedAt     string `json:"downloadedAt,omitempty"`
}

// CreateReportRequestBody — тело создания заявки на выдачу рапорта.
type CreateReportRequestBody struct {
	ReportID         int64  `json:"reportId"`
	ReportTitle      string `json:"reportTitle"`
	RequesterID      string `json:"requesterId"`
	RequesterName    string `json:"requesterName"`
	RequesterEmail   string `json:"requesterEmail"`
	RequesterCompany string `json:"requesterCompany"`
	RequesterPhone   string `json:"requesterPhone,omitempty"`
	Reason           string `json:"reason,omitempty"`
}

// Notification — уведомление пользователя (backend-хранилище,
// не путать с локальным зеркалом портала).
type Notification struct {
	ID        int64  `json:"id"`
	UserID    string `json:"userId"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	Type      string `json:"type,omitempty"`
	Read      bool   `json:"read"`
	Deleted   bool   `json:"deleted,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// Invitation — приглашение на регистрацию.
type Invitation struct {
	ID               int64  `json:"id"`
	Email            string `json:"email"`
	InsuranceCompany string `json:"insuranceCompany"`
	InvitedBy        string `json:"invitedBy"`
	Token            string `json:"token"`
	Status           string `json:"status"`
	CreatedAt        string `json:"createdAt"`
	ExpiresAt        string `json:"expiresAt,omitempty"`
	UsedAt           string `json:"usedAt,omitempty"`
}

// Subscription — состояние подписки компании пользователя.
type Subscription struct {
	UserID                 string `json:"userId,omitempty"`
	SubscriptionStart      string `json:"subscriptionStart,omitempty"`
	SubscriptionEnd        string `json:"subscriptionEnd,omitempty"`
	Active                 bool   `json:"active"`
	Status                 string `json:"status,omitempty"`
	DaysUntilExpiration    int    `json:"daysUntilExpiration,omitempty"`
	LastRenewalRequestDate string `json:"lastRenewalRequestDate,omitempty"`
}

// RenewalRequest — заявка на продление подписки.
type RenewalRequest struct {
	ID          int64  `json:"id"`
	UserID      string `json:"userId"`
	UserName    string `json:"userName,omitempty"`
	Company     string `json:"company,omitempty"`
	Status      string `json:"status"`
	RequestedAt string `json:"requestedAt"`
	ProcessedAt string `json:"processedAt,omitempty"`
	ProcessedBy string `json:"processedBy,omitempty"`
}

// UserAccount — учётная запись пользователя на backend.
type UserAccount struct {
	ID               int64  `json:"id"`
	Username         string `json:"username"`
	Email            string `json:"email,omitempty"`
	FirstName        string `json:"firstName,omitempty"`
	LastName         string `json:"lastName,omitempty"`
	Role             string `json:"role,omitempty"`
	InsuranceCompany string `json:"insuranceCompany,omitempty"`
	Active           bool   `json:"active"`
	CreatedAt        string `json:"createdAt,omitempty"`
	LastLoginAt      string `json:"lastLoginAt,omitempty"`
	LastLogoutAt     string `json:"lastLogoutAt,omitempty"`
}

// RegistrationBody — тело завершения регистрации по приглашению.
type RegistrationBody struct {
	Email       string `json:"email"`
	Username    string `json:"username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	DateOfBirth string `json:"dateOfBirth"`
	Password    string `json:"password"`
	CompanyLogo string `json:"companyLogo,omitempty"`
}

// CompanyCount — счётчик по компании в статистике.
type CompanyCount struct {
	Company string `json:"company"`
	Count   int    `json:"count"`
}

// ReportStats — детальная статистика рапортов (GET /api/report-stats).
type ReportStats struct {
	TotalCreated          int            `json:"totalCreated"`
	TotalModified         int            `json:"totalModified"`
	TotalDeleted          int            `json:"totalDeleted"`
	TotalRequests         int            `json:"totalRequests"`
	CompaniesWithReports  []CompanyCount `json:"companiesWithReports"`
	CompaniesWithRequests []CompanyCount `json:"companiesWithRequests"`
	RecentReports         []Report       `json:"recentReports"`
	RecentRequests        []struct {
		ID            int64  `json:"id"`
		RequesterName string `json:"requesterName"`
		ReportTitle   string `json:"reportTitle"`
		Company       string `json:"company"`
		RequestedAt   string `json:"requestedAt"`
	} `json:"recentRequests"`
}

// CaseStats — детальная статистика дел (GET /api/case-stats).
type CaseStats struct {
	TotalCreated       int            `json:"totalCreated"`
	TotalModified      int            `json:"totalModified"`
	TotalDeleted       int            `json:"totalDeleted"`
	TotalDownloads     int            `json:"totalDownloads"`
	CasesByCompany     []CompanyCount `json:"casesByCompany"`
	ModifiedByCompany  []CompanyCount `json:"modifiedByCompany"`
	DeletedByCompany   []CompanyCount `json:"deletedByCompany"`
	DownloadsByCompany []CompanyCount `json:"downloadsByCompany"`
}

// UserStats — общая статистика пользователей.
type UserStats struct {
	TotalUsers    int            `json:"totalUsers"`
	ActiveUsers   int            `json:"activeUsers"`
	InactiveUsers int            `json:"inactiveUsers"`
	ByCompany     map[string]int `json:"byCompany,omitempty"`
}

// InvitationStats — статистика приглашений.
type InvitationStats struct {
	Total   int `json:"total"`
	Pending int `json:"pending"`
	Used    int `json:"used"`
	Expired int `json:"expired"`
}

// SubscriptionStats — статистика подписок.
type SubscriptionStats struct {
	Total          int `json:"total"`
	Active         int `json:"active"`
	Expired        int `json:"expired"`
	PendingRenewal int `json:"pendingRenewal"`
	ExpiringSoon   int `json:"expiringSoon"`
}

// AdminDashboard — агрегированный ответ GET /api/admin/dashboard.
// Backend собирает разнородные блоки, портал отображает их как есть.
type AdminDashboard map[string]any

// CodeValidation — результат проверки временного кода доступа.
type CodeValidation struct {
	Valid    bool   `json:"valid"`
	ReportID int64  `json:"reportId"`
	Code     string `json:"code"`
	Message  string `json:"message"`
}

// ValidCodeCheck — результат проверки наличия действующего кода.
type ValidCodeCheck struct {
	HasValidCode bool   `json:"hasValidCode"`
	Code         string `json:"code,omitempty"`
	ExpiresAt    string `json:"expiresAt,omitempty"`
	Message      string `json:"message,omitempty"`
}

// FileWithAccessCode — файл рапорта вместе с его кодом доступа
// (GET /api/download/files/{reportId}, только для владельца).
type FileWithAccessCode struct {
	FileID     int64  `json:"fileId"`
	FileName   string `json:"fileName"`
	AccessCode string `json:"accessCode,omitempty"`
	ExpiresAt  string `json:"expiresAt,omitempty"`
}
