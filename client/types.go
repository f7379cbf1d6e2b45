package client

import "time"

// HealthResponse is returned by the liveness endpoint.
type HealthResponse struct {
	Status        string  `json:"status"`
	Version       string  `json:"version"`
	Database      string  `json:"database"`
	AuditMode     string  `json:"audit_mode"`
	UptimeSeconds float64 `json:"uptime_seconds"`
}

// OperatorInfo is the operator snapshot stored on every audit record.
type OperatorInfo struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

// Operator is the joined, current view of the acting account. It is nil
// when the account no longer exists or the action was system-initiated.
type Operator struct {
	ID      string `json:"_id"`
	Name    string `json:"name"`
	UserID  string `json:"userId,omitempty"`
	AdminID string `json:"adminId,omitempty"`
}

// Changes holds the redacted before/after snapshots of an audited mutation.
// ChangedFields is only set on UPDATE records.
type Changes struct {
	Before        map[string]any `json:"before"`
	After         map[string]any `json:"after"`
	ChangedFields []string       `json:"changedFields,omitempty"`
}

// AuditRecord is one entry of the audit trail.
type AuditRecord struct {
	ID           string         `json:"_id"`
	OperatorID   *string        `json:"operatorId"`
	Operator     *Operator      `json:"operator"`
	Action       string         `json:"action"`
	TargetID     string         `json:"targetId"`
	TargetModel  string         `json:"targetModel"`
	OperatorInfo OperatorInfo   `json:"operatorInfo"`
	TargetInfo   map[string]any `json:"targetInfo"`
	Changes      Changes        `json:"changes"`
	CreatedAt    time.Time      `json:"createdAt"`
}

// AuditPage is one page of audit search results.
type AuditPage struct {
	Data         []AuditRecord `json:"data"`
	TotalItems   int           `json:"totalItems"`
	ItemsPerPage int           `json:"itemsPerPage"`
	CurrentPage  int           `json:"currentPage"`
}

// AuditSearchOptions filters an audit search. Zero values are omitted.
type AuditSearchOptions struct {
	StartDate    string // RFC3339 or YYYY-MM-DD
	EndDate      string // RFC3339 or YYYY-MM-DD; a bare date covers the whole day
	Action       string // CREATE, UPDATE or DELETE
	TargetModel  string
	Target       string // id, name, form number or identifier depending on TargetModel
	OperatorID   string
	QuickSearch  string
	SortBy       string
	SortOrder    string // asc or desc
	Page         int
	ItemsPerPage int
}

// User is a back-office account as returned by the API (never includes the password).
type User struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	UserID    string    `json:"userId,omitempty"`
	AdminID   string    `json:"adminId,omitempty"`
	IsActive  bool      `json:"isActive"`
	Role      int       `json:"role"`
	Note      string    `json:"note,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Account roles.
const (
	RoleUser    = 0
	RoleAdmin   = 1
	RoleManager = 2
)

// CreateUserRequest is the payload for creating an account.
type CreateUserRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     *int   `json:"role,omitempty"`
	Note     string `json:"note,omitempty"`
	Avatar   string `json:"avatar,omitempty"`
}

// UpdateUserRequest is a partial account update. Nil fields are left unchanged.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Role     *int    `json:"role,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
	Note     *string `json:"note,omitempty"`
	Avatar   *string `json:"avatar,omitempty"`
}
