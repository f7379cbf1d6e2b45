package models

import (
	"fmt"
	"strconv"
	"strings"
)

// Account number prefixes and widths.
const (
	userIDPrefix  = "G"
	userIDWidth   = 4
	adminIDPrefix = "A"
	adminIDWidth  = 3
)

// CreateUserRequest is the payload for creating a back-office account.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=200"`
	Email    string `json:"email" binding:"required,email,max=254"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Role     *Role  `json:"role" binding:"omitempty,oneof=0 1 2"`
	Note     string `json:"note" binding:"max=2000"`
	Avatar   string `json:"avatar" binding:"omitempty,url,max=2048"`
}

// Normalize lower-cases the e-mail and trims the name.
func (r *CreateUserRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// RoleOrDefault returns the requested role, defaulting to RoleUser.
func (r *CreateUserRequest) RoleOrDefault() Role {
	if r.Role == nil {
		return RoleUser
	}

	return *r.Role
}

// UpdateUserRequest is a partial account update. Nil fields are left unchanged.
// Password is accepted on the wire but never applied.
type UpdateUserRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=200"`
	Email    *string `json:"email" binding:"omitempty,email,max=254"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role" binding:"omitempty,oneof=0 1 2"`
	IsActive *bool   `json:"isActive"`
	Note     *string `json:"note" binding:"omitempty,max=2000"`
	Avatar   *string `json:"avatar" binding:"omitempty,max=2048"`
}

// StripPassword drops any password from the update.
func (r *UpdateUserRequest) StripPassword() {
	r.Password = nil
}

// Apply copies the set fields of r onto u.
func (r *UpdateUserRequest) Apply(u *User) {
	if r.Name != nil {
		u.Name = strings.TrimSpace(*r.Name)
	}
	if r.Email != nil {
		u.Email = strings.ToLower(strings.TrimSpace(*r.Email))
	}
	if r.Role != nil {
		u.Role = *r.Role
	}
	if r.IsActive != nil {
		u.IsActive = *r.IsActive
	}
	if r.Note != nil {
		u.Note = *r.Note
	}
	if r.Avatar != nil {
		u.Avatar = *r.Avatar
	}
}

// IsEmpty reports whether the update changes nothing.
func (r *UpdateUserRequest) IsEmpty() bool {
	return r.Name == nil && r.Email == nil && r.Role == nil && r.IsActive == nil && r.Note == nil && r.Avatar == nil
}

// NextUserID returns the employee number following current ("G0001" when empty).
func NextUserID(current string) (string, error) {
	return nextNumber(userIDPrefix, userIDWidth, current)
}

// NextAdminID returns the administrator number following current ("A001" when empty).
func NextAdminID(current string) (string, error) {
	return nextNumber(adminIDPrefix, adminIDWidth, current)
}

// AccountSeq returns the numeric part of an account number such as "G10000".
// ok is false for values that carry no number after the one-letter prefix.
func AccountSeq(v string) (n int, ok bool) {
	if len(v) < 2 {
		return 0, false
	}

	n, err := strconv.Atoi(v[1:])
	if err != nil || n < 0 || strings.ContainsAny(v[1:], "+-") {
		return 0, false
	}

	return n, true
}

func nextNumber(prefix string, width int, current string) (string, error) {
	if current == "" {
		return fmt.Sprintf("%s%0*d", prefix, width, 1), nil
	}

	n, err := strconv.Atoi(strings.TrimPrefix(strings.ToUpper(current), prefix))
	if err != nil || n < 0 {
		return "", fmt.Errorf("malformed account number %s", quote(current))
	}

	return fmt.Sprintf("%s%0*d", prefix, width, n+1), nil
}
