package models

import (
	"time"

	"github.com/google/uuid"
)

// Role is a user's access level.
type Role int

// User roles.
const (
	RoleUser    Role = 0
	RoleAdmin   Role = 1
	RoleManager Role = 2
)

// Entity is implemented by every audited entity kind. The set is closed:
// the unexported method keeps other packages from adding kinds.
type Entity interface {
	EntityID() uuid.UUID
	TargetModel() TargetModel
	entity()
}

// TargetOf reduces an entity to the plain-data Target the audit engine consumes.
func TargetOf(e Entity) (Target, error) {
	s, err := SnapshotOf(e)
	if err != nil {
		return Target{}, err
	}

	return Target{ID: e.EntityID(), Model: e.TargetModel(), Snapshot: s}, nil
}

// User is a back-office account (employee or administrator).
type User struct {
	ID        uuid.UUID `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Password  string    `json:"password,omitempty"`
	UserID    string    `json:"userId,omitempty"`
	AdminID   string    `json:"adminId,omitempty"`
	IsActive  bool      `json:"isActive"`
	Role      Role      `json:"role"`
	Note      string    `json:"note,omitempty"`
	Avatar    string    `json:"avatar,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Public returns a copy of u without credential material.
func (u User) Public() User {
	u.Password = ""
	return u
}

// Operator returns u as an acting principal.
func (u *User) Operator() *Operator {
	return &Operator{ID: u.ID, Name: u.Name, UserID: u.UserID, AdminID: u.AdminID, Role: u.Role, IsActive: u.IsActive}
}

// FormTemplate describes a kind of business form.
type FormTemplate struct {
	ID            uuid.UUID `json:"_id"`
	Name          string    `json:"name"`
	Type          string    `json:"type"`
	ComponentName string    `json:"componentName"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// Form is a submitted business form.
type Form struct {
	ID           uuid.UUID      `json:"_id"`
	FormNumber   string         `json:"formNumber"`
	FormTemplate uuid.UUID      `json:"formTemplate"`
	Creator      uuid.UUID      `json:"creator"`
	ClientName   string         `json:"clientName,omitempty"`
	PDFURL       string         `json:"pdfUrl"`
	FormData     map[string]any `json:"formData"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}

// MarketingCategory is a theme, channel, platform or detail line.
type MarketingCategory struct {
	ID           uuid.UUID `json:"_id"`
	Name         string    `json:"name"`
	Type         int       `json:"type"`
	IsActive     bool      `json:"isActive"`
	Order        int       `json:"order"`
	Creator      uuid.UUID `json:"creator"`
	LastModifier uuid.UUID `json:"lastModifier"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MonthlyAmounts holds one figure per calendar month.
type MonthlyAmounts struct {
	JAN float64 `json:"JAN"`
	FEB float64 `json:"FEB"`
	MAR float64 `json:"MAR"`
	APR float64 `json:"APR"`
	MAY float64 `json:"MAY"`
	JUN float64 `json:"JUN"`
	JUL float64 `json:"JUL"`
	AUG float64 `json:"AUG"`
	SEP float64 `json:"SEP"`
	OCT float64 `json:"OCT"`
	NOV float64 `json:"NOV"`
	DEC float64 `json:"DEC"`
}

// BudgetItem is one channel/platform line of a budget.
type BudgetItem struct {
	Channel       uuid.UUID      `json:"channel"`
	Platform      uuid.UUID      `json:"platform"`
	MonthlyBudget MonthlyAmounts `json:"monthlyBudget"`
}

// MarketingBudget is a yearly budget for one marketing theme.
type MarketingBudget struct {
	ID           uuid.UUID    `json:"_id"`
	Year         int          `json:"year"`
	Theme        uuid.UUID    `json:"theme"`
	Items        []BudgetItem `json:"items"`
	Status       string       `json:"status"`
	Note         string       `json:"note"`
	Creator      uuid.UUID    `json:"creator"`
	LastModifier uuid.UUID    `json:"lastModifier"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

// ThemeRef is a marketing theme reference, populated with its name when loaded.
type ThemeRef struct {
	ID   uuid.UUID `json:"_id"`
	Name string    `json:"name,omitempty"`
}

// ExpenseItem is one line of actual spend.
type ExpenseItem struct {
	Channel        uuid.UUID      `json:"channel"`
	Platform       uuid.UUID      `json:"platform"`
	Project        uuid.UUID      `json:"project"`
	Detail         uuid.UUID      `json:"detail"`
	MonthlyExpense MonthlyAmounts `json:"monthlyExpense"`
}

// MarketingExpense records actual spend against a theme.
type MarketingExpense struct {
	ID            uuid.UUID     `json:"_id"`
	Year          int           `json:"year"`
	Theme         *ThemeRef     `json:"theme,omitempty"`
	InvoiceDate   *time.Time    `json:"invoiceDate,omitempty"`
	RelatedBudget *uuid.UUID    `json:"relatedBudget"`
	Items         []ExpenseItem `json:"items"`
	Status        string        `json:"status"`
	Note          string        `json:"note"`
	Creator       uuid.UUID     `json:"creator"`
	LastModifier  uuid.UUID     `json:"lastModifier"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

func (u User) EntityID() uuid.UUID              { return u.ID }
func (f FormTemplate) EntityID() uuid.UUID      { return f.ID }
func (f Form) EntityID() uuid.UUID              { return f.ID }
func (c MarketingCategory) EntityID() uuid.UUID { return c.ID }
func (b MarketingBudget) EntityID() uuid.UUID   { return b.ID }
func (e MarketingExpense) EntityID() uuid.UUID  { return e.ID }

func (User) TargetModel() TargetModel              { return TargetUser }
func (FormTemplate) TargetModel() TargetModel      { return TargetFormTemplate }
func (Form) TargetModel() TargetModel              { return TargetForm }
func (MarketingCategory) TargetModel() TargetModel { return TargetMarketingCategory }
func (MarketingBudget) TargetModel() TargetModel   { return TargetMarketingBudget }
func (MarketingExpense) TargetModel() TargetModel  { return TargetMarketingExpense }

func (User) entity()              {}
func (FormTemplate) entity()      {}
func (Form) entity()              {}
func (MarketingCategory) entity() {}
func (MarketingBudget) entity()   {}
func (MarketingExpense) entity()  {}

// Operator is the authenticated principal performing an action.
// A nil *Operator means the action is system-initiated.
type Operator struct {
	ID       uuid.UUID
	Name     string
	UserID   string
	AdminID  string
	Role     Role
	IsActive bool
}

// Info returns the denormalized snapshot stored on audit records.
func (o *Operator) Info() OperatorInfo {
	identifier := o.UserID
	if identifier == "" {
		identifier = o.AdminID
	}

	return OperatorInfo{Name: o.Name, Identifier: identifier}
}
