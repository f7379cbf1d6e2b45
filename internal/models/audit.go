// Package models defines the audit trail and account types shared by every layer.
package models

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Action is the kind of mutation an audit record describes.
type Action string

// Supported audit actions.
const (
	ActionCreate Action = "CREATE"
	ActionUpdate Action = "UPDATE"
	ActionDelete Action = "DELETE"
)

// ParseAction converts a raw string into a known Action.
func ParseAction(s string) (Action, error) {
	switch a := Action(s); a {
	case ActionCreate, ActionUpdate, ActionDelete:
		return a, nil
	default:
		return "", &ValidationError{Field: "action", Message: "unknown action " + quote(s)}
	}
}

// Valid reports whether a is one of the supported actions.
func (a Action) Valid() bool {
	_, err := ParseAction(string(a))
	return err == nil
}

// OperatorInfo is the denormalized operator snapshot stored on each record.
type OperatorInfo struct {
	Name       string `json:"name"`
	Identifier string `json:"identifier"`
}

// SystemOperator is recorded when a mutation has no authenticated operator.
var SystemOperator = OperatorInfo{Name: "System", Identifier: "SYSTEM"}

// OperatorSummary is the live operator row joined onto search results.
type OperatorSummary struct {
	ID      uuid.UUID `json:"_id"`
	Name    string    `json:"name"`
	UserID  string    `json:"userId,omitempty"`
	AdminID string    `json:"adminId,omitempty"`
}

// Changes holds the redacted before/after snapshots of a mutation.
// ChangedFields is nil for CREATE and DELETE records.
type Changes struct {
	Before        Snapshot
	After         Snapshot
	ChangedFields []string
}

type changesJSON struct {
	Before        Snapshot  `json:"before"`
	After         Snapshot  `json:"after"`
	ChangedFields *[]string `json:"changedFields,omitempty"`
}

// MarshalJSON keeps changedFields present (possibly empty) whenever it was computed.
func (c Changes) MarshalJSON() ([]byte, error) {
	out := changesJSON{Before: c.Before, After: c.After}
	if out.Before == nil {
		out.Before = Snapshot{}
	}
	if out.After == nil {
		out.After = Snapshot{}
	}
	if c.ChangedFields != nil {
		fields := c.ChangedFields
		out.ChangedFields = &fields
	}

	return json.Marshal(out)
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (c *Changes) UnmarshalJSON(data []byte) error {
	var in changesJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	c.Before = in.Before
	c.After = in.After
	if c.Before == nil {
		c.Before = Snapshot{}
	}
	if c.After == nil {
		c.After = Snapshot{}
	}
	c.ChangedFields = nil
	if in.ChangedFields != nil {
		c.ChangedFields = *in.ChangedFields
		if c.ChangedFields == nil {
			c.ChangedFields = []string{}
		}
	}

	return nil
}

// AuditRecord is one append-only entry in the audit trail.
type AuditRecord struct {
	ID           uuid.UUID    `json:"_id"`
	OperatorID   *uuid.UUID   `json:"operatorId"`
	Action       Action       `json:"action"`
	TargetID     uuid.UUID    `json:"targetId"`
	TargetModel  TargetModel  `json:"targetModel"`
	OperatorInfo OperatorInfo `json:"operatorInfo"`
	TargetInfo   TargetInfo   `json:"targetInfo"`
	Changes      Changes      `json:"changes"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// Validate checks the fields the audit table requires.
func (r *AuditRecord) Validate() error {
	if r.TargetID == uuid.Nil {
		return &ValidationError{Field: "targetId", Message: "targetId is required"}
	}

	if !r.Action.Valid() {
		return &ValidationError{Field: "action", Message: "unknown action " + quote(string(r.Action))}
	}

	if !r.TargetModel.Valid() {
		return &ValidationError{Field: "targetModel", Message: "unknown target model " + quote(string(r.TargetModel))}
	}

	return nil
}

// AuditView is an AuditRecord joined with the operator's current account data.
// Operator is nil when the operator was deleted or the action was system-initiated.
type AuditView struct {
	AuditRecord
	Operator *OperatorSummary `json:"operator"`
}

// AuditPage is one page of search results plus the size of the full filtered set.
type AuditPage struct {
	Data         []AuditView `json:"data"`
	TotalItems   int         `json:"totalItems"`
	ItemsPerPage int         `json:"itemsPerPage"`
	CurrentPage  int         `json:"currentPage"`
}
