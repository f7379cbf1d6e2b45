package models

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Pagination defaults for audit search.
const (
	DefaultItemsPerPage = 10
	MaxItemsPerPage     = 100
	MaxQuickSearchLen   = 200

	// MaxPage keeps (Page-1)*ItemsPerPage within int.
	MaxPage = math.MaxInt / MaxItemsPerPage
)

// AuditSearchParams are the raw query-string parameters of an audit search.
type AuditSearchParams struct {
	Page         string `form:"page"`
	ItemsPerPage string `form:"itemsPerPage"`
	StartDate    string `form:"startDate" binding:"max=64"`
	EndDate      string `form:"endDate" binding:"max=64"`
	Action       string `form:"action" binding:"omitempty,oneof=CREATE UPDATE DELETE"`
	TargetModel  string `form:"targetModel" binding:"omitempty,targetmodel"`
	TargetID     string `form:"targetId" binding:"max=200"`
	TargetName   string `form:"targetName" binding:"max=200"`
	OperatorID   string `form:"operatorId" binding:"max=64"`
	QuickSearch  string `form:"quickSearch" binding:"max=200"`
	SortBy       string `form:"sortBy" binding:"max=64"`
	SortOrder    string `form:"sortOrder" binding:"omitempty,oneof=asc desc ASC DESC 1 -1"`
}

// SortField is a whitelisted audit sort key.
type SortField string

// Sortable audit fields.
const (
	SortCreatedAt          SortField = "createdAt"
	SortAction             SortField = "action"
	SortTargetModel        SortField = "targetModel"
	SortOperatorName       SortField = "operatorInfo.name"
	SortOperatorIdentifier SortField = "operatorInfo.identifier"
	SortTargetName         SortField = "targetInfo.name"
	SortTargetFormNumber   SortField = "targetInfo.formNumber"
)

// ParseSortField converts a raw sortBy value into a SortField.
func ParseSortField(s string) (SortField, error) {
	switch f := SortField(s); f {
	case SortCreatedAt, SortAction, SortTargetModel, SortOperatorName,
		SortOperatorIdentifier, SortTargetName, SortTargetFormNumber:
		return f, nil
	default:
		return "", &ValidationError{Field: "sortBy", Message: "cannot sort by " + quote(s)}
	}
}

// AuditSort orders search results. The record id always breaks ties.
type AuditSort struct {
	Field SortField
	Desc  bool
}

// DefaultAuditSort is most-recent-first.
var DefaultAuditSort = AuditSort{Field: SortCreatedAt, Desc: true}

// AuditQuery is a fully resolved audit search. All filters are conjunctive.
type AuditQuery struct {
	StartDate    *time.Time
	EndDate      *time.Time
	Action       Action
	TargetModel  TargetModel
	Target       TargetMatch
	OperatorID   *uuid.UUID
	QuickSearch  string
	Sort         AuditSort
	Page         int
	ItemsPerPage int
}

// Offset returns the number of matching records preceding the requested page.
// It saturates at math.MaxInt instead of overflowing.
func (q *AuditQuery) Offset() int {
	if q.Page <= 1 || q.ItemsPerPage <= 0 {
		return 0
	}

	if q.Page-1 > math.MaxInt/q.ItemsPerPage {
		return math.MaxInt
	}

	return (q.Page - 1) * q.ItemsPerPage
}

// ParseAuditQuery resolves raw search parameters into an AuditQuery.
// Unusable page numbers fall back to defaults; every other malformed
// parameter is a ValidationError.
func ParseAuditQuery(p AuditSearchParams) (AuditQuery, error) {
	q := AuditQuery{
		Sort:         DefaultAuditSort,
		Page:         positiveOr(p.Page, 1, MaxPage),
		ItemsPerPage: positiveOr(p.ItemsPerPage, DefaultItemsPerPage, MaxItemsPerPage),
		QuickSearch:  strings.TrimSpace(p.QuickSearch),
	}

	if len(q.QuickSearch) > MaxQuickSearchLen {
		return AuditQuery{}, ErrFieldTooLong("quickSearch", MaxQuickSearchLen)
	}

	var err error

	if p.StartDate != "" {
		if q.StartDate, err = parseBound("startDate", p.StartDate, false); err != nil {
			return AuditQuery{}, err
		}
	}

	if p.EndDate != "" {
		if q.EndDate, err = parseBound("endDate", p.EndDate, true); err != nil {
			return AuditQuery{}, err
		}
	}

	if q.StartDate != nil && q.EndDate != nil && q.StartDate.After(*q.EndDate) {
		return AuditQuery{}, &ValidationError{Field: "startDate", Message: "startDate must not be after endDate"}
	}

	if p.Action != "" {
		if q.Action, err = ParseAction(p.Action); err != nil {
			return AuditQuery{}, err
		}
	}

	if p.TargetModel != "" {
		if q.TargetModel, err = ParseTargetModel(p.TargetModel); err != nil {
			return AuditQuery{}, err
		}
	}

	target := p.TargetID
	if target == "" {
		target = p.TargetName
	}
	q.Target = q.TargetModel.ResolveTarget(target)

	if p.OperatorID != "" {
		id, perr := uuid.Parse(strings.TrimSpace(p.OperatorID))
		if perr != nil {
			return AuditQuery{}, &ValidationError{Field: "operatorId", Message: "invalid operator id"}
		}
		q.OperatorID = &id
	}

	if p.SortBy != "" {
		if q.Sort.Field, err = ParseSortField(p.SortBy); err != nil {
			return AuditQuery{}, err
		}
	}

	switch strings.ToLower(p.SortOrder) {
	case "asc", "1":
		q.Sort.Desc = false
	case "desc", "-1", "":
	default:
		return AuditQuery{}, &ValidationError{Field: "sortOrder", Message: "sortOrder must be asc or desc"}
	}

	return q, nil
}

var boundLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// parseBound parses a date-range bound. A date-only upper bound covers the whole day.
func parseBound(field, raw string, upper bool) (*time.Time, error) {
	raw = strings.TrimSpace(raw)

	for _, layout := range boundLayouts {
		t, err := time.Parse(layout, raw)
		if err != nil {
			continue
		}

		if upper && layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}

		return &t, nil
	}

	return nil, &ValidationError{Field: field, Message: field + " must be an RFC3339 timestamp or YYYY-MM-DD date"}
}

// positiveOr parses s as a positive integer, returning fallback when it is not
// one and clamping to ceiling when ceiling > 0.
func positiveOr(s string, fallback, ceiling int) int {
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || v <= 0 {
		return fallback
	}

	if ceiling > 0 && v > ceiling {
		return ceiling
	}

	return v
}
