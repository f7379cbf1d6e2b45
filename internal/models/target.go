package models

import (
	"strings"

	"github.com/google/uuid"
)

// TargetModel names the entity collection an audit record's TargetID points into.
type TargetModel string

// The closed set of audited entity kinds.
const (
	TargetUser              TargetModel = "User"
	TargetFormTemplate      TargetModel = "FormTemplate"
	TargetForm              TargetModel = "Form"
	TargetMarketingCategory TargetModel = "MarketingCategory"
	TargetMarketingBudget   TargetModel = "MarketingBudget"
	TargetMarketingExpense  TargetModel = "MarketingExpense"
)

// TargetModels lists every supported TargetModel in declaration order.
var TargetModels = []TargetModel{
	TargetUser,
	TargetFormTemplate,
	TargetForm,
	TargetMarketingCategory,
	TargetMarketingBudget,
	TargetMarketingExpense,
}

// ParseTargetModel converts a raw string into a known TargetModel.
func ParseTargetModel(s string) (TargetModel, error) {
	switch m := TargetModel(s); m {
	case TargetUser, TargetFormTemplate, TargetForm,
		TargetMarketingCategory, TargetMarketingBudget, TargetMarketingExpense:
		return m, nil
	default:
		return "", &ValidationError{Field: "targetModel", Message: "unknown target model " + quote(s)}
	}
}

// Valid reports whether m is one of the supported target models.
func (m TargetModel) Valid() bool {
	_, err := ParseTargetModel(string(m))
	return err == nil
}

// TargetInfo is the denormalized display summary stored with a record.
// Its keys depend on the TargetModel; unset values are never present.
type TargetInfo map[string]any

// Project builds the display summary for an entity snapshot of kind m.
// Unknown models and MarketingBudget yield an empty summary.
func (m TargetModel) Project(s Snapshot) TargetInfo {
	info := TargetInfo{}

	switch m {
	case TargetUser:
		info.set("name", s["name"])
		info.set("identifier", firstPresent(s["userId"], s["adminId"]))
	case TargetForm:
		info.set("formNumber", s["formNumber"])
		info.set("clientName", s["clientName"])
	case TargetFormTemplate:
		info.set("name", s["name"])
		info.set("type", s["type"])
	case TargetMarketingCategory:
		info.set("name", s["name"])
	case TargetMarketingExpense:
		info.set("invoiceDate", s["invoiceDate"])
		if theme, ok := s["theme"].(map[string]any); ok {
			info.set("theme", theme["name"])
		}
	case TargetMarketingBudget:
	}

	return info
}

// set stores v under key unless v is absent.
func (t TargetInfo) set(key string, v any) {
	if isAbsent(v) {
		return
	}

	t[key] = v
}

func isAbsent(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case string:
		return x == ""
	default:
		return false
	}
}

func firstPresent(vals ...any) any {
	for _, v := range vals {
		if !isAbsent(v) {
			return v
		}
	}

	return nil
}

// TargetMatchKind selects how a target-identity filter is applied.
type TargetMatchKind int

// Target-identity match strategies.
const (
	// TargetMatchNone applies no target-identity constraint.
	TargetMatchNone TargetMatchKind = iota
	// TargetMatchID matches TargetID exactly.
	TargetMatchID
	// TargetMatchName matches targetInfo.name case-insensitively by substring.
	TargetMatchName
	// TargetMatchFormNumber matches targetInfo.formNumber case-insensitively by substring.
	TargetMatchFormNumber
	// TargetMatchIdentifier matches targetInfo.identifier case-insensitively.
	TargetMatchIdentifier
)

// TargetMatch is a resolved target-identity filter.
type TargetMatch struct {
	Kind  TargetMatchKind
	ID    uuid.UUID
	Value string
}

// ResolveTarget interprets a caller-supplied target identity for model m.
// m may be empty, in which case only a well-formed id constrains the search.
func (m TargetModel) ResolveTarget(value string) TargetMatch {
	value = strings.TrimSpace(value)
	if value == "" {
		return TargetMatch{}
	}

	if m == TargetFormTemplate {
		return TargetMatch{Kind: TargetMatchName, Value: value}
	}

	if id, err := uuid.Parse(value); err == nil {
		return TargetMatch{Kind: TargetMatchID, ID: id}
	}

	switch m {
	case TargetForm:
		return TargetMatch{Kind: TargetMatchFormNumber, Value: value}
	case TargetUser:
		return TargetMatch{Kind: TargetMatchIdentifier, Value: value}
	default:
		return TargetMatch{}
	}
}

// Target is the entity an audit record refers to, reduced to plain data.
type Target struct {
	ID       uuid.UUID
	Model    TargetModel
	Snapshot Snapshot
}
