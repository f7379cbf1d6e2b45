package models_test

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/ginternational/backoffice/internal/models"
)

func ptr[T any](v T) *T { return &v }

func assertNoError(t *testing.T, err error) {
	t.Helper()

	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func assertErrorContains(t *testing.T, err error, want string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error containing %q, got nil", want)
	}

	if !strings.Contains(err.Error(), want) {
		t.Errorf("expected error containing %q, got %q", want, err.Error())
	}
}

func TestParseAuditQuery_Defaults(t *testing.T) {
	q, err := models.ParseAuditQuery(models.AuditSearchParams{})
	assertNoError(t, err)

	if q.Page != 1 || q.ItemsPerPage != models.DefaultItemsPerPage {
		t.Errorf("page=%d itemsPerPage=%d, want 1/%d", q.Page, q.ItemsPerPage, models.DefaultItemsPerPage)
	}
	if q.Sort != models.DefaultAuditSort {
		t.Errorf("sort = %+v, want %+v", q.Sort, models.DefaultAuditSort)
	}
	if q.StartDate != nil || q.EndDate != nil || q.OperatorID != nil {
		t.Error("expected no date or operator constraints")
	}
	if q.Target.Kind != models.TargetMatchNone {
		t.Errorf("target kind = %v, want none", q.Target.Kind)
	}
	if q.Offset() != 0 {
		t.Errorf("offset = %d, want 0", q.Offset())
	}
}

func TestParseAuditQuery_Pagination(t *testing.T) {
	tests := []struct {
		name         string
		page, ipp    string
		wantPage     int
		wantPerPage  int
		wantOffsetAt int
	}{
		{name: "explicit", page: "3", ipp: "20", wantPage: 3, wantPerPage: 20, wantOffsetAt: 40},
		{name: "garbage falls back", page: "abc", ipp: "x", wantPage: 1, wantPerPage: 10, wantOffsetAt: 0},
		{name: "zero falls back", page: "0", ipp: "0", wantPage: 1, wantPerPage: 10, wantOffsetAt: 0},
		{name: "negative falls back", page: "-2", ipp: "-5", wantPage: 1, wantPerPage: 10, wantOffsetAt: 0},
		{name: "per page capped", page: "2", ipp: "5000", wantPage: 2, wantPerPage: models.MaxItemsPerPage, wantOffsetAt: 100},
		{
			name: "huge page capped", page: "9223372036854775807", ipp: "10",
			wantPage: models.MaxPage, wantPerPage: 10, wantOffsetAt: (models.MaxPage - 1) * 10,
		},
		{name: "page beyond int falls back", page: "99999999999999999999", ipp: "10", wantPage: 1, wantPerPage: 10, wantOffsetAt: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := models.ParseAuditQuery(models.AuditSearchParams{Page: tc.page, ItemsPerPage: tc.ipp})
			assertNoError(t, err)

			if q.Page != tc.wantPage || q.ItemsPerPage != tc.wantPerPage || q.Offset() != tc.wantOffsetAt {
				t.Errorf("got page=%d perPage=%d offset=%d", q.Page, q.ItemsPerPage, q.Offset())
			}
		})
	}
}

func TestAuditQuery_OffsetSaturates(t *testing.T) {
	q := models.AuditQuery{Page: math.MaxInt, ItemsPerPage: models.MaxItemsPerPage}

	if got := q.Offset(); got != math.MaxInt {
		t.Errorf("offset = %d, want %d", got, math.MaxInt)
	}
}

func TestParseAuditQuery_Dates(t *testing.T) {
	t.Run("date only end covers the whole day", func(t *testing.T) {
		q, err := models.ParseAuditQuery(models.AuditSearchParams{StartDate: "2024-01-01", EndDate: "2024-01-31"})
		assertNoError(t, err)

		wantStart := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
		if !q.StartDate.Equal(wantStart) {
			t.Errorf("start = %v, want %v", q.StartDate, wantStart)
		}

		lateOnEnd := time.Date(2024, 1, 31, 23, 59, 59, 0, time.UTC)
		if q.EndDate.Before(lateOnEnd) {
			t.Errorf("end = %v, want at or after %v", q.EndDate, lateOnEnd)
		}
	})

	t.Run("only start", func(t *testing.T) {
		q, err := models.ParseAuditQuery(models.AuditSearchParams{StartDate: "2024-03-01T10:00:00Z"})
		assertNoError(t, err)

		if q.StartDate == nil || q.EndDate != nil {
			t.Fatalf("expected only a lower bound, got %v..%v", q.StartDate, q.EndDate)
		}
	})

	t.Run("only end", func(t *testing.T) {
		q, err := models.ParseAuditQuery(models.AuditSearchParams{EndDate: "2024-03-01T10:00:00+08:00"})
		assertNoError(t, err)

		if q.StartDate != nil || q.EndDate == nil {
			t.Fatalf("expected only an upper bound, got %v..%v", q.StartDate, q.EndDate)
		}
	})

	errs := []struct {
		name    string
		params  models.AuditSearchParams
		wantErr string
	}{
		{name: "bad start", params: models.AuditSearchParams{StartDate: "yesterday"}, wantErr: "startDate must be"},
		{name: "bad end", params: models.AuditSearchParams{EndDate: "2024-13-45"}, wantErr: "endDate must be"},
		{name: "inverted range", params: models.AuditSearchParams{StartDate: "2024-02-01", EndDate: "2024-01-01"}, wantErr: "must not be after"},
	}

	for _, tc := range errs {
		t.Run(tc.name, func(t *testing.T) {
			_, err := models.ParseAuditQuery(tc.params)
			assertErrorContains(t, err, tc.wantErr)

			if !models.IsValidation(err) {
				t.Errorf("expected a validation error, got %T", err)
			}
		})
	}
}

func TestParseAuditQuery_Filters(t *testing.T) {
	opID := uuid.New()

	tests := []struct {
		name    string
		params  models.AuditSearchParams
		check   func(t *testing.T, q models.AuditQuery)
		wantErr string
	}{
		{
			name:   "action and model",
			params: models.AuditSearchParams{Action: "UPDATE", TargetModel: "Form"},
			check: func(t *testing.T, q models.AuditQuery) {
				if q.Action != models.ActionUpdate || q.TargetModel != models.TargetForm {
					t.Errorf("got action=%q model=%q", q.Action, q.TargetModel)
				}
			},
		},
		{name: "unknown action", params: models.AuditSearchParams{Action: "PATCH"}, wantErr: "unknown action"},
		{name: "unknown model", params: models.AuditSearchParams{TargetModel: "Invoice"}, wantErr: "unknown target model"},
		{
			name:   "operator id",
			params: models.AuditSearchParams{OperatorID: opID.String()},
			check: func(t *testing.T, q models.AuditQuery) {
				if q.OperatorID == nil || *q.OperatorID != opID {
					t.Errorf("operator = %v, want %v", q.OperatorID, opID)
				}
			},
		},
		{name: "malformed operator id", params: models.AuditSearchParams{OperatorID: "not-an-id"}, wantErr: "invalid operator id"},
		{
			name:   "targetId wins over targetName",
			params: models.AuditSearchParams{TargetModel: "Form", TargetID: "2024", TargetName: "ignored"},
			check: func(t *testing.T, q models.AuditQuery) {
				if q.Target.Kind != models.TargetMatchFormNumber || q.Target.Value != "2024" {
					t.Errorf("target = %+v", q.Target)
				}
			},
		},
		{
			name:   "quick search trimmed",
			params: models.AuditSearchParams{QuickSearch: "  alice  "},
			check: func(t *testing.T, q models.AuditQuery) {
				if q.QuickSearch != "alice" {
					t.Errorf("quickSearch = %q", q.QuickSearch)
				}
			},
		},
		{
			name:   "sort ascending by operator name",
			params: models.AuditSearchParams{SortBy: "operatorInfo.name", SortOrder: "asc"},
			check: func(t *testing.T, q models.AuditQuery) {
				if q.Sort.Field != models.SortOperatorName || q.Sort.Desc {
					t.Errorf("sort = %+v", q.Sort)
				}
			},
		},
		{
			name:   "numeric sort order",
			params: models.AuditSearchParams{SortOrder: "1"},
			check: func(t *testing.T, q models.AuditQuery) {
				if q.Sort.Field != models.SortCreatedAt || q.Sort.Desc {
					t.Errorf("sort = %+v", q.Sort)
				}
			},
		},
		{name: "unknown sort field", params: models.AuditSearchParams{SortBy: "changes.before"}, wantErr: "cannot sort by"},
		{name: "unknown sort order", params: models.AuditSearchParams{SortOrder: "sideways"}, wantErr: "sortOrder must be"},
		{name: "quick search too long", params: models.AuditSearchParams{QuickSearch: strings.Repeat("x", models.MaxQuickSearchLen+1)}, wantErr: "exceeds maximum length"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			q, err := models.ParseAuditQuery(tc.params)
			if tc.wantErr != "" {
				assertErrorContains(t, err, tc.wantErr)
				return
			}
			assertNoError(t, err)
			tc.check(t, q)
		})
	}
}

func TestResolveTarget(t *testing.T) {
	id := uuid.New()

	tests := []struct {
		name  string
		model models.TargetModel
		value string
		want  models.TargetMatch
	}{
		{name: "empty value", model: models.TargetForm, value: "  ", want: models.TargetMatch{}},
		{name: "form template always by name", model: models.TargetFormTemplate, value: id.String(), want: models.TargetMatch{Kind: models.TargetMatchName, Value: id.String()}},
		{name: "uuid is exact id", model: models.TargetMarketingBudget, value: id.String(), want: models.TargetMatch{Kind: models.TargetMatchID, ID: id}},
		{name: "uuid without model", model: "", value: id.String(), want: models.TargetMatch{Kind: models.TargetMatchID, ID: id}},
		{name: "form number", model: models.TargetForm, value: "202411", want: models.TargetMatch{Kind: models.TargetMatchFormNumber, Value: "202411"}},
		{name: "user identifier", model: models.TargetUser, value: "g0001", want: models.TargetMatch{Kind: models.TargetMatchIdentifier, Value: "g0001"}},
		{name: "category name ignored", model: models.TargetMarketingCategory, value: "Facebook", want: models.TargetMatch{}},
		{name: "no model non uuid ignored", model: "", value: "G0001", want: models.TargetMatch{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.model.ResolveTarget(tc.value); got != tc.want {
				t.Errorf("ResolveTarget(%q) = %+v, want %+v", tc.value, got, tc.want)
			}
		})
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		name  string
		model models.TargetModel
		snap  models.Snapshot
		want  models.TargetInfo
	}{
		{
			name:  "user with employee number",
			model: models.TargetUser,
			snap:  models.Snapshot{"name": "Alice", "userId": "G0001", "adminId": "A001", "email": "a@example.com"},
			want:  models.TargetInfo{"name": "Alice", "identifier": "G0001"},
		},
		{
			name:  "user falls back to admin number",
			model: models.TargetUser,
			snap:  models.Snapshot{"name": "Root", "userId": "", "adminId": "A001"},
			want:  models.TargetInfo{"name": "Root", "identifier": "A001"},
		},
		{
			name:  "form without client",
			model: models.TargetForm,
			snap:  models.Snapshot{"formNumber": "202401010001", "clientName": nil},
			want:  models.TargetInfo{"formNumber": "202401010001"},
		},
		{
			name:  "form template",
			model: models.TargetFormTemplate,
			snap:  models.Snapshot{"name": "Quotation", "type": "QT", "componentName": "QuoteForm"},
			want:  models.TargetInfo{"name": "Quotation", "type": "QT"},
		},
		{
			name:  "category",
			model: models.TargetMarketingCategory,
			snap:  models.Snapshot{"name": "Facebook Ads", "order": 1},
			want:  models.TargetInfo{"name": "Facebook Ads"},
		},
		{
			name:  "expense with populated theme",
			model: models.TargetMarketingExpense,
			snap:  models.Snapshot{"invoiceDate": "2024-05-01T00:00:00Z", "theme": map[string]any{"_id": "t1", "name": "Summer"}},
			want:  models.TargetInfo{"invoiceDate": "2024-05-01T00:00:00Z", "theme": "Summer"},
		},
		{
			name:  "expense with bare theme reference",
			model: models.TargetMarketingExpense,
			snap:  models.Snapshot{"theme": "t1"},
			want:  models.TargetInfo{},
		},
		{
			name:  "budget is empty",
			model: models.TargetMarketingBudget,
			snap:  models.Snapshot{"year": 2024},
			want:  models.TargetInfo{},
		},
		{
			name:  "unknown model is empty",
			model: "Invoice",
			snap:  models.Snapshot{"name": "x"},
			want:  models.TargetInfo{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := tc.model.Project(tc.snap)
			if len(got) != len(tc.want) {
				t.Fatalf("Project() = %v, want %v", got, tc.want)
			}
			for k, v := range tc.want {
				if got[k] != v {
					t.Errorf("Project()[%q] = %v, want %v", k, got[k], v)
				}
			}
		})
	}
}

func TestTargetOf(t *testing.T) {
	u := models.User{ID: uuid.New(), Name: "Alice", UserID: "G0001", Password: "hash", IsActive: true}

	target, err := models.TargetOf(u)
	assertNoError(t, err)

	if target.ID != u.ID || target.Model != models.TargetUser {
		t.Errorf("target = %+v", target)
	}
	if target.Snapshot["name"] != "Alice" || target.Snapshot["userId"] != "G0001" {
		t.Errorf("snapshot = %v", target.Snapshot)
	}
}

func TestChanges_JSON(t *testing.T) {
	t.Run("create omits changedFields", func(t *testing.T) {
		raw, err := json.Marshal(models.Changes{After: models.Snapshot{"name": "x"}})
		assertNoError(t, err)

		got := string(raw)
		if strings.Contains(got, "changedFields") || !strings.Contains(got, `"before":{}`) {
			t.Errorf("unexpected encoding %s", got)
		}
	})

	t.Run("update keeps empty changedFields", func(t *testing.T) {
		raw, err := json.Marshal(models.Changes{Before: models.Snapshot{}, After: models.Snapshot{}, ChangedFields: []string{}})
		assertNoError(t, err)

		if !strings.Contains(string(raw), `"changedFields":[]`) {
			t.Errorf("unexpected encoding %s", raw)
		}

		var back models.Changes
		assertNoError(t, json.Unmarshal(raw, &back))
		if back.ChangedFields == nil || len(back.ChangedFields) != 0 {
			t.Errorf("changedFields = %#v, want empty non-nil", back.ChangedFields)
		}
	})
}

func TestAuditRecord_Validate(t *testing.T) {
	tests := []struct {
		name    string
		rec     models.AuditRecord
		wantErr string
	}{
		{name: "valid", rec: models.AuditRecord{TargetID: uuid.New(), Action: models.ActionCreate, TargetModel: models.TargetForm}},
		{name: "missing target", rec: models.AuditRecord{Action: models.ActionCreate, TargetModel: models.TargetForm}, wantErr: "targetId is required"},
		{name: "bad action", rec: models.AuditRecord{TargetID: uuid.New(), Action: "MERGE", TargetModel: models.TargetForm}, wantErr: "unknown action"},
		{name: "bad model", rec: models.AuditRecord{TargetID: uuid.New(), Action: models.ActionDelete, TargetModel: "Invoice"}, wantErr: "unknown target model"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.rec.Validate()
			if tc.wantErr != "" {
				assertErrorContains(t, err, tc.wantErr)
				return
			}
			assertNoError(t, err)
		})
	}
}

func TestNextAccountNumbers(t *testing.T) {
	tests := []struct {
		name    string
		next    func(string) (string, error)
		current string
		want    string
		wantErr string
	}{
		{name: "first user", next: models.NextUserID, current: "", want: "G0001"},
		{name: "next user", next: models.NextUserID, current: "G0041", want: "G0042"},
		{name: "lower case user", next: models.NextUserID, current: "g0009", want: "G0010"},
		{name: "first admin", next: models.NextAdminID, current: "", want: "A001"},
		{name: "next admin", next: models.NextAdminID, current: "A099", want: "A100"},
		{name: "user past four digits", next: models.NextUserID, current: "G9999", want: "G10000"},
		{name: "admin past three digits", next: models.NextAdminID, current: "A999", want: "A1000"},
		{name: "malformed", next: models.NextUserID, current: "Gxx", wantErr: "malformed account number"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.next(tc.current)
			if tc.wantErr != "" {
				assertErrorContains(t, err, tc.wantErr)
				return
			}
			assertNoError(t, err)

			if got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestAccountSeq(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{in: "G0001", want: 1, wantOK: true},
		{in: "G10000", want: 10000, wantOK: true},
		{in: "A001", want: 1, wantOK: true},
		{in: "G", wantOK: false},
		{in: "", wantOK: false},
		{in: "Gxx", wantOK: false},
		{in: "G+12", wantOK: false},
	}

	for _, tc := range tests {
		got, ok := models.AccountSeq(tc.in)
		if ok != tc.wantOK || got != tc.want {
			t.Errorf("AccountSeq(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestUpdateUserRequest_Apply(t *testing.T) {
	u := models.User{Name: "Alice", Email: "a@example.com", Password: "hash", Role: models.RoleUser, IsActive: true}
	req := models.UpdateUserRequest{
		Name:     ptr(" Alicia "),
		Password: ptr("new-secret"),
		IsActive: ptr(false),
	}

	req.StripPassword()
	req.Apply(&u)

	if u.Name != "Alicia" || u.IsActive || u.Password != "hash" || u.Email != "a@example.com" {
		t.Errorf("unexpected user after apply: %+v", u)
	}
	if req.IsEmpty() {
		t.Error("expected non-empty update")
	}
	if !(&models.UpdateUserRequest{Password: ptr("x")}).IsEmpty() {
		t.Error("password-only update should count as empty")
	}
}
