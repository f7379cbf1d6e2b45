package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ginternational/backoffice/internal/models"
)

// InsertAudit appends rec, assigning its ID and, when unset, its timestamp.
func (s *Store) InsertAudit(_ context.Context, rec *models.AuditRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec.ID = uuid.New()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = s.now().UTC()
	}

	s.audits = append(s.audits, *rec)

	return nil
}

// GetAudit returns one record joined with its operator.
func (s *Store) GetAudit(_ context.Context, id uuid.UUID) (*models.AuditView, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.audits {
		if s.audits[i].ID == id {
			v := s.view(s.audits[i])
			return &v, nil
		}
	}

	return nil, models.ErrAuditNotFound
}

// SearchAudit filters, sorts and pages the stored records.
func (s *Store) SearchAudit(_ context.Context, q models.AuditQuery) ([]models.AuditView, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := make([]models.AuditRecord, 0, len(s.audits))
	for i := range s.audits {
		if matches(&s.audits[i], &q) {
			matched = append(matched, s.audits[i])
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return less(&matched[i], &matched[j], q.Sort)
	})

	total := len(matched)
	start := min(max(q.Offset(), 0), total)
	end := min(start+q.ItemsPerPage, total)

	views := make([]models.AuditView, 0, end-start)
	for _, rec := range matched[start:end] {
		views = append(views, s.view(rec))
	}

	return views, total, nil
}

// view joins rec with the operator's current account. Callers hold s.mu.
func (s *Store) view(rec models.AuditRecord) models.AuditView {
	v := models.AuditView{AuditRecord: rec}

	if rec.OperatorID == nil {
		return v
	}

	if u, ok := s.users[*rec.OperatorID]; ok {
		v.Operator = &models.OperatorSummary{ID: u.ID, Name: u.Name, UserID: u.UserID, AdminID: u.AdminID}
	}

	return v
}

func matches(r *models.AuditRecord, q *models.AuditQuery) bool {
	if q.StartDate != nil && r.CreatedAt.Before(*q.StartDate) {
		return false
	}
	if q.EndDate != nil && r.CreatedAt.After(*q.EndDate) {
		return false
	}
	if q.Action != "" && r.Action != q.Action {
		return false
	}
	if q.TargetModel != "" && r.TargetModel != q.TargetModel {
		return false
	}
	if q.OperatorID != nil && (r.OperatorID == nil || *r.OperatorID != *q.OperatorID) {
		return false
	}
	if !matchesTarget(r, q.Target) {
		return false
	}

	return matchesQuickSearch(r, q.QuickSearch)
}

func matchesTarget(r *models.AuditRecord, m models.TargetMatch) bool {
	switch m.Kind {
	case models.TargetMatchID:
		return r.TargetID == m.ID
	case models.TargetMatchName:
		return containsFold(infoString(r.TargetInfo, "name"), m.Value)
	case models.TargetMatchFormNumber:
		return containsFold(infoString(r.TargetInfo, "formNumber"), m.Value)
	case models.TargetMatchIdentifier:
		v := infoString(r.TargetInfo, "identifier")
		return v != "" && strings.EqualFold(v, m.Value)
	default:
		return true
	}
}

func matchesQuickSearch(r *models.AuditRecord, term string) bool {
	if term == "" {
		return true
	}

	for _, v := range []string{
		r.OperatorInfo.Name,
		r.OperatorInfo.Identifier,
		infoString(r.TargetInfo, "name"),
		infoString(r.TargetInfo, "identifier"),
		infoString(r.TargetInfo, "formNumber"),
	} {
		if containsFold(v, term) {
			return true
		}
	}

	return false
}

// containsFold reports whether s contains substr, ignoring case. An empty s never matches.
func containsFold(s, substr string) bool {
	return s != "" && strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func infoString(info models.TargetInfo, key string) string {
	v, _ := info[key].(string)
	return v
}

// sortKey returns the text value a record sorts by, and false when it has none.
func sortKey(r *models.AuditRecord, f models.SortField) (string, bool) {
	var v string

	switch f {
	case models.SortAction:
		v = string(r.Action)
	case models.SortTargetModel:
		v = string(r.TargetModel)
	case models.SortOperatorName:
		v = r.OperatorInfo.Name
	case models.SortOperatorIdentifier:
		v = r.OperatorInfo.Identifier
	case models.SortTargetName:
		v = infoString(r.TargetInfo, "name")
	case models.SortTargetFormNumber:
		v = infoString(r.TargetInfo, "formNumber")
	}

	return v, v != ""
}

// less orders records like the SQL store: by the sort field with missing
// values last in either direction, then by id in the same direction.
func less(a, b *models.AuditRecord, s models.AuditSort) bool {
	if s.Field == models.SortCreatedAt || s.Field == "" {
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return before(a.CreatedAt, b.CreatedAt, s.Desc)
		}
	} else {
		ka, oka := sortKey(a, s.Field)
		kb, okb := sortKey(b, s.Field)

		switch {
		case oka && !okb:
			return true
		case !oka && okb:
			return false
		case ka != kb:
			if s.Desc {
				return ka > kb
			}
			return ka < kb
		}
	}

	ia, ib := a.ID.String(), b.ID.String()
	if s.Desc {
		return ia > ib
	}

	return ia < ib
}

func before(a, b time.Time, desc bool) bool {
	if desc {
		return a.After(b)
	}

	return a.Before(b)
}
