package store

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/sync/errgroup"

	"github.com/ginternational/backoffice/internal/models"
)

// AuditStore provides data access for the append-only audit_log table.
type AuditStore struct {
	Base
}

// NewAuditStore creates an AuditStore.
func NewAuditStore(base Base) *AuditStore {
	return &AuditStore{Base: base}
}

// auditColumns lists the columns selected for audit views, operator join included.
const auditColumns = `a.id, a.operator_id, a.action, a.target_id, a.target_model,
	a.operator_name, a.operator_identifier, a.target_info, a.changes, a.created_at,
	u.id, u.name, u.user_id, u.admin_id`

const auditFrom = `FROM audit_log a LEFT JOIN users u ON u.id = a.operator_id`

// sortExpr maps whitelisted sort fields to SQL. Empty text sorts as NULL so
// missing values land last in both directions.
var sortExpr = map[models.SortField]string{
	models.SortCreatedAt:          `a.created_at`,
	models.SortAction:             `a.action COLLATE "C"`,
	models.SortTargetModel:        `a.target_model COLLATE "C"`,
	models.SortOperatorName:       `NULLIF(a.operator_name, '') COLLATE "C"`,
	models.SortOperatorIdentifier: `NULLIF(a.operator_identifier, '') COLLATE "C"`,
	models.SortTargetName:         `NULLIF(a.target_info->>'name', '') COLLATE "C"`,
	models.SortTargetFormNumber:   `NULLIF(a.target_info->>'formNumber', '') COLLATE "C"`,
}

// InsertAudit persists rec and assigns its ID.
func (s *AuditStore) InsertAudit(ctx context.Context, rec *models.AuditRecord) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	targetInfo, err := json.Marshal(rec.TargetInfo)
	if err != nil {
		return fmt.Errorf("marshaling target info: %w", err)
	}

	changes, err := json.Marshal(rec.Changes)
	if err != nil {
		return fmt.Errorf("marshaling changes: %w", err)
	}

	err = s.Pool.QueryRow(ctx, `
		INSERT INTO audit_log (operator_id, action, target_id, target_model,
			operator_name, operator_identifier, target_info, changes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`,
		rec.OperatorID, string(rec.Action), rec.TargetID, string(rec.TargetModel),
		rec.OperatorInfo.Name, rec.OperatorInfo.Identifier, targetInfo, changes, rec.CreatedAt,
	).Scan(&rec.ID)
	if err != nil {
		return fmt.Errorf("inserting audit record: %w", err)
	}

	return nil
}

// GetAudit returns one record joined with its operator.
func (s *AuditStore) GetAudit(ctx context.Context, id uuid.UUID) (*models.AuditView, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	row := s.Pool.QueryRow(ctx, "SELECT "+auditColumns+" "+auditFrom+" WHERE a.id = $1", id)

	v, err := scanAuditView(row.Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrAuditNotFound
		}

		return nil, fmt.Errorf("getting audit record: %w", err)
	}

	return v, nil
}

// SearchAudit returns one page of matching records and the total number of
// matches. The page and the count run concurrently over the same filter.
func (s *AuditStore) SearchAudit(ctx context.Context, q models.AuditQuery) ([]models.AuditView, int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	where, args, argIdx := buildAuditFilter(q)

	orderBy, err := buildAuditOrder(q.Sort)
	if err != nil {
		return nil, 0, err
	}

	g, gctx := errgroup.WithContext(ctx)

	var views []models.AuditView
	g.Go(func() error {
		query := fmt.Sprintf("SELECT %s %s %s %s LIMIT $%d OFFSET $%d",
			auditColumns, auditFrom, where, orderBy, argIdx, argIdx+1)
		pageArgs := append(append([]any{}, args...), q.ItemsPerPage, q.Offset())

		var qerr error
		views, qerr = s.queryViews(gctx, query, pageArgs)

		return qerr
	})

	var total int
	g.Go(func() error {
		query := "SELECT COUNT(*) FROM audit_log a " + where
		if qerr := s.Pool.QueryRow(gctx, query, args...).Scan(&total); qerr != nil {
			return fmt.Errorf("counting audit records: %w", qerr)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	return views, total, nil
}

func (s *AuditStore) queryViews(ctx context.Context, query string, args []any) ([]models.AuditView, error) {
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying audit log: %w", err)
	}
	defer rows.Close()

	views := []models.AuditView{}
	for rows.Next() {
		v, err := scanAuditView(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scanning audit record: %w", err)
		}
		views = append(views, *v)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating audit records: %w", err)
	}

	return views, nil
}

// buildAuditFilter builds the WHERE clause and args for q. All conditions are
// conjunctive; text matches are case-insensitive and literal.
func buildAuditFilter(q models.AuditQuery) (where string, args []any, nextArg int) {
	var conditions []string
	argIdx := 1

	add := func(cond string, arg any) {
		conditions = append(conditions, strings.ReplaceAll(cond, "$?", "$"+strconv.Itoa(argIdx)))
		args = append(args, arg)
		argIdx++
	}

	if q.StartDate != nil {
		add("a.created_at >= $?", *q.StartDate)
	}
	if q.EndDate != nil {
		add("a.created_at <= $?", *q.EndDate)
	}
	if q.Action != "" {
		add("a.action = $?", string(q.Action))
	}
	if q.TargetModel != "" {
		add("a.target_model = $?", string(q.TargetModel))
	}
	if q.OperatorID != nil {
		add("a.operator_id = $?", *q.OperatorID)
	}

	switch q.Target.Kind {
	case models.TargetMatchID:
		add("a.target_id = $?", q.Target.ID)
	case models.TargetMatchName:
		add("a.target_info->>'name' ILIKE $?", containsPattern(q.Target.Value))
	case models.TargetMatchFormNumber:
		add("a.target_info->>'formNumber' ILIKE $?", containsPattern(q.Target.Value))
	case models.TargetMatchIdentifier:
		add("lower(a.target_info->>'identifier') = lower($?)", q.Target.Value)
	case models.TargetMatchNone:
	}

	if q.QuickSearch != "" {
		add(`(a.operator_name ILIKE $?
			OR a.operator_identifier ILIKE $?
			OR a.target_info->>'name' ILIKE $?
			OR a.target_info->>'identifier' ILIKE $?
			OR a.target_info->>'formNumber' ILIKE $?)`, containsPattern(q.QuickSearch))
	}

	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args, argIdx
}

// buildAuditOrder returns the ORDER BY clause for s. The record id breaks ties.
func buildAuditOrder(s models.AuditSort) (string, error) {
	field := s.Field
	if field == "" {
		field = models.SortCreatedAt
	}

	expr, ok := sortExpr[field]
	if !ok {
		return "", &models.ValidationError{Field: "sortBy", Message: "cannot sort by " + strconv.Quote(string(field))}
	}

	dir := "ASC"
	if s.Desc {
		dir = "DESC"
	}

	return fmt.Sprintf("ORDER BY %s %s NULLS LAST, a.id %s", expr, dir, dir), nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching v literally anywhere.
func containsPattern(v string) string {
	return "%" + likeEscaper.Replace(v) + "%"
}

// scanAuditView scans one row selected with auditColumns.
func scanAuditView(scan func(dest ...any) error) (*models.AuditView, error) {
	var (
		v          models.AuditView
		action     string
		model      string
		targetInfo []byte
		changes    []byte
		opID       *uuid.UUID
		opName     *string
		opUserID   *string
		opAdminID  *string
	)

	err := scan(
		&v.ID, &v.OperatorID, &action, &v.TargetID, &model,
		&v.OperatorInfo.Name, &v.OperatorInfo.Identifier, &targetInfo, &changes, &v.CreatedAt,
		&opID, &opName, &opUserID, &opAdminID,
	)
	if err != nil {
		return nil, err
	}

	v.Action = models.Action(action)
	v.TargetModel = models.TargetModel(model)
	v.CreatedAt = v.CreatedAt.UTC()

	if err := json.Unmarshal(targetInfo, &v.TargetInfo); err != nil {
		return nil, fmt.Errorf("decoding target info: %w", err)
	}
	if v.TargetInfo == nil {
		v.TargetInfo = models.TargetInfo{}
	}

	if err := json.Unmarshal(changes, &v.Changes); err != nil {
		return nil, fmt.Errorf("decoding changes: %w", err)
	}

	if opID != nil {
		v.Operator = &models.OperatorSummary{
			ID:      *opID,
			Name:    deref(opName),
			UserID:  deref(opUserID),
			AdminID: deref(opAdminID),
		}
	}

	return &v, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
