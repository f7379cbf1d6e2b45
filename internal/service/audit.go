// Package service provides business logic between API handlers and data stores.
package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/ginternational/backoffice/internal/domain"
	"github.com/ginternational/backoffice/internal/metrics"
	"github.com/ginternational/backoffice/internal/models"
	"github.com/ginternational/backoffice/internal/snapshot"
)

// AuditStore is the data-access interface AuditService depends on.
type AuditStore interface {
	// InsertAudit persists rec, assigning its ID.
	InsertAudit(ctx context.Context, rec *models.AuditRecord) error
	// SearchAudit returns one page of matching records and the total match count.
	SearchAudit(ctx context.Context, q models.AuditQuery) ([]models.AuditView, int, error)
	GetAudit(ctx context.Context, id uuid.UUID) (*models.AuditView, error)
}

// Compile-time check: *AuditService must satisfy domain.AuditService.
var _ domain.AuditService = (*AuditService)(nil)

// AuditService builds audit records from domain mutations and answers
// audit trail queries.
type AuditService struct {
	store AuditStore
	log   *logrus.Logger
	now   func() time.Time
}

// NewAuditService creates an AuditService.
func NewAuditService(store AuditStore, log *logrus.Logger) *AuditService {
	return &AuditService{store: store, log: log, now: time.Now}
}

// RecordCreate records the creation of t. The record's after-state is the
// redacted snapshot of t.
func (s *AuditService) RecordCreate(
	ctx context.Context, op *models.Operator, t models.Target,
) (*models.AuditRecord, error) {
	return s.write(ctx, op, models.ActionCreate, t, models.Changes{
		Before: models.Snapshot{},
		After:  snapshot.Redact(t.Snapshot),
	})
}

// RecordUpdate records a change of t from before to after. t carries the
// updated entity; changed fields are computed on the redacted snapshots.
func (s *AuditService) RecordUpdate(
	ctx context.Context, op *models.Operator, t models.Target, before, after models.Snapshot,
) (*models.AuditRecord, error) {
	rb := snapshot.Redact(before)
	ra := snapshot.Redact(after)

	return s.write(ctx, op, models.ActionUpdate, t, models.Changes{
		Before:        rb,
		After:         ra,
		ChangedFields: snapshot.ChangedFields(rb, ra),
	})
}

// RecordDelete records the removal of t. The record keeps the redacted
// last-known state as its before-state.
func (s *AuditService) RecordDelete(
	ctx context.Context, op *models.Operator, t models.Target,
) (*models.AuditRecord, error) {
	return s.write(ctx, op, models.ActionDelete, t, models.Changes{
		Before: snapshot.Redact(t.Snapshot),
		After:  models.Snapshot{},
	})
}

func (s *AuditService) write(
	ctx context.Context, op *models.Operator, action models.Action, t models.Target, changes models.Changes,
) (*models.AuditRecord, error) {
	rec := &models.AuditRecord{
		Action:       action,
		TargetID:     t.ID,
		TargetModel:  t.Model,
		OperatorInfo: models.SystemOperator,
		TargetInfo:   t.Model.Project(t.Snapshot),
		Changes:      changes,
		CreatedAt:    s.now().UTC(),
	}

	if op != nil {
		id := op.ID
		rec.OperatorID = &id
		rec.OperatorInfo = op.Info()
	}

	fields := logrus.Fields{
		"action":       action,
		"target_model": t.Model,
		"target_id":    t.ID,
	}

	if err := rec.Validate(); err != nil {
		metrics.AuditWritesTotal.WithLabelValues(string(action), string(t.Model), metrics.OutcomeInvalid).Inc()
		s.log.WithFields(fields).WithError(err).Warn("audit.rejected")

		return nil, &models.AuditWriteError{
			Action:      action,
			TargetModel: t.Model,
			Err:         fmt.Errorf("%w: %w", models.ErrInvalidAuditRecord, err),
		}
	}

	if err := s.store.InsertAudit(ctx, rec); err != nil {
		metrics.AuditWritesTotal.WithLabelValues(string(action), string(t.Model), metrics.OutcomeFailed).Inc()
		s.log.WithFields(fields).WithError(err).Error("audit.write_failed")

		return nil, &models.AuditWriteError{Action: action, TargetModel: t.Model, Err: err}
	}

	metrics.AuditWritesTotal.WithLabelValues(string(action), string(t.Model), metrics.OutcomeOK).Inc()

	return rec, nil
}

// Search returns one page of audit records matching q, most recent first
// unless q says otherwise.
func (s *AuditService) Search(ctx context.Context, q models.AuditQuery) (*models.AuditPage, error) {
	start := time.Now()
	views, total, err := s.store.SearchAudit(ctx, q)
	metrics.AuditSearchDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		return nil, fmt.Errorf("searching audit log: %w", err)
	}

	if views == nil {
		views = []models.AuditView{}
	}

	return &models.AuditPage{
		Data:         views,
		TotalItems:   total,
		ItemsPerPage: q.ItemsPerPage,
		CurrentPage:  q.Page,
	}, nil
}

// Get returns a single audit record with its operator summary.
func (s *AuditService) Get(ctx context.Context, id string) (*models.AuditView, error) {
	rid, err := uuid.Parse(id)
	if err != nil {
		return nil, &models.ValidationError{Field: "id", Message: "invalid audit record id"}
	}

	return s.store.GetAudit(ctx, rid)
}
