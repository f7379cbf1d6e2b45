package service

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/ginternational/backoffice/internal/models"
)

// mockAuditStore records inserted records and returns configured responses.
type mockAuditStore struct {
	mu      sync.Mutex
	records []models.AuditRecord

	insertErr   error
	searchAudit func(ctx context.Context, q models.AuditQuery) ([]models.AuditView, int, error)
	getAudit    func(ctx context.Context, id uuid.UUID) (*models.AuditView, error)
}

func (m *mockAuditStore) InsertAudit(_ context.Context, rec *models.AuditRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.insertErr != nil {
		return m.insertErr
	}

	rec.ID = uuid.New()
	m.records = append(m.records, *rec)

	return nil
}

func (m *mockAuditStore) SearchAudit(ctx context.Context, q models.AuditQuery) ([]models.AuditView, int, error) {
	return m.searchAudit(ctx, q)
}

func (m *mockAuditStore) GetAudit(ctx context.Context, id uuid.UUID) (*models.AuditView, error) {
	return m.getAudit(ctx, id)
}

func (m *mockAuditStore) getRecords() []models.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]models.AuditRecord, len(m.records))
	copy(out, m.records)

	return out
}

// auditCall captures one call to mockRecorder.
type auditCall struct {
	Action   models.Action
	Operator *models.Operator
	Target   models.Target
	Before   models.Snapshot
	After    models.Snapshot
}

// mockRecorder is a domain.AuditRecorder that records calls.
type mockRecorder struct {
	mu    sync.Mutex
	calls []auditCall
	err   error
}

func (m *mockRecorder) record(c auditCall) (*models.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls = append(m.calls, c)
	if m.err != nil {
		return nil, m.err
	}

	return &models.AuditRecord{ID: uuid.New(), Action: c.Action, TargetID: c.Target.ID, TargetModel: c.Target.Model}, nil
}

func (m *mockRecorder) RecordCreate(_ context.Context, op *models.Operator, t models.Target) (*models.AuditRecord, error) {
	return m.record(auditCall{Action: models.ActionCreate, Operator: op, Target: t})
}

func (m *mockRecorder) RecordUpdate(_ context.Context, op *models.Operator, t models.Target, before, after models.Snapshot) (*models.AuditRecord, error) {
	return m.record(auditCall{Action: models.ActionUpdate, Operator: op, Target: t, Before: before, After: after})
}

func (m *mockRecorder) RecordDelete(_ context.Context, op *models.Operator, t models.Target) (*models.AuditRecord, error) {
	return m.record(auditCall{Action: models.ActionDelete, Operator: op, Target: t})
}

func (m *mockRecorder) getCalls() []auditCall {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]auditCall, len(m.calls))
	copy(out, m.calls)

	return out
}
