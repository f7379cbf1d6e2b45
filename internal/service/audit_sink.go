package service

import (
	"context"

	"github.com/ginternational/backoffice/internal/domain"
	"github.com/ginternational/backoffice/internal/models"
)

// Compile-time check: *SyncAuditSink must satisfy domain.AuditSink.
var _ domain.AuditSink = (*SyncAuditSink)(nil)

// SyncAuditSink writes each audit record before returning and hands any
// *models.AuditWriteError back to the domain caller.
type SyncAuditSink struct {
	recorder domain.AuditRecorder
}

// NewSyncAuditSink creates a SyncAuditSink.
func NewSyncAuditSink(recorder domain.AuditRecorder) *SyncAuditSink {
	return &SyncAuditSink{recorder: recorder}
}

// Created records a CREATE entry for t.
func (s *SyncAuditSink) Created(ctx context.Context, op *models.Operator, t models.Target) error {
	_, err := s.recorder.RecordCreate(ctx, op, t)
	return err
}

// Updated records an UPDATE entry for t.
func (s *SyncAuditSink) Updated(ctx context.Context, op *models.Operator, t models.Target, before, after models.Snapshot) error {
	_, err := s.recorder.RecordUpdate(ctx, op, t, before, after)
	return err
}

// Deleted records a DELETE entry for t.
func (s *SyncAuditSink) Deleted(ctx context.Context, op *models.Operator, t models.Target) error {
	_, err := s.recorder.RecordDelete(ctx, op, t)
	return err
}
