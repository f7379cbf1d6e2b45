// Package domain defines the canonical service interfaces shared across API
// layers (REST handlers, background workers, client). Consumers should depend
// on these interfaces rather than re-declaring equivalent ones.
package domain

import (
	"context"

	"github.com/google/uuid"

	"github.com/ginternational/backoffice/internal/models"
)

// AuditRecorder builds and persists exactly one audit record per call.
type AuditRecorder interface {
	RecordCreate(ctx context.Context, op *models.Operator, t models.Target) (*models.AuditRecord, error)
	RecordUpdate(ctx context.Context, op *models.Operator, t models.Target, before, after models.Snapshot) (*models.AuditRecord, error)
	RecordDelete(ctx context.Context, op *models.Operator, t models.Target) (*models.AuditRecord, error)
}

// AuditQuerier answers audit trail queries.
type AuditQuerier interface {
	Search(ctx context.Context, q models.AuditQuery) (*models.AuditPage, error)
	Get(ctx context.Context, id string) (*models.AuditView, error)
}

// AuditService combines recording and querying of the audit trail.
type AuditService interface {
	AuditRecorder
	AuditQuerier
}

// AuditSink is the port domain mutations report through after they succeed.
// Whether a failure reaches the caller depends on the implementation chosen
// at startup: the synchronous sink returns it, the queued sink only logs it.
type AuditSink interface {
	Created(ctx context.Context, op *models.Operator, t models.Target) error
	Updated(ctx context.Context, op *models.Operator, t models.Target, before, after models.Snapshot) error
	Deleted(ctx context.Context, op *models.Operator, t models.Target) error
}

// UserService defines back-office account management.
type UserService interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	CreateUser(ctx context.Context, op *models.Operator, req models.CreateUserRequest) (*models.User, error)
	UpdateUser(ctx context.Context, op *models.Operator, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error)
	DeleteUser(ctx context.Context, op *models.Operator, id uuid.UUID) error
}
