package api_test

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ginternational/backoffice/internal/models"
)

// mockAuditQuerier implements domain.AuditQuerier for testing.
type mockAuditQuerier struct {
	searchFn func(ctx context.Context, q models.AuditQuery) (*models.AuditPage, error)
	getFn    func(ctx context.Context, id string) (*models.AuditView, error)
}

func (m *mockAuditQuerier) Search(ctx context.Context, q models.AuditQuery) (*models.AuditPage, error) {
	return m.searchFn(ctx, q)
}

func (m *mockAuditQuerier) Get(ctx context.Context, id string) (*models.AuditView, error) {
	return m.getFn(ctx, id)
}

// mockUserService implements domain.UserService for testing.
type mockUserService struct {
	getFn    func(ctx context.Context, id uuid.UUID) (*models.User, error)
	createFn func(ctx context.Context, op *models.Operator, req models.CreateUserRequest) (*models.User, error)
	updateFn func(ctx context.Context, op *models.Operator, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error)
	deleteFn func(ctx context.Context, op *models.Operator, id uuid.UUID) error
}

func (m *mockUserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.getFn(ctx, id)
}

func (m *mockUserService) CreateUser(ctx context.Context, op *models.Operator, req models.CreateUserRequest) (*models.User, error) {
	return m.createFn(ctx, op, req)
}

func (m *mockUserService) UpdateUser(ctx context.Context, op *models.Operator, id uuid.UUID, req models.UpdateUserRequest) (*models.User, error) {
	return m.updateFn(ctx, op, id, req)
}

func (m *mockUserService) DeleteUser(ctx context.Context, op *models.Operator, id uuid.UUID) error {
	return m.deleteFn(ctx, op, id)
}

// mockProbe implements api.DatabaseProbe for testing.
type mockProbe struct {
	pingErr error
	version int64
}

func (m *mockProbe) HealthCheck(context.Context) error {
	return m.pingErr
}

func (m *mockProbe) QueryRow(context.Context, string, ...any) pgx.Row {
	return versionRow{version: m.version}
}

type versionRow struct{ version int64 }

func (r versionRow) Scan(dest ...any) error {
	if len(dest) != 1 {
		return errors.New("unexpected scan arity")
	}

	p, ok := dest[0].(*int64)
	if !ok {
		return errors.New("unexpected scan target")
	}
	*p = r.version

	return nil
}
