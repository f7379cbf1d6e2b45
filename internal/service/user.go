package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"github.com/ginternational/backoffice/internal/domain"
	"github.com/ginternational/backoffice/internal/models"
)

// UserStore is the data-access interface UserService depends on.
type UserStore interface {
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
	// CreateUser inserts u, assigning its ID and timestamps.
	CreateUser(ctx context.Context, u *models.User) error
	// UpdateUser overwrites the stored account with u, refreshing UpdatedAt.
	UpdateUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uuid.UUID) error
	// MaxUserID returns the highest assigned employee number, or "" when none exist.
	MaxUserID(ctx context.Context) (string, error)
	// MaxAdminID returns the highest assigned administrator number, or "" when none exist.
	MaxAdminID(ctx context.Context) (string, error)
}

// Compile-time check: *UserService must satisfy domain.UserService.
var _ domain.UserService = (*UserService)(nil)

// UserService manages back-office accounts and reports every mutation to
// the audit sink.
type UserService struct {
	store UserStore
	audit domain.AuditSink
	log   *logrus.Logger
	cost  int
}

// NewUserService creates a UserService.
func NewUserService(store UserStore, audit domain.AuditSink, log *logrus.Logger) *UserService {
	return &UserService{store: store, audit: audit, log: log, cost: bcrypt.DefaultCost}
}

// GetUser returns a single account by ID (pass-through).
func (s *UserService) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.store.GetUser(ctx, id)
}

// CreateUser hashes the password, assigns account numbers and stores the
// new account. The returned user carries no password.
func (s *UserService) CreateUser(
	ctx context.Context, op *models.Operator, req models.CreateUserRequest,
) (*models.User, error) {
	req.Normalize()

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	u := &models.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: string(hash),
		IsActive: true,
		Role:     req.RoleOrDefault(),
		Note:     req.Note,
		Avatar:   req.Avatar,
	}

	current, err := s.store.MaxUserID(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading employee numbers: %w", err)
	}

	if u.UserID, err = models.NextUserID(current); err != nil {
		return nil, err
	}

	if err := s.assignAdminID(ctx, u); err != nil {
		return nil, err
	}

	if err := s.store.CreateUser(ctx, u); err != nil {
		return nil, err
	}

	t, err := models.TargetOf(*u)
	if err != nil {
		return nil, err
	}

	if err := s.audit.Created(ctx, op, t); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": u.ID, "number": u.UserID}).Info("user.create")

	out := u.Public()

	return &out, nil
}

// UpdateUser applies a partial update. Passwords are never changed here.
func (s *UserService) UpdateUser(
	ctx context.Context, op *models.Operator, id uuid.UUID, req models.UpdateUserRequest,
) (*models.User, error) {
	req.StripPassword()

	current, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}

	before, err := models.TargetOf(*current)
	if err != nil {
		return nil, err
	}

	updated := *current
	req.Apply(&updated)

	if err := s.assignAdminID(ctx, &updated); err != nil {
		return nil, err
	}

	if err := s.store.UpdateUser(ctx, &updated); err != nil {
		return nil, err
	}

	after, err := models.TargetOf(updated)
	if err != nil {
		return nil, err
	}

	if err := s.audit.Updated(ctx, op, after, before.Snapshot, after.Snapshot); err != nil {
		return nil, err
	}

	out := updated.Public()

	return &out, nil
}

// DeleteUser removes an account. Operators cannot delete themselves.
func (s *UserService) DeleteUser(ctx context.Context, op *models.Operator, id uuid.UUID) error {
	if op != nil && op.ID == id {
		return &models.ValidationError{Field: "id", Message: "cannot delete your own account"}
	}

	u, err := s.store.GetUser(ctx, id)
	if err != nil {
		return err
	}

	t, err := models.TargetOf(*u)
	if err != nil {
		return err
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return err
	}

	if err := s.audit.Deleted(ctx, op, t); err != nil {
		return err
	}

	s.log.WithField("user_id", id).Info("user.delete")

	return nil
}

// assignAdminID gives administrators without a number the next free one.
func (s *UserService) assignAdminID(ctx context.Context, u *models.User) error {
	if u.Role != models.RoleAdmin || u.AdminID != "" {
		return nil
	}

	current, err := s.store.MaxAdminID(ctx)
	if err != nil {
		return fmt.Errorf("reading administrator numbers: %w", err)
	}

	u.AdminID, err = models.NextAdminID(current)

	return err
}

// IsAuditFailure reports whether err came from the audit sink rather than
// from the mutation itself.
func IsAuditFailure(err error) bool {
	var we *models.AuditWriteError
	return errors.As(err, &we)
}
