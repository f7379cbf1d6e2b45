package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ginternational/backoffice/internal/models"
)

// UserStore provides data access for the users table.
type UserStore struct {
	Base
}

// NewUserStore creates a UserStore.
func NewUserStore(base Base) *UserStore {
	return &UserStore{Base: base}
}

const userColumns = `id, name, email, password, user_id, admin_id,
	is_active, role, note, avatar, created_at, updated_at`

// GetUser returns a single account by ID.
func (s *UserStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	u, err := scanUser(s.Pool.QueryRow(ctx, "SELECT "+userColumns+" FROM users WHERE id = $1", id).Scan)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrUserNotFound
		}

		return nil, fmt.Errorf("getting user: %w", err)
	}

	return u, nil
}

// CreateUser inserts u, assigning its ID and timestamps.
func (s *UserStore) CreateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := s.Pool.QueryRow(ctx, `
		INSERT INTO users (name, email, password, user_id, admin_id, is_active, role, note, avatar)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at`,
		u.Name, u.Email, u.Password, nullable(u.UserID), nullable(u.AdminID),
		u.IsActive, int16(u.Role), u.Note, u.Avatar,
	).Scan(&u.ID, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		return mapWriteError(err, "inserting user")
	}

	return nil
}

// UpdateUser overwrites the stored account with u. The password column is
// never touched here.
func (s *UserStore) UpdateUser(ctx context.Context, u *models.User) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := s.Pool.QueryRow(ctx, `
		UPDATE users SET name = $2, email = $3, user_id = $4, admin_id = $5,
			is_active = $6, role = $7, note = $8, avatar = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`,
		u.ID, u.Name, u.Email, nullable(u.UserID), nullable(u.AdminID),
		u.IsActive, int16(u.Role), u.Note, u.Avatar,
	).Scan(&u.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.ErrUserNotFound
		}

		return mapWriteError(err, "updating user")
	}

	return nil
}

// DeleteUser removes an account. Audit records keep their operator id.
func (s *UserStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM users WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting user: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}

	return nil
}

// MaxUserID returns the highest employee number in use, or "".
func (s *UserStore) MaxUserID(ctx context.Context) (string, error) {
	return s.maxNumber(ctx, "user_id")
}

// MaxAdminID returns the highest administrator number in use, or "".
func (s *UserStore) MaxAdminID(ctx context.Context) (string, error) {
	return s.maxNumber(ctx, "admin_id")
}

// maxNumber reads the value of column with the greatest numeric suffix, so
// G10000 ranks above G9999. column is a trusted identifier.
func (s *UserStore) maxNumber(ctx context.Context, column string) (string, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var v string

	query := fmt.Sprintf(`SELECT upper(%[1]s) FROM users
		WHERE %[1]s ~ '^[A-Za-z][0-9]+$'
		ORDER BY substring(%[1]s from 2)::numeric DESC
		LIMIT 1`, column)
	if err := s.Pool.QueryRow(ctx, query).Scan(&v); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", nil
		}

		return "", fmt.Errorf("reading max %s: %w", column, err)
	}

	return v, nil
}

func scanUser(scan func(dest ...any) error) (*models.User, error) {
	var (
		u       models.User
		userID  *string
		adminID *string
		role    int16
	)

	err := scan(
		&u.ID, &u.Name, &u.Email, &u.Password, &userID, &adminID,
		&u.IsActive, &role, &u.Note, &u.Avatar, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.UserID = deref(userID)
	u.AdminID = deref(adminID)
	u.Role = models.Role(role)

	return &u, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
