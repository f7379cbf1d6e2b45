package memory

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ginternational/backoffice/internal/models"
)

// GetUser returns a single account by ID.
func (s *Store) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, models.ErrUserNotFound
	}

	return &u, nil
}

// CreateUser inserts u, assigning its ID and timestamps.
func (s *Store) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.conflicts(u) {
		return models.ErrDuplicateKey
	}

	u.ID = uuid.New()
	u.CreatedAt = s.now().UTC()
	u.UpdatedAt = u.CreatedAt
	s.users[u.ID] = *u

	return nil
}

// UpdateUser overwrites the stored account with u.
func (s *Store) UpdateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[u.ID]; !ok {
		return models.ErrUserNotFound
	}

	if s.conflicts(u) {
		return models.ErrDuplicateKey
	}

	u.UpdatedAt = s.now().UTC()
	s.users[u.ID] = *u

	return nil
}

// DeleteUser removes an account.
func (s *Store) DeleteUser(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return models.ErrUserNotFound
	}

	delete(s.users, id)

	return nil
}

// MaxUserID returns the highest employee number in use.
func (s *Store) MaxUserID(_ context.Context) (string, error) {
	return s.maxNumber(func(u models.User) string { return u.UserID }), nil
}

// MaxAdminID returns the highest administrator number in use.
func (s *Store) MaxAdminID(_ context.Context) (string, error) {
	return s.maxNumber(func(u models.User) string { return u.AdminID }), nil
}

func (s *Store) maxNumber(field func(models.User) string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		highest string
		seq     = -1
	)

	for _, u := range s.users {
		v := strings.ToUpper(field(u))
		if n, ok := models.AccountSeq(v); ok && n > seq {
			highest, seq = v, n
		}
	}

	return highest
}

// conflicts reports whether u collides with another account on a unique field.
// Callers hold s.mu.
func (s *Store) conflicts(u *models.User) bool {
	for id, other := range s.users {
		if id == u.ID {
			continue
		}

		if strings.EqualFold(other.Email, u.Email) ||
			(u.UserID != "" && strings.EqualFold(other.UserID, u.UserID)) ||
			(u.AdminID != "" && strings.EqualFold(other.AdminID, u.AdminID)) {
			return true
		}
	}

	return false
}
