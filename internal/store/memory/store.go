// Package memory provides in-process implementations of the audit and user
// stores. Query semantics match the Postgres stores; data does not survive
// a restart.
package memory

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ginternational/backoffice/internal/models"
)

// Store holds audit records and user accounts behind one lock so that
// searches can join operators consistently.
type Store struct {
	mu     sync.RWMutex
	audits []models.AuditRecord
	users  map[uuid.UUID]models.User
	now    func() time.Time
}

// New creates an empty Store.
func New() *Store {
	return &Store{users: make(map[uuid.UUID]models.User), now: time.Now}
}

// Clear drops all data.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.audits = nil
	s.users = make(map[uuid.UUID]models.User)
}
