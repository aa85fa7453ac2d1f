package users

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spolyakov/passport/internal/common"
)

// InMemoryRepository is a map-backed Repository used in development mode and
// tests. It enforces the same email/username uniqueness semantics as the
// Postgres implementation, atomically under one mutex.
type InMemoryRepository struct {
	mu      sync.RWMutex
	byID    map[string]*User
	byEmail map[string]string
	byName  map[string]string
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		byID:    make(map[string]*User),
		byEmail: make(map[string]string),
		byName:  make(map[string]string),
	}
}

func (r *InMemoryRepository) Create(_ context.Context, user *User) (*User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return nil, common.ErrorConflict
	}
	if _, exists := r.byName[user.Username]; exists {
		return nil, common.ErrorConflict
	}

	now := time.Now()
	stored := *user
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.byID[stored.ID] = &stored
	r.byEmail[stored.Email] = stored.ID
	r.byName[stored.Username] = stored.ID

	out := stored
	return &out, nil
}

func (r *InMemoryRepository) FindByEmail(_ context.Context, email string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byEmail[email]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *r.byID[id]
	return &out, nil
}

func (r *InMemoryRepository) FindByID(_ context.Context, id string) (*User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	out := *user
	return &out, nil
}

// SetActive flips the active flag; used by tests to simulate accounts
// deactivated after token issuance.
func (r *InMemoryRepository) SetActive(id string, active bool) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.byID[id]
	if !ok {
		return false
	}
	user.Active = active
	user.UpdatedAt = time.Now()
	return true
}
