package users

import (
	"context"
)

// Repository is the storage contract the credential service depends on.
// Create must be atomic with respect to the email/username uniqueness
// checks: implementations surface a constraint violation as
// common.ErrorConflict rather than letting the service race a lookup
// against an insert. Lookups return common.ErrorNotFound for missing rows.
type Repository interface {
	Create(ctx context.Context, user *User) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
}
