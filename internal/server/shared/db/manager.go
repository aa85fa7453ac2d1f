// Package db wires storage backends to the repositories the services
// consume. The Postgres manager owns the *sql.DB and runs migrations; the
// in-memory manager backs development mode and tests.
package db

import (
	"context"
	"database/sql"

	"github.com/spolyakov/passport/internal/server/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context) error
	Conn() *sql.DB
	Users() users.Repository
}
