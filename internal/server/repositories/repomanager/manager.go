// Package repomanager provides a factory for repository instances bound to
// either a database handle or an open transaction.
package repomanager

import (
	"context"
	"database/sql"

	"github.com/bookdelivery/backend/internal/dbx"
	"github.com/bookdelivery/backend/internal/server/repositories/books"
	"github.com/bookdelivery/backend/internal/server/repositories/orders"
	"github.com/bookdelivery/backend/internal/server/repositories/refreshtokens"
	"github.com/bookdelivery/backend/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	RefreshTokens(db dbx.DBTX) refreshtokens.Repository
	Books(db dbx.DBTX) books.Repository
	Orders(db dbx.DBTX) orders.Repository
}
