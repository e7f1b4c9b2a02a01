package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/loveletters/internal/dbx"
	"github.com/dmitrijs2005/loveletters/internal/server/repositories/letters"
	"github.com/dmitrijs2005/loveletters/internal/server/repositories/users"
)

type RepositoryManager interface {
	RunMigrations(context.Context, *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Letters(db dbx.DBTX) letters.Repository
}
