package repomanager

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/goinglive/internal/dbx"
	"github.com/dmitrijs2005/goinglive/internal/server/repositories/courses"
	"github.com/dmitrijs2005/goinglive/internal/server/repositories/media"
	"github.com/dmitrijs2005/goinglive/internal/server/repositories/users"
)

// RepositoryManager vends repositories bound to a DB handle or transaction.
type RepositoryManager interface {
	RunMigrations(ctx context.Context, db *sql.DB) error
	Users(db dbx.DBTX) users.Repository
	Courses(db dbx.DBTX) courses.Repository
	Media(db dbx.DBTX) media.Repository
}
