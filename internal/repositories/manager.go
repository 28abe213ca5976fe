package repositories

import (
	"github.com/dmitrijs2005/usermgmt/internal/dbx"
	"github.com/dmitrijs2005/usermgmt/internal/repositories/users"
)

// RepositoryManager vends repositories bound to a specific database handle,
// letting services run the same repository code against *sql.DB or a
// transaction.
type RepositoryManager interface {
	Users(db dbx.DBTX) users.Repository
}

type Manager struct{}

func NewManager() *Manager { return &Manager{} }

// Users returns a users.Repository bound to the provided DBTX.
func (m *Manager) Users(db dbx.DBTX) users.Repository {
	return users.NewPostgresRepository(db)
}
