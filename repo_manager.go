package tasks

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Users() Users
	Tasks() Tasks
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	CreateTables(ctx context.Context) error
	Validate() error
	MustValidate()
}

type mngr struct {
	db    *bun.DB
	users Users
	tasks Tasks
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:    db,
		users: NewUsersRepository(db),
		tasks: NewTasksRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.users == nil {
		return errors.New("repository users should be initialized")
	}

	if m.tasks == nil {
		return errors.New("repository tasks should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

// CreateTables bootstraps the sqlite schema. The status check constraint is
// mirrored in code by TaskStatus.Validate at the model boundary.
func (m mngr) CreateTables(ctx context.Context) error {
	if _, err := m.db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx); err != nil {
		return err
	}

	if _, err := m.db.NewCreateTable().
		Model((*Task)(nil)).
		IfNotExists().
		ForeignKey(`("owner_id") REFERENCES "users" ("id")`).
		Exec(ctx); err != nil {
		return err
	}

	if _, err := m.db.NewCreateIndex().
		Model((*Task)(nil)).
		IfNotExists().
		Index("idx_tasks_owner_status").
		Column("owner_id", "status").
		Exec(ctx); err != nil {
		return err
	}

	return nil
}

func (m mngr) Users() Users {
	return m.users
}

func (m mngr) Tasks() Tasks {
	return m.tasks
}
