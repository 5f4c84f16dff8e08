package tasks

import (
	"context"
	"database/sql"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

const (
	defaultTasksLimit = 10
	maxTasksLimit     = 100
)

// TasksFilter narrows an owner-scoped listing. Zero values mean "no filter".
type TasksFilter struct {
	Status *TaskStatus
	Search string
	Limit  int
	Offset int
}

// TaskPatch is a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title   *string
	Status  *TaskStatus
	EndDate *time.Time
}

// IsZero reports whether the patch carries no fields at all.
func (p TaskPatch) IsZero() bool {
	return p.Title == nil && p.Status == nil && p.EndDate == nil
}

// Tasks is the persistence contract for tasks. Every operation is scoped by
// owner id; a non-matching owner yields not-found, never forbidden.
type Tasks interface {
	Create(ctx context.Context, record *Task) (*Task, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Task) (*Task, error)

	ListByOwner(ctx context.Context, ownerID int64, filter TasksFilter) ([]*Task, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*Task, error)

	UpdateOwned(ctx context.Context, id, ownerID int64, patch TaskPatch) (*Task, error)
	UpdateOwnedTx(ctx context.Context, tx bun.IDB, id, ownerID int64, patch TaskPatch) (*Task, error)

	DeleteOwned(ctx context.Context, id, ownerID int64) error
	DeleteOwnedTx(ctx context.Context, tx bun.IDB, id, ownerID int64) error
}

type tasksRepo struct {
	db *bun.DB
}

var _ Tasks = (*tasksRepo)(nil)

func NewTasksRepository(db *bun.DB) Tasks {
	return &tasksRepo{db: db}
}

func (a *tasksRepo) Create(ctx context.Context, record *Task) (*Task, error) {
	return a.CreateTx(ctx, a.db, record)
}

func (a *tasksRepo) CreateTx(ctx context.Context, tx bun.IDB, record *Task) (*Task, error) {
	record.Title = strings.TrimSpace(record.Title)

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "task insert failed")
	}

	return record, nil
}

func (a *tasksRepo) ListByOwner(ctx context.Context, ownerID int64, filter TasksFilter) ([]*Task, error) {
	records := []*Task{}

	q := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.owner_id = ?", ownerID)

	if filter.Status != nil {
		q = q.Where("?TableAlias.status = ?", *filter.Status)
	}

	if search := strings.TrimSpace(filter.Search); search != "" {
		q = q.Where("lower(?TableAlias.title) LIKE ?", "%"+strings.ToLower(search)+"%")
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultTasksLimit
	}
	if limit > maxTasksLimit {
		limit = maxTasksLimit
	}

	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	err := q.Order("id ASC").
		Limit(limit).
		Offset(offset).
		Scan(ctx)

	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "task list failed")
	}

	return records, nil
}

func (a *tasksRepo) GetByIDAndOwner(ctx context.Context, id, ownerID int64) (*Task, error) {
	return a.getByIDAndOwnerTx(ctx, a.db, id, ownerID)
}

func (a *tasksRepo) getByIDAndOwnerTx(ctx context.Context, tx bun.IDB, id, ownerID int64) (*Task, error) {
	record := &Task{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.owner_id = ?", ownerID).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, ErrTaskNotFound
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "task select failed")
	}

	return record, nil
}

// UpdateOwned applies a partial update to an owned task and returns the
// refreshed record. Racing updates resolve last-write-wins on the single
// UPDATE statement.
func (a *tasksRepo) UpdateOwned(ctx context.Context, id, ownerID int64, patch TaskPatch) (*Task, error) {
	return a.UpdateOwnedTx(ctx, a.db, id, ownerID, patch)
}

func (a *tasksRepo) UpdateOwnedTx(ctx context.Context, tx bun.IDB, id, ownerID int64, patch TaskPatch) (*Task, error) {
	if patch.IsZero() {
		return nil, ErrEmptyUpdate
	}

	q := tx.NewUpdate().
		Model((*Task)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.owner_id = ?", ownerID).
		Set("updated_at = CURRENT_TIMESTAMP")

	if patch.Title != nil {
		q = q.Set("title = ?", strings.TrimSpace(*patch.Title))
	}

	if patch.Status != nil {
		q = q.Set("status = ?", *patch.Status)
	}

	if patch.EndDate != nil {
		q = q.Set("end_date = ?", *patch.EndDate)
	}

	res, err := q.Exec(ctx)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "task update failed")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return nil, ErrTaskNotFound
	}

	return a.getByIDAndOwnerTx(ctx, tx, id, ownerID)
}

// DeleteOwned removes an owned task. Zero affected rows means the task does
// not exist for that owner, which is surfaced as not-found.
func (a *tasksRepo) DeleteOwned(ctx context.Context, id, ownerID int64) error {
	return a.DeleteOwnedTx(ctx, a.db, id, ownerID)
}

func (a *tasksRepo) DeleteOwnedTx(ctx context.Context, tx bun.IDB, id, ownerID int64) error {
	res, err := tx.NewDelete().
		Model((*Task)(nil)).
		Where("?TableAlias.id = ?", id).
		Where("?TableAlias.owner_id = ?", ownerID).
		Exec(ctx)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "task delete failed")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return ErrTaskNotFound
	}

	return nil
}
