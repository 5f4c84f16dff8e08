package tasks

import (
	"context"
	"database/sql"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	"github.com/uptrace/bun"
)

// Users is the persistence contract for identities.
type Users interface {
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error)

	Register(ctx context.Context, email, passwordHash string) (*User, error)
	RegisterTx(ctx context.Context, tx bun.IDB, email, passwordHash string) (*User, error)

	Confirm(ctx context.Context, email string) error
	ConfirmTx(ctx context.Context, tx bun.IDB, email string) error
}

type users struct {
	db *bun.DB
}

var (
	_ Users            = (*users)(nil)
	_ IdentityProvider = (*users)(nil)
)

func NewUsersRepository(db *bun.DB) Users {
	return &users{db: db}
}

func (a *users) GetByEmail(ctx context.Context, email string) (*User, error) {
	return a.GetByEmailTx(ctx, a.db, email)
}

func (a *users) GetByEmailTx(ctx context.Context, tx bun.IDB, email string) (*User, error) {
	record := &User{}

	err := tx.NewSelect().
		Model(record).
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if goerrors.Is(err, sql.ErrNoRows) {
			return nil, goerrors.New("identity not found", goerrors.CategoryNotFound).
				WithCode(goerrors.CodeNotFound).
				WithMetadata(map[string]any{"email": email})
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user select failed")
	}

	return record, nil
}

func (a *users) Register(ctx context.Context, email, passwordHash string) (*User, error) {
	return a.RegisterTx(ctx, a.db, email, passwordHash)
}

func (a *users) RegisterTx(ctx context.Context, tx bun.IDB, email, passwordHash string) (*User, error) {
	record := &User{
		Email:        normalizeEmail(email),
		PasswordHash: passwordHash,
	}

	if _, err := tx.NewInsert().Model(record).Exec(ctx); err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "user insert failed")
	}

	return record, nil
}

// Confirm flips the confirmed flag for the given email. Confirming an
// already-confirmed account is a no-op; racing confirmations resolve on the
// database's per-statement atomicity.
func (a *users) Confirm(ctx context.Context, email string) error {
	return a.ConfirmTx(ctx, a.db, email)
}

func (a *users) ConfirmTx(ctx context.Context, tx bun.IDB, email string) error {
	res, err := tx.NewUpdate().
		Model((*User)(nil)).
		Set("confirmed = ?", true).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("?TableAlias.email = ?", normalizeEmail(email)).
		Exec(ctx)

	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "user confirm failed")
	}

	if rows, err := res.RowsAffected(); err == nil && rows == 0 {
		return goerrors.New("identity not found", goerrors.CategoryNotFound).
			WithCode(goerrors.CodeNotFound).
			WithMetadata(map[string]any{"email": email})
	}

	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") ||
		strings.Contains(msg, "duplicate key value")
}
