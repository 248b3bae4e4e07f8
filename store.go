package accounts

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/goliatone/go-errors"
	"github.com/jackc/pgerrcode"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

type identityStore struct {
	db *bun.DB
}

var _ IdentityStore = (*identityStore)(nil)

// NewIdentityStore returns a bun-backed IdentityStore. Uniqueness on
// email and username is enforced by the storage constraints; callers
// treat the duplicate signal surfaced here as authoritative instead of
// pre-checking for collisions.
func NewIdentityStore(db *bun.DB) IdentityStore {
	return &identityStore{db: db}
}

func (s *identityStore) FindByEmail(ctx context.Context, email string) (*User, error) {
	user := &User{}

	err := s.db.NewSelect().
		Model(user).
		Where("?TableAlias.email = ?", email).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up identity by email")
	}

	return user, nil
}

func (s *identityStore) FindByID(ctx context.Context, id int64) (*User, error) {
	user := &User{}

	err := s.db.NewSelect().
		Model(user).
		Where("?TableAlias.id = ?", id).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrIdentityNotFound
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to look up identity by id")
	}

	return user, nil
}

func (s *identityStore) Create(ctx context.Context, user *User) (*User, error) {
	_, err := s.db.NewInsert().
		Model(user).
		Returning("*").
		Exec(ctx)

	if err != nil {
		if dup := translateUniqueViolation(err); dup != nil {
			return nil, dup
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to create identity")
	}

	return user, nil
}

func (s *identityStore) Update(ctx context.Context, id int64, patch UserPatch) (*User, error) {
	if patch.IsZero() {
		return s.FindByID(ctx, id)
	}

	q := s.db.NewUpdate().
		Model((*User)(nil)).
		Where("?TableAlias.id = ?", id)

	if patch.Email != nil {
		q = q.Set("email = ?", *patch.Email)
	}
	if patch.Username != nil {
		q = q.Set("username = ?", *patch.Username)
	}
	if patch.DisplayName != nil {
		q = q.Set("display_name = ?", *patch.DisplayName)
	}
	if patch.PasswordHash != nil {
		q = q.Set("password_hash = ?", *patch.PasswordHash)
	}
	q = q.Set("updated_at = ?", time.Now())

	res, err := q.Exec(ctx)
	if err != nil {
		if dup := translateUniqueViolation(err); dup != nil {
			return nil, dup
		}
		return nil, errors.Wrap(err, errors.CategoryInternal, "failed to update identity")
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrIdentityNotFound
	}

	return s.FindByID(ctx, id)
}

func (s *identityStore) Delete(ctx context.Context, id int64) error {
	res, err := s.db.NewDelete().
		Model((*User)(nil)).
		Where("id = ?", id).
		Exec(ctx)

	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to delete identity")
	}

	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrIdentityNotFound
	}

	return nil
}

// CreateSchema creates the users table when it does not exist yet.
func CreateSchema(ctx context.Context, db *bun.DB) error {
	_, err := db.NewCreateTable().
		Model((*User)(nil)).
		IfNotExists().
		Exec(ctx)
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to create users schema")
	}
	return nil
}

// translateUniqueViolation maps driver-specific unique-constraint
// errors to the storage-neutral DuplicateFieldError. Postgres reports
// SQLSTATE 23505 with the constraint name; the sqlite shim reports a
// "UNIQUE constraint failed: users.<column>" message. Anything else
// returns nil and propagates as an infrastructure fault.
func translateUniqueViolation(err error) *DuplicateFieldError {
	if err == nil {
		return nil
	}

	var pgErr pgdriver.Error
	if errors.As(err, &pgErr) {
		if pgErr.Field('C') != pgerrcode.UniqueViolation {
			return nil
		}
		return &DuplicateFieldError{Field: duplicateFieldName(pgErr.Field('n'))}
	}

	msg := err.Error()
	if idx := strings.Index(msg, "UNIQUE constraint failed:"); idx >= 0 {
		return &DuplicateFieldError{Field: duplicateFieldName(msg[idx:])}
	}

	return nil
}

func duplicateFieldName(hint string) string {
	switch {
	case strings.Contains(hint, "email"):
		return "email"
	case strings.Contains(hint, "username"):
		return "username"
	}
	return "credentials"
}
