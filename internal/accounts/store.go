package accounts

import (
	"context"

	"github.com/doug-martin/goqu/v9"
	"github.com/doug-martin/goqu/v9/exp"
	"github.com/google/uuid"

	"github.com/dmitrymomot/hostkit/pkg/db"
	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/identity"
	"github.com/dmitrymomot/hostkit/pkg/result"
)

const usersTable = "users"

// Store keeps identity users in PostgreSQL.
type Store struct {
	runner *db.Runner
}

var _ identity.UserStore = (*Store)(nil)

func NewStore(runner *db.Runner) *Store {
	return &Store{runner: runner}
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	return s.findOne(ctx, goqu.C("id").Eq(id))
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return s.findOne(ctx, goqu.C("email").Eq(email))
}

func (s *Store) FindByUserName(ctx context.Context, userName string) (*identity.User, error) {
	return s.findOne(ctx, goqu.C("user_name").Eq(userName))
}

func (s *Store) findOne(ctx context.Context, where exp.Expression) (*identity.User, error) {
	u, err := db.Call(ctx, s.runner, func(ctx context.Context, q db.Querier) (identity.User, error) {
		return db.GetDS[identity.User](ctx, q, db.Dialect.From(usersTable).Where(where).Limit(1))
	}, db.ReadOnly(), db.Named("accounts.find_user"))
	if db.IsNotFound(err) {
		return nil, identity.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// Create inserts u. Duplicate user names or emails come back as conflicts.
func (s *Store) Create(ctx context.Context, u *identity.User) error {
	err := s.runner.Exec(ctx, func(ctx context.Context, q db.Querier) error {
		_, err := q.Exec(ctx, `
			INSERT INTO users (
				id, user_name, email, display_name, password_hash, security_stamp, roles,
				email_confirmed, lockout_enabled, lockout_end, access_failed_count,
				created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
			u.ID, u.UserName, u.Email, u.DisplayName, u.PasswordHash, u.SecurityStamp, u.Roles,
			u.EmailConfirmed, u.LockoutEnabled, u.LockoutEnd, u.AccessFailedCount,
			u.CreatedAt, u.UpdatedAt,
		)
		return err
	}, db.Named("accounts.create_user"))
	if db.IsUniqueViolation(err) {
		return db.ToError(err)
	}
	return err
}

// Update writes every mutable column of u.
func (s *Store) Update(ctx context.Context, u *identity.User) error {
	return s.runner.Exec(ctx, func(ctx context.Context, q db.Querier) error {
		return update(ctx, q, u)
	}, db.Named("accounts.update_user"))
}

// Modify locks the user row with SELECT ... FOR UPDATE, applies fn and
// writes the row back in the same transaction.
func (s *Store) Modify(ctx context.Context, id uuid.UUID, fn func(u *identity.User) error) (*identity.User, error) {
	r := db.TryCall(ctx, s.runner, func(ctx context.Context, q db.Querier) result.Result[*identity.User] {
		u, err := db.GetDS[identity.User](ctx, q, db.Dialect.From(usersTable).
			Where(goqu.C("id").Eq(id)).
			ForUpdate(exp.Wait))
		if db.IsNotFound(err) {
			return result.Fail[*identity.User](errs.NotFound("User.NotFound", "User not found.").WithCause(identity.ErrUserNotFound))
		}
		if err != nil {
			return result.FromError[*identity.User](nil, err)
		}
		if err := fn(&u); err != nil {
			return result.FromError[*identity.User](nil, err)
		}
		return result.FromError(&u, update(ctx, q, &u))
	}, db.Named("accounts.modify_user"))
	return r.Unwrap()
}

func update(ctx context.Context, q db.Querier, u *identity.User) error {
	n, err := db.ExecDS(ctx, q, db.Dialect.Update(usersTable).
		Set(goqu.Record{
			"user_name":           u.UserName,
			"email":               u.Email,
			"display_name":        u.DisplayName,
			"password_hash":       u.PasswordHash,
			"security_stamp":      u.SecurityStamp,
			"email_confirmed":     u.EmailConfirmed,
			"lockout_enabled":     u.LockoutEnabled,
			"lockout_end":         u.LockoutEnd,
			"access_failed_count": u.AccessFailedCount,
			"updated_at":          u.UpdatedAt,
		}).
		Where(goqu.C("id").Eq(u.ID)).
		Prepared(true))
	if err != nil {
		return err
	}
	if n == 0 {
		return identity.ErrUserNotFound
	}
	return nil
}
