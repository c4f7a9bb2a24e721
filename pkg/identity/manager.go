package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/result"
)

// UserManager creates users and manages their passwords.
type UserManager struct {
	store  UserStore
	hasher *Hasher
	now    func() time.Time
	opts   Options
}

func NewUserManager(store UserStore, hasher *Hasher, opts Options) *UserManager {
	return &UserManager{store: store, hasher: hasher, opts: opts, now: time.Now}
}

// Create validates u and password, hashes the password and stores the user.
// ID, timestamps, security stamp and lockout flag are filled in.
func (m *UserManager) Create(ctx context.Context, u *User, password string) result.Result[*User] {
	u.Email = NormalizeEmail(u.Email)
	if u.UserName == "" {
		u.UserName = u.Email
	}

	list := ValidateUser(m.opts.User, u)
	list = append(list, ValidatePassword(m.opts.Password, password)...)
	if len(list) > 0 {
		return result.Fail[*User](list...)
	}

	if _, err := m.store.FindByUserName(ctx, u.UserName); err == nil {
		list = append(list, errs.Conflict(CodeDuplicateUserName, "User name '"+u.UserName+"' is already taken."))
	} else if !errors.Is(err, ErrUserNotFound) {
		return storeFailure[*User](err)
	}
	if m.opts.User.RequireUniqueEmail {
		if _, err := m.store.FindByEmail(ctx, u.Email); err == nil {
			list = append(list, errs.Conflict(CodeDuplicateEmail, "Email '"+u.Email+"' is already taken."))
		} else if !errors.Is(err, ErrUserNotFound) {
			return storeFailure[*User](err)
		}
	}
	if len(list) > 0 {
		return result.Fail[*User](list...)
	}

	hash, err := m.hasher.Hash(password)
	if err != nil {
		return storeFailure[*User](err)
	}

	now := m.now().UTC()
	if u.ID == uuid.Nil {
		u.ID = uuid.Must(uuid.NewV7())
	}
	u.PasswordHash = hash
	u.SecurityStamp = uuid.NewString()
	u.LockoutEnabled = m.opts.Lockout.Enabled
	u.CreatedAt = now
	u.UpdatedAt = now
	if u.Roles == nil {
		u.Roles = []string{}
	}

	if err := m.store.Create(ctx, u); err != nil {
		return result.Fail[*User](errs.From(err)...)
	}
	return result.Ok(u)
}

// ChangePassword replaces the password after checking the current one and
// rotates the stored security stamp. Issued sign-in cookies are not checked
// against the stamp and stay valid until they expire.
func (m *UserManager) ChangePassword(ctx context.Context, id uuid.UUID, current, next string) result.Result[result.Success] {
	u, err := m.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return result.Fail[result.Success](errs.NotFound("User.NotFound", "User not found."))
		}
		return storeFailure[result.Success](err)
	}

	if m.hasher.Verify(u.PasswordHash, current) == VerifyFailed {
		return result.Fail[result.Success](errs.Validation(CodePasswordMismatch, "Incorrect password."))
	}
	if list := ValidatePassword(m.opts.Password, next); len(list) > 0 {
		return result.Fail[result.Success](list...)
	}

	hash, err := m.hasher.Hash(next)
	if err != nil {
		return storeFailure[result.Success](err)
	}
	u.PasswordHash = hash
	u.SecurityStamp = uuid.NewString()
	u.UpdatedAt = m.now().UTC()
	if err := m.store.Update(ctx, u); err != nil {
		return storeFailure[result.Success](err)
	}
	return result.Done()
}

func storeFailure[T any](err error) result.Result[T] {
	return result.Fail[T](errs.Unexpected(CodeStoreFailure, "The user store failed.").WithCause(err))
}
