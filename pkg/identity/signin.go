package identity

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/result"
)

// errLockedMeanwhile aborts a Modify when a concurrent failed attempt locked
// the account between the lookup and the write.
var errLockedMeanwhile = errors.New("identity: account locked during sign-in")

// SignInManager verifies passwords and applies the lockout policy.
type SignInManager struct {
	store  UserStore
	hasher *Hasher
	log    *slog.Logger
	now    func() time.Time
	opts   Options
}

// SignInOption configures a SignInManager.
type SignInOption func(*SignInManager)

func WithSignInLogger(log *slog.Logger) SignInOption {
	return func(m *SignInManager) {
		if log != nil {
			m.log = log
		}
	}
}

// WithSignInClock overrides the time source. Used by tests.
func WithSignInClock(now func() time.Time) SignInOption {
	return func(m *SignInManager) {
		m.now = now
	}
}

func NewSignInManager(store UserStore, hasher *Hasher, opts Options, options ...SignInOption) *SignInManager {
	m := &SignInManager{
		store:  store,
		hasher: hasher,
		opts:   opts,
		log:    slog.New(slog.DiscardHandler),
		now:    time.Now,
	}
	for _, o := range options {
		o(m)
	}
	return m
}

// PasswordSignIn looks the user up by email or user name and checks the
// password. Failures are reported as:
//
//   - Identity.InvalidCredentials (unauthorized) for an unknown login or wrong password
//   - Identity.LockedOut (forbidden) while the account is locked, with a lockout_end entry
//   - Identity.NotAllowed (forbidden) when a confirmed email is required
//
// A successful sign-in resets the failure counter and upgrades the stored
// hash when its cost differs from the hasher's.
func (m *SignInManager) PasswordSignIn(ctx context.Context, login, password string) result.Result[*User] {
	u, err := m.find(ctx, login)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			m.hasher.VerifyDummy(password)
			return result.Fail[*User](invalidCredentials())
		}
		return storeFailure[*User](err)
	}

	now := m.now().UTC()
	if u.IsLockedOut(now) {
		m.log.InfoContext(ctx, "sign-in rejected, account locked", slog.String("user_id", u.ID.String()))
		return result.Fail[*User](lockedOut(*u.LockoutEnd))
	}

	verdict := m.hasher.Verify(u.PasswordHash, password)
	if verdict == VerifyFailed {
		return m.recordFailure(ctx, u, now)
	}

	if m.opts.SignIn.RequireConfirmedEmail && !u.EmailConfirmed {
		return result.Fail[*User](errs.Forbidden(CodeNotAllowed, "Email address is not confirmed."))
	}

	var rehashed string
	if verdict == VerifySuccessRehashNeeded {
		if hash, err := m.hasher.Hash(password); err == nil {
			rehashed = hash
		} else {
			m.log.WarnContext(ctx, "password rehash failed", slog.String("user_id", u.ID.String()), slog.Any("error", err))
		}
	}

	if u.AccessFailedCount != 0 || u.LockoutEnd != nil || rehashed != "" {
		var lockoutEnd time.Time
		u, err = m.store.Modify(ctx, u.ID, func(u *User) error {
			if u.IsLockedOut(now) {
				lockoutEnd = *u.LockoutEnd
				return errLockedMeanwhile
			}
			u.AccessFailedCount = 0
			u.LockoutEnd = nil
			if rehashed != "" {
				u.PasswordHash = rehashed
			}
			u.UpdatedAt = now
			return nil
		})
		if errors.Is(err, errLockedMeanwhile) {
			return result.Fail[*User](lockedOut(lockoutEnd))
		}
		if err != nil {
			return storeFailure[*User](err)
		}
	}

	return result.Ok(u)
}

func (m *SignInManager) find(ctx context.Context, login string) (*User, error) {
	login = strings.TrimSpace(login)
	if strings.Contains(login, "@") {
		u, err := m.store.FindByEmail(ctx, NormalizeEmail(login))
		if err == nil || !errors.Is(err, ErrUserNotFound) {
			return u, err
		}
	}
	return m.store.FindByUserName(ctx, login)
}

// recordFailure counts a wrong password inside Modify, so concurrent
// guesses cannot overwrite each other's count.
func (m *SignInManager) recordFailure(ctx context.Context, u *User, now time.Time) result.Result[*User] {
	lock := m.opts.Lockout
	if !lock.Enabled || !u.LockoutEnabled {
		return result.Fail[*User](invalidCredentials())
	}

	var lockedNow bool
	u, err := m.store.Modify(ctx, u.ID, func(u *User) error {
		lockedNow = false
		if u.IsLockedOut(now) {
			// Another attempt locked the account after this one read it.
			return nil
		}
		u.AccessFailedCount++
		if u.AccessFailedCount >= lock.MaxFailedAttempts {
			end := now.Add(lock.Duration)
			u.LockoutEnd = &end
			u.AccessFailedCount = 0
			lockedNow = true
		}
		u.UpdatedAt = now
		return nil
	})
	if err != nil {
		return storeFailure[*User](err)
	}

	if lockedNow {
		m.log.WarnContext(ctx, "account locked out",
			slog.String("user_id", u.ID.String()),
			slog.Time("lockout_end", *u.LockoutEnd),
		)
	}
	if u.IsLockedOut(now) {
		return result.Fail[*User](lockedOut(*u.LockoutEnd))
	}
	return result.Fail[*User](invalidCredentials())
}

func invalidCredentials() errs.Error {
	return errs.Unauthorized(CodeInvalidCredentials, "Invalid login or password.")
}

func lockedOut(end time.Time) errs.Error {
	return errs.Forbidden(CodeLockedOut, "The account is locked out.").
		WithMetadata("lockout_end", end.UTC().Format(time.RFC3339))
}
