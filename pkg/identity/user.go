package identity

import (
	"context"
	"net/mail"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/hostkit/pkg/errs"
)

// User is a local account.
type User struct {
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
	LockoutEnd        *time.Time `db:"lockout_end" json:"-"`
	UserName          string     `db:"user_name" json:"user_name"`
	Email             string     `db:"email" json:"email"`
	DisplayName       string     `db:"display_name" json:"display_name,omitempty"`
	PasswordHash      string     `db:"password_hash" json:"-"`
	SecurityStamp     string     `db:"security_stamp" json:"-"`
	Roles             []string   `db:"roles" json:"roles"`
	AccessFailedCount int        `db:"access_failed_count" json:"-"`
	ID                uuid.UUID  `db:"id" json:"id"`
	EmailConfirmed    bool       `db:"email_confirmed" json:"email_confirmed"`
	LockoutEnabled    bool       `db:"lockout_enabled" json:"-"`
}

// IsLockedOut reports whether the user is locked out at now.
func (u *User) IsLockedOut(now time.Time) bool {
	return u.LockoutEnabled && u.LockoutEnd != nil && u.LockoutEnd.After(now)
}

// IsInRole reports whether the user has role.
func (u *User) IsInRole(role string) bool {
	return slices.Contains(u.Roles, role)
}

// UserStore persists users. Lookups return ErrUserNotFound when nothing matches.
type UserStore interface {
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByUserName(ctx context.Context, userName string) (*User, error)
	Create(ctx context.Context, u *User) error
	Update(ctx context.Context, u *User) error
	// Modify loads the user, applies fn and saves the result as one atomic
	// step, so concurrent calls for the same user see each other's writes.
	// Nothing is saved when fn returns an error.
	Modify(ctx context.Context, id uuid.UUID, fn func(u *User) error) (*User, error)
}

// NormalizeEmail lowercases and trims an email for lookups.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateUser checks the user name and email format. Uniqueness needs the
// store and is checked by UserManager.
func ValidateUser(opts UserOptions, u *User) errs.Errors {
	var out errs.Errors

	allowed := opts.AllowedUserNameCharacters
	if allowed == "" {
		allowed = DefaultAllowedUserNameCharacters
	}
	if strings.TrimSpace(u.UserName) == "" || strings.IndexFunc(u.UserName, func(r rune) bool {
		return !strings.ContainsRune(allowed, r)
	}) >= 0 {
		out = append(out, errs.Validation(CodeInvalidUserName,
			"User name '"+u.UserName+"' is invalid, can only contain letters or digits."))
	}

	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != strings.TrimSpace(u.Email) {
		out = append(out, errs.Validation(CodeInvalidEmail, "Email '"+u.Email+"' is invalid."))
	}

	return out
}
