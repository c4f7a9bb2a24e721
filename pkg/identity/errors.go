package identity

import "errors"

// ErrUserNotFound must be returned by UserStore lookups that find nothing.
var ErrUserNotFound = errors.New("identity: user not found")

// Error codes.
const (
	CodePasswordTooShort       = "Password.TooShort"
	CodePasswordTooLong        = "Password.TooLong"
	CodePasswordUniqueChars    = "Password.RequiresUniqueChars"
	CodePasswordRequiresDigit  = "Password.RequiresDigit"
	CodePasswordRequiresLower  = "Password.RequiresLower"
	CodePasswordRequiresUpper  = "Password.RequiresUpper"
	CodePasswordRequiresSymbol = "Password.RequiresNonAlphanumeric"
	CodeInvalidUserName        = "User.InvalidUserName"
	CodeInvalidEmail           = "User.InvalidEmail"
	CodeDuplicateUserName      = "User.DuplicateUserName"
	CodeDuplicateEmail         = "User.DuplicateEmail"
	CodeInvalidCredentials     = "Identity.InvalidCredentials"
	CodeLockedOut              = "Identity.LockedOut"
	CodeNotAllowed             = "Identity.NotAllowed"
	CodePasswordMismatch       = "Identity.PasswordMismatch"
	CodeStoreFailure           = "Identity.StoreFailure"
)
