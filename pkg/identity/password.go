package identity

import (
	"fmt"
	"unicode"
	"unicode/utf8"

	"github.com/dmitrymomot/hostkit/pkg/errs"
)

// bcrypt ignores everything past 72 bytes, and newer versions reject it.
const maxPasswordBytes = 72

// ValidatePassword checks password against the policy and returns every
// violation, or nil.
func ValidatePassword(req PasswordRequirements, password string) errs.Errors {
	var out errs.Errors

	if n := utf8.RuneCountInString(password); n < req.RequiredLength {
		out = append(out, errs.Validation(CodePasswordTooShort,
			fmt.Sprintf("Passwords must be at least %d characters.", req.RequiredLength)).
			WithMetadata("required_length", req.RequiredLength))
	}
	if len(password) > maxPasswordBytes {
		out = append(out, errs.Validation(CodePasswordTooLong,
			fmt.Sprintf("Passwords must be at most %d bytes.", maxPasswordBytes)))
	}

	var digit, lower, upper, symbol bool
	unique := make(map[rune]struct{})
	for _, r := range password {
		unique[r] = struct{}{}
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			symbol = true
		}
	}

	if req.RequireNonAlphanumeric && !symbol {
		out = append(out, errs.Validation(CodePasswordRequiresSymbol,
			"Passwords must have at least one non alphanumeric character."))
	}
	if req.RequireDigit && !digit {
		out = append(out, errs.Validation(CodePasswordRequiresDigit,
			"Passwords must have at least one digit ('0'-'9')."))
	}
	if req.RequireLowercase && !lower {
		out = append(out, errs.Validation(CodePasswordRequiresLower,
			"Passwords must have at least one lowercase ('a'-'z')."))
	}
	if req.RequireUppercase && !upper {
		out = append(out, errs.Validation(CodePasswordRequiresUpper,
			"Passwords must have at least one uppercase ('A'-'Z')."))
	}
	if req.RequiredUniqueChars > 1 && len(unique) < req.RequiredUniqueChars {
		out = append(out, errs.Validation(CodePasswordUniqueChars,
			fmt.Sprintf("Passwords must use at least %d different characters.", req.RequiredUniqueChars)).
			WithMetadata("required_unique_chars", req.RequiredUniqueChars))
	}

	return out
}
