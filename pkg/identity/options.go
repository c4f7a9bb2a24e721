package identity

import "time"

// DefaultAllowedUserNameCharacters are the characters accepted in user names.
const DefaultAllowedUserNameCharacters = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-._@+"

// PasswordRequirements is the password policy.
type PasswordRequirements struct {
	RequiredLength         int  `env:"IDENTITY_PASSWORD_MIN_LENGTH" env-default:"8" yaml:"required_length"`
	RequiredUniqueChars    int  `env:"IDENTITY_PASSWORD_UNIQUE_CHARS" env-default:"1" yaml:"required_unique_chars"`
	RequireDigit           bool `env:"IDENTITY_PASSWORD_REQUIRE_DIGIT" env-default:"true" yaml:"require_digit"`
	RequireLowercase       bool `env:"IDENTITY_PASSWORD_REQUIRE_LOWER" env-default:"true" yaml:"require_lowercase"`
	RequireUppercase       bool `env:"IDENTITY_PASSWORD_REQUIRE_UPPER" env-default:"true" yaml:"require_uppercase"`
	RequireNonAlphanumeric bool `env:"IDENTITY_PASSWORD_REQUIRE_SYMBOL" env-default:"true" yaml:"require_non_alphanumeric"`
}

// LockoutOptions controls account lockout after repeated failed sign-ins.
type LockoutOptions struct {
	Enabled           bool          `env:"IDENTITY_LOCKOUT_ENABLED" env-default:"true" yaml:"enabled"`
	MaxFailedAttempts int           `env:"IDENTITY_LOCKOUT_MAX_ATTEMPTS" env-default:"5" yaml:"max_failed_attempts"`
	Duration          time.Duration `env:"IDENTITY_LOCKOUT_DURATION" env-default:"5m" yaml:"duration"`
}

// UserOptions constrains user names and emails.
type UserOptions struct {
	AllowedUserNameCharacters string `env:"IDENTITY_USERNAME_CHARACTERS" yaml:"allowed_user_name_characters"`
	RequireUniqueEmail        bool   `env:"IDENTITY_REQUIRE_UNIQUE_EMAIL" env-default:"true" yaml:"require_unique_email"`
}

// SignInOptions gates password sign-in.
type SignInOptions struct {
	RequireConfirmedEmail bool `env:"IDENTITY_REQUIRE_CONFIRMED_EMAIL" env-default:"false" yaml:"require_confirmed_email"`
}

// Options groups the identity settings.
type Options struct {
	Password   PasswordRequirements `yaml:"password"`
	Lockout    LockoutOptions       `yaml:"lockout"`
	User       UserOptions          `yaml:"user"`
	SignIn     SignInOptions        `yaml:"sign_in"`
	BcryptCost int                  `env:"IDENTITY_BCRYPT_COST" env-default:"12" yaml:"bcrypt_cost"`
}

// DefaultOptions mirrors the env defaults.
func DefaultOptions() Options {
	return Options{
		Password: PasswordRequirements{
			RequiredLength:         8,
			RequiredUniqueChars:    1,
			RequireDigit:           true,
			RequireLowercase:       true,
			RequireUppercase:       true,
			RequireNonAlphanumeric: true,
		},
		Lockout: LockoutOptions{
			Enabled:           true,
			MaxFailedAttempts: 5,
			Duration:          5 * time.Minute,
		},
		User: UserOptions{
			AllowedUserNameCharacters: DefaultAllowedUserNameCharacters,
			RequireUniqueEmail:        true,
		},
		BcryptCost: 12,
	}
}
