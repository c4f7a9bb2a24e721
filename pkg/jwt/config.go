package jwt

import "time"

// Supported signing algorithms.
const (
	HS256 = "HS256"
	HS384 = "HS384"
	HS512 = "HS512"
	RS256 = "RS256"
)

// Config holds the token validation parameters.
//
// HMAC algorithms use SigningKey. RS256 uses PrivateKeyPEM to sign and
// PublicKeyPEM to verify; when only the private key is set the public key is
// derived from it, and a service with only a public key can verify but not sign.
type Config struct {
	SigningKey    string        `env:"JWT_SIGNING_KEY" yaml:"-"`
	PrivateKeyPEM string        `env:"JWT_PRIVATE_KEY" yaml:"-"`
	PublicKeyPEM  string        `env:"JWT_PUBLIC_KEY" yaml:"-"`
	Algorithm     string        `env:"JWT_ALGORITHM" env-default:"HS256" yaml:"algorithm"`
	Issuer        string        `env:"JWT_ISSUER" yaml:"issuer"`
	Audience      []string      `env:"JWT_AUDIENCE" env-separator:"," yaml:"audience"`
	Lifetime      time.Duration `env:"JWT_LIFETIME" env-default:"15m" yaml:"lifetime"`
	ClockSkew     time.Duration `env:"JWT_CLOCK_SKEW" env-default:"30s" yaml:"clock_skew"`

	// Validation switches. Issuer and audience checks only apply when the
	// corresponding value is configured.
	ValidateIssuer   bool `env:"JWT_VALIDATE_ISSUER" env-default:"true" yaml:"validate_issuer"`
	ValidateAudience bool `env:"JWT_VALIDATE_AUDIENCE" env-default:"true" yaml:"validate_audience"`
	ValidateLifetime bool `env:"JWT_VALIDATE_LIFETIME" env-default:"true" yaml:"validate_lifetime"`
}

// DefaultConfig returns a Config with the same defaults the env loader applies.
func DefaultConfig() Config {
	return Config{
		Algorithm:        HS256,
		Lifetime:         15 * time.Minute,
		ClockSkew:        30 * time.Second,
		ValidateIssuer:   true,
		ValidateAudience: true,
		ValidateLifetime: true,
	}
}
