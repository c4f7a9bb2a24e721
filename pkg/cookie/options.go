package cookie

import (
	"net/http"
	"time"
)

type Option func(*Manager)

// WithSecret installs the current secret. Secrets shorter than 32 bytes
// are ignored; use NewFromConfig to have them rejected instead.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if k, ok := newKeyring(secret); ok {
			m.keys = append([]*keyring{k}, m.keys...)
		}
	}
}

// WithPreviousSecrets keeps cookies written under retired secrets readable.
func WithPreviousSecrets(secrets ...string) Option {
	return func(m *Manager) {
		for _, s := range secrets {
			if k, ok := newKeyring(s); ok {
				m.keys = append(m.keys, k)
			}
		}
	}
}

func WithDomain(domain string) Option {
	return func(m *Manager) { m.base.Domain = domain }
}

// WithPath ignores an empty path.
func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.base.Path = path
		}
	}
}

func WithSecure(secure bool) Option {
	return func(m *Manager) { m.base.Secure = secure }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) { m.base.HttpOnly = httpOnly }
}

func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.base.SameSite = ss }
}

// WithClock sets the time source for Expires.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}
