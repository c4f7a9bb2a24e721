package cookie

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"
)

const flashPrefix = "flash_"

// Manager reads and writes cookies with shared attributes.
//
// The first secret writes; all secrets are tried on read, so a secret can
// be rotated without logging everyone out.
type Manager struct {
	keys []*keyring
	base http.Cookie
	now  func() time.Time
}

// New defaults to Path "/", HttpOnly and SameSite=Lax.
func New(opts ...Option) *Manager {
	m := &Manager{
		base: http.Cookie{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode},
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// NewFromConfig builds a Manager from loaded settings. A secret that is set
// but too short is an error here rather than being ignored.
func NewFromConfig(cfg Config) (*Manager, error) {
	if cfg.Secret != "" && len(cfg.Secret) < minSecretLen {
		return nil, ErrBadSecret
	}
	ss, err := ParseSameSite(cfg.SameSite)
	if err != nil {
		return nil, err
	}
	return New(
		WithSecret(cfg.Secret),
		WithPreviousSecrets(cfg.PreviousSecrets...),
		WithDomain(cfg.Domain),
		WithPath(cfg.Path),
		WithSecure(cfg.Secure),
		WithHTTPOnly(cfg.HTTPOnly),
		WithSameSite(ss),
	), nil
}

// HasSecret reports whether signed and encrypted cookies are available.
func (m *Manager) HasSecret() bool {
	return len(m.keys) > 0
}

func (m *Manager) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return c.Value, nil
}

// Set writes a plain cookie. A zero maxAge makes it a session cookie.
func (m *Manager) Set(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, m.build(name, value, maxAge))
}

func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.build(name, "", -1))
}

// GetSigned returns ErrBadSig when no secret produced the signature.
func (m *Manager) GetSigned(r *http.Request, name string) (string, error) {
	raw, err := m.read(r, name)
	if err != nil {
		return "", err
	}
	return verify(m.keys, name, raw)
}

// SetSigned writes a readable value with an HMAC bound to the cookie name,
// so it cannot be replayed under another name.
func (m *Manager) SetSigned(w http.ResponseWriter, name, value string, maxAge time.Duration) error {
	if !m.HasSecret() {
		return ErrNoSecret
	}
	m.Set(w, name, m.keys[0].sign(name, value), maxAge)
	return nil
}

// GetEncrypted returns ErrDecrypt when no secret opens the value.
func (m *Manager) GetEncrypted(r *http.Request, name string) (string, error) {
	raw, err := m.read(r, name)
	if err != nil {
		return "", err
	}
	return unseal(m.keys, name, raw)
}

// SetEncrypted writes an AES-GCM sealed value.
func (m *Manager) SetEncrypted(w http.ResponseWriter, name, value string, maxAge time.Duration) error {
	if !m.HasSecret() {
		return ErrNoSecret
	}
	sealed, err := m.keys[0].seal(name, value)
	if err != nil {
		return err
	}
	m.Set(w, name, sealed, maxAge)
	return nil
}

// GetJSON opens a cookie written by SetJSON into dest.
func (m *Manager) GetJSON(r *http.Request, name string, dest any) error {
	raw, err := m.GetEncrypted(r, name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return errors.Join(ErrDecrypt, err)
	}
	return nil
}

func (m *Manager) SetJSON(w http.ResponseWriter, name string, value any, maxAge time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return m.SetEncrypted(w, name, string(data), maxAge)
}

// Flash reads a message stored by SetFlash and deletes it.
func (m *Manager) Flash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	if err := m.GetJSON(r, flashPrefix+key, dest); err != nil {
		return err
	}
	m.Delete(w, flashPrefix+key)
	return nil
}

func (m *Manager) SetFlash(w http.ResponseWriter, key string, value any) error {
	return m.SetJSON(w, flashPrefix+key, value, 0)
}

// read checks for a secret before looking at the request, so a missing
// secret is reported even when the cookie is absent.
func (m *Manager) read(r *http.Request, name string) (string, error) {
	if !m.HasSecret() {
		return "", ErrNoSecret
	}
	return m.Get(r, name)
}

func (m *Manager) build(name, value string, maxAge time.Duration) *http.Cookie {
	c := m.base
	c.Name = name
	c.Value = value
	switch {
	case maxAge < 0:
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
	case maxAge > 0:
		// Whole seconds, rounded up so a short lifetime never becomes a session cookie.
		secs := int((maxAge + time.Second - 1) / time.Second)
		c.MaxAge = secs
		c.Expires = m.now().Add(time.Duration(secs) * time.Second)
	}
	return &c
}
