package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/hostkit/pkg/cookie"
)

const CookieSchemeName = "Cookies"

// CookieOptions configures the cookie scheme.
type CookieOptions struct {
	Name              string        `env:"AUTH_COOKIE_NAME" env-default:"hostkit.auth" yaml:"name"`
	LoginPath         string        `env:"AUTH_LOGIN_PATH" env-default:"/account/login" yaml:"login_path"`
	AccessDeniedPath  string        `env:"AUTH_ACCESS_DENIED_PATH" env-default:"/account/denied" yaml:"access_denied_path"`
	ExpireTimeSpan    time.Duration `env:"AUTH_COOKIE_EXPIRE" env-default:"336h" yaml:"expire_time_span"`
	SlidingExpiration bool          `env:"AUTH_COOKIE_SLIDING" env-default:"true" yaml:"sliding_expiration"`
}

// DefaultCookieOptions mirrors the env defaults.
func DefaultCookieOptions() CookieOptions {
	return CookieOptions{
		Name:              "hostkit.auth",
		LoginPath:         "/account/login",
		AccessDeniedPath:  "/account/denied",
		ExpireTimeSpan:    14 * 24 * time.Hour,
		SlidingExpiration: true,
	}
}

// Cookie keeps the principal in an encrypted cookie ticket.
type Cookie struct {
	cookies *cookie.Manager
	now     func() time.Time
	opts    CookieOptions
}

// CookieOption configures the Cookie scheme.
type CookieOption func(*Cookie)

// WithCookieClock overrides the time source. Used by tests.
func WithCookieClock(now func() time.Time) CookieOption {
	return func(c *Cookie) {
		c.now = now
	}
}

// NewCookie returns the cookie scheme. The manager must have a secret.
func NewCookie(m *cookie.Manager, opts CookieOptions, options ...CookieOption) (*Cookie, error) {
	if !m.HasSecret() {
		return nil, cookie.ErrNoSecret
	}
	def := DefaultCookieOptions()
	if opts.Name == "" {
		opts.Name = def.Name
	}
	if opts.ExpireTimeSpan <= 0 {
		opts.ExpireTimeSpan = def.ExpireTimeSpan
	}
	c := &Cookie{cookies: m, opts: opts, now: time.Now}
	for _, o := range options {
		o(c)
	}
	return c, nil
}

func (c *Cookie) Name() string {
	return CookieSchemeName
}

// Options returns the scheme settings.
func (c *Cookie) Options() CookieOptions {
	return c.opts
}

func (c *Cookie) Authenticate(r *http.Request) (*Principal, error) {
	var p Principal
	if err := c.cookies.GetJSON(r, c.opts.Name, &p); err != nil {
		if errors.Is(err, cookie.ErrNotFound) {
			return nil, nil
		}
		return nil, errors.Join(ErrInvalidTicket, err)
	}
	if !p.IsAuthenticated() {
		return nil, ErrInvalidTicket
	}
	if !c.now().Before(p.ExpiresAt) {
		return nil, ErrTicketExpired
	}
	p.Scheme = CookieSchemeName
	return &p, nil
}

// SignIn issues a fresh ticket for p.
func (c *Cookie) SignIn(w http.ResponseWriter, _ *http.Request, p *Principal) error {
	if !p.IsAuthenticated() {
		return ErrNoSubject
	}
	now := c.now().UTC().Truncate(time.Second)
	ticket := *p
	ticket.Scheme = CookieSchemeName
	ticket.IssuedAt = now
	ticket.ExpiresAt = now.Add(c.opts.ExpireTimeSpan)
	if err := c.cookies.SetJSON(w, c.opts.Name, ticket, c.opts.ExpireTimeSpan); err != nil {
		return err
	}
	*p = ticket
	return nil
}

func (c *Cookie) SignOut(w http.ResponseWriter, _ *http.Request) error {
	c.cookies.Delete(w, c.opts.Name)
	return nil
}

// Renew reissues the ticket once more than half of its lifetime has passed,
// when sliding expiration is enabled. It does nothing when the response
// already sets the ticket cookie (a SignIn or SignOut in the same request).
func (c *Cookie) Renew(w http.ResponseWriter, r *http.Request, p *Principal) error {
	if !c.opts.SlidingExpiration || p.Scheme != CookieSchemeName {
		return nil
	}
	for _, h := range w.Header().Values("Set-Cookie") {
		if strings.HasPrefix(h, c.opts.Name+"=") {
			return nil
		}
	}
	half := p.IssuedAt.Add(p.ExpiresAt.Sub(p.IssuedAt) / 2)
	if c.now().Before(half) {
		return nil
	}
	return c.SignIn(w, r, p)
}
