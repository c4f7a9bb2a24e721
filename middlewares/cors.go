package middlewares

import (
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/hostkit/internal"
)

// DefaultCORSConfig allows any origin without credentials.
var DefaultCORSConfig = CORSConfig{
	AllowOrigins: []string{"*"},
	AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
	AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
	MaxAge:       12 * time.Hour,
}

// CORSConfig is loaded from CORS_* variables.
//
// AllowOrigins entries are exact origins, "*" for any origin, or a
// subdomain pattern such as "https://*.example.com".
type CORSConfig struct {
	// AllowOriginFunc replaces AllowOrigins when set.
	AllowOriginFunc func(origin string) bool `yaml:"-"`

	AllowOrigins  []string      `env:"CORS_ALLOW_ORIGINS" env-separator:"," env-default:"*" yaml:"allow_origins"`
	AllowMethods  []string      `env:"CORS_ALLOW_METHODS" env-separator:"," env-default:"GET,POST,PUT,PATCH,DELETE,OPTIONS" yaml:"allow_methods"`
	AllowHeaders  []string      `env:"CORS_ALLOW_HEADERS" env-separator:"," env-default:"Origin,Content-Type,Accept,Authorization" yaml:"allow_headers"`
	ExposeHeaders []string      `env:"CORS_EXPOSE_HEADERS" env-separator:"," yaml:"expose_headers"`
	MaxAge        time.Duration `env:"CORS_MAX_AGE" env-default:"12h" yaml:"max_age"`

	// With credentials the request origin is echoed even when "*" is listed.
	AllowCredentials bool `env:"CORS_ALLOW_CREDENTIALS" yaml:"allow_credentials"`
}

type CORSOption func(*CORSConfig)

func WithAllowOrigins(origins ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowOrigins = origins }
}

func WithAllowOriginFunc(fn func(origin string) bool) CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowOriginFunc = fn }
}

func WithAllowMethods(methods ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowMethods = methods }
}

func WithAllowHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowHeaders = headers }
}

func WithExposeHeaders(headers ...string) CORSOption {
	return func(cfg *CORSConfig) { cfg.ExposeHeaders = headers }
}

func WithAllowCredentials() CORSOption {
	return func(cfg *CORSConfig) { cfg.AllowCredentials = true }
}

// WithMaxAge sets how long browsers may cache a preflight answer. Zero
// omits the header.
func WithMaxAge(d time.Duration) CORSOption {
	return func(cfg *CORSConfig) { cfg.MaxAge = d }
}

// CORS applies opts on top of DefaultCORSConfig.
func CORS(opts ...CORSOption) internal.Middleware {
	cfg := DefaultCORSConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return CORSFromConfig(cfg)
}

// CORSFromConfig adds CORS headers to requests from allowed origins and
// answers their OPTIONS requests with 204 without calling the handler.
// Requests from other origins pass through untouched.
func CORSFromConfig(cfg CORSConfig) internal.Middleware {
	p := newCORSPolicy(cfg)

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			origin := c.Header("Origin")
			if origin == "" || !p.allows(origin) {
				return next(c)
			}

			h := c.Response().Header()
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Origin", p.allowOrigin(origin))
			if p.credentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			if p.expose != "" {
				h.Set("Access-Control-Expose-Headers", p.expose)
			}

			if c.Request().Method != http.MethodOptions {
				return next(c)
			}

			h.Add("Vary", "Access-Control-Request-Method")
			h.Add("Vary", "Access-Control-Request-Headers")
			h.Set("Access-Control-Allow-Methods", p.methods)
			h.Set("Access-Control-Allow-Headers", p.headers)
			if p.maxAge != "" {
				h.Set("Access-Control-Max-Age", p.maxAge)
			}
			return c.NoContent(http.StatusNoContent)
		}
	}
}

// corsPolicy is CORSConfig with header values rendered once.
type corsPolicy struct {
	match       func(string) bool
	exact       []string
	suffixes    [][2]string // scheme+"://" and ".domain" of wildcard patterns
	any         bool
	credentials bool

	methods string
	headers string
	expose  string
	maxAge  string
}

func newCORSPolicy(cfg CORSConfig) *corsPolicy {
	p := &corsPolicy{
		match:       cfg.AllowOriginFunc,
		credentials: cfg.AllowCredentials,
		methods:     strings.Join(cfg.AllowMethods, ", "),
		headers:     strings.Join(cfg.AllowHeaders, ", "),
		expose:      strings.Join(cfg.ExposeHeaders, ", "),
	}
	if cfg.MaxAge > 0 {
		p.maxAge = strconv.Itoa(int(cfg.MaxAge.Seconds()))
	}

	for _, o := range cfg.AllowOrigins {
		switch {
		case o == "*":
			p.any = true
		case strings.Contains(o, "://*."):
			scheme, domain, _ := strings.Cut(o, "://*")
			p.suffixes = append(p.suffixes, [2]string{scheme + "://", domain})
		default:
			p.exact = append(p.exact, o)
		}
	}
	return p
}

func (p *corsPolicy) allows(origin string) bool {
	if p.match != nil {
		return p.match(origin)
	}
	if p.any || slices.Contains(p.exact, origin) {
		return true
	}
	for _, s := range p.suffixes {
		host, ok := strings.CutPrefix(origin, s[0])
		if ok && len(host) > len(s[1]) && strings.HasSuffix(host, s[1]) {
			return true
		}
	}
	return false
}

// allowOrigin is "*" only for a wildcard config without credentials.
func (p *corsPolicy) allowOrigin(origin string) string {
	if p.any && !p.credentials && p.match == nil {
		return "*"
	}
	return origin
}
