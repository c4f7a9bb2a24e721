package cookie

import (
	"fmt"
	"net/http"
	"strings"
)

// Config holds cookie settings loaded from the environment.
type Config struct {
	Secret          string   `env:"COOKIE_SECRET" yaml:"-"`
	PreviousSecrets []string `env:"COOKIE_PREVIOUS_SECRETS" env-separator:"," yaml:"-"`
	Domain          string   `env:"COOKIE_DOMAIN" yaml:"domain"`
	Path            string   `env:"COOKIE_PATH" env-default:"/" yaml:"path"`
	SameSite        string   `env:"COOKIE_SAME_SITE" env-default:"lax" yaml:"same_site"`
	Secure          bool     `env:"COOKIE_SECURE" env-default:"true" yaml:"secure"`
	HTTPOnly        bool     `env:"COOKIE_HTTP_ONLY" env-default:"true" yaml:"http_only"`
}

// ParseSameSite converts "lax", "strict", "none" or "" into http.SameSite.
func ParseSameSite(s string) (http.SameSite, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lax":
		return http.SameSiteLaxMode, nil
	case "strict":
		return http.SameSiteStrictMode, nil
	case "none":
		return http.SameSiteNoneMode, nil
	case "default":
		return http.SameSiteDefaultMode, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}
