package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/hostkit/pkg/cookie"
	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/oauth"
)

const stateCookiePrefix = "hostkit.oauth."

// ResolveFunc maps an external profile to a local principal, typically by
// finding or creating the matching user.
type ResolveFunc func(ctx context.Context, info *oauth.UserInfo) (*Principal, error)

// External runs OAuth2 logins and signs the resolved principal in.
type External struct {
	providers   *oauth.Registry
	cookies     *cookie.Manager
	signIn      SignInScheme
	resolve     ResolveFunc
	log         *slog.Logger
	redirectTo  string
	stateMaxAge time.Duration
}

// ExternalOption configures External.
type ExternalOption func(*External)

// WithDefaultRedirect sets where users land after login when the login
// request had no return_url. Defaults to "/".
func WithDefaultRedirect(path string) ExternalOption {
	return func(e *External) {
		e.redirectTo = path
	}
}

func WithExternalLogger(log *slog.Logger) ExternalOption {
	return func(e *External) {
		if log != nil {
			e.log = log
		}
	}
}

func NewExternal(providers *oauth.Registry, cookies *cookie.Manager, signIn SignInScheme, resolve ResolveFunc, opts ...ExternalOption) *External {
	e := &External{
		providers:   providers,
		cookies:     cookies,
		signIn:      signIn,
		resolve:     resolve,
		log:         slog.New(slog.DiscardHandler),
		redirectTo:  "/",
		stateMaxAge: 10 * time.Minute,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Providers lists the configured provider names.
func (e *External) Providers() []string {
	return e.providers.Names()
}

type loginState struct {
	State     string `json:"s"`
	ReturnURL string `json:"r,omitempty"`
}

// Login redirects to the provider's consent page. A local return_url query
// parameter is remembered and used after the callback.
func (e *External) Login(w http.ResponseWriter, r *http.Request, provider string) error {
	p, err := e.providers.Get(provider)
	if err != nil {
		return errs.NotFound("Auth.UnknownProvider", "Unknown login provider.").WithCause(err)
	}

	st := loginState{State: rand.Text(), ReturnURL: localPath(r.URL.Query().Get("return_url"))}
	if err := e.cookies.SetJSON(w, stateCookiePrefix+provider, st, e.stateMaxAge); err != nil {
		return errs.Unexpected(CodeExternalFailed, "Could not start the external login.").WithCause(err)
	}

	http.Redirect(w, r, p.AuthCodeURL(st.State), http.StatusFound)
	return nil
}

// Callback completes the login: it checks the state, exchanges the code,
// resolves the principal, signs it in and redirects.
func (e *External) Callback(w http.ResponseWriter, r *http.Request, provider string) error {
	ctx := r.Context()
	p, err := e.providers.Get(provider)
	if err != nil {
		return errs.NotFound("Auth.UnknownProvider", "Unknown login provider.").WithCause(err)
	}

	var st loginState
	stateErr := e.cookies.GetJSON(r, stateCookiePrefix+provider, &st)
	e.cookies.Delete(w, stateCookiePrefix+provider)
	if stateErr != nil || subtle.ConstantTimeCompare([]byte(st.State), []byte(r.URL.Query().Get("state"))) != 1 {
		return errs.Unauthorized(CodeInvalidState, "The login request is invalid or has expired.").WithCause(stateErr)
	}

	q := r.URL.Query()
	if reason := q.Get("error"); reason != "" {
		return errs.Unauthorized(CodeExternalDenied, "The login was cancelled at the provider.").
			WithMetadata("reason", reason)
	}

	token, err := p.Exchange(ctx, q.Get("code"), "")
	if err != nil {
		e.log.WarnContext(ctx, "oauth code exchange failed", slog.String("provider", provider), slog.Any("error", err))
		return errs.Unauthorized(CodeExternalFailed, "The login could not be completed.").WithCause(err)
	}

	info, err := p.FetchUserInfo(ctx, token)
	if err != nil {
		e.log.WarnContext(ctx, "oauth profile fetch failed", slog.String("provider", provider), slog.Any("error", err))
		return errs.Unauthorized(CodeExternalFailed, "The login could not be completed.").WithCause(err)
	}

	principal, err := e.resolve(ctx, info)
	if err != nil {
		return err
	}
	if err := e.signIn.SignIn(w, r, principal); err != nil {
		return errs.Unexpected(CodeExternalFailed, "Could not sign in.").WithCause(err)
	}

	e.log.InfoContext(ctx, "external login",
		slog.String("provider", provider),
		slog.String("subject", principal.Subject),
	)

	target := st.ReturnURL
	if target == "" {
		target = e.redirectTo
	}
	http.Redirect(w, r, target, http.StatusFound)
	return nil
}

// localPath only accepts same-origin absolute paths.
func localPath(u string) string {
	if !strings.HasPrefix(u, "/") || strings.HasPrefix(u, "//") || strings.HasPrefix(u, "/\\") {
		return ""
	}
	return u
}
