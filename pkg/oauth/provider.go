package oauth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
)

// UserInfo is the provider-agnostic profile returned after a successful login.
type UserInfo struct {
	Provider string
	ID       string // provider's unique user identifier
	Email    string
	Name     string
	Picture  string
}

// Provider abstracts provider-specific OAuth operations.
// Implementations must only return verified emails and report
// ErrEmailNotVerified otherwise.
type Provider interface {
	Name() string
	AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string
	Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error)
	FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error)
}

// providerDefaults describe a provider before options are applied.
type providerDefaults struct {
	name     string
	endpoint oauth2.Endpoint
	scopes   []string
	apiURL   string
}

// base carries the oauth2 plumbing shared by every provider.
type base struct {
	config     *oauth2.Config
	httpClient *http.Client
	name       string
	apiURL     string
}

func newBase(d providerDefaults, cfg ProviderConfig, opts []Option) (base, error) {
	if cfg.ClientID == "" {
		return base{}, ErrMissingClientID
	}
	if cfg.ClientSecret == "" {
		return base{}, ErrMissingClientSecret
	}

	o := options{endpoint: &d.endpoint, apiURL: d.apiURL}
	for _, opt := range opts {
		opt(&o)
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = d.scopes
	}

	return base{
		name:   d.name,
		apiURL: o.apiURL,
		config: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       scopes,
			Endpoint:     *o.endpoint,
		},
		httpClient: o.httpClient,
	}, nil
}

func (b base) Name() string {
	return b.name
}

func (b base) AuthCodeURL(state string, opts ...oauth2.AuthCodeOption) string {
	return b.config.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for tokens. A non-empty redirectURI
// overrides the configured one.
func (b base) Exchange(ctx context.Context, code, redirectURI string) (*oauth2.Token, error) {
	cfg := b.config
	if redirectURI != "" {
		cp := *b.config
		cp.RedirectURL = redirectURI
		cfg = &cp
	}
	return cfg.Exchange(b.withHTTPClient(ctx), code)
}

func (b base) withHTTPClient(ctx context.Context) context.Context {
	if b.httpClient != nil {
		return context.WithValue(ctx, oauth2.HTTPClient, b.httpClient)
	}
	return ctx
}

// getJSON fetches path on the provider's API with the token and decodes
// the body into dest.
func (b base) getJSON(ctx context.Context, token *oauth2.Token, path string, dest any) error {
	url := b.apiURL + path
	ctx = b.withHTTPClient(ctx)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return errors.Join(ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := b.config.Client(ctx, token).Do(req)
	if err != nil {
		return errors.Join(ErrFetchFailed, fmt.Errorf("%s %s: %w", b.name, url, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return errors.Join(ErrBadResponse, fmt.Errorf("%s %s: status=%d body=%s", b.name, url, resp.StatusCode, body))
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return errors.Join(ErrBadResponse, fmt.Errorf("%s %s: %w", b.name, url, err))
	}
	return nil
}
