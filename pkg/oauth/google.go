package oauth

import (
	"context"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const GoogleProviderName = "google"

// GoogleDefaultScopes grant the email address and basic profile.
func GoogleDefaultScopes() []string {
	return []string{
		"https://www.googleapis.com/auth/userinfo.email",
		"https://www.googleapis.com/auth/userinfo.profile",
	}
}

type GoogleProvider struct {
	base
}

func NewGoogleProvider(cfg ProviderConfig, opts ...Option) (*GoogleProvider, error) {
	b, err := newBase(providerDefaults{
		name:     GoogleProviderName,
		endpoint: google.Endpoint,
		scopes:   GoogleDefaultScopes(),
		apiURL:   "https://www.googleapis.com",
	}, cfg, opts)
	if err != nil {
		return nil, err
	}
	return &GoogleProvider{base: b}, nil
}

// googleProfile is the OAuth2 v2 userinfo response.
type googleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	VerifiedEmail bool   `json:"verified_email"`
}

func (p *GoogleProvider) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	var prof googleProfile
	if err := p.getJSON(ctx, token, "/oauth2/v2/userinfo", &prof); err != nil {
		return nil, err
	}
	if !prof.VerifiedEmail || prof.Email == "" {
		return nil, ErrEmailNotVerified
	}
	return &UserInfo{
		Provider: GoogleProviderName,
		ID:       prof.ID,
		Email:    prof.Email,
		Name:     prof.Name,
		Picture:  prof.Picture,
	}, nil
}
