package oauth

import (
	"cmp"
	"context"
	"slices"
	"strconv"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const GitHubProviderName = "github"

func GitHubDefaultScopes() []string {
	return []string{"read:user", "user:email"}
}

// GitHubProvider reads the address from the emails endpoint, since the
// profile email is often private or unverified.
type GitHubProvider struct {
	base
}

func NewGitHubProvider(cfg ProviderConfig, opts ...Option) (*GitHubProvider, error) {
	b, err := newBase(providerDefaults{
		name:     GitHubProviderName,
		endpoint: github.Endpoint,
		scopes:   GitHubDefaultScopes(),
		apiURL:   "https://api.github.com",
	}, cfg, opts)
	if err != nil {
		return nil, err
	}
	return &GitHubProvider{base: b}, nil
}

type githubUser struct {
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
	ID        int64  `json:"id"`
}

type githubEmail struct {
	Email    string `json:"email"`
	Primary  bool   `json:"primary"`
	Verified bool   `json:"verified"`
}

// pickEmail prefers the primary address and falls back to the first
// verified one.
func pickEmail(emails []githubEmail) string {
	i := slices.IndexFunc(emails, func(e githubEmail) bool { return e.Verified && e.Primary })
	if i < 0 {
		i = slices.IndexFunc(emails, func(e githubEmail) bool { return e.Verified })
	}
	if i < 0 {
		return ""
	}
	return emails[i].Email
}

func (p *GitHubProvider) FetchUserInfo(ctx context.Context, token *oauth2.Token) (*UserInfo, error) {
	var u githubUser
	if err := p.getJSON(ctx, token, "/user", &u); err != nil {
		return nil, err
	}
	var emails []githubEmail
	if err := p.getJSON(ctx, token, "/user/emails", &emails); err != nil {
		return nil, err
	}

	email := pickEmail(emails)
	if email == "" {
		return nil, ErrEmailNotVerified
	}
	return &UserInfo{
		Provider: GitHubProviderName,
		ID:       strconv.FormatInt(u.ID, 10),
		Email:    email,
		Name:     cmp.Or(u.Name, u.Login),
		Picture:  u.AvatarURL,
	}, nil
}
