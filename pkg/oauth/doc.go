// Package oauth implements the OAuth2 authorization code flow for external
// login providers.
//
// Google and GitHub are supported. Both only report verified email addresses
// and return [ErrEmailNotVerified] otherwise. Providers are collected in a
// [Registry], usually built from environment configuration:
//
//	// GOOGLE_OAUTH_CLIENT_ID, GOOGLE_OAUTH_CLIENT_SECRET, GITHUB_OAUTH_CLIENT_ID, ...
//	reg, err := oauth.NewRegistryFromConfig(cfg.OAuth)
//	if err != nil {
//		return err
//	}
//
//	p, err := reg.Get("github")
//	url := p.AuthCodeURL(state)
//
//	// in the callback
//	token, err := p.Exchange(ctx, code, "")
//	user, err := p.FetchUserInfo(ctx, token)
//
// [WithEndpoint], [WithAPIBaseURL] and [WithHTTPClient] point providers at a
// test server or route requests through a custom transport.
//
// The browser-facing login and callback handlers live in pkg/auth.
package oauth
