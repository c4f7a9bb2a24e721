package oauth

// ProviderConfig holds the client registration for one provider. A provider
// with an empty ClientID is treated as disabled by NewRegistryFromConfig.
type ProviderConfig struct {
	ClientID     string   `env:"CLIENT_ID" yaml:"client_id"`
	ClientSecret string   `env:"CLIENT_SECRET" yaml:"-"`
	RedirectURL  string   `env:"REDIRECT_URL" yaml:"redirect_url"`
	Scopes       []string `env:"SCOPES" env-separator:"," yaml:"scopes"`
}

// Enabled reports whether the provider is configured.
func (c ProviderConfig) Enabled() bool {
	return c.ClientID != ""
}

// Config lists the supported providers.
type Config struct {
	Google ProviderConfig `env-prefix:"GOOGLE_OAUTH_" yaml:"google"`
	GitHub ProviderConfig `env-prefix:"GITHUB_OAUTH_" yaml:"github"`
}
