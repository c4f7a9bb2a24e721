package oauth

import (
	"net/http"

	"golang.org/x/oauth2"
)

type Option func(*options)

type options struct {
	httpClient *http.Client
	endpoint   *oauth2.Endpoint
	apiURL     string
}

// WithHTTPClient is used for both the token exchange and profile requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) { o.httpClient = client }
}

// WithEndpoint replaces the provider's authorize and token URLs.
func WithEndpoint(endpoint oauth2.Endpoint) Option {
	return func(o *options) { o.endpoint = &endpoint }
}

// WithAPIBaseURL points profile requests at another host, typically a test
// server.
func WithAPIBaseURL(url string) Option {
	return func(o *options) { o.apiURL = url }
}
