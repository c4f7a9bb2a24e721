package auth

import (
	"net/http"
)

// Scheme authenticates requests.
type Scheme interface {
	Name() string
	// Authenticate returns (nil, nil) when the request carries no
	// credentials for this scheme.
	Authenticate(r *http.Request) (*Principal, error)
}

// SignInScheme persists a principal on the client.
type SignInScheme interface {
	Scheme
	SignIn(w http.ResponseWriter, r *http.Request, p *Principal) error
	SignOut(w http.ResponseWriter, r *http.Request) error
}

// Renewer is implemented by schemes with sliding expiration.
type Renewer interface {
	Renew(w http.ResponseWriter, r *http.Request, p *Principal) error
}
