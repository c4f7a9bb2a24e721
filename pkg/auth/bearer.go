package auth

import (
	"errors"
	"net/http"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/jwt"
)

const BearerSchemeName = "Bearer"

// JWTBearer authenticates "Authorization: Bearer <token>" requests.
type JWTBearer struct {
	svc        *jwt.Service
	name       string
	queryParam string
}

// BearerOption configures a JWTBearer.
type BearerOption func(*JWTBearer)

// WithBearerName renames the scheme.
func WithBearerName(name string) BearerOption {
	return func(b *JWTBearer) {
		b.name = name
	}
}

// WithQueryToken also accepts the token from a query parameter. Browsers
// cannot set headers on WebSocket and EventSource requests.
func WithQueryToken(param string) BearerOption {
	return func(b *JWTBearer) {
		b.queryParam = param
	}
}

func NewJWTBearer(svc *jwt.Service, opts ...BearerOption) *JWTBearer {
	b := &JWTBearer{svc: svc, name: BearerSchemeName}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *JWTBearer) Name() string {
	return b.name
}

func (b *JWTBearer) Authenticate(r *http.Request) (*Principal, error) {
	token := bearerToken(r)
	if token == "" && b.queryParam != "" {
		token = r.URL.Query().Get(b.queryParam)
	}
	if token == "" {
		return nil, nil
	}

	raw, err := b.svc.ParseClaims(token)
	if err != nil {
		if errors.Is(err, jwt.ErrExpiredToken) {
			return nil, errs.Unauthorized(CodeTokenExpired, "The access token has expired.").WithCause(err)
		}
		return nil, errs.Unauthorized(CodeInvalidToken, "The access token is invalid.").WithCause(err)
	}

	var claims jwt.StandardClaims
	if err := raw.Decode(&claims); err != nil {
		return nil, errs.Unauthorized(CodeInvalidToken, "The access token is invalid.").WithCause(err)
	}
	if claims.Subject == "" {
		return nil, errs.Unauthorized(CodeInvalidToken, "The access token has no subject.").WithCause(ErrNoSubject)
	}

	p := &Principal{
		Subject:     claims.Subject,
		Name:        claims.Name,
		Email:       claims.Email,
		Roles:       claims.Roles,
		Permissions: claims.Permissions,
		Scheme:      b.name,
		Claims:      raw,
	}
	if claims.IssuedAt != nil {
		p.IssuedAt = claims.IssuedAt.Time
	}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

// Issue signs an access token for p and returns it with its expiry.
func (b *JWTBearer) Issue(p *Principal) (string, time.Time, error) {
	if !p.IsAuthenticated() {
		return "", time.Time{}, ErrNoSubject
	}
	exp := time.Now().Add(b.svc.Lifetime()).Truncate(time.Second)
	token, err := b.svc.Generate(jwt.StandardClaims{
		RegisteredClaims: gojwt.RegisteredClaims{
			Subject:   p.Subject,
			ExpiresAt: gojwt.NewNumericDate(exp),
		},
		Name:        p.Name,
		Email:       p.Email,
		Roles:       p.Roles,
		Permissions: p.Permissions,
	})
	if err != nil {
		return "", time.Time{}, err
	}
	return token, exp, nil
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
