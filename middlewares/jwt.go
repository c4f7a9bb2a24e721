package middlewares

import (
	"errors"

	"github.com/dmitrymomot/hostkit/internal"
	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/jwt"
)

type JWTOption func(*jwtConfig)

type jwtConfig struct {
	tokens   internal.Extractor
	optional bool
}

// WithJWTExtractor changes where the token is read from. The default is
// the Authorization bearer header.
func WithJWTExtractor(ext internal.Extractor) JWTOption {
	return func(cfg *jwtConfig) { cfg.tokens = ext }
}

// WithJWTOptional admits requests that carry no token. A token that is
// sent must still verify.
func WithJWTOptional() JWTOption {
	return func(cfg *jwtConfig) { cfg.optional = true }
}

// JWT verifies a token with svc and stores its claims, decoded into T, for
// hostkit.Claims[T]. It is meant for custom claim shapes; Authenticate with
// auth.JWTBearer covers plain user tokens.
func JWT[T any](svc *jwt.Service, opts ...JWTOption) internal.Middleware {
	cfg := jwtConfig{tokens: internal.NewExtractor(internal.FromBearerToken())}
	for _, opt := range opts {
		opt(&cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) error {
			token, found := cfg.tokens.Extract(c)
			switch {
			case found:
			case cfg.optional:
				return next(c)
			default:
				return auth.Unauthenticated()
			}

			claims := new(T)
			if err := svc.Parse(token, claims); err != nil {
				return tokenError(err)
			}
			c.Set(internal.JWTClaimsKey{}, claims)
			return next(c)
		}
	}
}

func tokenError(err error) errs.Error {
	if errors.Is(err, jwt.ErrExpiredToken) {
		return errs.Unauthorized(auth.CodeTokenExpired, "The access token has expired.").WithCause(err)
	}
	return errs.Unauthorized(auth.CodeInvalidToken, "The access token is invalid.").WithCause(err)
}
