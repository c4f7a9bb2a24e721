package jwt

import (
	"crypto/rsa"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Service signs and validates tokens for a single Config.
type Service struct {
	method    gojwt.SigningMethod
	signKey   any
	verifyKey any
	now       func() time.Time
	cfg       Config
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source. Used by tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// New validates the key material and returns a Service.
func New(cfg Config, opts ...Option) (*Service, error) {
	if cfg.Algorithm == "" {
		cfg.Algorithm = HS256
	}
	if cfg.Lifetime <= 0 {
		cfg.Lifetime = 15 * time.Minute
	}

	s := &Service{cfg: cfg, now: time.Now}

	switch strings.ToUpper(cfg.Algorithm) {
	case HS256, HS384, HS512:
		if cfg.SigningKey == "" {
			return nil, ErrMissingKey
		}
		if len(cfg.SigningKey) < 32 {
			return nil, ErrWeakKey
		}
		s.method = gojwt.GetSigningMethod(strings.ToUpper(cfg.Algorithm))
		s.signKey = []byte(cfg.SigningKey)
		s.verifyKey = s.signKey
	case RS256:
		s.method = gojwt.SigningMethodRS256
		if err := s.loadRSA(cfg); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlg, cfg.Algorithm)
	}

	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *Service) loadRSA(cfg Config) error {
	if cfg.PrivateKeyPEM == "" && cfg.PublicKeyPEM == "" {
		return ErrMissingKey
	}
	if cfg.PrivateKeyPEM != "" {
		priv, err := gojwt.ParseRSAPrivateKeyFromPEM([]byte(cfg.PrivateKeyPEM))
		if err != nil {
			return errors.Join(ErrInvalidKey, err)
		}
		s.signKey = priv
		s.verifyKey = &priv.PublicKey
	}
	if cfg.PublicKeyPEM != "" {
		pub, err := gojwt.ParseRSAPublicKeyFromPEM([]byte(cfg.PublicKeyPEM))
		if err != nil {
			return errors.Join(ErrInvalidKey, err)
		}
		if priv, ok := s.signKey.(*rsa.PrivateKey); ok && !priv.PublicKey.Equal(pub) {
			return fmt.Errorf("%w: public key does not match private key", ErrInvalidKey)
		}
		s.verifyKey = pub
	}
	return nil
}

// Lifetime returns the configured token lifetime.
func (s *Service) Lifetime() time.Duration {
	return s.cfg.Lifetime
}

// Generate signs claims. Registered claims left empty by the caller are
// filled from the config.
func (s *Service) Generate(claims any) (string, error) {
	if s.signKey == nil {
		return "", ErrMissingKey
	}

	data, err := json.Marshal(claims)
	if err != nil {
		return "", errors.Join(ErrFailedToEncodeClaims, err)
	}
	m := gojwt.MapClaims{}
	if err := json.Unmarshal(data, &m); err != nil {
		return "", errors.Join(ErrFailedToEncodeClaims, err)
	}

	now := s.now()
	setDefault(m, "iat", now.Unix())
	setDefault(m, "nbf", now.Unix())
	setDefault(m, "exp", now.Add(s.cfg.Lifetime).Unix())
	setDefault(m, "jti", uuid.NewString())
	if s.cfg.Issuer != "" {
		setDefault(m, "iss", s.cfg.Issuer)
	}
	if len(s.cfg.Audience) > 0 {
		setDefault(m, "aud", s.cfg.Audience)
	}

	token, err := gojwt.NewWithClaims(s.method, m).SignedString(s.signKey)
	if err != nil {
		return "", errors.Join(ErrFailedToSignToken, err)
	}
	return token, nil
}

// Parse validates the token and decodes its claims into dest.
func (s *Service) Parse(token string, dest any) error {
	claims, err := s.ParseClaims(token)
	if err != nil {
		return err
	}
	if err := claims.Decode(dest); err != nil {
		return errors.Join(ErrInvalidToken, err)
	}
	return nil
}

// ParseClaims validates the token and returns the raw claim set.
func (s *Service) ParseClaims(token string) (Claims, error) {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.method.Alg()}),
		gojwt.WithTimeFunc(s.now),
		gojwt.WithLeeway(s.cfg.ClockSkew),
	}
	if s.cfg.ValidateLifetime {
		opts = append(opts, gojwt.WithExpirationRequired())
	} else {
		opts = append(opts, gojwt.WithoutClaimsValidation())
	}

	m := gojwt.MapClaims{}
	_, err := gojwt.NewParser(opts...).ParseWithClaims(token, m, func(*gojwt.Token) (any, error) {
		return s.verifyKey, nil
	})
	if err != nil {
		return nil, mapError(err)
	}

	if s.cfg.ValidateIssuer && s.cfg.Issuer != "" {
		if iss, _ := m.GetIssuer(); iss != s.cfg.Issuer {
			return nil, ErrInvalidIssuer
		}
	}
	if s.cfg.ValidateAudience && len(s.cfg.Audience) > 0 {
		aud, _ := m.GetAudience()
		if !slices.ContainsFunc(aud, func(a string) bool { return slices.Contains(s.cfg.Audience, a) }) {
			return nil, ErrInvalidAudience
		}
	}

	return Claims(m), nil
}

func mapError(err error) error {
	switch {
	case errors.Is(err, gojwt.ErrTokenExpired):
		return errors.Join(ErrExpiredToken, err)
	case errors.Is(err, gojwt.ErrTokenNotValidYet), errors.Is(err, gojwt.ErrTokenUsedBeforeIssued):
		return errors.Join(ErrTokenNotYetValid, err)
	case errors.Is(err, gojwt.ErrTokenSignatureInvalid):
		return errors.Join(ErrInvalidSignature, err)
	case errors.Is(err, gojwt.ErrTokenRequiredClaimMissing):
		return errors.Join(ErrMissingExpiration, err)
	default:
		return errors.Join(ErrInvalidToken, err)
	}
}

func setDefault(m gojwt.MapClaims, key string, value any) {
	if v, ok := m[key]; !ok || v == nil || v == "" {
		m[key] = value
	}
}
