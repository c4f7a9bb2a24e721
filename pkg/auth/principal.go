package auth

import (
	"context"
	"slices"
	"time"
)

// Principal is an authenticated caller.
type Principal struct {
	IssuedAt    time.Time      `json:"iat"`
	ExpiresAt   time.Time      `json:"exp"`
	Claims      map[string]any `json:"claims,omitempty"`
	Subject     string         `json:"sub"`
	Name        string         `json:"name,omitempty"`
	Email       string         `json:"email,omitempty"`
	Scheme      string         `json:"scheme"`
	Roles       []string       `json:"roles,omitempty"`
	Permissions []string       `json:"permissions,omitempty"`
}

func (p *Principal) IsAuthenticated() bool {
	return p != nil && p.Subject != ""
}

func (p *Principal) IsInRole(role string) bool {
	return p != nil && slices.Contains(p.Roles, role)
}

// HasAnyRole reports whether the principal has at least one of roles.
func (p *Principal) HasAnyRole(roles ...string) bool {
	return slices.ContainsFunc(roles, p.IsInRole)
}

func (p *Principal) HasPermission(permission string) bool {
	return p != nil && slices.Contains(p.Permissions, permission)
}

type principalKey struct{}

// WithPrincipal stores p in ctx.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the authenticated principal, if any.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p.IsAuthenticated()
}
