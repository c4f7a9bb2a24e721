package jwt

import (
	"encoding/json"
	"slices"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// StandardClaims is the claim set used for access tokens issued by the host.
type StandardClaims struct {
	gojwt.RegisteredClaims
	Name        string   `json:"name,omitempty"`
	Email       string   `json:"email,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// HasRole reports whether the claims carry the role.
func (c StandardClaims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Claims is a raw, already validated claim set.
type Claims map[string]any

// Decode copies the claims into dest through their JSON form.
func (c Claims) Decode(dest any) error {
	data, err := json.Marshal(c)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// String returns the claim as a string, or "" when absent or not a string.
func (c Claims) String(name string) string {
	s, _ := c[name].(string)
	return s
}

// Strings returns a claim that may be encoded either as a single string or
// as an array of strings.
func (c Claims) Strings(name string) []string {
	switch v := c[name].(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	}
	return nil
}
