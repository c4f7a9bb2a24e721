package internal

import (
	"reflect"
	"strconv"
)

// Scalar lists the types the typed Param and Query helpers parse into.
type Scalar interface {
	~string | ~int | ~int64 | ~float64 | ~bool
}

// ContextValue returns the T stored under key, or the zero T.
func ContextValue[T any](c Context, key any) T {
	v, _ := c.Get(key).(T)
	return v
}

// Claims returns the claims stored by the JWT middleware.
func Claims[T any](c Context) (*T, bool) {
	v, ok := c.Get(JWTClaimsKey{}).(*T)
	return v, ok && v != nil
}

// Param parses a path parameter, yielding the zero T when it does not parse.
func Param[T Scalar](c Context, name string) T {
	v, _ := parseScalar[T](c.Param(name))
	return v
}

func Query[T Scalar](c Context, name string) T {
	v, _ := parseScalar[T](c.Query(name))
	return v
}

// QueryDefault is Query with a fallback for missing or malformed values.
func QueryDefault[T Scalar](c Context, name string, defaultValue T) T {
	if v, ok := parseScalar[T](c.Query(name)); ok {
		return v
	}
	return defaultValue
}

// parseScalar goes through reflect so named types such as
// `type UserID int64` parse by their underlying kind.
func parseScalar[T Scalar](raw string) (T, bool) {
	var out T
	if raw == "" {
		return out, false
	}

	rv := reflect.ValueOf(&out).Elem()
	var err error
	switch rv.Kind() {
	case reflect.String:
		rv.SetString(raw)
	case reflect.Bool:
		var b bool
		if b, err = strconv.ParseBool(raw); err == nil {
			rv.SetBool(b)
		}
	case reflect.Int, reflect.Int64:
		var n int64
		if n, err = strconv.ParseInt(raw, 10, rv.Type().Bits()); err == nil {
			rv.SetInt(n)
		}
	case reflect.Float64:
		var f float64
		if f, err = strconv.ParseFloat(raw, 64); err == nil {
			rv.SetFloat(f)
		}
	}
	return out, err == nil
}
