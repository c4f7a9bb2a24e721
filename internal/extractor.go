package internal

import "strings"

// ExtractorSource reads one candidate value from a request. Empty values
// count as missing.
type ExtractorSource = func(Context) (string, bool)

// Extractor is an ordered list of sources; the first hit wins.
type Extractor []ExtractorSource

func NewExtractor(sources ...ExtractorSource) Extractor {
	return Extractor(sources)
}

func (e Extractor) Extract(c Context) (string, bool) {
	for _, src := range e {
		if v, ok := src(c); ok && v != "" {
			return v, true
		}
	}
	return "", false
}

// source adapts a plain getter.
func source(get func(Context) string) ExtractorSource {
	return func(c Context) (string, bool) {
		v := get(c)
		return v, v != ""
	}
}

// cookieSource treats unreadable or tampered cookies as missing.
func cookieSource(get func(Context) (string, error)) ExtractorSource {
	return func(c Context) (string, bool) {
		v, err := get(c)
		return v, err == nil && v != ""
	}
}

func FromHeader(name string) ExtractorSource {
	return source(func(c Context) string { return c.Header(name) })
}

func FromQuery(name string) ExtractorSource {
	return source(func(c Context) string { return c.Query(name) })
}

func FromParam(name string) ExtractorSource {
	return source(func(c Context) string { return c.Param(name) })
}

func FromForm(name string) ExtractorSource {
	return source(func(c Context) string { return c.Form(name) })
}

// FromContextValue reads a string stored with Context.Set.
func FromContextValue(key any) ExtractorSource {
	return source(func(c Context) string { return ContextValue[string](c, key) })
}

func FromCookie(name string) ExtractorSource {
	return cookieSource(func(c Context) (string, error) { return c.Cookie(name) })
}

func FromCookieSigned(name string) ExtractorSource {
	return cookieSource(func(c Context) (string, error) { return c.CookieSigned(name) })
}

func FromCookieEncrypted(name string) ExtractorSource {
	return cookieSource(func(c Context) (string, error) { return c.CookieEncrypted(name) })
}

// FromBearerToken reads "Authorization: Bearer <token>". The scheme is
// case-insensitive.
func FromBearerToken() ExtractorSource {
	return source(func(c Context) string {
		scheme, token, ok := strings.Cut(c.Header("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "bearer") {
			return ""
		}
		return strings.TrimSpace(token)
	})
}
