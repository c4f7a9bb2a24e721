package slug

import (
	"crypto/rand"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/dmitrymomot/hostkit/pkg/strutil"
)

const (
	defaultSeparator = "-"
	reservedSuffix   = 6
	suffixAlphabet   = "abcdefghijklmnopqrstuvwxyz0123456789"
)

type config struct {
	replace   map[string]string
	reserved  map[string]struct{}
	separator string
	strip     string
	maxLength int
	minLength int
	suffix    int
	lowercase bool
}

// Option configures Make.
type Option func(*config)

// MaxLength limits the slug to n runes, suffix included. Zero means no limit.
func MaxLength(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.maxLength = n
		}
	}
}

// MinLength pads short slugs with a random suffix up to n runes.
func MinLength(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.minLength = n
		}
	}
}

// Separator sets the string placed between words. Defaults to "-".
func Separator(sep string) Option {
	return func(c *config) {
		c.separator = sep
	}
}

// Lowercase toggles lower-casing. Enabled by default.
func Lowercase(on bool) Option {
	return func(c *config) {
		c.lowercase = on
	}
}

// StripChars removes every rune in chars before slugifying.
func StripChars(chars string) Option {
	return func(c *config) {
		c.strip += chars
	}
}

// CustomReplace substitutes strings before slugifying. Longer keys win.
func CustomReplace(m map[string]string) Option {
	return func(c *config) {
		if c.replace == nil {
			c.replace = make(map[string]string, len(m))
		}
		for k, v := range m {
			c.replace[k] = v
		}
	}
}

// WithSuffix appends a random alphanumeric suffix of n runes.
func WithSuffix(n int) Option {
	return func(c *config) {
		if n >= 0 {
			c.suffix = n
		}
	}
}

// ReservedSlugs forces a random suffix onto slugs equal to any of words,
// compared case-insensitively.
func ReservedSlugs(words ...string) Option {
	return func(c *config) {
		if c.reserved == nil {
			c.reserved = make(map[string]struct{}, len(words))
		}
		for _, w := range words {
			c.reserved[strings.ToLower(w)] = struct{}{}
		}
	}
}

// Make converts s into a URL-safe slug.
func Make(s string, opts ...Option) string {
	cfg := config{separator: defaultSeparator, lowercase: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	s = cfg.applyReplacements(s)
	if cfg.strip != "" {
		s = strings.Map(func(r rune) rune {
			if strings.ContainsRune(cfg.strip, r) {
				return -1
			}
			return r
		}, s)
	}
	s = strutil.RemoveDiacritics(s)
	if cfg.lowercase {
		s = strings.ToLower(s)
	}

	base := cfg.words(s)
	suffix := cfg.suffix
	if _, ok := cfg.reserved[strings.ToLower(base)]; ok && base != "" && suffix == 0 {
		suffix = reservedSuffix
	}

	if cfg.maxLength > 0 {
		limit := cfg.maxLength
		if suffix > 0 {
			limit -= suffix + utf8.RuneCountInString(cfg.separator)
		}
		base = strings.TrimRight(strutil.Truncate(base, max(limit, 0)), cfg.separator)
	}

	if n := utf8.RuneCountInString(base); suffix == 0 && n < cfg.minLength {
		suffix = cfg.minLength - n
		if base != "" {
			suffix -= utf8.RuneCountInString(cfg.separator)
		}
		suffix = max(suffix, 1)
	}

	if suffix == 0 {
		return base
	}
	if base == "" {
		return randomSuffix(suffix)
	}
	return base + cfg.separator + randomSuffix(suffix)
}

func (c config) applyReplacements(s string) string {
	if len(c.replace) == 0 {
		return s
	}
	keys := make([]string, 0, len(c.replace))
	for k := range c.replace {
		if k != "" {
			keys = append(keys, k)
		}
	}
	slices.SortFunc(keys, func(a, b string) int { return len(b) - len(a) })

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		pairs = append(pairs, k, " "+c.replace[k]+" ")
	}
	return strings.NewReplacer(pairs...).Replace(s)
}

// words keeps ASCII letters and digits and collapses everything else into
// single separators.
func (c config) words(s string) string {
	var b strings.Builder
	pending := false
	for _, r := range s {
		if isASCIIAlnum(r) {
			if pending && b.Len() > 0 {
				b.WriteString(c.separator)
			}
			pending = false
			b.WriteRune(r)
			continue
		}
		pending = true
	}
	return b.String()
}

func isASCIIAlnum(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9')
}

func randomSuffix(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	for i, b := range buf {
		buf[i] = suffixAlphabet[int(b)%len(suffixAlphabet)]
	}
	return string(buf)
}
