package strutil

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const ellipsis = "..."

// Truncate cuts s to at most n runes.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	i := 0
	for pos := range s {
		if i == n {
			return s[:pos]
		}
		i++
	}
	return s
}

// Ellipsis shortens s to n runes including a trailing "...".
// Strings that already fit are returned unchanged.
func Ellipsis(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	if n <= len(ellipsis) {
		return Truncate(ellipsis, n)
	}
	return strings.TrimRightFunc(Truncate(s, n-len(ellipsis)), unicode.IsSpace) + ellipsis
}

// IsBlank reports whether s is empty or only whitespace.
func IsBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// DefaultIfBlank returns def when s is blank.
func DefaultIfBlank(s, def string) string {
	if IsBlank(s) {
		return def
	}
	return s
}

// Mask replaces every rune of s with '*' except the last visible runes.
func Mask(s string, visible int) string {
	return MaskWith(s, visible, '*')
}

// MaskWith is Mask with a custom mask rune.
func MaskWith(s string, visible int, mask rune) string {
	runes := []rune(s)
	if visible < 0 {
		visible = 0
	}
	if visible >= len(runes) {
		return s
	}
	for i := range len(runes) - visible {
		runes[i] = mask
	}
	return string(runes)
}

// Reverse returns s with its runes in reverse order.
func Reverse(s string) string {
	runes := []rune(s)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return string(runes)
}
