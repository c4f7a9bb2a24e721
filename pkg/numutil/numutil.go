// Package numutil provides small numeric helpers: clamping, rounding,
// percentages, byte-size formatting and parsing with a fallback.
package numutil

import (
	"cmp"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Number is any built-in integer or float type.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

// Clamp limits v to [lo, hi]. If lo > hi they are swapped.
func Clamp[T cmp.Ordered](v, lo, hi T) T {
	if lo > hi {
		lo, hi = hi, lo
	}
	return min(max(v, lo), hi)
}

// InRange reports whether lo <= v <= hi.
func InRange[T cmp.Ordered](v, lo, hi T) bool {
	return v >= lo && v <= hi
}

// Round rounds v to the given number of decimal places, half away from zero.
// Negative places round to tens, hundreds and so on.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}

// Percent returns part as a percentage of total, or 0 when total is 0.
func Percent[T Number](part, total T) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}

const byteUnits = "KMGTPE"

// HumanBytes formats n using binary prefixes: 1536 is "1.5 KiB".
func HumanBytes(n int64) string {
	if n < 0 {
		return "-" + humanBytes(uint64(-(n+1))+1)
	}
	return humanBytes(uint64(n))
}

func humanBytes(n uint64) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(1024), 0
	for v := n / 1024; v >= 1024 && exp < len(byteUnits)-1; v /= 1024 {
		div *= 1024
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), byteUnits[exp])
}

// ParseOr parses s as T and returns def when s is empty, malformed or out
// of range for T.
func ParseOr[T Number](s string, def T) T {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}

	var zero T
	if isFloat(zero) {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsInf(float64(T(v)), 0) {
			return def
		}
		return T(v)
	}
	if isUnsigned(zero) {
		v, err := strconv.ParseUint(s, 10, 64)
		if err != nil || uint64(T(v)) != v {
			return def
		}
		return T(v)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || int64(T(v)) != v {
		return def
	}
	return T(v)
}

func isFloat[T Number](T) bool {
	half := 0.5
	return T(half) != 0
}

func isUnsigned[T Number](v T) bool {
	return v-1 > v
}
