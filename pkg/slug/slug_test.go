package slug_test

import (
	"regexp"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hostkit/pkg/slug"
)

func TestMake(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		opts []slug.Option
		want string
	}{
		{name: "simple text", in: "Hello World", want: "hello-world"},
		{name: "punctuation", in: "Hello, World!", want: "hello-world"},
		{name: "numbers", in: "Product 123", want: "product-123"},
		{name: "repeated spaces", in: "Too    Many     Spaces", want: "too-many-spaces"},
		{name: "surrounding spaces", in: "  Trim Me  ", want: "trim-me"},
		{name: "prices", in: "Price: $99.99", want: "price-99-99"},
		{name: "empty", in: "", want: ""},
		{name: "only symbols", in: "!@#$%^&*()", want: ""},
		{name: "diacritics", in: "Café résumé naïve", want: "cafe-resume-naive"},
		{name: "sharp s", in: "München straße", want: "munchen-strasse"},
		{name: "cyrillic dropped", in: "Привет world", want: "world"},
		{name: "keep case", in: "Hello World", opts: []slug.Option{slug.Lowercase(false)}, want: "Hello-World"},
		{name: "custom separator", in: "Hello World", opts: []slug.Option{slug.Separator("_")}, want: "hello_world"},
		{
			name: "max length trims trailing separator",
			in:   "This is a very long title that should be truncated",
			opts: []slug.Option{slug.MaxLength(20)},
			want: "this-is-a-very-long",
		},
		{name: "strip chars", in: "Price: $100", opts: []slug.Option{slug.StripChars("$:")}, want: "price-100"},
		{
			name: "custom replacements",
			in:   "Fish & Chips @ Home",
			opts: []slug.Option{slug.CustomReplace(map[string]string{"&": "and", "@": "at"})},
			want: "fish-and-chips-at-home",
		},
		{
			name: "longer replacement wins",
			in:   "C++ and C",
			opts: []slug.Option{slug.CustomReplace(map[string]string{"C++": "cpp", "+": "plus"})},
			want: "cpp-and-c",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, slug.Make(tt.in, tt.opts...))
		})
	}
}

func TestMakeSuffix(t *testing.T) {
	t.Parallel()

	t.Run("random suffix", func(t *testing.T) {
		t.Parallel()

		s := slug.Make("Article Title", slug.WithSuffix(8))
		require.Regexp(t, regexp.MustCompile(`^article-title-[a-z0-9]{8}$`), s)
		require.NotEqual(t, s, slug.Make("Article Title", slug.WithSuffix(8)))
	})

	t.Run("suffix counts toward max length", func(t *testing.T) {
		t.Parallel()

		s := slug.Make("Long Article Title", slug.MaxLength(20), slug.WithSuffix(6))
		require.Regexp(t, regexp.MustCompile(`^long-article-[a-z0-9]{6}$`), s)
		require.LessOrEqual(t, utf8.RuneCountInString(s), 20)
	})

	t.Run("reserved slugs", func(t *testing.T) {
		t.Parallel()

		s := slug.Make("Admin", slug.ReservedSlugs("admin", "api"))
		require.Regexp(t, regexp.MustCompile(`^admin-[a-z0-9]{6}$`), s)
		require.Equal(t, "administrator", slug.Make("Administrator", slug.ReservedSlugs("admin")))
	})

	t.Run("min length pads", func(t *testing.T) {
		t.Parallel()

		s := slug.Make("hi", slug.MinLength(10))
		require.Len(t, s, 10)
		require.True(t, strings.HasPrefix(s, "hi-"))

		require.Len(t, slug.Make("!!!", slug.MinLength(5)), 5)
		require.Equal(t, "long-enough", slug.Make("Long enough", slug.MinLength(5)))
	})
}
