// Package slug turns arbitrary text into URL-safe identifiers.
//
// Diacritics are folded through strutil.RemoveDiacritics, anything that is
// not an ASCII letter or digit becomes a separator, and runs of separators
// collapse into one.
//
//	slug.Make("Hello, World!")      // "hello-world"
//	slug.Make("Café & Restaurant")  // "cafe-restaurant"
//	slug.Make("München straße")     // "munchen-strasse"
//
// Options:
//
//	slug.MaxLength(20)                          // rune limit, suffix included
//	slug.MinLength(10)                          // pad with a random suffix
//	slug.Separator("_")                         // "product_name"
//	slug.Lowercase(false)                       // keep case
//	slug.StripChars("$:")                       // drop runes first
//	slug.CustomReplace(map[string]string{"&": "and"})
//	slug.WithSuffix(6)                          // "article-title-x3k7f9"
//	slug.ReservedSlugs("admin", "api")          // "admin-k7x2m4"
//
// Scripts without a Latin decomposition (Cyrillic, CJK) are dropped.
package slug
