// Package strutil holds string helpers shared across hostkit applications:
// truncation, case conversion, diacritic folding, HTML stripping and masking.
//
// All functions are rune-aware, so multi-byte input is never split in the
// middle of a character.
//
//	strutil.ToSnakeCase("HTTPServerError") // "http_server_error"
//	strutil.Ellipsis("Hello, World", 8)    // "Hello..."
//	strutil.Mask("4111111111111111", 4)    // "************1111"
//	strutil.RemoveDiacritics("Crème brûlée") // "Creme brulee"
//
// StripHTML and SanitizeHTML use bluemonday policies. StripHTML removes every
// tag; SanitizeHTML keeps basic formatting for user-generated content.
package strutil
