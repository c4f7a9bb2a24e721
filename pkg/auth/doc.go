// Package auth resolves the caller of an HTTP request into a [Principal].
//
// A [Scheme] reads credentials from a request. Two schemes are provided:
//
//   - [JWTBearer] validates "Authorization: Bearer" tokens with pkg/jwt.
//   - [Cookie] stores an encrypted ticket in a cookie and supports sliding
//     expiration. It also implements [SignInScheme].
//
// [External] drives OAuth2 logins through pkg/oauth and signs the resolved
// principal in with a SignInScheme.
//
// Schemes return (nil, nil) when the request carries no credentials for
// them, and an error when credentials are present but invalid. The
// Authenticate middleware tries schemes in order and stores the first
// principal in the request context:
//
//	p, ok := auth.FromContext(r.Context())
package auth
