// Package errs defines typed domain errors that travel through handlers,
// services and the database envelope without losing their classification.
//
// An [Error] carries a stable machine-readable code, a human description,
// a [Type] and optional metadata. [Errors] holds one or more of them and is
// itself an error, so it can be returned wherever a Go error is expected.
//
//	if exists {
//		return errs.Conflict("User.DuplicateEmail", "email is already registered")
//	}
//
// [From] recovers the typed errors from any Go error, falling back to a
// single [TypeUnexpected] entry for errors that carry no classification.
// [StatusCode] maps a type to the HTTP status used when rendering problem
// details.
package errs
