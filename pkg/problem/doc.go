// Package problem renders errors as RFC 9457 problem details
// (application/problem+json).
//
// [FromErrors] turns a list of domain errors from package errs into a
// [Details] value: the HTTP status is taken from the first error's type and
// a list made only of validation errors is rendered as a single 400 response
// whose "errors" extension groups descriptions by error code.
//
//	d := problem.FromErrors(list, problem.WithInstance(r.URL.Path), problem.WithTraceID(reqID))
//	problem.Write(w, d)
package problem
