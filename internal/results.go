package internal

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/logger"
	"github.com/dmitrymomot/hostkit/pkg/problem"
	"github.com/dmitrymomot/hostkit/pkg/result"
)

// Respond writes a successful result as JSON with status, or its errors as
// problem details. A 204 status writes no body.
func Respond[T any](c Context, status int, r result.Result[T]) error {
	if r.IsError() {
		return RespondErrors(c, r.Errors()...)
	}
	if status == http.StatusNoContent {
		return c.NoContent(status)
	}
	return c.JSON(status, r.Value())
}

// RespondErrors renders domain errors as problem details. Unexpected errors
// are logged with their cause and rendered without a description.
func RespondErrors(c Context, list ...errs.Error) error {
	d := problem.FromErrors(list, problemOptions(c)...)
	if d.Status >= http.StatusInternalServerError {
		logFailure(c, d, errs.Errors(list))
	}
	return Problem(c, d)
}

// Created writes v as JSON with status 201 and a Location header.
func Created[T any](c Context, location string, v T) error {
	if location != "" {
		c.SetHeader("Location", location)
	}
	return c.JSON(http.StatusCreated, v)
}

// Problem writes d as application/problem+json. Missing instance and
// trace ID are filled from the request.
func Problem(c Context, d problem.Details) error {
	if d.Instance == "" {
		d.Instance = c.Request().URL.Path
	}
	if d.TraceID == "" {
		d.TraceID = c.RequestID()
	}
	return problem.Write(c.Response(), d)
}

// ProblemFor classifies err:
//   - *HTTPError keeps its status and message
//   - errs.Error and errs.Errors map through their types
//   - deadline exceeded becomes 504
//   - anything else becomes a 500 without details
func ProblemFor(c Context, err error) problem.Details {
	opts := problemOptions(c)

	if httpErr := AsHTTPError(err); httpErr != nil {
		return httpErr.Problem(opts...)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return problem.New(http.StatusGatewayTimeout, opts...)
	}
	return problem.FromErrors(errs.From(err), opts...)
}

// DefaultErrorHandler renders every handler error as problem details and
// logs server-side failures.
func DefaultErrorHandler(c Context, err error) error {
	d := ProblemFor(c, err)
	if d.Status >= http.StatusInternalServerError {
		logFailure(c, d, err)
	}
	return Problem(c, d)
}

func problemOptions(c Context) []problem.Option {
	return []problem.Option{
		problem.WithInstance(c.Request().URL.Path),
		problem.WithTraceID(c.RequestID()),
	}
}

func logFailure(c Context, d problem.Details, err error) {
	c.LogError("request failed",
		logger.Error(err),
		"status", d.Status,
		"method", c.Request().Method,
		"path", c.Request().URL.Path,
	)
}
