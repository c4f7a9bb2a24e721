package problem

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/hostkit/pkg/errs"
)

// ContentType is the media type of problem detail responses.
const ContentType = "application/problem+json"

// Details is an RFC 9457 problem details object.
type Details struct {
	Errors   map[string][]string `json:"errors,omitempty"`
	Type     string              `json:"type"`
	Title    string              `json:"title"`
	Detail   string              `json:"detail,omitempty"`
	Instance string              `json:"instance,omitempty"`
	TraceID  string              `json:"traceId,omitempty"`
	Code     string              `json:"code,omitempty"`
	Status   int                 `json:"status"`
}

// Option configures Details built by New or FromErrors.
type Option func(*Details)

func WithInstance(instance string) Option {
	return func(d *Details) {
		d.Instance = instance
	}
}

func WithTraceID(id string) Option {
	return func(d *Details) {
		d.TraceID = id
	}
}

func WithDetail(detail string) Option {
	return func(d *Details) {
		d.Detail = detail
	}
}

func WithTitle(title string) Option {
	return func(d *Details) {
		d.Title = title
	}
}

func WithCode(code string) Option {
	return func(d *Details) {
		d.Code = code
	}
}

// New builds problem details for a bare status code.
func New(status int, opts ...Option) Details {
	d := Details{
		Type:   typeURI(status),
		Title:  http.StatusText(status),
		Status: status,
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// FromErrors converts domain errors to problem details. An empty list yields
// a 500 problem.
func FromErrors(list errs.Errors, opts ...Option) Details {
	if len(list) == 0 {
		return New(http.StatusInternalServerError, opts...)
	}

	if list.AllOf(errs.TypeValidation) {
		d := New(http.StatusBadRequest, WithTitle("One or more validation errors occurred."))
		d.Errors = make(map[string][]string, len(list))
		for _, e := range list {
			d.Errors[e.Code] = append(d.Errors[e.Code], e.Description)
		}
		for _, opt := range opts {
			opt(&d)
		}
		return d
	}

	first := list.First()
	status := errs.StatusCode(first.Type)
	d := New(status, WithCode(first.Code))
	// Descriptions of unexpected errors may leak internals.
	if first.Type != errs.TypeUnexpected {
		d.Detail = first.Description
	}
	for _, opt := range opts {
		opt(&d)
	}
	return d
}

// Write renders d as JSON with the problem content type.
func Write(w http.ResponseWriter, d Details) error {
	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(d.Status)
	return json.NewEncoder(w).Encode(d)
}

func typeURI(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.1"
	case http.StatusUnauthorized:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.2"
	case http.StatusForbidden:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.4"
	case http.StatusNotFound:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.5"
	case http.StatusMethodNotAllowed:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.6"
	case http.StatusConflict:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.10"
	case http.StatusUnprocessableEntity:
		return "https://tools.ietf.org/html/rfc9110#section-15.5.21"
	case http.StatusInternalServerError:
		return "https://tools.ietf.org/html/rfc9110#section-15.6.1"
	case http.StatusServiceUnavailable:
		return "https://tools.ietf.org/html/rfc9110#section-15.6.4"
	case http.StatusGatewayTimeout:
		return "https://tools.ietf.org/html/rfc9110#section-15.6.5"
	default:
		return "about:blank"
	}
}
