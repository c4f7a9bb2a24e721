package problem_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/problem"
)

func TestFromErrors(t *testing.T) {
	t.Parallel()

	t.Run("validation errors are grouped by code", func(t *testing.T) {
		t.Parallel()

		d := problem.FromErrors(errs.Errors{
			errs.Validation("Password.TooShort", "too short"),
			errs.Validation("Password.RequiresDigit", "needs a digit"),
			errs.Validation("Password.TooShort", "still too short"),
		}, problem.WithInstance("/register"))

		require.Equal(t, http.StatusBadRequest, d.Status)
		require.Equal(t, "/register", d.Instance)
		require.Equal(t, []string{"too short", "still too short"}, d.Errors["Password.TooShort"])
		require.Len(t, d.Errors, 2)
	})

	t.Run("status follows first error type", func(t *testing.T) {
		t.Parallel()

		d := problem.FromErrors(errs.Errors{
			errs.NotFound("User.NotFound", "no such user"),
			errs.Validation("Ignored", ""),
		})
		require.Equal(t, http.StatusNotFound, d.Status)
		require.Equal(t, "User.NotFound", d.Code)
		require.Equal(t, "no such user", d.Detail)
		require.Empty(t, d.Errors)
	})

	t.Run("unexpected hides description", func(t *testing.T) {
		t.Parallel()

		d := problem.FromErrors(errs.Errors{errs.Unexpected("Db.Down", "dial tcp 10.0.0.1")})
		require.Equal(t, http.StatusInternalServerError, d.Status)
		require.Empty(t, d.Detail)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()

		d := problem.FromErrors(nil, problem.WithTraceID("req-1"))
		require.Equal(t, http.StatusInternalServerError, d.Status)
		require.Equal(t, "req-1", d.TraceID)
	})
}

func TestWrite(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	require.NoError(t, problem.Write(rec, problem.New(http.StatusConflict, problem.WithDetail("taken"))))

	require.Equal(t, http.StatusConflict, rec.Code)
	require.Equal(t, problem.ContentType, rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Equal(t, "taken", body["detail"])
	require.EqualValues(t, http.StatusConflict, body["status"])
	require.Equal(t, "Conflict", body["title"])
}
