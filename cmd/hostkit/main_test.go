package main

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/db"
	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/identity"
	"github.com/dmitrymomot/hostkit/pkg/jwt"
)

const signingKey = "cli-test-signing-key-of-32-bytes!!"

func execute(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var out, errOut bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestTokenCommand(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", signingKey)

	out, err := execute(t, "", "token", "--subject", "user-1", "--role", "admin", "--ttl", "1h")
	require.NoError(t, err)
	token := strings.TrimSpace(out)
	require.NotEmpty(t, token)

	cfg := jwt.DefaultConfig()
	cfg.SigningKey = signingKey
	svc, err := jwt.New(cfg)
	require.NoError(t, err)

	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	p, err := auth.NewJWTBearer(svc).Authenticate(req)
	require.NoError(t, err)
	require.Equal(t, "user-1", p.Subject)
	require.Equal(t, []string{"admin"}, p.Roles)

	_, err = execute(t, "", "token")
	require.Error(t, err)
}

func TestHashPasswordCommand(t *testing.T) {
	t.Setenv("IDENTITY_BCRYPT_COST", "4")

	out, err := execute(t, "Str0ng!Pass\n", "hash-password")
	require.NoError(t, err)
	require.True(t, identity.IsHash(strings.TrimSpace(out)))

	_, err = execute(t, "weak\n", "hash-password")
	var list errs.Errors
	require.ErrorAs(t, err, &list)
	require.Equal(t, errs.TypeValidation, list.First().Type)

	out, err = execute(t, "weak\n", "hash-password", "--skip-policy")
	require.NoError(t, err)
	require.True(t, identity.IsHash(strings.TrimSpace(out)))

	_, err = execute(t, "", "hash-password")
	require.ErrorIs(t, err, errEmptyPassword)
}

func TestConfigCommand(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", signingKey)
	t.Setenv("APP_NAME", "shop")

	out, err := execute(t, "", "config")
	require.NoError(t, err)
	require.Contains(t, out, "name: shop")
	require.Contains(t, out, "algorithm: HS256")
	require.NotContains(t, out, signingKey)

	out, err = execute(t, "", "config", "--env")
	require.NoError(t, err)
	require.Contains(t, out, "HTTP_ADDR")
	require.Contains(t, out, "JWT_SIGNING_KEY")
}

func TestCommandsRequireDatabase(t *testing.T) {
	t.Setenv("DATABASE_CONN_URL", "")

	for _, args := range [][]string{
		{"serve"},
		{"migrate", "up"},
		{"migrate", "down"},
		{"migrate", "status"},
	} {
		_, err := execute(t, "", args...)
		require.ErrorIs(t, err, db.ErrEmptyConnectionString, args)
	}
}
