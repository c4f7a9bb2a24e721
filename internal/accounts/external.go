package accounts

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrymomot/hostkit"
	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/identity"
	"github.com/dmitrymomot/hostkit/pkg/oauth"
	"github.com/dmitrymomot/hostkit/pkg/strutil"
)

// ResolveExternal finds the user owning the provider's verified email and
// creates one on first login. Created accounts get an unusable random
// password; they sign in through the provider until they set one.
func ResolveExternal(store identity.UserStore, users *identity.UserManager) auth.ResolveFunc {
	return func(ctx context.Context, info *oauth.UserInfo) (*auth.Principal, error) {
		if strutil.IsBlank(info.Email) {
			return nil, errs.Unauthorized(auth.CodeExternalFailed, "The provider did not share an email address.")
		}

		u, err := store.FindByEmail(ctx, identity.NormalizeEmail(info.Email))
		switch {
		case err == nil:
			if u.IsLockedOut(time.Now()) {
				return nil, errs.Forbidden(identity.CodeLockedOut, "The account is locked out.")
			}
			return principalFor(u), nil
		case !errors.Is(err, identity.ErrUserNotFound):
			return nil, err
		}

		u = &identity.User{
			Email:          info.Email,
			DisplayName:    strutil.StripHTML(info.Name),
			EmailConfirmed: true,
		}
		created, err := users.Create(ctx, u, randomPassword()).Unwrap()
		if err != nil {
			return nil, err
		}
		return principalFor(created), nil
	}
}

// randomPassword satisfies the default password policy.
func randomPassword() string {
	return rand.Text() + "a1!"
}

func (h *Handler) externalLogin(c hostkit.Context) error {
	return h.deps.External.Login(c.Response(), c.Request(), c.Param("provider"))
}

func (h *Handler) externalCallback(c hostkit.Context) error {
	return h.deps.External.Callback(c.Response(), c.Request(), c.Param("provider"))
}

func (h *Handler) externalProviders(c hostkit.Context) error {
	return c.JSON(http.StatusOK, map[string][]string{"providers": h.deps.External.Providers()})
}
