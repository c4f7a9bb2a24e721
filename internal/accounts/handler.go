package accounts

import (
	"errors"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/dmitrymomot/hostkit"
	"github.com/dmitrymomot/hostkit/middlewares"
	"github.com/dmitrymomot/hostkit/pkg/auth"
	"github.com/dmitrymomot/hostkit/pkg/errs"
	"github.com/dmitrymomot/hostkit/pkg/guid"
	"github.com/dmitrymomot/hostkit/pkg/identity"
	"github.com/dmitrymomot/hostkit/pkg/numutil"
	"github.com/dmitrymomot/hostkit/pkg/result"
	"github.com/dmitrymomot/hostkit/pkg/slug"
	"github.com/dmitrymomot/hostkit/pkg/strutil"
)

// TokenIssuer signs bearer tokens. *auth.JWTBearer implements it.
type TokenIssuer interface {
	Issue(p *auth.Principal) (string, time.Time, error)
}

// Deps are the services the handler needs.
type Deps struct {
	Store     identity.UserStore
	Users     *identity.UserManager
	SignIn    *identity.SignInManager
	Tokens    TokenIssuer
	Countries Countries
	// External enables the OAuth login routes when set.
	External *auth.External
}

// Handler serves the account and country routes.
type Handler struct {
	deps Deps
}

func NewHandler(deps Deps) *Handler {
	return &Handler{deps: deps}
}

func (h *Handler) Routes(r hostkit.Router) {
	r.Route("/account", func(r hostkit.Router) {
		r.POST("/register", h.register)
		r.POST("/login", h.login)
		r.POST("/logout", h.logout)
		r.POST("/token", h.token)
		r.GET("/me", h.me, middlewares.RequireAuthenticated())
		if h.deps.External != nil {
			r.GET("/external", h.externalProviders)
			r.GET("/external/{provider}", h.externalLogin)
			r.GET("/external/{provider}/callback", h.externalCallback)
		}
	})
	r.GET("/countries", h.listCountries)
	r.GET("/countries/{code}", h.getCountry)
}

type profile struct {
	ID          string   `json:"id"`
	ShortID     string   `json:"short_id"`
	UserName    string   `json:"user_name"`
	Email       string   `json:"email"`
	DisplayName string   `json:"display_name,omitempty"`
	Roles       []string `json:"roles"`
}

func newProfile(u *identity.User) profile {
	return profile{
		ID:          u.ID.String(),
		ShortID:     guid.ToShort(u.ID),
		UserName:    u.UserName,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		Roles:       u.Roles,
	}
}

func principalFor(u *identity.User) *auth.Principal {
	return &auth.Principal{
		Subject: u.ID.String(),
		Name:    strutil.DefaultIfBlank(u.DisplayName, u.UserName),
		Email:   u.Email,
		Roles:   u.Roles,
	}
}

type registerRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

func (r registerRequest) Validate() errs.Errors {
	var list errs.Errors
	if _, err := mail.ParseAddress(r.Email); err != nil {
		list = append(list, errs.Validation("Email.Invalid", "A valid email address is required."))
	}
	if r.Password == "" {
		list = append(list, errs.Validation("Password.Required", "Password is required."))
	}
	return list
}

func (h *Handler) register(c hostkit.Context) error {
	var in registerRequest
	if err := c.BindJSON(&in); err != nil {
		return err
	}

	u := &identity.User{
		Email:       in.Email,
		DisplayName: strutil.StripHTML(in.DisplayName),
	}
	res := h.deps.Users.Create(c, u, in.Password)
	return hostkit.Respond(c, http.StatusCreated, result.Map(res, newProfile))
}

type credentials struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

func (r credentials) Validate() errs.Errors {
	if strutil.IsBlank(r.Login) || r.Password == "" {
		return errs.Errors{errs.Validation("Credentials.Required", "Login and password are required.")}
	}
	return nil
}

func (h *Handler) authenticate(c hostkit.Context) (*identity.User, error) {
	var in credentials
	if err := c.BindJSON(&in); err != nil {
		return nil, err
	}
	return h.deps.SignIn.PasswordSignIn(c, in.Login, in.Password).Unwrap()
}

func (h *Handler) login(c hostkit.Context) error {
	u, err := h.authenticate(c)
	if err != nil {
		return err
	}
	if err := c.SignIn(principalFor(u)); err != nil {
		return err
	}
	c.LogInfo("user signed in", "user_id", u.ID.String())
	return c.JSON(http.StatusOK, newProfile(u))
}

func (h *Handler) logout(c hostkit.Context) error {
	if err := c.SignOut(); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

type tokenResponse struct {
	ExpiresAt   time.Time `json:"expires_at"`
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresIn   int64     `json:"expires_in"`
}

func (h *Handler) token(c hostkit.Context) error {
	u, err := h.authenticate(c)
	if err != nil {
		return err
	}
	token, exp, err := h.deps.Tokens.Issue(principalFor(u))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, tokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   exp,
		ExpiresIn:   int64(time.Until(exp).Round(time.Second).Seconds()),
	})
}

func (h *Handler) me(c hostkit.Context) error {
	id, err := guid.Parse(c.UserID())
	if err != nil {
		return auth.Unauthenticated()
	}
	u, err := h.deps.Store.FindByID(c, id)
	if errors.Is(err, identity.ErrUserNotFound) {
		return auth.Unauthenticated()
	}
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, newProfile(u))
}

const (
	defaultCountryLimit = 50
	maxCountryLimit     = 250
)

// countryView adds the URL slug to a Country.
type countryView struct {
	Country
	Slug string `json:"slug"`
}

func newCountryView(c Country) countryView {
	return countryView{Country: c, Slug: slug.Make(c.Name)}
}

func (h *Handler) listCountries(c hostkit.Context) error {
	all, err := h.deps.Countries.All(c)
	if err != nil {
		return err
	}
	limit := numutil.Clamp(numutil.ParseOr(c.Query("limit"), defaultCountryLimit), 1, maxCountryLimit)

	list := filterCountries(all, c.Query("q"))
	if len(list) > limit {
		list = list[:limit]
	}
	out := make([]countryView, 0, len(list))
	for _, country := range list {
		out = append(out, newCountryView(country))
	}
	return c.JSON(http.StatusOK, out)
}

// filterCountries keeps countries whose name contains q, ignoring case
// and accents.
func filterCountries(all []Country, q string) []Country {
	q = fold(q)
	if q == "" {
		return all
	}
	out := make([]Country, 0, len(all))
	for _, c := range all {
		if strings.Contains(fold(c.Name), q) {
			out = append(out, c)
		}
	}
	return out
}

func fold(s string) string {
	return strings.ToLower(strutil.RemoveDiacritics(strings.TrimSpace(s)))
}

// getCountry accepts an ISO code ("de") or a slug ("united-kingdom").
func (h *Handler) getCountry(c hostkit.Context) error {
	ref := c.Param("code")
	country, ok, err := h.findCountry(c, ref)
	if err != nil {
		return err
	}
	if !ok {
		return errs.NotFound("Country.NotFound", "No country matches '"+ref+"'.")
	}
	return c.JSON(http.StatusOK, newCountryView(country))
}

func (h *Handler) findCountry(c hostkit.Context, ref string) (Country, bool, error) {
	if len(ref) == 2 {
		return h.deps.Countries.Get(c, strings.ToUpper(ref))
	}
	all, err := h.deps.Countries.All(c)
	if err != nil {
		return Country{}, false, err
	}
	want := slug.Make(ref)
	for _, country := range all {
		if slug.Make(country.Name) == want {
			return country, true, nil
		}
	}
	return Country{}, false, nil
}
