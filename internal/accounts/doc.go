// Package accounts is the sample module served by cmd/hostkit. It registers
// users, signs them in with a cookie or issues bearer tokens, and serves a
// cached country lookup table.
//
// Routes:
//
//	POST /account/register   create a user
//	POST /account/login      password sign-in, sets the auth cookie
//	POST /account/logout     clears the auth cookie
//	POST /account/token      password sign-in, returns a bearer token
//	GET  /account/me         the signed-in user
//	GET  /account/external   configured OAuth providers
//	GET  /account/external/{provider}[/callback]
//	                         OAuth login, mounted when Deps.External is set
//	GET  /countries          country list, ?q= filters by name, ?limit= caps it
//	GET  /countries/{code}   one country by ISO code or slug
package accounts
