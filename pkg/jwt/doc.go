// Package jwt issues and validates JSON Web Tokens.
//
// A [Service] is built from a [Config] that carries the token validation
// parameters: signing algorithm and key material, issuer, audience, lifetime
// and clock skew. HMAC (HS256, HS384, HS512) and RSA (RS256) are supported.
//
//	svc, err := jwt.New(jwt.Config{
//		SigningKey: os.Getenv("JWT_SIGNING_KEY"),
//		Issuer:     "https://api.example.com",
//		Audience:   []string{"example-web"},
//		Lifetime:   15 * time.Minute,
//	})
//
//	token, err := svc.Generate(jwt.StandardClaims{
//		RegisteredClaims: gojwt.RegisteredClaims{Subject: userID},
//		Roles:            []string{"admin"},
//	})
//
//	var claims jwt.StandardClaims
//	if err := svc.Parse(token, &claims); err != nil {
//		if errors.Is(err, jwt.ErrExpiredToken) {
//			// ask the client to refresh
//		}
//	}
//
// Generate fills the registered claims the caller left empty: iss, aud, iat,
// nbf, exp and a UUID jti. Parse accepts any JSON-decodable claims type.
package jwt
