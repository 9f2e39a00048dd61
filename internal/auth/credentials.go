package auth

import "strings"

// TokenCookieName is the session cookie set at login and cleared at logout.
const TokenCookieName = "token"

// bearerPrefix is matched literally; a header that does not start with it
// is ignored rather than rejected, so the cookie still gets a chance.
const bearerPrefix = "Bearer "

// TokenSource identifies where a credential was found.
type TokenSource string

const (
	TokenSourceHeader TokenSource = "header"
	TokenSourceCookie TokenSource = "cookie"
	TokenSourceNone   TokenSource = "none"
)

// ExtractCredential pulls a bearer token from the Authorization header,
// falling back to the session cookie. An absent credential is a normal
// outcome, not an error.
func ExtractCredential(authHeader, cookieValue string) (string, TokenSource) {
	if strings.HasPrefix(authHeader, bearerPrefix) {
		return authHeader[len(bearerPrefix):], TokenSourceHeader
	}
	if cookieValue != "" {
		return cookieValue, TokenSourceCookie
	}
	return "", TokenSourceNone
}
