// Package authenticator declares the authentication surface consumed by the router.
package authenticator

import "net/http"

type Authenticator interface {
	// AttachUser resolves the caller's identity if possible and never rejects.
	AttachUser(h http.Handler) http.Handler

	// RequireUser rejects requests lacking a valid identity with 401.
	RequireUser(h http.Handler) http.Handler

	// SetAuthCookie stores a freshly issued token on the response.
	SetAuthCookie(response http.ResponseWriter, token string)
}
