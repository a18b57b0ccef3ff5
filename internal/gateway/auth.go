package gateway

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// authMiddleware guards routes behind the configured bearer token. Token
// comparison is constant time so neither length nor content leaks through
// response timing.
func authMiddleware(cfg AuthConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !bearerMatches(r.Header.Get("Authorization"), cfg.BearerToken) {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerMatches reports whether the Authorization header carries want as a
// bearer token.
func bearerMatches(header, want string) bool {
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(token), []byte(want)) == 1
}
