package proxy

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
)

// Auth failure codes.
const (
	codeMissingCredentials = "missing_credentials"
	codeUnsupportedScheme  = "unsupported_auth_scheme"
	codeInvalidAPIKey      = "invalid_api_key"
)

// publicPaths are the proxy's own health and metrics routes. Everything under the
// MarkLogic version prefix needs a key.
var publicPaths = map[string]struct{}{
	"/health":  {},
	"/ready":   {},
	"/metrics": {},
}

// keyring holds SHA-256 digests of the configured API keys, compared in
// constant time.
type keyring [][sha256.Size]byte

func newKeyring(apiKeys []string) keyring {
	var k keyring
	for _, key := range apiKeys {
		if key = strings.TrimSpace(key); key != "" {
			k = append(k, sha256.Sum256([]byte(key)))
		}
	}
	return k
}

func (k keyring) contains(token string) bool {
	sum := sha256.Sum256([]byte(token))
	found := 0
	for i := range k {
		found |= subtle.ConstantTimeCompare(k[i][:], sum[:])
	}
	return found == 1
}

// bearerToken extracts the token of an "Authorization: Bearer <token>"
// header. The scheme is case-insensitive.
func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// BearerAuthMiddleware requires one of apiKeys as a Bearer token on every
// route except publicPaths. With no usable keys the proxy is open and the
// middleware is a pass-through. The Authorization header is never forwarded
// upstream; MarkLogic sees the proxy's own credentials.
func BearerAuthMiddleware(apiKeys []string) func(http.Handler) http.Handler {
	keys := newKeyring(apiKeys)

	return func(next http.Handler) http.Handler {
		if len(keys) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, ok := publicPaths[r.URL.Path]; ok {
				next.ServeHTTP(w, r)
				return
			}

			header := r.Header.Get("Authorization")
			if header == "" {
				unauthorized(w, codeMissingCredentials, "missing authorization header")
				return
			}
			token, ok := bearerToken(header)
			if !ok {
				unauthorized(w, codeUnsupportedScheme, "authorization header must use the Bearer scheme")
				return
			}
			if !keys.contains(token) {
				unauthorized(w, codeInvalidAPIKey, "invalid api key")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, code, message string) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="mlproxy"`)
	writeError(w, http.StatusUnauthorized, code, message)
}
