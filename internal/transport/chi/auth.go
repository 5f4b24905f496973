package chi

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

const authChallenge = `Bearer realm="recdex"`

// APIKeyAuth guards the record and search routes with static API keys sent
// as "Authorization: Bearer <key>". The scheme is matched case-insensitively.
// Paths listed in open are served without a key. With no non-empty keys the
// middleware is a pass-through.
func APIKeyAuth(keys []string, open ...string) func(http.Handler) http.Handler {
	var accepted [][]byte
	for _, k := range keys {
		if k = strings.TrimSpace(k); k != "" {
			accepted = append(accepted, []byte(k))
		}
	}
	public := make(map[string]bool, len(open))
	for _, p := range open {
		public[p] = true
	}

	return func(next http.Handler) http.Handler {
		if len(accepted) == 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if public[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}
			key, reason := bearerKey(r.Header.Get("Authorization"))
			if reason == "" && !acceptedKey(accepted, key) {
				reason = "api key is not accepted by this recdex instance"
			}
			if reason != "" {
				w.Header().Set("WWW-Authenticate", authChallenge)
				writeError(w, http.StatusUnauthorized, ErrorCodeUnauthorized, reason)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// bearerKey extracts the key from an Authorization header value. A non-empty
// reason explains why the header was rejected.
func bearerKey(header string) (key []byte, reason string) {
	if header == "" {
		return nil, "api key required for record and search routes"
	}
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return nil, "api key must be sent with the Bearer scheme"
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, "api key required for record and search routes"
	}
	return []byte(token), ""
}

// acceptedKey compares against every key in constant time.
func acceptedKey(keys [][]byte, token []byte) bool {
	match := 0
	for _, k := range keys {
		match |= subtle.ConstantTimeCompare(k, token)
	}
	return match == 1
}
