package httpapi

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/gorewood/continuity/internal/config"
)

// publicPath is reachable without credentials.
const publicPath = "/api/status"

// basicAuth guards next with HTTP basic authentication when auth is enabled.
func basicAuth(auth config.Auth, logger *slog.Logger, next http.Handler) http.Handler {
	if !auth.Enabled {
		return next
	}
	challenge := `Basic realm="` + auth.Realm + `"`
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == publicPath || r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		user, pass, ok := r.BasicAuth()
		if !ok || !credentialsMatch(user, pass, auth) {
			if ok {
				logger.Warn("authentication failed", "user", user, "path", r.URL.Path)
			}
			w.Header().Set("WWW-Authenticate", challenge)
			http.Error(w, "Acesso não autorizado", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// credentialsMatch compares both fields in constant time.
func credentialsMatch(user, pass string, auth config.Auth) bool {
	userOK := subtle.ConstantTimeCompare([]byte(user), []byte(auth.Username))
	passOK := subtle.ConstantTimeCompare([]byte(pass), []byte(auth.Password))
	return userOK&passOK == 1
}

// cors allows browser clients from any origin, like the original web UI.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Access-Control-Allow-Origin", "*")
		h.Set("Access-Control-Allow-Methods", "GET, PUT, OPTIONS")
		h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
