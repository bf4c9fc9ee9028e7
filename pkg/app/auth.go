package app

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/deskops/helpdesk-groups/pkg/config"
)

const bearerPrefix = "Bearer "

type authenticator struct {
	cfg *config.AuthConfig
}

func newAuthenticator(cfg *config.AuthConfig) *authenticator {
	if cfg == nil {
		cfg = &config.AuthConfig{}
	}

	return &authenticator{cfg: cfg}
}

// middleware lets a request through when no scheme is enabled or when any
// enabled scheme accepts its credentials.
func (a *authenticator) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !a.cfg.Basic.Enabled && !a.cfg.Bearer.Enabled {
			next.ServeHTTP(w, r)
			return
		}

		if username, password, ok := r.BasicAuth(); ok && a.cfg.Basic.Enabled && a.checkBasicAuth(username, password) {
			next.ServeHTTP(w, r)
			return
		}

		if a.cfg.Bearer.Enabled && a.checkBearer(r.Header.Get("Authorization")) {
			next.ServeHTTP(w, r)
			return
		}

		w.Header().Set("WWW-Authenticate", `Basic realm="restricted", charset="UTF-8"`)
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
	})
}

func (a *authenticator) checkBearer(header string) bool {
	token, ok := strings.CutPrefix(header, bearerPrefix)
	if !ok || token == "" {
		return false
	}

	return subtle.ConstantTimeCompare([]byte(a.cfg.Bearer.Token), []byte(token)) == 1
}

func (a *authenticator) checkBasicAuth(username, password string) bool {
	if username == "" || password == "" {
		return false
	}

	usernameHash := sha256.Sum256([]byte(username))
	passwordHash := sha256.Sum256([]byte(password))

	expectedUsernameHash := sha256.Sum256([]byte(a.cfg.Basic.Username))
	expectedPasswordHash := sha256.Sum256([]byte(a.cfg.Basic.Password))

	usernameMatch := subtle.ConstantTimeCompare(usernameHash[:], expectedUsernameHash[:]) == 1
	passwordMatch := subtle.ConstantTimeCompare(passwordHash[:], expectedPasswordHash[:]) == 1

	return usernameMatch && passwordMatch
}
