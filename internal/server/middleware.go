package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/hnrobert/pypiauth/internal/logger"
	"github.com/hnrobert/pypiauth/internal/plugin"
)

type ctxKey string

const ctxUsername ctxKey = "username"

// httpRequest exposes an *http.Request's Authorization header to plugins.
type httpRequest struct {
	r *http.Request
}

func (h httpRequest) BasicAuth() (string, string, bool) {
	return h.r.BasicAuth()
}

// RequireAuth lets a request through only when a accepts it. Rejections and
// requests without credentials get a Basic challenge for realm; any other
// authenticator error becomes a 500.
func RequireAuth(a plugin.Authenticator, realm string, m *Metrics) func(http.Handler) http.Handler {
	challenge := fmt.Sprintf("Basic realm=%q", realm)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ok, err := a.Authenticate(httpRequest{r: r})
			if errors.Is(err, plugin.ErrNoCredentials) {
				ok, err = false, nil
			}
			if err != nil {
				m.observe(resultError)
				logger.Error("%s: %s %s: %v", a.Name(), r.Method, r.URL.Path, err)
				http.Error(w, "authentication unavailable", http.StatusInternalServerError)
				return
			}
			if !ok {
				m.observe(resultRejected)
				w.Header().Set("WWW-Authenticate", challenge)
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}
			m.observe(resultAccepted)
			ctx := r.Context()
			if username, _, has := r.BasicAuth(); has {
				ctx = context.WithValue(ctx, ctxUsername, username)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFrom returns the user a request was authenticated as, or "" when
// authentication was disabled or no credentials were sent.
func UsernameFrom(r *http.Request) string {
	if v := r.Context().Value(ctxUsername); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}
