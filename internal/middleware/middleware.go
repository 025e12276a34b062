package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"

	"github.com/HomeHarmony/HH-Backend/internal/token"
	"github.com/HomeHarmony/HH-Backend/internal/utils"
	"golang.org/x/time/rate"
)

// SessionCookieName is the cookie carrying the signed session token. The
// value is scheme-tagged: "Bearer <token>".
const SessionCookieName = "access_token"

const bearerPrefix = "Bearer "

type TokenVerifier interface {
	Verify(tokenString string) (*token.Claims, error)
}

// claimsFromRequest extracts and verifies the session token from the cookie.
// A missing cookie is reported separately from a malformed or invalid one so
// optional routes can treat "no cookie" as anonymous while still failing
// closed on garbage.
func claimsFromRequest(r *http.Request, verifier TokenVerifier) (claims *token.Claims, present bool, err error) {
	cookie, cerr := r.Cookie(SessionCookieName)
	if cerr != nil {
		return nil, false, nil
	}

	value, ok := strings.CutPrefix(cookie.Value, bearerPrefix)
	if !ok {
		return nil, true, token.ErrInvalidToken
	}

	claims, err = verifier.Verify(value)
	if err != nil {
		return nil, true, err
	}
	return claims, true, nil
}

func withIdentity(ctx context.Context, claims *token.Claims) context.Context {
	ctx = context.WithValue(ctx, utils.ContextUserIDKey, claims.UserID)
	ctx = context.WithValue(ctx, utils.ContextUsernameKey, claims.Username)
	return ctx
}

// RequireAuth rejects requests without a valid session token.
func RequireAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, present, err := claimsFromRequest(r, verifier)
			if !present {
				http.Error(w, "Couldn't find cookie", http.StatusUnauthorized)
				return
			}
			if err != nil {
				http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
		})
	}
}

// OptionalAuth injects identity when a valid token is present and lets the
// request through anonymously when the cookie is absent. A cookie that is
// present but malformed or expired is still rejected.
func OptionalAuth(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, present, err := claimsFromRequest(r, verifier)
			if !present {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				http.Error(w, "Invalid or expired session", http.StatusUnauthorized)
				return
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), claims)))
		})
	}
}

// Throttle limits requests per client IP. Used on the credential endpoints to
// slow down password guessing.
func Throttle(r rate.Limit, burst int) func(http.Handler) http.Handler {
	var mu sync.Mutex
	limiters := make(map[string]*rate.Limiter)

	limiterFor := func(ip string) *rate.Limiter {
		mu.Lock()
		defer mu.Unlock()
		lim, ok := limiters[ip]
		if !ok {
			lim = rate.NewLimiter(r, burst)
			limiters[ip] = lim
		}
		return lim
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ip, _, err := net.SplitHostPort(req.RemoteAddr)
			if err != nil {
				ip = req.RemoteAddr
			}
			if !limiterFor(ip).Allow() {
				http.Error(w, "Too many requests", http.StatusTooManyRequests)
				return
			}
			next.ServeHTTP(w, req)
		})
	}
}
