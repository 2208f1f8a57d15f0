// Copyright (c) 2026 Driftline. All rights reserved.

package middleware

import (
	"net/http"
	"strings"

	"github.com/driftline/driftline/internal/platform/apperr"
	"github.com/driftline/driftline/internal/platform/constants"
	"github.com/driftline/driftline/internal/platform/ctxutil"
	"github.com/driftline/driftline/internal/platform/respond"
	"github.com/driftline/driftline/internal/platform/sec"
)

// TokenVerifier defines the interface needed to verify session tokens in middleware.
//
// # Why an interface?
//
// Defining TokenVerifier here decouples the middleware from the concrete
// [sec.TokenService], allowing us to easily inject mocks during unit testing.
type TokenVerifier interface {
	Verify(tokenStr string) (*sec.SessionClaims, error)
}

// Authenticate extracts and verifies the session token for every request.
//
// # Flow
//  1. Read the `auth-token` cookie; fall back to 'Authorization: Bearer'.
//  2. If absent, the request proceeds as anonymous.
//  3. If present, verify signature and expiry via [TokenVerifier].
//  4. Inject [*sec.SessionClaims] into the request context for downstream use.
//
// An invalid or expired credential is treated exactly like an absent one: the
// request continues anonymously and protected routes reject it uniformly at
// [RequireAuth]. This keeps "no session" and "bad session" indistinguishable
// to clients.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			tokenStr := sessionToken(request)

			// Anonymous access
			if tokenStr == "" {
				next.ServeHTTP(writer, request)
				return
			}

			claims, err := verifier.Verify(tokenStr)
			if err != nil {
				// Invalid == absent. Downstream guards produce the 401.
				next.ServeHTTP(writer, request)
				return
			}

			ctx := ctxutil.WithSession(request.Context(), claims)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that do not carry a valid session.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		claims := ctxutil.GetSession(request.Context())
		if claims == nil {
			respond.Error(writer, request, apperr.Unauthorized("Not authenticated"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// sessionToken extracts the raw session credential from the request.
//
// The browser storefront presents the HTTP-only cookie; API clients may use
// a Bearer header instead.
func sessionToken(request *http.Request) string {
	if cookie, err := request.Cookie(constants.SessionCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	authHeader := request.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return parts[1]
}
