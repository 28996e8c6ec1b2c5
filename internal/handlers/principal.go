package handlers

import (
	"context"
	"net/http"
	"strings"

	"github.com/clipstream/backend/internal/auth"
)

// Principal identifies the authenticated caller for the lifetime of a
// request.
type Principal struct {
	ID       string
	Username string
	Email    string
	FullName string
}

type principalKey struct{}

func withPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// PrincipalFromContext returns the caller attached by RequireAuth. The
// boolean is false on unauthenticated requests.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}

// TokenVerifier checks an access token and returns its claims.
type TokenVerifier interface {
	VerifyAccess(token string) (*auth.AccessClaims, error)
}

// Authenticator gates routes behind a verified access token, taken from
// the access cookie or an Authorization bearer header.
type Authenticator struct {
	Verifier TokenVerifier
}

func (a Authenticator) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := bearerToken(r)
		if token == "" {
			respondFailure(r.Context(), w, http.StatusUnauthorized, "authentication required")
			return
		}

		claims, err := a.Verifier.VerifyAccess(token)
		if err != nil {
			respondFailure(r.Context(), w, http.StatusUnauthorized, "invalid or expired access token")
			return
		}

		ctx := withPrincipal(r.Context(), Principal{
			ID:       claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
			FullName: claims.FullName,
		})
		next(w, r.WithContext(ctx))
	}
}

// requireOwner enforces the ownership gate on mutations: only the resource
// owner may proceed. Non-owners get a 403 and false.
func requireOwner(ctx context.Context, w http.ResponseWriter, ownerID string) (Principal, bool) {
	principal, _ := PrincipalFromContext(ctx)
	if principal.ID != ownerID {
		respondFailure(ctx, w, http.StatusForbidden, "you do not own this resource")
		return principal, false
	}
	return principal, true
}

func bearerToken(r *http.Request) string {
	if cookie, err := r.Cookie(accessCookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}
	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}
