package auth

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	domainauth "github.com/bookly-labs/bookly/internal/domain/auth"
	"github.com/bookly-labs/bookly/internal/obs"
)

type ctxKey int

const claimsKey ctxKey = iota

// ClaimsFromContext returns the verified session claims placed there by
// RequireToken. It only returns nil on routes that skipped the guard.
func ClaimsFromContext(ctx context.Context) *domainauth.Claims {
	c, _ := ctx.Value(claimsKey).(*domainauth.Claims)
	return c
}

// RequireToken authenticates a request with a bearer token of the given
// kind. The checks run strictly in order: structural validity, revocation,
// kind. A request that fails an earlier check never reveals how it would have
// fared on a later one, and a revoked token answers exactly like a malformed
// one. Only the rejection metric remembers the real reason.
func (c *Controller) RequireToken(kind domainauth.TokenKind) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := bearerToken(r)
			if raw == "" {
				tokenRejections.WithLabelValues("missing").Inc()
				writeError(w, domainauth.ErrInvalidToken)
				return
			}

			claims, err := c.tokens.Verify(raw)
			if err != nil {
				tokenRejections.WithLabelValues("invalid").Inc()
				writeError(w, domainauth.ErrInvalidToken)
				return
			}

			revoked, err := c.blocklist.IsRevoked(r.Context(), claims.JTI())
			if err != nil {
				obs.WithTrace(r.Context(), c.log).Error("blocklist lookup failed", zap.Error(err))
				writeError(w, domainauth.ErrServer)
				return
			}
			if revoked {
				tokenRejections.WithLabelValues("revoked").Inc()
				writeError(w, domainauth.ErrInvalidToken)
				return
			}

			if claims.Refresh != (kind == domainauth.RefreshToken) {
				tokenRejections.WithLabelValues("wrong_kind").Inc()
				if kind == domainauth.RefreshToken {
					writeError(w, domainauth.ErrRefreshTokenRequired)
				} else {
					writeError(w, domainauth.ErrAccessTokenRequired)
				}
				return
			}

			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
		})
	}
}

// RequireRoles authorizes an already-authenticated request. The account is
// re-read from storage so a role change or un-verification takes effect on
// the next request, not at next login. Verification is checked before role,
// an unverified admin hears about verification first.
func (c *Controller) RequireRoles(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := ClaimsFromContext(r.Context())
			if claims == nil {
				writeError(w, domainauth.ErrInvalidToken)
				return
			}
			rec, err := c.uc.Me(r.Context(), claims)
			if err != nil {
				writeDomainError(w, r, c.log, err)
				return
			}
			if !rec.IsVerified {
				writeError(w, domainauth.ErrAccountNotVerified)
				return
			}
			for _, role := range roles {
				if rec.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeError(w, domainauth.ErrInsufficientPermission)
		})
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(h, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
