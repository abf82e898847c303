package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"slices"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
)

type contextKey string

// SubjectKey carries the verified token subject in the request context.
const SubjectKey contextKey = "auth.subject"

// Authenticator verifies bearer tokens issued by an external OIDC provider.
// Identity and session management live entirely with the provider; this
// middleware only checks that a request carries a valid identity token with
// the required role.
type Authenticator struct {
	verifier     *oidc.IDTokenVerifier
	requiredRole string
	logger       *slog.Logger
}

// NewAuthenticator discovers the OIDC provider and builds a token verifier.
// Returns nil when the config is disabled; callers skip the middleware.
func NewAuthenticator(ctx context.Context, cfg *AuthConfig, logger *slog.Logger) (*Authenticator, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	provider, err := oidc.NewProvider(ctx, cfg.Issuer)
	if err != nil {
		return nil, fmt.Errorf("discover oidc provider: %w", err)
	}

	return &Authenticator{
		verifier:     provider.Verifier(&oidc.Config{ClientID: cfg.ClientID}),
		requiredRole: cfg.RequiredRole,
		logger:       logger.With("system", "auth"),
	}, nil
}

// Middleware returns the bearer verification middleware.
func (a *Authenticator) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := bearerToken(r)
			if !ok {
				unauthorized(w, "missing bearer token")
				return
			}

			token, err := a.verifier.Verify(r.Context(), raw)
			if err != nil {
				a.logger.Debug("token rejected", "error", err)
				unauthorized(w, "invalid token")
				return
			}

			if a.requiredRole != "" {
				var claims struct {
					Roles []string `json:"roles"`
				}
				if err := token.Claims(&claims); err != nil || !slices.Contains(claims.Roles, a.requiredRole) {
					forbidden(w, "missing required role")
					return
				}
			}

			ctx := context.WithValue(r.Context(), SubjectKey, token.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Subject returns the verified token subject from the request context, or an
// empty string when authentication is disabled.
func Subject(ctx context.Context) string {
	if s, ok := ctx.Value(SubjectKey).(string); ok {
		return s
	}
	return ""
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	fmt.Fprintf(w, "{\"error\":%q}", msg)
}

func forbidden(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusForbidden)
	fmt.Fprintf(w, "{\"error\":%q}", msg)
}
