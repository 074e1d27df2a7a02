package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gitreq/gitreq/internal/auth"
	"github.com/gitreq/gitreq/internal/metrics"
)

// AuthConfig holds configuration for the authentication middleware.
type AuthConfig struct {
	Logger  *slog.Logger
	Tokens  *auth.TokenService
	Metrics metrics.Recorder
}

// Authenticate returns a middleware that resolves the request identity.
// It requires an Authorization header of the exact shape "Bearer <token>",
// verifies the token, and injects the Principal into the request context.
// Failure modes are distinct: missing credentials, invalid token, and
// expired token each produce their own 401 message.
func Authenticate(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := extractBearerToken(r)
			if !ok {
				logAuthFailure(cfg.Logger, r, "missing_credentials")
				writeAuthError(w, "No token provided")
				return
			}

			principal, err := cfg.Tokens.Verify(token)
			if err != nil {
				switch {
				case errors.Is(err, auth.ErrTokenExpired):
					recorder.IncTokenVerified("expired")
					logAuthFailure(cfg.Logger, r, "token_expired")
					writeAuthError(w, "Token expired")
				default:
					recorder.IncTokenVerified("invalid")
					logAuthFailure(cfg.Logger, r, "token_invalid")
					writeAuthError(w, "Invalid token")
				}
				return
			}

			recorder.IncTokenVerified("success")
			ctx := auth.ContextWithPrincipal(r.Context(), principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuthenticate returns a middleware that resolves the identity when a
// valid bearer token is present and otherwise lets the request proceed
// anonymously. It swallows resolver-level failures only; errors from the
// business logic behind it propagate as usual.
func OptionalAuthenticate(cfg AuthConfig) func(http.Handler) http.Handler {
	recorder := cfg.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if token, ok := extractBearerToken(r); ok {
				principal, err := cfg.Tokens.Verify(token)
				switch {
				case err == nil:
					recorder.IncTokenVerified("success")
					r = r.WithContext(auth.ContextWithPrincipal(r.Context(), principal))
				case errors.Is(err, auth.ErrTokenExpired):
					recorder.IncTokenVerified("expired")
				default:
					recorder.IncTokenVerified("invalid")
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// extractBearerToken pulls the token out of the Authorization header.
// Only the "Bearer <token>" shape is accepted.
func extractBearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return "", false
	}
	token := strings.TrimPrefix(header, "Bearer ")
	if token == "" {
		return "", false
	}
	return token, true
}

func logAuthFailure(logger *slog.Logger, r *http.Request, reason string) {
	if logger == nil {
		return
	}
	logger.Warn("authentication failed",
		slog.String("reason", reason),
		slog.String("ip", r.RemoteAddr),
		slog.String("endpoint", r.Method+" "+r.URL.Path),
		slog.String("request_id", GetRequestID(r.Context())),
	)
}

// writeAuthError writes a 401 response in the standard error envelope.
func writeAuthError(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"code":401,"message":"` + message + `"}`))
}
