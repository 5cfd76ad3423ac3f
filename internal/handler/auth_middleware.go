package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/suar-net/starter-be/internal/model"
	"github.com/suar-net/starter-be/internal/service"
)

type contextKey string

const claimsContextKey = contextKey("claims")

type AuthMiddleware struct {
	authService service.IAuthService
	logger      *zap.Logger
}

func NewAuthMiddleware(s service.IAuthService, l *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		authService: s,
		logger:      l.Named("AuthMiddleware"),
	}
}

// Authenticate requires a valid bearer token and stores its claims in the
// request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			m.unauthorized(w, r, "Authorization header is required")
			return
		}

		headerParts := strings.Split(authHeader, " ")
		if len(headerParts) != 2 || headerParts[0] != "Bearer" {
			m.unauthorized(w, r, "Authorization header format must be Bearer {token}")
			return
		}

		claims, err := m.authService.ValidateToken(r.Context(), headerParts[1])
		if err != nil {
			if errors.Is(err, service.ErrTokenExpired) {
				m.unauthorized(w, r, "Token has expired")
			} else {
				m.unauthorized(w, r, "Invalid token")
			}
			return
		}

		ctx := context.WithValue(r.Context(), claimsContextKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireForWrites authenticates every request except GET, HEAD and OPTIONS.
func (m *AuthMiddleware) RequireForWrites(next http.Handler) http.Handler {
	authenticated := m.Authenticate(next)
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			next.ServeHTTP(w, r)
		default:
			authenticated.ServeHTTP(w, r)
		}
	})
}

func (m *AuthMiddleware) unauthorized(w http.ResponseWriter, r *http.Request, msg string) {
	m.logger.Debug("request rejected", zap.String("path", r.URL.Path), zap.String("reason", msg))
	w.Header().Set("WWW-Authenticate", "Bearer")
	RespondWithErrors(w, r, []error{model.NewResponseError(http.StatusUnauthorized, msg)}, http.StatusUnauthorized)
}

// GetClaimsFromContext returns the claims stored by Authenticate.
func GetClaimsFromContext(ctx context.Context) (*model.Claims, bool) {
	claims, ok := ctx.Value(claimsContextKey).(*model.Claims)
	return claims, ok
}
