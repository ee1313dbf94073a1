package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/moham3d/clinic-records/internal/logging"
	"github.com/moham3d/clinic-records/internal/models"
	"github.com/moham3d/clinic-records/internal/tokens"
)

const claimsKey = "auth_claims"

// SessionChecker is the registry lookup the guard performs on every
// request, so logout and password change invalidate access tokens
// before their natural expiry.
type SessionChecker interface {
	SessionValid(ctx context.Context, sessionID uuid.UUID) (bool, error)
}

type AuthMiddleware struct {
	Codec    *tokens.Codec
	Sessions SessionChecker
}

func NewAuthMiddleware(codec *tokens.Codec, sessions SessionChecker) *AuthMiddleware {
	return &AuthMiddleware{Codec: codec, Sessions: sessions}
}

func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		l := logging.FromContext(ctx).With("middleware", "require_auth")

		token := bearerToken(c)
		if token == "" {
			return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
		}

		claims, err := m.Codec.ParseAccess(token)
		if err != nil {
			l.Warn("auth_rejected", "reason", "token decode", "error", err)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		sessionID, err := uuid.Parse(claims.SessionID)
		if err != nil {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		valid, err := m.Sessions.SessionValid(ctx, sessionID)
		if err != nil {
			l.Error("auth_session_lookup_failed", "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "cannot verify session")
		}
		if !valid {
			l.Warn("auth_rejected", "reason", "session revoked", "session_id", sessionID)
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
		}

		c.Set(claimsKey, claims)
		return next(c)
	}
}

func (m *AuthMiddleware) RequireRoles(roles ...models.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			for _, role := range roles {
				if claims.Role == role {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
		}
	}
}

func (m *AuthMiddleware) RequirePermission(required string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := ClaimsFrom(c)
			if !ok {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}
			if !models.PermissionSatisfied(claims.Permissions, required) {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient permissions")
			}
			return next(c)
		}
	}
}

func ClaimsFrom(c echo.Context) (*tokens.AccessClaims, bool) {
	claims, ok := c.Get(claimsKey).(*tokens.AccessClaims)
	return claims, ok
}

// UserIDFrom returns the authenticated user's id. The zero UUID means
// the request never passed RequireAuth.
func UserIDFrom(c echo.Context) uuid.UUID {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func SessionIDFrom(c echo.Context) uuid.UUID {
	claims, ok := ClaimsFrom(c)
	if !ok {
		return uuid.Nil
	}
	id, err := uuid.Parse(claims.SessionID)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func bearerToken(c echo.Context) string {
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	// Browser clients keep the access token in an http-only cookie.
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie.Value
	}
	return ""
}
