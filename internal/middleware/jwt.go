package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/apiclient"
	"github.com/iliyamo/cinema-booking-web/internal/auth"
)

// Authenticate resolves the caller's access token from the Authorization
// header or, failing that, from the auth session of the browsing session.
// On success it stores the subject, role and token in the context and
// attaches the token and role to the request context for backend calls.
//
// Requests without a usable token continue anonymously.  When a token was
// presented but does not parse, the reason is kept under KeyAuthError for
// RequireAuth and RequireRole to report, and a stale session token is
// dropped.
func Authenticate(m *auth.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, role, fromSession := "", "", false
			sid := SessionID(c)
			if h := c.Request().Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimPrefix(h, "Bearer ")
			} else if sid != "" {
				if s, ok := m.Load(c.Request().Context(), sid); ok {
					raw, role, fromSession = s.Token, s.Role, true
				}
			}
			if raw == "" {
				return next(c)
			}

			claims, err := auth.ParseClaims(raw, m.Secret())
			if err != nil {
				msg := "invalid token"
				if errors.Is(err, auth.ErrExpired) {
					msg = "token expired"
				}
				c.Set(KeyAuthError, msg)
				if fromSession {
					m.Clear(c.Request().Context(), sid)
				}
				return next(c)
			}
			if claims.Role != "" {
				role = claims.Role
			}
			c.Set(KeyUserID, claims.Subject)
			c.Set(KeyRole, role)
			c.Set(KeyToken, raw)
			req := c.Request()
			ctx := apiclient.WithRole(apiclient.WithToken(req.Context(), raw), role)
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	}
}

// RequireAuth rejects requests Authenticate did not resolve a token for.
func RequireAuth() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if Token(c) == "" {
				return unauthorized(c)
			}
			return next(c)
		}
	}
}

func unauthorized(c echo.Context) error {
	msg, _ := c.Get(KeyAuthError).(string)
	if msg == "" {
		msg = "missing bearer token"
	}
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": msg})
}
