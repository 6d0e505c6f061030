package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context keys set by the middleware in this package.
const (
	KeySessionID = "session_id"
	KeyUserID    = "user_id"
	KeyRole      = "role"
	KeyToken     = "token"
	KeyAuthError = "auth_error"
)

// SessionID returns the browsing-session id set by Session, or "".
func SessionID(c echo.Context) string {
	s, _ := c.Get(KeySessionID).(string)
	return s
}

// Token returns the access token resolved by Authenticate, or "".
func Token(c echo.Context) string {
	s, _ := c.Get(KeyToken).(string)
	return s
}

// currentUserID returns the authenticated subject, or "anon".
func currentUserID(c echo.Context) string {
	if s, ok := c.Get(KeyUserID).(string); ok && s != "" {
		return s
	}
	return "anon"
}

func validSessionID(s string) bool {
	if len(s) != 36 {
		return false
	}
	_, err := uuid.Parse(s)
	return err == nil
}
