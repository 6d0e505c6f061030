package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// SessionConfig configures the browsing-session cookie.
type SessionConfig struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Session assigns every browser a random session id carried in an
// HttpOnly cookie and exposes it as c.Get("session_id").  Unknown or
// malformed ids are replaced.  The cookie is refreshed on each request so
// the session lives as long as the browser keeps using it.
func Session(cfg SessionConfig) echo.MiddlewareFunc {
	if cfg.CookieName == "" {
		cfg.CookieName = "cinema_sid"
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			sid := ""
			if ck, err := c.Cookie(cfg.CookieName); err == nil && validSessionID(ck.Value) {
				sid = ck.Value
			} else {
				sid = uuid.NewString()
			}
			c.SetCookie(&http.Cookie{
				Name:     cfg.CookieName,
				Value:    sid,
				Path:     "/",
				MaxAge:   int(cfg.TTL / time.Second),
				HttpOnly: true,
				Secure:   cfg.Secure,
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(KeySessionID, sid)
			return next(c)
		}
	}
}
