package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/cinema-booking-web/internal/apiclient"
	"github.com/iliyamo/cinema-booking-web/internal/auth"
	"github.com/iliyamo/cinema-booking-web/internal/model"
)

// AuthHandler proxies login and registration to the backend and keeps the
// resulting token in the browsing session.
type AuthHandler struct {
	API      *apiclient.API
	Sessions *auth.Manager
}

func NewAuthHandler(api *apiclient.API, sessions *auth.Manager) *AuthHandler {
	if api == nil || sessions == nil {
		panic("nil dependency passed to NewAuthHandler")
	}
	return &AuthHandler{API: api, Sessions: sessions}
}

type authResp struct {
	User        model.User `json:"user"`
	AccessToken string     `json:"access_token"`
	ExpiresAt   time.Time  `json:"expires_at"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req model.Credentials
	if err := bind(c, &req); err != nil {
		return done(err)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	res, err := h.API.Login(c.Request().Context(), req)
	if err != nil {
		return backendError(c, err)
	}
	return h.establish(c, http.StatusOK, res)
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req model.Registration
	if err := bind(c, &req); err != nil {
		return done(err)
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	res, err := h.API.Register(c.Request().Context(), req)
	if err != nil {
		return backendError(c, err)
	}
	return h.establish(c, http.StatusCreated, res)
}

// establish stores the backend token for the session.  A successful
// login is still answered when the session store fails; the client can
// fall back to the bearer header.
func (h *AuthHandler) establish(c echo.Context, status int, res model.AuthResult) error {
	s, err := h.Sessions.Save(c.Request().Context(), sessionID(c), res.AccessToken, res.User)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidToken) || errors.Is(err, auth.ErrNoToken) || errors.Is(err, auth.ErrExpired) {
			c.Logger().Errorf("auth: backend issued unusable token: %v", err)
			return c.JSON(http.StatusBadGateway, echo.Map{"error": "backend returned an unusable token"})
		}
	}
	return data(c, status, authResp{User: res.User, AccessToken: res.AccessToken, ExpiresAt: s.ExpiresAt})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	h.Sessions.Clear(c.Request().Context(), sessionID(c))
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}

// Me asks the backend who the token belongs to.
func (h *AuthHandler) Me(c echo.Context) error {
	u, err := h.API.Me(c.Request().Context())
	if err != nil {
		if apiclient.StatusOf(err) == http.StatusUnauthorized {
			h.Sessions.Clear(c.Request().Context(), sessionID(c))
		}
		return backendError(c, err)
	}
	return data(c, http.StatusOK, u)
}
