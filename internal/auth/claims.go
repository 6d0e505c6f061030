// Package auth holds the per-session authentication state: the backend
// access token and the user it belongs to.  Tokens are issued by the
// backend; the gateway only reads them.
package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNoToken      = errors.New("auth: no token")
	ErrInvalidToken = errors.New("auth: invalid token")
	ErrExpired      = errors.New("auth: token expired")
)

// Claims are the access token fields the gateway routes on.
type Claims struct {
	Subject   string
	Role      string
	ExpiresAt time.Time // zero when the token carries no exp
}

// ParseClaims reads sub, role and exp from an access token.  With a secret
// the HS256 signature is verified; without one the token is decoded
// unverified and only its expiry is checked, leaving the backend as the
// authority.
func ParseClaims(raw, secret string) (Claims, error) {
	if raw == "" {
		return Claims{}, ErrNoToken
	}
	mc := jwt.MapClaims{}
	if secret != "" {
		tok, err := jwt.ParseWithClaims(raw, mc, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(secret), nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				return Claims{}, ErrExpired
			}
			return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
		}
		if !tok.Valid {
			return Claims{}, ErrInvalidToken
		}
	} else if _, _, err := jwt.NewParser().ParseUnverified(raw, mc); err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	c := Claims{Subject: subject(mc["sub"])}
	if c.Subject == "" {
		c.Subject = subject(mc["user_id"])
	}
	c.Role, _ = mc["role"].(string)
	exp, err := mc.GetExpirationTime()
	if err != nil {
		return Claims{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if exp != nil {
		c.ExpiresAt = exp.Time.UTC()
		if secret == "" && !time.Now().Before(c.ExpiresAt) {
			return Claims{}, ErrExpired
		}
	}
	return c, nil
}

// The backend emits numeric subjects; JSON decodes them as float64.
func subject(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	}
	return ""
}
