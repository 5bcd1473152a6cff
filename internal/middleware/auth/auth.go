package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Middleware guards routes with the HS256 access token, taken from the
// accessToken cookie or an Authorization bearer header.
type Middleware struct {
	JWTSecret []byte
}

func (m *Middleware) token(c echo.Context) (string, bool) {
	if cookie, err := c.Cookie("accessToken"); err == nil && cookie.Value != "" {
		return cookie.Value, true
	}
	header := c.Request().Header.Get(echo.HeaderAuthorization)
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer "), true
	}
	return "", false
}

func (m *Middleware) parse(raw string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(raw, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.JWTSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("invalid claims")
	}
	if typ, _ := claims["typ"].(string); typ == "refresh" {
		return nil, fmt.Errorf("refresh token used as access token")
	}
	return claims, nil
}

func (m *Middleware) RequireLogin(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		raw, ok := m.token(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, "unauthorized")
		}
		claims, err := m.parse(raw)
		if err != nil {
			return c.JSON(http.StatusUnauthorized, "unauthorized")
		}
		c.Set("user_id", fmt.Sprint(claims["sub"]))
		c.Set("role", fmt.Sprint(claims["role"]))
		return next(c)
	}
}

func (m *Middleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireLogin(func(c echo.Context) error {
		if role, _ := c.Get("role").(string); role != "admin" {
			return c.JSON(http.StatusForbidden, "admin only")
		}
		return next(c)
	})
}
