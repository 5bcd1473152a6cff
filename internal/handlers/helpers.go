package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// GetID reads the authenticated user id set by the auth middleware.
func GetID(c echo.Context) (uint, error) {
	v := c.Get("user_id")
	s, ok := v.(string)
	if !ok || s == "" {
		return 0, errors.New("unauthorized")
	}
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, errors.New("unauthorized")
	}
	return uint(id), nil
}

func CreateCookie(name, value, path string, expTime time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     path,
		Expires:  expTime,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	}
}

func parseUintParam(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return def
}
