package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test_jwt_secret")

func signToken(t *testing.T, role string, exp time.Time, typ string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"sub":  "7",
		"role": role,
		"exp":  exp.Unix(),
	}
	if typ != "" {
		claims["typ"] = typ
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)
	return raw
}

func do(t *testing.T, mw echo.MiddlewareFunc, cookie *http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/carrito", nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := mw(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))
	return rec, c
}

func TestRequireLogin(t *testing.T) {
	m := &Middleware{JWTSecret: testSecret}

	token := signToken(t, "user", time.Now().Add(time.Minute), "")
	rec, c := do(t, m.RequireLogin, &http.Cookie{Name: "accessToken", Value: token})
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "7", c.Get("user_id"))
	require.Equal(t, "user", c.Get("role"))
}

func TestRequireLoginMissingToken(t *testing.T) {
	m := &Middleware{JWTSecret: testSecret}

	rec, _ := do(t, m.RequireLogin, nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireLoginExpiredToken(t *testing.T) {
	m := &Middleware{JWTSecret: testSecret}

	token := signToken(t, "user", time.Now().Add(-time.Minute), "")
	rec, _ := do(t, m.RequireLogin, &http.Cookie{Name: "accessToken", Value: token})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireLoginRejectsRefreshToken(t *testing.T) {
	m := &Middleware{JWTSecret: testSecret}

	token := signToken(t, "user", time.Now().Add(time.Minute), "refresh")
	rec, _ := do(t, m.RequireLogin, &http.Cookie{Name: "accessToken", Value: token})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireLoginBearerHeader(t *testing.T) {
	m := &Middleware{JWTSecret: testSecret}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/carrito", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+signToken(t, "user", time.Now().Add(time.Minute), ""))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := m.RequireLogin(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(c))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminOnly(t *testing.T) {
	m := &Middleware{JWTSecret: testSecret}

	admin := signToken(t, "admin", time.Now().Add(time.Minute), "")
	rec, _ := do(t, m.AdminOnly, &http.Cookie{Name: "accessToken", Value: admin})
	require.Equal(t, http.StatusOK, rec.Code)

	user := signToken(t, "user", time.Now().Add(time.Minute), "")
	rec, _ = do(t, m.AdminOnly, &http.Cookie{Name: "accessToken", Value: user})
	require.Equal(t, http.StatusForbidden, rec.Code)
}
