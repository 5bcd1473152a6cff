package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/G1-LevelUp/levelup-backend/internal/logging"
	"github.com/G1-LevelUp/levelup-backend/internal/repo"
	"github.com/G1-LevelUp/levelup-backend/internal/service"
)

type AuthHandler struct {
	Svc *service.AuthService
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles POST /api/usuarios/registro.
func (h *AuthHandler) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req.Username, req.Password)
	switch {
	case errors.Is(err, service.ErrValidation):
		l.Warn("register_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "username and password required")
	case errors.Is(err, repo.ErrUserAlreadyExist):
		l.Warn("register_error", "status", 409, "username", req.Username)
		return c.JSON(http.StatusConflict, "user already exists")
	case err != nil:
		l.Error("register_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	l.Info("user registered", "userID", user.ID)
	return c.JSON(http.StatusCreated, user)
}

// Login handles POST /api/usuarios/login. On success it answers with the
// user record and sets the token cookies.
func (h *AuthHandler) Login(c echo.Context) error {
	return h.login(c, false)
}

// AdminLogin handles POST /api/usuarios/admin/login, the separate
// administrator entrance.
func (h *AuthHandler) AdminLogin(c echo.Context) error {
	return h.login(c, true)
}

func (h *AuthHandler) login(c echo.Context, admin bool) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login", "admin", admin)

	var req credentialsRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	var result *service.LoginResult
	var err error
	if admin {
		result, err = h.Svc.AdminLogin(ctx, req.Username, req.Password)
	} else {
		result, err = h.Svc.Login(ctx, req.Username, req.Password)
	}
	if errors.Is(err, service.ErrInvalidCredentials) {
		l.Warn("login_error", "status", 401, "username", req.Username)
		return c.JSON(http.StatusUnauthorized, "credenciales incorrectas")
	}
	if err != nil {
		l.Error("login_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(CreateCookie("accessToken", result.AccessToken, "/", result.AccessExp))
	c.SetCookie(CreateCookie("refreshToken", result.RefreshToken, "/", result.RefreshExp))

	l.Info("user logged in", "userID", result.User.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"user":          result.User,
		"access_token":  result.AccessToken,
		"refresh_token": result.RefreshToken,
		"is_admin":      result.IsAdmin,
	})
}

// Refresh handles POST /api/usuarios/refresh: trades the refresh cookie for
// a fresh access token.
func (h *AuthHandler) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "no refresh token")
	}

	result, err := h.Svc.Refresh(ctx, refreshCookie.Value)
	if errors.Is(err, service.ErrInvalidCredentials) {
		l.Warn("refresh_error", "status", 401)
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}
	if err != nil {
		l.Error("refresh_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	c.SetCookie(CreateCookie("accessToken", result.AccessToken, "/", result.AccessExp))

	return c.JSON(http.StatusOK, echo.Map{
		"access_token": result.AccessToken,
		"is_admin":     result.IsAdmin,
	})
}

// Logout handles POST /api/usuarios/logout: revokes the refresh token and
// expires both cookies.
func (h *AuthHandler) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil {
		l.Warn("logout_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "no refresh token")
	}

	if err := h.Svc.Logout(ctx, refreshCookie.Value); err != nil {
		l.Error("logout_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	expired := time.Now().Add(-1 * time.Hour)
	c.SetCookie(CreateCookie("accessToken", "", "/", expired))
	c.SetCookie(CreateCookie("refreshToken", "", "/", expired))

	l.Info("user logged out")
	return c.JSON(http.StatusOK, echo.Map{"message": "logged out"})
}
