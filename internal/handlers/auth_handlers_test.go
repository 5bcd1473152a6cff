package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/G1-LevelUp/levelup-backend/internal/models"
)

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"username": "gamer_uno",
		"password": "secreto123",
	}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/usuarios/registro", payload)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "gamer_uno", user.Username)
	require.Equal(t, "user", user.Role)
	require.NotZero(t, user.ID)

	// password hash never leaves the service
	require.NotContains(t, rec.Body.String(), "secreto123")

	rec_dup, c_dup := env.doJSONRequest(http.MethodPost, "/api/usuarios/registro", payload)
	require.NoError(t, env.Auth.Register(c_dup))
	require.Equal(t, http.StatusConflict, rec_dup.Code)
}

func TestRegisterAdminSuffix(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"username": "jefa@level.com",
		"password": "secreto123",
	}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/usuarios/registro", payload)
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusCreated, rec.Code)

	var user models.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
	require.Equal(t, "admin", user.Role)
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	rec, c := env.doJSONRequest(http.MethodPost, "/api/usuarios/registro", map[string]string{"username": "sin_clave"})
	require.NoError(t, env.Auth.Register(c))
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"username": "gamer_uno",
		"password": "secreto123",
	}
	_, c_reg := env.doJSONRequest(http.MethodPost, "/api/usuarios/registro", payload)
	require.NoError(t, env.Auth.Register(c_reg))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/usuarios/login", payload)
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		User         models.User `json:"user"`
		AccessToken  string      `json:"access_token"`
		RefreshToken string      `json:"refresh_token"`
		IsAdmin      bool        `json:"is_admin"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "gamer_uno", resp.User.Username)
	require.NotEmpty(t, resp.AccessToken)
	require.NotEmpty(t, resp.RefreshToken)
	require.False(t, resp.IsAdmin)

	cookies := rec.Result().Cookies()
	names := make([]string, 0, len(cookies))
	for _, ck := range cookies {
		names = append(names, ck.Name)
	}
	require.Contains(t, names, "accessToken")
	require.Contains(t, names, "refreshToken")
}

func TestLoginBadCredentials(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"username": "gamer_uno",
		"password": "secreto123",
	}
	_, c_reg := env.doJSONRequest(http.MethodPost, "/api/usuarios/registro", payload)
	require.NoError(t, env.Auth.Register(c_reg))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/usuarios/login", map[string]string{
		"username": "gamer_uno",
		"password": "equivocada",
	})
	require.NoError(t, env.Auth.Login(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)

	rec_unknown, c_unknown := env.doJSONRequest(http.MethodPost, "/api/usuarios/login", map[string]string{
		"username": "nadie",
		"password": "secreto123",
	})
	require.NoError(t, env.Auth.Login(c_unknown))
	require.Equal(t, http.StatusUnauthorized, rec_unknown.Code)
}

func TestAdminLoginRejectsRegularUser(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"username": "gamer_uno",
		"password": "secreto123",
	}
	_, c_reg := env.doJSONRequest(http.MethodPost, "/api/usuarios/registro", payload)
	require.NoError(t, env.Auth.Register(c_reg))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/usuarios/admin/login", payload)
	require.NoError(t, env.Auth.AdminLogin(c))
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminLogin(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"username": "jefa@level.com",
		"password": "secreto123",
	}
	_, c_reg := env.doJSONRequest(http.MethodPost, "/api/usuarios/registro", payload)
	require.NoError(t, env.Auth.Register(c_reg))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/usuarios/admin/login", payload)
	require.NoError(t, env.Auth.AdminLogin(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, true, resp["is_admin"])
}

func TestRefresh(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"username": "gamer_uno",
		"password": "secreto123",
	}
	_, c_reg := env.doJSONRequest(http.MethodPost, "/api/usuarios/registro", payload)
	require.NoError(t, env.Auth.Register(c_reg))

	rec_login, c_login := env.doJSONRequest(http.MethodPost, "/api/usuarios/login", payload)
	require.NoError(t, env.Auth.Login(c_login))

	var loginResp struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec_login.Body.Bytes(), &loginResp))

	ck := &http.Cookie{Name: "refreshToken", Value: loginResp.RefreshToken}

	rec, c := env.doJSONRequest(http.MethodPost, "/api/usuarios/refresh", nil, ck)
	require.NoError(t, env.Auth.Refresh(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp["access_token"])

	// a revoked refresh token is no longer accepted
	rec_out, c_out := env.doJSONRequest(http.MethodPost, "/api/usuarios/logout", nil, ck)
	require.NoError(t, env.Auth.Logout(c_out))
	require.Equal(t, http.StatusOK, rec_out.Code)

	rec_again, c_again := env.doJSONRequest(http.MethodPost, "/api/usuarios/refresh", nil, ck)
	require.NoError(t, env.Auth.Refresh(c_again))
	require.Equal(t, http.StatusUnauthorized, rec_again.Code)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)

	payload := map[string]string{
		"username": "gamer_uno",
		"password": "secreto123",
	}
	_, c_reg := env.doJSONRequest(http.MethodPost, "/api/usuarios/registro", payload)
	require.NoError(t, env.Auth.Register(c_reg))

	rec_login, c_login := env.doJSONRequest(http.MethodPost, "/api/usuarios/login", payload)
	require.NoError(t, env.Auth.Login(c_login))

	var resp struct {
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec_login.Body.Bytes(), &resp))

	rec, c := env.doJSONRequest(http.MethodPost, "/api/usuarios/logout", nil,
		&http.Cookie{Name: "refreshToken", Value: resp.RefreshToken})
	require.NoError(t, env.Auth.Logout(c))
	require.Equal(t, http.StatusOK, rec.Code)

	var tokens []models.RefreshToken
	require.NoError(t, env.DB.Where("revoked = ?", true).Find(&tokens).Error)
	require.Len(t, tokens, 1)
}
