package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/G1-LevelUp/levelup-backend/internal/models"
	"github.com/G1-LevelUp/levelup-backend/internal/repo"
	"github.com/G1-LevelUp/levelup-backend/internal/service"
)

type testEnv struct {
	T       *testing.T
	E       *echo.Echo
	DB      *gorm.DB
	Auth    *AuthHandler
	Product *ProductHandler
	Cart    *CartHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("failed to connect to in-memory db: %v", err)
	}
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(&models.User{}, &models.Producto{}, &models.CartItem{}, &models.RefreshToken{}); err != nil {
		t.Fatalf("failed to migrate tables: %v", err)
	}

	gormRepo := &repo.GormRepo{DB: db}

	authSvc := &service.AuthService{
		Repo:          gormRepo,
		JWTSecret:     []byte("test_jwt_secret"),
		RefreshSecret: []byte("test_refresh_secret"),
	}
	catalogSvc := &service.CatalogService{Repo: gormRepo, Index: "productos"}
	cartSvc := &service.CartService{Repo: gormRepo}

	return &testEnv{
		T:       t,
		E:       echo.New(),
		DB:      db,
		Auth:    &AuthHandler{Svc: authSvc},
		Product: &ProductHandler{Svc: catalogSvc},
		Cart:    &CartHandler{Svc: cartSvc},
	}
}

func (env *testEnv) doJSONRequest(method, path string, body interface{}, cookies ...*http.Cookie) (*httptest.ResponseRecorder, echo.Context) {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(env.T, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)

	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c := env.E.NewContext(req, rec)
	return rec, c
}

// asUser mimics the auth middleware for handlers that read the user id.
func asUser(c echo.Context, id string) {
	c.Set("user_id", id)
	c.Set("role", "user")
}

func (env *testEnv) createProduct(stock int) *models.Producto {
	env.T.Helper()
	prod := &models.Producto{
		Nombre:      "Headset Gamer HyperX Cloud Alpha",
		Descripcion: "Audífonos con micrófono",
		Precio:      99990,
		Categoria:   "Audio",
		Stock:       stock,
		Proveedor:   "HyperX",
	}
	require.NoError(env.T, env.DB.Create(prod).Error)
	return prod
}
