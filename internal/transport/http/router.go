package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/G1-LevelUp/levelup-backend/internal/handlers"
	authmw "github.com/G1-LevelUp/levelup-backend/internal/middleware/auth"
)

type Deps struct {
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	CartHandler    *handlers.CartHandler
	JWTSecret      []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	mw := &authmw.Middleware{JWTSecret: d.JWTSecret}

	api := e.Group("/api")

	usuarios := api.Group("/usuarios")
	usuarios.POST("/registro", d.AuthHandler.Register)
	usuarios.POST("/login", d.AuthHandler.Login)
	usuarios.POST("/admin/login", d.AuthHandler.AdminLogin)
	usuarios.POST("/refresh", d.AuthHandler.Refresh)
	usuarios.POST("/logout", d.AuthHandler.Logout)

	productos := api.Group("/productos")
	productos.GET("", d.ProductHandler.GetProductos)
	productos.GET("/buscar", d.ProductHandler.Buscar)
	productos.GET("/:id", d.ProductHandler.GetProducto)

	admin := api.Group("/admin", mw.AdminOnly)
	admin.POST("/productos", d.ProductHandler.CreateProducto)
	admin.PUT("/productos/:id", d.ProductHandler.UpdateProducto)
	admin.DELETE("/productos/:id", d.ProductHandler.DeleteProducto)

	carrito := api.Group("/carrito", mw.RequireLogin)
	carrito.GET("", d.CartHandler.GetCarrito)
	carrito.POST("", d.CartHandler.AddToCarrito)
	carrito.GET("/cantidad", d.CartHandler.CountUnits)
	carrito.DELETE("", d.CartHandler.Clear)
	carrito.DELETE("/:id", d.CartHandler.RemoveOneUnit)
	carrito.DELETE("/:id/todos", d.CartHandler.RemoveAllUnits)
}
