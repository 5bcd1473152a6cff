package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/G1-LevelUp/levelup-backend/internal/logging"
	"github.com/G1-LevelUp/levelup-backend/internal/models"
	"github.com/G1-LevelUp/levelup-backend/internal/repo"
	"github.com/G1-LevelUp/levelup-backend/internal/service"
	"github.com/G1-LevelUp/levelup-backend/internal/util"
)

type ProductHandler struct {
	Svc *service.CatalogService
}

type productRequest struct {
	Nombre          string `json:"nombre"`
	Descripcion     string `json:"descripcion"`
	Precio          int    `json:"precio"`
	Categoria       string `json:"categoria"`
	Stock           int    `json:"stock"`
	Imagen          string `json:"imagen"`
	Caracteristicas string `json:"caracteristicas"`
	Proveedor       string `json:"proveedor"`
}

func (r *productRequest) toModel() models.Producto {
	return models.Producto{
		Nombre:          r.Nombre,
		Descripcion:     r.Descripcion,
		Precio:          r.Precio,
		Categoria:       r.Categoria,
		Stock:           r.Stock,
		Imagen:          r.Imagen,
		Caracteristicas: r.Caracteristicas,
		Proveedor:       r.Proveedor,
	}
}

// GetProductos handles GET /api/productos, the full catalog.
func (h *ProductHandler) GetProductos(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "productos.list")

	items, err := h.Svc.GetProducts(ctx)
	if err != nil {
		l.Error("list_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, items)
}

// GetProducto handles GET /api/productos/:id.
func (h *ProductHandler) GetProducto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "productos.get")

	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	product, err := h.Svc.GetProduct(ctx, id)
	if errors.Is(err, repo.ErrProductNotFound) {
		return c.JSON(http.StatusNotFound, "producto no encontrado")
	}
	if err != nil {
		l.Error("get_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, product)
}

// Buscar handles GET /api/productos/buscar?q=.
func (h *ProductHandler) Buscar(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "productos.buscar")

	q := c.QueryParam("q")
	if q == "" {
		return c.JSON(http.StatusBadRequest, "q required")
	}

	page := parseIntDefault(c.QueryParam("page"), 1)
	size := parseIntDefault(c.QueryParam("size"), util.DefaultPageSize)
	from, limit := util.Calculate(page, size)

	total, products, err := h.Svc.Search(ctx, q, from, limit)
	if err != nil {
		l.Error("search_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"total": total, "productos": products})
}

// CreateProducto handles POST /api/admin/productos.
func (h *ProductHandler) CreateProducto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "productos.create")

	var req productRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	prod := req.toModel()
	created, err := h.Svc.CreateProduct(ctx, &prod)
	if err != nil {
		l.Error("create_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	l.Info("product created", "productID", created.ID)
	return c.JSON(http.StatusCreated, created)
}

// UpdateProducto handles PUT /api/admin/productos/:id, a full field replace.
func (h *ProductHandler) UpdateProducto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "productos.update")

	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	var req productRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	prod := req.toModel()
	prod.ID = id
	if err := h.Svc.UpdateProduct(ctx, &prod); err != nil {
		l.Error("update_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	l.Info("product updated", "productID", id)
	return c.JSON(http.StatusOK, prod)
}

// DeleteProducto handles DELETE /api/admin/productos/:id.
func (h *ProductHandler) DeleteProducto(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "productos.delete")

	id, err := parseUintParam(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.DeleteProduct(ctx, id); err != nil {
		l.Error("delete_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	l.Info("product deleted", "productID", id)
	return c.NoContent(http.StatusNoContent)
}
