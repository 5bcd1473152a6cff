package handlers

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/G1-LevelUp/levelup-backend/internal/logging"
	"github.com/G1-LevelUp/levelup-backend/internal/repo"
	"github.com/G1-LevelUp/levelup-backend/internal/service"
)

type CartHandler struct {
	Svc *service.CartService
}

// GetCarrito handles GET /api/carrito: distinct products with quantities
// and the total.
func (h *CartHandler) GetCarrito(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "carrito.get")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	cart, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, cart)
}

// AddToCarrito handles POST /api/carrito: adds one unit of a product,
// subject to the stock ceiling.
func (h *CartHandler) AddToCarrito(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "carrito.add")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	var req struct {
		ProductoID uint `json:"producto_id"`
	}
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_error", "status", 400, "error", err)
		return c.JSON(http.StatusBadRequest, "invalid body")
	}

	rowID, err := h.Svc.AddOneUnit(ctx, userID, req.ProductoID)
	switch {
	case errors.Is(err, service.ErrValidation):
		return c.JSON(http.StatusBadRequest, "producto_id required")
	case errors.Is(err, repo.ErrProductNotFound):
		l.Warn("add_to_cart_error", "status", 404, "productID", req.ProductoID)
		return c.JSON(http.StatusNotFound, "producto no encontrado")
	case errors.Is(err, repo.ErrNoStock):
		l.Warn("add_to_cart_error", "status", 409, "productID", req.ProductoID)
		return c.JSON(http.StatusConflict, "sin stock disponible")
	case err != nil:
		l.Error("add_to_cart_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	l.Info("item added to cart", "productID", req.ProductoID)
	return c.JSON(http.StatusCreated, echo.Map{"id": rowID, "producto_id": req.ProductoID})
}

// CountUnits handles GET /api/carrito/cantidad?producto_id=.
func (h *CartHandler) CountUnits(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "carrito.count")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := parseUintParam(c.QueryParam("producto_id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid producto_id")
	}

	count, err := h.Svc.CountUnits(ctx, userID, productID)
	if err != nil {
		l.Error("count_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"producto_id": productID, "cantidad": count})
}

// RemoveOneUnit handles DELETE /api/carrito/:id, one unit of the product.
func (h *CartHandler) RemoveOneUnit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "carrito.remove_one")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := parseUintParam(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.RemoveOneUnit(ctx, userID, productID); err != nil {
		l.Error("remove_one_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.NoContent(http.StatusNoContent)
}

// RemoveAllUnits handles DELETE /api/carrito/:id/todos, every unit of the
// product.
func (h *CartHandler) RemoveAllUnits(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "carrito.remove_all")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	productID, err := parseUintParam(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, "invalid id")
	}

	if err := h.Svc.RemoveAllUnits(ctx, userID, productID); err != nil {
		l.Error("remove_all_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.NoContent(http.StatusNoContent)
}

// Clear handles DELETE /api/carrito, the whole cart.
func (h *CartHandler) Clear(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "carrito.clear")

	userID, err := GetID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, "unauthorized")
	}

	if err := h.Svc.Clear(ctx, userID); err != nil {
		l.Error("clear_error", "status", 500, "error", err)
		return c.JSON(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "carrito vaciado"})
}
