package handler

import (
	"net/http"

	"storefront/internal/domain/model"
	"storefront/internal/middleware"
	"storefront/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 削除などの確認。body の {"confirm": true} か ?confirm=true
type ConfirmRequest struct {
	Confirm bool `json:"confirm" query:"confirm"`
}

func bindConfirm(c echo.Context) usecase.Confirmer {
	var req ConfirmRequest
	if err := c.Bind(&req); err != nil {
		return usecase.Confirmed(false)
	}
	return usecase.Confirmed(req.Confirm)
}

// /admin/products, /admin/categories
type AdminProductHandler struct {
	products   *usecase.AdminProductUsecase
	categories *usecase.AdminCategoryUsecase
}

func NewAdminProductHandler(products *usecase.AdminProductUsecase, categories *usecase.AdminCategoryUsecase) *AdminProductHandler {
	return &AdminProductHandler{products: products, categories: categories}
}

func (h *AdminProductHandler) RegisterRoutes(e *echo.Echo) {
	admin := e.Group("/admin")
	admin.Use(middleware.RequireAdmin())

	admin.GET("/products", h.listProducts)
	admin.POST("/products", h.createProduct)
	admin.PUT("/products/:id", h.updateProduct)
	admin.DELETE("/products/:id", h.deleteProduct)

	admin.GET("/categories", h.listCategories)
	admin.POST("/categories", h.createCategory)
	admin.PUT("/categories/:id", h.updateCategory)
	admin.DELETE("/categories/:id", h.deleteCategory)
}

func (h *AdminProductHandler) listProducts(c echo.Context) error {
	out, err := h.products.List(c.Request().Context(), middleware.Session(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) createProduct(c echo.Context) error {
	var req model.ProductPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.products.Create(c.Request().Context(), middleware.Session(c), middleware.Workspace(c).Admin, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) updateProduct(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req model.ProductPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.products.Update(c.Request().Context(), middleware.Session(c), middleware.Workspace(c).Admin, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deleteProduct(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	out, err := h.products.Delete(c.Request().Context(), middleware.Session(c), middleware.Workspace(c).Admin, id, bindConfirm(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) listCategories(c echo.Context) error {
	out, err := h.categories.List(c.Request().Context(), middleware.Session(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) createCategory(c echo.Context) error {
	var req model.CategoryPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.categories.Create(c.Request().Context(), middleware.Session(c), middleware.Workspace(c).Admin, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *AdminProductHandler) updateCategory(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c)
	}
	var req model.CategoryPayload
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	out, err := h.categories.Update(c.Request().Context(), middleware.Session(c), middleware.Workspace(c).Admin, id, req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminProductHandler) deleteCategory(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	out, err := h.categories.Delete(c.Request().Context(), middleware.Session(c), middleware.Workspace(c).Admin, id, bindConfirm(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
