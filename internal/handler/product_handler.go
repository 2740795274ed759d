package handler

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"

	"storefront/internal/apiclient"
	"storefront/internal/usecase"
	"storefront/internal/validator"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error  string `json:"error"`
	Field  string `json:"field,omitempty"`
	Prompt string `json:"prompt,omitempty"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if ve, ok := validator.AsValidationError(err); ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: ve.Message, Field: ve.Field})
	}
	var ce *usecase.ConfirmationError
	if errors.As(err, &ce) {
		return c.JSON(http.StatusPreconditionRequired, ErrorResponse{Error: usecase.ErrConfirmationRequired.Error(), Prompt: ce.Prompt})
	}
	// APIのエラー文はそのまま見せる
	if re, ok := apiclient.AsRequestError(err); ok {
		return c.JSON(re.Status, ErrorResponse{Error: re.Message})
	}

	switch {
	case errors.Is(err, usecase.ErrSignInRequired):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrCustomerRequired),
		errors.Is(err, usecase.ErrForbidden),
		errors.Is(err, usecase.ErrSelfDisable):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrInvalidCheckoutLink),
		errors.Is(err, usecase.ErrPaymentMethodRequired),
		errors.Is(err, usecase.ErrPaymentMethodUnavailable),
		errors.Is(err, usecase.ErrCartEmpty),
		errors.Is(err, usecase.ErrNoNextStage):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrOrderNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrNotPayable),
		errors.Is(err, usecase.ErrPaymentNotApproved),
		errors.Is(err, usecase.ErrAlreadyProcessing):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, usecase.ErrConfirmationRequired):
		return c.JSON(http.StatusPreconditionRequired, ErrorResponse{Error: err.Error()})
	}

	//API に届かなかった
	var ue *url.Error
	if errors.As(err, &ue) {
		return c.JSON(http.StatusBadGateway, ErrorResponse{Error: err.Error()})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
}

// /catalog の公開API（トークン不要）
type ProductHandler struct {
	uc *usecase.CatalogUsecase
}

// DI
func NewProductHandler(uc *usecase.CatalogUsecase) *ProductHandler {
	return &ProductHandler{uc: uc}
}

// 公開商品のルートを登録
func (h *ProductHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/catalog")
	g.GET("/products", h.list)
	g.GET("/products/:id", h.detail)
	g.GET("/categories", h.categories)
	g.GET("/categories/:id/products", h.categoryProducts)
}

func (h *ProductHandler) list(c echo.Context) error {
	out, err := h.uc.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	p, err := h.uc.GetProduct(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProductHandler) categories(c echo.Context) error {
	out, err := h.uc.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *ProductHandler) categoryProducts(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return invalidID(c)
	}

	out, err := h.uc.CategoryProducts(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
