package handler

import (
	stderrors "errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"carshop/internal/auth"
	"carshop/internal/errors"
	"carshop/internal/model"
	"carshop/internal/service"
)

// OrderHandler handles order endpoints.
type OrderHandler struct {
	orderService service.OrderService
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(orderService service.OrderService) *OrderHandler {
	return &OrderHandler{orderService: orderService}
}

// CreateOrderRequest represents an order creation request.
type CreateOrderRequest struct {
	Email       string  `json:"email" validate:"required,email"`
	Name        string  `json:"name" validate:"required"`
	Price       float64 `json:"price" validate:"required,gt=0"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
}

// ListOrders godoc
// @Summary List orders visible to the caller
// @Description Admins see every order; other callers see only their own.
// @Tags orders
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum number of orders"
// @Success 200 {array} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /orders [get]
func (h *OrderHandler) ListOrders(c echo.Context) error {
	email, ok := auth.EmailFromContext(c)
	if !ok {
		return auth.Deny(c)
	}
	limit, httpErr := parseLimit(c)
	if httpErr != nil {
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	orders, err := h.orderService.ListForCaller(c.Request().Context(), email, limit)
	if err != nil {
		// A valid token with no account is a denial, not a lookup error.
		if stderrors.Is(err, errors.ErrUserNotFound) {
			return auth.Deny(c)
		}
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, orders)
}

// GetOrder godoc
// @Summary Get order by id
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [get]
func (h *OrderHandler) GetOrder(c echo.Context) error {
	id, httpErr := parseObjectID(c, "id")
	if httpErr != nil {
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	order, err := h.orderService.Get(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, order)
}

// CreateOrder godoc
// @Summary Place an order
// @Tags orders
// @Accept json
// @Produce json
// @Param request body CreateOrderRequest true "Order payload"
// @Success 201 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Router /orders [post]
func (h *OrderHandler) CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_REQUEST",
		})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errors.ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
	}

	order := &model.Order{
		Email:       req.Email,
		Name:        req.Name,
		Price:       req.Price,
		Description: req.Description,
		ImageURL:    req.ImageURL,
	}
	placed, err := h.orderService.Place(c.Request().Context(), order)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, placed)
}

// ShipOrder godoc
// @Summary Mark an order shipped
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [put]
func (h *OrderHandler) ShipOrder(c echo.Context) error {
	id, httpErr := parseObjectID(c, "id")
	if httpErr != nil {
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	order, err := h.orderService.Ship(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, order)
}

// DeleteOrder godoc
// @Summary Delete an order
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} model.Order
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /orders/{id} [delete]
func (h *OrderHandler) DeleteOrder(c echo.Context) error {
	id, httpErr := parseObjectID(c, "id")
	if httpErr != nil {
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	order, err := h.orderService.Delete(c.Request().Context(), id)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, order)
}
