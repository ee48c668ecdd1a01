package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"carshop/internal/auth"
	"carshop/internal/errors"
	"carshop/internal/service"
)

// UserHandler handles user account endpoints.
type UserHandler struct {
	userService service.UserService
}

// NewUserHandler creates a new user handler.
func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// RegisterUserRequest represents a self-registration request.
type RegisterUserRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
}

// MakeAdminRequest selects the user to promote by email, the identity key.
type MakeAdminRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// MeResponse reports the caller's privilege tier.
type MeResponse struct {
	Admin bool `json:"admin"`
}

// RegisterUser godoc
// @Summary Register a user account
// @Tags users
// @Accept json
// @Produce json
// @Param request body RegisterUserRequest true "User payload"
// @Success 201 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) RegisterUser(c echo.Context) error {
	var req RegisterUserRequest
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

	user, err := h.userService.Register(c.Request().Context(), req.Name, req.Email)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusCreated, user)
}

// Me godoc
// @Summary Report whether the caller is an admin
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} MeResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /users/me [post]
func (h *UserHandler) Me(c echo.Context) error {
	email, ok := auth.EmailFromContext(c)
	if !ok {
		return auth.Deny(c)
	}
	admin, err := h.userService.IsAdmin(c.Request().Context(), email)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, MeResponse{Admin: admin})
}

// MakeAdmin godoc
// @Summary Promote a user to admin
// @Description Only admins may promote; the target is selected by email.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body MakeAdminRequest true "Target user"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/make-admin [put]
func (h *UserHandler) MakeAdmin(c echo.Context) error {
	var req MakeAdminRequest
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

	user, err := h.userService.MakeAdmin(c.Request().Context(), req.Email)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
	}
	return c.JSON(http.StatusOK, user)
}
