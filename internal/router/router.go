package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"carshop/internal/auth"
	"carshop/internal/handler"
	"carshop/internal/model"
)

// Register wires routes and middleware. Protected routes compose the access
// gate first and, where a role is required, the role policy after it; the
// handler body never runs unless both pass.
func Register(
	e *echo.Echo,
	verifier *auth.Verifier,
	roles auth.RoleResolver,
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	userHandler *handler.UserHandler,
	reviewHandler *handler.ReviewHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "All Right")
	})
	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	gate := auth.Gate(verifier)
	adminOnly := auth.RequireRole(roles, model.RoleAdmin)

	api := e.Group("/api")

	// Product routes
	api.GET("/products", productHandler.ListProducts)
	api.GET("/products/:id", productHandler.GetProduct)
	api.POST("/products", productHandler.CreateProduct, gate)
	api.DELETE("/products/:id", productHandler.DeleteProduct, gate)

	// Order routes
	api.GET("/orders", orderHandler.ListOrders, gate)
	api.GET("/orders/:id", orderHandler.GetOrder)
	api.POST("/orders", orderHandler.CreateOrder)
	api.PUT("/orders/:id", orderHandler.ShipOrder)
	api.DELETE("/orders/:id", orderHandler.DeleteOrder)

	// User routes
	api.POST("/users", userHandler.RegisterUser)
	api.POST("/users/me", userHandler.Me, gate)
	api.PUT("/users/make-admin", userHandler.MakeAdmin, gate, adminOnly)

	// Review routes
	api.GET("/reviews", reviewHandler.ListReviews)
	api.POST("/reviews", reviewHandler.CreateReview)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
