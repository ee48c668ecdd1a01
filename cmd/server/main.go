package main

import (
	"context"
	"log"
	"net/http"
	"time"

	_ "carshop/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"carshop/internal/auth"
	"carshop/internal/cache"
	"carshop/internal/config"
	"carshop/internal/db"
	"carshop/internal/handler"
	"carshop/internal/repository"
	"carshop/internal/router"
	"carshop/internal/service"
)

const identityCacheTTL = 10 * time.Minute

// @title Car Shop API
// @version 1.0
// @description REST backend over products, orders, users and reviews with bearer-token authentication.
// @host localhost:5000
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and the token.
func main() {
	cfg := config.Load()

	e := echo.New()
	e.Use(middleware.RequestID())

	mongoClient, err := db.NewMongo(context.Background(), cfg.MongoURI, cfg.StoreTimeout)
	if err != nil {
		log.Fatalf("database init: %v", err)
	}
	defer func() {
		if err := db.Close(mongoClient); err != nil {
			log.Printf("mongo close: %v", err)
		}
	}()
	database := mongoClient.Database(cfg.MongoDatabase)

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(database)
	if err := userRepo.EnsureIndexes(context.Background()); err != nil {
		log.Fatalf("user index init: %v", err)
	}
	productRepo := repository.NewProductRepository(database)
	orderRepo := repository.NewOrderRepository(database)
	reviewRepo := repository.NewReviewRepository(database)

	// Initialize auth components
	provider := auth.NewJWTProvider(cfg.JWTSecret)
	idCache := auth.NewIdentityCache(cacheClient, identityCacheTTL)
	verifier := auth.NewVerifier(provider, idCache, cfg.IdentityTimeout)

	// Initialize services
	userService := service.NewUserService(userRepo, cacheClient)
	productService := service.NewProductService(productRepo, cacheClient)
	orderService := service.NewOrderService(orderRepo, userService)
	reviewService := service.NewReviewService(reviewRepo)

	// Initialize handlers
	productHandler := handler.NewProductHandler(productService)
	orderHandler := handler.NewOrderHandler(orderService)
	userHandler := handler.NewUserHandler(userService)
	reviewHandler := handler.NewReviewHandler(reviewService)

	// Register routes
	router.Register(
		e,
		verifier,
		userService,
		productHandler,
		orderHandler,
		userHandler,
		reviewHandler,
	)

	swaggerHost := cfg.SwaggerHost
	if swaggerHost == "" {
		swaggerHost = "http://localhost:" + cfg.ServerPort
	}
	log.Printf("Swagger documentation available at: %s/swagger/index.html", swaggerHost)

	addr := ":" + cfg.ServerPort
	if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server start: %v", err)
	}
}
