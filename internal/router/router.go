package router

import (
	"time"

	"orbitcloud/config"
	"orbitcloud/internal/catalog"
	"orbitcloud/internal/handler"
	"orbitcloud/internal/middleware"
	"orbitcloud/internal/repository"
	"orbitcloud/internal/service"
	"orbitcloud/internal/store"
	"orbitcloud/pkg/panel"
	"orbitcloud/pkg/payment"

	"github.com/gin-gonic/gin"
)

func Setup(cfg *config.Config, st *store.Store) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RateLimit(middleware.NewInMemoryRateLimiter(100, 60*time.Second)))

	// Repositories
	userRepo := repository.NewUserRepository(st)
	trxRepo := repository.NewTransactionRepository(st)
	products := catalog.NewStaticRepository(catalog.Default())

	// External clients
	gateway := payment.NewPakasirClient(cfg.Pakasir.BaseURL, cfg.Pakasir.ProjectSlug, cfg.Pakasir.APIKey)
	panelClient := panel.NewPterodactylClient(&cfg.Pterodactyl)

	// Services
	authSvc := service.NewAuthService(cfg, userRepo)
	orderSvc := service.NewOrderService(userRepo, trxRepo, products, gateway, panelClient, cfg.Pakasir.SandboxMode)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc)
	productHandler := handler.NewProductHandler(products)
	orderHandler := handler.NewOrderHandler(orderSvc)
	meHandler := handler.NewMeHandler(userRepo)

	authMw := middleware.AuthRequired(&cfg.JWT)

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}

		api.GET("/products", productHandler.List)
		api.GET("/me", authMw, meHandler.Profile)

		api.POST("/order", orderHandler.Create)
		api.POST("/order/:orderId/cancel", orderHandler.Cancel)
		api.POST("/order/:orderId/simulate", orderHandler.Simulate)
		api.GET("/order/:orderId/status", orderHandler.Status)
		api.GET("/history/:userId", orderHandler.History)
	}

	return r
}
