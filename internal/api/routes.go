package api

import (
	"os"
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jpelletier/card-binder/internal/api/handlers"
	"github.com/jpelletier/card-binder/internal/services"
)

func SetupRouter(ebayService *services.EbayService, imageService *services.ImageService, imageWorker *services.ImageWorker) *gin.Engine {
	router := gin.Default()

	// CORS configuration - allow origins from environment or use defaults.
	// Credentials must be allowed for the session cookie to travel.
	config := cors.DefaultConfig()
	if corsOrigins := os.Getenv("CORS_ALLOWED_ORIGINS"); corsOrigins != "" {
		config.AllowOrigins = strings.Split(corsOrigins, ",")
	} else {
		config.AllowOrigins = []string{"http://localhost:5173", "http://localhost:3000"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	config.AllowCredentials = true
	router.Use(cors.New(config))

	router.Use(metricsMiddleware())

	// Initialize handlers
	authHandler := handlers.NewAuthHandler()
	cardHandler := handlers.NewCardHandler(imageService, imageWorker)
	setHandler := handlers.NewSetHandler()
	ownedHandler := handlers.NewOwnedHandler()
	wantedHandler := handlers.NewWantedHandler()
	ebayHandler := handlers.NewEbayHandler(ebayService, imageWorker)

	// API routes
	api := router.Group("/api")
	{
		// Auth routes
		api.POST("/signup", authHandler.Signup)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
		api.POST("/forgot-password", authHandler.ForgotPassword)
		api.POST("/reset-password", authHandler.ResetPassword)
		api.GET("/me/summary", handlers.RequireSession(), authHandler.MeSummary)
		api.POST("/security-question", handlers.RequireSession(), authHandler.SetSecurityQuestion)

		// Card routes
		cards := api.Group("/cards")
		{
			cards.GET("", cardHandler.ListCards)
			cards.GET("/:id", cardHandler.GetCard)
			cards.POST("/:id/auto-image", cardHandler.AutoImage)
			cards.GET("/:id/price-snapshots", cardHandler.GetPriceSnapshots)
		}

		// Set routes
		sets := api.Group("/sets")
		{
			sets.GET("", setHandler.ListSets)
			sets.GET("/:id/cards", setHandler.GetSetCards)
		}

		// Collection routes (session-scoped)
		owned := api.Group("/owned-cards", handlers.RequireSession())
		{
			owned.GET("", ownedHandler.ListOwned)
			owned.POST("", ownedHandler.AddOwned)
			owned.DELETE("/:id", ownedHandler.DeleteOwned)
		}

		wanted := api.Group("/wanted", handlers.RequireSession())
		{
			wanted.GET("", wantedHandler.ListWanted)
			wanted.POST("", wantedHandler.AddWanted)
			wanted.DELETE("/:id", wantedHandler.DeleteWanted)
		}

		// eBay proxy routes
		api.GET("/ebay/search", ebayHandler.Search)
		api.GET("/images/status", ebayHandler.GetImageStatus)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Prometheus metrics
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
