package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/Craftwork2720/audiobookshelf-lubimyczytac-scrapper/internal/api"
	"github.com/Craftwork2720/audiobookshelf-lubimyczytac-scrapper/internal/auth"
	"github.com/Craftwork2720/audiobookshelf-lubimyczytac-scrapper/internal/metadata"
)

func main() {
	// Command-line flags
	urlFlag := flag.String("url", "", "Server bind address (e.g., :3000 or 0.0.0.0:3000)")
	flag.Parse()

	// .env is optional; deployments usually configure through the environment
	_ = godotenv.Load()

	// Configuration
	port := getEnv("PORT", "3000")
	baseURL := getEnv("LC_BASE_URL", "")

	// Determine bind address: flag takes precedence, then env, then default
	bindAddr := ":" + port
	if *urlFlag != "" {
		bindAddr = *urlFlag
	}

	// Initialize the metadata pipeline
	provider := metadata.NewProvider(baseURL)
	service := metadata.NewService(provider)
	handler := api.NewHandler(service)

	// Set up Gin router
	r := gin.New()
	r.Use(gin.Logger())
	r.Use(gin.CustomRecovery(func(c *gin.Context, err any) {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}))

	// Enable CORS for Audiobookshelf instances on other hosts
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", handler.HealthCheck)

	// Search requires an Authorization header to be present
	protected := r.Group("")
	protected.Use(auth.Middleware())
	{
		protected.GET("/search", handler.Search)
	}

	// Start server
	log.Printf("LubimyCzytac provider listening on %s", bindAddr)
	if err := r.Run(bindAddr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
