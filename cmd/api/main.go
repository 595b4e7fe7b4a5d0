package main

import (
	"log"
	"os"

	"thesis-management-api/config"
	"thesis-management-api/controllers"
	"thesis-management-api/middleware"
	"thesis-management-api/monitor"
	"thesis-management-api/routes"
	"thesis-management-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Initialize logging and database
	logFile, _ := config.InitLogging()
	if logFile != nil {
		defer logFile.Close()
	}
	config.InitDB()

	// Wire the document render collaborator
	controllers.SetDocumentRenderer(services.NewHTTPRenderer())

	// Set Gin mode
	ginMode := os.Getenv("GIN_MODE")
	if ginMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create Gin router
	router := gin.New()

	// Add logging middleware
	router.Use(gin.Logger())

	// Add recovery middleware
	router.Use(gin.Recovery())

	// Add security headers middleware
	router.Use(func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("X-XSS-Protection", "1; mode=block")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'self'")
		c.Next()
	})

	// Add CORS middleware
	router.Use(middleware.CORSMiddleware())

	// Setup routes
	routes.SetupRoutes(router)
	monitor.RegisterMonitorRoutes(router)

	// Start server
	port := os.Getenv("SERVER_PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	if ginMode == "release" {
		log.Printf("Running in production mode")
	} else {
		log.Printf("Running in development mode")
	}

	if err := router.Run(":" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
