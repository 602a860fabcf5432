package main

import (
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"service-review-server/config"
	"service-review-server/database"
	"service-review-server/routes"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	// Load configuration
	config.Load()

	// Initialize database
	if err := database.Initialize(config.AppConfig.Database.Path); err != nil {
		log.Fatal("Failed to initialize database:", err)
	}

	// Seed a starter catalog on first run
	if err := database.SeedServices(); err != nil {
		log.Printf("⚠️ Failed to seed services: %v", err)
	}

	// Set Gin mode
	if os.Getenv("GIN_MODE") == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := routes.SetupRouter(config.AppConfig, database.GetDB(), "templates/*.html")

	port := config.AppConfig.Server.Port
	log.Printf("Server starting on port %s", port)
	if err := router.Run("0.0.0.0:" + port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
