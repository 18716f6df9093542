package main

import (
	"context"
	"log"
	"os"
	"strings"
	"time"

	"github.com/ja12as/Proyecto-sena-banco-herramienta/cmd"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/container"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/database"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/middleware"
	"github.com/ja12as/Proyecto-sena-banco-herramienta/internal/routes"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const requestTimeout = 30 * time.Second

func init() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load .env file, but don't overwrite system environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: No .env file found, falling back to system environment variables.")
	}

	// Execute migration CMD
	cmd.Execute(ctx)
}

func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is not set")
	}

	db, err := database.NewPostgresConnection(dbURL)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer db.Close()

	log.Println("Connected to the database successfully!")

	if os.Getenv("AUTO_MIGRATE") == "true" {
		if err := database.RunMigrations(db, "./migrations"); err != nil {
			log.Fatalf("Error: %v", err)
		}
	}

	appContainer, err := container.NewAppContainer(db)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	if err := appContainer.Sweeper.Start(); err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer appContainer.Sweeper.Stop()

	middleware.SetVersion(os.Getenv("APP_VERSION"))
	middleware.UpdateHealthStatus("ok")

	router := gin.New()
	router.Use(
		gin.Logger(),
		middleware.RecoveryMiddleware(),
		middleware.TimeoutMiddleware(requestTimeout),
		cors.New(corsConfig()),
	)

	routes.RegisterPublicRoutes(router, appContainer)
	routes.RegisterProtectedRoutes(router, appContainer)
	routes.RegisterUtilityRoutes(router)

	if err := router.Run(os.Getenv("APP_HOST")); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func corsConfig() cors.Config {
	config := cors.DefaultConfig()
	config.AllowHeaders = append(config.AllowHeaders, "Authorization")

	if origins := os.Getenv("CORS_ORIGINS"); origins != "" {
		config.AllowOrigins = strings.Split(origins, ",")
	} else {
		config.AllowAllOrigins = true
	}

	return config
}
