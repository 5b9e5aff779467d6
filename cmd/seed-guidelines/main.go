package main

import (
	"context"
	"log"

	"github.com/joho/godotenv"

	"github.com/AnshRaj112/sentinel-backend/internal/config"
	"github.com/AnshRaj112/sentinel-backend/internal/database"
	"github.com/AnshRaj112/sentinel-backend/internal/services"
)

// Publishes the baseline community guidelines. Run once against a fresh
// deployment; publishing the same version twice fails with a conflict.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if err := database.ConnectRedis(cfg.RedisURI); err != nil {
		log.Fatal("Failed to connect to Redis:", err)
	}
	defer database.DisconnectRedis()

	if err := database.Connect(cfg.MongoURI); err != nil {
		log.Fatal("Failed to connect to MongoDB:", err)
	}
	defer database.Disconnect()

	gv := services.DefaultGuidelines()
	published, err := services.PublishGuidelines(context.Background(), gv)
	if err != nil {
		log.Fatal("Failed to publish guidelines:", err)
	}

	log.Printf("✅ Published community guidelines %s (%d categories)", published.Version, len(published.Categories))
}
