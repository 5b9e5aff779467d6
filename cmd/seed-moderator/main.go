package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"

	"github.com/AnshRaj112/sentinel-backend/internal/config"
	"github.com/AnshRaj112/sentinel-backend/internal/database"
	"github.com/AnshRaj112/sentinel-backend/internal/services"
	"github.com/AnshRaj112/sentinel-backend/pkg/utils"
)

// Creates a moderator account so the review surface has someone to sign in
// as. Run once per moderator; re-running with an existing username updates
// the password and role instead of failing.
func main() {
	username := flag.String("username", "", "moderator username")
	password := flag.String("password", "", "moderator password")
	role := flag.String("role", services.RoleReviewer, "reviewer or admin")
	flag.Parse()

	if *username == "" || *password == "" {
		log.Fatal("both -username and -password are required")
	}
	if *role != services.RoleReviewer && *role != services.RoleAdmin {
		log.Fatalf("unknown role %q", *role)
	}

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}
	cfg := config.Load()

	if err := database.ConnectPostgres(cfg.PostgresURI); err != nil {
		log.Fatal("Failed to connect to PostgreSQL:", err)
	}
	defer database.DisconnectPostgres()

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	_, err = database.PostgresDB.Exec(
		`INSERT INTO moderators (username, password_hash, role)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (username)
		 DO UPDATE SET password_hash = EXCLUDED.password_hash, role = EXCLUDED.role, is_active = TRUE`,
		*username, hash, *role,
	)
	if err != nil {
		log.Fatal("Failed to create moderator:", err)
	}

	log.Printf("✅ Moderator %s ready (%s)", *username, *role)
}
