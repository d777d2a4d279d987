package main

import (
	"database/sql"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"fieldservice-booking/internal/adapters/repositories"
	"fieldservice-booking/internal/config"
	"fieldservice-booking/internal/platform/db"
)

// dbtool provisions and seeds a Postgres deployment. The server binary
// handles SQLite on its own; this exists for shared-database installs.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	seedPath := config.Get("SEED_PATH", "data/seeds/appointments.json")
	initAndSeed(conn, seedPath)
}

func initAndSeed(conn *sql.DB, seedPath string) {
	log.Println("Initializing database schema...")
	if err := repositories.InitSchemaPostgres(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := repositories.SeedFromJSONPostgres(conn, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
