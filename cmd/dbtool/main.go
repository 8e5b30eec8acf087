package main

import (
	"database/sql"
	"delivery-optimization-service/internal/adapters/repositories"
	"delivery-optimization-service/internal/config"
	"delivery-optimization-service/internal/platform/db"
	"log"
	"os"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"
)

// dbtool initializes the schema and seeds delivery data without starting
// the server. It targets Postgres when DATABASE_URL is set, SQLite otherwise.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	seedPath := config.Get("SEED_PATH", "data/seeds/deliveries.json")

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) != "" {
		conn, err := db.OpenPostgres(databaseURL)
		if err != nil {
			log.Fatal(err)
		}
		defer conn.Close()

		initAndSeed(conn, seedPath, repositories.InitPostgresSchema, repositories.SeedPostgresFromJSON)
		return
	}

	sqlitePath := config.Get("SQLITE_PATH", "data/app.db")
	conn, err := db.OpenSQLite(sqlitePath)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	initAndSeed(conn, seedPath, repositories.InitSQLiteSchema, repositories.SeedSQLiteFromJSON)
}

func initAndSeed(conn *sql.DB, seedPath string, init func(*sql.DB) error, seed func(*sql.DB, string) error) {
	log.Println("Initializing database schema...")
	if err := init(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding database...")
	if err := seed(conn, seedPath); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}
	log.Println("Seeding complete.")
}
