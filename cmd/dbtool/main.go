package main

import (
	"context"
	"log"
	"strings"

	"gpx-navigation-service/internal/adapters/repositories"
	"gpx-navigation-service/internal/config"
	"gpx-navigation-service/internal/platform/db"
	"gpx-navigation-service/internal/platform/obs"

	"github.com/joho/godotenv"
)

// dbtool prepares a Postgres database: schema plus the GPX catalog from ROUTES_DIR.
func main() {
	obs.InitLogging()

	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := config.Get("DATABASE_URL", "")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	conn, err := db.Open(databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer conn.Close()

	log.Println("Initializing database schema...")
	if err := repositories.InitPostgresSchema(conn); err != nil {
		log.Fatalf("schema initialization failed: %v", err)
	}
	log.Println("Schema ready.")

	routesDir := config.Get("ROUTES_DIR", "routes")
	log.Printf("Importing routes dir=%s", routesDir)
	n, err := repositories.SeedFromDir(context.Background(), repositories.NewSQLRouteRepository(conn), routesDir)
	if err != nil {
		log.Fatalf("import failed: %v", err)
	}
	log.Printf("Import complete routes=%d", n)
}
