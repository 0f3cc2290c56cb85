package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"route-display-service/internal/adapters/cache"
	"route-display-service/internal/config"
	"route-display-service/internal/platform/db"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

// dbtool prepares the Postgres geocode cache: it creates the table and
// preloads the seed addresses.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if strings.TrimSpace(databaseURL) == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	db, err := db.Open(ctx, databaseURL)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	ttl, err := time.ParseDuration(config.Get("GEOCODE_CACHE_TTL", "720h"))
	if err != nil {
		log.Fatalf("invalid GEOCODE_CACHE_TTL: %v", err)
	}

	seedPath := config.Get("SEED_PATH", "data/seeds/geocodes.json")
	if err := initAndSeed(ctx, db, seedPath, ttl); err != nil {
		log.Fatal(err)
	}
}

func initAndSeed(ctx context.Context, db *sql.DB, seedPath string, ttl time.Duration) error {
	log.Println("Initializing database schema...")
	if err := cache.InitSchema(ctx, db); err != nil {
		return fmt.Errorf("schema initialization failed: %w", err)
	}
	log.Println("Schema ready.")

	log.Println("Seeding geocode cache...")
	seeds, err := cache.LoadSeeds(seedPath)
	if err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	if err := cache.NewSQLGeocodeCache(db, ttl).PutMany(ctx, seeds); err != nil {
		return fmt.Errorf("seeding failed: %w", err)
	}
	log.Printf("Seeding complete (%d addresses).", len(seeds))

	return nil
}
