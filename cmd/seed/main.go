// Command seed populates the database with demo data.
package main

import (
	"flag"
	"log"

	"garland/internal/config"
	"garland/internal/database"
	"garland/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 20, "number of users to create")
	numTrees := flag.Int("trees", 8, "number of trees to create")
	clean := flag.Bool("clean", false, "remove existing data first")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if cfg.Env == "production" {
		log.Fatal("Refusing to seed a production database")
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := seed.Run(db, seed.Options{
		NumUsers:    *numUsers,
		NumTrees:    *numTrees,
		ShouldClean: *clean,
	}); err != nil {
		log.Fatalf("Seeding failed: %v", err)
	}
}
