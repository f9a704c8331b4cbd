package main

import (
	"flag"
	"log"

	"hivequiz/internal/config"
	"hivequiz/internal/database"
	"hivequiz/internal/logger"
)

func main() {
	source := flag.String("source", "file://database/migrations", "migration source URL")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Logger)
	l := logger.Get()
	defer l.Sync()

	if err := database.RunMigrations(*source, cfg.GetDSN()); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	l.Info("Migrations applied")
}
