// @title OpoBoost API
// @version 1.0
// @description Backend de la plataforma de preparación de oposiciones OpoBoost.

// @contact.name Soporte OpoBoost
// @contact.email soporte@opoboost.com

// @host localhost:8080
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

package main

import (
	"flag"
	"log"

	"opoboost_backend/internal/app"
	"opoboost_backend/internal/config"
	"opoboost_backend/pkg/configwatcher"
	"opoboost_backend/pkg/logger"
)

func main() {
	migrateOnly := flag.Bool("migrate-only", false, "run the database migration and exit")
	migrate := flag.Bool("migrate", false, "force the migration on startup, even in release mode")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	cfg.ForceMigrate = *migrate || *migrateOnly
	cfg.MigrateOnly = *migrateOnly

	application := app.NewApp(cfg)
	defer logger.Log.Sync()

	if *migrateOnly {
		log.Println("Migration finished, exiting")
		return
	}

	go configwatcher.WatchConfig("configs/config.yaml", application.ApplyConfig)

	application.Run()
}
