package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/seedworks/compseed/internal/config"
	"github.com/seedworks/compseed/internal/server"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using defaults")
	}

	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config/config.toml"
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Printf("Could not load %s (%v), using defaults", cfgPath, err)
		cfg = config.Default()
	}

	if port := os.Getenv("PORT"); port != "" {
		cfg.Server.Port = port
	}
	if path := os.Getenv("SEED_SQLITE_PATH"); path != "" {
		cfg.Server.SQLitePath = path
	}
	if path := os.Getenv("SEED_CACHE_JSON"); path != "" {
		cfg.Server.CacheJSON = path
	}

	srv := server.NewServer(cfg.Server)
	r := srv.SetupRouter()

	log.Printf("Starting server on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatal(err)
	}
}
