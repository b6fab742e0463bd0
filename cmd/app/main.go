package main

import (
	"log"
	"os"

	"github.com/andreyxaxa/Image-Set-Mapper/config"
	"github.com/andreyxaxa/Image-Set-Mapper/internal/app"
	"github.com/joho/godotenv"
)

const _defaultEnvFile = ".env"

func main() {
	// Config
	err := loadEnvFile(os.Getenv("ENV_FILE"))
	if err != nil {
		log.Fatalf("config error: %s", err)
	}

	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Config error: %s", err)
	}

	// Run
	app.Run(cfg)
}

// loadEnvFile reads variables from path. Without a path the local .env is
// used when present. Variables already set in the environment win.
func loadEnvFile(path string) error {
	if path == "" {
		if _, err := os.Stat(_defaultEnvFile); err != nil {
			return nil
		}
		path = _defaultEnvFile
	}

	return godotenv.Load(path)
}
