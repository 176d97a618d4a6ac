package service

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds the runtime settings. Values come from the environment,
// optionally seeded from a .env file; CLI flags override them.
type Config struct {
	Addr      string
	DBPath    string
	BackupDir string
	JWTSecret string
}

const (
	defaultAddr      = ":8080"
	defaultDBPath    = "data/badger"
	defaultBackupDir = "data/backups"
)

// LoadConfig reads envFile when it exists, then the MODBOARD_* variables.
// Variables already set in the environment win over the file.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("failed to load %s: %w", envFile, err)
		}
	}
	return Config{
		Addr:      getenv("MODBOARD_ADDR", defaultAddr),
		DBPath:    getenv("MODBOARD_DB_PATH", defaultDBPath),
		BackupDir: getenv("MODBOARD_BACKUP_DIR", defaultBackupDir),
		JWTSecret: os.Getenv("MODBOARD_JWT_SECRET"),
	}, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}
