package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const defaultBaseURL = "http://localhost:8000"

// Config carries everything the client needs at startup.
type Config struct {
	BaseURL  string // backend base URL, no trailing slash
	CredsDir string // directory holding credentials.json
}

// Load reads a .env file if one exists in the working directory, then
// resolves settings from the environment.
func Load() (Config, error) {
	// Missing .env is fine; env vars still apply.
	_ = godotenv.Load()

	base := strings.TrimSpace(os.Getenv("TASKDASH_API_URL"))
	if base == "" {
		base = defaultBaseURL
	}
	base = strings.TrimRight(base, "/")

	dir := strings.TrimSpace(os.Getenv("TASKDASH_HOME"))
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return Config{}, err
		}
		dir = filepath.Join(home, ".taskdash")
	}

	return Config{BaseURL: base, CredsDir: dir}, nil
}
