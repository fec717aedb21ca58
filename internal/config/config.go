package config

import (
	"log"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	// Server settings
	ListenAddr string `json:"listen_addr"`
	Debug      bool   `json:"debug"`

	// Directories
	DataDirectory      string `json:"data_directory"`
	SnapshotsDirectory string `json:"snapshots_directory"`

	// File paths
	LedgerFile string `json:"ledger_file"`

	// Password for an encrypted data directory. Empty means prompt on
	// startup if the directory turns out to be encrypted.
	Password string `json:"-"`
}

// DefaultConfig returns configuration with sensible defaults
func DefaultConfig() *Config {
	wd, err := os.Getwd()
	if err != nil {
		wd = "."
	}

	return &Config{
		ListenAddr:         ":8080",
		Debug:              false,
		DataDirectory:      filepath.Join(wd, "data"),
		SnapshotsDirectory: filepath.Join(wd, "data", "snapshots"),
		LedgerFile:         filepath.Join(wd, "data", "ledger.json"),
	}
}

// Load loads configuration from a .env file (if present) and the
// environment
func Load() *Config {
	// Missing .env is fine; real environment always wins
	_ = godotenv.Load()

	cfg := DefaultConfig()

	if addr := os.Getenv("SMARTSPEND_LISTEN_ADDR"); addr != "" {
		cfg.ListenAddr = addr
	}
	if debug := os.Getenv("SMARTSPEND_DEBUG"); debug == "true" || debug == "1" {
		cfg.Debug = true
	}
	if dataDir := os.Getenv("SMARTSPEND_DATA_DIR"); dataDir != "" {
		cfg.DataDirectory = dataDir
		cfg.SnapshotsDirectory = filepath.Join(dataDir, "snapshots")
		cfg.LedgerFile = filepath.Join(dataDir, "ledger.json")
	}
	cfg.Password = os.Getenv("SMARTSPEND_PASSWORD")

	cfg.ensureDirectories()

	return cfg
}

// ensureDirectories creates required directories if they don't exist
func (c *Config) ensureDirectories() {
	dirs := []string{
		c.DataDirectory,
		c.SnapshotsDirectory,
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			log.Printf("Warning: could not create directory %s: %v", dir, err)
		}
	}
}
