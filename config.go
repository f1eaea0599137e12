package brewfeed

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/pelletier/go-toml/v2"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

type Config struct {
	Log      LogConfig      `toml:"log"`
	DB       DBConfig       `toml:"db"`
	Fixtures FixturesConfig `toml:"fixtures"`
	Spaces   SpacesConfig   `toml:"spaces"`
}

type LogConfig struct {
	Level slog.Level `toml:"level"`
}

type DBConfig struct {
	Host     string `toml:"host"`
	Port     int    `toml:"port"`
	User     string `toml:"user"`
	Password string `toml:"password"`
	Database string `toml:"database"`
	PoolSize int    `toml:"pool_size"`
}

// FixturesConfig points at the directory holding the exported mock JSON
// files (mockUsers.json, mockCoffees.json, ...).
type FixturesConfig struct {
	Dir string `toml:"dir"`
}

// SpacesConfig configures optional image rehosting to S3-compatible storage.
// When Enabled is false the migrator keeps the fixture image URLs as-is.
type SpacesConfig struct {
	Enabled   bool   `toml:"enabled"`
	Key       string `toml:"key"`
	Secret    string `toml:"secret"`
	Region    string `toml:"region"`
	Bucket    string `toml:"bucket"`
	MediaRoot string `toml:"mediaroot"`
}
