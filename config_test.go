package brewfeed

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[log]
level = "debug"

[db]
host = "localhost"
port = 5432
user = "postgres"
password = "root"
database = "brewfeed"
pool_size = 10

[fixtures]
dir = "./data"

[spaces]
enabled = false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Log.Level != slog.LevelDebug {
		t.Errorf("log level = %v, want debug", cfg.Log.Level)
	}
	if cfg.DB.Database != "brewfeed" || cfg.DB.PoolSize != 10 {
		t.Errorf("db config = %+v", cfg.DB)
	}
	if cfg.Fixtures.Dir != "./data" {
		t.Errorf("fixtures dir = %q", cfg.Fixtures.Dir)
	}
	if cfg.Spaces.Enabled {
		t.Error("spaces enabled, want disabled")
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Error("LoadConfig() with missing file returned nil error")
	}
}
