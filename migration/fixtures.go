// fixtures.go
package migration

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"log/slog"
)

// Fixture file names and the top-level key each exposes its array under.
const (
	usersFixture   = "mockUsers.json"
	coffeesFixture = "mockCoffees.json"
	recipesFixture = "mockRecipes.json"
	gearFixture    = "mockGear.json"
	eventsFixture  = "mockEvents.json"

	usersKey   = "users"
	coffeesKey = "coffees"
	recipesKey = "recipes"
	gearKey    = "gear"
	eventsKey  = "coffeeEvents"
)

// LoadFixture reads one fixture file and returns its record array. The
// array normally lives under a named top-level key; a bare top-level array
// is accepted as a fallback. A missing file or malformed JSON is fatal for
// the run, so both come back as errors with no repair attempted.
func LoadFixture(dir, filename, key string) ([]map[string]any, error) {
	path := filepath.Join(dir, filename)

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", filename, err)
	}

	var wrapped map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapped); err == nil {
		inner, ok := wrapped[key]
		if !ok {
			return nil, fmt.Errorf("fixture %s has no top-level %q key", filename, key)
		}
		return decodeRecords(filename, inner)
	}

	// Bare-array fallback.
	records, err := decodeRecords(filename, raw)
	if err != nil {
		return nil, err
	}

	slog.Warn("Fixture is a bare array, expected named key",
		slog.String("type", "mig"),
		slog.String("file", filename),
		slog.String("key", key))
	return records, nil
}

func decodeRecords(filename string, raw []byte) ([]map[string]any, error) {
	var records []map[string]any
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("malformed fixture %s: %w", filename, err)
	}
	return records, nil
}

func logProgress(table string, current, total int) {
	if total == 0 {
		return
	}
	if current%100 == 0 || current == total {
		slog.Info("Migration progress",
			slog.String("type", "mig"),
			slog.String("table", table),
			slog.Int("current", current),
			slog.Int("total", total),
			slog.Float64("percent", float64(current)/float64(total)*100))
	}
}
