package migration

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
}

func TestLoadFixtureNamedKey(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mockGear.json", `{"gear": [{"id": "gear1", "name": "Chemex"}]}`)

	records, err := LoadFixture(dir, "mockGear.json", "gear")
	if err != nil {
		t.Fatalf("LoadFixture() error = %v", err)
	}
	if len(records) != 1 || records[0]["id"] != "gear1" {
		t.Errorf("records = %v", records)
	}
}

func TestLoadFixtureBareArrayFallback(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mockGear.json", `[{"id": "gear1"}, {"id": "gear2"}]`)

	records, err := LoadFixture(dir, "mockGear.json", "gear")
	if err != nil {
		t.Fatalf("LoadFixture() error = %v", err)
	}
	if len(records) != 2 {
		t.Errorf("record count = %d, want 2", len(records))
	}
}

func TestLoadFixtureWrongKey(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mockGear.json", `{"items": []}`)

	if _, err := LoadFixture(dir, "mockGear.json", "gear"); err == nil {
		t.Error("LoadFixture() with missing key returned nil error")
	}
}

func TestLoadFixtureMalformedJSON(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "mockGear.json", `{"gear": [{"id": "gear1",]}`)

	if _, err := LoadFixture(dir, "mockGear.json", "gear"); err == nil {
		t.Error("LoadFixture() with malformed JSON returned nil error")
	}
}

func TestLoadFixtureMissingFile(t *testing.T) {
	if _, err := LoadFixture(t.TempDir(), "mockGear.json", "gear"); err == nil {
		t.Error("LoadFixture() with missing file returned nil error")
	}
}
