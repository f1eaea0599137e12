// types.go
package migration

import (
	"strconv"
	"time"
)

// EntityType scopes legacy-ID namespaces. The same legacy string used for
// two different entity types must never resolve to the same stable ID.
type EntityType string

const (
	EntityProfile     EntityType = "profile"
	EntityCoffee      EntityType = "coffee"
	EntityRecipe      EntityType = "recipe"
	EntityGear        EntityType = "gear"
	EntitySavedCoffee EntityType = "saved_coffee"
	EntityCoffeeEvent EntityType = "coffee_event"
)

// RunState tracks where a single migration run is. A per-record failure in
// Migrating never moves the run to a failure state; every run ends Done.
type RunState string

const (
	RunNotStarted    RunState = "not_started"
	RunNormalizing   RunState = "normalizing"
	RunDeduplicating RunState = "deduplicating"
	RunMigrating     RunState = "migrating"
	RunReported      RunState = "reported"
	RunDone          RunState = "done"
)

// UserRecord is the canonical shape of one user fixture record. SavedRefs
// and FollowRefs carry the per-user arrays that get decomposed into
// saved_coffees and follows join records.
type UserRecord struct {
	LegacyID    string
	Email       string
	FullName    string
	Username    string
	AvatarURL   string
	Location    string
	AccountType string
	Bio         string
	Rating      float64
	ReviewCount int
	SavedRefs   []string
	FollowRefs  []string
}

type CoffeeRecord struct {
	LegacyID     string
	Name         string
	Roaster      string
	Origin       string
	Process      string
	RoastLevel   string
	TastingNotes []string
	Price        float64
	ImageURL     string
}

type RecipeRecord struct {
	LegacyID        string
	AuthorID        string
	CoffeeID        string
	Method          string
	GrindSize       string
	DoseGrams       float64
	YieldGrams      float64
	TempCelsius     float64
	BrewTimeSeconds int
	Rating          float64
	Steps           []string
	Notes           string
}

type GearRecord struct {
	LegacyID string
	Name     string
	Brand    string
	Category string
	Price    float64
	ImageURL string
}

type SavedCoffeeRecord struct {
	LegacyID  string
	UserID    string
	CoffeeID  string
	CreatedAt time.Time
}

type EventRecord struct {
	LegacyID        string
	UserID          string
	CoffeeID        string
	Type            string
	Rating          float64
	Notes           string
	Method          string
	DoseGrams       float64
	YieldGrams      float64
	TempCelsius     float64
	BrewTimeSeconds int
	GearIDs         []string
	CreatedAt       time.Time
}

type FollowRecord struct {
	FollowerID string
	FolloweeID string
}

// MigrationStats tracks migration progress and issues
type MigrationStats struct {
	State          RunState               `json:"state"`
	Tables         map[string]*TableStats `json:"tables"`
	StartTime      time.Time              `json:"start_time"`
	EndTime        time.Time              `json:"end_time"`
	TotalErrors    int                    `json:"total_errors"`
	TotalSkipped   int                    `json:"total_skipped"`
	TotalProcessed int                    `json:"total_processed"`
}

// TableStats tracks stats for individual tables
type TableStats struct {
	TableName      string          `json:"table_name"`
	Processed      int             `json:"processed"`
	Successful     int             `json:"successful"`
	Skipped        int             `json:"skipped"`
	Errors         int             `json:"errors"`
	SkippedRecords []SkippedRecord `json:"skipped_records"`
	ErrorRecords   []ErrorRecord   `json:"error_records"`
}

// SkippedRecord tracks why a record was skipped
type SkippedRecord struct {
	Reason    string    `json:"reason"`
	RecordID  string    `json:"record_id"`
	Timestamp time.Time `json:"timestamp"`
}

// ErrorRecord tracks migration errors
type ErrorRecord struct {
	Error     string    `json:"error"`
	RecordID  string    `json:"record_id"`
	Timestamp time.Time `json:"timestamp"`
}

// Helper functions for JSON parsing

func getString(data map[string]any, key string) string {
	if val, ok := data[key]; ok && val != nil {
		if str, ok := val.(string); ok {
			return str
		}
	}
	return ""
}

func getFloat(data map[string]any, key string) float64 {
	if val, ok := data[key]; ok && val != nil {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case string:
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
		}
	}
	return 0
}

func getInt(data map[string]any, key string) int {
	if val, ok := data[key]; ok && val != nil {
		switch v := val.(type) {
		case int:
			return v
		case float64:
			return int(v)
		case string:
			if i, err := strconv.Atoi(v); err == nil {
				return i
			}
		}
	}
	return 0
}

func getStringArray(data map[string]any, key string) []string {
	if val, ok := data[key]; ok && val != nil {
		switch arr := val.(type) {
		case []any:
			var result []string
			for _, item := range arr {
				if str, ok := item.(string); ok {
					result = append(result, str)
				}
			}
			return result
		case []string:
			return arr
		case string:
			if arr == "" {
				return []string{}
			}
			return []string{arr}
		}
	}
	return []string{}
}

func getTime(data map[string]any, key string) time.Time {
	if val, ok := data[key]; ok && val != nil {
		if str, ok := val.(string); ok {
			for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
				if t, err := time.Parse(layout, str); err == nil {
					return t
				}
			}
		}
	}
	return time.Time{}
}
