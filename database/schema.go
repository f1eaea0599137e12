package database

import (
	"context"
	"strings"
	"time"

	"log/slog"
)

// SchemaStep is one idempotent schema change. Steps run in order and each
// can be retried on its own; a benign failure (object already exists) does
// not stop the run.
type SchemaStep struct {
	Name string
	SQL  string
}

// StepResult is the structured outcome of one schema step.
type StepResult struct {
	Name   string
	Err    error
	Benign bool
	Took   time.Duration
}

// SchemaSteps holds every column addition and constraint applied on top of
// the bun-created tables. ADD COLUMN IF NOT EXISTS keeps column steps
// idempotent; constraint steps rely on benign-error detection since
// Postgres has no ADD CONSTRAINT IF NOT EXISTS.
var SchemaSteps = []SchemaStep{
	{
		Name: "profiles_account_type",
		SQL:  `ALTER TABLE profiles ADD COLUMN IF NOT EXISTS account_type VARCHAR NOT NULL DEFAULT 'personal';`,
	},
	{
		Name: "profiles_rating_columns",
		SQL: `ALTER TABLE profiles
			ADD COLUMN IF NOT EXISTS rating DOUBLE PRECISION NOT NULL DEFAULT 0,
			ADD COLUMN IF NOT EXISTS review_count INTEGER NOT NULL DEFAULT 0;`,
	},
	{
		Name: "coffees_roast_level_default",
		SQL:  `ALTER TABLE coffees ADD COLUMN IF NOT EXISTS roast_level VARCHAR NOT NULL DEFAULT 'medium';`,
	},
	{
		Name: "coffee_events_brew_columns",
		SQL: `ALTER TABLE coffee_events
			ADD COLUMN IF NOT EXISTS method VARCHAR,
			ADD COLUMN IF NOT EXISTS dose_grams DOUBLE PRECISION,
			ADD COLUMN IF NOT EXISTS yield_grams DOUBLE PRECISION,
			ADD COLUMN IF NOT EXISTS temp_celsius DOUBLE PRECISION,
			ADD COLUMN IF NOT EXISTS brew_time_seconds INTEGER,
			ADD COLUMN IF NOT EXISTS gear_ids JSONB;`,
	},
	{
		Name: "recipes_fk_author",
		SQL: `ALTER TABLE recipes
			ADD CONSTRAINT fk_recipes_author FOREIGN KEY (author_id) REFERENCES profiles(id) ON DELETE CASCADE;`,
	},
	{
		Name: "recipes_fk_coffee",
		SQL: `ALTER TABLE recipes
			ADD CONSTRAINT fk_recipes_coffee FOREIGN KEY (coffee_id) REFERENCES coffees(id) ON DELETE CASCADE;`,
	},
	{
		Name: "saved_coffees_fk_user",
		SQL: `ALTER TABLE saved_coffees
			ADD CONSTRAINT fk_saved_coffees_user FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE;`,
	},
	{
		Name: "saved_coffees_fk_coffee",
		SQL: `ALTER TABLE saved_coffees
			ADD CONSTRAINT fk_saved_coffees_coffee FOREIGN KEY (coffee_id) REFERENCES coffees(id) ON DELETE CASCADE;`,
	},
	{
		Name: "coffee_events_fk_user",
		SQL: `ALTER TABLE coffee_events
			ADD CONSTRAINT fk_coffee_events_user FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE;`,
	},
	{
		Name: "follows_fk_follower",
		SQL: `ALTER TABLE follows
			ADD CONSTRAINT fk_follows_follower FOREIGN KEY (follower_id) REFERENCES profiles(id) ON DELETE CASCADE;`,
	},
	{
		Name: "follows_fk_followee",
		SQL: `ALTER TABLE follows
			ADD CONSTRAINT fk_follows_followee FOREIGN KEY (followee_id) REFERENCES profiles(id) ON DELETE CASCADE;`,
	},
	{
		Name: "follows_no_self_follow",
		SQL: `ALTER TABLE follows
			ADD CONSTRAINT chk_follows_no_self CHECK (follower_id <> followee_id);`,
	},
	{
		Name: "notifications_fk_user",
		SQL: `ALTER TABLE notifications
			ADD CONSTRAINT fk_notifications_user FOREIGN KEY (user_id) REFERENCES profiles(id) ON DELETE CASCADE;`,
	},
	{
		Name: "saved_coffees_unique_pair",
		SQL: `ALTER TABLE saved_coffees
			ADD CONSTRAINT uq_saved_coffees_user_coffee UNIQUE (user_id, coffee_id);`,
	},
}

// RunSchemaSteps executes each step in order and returns one result per
// step. Benign failures are logged as warnings and never abort.
func (db *DB) RunSchemaSteps(ctx context.Context, steps []SchemaStep) []StepResult {
	results := make([]StepResult, 0, len(steps))

	for _, step := range steps {
		start := time.Now()
		_, err := db.ExecWithLog(ctx, step.SQL)
		res := StepResult{
			Name: step.Name,
			Err:  err,
			Took: time.Since(start),
		}

		if err != nil && isBenignSchemaErr(err) {
			res.Benign = true
			slog.Warn("Schema step skipped",
				slog.String("type", "db"),
				slog.String("step", step.Name),
				slog.Any("error", err))
		} else if err != nil {
			slog.Error("Schema step failed",
				slog.String("type", "db"),
				slog.String("step", step.Name),
				slog.Any("error", err))
		}

		results = append(results, res)
	}

	return results
}

func isBenignSchemaErr(err error) bool {
	if err == nil {
		return false
	}
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "already exists") ||
		strings.Contains(s, "duplicate constraint") ||
		strings.Contains(s, "duplicate_object")
}
