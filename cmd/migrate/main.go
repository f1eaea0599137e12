package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"log/slog"

	"brewfeed"
	"brewfeed/database"
	"brewfeed/database/repositories"
	"brewfeed/logger"
	"brewfeed/migration"
	"brewfeed/services"
)

func main() {
	configPath := flag.String("config", "config.toml", "path to config file")
	reset := flag.Bool("reset", false, "truncate app tables before migrating")
	verify := flag.Bool("verify", false, "run post-migration verification pass")
	flag.Parse()

	cfg, err := brewfeed.LoadConfig(*configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(logger.NewHandler(cfg.Log.Level)))

	ctx := context.Background()

	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		slog.Error("Failed to initialize schema", "error", err)
		os.Exit(1)
	}

	if *reset {
		if err := db.ResetAppTables(ctx); err != nil {
			slog.Error("Failed to reset tables", "error", err)
			os.Exit(1)
		}
	}

	migrator := migration.NewMigrator(migration.NewBunStore(db.BunDB()), cfg.Fixtures.Dir)

	if cfg.Spaces.Enabled {
		media, err := services.NewMediaService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.MediaRoot,
		)
		if err != nil {
			slog.Error("Failed to initialize media service", "error", err)
			os.Exit(1)
		}
		migrator.SetMediaRehoster(media)
	}

	if err := migrator.MigrateAll(ctx); err != nil {
		logger.LogError("Migration failed", err)
		os.Exit(1)
	}

	if *verify {
		if err := runVerification(ctx, db); err != nil {
			slog.Error("Verification failed", "error", err)
			os.Exit(1)
		}
	}

	logger.LogSystem("Migration completed successfully!")
}

// runVerification reads the migrated tables back and flags anything that
// needs operator review, including near-duplicate names that exact-key
// deduplication cannot catch.
func runVerification(ctx context.Context, db *database.DB) error {
	profileRepo := repositories.NewProfileRepository(db.BunDB())
	coffeeRepo := repositories.NewCoffeeRepository(db.BunDB())
	gearRepo := repositories.NewGearRepository(db.BunDB())

	profiles, err := profileRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count profiles: %w", err)
	}
	coffees, err := coffeeRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count coffees: %w", err)
	}
	gear, err := gearRepo.Count(ctx)
	if err != nil {
		return fmt.Errorf("count gear: %w", err)
	}

	slog.Info("Verification counts",
		slog.String("type", "mig"),
		slog.Int("profiles", profiles),
		slog.Int("coffees", coffees),
		slog.Int("gear", gear))

	coffeeNames, err := coffeeRepo.Names(ctx)
	if err != nil {
		return fmt.Errorf("list coffee names: %w", err)
	}
	gearNames, err := gearRepo.Names(ctx)
	if err != nil {
		return fmt.Errorf("list gear names: %w", err)
	}

	for _, pair := range migration.SuspectDuplicates(coffeeNames) {
		slog.Warn("Possible duplicate coffee",
			slog.String("type", "mig"),
			slog.String("a", pair.A),
			slog.String("b", pair.B),
			slog.Int("score", pair.Score))
	}
	for _, pair := range migration.SuspectDuplicates(gearNames) {
		slog.Warn("Possible duplicate gear",
			slog.String("type", "mig"),
			slog.String("a", pair.A),
			slog.String("b", pair.B),
			slog.Int("score", pair.Score))
	}

	return nil
}
