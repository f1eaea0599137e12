// migrator.go
package migration

import (
	"context"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"brewfeed/database/models"
	"brewfeed/logger"
)

// MediaRehoster copies fixture image URLs into hosted object storage.
// Optional; a nil rehoster leaves source URLs untouched.
type MediaRehoster interface {
	Rehost(ctx context.Context, sourceURL string) (string, error)
	Prefetch(ctx context.Context, sourceURLs []string)
}

// Migrator drives one migration run: load fixtures, normalize, dedupe,
// write in FK dependency order, report. It is single-shot and sequential;
// build one per run and discard it.
type Migrator struct {
	store     Store
	ids       *IdentityMapper
	media     MediaRehoster
	dataDir   string
	overrides map[string]string

	state RunState
	stats MigrationStats

	userRemap map[string]string
	gearRemap map[string]string
}

// normalizedSet holds every canonical record for the run, after the
// normalize and dedupe phases.
type normalizedSet struct {
	users        []UserRecord
	usersRemoved []UserRecord
	coffees      []CoffeeRecord
	recipes      []RecipeRecord
	gear         []GearRecord
	gearRemoved  []GearRecord
	saved        []SavedCoffeeRecord
	events       []EventRecord
	follows      []FollowRecord
}

func NewMigrator(store Store, dataDir string) *Migrator {
	return &Migrator{
		store:     store,
		ids:       NewIdentityMapper(),
		dataDir:   dataDir,
		overrides: DefaultIDOverrides,
		state:     RunNotStarted,
		stats: MigrationStats{
			State:  RunNotStarted,
			Tables: make(map[string]*TableStats),
		},
		userRemap: make(map[string]string),
		gearRemap: make(map[string]string),
	}
}

// SetIDOverrides replaces the static legacy-ID remap table for this run.
func (m *Migrator) SetIDOverrides(overrides map[string]string) {
	m.overrides = overrides
}

// SetMediaRehoster enables image rehosting during the write phase.
func (m *Migrator) SetMediaRehoster(media MediaRehoster) {
	m.media = media
}

func (m *Migrator) State() RunState { return m.state }

func (m *Migrator) Stats() *MigrationStats { return &m.stats }

func (m *Migrator) transition(next RunState) {
	m.state = next
	m.stats.State = next
	slog.Info("Migration state change",
		slog.String("type", "mig"),
		slog.String("state", string(next)))
}

// MigrateAll runs the whole pipeline. Fixture and top-level errors are
// fatal and returned; per-record write failures are recorded in the stats
// and never abort the run, so a non-nil return means nothing was written
// past the failure point while a nil return still requires checking the
// report for partial failures.
func (m *Migrator) MigrateAll(ctx context.Context) error {
	m.stats.StartTime = time.Now()

	m.transition(RunNormalizing)
	set, err := m.loadAndNormalize()
	if err != nil {
		return err
	}

	m.transition(RunDeduplicating)
	m.dedupe(set)

	m.transition(RunMigrating)
	if m.media != nil {
		m.media.Prefetch(ctx, collectImageURLs(set))
	}

	steps := []struct {
		name string
		run  func(context.Context, *normalizedSet) error
	}{
		{"coffees", m.migrateCoffees},
		{"profiles", m.migrateProfiles},
		{"recipes", m.migrateRecipes},
		{"gear", m.migrateGear},
		{"saved_coffees", m.migrateSavedCoffees},
		{"coffee_events", m.migrateCoffeeEvents},
		{"follows", m.migrateFollows},
	}

	for _, step := range steps {
		start := time.Now()
		err := step.run(ctx, set)
		logger.LogStep(step.name, time.Since(start), err)
		if err != nil {
			return fmt.Errorf("migration step %s: %w", step.name, err)
		}
	}

	m.transition(RunReported)
	m.stats.EndTime = time.Now()
	if err := m.writeReport(); err != nil {
		slog.Error("Failed to write migration report",
			slog.String("type", "mig"),
			slog.Any("error", err))
	}
	m.logFinalStats()

	m.transition(RunDone)
	return nil
}

func (m *Migrator) loadAndNormalize() (*normalizedSet, error) {
	set := &normalizedSet{}

	rawUsers, err := LoadFixture(m.dataDir, usersFixture, usersKey)
	if err != nil {
		return nil, err
	}
	for _, raw := range rawUsers {
		user := NormalizeUser(raw)
		set.users = append(set.users, user)

		// Per-user arrays decompose into join records here so the write
		// phase only ever sees flat record lists.
		for _, coffeeRef := range user.SavedRefs {
			set.saved = append(set.saved, SavedCoffeeRecord{
				LegacyID: user.LegacyID + ":" + coffeeRef,
				UserID:   user.LegacyID,
				CoffeeID: coffeeRef,
			})
		}
		for _, followee := range user.FollowRefs {
			set.follows = append(set.follows, FollowRecord{
				FollowerID: user.LegacyID,
				FolloweeID: followee,
			})
		}
	}

	rawCoffees, err := LoadFixture(m.dataDir, coffeesFixture, coffeesKey)
	if err != nil {
		return nil, err
	}
	for _, raw := range rawCoffees {
		set.coffees = append(set.coffees, NormalizeCoffee(raw))
	}

	rawRecipes, err := LoadFixture(m.dataDir, recipesFixture, recipesKey)
	if err != nil {
		return nil, err
	}
	for _, raw := range rawRecipes {
		set.recipes = append(set.recipes, NormalizeRecipe(raw))
	}

	rawGear, err := LoadFixture(m.dataDir, gearFixture, gearKey)
	if err != nil {
		return nil, err
	}
	for _, raw := range rawGear {
		set.gear = append(set.gear, NormalizeGear(raw))
	}

	rawEvents, err := LoadFixture(m.dataDir, eventsFixture, eventsKey)
	if err != nil {
		return nil, err
	}
	for _, raw := range rawEvents {
		set.events = append(set.events, NormalizeEvent(raw))
	}

	slog.Info("Fixtures normalized",
		slog.String("type", "mig"),
		slog.Int("users", len(set.users)),
		slog.Int("coffees", len(set.coffees)),
		slog.Int("recipes", len(set.recipes)),
		slog.Int("gear", len(set.gear)),
		slog.Int("saved_coffees", len(set.saved)),
		slog.Int("events", len(set.events)),
		slog.Int("follows", len(set.follows)))

	return set, nil
}

// dedupe collapses duplicate users (by email) and gear (by lowercased
// name), then rewrites every reference to a removed record. Coffees carry
// no natural key and are deliberately left alone.
func (m *Migrator) dedupe(set *normalizedSet) {
	userResult := Dedupe(set.users,
		func(u UserRecord) string { return u.Email },
		func(u UserRecord) string { return u.LegacyID },
		m.overrides)
	set.users = userResult.Canonical
	set.usersRemoved = userResult.Removed
	m.userRemap = userResult.Remapped

	gearResult := Dedupe(set.gear,
		func(g GearRecord) string { return strings.ToLower(g.Name) },
		func(g GearRecord) string { return g.LegacyID },
		m.overrides)
	set.gear = gearResult.Canonical
	set.gearRemoved = gearResult.Removed
	m.gearRemap = gearResult.Remapped

	for i := range set.recipes {
		set.recipes[i].AuthorID = chase(m.userRemap, set.recipes[i].AuthorID)
	}
	for i := range set.saved {
		set.saved[i].UserID = chase(m.userRemap, set.saved[i].UserID)
	}
	for i := range set.events {
		set.events[i].UserID = chase(m.userRemap, set.events[i].UserID)
		for j := range set.events[i].GearIDs {
			set.events[i].GearIDs[j] = chase(m.gearRemap, set.events[i].GearIDs[j])
		}
	}
	for i := range set.follows {
		set.follows[i].FollowerID = chase(m.userRemap, set.follows[i].FollowerID)
		set.follows[i].FolloweeID = chase(m.userRemap, set.follows[i].FolloweeID)
	}

	slog.Info("Deduplication complete",
		slog.String("type", "mig"),
		slog.Int("users_removed", len(set.usersRemoved)),
		slog.Int("gear_removed", len(set.gearRemoved)))
}

func (m *Migrator) migrateCoffees(ctx context.Context, set *normalizedSet) error {
	const table = "coffees"
	m.initTableStats(table)

	for i, rec := range set.coffees {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.recordProcessed(table)

		// No natural key for coffees: every run mints fresh IDs.
		id := m.ids.Resolve(EntityCoffee, rec.LegacyID)
		coffee := &models.Coffee{
			ID:           id,
			Name:         rec.Name,
			Roaster:      rec.Roaster,
			Origin:       rec.Origin,
			Process:      rec.Process,
			RoastLevel:   rec.RoastLevel,
			TastingNotes: rec.TastingNotes,
			Price:        rec.Price,
			ImageURL:     m.rehostImage(ctx, rec.ImageURL),
		}

		if err := m.store.UpsertCoffee(ctx, coffee); err != nil {
			m.recordError(table, err.Error(), rec.LegacyID)
			continue
		}
		m.recordSuccessful(table)
		logProgress(table, i+1, len(set.coffees))
	}
	return nil
}

func (m *Migrator) migrateProfiles(ctx context.Context, set *normalizedSet) error {
	const table = "profiles"
	m.initTableStats(table)

	for _, removed := range set.usersRemoved {
		m.recordProcessed(table)
		m.recordSkipped(table, "duplicate email, merged into "+m.userRemap[removed.LegacyID], removed.LegacyID)
	}

	for i, rec := range set.users {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.recordProcessed(table)

		// Email is the natural key: a profile written by an earlier run
		// keeps its stable ID instead of getting a fresh UUID.
		if rec.Email != "" {
			existing, err := m.store.ProfileIDByEmail(ctx, rec.Email)
			if err != nil {
				m.recordError(table, err.Error(), rec.LegacyID)
				continue
			}
			if existing != "" {
				m.ids.Bind(EntityProfile, rec.LegacyID, existing)
			}
		}

		profile := &models.Profile{
			ID:          m.ids.Resolve(EntityProfile, rec.LegacyID),
			Email:       rec.Email,
			FullName:    rec.FullName,
			Username:    rec.Username,
			AvatarURL:   m.rehostImage(ctx, rec.AvatarURL),
			Location:    rec.Location,
			AccountType: models.AccountType(rec.AccountType),
			Bio:         rec.Bio,
			Rating:      rec.Rating,
			ReviewCount: rec.ReviewCount,
		}

		if err := m.store.UpsertProfile(ctx, profile); err != nil {
			m.recordError(table, err.Error(), rec.LegacyID)
			continue
		}
		m.recordSuccessful(table)
		logProgress(table, i+1, len(set.users))
	}
	return nil
}

func (m *Migrator) migrateRecipes(ctx context.Context, set *normalizedSet) error {
	const table = "recipes"
	m.initTableStats(table)

	for i, rec := range set.recipes {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.recordProcessed(table)

		authorID, ok := m.ids.Lookup(EntityProfile, rec.AuthorID)
		if !ok {
			m.recordError(table, fmt.Sprintf("unknown author %q", rec.AuthorID), rec.LegacyID)
			continue
		}
		coffeeID, ok := m.ids.Lookup(EntityCoffee, rec.CoffeeID)
		if !ok {
			m.recordError(table, fmt.Sprintf("unknown coffee %q", rec.CoffeeID), rec.LegacyID)
			continue
		}

		recipe := &models.Recipe{
			ID:              m.ids.Resolve(EntityRecipe, rec.LegacyID),
			AuthorID:        authorID,
			CoffeeID:        coffeeID,
			Method:          rec.Method,
			GrindSize:       rec.GrindSize,
			DoseGrams:       rec.DoseGrams,
			YieldGrams:      rec.YieldGrams,
			TempCelsius:     rec.TempCelsius,
			BrewTimeSeconds: rec.BrewTimeSeconds,
			Rating:          rec.Rating,
			Steps:           rec.Steps,
			Notes:           rec.Notes,
		}

		if err := m.store.UpsertRecipe(ctx, recipe); err != nil {
			m.recordError(table, err.Error(), rec.LegacyID)
			continue
		}
		m.recordSuccessful(table)
		logProgress(table, i+1, len(set.recipes))
	}
	return nil
}

func (m *Migrator) migrateGear(ctx context.Context, set *normalizedSet) error {
	const table = "gear"
	m.initTableStats(table)

	for _, removed := range set.gearRemoved {
		m.recordProcessed(table)
		m.recordSkipped(table, "duplicate name, merged into "+m.gearRemap[removed.LegacyID], removed.LegacyID)
	}

	for i, rec := range set.gear {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.recordProcessed(table)

		// Lowercased name is the natural key for re-run reconciliation.
		if rec.Name != "" {
			existing, err := m.store.GearIDByName(ctx, rec.Name)
			if err != nil {
				m.recordError(table, err.Error(), rec.LegacyID)
				continue
			}
			if existing != "" {
				m.ids.Bind(EntityGear, rec.LegacyID, existing)
			}
		}

		gear := &models.Gear{
			ID:       m.ids.Resolve(EntityGear, rec.LegacyID),
			Name:     rec.Name,
			Brand:    rec.Brand,
			Category: rec.Category,
			Price:    rec.Price,
			ImageURL: m.rehostImage(ctx, rec.ImageURL),
		}

		if err := m.store.UpsertGear(ctx, gear); err != nil {
			m.recordError(table, err.Error(), rec.LegacyID)
			continue
		}
		m.recordSuccessful(table)
		logProgress(table, i+1, len(set.gear))
	}
	return nil
}

func (m *Migrator) migrateSavedCoffees(ctx context.Context, set *normalizedSet) error {
	const table = "saved_coffees"
	m.initTableStats(table)

	for i, rec := range set.saved {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.recordProcessed(table)

		userID, ok := m.ids.Lookup(EntityProfile, rec.UserID)
		if !ok {
			m.recordError(table, fmt.Sprintf("unknown user %q", rec.UserID), rec.LegacyID)
			continue
		}
		coffeeID, ok := m.ids.Lookup(EntityCoffee, rec.CoffeeID)
		if !ok {
			m.recordError(table, fmt.Sprintf("unknown coffee %q", rec.CoffeeID), rec.LegacyID)
			continue
		}

		saved := &models.SavedCoffee{
			ID:        m.ids.Resolve(EntitySavedCoffee, rec.LegacyID),
			UserID:    userID,
			CoffeeID:  coffeeID,
			CreatedAt: rec.CreatedAt,
		}

		if err := m.store.UpsertSavedCoffee(ctx, saved); err != nil {
			m.recordError(table, err.Error(), rec.LegacyID)
			continue
		}
		m.recordSuccessful(table)
		logProgress(table, i+1, len(set.saved))
	}
	return nil
}

func (m *Migrator) migrateCoffeeEvents(ctx context.Context, set *normalizedSet) error {
	const table = "coffee_events"
	m.initTableStats(table)

	for i, rec := range set.events {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.recordProcessed(table)

		userID, ok := m.ids.Lookup(EntityProfile, rec.UserID)
		if !ok {
			m.recordError(table, fmt.Sprintf("unknown user %q", rec.UserID), rec.LegacyID)
			continue
		}

		// CoffeeID is optional for gear_added events.
		var coffeeID string
		if rec.CoffeeID != "" {
			coffeeID, ok = m.ids.Lookup(EntityCoffee, rec.CoffeeID)
			if !ok {
				m.recordError(table, fmt.Sprintf("unknown coffee %q", rec.CoffeeID), rec.LegacyID)
				continue
			}
		}

		gearIDs, missing := m.resolveGearRefs(rec.GearIDs)
		if missing != "" {
			m.recordError(table, fmt.Sprintf("unknown gear %q", missing), rec.LegacyID)
			continue
		}

		event := &models.CoffeeEvent{
			ID:              m.ids.Resolve(EntityCoffeeEvent, rec.LegacyID),
			UserID:          userID,
			CoffeeID:        coffeeID,
			Type:            models.EventType(rec.Type),
			Rating:          rec.Rating,
			Notes:           rec.Notes,
			Method:          rec.Method,
			DoseGrams:       rec.DoseGrams,
			YieldGrams:      rec.YieldGrams,
			TempCelsius:     rec.TempCelsius,
			BrewTimeSeconds: rec.BrewTimeSeconds,
			GearIDs:         gearIDs,
			CreatedAt:       rec.CreatedAt,
		}

		if err := m.store.UpsertCoffeeEvent(ctx, event); err != nil {
			m.recordError(table, err.Error(), rec.LegacyID)
			continue
		}
		m.recordSuccessful(table)
		logProgress(table, i+1, len(set.events))
	}
	return nil
}

func (m *Migrator) migrateFollows(ctx context.Context, set *normalizedSet) error {
	const table = "follows"
	m.initTableStats(table)

	for i, rec := range set.follows {
		if err := ctx.Err(); err != nil {
			return err
		}
		m.recordProcessed(table)
		pairID := rec.FollowerID + " -> " + rec.FolloweeID

		if rec.FollowerID == rec.FolloweeID {
			m.recordSkipped(table, "self-follow", pairID)
			continue
		}

		followerID, ok := m.ids.Lookup(EntityProfile, rec.FollowerID)
		if !ok {
			m.recordError(table, fmt.Sprintf("unknown follower %q", rec.FollowerID), pairID)
			continue
		}
		followeeID, ok := m.ids.Lookup(EntityProfile, rec.FolloweeID)
		if !ok {
			m.recordError(table, fmt.Sprintf("unknown followee %q", rec.FolloweeID), pairID)
			continue
		}

		follow := &models.Follow{
			FollowerID: followerID,
			FolloweeID: followeeID,
		}

		if err := m.store.UpsertFollow(ctx, follow); err != nil {
			m.recordError(table, err.Error(), pairID)
			continue
		}
		m.recordSuccessful(table)
		logProgress(table, i+1, len(set.follows))
	}
	return nil
}

func (m *Migrator) resolveGearRefs(legacyIDs []string) ([]string, string) {
	if len(legacyIDs) == 0 {
		return nil, ""
	}
	resolved := make([]string, 0, len(legacyIDs))
	for _, legacy := range legacyIDs {
		id, ok := m.ids.Lookup(EntityGear, legacy)
		if !ok {
			return nil, legacy
		}
		resolved = append(resolved, id)
	}
	return resolved, ""
}

func (m *Migrator) rehostImage(ctx context.Context, sourceURL string) string {
	if m.media == nil || sourceURL == "" {
		return sourceURL
	}
	hosted, err := m.media.Rehost(ctx, sourceURL)
	if err != nil {
		slog.Warn("Image rehost failed, keeping source URL",
			slog.String("type", "mig"),
			slog.String("url", sourceURL),
			slog.Any("error", err))
		return sourceURL
	}
	return hosted
}

// chase follows a remap chain to its terminal legacy ID. Chains are short;
// the guard only protects against a malformed override table.
func chase(remap map[string]string, legacyID string) string {
	for i := 0; i < len(remap)+1; i++ {
		next, ok := remap[legacyID]
		if !ok {
			return legacyID
		}
		legacyID = next
	}
	return legacyID
}

func collectImageURLs(set *normalizedSet) []string {
	var urls []string
	for _, u := range set.users {
		if u.AvatarURL != "" {
			urls = append(urls, u.AvatarURL)
		}
	}
	for _, c := range set.coffees {
		if c.ImageURL != "" {
			urls = append(urls, c.ImageURL)
		}
	}
	for _, g := range set.gear {
		if g.ImageURL != "" {
			urls = append(urls, g.ImageURL)
		}
	}
	return urls
}
