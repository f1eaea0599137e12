package migration

import (
	"context"
	"strings"
	"testing"

	"brewfeed/database/models"
)

// memStore satisfies Store in memory so the full pipeline runs without a
// database. It persists across Migrator instances within a test, which is
// what the re-run scenarios need.
type memStore struct {
	profiles map[string]*models.Profile
	coffees  map[string]*models.Coffee
	gear     map[string]*models.Gear
	recipes  map[string]*models.Recipe
	saved    map[string]*models.SavedCoffee
	events   map[string]*models.CoffeeEvent
	follows  map[string]*models.Follow
}

func newMemStore() *memStore {
	return &memStore{
		profiles: make(map[string]*models.Profile),
		coffees:  make(map[string]*models.Coffee),
		gear:     make(map[string]*models.Gear),
		recipes:  make(map[string]*models.Recipe),
		saved:    make(map[string]*models.SavedCoffee),
		events:   make(map[string]*models.CoffeeEvent),
		follows:  make(map[string]*models.Follow),
	}
}

func (s *memStore) UpsertProfile(_ context.Context, p *models.Profile) error {
	s.profiles[p.ID] = p
	return nil
}

func (s *memStore) UpsertCoffee(_ context.Context, c *models.Coffee) error {
	s.coffees[c.ID] = c
	return nil
}

func (s *memStore) UpsertGear(_ context.Context, g *models.Gear) error {
	s.gear[g.ID] = g
	return nil
}

func (s *memStore) UpsertRecipe(_ context.Context, r *models.Recipe) error {
	s.recipes[r.ID] = r
	return nil
}

func (s *memStore) UpsertSavedCoffee(_ context.Context, sc *models.SavedCoffee) error {
	s.saved[sc.UserID+"|"+sc.CoffeeID] = sc
	return nil
}

func (s *memStore) UpsertCoffeeEvent(_ context.Context, e *models.CoffeeEvent) error {
	s.events[e.ID] = e
	return nil
}

func (s *memStore) UpsertFollow(_ context.Context, f *models.Follow) error {
	s.follows[f.FollowerID+"|"+f.FolloweeID] = f
	return nil
}

func (s *memStore) ProfileIDByEmail(_ context.Context, email string) (string, error) {
	for id, p := range s.profiles {
		if strings.EqualFold(p.Email, email) {
			return id, nil
		}
	}
	return "", nil
}

func (s *memStore) GearIDByName(_ context.Context, name string) (string, error) {
	for id, g := range s.gear {
		if strings.EqualFold(g.Name, name) {
			return id, nil
		}
	}
	return "", nil
}

func writeDefaultFixtures(t *testing.T, dir string) {
	t.Helper()
	writeFixture(t, dir, usersFixture, `{"users": [
		{"id": "user1", "email": "maya@example.com", "fullName": "Maya Chen", "userName": "mayabrews",
		 "savedCoffees": ["coffee1"], "following": ["business-2", "user1"]},
		{"id": "business-2", "email": "hello@cafeluna.example.com", "fullName": "Café Luna", "userName": "cafeluna"}
	]}`)
	writeFixture(t, dir, coffeesFixture, `{"coffees": [
		{"id": "coffee1", "name": "Kirinyaga AA", "roaster": "Luna Roasters", "roastLevel": "light"},
		{"id": "coffee2", "name": "House Blend"}
	]}`)
	writeFixture(t, dir, recipesFixture, `{"recipes": [
		{"id": "recipe1", "authorId": "user1", "coffeeId": "coffee1", "method": "V60"},
		{"id": "recipe2", "authorId": "user1", "coffeeId": "coffee-missing", "method": "AeroPress"}
	]}`)
	writeFixture(t, dir, gearFixture, `{"gear": [
		{"id": "aeropress", "name": "AeroPress", "category": "brewer"},
		{"id": "gear6", "name": "AeroPress", "category": "brewer"},
		{"id": "gear2", "name": "Hario V60", "category": "brewer"}
	]}`)
	writeFixture(t, dir, eventsFixture, `{"coffeeEvents": [
		{"id": "event1", "userId": "user1", "coffeeId": "coffee1", "type": "coffee_log", "rating": 4.5},
		{"id": "event2", "userId": "business-2", "type": "gear_added", "gearIds": ["aeropress"]}
	]}`)
}

func runMigration(t *testing.T, store Store, dir string) *Migrator {
	t.Helper()
	m := NewMigrator(store, dir)
	m.SetIDOverrides(map[string]string{"aeropress": "gear6"})
	if err := m.MigrateAll(context.Background()); err != nil {
		t.Fatalf("MigrateAll() error = %v", err)
	}
	if m.State() != RunDone {
		t.Fatalf("run state = %q, want %q", m.State(), RunDone)
	}
	return m
}

func TestMigrateAllEndToEnd(t *testing.T) {
	dir := t.TempDir()
	writeDefaultFixtures(t, dir)
	store := newMemStore()

	m := runMigration(t, store, dir)
	summary := m.Summary()

	if got := summary["profiles"]; got.Successful != 2 || got.Errors != 0 {
		t.Errorf("profiles summary = %+v", got)
	}
	if got := summary["coffees"]; got.Successful != 2 || got.Errors != 0 {
		t.Errorf("coffees summary = %+v", got)
	}

	// The AeroPress duplicate collapses onto the override target and the
	// event's gear ref follows it.
	if got := summary["gear"]; got.Successful != 2 || got.Skipped != 1 {
		t.Errorf("gear summary = %+v", got)
	}
	if len(store.gear) != 2 {
		t.Errorf("gear rows = %d, want 2", len(store.gear))
	}
	canonicalGear, ok := m.ids.Lookup(EntityGear, "gear6")
	if !ok {
		t.Fatal("override target gear6 has no stable ID")
	}
	var event2 *models.CoffeeEvent
	for _, e := range store.events {
		if e.Type == models.EventTypeGearAdded {
			event2 = e
		}
	}
	if event2 == nil {
		t.Fatal("gear_added event not migrated")
	}
	if len(event2.GearIDs) != 1 || event2.GearIDs[0] != canonicalGear {
		t.Errorf("event gear refs = %v, want [%s]", event2.GearIDs, canonicalGear)
	}

	// user1 follows itself in the fixture: skipped, not written.
	if got := summary["follows"]; got.Successful != 1 || got.Skipped != 1 {
		t.Errorf("follows summary = %+v", got)
	}
	if len(store.follows) != 1 {
		t.Errorf("follow rows = %d, want 1", len(store.follows))
	}
	for _, f := range store.follows {
		if f.FollowerID == f.FolloweeID {
			t.Errorf("self-follow written: %+v", f)
		}
	}

	if got := summary["saved_coffees"]; got.Successful != 1 || got.Errors != 0 {
		t.Errorf("saved_coffees summary = %+v", got)
	}
}

func TestMigrateRecipeWithMissingCoffee(t *testing.T) {
	dir := t.TempDir()
	writeDefaultFixtures(t, dir)
	store := newMemStore()

	m := runMigration(t, store, dir)
	summary := m.Summary()

	if got := summary["recipes"]; got.Successful != 1 || got.Errors != 1 {
		t.Errorf("recipes summary = %+v, want 1 success and 1 error", got)
	}
	if got := summary["coffees"].Errors; got != 0 {
		t.Errorf("coffees errors = %d, want 0", got)
	}
	if got := summary["profiles"].Errors; got != 0 {
		t.Errorf("profiles errors = %d, want 0", got)
	}

	// The failing recipe is recorded, not written with a dangling FK.
	if len(store.recipes) != 1 {
		t.Errorf("recipe rows = %d, want 1", len(store.recipes))
	}
	errs := m.Stats().Tables["recipes"].ErrorRecords
	if len(errs) != 1 || errs[0].RecordID != "recipe2" {
		t.Errorf("recipe error records = %+v", errs)
	}
}

func TestMigrateRecipeWithMissingAuthor(t *testing.T) {
	dir := t.TempDir()
	writeDefaultFixtures(t, dir)
	writeFixture(t, dir, recipesFixture, `{"recipes": [
		{"id": "recipe1", "authorId": "user-ghost", "coffeeId": "coffee1", "method": "V60"}
	]}`)
	store := newMemStore()

	m := runMigration(t, store, dir)

	if got := m.Summary()["recipes"]; got.Successful != 0 || got.Errors != 1 {
		t.Errorf("recipes summary = %+v, want 0 success and 1 error", got)
	}
	if len(store.recipes) != 0 {
		t.Errorf("recipe rows = %d, want 0", len(store.recipes))
	}
}

func TestMigrateTwiceProfilesStableCoffeesDuplicate(t *testing.T) {
	dir := t.TempDir()
	writeDefaultFixtures(t, dir)
	store := newMemStore()

	runMigration(t, store, dir)
	profilesAfterFirst := len(store.profiles)
	coffeesAfterFirst := len(store.coffees)
	gearAfterFirst := len(store.gear)

	runMigration(t, store, dir)

	// Profiles reconcile on email, gear on lowercased name.
	if len(store.profiles) != profilesAfterFirst {
		t.Errorf("profile rows after re-run = %d, want %d", len(store.profiles), profilesAfterFirst)
	}
	if len(store.gear) != gearAfterFirst {
		t.Errorf("gear rows after re-run = %d, want %d", len(store.gear), gearAfterFirst)
	}

	// Coffees have no natural key, so a re-run doubles them. Known gap.
	if len(store.coffees) != coffeesAfterFirst*2 {
		t.Errorf("coffee rows after re-run = %d, want %d", len(store.coffees), coffeesAfterFirst*2)
	}
}

func TestMigrateAllMissingFixtureIsFatal(t *testing.T) {
	dir := t.TempDir()
	writeDefaultFixtures(t, dir)
	store := newMemStore()

	m := NewMigrator(store, t.TempDir())
	if err := m.MigrateAll(context.Background()); err == nil {
		t.Error("MigrateAll() with no fixtures returned nil error")
	}
	if len(store.profiles) != 0 || len(store.coffees) != 0 {
		t.Error("records written despite fatal fixture error")
	}
}
