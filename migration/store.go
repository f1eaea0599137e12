// store.go
package migration

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"brewfeed/database/models"

	"github.com/uptrace/bun"
)

// Store is the persistence boundary for the migrator. The migrator depends
// only on this upsert/select contract, never on the database behind it.
type Store interface {
	UpsertProfile(ctx context.Context, p *models.Profile) error
	UpsertCoffee(ctx context.Context, c *models.Coffee) error
	UpsertGear(ctx context.Context, g *models.Gear) error
	UpsertRecipe(ctx context.Context, r *models.Recipe) error
	UpsertSavedCoffee(ctx context.Context, s *models.SavedCoffee) error
	UpsertCoffeeEvent(ctx context.Context, e *models.CoffeeEvent) error
	UpsertFollow(ctx context.Context, f *models.Follow) error

	// Natural-key lookups for re-run reconciliation. A miss returns
	// ("", nil), not an error.
	ProfileIDByEmail(ctx context.Context, email string) (string, error)
	GearIDByName(ctx context.Context, name string) (string, error)
}

// bunStore writes through bun with per-record ON CONFLICT upserts.
type bunStore struct {
	db *bun.DB
}

func NewBunStore(db *bun.DB) Store {
	return &bunStore{db: db}
}

func (s *bunStore) UpsertProfile(ctx context.Context, p *models.Profile) error {
	now := time.Now()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	_, err := s.db.NewInsert().
		Model(p).
		On("CONFLICT (id) DO UPDATE").
		Set("email = EXCLUDED.email").
		Set("full_name = EXCLUDED.full_name").
		Set("username = EXCLUDED.username").
		Set("avatar_url = EXCLUDED.avatar_url").
		Set("location = EXCLUDED.location").
		Set("account_type = EXCLUDED.account_type").
		Set("bio = EXCLUDED.bio").
		Set("rating = EXCLUDED.rating").
		Set("review_count = EXCLUDED.review_count").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert profile %s: %w", p.ID, err)
	}
	return nil
}

func (s *bunStore) UpsertCoffee(ctx context.Context, c *models.Coffee) error {
	now := time.Now()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = now
	}
	c.UpdatedAt = now

	_, err := s.db.NewInsert().
		Model(c).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("roaster = EXCLUDED.roaster").
		Set("origin = EXCLUDED.origin").
		Set("process = EXCLUDED.process").
		Set("roast_level = EXCLUDED.roast_level").
		Set("tasting_notes = EXCLUDED.tasting_notes").
		Set("price = EXCLUDED.price").
		Set("image_url = EXCLUDED.image_url").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert coffee %s: %w", c.ID, err)
	}
	return nil
}

func (s *bunStore) UpsertGear(ctx context.Context, g *models.Gear) error {
	now := time.Now()
	if g.CreatedAt.IsZero() {
		g.CreatedAt = now
	}
	g.UpdatedAt = now

	_, err := s.db.NewInsert().
		Model(g).
		On("CONFLICT (id) DO UPDATE").
		Set("name = EXCLUDED.name").
		Set("brand = EXCLUDED.brand").
		Set("category = EXCLUDED.category").
		Set("price = EXCLUDED.price").
		Set("image_url = EXCLUDED.image_url").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert gear %s: %w", g.ID, err)
	}
	return nil
}

func (s *bunStore) UpsertRecipe(ctx context.Context, r *models.Recipe) error {
	now := time.Now()
	if r.CreatedAt.IsZero() {
		r.CreatedAt = now
	}
	r.UpdatedAt = now

	_, err := s.db.NewInsert().
		Model(r).
		On("CONFLICT (id) DO UPDATE").
		Set("author_id = EXCLUDED.author_id").
		Set("coffee_id = EXCLUDED.coffee_id").
		Set("method = EXCLUDED.method").
		Set("grind_size = EXCLUDED.grind_size").
		Set("dose_grams = EXCLUDED.dose_grams").
		Set("yield_grams = EXCLUDED.yield_grams").
		Set("temp_celsius = EXCLUDED.temp_celsius").
		Set("brew_time_seconds = EXCLUDED.brew_time_seconds").
		Set("rating = EXCLUDED.rating").
		Set("steps = EXCLUDED.steps").
		Set("notes = EXCLUDED.notes").
		Set("updated_at = EXCLUDED.updated_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert recipe %s: %w", r.ID, err)
	}
	return nil
}

func (s *bunStore) UpsertSavedCoffee(ctx context.Context, sc *models.SavedCoffee) error {
	if sc.CreatedAt.IsZero() {
		sc.CreatedAt = time.Now()
	}

	_, err := s.db.NewInsert().
		Model(sc).
		On("CONFLICT (user_id, coffee_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert saved coffee %s: %w", sc.ID, err)
	}
	return nil
}

func (s *bunStore) UpsertCoffeeEvent(ctx context.Context, e *models.CoffeeEvent) error {
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	_, err := s.db.NewInsert().
		Model(e).
		On("CONFLICT (id) DO UPDATE").
		Set("user_id = EXCLUDED.user_id").
		Set("coffee_id = EXCLUDED.coffee_id").
		Set("type = EXCLUDED.type").
		Set("rating = EXCLUDED.rating").
		Set("notes = EXCLUDED.notes").
		Set("method = EXCLUDED.method").
		Set("dose_grams = EXCLUDED.dose_grams").
		Set("yield_grams = EXCLUDED.yield_grams").
		Set("temp_celsius = EXCLUDED.temp_celsius").
		Set("brew_time_seconds = EXCLUDED.brew_time_seconds").
		Set("gear_ids = EXCLUDED.gear_ids").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert coffee event %s: %w", e.ID, err)
	}
	return nil
}

func (s *bunStore) UpsertFollow(ctx context.Context, f *models.Follow) error {
	if f.CreatedAt.IsZero() {
		f.CreatedAt = time.Now()
	}

	_, err := s.db.NewInsert().
		Model(f).
		On("CONFLICT (follower_id, followee_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upsert follow %s -> %s: %w", f.FollowerID, f.FolloweeID, err)
	}
	return nil
}

func (s *bunStore) ProfileIDByEmail(ctx context.Context, email string) (string, error) {
	var id string
	err := s.db.NewSelect().
		Model((*models.Profile)(nil)).
		Column("id").
		Where("LOWER(email) = LOWER(?)", email).
		Limit(1).
		Scan(ctx, &id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup profile by email: %w", err)
	}
	return id, nil
}

func (s *bunStore) GearIDByName(ctx context.Context, name string) (string, error) {
	var id string
	err := s.db.NewSelect().
		Model((*models.Gear)(nil)).
		Column("id").
		Where("LOWER(name) = LOWER(?)", name).
		Limit(1).
		Scan(ctx, &id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("lookup gear by name: %w", err)
	}
	return id, nil
}
