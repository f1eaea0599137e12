package repositories

import (
	"context"
	"strings"
	"time"

	"brewfeed/database/models"

	"github.com/uptrace/bun"
)

type CoffeeRepository interface {
	Create(ctx context.Context, coffee *models.Coffee) error
	GetByID(ctx context.Context, id string) (*models.Coffee, error)
	GetAll(ctx context.Context) ([]*models.Coffee, error)
	Count(ctx context.Context) (int, error)
	Search(ctx context.Context, term string) ([]*models.Coffee, error)
	GetByRoaster(ctx context.Context, roaster string) ([]*models.Coffee, error)
	Names(ctx context.Context) ([]string, error)
	Update(ctx context.Context, coffee *models.Coffee) error
	Delete(ctx context.Context, id string) error
}

type coffeeRepository struct {
	db *bun.DB
}

func NewCoffeeRepository(db *bun.DB) CoffeeRepository {
	return &coffeeRepository{db: db}
}

func (r *coffeeRepository) Create(ctx context.Context, coffee *models.Coffee) error {
	coffee.CreatedAt = time.Now()
	coffee.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(coffee).Exec(ctx)
	return err
}

func (r *coffeeRepository) GetByID(ctx context.Context, id string) (*models.Coffee, error) {
	coffee := new(models.Coffee)
	err := r.db.NewSelect().Model(coffee).Where("id = ?", id).Scan(ctx)
	return coffee, err
}

func (r *coffeeRepository) GetAll(ctx context.Context) ([]*models.Coffee, error) {
	var coffees []*models.Coffee
	err := r.db.NewSelect().Model(&coffees).Scan(ctx)
	return coffees, err
}

func (r *coffeeRepository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*models.Coffee)(nil)).Count(ctx)
}

func (r *coffeeRepository) Search(ctx context.Context, term string) ([]*models.Coffee, error) {
	var coffees []*models.Coffee
	pattern := "%" + strings.TrimSpace(term) + "%"
	err := r.db.NewSelect().
		Model(&coffees).
		Where("name ILIKE ? OR roaster ILIKE ? OR origin ILIKE ?", pattern, pattern, pattern).
		Order("name ASC").
		Scan(ctx)
	return coffees, err
}

func (r *coffeeRepository) GetByRoaster(ctx context.Context, roaster string) ([]*models.Coffee, error) {
	var coffees []*models.Coffee
	err := r.db.NewSelect().
		Model(&coffees).
		Where("LOWER(roaster) = LOWER(?)", roaster).
		Scan(ctx)
	return coffees, err
}

// Names returns every coffee name, for the near-duplicate audit.
func (r *coffeeRepository) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.NewSelect().
		Model((*models.Coffee)(nil)).
		Column("name").
		Order("name ASC").
		Scan(ctx, &names)
	return names, err
}

func (r *coffeeRepository) Update(ctx context.Context, coffee *models.Coffee) error {
	coffee.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().Model(coffee).WherePK().Exec(ctx)
	return err
}

func (r *coffeeRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().Model((*models.Coffee)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
