package repositories

import (
	"context"
	"time"

	"brewfeed/database/models"

	"github.com/uptrace/bun"
)

type GearRepository interface {
	Create(ctx context.Context, gear *models.Gear) error
	GetByID(ctx context.Context, id string) (*models.Gear, error)
	GetByName(ctx context.Context, name string) (*models.Gear, error)
	GetByCategory(ctx context.Context, category string) ([]*models.Gear, error)
	GetAll(ctx context.Context) ([]*models.Gear, error)
	Count(ctx context.Context) (int, error)
	Names(ctx context.Context) ([]string, error)
	Update(ctx context.Context, gear *models.Gear) error
	Delete(ctx context.Context, id string) error
}

type gearRepository struct {
	db *bun.DB
}

func NewGearRepository(db *bun.DB) GearRepository {
	return &gearRepository{db: db}
}

func (r *gearRepository) Create(ctx context.Context, gear *models.Gear) error {
	gear.CreatedAt = time.Now()
	gear.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(gear).Exec(ctx)
	return err
}

func (r *gearRepository) GetByID(ctx context.Context, id string) (*models.Gear, error) {
	gear := new(models.Gear)
	err := r.db.NewSelect().Model(gear).Where("id = ?", id).Scan(ctx)
	return gear, err
}

func (r *gearRepository) GetByName(ctx context.Context, name string) (*models.Gear, error) {
	gear := new(models.Gear)
	err := r.db.NewSelect().Model(gear).Where("LOWER(name) = LOWER(?)", name).Scan(ctx)
	return gear, err
}

func (r *gearRepository) GetByCategory(ctx context.Context, category string) ([]*models.Gear, error) {
	var gear []*models.Gear
	err := r.db.NewSelect().
		Model(&gear).
		Where("LOWER(category) = LOWER(?)", category).
		Order("name ASC").
		Scan(ctx)
	return gear, err
}

func (r *gearRepository) GetAll(ctx context.Context) ([]*models.Gear, error) {
	var gear []*models.Gear
	err := r.db.NewSelect().Model(&gear).Scan(ctx)
	return gear, err
}

func (r *gearRepository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*models.Gear)(nil)).Count(ctx)
}

// Names returns every gear name, for the near-duplicate audit.
func (r *gearRepository) Names(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.NewSelect().
		Model((*models.Gear)(nil)).
		Column("name").
		Order("name ASC").
		Scan(ctx, &names)
	return names, err
}

func (r *gearRepository) Update(ctx context.Context, gear *models.Gear) error {
	gear.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().Model(gear).WherePK().Exec(ctx)
	return err
}

func (r *gearRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().Model((*models.Gear)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
