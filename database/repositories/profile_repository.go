package repositories

import (
	"context"
	"time"

	"brewfeed/database/models"

	"github.com/uptrace/bun"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *models.Profile) error
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	GetByEmail(ctx context.Context, email string) (*models.Profile, error)
	GetByAccountType(ctx context.Context, accountType models.AccountType) ([]*models.Profile, error)
	GetAll(ctx context.Context) ([]*models.Profile, error)
	Count(ctx context.Context) (int, error)
	Update(ctx context.Context, profile *models.Profile) error
	Delete(ctx context.Context, id string) error
}

type profileRepository struct {
	db *bun.DB
}

func NewProfileRepository(db *bun.DB) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *models.Profile) error {
	profile.CreatedAt = time.Now()
	profile.UpdatedAt = time.Now()
	_, err := r.db.NewInsert().Model(profile).Exec(ctx)
	return err
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*models.Profile, error) {
	profile := new(models.Profile)
	err := r.db.NewSelect().Model(profile).Where("id = ?", id).Scan(ctx)
	return profile, err
}

func (r *profileRepository) GetByEmail(ctx context.Context, email string) (*models.Profile, error) {
	profile := new(models.Profile)
	err := r.db.NewSelect().Model(profile).Where("LOWER(email) = LOWER(?)", email).Scan(ctx)
	return profile, err
}

func (r *profileRepository) GetByAccountType(ctx context.Context, accountType models.AccountType) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := r.db.NewSelect().
		Model(&profiles).
		Where("account_type = ?", accountType).
		Order("full_name ASC").
		Scan(ctx)
	return profiles, err
}

func (r *profileRepository) GetAll(ctx context.Context) ([]*models.Profile, error) {
	var profiles []*models.Profile
	err := r.db.NewSelect().Model(&profiles).Scan(ctx)
	return profiles, err
}

func (r *profileRepository) Count(ctx context.Context) (int, error) {
	return r.db.NewSelect().Model((*models.Profile)(nil)).Count(ctx)
}

func (r *profileRepository) Update(ctx context.Context, profile *models.Profile) error {
	profile.UpdatedAt = time.Now()
	_, err := r.db.NewUpdate().Model(profile).WherePK().Exec(ctx)
	return err
}

func (r *profileRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.NewDelete().Model((*models.Profile)(nil)).Where("id = ?", id).Exec(ctx)
	return err
}
