package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Gear is de-duplicated by lowercased name during migration.
type Gear struct {
	bun.BaseModel `bun:"table:gear,alias:g"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name,notnull"`
	Brand     string    `bun:"brand"`
	Category  string    `bun:"category"`
	Price     float64   `bun:"price"`
	ImageURL  string    `bun:"image_url"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
