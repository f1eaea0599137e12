package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Coffee struct {
	bun.BaseModel `bun:"table:coffees,alias:c"`

	ID           string    `bun:"id,pk"`
	Name         string    `bun:"name,notnull"`
	Roaster      string    `bun:"roaster"`
	Origin       string    `bun:"origin"`
	Process      string    `bun:"process"`
	RoastLevel   string    `bun:"roast_level,notnull,default:'medium'"`
	TastingNotes []string  `bun:"tasting_notes,type:jsonb"`
	Price        float64   `bun:"price"`
	ImageURL     string    `bun:"image_url"`
	CreatedAt    time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt    time.Time `bun:"updated_at,notnull"`
}
