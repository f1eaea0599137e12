package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Recipe struct {
	bun.BaseModel `bun:"table:recipes,alias:r"`

	ID              string    `bun:"id,pk"`
	AuthorID        string    `bun:"author_id,notnull"`
	CoffeeID        string    `bun:"coffee_id,notnull"`
	Method          string    `bun:"method,notnull"`
	GrindSize       string    `bun:"grind_size"`
	DoseGrams       float64   `bun:"dose_grams"`
	YieldGrams      float64   `bun:"yield_grams"`
	TempCelsius     float64   `bun:"temp_celsius"`
	BrewTimeSeconds int       `bun:"brew_time_seconds"`
	Rating          float64   `bun:"rating"`
	Steps           []string  `bun:"steps,type:jsonb"`
	Notes           string    `bun:"notes"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt       time.Time `bun:"updated_at,notnull"`

	// Relations
	Author *Profile `bun:"rel:belongs-to,join:author_id=id"`
	Coffee *Coffee  `bun:"rel:belongs-to,join:coffee_id=id"`
}
