package models

import (
	"time"

	"github.com/uptrace/bun"
)

type EventType string

const (
	EventTypeCoffeeLog          EventType = "coffee_log"
	EventTypeGearAdded          EventType = "gear_added"
	EventTypeCoffeeAnnouncement EventType = "coffee_announcement"
)

// CoffeeEvent is a timeline record, a tagged union over event kinds.
// CoffeeID is empty for kinds that do not reference a coffee.
type CoffeeEvent struct {
	bun.BaseModel `bun:"table:coffee_events,alias:ce"`

	ID              string    `bun:"id,pk"`
	UserID          string    `bun:"user_id,notnull"`
	CoffeeID        string    `bun:"coffee_id"`
	Type            EventType `bun:"type,notnull"`
	Rating          float64   `bun:"rating"`
	Notes           string    `bun:"notes"`
	Method          string    `bun:"method"`
	DoseGrams       float64   `bun:"dose_grams"`
	YieldGrams      float64   `bun:"yield_grams"`
	TempCelsius     float64   `bun:"temp_celsius"`
	BrewTimeSeconds int       `bun:"brew_time_seconds"`
	GearIDs         []string  `bun:"gear_ids,type:jsonb"`
	CreatedAt       time.Time `bun:"created_at,notnull,default:current_timestamp"`

	// Relations
	User *Profile `bun:"rel:belongs-to,join:user_id=id"`
}
