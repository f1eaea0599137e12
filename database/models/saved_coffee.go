package models

import (
	"time"

	"github.com/uptrace/bun"
)

type SavedCoffee struct {
	bun.BaseModel `bun:"table:saved_coffees,alias:sc"`

	ID        string    `bun:"id,pk"`
	UserID    string    `bun:"user_id,notnull"`
	CoffeeID  string    `bun:"coffee_id,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`

	// Relations
	User   *Profile `bun:"rel:belongs-to,join:user_id=id"`
	Coffee *Coffee  `bun:"rel:belongs-to,join:coffee_id=id"`
}
