package models

import (
	"time"

	"github.com/uptrace/bun"
)

// AccountType is decided once at ingestion and never re-derived from
// name or ID heuristics downstream.
type AccountType string

const (
	AccountTypePersonal AccountType = "personal"
	AccountTypeBusiness AccountType = "business"
	AccountTypeRoaster  AccountType = "roaster"
)

type Profile struct {
	bun.BaseModel `bun:"table:profiles,alias:p"`

	ID          string      `bun:"id,pk"`
	Email       string      `bun:"email,notnull,unique"`
	FullName    string      `bun:"full_name,notnull"`
	Username    string      `bun:"username,notnull"`
	AvatarURL   string      `bun:"avatar_url"`
	Location    string      `bun:"location"`
	AccountType AccountType `bun:"account_type,notnull,default:'personal'"`
	Bio         string      `bun:"bio"`
	Rating      float64     `bun:"rating,notnull,default:0"`
	ReviewCount int         `bun:"review_count,notnull,default:0"`
	CreatedAt   time.Time   `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt   time.Time   `bun:"updated_at,notnull"`

	// Relations
	Recipes []*Recipe `bun:"rel:has-many,join:id=author_id"`
}
