package models

import (
	"time"

	"github.com/uptrace/bun"
)

type Notification struct {
	bun.BaseModel `bun:"table:notifications,alias:n"`

	ID        string         `bun:"id,pk"`
	UserID    string         `bun:"user_id,notnull"`
	Type      string         `bun:"type,notnull"`
	Payload   map[string]any `bun:"payload,type:jsonb"`
	Read      bool           `bun:"read,notnull,default:false"`
	CreatedAt time.Time      `bun:"created_at,notnull,default:current_timestamp"`
}
