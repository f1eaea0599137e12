package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Follow is asymmetric; self-follows are rejected at migration time.
type Follow struct {
	bun.BaseModel `bun:"table:follows,alias:f"`

	FollowerID string    `bun:"follower_id,pk"`
	FolloweeID string    `bun:"followee_id,pk"`
	CreatedAt  time.Time `bun:"created_at,notnull,default:current_timestamp"`
}
