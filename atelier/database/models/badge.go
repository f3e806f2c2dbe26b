package models

import (
	"time"

	"github.com/uptrace/bun"
)

// Badge is static catalog data seeded at schema initialization; bot logic
// never creates or destroys entries.
type Badge struct {
	bun.BaseModel `bun:"table:badges,alias:b"`

	ID          int64  `bun:"id,pk,autoincrement"`
	Name        string `bun:"name,notnull,unique"`
	Description string `bun:"description,notnull"`
	Emote       string `bun:"emote,notnull"`
}

// UserBadge joins a user to a badge with an accumulating count. At most one
// row exists per (user, badge) pair; rows never persist with count zero.
type UserBadge struct {
	bun.BaseModel `bun:"table:user_badges,alias:ub"`

	ID        int64     `bun:"id,pk,autoincrement"`
	UserID    int64     `bun:"user_id,notnull"`
	BadgeID   int64     `bun:"badge_id,notnull"`
	Count     int       `bun:"count,notnull,default:1"`
	CreatedAt time.Time `bun:"created_at,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`

	User  *User  `bun:"rel:belongs-to,join:user_id=id"`
	Badge *Badge `bun:"rel:belongs-to,join:badge_id=id"`
}
