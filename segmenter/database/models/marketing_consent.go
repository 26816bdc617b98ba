package models

import (
	"time"

	"github.com/uptrace/bun"
)

// MarketingConsent records an opt-in (or opt-out) per player, channel and
// product. A player may have any number of consent rows, including none.
type MarketingConsent struct {
	bun.BaseModel `bun:"table:marketing_consents,alias:mc"`

	ID          int64     `bun:"id,pk,autoincrement"`
	PlayerID    int64     `bun:"player_id,notnull"`
	ChannelType string    `bun:"channel_type,notnull"`
	ProductType string    `bun:"product_type,notnull"`
	Consented   bool      `bun:"consented,notnull,default:false"`
	UpdatedAt   time.Time `bun:"updated_at,notnull,default:current_timestamp"`
}
