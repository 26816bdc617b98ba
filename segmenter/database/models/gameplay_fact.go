package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// GameplayFact is one row of the daily gameplay fact table: one row per
// player, game and aggregation date as delivered by the warehouse.
type GameplayFact struct {
	bun.BaseModel `bun:"table:gameplay_facts,alias:gf"`

	ID         int64           `bun:"id,pk,autoincrement"`
	PlayerID   int64           `bun:"player_id,notnull"`
	PassID     string          `bun:"pass_id,notnull"`
	Nickname   string          `bun:"nickname,notnull"`
	BrandID    int64           `bun:"brand_id,notnull"`
	SiteID     int64           `bun:"site_id,notnull"`
	CategoryID int64           `bun:"category_id,notnull"`
	GameCode   string          `bun:"game_code,notnull"`
	BetAmount  decimal.Decimal `bun:"bet_amount,notnull,type:decimal(20,4)"`
	GGRAmount  decimal.Decimal `bun:"ggr_amount,notnull,type:decimal(20,4)"`
	Provider   string          `bun:"provider,notnull"`
	PlayedAt   time.Time       `bun:"played_at,notnull"`
}
