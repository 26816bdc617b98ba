package models

import (
	"github.com/uptrace/bun"
)

// ResponsibleGamingLimit carries per-player limit flags. Any true flag
// disqualifies the player from marketing campaigns.
type ResponsibleGamingLimit struct {
	bun.BaseModel `bun:"table:responsible_gaming_limits,alias:rg"`

	ID              int64 `bun:"id,pk,autoincrement"`
	PlayerID        int64 `bun:"player_id,notnull"`
	CasinoLimit     bool  `bun:"casino_limit,notnull,default:false"`
	SlotLimit       bool  `bun:"slot_limit,notnull,default:false"`
	LiveDealerLimit bool  `bun:"live_dealer_limit,notnull,default:false"`
}
