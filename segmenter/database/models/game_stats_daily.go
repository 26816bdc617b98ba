package models

import (
	"time"

	"github.com/uptrace/bun"
)

// GameStatsDaily is a periodic snapshot of per-game reference data. The
// theoretical RTP for a game is taken from the most recently updated row.
type GameStatsDaily struct {
	bun.BaseModel `bun:"table:game_stats_daily,alias:gs"`

	ID        int64     `bun:"id,pk,autoincrement"`
	GameCode  string    `bun:"game_code,notnull"`
	RTP       float64   `bun:"rtp,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}
