package models

import (
	"github.com/uptrace/bun"
)

// Player is the canonical player registry record. GPID is unique across the
// whole network; AccountID links the player to their wallet accounts.
type Player struct {
	bun.BaseModel `bun:"table:players,alias:p"`

	ID        int64  `bun:"id,pk,autoincrement"`
	GPID      string `bun:"gpid,notnull,unique"`
	AccountID int64  `bun:"account_id,notnull"`
}
