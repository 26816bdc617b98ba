package models

import (
	"github.com/uptrace/bun"
)

// AccountFlags holds the exclusion and promotion switches for a player.
type AccountFlags struct {
	bun.BaseModel `bun:"table:account_flags,alias:af"`

	ID               int64 `bun:"id,pk,autoincrement"`
	PlayerID         int64 `bun:"player_id,notnull"`
	SelfExcluded     bool  `bun:"self_excluded,notnull,default:false"`
	PromotionEnabled bool  `bun:"promotion_enabled,notnull,default:true"`
}

// AccountStatus holds the account lifecycle status string. Anything other
// than StatusActive disqualifies the player.
type AccountStatus struct {
	bun.BaseModel `bun:"table:account_statuses,alias:as"`

	ID       int64  `bun:"id,pk,autoincrement"`
	PlayerID int64  `bun:"player_id,notnull"`
	Status   string `bun:"status,notnull"`
}

// StatusActive is the only account status eligible for campaigns.
const StatusActive = "ACTIVE"

// Wallet is keyed by account id, not player id; a player qualifies when at
// least one wallet on their account is active.
type Wallet struct {
	bun.BaseModel `bun:"table:wallets,alias:w"`

	ID        int64 `bun:"id,pk,autoincrement"`
	AccountID int64 `bun:"account_id,notnull"`
	Active    bool  `bun:"active,notnull,default:false"`
}
