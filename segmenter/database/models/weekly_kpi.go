package models

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// WeeklyKPI is the derived output table of the aggregation run.
//
// Grain: (week, pass_id, nickname, site_id, brand_id, top_category).
// Amounts are weekly sums; TheoWin is summed from per-row bet*(1-rtp), never
// recomputed from the summed bet. Rows with zero bet or zero active days are
// never stored.
//
// NOTE: derived data; rebuilt in full from the warehouse on every run.
type WeeklyKPI struct {
	bun.BaseModel `bun:"table:weekly_user_kpi,alias:wk"`

	ID          int64           `bun:"id,pk,autoincrement"`
	RunID       string          `bun:"run_id,notnull"`
	Week        time.Time       `bun:"week,notnull"`
	PassID      string          `bun:"pass_id,notnull"`
	CID         string          `bun:"cid,notnull"`
	Nickname    string          `bun:"nickname,notnull"`
	BrandID     int64           `bun:"brand_id,notnull"`
	SiteID      int64           `bun:"site_id,notnull"`
	TopCategory *int64          `bun:"top_category"`
	Bet         decimal.Decimal `bun:"bet,notnull,type:decimal(20,4)"`
	GGR         decimal.Decimal `bun:"ggr,notnull,type:decimal(20,4)"`
	TheoWin     decimal.Decimal `bun:"theo_win,notnull,type:decimal(20,4)"`
	DaysPlayed  int             `bun:"days_played,notnull"`
	CreatedAt   time.Time       `bun:"created_at,notnull,default:current_timestamp"`
}
