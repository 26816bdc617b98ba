package aggregation

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
)

func eligibleSet(ids ...int64) map[int64]struct{} {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func nicknameSet(names ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

func inDelta(t *testing.T, want float64, d decimal.Decimal) {
	t.Helper()
	got, _ := d.Float64()
	assert.InDelta(t, want, got, 1e-9)
}

func TestBuildWeeklyKPITheoWin(t *testing.T) {
	day := time.Date(2025, 12, 3, 12, 0, 0, 0, time.UTC)

	known := fact(1, "alice", 10, 100, day)
	known.GameCode = "JDB-001"

	unknown := fact(2, "bob", 10, 100, day)
	unknown.PassID = "pass-2"
	unknown.GameCode = "JDB-UNKNOWN"

	rows := BuildWeeklyKPI([]models.GameplayFact{known, unknown}, WeeklyInputs{
		Eligible:   eligibleSet(1, 2),
		Nicknames:  nicknameSet("alice", "bob"),
		RTPByGame:  map[string]float64{"JDB-001": 0.95},
		DefaultRTP: 0.96,
	})

	require.Len(t, rows, 2)

	byNick := make(map[string]*models.WeeklyKPI)
	for _, r := range rows {
		byNick[r.Nickname] = r
	}

	// 100 * (1 - 0.95) with the game's own RTP.
	inDelta(t, 5, byNick["alice"].TheoWin)
	// 100 * (1 - 0.96) with the default RTP fallback.
	inDelta(t, 4, byNick["bob"].TheoWin)
}

func TestBuildWeeklyKPIGrouping(t *testing.T) {
	monday := time.Date(2025, 12, 1, 10, 0, 0, 0, time.UTC)
	wednesday := time.Date(2025, 12, 3, 22, 0, 0, 0, time.UTC)

	f1 := fact(1, "alice", 10, 50, monday)
	f1.GGRAmount = decimal.NewFromInt(10)
	f2 := fact(1, "alice", 10, 150, wednesday)
	f2.GGRAmount = decimal.NewFromInt(-5)

	rows := BuildWeeklyKPI([]models.GameplayFact{f1, f2}, WeeklyInputs{
		Eligible:   eligibleSet(1),
		Nicknames:  nicknameSet("alice"),
		RTPByGame:  map[string]float64{"JDB-001": 0.97},
		DefaultRTP: 0.96,
	})

	require.Len(t, rows, 1)
	row := rows[0]

	assert.Equal(t, "2025-12-01", row.Week.Format("2006-01-02"))
	inDelta(t, 200, row.Bet)
	inDelta(t, 5, row.GGR)
	inDelta(t, 6, row.TheoWin)
	assert.Equal(t, 2, row.DaysPlayed)
}

func TestBuildWeeklyKPISameDayCountsOnce(t *testing.T) {
	morning := time.Date(2025, 12, 3, 8, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 12, 3, 20, 0, 0, 0, time.UTC)

	rows := BuildWeeklyKPI([]models.GameplayFact{
		fact(1, "alice", 10, 10, morning),
		fact(1, "alice", 10, 10, evening),
	}, WeeklyInputs{
		Eligible:   eligibleSet(1),
		Nicknames:  nicknameSet("alice"),
		DefaultRTP: 0.96,
	})

	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].DaysPlayed)
}

func TestBuildWeeklyKPIFilters(t *testing.T) {
	day := time.Date(2025, 12, 3, 12, 0, 0, 0, time.UTC)

	ineligible := fact(2, "bob", 10, 100, day)
	sharedNick := fact(3, "shared", 10, 100, day)
	zeroBet := fact(1, "alice", 10, 0, day)

	rows := BuildWeeklyKPI([]models.GameplayFact{ineligible, sharedNick, zeroBet}, WeeklyInputs{
		Eligible:   eligibleSet(1, 3),
		Nicknames:  nicknameSet("alice", "bob"),
		DefaultRTP: 0.96,
	})

	// Ineligible player, shared nickname and zero-bet groups all drop out.
	assert.Empty(t, rows)
}

func TestBuildWeeklyKPIProfileResolution(t *testing.T) {
	day := time.Date(2025, 12, 3, 12, 0, 0, 0, time.UTC)

	f := fact(1, "old-nick", 10, 100, day)

	rows := BuildWeeklyKPI([]models.GameplayFact{f}, WeeklyInputs{
		Eligible:  eligibleSet(1),
		Nicknames: nicknameSet("old-nick"),
		Profiles: map[int64]Profile{
			1: {Nickname: "new-nick", SiteID: 33, BrandID: 2},
		},
		TopCategory: map[int64]int64{1: 20},
		DefaultRTP:  0.96,
	})

	require.Len(t, rows, 1)
	row := rows[0]
	assert.Equal(t, "new-nick", row.Nickname)
	assert.Equal(t, int64(33), row.SiteID)
	assert.Equal(t, int64(2), row.BrandID)
	require.NotNil(t, row.TopCategory)
	assert.Equal(t, int64(20), *row.TopCategory)
}

func TestBuildWeeklyKPINoCategory(t *testing.T) {
	day := time.Date(2025, 12, 3, 12, 0, 0, 0, time.UTC)

	rows := BuildWeeklyKPI([]models.GameplayFact{fact(1, "alice", 10, 100, day)}, WeeklyInputs{
		Eligible:   eligibleSet(1),
		Nicknames:  nicknameSet("alice"),
		DefaultRTP: 0.96,
	})

	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].TopCategory)
}

func TestWeekStart(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{"monday stays", time.Date(2025, 12, 1, 15, 30, 0, 0, time.UTC), "2025-12-01"},
		{"wednesday truncates", time.Date(2025, 12, 3, 0, 0, 1, 0, time.UTC), "2025-12-01"},
		{"sunday truncates", time.Date(2025, 12, 7, 23, 59, 59, 0, time.UTC), "2025-12-01"},
		{"year boundary", time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC), "2025-12-29"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, WeekStart(tt.in).Format("2006-01-02"))
		})
	}
}

func TestNormalizePassID(t *testing.T) {
	assert.Equal(t, "abc123", NormalizePassID("abc-123"))
	assert.Equal(t, "abc123", NormalizePassID("a b_c.1-23"))
	assert.Equal(t, "plain", NormalizePassID("plain"))
	assert.Equal(t, "", NormalizePassID(""))
}
