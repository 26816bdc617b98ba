package clustering

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
)

func kpiRow(passID string, theoWin float64, days int) *models.WeeklyKPI {
	return &models.WeeklyKPI{
		Week:       time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC),
		PassID:     passID,
		CID:        passID,
		Nickname:   passID,
		BrandID:    1,
		SiteID:     27,
		Bet:        decimal.NewFromInt(1000),
		GGR:        decimal.NewFromInt(100),
		TheoWin:    decimal.NewFromFloat(theoWin),
		DaysPlayed: days,
	}
}

func TestFromKPIRows(t *testing.T) {
	rows := []*models.WeeklyKPI{
		kpiRow("p1", 50, 5),
		kpiRow("p2", 30, 0),
	}

	obs := FromKPIRows(rows)

	require.Len(t, obs, 2)
	assert.InDelta(t, 10, obs[0].ADT, 1e-9)
	// Zero active days must not divide; ADT stays zero.
	assert.Zero(t, obs[1].ADT)
}

func TestSegmentMinTheoWinCutoff(t *testing.T) {
	obs := FromKPIRows([]*models.WeeklyKPI{
		kpiRow("small", 2, 1),
		kpiRow("big-a", 100, 5),
		kpiRow("big-b", 120, 4),
		kpiRow("big-c", 90, 6),
	})

	users, _ := Segment(obs, Config{MinAvgTheoWin: 10, MaxClusters: 3, Seed: 100})

	for _, u := range users {
		assert.NotEqual(t, "small", u.PassID)
		assert.GreaterOrEqual(t, u.AvgWeeklyTheoWin, 10.0)
	}
	assert.Len(t, users, 3)
}

func TestSegmentAveragesAcrossWeeks(t *testing.T) {
	obs := FromKPIRows([]*models.WeeklyKPI{
		kpiRow("p1", 40, 2),
		kpiRow("p1", 60, 4),
		kpiRow("p2", 100, 5),
	})

	users, _ := Segment(obs, Config{MinAvgTheoWin: 10, MaxClusters: 2, Seed: 100})
	require.Len(t, users, 2)

	byPass := make(map[string]SegmentedUser)
	for _, u := range users {
		byPass[u.PassID] = u
	}

	p1 := byPass["p1"]
	assert.InDelta(t, 50, p1.AvgWeeklyTheoWin, 1e-9)
	assert.InDelta(t, 3, p1.AvgWeeklyDaysPlayed, 1e-9)
	assert.InDelta(t, 100, p1.OverallTheoWin, 1e-9)
	assert.InDelta(t, 6, p1.OverallDaysPlayed, 1e-9)
	assert.InDelta(t, 100.0/6.0, p1.OverallADT, 1e-9)
}

func TestSegmentClustersOrderedByValue(t *testing.T) {
	rows := make([]*models.WeeklyKPI, 0)
	// Low-value group around 15, high-value group around 500.
	for i, theo := range []float64{14, 15, 16, 15.5} {
		rows = append(rows, kpiRow("low-"+string(rune('a'+i)), theo, 2))
	}
	for i, theo := range []float64{480, 500, 520, 510} {
		rows = append(rows, kpiRow("high-"+string(rune('a'+i)), theo, 6))
	}

	users, summaries := Segment(FromKPIRows(rows), Config{MinAvgTheoWin: 10, MaxClusters: 4, Seed: 100})
	require.NotEmpty(t, users)
	require.NotEmpty(t, summaries)

	byPass := make(map[string]SegmentedUser)
	for _, u := range users {
		byPass[u.PassID] = u
	}

	// Cluster numbers ascend with value: every low user sits in a cluster
	// numbered at or below every high user's.
	assert.Less(t, byPass["low-a"].Cluster, byPass["high-a"].Cluster)
	assert.Equal(t, 1, byPass["low-a"].Cluster)

	// Summaries come back ordered and numbered from 1.
	for i, s := range summaries {
		assert.Equal(t, i+1, s.Cluster)
		assert.Positive(t, s.UserCount)
	}
}

func TestSegmentCashBonusRounding(t *testing.T) {
	// 10% of mean, rounded up to the next multiple of 10.
	assert.Equal(t, int64(10), cashBonusAmount(15))
	assert.Equal(t, int64(10), cashBonusAmount(100))
	assert.Equal(t, int64(20), cashBonusAmount(101))
	assert.Equal(t, int64(50), cashBonusAmount(500))
	assert.Equal(t, int64(0), cashBonusAmount(0))
}

func TestSegmentEmptyAfterCutoff(t *testing.T) {
	obs := FromKPIRows([]*models.WeeklyKPI{kpiRow("small", 1, 1)})
	users, summaries := Segment(obs, Config{MinAvgTheoWin: 10, MaxClusters: 5, Seed: 100})
	assert.Nil(t, users)
	assert.Nil(t, summaries)
}

func TestSummarize(t *testing.T) {
	users := []SegmentedUser{
		{PassID: "a", Cluster: 1, CBAmount: 10, AvgWeeklyTheoWin: 10, AvgWeeklyDaysPlayed: 2},
		{PassID: "b", Cluster: 1, CBAmount: 10, AvgWeeklyTheoWin: 20, AvgWeeklyDaysPlayed: 4},
		{PassID: "c", Cluster: 2, CBAmount: 60, AvgWeeklyTheoWin: 500, AvgWeeklyDaysPlayed: 6},
	}

	summaries := summarize(users)
	require.Len(t, summaries, 2)

	first := summaries[0]
	assert.Equal(t, 1, first.Cluster)
	assert.Equal(t, 2, first.UserCount)
	assert.InDelta(t, 15, first.TheoWinMean, 1e-9)
	assert.InDelta(t, 15, first.TheoWinMedian, 1e-9)
	assert.InDelta(t, 10, first.TheoWinMin, 1e-9)
	assert.InDelta(t, 20, first.TheoWinMax, 1e-9)
	assert.InDelta(t, 3, first.DaysMean, 1e-9)
	assert.Equal(t, int64(10), first.CBAmount)
}
