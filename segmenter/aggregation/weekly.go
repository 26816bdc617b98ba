package aggregation

import (
	"sort"
	"strings"
	"time"

	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
	"github.com/shopspring/decimal"
)

// WeeklyInputs bundles the resolved derived sets consumed by the weekly
// aggregator. Eligible and Nicknames are hard inner filters; RTPByGame,
// TopCategory and Profiles are left-attachments with default/null fallback.
type WeeklyInputs struct {
	Eligible    map[int64]struct{}
	Nicknames   map[string]struct{}
	RTPByGame   map[string]float64
	TopCategory map[int64]int64
	Profiles    map[int64]Profile
	DefaultRTP  float64
}

type groupKey struct {
	week        string
	passID      string
	nickname    string
	siteID      int64
	brandID     int64
	category    int64
	hasCategory bool
}

type groupAgg struct {
	bet  decimal.Decimal
	ggr  decimal.Decimal
	theo decimal.Decimal
	days map[string]struct{}
}

// BuildWeeklyKPI runs the main aggregation pass over the recent-window
// gameplay facts. Facts from ineligible players or shared nicknames are
// dropped; theoretical win is computed per row as bet * (1 - rtp) before
// summation so that rows with different games keep their own RTP. Groups
// with zero bet or zero distinct active days are discarded.
func BuildWeeklyKPI(facts []models.GameplayFact, in WeeklyInputs) []*models.WeeklyKPI {
	groups := make(map[groupKey]*groupAgg)

	for _, f := range facts {
		if _, ok := in.Eligible[f.PlayerID]; !ok {
			continue
		}
		if _, ok := in.Nicknames[f.Nickname]; !ok {
			continue
		}

		rtp, ok := in.RTPByGame[f.GameCode]
		if !ok {
			rtp = in.DefaultRTP
		}

		// Output identity comes from the latest profile when one resolved;
		// the raw row values are the fallback.
		nickname, siteID, brandID := f.Nickname, f.SiteID, f.BrandID
		if p, ok := in.Profiles[f.PlayerID]; ok {
			nickname, siteID, brandID = p.Nickname, p.SiteID, p.BrandID
		}

		category, hasCategory := in.TopCategory[f.PlayerID]

		k := groupKey{
			week:        WeekStart(f.PlayedAt).Format("2006-01-02"),
			passID:      f.PassID,
			nickname:    nickname,
			siteID:      siteID,
			brandID:     brandID,
			category:    category,
			hasCategory: hasCategory,
		}

		g, ok := groups[k]
		if !ok {
			g = &groupAgg{days: make(map[string]struct{})}
			groups[k] = g
		}

		g.bet = g.bet.Add(f.BetAmount)
		g.ggr = g.ggr.Add(f.GGRAmount)
		g.theo = g.theo.Add(f.BetAmount.Mul(decimal.NewFromFloat(1 - rtp)))
		g.days[f.PlayedAt.UTC().Format("2006-01-02")] = struct{}{}
	}

	rows := make([]*models.WeeklyKPI, 0, len(groups))
	for k, g := range groups {
		if !g.bet.IsPositive() || len(g.days) == 0 {
			continue
		}

		week, _ := time.Parse("2006-01-02", k.week)
		row := &models.WeeklyKPI{
			Week:       week,
			PassID:     k.passID,
			CID:        NormalizePassID(k.passID),
			Nickname:   k.nickname,
			BrandID:    k.brandID,
			SiteID:     k.siteID,
			Bet:        g.bet,
			GGR:        g.ggr,
			TheoWin:    g.theo,
			DaysPlayed: len(g.days),
		}
		if k.hasCategory {
			category := k.category
			row.TopCategory = &category
		}
		rows = append(rows, row)
	}

	// Output ordering is unspecified downstream; sorting keeps exports and
	// tests stable.
	sort.Slice(rows, func(i, j int) bool {
		if !rows[i].Week.Equal(rows[j].Week) {
			return rows[i].Week.Before(rows[j].Week)
		}
		if rows[i].PassID != rows[j].PassID {
			return rows[i].PassID < rows[j].PassID
		}
		return rows[i].SiteID < rows[j].SiteID
	})

	return rows
}

// WeekStart truncates a timestamp to the Monday of its calendar week, UTC.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// NormalizePassID strips separator characters from a pass id, producing the
// compact customer identifier carried alongside it.
func NormalizePassID(passID string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '_', '.', ' ':
			return -1
		}
		return r
	}, passID)
}
