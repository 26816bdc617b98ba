package aggregation

import (
	"time"

	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
)

// Profile is the most recent site/brand/nickname association observed for a
// player within the aggregation window.
type Profile struct {
	Nickname string
	SiteID   int64
	BrandID  int64
	PlayedAt time.Time
}

// LatestRTPs resolves one RTP per game code: the most recently updated row
// wins. Ties on the update timestamp resolve arbitrarily (see TopPerKey).
func LatestRTPs(stats []models.GameStatsDaily) map[string]float64 {
	top := TopPerKey(stats,
		func(s models.GameStatsDaily) string { return s.GameCode },
		func(a, b models.GameStatsDaily) bool { return a.UpdatedAt.After(b.UpdatedAt) })

	rtps := make(map[string]float64, len(top))
	for code, s := range top {
		rtps[code] = s.RTP
	}
	return rtps
}

// LatestProfiles resolves the most recent profile per player from the
// gameplay facts. Ties on the activity timestamp resolve arbitrarily.
func LatestProfiles(facts []models.GameplayFact) map[int64]Profile {
	top := TopPerKey(facts,
		func(f models.GameplayFact) int64 { return f.PlayerID },
		func(a, b models.GameplayFact) bool { return a.PlayedAt.After(b.PlayedAt) })

	profiles := make(map[int64]Profile, len(top))
	for id, f := range top {
		profiles[id] = Profile{
			Nickname: f.Nickname,
			SiteID:   f.SiteID,
			BrandID:  f.BrandID,
			PlayedAt: f.PlayedAt,
		}
	}
	return profiles
}
