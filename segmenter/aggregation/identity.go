package aggregation

import (
	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
	"github.com/shopspring/decimal"
)

// SingleIdentityNicknames returns the nicknames that map to exactly one
// distinct player id across the given facts. Nicknames seen under more than
// one player id indicate aliasing or data-quality issues; their rows are
// excluded from the aggregate outright rather than merged.
func SingleIdentityNicknames(facts []models.GameplayFact) map[string]struct{} {
	owner := make(map[string]int64)
	shared := make(map[string]bool)
	for _, f := range facts {
		prev, seen := owner[f.Nickname]
		if !seen {
			owner[f.Nickname] = f.PlayerID
			continue
		}
		if prev != f.PlayerID {
			shared[f.Nickname] = true
		}
	}

	single := make(map[string]struct{}, len(owner))
	for nickname := range owner {
		if !shared[nickname] {
			single[nickname] = struct{}{}
		}
	}
	return single
}

// DominantCategories computes, per player, the wagering category with the
// highest cumulative bet across the given facts. Players with no rows are
// absent from the result. Exact ties between categories resolve arbitrarily.
func DominantCategories(facts []models.GameplayFact) map[int64]int64 {
	type playerCategory struct {
		playerID   int64
		categoryID int64
	}

	totals := make(map[playerCategory]decimal.Decimal)
	for _, f := range facts {
		k := playerCategory{playerID: f.PlayerID, categoryID: f.CategoryID}
		totals[k] = totals[k].Add(f.BetAmount)
	}

	type categoryTotal struct {
		playerID   int64
		categoryID int64
		bet        decimal.Decimal
	}
	flat := make([]categoryTotal, 0, len(totals))
	for k, bet := range totals {
		flat = append(flat, categoryTotal{playerID: k.playerID, categoryID: k.categoryID, bet: bet})
	}

	top := TopPerKey(flat,
		func(t categoryTotal) int64 { return t.playerID },
		func(a, b categoryTotal) bool { return a.bet.GreaterThan(b.bet) })

	dominant := make(map[int64]int64, len(top))
	for playerID, t := range top {
		dominant[playerID] = t.categoryID
	}
	return dominant
}
