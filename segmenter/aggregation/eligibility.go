package aggregation

import (
	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
)

// EligibilityInput carries the collaborator tables consulted by the
// eligibility filter. Consents are expected pre-filtered to the campaign's
// channel/product by the repository; the remaining tables are full
// projections because their checks are non-existence checks.
type EligibilityInput struct {
	Consents []models.MarketingConsent
	Limits   []models.ResponsibleGamingLimit
	Flags    []models.AccountFlags
	Statuses []models.AccountStatus
	Wallets  []models.Wallet
}

// QualifiesConsent reports whether a single consent row opts the player into
// the campaign's channel and product.
func QualifiesConsent(c models.MarketingConsent, channel, product string) bool {
	return c.Consented && c.ChannelType == channel && c.ProductType == product
}

// LimitsPlay reports whether a responsible-gaming row carries any limit flag
// that disqualifies the player.
func LimitsPlay(l models.ResponsibleGamingLimit) bool {
	return l.CasinoLimit || l.SlotLimit || l.LiveDealerLimit
}

// BlocksPromotion reports whether an account-flags row disqualifies the
// player from receiving promotions.
func BlocksPromotion(f models.AccountFlags) bool {
	return f.SelfExcluded || !f.PromotionEnabled
}

// InactiveStatus reports whether a status row disqualifies the player.
func InactiveStatus(s models.AccountStatus) bool {
	return s.Status != models.StatusActive
}

// EligiblePlayers returns the distinct set of player ids passing every
// eligibility clause. The conjunction is built from existence and
// non-existence checks over the collaborator tables, so a player with no
// rows at all in the limit/flag/status tables passes those clauses
// vacuously. That default-allow behavior is intentional.
func EligiblePlayers(players []models.Player, in EligibilityInput, channel, product string) map[int64]struct{} {
	consented := make(map[int64]bool)
	for _, c := range in.Consents {
		if QualifiesConsent(c, channel, product) {
			consented[c.PlayerID] = true
		}
	}

	limited := make(map[int64]bool)
	for _, l := range in.Limits {
		if LimitsPlay(l) {
			limited[l.PlayerID] = true
		}
	}

	blocked := make(map[int64]bool)
	for _, f := range in.Flags {
		if BlocksPromotion(f) {
			blocked[f.PlayerID] = true
		}
	}

	inactive := make(map[int64]bool)
	for _, s := range in.Statuses {
		if InactiveStatus(s) {
			inactive[s.PlayerID] = true
		}
	}

	walleted := make(map[int64]bool)
	for _, w := range in.Wallets {
		if w.Active {
			walleted[w.AccountID] = true
		}
	}

	eligible := make(map[int64]struct{})
	for _, p := range players {
		if !consented[p.ID] {
			continue
		}
		if limited[p.ID] || blocked[p.ID] || inactive[p.ID] {
			continue
		}
		if !walleted[p.AccountID] {
			continue
		}
		eligible[p.ID] = struct{}{}
	}
	return eligible
}
