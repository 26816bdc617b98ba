package clustering

import (
	"math"
	"sort"

	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
)

// Config holds the segmentation knobs. Seed keeps the k-medians draw
// reproducible between runs of the same campaign.
type Config struct {
	MinAvgTheoWin float64
	MaxClusters   int
	MaxIterations int
	Seed          int64
}

// WeeklyObservation is one weekly KPI row projected into the feature space
// the segmentation works on. ADT (average daily theoretical win) is the
// week's theo win spread over its active days, zero when the denominator is.
type WeeklyObservation struct {
	PassID      string
	TheoWin     float64
	DaysPlayed  float64
	ADT         float64
	BrandID     int64
	SiteID      int64
	Nickname    string
	CID         string
	TopCategory *int64
}

// SegmentedUser is one player's final segmentation record: cluster
// assignment, cash-bonus offer and the averages the assignment was based on.
type SegmentedUser struct {
	PassID              string
	Cluster             int
	CBAmount            int64
	AvgWeeklyTheoWin    float64
	AvgWeeklyDaysPlayed float64
	AvgWeeklyADT        float64
	BrandID             int64
	SiteID              int64
	Nickname            string
	CID                 string
	TopCategory         *int64
	OverallTheoWin      float64
	OverallDaysPlayed   float64
	OverallADT          float64
}

// ClusterSummary aggregates one cluster for the campaign sheet.
type ClusterSummary struct {
	Cluster       int
	UserCount     int
	TheoWinMean   float64
	TheoWinMedian float64
	TheoWinMin    float64
	TheoWinMax    float64
	DaysMean      float64
	DaysMedian    float64
	CBAmount      int64
}

// FromKPIRows projects weekly KPI rows into observations, applying the
// null-on-zero-denominator guard for ADT.
func FromKPIRows(rows []*models.WeeklyKPI) []WeeklyObservation {
	obs := make([]WeeklyObservation, 0, len(rows))
	for _, row := range rows {
		theo, _ := row.TheoWin.Float64()
		days := float64(row.DaysPlayed)

		adt := 0.0
		if days > 0 {
			adt = theo / days
			if math.IsInf(adt, 0) || math.IsNaN(adt) {
				adt = 0
			}
		}

		obs = append(obs, WeeklyObservation{
			PassID:      row.PassID,
			TheoWin:     theo,
			DaysPlayed:  days,
			ADT:         adt,
			BrandID:     row.BrandID,
			SiteID:      row.SiteID,
			Nickname:    row.Nickname,
			CID:         row.CID,
			TopCategory: row.TopCategory,
		})
	}
	return obs
}

type userAccum struct {
	passID      string
	weeks       int
	theoSum     float64
	daysSum     float64
	adtSum      float64
	brandID     int64
	siteID      int64
	nickname    string
	cid         string
	topCategory *int64
}

// Segment runs the full segmentation: per-user weekly averages, the minimum
// theo-win cutoff, elbow-selected k-medians over (log10(theo+1), days),
// cluster renumbering ascending by value, and per-cluster cash-bonus
// amounts (10% of the cluster's mean weekly theo win, rounded up to the
// next multiple of 10).
func Segment(obs []WeeklyObservation, cfg Config) ([]SegmentedUser, []ClusterSummary) {
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = 100
	}

	// Per-user accumulation; metadata keeps the first-seen row's values.
	byUser := make(map[string]*userAccum)
	order := make([]string, 0)
	for _, o := range obs {
		acc, ok := byUser[o.PassID]
		if !ok {
			acc = &userAccum{
				passID:      o.PassID,
				brandID:     o.BrandID,
				siteID:      o.SiteID,
				nickname:    o.Nickname,
				cid:         o.CID,
				topCategory: o.TopCategory,
			}
			byUser[o.PassID] = acc
			order = append(order, o.PassID)
		}
		acc.weeks++
		acc.theoSum += o.TheoWin
		acc.daysSum += o.DaysPlayed
		acc.adtSum += o.ADT
	}

	users := make([]SegmentedUser, 0, len(order))
	for _, passID := range order {
		acc := byUser[passID]
		weeks := float64(acc.weeks)

		overallADT := 0.0
		if acc.daysSum > 0 {
			overallADT = acc.theoSum / acc.daysSum
			if math.IsInf(overallADT, 0) || math.IsNaN(overallADT) {
				overallADT = 0
			}
		}

		u := SegmentedUser{
			PassID:              acc.passID,
			AvgWeeklyTheoWin:    acc.theoSum / weeks,
			AvgWeeklyDaysPlayed: acc.daysSum / weeks,
			AvgWeeklyADT:        acc.adtSum / weeks,
			BrandID:             acc.brandID,
			SiteID:              acc.siteID,
			Nickname:            acc.nickname,
			CID:                 acc.cid,
			TopCategory:         acc.topCategory,
			OverallTheoWin:      acc.theoSum,
			OverallDaysPlayed:   acc.daysSum,
			OverallADT:          overallADT,
		}
		if u.AvgWeeklyTheoWin >= cfg.MinAvgTheoWin {
			users = append(users, u)
		}
	}

	if len(users) == 0 {
		return nil, nil
	}

	points := make([]Point, len(users))
	for i, u := range users {
		points[i] = Point{math.Log10(u.AvgWeeklyTheoWin + 1), u.AvgWeeklyDaysPlayed}
	}

	k := OptimalK(points, cfg.MaxClusters, cfg.Seed)
	labels, _, _ := KMedians(points, k, cfg.MaxIterations, cfg.Seed)

	// Renumber clusters 1..k ascending by mean weekly theo win so cluster 1
	// is always the lowest-value segment.
	theoSums := make([]float64, k)
	counts := make([]int, k)
	for i, u := range users {
		theoSums[labels[i]] += u.AvgWeeklyTheoWin
		counts[labels[i]]++
	}

	type clusterValue struct {
		label int
		mean  float64
	}
	values := make([]clusterValue, 0, k)
	for label := 0; label < k; label++ {
		if counts[label] == 0 {
			continue
		}
		values = append(values, clusterValue{label: label, mean: theoSums[label] / float64(counts[label])})
	}
	sort.Slice(values, func(i, j int) bool { return values[i].mean < values[j].mean })

	rank := make(map[int]int, len(values))
	offer := make(map[int]int64, len(values))
	for i, v := range values {
		rank[v.label] = i + 1
		offer[v.label] = cashBonusAmount(v.mean)
	}

	for i := range users {
		users[i].Cluster = rank[labels[i]]
		users[i].CBAmount = offer[labels[i]]
	}

	sort.Slice(users, func(i, j int) bool { return users[i].PassID < users[j].PassID })

	return users, summarize(users)
}

// cashBonusAmount is 10% of the cluster's mean weekly theo win, rounded up
// to the next multiple of 10.
func cashBonusAmount(meanTheoWin float64) int64 {
	return int64(math.Ceil(meanTheoWin*0.10/10.0) * 10)
}

func summarize(users []SegmentedUser) []ClusterSummary {
	byCluster := make(map[int][]SegmentedUser)
	for _, u := range users {
		byCluster[u.Cluster] = append(byCluster[u.Cluster], u)
	}

	clusters := make([]int, 0, len(byCluster))
	for c := range byCluster {
		clusters = append(clusters, c)
	}
	sort.Ints(clusters)

	summaries := make([]ClusterSummary, 0, len(clusters))
	for _, c := range clusters {
		members := byCluster[c]

		theo := make([]float64, len(members))
		days := make([]float64, len(members))
		for i, m := range members {
			theo[i] = m.AvgWeeklyTheoWin
			days[i] = m.AvgWeeklyDaysPlayed
		}

		summaries = append(summaries, ClusterSummary{
			Cluster:       c,
			UserCount:     len(members),
			TheoWinMean:   mean(theo),
			TheoWinMedian: median(theo),
			TheoWinMin:    minOf(theo),
			TheoWinMax:    maxOf(theo),
			DaysMean:      mean(days),
			DaysMedian:    median(days),
			CBAmount:      members[0].CBAmount,
		})
	}
	return summaries
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}
	return (sorted[mid-1] + sorted[mid]) / 2
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
