package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/ggnetwork/crm-segmenter/segmenter/clustering"
	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
)

// Column layouts follow the campaign sheets the downstream marketing team
// already consumes, so header names and order are part of the contract.

var weeklyKPIHeader = []string{
	"WEEK", "GGPASS_ID", "CID", "NICKNAME", "BRAND_ID", "SITE_ID",
	"TOP_CATEGORY", "BET", "GGR", "THEO_WIN", "DAYS_PLAYED",
}

var segmentedUsersHeader = []string{
	"GGPASS_ID", "CLUSTER", "CB_AMOUNT",
	"AVG_WEEKLY_THEO_WIN", "AVG_WEEKLY_DAYS_PLAYED", "AVG_WEEKLY_ADT",
	"BRAND_ID", "SITE_ID", "NICKNAME", "CID", "TOP_CATEGORY",
	"OVERALL_THEO_WIN", "OVERALL_ADT", "OVERALL_DAYS_PLAYED",
}

var clusterSummaryHeader = []string{
	"CLUSTER", "USER_COUNT",
	"AVG_WEEKLY_THEO_WIN_mean", "AVG_WEEKLY_THEO_WIN_median",
	"AVG_WEEKLY_THEO_WIN_min", "AVG_WEEKLY_THEO_WIN_max",
	"AVG_WEEKLY_DAYS_PLAYED_mean", "AVG_WEEKLY_DAYS_PLAYED_median",
	"CB_AMOUNT",
}

// WriteWeeklyKPI writes the aggregation output sheet.
func WriteWeeklyKPI(path string, rows []*models.WeeklyKPI) error {
	records := make([][]string, 0, len(rows))
	for _, row := range rows {
		category := ""
		if row.TopCategory != nil {
			category = strconv.FormatInt(*row.TopCategory, 10)
		}
		records = append(records, []string{
			row.Week.Format("2006-01-02"),
			row.PassID,
			row.CID,
			row.Nickname,
			strconv.FormatInt(row.BrandID, 10),
			strconv.FormatInt(row.SiteID, 10),
			category,
			row.Bet.String(),
			row.GGR.String(),
			row.TheoWin.String(),
			strconv.Itoa(row.DaysPlayed),
		})
	}
	return writeCSV(path, weeklyKPIHeader, records)
}

// WriteSegmentedUsers writes the per-player segmentation sheet.
func WriteSegmentedUsers(path string, users []clustering.SegmentedUser) error {
	records := make([][]string, 0, len(users))
	for _, u := range users {
		category := ""
		if u.TopCategory != nil {
			category = strconv.FormatInt(*u.TopCategory, 10)
		}
		records = append(records, []string{
			u.PassID,
			strconv.Itoa(u.Cluster),
			strconv.FormatInt(u.CBAmount, 10),
			formatFloat(u.AvgWeeklyTheoWin),
			formatFloat(u.AvgWeeklyDaysPlayed),
			formatFloat(u.AvgWeeklyADT),
			strconv.FormatInt(u.BrandID, 10),
			strconv.FormatInt(u.SiteID, 10),
			u.Nickname,
			u.CID,
			category,
			formatFloat(u.OverallTheoWin),
			formatFloat(u.OverallADT),
			formatFloat(u.OverallDaysPlayed),
		})
	}
	return writeCSV(path, segmentedUsersHeader, records)
}

// WriteClusterSummary writes the per-cluster offer sheet.
func WriteClusterSummary(path string, summaries []clustering.ClusterSummary) error {
	records := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		records = append(records, []string{
			strconv.Itoa(s.Cluster),
			strconv.Itoa(s.UserCount),
			formatFloat(s.TheoWinMean),
			formatFloat(s.TheoWinMedian),
			formatFloat(s.TheoWinMin),
			formatFloat(s.TheoWinMax),
			formatFloat(s.DaysMean),
			formatFloat(s.DaysMedian),
			strconv.FormatInt(s.CBAmount, 10),
		})
	}
	return writeCSV(path, clusterSummaryHeader, records)
}

func writeCSV(path string, header []string, records [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	if err := w.WriteAll(records); err != nil {
		return fmt.Errorf("failed to write records: %w", err)
	}

	w.Flush()
	return w.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 4, 64)
}
