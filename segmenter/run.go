package segmenter

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/ggnetwork/crm-segmenter/segmenter/aggregation"
	"github.com/ggnetwork/crm-segmenter/segmenter/clustering"
	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
	"github.com/ggnetwork/crm-segmenter/segmenter/export"
)

// RunOptions controls side effects of a pipeline run. A plain run only writes
// CSV sheets; StoreKPI additionally replaces the derived warehouse table for
// the recent window, Upload stages the sheets on Spaces.
type RunOptions struct {
	StoreKPI bool
	Upload   bool
}

// RunResult reports what a run produced.
type RunResult struct {
	RunID          string
	KPIRows        int
	SegmentedUsers int
	Clusters       int
	Files          []string
	Took           time.Duration
}

// Run executes the full campaign pipeline: load the warehouse projections in
// parallel, resolve the derived sets, build the weekly aggregate, segment the
// qualifying players and export the campaign sheets.
func (s *Segmenter) Run(ctx context.Context, opts RunOptions) (*RunResult, error) {
	start := time.Now()
	runID := uuid.NewString()

	fullWindow, recentWindow, err := s.Cfg.Campaign.Windows()
	if err != nil {
		return nil, err
	}

	slog.Info("Pipeline run starting",
		slog.String("type", "agg"),
		slog.String("run_id", runID),
		slog.Time("full_window", fullWindow),
		slog.Time("recent_window", recentWindow),
		slog.String("provider", s.Cfg.Campaign.Provider))

	var (
		players     []models.Player
		consents    []models.MarketingConsent
		limits      []models.ResponsibleGamingLimit
		flags       []models.AccountFlags
		statuses    []models.AccountStatus
		wallets     []models.Wallet
		rtps        map[string]float64
		fullFacts   []models.GameplayFact
		recentFacts []models.GameplayFact
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		players, err = s.PlayerRepository.GetAll(gctx)
		return err
	})
	g.Go(func() (err error) {
		consents, err = s.PlayerRepository.GetQualifyingConsents(gctx,
			s.Cfg.Campaign.ConsentChannel, s.Cfg.Campaign.ConsentProduct)
		return err
	})
	g.Go(func() (err error) {
		limits, err = s.PlayerRepository.GetGamingLimits(gctx)
		return err
	})
	g.Go(func() (err error) {
		flags, err = s.PlayerRepository.GetAccountFlags(gctx)
		return err
	})
	g.Go(func() (err error) {
		statuses, err = s.PlayerRepository.GetAccountStatuses(gctx)
		return err
	})
	g.Go(func() (err error) {
		wallets, err = s.PlayerRepository.GetActiveWallets(gctx)
		return err
	})
	g.Go(func() (err error) {
		rtps, err = s.GameStatsRepository.GetLatestRTPs(gctx)
		return err
	})
	g.Go(func() (err error) {
		fullFacts, err = s.GameplayRepository.GetFactsSince(gctx, fullWindow, s.Cfg.Campaign.Sites)
		return err
	})
	g.Go(func() (err error) {
		recentFacts, err = s.GameplayRepository.GetProviderFactsSince(gctx,
			recentWindow, s.Cfg.Campaign.Sites, s.Cfg.Campaign.Provider)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("warehouse load failed: %w", err)
	}

	slog.Info("Warehouse projections loaded",
		slog.String("type", "agg"),
		slog.Int("players", len(players)),
		slog.Int("full_facts", len(fullFacts)),
		slog.Int("recent_facts", len(recentFacts)),
		slog.Int("games_with_rtp", len(rtps)))

	eligible := aggregation.EligiblePlayers(players, aggregation.EligibilityInput{
		Consents: consents,
		Limits:   limits,
		Flags:    flags,
		Statuses: statuses,
		Wallets:  wallets,
	}, s.Cfg.Campaign.ConsentChannel, s.Cfg.Campaign.ConsentProduct)

	nicknames := aggregation.SingleIdentityNicknames(fullFacts)
	topCategories := aggregation.DominantCategories(fullFacts)
	profiles := aggregation.LatestProfiles(fullFacts)

	slog.Info("Derived sets resolved",
		slog.String("type", "agg"),
		slog.Int("eligible_players", len(eligible)),
		slog.Int("single_identity_nicknames", len(nicknames)),
		slog.Int("players_with_top_category", len(topCategories)))

	kpiRows := aggregation.BuildWeeklyKPI(recentFacts, aggregation.WeeklyInputs{
		Eligible:    eligible,
		Nicknames:   nicknames,
		RTPByGame:   rtps,
		TopCategory: topCategories,
		Profiles:    profiles,
		DefaultRTP:  s.Cfg.Campaign.DefaultRTP,
	})

	slog.Info("Weekly aggregate built",
		slog.String("type", "agg"),
		slog.Int("kpi_rows", len(kpiRows)))

	if opts.StoreKPI {
		if err := s.WeeklyKPIRepository.ReplaceWindow(ctx, runID, recentWindow, kpiRows); err != nil {
			return nil, fmt.Errorf("failed to store weekly KPI: %w", err)
		}
		slog.Info("Weekly KPI window replaced",
			slog.String("type", "db"),
			slog.String("run_id", runID),
			slog.Int("rows", len(kpiRows)))
	}

	users, summaries := clustering.Segment(clustering.FromKPIRows(kpiRows), clustering.Config{
		MinAvgTheoWin: s.Cfg.Campaign.MinAvgTheoWin,
		MaxClusters:   s.Cfg.Campaign.MaxClusters,
		Seed:          s.Cfg.Campaign.ClusterSeed,
	})

	slog.Info("Segmentation complete",
		slog.String("type", "agg"),
		slog.Int("segmented_users", len(users)),
		slog.Int("clusters", len(summaries)))

	files, err := s.exportSheets(kpiRows, users, summaries)
	if err != nil {
		return nil, err
	}

	if opts.Upload && s.Spaces != nil {
		for _, file := range files {
			key, err := s.Spaces.UploadFile(ctx, file, runID)
			if err != nil {
				return nil, err
			}
			slog.Info("Sheet uploaded",
				slog.String("type", "sys"),
				slog.String("key", key))
		}
	}

	result := &RunResult{
		RunID:          runID,
		KPIRows:        len(kpiRows),
		SegmentedUsers: len(users),
		Clusters:       len(summaries),
		Files:          files,
		Took:           time.Since(start),
	}

	slog.Info("Pipeline run finished",
		slog.String("type", "agg"),
		slog.String("run_id", result.RunID),
		slog.Duration("took", result.Took))

	return result, nil
}

func (s *Segmenter) exportSheets(kpiRows []*models.WeeklyKPI, users []clustering.SegmentedUser, summaries []clustering.ClusterSummary) ([]string, error) {
	dir := s.Cfg.Export.Dir

	kpiPath := filepath.Join(dir, "weekly_user_kpi.csv")
	if err := export.WriteWeeklyKPI(kpiPath, kpiRows); err != nil {
		return nil, err
	}

	usersPath := filepath.Join(dir, "segmented_users.csv")
	if err := export.WriteSegmentedUsers(usersPath, users); err != nil {
		return nil, err
	}

	summaryPath := filepath.Join(dir, "cluster_summary.csv")
	if err := export.WriteClusterSummary(summaryPath, summaries); err != nil {
		return nil, err
	}

	return []string{kpiPath, usersPath, summaryPath}, nil
}
