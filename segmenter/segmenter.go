package segmenter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/ggnetwork/crm-segmenter/segmenter/database"
	"github.com/ggnetwork/crm-segmenter/segmenter/database/repositories"
	"github.com/ggnetwork/crm-segmenter/segmenter/export"
)

func New(cfg Config, version string, commit string) *Segmenter {
	return &Segmenter{
		Cfg:     cfg,
		Version: version,
		Commit:  commit,
	}
}

// Segmenter wires the warehouse repositories and export services behind the
// weekly aggregation pipeline.
type Segmenter struct {
	Cfg                 Config
	Version             string
	Commit              string
	DB                  *database.DB
	PlayerRepository    repositories.PlayerRepository
	GameplayRepository  repositories.GameplayRepository
	GameStatsRepository repositories.GameStatsRepository
	WeeklyKPIRepository repositories.WeeklyKPIRepository
	Spaces              *export.SpacesUploader
}

func (s *Segmenter) SetupDB(ctx context.Context) error {
	db, err := database.New(ctx, s.Cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to warehouse: %w", err)
	}

	if err := db.Ping(ctx); err != nil {
		db.Close()
		return err
	}

	s.DB = db
	s.PlayerRepository = repositories.NewPlayerRepository(db.BunDB())
	s.GameplayRepository = repositories.NewGameplayRepository(db.BunDB())
	s.GameStatsRepository = repositories.NewGameStatsRepository(db.BunDB())
	s.WeeklyKPIRepository = repositories.NewWeeklyKPIRepository(db.BunDB())

	slog.Info("Warehouse connection established",
		slog.String("type", "db"),
		slog.String("host", s.Cfg.DB.Host),
		slog.String("database", s.Cfg.DB.Database))
	return nil
}

// SetupSpaces is optional; runs without credentials keep exports local.
func (s *Segmenter) SetupSpaces() error {
	if s.Cfg.Spaces.Key == "" || s.Cfg.Spaces.Secret == "" {
		slog.Info("Spaces credentials absent, exports stay local",
			slog.String("type", "sys"))
		return nil
	}

	uploader, err := export.NewSpacesUploader(
		s.Cfg.Spaces.Key,
		s.Cfg.Spaces.Secret,
		s.Cfg.Spaces.Region,
		s.Cfg.Spaces.Bucket,
		s.Cfg.Spaces.Prefix,
	)
	if err != nil {
		return fmt.Errorf("failed to set up Spaces uploader: %w", err)
	}

	s.Spaces = uploader
	slog.Info("Spaces uploader ready",
		slog.String("type", "sys"),
		slog.String("bucket", uploader.GetBucket()),
		slog.String("region", uploader.GetRegion()))
	return nil
}

func (s *Segmenter) Close(ctx context.Context) {
	if s.DB != nil {
		done := make(chan struct{})
		go func() {
			s.DB.Close()
			close(done)
		}()
		select {
		case <-done:
		case <-ctx.Done():
			slog.Warn("Warehouse close timed out",
				slog.String("type", "db"))
		}
	}
}
