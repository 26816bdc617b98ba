package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
	"github.com/uptrace/bun"
)

// WeeklyKPIRepository persists the derived weekly aggregate. The table is
// derived data: every run replaces the rows for its window wholesale, there
// is no incremental update path.
type WeeklyKPIRepository interface {
	ReplaceWindow(ctx context.Context, runID string, windowStart time.Time, rows []*models.WeeklyKPI) error
	GetByRun(ctx context.Context, runID string) ([]*models.WeeklyKPI, error)
}

type weeklyKPIRepository struct {
	db *bun.DB
}

func NewWeeklyKPIRepository(db *bun.DB) WeeklyKPIRepository {
	return &weeklyKPIRepository{db: db}
}

func (r *weeklyKPIRepository) ReplaceWindow(ctx context.Context, runID string, windowStart time.Time, rows []*models.WeeklyKPI) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	_, err = tx.NewDelete().
		Model((*models.WeeklyKPI)(nil)).
		Where("week >= ?", windowStart).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to clear previous window: %w", err)
	}

	if len(rows) > 0 {
		now := time.Now()
		for _, row := range rows {
			row.RunID = runID
			row.CreatedAt = now
		}

		_, err = tx.NewInsert().
			Model(&rows).
			Exec(ctx)
		if err != nil {
			return fmt.Errorf("failed to insert weekly KPI rows: %w", err)
		}
	}

	return tx.Commit()
}

func (r *weeklyKPIRepository) GetByRun(ctx context.Context, runID string) ([]*models.WeeklyKPI, error) {
	var rows []*models.WeeklyKPI
	err := r.db.NewSelect().
		Model(&rows).
		Where("run_id = ?", runID).
		Order("week ASC", "pass_id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load weekly KPI rows: %w", err)
	}
	return rows, nil
}
