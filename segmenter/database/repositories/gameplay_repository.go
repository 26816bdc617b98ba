package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
	"github.com/uptrace/bun"
)

// GameplayRepository loads filtered projections of the gameplay fact table.
// Two windows are in play: the long history window feeds the identity guard,
// dominant-category and latest-profile resolution; the shorter recent window
// (additionally restricted to one provider) feeds the weekly aggregate.
type GameplayRepository interface {
	GetFactsSince(ctx context.Context, from time.Time, sites []int64) ([]models.GameplayFact, error)
	GetProviderFactsSince(ctx context.Context, from time.Time, sites []int64, provider string) ([]models.GameplayFact, error)
}

type gameplayRepository struct {
	db *bun.DB
}

func NewGameplayRepository(db *bun.DB) GameplayRepository {
	return &gameplayRepository{db: db}
}

func (r *gameplayRepository) GetFactsSince(ctx context.Context, from time.Time, sites []int64) ([]models.GameplayFact, error) {
	var facts []models.GameplayFact
	err := r.db.NewSelect().
		Model(&facts).
		Where("played_at >= ?", from).
		Where("site_id IN (?)", bun.In(sites)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load gameplay facts since %s: %w", from.Format("2006-01-02"), err)
	}
	return facts, nil
}

func (r *gameplayRepository) GetProviderFactsSince(ctx context.Context, from time.Time, sites []int64, provider string) ([]models.GameplayFact, error) {
	var facts []models.GameplayFact
	err := r.db.NewSelect().
		Model(&facts).
		Where("played_at >= ?", from).
		Where("site_id IN (?)", bun.In(sites)).
		Where("provider = ?", provider).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s gameplay facts: %w", provider, err)
	}
	return facts, nil
}
