package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/ggnetwork/crm-segmenter/segmenter/aggregation"
	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
	lru "github.com/hashicorp/golang-lru"
	"github.com/uptrace/bun"
)

// rtpCacheSize is tiny on purpose: one resolved snapshot per calendar day.
const rtpCacheSize = 4

// GameStatsRepository resolves the current theoretical RTP per game code
// from the periodic game-stats snapshots.
type GameStatsRepository interface {
	GetLatestRTPs(ctx context.Context) (map[string]float64, error)
}

type gameStatsRepository struct {
	db    *bun.DB
	cache *lru.Cache
}

func NewGameStatsRepository(db *bun.DB) GameStatsRepository {
	cache, _ := lru.New(rtpCacheSize)
	return &gameStatsRepository{db: db, cache: cache}
}

// GetLatestRTPs loads the game-stats projection and keeps one RTP per game
// code, the most recently updated row winning. The reference data changes at
// most daily, so the resolved map is cached per calendar day for repeated
// runs within one process.
func (r *gameStatsRepository) GetLatestRTPs(ctx context.Context) (map[string]float64, error) {
	cacheKey := time.Now().UTC().Format("2006-01-02")
	if cached, ok := r.cache.Get(cacheKey); ok {
		return cached.(map[string]float64), nil
	}

	var stats []models.GameStatsDaily
	err := r.db.NewSelect().
		Model(&stats).
		Column("game_code", "rtp", "updated_at").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load game stats: %w", err)
	}

	rtps := aggregation.LatestRTPs(stats)
	r.cache.Add(cacheKey, rtps)
	return rtps, nil
}
