package repositories

import (
	"context"
	"fmt"

	"github.com/ggnetwork/crm-segmenter/segmenter/database/models"
	"github.com/uptrace/bun"
)

// PlayerRepository loads the player registry and the collaborator tables
// consulted by the eligibility filter. Everything here is a read-only
// projection of warehouse tables; the consent query pushes the campaign's
// channel/product filter down to the warehouse, the non-existence tables
// are loaded whole because absent rows are meaningful (default-allow).
type PlayerRepository interface {
	GetAll(ctx context.Context) ([]models.Player, error)
	GetQualifyingConsents(ctx context.Context, channel, product string) ([]models.MarketingConsent, error)
	GetGamingLimits(ctx context.Context) ([]models.ResponsibleGamingLimit, error)
	GetAccountFlags(ctx context.Context) ([]models.AccountFlags, error)
	GetAccountStatuses(ctx context.Context) ([]models.AccountStatus, error)
	GetActiveWallets(ctx context.Context) ([]models.Wallet, error)
}

type playerRepository struct {
	db *bun.DB
}

func NewPlayerRepository(db *bun.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) GetAll(ctx context.Context) ([]models.Player, error) {
	var players []models.Player
	err := r.db.NewSelect().
		Model(&players).
		Column("id", "gpid", "account_id").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load player registry: %w", err)
	}
	return players, nil
}

func (r *playerRepository) GetQualifyingConsents(ctx context.Context, channel, product string) ([]models.MarketingConsent, error) {
	var consents []models.MarketingConsent
	err := r.db.NewSelect().
		Model(&consents).
		Where("channel_type = ?", channel).
		Where("product_type = ?", product).
		Where("consented = TRUE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load marketing consents: %w", err)
	}
	return consents, nil
}

func (r *playerRepository) GetGamingLimits(ctx context.Context) ([]models.ResponsibleGamingLimit, error) {
	var limits []models.ResponsibleGamingLimit
	err := r.db.NewSelect().
		Model(&limits).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load responsible-gaming limits: %w", err)
	}
	return limits, nil
}

func (r *playerRepository) GetAccountFlags(ctx context.Context) ([]models.AccountFlags, error) {
	var flags []models.AccountFlags
	err := r.db.NewSelect().
		Model(&flags).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account flags: %w", err)
	}
	return flags, nil
}

func (r *playerRepository) GetAccountStatuses(ctx context.Context) ([]models.AccountStatus, error) {
	var statuses []models.AccountStatus
	err := r.db.NewSelect().
		Model(&statuses).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load account statuses: %w", err)
	}
	return statuses, nil
}

func (r *playerRepository) GetActiveWallets(ctx context.Context) ([]models.Wallet, error) {
	var wallets []models.Wallet
	err := r.db.NewSelect().
		Model(&wallets).
		Where("active = TRUE").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load wallets: %w", err)
	}
	return wallets, nil
}
