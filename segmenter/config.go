package segmenter

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/ggnetwork/crm-segmenter/segmenter/database"
)

func LoadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config: %w", err)
	}
	defer file.Close()

	var cfg Config
	if err = toml.NewDecoder(file).Decode(&cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

type Config struct {
	Log      LogConfig         `toml:"log"`
	DB       database.DBConfig `toml:"db"`
	Campaign CampaignConfig    `toml:"campaign"`
	Export   ExportConfig      `toml:"export"`
	Spaces   SpacesConfig      `toml:"spaces"`
}

type LogConfig struct {
	Level     slog.Level `toml:"level"`
	Format    string     `toml:"format"`
	AddSource bool       `toml:"add_source"`
}

// CampaignConfig carries the business constants of the weekly cash-bonus
// campaign. Every value has a default matching the current campaign so a
// minimal config file only needs warehouse credentials.
type CampaignConfig struct {
	FullWindowStart   string  `toml:"full_window_start"`
	RecentWindowStart string  `toml:"recent_window_start"`
	Sites             []int64 `toml:"sites"`
	Provider          string  `toml:"provider"`
	DefaultRTP        float64 `toml:"default_rtp"`
	ConsentChannel    string  `toml:"consent_channel"`
	ConsentProduct    string  `toml:"consent_product"`
	MinAvgTheoWin     float64 `toml:"min_avg_theo_win"`
	MaxClusters       int     `toml:"max_clusters"`
	ClusterSeed       int64   `toml:"cluster_seed"`
}

type ExportConfig struct {
	Dir string `toml:"dir"`
}

type SpacesConfig struct {
	Key    string `toml:"key"`
	Secret string `toml:"secret"`
	Region string `toml:"region"`
	Bucket string `toml:"bucket"`
	Prefix string `toml:"prefix"`
}

func (c *Config) applyDefaults() {
	if c.Campaign.FullWindowStart == "" {
		c.Campaign.FullWindowStart = "2024-01-01"
	}
	if c.Campaign.RecentWindowStart == "" {
		c.Campaign.RecentWindowStart = "2025-12-01"
	}
	if len(c.Campaign.Sites) == 0 {
		c.Campaign.Sites = []int64{27, 28, 29, 30, 31, 33, 34, 35, 36, 38, 39, 40}
	}
	if c.Campaign.Provider == "" {
		c.Campaign.Provider = "JDBGAMING"
	}
	if c.Campaign.DefaultRTP == 0 {
		c.Campaign.DefaultRTP = 0.96
	}
	if c.Campaign.ConsentChannel == "" {
		c.Campaign.ConsentChannel = "Email"
	}
	if c.Campaign.ConsentProduct == "" {
		c.Campaign.ConsentProduct = "Casino"
	}
	if c.Campaign.MinAvgTheoWin == 0 {
		c.Campaign.MinAvgTheoWin = 10
	}
	if c.Campaign.MaxClusters == 0 {
		c.Campaign.MaxClusters = 15
	}
	if c.Campaign.ClusterSeed == 0 {
		c.Campaign.ClusterSeed = 100
	}
	if c.Export.Dir == "" {
		c.Export.Dir = "out"
	}
}

// Windows parses the two lookback boundaries. The full window feeds identity
// and profile resolution, the recent window bounds the aggregate itself.
func (c CampaignConfig) Windows() (full, recent time.Time, err error) {
	full, err = time.Parse("2006-01-02", c.FullWindowStart)
	if err != nil {
		return full, recent, fmt.Errorf("invalid full_window_start %q: %w", c.FullWindowStart, err)
	}
	recent, err = time.Parse("2006-01-02", c.RecentWindowStart)
	if err != nil {
		return full, recent, fmt.Errorf("invalid recent_window_start %q: %w", c.RecentWindowStart, err)
	}
	if recent.Before(full) {
		return full, recent, fmt.Errorf("recent_window_start %s precedes full_window_start %s",
			c.RecentWindowStart, c.FullWindowStart)
	}
	return full, recent, nil
}
