package segmenter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigDefaults(t *testing.T) {
	path := writeConfig(t, `
[db]
host = "localhost"
port = 5432
user = "warehouse"
password = "secret"
database = "crm"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.DB.Host)
	assert.Equal(t, "2024-01-01", cfg.Campaign.FullWindowStart)
	assert.Equal(t, "2025-12-01", cfg.Campaign.RecentWindowStart)
	assert.Equal(t, []int64{27, 28, 29, 30, 31, 33, 34, 35, 36, 38, 39, 40}, cfg.Campaign.Sites)
	assert.Equal(t, "JDBGAMING", cfg.Campaign.Provider)
	assert.Equal(t, 0.96, cfg.Campaign.DefaultRTP)
	assert.Equal(t, "Email", cfg.Campaign.ConsentChannel)
	assert.Equal(t, "Casino", cfg.Campaign.ConsentProduct)
	assert.Equal(t, 10.0, cfg.Campaign.MinAvgTheoWin)
	assert.Equal(t, 15, cfg.Campaign.MaxClusters)
	assert.Equal(t, int64(100), cfg.Campaign.ClusterSeed)
	assert.Equal(t, "out", cfg.Export.Dir)
}

func TestLoadConfigOverrides(t *testing.T) {
	path := writeConfig(t, `
[db]
host = "localhost"

[campaign]
full_window_start = "2023-06-01"
recent_window_start = "2025-06-01"
sites = [1, 2]
provider = "OTHERGAMES"
default_rtp = 0.9
min_avg_theo_win = 25.0

[export]
dir = "sheets"
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "2023-06-01", cfg.Campaign.FullWindowStart)
	assert.Equal(t, []int64{1, 2}, cfg.Campaign.Sites)
	assert.Equal(t, "OTHERGAMES", cfg.Campaign.Provider)
	assert.Equal(t, 0.9, cfg.Campaign.DefaultRTP)
	assert.Equal(t, 25.0, cfg.Campaign.MinAvgTheoWin)
	assert.Equal(t, "sheets", cfg.Export.Dir)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestCampaignWindows(t *testing.T) {
	cfg := CampaignConfig{FullWindowStart: "2024-01-01", RecentWindowStart: "2025-12-01"}

	full, recent, err := cfg.Windows()
	require.NoError(t, err)
	assert.Equal(t, "2024-01-01", full.Format("2006-01-02"))
	assert.Equal(t, "2025-12-01", recent.Format("2006-01-02"))
}

func TestCampaignWindowsInvalid(t *testing.T) {
	_, _, err := CampaignConfig{FullWindowStart: "not-a-date", RecentWindowStart: "2025-12-01"}.Windows()
	assert.Error(t, err)

	_, _, err = CampaignConfig{FullWindowStart: "2024-01-01", RecentWindowStart: "12/01/2025"}.Windows()
	assert.Error(t, err)

	// Recent window before the full window start is a misconfiguration.
	_, _, err = CampaignConfig{FullWindowStart: "2024-01-01", RecentWindowStart: "2023-01-01"}.Windows()
	assert.Error(t, err)
}
