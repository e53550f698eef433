package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mfinch/furniture-watch/internal/config"
	domain "github.com/mfinch/furniture-watch/pkg/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(writeConfig(t, "{}"))
	require.NoError(t, err)

	assert.Equal(t, "https://communityfurniture.org", cfg.Site.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Site.Timeout)
	assert.Equal(t, "items.db", cfg.Database.Path)
	assert.Equal(t, []string{"sofa"}, cfg.Alerts.Categories)
	assert.Equal(t, 10*time.Second, cfg.Alerts.NotifyDelay)
	assert.Equal(t, "https://api.pushover.net/1/messages.json", cfg.Pushover.APIURL)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoad_EnvSubstitution(t *testing.T) {
	t.Setenv("FW_TEST_TOKEN", "app-token")
	t.Setenv("FW_TEST_USER", "user-key")

	cfg, err := config.Load(writeConfig(t, `
alerts:
  enabled: true
pushover:
  token: ${FW_TEST_TOKEN}
  user: ${FW_TEST_USER}
`))
	require.NoError(t, err)

	assert.Equal(t, "app-token", cfg.Pushover.Token)
	assert.Equal(t, "user-key", cfg.Pushover.User)
}

func TestLoad_MissingCredentialsFailFast(t *testing.T) {
	t.Parallel()

	_, err := config.Load(writeConfig(t, `
alerts:
  enabled: true
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pushover.token")
	assert.Contains(t, err.Error(), "pushover.user")
}

func TestLoad_CredentialsNotRequiredWhenAlertsDisabled(t *testing.T) {
	t.Parallel()

	_, err := config.Load(writeConfig(t, `
alerts:
  enabled: false
`))
	require.NoError(t, err)
}

func TestLoad_RejectsUnknownCategory(t *testing.T) {
	t.Parallel()

	_, err := config.Load(writeConfig(t, `
alerts:
  categories: [sofa, lamp]
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "lamp")
}

func TestLoad_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := config.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestWatchedCategories(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(writeConfig(t, `
alerts:
  categories: [sofa, chair]
`))
	require.NoError(t, err)

	assert.Equal(t,
		[]domain.Category{domain.CategorySofa, domain.CategoryChair},
		cfg.WatchedCategories(),
	)
}
