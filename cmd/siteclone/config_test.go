package main_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	main "github.com/water102/siteclone/cmd/siteclone"
)

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("parses cookies and timings", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		content := `
cookies:
  - name: session
    value: abc123
    domain: .example.com
    path: /
    httpOnly: true
    sameSite: lax
navTimeoutSeconds: 60
settleSeconds: 5
bodyConcurrency: 4
`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		cfg, err := main.LoadConfig(path)
		require.NoError(t, err)

		require.Len(t, cfg.Cookies, 1)
		assert.Equal(t, "session", cfg.Cookies[0].Name)
		assert.Equal(t, ".example.com", cfg.Cookies[0].Domain)
		assert.True(t, cfg.Cookies[0].HTTPOnly)

		assert.Equal(t, 60*time.Second, cfg.NavTimeout())
		assert.Equal(t, 5*time.Second, cfg.SettleDelay())
		assert.Equal(t, 4, cfg.BodyConcurrency)

		cookies := cfg.CookieList()
		require.Len(t, cookies, 1)
		assert.Equal(t, "abc123", cookies[0].Value)
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		t.Parallel()

		_, err := main.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
		require.Error(t, err)
	})

	t.Run("returns error for malformed YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("cookies: [unclosed"), 0o644))

		_, err := main.LoadConfig(path)
		require.Error(t, err)
	})

	t.Run("nil config has zero defaults", func(t *testing.T) {
		t.Parallel()

		var cfg *main.Config
		assert.Nil(t, cfg.CookieList())
		assert.Equal(t, time.Duration(0), cfg.NavTimeout())
		assert.Equal(t, time.Duration(0), cfg.SettleDelay())
	})
}
