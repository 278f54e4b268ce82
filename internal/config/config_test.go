// SPDX-License-Identifier: MIT

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.ListenAddr)
	assert.Equal(t, "https://api.themoviedb.org/3", cfg.TMDBBaseURL)
	assert.Equal(t, CacheMemory, cfg.CacheBackend)
	assert.Equal(t, "US", cfg.DefaultRegion)
	assert.Equal(t, 15*time.Second, cfg.UpstreamTimeout)
	assert.True(t, cfg.MetricsEnabled)
}

func TestLoadMetricsDisabled(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "test-key")
	t.Setenv("TRENDSD_METRICS", "false")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.False(t, cfg.MetricsEnabled)
}

func TestLoadMissingCredentials(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "")
	t.Setenv("TMDB_API_READ_ACCESS_TOKEN", "")

	_, err := Load("")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingCredentials)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("listenAddr: \":9000\"\ndefaultRegion: DE\n"), 0o600))

	t.Setenv("TMDB_API_READ_ACCESS_TOKEN", "token")
	t.Setenv("TRENDSD_LISTEN", ":7070")

	cfg, err := Load(path)
	require.NoError(t, err)

	// ENV wins over file, file wins over defaults.
	assert.Equal(t, ":7070", cfg.ListenAddr)
	assert.Equal(t, "DE", cfg.DefaultRegion)
}

func TestLoadRejectsUnknownFileKeys(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bogusKey: true\n"), 0o600))

	t.Setenv("TMDB_API_KEY", "test-key")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateUnknownCacheBackend(t *testing.T) {
	cfg := defaults()
	cfg.TMDBAPIKey = "k"
	cfg.CacheBackend = "memcached"
	assert.Error(t, cfg.Validate())
}

func TestParseHelpers(t *testing.T) {
	t.Setenv("TRENDSD_TEST_INT", "42")
	t.Setenv("TRENDSD_TEST_BAD_INT", "forty-two")
	t.Setenv("TRENDSD_TEST_DUR", "90s")
	t.Setenv("TRENDSD_TEST_BOOL", "true")

	assert.Equal(t, 42, ParseInt("TRENDSD_TEST_INT", 1))
	assert.Equal(t, 1, ParseInt("TRENDSD_TEST_BAD_INT", 1))
	assert.Equal(t, 90*time.Second, ParseDuration("TRENDSD_TEST_DUR", time.Second))
	assert.True(t, ParseBool("TRENDSD_TEST_BOOL", false))
	assert.Equal(t, "fallback", ParseString("TRENDSD_TEST_UNSET", "fallback"))
}
