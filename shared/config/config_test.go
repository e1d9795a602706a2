package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigs(t *testing.T, public, private string) string {
	t.Helper()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "public.yaml"), []byte(public), 0o600))
	if private != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "private.yaml"), []byte(private), 0o600))
	}
	return dir
}

func TestMustLoad_DefaultsFillMissingKeys(t *testing.T) {
	dir := writeConfigs(t, "api_url: http://api:8080\npoll_interval: 2s\ncanvas:\n  board_size: 8000\n", "jwt_key: 'k'\n")

	cfg := MustLoad(dir)

	assert.Equal(t, "http://api:8080", cfg.Public.ApiURL)
	assert.Equal(t, 2*time.Second, cfg.Public.PollInterval)
	assert.Equal(t, 8000.0, cfg.Public.Canvas.BoardSize)
	assert.Equal(t, 0.25, cfg.Public.Canvas.MinZoom)
	assert.Equal(t, 3.0, cfg.Public.Canvas.MaxZoom)
	assert.Equal(t, 640.0, cfg.Public.Canvas.MaxAutoWidth)
	assert.Equal(t, 360.0, cfg.Public.Canvas.TextCardWidth)
	assert.Equal(t, "k", cfg.JwtKey())
	assert.Equal(t, 72*time.Hour, cfg.TokenTTL())
}

func TestMustLoad_RequiredFields(t *testing.T) {
	dir := writeConfigs(t, "poll_interval: 5s\n", "# jwt_key is intentionally missing\n")

	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected panic due to missing required field, got none")
		}
	}()

	_ = MustLoad(dir)
}

func TestMustLoad_InvalidZoomRange(t *testing.T) {
	dir := writeConfigs(t, "canvas:\n  min_zoom: 2\n  max_zoom: 1\n", "jwt_key: 'k'\n")

	assert.Panics(t, func() { _ = MustLoad(dir) })
}

func TestMustLoadPublic_MissingFile(t *testing.T) {
	assert.Panics(t, func() { _ = MustLoadPublic(t.TempDir()) })
}

func TestMustLoad_ServerRates(t *testing.T) {
	dir := writeConfigs(t, "server:\n  auth_rate:\n    per_minute: 6\n", "jwt_key: 'k'\n")

	cfg := MustLoad(dir)

	assert.Equal(t, 0.1, cfg.Public.Server.AuthRate.PerSecond())
	assert.Equal(t, 5.0, cfg.Public.Server.AuthRate.Burst)
	assert.Equal(t, 30.0, cfg.Public.Server.UploadRate.PerMinute)
	assert.Equal(t, "uploads", cfg.Public.Server.UploadDir)
}

func TestMustLoad_Postgres(t *testing.T) {
	dir := writeConfigs(t, "server:\n  store: postgres\n", "jwt_key: 'k'\npg:\n  host: db\n  user: brainboard\n  password: secret\n  dbname: brainboard\n")

	cfg := MustLoad(dir)

	assert.Equal(t, "postgres", cfg.Public.Server.Store)
	assert.True(t, cfg.Pg().Configured())
	assert.Equal(t, 5432, cfg.Pg().Port)
	assert.Equal(t, "disable", cfg.Pg().SSLMode)
}

func TestMustLoad_UnknownStore(t *testing.T) {
	dir := writeConfigs(t, "server:\n  store: redis\n", "jwt_key: 'k'\n")

	assert.Panics(t, func() { _ = MustLoad(dir) })
}
