package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/adrg/xdg"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, filepath.Join(xdg.DataHome, "measurebook"), cfg.DataDir)
	assert.Equal(t, time.Second, cfg.DebounceDelay)
	assert.Equal(t, 2*time.Second, cfg.SavedIndicatorTTL)
	assert.Equal(t, 1200, cfg.MaxPhotoWidth)
	assert.Equal(t, 80, cfg.JPEGQuality)
}

func TestLoadWithDataDirOverride(t *testing.T) {
	dir := t.TempDir()

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, dir, cfg.DataDir)
	assert.Equal(t, filepath.Join(dir, "measurebook.log"), cfg.LogFile)
	assert.Equal(t, filepath.Join(dir, "store"), cfg.StorePath())
	assert.Equal(t, filepath.Join(dir, "history.db"), cfg.HistoryPath())
}

func TestSaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.DataDir = dir
	cfg.DebounceDelay = 250 * time.Millisecond
	cfg.JPEGQuality = 65
	require.NoError(t, cfg.Save())

	loaded, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 250*time.Millisecond, loaded.DebounceDelay)
	assert.Equal(t, 65, loaded.JPEGQuality)
	assert.Equal(t, 1200, loaded.MaxPhotoWidth)
}

func TestEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MEASUREBOOK_DEBOUNCE", "300ms")
	t.Setenv("MEASUREBOOK_MAX_PHOTO_WIDTH", "800")
	t.Setenv("MEASUREBOOK_DEBUG", "true")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 300*time.Millisecond, cfg.DebounceDelay)
	assert.Equal(t, 800, cfg.MaxPhotoWidth)
	assert.True(t, cfg.Debug)
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MEASUREBOOK_DEBOUNCE", "-5s")
	t.Setenv("MEASUREBOOK_JPEG_QUALITY", "400")
	t.Setenv("MEASUREBOOK_MAX_PHOTO_WIDTH", "wide")

	cfg, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, cfg.DebounceDelay)
	assert.Equal(t, DefaultJPEGQuality, cfg.JPEGQuality)
	assert.Equal(t, DefaultMaxPhotoWidth, cfg.MaxPhotoWidth)
}
