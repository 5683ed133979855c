// ABOUTME: Configuration for measurebook paths, autosave timing, and photo compression
// ABOUTME: Layers defaults, an optional config.json, .env, and MEASUREBOOK_* environment overrides

package config

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/adrg/xdg"
	"github.com/joho/godotenv"
)

const (
	// AppName names the XDG data directory.
	AppName = "measurebook"

	// ConfigFileName is where we store local config.
	ConfigFileName = "config.json"

	DefaultDebounce      = 1000 * time.Millisecond
	DefaultSavedTTL      = 2000 * time.Millisecond
	DefaultMaxPhotoWidth = 1200
	DefaultJPEGQuality   = 80
)

// Config holds local settings.
type Config struct {
	// DataDir holds the snapshot store, export history, and log file.
	DataDir string `json:"data_dir,omitempty"`

	// LogFile defaults to <DataDir>/measurebook.log.
	LogFile string `json:"log_file,omitempty"`

	Debug bool `json:"debug"`

	// DebounceDelay is the quiet period before an edit is written to storage.
	DebounceDelay time.Duration `json:"debounce_delay,omitempty"`

	// SavedIndicatorTTL is how long "saved" stays visible after a write.
	SavedIndicatorTTL time.Duration `json:"saved_indicator_ttl,omitempty"`

	MaxPhotoWidth int `json:"max_photo_width,omitempty"`
	JPEGQuality   int `json:"jpeg_quality,omitempty"`
}

// DefaultDataDir returns the XDG data directory for the app.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// DefaultConfig returns a new config with sensible defaults.
func DefaultConfig() *Config {
	dir := DefaultDataDir()
	return &Config{
		DataDir:           dir,
		LogFile:           filepath.Join(dir, "measurebook.log"),
		DebounceDelay:     DefaultDebounce,
		SavedIndicatorTTL: DefaultSavedTTL,
		MaxPhotoWidth:     DefaultMaxPhotoWidth,
		JPEGQuality:       DefaultJPEGQuality,
	}
}

// Load builds the config. dataDir overrides everything else when non-empty.
func Load(dataDir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: failed to read .env: %v", err)
	}

	cfg := DefaultConfig()
	if dir := getEnv("MEASUREBOOK_DATA_DIR", ""); dir != "" {
		cfg.DataDir = dir
	}
	if dataDir != "" {
		cfg.DataDir = dataDir
	}

	data, err := os.ReadFile(filepath.Join(cfg.DataDir, ConfigFileName))
	switch {
	case err == nil:
		var file Config
		if err := json.Unmarshal(data, &file); err == nil {
			cfg.merge(&file)
		}
	case !os.IsNotExist(err):
		return nil, err
	}

	cfg.LogFile = getEnv("MEASUREBOOK_LOG_FILE", cfg.LogFile)
	cfg.Debug = getEnvAsBool("MEASUREBOOK_DEBUG", cfg.Debug)
	cfg.DebounceDelay = getEnvAsDuration("MEASUREBOOK_DEBOUNCE", cfg.DebounceDelay)
	cfg.SavedIndicatorTTL = getEnvAsDuration("MEASUREBOOK_SAVED_TTL", cfg.SavedIndicatorTTL)
	cfg.MaxPhotoWidth = getEnvAsInt("MEASUREBOOK_MAX_PHOTO_WIDTH", cfg.MaxPhotoWidth)
	cfg.JPEGQuality = getEnvAsInt("MEASUREBOOK_JPEG_QUALITY", cfg.JPEGQuality)

	cfg.normalize()
	return cfg, nil
}

// merge copies the fields set in file, except the data dir which decided where file lives.
func (c *Config) merge(file *Config) {
	if file.LogFile != "" {
		c.LogFile = file.LogFile
	}
	c.Debug = c.Debug || file.Debug
	if file.DebounceDelay != 0 {
		c.DebounceDelay = file.DebounceDelay
	}
	if file.SavedIndicatorTTL != 0 {
		c.SavedIndicatorTTL = file.SavedIndicatorTTL
	}
	if file.MaxPhotoWidth != 0 {
		c.MaxPhotoWidth = file.MaxPhotoWidth
	}
	if file.JPEGQuality != 0 {
		c.JPEGQuality = file.JPEGQuality
	}
}

// normalize replaces out-of-range values with defaults.
func (c *Config) normalize() {
	if c.LogFile == "" || c.LogFile == filepath.Join(DefaultDataDir(), "measurebook.log") {
		c.LogFile = filepath.Join(c.DataDir, "measurebook.log")
	}
	if c.DebounceDelay <= 0 {
		c.DebounceDelay = DefaultDebounce
	}
	if c.SavedIndicatorTTL <= 0 {
		c.SavedIndicatorTTL = DefaultSavedTTL
	}
	if c.MaxPhotoWidth <= 0 {
		c.MaxPhotoWidth = DefaultMaxPhotoWidth
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		c.JPEGQuality = DefaultJPEGQuality
	}
}

// StorePath is the badger directory holding the snapshot keys.
func (c *Config) StorePath() string {
	return filepath.Join(c.DataDir, "store")
}

// HistoryPath is the sqlite database of past exports.
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// Save persists the config to <DataDir>/config.json.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.DataDir, 0700); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(c.DataDir, ConfigFileName), data, 0600)
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultVal
}
