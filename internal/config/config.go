package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

const appName = "concentration"

// Config represents the application configuration
type Config struct {
	DefaultDeck string  `toml:"default_deck" env:"CONCENTRATION_DECK"`
	TargetMoves int     `toml:"target_moves" env:"CONCENTRATION_TARGET_MOVES"`
	TimeLimit   int     `toml:"time_limit" env:"CONCENTRATION_TIME_LIMIT"`
	FlipDelayMS int     `toml:"flip_delay_ms" env:"CONCENTRATION_FLIP_DELAY_MS"`
	Volume      float64 `toml:"volume" env:"CONCENTRATION_VOLUME"`
	Muted       bool    `toml:"muted" env:"CONCENTRATION_MUTED"`
	Audio       Audio   `toml:"audio"`
}

// Audio configures the external player and the file behind each track
type Audio struct {
	Player     string `toml:"player" env:"CONCENTRATION_AUDIO_PLAYER"`
	Background string `toml:"background" env:"CONCENTRATION_AUDIO_BACKGROUND"`
	Flip       string `toml:"flip" env:"CONCENTRATION_AUDIO_FLIP"`
	Win        string `toml:"win" env:"CONCENTRATION_AUDIO_WIN"`
	Lose       string `toml:"lose" env:"CONCENTRATION_AUDIO_LOSE"`
	Match      string `toml:"match" env:"CONCENTRATION_AUDIO_MATCH"`
}

// Default returns the configuration written on first run
func Default() *Config {
	return &Config{
		DefaultDeck: "",
		TargetMoves: 25,
		TimeLimit:   45,
		FlipDelayMS: 1000,
		Volume:      1,
	}
}

// FlipDelay returns the reveal delay for a mismatched pair
func (c *Config) FlipDelay() time.Duration {
	return time.Duration(c.FlipDelayMS) * time.Millisecond
}

// GetXDGDataHome returns XDG_DATA_HOME or default path
func GetXDGDataHome() string {
	return xdgDir("XDG_DATA_HOME", ".local", "share")
}

// GetXDGConfigHome returns XDG_CONFIG_HOME or default path
func GetXDGConfigHome() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// GetXDGCacheHome returns XDG_CACHE_HOME or default path
func GetXDGCacheHome() string {
	return xdgDir("XDG_CACHE_HOME", ".cache")
}

// GetXDGStateHome returns XDG_STATE_HOME or default path
func GetXDGStateHome() string {
	return xdgDir("XDG_STATE_HOME", ".local", "state")
}

func xdgDir(envVar string, fallback ...string) string {
	if dir := os.Getenv(envVar); dir != "" {
		return dir
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(append([]string{homeDir}, fallback...)...)
}

// GetDeckLibraryPath returns the path to the deck library
func GetDeckLibraryPath() string {
	return filepath.Join(GetXDGDataHome(), appName, "decks")
}

// GetConfigFilePath returns the path to the config file
func GetConfigFilePath() string {
	return filepath.Join(GetXDGConfigHome(), appName, "config.toml")
}

// GetCacheDir returns the cache directory used for rendered card art
func GetCacheDir() string {
	return filepath.Join(GetXDGCacheHome(), appName)
}

// GetLogFilePath returns the path of the play session log
func GetLogFilePath() string {
	return filepath.Join(GetXDGStateHome(), appName, appName+".log")
}

// LoadConfig loads the config file and applies environment overrides
func LoadConfig() (*Config, error) {
	config, err := loadFile()
	if err != nil {
		return nil, err
	}

	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("error parsing environment: %w", err)
	}

	return config, nil
}

// loadFile reads the config file without environment overrides,
// creating it with defaults if it does not exist
func loadFile() (*Config, error) {
	configPath := GetConfigFilePath()

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return createDefaultConfig()
	}

	// Keys missing from the file keep their defaults
	config := Default()
	if _, err := toml.DecodeFile(configPath, config); err != nil {
		return nil, fmt.Errorf("error decoding config file: %w", err)
	}

	return config, nil
}

// createDefaultConfig creates a default config file
func createDefaultConfig() (*Config, error) {
	config := Default()
	if err := writeConfig(config); err != nil {
		return nil, err
	}
	return config, nil
}

func writeConfig(config *Config) error {
	configPath := GetConfigFilePath()

	// Ensure the config directory exists
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(config); err != nil {
		return fmt.Errorf("error encoding config: %w", err)
	}

	file, err := os.Create(configPath)
	if err != nil {
		return fmt.Errorf("error creating config file: %w", err)
	}

	if _, err := file.Write(buf.Bytes()); err != nil {
		file.Close()
		return fmt.Errorf("error writing config file: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}

// GetDeckPath returns the path to a deck, either in the deck library or a relative path.
// URLs and the empty name (the builtin deck) are returned unchanged.
func GetDeckPath(deckName string) (string, error) {
	if deckName == "" || isURL(deckName) {
		return deckName, nil
	}

	// First, try to find the deck in the deck library
	deckPath := filepath.Join(GetDeckLibraryPath(), deckName)
	if _, err := os.Stat(deckPath); err == nil {
		return deckPath, nil
	}

	// If not found in the library, treat as a relative path
	if _, err := os.Stat(deckName); err == nil {
		return deckName, nil
	}

	return "", fmt.Errorf("deck not found: %s", deckName)
}

// GetDefaultDeck returns the default deck name from config
func GetDefaultDeck() (string, error) {
	config, err := LoadConfig()
	if err != nil {
		return "", err
	}

	return config.DefaultDeck, nil
}

// SetDefaultDeck sets the default deck in the config file.
// Environment overrides are not written back.
func SetDefaultDeck(deckName string) error {
	config, err := loadFile()
	if err != nil {
		return err
	}

	config.DefaultDeck = deckName
	return writeConfig(config)
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}
