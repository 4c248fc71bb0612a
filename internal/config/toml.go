// Package config provides configuration helpers and TOML parsing.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/verte-zerg/wordsprint/internal/logging"
	"github.com/verte-zerg/wordsprint/internal/model"
	"github.com/verte-zerg/wordsprint/internal/timer"
)

// DefaultRevealMs is how long a mistyped word stays on screen.
const DefaultRevealMs = 1000

// FileConfig represents the TOML configuration file.
type FileConfig struct {
	Trial TrialConfig `toml:"trial"`
	Log   LogConfig   `toml:"log"`
}

// TrialConfig maps trial-related settings.
type TrialConfig struct {
	WordList  *string `toml:"wordlist"`
	Duration  *int    `toml:"duration"`
	RevealMs  *int    `toml:"reveal-ms"`
	ASCIIOnly *bool   `toml:"ascii-only"`
}

// LogConfig maps logging settings.
type LogConfig struct {
	Level *string `toml:"level"`
	File  *string `toml:"file"`
}

// LoadConfig reads a TOML config from the given path. Missing file is not an error.
func LoadConfig(path string) (FileConfig, error) {
	if path == "" {
		return FileConfig{}, fmt.Errorf("config path is empty")
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return FileConfig{}, nil
		}
		return FileConfig{}, fmt.Errorf("failed to stat config: %w", err)
	}
	var cfg FileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return FileConfig{}, fmt.Errorf("failed to decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return FileConfig{}, fmt.Errorf("unknown config key %q", undecoded[0].String())
	}
	return cfg, nil
}

// Defaults returns the settings used when the config file sets nothing.
func Defaults() model.Config {
	return model.Config{
		WordListPath: DefaultWordListPath(),
		Duration:     timer.DefaultDuration,
		RevealDelay:  DefaultRevealMs * time.Millisecond,
		LogLevel:     logging.DefaultLevel,
		LogPath:      DefaultLogPath(),
	}
}

// Resolve overlays file values onto the defaults.
func Resolve(file FileConfig) model.Config {
	cfg := Defaults()
	if v := file.Trial.WordList; v != nil {
		cfg.WordListPath = *v
	}
	if v := file.Trial.Duration; v != nil {
		cfg.Duration = *v
	}
	if v := file.Trial.RevealMs; v != nil {
		cfg.RevealDelay = time.Duration(*v) * time.Millisecond
	}
	if v := file.Trial.ASCIIOnly; v != nil {
		cfg.ASCIIOnly = *v
	}
	if v := file.Log.Level; v != nil {
		cfg.LogLevel = *v
	}
	if v := file.Log.File; v != nil {
		cfg.LogPath = *v
	}
	return cfg
}

// Validate reports the first invalid setting.
func Validate(cfg model.Config) error {
	if cfg.WordListPath == "" {
		return fmt.Errorf("trial.wordlist must not be empty")
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("trial.duration must be > 0")
	}
	if cfg.RevealDelay < 0 {
		return fmt.Errorf("trial.reveal-ms must be >= 0")
	}
	if _, err := logging.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if cfg.LogPath == "" {
		return fmt.Errorf("log.file must not be empty")
	}
	return nil
}

// DefaultTemplate is written by the config subcommand when no file exists.
func DefaultTemplate() string {
	return fmt.Sprintf(`# wordsprint configuration
# Uncomment a value to enable it.

[trial]
# wordlist = %q   # One word per line, UTF-8
# duration = %d              # Trial length in seconds
# reveal-ms = %d           # How long a mistyped word is shown
# ascii-only = false         # Keep only lowercase a-z words

[log]
# level = %q             # debug, info, warn, error
# file = %q
`,
		DefaultWordListPath(),
		timer.DefaultDuration,
		DefaultRevealMs,
		logging.DefaultLevel,
		DefaultLogPath(),
	)
}
