package client

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// countdownTick is the pre-game countdown's decrement interval.
const countdownTick = time.Second

// Config holds the engine's timing knobs and local persistence path. The
// durations are client-scheduled side effects, not server ticks.
type Config struct {
	// CountdownStart is the pre-game countdown's starting value.
	CountdownStart int `yaml:"countdown_start"`
	// ForcedGuessDelaySec is how long to wait before auto-guessing the last
	// remaining number on behalf of the current player.
	ForcedGuessDelaySec int `yaml:"forced_guess_delay_sec"`
	// JoinTimeoutSec bounds how long a join attempt may sit unanswered.
	JoinTimeoutSec int `yaml:"join_timeout_sec"`
	// AutoReturnDelaySec is the finished-screen countdown before the client
	// requests a restart on its own.
	AutoReturnDelaySec int `yaml:"auto_return_delay_sec"`
	// NameFile overrides where the player's display name is persisted.
	// Empty means the default path under the user config dir.
	NameFile string `yaml:"name_file"`
}

// DefaultConfig returns the default engine configuration.
func DefaultConfig() Config {
	return Config{
		CountdownStart:      5,
		ForcedGuessDelaySec: 3,
		JoinTimeoutSec:      5,
		AutoReturnDelaySec:  20,
	}
}

// LoadConfig reads a YAML config file over the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}

func (c Config) forcedGuessDelay() time.Duration {
	return time.Duration(c.ForcedGuessDelaySec) * time.Second
}

func (c Config) joinTimeout() time.Duration {
	return time.Duration(c.JoinTimeoutSec) * time.Second
}

func (c Config) autoReturnDelay() time.Duration {
	return time.Duration(c.AutoReturnDelaySec) * time.Second
}
