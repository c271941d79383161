// Package config provides YAML-based configuration for the simulation
// core: scripting policy, state-machine limits, and gameplay timing
// constants that mods may tune.
package config

import "fmt"

// MissingFuncPolicy decides what happens when a state references a
// script function the sandbox cannot resolve at call time.
type MissingFuncPolicy string

const (
	// MissingFuncWarn logs the miss and treats the call as a no-op.
	MissingFuncWarn MissingFuncPolicy = "warn"
	// MissingFuncFatal treats the miss as a configuration error.
	MissingFuncFatal MissingFuncPolicy = "fatal"
)

// Config contains all simulator tunables.
type Config struct {
	Script   ScriptConfig   `yaml:"script"`
	States   StatesConfig   `yaml:"states"`
	Doors    DoorsConfig    `yaml:"doors"`
	Gameplay GameplayConfig `yaml:"gameplay"`
}

// ScriptConfig controls the sandbox.
type ScriptConfig struct {
	// MissingFunc is the undefined-function policy. Development builds
	// want "warn" so a half-written mod still runs; release builds want
	// "fatal" so authoring bugs surface immediately.
	MissingFunc MissingFuncPolicy `yaml:"missing_func"`
}

// StatesConfig controls the state-machine runtime.
type StatesConfig struct {
	// MaxChain caps how many zero-duration transitions one entity may
	// resolve within a single tic. Exceeding it raises a configuration
	// error event instead of hanging the tic.
	MaxChain int `yaml:"max_chain"`
}

// DoorsConfig controls door timing.
type DoorsConfig struct {
	OpenTics      int `yaml:"open_tics"`       // Tics for a full slide
	AutoCloseTics int `yaml:"auto_close_tics"` // Open dwell before auto-close
}

// GameplayConfig holds player-facing tunables.
type GameplayConfig struct {
	PlayerHealth int `yaml:"player_health"`
	StartBullets int `yaml:"start_bullets"`
}

// Preset names a bundled configuration profile.
type Preset string

const (
	PresetDev     Preset = "dev"
	PresetRelease Preset = "release"
)

// Default returns the development configuration.
func Default() Config {
	return Config{
		Script:   ScriptConfig{MissingFunc: MissingFuncWarn},
		States:   StatesConfig{MaxChain: 8},
		Doors:    DoorsConfig{OpenTics: 64, AutoCloseTics: 300},
		Gameplay: GameplayConfig{PlayerHealth: 100, StartBullets: 8},
	}
}

// ApplyPreset adjusts cfg for a named profile.
func ApplyPreset(cfg *Config, preset Preset) error {
	switch preset {
	case PresetDev:
		cfg.Script.MissingFunc = MissingFuncWarn
	case PresetRelease:
		cfg.Script.MissingFunc = MissingFuncFatal
	default:
		return fmt.Errorf("config: unknown preset %q", preset)
	}
	return nil
}

// Validate checks the configuration for values the simulator cannot
// run with.
func (c Config) Validate() error {
	switch c.Script.MissingFunc {
	case MissingFuncWarn, MissingFuncFatal:
	default:
		return fmt.Errorf("config: invalid missing_func policy %q", c.Script.MissingFunc)
	}
	if c.States.MaxChain < 1 {
		return fmt.Errorf("config: max_chain must be at least 1, got %d", c.States.MaxChain)
	}
	if c.Doors.OpenTics < 1 {
		return fmt.Errorf("config: open_tics must be at least 1, got %d", c.Doors.OpenTics)
	}
	if c.Gameplay.PlayerHealth < 1 {
		return fmt.Errorf("config: player_health must be positive, got %d", c.Gameplay.PlayerHealth)
	}
	return nil
}
