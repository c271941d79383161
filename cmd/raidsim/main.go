// raidsim is a deterministic, tick-driven gameplay simulation core for
// tile-based action levels, with a terminal host for driving sessions.
//
// Usage:
//
//	raidsim run               - Run a headless session and print events
//	raidsim watch             - Drive a session interactively in the terminal
//	raidsim replay            - Run the same session twice and verify determinism
//	raidsim saves             - Manage stored save games
//
// Global flags:
//
//	--seed <value>    - RNG seed for reproducible sessions
//	--db <path>       - Save database path (default: ~/.raidsim/saves.db)
//	--config <path>   - Custom simulator config YAML
//	--preset <name>   - Config preset: dev or release
//	--level <path>    - Level YAML (default: embedded demo)
//	--defs <path>     - Definitions YAML (default: embedded base mod)
//	--log-level <lv>  - Log level: debug, info, warn, error
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/raidsim/internal/config"
	"github.com/vovakirdan/raidsim/internal/level"
	"github.com/vovakirdan/raidsim/internal/sim"
)

var (
	// Global flags
	flagSeed     int64
	flagDBPath   string
	flagConfig   string
	flagPreset   string
	flagLevel    string
	flagDefs     string
	flagLogLevel string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "raidsim",
	Short: "Deterministic tile-based action simulation core",
	Long: `raidsim runs a deterministic, tick-driven gameplay simulation:
doors, secret push-walls, scripted actors, and weapon slots advance as
independently-timed state machines at 70 tics per second, and every
observable change streams out as a typed event.

Available commands:
  run      - Headless session, events printed to the log
  watch    - Interactive terminal session with a live map
  replay   - Determinism check: identical runs must match exactly
  saves    - List, inspect, and delete stored save games

Examples:
  raidsim run --tics 700 --seed 42
  raidsim watch
  raidsim replay --tics 2000
  raidsim saves list`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = time-based)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.raidsim/saves.db", "Path to save database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom simulator config YAML")
	rootCmd.PersistentFlags().StringVar(&flagPreset, "preset", "", "Config preset: dev, release")
	rootCmd.PersistentFlags().StringVar(&flagLevel, "level", "", "Path to level YAML (default: embedded demo)")
	rootCmd.PersistentFlags().StringVar(&flagDefs, "defs", "", "Path to definitions YAML (default: embedded base mod)")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(savesCmd)
}

// newLogger builds the CLI logger from the global flags.
func newLogger() *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
	})
	if lv, err := log.ParseLevel(flagLogLevel); err == nil {
		logger.SetLevel(lv)
	}
	return logger
}

// loadContent resolves the level and definitions from the flags,
// falling back to the embedded demo content.
func loadContent() (*level.Level, *level.Definitions, error) {
	if flagLevel == "" && flagDefs == "" {
		l, d := level.Demo()
		return l, d, nil
	}
	if flagLevel == "" || flagDefs == "" {
		return nil, nil, fmt.Errorf("--level and --defs must be given together")
	}
	l, err := level.LoadLevel(flagLevel)
	if err != nil {
		return nil, nil, err
	}
	d, err := level.LoadDefinitions(flagDefs)
	if err != nil {
		return nil, nil, err
	}
	return l, d, nil
}

// loadConfig resolves the simulator config from the flags.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, err
	}
	if flagPreset != "" {
		if err := config.ApplyPreset(&cfg, config.Preset(flagPreset)); err != nil {
			return cfg, err
		}
	}
	return cfg, nil
}

// seed returns the session seed: the flag value, or the current time
// when unset.
func seed() int64 {
	if flagSeed != 0 {
		return flagSeed
	}
	return time.Now().UnixNano()
}

// newSimulator wires the flags into a ready simulator.
func newSimulator(logger *log.Logger, sessionSeed int64) (*sim.Simulator, error) {
	lvl, defs, err := loadContent()
	if err != nil {
		return nil, err
	}
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return sim.New(lvl, defs, cfg, sessionSeed, logger)
}
