// Package config loads server settings from the environment.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"game-interactor/internal/game"
	"game-interactor/internal/observability"
	"game-interactor/internal/randomizer/fishsanity"
	"game-interactor/logging"
)

const (
	DefaultTickRate        = 20
	DefaultCommandCapacity = 256
	DefaultPerClientLimit  = 8
	DefaultReplyTimeout    = 5 * time.Second

	maxTickRate = 240
)

// Config holds every tunable of the interaction server.
type Config struct {
	ListenAddr      string        `env:"GAME_INTERACTOR_ADDR" envDefault:":8080"`
	Seed            string        `env:"GAME_INTERACTOR_SEED" envDefault:"interactor"`
	TickRate        int           `env:"GAME_INTERACTOR_TICK_RATE" envDefault:"20"`
	CatchupMaxTicks int           `env:"GAME_INTERACTOR_CATCHUP_MAX_TICKS" envDefault:"3"`
	CommandCapacity int           `env:"GAME_INTERACTOR_COMMAND_CAPACITY" envDefault:"256"`
	PerClientLimit  int           `env:"GAME_INTERACTOR_PER_CLIENT_LIMIT" envDefault:"8"`
	ReplyTimeout    time.Duration `env:"GAME_INTERACTOR_REPLY_TIMEOUT" envDefault:"5s"`
	CatalogPaths    []string      `env:"GAME_INTERACTOR_CATALOG_PATHS" envSeparator:","`
	LedgerPath      string        `env:"GAME_INTERACTOR_LEDGER_PATH" envDefault:"interactions.db"`
	LogSinks        []string      `env:"GAME_INTERACTOR_LOG_SINKS" envSeparator:"," envDefault:"console"`
	LogJSONPath     string        `env:"GAME_INTERACTOR_LOG_JSON_PATH" envDefault:"interactions.ndjson"`
	LogLevel        string        `env:"GAME_INTERACTOR_LOG_LEVEL" envDefault:"info"`
	LogColor        bool          `env:"GAME_INTERACTOR_LOG_COLOR" envDefault:"false"`
	EnablePprof     bool          `env:"GAME_INTERACTOR_ENABLE_PPROF" envDefault:"false"`

	FishsanityMode     string `env:"GAME_INTERACTOR_FISHSANITY_MODE" envDefault:"off"`
	FishsanityPondFish uint8  `env:"GAME_INTERACTOR_FISHSANITY_POND_FISH" envDefault:"0"`
	FishsanityAgeSplit bool   `env:"GAME_INTERACTOR_FISHSANITY_AGE_SPLIT" envDefault:"false"`
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load parses the environment into a normalized Config.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	return cfg.Normalized(), nil
}

// Normalized clamps out-of-range values back to their defaults.
func (c Config) Normalized() Config {
	normalized := c
	normalized.ListenAddr = strings.TrimSpace(normalized.ListenAddr)
	if normalized.ListenAddr == "" {
		normalized.ListenAddr = ":8080"
	}
	normalized.Seed = strings.TrimSpace(normalized.Seed)
	if normalized.Seed == "" {
		normalized.Seed = game.DefaultSeed
	}
	if normalized.TickRate <= 0 {
		normalized.TickRate = DefaultTickRate
	}
	if normalized.TickRate > maxTickRate {
		normalized.TickRate = maxTickRate
	}
	if normalized.CatchupMaxTicks < 0 {
		normalized.CatchupMaxTicks = 0
	}
	if normalized.CommandCapacity <= 0 {
		normalized.CommandCapacity = DefaultCommandCapacity
	}
	if normalized.PerClientLimit < 0 {
		normalized.PerClientLimit = 0
	}
	if normalized.ReplyTimeout <= 0 {
		normalized.ReplyTimeout = DefaultReplyTimeout
	}
	normalized.CatalogPaths = trimAll(normalized.CatalogPaths)
	normalized.LedgerPath = strings.TrimSpace(normalized.LedgerPath)
	normalized.LogSinks = trimAll(normalized.LogSinks)
	for i, sink := range normalized.LogSinks {
		normalized.LogSinks[i] = strings.ToLower(sink)
	}
	if _, ok := logging.ParseSeverity(normalized.LogLevel); !ok {
		normalized.LogLevel = "info"
	}
	mode, err := fishsanity.ParseMode(normalized.FishsanityMode)
	if err != nil {
		mode = fishsanity.ModeOff
	}
	normalized.FishsanityMode = mode.String()
	if normalized.FishsanityPondFish > fishsanity.MaxPondFish {
		normalized.FishsanityPondFish = fishsanity.MaxPondFish
	}
	return normalized
}

// Logging builds the router configuration for the selected sinks.
func (c Config) Logging() logging.Config {
	cfg := logging.DefaultConfig()
	if len(c.LogSinks) > 0 {
		cfg.EnabledSinks = append([]string(nil), c.LogSinks...)
	}
	severity, _ := logging.ParseSeverity(c.LogLevel)
	cfg.MinimumSeverity = severity
	if path := strings.TrimSpace(c.LogJSONPath); path != "" {
		cfg.JSON.FilePath = path
	}
	cfg.Console.UseColor = c.LogColor
	cfg.Fields = map[string]any{"seed": c.Seed}
	return cfg
}

// Observability returns the opt-in diagnostics toggles.
func (c Config) Observability() observability.Config {
	return observability.Config{EnablePprof: c.EnablePprof}
}

// Fishsanity returns the pond options used for both option sources.
func (c Config) Fishsanity() fishsanity.PondOptions {
	mode, _ := fishsanity.ParseMode(c.FishsanityMode)
	return fishsanity.PondOptions{
		Mode:     mode,
		NumFish:  c.FishsanityPondFish,
		AgeSplit: c.FishsanityAgeSplit,
	}
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}

func trimAll(values []string) []string {
	out := values[:0:0]
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
