// Package config provides configuration for the server shell and the
// simulation tuning constants. Shell settings (addresses, intervals, output
// directories) come from the environment, optionally seeded from a .env
// file; the numeric tuning of the simulation itself lives in an embedded
// YAML file, see tuning.go.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full server configuration surface.
type Config struct {
	Server    ServerConfig
	Clock     ClockConfig
	Logging   LoggingConfig
	Reporting ReportingConfig
	Telemetry TelemetryConfig
	Keeper    KeeperConfig

	// ZooName labels the seeded zoo in logs and reports.
	ZooName string

	// Seed fixes the simulation RNG for reproducible runs. 0 means seed
	// from the clock.
	Seed int64

	// TuningPath points at a YAML file overriding the embedded tuning
	// defaults. Empty means embedded defaults only.
	TuningPath string
}

// ServerConfig holds HTTP server related options. The bridge is a local
// single-operator surface, so it binds loopback by default.
type ServerConfig struct {
	Addr string
}

// ClockConfig controls the day clock.
type ClockConfig struct {
	TickInterval time.Duration // Real time between auto-mode days
	AutoStart    bool          // Enter auto mode on boot
}

// LoggingConfig selects log verbosity and encoding.
type LoggingConfig struct {
	Level string // debug, info, warn, error
	Dev   bool   // Console encoder with colors instead of JSON
}

// ReportingConfig holds report output settings.
type ReportingConfig struct {
	Dir          string
	CronSchedule string // Empty disables scheduled export
}

// TelemetryConfig holds daily CSV output settings.
type TelemetryConfig struct {
	Enabled bool
	Dir     string
}

// KeeperConfig toggles the autopilot keeper.
type KeeperConfig struct {
	Enabled bool
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are acceptable when configuration comes from
		// the environment directly.
		_ = godotenv.Load()
	}

	tick, err := time.ParseDuration(getenvWithDefault("OZZOO_TICK_INTERVAL", "2500ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid OZZOO_TICK_INTERVAL: %w", err)
	}

	seed, err := strconv.ParseInt(getenvWithDefault("OZZOO_SEED", "0"), 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid OZZOO_SEED: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Addr: getenvWithDefault("OZZOO_ADDR", "127.0.0.1:8080"),
		},
		Clock: ClockConfig{
			TickInterval: tick,
			AutoStart:    getenvBool("OZZOO_AUTO_START", false),
		},
		Logging: LoggingConfig{
			Level: getenvWithDefault("OZZOO_LOG_LEVEL", "info"),
			Dev:   getenvBool("OZZOO_LOG_DEV", false),
		},
		Reporting: ReportingConfig{
			Dir:          getenvWithDefault("OZZOO_REPORT_DIR", "reports"),
			CronSchedule: os.Getenv("OZZOO_REPORT_CRON"),
		},
		Telemetry: TelemetryConfig{
			Enabled: getenvBool("OZZOO_TELEMETRY", true),
			Dir:     getenvWithDefault("OZZOO_TELEMETRY_DIR", "telemetry"),
		},
		Keeper: KeeperConfig{
			Enabled: getenvBool("OZZOO_KEEPER", false),
		},
		ZooName:    getenvWithDefault("OZZOO_NAME", "OzZoo"),
		Seed:       seed,
		TuningPath: os.Getenv("OZZOO_TUNING"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are sane.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}
	if c.Server.Addr == "" {
		return errors.New("OZZOO_ADDR must not be empty")
	}
	if c.Clock.TickInterval < 100*time.Millisecond {
		return fmt.Errorf("OZZOO_TICK_INTERVAL %s is below the 100ms floor", c.Clock.TickInterval)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("OZZOO_LOG_LEVEL %q is not one of debug/info/warn/error", c.Logging.Level)
	}
	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return b
}
