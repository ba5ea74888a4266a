package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes environment overrides, e.g. TBOARD_SERVER_ADDR
const EnvPrefix = "TBOARD"

// SimulateStartLayout is the format of clock.simulate_start
const SimulateStartLayout = "2006-01-02T15:04"

// Config represents application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Holiday HolidayConfig `mapstructure:"holiday"`
	Display DisplayConfig `mapstructure:"display"`
	Clock   ClockConfig   `mapstructure:"clock"`
	Log     LogConfig     `mapstructure:"log"`
	Tray    TrayConfig    `mapstructure:"tray"`
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	BaseURL         string `mapstructure:"base_url"` // Public URL used in generated links; request host when empty
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	IdleTimeout     string `mapstructure:"idle_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
	// Export routes are limited per client IP
	ExportRate  float64 `mapstructure:"export_rate"` // requests per second, 0 disables the limit
	ExportBurst int     `mapstructure:"export_burst"`
}

// HolidayConfig represents the holiday feed configuration
type HolidayConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	FeedURL      string `mapstructure:"feed_url"`
	FallbackFile string `mapstructure:"fallback_file"` // Same JSON shape as the feed, used when the feed fails
	CacheTTL     string `mapstructure:"cache_ttl"`
	Timeout      string `mapstructure:"timeout"`
	RefreshCron  string `mapstructure:"refresh_cron"` // Standard 5-field spec, empty disables
}

// DisplayConfig represents rendering options
type DisplayConfig struct {
	Weekdays       int      `mapstructure:"weekdays"` // 5 or 7
	HideYear       bool     `mapstructure:"hide_year"`
	HighlightToday bool     `mapstructure:"highlight_today"`
	WeekdayLabels  []string `mapstructure:"weekday_labels"`
}

// ClockConfig represents the live indicator clock
type ClockConfig struct {
	TickInterval  string `mapstructure:"tick_interval"`
	Simulate      bool   `mapstructure:"simulate"`
	SimulateStart string `mapstructure:"simulate_start"` // YYYY-MM-DDTHH:MM, local time
	SimulateStep  string `mapstructure:"simulate_step"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// TrayConfig represents the system tray (Windows only)
type TrayConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_url", "")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "10s")
	v.SetDefault("server.export_rate", 1.0)
	v.SetDefault("server.export_burst", 5)

	v.SetDefault("holiday.enabled", true)
	v.SetDefault("holiday.feed_url", "")
	v.SetDefault("holiday.fallback_file", "")
	v.SetDefault("holiday.cache_ttl", "24h")
	v.SetDefault("holiday.timeout", "10s")
	v.SetDefault("holiday.refresh_cron", "0 3 * * *")

	v.SetDefault("display.weekdays", 5)
	v.SetDefault("display.hide_year", false)
	v.SetDefault("display.highlight_today", true)
	v.SetDefault("display.weekday_labels", []string{})

	v.SetDefault("clock.tick_interval", "1s")
	v.SetDefault("clock.simulate", false)
	v.SetDefault("clock.simulate_start", "")
	v.SetDefault("clock.simulate_step", "1h")

	v.SetDefault("log.file", "")
	v.SetDefault("log.level", "info")

	v.SetDefault("tray.enabled", false)
}

// Load loads configuration from file. With an empty path the usual
// locations are searched and a missing file is not an error.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.teaching-board")
		v.AddConfigPath("/etc/teaching-board")
	}

	// Read environment variables
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.BaseURL != "" {
		u, err := url.Parse(c.Server.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("server.base_url must be an absolute URL, got '%s'", c.Server.BaseURL)
		}
	}
	if c.Server.ExportRate < 0 {
		return fmt.Errorf("server.export_rate must not be negative")
	}
	if c.Server.ExportRate > 0 && c.Server.ExportBurst <= 0 {
		return fmt.Errorf("server.export_burst must be positive when export_rate is set")
	}

	if c.Holiday.RefreshCron != "" {
		if _, err := cron.ParseStandard(c.Holiday.RefreshCron); err != nil {
			return fmt.Errorf("holiday.refresh_cron is invalid: %w", err)
		}
	}

	if c.Display.Weekdays != 5 && c.Display.Weekdays != 7 {
		return fmt.Errorf("display.weekdays must be 5 or 7, got %d", c.Display.Weekdays)
	}
	if n := len(c.Display.WeekdayLabels); n != 0 && n != 7 {
		return fmt.Errorf("display.weekday_labels must list 7 labels, got %d", n)
	}

	if c.Clock.SimulateStart != "" {
		if _, err := time.ParseInLocation(SimulateStartLayout, c.Clock.SimulateStart, time.Local); err != nil {
			return fmt.Errorf("clock.simulate_start must be YYYY-MM-DDTHH:MM: %w", err)
		}
	}

	switch strings.ToLower(c.Log.Level) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got '%s'", c.Log.Level)
	}

	return nil
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	duration, err := time.ParseDuration(s)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}

// GetReadTimeout returns the HTTP read timeout
func (c *ServerConfig) GetReadTimeout() time.Duration {
	return parseDuration(c.ReadTimeout, 15*time.Second)
}

// GetWriteTimeout returns the HTTP write timeout
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	return parseDuration(c.WriteTimeout, 15*time.Second)
}

// GetIdleTimeout returns the HTTP idle timeout
func (c *ServerConfig) GetIdleTimeout() time.Duration {
	return parseDuration(c.IdleTimeout, 60*time.Second)
}

// GetShutdownTimeout returns how long graceful shutdown may take
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDuration(c.ShutdownTimeout, 10*time.Second)
}

// GetCacheTTL returns cache TTL duration
func (c *HolidayConfig) GetCacheTTL() time.Duration {
	return parseDuration(c.CacheTTL, 24*time.Hour)
}

// GetTimeout returns the feed request timeout
func (c *HolidayConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

// GetTickInterval returns the clock tick interval
func (c *ClockConfig) GetTickInterval() time.Duration {
	return parseDuration(c.TickInterval, time.Second)
}

// GetSimulateStep returns how far a simulated clock advances per tick
func (c *ClockConfig) GetSimulateStep() time.Duration {
	return parseDuration(c.SimulateStep, time.Hour)
}

// GetSimulateStart returns the simulated start, zero when unset or invalid
func (c *ClockConfig) GetSimulateStart() time.Time {
	if c.SimulateStart == "" {
		return time.Time{}
	}
	t, err := time.ParseInLocation(SimulateStartLayout, c.SimulateStart, time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// ExpandEnvVars expands environment variables in config strings
func (c *Config) ExpandEnvVars() {
	c.Holiday.FeedURL = os.ExpandEnv(c.Holiday.FeedURL)
	c.Holiday.FallbackFile = os.ExpandEnv(c.Holiday.FallbackFile)
	c.Log.File = os.ExpandEnv(c.Log.File)
	c.Server.BaseURL = os.ExpandEnv(c.Server.BaseURL)
}
