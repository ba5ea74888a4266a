package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const sampleYAML = `
server:
  addr: ":9090"
  base_url: "https://board.example.com/"
  read_timeout: "5s"
holiday:
  enabled: true
  fallback_file: "/var/lib/teaching-board/holidays.json"
  timeout: "3s"
  refresh_cron: "30 4 * * *"
display:
  weekdays: 5
  hide_year: true
clock:
  simulate: true
  simulate_start: "2025-09-09T20:00"
  simulate_step: "30m"
log:
  level: debug
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q, want :9090", cfg.Server.Addr)
	}
	if got := cfg.Server.GetReadTimeout(); got != 5*time.Second {
		t.Errorf("GetReadTimeout() = %v, want 5s", got)
	}
	if got := cfg.Server.GetWriteTimeout(); got != 15*time.Second {
		t.Errorf("GetWriteTimeout() = %v, want default 15s", got)
	}
	if cfg.Server.ExportBurst != 5 {
		t.Errorf("Server.ExportBurst = %d, want default 5", cfg.Server.ExportBurst)
	}
	if got := cfg.Holiday.GetTimeout(); got != 3*time.Second {
		t.Errorf("GetTimeout() = %v, want 3s", got)
	}
	if got := cfg.Holiday.GetCacheTTL(); got != 24*time.Hour {
		t.Errorf("GetCacheTTL() = %v, want 24h", got)
	}
	if cfg.Display.Weekdays != 5 || !cfg.Display.HideYear || !cfg.Display.HighlightToday {
		t.Errorf("Display = %+v", cfg.Display)
	}
	if got := cfg.Clock.GetSimulateStep(); got != 30*time.Minute {
		t.Errorf("GetSimulateStep() = %v, want 30m", got)
	}
	want := time.Date(2025, 9, 9, 20, 0, 0, 0, time.Local)
	if got := cfg.Clock.GetSimulateStart(); !got.Equal(want) {
		t.Errorf("GetSimulateStart() = %v, want %v", got, want)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("TBOARD_SERVER_ADDR", ":7070")
	t.Setenv("TBOARD_DISPLAY_WEEKDAYS", "7")

	cfg, err := Load(writeConfig(t, sampleYAML))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("Server.Addr = %q, want :7070 from env", cfg.Server.Addr)
	}
	if cfg.Display.Weekdays != 7 {
		t.Errorf("Display.Weekdays = %d, want 7 from env", cfg.Display.Weekdays)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() with missing file = nil error")
	}
}

func TestLoad_Invalid(t *testing.T) {
	if _, err := Load(writeConfig(t, "display:\n  weekdays: 6\n")); err == nil {
		t.Error("Load() with weekdays 6 = nil error")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Server:  ServerConfig{Addr: ":8080", ExportRate: 1, ExportBurst: 5},
			Holiday: HolidayConfig{RefreshCron: "0 3 * * *"},
			Display: DisplayConfig{Weekdays: 7},
			Log:     LogConfig{Level: "info"},
		}
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "no addr", mutate: func(c *Config) { c.Server.Addr = "" }, wantErr: true},
		{name: "relative base url", mutate: func(c *Config) { c.Server.BaseURL = "/board" }, wantErr: true},
		{name: "absolute base url", mutate: func(c *Config) { c.Server.BaseURL = "http://localhost:8080" }},
		{name: "negative rate", mutate: func(c *Config) { c.Server.ExportRate = -1 }, wantErr: true},
		{name: "rate without burst", mutate: func(c *Config) { c.Server.ExportBurst = 0 }, wantErr: true},
		{name: "rate disabled", mutate: func(c *Config) { c.Server.ExportRate = 0; c.Server.ExportBurst = 0 }},
		{name: "bad cron", mutate: func(c *Config) { c.Holiday.RefreshCron = "every day" }, wantErr: true},
		{name: "cron disabled", mutate: func(c *Config) { c.Holiday.RefreshCron = "" }},
		{name: "six weekdays", mutate: func(c *Config) { c.Display.Weekdays = 6 }, wantErr: true},
		{name: "five weekdays", mutate: func(c *Config) { c.Display.Weekdays = 5 }},
		{name: "short labels", mutate: func(c *Config) { c.Display.WeekdayLabels = []string{"Mon"} }, wantErr: true},
		{name: "bad simulate start", mutate: func(c *Config) { c.Clock.SimulateStart = "2025-09-09 20:00" }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "verbose" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDurationFallbacks(t *testing.T) {
	tests := []struct {
		name string
		got  time.Duration
		want time.Duration
	}{
		{name: "empty", got: (&ClockConfig{}).GetTickInterval(), want: time.Second},
		{name: "garbage", got: (&HolidayConfig{CacheTTL: "soon"}).GetCacheTTL(), want: 24 * time.Hour},
		{name: "negative", got: (&ServerConfig{IdleTimeout: "-5s"}).GetIdleTimeout(), want: 60 * time.Second},
		{name: "set", got: (&ServerConfig{ShutdownTimeout: "2s"}).GetShutdownTimeout(), want: 2 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("duration = %v, want %v", tt.got, tt.want)
			}
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "log:\n  level: info\n"))
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q, want :8080", cfg.Server.Addr)
	}
	if cfg.Display.Weekdays != 5 {
		t.Errorf("Display.Weekdays = %d, want 5", cfg.Display.Weekdays)
	}
	if cfg.Holiday.RefreshCron != "0 3 * * *" {
		t.Errorf("Holiday.RefreshCron = %q", cfg.Holiday.RefreshCron)
	}
	if cfg.Clock.Simulate || !cfg.Clock.GetSimulateStart().IsZero() {
		t.Errorf("Clock = %+v, want real time", cfg.Clock)
	}
}
