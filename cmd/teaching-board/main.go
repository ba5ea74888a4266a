package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/username/teaching-board/internal/board"
	"github.com/username/teaching-board/internal/config"
	"github.com/username/teaching-board/internal/holiday"
)

var (
	configPath string
	envFile    string
	cfg        *config.Config
	logger     *zap.Logger
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "teaching-board",
		Short: "Weekly timetable and teaching calendar",
		Long:  "Render a teacher's weekly timetable and multi-month teaching calendar from a shareable config link",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load %s: %w", envFile, err)
			}

			var err error
			cfg, err = config.Load(configPath)
			if err != nil {
				initLogger("info")
				return err
			}
			cfg.ExpandEnvVars()

			if cfg.Log.File != "" {
				logger, err = initFileLogger(cfg.Log.File, cfg.Log.Level)
				if err != nil {
					initLogger(cfg.Log.Level) // Fallback to console
				}
			} else {
				initLogger(cfg.Log.Level)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (searched in ., ~/.teaching-board, /etc/teaching-board when empty)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Environment file loaded before the config")

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(linkCmd())
	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(showCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(exportCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newService wires the holiday source and the board service. The feed
// client is returned so scheduled refreshes can bypass its cache; it is nil
// when holidays are disabled.
func newService() (*board.Service, *holiday.FeedClient) {
	var source holiday.Source = holiday.StaticSource{}
	var feed *holiday.FeedClient

	if cfg.Holiday.Enabled {
		logger.Info("Using holiday feed", zap.String("url", cfg.Holiday.FeedURL))
		feed = holiday.NewFeedClient(
			cfg.Holiday.FeedURL,
			cfg.Holiday.GetTimeout(),
			cfg.Holiday.GetCacheTTL(),
			logger,
		)
		source = feed

		if cfg.Holiday.FallbackFile != "" {
			fallback := holiday.NewFileSource(afero.NewOsFs(), cfg.Holiday.FallbackFile, logger)
			source = holiday.NewCompositeSource(feed, fallback, logger)
		}
	} else {
		logger.Info("Holiday feed disabled")
	}

	opts := board.Options{
		Days:           cfg.Display.Weekdays,
		HideYear:       cfg.Display.HideYear,
		HighlightToday: cfg.Display.HighlightToday,
		WeekdayLabels:  cfg.Display.WeekdayLabels,
	}
	return board.NewService(source, opts, logger), feed
}

// parseNow reads a --now flag, wall-clock time when empty
func parseNow(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	t, err := time.ParseInLocation(config.SimulateStartLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --now %q, want YYYY-MM-DDTHH:MM: %w", s, err)
	}
	return t, nil
}

func initLogger(level string) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err == nil {
		config.Level = zap.NewAtomicLevelAt(zapLevel)
	}

	var err error
	logger, err = config.Build()
	if err != nil {
		panic(fmt.Sprintf("failed to initialize logger: %v", err))
	}
}

func initFileLogger(logFile string, level string) (*zap.Logger, error) {
	// Setup lumberjack for log rotation
	logWriter := &lumberjack.Logger{
		Filename:   logFile,
		MaxSize:    100,  // MB
		MaxBackups: 3,    // Keep max 3 old log files
		MaxAge:     28,   // days
		Compress:   true, // Compress old logs with gzip
	}

	encoderConfig := zap.NewProductionEncoderConfig()
	encoderConfig.TimeKey = "timestamp"
	encoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig),
		zapcore.AddSync(logWriter),
		zapLevel,
	)

	return zap.New(core), nil
}
