package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/teaching-board/internal/board"
	"github.com/username/teaching-board/internal/daemon"
	"github.com/username/teaching-board/internal/holiday"
	"github.com/username/teaching-board/internal/sharelink"
)

func showCmd() *cobra.Command {
	var token string
	var nowStr string
	var weekOnly bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the timetable and teaching calendar",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := parseNow(nowStr)
			if err != nil {
				return err
			}

			svc, _ := newService()
			v := svc.Load(cmd.Context(), tokenFromArg(token), now)
			return board.WriteText(cmd.OutOrStdout(), v, weekOnly)
		},
	}

	cmd.Flags().StringVarP(&token, "token", "t", "", "Config token or share link (default config when empty)")
	cmd.Flags().StringVar(&nowStr, "now", "", "Render as of YYYY-MM-DDTHH:MM instead of now")
	cmd.Flags().BoolVar(&weekOnly, "week", false, "Only print the current week of the calendar")

	return cmd
}

// watcher keeps one decoded config and re-renders it as the clock moves
type watcher struct {
	svc    *board.Service
	out    io.Writer
	config *sharelink.AppConfig
}

func (w *watcher) view(now time.Time) *board.View {
	return w.svc.View(w.config, now)
}

// onDayChange loads the holidays the new date needs and prints today's week
func (w *watcher) onDayChange(ctx context.Context) func(time.Time) {
	return func(now time.Time) {
		if r, err := w.config.DateRange(); err == nil {
			w.svc.EnsureYears(ctx, holiday.YearsFor(now, r))
		}
		if err := board.WriteText(w.out, w.view(now), true); err != nil {
			logger.Warn("Failed to render board", zap.Error(err))
		}
	}
}

func (w *watcher) onTick(now time.Time) {
	fmt.Fprintln(w.out, w.view(now).Status())
}

func watchCmd() *cobra.Command {
	var token string
	var simulate bool
	var startStr string
	var step time.Duration
	var tray bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Follow the current lesson live",
		Long:  "Print the current lesson on every tick and the week on every date change. With --simulate the clock starts at --start and advances --step per tick.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := daemon.Options{
				Interval: cfg.Clock.GetTickInterval(),
				Simulate: cfg.Clock.Simulate || simulate,
				Start:    cfg.Clock.GetSimulateStart(),
				Step:     cfg.Clock.GetSimulateStep(),
			}
			if startStr != "" {
				start, err := parseNow(startStr)
				if err != nil {
					return err
				}
				opts.Start = start
			}
			if step > 0 {
				opts.Step = step
			}
			clock := daemon.NewClock(opts, logger)

			res := sharelink.Load(tokenFromArg(token), clock.Now())
			if res.Defaulted {
				fmt.Fprintln(cmd.ErrOrStderr(), res.Warning)
			}

			svc, _ := newService()
			w := &watcher{svc: svc, out: cmd.OutOrStdout(), config: res.Config}

			ctx := cmd.Context()
			clock.OnDayChange(w.onDayChange(ctx))

			if tray || cfg.Tray.Enabled {
				app, err := daemon.NewTrayApp(clock, func(now time.Time) string {
					return w.view(now).Status()
				}, logger)
				if err == nil {
					logger.Info("Starting system tray")
					app.Run()
					return nil
				}
				if !errors.Is(err, daemon.ErrTrayUnsupported) {
					return err
				}
				logger.Warn("System tray unavailable, printing to terminal", zap.Error(err))
			}

			clock.OnTick(w.onTick)
			return clock.RunUntilSignal(ctx)
		},
	}

	cmd.Flags().StringVarP(&token, "token", "t", "", "Config token or share link (default config when empty)")
	cmd.Flags().BoolVar(&simulate, "simulate", false, "Use a simulated clock")
	cmd.Flags().StringVar(&startStr, "start", "", "Simulated start YYYY-MM-DDTHH:MM (clock.simulate_start)")
	cmd.Flags().DurationVar(&step, "step", 0, "Simulated time added per tick (clock.simulate_step)")
	cmd.Flags().BoolVar(&tray, "tray", false, "Show the current lesson in the system tray (Windows)")

	return cmd
}
