package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/sourcegraph/conc/pool"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/username/teaching-board/internal/board"
	"github.com/username/teaching-board/internal/calendar"
	"github.com/username/teaching-board/internal/daemon"
	"github.com/username/teaching-board/internal/holiday"
	"github.com/username/teaching-board/internal/web"
)

func serveCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web viewer, authoring form and API",
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr != "" {
				cfg.Server.Addr = addr
			}

			gin.SetMode(gin.ReleaseMode)

			svc, feed := newService()
			clock := daemon.NewClock(daemon.Options{
				Interval: cfg.Clock.GetTickInterval(),
				Simulate: cfg.Clock.Simulate,
				Start:    cfg.Clock.GetSimulateStart(),
				Step:     cfg.Clock.GetSimulateStep(),
			}, logger)

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Load this year's and next year's holidays up front
			if err := svc.RefreshHolidays(ctx, holiday.YearsFor(clock.Now(), calendar.DateRange{})); err != nil {
				logger.Warn("Initial holiday load incomplete", zap.Error(err))
			}

			// A new date may start a new year
			clock.OnDayChange(func(now time.Time) {
				svc.EnsureYears(ctx, holiday.YearsFor(now, calendar.DateRange{}))
			})

			router, err := web.NewRouter(web.Deps{
				Board:  svc,
				Server: cfg.Server,
				Now:    clock.Now,
				Logger: logger,
			})
			if err != nil {
				return fmt.Errorf("failed to build router: %w", err)
			}
			srv := web.NewHTTPServer(cfg.Server, router)

			scheduler, err := newRefreshScheduler(svc, feed)
			if err != nil {
				return err
			}

			p := pool.New().WithContext(ctx).WithCancelOnError()

			p.Go(func(ctx context.Context) error {
				logger.Info("HTTP server listening", zap.String("addr", srv.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			})

			p.Go(func(ctx context.Context) error {
				<-ctx.Done()
				logger.Info("Shutting down")

				shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GetShutdownTimeout())
				defer cancel()
				if scheduler != nil {
					<-scheduler.Stop().Done()
				}
				clock.Stop()
				return srv.Shutdown(shutdownCtx)
			})

			p.Go(func(ctx context.Context) error {
				return clock.Run(ctx)
			})

			if scheduler != nil {
				scheduler.Start()
			}

			if err := p.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			logger.Info("Server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides server.addr)")

	return cmd
}

// newRefreshScheduler schedules the holiday refresh, nil when disabled
func newRefreshScheduler(svc *board.Service, feed *holiday.FeedClient) (*cron.Cron, error) {
	if feed == nil || cfg.Holiday.RefreshCron == "" {
		return nil, nil
	}

	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))
	_, err := c.AddFunc(cfg.Holiday.RefreshCron, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*cfg.Holiday.GetTimeout())
		defer cancel()

		years := svc.LoadedYears()
		if len(years) == 0 {
			years = holiday.YearsFor(time.Now(), calendar.DateRange{})
		}
		feed.Invalidate()
		svc.ResetYears()
		if err := svc.RefreshHolidays(ctx, years); err != nil {
			logger.Warn("Scheduled holiday refresh incomplete", zap.Error(err))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("failed to schedule holiday refresh: %w", err)
	}

	logger.Info("Holiday refresh scheduled", zap.String("spec", cfg.Holiday.RefreshCron))
	return c, nil
}
