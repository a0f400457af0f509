package worker

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/guildkeeper/guildkeeper/internal/domain/ticket"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/migration"
	"github.com/guildkeeper/guildkeeper/internal/infrastructure/scheduler"
	"github.com/guildkeeper/guildkeeper/internal/interfaces/app"
	"github.com/guildkeeper/guildkeeper/internal/shared/goroutine"
	"github.com/guildkeeper/guildkeeper/internal/shared/logger"
)

// NewCommand returns the worker command. It hosts the analytics scheduler
// and the metrics endpoint until SIGINT or SIGTERM.
func NewCommand(configPath *string) *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run the background worker",
		Long:  `Run analytics retention and health jobs, serve Prometheus metrics and follow ticket lifecycle events.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), *configPath, migrate)
		},
	}

	cmd.Flags().BoolVar(&migrate, "migrate", false, "Apply pending migrations before starting")

	return cmd
}

func run(parent context.Context, configPath string, migrate bool) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	c, err := app.Bootstrap(ctx, configPath)
	if err != nil {
		return err
	}
	defer c.Close()

	log := c.Logger
	log.Infow("starting worker", "driver", c.Config.Database.Driver, "redis", c.Config.Redis.Enabled)

	if migrate {
		manager, err := migration.NewManager(c.Config.Database.Driver, false, log)
		if err != nil {
			return err
		}
		if err := manager.Migrate(ctx, c.DB); err != nil {
			return err
		}
	}

	manager, err := scheduler.NewSchedulerManager(logger.WithComponent("scheduler"))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	healthJob := scheduler.NewHealthJob(
		scheduler.NewRuntimeProbe(c.PingDB, c.PingRedis()),
		scheduler.NewSettingsGuildStatsProvider(c.Repos.Settings),
		c.UseCases.RecordHealth,
		c.UseCases.Tracker,
		logger.WithComponent("scheduler.health"),
	)
	err = manager.RegisterAnalyticsJobs(c.UseCases.Cleanup, healthJob, scheduler.AnalyticsJobOptions{
		RetentionDays:  c.Config.Analytics.RetentionDays,
		CleanupHour:    c.Config.Analytics.CleanupHour,
		HealthInterval: time.Duration(c.Config.Analytics.HealthIntervalSeconds) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("failed to register analytics jobs: %w", err)
	}
	manager.Start()
	defer func() {
		if err := manager.Stop(); err != nil {
			log.Errorw("failed to stop scheduler", "error", err)
		}
	}()

	var srv *http.Server
	if c.Config.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		srv = &http.Server{
			Addr:              c.Config.Metrics.Addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}
		goroutine.SafeGo(log, "metrics-server", func() {
			log.Infow("metrics server starting", "address", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Errorw("metrics server failed", "error", err)
			}
		})
	}

	goroutine.SafeGo(log, "lifecycle-subscriber", func() {
		err := c.EventBus.SubscribeLifecycle(ctx, func(event ticket.LifecycleEvent) {
			log.Infow("ticket lifecycle event",
				"action", event.Action,
				"ticket_id", event.TicketID,
				"guild_id", event.GuildID,
				"number", event.Number,
				"actor_id", event.ActorID,
			)
		})
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warnw("lifecycle subscriber stopped", "error", err)
		}
	})

	log.Infow("worker started")
	<-ctx.Done()
	log.Infow("shutting down worker")

	if srv != nil {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Errorw("metrics server forced to shutdown", "error", err)
		}
	}

	log.Infow("worker stopped")
	return nil
}
