package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/circadia/adapter/api"
	"github.com/felixgeelhaar/circadia/internal/refinement"
	"github.com/felixgeelhaar/circadia/internal/scheduling/application/commands"
	"github.com/felixgeelhaar/circadia/internal/scheduling/application/queries"
	"github.com/felixgeelhaar/circadia/internal/scheduling/application/services"
	"github.com/felixgeelhaar/circadia/internal/scheduling/domain"
	"github.com/felixgeelhaar/circadia/internal/scheduling/infrastructure/persistence"
	"github.com/felixgeelhaar/circadia/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/circadia/pkg/config"
	"github.com/felixgeelhaar/circadia/pkg/observability"
)

func newServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the schedule API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := observability.NewLogger(observability.LoggerConfig{
				Level:   cfg.LogLevel,
				Format:  cfg.LogFormat,
				Service: "circadia-server",
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			var repo domain.ScheduleRepository
			if cfg.DatabaseURL != "" {
				pool, err := persistence.NewPostgresPool(ctx, cfg.DatabaseURL)
				if err != nil {
					return err
				}
				defer pool.Close()
				repo = persistence.NewPostgresScheduleRepository(pool)
				logger.Info("using postgres storage")
			} else {
				db, err := persistence.OpenSQLite(cfg.SQLitePath)
				if err != nil {
					return err
				}
				defer db.Close()
				repo = persistence.NewSQLiteScheduleRepository(db)
				logger.Info("using sqlite storage", "path", cfg.SQLitePath)
			}

			var cache commands.ScheduleCache
			if cfg.RedisURL != "" {
				redisCache, err := persistence.NewScheduleCache(ctx, cfg.RedisURL, cfg.CacheTTL, logger)
				if err != nil {
					return err
				}
				defer redisCache.Close()
				cache = redisCache
				logger.Info("schedule cache enabled", "ttl", cfg.CacheTTL)
			}

			var publisher eventbus.Publisher = eventbus.NewNoopPublisher()
			if cfg.RabbitMQURL != "" {
				rabbit, err := eventbus.NewRabbitMQPublisher(cfg.RabbitMQURL, logger)
				if err != nil {
					return err
				}
				defer rabbit.Close()
				publisher = rabbit
				logger.Info("event publishing enabled", "exchange", eventbus.ExchangeName)
			}

			var refiner refinement.Refiner = refinement.NewNoopRefiner()
			if cfg.RefinementURL != "" {
				refiner = refinement.NewHTTPRefiner(cfg.RefinementURL, logger)
				logger.Info("refinement service enabled", "url", cfg.RefinementURL)
			}

			pipeline := services.NewSchedulePipeline(
				services.SolverConfig{TimeLimit: cfg.SolverTimeLimit}, logger)
			generate := commands.NewGenerateScheduleHandler(
				pipeline, repo, cache, persistence.RequestDigest, publisher, refiner, logger)
			get := queries.NewGetScheduleHandler(repo)

			metrics := observability.NewMetrics()
			handler := api.NewScheduleHandler(generate, get, metrics, logger)
			server := api.NewServer(cfg.HTTPAddr, handler, metrics, logger)

			errCh := make(chan error, 1)
			go func() { errCh <- server.ListenAndServe() }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
			defer cancel()
			return server.Shutdown(shutdownCtx)
		},
	}
}
