package app

import (
	"context"
	"fmt"

	"github.com/makehaven/yearreview/internal/config"
	"github.com/makehaven/yearreview/internal/metrics"
	"github.com/makehaven/yearreview/internal/provider"
	"github.com/makehaven/yearreview/internal/report"
	"github.com/makehaven/yearreview/internal/server"
	"github.com/makehaven/yearreview/internal/service/cache"
	"github.com/makehaven/yearreview/internal/service/database"
	"go.uber.org/zap"
)

// Container bundles the assembled services. All heavy-weight initialization
// (DB/cache) happens in Build so the entry points stay focused on lifecycle.
type Container struct {
	Config  *config.Config
	Logger  *zap.Logger
	Reports *report.Service
	Server  *server.Server

	closers []func()
}

// Close releases infrastructure connections in reverse construction order.
func (c *Container) Close() {
	for i := len(c.closers) - 1; i >= 0; i-- {
		c.closers[i]()
	}
}

// Build assembles the full dependency graph: postgres, redis, the six data
// providers, the report engine, and the HTTP surface. Every dependency is
// passed explicitly; nothing reaches for process-wide singletons.
func Build(ctx context.Context, cfg *config.Config, logger *zap.Logger) (container *Container, err error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("logger must not be nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	var closers []func()
	defer func() {
		if err != nil {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
		}
	}()

	cacheSvc, err := cache.NewCacheService(cache.CacheConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create cache service: %w", err)
	}
	closers = append(closers, func() {
		_ = cacheSvc.Close()
	})

	postgresSvc, err := database.NewPostgresService(database.PostgresConfig{
		Host:     cfg.Postgres.Host,
		Port:     cfg.Postgres.Port,
		User:     cfg.Postgres.User,
		Password: cfg.Postgres.Password,
		Database: cfg.Postgres.Database,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres service: %w", err)
	}
	closers = append(closers, func() {
		_ = postgresSvc.Close()
	})

	collector := metrics.NewCollector()

	visits := provider.NewVisitRepository(postgresSvc, logger)
	events := provider.NewEventRepository(postgresSvc, logger)
	badges := provider.NewBadgeRepository(postgresSvc, logger)
	loans := provider.NewLoanRepository(postgresSvc, logger)
	appointments := provider.NewAppointmentRepository(postgresSvc, logger)
	membership := provider.NewMembershipRepository(postgresSvc, logger)

	aggregator := report.NewAggregator(visits, events, badges, loans, appointments, logger, collector)
	ranks := report.NewRankEstimator(visits, badges, appointments, membership, logger)
	profiles := report.NewProfileBuilder(membership, ranks, logger)
	community := report.NewCommunityBuilder(
		visits, events, badges, loans, appointments, membership,
		cfg.Report.LeaderboardSize, cfg.Report.SystemAccountID,
		logger, collector,
	)

	reports := report.NewService(
		aggregator, ranks, profiles, community,
		visits, membership, cacheSvc, logger, collector,
	)

	srv := server.New(reports, cacheSvc, cfg.Server.Host, cfg.Server.Port, logger)

	return &Container{
		Config:  cfg,
		Logger:  logger,
		Reports: reports,
		Server:  srv,
		closers: closers,
	}, nil
}
