package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"muster/internal/hierarchy"
	hierarchystore "muster/internal/hierarchy/store"
	"muster/internal/occupancy"
	"muster/internal/platform/config"
	"muster/internal/platform/httpserver"
	"muster/internal/platform/logger"
	"muster/internal/platform/metrics"
	"muster/internal/platform/postgres"
	platredis "muster/internal/platform/redis"
	"muster/internal/rollcall"
	rollcallstore "muster/internal/rollcall/store"
	"muster/internal/roster"
	rosterstore "muster/internal/roster/store"
	"muster/internal/schedule/conflict"
	schedulehandler "muster/internal/schedule/handler"
	"muster/internal/schedule/resolver"
	"muster/internal/schedule/service"
	schedulestore "muster/internal/schedule/store"
	schedulesync "muster/internal/schedule/sync"
	httptransport "muster/internal/transport/http"
	"muster/internal/treemap"
	treemaphandler "muster/internal/treemap/handler"
	"muster/internal/verification"
	verificationstore "muster/internal/verification/store"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.Log)

	if err := run(cfg, log); err != nil {
		log.Error("server exited", "error", err.Error())
		os.Exit(1)
	}
}

func run(cfg config.Server, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()

	var (
		locationStore     hierarchy.Store
		rosterStore       roster.Store
		entryStore        schedulestore.Store
		rollCallStore     rollcall.Store
		verificationStore verification.Store
		checks            []httptransport.HealthCheck
	)

	if cfg.DBEnabled {
		db, err := postgres.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer db.Close()
		locationStore = hierarchystore.NewPostgres(db)
		rosterStore = rosterstore.NewPostgres(db)
		entryStore = schedulestore.NewPostgres(db)
		rollCallStore = rollcallstore.NewPostgres(db)
		verificationStore = verificationstore.NewPostgres(db)
		checks = append(checks, httptransport.HealthCheck{
			Name:  "postgres",
			Check: db.PingContext,
		})
		log.Info("using postgres stores", "host", cfg.Database.Host, "db", cfg.Database.Name)
	} else {
		memory := seedMemoryStores()
		locationStore = memory.locations
		rosterStore = memory.roster
		entryStore = memory.entries
		rollCallStore = memory.rollCalls
		verificationStore = memory.verifications
		log.Warn("DB_ENABLED is false, running on seeded in-memory stores")
	}

	redisClient, err := platredis.New(cfg.Redis)
	if err != nil {
		log.Warn("redis unavailable, hierarchy cache disabled", "error", err.Error())
	}
	if redisClient != nil {
		defer redisClient.Close()
		checks = append(checks, httptransport.HealthCheck{Name: "redis", Check: redisClient.Health})
	}

	locationCache := hierarchy.NewSnapshotCache(locationStore, redisClient, cfg.HierarchyCacheTTL, log)
	locations := hierarchy.NewProvider(locationCache)

	detector := conflict.New(entryStore)
	scheduleService := service.New(entryStore, detector, rosterStore, locations, m, log)
	scheduleResolver := resolver.New(entryStore, log)

	selector := occupancy.NewSelector(
		occupancy.NewScheduled(rosterStore, scheduleResolver, locations, log),
		occupancy.NewHomeCell(rosterStore, locations, log),
	)
	aggregator := treemap.NewAggregator(locations, selector, rollCallStore, verificationStore, rosterStore, m, log)

	if cfg.Kafka.Enabled && len(cfg.Kafka.Brokers) > 0 {
		consumer, err := schedulesync.NewConsumer(cfg.Kafka, scheduleService, log)
		if err != nil {
			return err
		}
		go consumer.Run(ctx)
		log.Info("schedule sync consumer started",
			"topic", cfg.Kafka.Topic, "group", cfg.Kafka.Group)
	}

	router := httptransport.NewRouter(log, m, checks,
		schedulehandler.New(scheduleService, log),
		treemaphandler.New(aggregator, log),
	)
	srv := httpserver.New(cfg.Addr, router)

	errCh := make(chan error, 1)
	go func() {
		log.Info("muster listening", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
