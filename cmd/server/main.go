package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"authchain/internal/custody"
	"authchain/internal/eventlog"
	"authchain/internal/inventory"
	jwttoken "authchain/internal/jwt_token"
	"authchain/internal/ledger"
	"authchain/internal/manufacturer"
	"authchain/internal/platform/config"
	"authchain/internal/platform/httpserver"
	"authchain/internal/platform/logger"
	"authchain/internal/platform/metrics"
	"authchain/internal/platform/postgres"
	platformredis "authchain/internal/platform/redis"
	"authchain/internal/registry"
	"authchain/internal/sale"
	httptransport "authchain/internal/transport/http"
	id "authchain/pkg/domain"
)

// main wires high-level dependencies, exposes the HTTP router, and keeps the
// server lifecycle small. Business logic lives in internal services packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	owner, err := id.ParseAccount(cfg.OwnerAccount)
	if err != nil {
		log.Error("AUTHCHAIN_OWNER_ACCOUNT is required", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Error("postgres connection failed", "error", err)
		os.Exit(1)
	}
	if db != nil {
		defer db.Close()
	}

	// Store selection: Postgres when configured, process memory otherwise.
	var (
		eventStore    eventlog.Store
		roleStore     registry.RoleStore
		adminStore    registry.AdminStore
		profileStore  manufacturer.ProfileStore
		productStore  inventory.ProductStore
		retailerStore custody.RetailerStore
		personnel     custody.PersonnelStore
		holdingStore  custody.HoldingStore
		transferStore custody.TransferStore
		consumerStore sale.ConsumerStore
		saleStore     sale.SaleStore
	)
	if db != nil {
		eventStore = eventlog.NewPostgresStore(db)
		roleStore = registry.NewPostgresRoleStore(db)
		adminStore = registry.NewPostgresAdminStore(db)
		profileStore = manufacturer.NewPostgresProfileStore(db)
		productStore = inventory.NewPostgresProductStore(db)
		retailerStore = custody.NewPostgresRetailerStore(db)
		personnel = custody.NewPostgresPersonnelStore(db)
		holdingStore = custody.NewPostgresHoldingStore(db)
		transferStore = custody.NewPostgresTransferStore(db)
		consumerStore = sale.NewPostgresConsumerStore(db)
		saleStore = sale.NewPostgresSaleStore(db)
	} else {
		eventStore = eventlog.NewInMemoryStore()
		roleStore = registry.NewInMemoryRoleStore()
		adminStore = registry.NewInMemoryAdminStore()
		profileStore = manufacturer.NewInMemoryProfileStore()
		productStore = inventory.NewInMemoryProductStore()
		retailerStore = custody.NewInMemoryRetailerStore()
		personnel = custody.NewInMemoryPersonnelStore()
		holdingStore = custody.NewInMemoryHoldingStore()
		transferStore = custody.NewInMemoryTransferStore()
		consumerStore = sale.NewInMemoryConsumerStore()
		saleStore = sale.NewInMemorySaleStore()
	}

	publisher := eventlog.NewPublisher(eventStore, eventlog.WithLogger(log))

	ledgerOpts := []ledger.Option{ledger.WithLogger(log)}
	if db != nil {
		ledgerOpts = append(ledgerOpts, ledger.WithDB(db))
	}
	l := ledger.New(publisher, ledgerOpts...)

	reg := registry.New(l, roleStore, adminStore, owner, registry.WithLogger(log))
	dir := manufacturer.New(l, profileStore, roleStore, manufacturer.WithLogger(log))
	stock := inventory.New(l, productStore, roleStore, dir, inventory.WithLogger(log))
	cust := custody.New(l, retailerStore, personnel, holdingStore, transferStore,
		productStore, roleStore, dir, custody.WithLogger(log))
	sales := sale.New(l, consumerStore, saleStore, holdingStore, roleStore, sale.WithLogger(log))

	// Live event sinks, both optional.
	var sinks []eventlog.Sink
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaSink, err := eventlog.NewKafkaSink(cfg.Kafka.Brokers, cfg.Kafka.Topic)
		if err != nil {
			log.Error("kafka sink setup failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sinks = append(sinks, kafkaSink)
	}
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connection failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		sinks = append(sinks, eventlog.NewRedisStreamSink(redisClient.Client, cfg.Redis.Stream))
	}

	m := metrics.New()
	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, "authchain", "authchain")
	handler := httptransport.NewHandler(log, m, reg, dir, stock, cust, sales, publisher)
	srv := httpserver.New(cfg.Addr, httptransport.NewRouter(handler, tokens))

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		log.Info("starting authchain", "addr", cfg.Addr, "postgres", db != nil, "sinks", len(sinks))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		worker := eventlog.NewWorker(publisher.Outbox(), sinks, log)
		err := worker.Run(groupCtx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
	log.Info("shutdown complete")
}
