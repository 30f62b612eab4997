// Command server runs both halves of the drop in one process: the public
// claim API submitting settlement messages, and the settlement consumer
// paying them out. With Kafka configured the two sides are decoupled by the
// settlement topic; without it an in-process channel carries the messages.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"zkdrop/internal/claim"
	"zkdrop/internal/jwttoken"
	"zkdrop/internal/ledger"
	ledgermem "zkdrop/internal/ledger/memory"
	ledgerpg "zkdrop/internal/ledger/postgres"
	ledgerredis "zkdrop/internal/ledger/redis"
	"zkdrop/internal/oracle"
	"zkdrop/internal/platform/config"
	"zkdrop/internal/platform/httpserver"
	"zkdrop/internal/platform/kafka"
	"zkdrop/internal/platform/logger"
	"zkdrop/internal/platform/metrics"
	pgplatform "zkdrop/internal/platform/postgres"
	redisplatform "zkdrop/internal/platform/redis"
	"zkdrop/internal/settlement"
	httptransport "zkdrop/internal/transport/http"
	"zkdrop/internal/treasury"
	treasurymem "zkdrop/internal/treasury/memory"
	treasurypg "zkdrop/internal/treasury/postgres"
)

// dedupStore is what main needs from a dedup ledger backend: the settlement
// port plus listing for the admin surface.
type dedupStore interface {
	ledger.Store
	List(ctx context.Context) ([]claim.ClaimantID, error)
}

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	checks := map[string]httptransport.HealthCheck{}

	payout, err := claim.ParseAmount(cfg.Drop.PayoutAmount)
	if err != nil {
		return err
	}
	source := treasury.Account{ShardID: cfg.Drop.TreasuryShard, OwnerID: cfg.Drop.TreasuryOwner}

	// Storage: postgres when configured, redis dedup as the middle tier,
	// in-memory for development.
	db, err := pgplatform.Open(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	redisClient, err := redisplatform.New(cfg.Redis)
	if err != nil {
		return err
	}

	var (
		dedup  dedupStore
		bank   treasury.Ledger
		atomic settlement.Atomic
	)
	switch {
	case db != nil:
		defer db.Close()
		pgDedup := ledgerpg.New(db)
		if err := pgDedup.Migrate(ctx); err != nil {
			return err
		}
		pgBank := treasurypg.New(db)
		if err := pgBank.Migrate(ctx); err != nil {
			return err
		}
		dedup, bank = pgDedup, pgBank
		atomic = settlement.SQLAtomic{DB: db}
		checks["postgres"] = db.PingContext
		log.Info("using postgres stores")
	case redisClient != nil:
		dedup = ledgerredis.New(redisClient.Client)
		bank = memoryTreasury(ctx, cfg, log)
		checks["redis"] = redisClient.Health
		log.Info("using redis dedup ledger with in-memory treasury")
	default:
		dedup = ledgermem.New()
		bank = memoryTreasury(ctx, cfg, log)
		log.Info("using in-memory stores")
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	oracleClient := oracle.NewGatewayClient(cfg.Oracle.GatewayURL, cfg.Oracle.Timeout, oracle.QueryParams{
		SnapshotBlock:  cfg.Drop.SnapshotBlock,
		MinimumBalance: cfg.Drop.MinimumBalance,
	}, log)

	secret := []byte(cfg.Drop.ChannelSecret)
	settler, err := settlement.NewSettler(secret, source, dedup, bank, atomic,
		settlement.WithSettlerLogger(log),
		settlement.WithSettlerMetrics(m),
	)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	// Settlement channel: Kafka when brokers are configured, otherwise an
	// in-process ordered queue.
	var emitter settlement.Emitter
	if len(cfg.Kafka.Brokers) > 0 {
		if err := kafka.EnsureTopic(ctx, cfg.Kafka.Brokers, cfg.Kafka.Topic); err != nil {
			return err
		}
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers)
		if err != nil {
			return err
		}
		defer producer.Close()
		emitter = settlement.NewKafkaEmitter(producer, cfg.Kafka.Topic)

		consumer, err := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.Group,
			[]string{cfg.Kafka.Topic}, settlement.NewKafkaHandler(settler), log)
		if err != nil {
			return err
		}
		g.Go(func() error {
			err := consumer.Run(ctx)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
		log.Info("settlement channel on kafka", "topic", cfg.Kafka.Topic)
	} else {
		channel := settlement.NewMemoryChannel(256)
		emitter = channel
		g.Go(func() error {
			return channel.Run(ctx, settler, log)
		})
		log.Info("settlement channel in process")
	}

	submitter, err := settlement.NewSubmitter(
		cfg.Drop.ApplicationID,
		cfg.Drop.ShardID,
		secret,
		oracleClient,
		settlement.FixedPayout(payout),
		emitter,
		settlement.WithSubmitterLogger(log),
		settlement.WithSubmitterMetrics(m),
	)
	if err != nil {
		return err
	}

	jwtService := jwttoken.NewService([]byte(cfg.Server.AdminJWTKey), "zkdrop")
	handler := httptransport.NewHandler(submitter, oracleClient, dedup, bank, source, checks, log)
	router := httptransport.NewRouter(handler, jwtService, m, log)
	srv := httpserver.New(cfg.Server.Addr, router)

	g.Go(func() error {
		log.Info("http server listening", "addr", cfg.Server.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// memoryTreasury builds the development treasury with the configured pool
// funding. Durable deployments fund the postgres ledger out of band.
func memoryTreasury(ctx context.Context, cfg config.Config, log *slog.Logger) treasury.Ledger {
	bank := treasurymem.New()
	fund, err := claim.ParseAmount(cfg.Drop.TreasuryFund)
	if err != nil {
		log.Warn("invalid treasury fund amount, starting unfunded", "value", cfg.Drop.TreasuryFund)
		return bank
	}
	source := treasury.Account{ShardID: cfg.Drop.TreasuryShard, OwnerID: cfg.Drop.TreasuryOwner}
	if err := bank.Credit(ctx, source, fund); err != nil {
		log.Warn("failed to fund in-memory treasury", "error", err)
	}
	return bank
}
