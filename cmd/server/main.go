// Command server runs the claims API: HTTP transport, persistence, the
// audit outbox relay, and its Kafka materializer. Business logic lives in
// the internal packages.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	"github.com/twmb/franz-go/pkg/kgo"
	"golang.org/x/sync/errgroup"

	"byggekrav/internal/auth"
	"byggekrav/internal/claims/service"
	"byggekrav/internal/claims/store"
	httpapi "byggekrav/internal/http"
	jwttoken "byggekrav/internal/jwt_token"
	"byggekrav/internal/platform/config"
	"byggekrav/internal/platform/httpserver"
	"byggekrav/internal/platform/logger"
	"byggekrav/internal/platform/metrics"
	platformredis "byggekrav/internal/platform/redis"
	"byggekrav/internal/platform/telemetry"
	"byggekrav/internal/preclusion"
	id "byggekrav/pkg/domain"
	"byggekrav/pkg/platform/audit"
	"byggekrav/pkg/platform/audit/consumer"
	"byggekrav/pkg/platform/audit/publisher"
	"byggekrav/pkg/platform/audit/relay"
	auditmemory "byggekrav/pkg/platform/audit/store/memory"
	auditpostgres "byggekrav/pkg/platform/audit/store/postgres"
)

func main() {
	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, "byggekrav")
	if err != nil {
		log.Error("telemetry init failed", "error", err)
		os.Exit(1)
	}
	defer shutdownTelemetry(context.Background())

	m := metrics.New()
	healthChecks := map[string]httpapi.HealthChecker{}

	// Persistence: Postgres when configured, in-memory otherwise.
	var (
		claimsStore store.Store
		auditStore  audit.Store
		auditDB     *sql.DB
	)
	if cfg.DatabaseURL != "" {
		pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
		if err != nil {
			log.Error("postgres connect failed", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		pg := store.NewPostgres(pool)
		if err := pg.Migrate(ctx); err != nil {
			log.Error("claims schema migration failed", "error", err)
			os.Exit(1)
		}
		claimsStore = pg
		healthChecks["postgres"] = poolHealth{pool}

		// The audit outbox uses database/sql so it can share transactions
		// started through pkg/platform/tx.
		auditDB, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("audit db connect failed", "error", err)
			os.Exit(1)
		}
		defer auditDB.Close()

		auditPG := auditpostgres.New(auditDB)
		if err := auditPG.Migrate(ctx); err != nil {
			log.Error("audit schema migration failed", "error", err)
			os.Exit(1)
		}
		auditStore = auditPG
	} else {
		log.Warn("DATABASE_URL not set, using in-memory stores")
		claimsStore = store.NewMemory()
		auditStore = auditmemory.NewInMemoryStore()
	}

	// Claim snapshot cache.
	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		defer redisClient.Close()
		claimsStore = store.NewCache(claimsStore, redisClient.Client, log)
		healthChecks["redis"] = redisClient
	}

	auditPublisher := publisher.NewPublisher(auditStore,
		publisher.WithAsyncBuffer(256),
		publisher.WithLogger(log))
	defer auditPublisher.Close()

	// Audit relay and materializer, only meaningful with both Postgres and
	// Kafka configured.
	g, gctx := errgroup.WithContext(ctx)
	if len(cfg.KafkaBrokers) > 0 && auditDB != nil {
		producer, err := kgo.NewClient(kgo.SeedBrokers(cfg.KafkaBrokers...))
		if err != nil {
			log.Error("kafka producer init failed", "error", err)
			os.Exit(1)
		}
		defer producer.Close()
		if err := relay.EnsureTopic(ctx, producer, 3, 1); err != nil {
			log.Error("kafka topic creation failed", "error", err)
			os.Exit(1)
		}

		materializer, err := kgo.NewClient(
			kgo.SeedBrokers(cfg.KafkaBrokers...),
			kgo.ConsumeTopics(relay.Topic),
			kgo.ConsumerGroup("byggekrav-audit-materializer"),
		)
		if err != nil {
			log.Error("kafka consumer init failed", "error", err)
			os.Exit(1)
		}
		defer materializer.Close()

		auditRelay := relay.New(relay.NewSQLOutbox(auditDB), producer, log)
		g.Go(func() error { return auditRelay.Run(gctx) })

		auditConsumer := consumer.New(materializer, auditStore.(*auditpostgres.Store), log)
		g.Go(func() error { return auditConsumer.Run(gctx) })
	} else if len(cfg.KafkaBrokers) > 0 {
		log.Warn("KAFKA_BROKERS set without DATABASE_URL, audit relay disabled")
	}

	// Token issuance.
	tokens := jwttoken.NewJWTService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.JWTAudience)
	authService := auth.NewService(auth.NewMemoryStore(), tokens, log)
	if cfg.DevPartyID != "" {
		partyID, err := id.ParsePartyID(cfg.DevPartyID)
		if err != nil {
			log.Error("invalid BYGGEKRAV_DEV_PARTY_ID", "error", err)
			os.Exit(1)
		}
		apiKey, err := authService.Onboard(ctx, partyID, jwttoken.RoleByggherre)
		if err != nil {
			log.Error("dev party onboarding failed", "error", err)
			os.Exit(1)
		}
		log.Info("dev party onboarded", "party_id", cfg.DevPartyID, "api_key", apiKey)
	}

	thresholds := preclusion.DefaultThresholds()
	if cfg.PassivityCriticalDays > 0 {
		thresholds.PassivityCritical = cfg.PassivityCriticalDays
	}
	if cfg.PassivityWarningDays > 0 {
		thresholds.PassivityWarning = cfg.PassivityWarningDays
	}
	claimsService := service.NewService(claimsStore, thresholds, auditPublisher, log, m)

	router := httpapi.NewRouter(httpapi.Deps{
		Logger:         log,
		Metrics:        m,
		Claims:         claimsService,
		Auth:           auth.NewHandler(authService, log),
		JWTValidator:   jwttoken.NewJWTServiceAdapter(tokens),
		RequestTimeout: cfg.RequestTimeout,
		HealthChecks:   healthChecks,
	})

	srv := httpserver.New(cfg.Addr, router)
	g.Go(func() error {
		log.Info("starting byggekrav server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("server exited with error", "error", err)
		os.Exit(1)
	}
	log.Info("server stopped")
}

// poolHealth adapts a pgx pool to the router's health check.
type poolHealth struct {
	pool *pgxpool.Pool
}

func (p poolHealth) Health(ctx context.Context) error {
	return p.pool.Ping(ctx)
}
