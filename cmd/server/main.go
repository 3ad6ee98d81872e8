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

	"a2admin/internal/audit"
	"a2admin/internal/club"
	"a2admin/internal/email"
	"a2admin/internal/identity"
	jwttoken "a2admin/internal/jwt_token"
	"a2admin/internal/platform/config"
	"a2admin/internal/platform/database"
	"a2admin/internal/platform/datastore"
	"a2admin/internal/platform/health"
	"a2admin/internal/platform/kafka/producer"
	"a2admin/internal/platform/logger"
	redisclient "a2admin/internal/platform/redis"
	"a2admin/internal/seeder"
	"a2admin/internal/tenant/deletion"
	tenanthandler "a2admin/internal/tenant/handler"
	tenantmetrics "a2admin/internal/tenant/metrics"
	"a2admin/internal/tenant/service"
	"a2admin/internal/tenant/store/membership"
	tenantstore "a2admin/internal/tenant/store/tenant"
	"a2admin/internal/tenantctx"
	httptransport "a2admin/internal/transport/http"
	"a2admin/pkg/platform/circuit"
	"a2admin/pkg/platform/middleware/metadata"
	request "a2admin/pkg/platform/middleware/request"
)

const (
	shutdownTimeout   = 15 * time.Second
	poolStatsInterval = 30 * time.Second
	accessTokenTTL    = time.Hour
)

// infra holds optional backing services; nil members select in-memory
// implementations.
type infra struct {
	pool     *database.Pool
	redis    *redisclient.Client
	producer *producer.Producer
}

func (i *infra) close(log *slog.Logger) {
	if i.producer != nil {
		if err := i.producer.Close(); err != nil {
			log.Warn("kafka producer close failed", "error", err)
		}
	}
	if i.redis != nil {
		if err := i.redis.Close(); err != nil {
			log.Warn("redis close failed", "error", err)
		}
	}
	if i.pool != nil {
		if err := i.pool.Close(); err != nil {
			log.Warn("database close failed", "error", err)
		}
	}
}

// stores groups the tenant persistence, backed by Postgres or one shared
// in-memory datastore.
type stores struct {
	data    datastore.Store
	tenants interface {
		service.TenantStore
		tenantctx.TenantReader
	}
	memberships interface {
		service.MembershipStore
		tenantctx.MembershipReader
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("initializing a2admin",
		"addr", cfg.Addr,
		"environment", cfg.Environment,
		"postgres", cfg.PostgresEnabled(),
		"redis", cfg.RedisEnabled(),
		"kafka", cfg.KafkaEnabled(),
	)

	infra, err := connect(ctx, cfg, log)
	if err != nil {
		log.Error("failed to connect infrastructure", "error", err)
		os.Exit(1)
	}
	defer infra.close(log)

	st := buildStores(infra)
	if cfg.SeedDemoData {
		if infra.pool != nil {
			log.Warn("SEED_DEMO_DATA ignored with a database configured")
		} else if _, err := seeder.New(st.tenants, st.memberships, st.data, log).SeedAll(ctx); err != nil {
			log.Error("failed to seed demo data", "error", err)
			os.Exit(1)
		}
	}

	auditStore := audit.Store(audit.NewInMemoryStore())
	if infra.producer != nil {
		auditStore = audit.NewKafkaStore(infra.producer, cfg.AuditTopic)
	}
	publisher := audit.NewPublisher(auditStore, audit.WithAsyncBuffer(256), audit.WithPublisherLogger(log))
	auditLogger := audit.NewLogger(log, publisher)

	accounts, identityCheck := buildAccounts(cfg, log)
	notifier := email.NewNotifier(buildSender(cfg, log), log, email.NotifierConfig{
		PublicBaseURL:  cfg.PublicBaseURL,
		DefaultReplyTo: cfg.Email.DefaultReplyTo,
	})

	lifecycleMetrics := tenantmetrics.New()
	tenantService := service.New(st.tenants, st.memberships, accounts,
		service.WithLogger(log),
		service.WithAuditLogger(auditLogger),
		service.WithMetrics(lifecycleMetrics),
		service.WithNotifier(notifier),
		service.WithRecordCounter(st.data),
		service.WithLoginURL(notifier.LoginURL()),
	)

	var guard deletion.Guard = deletion.NewMemoryGuard()
	if infra.redis != nil {
		guard = deletion.NewRedisGuard(infra.redis.Client, cfg.Tenant.DeletionLeaseTTL, log)
	}
	orchestrator := deletion.New(st.data, accounts,
		deletion.WithGuard(guard),
		deletion.WithTimeout(cfg.Tenant.DeletionTimeout),
		deletion.WithLogger(log),
		deletion.WithAuditLogger(auditLogger),
		deletion.WithMetrics(lifecycleMetrics),
	)

	var overrides tenantctx.KV = tenantctx.NewMemoryKV()
	if infra.redis != nil {
		overrides = tenantctx.NewRedisKV(infra.redis.Client, cfg.Tenant.OverrideTTL)
	}
	roleLookup := tenantctx.NewStoreRoleLookup(st.memberships, st.tenants)
	sessions := tenantctx.NewSessions(overrides, roleLookup,
		tenantctx.WithSessionMetrics(tenantctx.NewMetrics()),
		tenantctx.WithResolverOptions(
			tenantctx.WithLookupTimeout(cfg.Tenant.RoleLookupTimeout),
			tenantctx.WithResolverLogger(log),
		),
	)
	go sessions.RunPruner(ctx, cfg.Tenant.SessionPruneEvery, cfg.Tenant.SessionIdleTimeout)

	healthHandler := health.New(cfg.Environment)
	if infra.pool != nil {
		healthHandler.RegisterCheck("postgres", infra.pool.Health)
	}
	if infra.redis != nil {
		healthHandler.RegisterCheck("redis", infra.redis.Health)
		go infra.redis.ReportPoolStats(ctx, poolStatsInterval)
	}
	if infra.producer != nil {
		healthHandler.RegisterCheck("kafka", infra.producer.Health)
	}
	if identityCheck != nil {
		healthHandler.RegisterCheck("identity", identityCheck)
	}

	proxies, err := metadata.ParseTrustedProxies(cfg.TrustedProxies)
	if err != nil {
		log.Error("invalid TRUSTED_PROXIES", "error", err)
		os.Exit(1)
	}

	verifier := jwttoken.NewVerifierAdapter(jwttoken.NewJWTService(cfg.JWTSecret, jwttoken.DefaultAudience, accessTokenTTL))
	router := httptransport.NewRouter(httptransport.Dependencies{
		Verifier:       verifier,
		Roles:          st.memberships,
		Overrides:      overrides,
		RoleLookup:     roleLookup,
		Tenants:        tenanthandler.New(tenantService, orchestrator, log),
		TenantContext:  tenantctx.NewHandler(sessions, st.memberships, st.tenants, log),
		Club:           club.NewHandler(club.NewService(st.data), log),
		Health:         healthHandler,
		Metrics:        request.NewMetrics(),
		OpsToken:       cfg.OpsToken,
		TrustedProxies: proxies,
		RequestTimeout: cfg.RequestTimeout,
		AdminTimeout:   cfg.Tenant.DeletionTimeout + cfg.RequestTimeout,
	}, log)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting http server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
	notifier.Wait()
	publisher.Close()

	log.Info("server stopped")
}

func connect(ctx context.Context, cfg config.Server, log *slog.Logger) (*infra, error) {
	out := &infra{}

	pool, err := database.New(ctx, database.DefaultConfig(cfg.DatabaseURL))
	if err != nil {
		return nil, err
	}
	out.pool = pool

	rc, err := redisclient.New(ctx, cfg.RedisURL)
	if err != nil {
		out.close(log)
		return nil, err
	}
	out.redis = rc

	if cfg.KafkaEnabled() {
		p, err := producer.New(producer.Config{
			Brokers:      cfg.KafkaBrokers,
			ClientID:     cfg.KafkaClientID,
			FlushTimeout: cfg.KafkaFlushLimit,
		}, log)
		if err != nil {
			out.close(log)
			return nil, err
		}
		out.producer = p
	}
	return out, nil
}

func buildStores(i *infra) stores {
	if i.pool == nil {
		ds := datastore.NewMemory(datastore.DefaultSchema)
		return stores{
			data:        ds,
			tenants:     tenantstore.NewTableStore(ds),
			memberships: membership.NewTableStore(ds),
		}
	}
	db := i.pool.DB()
	return stores{
		data:        datastore.NewPostgres(db, datastore.DefaultSchema),
		tenants:     tenantstore.NewPostgres(db),
		memberships: membership.NewPostgres(db),
	}
}

// buildAccounts returns the account admin and, for the hosted provider, a
// readiness check fed by its circuit breaker.
func buildAccounts(cfg config.Server, log *slog.Logger) (identity.AccountAdmin, health.CheckFunc) {
	if cfg.Identity.URL == "" || cfg.Identity.ServiceRoleKey == "" {
		log.Warn("identity provider not configured, using in-memory directory")
		return identity.NewInMemoryDirectory(), nil
	}
	breaker := circuit.New("identity",
		circuit.WithFailureThreshold(cfg.Identity.BreakerThreshold),
		circuit.WithOnChange(func(name string, to circuit.State) {
			log.Warn("circuit breaker state changed", "dependency", name, "state", to.String())
		}),
	)
	admin := identity.NewGoTrueAdmin(identity.GoTrueConfig{
		BaseURL:        cfg.Identity.URL,
		ServiceRoleKey: cfg.Identity.ServiceRoleKey,
		Timeout:        cfg.Identity.Timeout,
		Breaker:        breaker,
	})
	return admin, admin.Check
}

func buildSender(cfg config.Server, log *slog.Logger) email.Sender {
	if cfg.Email.PostmarkServerToken == "" {
		log.Warn("postmark not configured, emails are only logged")
		return email.NewLogSender(log)
	}
	sender, err := email.NewPostmarkSender(cfg.Email.PostmarkServerToken, cfg.Email.PostmarkAccountToken, cfg.Email.From)
	if err != nil {
		log.Error("invalid postmark configuration, emails are only logged", "error", err)
		return email.NewLogSender(log)
	}
	return sender
}
