package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"talentx/internal/app"
	"talentx/internal/config"
	"talentx/internal/database"
	apphttp "talentx/internal/http"
	"talentx/internal/http/handlers"
	"talentx/internal/http/metrics"
	httpmw "talentx/internal/http/middleware"
	"talentx/internal/http/response"
	"talentx/internal/integration/aiwriter"
	"talentx/internal/matching"
	"talentx/internal/observability"
	"talentx/internal/repository/sqlstore"
	"talentx/internal/security"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	logger := observability.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("api stopped", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.SetupTracing(ctx, "talentx-api", cfg.OTelEndpoint)
	if err != nil {
		logger.Warn("tracing disabled", slog.String("error", err.Error()))
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(shutdownCtx)
	}()

	db, dialect, err := database.Open(ctx, database.Config{
		Driver:          cfg.DBDriver,
		DSN:             cfg.DatabaseURL,
		SQLitePath:      cfg.SQLitePath,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
		ReadyTimeout:    cfg.DBReadyTimeout,
	}, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := database.Migrate(ctx, db, dialect); err != nil {
			return err
		}
	}

	userRepo := sqlstore.NewUserRepository(db, dialect)
	jobRepo := sqlstore.NewJobRepository(db, dialect)
	applicationRepo := sqlstore.NewApplicationRepository(db, dialect)
	invitationRepo := sqlstore.NewInvitationRepository(db, dialect)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	var completer aiwriter.Completer
	if cfg.OpenAIAPIKey != "" {
		completer = aiwriter.NewOpenAIClient(aiwriter.OpenAIConfig{
			APIKey:     cfg.OpenAIAPIKey,
			Model:      cfg.OpenAIModel,
			BaseURL:    cfg.OpenAIBaseURL,
			Timeout:    8 * time.Second,
			MaxRetries: 1,
		})
	}

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)
	authService := app.NewAuthService(userRepo, jwtProvider, logger, cfg.AccessTokenTTL)
	jobService := app.NewJobService(jobRepo)
	ledgerService := app.NewLedgerService(jobRepo, userRepo, invitationRepo, applicationRepo, collector, logger)
	talentService := app.NewTalentService(jobRepo, userRepo, matching.NewScorer(nil))

	limiter, closeLimiter := newLimiter(ctx, cfg.RedisURL, logger)
	defer closeLimiter()
	clientIPs, err := httpmw.NewClientIPResolver(cfg.TrustedProxies)
	if err != nil {
		return err
	}

	router := apphttp.NewRouter(apphttp.RouterDependencies{
		AuthHandler:    handlers.NewAuthHandler(authService),
		JobHandler:     handlers.NewJobHandler(jobService, aiwriter.NewWriter(completer, logger)),
		LedgerHandler:  handlers.NewLedgerHandler(ledgerService, limiter),
		TalentHandler:  handlers.NewTalentHandler(talentService),
		AuthMiddleware: httpmw.NewAuthMiddleware(jwtProvider),
		Limiter:        limiter,
		ClientIP:       clientIPs.ClientIP,
		Metrics:        collector,
		RequestTimeout: cfg.RequestTimeout,
	})
	server := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      router,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("API started", slog.String("addr", server.Addr), slog.String("database", dialect.Name()))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		logger.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

// newLimiter prefers a shared Redis limiter and falls back to the in-process one.
func newLimiter(ctx context.Context, redisURL string, logger *slog.Logger) (httpmw.Limiter, func()) {
	if redisURL == "" {
		return httpmw.NewRateLimiter(), func() {}
	}
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		logger.Warn("invalid REDIS_URL, using in-process rate limiting", slog.String("error", err.Error()))
		return httpmw.NewRateLimiter(), func() {}
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unavailable, using in-process rate limiting", slog.String("error", err.Error()))
		_ = client.Close()
		return httpmw.NewRateLimiter(), func() {}
	}
	return httpmw.NewRedisLimiter(client, httpmw.RedisLimiterOptions{Logger: logger}), func() { _ = client.Close() }
}
