package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/stockhub/auth-service/internal/api"
	"github.com/stockhub/auth-service/internal/api/handler"
	"github.com/stockhub/auth-service/internal/api/metrics"
	"github.com/stockhub/auth-service/internal/core/credential"
	"github.com/stockhub/auth-service/internal/core/ports"
	"github.com/stockhub/auth-service/internal/core/service"
	"github.com/stockhub/auth-service/internal/core/token"
	"github.com/stockhub/auth-service/internal/infrastructure/config"
	"github.com/stockhub/auth-service/internal/infrastructure/db/redis"
	"github.com/stockhub/auth-service/internal/infrastructure/ratelimit"
)

const shutdownTimeout = 15 * time.Second

var (
	autoMigrate bool

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
)

func init() {
	serveCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "apply the store schema before serving")
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}

	st, err := openStore(ctx, cfg, log)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer func() {
		if err := st.close(context.Background()); err != nil {
			log.Warn().Err(err).Msg("closing store")
		}
	}()

	if autoMigrate {
		if err := st.migrate(ctx); err != nil {
			return fmt.Errorf("migrate %s: %w", st.name, err)
		}
	}

	hasher, err := credential.NewHasher(credential.Params{
		Time:      cfg.Hash.Time,
		MemoryKiB: cfg.Hash.MemoryKiB,
		Threads:   cfg.Hash.Threads,
	})
	if err != nil {
		return fmt.Errorf("password hasher: %w", err)
	}

	tokens, err := token.NewManager(cfg.Token.Secret, token.WithDefaultTTL(cfg.Token.TTL))
	if err != nil {
		return fmt.Errorf("token manager: %w", err)
	}

	authService, err := service.NewAuthService(st.repo, metrics.InstrumentHasher(hasher), tokens, log, service.AuthConfig{
		TokenTTL:     cfg.Token.TTL,
		StoreTimeout: cfg.Store.Timeout,
	})
	if err != nil {
		return fmt.Errorf("auth service: %w", err)
	}

	checks := map[string]handler.Check{st.name: st.ping}

	limiter, closeLimiter, err := newLoginLimiter(ctx, cfg, log, checks)
	if err != nil {
		return err
	}
	defer closeLimiter()

	e, err := api.NewRouter(api.Deps{
		Log:          log,
		AuthService:  authService,
		Gate:         service.NewSessionGate(tokens, log),
		LoginLimiter: limiter,
		HealthChecks: checks,

		TrustProxyHeaders: cfg.TrustProxyHeaders,
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           e,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Str("store", st.name).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
	}

	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// newLoginLimiter uses redis when REDIS_ADDR is set so every instance shares
// counters, and an in-process limiter otherwise.
func newLoginLimiter(ctx context.Context, cfg *config.Config, log zerolog.Logger, checks map[string]handler.Check) (ports.RateLimiter, func(), error) {
	if cfg.Redis.Addr == "" {
		local := ratelimit.NewLocal(cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow)

		sweepCtx, cancel := context.WithCancel(ctx)
		go local.Run(sweepCtx, cfg.RateLimit.LoginWindow)

		log.Info().Msg("redis not configured, login rate limit is per instance")
		return local, cancel, nil
	}

	rdb, err := redis.Connect(ctx, redis.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		return nil, nil, err
	}
	checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }

	closeFn := func() {
		if err := rdb.Close(); err != nil {
			log.Warn().Err(err).Msg("closing redis")
		}
	}
	return redis.NewWindowLimiter(rdb, cfg.RateLimit.LoginLimit, cfg.RateLimit.LoginWindow), closeFn, nil
}
