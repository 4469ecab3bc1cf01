package main // Entry point package

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/iliyamo/secure-user-api/internal/auth"
	"github.com/iliyamo/secure-user-api/internal/config"
	"github.com/iliyamo/secure-user-api/internal/database"
	"github.com/iliyamo/secure-user-api/internal/handler"
	"github.com/iliyamo/secure-user-api/internal/logger"
	"github.com/iliyamo/secure-user-api/internal/middleware"
	"github.com/iliyamo/secure-user-api/internal/queue"
	"github.com/iliyamo/secure-user-api/internal/repository"
	"github.com/iliyamo/secure-user-api/internal/router"
	"github.com/iliyamo/secure-user-api/internal/sanitize"
	"github.com/iliyamo/secure-user-api/internal/service"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load() // Load environment config
	if err != nil {
		// No logger yet; the error never contains the secret itself.
		logger.New("error", "text").Fatal("config", "error", err)
	}
	log := logger.New(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal("server stopped", "error", err)
	}
}

func run(ctx context.Context, cfg *config.Config, log *logger.Logger) error {
	db, err := database.Open(cfg.DB)
	if err != nil {
		return err
	}
	defer db.Close()
	if err := database.Migrate(db, cfg.DB.Driver); err != nil {
		return err
	}

	users := repository.NewUserRepo(db)
	if cfg.SeedDemoUsers {
		if _, err := service.SeedDemoUsers(ctx, users, cfg.BcryptCost, log); err != nil {
			return err
		}
	}

	s := sanitize.New()
	tokens := auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer)
	authn, err := auth.NewAuthenticator(users, cfg.BcryptCost)
	if err != nil {
		return err
	}

	var pub service.AuditPublisher = service.NoopPublisher{}
	if cfg.Audit.Enabled {
		pub = service.NewAMQPPublisher(cfg.Audit.URL, cfg.Audit.Queue)
		if cfg.Audit.Consumer {
			go func() {
				err := queue.StartAuditConsumer(ctx, cfg.Audit.URL, cfg.Audit.Queue, cfg.Audit.LogDir, log)
				if err != nil && !errors.Is(err, context.Canceled) {
					log.Error("audit consumer stopped", "error", err)
				}
			}()
		}
	}
	auditor := service.NewLoginAuditor(pub, cfg.Audit.Timeout, log)

	ready := map[string]handler.Pinger{"db": users}
	cache := middleware.NewRedisCache(cfg.Cache, nil, log)
	if cfg.Cache.Enabled {
		if rdb := config.NewRedisClient(cfg.Redis); rdb != nil {
			defer rdb.Close()
			cache = middleware.NewRedisCache(cfg.Cache, rdb, log)
			ready["redis"] = pingRedis(rdb)
		} else {
			log.Warn("redis unreachable, response cache disabled")
		}
	}

	timeouts := handler.Timeouts{Request: cfg.RequestTimeout}
	e := router.New(router.Deps{
		Auth:   handler.NewAuthHandler(authn, tokens, s, auditor, log, timeouts),
		Users:  handler.NewUserHandler(service.NewUserService(users, s), s, log, timeouts),
		Health: &handler.HealthHandler{Deps: ready, Log: log},
		Tokens: tokens,
		Cache:  cache,
		Log:    log,
	})

	addr := ":" + cfg.Port
	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", "addr", addr, "env", cfg.Env, "db", cfg.DB.Driver)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "error", err)
	}
	auditor.Wait()
	return nil
}

func pingRedis(rdb *redis.Client) handler.PingFunc {
	return func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
}
