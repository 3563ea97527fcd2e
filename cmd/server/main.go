package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/yukikurage/tenant-task-api/internal/config"
	"github.com/yukikurage/tenant-task-api/internal/database"
	"github.com/yukikurage/tenant-task-api/internal/handlers"
	"github.com/yukikurage/tenant-task-api/internal/logger"
	"github.com/yukikurage/tenant-task-api/internal/middleware"
	"github.com/yukikurage/tenant-task-api/internal/ratelimit"
	"github.com/yukikurage/tenant-task-api/internal/repository"
	"github.com/yukikurage/tenant-task-api/internal/services"
	"github.com/yukikurage/tenant-task-api/internal/telemetry"
	"github.com/yukikurage/tenant-task-api/internal/token"
)

const (
	shutdownTimeout = 10 * time.Second
	dbStatsInterval = 15 * time.Second
	tokenIssuer     = "tenant-task-api"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:          "server",
		Short:        "Multi-tenant project and task API",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "Migrate, optionally seed, and start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}

	migrateCmd = &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap()
			if err != nil {
				return err
			}
			defer app.close()
			return database.Migrate(app.db, app.cfg.DB.Driver, app.log)
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Apply migrations, insert seed fixtures if the store is empty, and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap()
			if err != nil {
				return err
			}
			defer app.close()
			if err := database.Migrate(app.db, app.cfg.DB.Driver, app.log); err != nil {
				return err
			}
			return seed(cmd.Context(), app)
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")
	rootCmd.AddCommand(serveCmd, migrateCmd, seedCmd)
}

// app holds what every command shares
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *gorm.DB
}

func bootstrap() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Error("Failed to connect to database", zap.Error(err))
		return nil, err
	}

	return &app{cfg: cfg, log: log, db: db}, nil
}

func (a *app) close() {
	if sqlDB, err := a.db.DB(); err == nil {
		sqlDB.Close()
	}
	_ = a.log.Sync()
}

func seed(ctx context.Context, a *app) error {
	fixtures, err := database.LoadFixtures(a.cfg.Seed.File)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	_, err = database.Seed(ctx, a.db, fixtures, a.log)
	return err
}

func serve() error {
	a, err := bootstrap()
	if err != nil {
		return err
	}
	defer a.close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := database.Migrate(a.db, a.cfg.DB.Driver, a.log); err != nil {
		a.log.Error("Failed to run migrations", zap.Error(err))
		return err
	}
	if a.cfg.Seed.OnStart {
		if err := seed(ctx, a); err != nil {
			a.log.Error("Failed to seed database", zap.Error(err))
			return err
		}
	}

	tokens, err := token.NewService(token.Config{
		Secret:    a.cfg.JWT.Secret,
		ExpiresIn: a.cfg.JWT.ExpiresIn,
		Issuer:    tokenIssuer,
	})
	if err != nil {
		return err
	}

	var limiter ratelimit.Limiter
	if addr := a.cfg.Redis.Addr(); addr != "" && a.cfg.RateLimit.LoginPerMinute > 0 {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: a.cfg.Redis.Password})
		defer client.Close()
		if err := client.Ping(ctx).Err(); err != nil {
			a.log.Warn("Redis unreachable, requests fail open until it recovers", zap.String("addr", addr), zap.Error(err))
		}
		limiter = ratelimit.NewRedisLimiter(client, a.cfg.RateLimit.LoginPerMinute, time.Minute)
		a.log.Info("Login throttle enabled", zap.Int("per_minute", a.cfg.RateLimit.LoginPerMinute))
	}

	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	telemetry.StartDBStatsCollector(ctx, sqlDB, dbStatsInterval)

	gin.SetMode(a.cfg.Server.Mode)
	router, err := newRouter(a, tokens, limiter)
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              a.cfg.Address(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", zap.String("addr", srv.Addr), zap.String("mode", a.cfg.Server.Mode))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			a.log.Error("Server failed", zap.Error(err))
			return err
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.log.Error("Failed to shut down server", zap.Error(err))
		return err
	}
	return nil
}

func newRouter(a *app, tokens *token.Service, limiter ratelimit.Limiter) (*gin.Engine, error) {
	tenantRepo := repository.NewTenantRepository(a.db)
	userRepo := repository.NewUserRepository(a.db)
	projectRepo := repository.NewProjectRepository(a.db)
	taskRepo := repository.NewTaskRepository(a.db)
	audit := services.NewAuditRecorder(repository.NewAuditRepository(a.db), a.log)

	return handlers.NewRouter(handlers.RouterConfig{
		FrontendURL:    a.cfg.Server.FrontendURL,
		TrustedProxies: a.cfg.Server.TrustedProxies,
		Log:            a.log,
		Gate:           middleware.NewGate(userRepo, tenantRepo, tokens),
		Limiter:        limiter,
		Auth:           handlers.NewAuthHandler(services.NewAuthService(tenantRepo, userRepo, tokens, audit, a.log)),
		Tenants:        handlers.NewTenantHandler(services.NewTenantService(tenantRepo, audit)),
		Users:          handlers.NewUserHandler(services.NewUserService(userRepo, audit)),
		Projects:       handlers.NewProjectHandler(services.NewProjectService(projectRepo, tenantRepo, audit)),
		Tasks:          handlers.NewTaskHandler(services.NewTaskService(taskRepo, projectRepo, userRepo, audit)),
		Health:         handlers.NewHealthHandler(a.db),
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
