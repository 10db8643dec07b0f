package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"

	internal "github.com/billableops/resource-management/internal"
	"github.com/billableops/resource-management/internal/auth"
	"github.com/billableops/resource-management/internal/core/events"
	"github.com/billableops/resource-management/internal/hashid"
	"github.com/billableops/resource-management/internal/resource"
	resourcePostgres "github.com/billableops/resource-management/internal/resource/postgres"
	"github.com/billableops/resource-management/internal/transport"
	"github.com/billableops/resource-management/internal/transport/rest"
	"github.com/billableops/resource-management/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	DB      *sqlx.DB
	Handler http.Handler
	Logger  *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("starting HTTP server", "address", addr)

	server := &http.Server{
		Addr:         addr,
		Handler:      deps.Handler,
		ReadTimeout:  deps.Config.Server.ReadTimeout,
		WriteTimeout: deps.Config.Server.WriteTimeout,
		IdleTimeout:  deps.Config.Server.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.DB.Close(); err != nil {
			deps.Logger.Error("database close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("server stopped")
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(".")
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	appLogger := logger.L()

	sqlDB, err := initDB(config.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{
		Conn: sqlDB.DB,
	}), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize orm: %w", err)
	}

	codec := hashid.NewCodec(config.Security.HashIDSalt)
	eventBus := events.NewEventBus(appLogger)
	permissions := auth.NewPermissionChecker()
	tokenValidator := auth.NewTokenValidator(config.Security.JWTSecret)

	resourceRepo := resourcePostgres.NewResourceRepository(gormDB)
	resourceService := resource.NewService(resourceRepo, permissions, codec, eventBus, appLogger)
	baseHandler := &transport.BaseHandler{Logger: appLogger}
	resourceHandler := resource.NewHandler(baseHandler, resourceService, resource.NewTransformer(codec))

	subscribeAuditLog(eventBus, appLogger)

	router := rest.NewRouter(rest.RouterDeps{
		Config:          config,
		DB:              sqlDB,
		TokenValidator:  tokenValidator,
		ResourceHandler: resourceHandler,
	})

	return &Dependencies{
		Config:  config,
		DB:      sqlDB,
		Handler: router,
		Logger:  appLogger,
	}, nil
}

// subscribeAuditLog wires the default lifecycle subscriber. External
// consumers (webhooks, notifications) register the same way.
func subscribeAuditLog(bus *events.EventBus, appLogger *slog.Logger) {
	audit := func(ctx context.Context, event events.Event) error {
		appLogger.Info("resource lifecycle event",
			"event_type", event.EventType(),
			"event_id", event.EventID(),
			"payload", event.Payload())
		return nil
	}
	bus.Subscribe(events.EventTypeResourceCreated, audit)
	bus.Subscribe(events.EventTypeResourceUpdated, audit)
}

func initDB(cfg internal.DatabaseConfig) (*sqlx.DB, error) {
	const driver = "pgx"

	dbConn, err := sqlx.Connect(driver, cfg.Source)
	if err != nil {
		return nil, fmt.Errorf("failed to open db connection: %w", err)
	}

	dbConn.SetMaxIdleConns(cfg.MaxIdleConns)
	dbConn.SetMaxOpenConns(cfg.MaxOpenConns)
	dbConn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	dbConn.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := dbConn.Ping(); err != nil {
		_ = dbConn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return dbConn, nil
}
