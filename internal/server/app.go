// Package server initializes and runs the VaultKeeper application server.
// It opens the database, runs migrations, wires repositories into services,
// handles graceful shutdown, and starts the HTTP server.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/vaultkeeper/vaultkeeper/internal/cryptox"
	"github.com/vaultkeeper/vaultkeeper/internal/logging"
	"github.com/vaultkeeper/vaultkeeper/internal/server/config"
	"github.com/vaultkeeper/vaultkeeper/internal/server/httpapi"
	"github.com/vaultkeeper/vaultkeeper/internal/server/repositories/repomanager"
	"github.com/vaultkeeper/vaultkeeper/internal/server/services"
)

type App struct {
	config            *config.Config
	logger            logging.Logger
	db                *sql.DB
	userService       *services.UserService
	vaultService      *services.VaultService
	categoryService   *services.CategoryService
	itemService       *services.ItemService
	permissionService *services.PermissionService
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	cipher, err := cryptox.NewFieldCipherFromHex(cfg.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("encryption key error: %w", err)
	}

	access := services.NewAccessService(db, rm)
	us := services.NewUserService(db, rm, cfg)
	vs := services.NewVaultService(db, rm, access)
	cs := services.NewCategoryService(db, rm, access)
	is := services.NewItemService(db, rm, access, cipher)
	ps := services.NewPermissionService(db, rm, access)

	return &App{
		config:            cfg,
		logger:            logger,
		db:                db,
		userService:       us,
		vaultService:      vs,
		categoryService:   cs,
		itemService:       is,
		permissionService: ps,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger,
		app.userService, app.vaultService, app.categoryService, app.itemService, app.permissionService,
		app.config.SecretKey)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
