// Package httpapi exposes the server's operations over an HTTP/JSON
// boundary. Handlers stay thin: decode and validate the payload, resolve the
// caller identity, call the service, map the error kind to a status code.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/vaultkeeper/vaultkeeper/internal/logging"
	"github.com/vaultkeeper/vaultkeeper/internal/server/services"
)

// Server is the HTTP front of the application.
type Server struct {
	address     string
	logger      logging.Logger
	users       *services.UserService
	vaults      *services.VaultService
	categories  *services.CategoryService
	items       *services.ItemService
	permissions *services.PermissionService
	jwtSecret   []byte
}

// NewServer constructs the HTTP server over the given services.
func NewServer(address string, l logging.Logger, us *services.UserService, vs *services.VaultService,
	cs *services.CategoryService, is *services.ItemService, ps *services.PermissionService, secretKey string) *Server {
	return &Server{
		address:     address,
		logger:      l.With("module", "http_server"),
		users:       us,
		vaults:      vs,
		categories:  cs,
		items:       is,
		permissions: ps,
		jwtSecret:   []byte(secretKey),
	}
}

// Router builds the full route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.loggingMiddleware)

	r.HandleFunc("/api/auth/register", s.handleRegister).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/login", s.handleLogin).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/refresh", s.handleRefresh).Methods(http.MethodPost)
	r.HandleFunc("/api/auth/logout", s.handleLogout).Methods(http.MethodPost)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.authMiddleware)

	api.HandleFunc("/vaults", s.handleCreateVault).Methods(http.MethodPost)
	api.HandleFunc("/vaults", s.handleGetUserVaults).Methods(http.MethodGet)
	api.HandleFunc("/vaults/{id:[0-9]+}", s.handleGetVault).Methods(http.MethodGet)
	api.HandleFunc("/vaults/{id:[0-9]+}", s.handleUpdateVault).Methods(http.MethodPatch)
	api.HandleFunc("/vaults/{id:[0-9]+}", s.handleDeleteVault).Methods(http.MethodDelete)
	api.HandleFunc("/vaults/{id:[0-9]+}/items", s.handleListVaultItems).Methods(http.MethodGet)
	api.HandleFunc("/vaults/{id:[0-9]+}/categories", s.handleListVaultCategories).Methods(http.MethodGet)
	api.HandleFunc("/vaults/{id:[0-9]+}/permissions", s.handleGetVaultPermissions).Methods(http.MethodGet)
	api.HandleFunc("/vaults/{id:[0-9]+}/permission", s.handleGetOwnPermission).Methods(http.MethodGet)

	api.HandleFunc("/categories", s.handleCreateCategory).Methods(http.MethodPost)
	api.HandleFunc("/categories/{id:[0-9]+}", s.handleGetCategory).Methods(http.MethodGet)
	api.HandleFunc("/categories/{id:[0-9]+}", s.handleUpdateCategory).Methods(http.MethodPatch)
	api.HandleFunc("/categories/{id:[0-9]+}", s.handleDeleteCategory).Methods(http.MethodDelete)

	api.HandleFunc("/items", s.handleCreateItem).Methods(http.MethodPost)
	api.HandleFunc("/items", s.handleSearchItems).Methods(http.MethodGet)
	api.HandleFunc("/items/{id:[0-9]+}", s.handleGetItem).Methods(http.MethodGet)
	api.HandleFunc("/items/{id:[0-9]+}", s.handleUpdateItem).Methods(http.MethodPatch)
	api.HandleFunc("/items/{id:[0-9]+}", s.handleDeleteItem).Methods(http.MethodDelete)

	api.HandleFunc("/passgen", s.handleGeneratePassword).Methods(http.MethodGet)

	api.HandleFunc("/permissions", s.handleCreatePermission).Methods(http.MethodPost)
	api.HandleFunc("/permissions/{id:[0-9]+}", s.handleUpdatePermission).Methods(http.MethodPatch)
	api.HandleFunc("/permissions/{id:[0-9]+}", s.handleRevokePermission).Methods(http.MethodDelete)

	api.HandleFunc("/users/{id:[0-9]+}/deactivate", s.handleDeactivateUser).Methods(http.MethodPost)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
