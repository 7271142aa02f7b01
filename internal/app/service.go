package app

import (
	"context"
	"errors"
	"log"
	stdhttp "net/http"

	"github.com/jackc/pgx/v5/pgxpool"

	"identity-gateway/internal/config"
	"identity-gateway/internal/gateway"
	"identity-gateway/internal/http"
)

const serverAddrPrefix = ":"

// Service represents the identity gateway application
type Service struct {
	config    *config.Config
	gateway   *gateway.Gateway
	auditPool *pgxpool.Pool
	server    *http.Server
}

// Bootstrap runs the one-off startup tasks that need the provider.
func (s *Service) Bootstrap(ctx context.Context) error {
	su := s.config.SuperUser
	if !su.Enabled() {
		log.Println("Super user not configured, skipping bootstrap")
		return nil
	}
	return s.gateway.BootstrapSuperUser(ctx, su.Email, su.Password)
}

// Start blocks serving HTTP until the server is shut down.
func (s *Service) Start() error {
	log.Printf("Starting HTTP server on port %s", s.config.Server.Port)
	err := s.server.Start(serverAddrPrefix + s.config.Server.Port)
	if errors.Is(err, stdhttp.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown gracefully shuts down the server, then releases the audit pool.
func (s *Service) Shutdown(ctx context.Context) error {
	err := s.server.Shutdown(ctx)
	if s.auditPool != nil {
		s.auditPool.Close()
	}
	return err
}
