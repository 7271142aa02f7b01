package app

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"

	"identity-gateway/internal/audit"
	"identity-gateway/internal/auth"
	"identity-gateway/internal/config"
	"identity-gateway/internal/gateway"
	"identity-gateway/internal/http"
	"identity-gateway/internal/infra/postgres"
	"identity-gateway/internal/kratos"
	"identity-gateway/internal/rbac"
	"identity-gateway/internal/rbac/presets"
	"identity-gateway/pkg/metrics"
)

// InitializeService wires up all dependencies and returns a configured Service
func InitializeService(ctx context.Context, cfg *config.Config) (*Service, error) {
	m := metrics.New()

	// Initialize identity provider client
	provider, err := kratos.New(kratos.Config{
		PublicBaseURL: cfg.Kratos.PublicBaseURL,
		AdminBaseURL:  cfg.Kratos.AdminBaseURL,
		WhoAmIURL:     cfg.Kratos.SessionURL,
		Timeout:       cfg.Kratos.Timeout,
		RetryMax:      cfg.Kratos.RetryMax,
		RetryWaitMin:  cfg.Kratos.RetryWaitMin,
		RetryWaitMax:  cfg.Kratos.RetryWaitMax,
		Observer:      m,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create identity provider client: %w", err)
	}

	// Initialize RBAC authorizer with the content API preset
	authorizer := rbac.MustNew(presets.Vachan())

	recorder, pool, err := newAuditRecorder(ctx, cfg.Audit)
	if err != nil {
		return nil, err
	}

	gw := gateway.New(provider, authorizer, recorder)

	server := http.NewServer(&http.ServerDependencies{
		Config:         cfg,
		Authenticator:  gw,
		IdentityAdmin:  gw,
		Permissions:    authorizer,
		AuthMiddleware: auth.NewMiddleware(gw),
		RBACMiddleware: auth.NewRBACMiddleware(authorizer),
		Metrics:        m,
	})

	return &Service{
		config:    cfg,
		gateway:   gw,
		auditPool: pool,
		server:    server,
	}, nil
}

// newAuditRecorder returns the Postgres audit log when a database is
// configured and the process log otherwise. pool is nil in the latter case.
func newAuditRecorder(ctx context.Context, cfg config.AuditConfig) (audit.Recorder, *pgxpool.Pool, error) {
	if cfg.DatabaseURL == "" {
		log.Println("Audit database not configured, writing audit events to the log")
		return audit.StdLogger{}, nil, nil
	}

	pool, err := postgres.NewPool(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	logger := audit.NewLogger(pool)
	if err := logger.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("failed to prepare audit schema: %w", err)
	}

	log.Println("Audit database connection established")
	return logger, pool, nil
}
