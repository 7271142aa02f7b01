package gateway

import (
	"context"
	"fmt"
	"log"

	"identity-gateway/internal/audit"
	"identity-gateway/internal/kratos"
	"identity-gateway/internal/rbac/presets"
)

// BootstrapSuperUser makes sure an identity with email exists, registering
// one with the SuperAdmin role when it does not. Safe to run on every start.
// Registration failures are returned, not reconciled.
func (g *Gateway) BootstrapSuperUser(ctx context.Context, email, password string) error {
	if email == "" {
		log.Printf("gateway: super user not configured, skipping bootstrap")
		return nil
	}

	existing, err := g.findByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("bootstrap super user: %w", err)
	}
	if existing != nil {
		log.Printf("gateway: super admin already exists")
		return nil
	}

	flow, err := g.provider.InitRegistrationFlow(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap super user: %w", upstream(msgProviderUnavailable, err))
	}

	res, err := g.provider.SubmitRegistration(ctx, flow, kratos.RegistrationSubmission{
		Email:     email,
		FirstName: superFirstName,
		LastName:  superLastName,
		Password:  password,
		UserRole:  string(presets.RoleSuperAdmin),
	})
	if err != nil {
		g.record(ctx, &audit.Event{Action: audit.ActionBootstrap, Status: audit.StatusFailure, ErrorMessage: err.Error()})
		return fmt.Errorf("bootstrap super user: %w", upstream("error on creating super admin", err))
	}

	g.record(ctx, &audit.Event{Action: audit.ActionBootstrap, Status: audit.StatusSuccess, TargetID: res.Identity.ID})
	log.Printf("gateway: super admin created")
	return nil
}
