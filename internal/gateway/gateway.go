package gateway

import (
	"context"
	"log"

	"identity-gateway/internal/audit"
	"identity-gateway/internal/kratos"
	"identity-gateway/internal/rbac"
	apperrors "identity-gateway/pkg/errors"
	"identity-gateway/pkg/logger"
)

// Provider is the subset of the identity provider API the gateway needs.
// *kratos.Client implements it.
type Provider interface {
	WhoAmI(ctx context.Context, token string) (*kratos.Session, error)
	Logout(ctx context.Context, token string) error

	InitLoginFlow(ctx context.Context) (*kratos.Flow, error)
	SubmitLogin(ctx context.Context, flow *kratos.Flow, identifier, password string) (*kratos.LoginResult, error)
	InitRegistrationFlow(ctx context.Context) (*kratos.Flow, error)
	SubmitRegistration(ctx context.Context, flow *kratos.Flow, sub kratos.RegistrationSubmission) (*kratos.RegistrationResult, error)

	ListIdentities(ctx context.Context) ([]kratos.Identity, error)
	GetIdentity(ctx context.Context, id string) (*kratos.Identity, error)
	UpdateIdentity(ctx context.Context, id string, body kratos.UpdateIdentityBody) (*kratos.Identity, error)
	DeleteIdentity(ctx context.Context, id string) (*kratos.RawResponse, error)
}

// RoleDefaults resolves the role granted on registration through an app.
// *rbac.Authorizer implements it.
type RoleDefaults interface {
	DefaultRole(appName string) rbac.Role
}

// Gateway wraps the identity provider with session resolution, login,
// registration with role reconciliation, role grants and identity deletion.
// It holds no mutable state.
type Gateway struct {
	provider Provider
	defaults RoleDefaults
	audit    audit.Recorder
}

func New(provider Provider, defaults RoleDefaults, recorder audit.Recorder) *Gateway {
	if recorder == nil {
		recorder = audit.StdLogger{}
	}
	return &Gateway{provider: provider, defaults: defaults, audit: recorder}
}

// DeleteIdentity deletes an identity and hands the provider's response back
// without interpreting its status.
func (g *Gateway) DeleteIdentity(ctx context.Context, id string) (*kratos.RawResponse, error) {
	raw, err := g.provider.DeleteIdentity(ctx, id)
	if err != nil {
		g.record(ctx, &audit.Event{Action: audit.ActionDelete, Status: audit.StatusFailure, TargetID: id, ErrorMessage: err.Error()})
		return nil, upstream(msgProviderUnavailable, err)
	}

	status := audit.StatusSuccess
	if raw.StatusCode >= 300 {
		status = audit.StatusFailure
	}
	g.record(ctx, &audit.Event{Action: audit.ActionDelete, Status: status, TargetID: id,
		Metadata: map[string]any{"provider_status": raw.StatusCode}})
	return raw, nil
}

// record writes an audit event. Audit failures never fail the operation.
func (g *Gateway) record(ctx context.Context, event *audit.Event) {
	if err := g.audit.Log(ctx, event); err != nil {
		log.Printf("audit: failed to record %s: %v", event.Action, err)
	}
}

// upstream logs the provider failure with its payload and returns an
// UpstreamError with a message safe to show to the caller.
func upstream(msg string, err error) error {
	if se, ok := kratos.AsStatusError(err); ok {
		log.Printf("gateway: %s: %v: %s", msg, err, logger.SanitizeLogMessage(string(se.Body)))
	} else {
		log.Printf("gateway: %s: %v", msg, err)
	}
	return apperrors.Upstream(msg, err)
}
