package gateway

import (
	"context"
	"net/http"
	"strings"

	"identity-gateway/internal/audit"
	"identity-gateway/internal/kratos"
	"identity-gateway/internal/rbac"
	apperrors "identity-gateway/pkg/errors"
)

// Outcome tells how a registration request was satisfied.
type Outcome int

const (
	// OutcomeRegistered means a new identity was created.
	OutcomeRegistered Outcome = iota + 1
	// OutcomeRoleGranted means the email was already registered and the
	// app's default role was added to that identity instead.
	OutcomeRoleGranted
	// OutcomeRoleGrantUnverified means the role grant was written but the
	// provider echoed a different role list.
	OutcomeRoleGrantUnverified
)

type RegistrationInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	AppName   string
}

type RegisteredIdentity struct {
	ID          string   `json:"id"`
	Email       string   `json:"email"`
	Name        string   `json:"name,omitempty"`
	Permissions []string `json:"permissions"`
}

type RegistrationResult struct {
	Outcome  Outcome
	Details  string
	Identity RegisteredIdentity
	// Token is only issued when a new identity was created.
	Token string
	// RoleUpdate is set when the registration turned into a role grant.
	RoleUpdate *RoleUpdateResult
}

// Register creates an identity with the app's default role. When the email
// is already registered, the default role is added to the existing identity
// instead, unless it already holds it.
func (g *Gateway) Register(ctx context.Context, in RegistrationInput) (*RegistrationResult, error) {
	role := g.defaults.DefaultRole(in.AppName)

	flow, err := g.provider.InitRegistrationFlow(ctx)
	if err != nil {
		return nil, upstream(msgProviderUnavailable, err)
	}

	res, err := g.provider.SubmitRegistration(ctx, flow, kratos.RegistrationSubmission{
		Email:     in.Email,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Password:  in.Password,
		UserRole:  string(role),
	})
	if err == nil {
		g.record(ctx, &audit.Event{Action: audit.ActionRegister, Status: audit.StatusSuccess, TargetID: res.Identity.ID,
			Metadata: map[string]any{"app": in.AppName, "role": role}})
		return &RegistrationResult{
			Outcome:  OutcomeRegistered,
			Details:  msgRegistered,
			Identity: registered(res.Identity, res.Identity.Traits.UserRole),
			Token:    res.SessionToken,
		}, nil
	}

	se, ok := kratos.AsStatusError(err)
	if !ok || se.StatusCode != http.StatusBadRequest {
		return nil, upstream(msgProviderUnavailable, err)
	}

	rejected, _ := se.Flow()
	if isDuplicateIdentifier(rejected) {
		return g.reconcile(ctx, in.Email, role)
	}
	return nil, apperrors.BadRequest(firstMessage(rejected, msgRegistrationFailed)).WithDetail(se.Payload())
}

// reconcile grants role to the identity already registered under email.
func (g *Gateway) reconcile(ctx context.Context, email string, role rbac.Role) (*RegistrationResult, error) {
	existing, err := g.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, apperrors.Conflict(msgNoMatchingIdentity)
	}
	if existing.Traits.UserRole.Contains(string(role)) {
		return nil, apperrors.Conflict(msgAlreadyHasRole)
	}

	update, err := g.AddRoles(ctx, existing.ID, []string{string(role)})
	if err != nil {
		return nil, err
	}
	if !update.Success {
		return &RegistrationResult{
			Outcome:    OutcomeRoleGrantUnverified,
			Details:    update.Details,
			Identity:   RegisteredIdentity{ID: existing.ID, Email: email},
			RoleUpdate: update,
		}, nil
	}

	return &RegistrationResult{
		Outcome:    OutcomeRoleGranted,
		Details:    msgRoleGranted,
		Identity:   RegisteredIdentity{ID: existing.ID, Email: email, Permissions: update.Roles},
		RoleUpdate: update,
	}, nil
}

// findByEmail scans every identity for an exact email match. The provider
// has no server-side filter.
func (g *Gateway) findByEmail(ctx context.Context, email string) (*kratos.Identity, error) {
	identities, err := g.provider.ListIdentities(ctx)
	if err != nil {
		return nil, upstream(msgProviderUnavailable, err)
	}
	for i := range identities {
		if identities[i].Traits.Email == email {
			return &identities[i], nil
		}
	}
	return nil, nil
}

func registered(ident kratos.Identity, roles kratos.RoleList) RegisteredIdentity {
	perms := []string(roles)
	if perms == nil {
		perms = []string{}
	}
	return RegisteredIdentity{
		ID:          ident.ID,
		Email:       ident.Traits.Email,
		Name:        ident.Traits.FullName(),
		Permissions: perms,
	}
}

func isDuplicateIdentifier(flow *kratos.Flow) bool {
	if flow == nil {
		return false
	}
	for _, m := range flow.AllMessages() {
		if m.ID == duplicateIdentifierID || m.Text == duplicateIdentifierText {
			return true
		}
	}
	return false
}

func firstMessage(flow *kratos.Flow, fallback string) string {
	if flow == nil {
		return fallback
	}
	for _, m := range flow.AllMessages() {
		if text := strings.TrimSpace(m.Text); text != "" {
			return text
		}
	}
	return fallback
}
