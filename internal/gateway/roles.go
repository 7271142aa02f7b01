package gateway

import (
	"context"
	"fmt"

	"identity-gateway/internal/audit"
	"identity-gateway/internal/kratos"
	"identity-gateway/internal/rbac"
	apperrors "identity-gateway/pkg/errors"
)

// RoleUpdateResult reports a role grant. Success is false when the provider
// accepted the write but echoed a role list other than the one written.
type RoleUpdateResult struct {
	Success bool     `json:"success"`
	Details string   `json:"details"`
	Roles   []string `json:"roles,omitempty"`
}

// AddRoles appends roles to the identity's userrole trait. If any requested
// role is already held nothing is written and an AlreadyExistsError naming
// those roles is returned.
func (g *Gateway) AddRoles(ctx context.Context, identityID string, roles []string) (*RoleUpdateResult, error) {
	requested := normalizeRoles(roles)

	ident, err := g.provider.GetIdentity(ctx, identityID)
	if err != nil {
		return nil, upstream(msgProviderUnavailable, err)
	}

	var held, toAdd []string
	for _, r := range requested {
		if ident.Traits.UserRole.Contains(r) {
			held = append(held, r)
		} else {
			toAdd = append(toAdd, r)
		}
	}
	if len(held) > 0 {
		return nil, apperrors.AlreadyExists(fmt.Sprintf(msgRolesAlreadyHeldFmt, held)).WithDetail(held)
	}

	expected := make(kratos.RoleList, 0, len(ident.Traits.UserRole)+len(toAdd))
	expected = append(expected, ident.Traits.UserRole...)
	expected = append(expected, toAdd...)

	traits := ident.Traits
	traits.UserRole = expected

	updated, err := g.provider.UpdateIdentity(ctx, identityID, kratos.UpdateIdentityBody{
		SchemaID: ident.SchemaID,
		State:    ident.State,
		Traits:   traits,
	})
	if err != nil {
		g.record(ctx, &audit.Event{Action: audit.ActionGrantRole, Status: audit.StatusFailure, TargetID: identityID,
			Metadata: map[string]any{"roles": toAdd}, ErrorMessage: err.Error()})
		return nil, upstream(msgProviderUnavailable, err)
	}

	if !sameRoles(updated.Traits.UserRole, expected) {
		g.record(ctx, &audit.Event{Action: audit.ActionGrantRole, Status: audit.StatusFailure, TargetID: identityID,
			Metadata: map[string]any{"roles": toAdd}, ErrorMessage: "role list mismatch after update"})
		return &RoleUpdateResult{Success: false, Details: msgRolesUnverified}, nil
	}

	g.record(ctx, &audit.Event{Action: audit.ActionGrantRole, Status: audit.StatusSuccess, TargetID: identityID,
		Metadata: map[string]any{"roles": toAdd}})
	return &RoleUpdateResult{Success: true, Details: msgRolesUpdated, Roles: []string(updated.Traits.UserRole)}, nil
}

// normalizeRoles drops empty and repeated names. A request naming no role
// stands for the placeholder role.
func normalizeRoles(roles []string) []string {
	seen := make(map[string]bool, len(roles))
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		if r == "" || seen[r] {
			continue
		}
		seen[r] = true
		out = append(out, r)
	}
	if len(out) == 0 {
		return []string{string(rbac.NoRole)}
	}
	return out
}

func sameRoles(got, want kratos.RoleList) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
