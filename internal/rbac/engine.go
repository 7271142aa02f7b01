package rbac

import (
	"fmt"
	"sort"
	"strings"

	apperrors "identity-gateway/pkg/errors"
)

// Authorizer decides whether a set of roles may access a resource. It is
// built once from a validated Config and never mutated afterwards, so it is
// safe for concurrent use.
type Authorizer struct {
	allowed     map[Resource]map[Role]bool
	appDefaults map[string]Role
}

// New creates an Authorizer from a validated Config
func New(cfg Config) (*Authorizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	a := &Authorizer{}
	a.buildLookups(cfg)
	return a, nil
}

// MustNew creates an Authorizer and panics on invalid config
func MustNew(cfg Config) *Authorizer {
	a, err := New(cfg)
	if err != nil {
		panic(fmt.Sprintf(errMustNewPanicFmt, err))
	}
	return a
}

func (a *Authorizer) buildLookups(cfg Config) {
	a.allowed = make(map[Resource]map[Role]bool, len(cfg.Policy))
	for res, roles := range cfg.Policy {
		set := make(map[Role]bool, len(roles))
		for _, r := range roles {
			set[r] = true
		}
		a.allowed[res] = set
	}

	a.appDefaults = make(map[string]Role, len(cfg.AppDefaults))
	for app, role := range cfg.AppDefaults {
		a.appDefaults[app] = role
	}
}

// IsAuthorized reports whether any of roles is allowed on resource.
//
// An unconfigured resource fails with ErrConfiguration. A resource whose
// role list is empty fails with ErrPermissionDenied when roles is non-empty.
// An empty roles set is simply not authorized.
func (a *Authorizer) IsAuthorized(resource Resource, roles []Role) (bool, error) {
	allowed, ok := a.allowed[resource]
	if !ok {
		return false, apperrors.Configuration(fmt.Sprintf(errNoPolicyForResourceFmt, resource))
	}
	if len(roles) == 0 {
		return false, nil
	}
	if len(allowed) == 0 {
		return false, apperrors.PermissionDenied(fmt.Sprintf(errEmptyPolicyFmt, resource))
	}

	for _, r := range roles {
		if allowed[r] {
			return true, nil
		}
	}
	return false, nil
}

// Authorize is the error-returning form of IsAuthorized: nil means access is
// granted, every denial is an ErrPermissionDenied and configuration problems
// stay ErrConfiguration.
func (a *Authorizer) Authorize(resource Resource, roles []Role) error {
	ok, err := a.IsAuthorized(resource, roles)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	if len(roles) == 0 {
		return apperrors.PermissionDenied(fmt.Sprintf(errNoRolesFmt, resource))
	}
	return apperrors.PermissionDenied(fmt.Sprintf(errRolesNotAllowedFmt, roles, resource))
}

// DefaultRole returns the role auto-assigned on registration through appName.
// The lookup is case-insensitive; unknown apps get NoRole.
func (a *Authorizer) DefaultRole(appName string) Role {
	if role, ok := a.appDefaults[strings.ToLower(appName)]; ok {
		return role
	}
	return NoRole
}

// Resources lists the configured resources in lexical order.
func (a *Authorizer) Resources() []Resource {
	out := make([]Resource, 0, len(a.allowed))
	for res := range a.allowed {
		out = append(out, res)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
