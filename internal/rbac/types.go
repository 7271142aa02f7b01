package rbac

// Role is a role name stored in the identity's userrole trait. Any string is a
// legal role; only the ones referenced by a Policy grant anything.
type Role string

// Resource names a protected capability or API.
type Resource string

// Policy maps each resource to the roles allowed to access it. An empty role
// list means nobody is authorized; a missing key means the resource was never
// configured.
type Policy map[Resource][]Role

// AppDefaults maps a lower-cased application name to the role granted on
// registration through that application.
type AppDefaults map[string]Role

// NoRole is the explicit placeholder role used when no default applies.
const NoRole Role = "None"

// Roles converts raw trait values into Roles.
func Roles(values []string) []Role {
	roles := make([]Role, 0, len(values))
	for _, v := range values {
		roles = append(roles, Role(v))
	}
	return roles
}

// Strings converts roles back into their trait representation.
func Strings(roles []Role) []string {
	out := make([]string, 0, len(roles))
	for _, r := range roles {
		out = append(out, string(r))
	}
	return out
}
