package rbac

const (
	errConfigPolicyEmpty           = "rbac config: policy must not be empty"
	errConfigResourceEmpty         = "rbac config: resource name must not be empty"
	errConfigRoleEmptyFmt          = "rbac config: resource %s lists an empty role"
	errConfigDuplicateRoleFmt      = "rbac config: resource %s lists role %s twice"
	errConfigAppNameEmpty          = "rbac config: app name must not be empty"
	errConfigAppNameNotLowerFmt    = "rbac config: app name %q must be lower case"
	errConfigAppDefaultRoleEmptyFm = "rbac config: app %s has an empty default role"
	errMustNewPanicFmt             = "rbac.MustNew: %v"
	errNoPolicyForResourceFmt      = "no permissions configured for resource %s"
	errEmptyPolicyFmt              = "no role is allowed to access resource %s"
	errRolesNotAllowedFmt          = "roles %v cannot access resource %s"
	errNoRolesFmt                  = "no roles presented for resource %s"
)
