package rbac

import (
	"errors"
	"fmt"
	"strings"
)

// Config holds the static authorization configuration
type Config struct {
	Policy      Policy
	AppDefaults AppDefaults
}

// Validate checks internal consistency of the Config
func (c *Config) Validate() error {
	if len(c.Policy) == 0 {
		return errors.New(errConfigPolicyEmpty)
	}

	for res, roles := range c.Policy {
		if res == "" {
			return errors.New(errConfigResourceEmpty)
		}
		seen := make(map[Role]bool, len(roles))
		for _, r := range roles {
			if r == "" {
				return fmt.Errorf(errConfigRoleEmptyFmt, res)
			}
			if seen[r] {
				return fmt.Errorf(errConfigDuplicateRoleFmt, res, r)
			}
			seen[r] = true
		}
	}

	for app, role := range c.AppDefaults {
		if app == "" {
			return errors.New(errConfigAppNameEmpty)
		}
		if app != strings.ToLower(app) {
			return fmt.Errorf(errConfigAppNameNotLowerFmt, app)
		}
		if role == "" {
			return fmt.Errorf(errConfigAppDefaultRoleEmptyFm, app)
		}
	}

	return nil
}
