package presets

import "identity-gateway/internal/rbac"

const (
	RoleSuperAdmin  rbac.Role = "SuperAdmin"
	RoleVachanAdmin rbac.Role = "VachanAdmin"
	RoleAgUser      rbac.Role = "aguser"
	RoleVachanUser  rbac.Role = "vachanuser"

	ResourceContentType    rbac.Resource = "contentType"
	ResourceLicenses       rbac.Resource = "licenses"
	ResourceVersions       rbac.Resource = "versions"
	ResourceSources        rbac.Resource = "sources"
	ResourceBibles         rbac.Resource = "bibles"
	ResourceCommentaries   rbac.Resource = "commentaries"
	ResourceDictionaries   rbac.Resource = "dictionaries"
	ResourceInfographics   rbac.Resource = "infographics"
	ResourceBibleVideos    rbac.Resource = "bibleVideos"
	ResourceUserRole       rbac.Resource = "userRole"
	ResourceDeleteIdentity rbac.Resource = "delete_identity"
	ResourceProfiling      rbac.Resource = "profiling"

	AppAg     = "ag"
	AppVachan = "vachan"
)

// Vachan returns the access policy and registration defaults of the content API
func Vachan() rbac.Config {
	contentAdmins := []rbac.Role{RoleSuperAdmin, RoleVachanAdmin}
	superOnly := []rbac.Role{RoleSuperAdmin}

	return rbac.Config{
		Policy: rbac.Policy{
			ResourceContentType:    contentAdmins,
			ResourceLicenses:       contentAdmins,
			ResourceVersions:       contentAdmins,
			ResourceSources:        contentAdmins,
			ResourceBibles:         contentAdmins,
			ResourceCommentaries:   contentAdmins,
			ResourceDictionaries:   contentAdmins,
			ResourceInfographics:   contentAdmins,
			ResourceBibleVideos:    contentAdmins,
			ResourceUserRole:       superOnly,
			ResourceDeleteIdentity: superOnly,
			ResourceProfiling:      superOnly,
		},
		AppDefaults: rbac.AppDefaults{
			AppAg:     RoleAgUser,
			AppVachan: RoleVachanUser,
		},
	}
}
