package auth

const (
	ContextKeyIdentityID   = "identity_id"
	ContextKeyRoles        = "roles"
	ContextKeySessionToken = "session_token"

	headerAuthorization = "Authorization"

	bearerScheme    = "bearer"
	authHeaderParts = 2
)

const (
	msgMissingAuthorization = "missing authorization token"
	msgUserNotAuthenticated = "user not authenticated"
	msgInvalidRolesCtx      = "invalid roles in context"
)
