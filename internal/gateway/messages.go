package gateway

const (
	msgProviderUnavailable = "identity provider request failed"
	msgSessionInvalid      = "session is invalid or expired"
	msgSessionInactive     = "session is not active"
	msgInvalidCredential   = "Invalid Credential"
	msgLoginSuccess        = "Login Successful"
	msgLogoutSuccess       = "Successfully logged out"
	msgRegistered          = "Registration Successful"
	msgRoleGranted         = "User already registered, new permission added"
	msgAlreadyHasRole      = "User already has this permission"
	msgNoMatchingIdentity  = "An account with the same identifier exists already"
	msgRegistrationFailed  = "Registration rejected"
	msgRolesUpdated        = "User roles updated"
	msgRolesUnverified     = "Something went wrong .. Try again!"
	msgRolesAlreadyHeldFmt = "Already existing permissions %v"

	superFirstName = "Super"
	superLastName  = "Admin"

	// duplicateIdentifierText and duplicateIdentifierID identify the
	// provider's "identifier already exists" validation message.
	duplicateIdentifierText = "An account with the same identifier (email, phone, username, ...) exists already."
	duplicateIdentifierID   = 4000007
)
