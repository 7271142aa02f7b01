package handler

const (
	jsonKeyMessage = "message"
	jsonKeyRoles   = "roles"

	paramID       = "id"
	paramResource = "resource"

	maxNameLength = 255
)

const (
	msgContentTypeJSONRequired = "Content-Type must be application/json"
	msgInvalidRequestBody      = "invalid request body"
	msgFirstNameRequired       = "firstname is required"
	msgLastNameRequired        = "lastname is required"
	msgNameTooLong             = "names must not exceed 255 characters"
	msgUsernameRequired        = "username and password are required"
	msgIdentityIDRequired      = "userid is required"
	msgUnknownResource         = "unknown resource"
)
