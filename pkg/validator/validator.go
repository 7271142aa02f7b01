package validator

import (
	"errors"
	"fmt"
	"regexp"
)

const (
	minEmailLength    = 3
	maxEmailLength    = 255
	maxPasswordLength = 128
	maxAppNameLen     = 64
	maxRoleNameLen    = 64
	asciiControlStart = 32
	asciiDelete       = 127

	errEmailEmpty           = "email cannot be empty"
	errEmailLengthFmt       = "email must be between %d and %d characters"
	errEmailInvalid         = "invalid email format"
	errPasswordEmpty        = "password cannot be empty"
	errPasswordMaxLengthFmt = "password must not exceed %d characters"
	errControlChars         = "text cannot contain control characters"
	errAppNameMaxLengthFmt  = "appname must not exceed %d characters"
	errAppNameInvalid       = "appname may only contain letters, digits, '-' and '_'"
	errRoleNameMaxLengthFmt = "role name must not exceed %d characters"
	errRoleNameControl      = "role name cannot contain control characters"
)

var (
	emailRegex   = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
	appNameRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]*$`)
)

func Email(email string) error {
	if email == "" {
		return errors.New(errEmailEmpty)
	}

	if len(email) < minEmailLength || len(email) > maxEmailLength {
		return fmt.Errorf(errEmailLengthFmt, minEmailLength, maxEmailLength)
	}

	if !emailRegex.MatchString(email) {
		return errors.New(errEmailInvalid)
	}

	return nil
}

// Password only bounds the input; the password policy is enforced by the
// identity provider.
func Password(password string) error {
	if password == "" {
		return errors.New(errPasswordEmpty)
	}

	if len(password) > maxPasswordLength {
		return fmt.Errorf(errPasswordMaxLengthFmt, maxPasswordLength)
	}

	return nil
}

func DisplayText(s string) error {
	if hasControlChars(s) {
		return errors.New(errControlChars)
	}
	return nil
}

// AppName accepts an empty name, which maps to no default role.
func AppName(name string) error {
	if len(name) > maxAppNameLen {
		return fmt.Errorf(errAppNameMaxLengthFmt, maxAppNameLen)
	}

	if !appNameRegex.MatchString(name) {
		return errors.New(errAppNameInvalid)
	}

	return nil
}

// RoleName accepts an empty name, which stands for the placeholder role.
func RoleName(name string) error {
	if len(name) > maxRoleNameLen {
		return fmt.Errorf(errRoleNameMaxLengthFmt, maxRoleNameLen)
	}

	if hasControlChars(name) {
		return errors.New(errRoleNameControl)
	}

	return nil
}

func hasControlChars(s string) bool {
	for _, char := range s {
		if char < asciiControlStart || char == asciiDelete {
			return true
		}
	}
	return false
}
