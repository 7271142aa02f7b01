package config

import "fmt"

const (
	errRequiredEnvNotSetFmt = "required environment variable %s is not set"
	errURLInvalidFmt        = "%s must be an absolute http(s) URL, got %q"
	errNotPositiveFmt       = "%s must be positive"
)

type messageBuilders struct {
	requiredEnvNotSet func(string) string
	invalidURL        func(key, value string) string
	notPositive       func(string) string
}

func newMessageBuilders() messageBuilders {
	return messageBuilders{
		requiredEnvNotSet: func(key string) string {
			return fmt.Sprintf(errRequiredEnvNotSetFmt, key)
		},
		invalidURL: func(key, value string) string {
			return fmt.Sprintf(errURLInvalidFmt, key, value)
		},
		notPositive: func(key string) string {
			return fmt.Sprintf(errNotPositiveFmt, key)
		},
	}
}

var messages = newMessageBuilders()
