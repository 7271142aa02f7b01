package logger

import (
	"regexp"
	"strings"
)

// Sensitive field patterns to filter from logs
var (
	jsonSecretPattern = regexp.MustCompile(`(?i)"([a-z_.]*(?:password|token|secret)[a-z_.]*)"\s*:\s*"(?:[^"\\]|\\.)*"`)
	passwordPattern   = regexp.MustCompile(`(?i)(password|passwd|pwd)[\s:=]+[^\s]+`)
	tokenPattern      = regexp.MustCompile(`(?i)(token|bearer)[\s:=]+[^\s]+`)
	secretPattern     = regexp.MustCompile(`(?i)(secret|private[_-]?key)[\s:=]+[^\s]+`)
	emailPattern      = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
)

const redactedPlaceholder = "[REDACTED]"

// SanitizeLogMessage removes credentials, session tokens and email addresses
// from log messages, including provider JSON payloads.
func SanitizeLogMessage(message string) string {
	message = jsonSecretPattern.ReplaceAllString(message, `"${1}":"`+redactedPlaceholder+`"`)

	message = passwordPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = tokenPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)
	message = secretPattern.ReplaceAllString(message, "${1}="+redactedPlaceholder)

	return emailPattern.ReplaceAllString(message, redactedPlaceholder)
}

// SanitizeMap removes sensitive keys from a map
func SanitizeMap(data map[string]interface{}) map[string]interface{} {
	sensitiveKeys := []string{
		"password", "passwd", "pwd",
		"token", "bearer",
		"secret", "private_key", "private-key",
	}

	sanitized := make(map[string]interface{}, len(data))
	for k, v := range data {
		lowerKey := strings.ToLower(k)
		isSensitive := false

		for _, sensitiveKey := range sensitiveKeys {
			if strings.Contains(lowerKey, sensitiveKey) {
				isSensitive = true
				break
			}
		}

		if isSensitive {
			sanitized[k] = redactedPlaceholder
		} else {
			sanitized[k] = v
		}
	}

	return sanitized
}
