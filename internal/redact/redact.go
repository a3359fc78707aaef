// Package redact removes credentials and filesystem paths from strings
// before they are logged or returned in error responses. Gateway errors
// routinely carry connection strings and data directory paths.
package redact

import (
	"net/url"
	"regexp"
)

// Placeholders substituted for redacted fragments.
const (
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
)

var (
	// userinfo in postgres and redis connection URLs
	connURLRegex = regexp.MustCompile(`(?i)\b(postgres|postgresql|redis|rediss)://[^@/\s]+@`)

	// key=value passwords, as in libpq keyword DSNs
	passwordRegex = regexp.MustCompile(`(?i)\b(password|passwd|pwd)\s*[=:]\s*['"]?[^'"&\s]+['"]?`)

	// absolute paths with at least two segments
	unixPathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)
	winPathRegex  = regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(\\[^\\\s]+)+`)
)

// String redacts sensitive information from the input string.
func String(input string) string {
	if input == "" {
		return input
	}

	result := connURLRegex.ReplaceAllString(input, "${1}://"+RedactedCredentialPlaceholder+"@")
	result = passwordRegex.ReplaceAllLiteralString(result, RedactedCredentialPlaceholder)
	result = unixPathRegex.ReplaceAllLiteralString(result, RedactedPathPlaceholder)
	result = winPathRegex.ReplaceAllLiteralString(result, RedactedPathPlaceholder)
	return result
}

// Error redacts sensitive information from an error's Error() output.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}

// URL masks the password of a connection URL while keeping host and
// database visible for diagnostics. Strings that are not URLs fall back to
// String.
func URL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return String(raw)
	}
	return u.Redacted()
}
