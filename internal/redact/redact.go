// Package redact provides utilities for redacting sensitive information from strings
// before they are logged or returned in error responses. Errors from the hosted
// model APIs routinely echo request URLs and headers, so API keys and bearer
// tokens are the main concern, followed by database credentials, local file paths
// and e-mail addresses.
package redact

import "regexp"

// Constants for redaction placeholders
const (
	RedactionPlaceholder    = "[REDACTED]"
	RedactedPathPlaceholder = "[REDACTED_PATH]"
	RedactedKeyPlaceholder  = "[REDACTED_KEY]"
	RedactedJWTPlaceholder  = "[REDACTED_JWT]"
	RedactedEmailHolder     = "[REDACTED_EMAIL]"
	RedactedStackHolder     = "[STACK_TRACE_REDACTED]"
	RedactedCredentials     = "[REDACTED_CREDENTIALS]"
)

type rule struct {
	re          *regexp.Regexp
	replacement string
}

// rules are applied in order; earlier rules see the raw text.
var rules = []rule{
	// Stack trace fragments
	{
		re:          regexp.MustCompile(`(?:goroutine \d+|panic:)[\s\S]*?(\n\t.*)+`),
		replacement: RedactedStackHolder,
	},
	// Google API keys, wherever they appear
	{
		re:          regexp.MustCompile(`AIza[0-9A-Za-z_\-]{20,}`),
		replacement: RedactedKeyPlaceholder,
	},
	// JWT token pattern - matches the standard three-part base64url-encoded JWT token format
	{
		re:          regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`),
		replacement: RedactedJWTPlaceholder,
	},
	// Credentials embedded in database connection strings
	{
		re:          regexp.MustCompile(`(?i)(postgres(?:ql)?|mysql)://[^@\s/]+@`),
		replacement: "${1}://" + RedactedCredentials + "@",
	},
	// Credential headers echoed in transport errors
	{
		re:          regexp.MustCompile(`(?i)(x-goog-api-key|authorization)(\s*:\s*)(?:Bearer\s+)?\S+`),
		replacement: "${1}${2}" + RedactedKeyPlaceholder,
	},
	// key=value style secrets
	{
		re:          regexp.MustCompile(`(?i)(api[_-]?key|token|secret|password|key)(\s*[:=]\s*['"]?)[A-Za-z0-9_\-.~+/]{8,}`),
		replacement: "${1}${2}" + RedactedKeyPlaceholder,
	},
	// Email addresses
	{
		re:          regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`),
		replacement: RedactedEmailHolder,
	},
	// Windows paths
	{
		re:          regexp.MustCompile(`[A-Za-z]:\\[^\\\s]+(\\[^\\\s]+)+`),
		replacement: RedactedPathPlaceholder,
	},
	// Unix paths
	{
		re:          regexp.MustCompile(`(/[\w.-]+){2,}`),
		replacement: RedactedPathPlaceholder,
	},
}

// String redacts sensitive information from the input string
func String(input string) string {
	if input == "" {
		return input
	}

	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.replacement)
	}

	return result
}

// Error redacts sensitive information from an error's Error() output
func Error(err error) string {
	if err == nil {
		return ""
	}

	return String(err.Error())
}
