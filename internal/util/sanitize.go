// Package util provides URL validation and log sanitizing helpers for the auditor.
package util

import (
	"net/url"
	"regexp"
	"strings"
)

// DefaultSensitiveParams contains common sensitive query parameter names
var DefaultSensitiveParams = []string{
	"api_key", "apikey", "api-key",
	"token", "access_token", "auth_token", "auth",
	"password", "passwd", "pwd",
	"secret", "client_secret",
	"key", "signature", "sig",
	"session", "session_id", "sessionid",
}

const redacted = "[REDACTED]"

// SanitizeURL redacts credentials and sensitive query parameters from a URL
// so audited URLs can be logged. Parameter names match case-insensitively.
func SanitizeURL(rawURL string, sensitiveParams []string) string {
	if rawURL == "" {
		return ""
	}
	if len(sensitiveParams) == 0 {
		sensitiveParams = DefaultSensitiveParams
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}

	modified := false
	if _, hasPassword := parsed.User.Password(); hasPassword {
		modified = true
	}

	if parsed.RawQuery != "" {
		query := parsed.Query()
		for key := range query {
			for _, param := range sensitiveParams {
				if strings.EqualFold(key, param) {
					query.Set(key, redacted)
					modified = true
					break
				}
			}
		}
		if modified {
			parsed.RawQuery = query.Encode()
		}
	}

	if !modified {
		return rawURL
	}
	return parsed.Redacted()
}

// SanitizeURLDefault redacts sensitive parameters using the default list
func SanitizeURLDefault(rawURL string) string {
	return SanitizeURL(rawURL, nil)
}

var (
	ipv4Pattern = regexp.MustCompile(`\b\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3}\b`)
	ipv6Pattern = regexp.MustCompile(`\[[0-9a-fA-F:]+\]`)
	pathPattern = regexp.MustCompile(`(/[a-zA-Z0-9._-]+){3,}`)
)

// SanitizeError strips IP addresses and deep file paths from an error
// message before it is shown to a user.
func SanitizeError(errMsg string) string {
	if errMsg == "" {
		return ""
	}
	result := ipv4Pattern.ReplaceAllString(errMsg, "[IP]")
	result = ipv6Pattern.ReplaceAllString(result, "[IPv6]")
	return pathPattern.ReplaceAllString(result, "[path]")
}

// SanitizeErrorForDisplay returns a user-friendly error message.
// If verbose is true, returns the full error. Otherwise sanitizes it.
func SanitizeErrorForDisplay(errMsg string, verbose bool) string {
	if verbose {
		return errMsg
	}
	return SanitizeError(errMsg)
}
