package util

import (
	"fmt"
	"net"
	"net/url"
	"regexp"
	"strings"
)

// URLValidationError represents a URL validation failure
type URLValidationError struct {
	URL    string
	Reason string
}

func (e *URLValidationError) Error() string {
	return fmt.Sprintf("invalid URL %q: %s", e.URL, e.Reason)
}

// BlockedHostError is returned when a fetch targets a loopback, private or
// otherwise internal address.
type BlockedHostError struct {
	Host string
}

func (e *BlockedHostError) Error() string {
	return fmt.Sprintf("Blocked: %s is a private/internal address", e.Host)
}

var schemePattern = regexp.MustCompile(`(?i)^[a-z][a-z0-9+.-]*://`)

// blockedHostPatterns cover loopback, unspecified and RFC1918 hosts.
var blockedHostPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^127\.`),
	regexp.MustCompile(`^10\.`),
	regexp.MustCompile(`^172\.(1[6-9]|2\d|3[01])\.`),
	regexp.MustCompile(`^192\.168\.`),
	regexp.MustCompile(`^0\.`),
	regexp.MustCompile(`(?i)^localhost$`),
	regexp.MustCompile(`(?i)^localhost\.localdomain$`),
}

// NormalizeURL trims whitespace and defaults the scheme to https when the
// input has no scheme at all. Other schemes are left for ValidateTargetURL
// to reject.
func NormalizeURL(rawURL string) string {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" || schemePattern.MatchString(trimmed) {
		return trimmed
	}
	return "https://" + trimmed
}

// CheckHost returns a *BlockedHostError if hostname points at an internal
// address. Only the literal hostname is inspected; no DNS lookup is made.
func CheckHost(hostname string) error {
	host := strings.TrimSuffix(strings.Trim(hostname, "[]"), ".")
	for _, pattern := range blockedHostPatterns {
		if pattern.MatchString(host) {
			return &BlockedHostError{Host: hostname}
		}
	}
	if ip := net.ParseIP(host); ip != nil && isPrivateIP(ip) {
		return &BlockedHostError{Host: hostname}
	}
	return nil
}

// ValidateTargetURL validates a URL for use as an audit target.
// It checks for:
// - Valid URL syntax
// - HTTP or HTTPS scheme only (blocks file://, ftp://, gopher://, etc.)
// - Non-empty host
// - Internal hosts, unless allowPrivateHosts is true
func ValidateTargetURL(rawURL string, allowPrivateHosts bool) (*url.URL, error) {
	if rawURL == "" {
		return nil, &URLValidationError{URL: rawURL, Reason: "URL cannot be empty"}
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return nil, &URLValidationError{URL: rawURL, Reason: fmt.Sprintf("invalid URL syntax: %v", err)}
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return nil, &URLValidationError{
			URL:    rawURL,
			Reason: fmt.Sprintf("unsupported scheme %q (only http and https allowed)", parsed.Scheme),
		}
	}

	if parsed.Host == "" {
		return nil, &URLValidationError{URL: rawURL, Reason: "missing host"}
	}
	if parsed.Hostname() == "" {
		return nil, &URLValidationError{URL: rawURL, Reason: "missing hostname"}
	}

	if !allowPrivateHosts {
		if err := CheckHost(parsed.Hostname()); err != nil {
			return nil, err
		}
	}

	return parsed, nil
}

// isPrivateIP checks if an IP is private, loopback, or otherwise not routable
func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsPrivate() || ip.IsUnspecified() {
		return true
	}

	// 169.254.0.0/16 and fe80::/10 include cloud metadata endpoints
	if ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}

	if ip4 := ip.To4(); ip4 != nil {
		// 0.0.0.0/8 (current network)
		if ip4[0] == 0 {
			return true
		}
		// 100.64.0.0/10 (carrier-grade NAT)
		if ip4[0] == 100 && ip4[1] >= 64 && ip4[1] <= 127 {
			return true
		}
	}

	return false
}
