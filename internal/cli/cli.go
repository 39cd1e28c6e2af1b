// Package cli provides command-line interface utilities for geoaudit.
// It holds configuration loading, target resolution, display, and validation
// helpers so the main package stays a thin flag-parsing shell.
package cli

import (
	"strings"
)

// ConfigOptions holds command-line flag values for configuration.
// These are passed to LoadConfiguration to build the final Config.
type ConfigOptions struct {
	URL        string
	Timeout    string
	UserAgent  string
	OutputFile string
	// Rules is a comma-separated list of rule IDs, e.g. "R01,R04".
	Rules              string
	Rate               float64
	Concurrency        int
	FailUnder          int
	InsecureSkipVerify bool
	AllowPrivateHosts  bool
	Verbose            bool
}

// ParseRuleList splits a comma-separated rule list, dropping blanks and
// normalizing IDs to upper case.
func ParseRuleList(list string) []string {
	var ids []string
	for _, part := range strings.Split(list, ",") {
		id := strings.ToUpper(strings.TrimSpace(part))
		if id != "" {
			ids = append(ids, id)
		}
	}
	return ids
}

// NormalizeTimeout accepts a bare integer as milliseconds and returns any
// other value unchanged for duration parsing.
func NormalizeTimeout(timeout string) string {
	timeout = strings.TrimSpace(timeout)
	if timeout == "" {
		return ""
	}
	for _, r := range timeout {
		if r < '0' || r > '9' {
			return timeout
		}
	}
	return timeout + "ms"
}
