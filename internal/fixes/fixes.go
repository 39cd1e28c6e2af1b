// Package fixes maps rule IDs to commands of the companion generator that
// can repair the finding.
package fixes

import "github.com/vnykmshr/geoaudit/internal/domain"

// Suggestion is a remediation command for a rule.
type Suggestion struct {
	// Command is the CLI invocation that repairs the finding.
	Command string `json:"command"`
	// Automatic is true when the command needs no user configuration.
	Automatic bool `json:"automatic"`
}

var suggestions = map[string]Suggestion{
	"R01": {Command: "npx geo-seo generate --only llms-txt", Automatic: true},
	"R02": {Command: "npx geo-seo generate --only robots-txt", Automatic: true},
	"R03": {Command: "npx geo-seo generate --only sitemap", Automatic: true},
	"R04": {Command: "npx geo-seo generate"},
	"R17": {Command: "npx geo-seo generate"},
}

// GetFixSuggestion returns the fix for ruleID, if one exists.
func GetFixSuggestion(ruleID string) (Suggestion, bool) {
	s, ok := suggestions[ruleID]
	return s, ok
}

// Automatic returns the distinct automatic fix commands for recs, in order.
func Automatic(recs []domain.Recommendation) []string {
	seen := make(map[string]bool)
	var commands []string
	for _, rec := range recs {
		s, ok := suggestions[rec.Rule]
		if !ok || !s.Automatic || seen[s.Command] {
			continue
		}
		seen[s.Command] = true
		commands = append(commands, s.Command)
	}
	return commands
}
