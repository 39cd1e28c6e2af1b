package reporter

import (
	"fmt"
	"net/url"

	"github.com/vnykmshr/geoaudit/internal/domain"
)

const (
	badgeServiceURL = "https://geo-badge.glincker.workers.dev"
	badgeLandingURL = "https://geo.glincker.com"
)

// Badge holds embeddable shields.io snippets for an audit result.
type Badge struct {
	// Dynamic is an endpoint badge that re-audits through the badge service.
	Dynamic string `json:"dynamic"`
	// Static is a snapshot of the current score.
	Static string `json:"static"`
	// HTML is an img tag wrapping the static badge.
	HTML string `json:"html"`
}

// GradeToColor maps a grade to a shields.io color name.
func GradeToColor(grade domain.Grade) string {
	switch grade {
	case domain.GradeA:
		return "brightgreen"
	case domain.GradeB:
		return "green"
	case domain.GradeC:
		return "yellow"
	case domain.GradeD:
		return "orange"
	default:
		return "red"
	}
}

// FormatBadge builds the badge snippets for result.
func FormatBadge(result *domain.AuditResult) Badge {
	color := GradeToColor(result.Grade)
	staticURL := fmt.Sprintf("https://img.shields.io/badge/AI--Ready-%d%%20(%s)-%s", result.Score, result.Grade, color)
	endpoint := badgeServiceURL + "/?url=" + hostname(result.URL)

	return Badge{
		Dynamic: "https://img.shields.io/endpoint?url=" + url.QueryEscape(endpoint),
		Static:  staticURL,
		HTML: fmt.Sprintf(`<a href="%s"><img alt="AI-Ready: %d (%s)" src="%s"></a>`,
			badgeLandingURL, result.Score, result.Grade, staticURL),
	}
}
