package rules

import (
	"fmt"
	"math"
	"strings"

	"github.com/vnykmshr/geoaudit/internal/domain"
)

const (
	fastTTFBMillis = 500
	slowTTFBMillis = 2000
)

// ResponseTime scores time to first byte of the main page.
func ResponseTime() domain.Rule {
	return &rule{
		id:          "R11",
		name:        "Response Time",
		description: "Check Time to First Byte (TTFB), AI crawlers have strict timeouts",
		category:    domain.CategoryTechnical,
		maxScore:    10,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			ms := float64(page.TTFB) / 1e6
			ttfb := int(math.Round(ms))
			details := map[string]any{"ttfb": ttfb}

			switch {
			case ttfb > slowTTFBMillis:
				return r.fail(0, fmt.Sprintf("Slow TTFB: %dms (should be <500ms)", ttfb),
					"Improve server response time. AI crawlers may skip slow sites. Consider caching, CDN, or server optimization.", details)
			case ttfb > fastTTFBMillis:
				span := float64(slowTTFBMillis - fastTTFBMillis)
				score := max(2, int(math.Round(10-(float64(ttfb-fastTTFBMillis)/span)*8)))
				return r.warn(score, fmt.Sprintf("Moderate TTFB: %dms (target <500ms)", ttfb),
					"Consider improving server response time for better AI crawler compatibility.", details)
			default:
				return r.pass(10, fmt.Sprintf("Fast TTFB: %dms", ttfb), details)
			}
		},
	}
}

// ContentType checks the main response is HTML with a charset and compression.
func ContentType() domain.Rule {
	return &rule{
		id:          "R12",
		name:        "Content-Type & Encoding",
		description: "Verify proper content-type header and compression",
		category:    domain.CategoryTechnical,
		maxScore:    5,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			contentType := page.Header("Content-Type")
			encoding := page.Header("Content-Encoding")
			details := map[string]any{"contentType": contentType, "encoding": encoding}

			if !strings.Contains(contentType, "text/html") {
				shown := contentType
				if shown == "" {
					shown = "(none)"
				}
				return r.fail(0, "Wrong content-type: "+shown,
					"Ensure your server returns Content-Type: text/html; charset=utf-8", details)
			}

			var issues []string
			score := r.maxScore
			hasCharset := strings.Contains(contentType, "charset=") || strings.Contains(contentType, "utf-8")
			if !hasCharset {
				issues = append(issues, "missing charset")
				score--
			}
			compressed := strings.Contains(encoding, "gzip") ||
				strings.Contains(encoding, "br") ||
				strings.Contains(encoding, "deflate")
			if !compressed {
				issues = append(issues, "no compression (gzip/brotli)")
				score -= 2
			}

			if len(issues) == 0 {
				return r.pass(5, "Proper content-type with compression", details)
			}
			recommendation := "Add charset=utf-8 to your Content-Type header."
			if !compressed {
				recommendation = "Enable gzip or brotli compression to reduce payload size for AI crawlers."
			}
			return r.warn(score, "Content-type OK but "+strings.Join(issues, ", "), recommendation, details)
		},
	}
}

// HTTPS checks the audited URL uses TLS.
func HTTPS() domain.Rule {
	return &rule{
		id:          "R14",
		name:        "HTTPS Enforcement",
		description: "Verify that the page is served over secure HTTPS",
		category:    domain.CategoryTechnical,
		maxScore:    3,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			if !strings.HasPrefix(page.URL, "https://") {
				return r.fail(0, "Page is not served over HTTPS",
					"Enable HTTPS for your site. This is critical for security, SEO, and user trust.",
					map[string]any{"protocol": "http"})
			}
			return r.pass(3, "Page is served over HTTPS", map[string]any{"protocol": "https"})
		},
	}
}

// Viewport checks for a responsive viewport meta tag.
func Viewport() domain.Rule {
	return &rule{
		id:          "R20",
		name:        "Mobile Viewport Meta Tag",
		description: "Check for proper viewport meta tag for mobile responsiveness",
		category:    domain.CategoryTechnical,
		maxScore:    3,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			viewport := parseHTML(page.HTML).Find(`meta[name="viewport"]`)
			if viewport.Length() == 0 {
				return r.fail(0, "No viewport meta tag found",
					`Add <meta name="viewport" content="width=device-width, initial-scale=1"> for proper mobile rendering.`, nil)
			}
			content := viewport.First().AttrOr("content", "")
			details := map[string]any{"content": content}
			if strings.Contains(content, "width=device-width") {
				return r.pass(3, "Viewport meta tag properly configured", details)
			}
			return r.warn(1, "Viewport meta tag exists but missing width=device-width",
				`Update viewport meta tag to include "width=device-width" for proper mobile responsiveness.`, details)
		},
	}
}
