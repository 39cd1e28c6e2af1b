package domain

import (
	"strings"
	"time"
)

// Status is the outcome of a single rule check.
type Status string

// Rule outcomes. Skip is rule-specific: some rules skip with full credit when
// they do not apply, others skip with zero when another rule already
// penalizes the missing prerequisite.
const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
	StatusSkip Status = "skip"
)

// Category slugs used to group rules.
const (
	CategoryDiscoverability = "discoverability"
	CategoryStructuredData  = "structured-data"
	CategoryContentQuality  = "content-quality"
	CategoryTechnical       = "technical"
)

// Grade is the letter grade derived from the overall score.
type Grade string

// Letter grades from best to worst.
const (
	GradeA Grade = "A"
	GradeB Grade = "B"
	GradeC Grade = "C"
	GradeD Grade = "D"
	GradeF Grade = "F"
)

// FetchResult is the outcome of fetching one auxiliary resource.
// When OK is false, Body is always empty and Status is either the real
// non-2xx status or 0 for a network-level failure.
type FetchResult struct {
	// Body is the full response text when OK is true.
	Body string `json:"body"`
	// Error describes why the fetch did not succeed.
	Error string `json:"error,omitempty"`
	// Status is the HTTP status code, or 0 if no response was received.
	Status int `json:"status"`
	// OK is true for a 2xx response whose body was read completely.
	OK bool `json:"ok"`
}

// Found reports whether the resource was fetched with a 200 status.
func (r FetchResult) Found() bool {
	return r.OK && r.Status == 200
}

// PageData is the snapshot of one audited page. It is built once per audit
// by the fetcher and is read-only for every rule.
type PageData struct {
	// Headers holds the main response headers keyed by lower-cased name.
	Headers map[string]string
	// URL is the normalized absolute URL that was requested.
	URL string
	// HTML is the raw body of the main response, cut at the fetcher's body
	// size limit when Truncated is set.
	HTML string
	// LlmsTxt is the result of fetching /llms.txt.
	LlmsTxt FetchResult
	// RobotsTxt is the result of fetching /robots.txt.
	RobotsTxt FetchResult
	// SitemapXML is the result of fetching /sitemap.xml.
	SitemapXML FetchResult
	// LlmsFullTxt is the result of fetching /llms-full.txt.
	LlmsFullTxt FetchResult
	// AiTxt is the result of fetching /ai.txt.
	AiTxt FetchResult
	// TTFB is the time from dispatch until response headers were available.
	TTFB time.Duration
	// TotalTime is the time from dispatch until the body was fully read.
	TotalTime time.Duration
	// StatusCode is the final HTTP status of the main fetch.
	StatusCode int
	// Truncated reports that the main body exceeded the size limit.
	Truncated bool
}

// Header returns the value of the named response header, ignoring case.
func (p *PageData) Header(name string) string {
	return p.Headers[strings.ToLower(name)]
}

// RuleResult is what a single rule reports about a page.
type RuleResult struct {
	Details        map[string]any `json:"details,omitempty"`
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Description    string         `json:"description"`
	Category       string         `json:"category"`
	Status         Status         `json:"status"`
	Message        string         `json:"message"`
	Recommendation string         `json:"recommendation,omitempty"`
	Score          int            `json:"score"`
	MaxScore       int            `json:"maxScore"`
}

// CategoryDef declares a category and its fixed point budget.
type CategoryDef struct {
	Slug      string `json:"slug" yaml:"slug"`
	Name      string `json:"name" yaml:"name"`
	MaxPoints int    `json:"maxPoints" yaml:"max_points"`
}

// Category is the per-audit rollup of one category's rule results.
type Category struct {
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	Rules     []RuleResult `json:"rules"`
	Score     int          `json:"score"`
	MaxPoints int          `json:"maxPoints"`
}

// Recommendation is an actionable item built from a non-passing rule.
type Recommendation struct {
	Rule    string `json:"rule"`
	Message string `json:"message"`
	Fix     string `json:"fix,omitempty"`
	Impact  int    `json:"impact"`
}

// AuditResult is the complete outcome of auditing one URL.
type AuditResult struct {
	Timestamp       time.Time        `json:"timestamp"`
	URL             string           `json:"url"`
	Grade           Grade            `json:"grade"`
	Version         string           `json:"version"`
	Categories      []Category       `json:"categories"`
	Rules           []RuleResult     `json:"rules"`
	Recommendations []Recommendation `json:"recommendations"`
	Score           int              `json:"score"`
	// Duration is the audit wall-clock time in milliseconds.
	Duration int64 `json:"duration"`
}

// CountByStatus returns how many rules ended with each status.
func (r *AuditResult) CountByStatus() map[Status]int {
	counts := make(map[Status]int, 4)
	for _, rr := range r.Rules {
		counts[rr.Status]++
	}
	return counts
}
