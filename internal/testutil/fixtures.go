// Package testutil provides shared test fixtures and utilities for use across test files.
package testutil

import (
	"time"

	"github.com/vnykmshr/geoaudit/internal/domain"
)

// WellFormedHTML is a page that satisfies every built-in rule.
// It deliberately avoids any wording that looks like a Q&A section.
const WellFormedHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="utf-8">
  <meta name="viewport" content="width=device-width, initial-scale=1">
  <title>Example Co | Managed Backups for Small Teams</title>
  <meta name="description" content="Example Co runs encrypted, versioned backups for small engineering teams with restore times measured in minutes.">
  <link rel="canonical" href="https://example.com/">
  <link rel="alternate" type="application/rss+xml" href="/feed.xml">
  <meta property="og:title" content="Example Co">
  <meta property="og:description" content="Managed backups for small engineering teams.">
  <meta property="og:image" content="https://example.com/og.png">
  <meta property="og:type" content="website">
  <script type="application/ld+json">
  {
    "@context": "https://schema.org",
    "@graph": [
      {
        "@type": "Organization",
        "name": "Example Co",
        "url": "https://example.com",
        "logo": "https://example.com/logo.png",
        "email": "hello@example.com",
        "telephone": "+1-555-0100",
        "sameAs": ["https://github.com/example"],
        "address": {"@type": "PostalAddress", "addressLocality": "Berlin", "addressCountry": "DE"}
      },
      {
        "@type": "WebSite",
        "name": "Example Co",
        "url": "https://example.com"
      },
      {
        "@type": "WebPage",
        "name": "Managed Backups",
        "description": "Encrypted, versioned backups for small engineering teams.",
        "image": "https://example.com/og.png"
      }
    ]
  }
  </script>
</head>
<body>
  <header><nav><a href="/">Home</a> <a href="/pricing">Pricing</a></nav></header>
  <main>
    <article>
      <h1>Managed backups for small engineering teams</h1>
      <p>Example Co takes encrypted, versioned snapshots of your databases and object storage every hour and lets you restore any of them in a few minutes without opening a support ticket.</p>
      <section>
        <h2>How snapshots work</h2>
        <p>Each snapshot is deduplicated against the previous one, so only changed blocks travel over the network. Snapshots are encrypted on your servers before upload and the keys never leave your infrastructure.</p>
        <h3>Retention</h3>
        <p>Hourly snapshots are kept for two days, daily snapshots for a month and monthly snapshots for a year. Retention can be tuned per dataset from the dashboard or the command line tool.</p>
      </section>
      <section>
        <h2>Restoring data</h2>
        <p>Pick a point in time, choose a target and the restore starts immediately. Large restores stream data in parallel from several regions to keep recovery time low even for multi-terabyte datasets.</p>
        <img src="/img/restore.png" alt="Restore timeline in the dashboard">
        <img src="/img/divider.png" role="presentation">
      </section>
    </article>
  </main>
  <footer><p>Example Co GmbH</p></footer>
</body>
</html>`

// LlmsTxt is a llms.txt body with every quality signal.
const LlmsTxt = `# Example Co

> Managed, encrypted backups for small engineering teams.

Example Co snapshots databases and object storage every hour.
Restores take minutes and never need a support ticket.
All data is encrypted before it leaves your servers.

## Docs

- [Getting started](https://example.com/docs/start): install the agent
- [Restores](https://example.com/docs/restore): recover a snapshot

## Company

- [About](https://example.com/about): who we are
`

// RobotsTxt addresses eight AI crawlers, all allowed, and lists a sitemap.
const RobotsTxt = `User-agent: GPTBot
User-agent: ChatGPT-User
User-agent: ClaudeBot
User-agent: anthropic-ai
User-agent: PerplexityBot
User-agent: Google-Extended
User-agent: Amazonbot
User-agent: CCBot
Allow: /

User-agent: *
Disallow: /admin/

Sitemap: https://example.com/sitemap.xml
`

// SitemapXML is a minimal valid sitemap.
const SitemapXML = `<?xml version="1.0" encoding="UTF-8"?>
<urlset xmlns="http://www.sitemaps.org/schemas/sitemap/0.9">
  <url><loc>https://example.com/</loc></url>
</urlset>`

// LlmsFullTxt is long enough to count as substantial.
const LlmsFullTxt = `# Example Co: full documentation

Example Co runs managed backups for small engineering teams. An agent installed
on each server takes hourly snapshots of configured databases and object storage
buckets. Snapshots are deduplicated at block level and encrypted client side with
keys that never leave the customer's infrastructure.

## Restores

A restore can target the original server or a fresh one. Data streams in parallel
from several regions. Point-in-time recovery is available for PostgreSQL and MySQL.

## Retention

Hourly snapshots are kept for two days, daily snapshots for a month and monthly
snapshots for a year. Retention is configurable per dataset.
`

// AiTxt is a short ai.txt policy.
const AiTxt = "User-Agent: *\nAllow: /\n"

// Found wraps body in a successful FetchResult.
func Found(body string) domain.FetchResult {
	return domain.FetchResult{OK: true, Status: 200, Body: body}
}

// NotFound returns the FetchResult of a 404 response.
func NotFound() domain.FetchResult {
	return domain.FetchResult{Status: 404, Error: "HTTP 404 Not Found"}
}

// WellFormedPage returns a page snapshot that scores full marks on every
// built-in rule.
func WellFormedPage() *domain.PageData {
	return &domain.PageData{
		URL:        "https://example.com/",
		HTML:       WellFormedHTML,
		StatusCode: 200,
		Headers: map[string]string{
			"content-type":     "text/html; charset=utf-8",
			"content-encoding": "gzip",
		},
		TTFB:        120 * time.Millisecond,
		TotalTime:   180 * time.Millisecond,
		LlmsTxt:     Found(LlmsTxt),
		RobotsTxt:   Found(RobotsTxt),
		SitemapXML:  Found(SitemapXML),
		LlmsFullTxt: Found(LlmsFullTxt),
		AiTxt:       Found(AiTxt),
	}
}

// EmptyPage returns a snapshot of a page with no content and no auxiliary files.
func EmptyPage() *domain.PageData {
	return &domain.PageData{
		URL:         "http://example.com/",
		HTML:        "<html><head></head><body></body></html>",
		StatusCode:  200,
		Headers:     map[string]string{},
		LlmsTxt:     NotFound(),
		RobotsTxt:   NotFound(),
		SitemapXML:  NotFound(),
		LlmsFullTxt: NotFound(),
		AiTxt:       NotFound(),
	}
}

// PageWithHTML returns a well-formed snapshot whose main document is replaced.
func PageWithHTML(html string) *domain.PageData {
	page := WellFormedPage()
	page.HTML = html
	return page
}

// SampleAuditResult returns a complete audit result fixture for reporter tests.
func SampleAuditResult() *domain.AuditResult {
	rules := []domain.RuleResult{
		{
			ID: "R01", Name: "llms.txt Exists", Category: domain.CategoryDiscoverability,
			Status: domain.StatusFail, Score: 0, MaxScore: 10,
			Message:        "No /llms.txt file found",
			Recommendation: "Add /llms.txt to help AI systems understand your site.",
		},
		{
			ID: "R04", Name: "JSON-LD Schema.org Markup", Category: domain.CategoryStructuredData,
			Status: domain.StatusWarn, Score: 5, MaxScore: 10,
			Message:        "JSON-LD found with unrecognized type(s): Thing",
			Recommendation: "Use standard Schema.org types like Organization, WebPage, Article, or Product.",
		},
		{
			ID: "R08", Name: "Heading Hierarchy", Category: domain.CategoryContentQuality,
			Status: domain.StatusPass, Score: 10, MaxScore: 10,
			Message: "Proper heading hierarchy (4 headings)",
		},
		{
			ID: "R14", Name: "HTTPS Enforcement", Category: domain.CategoryTechnical,
			Status: domain.StatusPass, Score: 3, MaxScore: 3,
			Message: "Page is served over HTTPS",
		},
	}

	return &domain.AuditResult{
		URL:       "https://example.com/",
		Score:     55,
		Grade:     domain.GradeD,
		Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Duration:  842,
		Version:   "0.1.0",
		Rules:     rules,
		Categories: []domain.Category{
			{Name: "AI Discoverability", Slug: domain.CategoryDiscoverability, MaxPoints: 10, Score: 0, Rules: rules[:1]},
			{Name: "Structured Data", Slug: domain.CategoryStructuredData, MaxPoints: 10, Score: 5, Rules: rules[1:2]},
			{Name: "Content Quality", Slug: domain.CategoryContentQuality, MaxPoints: 10, Score: 10, Rules: rules[2:3]},
			{Name: "Technical AI-Readiness", Slug: domain.CategoryTechnical, MaxPoints: 3, Score: 3, Rules: rules[3:]},
		},
		Recommendations: []domain.Recommendation{
			{Rule: "R01", Message: rules[0].Recommendation, Impact: 10, Fix: "npx geo-seo generate --only llms-txt"},
			{Rule: "R04", Message: rules[1].Recommendation, Impact: 5, Fix: "npx geo-seo generate"},
		},
	}
}
