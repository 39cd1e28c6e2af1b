package rules

import (
	"strings"
	"testing"

	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/testutil"
)

func pageWith(mutate func(p *domain.PageData)) *domain.PageData {
	page := testutil.WellFormedPage()
	mutate(page)
	return page
}

func TestLlmsTxt(t *testing.T) {
	runExpectations(t, LlmsTxt(), []expectation{
		{"valid", testutil.WellFormedPage(), domain.StatusPass, 10, "valid markdown"},
		{"missing", pageWith(func(p *domain.PageData) { p.LlmsTxt = testutil.NotFound() }), domain.StatusFail, 0, "No /llms.txt"},
		{"whitespace only", pageWith(func(p *domain.PageData) { p.LlmsTxt = testutil.Found("  \n\t") }), domain.StatusFail, 0, "empty"},
		{"no heading", pageWith(func(p *domain.PageData) { p.LlmsTxt = testutil.Found("Just some text") }), domain.StatusWarn, 5, "missing H1"},
		{"h2 is not h1", pageWith(func(p *domain.PageData) { p.LlmsTxt = testutil.Found("## Docs") }), domain.StatusWarn, 5, ""},
	})
}

func TestRobotsAIRules(t *testing.T) {
	runExpectations(t, RobotsAIRules(), []expectation{
		{"ai groups", testutil.WellFormedPage(), domain.StatusPass, 10, "8 AI crawler"},
		{"missing", pageWith(func(p *domain.PageData) { p.RobotsTxt = testutil.NotFound() }), domain.StatusFail, 0, ""},
		{"generic only", pageWith(func(p *domain.PageData) {
			p.RobotsTxt = testutil.Found("User-agent: *\nDisallow: /tmp/\n")
		}), domain.StatusWarn, 5, "no AI-specific"},
		{"case insensitive agent", pageWith(func(p *domain.PageData) {
			p.RobotsTxt = testutil.Found("user-agent: gptbot\ndisallow: /\n")
		}), domain.StatusPass, 10, "1 AI crawler"},
	})
}

func TestSitemap(t *testing.T) {
	runExpectations(t, Sitemap(), []expectation{
		{"xml sitemap", testutil.WellFormedPage(), domain.StatusPass, 10, ""},
		{"only in robots", pageWith(func(p *domain.PageData) { p.SitemapXML = testutil.NotFound() }), domain.StatusWarn, 5, "referenced in robots.txt"},
		{"not xml", pageWith(func(p *domain.PageData) {
			p.SitemapXML = testutil.Found("<html>soft 404</html>")
			p.RobotsTxt = testutil.NotFound()
		}), domain.StatusFail, 0, ""},
		{"sitemap index", pageWith(func(p *domain.PageData) {
			p.SitemapXML = testutil.Found("<sitemapindex></sitemapindex>")
		}), domain.StatusPass, 10, ""},
	})
}

func TestFeedLinks(t *testing.T) {
	atom := `<html><head><link rel="alternate" type="application/atom+xml" href="/atom.xml"></head></html>`
	untyped := `<html><head><link rel="alternate" href="/feed"></head></html>`
	hreflang := `<html><head><link rel="alternate" type="text/html" hreflang="de"></head></html>`

	runExpectations(t, FeedLinks(), []expectation{
		{"rss", testutil.WellFormedPage(), domain.StatusPass, 5, "RSS (1)"},
		{"atom", testutil.PageWithHTML(atom), domain.StatusPass, 5, "Atom (1)"},
		{"untyped", testutil.PageWithHTML(untyped), domain.StatusWarn, 2, ""},
		{"alternate without href", testutil.PageWithHTML(hreflang), domain.StatusFail, 0, "No valid feed"},
		{"none", testutil.PageWithHTML("<html></html>"), domain.StatusFail, 0, "No feed link"},
	})
}

func TestLlmsQuality(t *testing.T) {
	runExpectations(t, LlmsQuality(), []expectation{
		{"rich", testutil.WellFormedPage(), domain.StatusPass, 5, "5/5"},
		{"missing is skipped", pageWith(func(p *domain.PageData) { p.LlmsTxt = testutil.NotFound() }), domain.StatusSkip, 5, ""},
		{"empty is skipped", pageWith(func(p *domain.PageData) { p.LlmsTxt = testutil.Found(" ") }), domain.StatusSkip, 5, ""},
		{"bare heading", pageWith(func(p *domain.PageData) { p.LlmsTxt = testutil.Found("# Site") }), domain.StatusFail, 1, "1/5"},
		{"heading and link", pageWith(func(p *domain.PageData) {
			p.LlmsTxt = testutil.Found("# Site\n- [Docs](https://example.com/docs)")
		}), domain.StatusWarn, 3, "2/5"},
	})
}

func TestAIBotCoverage(t *testing.T) {
	few := "User-agent: GPTBot\nAllow: /\n\nUser-agent: CCBot\nDisallow: /\n"
	moderate := "User-agent: GPTBot\nUser-agent: ClaudeBot\nUser-agent: CCBot\nUser-agent: Diffbot\nAllow: /\n"

	runExpectations(t, AIBotCoverage(), []expectation{
		{"good coverage", testutil.WellFormedPage(), domain.StatusPass, 5, "8 AI bots"},
		{"no robots", pageWith(func(p *domain.PageData) { p.RobotsTxt = testutil.NotFound() }), domain.StatusSkip, 0, ""},
		{"none", pageWith(func(p *domain.PageData) { p.RobotsTxt = testutil.Found("User-agent: *\nAllow: /\n") }), domain.StatusFail, 0, ""},
		{"few", pageWith(func(p *domain.PageData) { p.RobotsTxt = testutil.Found(few) }), domain.StatusWarn, 2, "Only 2"},
		{"moderate", pageWith(func(p *domain.PageData) { p.RobotsTxt = testutil.Found(moderate) }), domain.StatusWarn, 3, "4 AI bots"},
	})

	t.Run("classifies blocked bots", func(t *testing.T) {
		res := run(AIBotCoverage(), pageWith(func(p *domain.PageData) { p.RobotsTxt = testutil.Found(few) }))
		blocked, _ := res.Details["blocked"].([]string)
		allowed, _ := res.Details["allowed"].([]string)
		if len(blocked) != 1 || blocked[0] != "CCBot" {
			t.Errorf("blocked = %v, want [CCBot]", blocked)
		}
		if len(allowed) != 1 || allowed[0] != "GPTBot" {
			t.Errorf("allowed = %v, want [GPTBot]", allowed)
		}
	})

	t.Run("reports bots kept off the audited page", func(t *testing.T) {
		body := "User-agent: GPTBot\nAllow: /\nDisallow: /private/\n\nUser-agent: ClaudeBot\nAllow: /\n"
		res := run(AIBotCoverage(), pageWith(func(p *domain.PageData) {
			p.URL = "https://example.com/private/page"
			p.RobotsTxt = testutil.Found(body)
		}))
		pageBlocked, _ := res.Details["pageBlocked"].([]string)
		if len(pageBlocked) != 1 || pageBlocked[0] != "GPTBot" {
			t.Errorf("pageBlocked = %v, want [GPTBot]", pageBlocked)
		}
	})
}

func TestLlmsFullTxt(t *testing.T) {
	runExpectations(t, LlmsFullTxt(), []expectation{
		{"substantial", testutil.WellFormedPage(), domain.StatusPass, 5, ""},
		{"missing", pageWith(func(p *domain.PageData) { p.LlmsFullTxt = testutil.NotFound() }), domain.StatusFail, 0, ""},
		{"empty", pageWith(func(p *domain.PageData) { p.LlmsFullTxt = testutil.Found("\n") }), domain.StatusFail, 0, "empty"},
		{"short", pageWith(func(p *domain.PageData) { p.LlmsFullTxt = testutil.Found("# Docs\nshort") }), domain.StatusWarn, 3, "too short"},
		{"exactly 500", pageWith(func(p *domain.PageData) { p.LlmsFullTxt = testutil.Found(strings.Repeat("a", 500)) }), domain.StatusPass, 5, "500 chars"},
	})
}

func TestAiTxt(t *testing.T) {
	runExpectations(t, AiTxt(), []expectation{
		{"present", testutil.WellFormedPage(), domain.StatusPass, 3, ""},
		{"missing", pageWith(func(p *domain.PageData) { p.AiTxt = testutil.NotFound() }), domain.StatusFail, 0, ""},
		{"server error", pageWith(func(p *domain.PageData) {
			p.AiTxt = domain.FetchResult{Status: 500, Error: "HTTP 500 Internal Server Error"}
		}), domain.StatusFail, 0, ""},
		{"empty", pageWith(func(p *domain.PageData) { p.AiTxt = testutil.Found("   ") }), domain.StatusFail, 0, "empty"},
	})
}
