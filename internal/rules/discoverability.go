package rules

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/robots"
)

// aiCrawlers are the crawlers a robots.txt is expected to address explicitly.
var aiCrawlers = []string{
	"GPTBot", "ClaudeBot", "PerplexityBot", "Google-Extended", "Amazonbot",
	"anthropic-ai", "CCBot", "ChatGPT-User", "Bytespider", "cohere-ai",
}

// extendedAICrawlers is the wider list used to measure coverage breadth.
var extendedAICrawlers = []string{
	"GPTBot", "ChatGPT-User", "Google-Extended", "ClaudeBot", "Claude-Web",
	"anthropic-ai", "PerplexityBot", "Amazonbot", "CCBot", "Bytespider",
	"cohere-ai", "Meta-ExternalAgent", "FacebookBot", "Applebot-Extended",
	"YouBot", "Omgilibot", "AI2Bot", "Diffbot",
}

var (
	markdownH1       = regexp.MustCompile(`(?m)^#\s+.+`)
	markdownH2       = regexp.MustCompile(`(?m)^##\s+.+`)
	markdownLink     = regexp.MustCompile(`\[.+\]\(.+\)`)
	sitemapDirective = regexp.MustCompile(`(?im)^sitemap:\s*https?://`)
)

// LlmsTxt checks that /llms.txt exists and starts a markdown document.
func LlmsTxt() domain.Rule {
	return &rule{
		id:          "R01",
		name:        "llms.txt Exists",
		description: "Check for /llms.txt file that helps AI systems understand your site",
		category:    domain.CategoryDiscoverability,
		maxScore:    10,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			if !page.LlmsTxt.Found() {
				return r.fail(0, "No /llms.txt file found",
					"Add /llms.txt to help AI systems understand your site. See https://llmstxt.org for the format.", nil)
			}
			body := strings.TrimSpace(page.LlmsTxt.Body)
			if body == "" {
				return r.fail(0, "/llms.txt exists but is empty",
					"Add content to your /llms.txt. It should be valid markdown with an H1 heading.", nil)
			}
			if !markdownH1.MatchString(body) {
				return r.warn(5, "/llms.txt exists but missing H1 heading",
					"Add a markdown H1 heading (# Your Site Name) to your /llms.txt for proper structure.", nil)
			}
			return r.pass(10, "/llms.txt found with valid markdown structure", nil)
		},
	}
}

// RobotsAIRules checks that robots.txt has groups for well-known AI crawlers.
func RobotsAIRules() domain.Rule {
	return &rule{
		id:          "R02",
		name:        "robots.txt AI Crawler Rules",
		description: "Check if robots.txt has explicit rules for AI crawlers",
		category:    domain.CategoryDiscoverability,
		maxScore:    10,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			if !page.RobotsTxt.Found() {
				return r.fail(0, "No robots.txt found",
					"Add a robots.txt file with explicit rules for AI crawlers (GPTBot, ClaudeBot, etc.)", nil)
			}
			file := robots.ParseString(page.RobotsTxt.Body)
			found := []string{}
			for _, bot := range aiCrawlers {
				if file.Mentions(bot) {
					found = append(found, bot)
				}
			}
			if len(found) == 0 {
				return r.warn(5, "robots.txt exists but has no AI-specific crawler rules",
					"Add explicit User-agent rules for GPTBot, ClaudeBot, and PerplexityBot to control AI crawler access.",
					map[string]any{"foundBots": found})
			}
			return r.pass(10, fmt.Sprintf("robots.txt has rules for %d AI crawler(s)", len(found)),
				map[string]any{"foundBots": found})
		},
	}
}

// Sitemap checks for an XML sitemap at the root or a Sitemap directive.
func Sitemap() domain.Rule {
	return &rule{
		id:          "R03",
		name:        "Sitemap.xml Exists",
		description: "Check for XML sitemap for AI crawler discovery",
		category:    domain.CategoryDiscoverability,
		maxScore:    10,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			inRobots := page.RobotsTxt.OK && sitemapDirective.MatchString(page.RobotsTxt.Body)

			body := page.SitemapXML.Body
			isXML := page.SitemapXML.Found() &&
				(strings.Contains(body, "<?xml") || strings.Contains(body, "<urlset") || strings.Contains(body, "<sitemapindex"))

			switch {
			case isXML:
				return r.pass(10, "Valid XML sitemap found", map[string]any{"sitemapInRobots": inRobots})
			case inRobots:
				return r.warn(5, "Sitemap referenced in robots.txt but /sitemap.xml not directly accessible",
					"Ensure your sitemap.xml is accessible at the root URL for maximum crawler compatibility.", nil)
			default:
				return r.fail(0, "No sitemap.xml found",
					"Add a sitemap.xml to help AI crawlers discover all your pages.", nil)
			}
		},
	}
}

// FeedLinks checks for RSS or Atom feeds advertised in the document head.
func FeedLinks() domain.Rule {
	return &rule{
		id:          "R18",
		name:        "RSS/Atom Feed Detection",
		description: "Check for discoverable RSS or Atom feed links in HTML head",
		category:    domain.CategoryDiscoverability,
		maxScore:    5,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			links := parseHTML(page.HTML).Find(`link[rel="alternate"]`)
			if links.Length() == 0 {
				return r.fail(0, "No feed link found",
					`Add <link rel="alternate" type="application/rss+xml" href="/feed.xml"> to make your content discoverable via feeds.`, nil)
			}

			var rss, atom, other []string
			links.Each(func(_ int, s *goquery.Selection) {
				href, _ := s.Attr("href")
				if href == "" {
					return
				}
				switch s.AttrOr("type", "") {
				case "application/rss+xml":
					rss = append(rss, href)
				case "application/atom+xml":
					atom = append(atom, href)
				default:
					other = append(other, href)
				}
			})

			if len(rss)+len(atom) > 0 {
				var kinds []string
				if len(rss) > 0 {
					kinds = append(kinds, fmt.Sprintf("RSS (%d)", len(rss)))
				}
				if len(atom) > 0 {
					kinds = append(kinds, fmt.Sprintf("Atom (%d)", len(atom)))
				}
				return r.pass(5, "Feed link(s) found: "+strings.Join(kinds, ", "),
					map[string]any{"rssFeeds": rss, "atomFeeds": atom})
			}
			if len(other) > 0 {
				return r.warn(2, "Feed link found but missing or incorrect type attribute",
					`Set type="application/rss+xml" or type="application/atom+xml" on feed link elements.`,
					map[string]any{"otherFeeds": other})
			}
			return r.fail(0, "No valid feed link found",
				`Add <link rel="alternate" type="application/rss+xml" href="/feed.xml"> for content discoverability.`, nil)
		},
	}
}

// LlmsQuality grades the structure of an existing llms.txt.
func LlmsQuality() domain.Rule {
	return &rule{
		id:          "R19",
		name:        "llms.txt Content Quality",
		description: "Analyze the quality and completeness of llms.txt content",
		category:    domain.CategoryDiscoverability,
		maxScore:    5,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			// Existence and emptiness are scored by R01
			if !page.LlmsTxt.Found() {
				return r.skip(5, "llms.txt does not exist (skipped)")
			}
			body := strings.TrimSpace(page.LlmsTxt.Body)
			if body == "" {
				return r.skip(5, "llms.txt is empty (skipped)")
			}

			var signals []string
			if markdownH1.MatchString(body) {
				signals = append(signals, "H1 heading")
			}
			if len(body) >= 100 {
				signals = append(signals, "sufficient length")
			}
			if markdownLink.MatchString(body) {
				signals = append(signals, "contains links")
			}
			if len(markdownH2.FindAllString(body, -1)) >= 2 {
				signals = append(signals, "multiple sections")
			}
			textLines := 0
			for _, line := range strings.Split(body, "\n") {
				line = strings.TrimSpace(line)
				if line != "" && !strings.HasPrefix(line, "#") {
					textLines++
				}
			}
			if textLines >= 3 {
				signals = append(signals, "descriptive content")
			}

			quality := len(signals)
			details := map[string]any{"qualityScore": quality, "signals": signals}
			switch {
			case quality >= 4:
				return r.pass(5, fmt.Sprintf("High-quality llms.txt (%d/5 signals): %s", quality, strings.Join(signals, ", ")), details)
			case quality >= 2:
				return r.warn(3, fmt.Sprintf("llms.txt could be improved (%d/5 signals)", quality),
					"Enhance llms.txt with: H1 heading, sufficient content (100+ chars), markdown links, multiple sections (## headings), and descriptive text.",
					details)
			default:
				return r.fail(1, fmt.Sprintf("Minimal llms.txt quality (%d/5 signals)", quality),
					"Improve llms.txt with: H1 heading, more content, markdown links, multiple sections, and descriptive paragraphs.",
					details)
			}
		},
	}
}

// AIBotCoverage measures how many AI crawlers robots.txt addresses.
func AIBotCoverage() domain.Rule {
	return &rule{
		id:          "R21",
		name:        "AI Bot Coverage Breadth",
		description: "Check how many AI crawlers are explicitly addressed in robots.txt",
		category:    domain.CategoryDiscoverability,
		maxScore:    5,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			// R02 already penalizes a missing robots.txt
			if !page.RobotsTxt.Found() {
				return r.skip(0, "No robots.txt found (R02 handles basic check)")
			}

			file := robots.ParseString(page.RobotsTxt.Body)
			allowed, blocked, unmentioned := []string{}, []string{}, []string{}
			for _, bot := range extendedAICrawlers {
				switch {
				case !file.Mentions(bot):
					unmentioned = append(unmentioned, bot)
				case file.Blocked(bot):
					blocked = append(blocked, bot)
				default:
					allowed = append(allowed, bot)
				}
			}

			// Bots allowed at the root may still be kept off this page.
			pageBlocked := []string{}
			pagePath := "/"
			if u, err := url.Parse(page.URL); err == nil && u.Path != "" {
				pagePath = u.Path
			}
			for _, bot := range allowed {
				if !file.IsAllowed(bot, pagePath) {
					pageBlocked = append(pageBlocked, bot)
				}
			}

			mentioned := len(allowed) + len(blocked)
			total := len(extendedAICrawlers)
			details := map[string]any{
				"mentioned":   mentioned,
				"allowed":     allowed,
				"blocked":     blocked,
				"unmentioned": unmentioned,
				"pageBlocked": pageBlocked,
			}
			switch {
			case mentioned == 0:
				return r.fail(0, "No AI bots explicitly addressed in robots.txt",
					"Add explicit User-agent rules for major AI crawlers (GPTBot, ClaudeBot, Google-Extended, etc.)", details)
			case mentioned <= 3:
				return r.warn(2, fmt.Sprintf("Only %d AI bot(s) addressed - limited coverage", mentioned),
					fmt.Sprintf("Expand coverage to include more AI crawlers (currently %d/%d)", mentioned, total), details)
			case mentioned <= 6:
				return r.warn(3, fmt.Sprintf("%d AI bots addressed - moderate coverage", mentioned),
					fmt.Sprintf("Consider adding more AI crawlers for comprehensive coverage (currently %d/%d)", mentioned, total), details)
			default:
				return r.pass(5, fmt.Sprintf("%d AI bots addressed - good coverage", mentioned), details)
			}
		},
	}
}

// LlmsFullTxt checks for the /llms-full.txt companion document.
func LlmsFullTxt() domain.Rule {
	return &rule{
		id:          "R22",
		name:        "llms-full.txt Exists",
		description: "Check for /llms-full.txt companion file (per llmstxt.org)",
		category:    domain.CategoryDiscoverability,
		maxScore:    5,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			if !page.LlmsFullTxt.Found() {
				return r.fail(0, "No /llms-full.txt file found",
					"Add /llms-full.txt with comprehensive documentation for AI systems",
					map[string]any{"status": page.LlmsFullTxt.Status})
			}
			length := len([]rune(strings.TrimSpace(page.LlmsFullTxt.Body)))
			details := map[string]any{"length": length}
			switch {
			case length == 0:
				return r.fail(0, "/llms-full.txt exists but is empty",
					"Populate /llms-full.txt with detailed site documentation", details)
			case length < 500:
				return r.warn(3, fmt.Sprintf("/llms-full.txt is too short (%d chars)", length),
					"Expand /llms-full.txt with more comprehensive documentation (aim for 500+ characters)", details)
			default:
				return r.pass(5, fmt.Sprintf("/llms-full.txt is substantial (%d chars)", length), details)
			}
		},
	}
}

// AiTxt checks for an /ai.txt policy file.
func AiTxt() domain.Rule {
	return &rule{
		id:          "R23",
		name:        "ai.txt Exists",
		description: "Check for /ai.txt declaring AI interaction permissions",
		category:    domain.CategoryDiscoverability,
		maxScore:    3,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			if !page.AiTxt.Found() {
				return r.fail(0, "No /ai.txt file found",
					"Add /ai.txt to declare AI interaction permissions and policies",
					map[string]any{"status": page.AiTxt.Status, "error": page.AiTxt.Error})
			}
			length := len([]rune(strings.TrimSpace(page.AiTxt.Body)))
			if length == 0 {
				return r.fail(0, "/ai.txt exists but is empty",
					"Populate /ai.txt with AI interaction permissions and policies", map[string]any{"length": 0})
			}
			return r.pass(3, fmt.Sprintf("/ai.txt exists with content (%d chars)", length), map[string]any{"length": length})
		},
	}
}
