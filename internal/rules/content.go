package rules

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"github.com/vnykmshr/geoaudit/internal/domain"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	faqMention    = regexp.MustCompile(`(?i)faq|frequently\s+asked|questions`)
	bcp47Tag      = regexp.MustCompile(`^[a-z]{2,3}(-[A-Z]{2})?$`)
)

// ssrNoise is stripped before measuring server-rendered text.
const ssrNoise = "script, style, noscript, nav, footer, header, svg, iframe"

// blufChrome is page furniture that never counts as the opening answer.
const blufChrome = "nav, header, footer, [role='navigation'], [role='banner'], [role='contentinfo'], " +
	".cookie-banner, .cookie-consent, #cookie-notice, .nav, .navbar, .sidebar, aside"

var blufSelectors = []string{"main p", "article p", "[role='main'] p", "body p"}

var fillerOpenings = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^welcome\s+to`),
	regexp.MustCompile(`(?i)^click\s+here`),
	regexp.MustCompile(`(?i)^sign\s+up`),
	regexp.MustCompile(`(?i)^subscribe`),
	regexp.MustCompile(`(?i)^cookie`),
	regexp.MustCompile(`(?i)^we\s+use\s+cookies`),
	regexp.MustCompile(`(?i)^this\s+website\s+uses`),
	regexp.MustCompile(`(?i)^accept\s+(all\s+)?cookies`),
	regexp.MustCompile(`(?i)^skip\s+to\s+(main\s+)?content`),
	regexp.MustCompile(`(?i)^toggle\s+navigation`),
	regexp.MustCompile(`(?i)^menu`),
	regexp.MustCompile(`(?i)^loading`),
	regexp.MustCompile(`(?i)^please\s+enable\s+javascript`),
}

var semanticTags = []string{"main", "article", "section", "nav", "aside", "header", "footer"}

// Headings checks for a single H1 and no skipped heading levels.
func Headings() domain.Rule {
	return &rule{
		id:          "R08",
		name:        "Heading Hierarchy",
		description: "Check for proper heading structure (single H1, no skipped levels)",
		category:    domain.CategoryContentQuality,
		maxScore:    10,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			var levels []int
			parseHTML(page.HTML).Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, s *goquery.Selection) {
				name := goquery.NodeName(s)
				levels = append(levels, int(name[1]-'0'))
			})
			if len(levels) == 0 {
				return r.fail(0, "No headings found on page",
					"Add an H1 heading and use proper heading hierarchy for AI content parsing.", nil)
			}

			h1Count := 0
			for _, level := range levels {
				if level == 1 {
					h1Count++
				}
			}

			issues := []string{}
			switch {
			case h1Count == 0:
				issues = append(issues, "No H1 heading found")
			case h1Count > 1:
				issues = append(issues, fmt.Sprintf("Multiple H1 headings (%d)", h1Count))
			}
			for i := 1; i < len(levels); i++ {
				if levels[i] > levels[i-1]+1 {
					issues = append(issues, fmt.Sprintf("Skipped from H%d to H%d", levels[i-1], levels[i]))
					break
				}
			}

			details := map[string]any{"h1Count": h1Count, "totalHeadings": len(levels), "issues": issues}
			if h1Count == 0 {
				return r.fail(2, strings.Join(issues, "; "),
					"Add a single H1 heading that describes your page content.", details)
			}
			if len(issues) > 0 {
				return r.warn(5, strings.Join(issues, "; "),
					"Fix heading hierarchy: use a single H1 and don't skip levels (e.g., H1 to H3 without H2).", details)
			}
			return r.pass(10, fmt.Sprintf("Proper heading hierarchy (%d headings)", len(levels)),
				map[string]any{"h1Count": h1Count, "totalHeadings": len(levels)})
		},
	}
}

// ServerRendered checks that meaningful text is present without running JavaScript.
func ServerRendered() domain.Rule {
	return &rule{
		id:          "R09",
		name:        "Content Accessibility (SSR)",
		description: "Check if meaningful content is available in initial HTML without JavaScript",
		category:    domain.CategoryContentQuality,
		maxScore:    10,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			doc := parseHTML(page.HTML)
			doc.Find(ssrNoise).Remove()

			text := strings.TrimSpace(whitespaceRun.ReplaceAllString(doc.Find("body").Text(), " "))
			length := utf8.RuneCountInString(text)

			if length < 100 {
				clientOnly := doc.Find(`[id="root"], [id="app"], [id="__next"]`).Length() > 0 ||
					(strings.Contains(page.HTML, ".js") && length < 50)
				message := fmt.Sprintf("Very little text content in initial HTML (%d chars)", length)
				if clientOnly {
					message = "Page appears to be client-side rendered only, AI crawlers can't read JavaScript"
				}
				return r.fail(0, message,
					"Use server-side rendering (SSR) or static generation (SSG) so AI crawlers can read your content without JavaScript.",
					map[string]any{"textLength": length, "isClientOnly": clientOnly})
			}

			details := map[string]any{"textLength": length}
			if length < 500 {
				return r.warn(5, fmt.Sprintf("Thin content in initial HTML (%d chars)", length),
					"Consider adding more server-rendered content. AI crawlers prefer text-heavy pages.", details)
			}
			return r.pass(10, fmt.Sprintf("Good server-rendered content (%d chars)", length), details)
		},
	}
}

// FAQ checks that FAQ-looking content is backed by FAQPage markup.
func FAQ() domain.Rule {
	return &rule{
		id:          "R10",
		name:        "FAQ Content Detection",
		description: "Check for FAQ content and corresponding FAQ schema markup",
		category:    domain.CategoryContentQuality,
		maxScore:    5,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			doc := parseHTML(page.HTML)
			hasFAQ := faqMention.MatchString(page.HTML) ||
				doc.Find("dl dt").Length() >= 2 ||
				doc.Find("details summary").Length() >= 2 ||
				doc.Find(`[class*="accordion"], [class*="faq"], [data-faq]`).Length() > 0
			if !hasFAQ {
				// Pages without FAQ content are not penalized
				return r.skip(5, "No FAQ content detected (not penalized)")
			}

			if len(containsAny(extractJSONLD(doc).types(), set("FAQPage", "FAQ"))) == 0 {
				return r.warn(2, "FAQ content detected but no FAQPage schema markup",
					"Add FAQPage JSON-LD schema to your FAQ section. FAQ schema has the highest citation rate in AI-generated answers.", nil)
			}
			return r.pass(5, "FAQ content with FAQPage schema markup detected", nil)
		},
	}
}

// LangTag checks the html element declares a language.
func LangTag() domain.Rule {
	return &rule{
		id:          "R13",
		name:        "Language Tag",
		description: "Check for lang attribute on <html> element for accessibility and i18n",
		category:    domain.CategoryContentQuality,
		maxScore:    3,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			lang := strings.TrimSpace(parseHTML(page.HTML).Find("html").AttrOr("lang", ""))
			if lang == "" {
				return r.fail(0, "No lang attribute found on <html> element",
					`Add lang attribute to <html> element (e.g., <html lang="en">) for accessibility and search engines.`, nil)
			}
			details := map[string]any{"langCode": lang}
			if !bcp47Tag.MatchString(lang) {
				return r.warn(1, fmt.Sprintf("Lang attribute present but may be invalid: %q", lang),
					`Ensure lang attribute uses valid BCP-47 language code (e.g., "en", "en-US", "de").`, details)
			}
			return r.pass(3, fmt.Sprintf("Valid lang attribute: %q", lang), details)
		},
	}
}

// AltText checks alt text coverage of content images.
func AltText() domain.Rule {
	return &rule{
		id:          "R15",
		name:        "Image Alt Text Coverage",
		description: "Check that images have descriptive alt text for accessibility and AI parsing",
		category:    domain.CategoryContentQuality,
		maxScore:    5,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			total, withAlt := 0, 0
			parseHTML(page.HTML).Find("img").Each(func(_ int, s *goquery.Selection) {
				if role, _ := s.Attr("role"); role == "presentation" {
					return
				}
				total++
				if alt, ok := s.Attr("alt"); ok && strings.TrimSpace(alt) != "" {
					withAlt++
				}
			})
			if total == 0 {
				return r.pass(5, "No images found on page",
					map[string]any{"totalImages": 0, "imagesWithAlt": 0, "percentage": 100})
			}

			percentage := roundDiv(withAlt*100, total)
			details := map[string]any{"totalImages": total, "imagesWithAlt": withAlt, "percentage": percentage}
			switch {
			case percentage >= 90:
				return r.pass(5, fmt.Sprintf("%d of %d images have alt text (%d%%)", withAlt, total, percentage), details)
			case percentage >= 50:
				return r.warn(3, fmt.Sprintf("Only %d of %d images have alt text (%d%%)", withAlt, total, percentage),
					"Add descriptive alt text to all images. Alt text helps screen readers, SEO, and AI systems understand your images.", details)
			default:
				return r.fail(0, fmt.Sprintf("Only %d of %d images have alt text (%d%%)", withAlt, total, percentage),
					"Add descriptive alt text to all images. This is critical for accessibility and helps AI systems understand your content.", details)
			}
		},
	}
}

// SemanticHTML counts the distinct HTML5 sectioning elements in use.
func SemanticHTML() domain.Rule {
	return &rule{
		id:          "R16",
		name:        "Semantic HTML",
		description: "Check for semantic HTML5 elements (main, article, section, nav, etc.)",
		category:    domain.CategoryContentQuality,
		maxScore:    5,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			doc := parseHTML(page.HTML)
			found := []string{}
			for _, tag := range semanticTags {
				if doc.Find(tag).Length() > 0 {
					found = append(found, tag)
				}
			}
			sort.Strings(found)

			details := map[string]any{"semanticElements": found, "count": len(found)}
			switch {
			case len(found) >= 3:
				return r.pass(5, "Good use of semantic HTML: "+strings.Join(found, ", "), details)
			case len(found) >= 1:
				return r.warn(3, "Limited semantic HTML: "+strings.Join(found, ", "),
					"Use more semantic HTML5 elements (main, article, section, nav, aside, header, footer) to improve content structure for AI parsing and accessibility.", details)
			default:
				return r.fail(0, "No semantic HTML5 elements found",
					"Replace generic <div> elements with semantic HTML5 elements like <main>, <article>, <section>, <nav>, <header>, and <footer> to help AI systems understand your content structure.", details)
			}
		},
	}
}

// AnswerFirst checks that the page opens with a substantive answer
// rather than boilerplate.
func AnswerFirst() domain.Rule {
	return &rule{
		id:          "R24",
		name:        "BLUF / Answer Capsule",
		description: "Check if page leads with a direct answer",
		category:    domain.CategoryContentQuality,
		maxScore:    8,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			doc := parseHTML(page.HTML)
			doc.Find(blufChrome).Remove()

			opening := ""
			for _, selector := range blufSelectors {
				if p := doc.Find(selector).First(); p.Length() > 0 {
					if opening = strings.TrimSpace(p.Text()); opening != "" {
						break
					}
				}
			}
			if opening == "" {
				return r.fail(0, "No content paragraphs found",
					"Add a direct answer or summary at the start of your main content", nil)
			}

			preview := truncateRunes(opening, 120)
			for _, filler := range fillerOpenings {
				if filler.MatchString(opening) {
					return r.warn(2, "First paragraph is filler content",
						"Replace filler/boilerplate with a direct answer to the user's likely question",
						map[string]any{"preview": preview})
				}
			}

			words := len(strings.Fields(opening))
			details := map[string]any{"wordCount": words, "preview": preview}
			switch {
			case words < 15:
				return r.warn(3, fmt.Sprintf("First paragraph is too short (%d words)", words),
					"Expand the opening to a more substantive answer (15-300 words)", details)
			case words > 300:
				return r.warn(4, fmt.Sprintf("First paragraph is too long (%d words)", words),
					"Shorten the opening to a more concise answer (15-300 words)", details)
			default:
				return r.pass(8, fmt.Sprintf("Page opens with substantive answer (%d words)", words), details)
			}
		},
	}
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
