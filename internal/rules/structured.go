package rules

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/dyatlov/go-opengraph/opengraph"

	"github.com/vnykmshr/geoaudit/internal/domain"
)

var knownSchemaTypes = set(
	"Organization", "WebPage", "WebSite", "Article", "BlogPosting", "FAQ",
	"FAQPage", "Product", "LocalBusiness", "Person", "BreadcrumbList", "HowTo",
	"Event", "SoftwareApplication", "Course", "Recipe", "VideoObject",
)

var identitySchemaTypes = set("Organization", "Person", "LocalBusiness")

// keySchemaProperties are the properties answer engines lean on most.
var keySchemaProperties = set(
	"name", "description", "image", "url", "datePublished", "dateModified",
	"author", "publisher", "headline", "mainEntityOfPage", "aggregateRating",
	"review", "offers", "price", "availability", "brand", "sku", "address",
	"telephone", "email", "openingHours", "geo", "sameAs", "logo", "contactPoint",
)

var absoluteURL = regexp.MustCompile(`(?i)^https?://`)

// JSONLD checks for parseable JSON-LD with a recognized Schema.org type.
func JSONLD() domain.Rule {
	return &rule{
		id:          "R04",
		name:        "JSON-LD Schema.org Markup",
		description: "Check for structured data using JSON-LD format",
		category:    domain.CategoryStructuredData,
		maxScore:    10,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			ld := extractJSONLD(parseHTML(page.HTML))
			if ld.scripts == 0 {
				return r.fail(0, "No JSON-LD structured data found",
					"Add JSON-LD Schema.org markup to help AI understand your page content. Start with Organization or WebPage schema.", nil)
			}

			types := ld.types()
			if len(types) == 0 {
				if ld.invalid > 0 {
					return r.warn(3, "JSON-LD found but contains parse errors",
						"Fix JSON-LD syntax errors. Validate at https://search.google.com/test/rich-results",
						map[string]any{"types": []string{}})
				}
				return r.warn(5, "JSON-LD found without any @type",
					"Declare a Schema.org @type such as Organization, WebPage, Article, or Product.", nil)
			}

			recognized := containsAny(types, knownSchemaTypes)
			if len(recognized) == 0 {
				return r.warn(5, "JSON-LD found with unrecognized type(s): "+strings.Join(types, ", "),
					"Use standard Schema.org types like Organization, WebPage, Article, or Product.",
					map[string]any{"types": types})
			}
			return r.pass(10, "JSON-LD found: "+strings.Join(recognized, ", "), map[string]any{"types": recognized})
		},
	}
}

// OpenGraph checks for the four core OpenGraph properties.
func OpenGraph() domain.Rule {
	return &rule{
		id:          "R05",
		name:        "OpenGraph Tags",
		description: "Check for core OpenGraph meta tags (title, description, image, type)",
		category:    domain.CategoryStructuredData,
		maxScore:    10,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			og := opengraph.NewOpenGraph()
			// A tokenizer error leaves whatever was read before it in og
			_ = og.ProcessHTML(strings.NewReader(page.HTML))

			image := ""
			for _, img := range og.Images {
				if img != nil && strings.TrimSpace(img.URL) != "" {
					image = img.URL
					break
				}
			}

			present := map[string]bool{
				"og:title":       strings.TrimSpace(og.Title) != "",
				"og:description": strings.TrimSpace(og.Description) != "",
				"og:image":       image != "",
				"og:type":        strings.TrimSpace(og.Type) != "",
			}
			found, missing := []string{}, []string{}
			for _, tag := range []string{"og:title", "og:description", "og:image", "og:type"} {
				if present[tag] {
					found = append(found, tag)
				} else {
					missing = append(missing, tag)
				}
			}

			details := map[string]any{"found": found, "missing": missing}
			switch {
			case len(found) == 0:
				return r.fail(0, "No OpenGraph tags found",
					"Add og:title, og:description, og:image, and og:type meta tags for better AI and social sharing.", details)
			case len(missing) > 0:
				score := roundDiv(len(found)*r.maxScore, len(present))
				return r.warn(score, "Missing OpenGraph tags: "+strings.Join(missing, ", "),
					"Add missing tags: "+strings.Join(missing, ", "), details)
			default:
				return r.pass(10, "All 4 core OpenGraph tags present", map[string]any{"found": found})
			}
		},
	}
}

// MetaDescription checks the meta description exists with a useful length.
func MetaDescription() domain.Rule {
	return &rule{
		id:          "R06",
		name:        "Meta Description",
		description: "Check for meta description tag with appropriate length",
		category:    domain.CategoryStructuredData,
		maxScore:    5,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			content := strings.TrimSpace(parseHTML(page.HTML).Find(`meta[name="description"]`).First().AttrOr("content", ""))
			if content == "" {
				return r.fail(0, "No meta description found",
					"Add a meta description (50-160 characters) to summarize your page content.", nil)
			}

			length := utf8.RuneCountInString(content)
			details := map[string]any{"length": length}
			switch {
			case length < 50:
				return r.warn(2, fmt.Sprintf("Meta description too short (%d chars, min 50)", length),
					"Expand your meta description to at least 50 characters for better AI comprehension.", details)
			case length > 160:
				return r.warn(3, fmt.Sprintf("Meta description too long (%d chars, max 160)", length),
					"Shorten your meta description to 160 characters or less.", details)
			default:
				return r.pass(5, fmt.Sprintf("Meta description present (%d chars)", length), details)
			}
		},
	}
}

// Canonical checks for an absolute canonical link.
func Canonical() domain.Rule {
	return &rule{
		id:          "R07",
		name:        "Canonical URL",
		description: "Check for link rel=canonical with absolute URL",
		category:    domain.CategoryStructuredData,
		maxScore:    5,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			href := strings.TrimSpace(parseHTML(page.HTML).Find(`link[rel="canonical"]`).First().AttrOr("href", ""))
			if href == "" {
				return r.fail(0, "No canonical URL found",
					`Add <link rel="canonical" href="https://..."> to prevent duplicate content issues with AI crawlers.`, nil)
			}
			details := map[string]any{"canonical": href}
			if !absoluteURL.MatchString(href) {
				return r.warn(2, "Canonical URL is relative, should be absolute",
					"Use an absolute URL (starting with https://) for the canonical link.", details)
			}
			return r.pass(5, "Canonical URL present", details)
		},
	}
}

// IdentitySchema checks for JSON-LD describing who publishes the page.
func IdentitySchema() domain.Rule {
	return &rule{
		id:          "R17",
		name:        "Identity Schema Detection",
		description: "Check for Organization, Person, or LocalBusiness schema in JSON-LD",
		category:    domain.CategoryStructuredData,
		maxScore:    5,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			ld := extractJSONLD(parseHTML(page.HTML))
			if ld.scripts == 0 {
				return r.fail(0, "No JSON-LD found on page",
					"Add JSON-LD with Organization, Person, or LocalBusiness schema to establish your identity for AI systems.", nil)
			}

			types := ld.types()
			if identity := containsAny(types, identitySchemaTypes); len(identity) > 0 {
				return r.pass(5, "Identity schema found: "+strings.Join(identity, ", "), map[string]any{"types": identity})
			}
			if len(ld.values) > 0 {
				return r.warn(2, "JSON-LD exists but no identity schema found",
					"Add Organization, Person, or LocalBusiness schema to help AI systems understand who you are.",
					map[string]any{"types": types})
			}
			return r.fail(0, "No valid JSON-LD found",
				"Add JSON-LD with Organization, Person, or LocalBusiness schema to establish your identity.", nil)
		},
	}
}

// schemaStats accumulates the richness of JSON-LD data.
type schemaStats struct {
	types      []string
	keys       []string
	properties int
	maxNesting int
}

func (s *schemaStats) walk(v any, depth int) {
	s.maxNesting = max(s.maxNesting, depth)
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			s.walk(item, depth)
		}
	case map[string]any:
		for key, value := range node {
			if strings.HasPrefix(key, "@") {
				switch key {
				case "@type":
					s.types = append(s.types, typeNames(value)...)
				case "@graph":
					s.walk(value, depth)
				}
				continue
			}
			s.properties++
			if keySchemaProperties[key] {
				s.keys = append(s.keys, key)
			}
			switch value.(type) {
			case map[string]any, []any:
				s.walk(value, depth+1)
			}
		}
	}
}

// SchemaDepth scores how rich the JSON-LD data is beyond mere presence.
func SchemaDepth() domain.Rule {
	return &rule{
		id:          "R25",
		name:        "Schema Depth",
		description: "Score richness of JSON-LD beyond basic presence",
		category:    domain.CategoryStructuredData,
		maxScore:    8,
		check: func(r *rule, page *domain.PageData) domain.RuleResult {
			ld := extractJSONLD(parseHTML(page.HTML))
			// R04 already penalizes missing JSON-LD
			if ld.scripts == 0 {
				return r.skip(0, "No JSON-LD found (R04 handles basic check)")
			}

			var stats schemaStats
			for _, v := range ld.values {
				stats.walk(v, 0)
			}
			types := unique(stats.types)
			keys := unique(stats.keys)
			if len(types) == 0 {
				return r.skip(0, "No valid @type found in JSON-LD")
			}

			details := map[string]any{
				"types":           types,
				"totalProperties": stats.properties,
				"keyProperties":   keys,
				"maxNesting":      stats.maxNesting,
			}
			switch {
			case len(types) == 1 && stats.properties < 5:
				return r.warn(2, "Shallow schema (1 type, <5 properties)",
					"Enrich your JSON-LD with more properties (description, image, author, etc.)", details)
			case len(types) == 1 && stats.properties < 10:
				return r.warn(4, "Moderate schema (1 type, 5-9 properties)",
					"Consider adding more schema types or properties for richer data", details)
			case len(types) >= 3 && stats.properties >= 10 && len(keys) >= 5:
				return r.pass(8, fmt.Sprintf("Rich schema (%d types, %d properties, %d key)", len(types), stats.properties, len(keys)), details)
			default:
				return r.pass(6, fmt.Sprintf("Good schema (%d types, %d properties)", len(types), stats.properties), details)
			}
		},
	}
}

// roundDiv returns num/den rounded half away from zero, for non-negative inputs.
func roundDiv(num, den int) int {
	if den == 0 {
		return 0
	}
	return (2*num + den) / (2 * den)
}
