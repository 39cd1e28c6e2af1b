package rules

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const jsonLDSelector = `script[type="application/ld+json"]`

// parseHTML parses raw into a goquery document. The HTML5 parser recovers
// from malformed markup, so a document is always returned.
func parseHTML(raw string) *goquery.Document {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(raw))
	if err != nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(""))
	}
	return doc
}

// jsonLD holds the decoded JSON-LD blocks of a document.
type jsonLD struct {
	values  []any
	scripts int
	invalid int
}

func extractJSONLD(doc *goquery.Document) jsonLD {
	var ld jsonLD
	doc.Find(jsonLDSelector).Each(func(_ int, s *goquery.Selection) {
		ld.scripts++
		text := strings.TrimSpace(s.Text())
		var v any
		if err := json.Unmarshal([]byte(text), &v); err != nil {
			ld.invalid++
			return
		}
		ld.values = append(ld.values, v)
	})
	return ld
}

// types returns the @type values of every block, following @graph members
// and top-level arrays.
func (ld jsonLD) types() []string {
	var out []string
	for _, v := range ld.values {
		out = appendTypes(out, v)
	}
	return out
}

func appendTypes(out []string, v any) []string {
	switch node := v.(type) {
	case []any:
		for _, item := range node {
			out = appendTypes(out, item)
		}
	case map[string]any:
		out = append(out, typeNames(node["@type"])...)
		if graph, ok := node["@graph"].([]any); ok {
			out = appendTypes(out, graph)
		}
	}
	return out
}

// typeNames reads an @type value, which may be a string or a list of strings.
func typeNames(v any) []string {
	switch t := v.(type) {
	case string:
		return []string{t}
	case []any:
		names := make([]string, 0, len(t))
		for _, item := range t {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}

func containsAny(haystack []string, needles map[string]bool) []string {
	var found []string
	for _, s := range haystack {
		if needles[s] {
			found = append(found, s)
		}
	}
	return found
}

func set(values ...string) map[string]bool {
	m := make(map[string]bool, len(values))
	for _, v := range values {
		m[v] = true
	}
	return m
}

// unique returns values without duplicates, keeping first occurrences.
func unique(values []string) []string {
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
