package rules

import (
	"strings"
	"testing"

	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/testutil"
)

func bodyPage(body string) *domain.PageData {
	return testutil.PageWithHTML("<html><head></head><body>" + body + "</body></html>")
}

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestHeadings(t *testing.T) {
	runExpectations(t, Headings(), []expectation{
		{"proper", testutil.WellFormedPage(), domain.StatusPass, 10, "4 headings"},
		{"none", bodyPage("<p>text</p>"), domain.StatusFail, 0, "No headings"},
		{"no h1", bodyPage("<h2>a</h2><h3>b</h3>"), domain.StatusFail, 2, "No H1 heading found"},
		{"multiple h1", bodyPage("<h1>a</h1><h1>b</h1>"), domain.StatusWarn, 5, "Multiple H1 headings (2)"},
		{"skipped level", bodyPage("<h1>a</h1><h3>b</h3><h5>c</h5>"), domain.StatusWarn, 5, "Skipped from H1 to H3"},
		{"both issues", bodyPage("<h1>a</h1><h1>b</h1><h4>c</h4>"), domain.StatusWarn, 5, "Multiple H1 headings (2); Skipped from H1 to H4"},
		{"going back up is fine", bodyPage("<h1>a</h1><h2>b</h2><h3>c</h3><h2>d</h2>"), domain.StatusPass, 10, ""},
	})
}

func TestServerRendered(t *testing.T) {
	spa := `<div id="root"></div><script src="/static/app.js"></script>`
	chromeOnly := "<nav>" + strings.Repeat("link ", 200) + "</nav><p>tiny</p>"

	runExpectations(t, ServerRendered(), []expectation{
		{"rich", testutil.WellFormedPage(), domain.StatusPass, 10, "Good server-rendered"},
		{"client-side app", bodyPage(spa), domain.StatusFail, 0, "client-side rendered"},
		{"little text", bodyPage("<p>Hello there</p>"), domain.StatusFail, 0, "Very little text"},
		{"navigation does not count", bodyPage(chromeOnly), domain.StatusFail, 0, ""},
		{"thin", bodyPage("<p>" + strings.Repeat("a", 300) + "</p>"), domain.StatusWarn, 5, "300 chars"},
		{"enough", bodyPage("<p>" + strings.Repeat("a", 500) + "</p>"), domain.StatusPass, 10, ""},
	})

	t.Run("marks client-only pages", func(t *testing.T) {
		res := run(ServerRendered(), bodyPage(spa))
		if res.Details["isClientOnly"] != true {
			t.Errorf("isClientOnly = %v, want true", res.Details["isClientOnly"])
		}
	})
}

func TestFAQ(t *testing.T) {
	faqSchema := `<script type="application/ld+json">{"@graph":[{"@type":"FAQPage"}]}</script>`

	runExpectations(t, FAQ(), []expectation{
		{"no faq content", testutil.WellFormedPage(), domain.StatusSkip, 5, "not penalized"},
		{"faq heading without schema", bodyPage("<h2>FAQ</h2>"), domain.StatusWarn, 2, "no FAQPage schema"},
		{"details list", bodyPage("<details><summary>a</summary></details><details><summary>b</summary></details>"), domain.StatusWarn, 2, ""},
		{"definition list", bodyPage("<dl><dt>a</dt><dd>1</dd><dt>b</dt><dd>2</dd></dl>"), domain.StatusWarn, 2, ""},
		{"accordion", bodyPage(`<div class="site-accordion">x</div>`), domain.StatusWarn, 2, ""},
		{"with schema", bodyPage("<h2>Frequently asked</h2>" + faqSchema), domain.StatusPass, 5, ""},
	})
}

func TestLangTag(t *testing.T) {
	lang := func(code string) *domain.PageData {
		return testutil.PageWithHTML(`<html lang="` + code + `"><body></body></html>`)
	}

	runExpectations(t, LangTag(), []expectation{
		{"en", testutil.WellFormedPage(), domain.StatusPass, 3, `"en"`},
		{"region", lang("en-US"), domain.StatusPass, 3, ""},
		{"three letters", lang("haw"), domain.StatusPass, 3, ""},
		{"missing", testutil.PageWithHTML("<html><body></body></html>"), domain.StatusFail, 0, ""},
		{"blank", lang(" "), domain.StatusFail, 0, ""},
		{"lower-case region", lang("en-us"), domain.StatusWarn, 1, "may be invalid"},
		{"underscore", lang("en_US"), domain.StatusWarn, 1, ""},
	})
}

func TestAltText(t *testing.T) {
	runExpectations(t, AltText(), []expectation{
		{"covered", testutil.WellFormedPage(), domain.StatusPass, 5, "1 of 1"},
		{"no images", bodyPage("<p>x</p>"), domain.StatusPass, 5, "No images"},
		{"decorative only", bodyPage(`<img src="a" role="presentation">`), domain.StatusPass, 5, "No images"},
		{"half", bodyPage(`<img src="a" alt="A"><img src="b">`), domain.StatusWarn, 3, "(50%)"},
		{"blank alt counts as missing", bodyPage(`<img src="a" alt=" "><img src="b" alt="B"><img src="c">`), domain.StatusFail, 0, "(33%)"},
		{"ninety percent", bodyPage(strings.Repeat(`<img src="a" alt="A">`, 9) + `<img src="b">`), domain.StatusPass, 5, "(90%)"},
	})
}

func TestSemanticHTML(t *testing.T) {
	runExpectations(t, SemanticHTML(), []expectation{
		{"many", testutil.WellFormedPage(), domain.StatusPass, 5, "article, footer, header"},
		{"one", bodyPage("<main>x</main>"), domain.StatusWarn, 3, "Limited semantic HTML: main"},
		{"none", bodyPage("<div>x</div>"), domain.StatusFail, 0, ""},
	})
}

func TestAnswerFirst(t *testing.T) {
	runExpectations(t, AnswerFirst(), []expectation{
		{"substantive", testutil.WellFormedPage(), domain.StatusPass, 8, "words"},
		{"no paragraphs", bodyPage("<div>text</div>"), domain.StatusFail, 0, ""},
		{"filler", bodyPage("<main><p>Welcome to our website where " + words(20) + "</p></main>"), domain.StatusWarn, 2, "filler"},
		{"cookie notice", bodyPage("<p>We use cookies to " + words(20) + "</p>"), domain.StatusWarn, 2, "filler"},
		{"short", bodyPage("<main><p>We back up data.</p></main>"), domain.StatusWarn, 3, "(4 words)"},
		{"long", bodyPage("<main><p>" + words(301) + "</p></main>"), domain.StatusWarn, 4, "(301 words)"},
		{"skips chrome", bodyPage("<header><p>Subscribe now</p></header><article><p>" + words(20) + "</p></article>"), domain.StatusPass, 8, "(20 words)"},
		{"falls back past empty main paragraph", bodyPage("<main><p> </p></main><article><p>" + words(15) + "</p></article>"), domain.StatusPass, 8, "(15 words)"},
	})

	t.Run("preview is truncated", func(t *testing.T) {
		res := run(AnswerFirst(), bodyPage("<main><p>"+words(100)+"</p></main>"))
		preview, _ := res.Details["preview"].(string)
		if len(preview) != 120 {
			t.Errorf("len(preview) = %d, want 120", len(preview))
		}
	})
}
