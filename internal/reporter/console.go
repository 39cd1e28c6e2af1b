package reporter

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	"golang.org/x/term"

	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/scoring"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
)

// maxConsoleRecommendations caps the recommendations printed to the console.
const maxConsoleRecommendations = 5

// SummaryOptions controls the console summary.
type SummaryOptions struct {
	// Verbose also lists passing rules.
	Verbose bool
	// Quiet prints only the score and grade.
	Quiet bool
	// NoRecommendations hides the recommendations section.
	NoRecommendations bool
	// Color enables ANSI colors.
	Color bool
}

// ColorEnabled reports whether w should receive ANSI colors: it must be a
// terminal and NO_COLOR must be unset.
func ColorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	if runtime.GOOS == "windows" && os.Getenv("WT_SESSION") == "" {
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// WriteSummary writes the console summary to w.
func (r *Reporter) WriteSummary(w io.Writer, opts SummaryOptions) error {
	p := &printer{w: w, color: opts.Color}
	res := r.result

	gradeColor := colorForGrade(res.Grade)
	p.printf("\n%s %s\n", p.paint(colorBold, "GEO Audit:"), hostname(res.URL))
	p.printf("%s\n", p.paint(colorDim, strings.Repeat("━", 40)))
	p.printf("\nScore: %s (%s)\n",
		p.paint(colorBold+gradeColor, fmt.Sprintf("%d/100", res.Score)),
		p.paint(gradeColor, string(res.Grade)))

	if opts.Quiet {
		return p.err
	}
	p.printf("%s\n", p.paint(colorDim, scoring.GradeDescription(res.Grade)))

	for _, cat := range res.Categories {
		p.printCategory(cat, opts.Verbose)
	}

	if !opts.NoRecommendations && len(res.Recommendations) > 0 {
		p.printf("\n%s\n", p.paint(colorBold, "Top Recommendations:"))
		for i, rec := range res.Recommendations {
			if i >= maxConsoleRecommendations {
				break
			}
			p.printf("  %s %s %s\n",
				p.paint(colorCyan, fmt.Sprintf("%d.", i+1)),
				rec.Message,
				p.paint(colorDim, fmt.Sprintf("(+%d points)", rec.Impact)))
			if rec.Fix != "" {
				p.printf("     %s\n", p.paint(colorYellow, "Fix: "+rec.Fix))
			}
		}
	}

	counts := res.CountByStatus()
	p.printf("\n%s\n", p.paint(colorDim, fmt.Sprintf("%d passed, %d warnings, %d failed, %d skipped. Completed in %dms",
		counts[domain.StatusPass], counts[domain.StatusWarn], counts[domain.StatusFail], counts[domain.StatusSkip], res.Duration)))
	return p.err
}

// printer writes formatted output and remembers the first write error.
type printer struct {
	w     io.Writer
	err   error
	color bool
}

func (p *printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = fmt.Fprintf(p.w, format, args...)
}

func (p *printer) paint(code, text string) string {
	if !p.color || code == "" {
		return text
	}
	return code + text + colorReset
}

func (p *printer) printCategory(cat domain.Category, verbose bool) {
	pct := percent(cat.Score, cat.MaxPoints)
	color := colorRed
	switch {
	case pct >= 80:
		color = colorGreen
	case pct >= 50:
		color = colorYellow
	}
	p.printf("\n%s  %s\n", p.paint(colorBold, cat.Name), p.paint(color, fmt.Sprintf("%d/%d", cat.Score, cat.MaxPoints)))

	for _, rule := range cat.Rules {
		if !verbose && rule.Status == domain.StatusPass {
			continue
		}
		p.printf("  %s %s  %s\n", p.statusIcon(rule.Status), rule.Name,
			p.paint(colorDim, fmt.Sprintf("%d/%d", rule.Score, rule.MaxScore)))
		if rule.Status == domain.StatusWarn || rule.Status == domain.StatusFail {
			p.printf("     %s\n", p.paint(colorDim, rule.Message))
		}
	}
}

func (p *printer) statusIcon(status domain.Status) string {
	switch status {
	case domain.StatusPass:
		return p.paint(colorGreen, "✓")
	case domain.StatusWarn:
		return p.paint(colorYellow, "!")
	case domain.StatusFail:
		return p.paint(colorRed, "✗")
	default:
		return p.paint(colorDim, "-")
	}
}

func colorForGrade(grade domain.Grade) string {
	switch grade {
	case domain.GradeA, domain.GradeB:
		return colorGreen
	case domain.GradeC:
		return colorYellow
	default:
		return colorRed
	}
}
