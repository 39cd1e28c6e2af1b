// Package reporter renders audit results as console text, JSON, HTML and
// embeddable badges.
package reporter

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/scoring"
)

// Reporter renders one audit result in several formats.
type Reporter struct {
	result *domain.AuditResult
}

// New creates a new report generator
func New(result *domain.AuditResult) *Reporter {
	return &Reporter{result: result}
}

// WriteJSON writes the result as indented JSON.
func (r *Reporter) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(r.result); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// GenerateJSON creates a JSON report
func (r *Reporter) GenerateJSON(outputPath string) error {
	data, err := json.MarshalIndent(r.result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling JSON: %w", err)
	}

	err = os.WriteFile(outputPath, data, 0o600)
	if err != nil {
		return fmt.Errorf("writing JSON file: %w", err)
	}

	return nil
}

// WriteHTML renders the self-contained HTML report.
func (r *Reporter) WriteHTML(w io.Writer) error {
	t, err := template.New("report").Funcs(template.FuncMap{
		"percent": percent,
	}).Parse(htmlTemplate)
	if err != nil {
		return fmt.Errorf("parsing template: %w", err)
	}

	if err := t.Execute(w, r.templateData()); err != nil {
		return fmt.Errorf("executing template: %w", err)
	}
	return nil
}

// GenerateHTML creates an HTML report
func (r *Reporter) GenerateHTML(outputPath string) error {
	file, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		_ = file.Close()
	}()

	return r.WriteHTML(file)
}

type htmlRule struct {
	domain.RuleResult
	Fix string
}

type htmlCategory struct {
	domain.Category
	Rules []htmlRule
}

// templateData prepares data for HTML template rendering
func (r *Reporter) templateData() map[string]any {
	fixes := make(map[string]string, len(r.result.Recommendations))
	for _, rec := range r.result.Recommendations {
		fixes[rec.Rule] = rec.Fix
	}

	categories := make([]htmlCategory, 0, len(r.result.Categories))
	for _, c := range r.result.Categories {
		hc := htmlCategory{Category: c}
		for _, rule := range c.Rules {
			hc.Rules = append(hc.Rules, htmlRule{RuleResult: rule, Fix: fixes[rule.ID]})
		}
		categories = append(categories, hc)
	}

	counts := make(map[string]int, 4)
	for status, n := range r.result.CountByStatus() {
		counts[string(status)] = n
	}

	return map[string]any{
		"URL":              r.result.URL,
		"Host":             hostname(r.result.URL),
		"Score":            r.result.Score,
		"Grade":            string(r.result.Grade),
		"GradeDescription": scoring.GradeDescription(r.result.Grade),
		"GradeColor":       template.CSS(gradeHex(r.result.Grade)), //nolint:gosec // fixed palette
		"Timestamp":        r.result.Timestamp.Format("2006-01-02 15:04:05 MST"),
		"Duration":         r.result.Duration,
		"Version":          r.result.Version,
		"Counts":           counts,
		"Categories":       categories,
		"Recommendations":  r.result.Recommendations,
		"Badge":            FormatBadge(r.result),
	}
}

func percent(score, maxPoints int) int {
	if maxPoints <= 0 {
		return 0
	}
	return (2*score*100 + maxPoints) / (2 * maxPoints)
}

// hostname extracts the host of rawURL, tolerating bare hostnames.
func hostname(rawURL string) string {
	if u, err := url.Parse(rawURL); err == nil && u.Hostname() != "" {
		return u.Hostname()
	}
	host := strings.TrimPrefix(strings.TrimPrefix(rawURL, "https://"), "http://")
	if i := strings.IndexByte(host, '/'); i >= 0 {
		host = host[:i]
	}
	return host
}

func gradeHex(grade domain.Grade) string {
	switch grade {
	case domain.GradeA:
		return "#38a169"
	case domain.GradeB:
		return "#68d391"
	case domain.GradeC:
		return "#d69e2e"
	case domain.GradeD:
		return "#dd6b20"
	default:
		return "#e53e3e"
	}
}

const htmlTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">
    <title>AI-Readiness Report: {{.Host}}</title>
    <style>
        * { margin: 0; padding: 0; box-sizing: border-box; }
        body { font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif; line-height: 1.6; color: #333; background: #f5f7fa; }
        .container { max-width: 1000px; margin: 0 auto; padding: 20px; }
        .header { background: #2d3748; color: white; padding: 30px; border-radius: 12px; margin-bottom: 30px; display: flex; justify-content: space-between; align-items: center; }
        .header h1 { font-size: 2em; }
        .header p { opacity: 0.8; }
        .grade { font-size: 3.5em; font-weight: bold; width: 110px; height: 110px; border-radius: 50%; display: flex; align-items: center; justify-content: center; color: white; }
        .stats-grid { display: grid; grid-template-columns: repeat(auto-fit, minmax(180px, 1fr)); gap: 20px; margin-bottom: 30px; }
        .stat-card { background: white; padding: 20px; border-radius: 12px; box-shadow: 0 5px 15px rgba(0,0,0,0.08); }
        .stat-card h3 { color: #4a5568; font-size: 0.85em; text-transform: uppercase; letter-spacing: 1px; }
        .stat-card .value { font-size: 1.8em; font-weight: bold; color: #2d3748; }
        .section { background: white; margin-bottom: 30px; border-radius: 12px; overflow: hidden; box-shadow: 0 5px 15px rgba(0,0,0,0.08); }
        .section-header { background: #f8f9fa; padding: 16px 20px; border-bottom: 1px solid #e2e8f0; display: flex; justify-content: space-between; }
        .section-content { padding: 20px; }
        .table { width: 100%; border-collapse: collapse; }
        .table th, .table td { padding: 10px; text-align: left; border-bottom: 1px solid #e2e8f0; vertical-align: top; }
        .progress-bar { width: 100%; height: 8px; background: #e2e8f0; border-radius: 4px; overflow: hidden; margin-top: 6px; }
        .progress-fill { height: 100%; background: #48bb78; }
        .status-pass { color: #38a169; font-weight: bold; }
        .status-warn { color: #dd6b20; font-weight: bold; }
        .status-fail { color: #e53e3e; font-weight: bold; }
        .status-skip { color: #a0aec0; font-weight: bold; }
        .fix { font-family: monospace; background: #edf2f7; padding: 2px 6px; border-radius: 4px; }
        .muted { color: #718096; font-size: 0.85em; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <div>
                <h1>AI-Readiness Report</h1>
                <p>{{.URL}}</p>
                <p class="muted">{{.GradeDescription}}</p>
            </div>
            <div class="grade" style="background: {{.GradeColor}};">{{.Grade}}</div>
        </div>

        <div class="stats-grid">
            <div class="stat-card"><h3>Score</h3><div class="value">{{.Score}}/100</div></div>
            <div class="stat-card"><h3>Passed</h3><div class="value">{{index .Counts "pass"}}</div></div>
            <div class="stat-card"><h3>Warnings</h3><div class="value">{{index .Counts "warn"}}</div></div>
            <div class="stat-card"><h3>Failed</h3><div class="value">{{index .Counts "fail"}}</div></div>
        </div>

        {{range .Categories}}
        <div class="section">
            <div class="section-header">
                <h2>{{.Name}}</h2>
                <div>{{.Score}}/{{.MaxPoints}}
                    <div class="progress-bar"><div class="progress-fill" style="width: {{percent .Score .MaxPoints}}%;"></div></div>
                </div>
            </div>
            <div class="section-content">
                <table class="table">
                    <thead><tr><th>Rule</th><th>Status</th><th>Score</th><th>Finding</th></tr></thead>
                    <tbody>
                        {{range .Rules}}
                        <tr>
                            <td>{{.ID}} {{.Name}}</td>
                            <td class="status-{{.Status}}">{{.Status}}</td>
                            <td>{{.Score}}/{{.MaxScore}}</td>
                            <td>{{.Message}}{{if .Recommendation}}<br><span class="muted">{{.Recommendation}}</span>{{end}}{{if .Fix}}<br><span class="fix">{{.Fix}}</span>{{end}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
        </div>
        {{end}}

        {{if .Recommendations}}
        <div class="section">
            <div class="section-header"><h2>Recommendations</h2></div>
            <div class="section-content">
                <table class="table">
                    <thead><tr><th>Rule</th><th>Impact</th><th>Recommendation</th></tr></thead>
                    <tbody>
                        {{range .Recommendations}}
                        <tr>
                            <td>{{.Rule}}</td>
                            <td>+{{.Impact}} points</td>
                            <td>{{.Message}}{{if .Fix}}<br><span class="fix">{{.Fix}}</span>{{end}}</td>
                        </tr>
                        {{end}}
                    </tbody>
                </table>
            </div>
        </div>
        {{end}}

        <p class="muted">Generated {{.Timestamp}} in {{.Duration}}ms by geoaudit {{.Version}}. <img alt="AI-Ready badge" src="{{.Badge.Static}}"></p>
    </div>
</body>
</html>`
