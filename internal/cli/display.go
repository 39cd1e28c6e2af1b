package cli

import (
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/fetcher"
	"github.com/vnykmshr/geoaudit/internal/util"
)

// PrintWarningBox prints a formatted warning box to w.
// The box has a consistent width and styling for security warnings.
func PrintWarningBox(w io.Writer, title string, lines []string) {
	const boxWidth = 68 // Inner content width

	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "╔%s╗\n", strings.Repeat("═", boxWidth+2))
	fmt.Fprintf(w, "║ %-*s ║\n", boxWidth, CenterText(title, boxWidth))
	fmt.Fprintf(w, "╠%s╣\n", strings.Repeat("═", boxWidth+2))

	for _, line := range lines {
		if line == "" {
			fmt.Fprintf(w, "║ %-*s ║\n", boxWidth, "")
		} else {
			fmt.Fprintf(w, "║  %-*s║\n", boxWidth-1, line)
		}
	}

	fmt.Fprintf(w, "╚%s╝\n", strings.Repeat("═", boxWidth+2))
	fmt.Fprintf(w, "\n")
}

// CenterText centers text within a given width.
func CenterText(text string, width int) string {
	if len(text) >= width {
		return text
	}
	padding := (width - len(text)) / 2
	return strings.Repeat(" ", padding) + text + strings.Repeat(" ", width-len(text)-padding)
}

// PrintSafetyWarnings reports configuration switches that weaken the
// fetcher's protections. Nothing is printed when none are set.
func PrintSafetyWarnings(w io.Writer, cfg *domain.Config) {
	var lines []string
	if cfg.InsecureSkipVerify {
		lines = append(lines,
			"-insecure: TLS certificates are NOT verified.",
			"Results may come from an impersonated site.",
		)
	}
	if cfg.AllowPrivateHosts {
		if len(lines) > 0 {
			lines = append(lines, "")
		}
		lines = append(lines,
			"-allow-private-hosts: loopback and private networks are reachable.",
			"Only audit hosts you own or have permission to probe.",
		)
	}
	if len(lines) == 0 {
		return
	}
	PrintWarningBox(w, "SECURITY WARNING", lines)
}

// DescribeError turns an audit failure into a one-line message for the
// terminal. Known network failures get a friendly hint; everything else is
// sanitized unless verbose is set.
func DescribeError(err error, verbose bool) string {
	var blocked *util.BlockedHostError
	var unknownAuthority x509.UnknownAuthorityError
	var hostname x509.HostnameError
	var invalid x509.CertificateInvalidError

	switch {
	case errors.As(err, &blocked):
		return blocked.Error()
	case errors.Is(err, fetcher.ErrDNS):
		return "Could not resolve hostname. Check the URL and try again."
	case errors.Is(err, fetcher.ErrTimeout):
		return "Request timed out. The site may be slow or blocking requests."
	case errors.As(err, &unknownAuthority), errors.As(err, &hostname), errors.As(err, &invalid),
		strings.Contains(err.Error(), "certificate"):
		return "SSL certificate error. Try with -insecure (not recommended)."
	default:
		return "Error: " + util.SanitizeErrorForDisplay(err.Error(), verbose)
	}
}

// ShowHelpMessage prints the help message to w.
// The version parameter should be passed from the main package's version variable.
func ShowHelpMessage(w io.Writer, version string) {
	fmt.Fprintln(w, `geoaudit - Audit any website's AI-readiness

USAGE:
    geoaudit [OPTIONS] <url>
    echo "https://example.com" | geoaudit [OPTIONS]

OPTIONS:
    -config string
        Path to configuration file (JSON, JSON5, or YAML)
    -save-config string
        Write the effective configuration to a file and exit
    -url string
        URL to audit (alternative to the positional argument)
    -timeout string
        Per-request timeout, e.g. 20s or 20000 (milliseconds) (default: 10s)
    -user-agent string
        User agent string sent with every request
    -rate float
        Outbound requests per second limit (default: unlimited)
    -concurrency int
        Number of rules evaluated in parallel (default: 4)
    -rules string
        Comma-separated rule IDs to run, e.g. R01,R04,R14
    -json
        Print the audit result as JSON
    -output string
        Write the JSON result to a file
    -html string
        Write an HTML report to a file
    -verbose
        Show all rules including passed ones
    -quiet
        Only show score and grade
    -no-recommendations
        Skip the recommendations section
    -fail-under int
        Exit with code 2 if the score is below this threshold
    -badge
        Print README badge snippets for the score
    -fix-plan
        Print the automatic fix commands for the recommendations
    -insecure
        INSECURE: Skip TLS certificate verification
    -allow-private-hosts
        Allow auditing loopback and private network hosts
    -debug
        Write structured debug logs to stderr
    -version
        Show version information
    -help
        Show this help message

ENVIRONMENT:
    GEOAUDIT_URL    URL to audit when none is given otherwise
    NO_COLOR        Disable colored output

EXIT CODES:
    0  Success
    1  Error (DNS, timeout, network, configuration)
    2  Score below -fail-under threshold

EXAMPLES:
    geoaudit https://example.com
    geoaudit -json example.com
    geoaudit -fail-under 80 example.com
    geoaudit -timeout 20s -no-recommendations example.com
    geoaudit -html report.html -badge example.com

CONFIGURATION FILE EXAMPLE (geoaudit.yaml):
    url: https://example.com
    timeout: 15s
    concurrency: 8
    fail_under: 70
    rules: [R01, R02, R04, R14]
    user_agent: ${GEOAUDIT_UA:-GeoAudit/0.1.0}

    NOTE: Use ${VAR_NAME} syntax for environment variable substitution.

DOCUMENTATION:
    Full documentation: https://github.com/vnykmshr/geoaudit
    Report issues: https://github.com/vnykmshr/geoaudit/issues

VERSION:
    geoaudit v`+version)
}
