// Package main provides the command-line interface for the geoaudit AI-readiness auditor.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/vnykmshr/geoaudit/internal/auditor"
	"github.com/vnykmshr/geoaudit/internal/cli"
	"github.com/vnykmshr/geoaudit/internal/config"
	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/fetcher"
	"github.com/vnykmshr/geoaudit/internal/fixes"
	"github.com/vnykmshr/geoaudit/internal/registry"
	"github.com/vnykmshr/geoaudit/internal/reporter"
)

const version = auditor.Version

// Exit codes.
const (
	exitOK          = 0
	exitError       = 1
	exitBelowTarget = 2
	exitInterrupted = 130
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, environment{
		args:        os.Args[1:],
		stdin:       os.Stdin,
		interactive: cli.IsInteractiveTerminal(),
		stdout:      os.Stdout,
		stderr:      os.Stderr,
	})
	stop()
	os.Exit(code)
}

// environment carries the process streams so run can be driven by tests.
type environment struct {
	stdin       io.Reader
	stdout      io.Writer
	stderr      io.Writer
	transport   http.RoundTripper
	args        []string
	interactive bool
}

type flags struct {
	configPath        string
	saveConfig        string
	htmlFile          string
	jsonOut           bool
	quiet             bool
	noRecommendations bool
	badge             bool
	fixPlan           bool
	debug             bool
	showVersion       bool
	showHelp          bool
	opts              cli.ConfigOptions
}

func parseFlags(args []string, stderr io.Writer) (*flags, []string, error) {
	f := &flags{}
	fs := flag.NewFlagSet("geoaudit", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() { cli.ShowHelpMessage(stderr, version) }

	fs.StringVar(&f.configPath, "config", "", "Path to configuration file (JSON, JSON5, or YAML)")
	fs.StringVar(&f.saveConfig, "save-config", "", "Write the effective configuration to a file and exit")
	fs.StringVar(&f.opts.URL, "url", "", "URL to audit")
	fs.StringVar(&f.opts.Timeout, "timeout", "", "Per-request timeout (e.g. 20s, or milliseconds)")
	fs.StringVar(&f.opts.UserAgent, "user-agent", "", "User agent string")
	fs.StringVar(&f.opts.OutputFile, "output", "", "Write the JSON result to a file")
	fs.StringVar(&f.opts.Rules, "rules", "", "Comma-separated rule IDs to run")
	fs.Float64Var(&f.opts.Rate, "rate", 0, "Outbound requests per second limit")
	fs.IntVar(&f.opts.Concurrency, "concurrency", 0, "Number of rules evaluated in parallel")
	fs.IntVar(&f.opts.FailUnder, "fail-under", 0, "Exit with code 2 if the score is below this threshold")
	fs.BoolVar(&f.opts.InsecureSkipVerify, "insecure", false, "Skip TLS certificate verification")
	fs.BoolVar(&f.opts.AllowPrivateHosts, "allow-private-hosts", false, "Allow auditing private network hosts")
	fs.BoolVar(&f.opts.Verbose, "verbose", false, "Show all rules including passed ones")
	fs.StringVar(&f.htmlFile, "html", "", "Write an HTML report to a file")
	fs.BoolVar(&f.jsonOut, "json", false, "Print the audit result as JSON")
	fs.BoolVar(&f.quiet, "quiet", false, "Only show score and grade")
	fs.BoolVar(&f.noRecommendations, "no-recommendations", false, "Skip the recommendations section")
	fs.BoolVar(&f.badge, "badge", false, "Print README badge snippets")
	fs.BoolVar(&f.fixPlan, "fix-plan", false, "Print automatic fix commands")
	fs.BoolVar(&f.debug, "debug", false, "Write debug logs to stderr")
	fs.BoolVar(&f.showVersion, "version", false, "Show version information")
	fs.BoolVar(&f.showHelp, "help", false, "Show help message")

	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return f, fs.Args(), nil
}

func run(ctx context.Context, env environment) int {
	f, args, err := parseFlags(env.args, env.stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitError
	}

	if f.showVersion {
		fmt.Fprintln(env.stdout, version)
		return exitOK
	}
	if f.showHelp {
		cli.ShowHelpMessage(env.stdout, version)
		return exitOK
	}

	cfg, err := cli.LoadConfiguration(f.configPath, &f.opts)
	if err != nil {
		fmt.Fprintf(env.stderr, "Failed to load configuration: %v\n", err)
		return exitError
	}

	if f.saveConfig != "" {
		if err := config.NewLoader().SaveToFile(cfg, f.saveConfig); err != nil {
			fmt.Fprintf(env.stderr, "Failed to save configuration: %v\n", err)
			return exitError
		}
		fmt.Fprintf(env.stdout, "Configuration written to %s\n", f.saveConfig)
		return exitOK
	}

	target, err := cli.ResolveTarget(args, cfg.URL, env.stdin, env.interactive)
	if errors.Is(err, cli.ErrNoTarget) {
		cli.ShowHelpMessage(env.stdout, version)
		return exitOK
	}
	if err != nil {
		fmt.Fprintf(env.stderr, "Error: %v\n", err)
		return exitError
	}
	cfg.URL = target

	if err := cli.ValidateRateLimit(env.stderr, &cfg.Rate); err != nil {
		fmt.Fprintf(env.stderr, "Rate limit validation failed: %v\n", err)
		return exitError
	}
	cli.PrintSafetyWarnings(env.stderr, cfg)

	logger := newLogger(env.stderr, f.debug)

	result, err := audit(ctx, cfg, env.transport, logger)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Fprintln(env.stderr, "Interrupted")
			return exitInterrupted
		}
		if f.debug {
			fmt.Fprintf(env.stderr, "%+v\n", err)
		}
		fmt.Fprintln(env.stderr, cli.DescribeError(err, cfg.Verbose))
		return exitError
	}

	if code := report(result, cfg, f, env, logger); code != exitOK {
		return code
	}

	if cfg.FailUnder > 0 && result.Score < cfg.FailUnder {
		logger.Debug("score below threshold", "score", result.Score, "fail_under", cfg.FailUnder)
		return exitBelowTarget
	}
	return exitOK
}

func newLogger(w io.Writer, debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

func audit(ctx context.Context, cfg *domain.Config, transport http.RoundTripper, logger *slog.Logger) (*domain.AuditResult, error) {
	timeout, err := time.ParseDuration(cfg.Timeout)
	if err != nil {
		return nil, fmt.Errorf("invalid timeout: %w", err)
	}

	f, err := fetcher.New(fetcher.Options{
		Transport:         transport,
		Logger:            logger,
		UserAgent:         cfg.UserAgent,
		Timeout:           timeout,
		Rate:              cfg.Rate,
		Insecure:          cfg.InsecureSkipVerify,
		AllowPrivateHosts: cfg.AllowPrivateHosts,
	})
	if err != nil {
		return nil, fmt.Errorf("creating fetcher: %w", err)
	}

	reg := registry.Default()
	if len(cfg.Rules) > 0 {
		reg, err = reg.Subset(cfg.Rules...)
		if err != nil {
			return nil, fmt.Errorf("selecting rules: %w", err)
		}
	}

	a := auditor.New(f, reg, logger, auditor.WithConcurrency(cfg.Concurrency))
	return a.Audit(ctx, cfg.URL)
}

func report(result *domain.AuditResult, cfg *domain.Config, f *flags, env environment, logger *slog.Logger) int {
	rep := reporter.New(result)

	if f.jsonOut {
		if err := rep.WriteJSON(env.stdout); err != nil {
			fmt.Fprintf(env.stderr, "Failed to write JSON: %v\n", err)
			return exitError
		}
	} else {
		err := rep.WriteSummary(env.stdout, reporter.SummaryOptions{
			Verbose:           cfg.Verbose,
			Quiet:             f.quiet,
			NoRecommendations: f.noRecommendations,
			Color:             reporter.ColorEnabled(env.stdout),
		})
		if err != nil {
			fmt.Fprintf(env.stderr, "Failed to write summary: %v\n", err)
			return exitError
		}
	}

	if cfg.OutputFile != "" {
		if err := rep.GenerateJSON(cfg.OutputFile); err != nil {
			fmt.Fprintf(env.stderr, "Failed to save results: %v\n", err)
			return exitError
		}
		logger.Info("results saved", "file", cfg.OutputFile)
	}

	if f.htmlFile != "" {
		if err := rep.GenerateHTML(f.htmlFile); err != nil {
			fmt.Fprintf(env.stderr, "Failed to generate HTML report: %v\n", err)
			return exitError
		}
		logger.Info("HTML report generated", "file", f.htmlFile)
	}

	// Badge and fix-plan output goes to stderr when stdout carries JSON.
	extra := env.stdout
	if f.jsonOut {
		extra = env.stderr
	}

	if f.badge {
		badge := reporter.FormatBadge(result)
		fmt.Fprintf(extra, "\nBadge (markdown):\n  [![AI-Ready](%s)](%s)\n", badge.Static, result.URL)
		fmt.Fprintf(extra, "Badge (dynamic):\n  ![AI-Ready](%s)\n", badge.Dynamic)
		fmt.Fprintf(extra, "Badge (HTML):\n  %s\n", badge.HTML)
	}

	if f.fixPlan {
		commands := fixes.Automatic(result.Recommendations)
		if len(commands) == 0 {
			fmt.Fprintln(extra, "\nNo automatic fixes available.")
		} else {
			fmt.Fprintln(extra, "\nAutomatic fixes:")
			for _, cmd := range commands {
				fmt.Fprintf(extra, "  %s\n", cmd)
			}
		}
	}

	return exitOK
}
