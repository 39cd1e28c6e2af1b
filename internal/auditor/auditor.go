// Package auditor runs a rule registry against a fetched page and assembles
// the scored audit result.
package auditor

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/registry"
	"github.com/vnykmshr/geoaudit/internal/scoring"
	"github.com/vnykmshr/geoaudit/internal/util"
)

// Version is the tool version stamped on every result.
const Version = "0.1.0"

// DefaultConcurrency bounds how many rules evaluate at once.
const DefaultConcurrency = 4

// Auditor fetches a page and scores it against a rule registry.
type Auditor struct {
	fetcher     domain.PageFetcher
	registry    *registry.Registry
	logger      *slog.Logger
	now         func() time.Time
	concurrency int
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithConcurrency sets the number of rules evaluated in parallel.
// Values below 1 fall back to DefaultConcurrency.
func WithConcurrency(n int) Option {
	return func(a *Auditor) {
		if n > 0 {
			a.concurrency = n
		}
	}
}

// WithClock overrides the time source used for stamping results.
func WithClock(now func() time.Time) Option {
	return func(a *Auditor) {
		if now != nil {
			a.now = now
		}
	}
}

// New creates an Auditor. A nil registry uses the built-in rule set and a
// nil logger discards output.
func New(fetcher domain.PageFetcher, reg *registry.Registry, logger *slog.Logger, opts ...Option) *Auditor {
	if reg == nil {
		reg = registry.Default()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	a := &Auditor{
		fetcher:     fetcher,
		registry:    reg,
		logger:      logger,
		now:         time.Now,
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Audit fetches rawURL and evaluates every registered rule against it.
// Only a failure to fetch the main page is returned as an error.
func (a *Auditor) Audit(ctx context.Context, rawURL string) (*domain.AuditResult, error) {
	start := a.now()
	a.logger.Info("Starting audit", "url", util.SanitizeURLDefault(rawURL), "rules", len(a.registry.Rules()))

	page, err := a.fetcher.FetchPageData(ctx, rawURL)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}

	results, err := a.evaluate(ctx, page)
	if err != nil {
		return nil, err
	}

	score := scoring.CalculateScore(results)
	finished := a.now()
	result := &domain.AuditResult{
		URL:             page.URL,
		Score:           score,
		Grade:           scoring.GetGrade(score),
		Categories:      scoring.BuildCategories(a.registry.Categories(), results),
		Rules:           results,
		Recommendations: scoring.BuildRecommendations(results),
		Timestamp:       finished.UTC(),
		Duration:        finished.Sub(start).Round(time.Millisecond).Milliseconds(),
		Version:         Version,
	}

	a.logger.Info("Audit completed",
		"url", util.SanitizeURLDefault(result.URL),
		"score", result.Score,
		"grade", result.Grade,
		"duration_ms", result.Duration)
	return result, nil
}

// evaluate runs the rules with bounded parallelism. Results keep registry
// order regardless of completion order.
func (a *Auditor) evaluate(ctx context.Context, page *domain.PageData) ([]domain.RuleResult, error) {
	rules := a.registry.Rules()
	results := make([]domain.RuleResult, len(rules))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.concurrency)
	for i, rule := range rules {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.check(gctx, rule, page)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("evaluating rules: %w", err)
	}
	return results, nil
}

// check runs one rule, converting a panic into a failed result so a single
// broken rule cannot abort the audit.
func (a *Auditor) check(ctx context.Context, rule domain.Rule, page *domain.PageData) (res domain.RuleResult) {
	defer func() {
		if rec := recover(); rec != nil {
			a.logger.Error("Rule panicked",
				"rule", rule.ID(),
				"panic", rec,
				"stack", string(debug.Stack()))
			res = domain.RuleResult{
				ID:          rule.ID(),
				Name:        rule.Name(),
				Description: rule.Description(),
				Category:    rule.Category(),
				Status:      domain.StatusFail,
				Score:       0,
				MaxScore:    rule.MaxScore(),
				Message:     "Rule failed to evaluate",
				Details:     map[string]any{"error": fmt.Sprint(rec)},
			}
		}
	}()

	res = rule.Check(ctx, page)
	res.Score = max(0, min(res.Score, rule.MaxScore()))
	a.logger.Debug("Rule evaluated", "rule", rule.ID(), "status", res.Status, "score", res.Score)
	return res
}
