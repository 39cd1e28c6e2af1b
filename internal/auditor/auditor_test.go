package auditor

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/fetcher"
	"github.com/vnykmshr/geoaudit/internal/registry"
	"github.com/vnykmshr/geoaudit/internal/testutil"
	"github.com/vnykmshr/geoaudit/internal/util"
)

type stubFetcher struct {
	page *domain.PageData
	err  error
}

func (s stubFetcher) FetchPageData(context.Context, string) (*domain.PageData, error) {
	return s.page, s.err
}

type fakeRule struct {
	check    func() domain.RuleResult
	id       string
	category string
	max      int
}

func (f fakeRule) ID() string          { return f.id }
func (f fakeRule) Name() string        { return "fake " + f.id }
func (f fakeRule) Description() string { return "fake rule" }
func (f fakeRule) Category() string    { return f.category }
func (f fakeRule) MaxScore() int       { return f.max }

func (f fakeRule) Check(context.Context, *domain.PageData) domain.RuleResult {
	return f.check()
}

func TestAudit_EndToEnd(t *testing.T) {
	transport := testutil.NewTransport(testutil.SiteRoutes("example.com"))
	f, err := fetcher.New(fetcher.Options{Transport: transport})
	if err != nil {
		t.Fatalf("fetcher.New() error = %v", err)
	}

	result, err := New(f, nil, nil).Audit(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}

	if result.Score < 90 {
		for _, r := range result.Rules {
			if r.Score < r.MaxScore {
				t.Logf("%s %s %d/%d: %s", r.ID, r.Status, r.Score, r.MaxScore, r.Message)
			}
		}
		t.Errorf("Score = %d, want >= 90", result.Score)
	}
	if result.Grade != domain.GradeA {
		t.Errorf("Grade = %s, want A", result.Grade)
	}
	if len(result.Rules) != 25 {
		t.Errorf("len(Rules) = %d, want 25", len(result.Rules))
	}
	if len(result.Categories) != 4 {
		t.Errorf("len(Categories) = %d, want 4", len(result.Categories))
	}
	if result.Version != Version {
		t.Errorf("Version = %q, want %q", result.Version, Version)
	}
	if result.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp should be UTC, got %v", result.Timestamp.Location())
	}
	if result.Recommendations == nil {
		t.Error("Recommendations should be non-nil")
	}
}

func TestAudit_ResultsKeepRegistryOrder(t *testing.T) {
	reg := registry.Default()

	result, err := New(stubFetcher{page: testutil.EmptyPage()}, reg, nil, WithConcurrency(8)).
		Audit(context.Background(), "http://example.com/")
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}

	rules := reg.Rules()
	for i, r := range result.Rules {
		if r.ID != rules[i].ID() {
			t.Fatalf("Rules[%d] = %s, want %s", i, r.ID, rules[i].ID())
		}
	}
	if result.Grade != domain.GradeF {
		t.Errorf("Grade = %s, want F for an empty page", result.Grade)
	}
}

func TestAudit_StampsTimestampAndDuration(t *testing.T) {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	calls := 0
	clock := func() time.Time {
		calls++
		if calls == 1 {
			return start
		}
		return start.Add(1500 * time.Millisecond)
	}

	result, err := New(stubFetcher{page: testutil.WellFormedPage()}, nil, nil, WithClock(clock)).
		Audit(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}

	finished := start.Add(1500 * time.Millisecond)
	if !result.Timestamp.Equal(finished) || result.Timestamp.Location() != time.UTC {
		t.Errorf("Timestamp = %v, want completion time %v in UTC", result.Timestamp, finished)
	}
	if result.Duration != 1500 {
		t.Errorf("Duration = %d, want 1500", result.Duration)
	}
}

func TestAudit_PanickingRuleDoesNotAbort(t *testing.T) {
	ok := fakeRule{id: "T1", category: "t", max: 5, check: func() domain.RuleResult {
		return domain.RuleResult{ID: "T1", Category: "t", Status: domain.StatusPass, Score: 5, MaxScore: 5}
	}}
	broken := fakeRule{id: "T2", category: "t", max: 5, check: func() domain.RuleResult {
		panic("boom")
	}}
	reg, err := registry.New([]domain.CategoryDef{{Slug: "t", Name: "Test", MaxPoints: 10}}, ok, broken)
	if err != nil {
		t.Fatalf("registry.New() error = %v", err)
	}

	result, err := New(stubFetcher{page: testutil.WellFormedPage()}, reg, nil).Audit(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}

	got := result.Rules[1]
	if got.ID != "T2" || got.Status != domain.StatusFail || got.Score != 0 || got.MaxScore != 5 {
		t.Errorf("panicking rule result = %+v", got)
	}
	if got.Details["error"] != "boom" {
		t.Errorf("details.error = %v, want boom", got.Details["error"])
	}
	if result.Score != 50 {
		t.Errorf("Score = %d, want 50", result.Score)
	}
}

func TestAudit_ClampsOverreportingRule(t *testing.T) {
	greedy := fakeRule{id: "T1", category: "t", max: 5, check: func() domain.RuleResult {
		return domain.RuleResult{ID: "T1", Category: "t", Status: domain.StatusPass, Score: 50, MaxScore: 5}
	}}
	reg, err := registry.New([]domain.CategoryDef{{Slug: "t", MaxPoints: 5}}, greedy)
	if err != nil {
		t.Fatalf("registry.New() error = %v", err)
	}

	result, err := New(stubFetcher{page: testutil.WellFormedPage()}, reg, nil).Audit(context.Background(), "https://example.com/")
	if err != nil {
		t.Fatalf("Audit() error = %v", err)
	}
	if result.Rules[0].Score != 5 || result.Score != 100 {
		t.Errorf("rule score = %d, total = %d, want 5 and 100", result.Rules[0].Score, result.Score)
	}
}

func TestAudit_FetchErrorPropagates(t *testing.T) {
	blocked := &util.BlockedHostError{Host: "127.0.0.1"}
	var evaluated atomic.Int32
	counting := fakeRule{id: "T1", category: "t", max: 1, check: func() domain.RuleResult {
		evaluated.Add(1)
		return domain.RuleResult{}
	}}
	reg, err := registry.New([]domain.CategoryDef{{Slug: "t", MaxPoints: 1}}, counting)
	if err != nil {
		t.Fatalf("registry.New() error = %v", err)
	}

	_, err = New(stubFetcher{err: blocked}, reg, nil).Audit(context.Background(), "http://127.0.0.1/")

	var target *util.BlockedHostError
	if !errors.As(err, &target) {
		t.Fatalf("error = %v, want *util.BlockedHostError", err)
	}
	if evaluated.Load() != 0 {
		t.Error("rules should not run when the fetch fails")
	}
}

func TestAudit_BlockedHostEndToEnd(t *testing.T) {
	transport := testutil.NewTransport(nil)
	f, err := fetcher.New(fetcher.Options{Transport: transport})
	if err != nil {
		t.Fatalf("fetcher.New() error = %v", err)
	}

	_, err = New(f, nil, nil).Audit(context.Background(), "http://192.168.1.1/")
	if err == nil {
		t.Fatal("expected error for private host")
	}
	if len(transport.Calls()) != 0 {
		t.Errorf("transport was called: %v", transport.Calls())
	}
}

func TestAudit_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(stubFetcher{page: testutil.WellFormedPage()}, nil, nil).Audit(ctx, "https://example.com/")
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error = %v, want context.Canceled", err)
	}
}

func TestNew_Defaults(t *testing.T) {
	a := New(stubFetcher{}, nil, nil, WithConcurrency(0), WithClock(nil))
	if a.concurrency != DefaultConcurrency {
		t.Errorf("concurrency = %d, want %d", a.concurrency, DefaultConcurrency)
	}
	if a.registry == nil || a.logger == nil || a.now == nil {
		t.Error("New should fill nil registry, logger and clock")
	}
}
