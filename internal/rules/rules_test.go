package rules

import (
	"context"
	"strings"
	"testing"

	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/testutil"
)

func run(rule domain.Rule, page *domain.PageData) domain.RuleResult {
	return rule.Check(context.Background(), page)
}

func TestAll_UniqueIDsAndKnownCategories(t *testing.T) {
	categories := map[string]bool{
		domain.CategoryDiscoverability: true,
		domain.CategoryStructuredData:  true,
		domain.CategoryContentQuality:  true,
		domain.CategoryTechnical:       true,
	}

	all := All()
	if len(all) != 25 {
		t.Fatalf("len(All()) = %d, want 25", len(all))
	}

	seen := make(map[string]bool)
	for _, r := range all {
		if seen[r.ID()] {
			t.Errorf("duplicate rule id %s", r.ID())
		}
		seen[r.ID()] = true
		if !categories[r.Category()] {
			t.Errorf("%s: unknown category %q", r.ID(), r.Category())
		}
		if r.MaxScore() <= 0 {
			t.Errorf("%s: MaxScore = %d, want > 0", r.ID(), r.MaxScore())
		}
		if r.Name() == "" || r.Description() == "" {
			t.Errorf("%s: missing name or description", r.ID())
		}
	}
}

func TestAll_FullMarksOnWellFormedPage(t *testing.T) {
	page := testutil.WellFormedPage()

	for _, r := range All() {
		t.Run(r.ID(), func(t *testing.T) {
			res := run(r, page)
			if res.Score != r.MaxScore() {
				t.Errorf("score = %d/%d (%s: %s)", res.Score, r.MaxScore(), res.Status, res.Message)
			}
			if res.Status == domain.StatusFail || res.Status == domain.StatusWarn {
				t.Errorf("status = %s, want pass or skip: %s", res.Status, res.Message)
			}
		})
	}
}

func TestAll_EmptyPage(t *testing.T) {
	want := map[string]struct {
		status domain.Status
		score  int
	}{
		"R01": {domain.StatusFail, 0},
		"R02": {domain.StatusFail, 0},
		"R03": {domain.StatusFail, 0},
		"R18": {domain.StatusFail, 0},
		"R19": {domain.StatusSkip, 5},
		"R21": {domain.StatusSkip, 0},
		"R22": {domain.StatusFail, 0},
		"R23": {domain.StatusFail, 0},
		"R04": {domain.StatusFail, 0},
		"R05": {domain.StatusFail, 0},
		"R06": {domain.StatusFail, 0},
		"R07": {domain.StatusFail, 0},
		"R17": {domain.StatusFail, 0},
		"R25": {domain.StatusSkip, 0},
		"R08": {domain.StatusFail, 0},
		"R09": {domain.StatusFail, 0},
		"R10": {domain.StatusSkip, 5},
		"R13": {domain.StatusFail, 0},
		"R15": {domain.StatusPass, 5},
		"R16": {domain.StatusFail, 0},
		"R24": {domain.StatusFail, 0},
		"R11": {domain.StatusPass, 10},
		"R12": {domain.StatusFail, 0},
		"R14": {domain.StatusFail, 0},
		"R20": {domain.StatusFail, 0},
	}

	page := testutil.EmptyPage()
	for _, r := range All() {
		t.Run(r.ID(), func(t *testing.T) {
			res := run(r, page)
			w, ok := want[r.ID()]
			if !ok {
				t.Fatalf("no expectation for %s", r.ID())
			}
			if res.Status != w.status || res.Score != w.score {
				t.Errorf("got %s/%d, want %s/%d (%s)", res.Status, res.Score, w.status, w.score, res.Message)
			}
		})
	}
}

func TestResults_RespectContract(t *testing.T) {
	pages := []*domain.PageData{
		testutil.WellFormedPage(),
		testutil.EmptyPage(),
		testutil.PageWithHTML("<html><body><h3>x</h3><img src=a.png></body></html>"),
		testutil.PageWithHTML("not even html <<<"),
	}

	for _, page := range pages {
		for _, r := range All() {
			res := run(r, page)
			if res.Score < 0 || res.Score > res.MaxScore {
				t.Errorf("%s: score %d outside [0, %d]", r.ID(), res.Score, res.MaxScore)
			}
			if res.ID != r.ID() || res.Category != r.Category() || res.MaxScore != r.MaxScore() {
				t.Errorf("%s: result metadata does not match rule: %+v", r.ID(), res)
			}
			if res.Status == domain.StatusPass && res.Recommendation != "" {
				t.Errorf("%s: passing result carries recommendation %q", r.ID(), res.Recommendation)
			}
			if res.Message == "" {
				t.Errorf("%s: empty message", r.ID())
			}
		}
	}
}

func TestResult_ClampsScore(t *testing.T) {
	r := &rule{id: "X", maxScore: 5}

	if got := r.pass(9, "m", nil).Score; got != 5 {
		t.Errorf("score = %d, want 5", got)
	}
	if got := r.fail(-3, "m", "rec", nil).Score; got != 0 {
		t.Errorf("score = %d, want 0", got)
	}
	if got := r.pass(5, "m", nil).Recommendation; got != "" {
		t.Errorf("recommendation = %q, want empty", got)
	}
}

// expectation is a compact assertion on a rule outcome.
type expectation struct {
	name    string
	page    *domain.PageData
	status  domain.Status
	score   int
	message string
}

func runExpectations(t *testing.T, rule domain.Rule, tests []expectation) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(rule, tt.page)
			if res.Status != tt.status {
				t.Errorf("status = %s, want %s (%s)", res.Status, tt.status, res.Message)
			}
			if res.Score != tt.score {
				t.Errorf("score = %d, want %d (%s)", res.Score, tt.score, res.Message)
			}
			if tt.message != "" && !strings.Contains(res.Message, tt.message) {
				t.Errorf("message = %q, want to contain %q", res.Message, tt.message)
			}
		})
	}
}
