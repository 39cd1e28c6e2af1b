package scoring

import (
	"testing"

	"github.com/vnykmshr/geoaudit/internal/domain"
)

func result(id, category string, status domain.Status, score, maxScore int, rec ...string) domain.RuleResult {
	r := domain.RuleResult{
		ID:       id,
		Category: category,
		Status:   status,
		Score:    score,
		MaxScore: maxScore,
	}
	if len(rec) > 0 {
		r.Recommendation = rec[0]
	}
	return r
}

func TestCalculateScore(t *testing.T) {
	tests := []struct {
		name    string
		results []domain.RuleResult
		want    int
	}{
		{"all passing", []domain.RuleResult{result("R1", "a", domain.StatusPass, 10, 10), result("R2", "a", domain.StatusPass, 5, 5)}, 100},
		{"all failing", []domain.RuleResult{result("R1", "a", domain.StatusFail, 0, 10), result("R2", "a", domain.StatusFail, 0, 5)}, 0},
		{"half", []domain.RuleResult{result("R1", "a", domain.StatusPass, 10, 10), result("R2", "a", domain.StatusFail, 0, 10)}, 50},
		{"rounds half up", []domain.RuleResult{result("R1", "a", domain.StatusWarn, 1, 8)}, 13},
		{"rounds down", []domain.RuleResult{result("R1", "a", domain.StatusWarn, 1, 3)}, 33},
		{"rounds up", []domain.RuleResult{result("R1", "a", domain.StatusWarn, 2, 3)}, 67},
		{"empty", nil, 0},
		{"zero max", []domain.RuleResult{result("R1", "a", domain.StatusSkip, 0, 0)}, 0},
		{"clamped", []domain.RuleResult{result("R1", "a", domain.StatusPass, 12, 10)}, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateScore(tt.results); got != tt.want {
				t.Errorf("CalculateScore() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestGetGrade(t *testing.T) {
	tests := []struct {
		score int
		want  domain.Grade
	}{
		{100, domain.GradeA},
		{90, domain.GradeA},
		{89, domain.GradeB},
		{75, domain.GradeB},
		{74, domain.GradeC},
		{60, domain.GradeC},
		{59, domain.GradeD},
		{40, domain.GradeD},
		{39, domain.GradeF},
		{0, domain.GradeF},
	}

	for _, tt := range tests {
		if got := GetGrade(tt.score); got != tt.want {
			t.Errorf("GetGrade(%d) = %s, want %s", tt.score, got, tt.want)
		}
	}
}

func TestGradeDescription(t *testing.T) {
	seen := make(map[string]bool)
	for _, g := range []domain.Grade{domain.GradeA, domain.GradeB, domain.GradeC, domain.GradeD, domain.GradeF} {
		desc := GradeDescription(g)
		if desc == "" || seen[desc] {
			t.Errorf("GradeDescription(%s) = %q, want distinct non-empty text", g, desc)
		}
		seen[desc] = true
	}
}

func TestBuildCategories(t *testing.T) {
	defs := []domain.CategoryDef{
		{Slug: "a", Name: "Alpha", MaxPoints: 10},
		{Slug: "b", Name: "Beta", MaxPoints: 5},
		{Slug: "c", Name: "Gamma", MaxPoints: 3},
	}
	results := []domain.RuleResult{
		result("R1", "a", domain.StatusPass, 8, 8),
		result("R2", "b", domain.StatusWarn, 2, 5),
		result("R3", "a", domain.StatusPass, 8, 8),
		result("R4", "x", domain.StatusPass, 4, 4),
	}

	cats := BuildCategories(defs, results)
	if len(cats) != 3 {
		t.Fatalf("len = %d, want 3", len(cats))
	}

	if cats[0].Score != 10 {
		t.Errorf("Alpha score = %d, want capped 10", cats[0].Score)
	}
	if len(cats[0].Rules) != 2 || cats[0].Rules[0].ID != "R1" || cats[0].Rules[1].ID != "R3" {
		t.Errorf("Alpha rules = %+v", cats[0].Rules)
	}
	if cats[1].Score != 2 || cats[1].Name != "Beta" || cats[1].MaxPoints != 5 {
		t.Errorf("Beta = %+v", cats[1])
	}
	if cats[2].Score != 0 || cats[2].Rules == nil || len(cats[2].Rules) != 0 {
		t.Errorf("Gamma = %+v, want empty non-nil rules", cats[2])
	}
}

func TestBuildRecommendations(t *testing.T) {
	results := []domain.RuleResult{
		result("R01", "a", domain.StatusFail, 0, 10, "add llms.txt"),
		result("R06", "a", domain.StatusWarn, 2, 5, "longer description"),
		result("R08", "a", domain.StatusPass, 10, 10, "ignored"),
		result("R10", "a", domain.StatusSkip, 5, 5, "ignored"),
		result("R13", "a", domain.StatusFail, 0, 3, ""),
		result("R04", "a", domain.StatusWarn, 5, 10, "fix json-ld"),
		result("R11", "a", domain.StatusWarn, 7, 10, "faster"),
	}

	recs := BuildRecommendations(results)

	wantOrder := []string{"R01", "R04", "R06", "R11"}
	if len(recs) != len(wantOrder) {
		t.Fatalf("len = %d, want %d: %+v", len(recs), len(wantOrder), recs)
	}
	for i, id := range wantOrder {
		if recs[i].Rule != id {
			t.Errorf("recs[%d] = %s, want %s", i, recs[i].Rule, id)
		}
	}
	for i := 1; i < len(recs); i++ {
		if recs[i].Impact > recs[i-1].Impact {
			t.Errorf("recommendations not sorted by impact: %+v", recs)
		}
	}

	if recs[0].Impact != 10 || recs[0].Fix != "npx geo-seo generate --only llms-txt" {
		t.Errorf("R01 recommendation = %+v", recs[0])
	}
	if recs[1].Fix != "npx geo-seo generate" {
		t.Errorf("R04 fix = %q", recs[1].Fix)
	}
	if recs[2].Fix != "" {
		t.Errorf("R06 fix = %q, want none", recs[2].Fix)
	}
}

func TestBuildRecommendations_StableTies(t *testing.T) {
	results := []domain.RuleResult{
		result("R20", "a", domain.StatusWarn, 1, 3, "viewport"),
		result("R12", "a", domain.StatusWarn, 3, 5, "charset"),
		result("R14", "a", domain.StatusFail, 1, 3, "https"),
	}

	recs := BuildRecommendations(results)
	if recs[0].Rule != "R20" || recs[1].Rule != "R12" || recs[2].Rule != "R14" {
		t.Errorf("ties should keep rule order, got %s %s %s", recs[0].Rule, recs[1].Rule, recs[2].Rule)
	}
}
