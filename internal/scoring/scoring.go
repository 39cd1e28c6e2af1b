// Package scoring turns rule results into the overall score, letter grade,
// category rollups and ranked recommendations.
package scoring

import (
	"sort"

	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/fixes"
)

// CalculateScore returns the earned share of all available points as an
// integer percentage, rounded half up. Zero available points scores 0.
func CalculateScore(results []domain.RuleResult) int {
	earned, total := 0, 0
	for _, r := range results {
		earned += r.Score
		total += r.MaxScore
	}
	if total <= 0 {
		return 0
	}
	score := (2*earned*100 + total) / (2 * total)
	return max(0, min(score, 100))
}

// GetGrade maps a 0-100 score to a letter grade.
func GetGrade(score int) domain.Grade {
	switch {
	case score >= 90:
		return domain.GradeA
	case score >= 75:
		return domain.GradeB
	case score >= 60:
		return domain.GradeC
	case score >= 40:
		return domain.GradeD
	default:
		return domain.GradeF
	}
}

// GradeDescription returns a one-line reading of a grade.
func GradeDescription(grade domain.Grade) string {
	switch grade {
	case domain.GradeA:
		return "Excellent: AI systems can discover, parse and cite this page"
	case domain.GradeB:
		return "Good: a few gaps limit how well AI systems use this page"
	case domain.GradeC:
		return "Fair: AI systems can read this page but miss important signals"
	case domain.GradeD:
		return "Poor: significant work is needed before AI systems cite this page"
	default:
		return "Failing: AI systems will struggle to find or understand this page"
	}
}

// BuildCategories rolls results up into the given categories, in order.
// A category score never exceeds its declared points.
func BuildCategories(defs []domain.CategoryDef, results []domain.RuleResult) []domain.Category {
	categories := make([]domain.Category, 0, len(defs))
	for _, def := range defs {
		members := []domain.RuleResult{}
		score := 0
		for _, r := range results {
			if r.Category == def.Slug {
				members = append(members, r)
				score += r.Score
			}
		}
		categories = append(categories, domain.Category{
			Name:      def.Name,
			Slug:      def.Slug,
			MaxPoints: def.MaxPoints,
			Score:     min(score, def.MaxPoints),
			Rules:     members,
		})
	}
	return categories
}

// BuildRecommendations returns an entry for every warned or failed result
// that carries a recommendation, highest impact first. Ties keep rule order.
func BuildRecommendations(results []domain.RuleResult) []domain.Recommendation {
	recs := []domain.Recommendation{}
	for _, r := range results {
		if r.Status == domain.StatusPass || r.Status == domain.StatusSkip || r.Recommendation == "" {
			continue
		}
		rec := domain.Recommendation{
			Rule:    r.ID,
			Message: r.Recommendation,
			Impact:  r.MaxScore - r.Score,
		}
		if fix, ok := fixes.GetFixSuggestion(r.ID); ok {
			rec.Fix = fix.Command
		}
		recs = append(recs, rec)
	}
	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Impact > recs[j].Impact
	})
	return recs
}
