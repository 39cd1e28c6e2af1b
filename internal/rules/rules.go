// Package rules implements the built-in AI-readiness checks. Every rule is a
// pure function of a page snapshot: no I/O, no shared state, and a score that
// never exceeds its maximum.
package rules

import (
	"context"

	"github.com/vnykmshr/geoaudit/internal/domain"
)

type checkFunc func(r *rule, page *domain.PageData) domain.RuleResult

// rule is the value object behind every built-in check.
type rule struct {
	check       checkFunc
	id          string
	name        string
	description string
	category    string
	maxScore    int
}

func (r *rule) ID() string          { return r.id }
func (r *rule) Name() string        { return r.name }
func (r *rule) Description() string { return r.description }
func (r *rule) Category() string    { return r.category }
func (r *rule) MaxScore() int       { return r.maxScore }

// Check evaluates the rule against page.
func (r *rule) Check(_ context.Context, page *domain.PageData) domain.RuleResult {
	return r.check(r, page)
}

// result builds a RuleResult, clamping score into [0, maxScore] and dropping
// recommendations from passing results.
func (r *rule) result(status domain.Status, score int, message, recommendation string, details map[string]any) domain.RuleResult {
	score = max(0, min(score, r.maxScore))
	if status == domain.StatusPass {
		recommendation = ""
	}
	return domain.RuleResult{
		ID:             r.id,
		Name:           r.name,
		Description:    r.description,
		Category:       r.category,
		Status:         status,
		Score:          score,
		MaxScore:       r.maxScore,
		Message:        message,
		Recommendation: recommendation,
		Details:        details,
	}
}

func (r *rule) pass(score int, message string, details map[string]any) domain.RuleResult {
	return r.result(domain.StatusPass, score, message, "", details)
}

func (r *rule) warn(score int, message, recommendation string, details map[string]any) domain.RuleResult {
	return r.result(domain.StatusWarn, score, message, recommendation, details)
}

func (r *rule) fail(score int, message, recommendation string, details map[string]any) domain.RuleResult {
	return r.result(domain.StatusFail, score, message, recommendation, details)
}

func (r *rule) skip(score int, message string) domain.RuleResult {
	return r.result(domain.StatusSkip, score, message, "", nil)
}

// All returns the built-in rules grouped by category, in report order.
func All() []domain.Rule {
	return []domain.Rule{
		// AI Discoverability
		LlmsTxt(),
		RobotsAIRules(),
		Sitemap(),
		FeedLinks(),
		LlmsQuality(),
		AIBotCoverage(),
		LlmsFullTxt(),
		AiTxt(),
		// Structured Data
		JSONLD(),
		OpenGraph(),
		MetaDescription(),
		Canonical(),
		IdentitySchema(),
		SchemaDepth(),
		// Content Quality
		Headings(),
		ServerRendered(),
		FAQ(),
		LangTag(),
		AltText(),
		SemanticHTML(),
		AnswerFirst(),
		// Technical AI-Readiness
		ResponseTime(),
		ContentType(),
		HTTPS(),
		Viewport(),
	}
}
