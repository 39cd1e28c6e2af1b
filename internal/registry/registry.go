// Package registry holds an ordered, validated set of audit rules together
// with the categories they roll up into.
package registry

import (
	"errors"
	"fmt"
	"strings"

	"github.com/vnykmshr/geoaudit/internal/domain"
	"github.com/vnykmshr/geoaudit/internal/rules"
)

// DefaultCategories returns the built-in categories in report order.
func DefaultCategories() []domain.CategoryDef {
	return []domain.CategoryDef{
		{Slug: domain.CategoryDiscoverability, Name: "AI Discoverability", MaxPoints: 53},
		{Slug: domain.CategoryStructuredData, Name: "Structured Data", MaxPoints: 43},
		{Slug: domain.CategoryContentQuality, Name: "Content Quality", MaxPoints: 46},
		{Slug: domain.CategoryTechnical, Name: "Technical AI-Readiness", MaxPoints: 21},
	}
}

// BudgetError reports a category whose declared points do not match the
// sum of its rules' maximum scores.
type BudgetError struct {
	Category string
	Declared int
	Actual   int
}

func (e *BudgetError) Error() string {
	return fmt.Sprintf("category %q declares %d points but its rules sum to %d", e.Category, e.Declared, e.Actual)
}

// Registry is an immutable, ordered collection of rules.
type Registry struct {
	byID       map[string]domain.Rule
	rules      []domain.Rule
	categories []domain.CategoryDef
}

// New validates and builds a registry. Rule IDs must be unique, every rule
// must belong to a declared category, and every category budget must equal
// the sum of its members' maximum scores.
func New(categories []domain.CategoryDef, ruleSet ...domain.Rule) (*Registry, error) {
	reg := &Registry{
		byID:       make(map[string]domain.Rule, len(ruleSet)),
		rules:      make([]domain.Rule, 0, len(ruleSet)),
		categories: make([]domain.CategoryDef, len(categories)),
	}
	copy(reg.categories, categories)

	declared := make(map[string]int, len(categories))
	for _, c := range categories {
		if _, dup := declared[c.Slug]; dup {
			return nil, fmt.Errorf("duplicate category %q", c.Slug)
		}
		declared[c.Slug] = 0
	}

	for _, r := range ruleSet {
		if r == nil {
			return nil, errors.New("nil rule")
		}
		if _, dup := reg.byID[r.ID()]; dup {
			return nil, fmt.Errorf("duplicate rule id %q", r.ID())
		}
		if _, ok := declared[r.Category()]; !ok {
			return nil, fmt.Errorf("rule %s: unknown category %q", r.ID(), r.Category())
		}
		declared[r.Category()] += r.MaxScore()
		reg.byID[r.ID()] = r
		reg.rules = append(reg.rules, r)
	}

	for _, c := range categories {
		if declared[c.Slug] != c.MaxPoints {
			return nil, &BudgetError{Category: c.Slug, Declared: c.MaxPoints, Actual: declared[c.Slug]}
		}
	}
	return reg, nil
}

// Default returns the built-in rule set.
func Default() *Registry {
	reg, err := New(DefaultCategories(), rules.All()...)
	if err != nil {
		panic("registry: built-in rules are inconsistent: " + err.Error())
	}
	return reg
}

// Rules returns the rules in registration order.
func (r *Registry) Rules() []domain.Rule {
	out := make([]domain.Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Categories returns the category definitions in report order.
func (r *Registry) Categories() []domain.CategoryDef {
	out := make([]domain.CategoryDef, len(r.categories))
	copy(out, r.categories)
	return out
}

// Lookup returns the rule with the given ID.
func (r *Registry) Lookup(id string) (domain.Rule, bool) {
	rule, ok := r.byID[strings.ToUpper(strings.TrimSpace(id))]
	return rule, ok
}

// MaxScore returns the sum of all rule maximums.
func (r *Registry) MaxScore() int {
	total := 0
	for _, rule := range r.rules {
		total += rule.MaxScore()
	}
	return total
}

// Subset builds a registry with only the given rules, keeping registration
// order. Category budgets are recalculated and empty categories dropped.
func (r *Registry) Subset(ids ...string) (*Registry, error) {
	want := make(map[string]bool, len(ids))
	for _, id := range ids {
		rule, ok := r.Lookup(id)
		if !ok {
			return nil, fmt.Errorf("unknown rule %q", id)
		}
		want[rule.ID()] = true
	}

	points := make(map[string]int)
	var selected []domain.Rule
	for _, rule := range r.rules {
		if want[rule.ID()] {
			selected = append(selected, rule)
			points[rule.Category()] += rule.MaxScore()
		}
	}

	var categories []domain.CategoryDef
	for _, c := range r.categories {
		if points[c.Slug] > 0 {
			c.MaxPoints = points[c.Slug]
			categories = append(categories, c)
		}
	}
	return New(categories, selected...)
}
