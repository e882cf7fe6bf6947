// Package classify implements the deterministic, priority-ordered
// classification engine: exact overrides first, then the haram, review, and
// halal keyword tiers. The engine is a pure function over one input at a
// time; a loaded ruleset is read-only, so concurrent Classify calls are safe.
package classify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"halalcheck/internal/rules"
)

// Result is a classification decision. Status is the display label from the
// ruleset's status_labels; Reason explains which rule produced it. A Result
// only exists as a pair: callers receive it together with a bool reporting
// whether any rule matched at all.
type Result struct {
	Status string
	Reason string
}

// Engine classifies material names against one immutable ruleset.
type Engine struct {
	rs *rules.Ruleset
}

// NewEngine returns an engine bound to rs. The ruleset must already be
// validated; see rules.Parse.
func NewEngine(rs *rules.Ruleset) *Engine {
	return &Engine{rs: rs}
}

// Classify resolves materialName to a (status, reason) decision. The false
// return means no override and no keyword matched: the material stays
// unknown rather than being coerced to a default status.
//
// Priority order, first match wins:
//  1. exact overrides, in definition order
//  2. haram_contains keywords
//  3. review_contains keywords
//  4. halal_contains keywords
//
// Tier precedence is a safety policy: a forbidden signal always outranks
// review and permitted signals regardless of list positions across tiers.
func (e *Engine) Classify(materialName string) (Result, bool) {
	normalized := Normalize(materialName)

	for _, ov := range e.rs.Overrides.Exact {
		if Normalize(ov.Key) != normalized {
			continue
		}
		reason := ov.Reason
		if reason == "" {
			reason = e.rs.Messages.OverrideDefault
		}
		label, _ := e.rs.Label(ov.Status)
		return Result{Status: label, Reason: reason}, true
	}

	tiers := []struct {
		keywords  []string
		statusKey string
		template  string
	}{
		{e.rs.Rules.HaramContains, rules.StatusHaram, e.rs.Messages.HaramMatch},
		{e.rs.Rules.ReviewContains, rules.StatusReview, e.rs.Messages.ReviewMatch},
		{e.rs.Rules.HalalContains, rules.StatusHalal, e.rs.Messages.HalalMatch},
	}
	for _, tier := range tiers {
		for _, keyword := range tier.keywords {
			if !keywordMatch(normalized, keyword) {
				continue
			}
			label, _ := e.rs.Label(tier.statusKey)
			return Result{Status: label, Reason: fmt.Sprintf(tier.template, keyword)}, true
		}
	}

	return Result{}, false
}

// keywordMatch reports whether keyword matches the normalized subject.
// An empty normalized keyword never matches. A single-rune keyword matches
// only on full equality, so a one-character keyword cannot fire as a
// substring of an unrelated word. Longer keywords match anywhere as a
// contiguous substring.
func keywordMatch(normalizedSubject, keyword string) bool {
	kw := Normalize(keyword)
	if kw == "" {
		return false
	}
	if utf8.RuneCountInString(kw) == 1 {
		return normalizedSubject == kw
	}
	return strings.Contains(normalizedSubject, kw)
}
