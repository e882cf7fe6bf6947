// Package rules defines the classification ruleset model and loads it from
// JSON-with-comments files. A ruleset is loaded once per run, validated
// eagerly, and treated as read-only afterwards.
package rules

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"halalcheck/internal/jsonc"
)

// Status keys used by the rule tiers. Every status key referenced by a tier
// or override must be present in the ruleset's status_labels mapping.
const (
	StatusHalal  = "halal"
	StatusHaram  = "haram"
	StatusReview = "review"
)

// Sentinel errors for ruleset validation failures. All of them are
// configuration errors: fatal before any record is processed.
var (
	// ErrMissingStatusLabels indicates the status_labels key is absent.
	ErrMissingStatusLabels = errors.New(`missing required key "status_labels"`)
	// ErrMissingRules indicates the rules key is absent.
	ErrMissingRules = errors.New(`missing required key "rules"`)
	// ErrUnknownStatusKey indicates a tier or override references a status
	// key that status_labels does not define.
	ErrUnknownStatusKey = errors.New("status key not defined in status_labels")
)

// Ruleset is the root configuration object for the classifier.
type Ruleset struct {
	// StatusLabels maps status keys (halal, haram, review, ...) to the
	// exact display strings written into the output dataset.
	StatusLabels map[string]string

	// Rules holds the three keyword tiers, consulted in fixed priority
	// order: haram, then review, then halal.
	Rules TierRules

	// Overrides lists exact-match overrides in definition order.
	Overrides Overrides

	// Messages holds the reason strings produced by the engine.
	Messages Messages
}

// TierRules holds the ordered keyword lists per tier. Within a tier the
// first matching keyword wins.
type TierRules struct {
	HaramContains  []string `json:"haram_contains"`
	ReviewContains []string `json:"review_contains"`
	HalalContains  []string `json:"halal_contains"`
}

// Overrides groups the override tables. Only exact-match overrides exist.
type Overrides struct {
	Exact OverrideList `json:"exact"`
}

// Override is one exact-match entry: a raw key string mapping to a status
// key and an optional reason.
type Override struct {
	Key    string
	Status string
	Reason string
}

// OverrideList preserves the definition order of overrides.exact, which a
// plain Go map would lose. The engine consults overrides in this order.
type OverrideList []Override

// UnmarshalJSON decodes a JSON object into an ordered override list using
// the decoder token stream so key order survives.
func (l *OverrideList) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("overrides.exact: expected an object, got %v", tok)
	}

	out := OverrideList{}
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("overrides.exact: unexpected key token %v", keyTok)
		}

		var body struct {
			Status string `json:"status"`
			Reason string `json:"reason"`
		}
		if err := dec.Decode(&body); err != nil {
			return fmt.Errorf("overrides.exact[%q]: %w", key, err)
		}
		out = append(out, Override{Key: key, Status: body.Status, Reason: body.Reason})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*l = out
	return nil
}

// Messages holds the reason strings the engine emits. Tier message values
// are fmt templates whose single %s receives the matched keyword. The
// zero-value fields fall back to the defaults below, so a rules file only
// needs a messages object to relocalize them.
type Messages struct {
	OverrideDefault string `json:"override_default"`
	HaramMatch      string `json:"haram_match"`
	ReviewMatch     string `json:"review_match"`
	HalalMatch      string `json:"halal_match"`
}

// Default reason strings, matching the shipped Korean rule files.
const (
	DefaultOverrideReason = "정확 일치 오버라이드"
	DefaultHaramMatch     = "하람 키워드 포함: %s"
	DefaultReviewMatch    = "추가 검토 필요 키워드 포함: %s"
	DefaultHalalMatch     = "할랄 키워드 포함: %s"
)

// rulesetDoc is the raw decode target. Pointer fields distinguish "absent"
// from "present but empty" for the required-key checks.
type rulesetDoc struct {
	StatusLabels map[string]string `json:"status_labels"`
	Rules        *TierRules        `json:"rules"`
	Overrides    *Overrides        `json:"overrides"`
	Messages     *Messages         `json:"messages"`
}

// Load reads a JSON-with-comments rules file, parses it, and validates it.
func Load(path string) (*Ruleset, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules file: %w", err)
	}
	rs, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return rs, nil
}

// Parse strips comments from raw, decodes the strict JSON that remains, and
// validates the resulting ruleset.
func Parse(raw []byte) (*Ruleset, error) {
	clean := jsonc.Strip(raw)

	var doc rulesetDoc
	if err := json.Unmarshal(clean, &doc); err != nil {
		return nil, fmt.Errorf("parse rules JSON: %w", err)
	}

	rs := &Ruleset{StatusLabels: doc.StatusLabels}
	if doc.Rules != nil {
		rs.Rules = *doc.Rules
	}
	if doc.Overrides != nil {
		rs.Overrides = *doc.Overrides
	}
	if doc.Messages != nil {
		rs.Messages = *doc.Messages
	}
	rs.Messages.applyDefaults()

	if err := rs.validate(doc); err != nil {
		return nil, err
	}
	return rs, nil
}

// applyDefaults fills zero-valued message fields with the default strings.
func (m *Messages) applyDefaults() {
	if m.OverrideDefault == "" {
		m.OverrideDefault = DefaultOverrideReason
	}
	if m.HaramMatch == "" {
		m.HaramMatch = DefaultHaramMatch
	}
	if m.ReviewMatch == "" {
		m.ReviewMatch = DefaultReviewMatch
	}
	if m.HalalMatch == "" {
		m.HalalMatch = DefaultHalalMatch
	}
}

// Label resolves a status key to its display label.
func (rs *Ruleset) Label(statusKey string) (string, bool) {
	label, ok := rs.StatusLabels[statusKey]
	return label, ok
}

// validate applies the fail-fast configuration checks: required keys must be
// present and every referenced status key must resolve through
// status_labels. A ruleset that passes validation can never hand the engine
// an unresolvable status at classification time.
func (rs *Ruleset) validate(doc rulesetDoc) error {
	if doc.StatusLabels == nil {
		return ErrMissingStatusLabels
	}
	if doc.Rules == nil {
		return ErrMissingRules
	}

	tiers := []struct {
		statusKey string
		keywords  []string
	}{
		{StatusHaram, rs.Rules.HaramContains},
		{StatusReview, rs.Rules.ReviewContains},
		{StatusHalal, rs.Rules.HalalContains},
	}
	for _, tier := range tiers {
		if len(tier.keywords) == 0 {
			continue
		}
		if _, ok := rs.StatusLabels[tier.statusKey]; !ok {
			return fmt.Errorf("%w: tier %s_contains needs status key %q", ErrUnknownStatusKey, tier.statusKey, tier.statusKey)
		}
	}

	for _, ov := range rs.Overrides.Exact {
		if _, ok := rs.StatusLabels[ov.Status]; !ok {
			return fmt.Errorf("%w: override %q references %q", ErrUnknownStatusKey, ov.Key, ov.Status)
		}
	}
	return nil
}
