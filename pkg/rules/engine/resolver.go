package engine

import (
	"sort"
	"time"

	"zephyr-hq/zephyr/pkg/rules"
)

// Decision is the result of evaluating a fact snapshot against a catalog.
// It always carries a well-formed action: when no rule matched, Action is
// the fixed fallback, MatchedRules is empty, WinningRule is nil, and
// Fallback is true.
type Decision struct {
	// EvaluationID uniquely identifies this evaluation. It is stamped by
	// Engine.Evaluate; bare Resolve calls leave it empty.
	EvaluationID string `json:"evaluation_id,omitempty"`

	// Action is the winning action, or the fallback when nothing matched.
	Action rules.Action `json:"action"`

	// MatchedRules contains every rule that matched, sorted by descending
	// priority. Equal priorities preserve catalog order.
	MatchedRules []*rules.Rule `json:"matched_rules"`

	// WinningRule is the highest-ranked match, nil when the fallback was used.
	WinningRule *rules.Rule `json:"winning_rule,omitempty"`

	// Fallback reports whether the default action was returned.
	Fallback bool `json:"fallback"`

	// EvaluatedAt is when the evaluation ran (set by Engine.Evaluate).
	EvaluatedAt time.Time `json:"evaluated_at,omitempty"`

	// EvaluationTime is how long the evaluation took (set by Engine.Evaluate).
	EvaluationTime time.Duration `json:"evaluation_time_ns,omitempty"`
}

// Resolve evaluates all rules in the catalog against the fact snapshot and
// selects the winning action.
//
// Matching: a rule matches iff every one of its conditions evaluates true
// via EvaluateCondition; a rule with no conditions trivially matches.
// Ranking: matched rules are sorted by descending priority with a stable
// sort, so rules sharing a priority keep their catalog order. Selection:
// the top-ranked rule wins; with no matches the fixed default action is
// returned instead.
//
// Resolve is total for well-formed inputs: it never returns nil and never
// panics on data-shape problems in facts or conditions. A nil catalog is
// treated as empty. Neither argument is mutated.
func Resolve(facts rules.Facts, catalog *rules.Catalog) *Decision {
	var matched []*rules.Rule
	if catalog != nil {
		for _, rule := range catalog.Rules {
			if rule == nil {
				continue
			}
			if ruleMatches(facts, rule) {
				matched = append(matched, rule)
			}
		}
	}

	if len(matched) == 0 {
		return &Decision{
			Action:       rules.DefaultAction(),
			MatchedRules: []*rules.Rule{},
			Fallback:     true,
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].Priority > matched[j].Priority
	})

	winner := matched[0]
	return &Decision{
		Action:       winner.Action,
		MatchedRules: matched,
		WinningRule:  winner,
	}
}
