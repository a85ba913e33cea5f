package engine

import (
	"strings"

	"zephyr-hq/zephyr/pkg/rules"
)

// EvaluateCondition tests one atomic comparison against a fact snapshot.
//
// Evaluation is fail-closed: a field absent from the facts, an operator
// outside the supported set, or a comparison between incompatible kinds
// all yield false. Unknown or missing data never triggers a rule.
func EvaluateCondition(facts rules.Facts, cond rules.Condition) bool {
	actual, ok := facts[cond.Field]
	if !ok {
		return false
	}

	switch cond.Operator {
	case rules.OperatorEqual:
		eq, ok := valuesEqual(actual, cond.Value)
		return ok && eq

	case rules.OperatorNotEqual:
		eq, ok := valuesEqual(actual, cond.Value)
		return ok && !eq

	case rules.OperatorGreaterThan:
		c, ok := valuesCompare(actual, cond.Value)
		return ok && c > 0

	case rules.OperatorGreaterEqual:
		c, ok := valuesCompare(actual, cond.Value)
		return ok && c >= 0

	case rules.OperatorLessThan:
		c, ok := valuesCompare(actual, cond.Value)
		return ok && c < 0

	case rules.OperatorLessEqual:
		c, ok := valuesCompare(actual, cond.Value)
		return ok && c <= 0

	default:
		return false
	}
}

// valuesEqual reports equality between two values of the same kind. The
// second return is false when the values are not comparable (mixed kinds
// or an invalid value).
func valuesEqual(a, b rules.Value) (eq bool, ok bool) {
	if a.Kind() != b.Kind() {
		return false, false
	}

	switch a.Kind() {
	case rules.KindBool:
		return a.AsBool() == b.AsBool(), true
	case rules.KindNumber:
		return a.AsNumber() == b.AsNumber(), true
	case rules.KindText:
		return a.AsText() == b.AsText(), true
	default:
		return false, false
	}
}

// valuesCompare orders two values of the same kind. Numbers compare
// numerically and text lexicographically; booleans have no ordering, so
// ordering comparisons on them fail closed.
func valuesCompare(a, b rules.Value) (c int, ok bool) {
	if a.Kind() != b.Kind() {
		return 0, false
	}

	switch a.Kind() {
	case rules.KindNumber:
		switch {
		case a.AsNumber() < b.AsNumber():
			return -1, true
		case a.AsNumber() > b.AsNumber():
			return 1, true
		default:
			return 0, true
		}
	case rules.KindText:
		return strings.Compare(a.AsText(), b.AsText()), true
	default:
		return 0, false
	}
}

// ruleMatches reports whether every condition of the rule holds. A rule
// with no conditions trivially matches.
func ruleMatches(facts rules.Facts, rule *rules.Rule) bool {
	for _, cond := range rule.Conditions {
		if !EvaluateCondition(facts, cond) {
			return false
		}
	}
	return true
}
