package engine

import (
	"testing"

	"zephyr-hq/zephyr/pkg/rules"
)

func TestEvaluateCondition(t *testing.T) {
	facts := rules.Facts{
		"temperature":  rules.Number(26),
		"humidity":     rules.Number(50),
		"occupancy":    rules.Text("OCCUPIED"),
		"time_of_day":  rules.Text("NIGHT"),
		"windows_open": rules.Bool(false),
	}

	tests := []struct {
		name string
		cond rules.Condition
		want bool
	}{
		{
			name: "number equal",
			cond: rules.Condition{Field: "temperature", Operator: rules.OperatorEqual, Value: rules.Number(26)},
			want: true,
		},
		{
			name: "number not equal",
			cond: rules.Condition{Field: "temperature", Operator: rules.OperatorNotEqual, Value: rules.Number(30)},
			want: true,
		},
		{
			name: "number greater than false at boundary",
			cond: rules.Condition{Field: "temperature", Operator: rules.OperatorGreaterThan, Value: rules.Number(26)},
			want: false,
		},
		{
			name: "number greater or equal at boundary",
			cond: rules.Condition{Field: "temperature", Operator: rules.OperatorGreaterEqual, Value: rules.Number(26)},
			want: true,
		},
		{
			name: "number less than",
			cond: rules.Condition{Field: "humidity", Operator: rules.OperatorLessThan, Value: rules.Number(70)},
			want: true,
		},
		{
			name: "number less or equal",
			cond: rules.Condition{Field: "humidity", Operator: rules.OperatorLessEqual, Value: rules.Number(50)},
			want: true,
		},
		{
			name: "text equal",
			cond: rules.Condition{Field: "occupancy", Operator: rules.OperatorEqual, Value: rules.Text("OCCUPIED")},
			want: true,
		},
		{
			name: "text ordering is lexicographic",
			cond: rules.Condition{Field: "time_of_day", Operator: rules.OperatorLessThan, Value: rules.Text("ZZZ")},
			want: true,
		},
		{
			name: "bool equal",
			cond: rules.Condition{Field: "windows_open", Operator: rules.OperatorEqual, Value: rules.Bool(false)},
			want: true,
		},
		{
			name: "bool not equal",
			cond: rules.Condition{Field: "windows_open", Operator: rules.OperatorNotEqual, Value: rules.Bool(true)},
			want: true,
		},

		// Fail-closed cases.
		{
			name: "missing field fails closed",
			cond: rules.Condition{Field: "co2", Operator: rules.OperatorGreaterThan, Value: rules.Number(400)},
			want: false,
		},
		{
			name: "unknown operator fails closed",
			cond: rules.Condition{Field: "temperature", Operator: "~=", Value: rules.Number(26)},
			want: false,
		},
		{
			name: "type mismatch equal fails closed",
			cond: rules.Condition{Field: "occupancy", Operator: rules.OperatorEqual, Value: rules.Number(1)},
			want: false,
		},
		{
			name: "type mismatch not-equal fails closed rather than matching",
			cond: rules.Condition{Field: "occupancy", Operator: rules.OperatorNotEqual, Value: rules.Number(1)},
			want: false,
		},
		{
			name: "ordering a bool fails closed",
			cond: rules.Condition{Field: "windows_open", Operator: rules.OperatorLessThan, Value: rules.Bool(true)},
			want: false,
		},
		{
			name: "ordering text against number fails closed",
			cond: rules.Condition{Field: "time_of_day", Operator: rules.OperatorGreaterThan, Value: rules.Number(3)},
			want: false,
		},
		{
			name: "zero value never matches",
			cond: rules.Condition{Field: "temperature", Operator: rules.OperatorEqual, Value: rules.Value{}},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := EvaluateCondition(facts, tt.cond); got != tt.want {
				t.Errorf("EvaluateCondition(%v %s %v) = %v, want %v",
					tt.cond.Field, tt.cond.Operator, tt.cond.Value, got, tt.want)
			}
		})
	}
}

func TestEvaluateConditionNilFacts(t *testing.T) {
	cond := rules.Condition{Field: "temperature", Operator: rules.OperatorEqual, Value: rules.Number(26)}

	if EvaluateCondition(nil, cond) {
		t.Error("EvaluateCondition(nil facts) = true, want false")
	}
}

func TestRuleMatchesAndSemantics(t *testing.T) {
	facts := rules.Facts{
		"temperature": rules.Number(30),
		"humidity":    rules.Number(80),
		"occupancy":   rules.Text("EMPTY"),
	}

	allTrue := &rules.Rule{
		Name: "all-true",
		Conditions: []rules.Condition{
			{Field: "temperature", Operator: rules.OperatorGreaterEqual, Value: rules.Number(30)},
			{Field: "humidity", Operator: rules.OperatorGreaterEqual, Value: rules.Number(70)},
			{Field: "occupancy", Operator: rules.OperatorEqual, Value: rules.Text("EMPTY")},
		},
	}
	if !ruleMatches(facts, allTrue) {
		t.Error("rule with all conditions true should match")
	}

	// Same rule with one failing condition must not match.
	twoOfThree := &rules.Rule{
		Name: "two-of-three",
		Conditions: []rules.Condition{
			{Field: "temperature", Operator: rules.OperatorGreaterEqual, Value: rules.Number(30)},
			{Field: "humidity", Operator: rules.OperatorGreaterEqual, Value: rules.Number(70)},
			{Field: "occupancy", Operator: rules.OperatorEqual, Value: rules.Text("OCCUPIED")},
		},
	}
	if ruleMatches(facts, twoOfThree) {
		t.Error("rule with 2 of 3 conditions true should not match")
	}

	// Dropping the failing condition restores the match.
	twoOfThree.Conditions = twoOfThree.Conditions[:2]
	if !ruleMatches(facts, twoOfThree) {
		t.Error("rule should match after removing the failing condition")
	}

	empty := &rules.Rule{Name: "unconditional"}
	if !ruleMatches(facts, empty) {
		t.Error("rule with no conditions should trivially match")
	}
}
