package rules

import (
	"errors"
	"strings"
	"testing"
)

func TestDefaultCatalogIsValid(t *testing.T) {
	catalog := DefaultCatalog()

	if err := catalog.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if len(catalog.Rules) != 7 {
		t.Errorf("default catalog has %d rules, want 7", len(catalog.Rules))
	}
	if catalog.Rules[0].Priority != 100 {
		t.Errorf("first rule priority = %d, want 100", catalog.Rules[0].Priority)
	}
}

func TestCatalogValidate(t *testing.T) {
	validAction := Action{Mode: ModeCool, FanSpeed: FanLow, Reason: "test"}

	tests := []struct {
		name      string
		catalog   *Catalog
		wantIssue string
	}{
		{
			name:      "empty catalog",
			catalog:   &Catalog{Name: "empty"},
			wantIssue: "no rules",
		},
		{
			name: "missing rule name",
			catalog: &Catalog{Rules: []*Rule{
				{Action: validAction},
			}},
			wantIssue: "missing name",
		},
		{
			name: "unknown operator",
			catalog: &Catalog{Rules: []*Rule{
				{
					Name:       "bad-op",
					Conditions: []Condition{{Field: "temperature", Operator: "~=", Value: Number(25)}},
					Action:     validAction,
				},
			}},
			wantIssue: `unknown operator "~="`,
		},
		{
			name: "missing condition field",
			catalog: &Catalog{Rules: []*Rule{
				{
					Name:       "no-field",
					Conditions: []Condition{{Operator: OperatorEqual, Value: Number(1)}},
					Action:     validAction,
				},
			}},
			wantIssue: "missing field",
		},
		{
			name: "unknown mode",
			catalog: &Catalog{Rules: []*Rule{
				{Name: "bad-mode", Action: Action{Mode: "FREEZE", FanSpeed: FanLow, Reason: "x"}},
			}},
			wantIssue: `unknown mode "FREEZE"`,
		},
		{
			name: "unknown fan speed",
			catalog: &Catalog{Rules: []*Rule{
				{Name: "bad-fan", Action: Action{Mode: ModeCool, FanSpeed: "TURBO", Reason: "x"}},
			}},
			wantIssue: `unknown fan speed "TURBO"`,
		},
		{
			name: "missing reason",
			catalog: &Catalog{Rules: []*Rule{
				{Name: "no-reason", Action: Action{Mode: ModeCool, FanSpeed: FanLow}},
			}},
			wantIssue: "missing reason",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.catalog.Validate()
			if err == nil {
				t.Fatal("Validate() = nil, want error")
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate() error type = %T, want *ValidationError", err)
			}
			if !strings.Contains(err.Error(), tt.wantIssue) {
				t.Errorf("Validate() error = %q, want substring %q", err, tt.wantIssue)
			}
		})
	}
}

func TestCatalogValidateReportsAllIssues(t *testing.T) {
	catalog := &Catalog{
		Name: "broken",
		Rules: []*Rule{
			{Action: Action{Mode: "FREEZE"}},
		},
	}

	err := catalog.Validate()
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Validate() error type = %T, want *ValidationError", err)
	}

	// Missing name, bad mode, bad fan speed, missing reason.
	if len(verr.Issues) != 4 {
		t.Errorf("Validate() reported %d issues, want 4: %v", len(verr.Issues), verr.Issues)
	}
}

func TestOperatorValid(t *testing.T) {
	for _, op := range SupportedOperators {
		if !op.Valid() {
			t.Errorf("Valid(%q) = false, want true", op)
		}
	}
	for _, op := range []Operator{"", "=", "=>", "in", "contains"} {
		if op.Valid() {
			t.Errorf("Valid(%q) = true, want false", op)
		}
	}
}
