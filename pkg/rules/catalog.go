package rules

import "fmt"

// Catalog is the ordered collection of configured rules. It is loaded once
// and treated as immutable for the lifetime of the load; hot reload swaps
// in a whole new Catalog rather than mutating one in place.
type Catalog struct {
	Name  string  `yaml:"name,omitempty" json:"name,omitempty"`
	Rules []*Rule `yaml:"rules" json:"rules"`
}

// ValidationError aggregates every problem found in a catalog so a single
// lint run reports them all.
type ValidationError struct {
	Catalog string
	Issues  []string
}

// Error returns the error message.
func (e *ValidationError) Error() string {
	name := e.Catalog
	if name == "" {
		name = "catalog"
	}
	if len(e.Issues) == 1 {
		return fmt.Sprintf("%s: %s", name, e.Issues[0])
	}
	return fmt.Sprintf("%s: %d validation issues: %v", name, len(e.Issues), e.Issues)
}

// Validate checks that every rule is well-formed: a non-empty name, known
// operators, non-empty condition fields, and a fully populated action.
// Malformed catalogs are a caller configuration bug and are rejected here,
// at load time, rather than degrading per evaluation.
func (c *Catalog) Validate() error {
	var issues []string

	if len(c.Rules) == 0 {
		issues = append(issues, "catalog has no rules")
	}

	for i, rule := range c.Rules {
		if rule == nil {
			issues = append(issues, fmt.Sprintf("rule %d is null", i))
			continue
		}
		issues = append(issues, validateRule(i, rule)...)
	}

	if len(issues) > 0 {
		return &ValidationError{Catalog: c.Name, Issues: issues}
	}
	return nil
}

func validateRule(index int, rule *Rule) []string {
	var issues []string

	label := rule.Name
	if label == "" {
		label = fmt.Sprintf("rule %d", index)
		issues = append(issues, fmt.Sprintf("%s: missing name", label))
	}

	for i, cond := range rule.Conditions {
		if cond.Field == "" {
			issues = append(issues, fmt.Sprintf("%s: condition %d: missing field", label, i))
		}
		if !cond.Operator.Valid() {
			issues = append(issues, fmt.Sprintf("%s: condition %d: unknown operator %q", label, i, cond.Operator))
		}
		if cond.Value.Kind() == KindInvalid {
			issues = append(issues, fmt.Sprintf("%s: condition %d: missing value", label, i))
		}
	}

	if !rule.Action.Mode.Valid() {
		issues = append(issues, fmt.Sprintf("%s: action: unknown mode %q", label, rule.Action.Mode))
	}
	if !rule.Action.FanSpeed.Valid() {
		issues = append(issues, fmt.Sprintf("%s: action: unknown fan speed %q", label, rule.Action.FanSpeed))
	}
	if rule.Action.Reason == "" {
		issues = append(issues, fmt.Sprintf("%s: action: missing reason", label))
	}

	return issues
}

// DefaultAction is the fixed fallback returned when no rule matches.
func DefaultAction() Action {
	return Action{
		Mode:     ModeOff,
		FanSpeed: FanLow,
		Setpoint: nil,
		Reason:   "No matching rules",
	}
}

// Setpoint is a convenience for building actions with a target temperature.
func Setpoint(degrees float64) *float64 {
	return &degrees
}

// DefaultCatalog returns the shipped smart-AC rule catalog. It is used when
// no catalog file is configured and doubles as the reference dataset for
// tests and examples.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Name: "default",
		Rules: []*Rule{
			{
				Name:     "Windows open → turn off AC",
				Priority: 100,
				Conditions: []Condition{
					{Field: "windows_open", Operator: OperatorEqual, Value: Bool(true)},
				},
				Action: Action{
					Mode:     ModeOff,
					FanSpeed: FanLow,
					Reason:   "Windows are open",
				},
			},
			{
				Name:     "No one home → eco mode",
				Priority: 90,
				Conditions: []Condition{
					{Field: "occupancy", Operator: OperatorEqual, Value: Text("EMPTY")},
					{Field: "temperature", Operator: OperatorGreaterEqual, Value: Number(24)},
				},
				Action: Action{
					Mode:     ModeEco,
					FanSpeed: FanLow,
					Setpoint: Setpoint(27),
					Reason:   "Home empty, save energy",
				},
			},
			{
				Name:     "Too cold → turn off AC",
				Priority: 85,
				Conditions: []Condition{
					{Field: "temperature", Operator: OperatorLessEqual, Value: Number(22)},
				},
				Action: Action{
					Mode:     ModeOff,
					FanSpeed: FanLow,
					Reason:   "Already cold",
				},
			},
			{
				Name:     "Hot & humid (occupied) → strong cooling",
				Priority: 80,
				Conditions: []Condition{
					{Field: "occupancy", Operator: OperatorEqual, Value: Text("OCCUPIED")},
					{Field: "temperature", Operator: OperatorGreaterEqual, Value: Number(30)},
					{Field: "humidity", Operator: OperatorGreaterEqual, Value: Number(70)},
				},
				Action: Action{
					Mode:     ModeCool,
					FanSpeed: FanHigh,
					Setpoint: Setpoint(23),
					Reason:   "Hot and humid",
				},
			},
			{
				Name:     "Night (occupied) → sleep mode",
				Priority: 75,
				Conditions: []Condition{
					{Field: "occupancy", Operator: OperatorEqual, Value: Text("OCCUPIED")},
					{Field: "time_of_day", Operator: OperatorEqual, Value: Text("NIGHT")},
					{Field: "temperature", Operator: OperatorGreaterEqual, Value: Number(26)},
				},
				Action: Action{
					Mode:     ModeSleep,
					FanSpeed: FanLow,
					Setpoint: Setpoint(26),
					Reason:   "Night comfort",
				},
			},
			{
				Name:     "Hot (occupied) → cool",
				Priority: 70,
				Conditions: []Condition{
					{Field: "occupancy", Operator: OperatorEqual, Value: Text("OCCUPIED")},
					{Field: "temperature", Operator: OperatorGreaterEqual, Value: Number(28)},
				},
				Action: Action{
					Mode:     ModeCool,
					FanSpeed: FanMedium,
					Setpoint: Setpoint(24),
					Reason:   "Temperature high",
				},
			},
			{
				Name:     "Slightly warm (occupied) → gentle cool",
				Priority: 60,
				Conditions: []Condition{
					{Field: "occupancy", Operator: OperatorEqual, Value: Text("OCCUPIED")},
					{Field: "temperature", Operator: OperatorGreaterEqual, Value: Number(26)},
					{Field: "temperature", Operator: OperatorLessThan, Value: Number(28)},
				},
				Action: Action{
					Mode:     ModeCool,
					FanSpeed: FanLow,
					Setpoint: Setpoint(25),
					Reason:   "Slightly warm",
				},
			},
		},
	}
}
