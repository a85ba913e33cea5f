package rules

// Operator is a comparison operator in a condition triple.
type Operator string

const (
	OperatorEqual        Operator = "=="
	OperatorNotEqual     Operator = "!="
	OperatorGreaterThan  Operator = ">"
	OperatorGreaterEqual Operator = ">="
	OperatorLessThan     Operator = "<"
	OperatorLessEqual    Operator = "<="
)

// SupportedOperators lists the six comparators the evaluator understands,
// in catalog display order.
var SupportedOperators = []Operator{
	OperatorEqual,
	OperatorNotEqual,
	OperatorGreaterThan,
	OperatorGreaterEqual,
	OperatorLessThan,
	OperatorLessEqual,
}

// Valid reports whether the operator belongs to the supported set.
func (op Operator) Valid() bool {
	switch op {
	case OperatorEqual, OperatorNotEqual,
		OperatorGreaterThan, OperatorGreaterEqual,
		OperatorLessThan, OperatorLessEqual:
		return true
	default:
		return false
	}
}

// Condition is an atomic comparison against one fact field. A rule's
// conditions are implicitly AND-ed.
type Condition struct {
	Field    string   `yaml:"field" json:"field"`
	Operator Operator `yaml:"operator" json:"operator"`
	Value    Value    `yaml:"value" json:"value"`
}

// Mode is the AC operating mode commanded by an action.
type Mode string

const (
	ModeOff   Mode = "OFF"
	ModeEco   Mode = "ECO"
	ModeCool  Mode = "COOL"
	ModeSleep Mode = "SLEEP"
	ModeHeat  Mode = "HEAT"
	ModeAuto  Mode = "AUTO"
)

// Valid reports whether the mode is a known AC mode.
func (m Mode) Valid() bool {
	switch m {
	case ModeOff, ModeEco, ModeCool, ModeSleep, ModeHeat, ModeAuto:
		return true
	default:
		return false
	}
}

// FanSpeed is the fan speed commanded by an action.
type FanSpeed string

const (
	FanLow    FanSpeed = "LOW"
	FanMedium FanSpeed = "MEDIUM"
	FanHigh   FanSpeed = "HIGH"
)

// Valid reports whether the fan speed is a known setting.
func (f FanSpeed) Valid() bool {
	switch f {
	case FanLow, FanMedium, FanHigh:
		return true
	default:
		return false
	}
}

// Action is the AC command a rule produces when it wins. Mode, fan speed,
// and reason are mandatory at catalog load time; setpoint is optional
// (nil means the mode has no target temperature, e.g. OFF).
type Action struct {
	Mode     Mode     `yaml:"mode" json:"mode"`
	FanSpeed FanSpeed `yaml:"fan_speed" json:"fan_speed"`
	Setpoint *float64 `yaml:"setpoint" json:"setpoint"`
	Reason   string   `yaml:"reason" json:"reason"`
}

// Rule maps a conjunction of conditions to an action. Higher priority wins
// when several rules match; ties keep catalog order.
type Rule struct {
	Name       string      `yaml:"name" json:"name"`
	Priority   int         `yaml:"priority" json:"priority"`
	Conditions []Condition `yaml:"conditions" json:"conditions"`
	Action     Action      `yaml:"action" json:"action"`
}
