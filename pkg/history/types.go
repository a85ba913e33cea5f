package history

import (
	"fmt"
	"time"

	"zephyr-hq/zephyr/pkg/rules"
)

// DecisionRecord is a persisted evaluation decision.
type DecisionRecord struct {
	// ID is the evaluation ID assigned by the engine.
	ID string `json:"id"`

	// EvaluatedAt is when the decision was made.
	EvaluatedAt time.Time `json:"evaluated_at"`

	// Mode is the AC mode the decision selected.
	Mode rules.Mode `json:"mode"`

	// FanSpeed is the fan speed the decision selected.
	FanSpeed rules.FanSpeed `json:"fan_speed"`

	// Setpoint is the target temperature, nil when the action has none.
	Setpoint *float64 `json:"setpoint"`

	// Reason is the human-readable explanation from the winning rule or the
	// fallback.
	Reason string `json:"reason"`

	// RuleName is the winning rule's name, empty for fallback decisions.
	RuleName string `json:"rule_name,omitempty"`

	// Fallback reports whether the fallback action was used.
	Fallback bool `json:"fallback"`

	// Facts is the fact snapshot the decision was computed from.
	Facts rules.Facts `json:"facts"`
}

// StorageError wraps a failure in the history store with the operation that
// produced it.
type StorageError struct {
	Op    string
	Cause error
}

// Error returns the error message for this storage error.
func (e *StorageError) Error() string {
	return fmt.Sprintf("history store %s: %v", e.Op, e.Cause)
}

// Unwrap returns the underlying cause.
func (e *StorageError) Unwrap() error {
	return e.Cause
}

func storageErr(op string, cause error) error {
	return &StorageError{Op: op, Cause: cause}
}
