// Package rules defines the data model for the Zephyr decision engine:
// sensor facts, declarative conditions, prioritized rules, and the AC
// actions they produce.
//
// A rule catalog is configuration, not logic. Conditions are plain
// (field, operator, value) triples so a catalog stays auditable; nothing
// in this package executes anything. Evaluation lives in the engine
// subpackage, catalog loading in the source subpackage.
//
// # Fact Values
//
// Fact values form a closed sum type: boolean, number, or text. The Value
// type enforces this at the decode boundary so the evaluator never sees a
// value outside the three kinds:
//
//	facts := rules.Facts{
//	    "temperature":  rules.Number(28),
//	    "occupancy":    rules.Text("OCCUPIED"),
//	    "windows_open": rules.Bool(false),
//	}
//
// # Catalog Validation
//
// Catalogs are validated once at load time. A rule with a missing name, an
// unknown operator, or a partially populated action is a configuration bug
// and is rejected outright; it never degrades silently into a rule that can
// never match.
package rules
