// Package engine evaluates sensor facts against a rule catalog and resolves
// conflicts among matching rules by priority.
//
// The core is the pure function Resolve: it finds every rule whose
// conditions all hold, ranks matches by descending priority (stable, so
// equal-priority rules keep catalog order), and selects the winner. When
// nothing matches it returns the fixed fallback action, so callers always
// receive a well-formed decision.
//
// Condition evaluation is fail-closed throughout: a missing fact field, an
// operator outside the supported set, or a type-mismatched comparison makes
// the condition false. It never raises.
//
// # Basic Usage
//
//	decision := engine.Resolve(facts, rules.DefaultCatalog())
//	fmt.Println(decision.Action.Mode, decision.Action.Reason)
//
// # Service Usage
//
// Engine wraps Resolve with a reloadable catalog source, evaluation IDs,
// metrics, and tracing:
//
//	eng, err := engine.New(source.NewFileSource(path, logger), logger)
//	if err != nil {
//	    return err
//	}
//	defer eng.Close()
//
//	decision := eng.Evaluate(ctx, facts)
//
// # Thread Safety
//
// Resolve is a pure function and safe for concurrent use against a shared
// catalog; neither the facts nor the catalog are mutated. Engine guards its
// current catalog with an RWMutex only so hot reload can swap it atomically.
package engine
