// Package history persists evaluation decisions to a SQLite database.
//
// Every decision made by the engine can be recorded together with the fact
// snapshot it was computed from, giving an auditable trail of which rule
// fired and what action was taken. The Store supports listing recent
// decisions and pruning records older than a retention window.
//
// The store uses WAL mode for concurrent readers and a busy timeout so
// writers back off instead of failing when the database is locked.
package history
