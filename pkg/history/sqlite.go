package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"zephyr-hq/zephyr/pkg/config"
	"zephyr-hq/zephyr/pkg/rules"
	"zephyr-hq/zephyr/pkg/rules/engine"
)

const schema = `
CREATE TABLE IF NOT EXISTS decisions (
	id           TEXT PRIMARY KEY,
	evaluated_at INTEGER NOT NULL,
	mode         TEXT NOT NULL,
	fan_speed    TEXT NOT NULL,
	setpoint     REAL,
	reason       TEXT NOT NULL,
	rule_name    TEXT,
	fallback     INTEGER NOT NULL,
	facts_json   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_decisions_evaluated_at ON decisions(evaluated_at);
`

// Store persists decisions to a SQLite database.
type Store struct {
	db     *sql.DB
	config *config.HistoryConfig
	logger *slog.Logger
}

// NewStore opens (creating if necessary) the decision database at the path
// in cfg and prepares the schema. The parent directory is created when
// missing.
func NewStore(cfg *config.HistoryConfig, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With(slog.String("component", "history"))

	if dir := filepath.Dir(cfg.Path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, storageErr("mkdir", err)
		}
	}

	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, storageErr("open", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)

	s := &Store{
		db:     db,
		config: cfg,
		logger: logger,
	}

	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("decision history store initialized",
		"path", cfg.Path,
		"retention_days", cfg.RetentionDays,
	)

	return s, nil
}

// initialize enables WAL mode, sets the busy timeout, and creates the
// schema.
func (s *Store) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return storageErr("enable_wal", err)
	}

	busyTimeoutMs := s.config.BusyTimeout.Milliseconds()
	if _, err := s.db.Exec(fmt.Sprintf("PRAGMA busy_timeout=%d;", busyTimeoutMs)); err != nil {
		return storageErr("set_busy_timeout", err)
	}

	if _, err := s.db.Exec(schema); err != nil {
		return storageErr("create_schema", err)
	}

	return nil
}

// Record persists a decision together with the facts it was computed from.
func (s *Store) Record(ctx context.Context, decision *engine.Decision, facts rules.Facts) error {
	factsJSON, err := json.Marshal(facts)
	if err != nil {
		return storageErr("marshal_facts", err)
	}

	var ruleName sql.NullString
	if decision.WinningRule != nil {
		ruleName = sql.NullString{String: decision.WinningRule.Name, Valid: true}
	}

	var setpoint sql.NullFloat64
	if decision.Action.Setpoint != nil {
		setpoint = sql.NullFloat64{Float64: *decision.Action.Setpoint, Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO decisions (
			id, evaluated_at, mode, fan_speed, setpoint, reason, rule_name, fallback, facts_json
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		decision.EvaluationID,
		decision.EvaluatedAt.UnixNano(),
		string(decision.Action.Mode),
		string(decision.Action.FanSpeed),
		setpoint,
		decision.Action.Reason,
		ruleName,
		decision.Fallback,
		string(factsJSON),
	)
	if err != nil {
		return storageErr("insert", err)
	}

	return nil
}

// Recent returns up to limit decisions ordered newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]*DecisionRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, evaluated_at, mode, fan_speed, setpoint, reason, rule_name, fallback, facts_json
		FROM decisions
		ORDER BY evaluated_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, storageErr("query", err)
	}
	defer rows.Close()

	records := make([]*DecisionRecord, 0, limit)
	for rows.Next() {
		var (
			rec         DecisionRecord
			evaluatedAt int64
			mode        string
			fanSpeed    string
			setpoint    sql.NullFloat64
			ruleName    sql.NullString
			factsJSON   string
		)
		if err := rows.Scan(
			&rec.ID, &evaluatedAt, &mode, &fanSpeed, &setpoint,
			&rec.Reason, &ruleName, &rec.Fallback, &factsJSON,
		); err != nil {
			return nil, storageErr("scan", err)
		}

		rec.EvaluatedAt = time.Unix(0, evaluatedAt)
		rec.Mode = rules.Mode(mode)
		rec.FanSpeed = rules.FanSpeed(fanSpeed)
		if setpoint.Valid {
			v := setpoint.Float64
			rec.Setpoint = &v
		}
		if ruleName.Valid {
			rec.RuleName = ruleName.String
		}
		if err := json.Unmarshal([]byte(factsJSON), &rec.Facts); err != nil {
			return nil, storageErr("unmarshal_facts", err)
		}

		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("rows", err)
	}

	return records, nil
}

// Prune deletes decisions older than the cutoff and returns how many were
// removed.
func (s *Store) Prune(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM decisions WHERE evaluated_at < ?", cutoff.UnixNano())
	if err != nil {
		return 0, storageErr("prune", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, storageErr("rows_affected", err)
	}

	if deleted > 0 {
		s.logger.Info("pruned old decisions", "deleted", deleted, "cutoff", cutoff)
	}

	return deleted, nil
}

// Count returns the number of stored decisions.
func (s *Store) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM decisions").Scan(&n); err != nil {
		return 0, storageErr("count", err)
	}
	return n, nil
}

// Ping verifies the database connection. It is used by the readiness check.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return storageErr("ping", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return storageErr("close", err)
	}
	return nil
}
