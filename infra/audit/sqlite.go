package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore persists records in a SQLite database. Model metrics are also
// stored per key so the accuracy history of a model can be queried.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates the database at path and ensures schema.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	schema := `CREATE TABLE IF NOT EXISTS recompute_runs (
        id INTEGER PRIMARY KEY AUTOINCREMENT,
        run_id TEXT NOT NULL,
        ts INTEGER NOT NULL,
        kind TEXT NOT NULL,
        success INTEGER NOT NULL,
        record TEXT NOT NULL
    );
    CREATE TABLE IF NOT EXISTS model_metrics_history (
        run_id TEXT NOT NULL,
        ts INTEGER NOT NULL,
        key TEXT NOT NULL,
        mae REAL,
        mape REAL,
        train_size INTEGER,
        test_size INTEGER,
        PRIMARY KEY(run_id, key)
    );`
	if _, err := db.Exec(schema); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, fmt.Errorf("close db: %v (schema err: %w)", cerr, err)
		}
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// Append writes the record and its model metrics in one transaction.
func (s *SQLiteStore) Append(ctx context.Context, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()
	ts := rec.Timestamp.UnixNano()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO recompute_runs (run_id, ts, kind, success, record) VALUES (?, ?, ?, ?, ?)`,
		rec.RunID, ts, rec.Kind, rec.Success, string(b)); err != nil {
		return err
	}
	for key, m := range rec.ModelMetrics {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO model_metrics_history (run_id, ts, key, mae, mape, train_size, test_size)
            VALUES (?, ?, ?, ?, ?, ?, ?)
            ON CONFLICT(run_id, key) DO UPDATE SET
                mae = excluded.mae, mape = excluded.mape,
                train_size = excluded.train_size, test_size = excluded.test_size`,
			rec.RunID, ts, key, m.MAE, m.MAPE, m.TrainSize, m.TestSize); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Query returns records matching q in chronological order.
func (s *SQLiteStore) Query(ctx context.Context, q Query) ([]Record, error) {
	var args []any
	query := `SELECT record FROM recompute_runs WHERE 1=1`
	if !q.Start.IsZero() {
		query += ` AND ts >= ?`
		args = append(args, q.Start.UnixNano())
	}
	if !q.End.IsZero() {
		query += ` AND ts <= ?`
		args = append(args, q.End.UnixNano())
	}
	if q.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, q.Kind)
	}
	if q.Key != "" {
		query += ` AND run_id IN (SELECT run_id FROM model_metrics_history WHERE key = ?)`
		args = append(args, q.Key)
	}
	query += ` ORDER BY ts, id`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var res []Record
	for rows.Next() {
		var raw string
		if err := rows.Scan(&raw); err != nil {
			return nil, err
		}
		var r Record
		if err := json.Unmarshal([]byte(raw), &r); err != nil {
			return nil, err
		}
		res = append(res, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return limit(res, q.Limit), nil
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
