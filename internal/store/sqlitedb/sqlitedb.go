// internal/store/sqlitedb/sqlitedb.go
package sqlitedb

import (
	"context"
	"database/sql"
	"time"

	_ "modernc.org/sqlite"

	"github.com/shannenjosh/verifyeye/internal/apperrors"
	"github.com/shannenjosh/verifyeye/internal/models"
)

// timeLayout keeps the stored fractional seconds fixed-width so the
// lexical ORDER BY on created_at matches chronological order.
// RFC3339Nano drops trailing zeros and breaks sub-second ordering.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const schemaSQL = `
CREATE TABLE IF NOT EXISTS results (
    id TEXT PRIMARY KEY,
    type TEXT NOT NULL,
    input TEXT,
    output TEXT,
    created_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_results_created_at ON results(created_at);
`

// DB is the sqlite-backed results store.
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the database file and applies the schema.
func Open(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, apperrors.NewPersistenceError("open sqlite", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		_ = conn.Close()
		return nil, apperrors.NewPersistenceError("apply schema", err)
	}
	return &DB{conn: conn}, nil
}

// Append inserts one analysis record.
func (d *DB) Append(ctx context.Context, record models.AnalysisRecord) error {
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO results(id, type, input, output, created_at) VALUES(?,?,?,?,?)`,
		record.ID,
		string(record.Type),
		record.InputSnippet,
		string(record.Output),
		record.CreatedAt.UTC().Format(timeLayout),
	)
	if err != nil {
		return apperrors.NewPersistenceError("insert result", err)
	}
	return nil
}

// Recent returns the newest records, newest first.
func (d *DB) Recent(ctx context.Context, limit int) ([]models.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, type, input, output, created_at FROM results ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, apperrors.NewPersistenceError("query results", err)
	}
	defer rows.Close()

	records := make([]models.AnalysisRecord, 0, limit)
	for rows.Next() {
		var (
			record    models.AnalysisRecord
			recType   string
			output    string
			createdAt string
		)
		if err := rows.Scan(&record.ID, &recType, &record.InputSnippet, &output, &createdAt); err != nil {
			return nil, apperrors.NewPersistenceError("scan result", err)
		}
		record.Type = models.AnalysisType(recType)
		record.Output = []byte(output)
		if ts, err := time.Parse(timeLayout, createdAt); err == nil {
			record.CreatedAt = ts
		}
		records = append(records, record)
	}

	return records, rows.Err()
}

// Close releases the database handle.
func (d *DB) Close() error {
	return d.conn.Close()
}
