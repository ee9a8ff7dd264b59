// Package postgres stores run records in PostgreSQL via sqlx.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"propscope/domain/core"
	"propscope/domain/run"
	"propscope/ports"
)

// runRepository implements the RunRepository interface
type runRepository struct {
	db *sqlx.DB
}

// NewRunRepository creates a new run repository
func NewRunRepository(db *sqlx.DB) ports.RunRepository {
	return &runRepository{db: db}
}

// EnsureSchema creates the runs table when it does not exist yet.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	schema := `CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		source TEXT NOT NULL,
		row_count INTEGER NOT NULL,
		col_count INTEGER NOT NULL,
		mapping JSONB NOT NULL DEFAULT '{}',
		steps_total INTEGER NOT NULL DEFAULT 0,
		steps_skipped INTEGER NOT NULL DEFAULT 0,
		profiles JSONB,
		report_markdown TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure runs schema: %w", err)
	}
	return nil
}

// Create inserts a new run record into the database
func (r *runRepository) Create(ctx context.Context, rec *run.Record) error {
	mappingJSON, err := json.Marshal(rec.Mapping)
	if err != nil {
		return fmt.Errorf("failed to marshal mapping: %w", err)
	}

	query := `INSERT INTO runs (
		id, source, row_count, col_count, mapping,
		steps_total, steps_skipped, profiles, report_markdown, created_at
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err = r.db.ExecContext(ctx, query,
		rec.ID, rec.Source, rec.RowCount, rec.ColCount, mappingJSON,
		rec.StepsTotal, rec.StepsSkipped, []byte(rec.Profiles), rec.ReportMarkdown, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	return nil
}

// GetByID retrieves a run record by its ID
func (r *runRepository) GetByID(ctx context.Context, id core.ID) (*run.Record, error) {
	query := `SELECT
		id, source, row_count, col_count, mapping,
		steps_total, steps_skipped, COALESCE(profiles, 'null') as profiles,
		report_markdown, created_at
	FROM runs WHERE id = $1`

	rec, err := scanRecord(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("%w: %s", core.ErrRunNotFound, id)
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	return rec, nil
}

// ListRecent retrieves the most recent run records, newest first
func (r *runRepository) ListRecent(ctx context.Context, limit int) ([]*run.Record, error) {
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT
		id, source, row_count, col_count, mapping,
		steps_total, steps_skipped, COALESCE(profiles, 'null') as profiles,
		report_markdown, created_at
	FROM runs ORDER BY created_at DESC LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	records := make([]*run.Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return records, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanRecord(s rowScanner) (*run.Record, error) {
	var rec run.Record
	var mappingJSON, profilesJSON []byte

	err := s.Scan(
		&rec.ID, &rec.Source, &rec.RowCount, &rec.ColCount, &mappingJSON,
		&rec.StepsTotal, &rec.StepsSkipped, &profilesJSON,
		&rec.ReportMarkdown, &rec.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(mappingJSON) > 0 {
		if err := json.Unmarshal(mappingJSON, &rec.Mapping); err != nil {
			return nil, fmt.Errorf("failed to unmarshal mapping: %w", err)
		}
	}
	if len(profilesJSON) > 0 && string(profilesJSON) != "null" {
		rec.Profiles = json.RawMessage(profilesJSON)
	}
	return &rec, nil
}
