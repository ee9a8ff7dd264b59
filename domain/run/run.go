// Package run holds the persisted record of a dataset run.
package run

import (
	"encoding/json"

	"propscope/domain/core"
)

// Record is one completed dataset run: where the data came from, how
// the logical columns resolved, and what the run produced.
type Record struct {
	ID             core.ID           `db:"id" json:"id"`
	Source         string            `db:"source" json:"source"`
	RowCount       int               `db:"row_count" json:"row_count"`
	ColCount       int               `db:"col_count" json:"col_count"`
	Mapping        map[string]string `db:"-" json:"mapping"`
	StepsTotal     int               `db:"steps_total" json:"steps_total"`
	StepsSkipped   int               `db:"steps_skipped" json:"steps_skipped"`
	Profiles       json.RawMessage   `db:"profiles" json:"profiles,omitempty"`
	ReportMarkdown string            `db:"report_markdown" json:"report_markdown,omitempty"`
	CreatedAt      core.Timestamp    `db:"created_at" json:"created_at"`
}

// NewRecord creates a record with a fresh ID and timestamp.
func NewRecord(source string, rows, cols int) *Record {
	return &Record{
		ID:        core.NewID(),
		Source:    source,
		RowCount:  rows,
		ColCount:  cols,
		Mapping:   make(map[string]string),
		CreatedAt: core.Now(),
	}
}
