package run

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRecord(t *testing.T) {
	rec := NewRecord("data/realtor-data.csv", 120, 8)

	assert.False(t, rec.ID.IsEmpty())
	assert.Equal(t, "data/realtor-data.csv", rec.Source)
	assert.Equal(t, 120, rec.RowCount)
	assert.Equal(t, 8, rec.ColCount)
	assert.NotNil(t, rec.Mapping)
	assert.False(t, rec.CreatedAt.Time().IsZero())
}

func TestRecordJSONOmitsEmptyProfiles(t *testing.T) {
	rec := NewRecord("a.csv", 1, 1)

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "profiles")
	assert.NotContains(t, string(data), "report_markdown")
}
