package explore

import (
	"bytes"
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propscope/domain/table"
)

func loadFixture(t *testing.T, records [][]string) (table.Frame, table.Mapping) {
	t.Helper()
	df := dataframe.LoadRecords(records)
	f, err := table.NewFrame(df)
	require.NoError(t, err)
	m := table.NewMapping(f.Headers(), table.LogicalColumns())
	return f, m
}

func fullFixture(t *testing.T) (table.Frame, table.Mapping) {
	return loadFixture(t, [][]string{
		{"brokered_by", "price", "acre_lot", "city", "house_size", "street", "zip_code", "state"},
		{"103378", "105000", "0.12", "Adjuntas", "920", "Sector Yahuecas", "601", "Puerto Rico"},
		{"52707", "80000", "0.08", "Adjuntas", "1527", "Km 78.9 Carr 135", "601", "Puerto Rico"},
		{"103379", "67000", "0.15", "Juana Diaz", "748", "Bo Sabana Llana", "795", "Puerto Rico"},
		{"31239", "145000", "0.25", "Ponce", "1800", "Pr 123", "731", "Puerto Rico"},
		{"34632", "65000", "0.10", "Mayaguez", "912", "Carr 106", "680", "Puerto Rico"},
		{"103380", "179000", "0.46", "Adjuntas", "2520", "Carr 135", "601", "Puerto Rico"},
		{"103381", "50000", "0.20", "Ponce", "1250", "Calle 5", "730", "Puerto Rico"},
		{"52708", "71600", "0.08", "Ponce", "1300", "Bda Clausells", "728", "Puerto Rico"},
		{"52709", "100000", "0.09", "Ponce", "1100", "Calle San Luis", "728", "Puerto Rico"},
		{"52710", "300000", "7.46", "San Sebastian", "2000", "Carr 446", "685", "Puerto Rico"},
	})
}

func TestRunnerFullSequence(t *testing.T) {
	f, m := fullFixture(t)
	var out bytes.Buffer

	summary := NewRunner(&out).Run(f, m)

	assert.Equal(t, 38, summary.Total)
	// The column rename runs after the state column is dropped, so a
	// complete dataset still records exactly that one skip.
	assert.Equal(t, 1, summary.Skipped)

	text := out.String()
	assert.Contains(t, text, "Column name mapping")
	assert.Contains(t, text, "Rendering options")
	assert.Contains(t, text, "Adjuntas")
	assert.Contains(t, text, "Group by city, total price")
	assert.Contains(t, text, "Run complete: 38 steps, 1 skipped.")
}

func TestRunnerMutationsCarryForward(t *testing.T) {
	f, m := fullFixture(t)
	var out bytes.Buffer

	r := NewRunner(&out)
	r.Run(f, m)

	final := r.Frame()
	// Row label 2 and labels 4..7 were deleted, one row appended.
	assert.False(t, final.HasLabel(2))
	assert.False(t, final.HasLabel(4))
	// Label 3 was renamed to 5 after label 5 was deleted.
	assert.False(t, final.HasLabel(3))
	assert.True(t, final.HasLabel(5))
	// house_size and state are gone; state was renamed before... state
	// is dropped in the two-column drop, so the rename step skips.
	assert.False(t, final.HasColumn("house_size"))
	assert.False(t, final.HasColumn("state"))
}

func TestRunnerMissingPriceSkipsDependentSteps(t *testing.T) {
	f, m := loadFixture(t, [][]string{
		{"city", "street", "zip_code"},
		{"Adjuntas", "Sector Yahuecas", "601"},
		{"Ponce", "Pr 123", "731"},
	})
	var out bytes.Buffer

	summary := NewRunner(&out).Run(f, m)

	text := out.String()
	assert.Contains(t, text, "price column not found")
	assert.Greater(t, summary.Skipped, 0)

	skippedNames := make([]string, 0)
	for _, s := range summary.Steps {
		if s.Skipped {
			skippedNames = append(skippedNames, s.Name)
		}
	}
	joined := strings.Join(skippedNames, " ")
	assert.Contains(t, joined, "price above threshold")
	assert.Contains(t, joined, "sort by price")
	assert.Contains(t, joined, "group by city")
	assert.Contains(t, joined, "numeric transforms")
}

func TestRunnerTinyFrameOutOfRangeNotices(t *testing.T) {
	f, m := loadFixture(t, [][]string{
		{"city", "price"},
		{"Adjuntas", "105000"},
		{"Ponce", "145000"},
	})
	var out bytes.Buffer

	summary := NewRunner(&out).Run(f, m)

	// Position-based steps beyond two rows skip instead of failing.
	assert.Greater(t, summary.Skipped, 0)
	assert.Contains(t, out.String(), "out of range")
}

func TestRunnerNeverPanicsOnEmptyMapping(t *testing.T) {
	f, m := loadFixture(t, [][]string{
		{"alpha", "beta"},
		{"1", "2"},
		{"3", "4"},
	})
	var out bytes.Buffer

	summary := NewRunner(&out).Run(f, m)
	assert.Equal(t, 38, summary.Total)
}
