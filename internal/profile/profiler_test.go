package profile

import (
	"context"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"propscope/domain/core"
	"propscope/domain/table"
)

func profileFixture(t *testing.T) table.Frame {
	t.Helper()
	df := dataframe.LoadRecords([][]string{
		{"city", "price", "flag"},
		{"Adjuntas", "100", "1"},
		{"Adjuntas", "200", "1"},
		{"Ponce", "300", "1"},
		{"Ponce", "NaN", "1"},
	})
	f, err := table.NewFrame(df)
	require.NoError(t, err)
	return f
}

func TestProfileFrame(t *testing.T) {
	f := profileFixture(t)

	profiles, err := NewProfiler(2).ProfileFrame(context.Background(), f)
	require.NoError(t, err)
	require.Len(t, profiles, 3)

	// Results keep column order.
	assert.Equal(t, "city", profiles[0].Name)
	assert.Equal(t, "price", profiles[1].Name)

	city := profiles[0]
	assert.Equal(t, 4, city.SampleSize)
	assert.Equal(t, 0, city.Missing)
	assert.Equal(t, 2, city.Cardinality)
	assert.Nil(t, city.Summary, "string columns get no numeric summary")

	price := profiles[1]
	assert.Equal(t, 1, price.Missing)
	assert.InDelta(t, 0.25, price.MissingRate, 1e-9)
	require.NotNil(t, price.Summary)
	assert.InDelta(t, 200, price.Summary.Mean, 1e-9)
	assert.InDelta(t, 200, price.Summary.Median, 1e-9)
	assert.InDelta(t, 100, price.Summary.Min, 1e-9)
	assert.InDelta(t, 300, price.Summary.Max, 1e-9)
	assert.False(t, price.ZeroVariance)
}

func TestProfileFlagsConstantColumn(t *testing.T) {
	f := profileFixture(t)

	profiles, err := NewProfiler(0).ProfileFrame(context.Background(), f)
	require.NoError(t, err)

	flag := profiles[2]
	assert.Equal(t, 1, flag.Cardinality)
	assert.True(t, flag.ZeroVariance)
}

func TestProfileEmptyFrame(t *testing.T) {
	df := dataframe.LoadRecords([][]string{{"a"}, {"1"}})
	f, err := table.NewFrame(df)
	require.NoError(t, err)

	sub := f.Head(0)
	_, err = NewProfiler(1).ProfileFrame(context.Background(), sub)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}
