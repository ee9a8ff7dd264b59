package table

import (
	"math"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFrame(t *testing.T) Frame {
	t.Helper()
	df := dataframe.LoadRecords([][]string{
		{"city", "price", "house_size"},
		{"Adjuntas", "105000", "920"},
		{"Adjuntas", "80000", "1527"},
		{"Juana Diaz", "67000", "748"},
		{"Ponce", "145000", "1800"},
		{"Mayaguez", "65000", "NaN"},
	})
	f, err := NewFrame(df)
	require.NoError(t, err)
	return f
}

func TestNewFrameAssignsLabels(t *testing.T) {
	f := testFrame(t)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, f.Labels())
	assert.Equal(t, 5, f.Nrow())
	assert.Equal(t, 3, f.Ncol())
}

func TestHeadTail(t *testing.T) {
	f := testFrame(t)

	head := f.Head(2)
	assert.Equal(t, []int{0, 1}, head.Labels())

	tail := f.Tail(2)
	assert.Equal(t, []int{3, 4}, tail.Labels())

	// Requests beyond the frame clamp instead of failing.
	assert.Equal(t, 5, f.Head(50).Nrow())
}

func TestLocAndLocRange(t *testing.T) {
	f := testFrame(t)

	sel, err := f.Loc(1, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 3}, sel.Labels())

	_, err = f.Loc(99)
	assert.Error(t, err)

	// Inclusive at both ends.
	rng := f.LocRange(1, 3)
	assert.Equal(t, []int{1, 2, 3}, rng.Labels())
}

func TestLabelsSurviveDeletion(t *testing.T) {
	f := testFrame(t)

	f2, dropped := f.DropLabels(2)
	assert.Equal(t, []int{2}, dropped)
	assert.Equal(t, []int{0, 1, 3, 4}, f2.Labels())
	assert.False(t, f2.HasLabel(2))

	// Dropping an absent label is a no-op.
	f3, dropped := f2.DropLabels(2)
	assert.Empty(t, dropped)
	assert.Equal(t, 4, f3.Nrow())
}

func TestILocBounds(t *testing.T) {
	f := testFrame(t)

	sel, err := f.ILoc(4)
	require.NoError(t, err)
	assert.Equal(t, []int{4}, sel.Labels())

	_, err = f.ILoc(5)
	assert.Error(t, err)

	// Half-open, clamped.
	assert.Equal(t, []int{1, 2, 3}, f.ILocRange(1, 4).Labels())
	assert.Equal(t, 5, f.ILocRange(0, 50).Nrow())
}

func TestSelectAndSpan(t *testing.T) {
	f := testFrame(t)

	sel, err := f.Select("city", "price")
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "price"}, sel.Headers())

	_, err = f.Select("missing")
	assert.Error(t, err)

	span, err := f.SelectSpan("city", "house_size")
	require.NoError(t, err)
	assert.Equal(t, 3, span.Ncol())

	_, err = f.SelectSpan("house_size", "city")
	assert.Error(t, err)
}

func TestMaskFilters(t *testing.T) {
	f := testFrame(t)

	over, err := f.MaskFloat("price", func(v float64) bool { return v > 100000 })
	require.NoError(t, err)
	kept, err := f.Where(over)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 3}, kept.Labels())

	adjuntas, err := f.MaskString("city", func(v string) bool { return v == "Adjuntas" })
	require.NoError(t, err)
	under, err := f.MaskFloat("price", func(v float64) bool { return v < 100000 })
	require.NoError(t, err)
	both, err := f.Where(And(adjuntas, under))
	require.NoError(t, err)
	assert.Equal(t, []int{1}, both.Labels())
}

func TestMaskIgnoresMissing(t *testing.T) {
	f := testFrame(t)

	mask, err := f.MaskFloat("house_size", func(v float64) bool { return v > 0 })
	require.NoError(t, err)
	// Row 4 has a missing house_size and must not match.
	assert.False(t, mask[4])
}

func TestAppendRow(t *testing.T) {
	f := testFrame(t)

	f2, label := f.AppendRow(map[string]string{
		"city":  "NEWCITY",
		"price": "123456",
	})
	assert.Equal(t, 5, label)
	assert.Equal(t, 6, f2.Nrow())

	row, err := f2.Loc(label)
	require.NoError(t, err)
	cities, err := row.Col("city")
	require.NoError(t, err)
	assert.Equal(t, "NEWCITY", cities.Records()[0])

	sizes, err := row.ColFloats("house_size")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(sizes[0]), "absent cell should be missing")
}

func TestDropAndRenameColumns(t *testing.T) {
	f := testFrame(t)

	f2, err := f.DropColumns("house_size")
	require.NoError(t, err)
	assert.Equal(t, []string{"city", "price"}, f2.Headers())

	_, err = f2.DropColumns("house_size")
	assert.Error(t, err)

	f3, err := f2.RenameColumn("city", "city_changed")
	require.NoError(t, err)
	assert.Contains(t, f3.Headers(), "city_changed")
}

func TestRenameLabel(t *testing.T) {
	f := testFrame(t)

	f2, found := f.RenameLabel(3, 5)
	assert.True(t, found)
	assert.True(t, f2.HasLabel(5))
	assert.False(t, f2.HasLabel(3))

	_, found = f.RenameLabel(99, 100)
	assert.False(t, found)
}

func TestSortByFloatMissingLast(t *testing.T) {
	f := testFrame(t)

	sorted, err := f.SortByFloat("house_size", true)
	require.NoError(t, err)
	labels := sorted.Labels()
	assert.Equal(t, 4, labels[len(labels)-1], "NaN row sorts last")
	assert.Equal(t, 2, labels[0], "smallest house_size first")
}

func TestGroupSum(t *testing.T) {
	f := testFrame(t)

	agg, err := f.GroupSum("city", "price")
	require.NoError(t, err)
	require.NoError(t, agg.Err)
	assert.Equal(t, 4, agg.Nrow())

	sums := agg.Col("price_SUM").Float()
	assert.InDelta(t, 185000, sums[0], 0.1, "Adjuntas total should rank first")
}

func TestDropNAAndFillNA(t *testing.T) {
	f := testFrame(t)

	clean := f.DropNA()
	assert.Equal(t, 4, clean.Nrow())
	assert.False(t, clean.HasLabel(4))

	// Survivors are relabeled from zero rather than keeping old labels.
	f2, _ := f.DropLabels(0)
	clean2 := f2.DropNA()
	assert.Equal(t, []int{0, 1, 2}, clean2.Labels())

	filled := f.FillNA("0")
	sizes, err := filled.ColFloats("house_size")
	require.NoError(t, err)
	assert.Equal(t, 0.0, sizes[4])
	assert.Equal(t, 5, filled.Nrow())
}

func TestTableWith(t *testing.T) {
	f := testFrame(t)

	// Truncation applies to the rendered text only.
	trimmed := f.TableWith(RenderOptions{MaxRows: 2, MaxCols: 2})
	assert.Contains(t, trimmed, "Adjuntas")
	assert.NotContains(t, trimmed, "house_size")
	assert.NotContains(t, trimmed, "Mayaguez")
	assert.Equal(t, 5, f.Nrow())

	// Missing cells render with the replacement text, floats with the
	// given verb.
	styled := f.TableWith(RenderOptions{NAText: "<missing>", FloatFormat: "%.1f"})
	assert.Contains(t, styled, "<missing>")
	assert.NotContains(t, styled, "NaN")
	assert.Contains(t, styled, "920.0")
}

func TestWithColumnShapeCheck(t *testing.T) {
	f := testFrame(t)

	_, err := f.WithColumn(series.New([]float64{1, 2}, series.Float, "short"))
	assert.Error(t, err)

	f2, err := f.WithColumn(series.New([]float64{1, 2, 3, 4, 5}, series.Float, "tax"))
	require.NoError(t, err)
	assert.Equal(t, 4, f2.Ncol())
}
