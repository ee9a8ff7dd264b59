package table

import (
	"fmt"
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"propscope/domain/core"
)

// Frame wraps a gota DataFrame with stable integer row labels. Labels
// start out as 0..n-1 and survive row deletion and reordering, so rows
// can be addressed by label on top of gota's purely positional API. All
// operations return a new Frame; the wrapped data is never mutated in
// place.
type Frame struct {
	df     dataframe.DataFrame
	labels []int
}

// NewFrame wraps a freshly loaded DataFrame, assigning labels 0..n-1.
func NewFrame(df dataframe.DataFrame) (Frame, error) {
	if df.Err != nil {
		return Frame{}, core.NewSourceError(core.ErrSourceMalformed, "dataframe", df.Err)
	}
	labels := make([]int, df.Nrow())
	for i := range labels {
		labels[i] = i
	}
	return Frame{df: df, labels: labels}, nil
}

// DataFrame exposes the wrapped gota frame for read-only use.
func (f Frame) DataFrame() dataframe.DataFrame { return f.df }

// Headers returns the column names in file order.
func (f Frame) Headers() []string { return f.df.Names() }

// Labels returns a copy of the current row labels.
func (f Frame) Labels() []int {
	out := make([]int, len(f.labels))
	copy(out, f.labels)
	return out
}

// Nrow returns the number of rows.
func (f Frame) Nrow() int { return f.df.Nrow() }

// Ncol returns the number of columns.
func (f Frame) Ncol() int { return f.df.Ncol() }

// Dims returns (rows, columns).
func (f Frame) Dims() (int, int) { return f.df.Dims() }

// HasLabel reports whether a row label is present.
func (f Frame) HasLabel(label int) bool {
	for _, l := range f.labels {
		if l == label {
			return true
		}
	}
	return false
}

// Col returns a column by actual header name.
func (f Frame) Col(name string) (series.Series, error) {
	s := f.df.Col(name)
	if s.Err != nil {
		return series.Series{}, core.NewColumnNotFoundError(name)
	}
	return s, nil
}

// ColFloats returns a column as floats, NaN for non-numeric cells.
func (f Frame) ColFloats(name string) ([]float64, error) {
	s, err := f.Col(name)
	if err != nil {
		return nil, err
	}
	return s.Float(), nil
}

// subset picks rows by position, carrying labels along.
func (f Frame) subset(positions []int) Frame {
	labels := make([]int, len(positions))
	for i, p := range positions {
		labels[i] = f.labels[p]
	}
	return Frame{df: f.df.Subset(positions), labels: labels}
}

// Head returns the first n rows (fewer when the frame is shorter).
func (f Frame) Head(n int) Frame {
	if n > f.Nrow() {
		n = f.Nrow()
	}
	positions := make([]int, n)
	for i := range positions {
		positions[i] = i
	}
	return f.subset(positions)
}

// Tail returns the last n rows (fewer when the frame is shorter).
func (f Frame) Tail(n int) Frame {
	nrow := f.Nrow()
	if n > nrow {
		n = nrow
	}
	positions := make([]int, n)
	for i := range positions {
		positions[i] = nrow - n + i
	}
	return f.subset(positions)
}

// Loc selects rows by label. Any missing label is an error; callers
// normally filter through HasLabel first and skip.
func (f Frame) Loc(labels ...int) (Frame, error) {
	index := make(map[int]int, len(f.labels))
	for pos, l := range f.labels {
		if _, seen := index[l]; !seen {
			index[l] = pos
		}
	}
	positions := make([]int, 0, len(labels))
	for _, l := range labels {
		pos, ok := index[l]
		if !ok {
			return Frame{}, core.NewLabelNotFoundError(l)
		}
		positions = append(positions, pos)
	}
	return f.subset(positions), nil
}

// LocRange selects rows whose label lies in [from, to], both ends
// inclusive, in current row order.
func (f Frame) LocRange(from, to int) Frame {
	positions := make([]int, 0)
	for pos, l := range f.labels {
		if l >= from && l <= to {
			positions = append(positions, pos)
		}
	}
	return f.subset(positions)
}

// ILoc selects rows by zero-based position.
func (f Frame) ILoc(positions ...int) (Frame, error) {
	nrow := f.Nrow()
	for _, p := range positions {
		if p < 0 || p >= nrow {
			return Frame{}, core.NewRowRangeError(p, nrow)
		}
	}
	return f.subset(positions), nil
}

// ILocRange selects rows in the half-open position range [from, to),
// clamped to the frame bounds.
func (f Frame) ILocRange(from, to int) Frame {
	nrow := f.Nrow()
	if from < 0 {
		from = 0
	}
	if to > nrow {
		to = nrow
	}
	positions := make([]int, 0)
	for p := from; p < to; p++ {
		positions = append(positions, p)
	}
	return f.subset(positions)
}

// Select keeps only the named columns.
func (f Frame) Select(names ...string) (Frame, error) {
	for _, name := range names {
		if !f.HasColumn(name) {
			return Frame{}, core.NewColumnNotFoundError(name)
		}
	}
	return Frame{df: f.df.Select(names), labels: f.Labels()}, nil
}

// SelectPositions keeps columns by zero-based position.
func (f Frame) SelectPositions(positions ...int) (Frame, error) {
	ncol := f.Ncol()
	for _, p := range positions {
		if p < 0 || p >= ncol {
			return Frame{}, core.NewColumnRangeError(p, ncol)
		}
	}
	return Frame{df: f.df.Select(positions), labels: f.Labels()}, nil
}

// SelectSpan keeps the contiguous run of columns from one header to
// another, both ends inclusive, in header order.
func (f Frame) SelectSpan(fromName, toName string) (Frame, error) {
	names := f.df.Names()
	from, to := -1, -1
	for i, n := range names {
		if n == fromName && from == -1 {
			from = i
		}
		if n == toName {
			to = i
		}
	}
	if from == -1 {
		return Frame{}, core.NewColumnNotFoundError(fromName)
	}
	if to == -1 {
		return Frame{}, core.NewColumnNotFoundError(toName)
	}
	if from > to {
		return Frame{}, fmt.Errorf("column span %q..%q is reversed", fromName, toName)
	}
	positions := make([]int, 0, to-from+1)
	for p := from; p <= to; p++ {
		positions = append(positions, p)
	}
	return f.SelectPositions(positions...)
}

// Where keeps rows whose mask entry is true. The mask length must match
// the row count.
func (f Frame) Where(mask []bool) (Frame, error) {
	if len(mask) != f.Nrow() {
		return Frame{}, fmt.Errorf("%w: mask has %d entries, frame has %d rows",
			core.ErrShapeMismatch, len(mask), f.Nrow())
	}
	positions := make([]int, 0)
	for p, keep := range mask {
		if keep {
			positions = append(positions, p)
		}
	}
	return f.subset(positions), nil
}

// MaskFloat builds a row mask from a numeric predicate. NaN cells never
// match, mirroring how comparisons treat missing values.
func (f Frame) MaskFloat(name string, pred func(float64) bool) ([]bool, error) {
	vals, err := f.ColFloats(name)
	if err != nil {
		return nil, err
	}
	mask := make([]bool, len(vals))
	for i, v := range vals {
		mask[i] = !math.IsNaN(v) && pred(v)
	}
	return mask, nil
}

// MaskString builds a row mask from a string predicate over the raw
// cell records.
func (f Frame) MaskString(name string, pred func(string) bool) ([]bool, error) {
	s, err := f.Col(name)
	if err != nil {
		return nil, err
	}
	recs := s.Records()
	mask := make([]bool, len(recs))
	for i, v := range recs {
		mask[i] = pred(v)
	}
	return mask, nil
}

// And combines two masks element-wise.
func And(a, b []bool) []bool {
	out := make([]bool, len(a))
	for i := range a {
		out[i] = a[i] && b[i]
	}
	return out
}

// AppendRow appends one row built from header -> cell text. Absent cells
// become missing values. The new row gets a label one past the current
// maximum, matching how an auto-index grows.
func (f Frame) AppendRow(cells map[string]string) (Frame, int) {
	cols := make([]series.Series, 0, f.Ncol())
	for _, name := range f.df.Names() {
		s := f.df.Col(name)
		recs := s.Records()
		cell, ok := cells[name]
		if !ok {
			cell = "NaN"
		}
		recs = append(recs, cell)
		cols = append(cols, series.New(recs, s.Type(), name))
	}
	next := 0
	for _, l := range f.labels {
		if l >= next {
			next = l + 1
		}
	}
	labels := append(f.Labels(), next)
	return Frame{df: dataframe.New(cols...), labels: labels}, next
}

// DropLabels removes rows by label and reports which labels were
// actually present.
func (f Frame) DropLabels(drop ...int) (Frame, []int) {
	dropSet := make(map[int]bool, len(drop))
	for _, l := range drop {
		dropSet[l] = true
	}
	positions := make([]int, 0, len(f.labels))
	dropped := make([]int, 0, len(drop))
	for pos, l := range f.labels {
		if dropSet[l] {
			dropped = append(dropped, l)
			continue
		}
		positions = append(positions, pos)
	}
	return f.subset(positions), dropped
}

// DropColumns removes columns by actual header name.
func (f Frame) DropColumns(names ...string) (Frame, error) {
	for _, name := range names {
		if !f.HasColumn(name) {
			return Frame{}, core.NewColumnNotFoundError(name)
		}
	}
	return Frame{df: f.df.Drop(names), labels: f.Labels()}, nil
}

// RenameColumn renames a column, keeping its position.
func (f Frame) RenameColumn(oldName, newName string) (Frame, error) {
	if !f.HasColumn(oldName) {
		return Frame{}, core.NewColumnNotFoundError(oldName)
	}
	return Frame{df: f.df.Rename(newName, oldName), labels: f.Labels()}, nil
}

// RenameLabel replaces a row label. Renaming onto an existing label is
// allowed and produces duplicates, as label-based indexes do; the bool
// reports whether the old label was present at all.
func (f Frame) RenameLabel(oldLabel, newLabel int) (Frame, bool) {
	labels := f.Labels()
	found := false
	for i, l := range labels {
		if l == oldLabel {
			labels[i] = newLabel
			found = true
		}
	}
	return Frame{df: f.df, labels: labels}, found
}

// SortByFloat reorders rows by a numeric column. Missing values sort
// last regardless of direction. The sort is stable.
func (f Frame) SortByFloat(name string, ascending bool) (Frame, error) {
	vals, err := f.ColFloats(name)
	if err != nil {
		return Frame{}, err
	}
	positions := make([]int, len(vals))
	for i := range positions {
		positions[i] = i
	}
	sort.SliceStable(positions, func(i, j int) bool {
		a, b := vals[positions[i]], vals[positions[j]]
		switch {
		case math.IsNaN(a):
			return false
		case math.IsNaN(b):
			return true
		case ascending:
			return a < b
		default:
			return a > b
		}
	})
	return f.subset(positions), nil
}

// GroupSum groups rows by one column and sums another, returning the
// aggregate sorted by the summed column descending. Labels do not apply
// to aggregated output, so the raw DataFrame is returned.
func (f Frame) GroupSum(by, target string) (dataframe.DataFrame, error) {
	if !f.HasColumn(by) {
		return dataframe.DataFrame{}, core.NewColumnNotFoundError(by)
	}
	if !f.HasColumn(target) {
		return dataframe.DataFrame{}, core.NewColumnNotFoundError(target)
	}
	groups := f.df.GroupBy(by)
	if groups.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("group by %q: %w", by, groups.Err)
	}
	agg := groups.Aggregation(
		[]dataframe.AggregationType{dataframe.Aggregation_SUM},
		[]string{target},
	)
	if agg.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("sum %q over %q groups: %w", target, by, agg.Err)
	}
	sorted := agg.Arrange(dataframe.RevSort(target + "_SUM"))
	if sorted.Err != nil {
		return agg, nil
	}
	return sorted, nil
}

// Filter applies gota filters directly (filters within one call are
// OR-ed, chained calls AND). Row labels are not preserved, so this suits
// display-only selections.
func (f Frame) Filter(filters ...dataframe.F) dataframe.DataFrame {
	return f.df.Filter(filters...)
}

// DropNA removes every row containing at least one missing value. The
// surviving rows are relabeled from zero, the way a dropped-and-reset
// index behaves.
func (f Frame) DropNA() Frame {
	bad := make([]bool, f.Nrow())
	for _, name := range f.df.Names() {
		for i, isNaN := range f.df.Col(name).IsNaN() {
			if isNaN {
				bad[i] = true
			}
		}
	}
	positions := make([]int, 0, f.Nrow())
	for p, b := range bad {
		if !b {
			positions = append(positions, p)
		}
	}
	clean := f.subset(positions)
	for i := range clean.labels {
		clean.labels[i] = i
	}
	return clean
}

// FillNA replaces every missing value with the given cell text, parsed
// into each column's existing type.
func (f Frame) FillNA(replacement string) Frame {
	cols := make([]series.Series, 0, f.Ncol())
	for _, name := range f.df.Names() {
		s := f.df.Col(name)
		if !s.HasNaN() {
			cols = append(cols, s)
			continue
		}
		recs := s.Records()
		for i, isNaN := range s.IsNaN() {
			if isNaN {
				recs[i] = replacement
			}
		}
		cols = append(cols, series.New(recs, s.Type(), name))
	}
	return Frame{df: dataframe.New(cols...), labels: f.Labels()}
}

// WithColumn replaces (or appends) a column of matching length.
func (f Frame) WithColumn(s series.Series) (Frame, error) {
	if s.Len() != f.Nrow() {
		return Frame{}, fmt.Errorf("%w: column %q has %d values, frame has %d rows",
			core.ErrShapeMismatch, s.Name, s.Len(), f.Nrow())
	}
	df := f.df.Mutate(s)
	if df.Err != nil {
		return Frame{}, fmt.Errorf("mutate %q: %w", s.Name, df.Err)
	}
	return Frame{df: df, labels: f.Labels()}, nil
}

// Describe returns gota's summary statistics for the frame.
func (f Frame) Describe() dataframe.DataFrame {
	return f.df.Describe()
}

// Table renders the frame with its row labels as a leading column.
func (f Frame) Table() string {
	if f.Nrow() == 0 {
		return "(empty frame)"
	}
	idx := series.New(f.labels, series.Int, "label")
	disp := dataframe.New(idx).CBind(f.df)
	if disp.Err != nil {
		return f.df.String()
	}
	return disp.String()
}

// RenderOptions controls TableWith output. Zero values mean "no limit"
// or "render as stored".
type RenderOptions struct {
	// MaxRows and MaxCols truncate the rendered frame.
	MaxRows int
	MaxCols int
	// NAText replaces missing cells in the output.
	NAText string
	// FloatFormat is a Sprintf verb applied to float columns, e.g.
	// "%.1f".
	FloatFormat string
}

// TableWith renders the frame like Table with display tweaks: row and
// column truncation, missing-value text, and float formatting. The
// frame itself is unchanged; this only affects the rendered text.
func (f Frame) TableWith(o RenderOptions) string {
	sub := f
	if o.MaxRows > 0 && sub.Nrow() > o.MaxRows {
		sub = sub.Head(o.MaxRows)
	}
	if o.MaxCols > 0 && sub.Ncol() > o.MaxCols {
		positions := make([]int, o.MaxCols)
		for i := range positions {
			positions[i] = i
		}
		if trimmed, err := sub.SelectPositions(positions...); err == nil {
			sub = trimmed
		}
	}
	if o.NAText == "" && o.FloatFormat == "" {
		return sub.Table()
	}

	cols := make([]series.Series, 0, sub.Ncol())
	for _, name := range sub.df.Names() {
		s := sub.df.Col(name)
		recs := s.Records()
		nan := s.IsNaN()
		var floats []float64
		if s.Type() == series.Float && o.FloatFormat != "" {
			floats = s.Float()
		}
		for i := range recs {
			switch {
			case nan[i] && o.NAText != "":
				recs[i] = o.NAText
			case floats != nil && !nan[i]:
				recs[i] = fmt.Sprintf(o.FloatFormat, floats[i])
			}
		}
		cols = append(cols, series.New(recs, series.String, name))
	}
	return Frame{df: dataframe.New(cols...), labels: sub.labels}.Table()
}

// HasColumn reports whether a header is present.
func (f Frame) HasColumn(name string) bool {
	for _, n := range f.df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
