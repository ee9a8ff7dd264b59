package explore

import (
	"fmt"
	"math"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"propscope/domain/table"
	"propscope/internal/transform"
)

// resolved returns the header for a logical column only if it both
// resolved at load time and still exists (mutation steps drop columns).
func (r *Runner) resolved(logical string) (string, bool) {
	name, ok := r.column(logical)
	if !ok || !r.frame.HasColumn(name) {
		return "", false
	}
	return name, true
}

func (r *Runner) stepPreview() (bool, string) {
	r.title("Frame preview (first 20 rows)")
	r.printf("%s\n", r.frame.Head(20).Table())
	r.printf("Full columns: %v\n", r.frame.Headers())
	return r.done()
}

func (r *Runner) stepMapping() (bool, string) {
	r.title("Column name mapping (requested -> found)")
	missing := 0
	for _, logical := range table.LogicalColumns() {
		if actual, ok := r.column(logical); ok {
			r.printf("%-12s ->  %q\n", logical, actual)
		} else {
			r.printf("%-12s ->  (not found)\n", logical)
			missing++
		}
	}
	if missing > 0 {
		return false, fmt.Sprintf("%d logical columns unresolved", missing)
	}
	return r.done()
}

func (r *Runner) stepSummary() (bool, string) {
	r.title("Frame summary")
	rows, cols := r.frame.Dims()
	r.printf("Shape: (%d, %d)\n\n", rows, cols)

	var types strings.Builder
	df := r.frame.DataFrame()
	for i, name := range df.Names() {
		fmt.Fprintf(&types, "%-20s %s\n", name, df.Types()[i])
	}
	r.section("Column types", types.String())
	r.section("Describe", r.frame.Describe().String())
	return r.done()
}

func (r *Runner) stepRendering() (bool, string) {
	r.title("Rendering options")
	r.section("Truncated to 5 rows and 4 columns",
		r.frame.TableWith(table.RenderOptions{MaxRows: 5, MaxCols: 4}))
	r.section("Missing cells as \"-\", floats with one decimal",
		r.frame.TableWith(table.RenderOptions{MaxRows: 5, NAText: "-", FloatFormat: "%.1f"}))
	return r.done()
}

func (r *Runner) stepHead() (bool, string) {
	r.title("Top 7 rows")
	r.printf("%s\n", r.frame.Head(7).Table())
	return r.done()
}

func (r *Runner) stepTail() (bool, string) {
	r.title("Bottom 9 rows")
	r.printf("%s\n", r.frame.Tail(9).Table())
	return r.done()
}

func (r *Runner) stepSingleColumns() (bool, string) {
	r.title("City and street columns")
	shown := 0
	for _, logical := range []string{table.ColCity, table.ColStreet} {
		name, ok := r.resolved(logical)
		if !ok {
			r.printf("%s column not found.\n", logical)
			continue
		}
		sel, err := r.frame.Select(name)
		if err != nil {
			r.printf("%s column not found.\n", logical)
			continue
		}
		r.section(fmt.Sprintf("Column %q (first 20)", name), sel.Head(20).Table())
		shown++
	}
	if shown == 0 {
		return r.skip("neither city nor street resolved")
	}
	return r.done()
}

func (r *Runner) stepMultiColumns() (bool, string) {
	r.title("Street and city together")
	names := make([]string, 0, 2)
	for _, logical := range []string{table.ColStreet, table.ColCity} {
		if name, ok := r.resolved(logical); ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return r.skip("street and city columns not found")
	}
	sel, err := r.frame.Select(names...)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", sel.Head(10).Table())
	return r.done()
}

func (r *Runner) stepRowByLabel() (bool, string) {
	r.title("Row with label 5")
	if !r.frame.HasLabel(5) {
		return r.skip("label 5 not present")
	}
	row, err := r.frame.Loc(5)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", row.Table())
	return r.done()
}

func (r *Runner) stepRowsByLabels() (bool, string) {
	r.title("Rows with labels 3, 5, 7")
	present := make([]int, 0, 3)
	for _, l := range []int{3, 5, 7} {
		if r.frame.HasLabel(l) {
			present = append(present, l)
		}
	}
	if len(present) == 0 {
		return r.skip("none of labels 3, 5, 7 present")
	}
	sel, err := r.frame.Loc(present...)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", sel.Table())
	return r.done()
}

func (r *Runner) stepLabelRange() (bool, string) {
	r.title("Labels 3 through 9 (inclusive)")
	sel := r.frame.LocRange(3, 9)
	if sel.Nrow() == 0 {
		return r.skip("no labels in range 3..9")
	}
	r.printf("%s\n", sel.Table())
	r.printf("Label ranges include both endpoints.\n")
	return r.done()
}

func (r *Runner) stepPriceAbove() (bool, string) {
	r.title("Price above 100000")
	name, ok := r.resolved(table.ColPrice)
	if !ok {
		return r.skip("price column not found")
	}
	mask, err := r.frame.MaskFloat(name, func(v float64) bool { return v > 100000 })
	if err != nil {
		return r.skip(err.Error())
	}
	sel, err := r.frame.Where(mask)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", sel.Table())
	r.printf("%d rows where price > 100000.\n", sel.Nrow())
	return r.done()
}

func (r *Runner) stepCityEquals() (bool, string) {
	r.title("City equals Adjuntas")
	name, ok := r.resolved(table.ColCity)
	if !ok {
		return r.skip("city column not found")
	}
	mask, err := r.frame.MaskString(name, func(v string) bool { return v == "Adjuntas" })
	if err != nil {
		return r.skip(err.Error())
	}
	sel, err := r.frame.Where(mask)
	if err != nil {
		return r.skip(err.Error())
	}
	if sel.Nrow() == 0 {
		r.printf("No rows with city == \"Adjuntas\".\n")
		return r.done()
	}
	r.printf("%s\n", sel.Table())
	return r.done()
}

func (r *Runner) stepCityAndPrice() (bool, string) {
	r.title("City Adjuntas under price 180500")
	cityCol, okCity := r.resolved(table.ColCity)
	priceCol, okPrice := r.resolved(table.ColPrice)
	if !okCity || !okPrice {
		return r.skip("city or price column not found")
	}
	cityMask, err := r.frame.MaskString(cityCol, func(v string) bool { return v == "Adjuntas" })
	if err != nil {
		return r.skip(err.Error())
	}
	priceMask, err := r.frame.MaskFloat(priceCol, func(v float64) bool { return v < 180500 })
	if err != nil {
		return r.skip(err.Error())
	}
	sel, err := r.frame.Where(table.And(cityMask, priceMask))
	if err != nil {
		return r.skip(err.Error())
	}
	if sel.Nrow() == 0 {
		r.printf("No rows match both conditions.\n")
		return r.done()
	}
	r.printf("%s\n", sel.Table())
	return r.done()
}

func (r *Runner) stepRowWithColumns() (bool, string) {
	r.title("Row with label 7, selected columns")
	if !r.frame.HasLabel(7) {
		return r.skip("label 7 not present")
	}
	names := make([]string, 0, 5)
	for _, logical := range []string{table.ColCity, table.ColPrice, table.ColStreet, table.ColZipCode, table.ColAcreLot} {
		if name, ok := r.resolved(logical); ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return r.skip("none of the requested columns resolved")
	}
	row, err := r.frame.Loc(7)
	if err != nil {
		return r.skip(err.Error())
	}
	sel, err := row.Select(names...)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", sel.Table())
	return r.done()
}

func (r *Runner) stepColumnSpan() (bool, string) {
	r.title("Column span city through zip_code")
	cityCol, okCity := r.resolved(table.ColCity)
	zipCol, okZip := r.resolved(table.ColZipCode)
	if !okCity || !okZip {
		return r.skip("city or zip_code column not found")
	}
	sel, err := r.frame.SelectSpan(cityCol, zipCol)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", sel.Head(10).Table())
	return r.done()
}

func (r *Runner) stepFilteredSpan() (bool, string) {
	r.title("Adjuntas rows, city through zip_code span")
	cityCol, okCity := r.resolved(table.ColCity)
	zipCol, okZip := r.resolved(table.ColZipCode)
	if !okCity || !okZip {
		return r.skip("city or zip_code column not found")
	}
	mask, err := r.frame.MaskString(cityCol, func(v string) bool { return v == "Adjuntas" })
	if err != nil {
		return r.skip(err.Error())
	}
	rows, err := r.frame.Where(mask)
	if err != nil {
		return r.skip(err.Error())
	}
	if rows.Nrow() == 0 {
		r.printf("No rows for city \"Adjuntas\".\n")
		return r.done()
	}
	sel, err := rows.SelectSpan(cityCol, zipCol)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", sel.Table())
	return r.done()
}

func (r *Runner) stepRowByPosition() (bool, string) {
	r.title("5th row by position")
	sel, err := r.frame.ILoc(4)
	if err != nil {
		return r.skip("position 4 out of range")
	}
	r.printf("%s\n", sel.Table())
	r.printf("Positions are zero-based: the 5th row is position 4.\n")
	return r.done()
}

func (r *Runner) stepRowsByPositions() (bool, string) {
	r.title("Rows at positions 6, 8, 14")
	inRange := make([]int, 0, 3)
	for _, p := range []int{6, 8, 14} {
		if p < r.frame.Nrow() {
			inRange = append(inRange, p)
		}
	}
	if len(inRange) == 0 {
		return r.skip("all requested positions out of range")
	}
	sel, err := r.frame.ILoc(inRange...)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", sel.Table())
	return r.done()
}

func (r *Runner) stepRowPositionRange() (bool, string) {
	r.title("Rows in position range 4..13")
	sel := r.frame.ILocRange(4, 13)
	if sel.Nrow() == 0 {
		return r.skip("position range 4..13 empty")
	}
	r.printf("%s\n", sel.Table())
	return r.done()
}

func (r *Runner) stepColumnByPosition() (bool, string) {
	r.title("3rd column by position")
	sel, err := r.frame.SelectPositions(2)
	if err != nil {
		return r.skip("column position 2 out of range")
	}
	r.printf("%s\n", sel.Head(15).Table())
	return r.done()
}

func (r *Runner) stepColumnsByPositions() (bool, string) {
	r.title("Columns at positions 1, 3, 6")
	inRange := make([]int, 0, 3)
	for _, p := range []int{1, 3, 6} {
		if p < r.frame.Ncol() {
			inRange = append(inRange, p)
		}
	}
	if len(inRange) == 0 {
		return r.skip("all requested column positions out of range")
	}
	sel, err := r.frame.SelectPositions(inRange...)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", sel.Head(10).Table())
	return r.done()
}

func (r *Runner) stepColumnPositionRange() (bool, string) {
	r.title("Column position range 1..5")
	to := 5
	if to > r.frame.Ncol() {
		to = r.frame.Ncol()
	}
	if to <= 1 {
		return r.skip("not enough columns for range 1..5")
	}
	positions := make([]int, 0, to-1)
	for p := 1; p < to; p++ {
		positions = append(positions, p)
	}
	sel, err := r.frame.SelectPositions(positions...)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", sel.Head(10).Table())
	return r.done()
}

func (r *Runner) stepCombinedPositions() (bool, string) {
	r.title("Rows 6, 8, 14 with columns 1, 3")
	rows := make([]int, 0, 3)
	for _, p := range []int{6, 8, 14} {
		if p < r.frame.Nrow() {
			rows = append(rows, p)
		}
	}
	cols := make([]int, 0, 2)
	for _, p := range []int{1, 3} {
		if p < r.frame.Ncol() {
			cols = append(cols, p)
		}
	}
	if len(rows) == 0 || len(cols) == 0 {
		return r.skip("requested rows or columns out of range")
	}
	sel, err := r.frame.ILoc(rows...)
	if err != nil {
		return r.skip(err.Error())
	}
	sel, err = sel.SelectPositions(cols...)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", sel.Table())
	return r.done()
}

func (r *Runner) stepCombinedPositionRanges() (bool, string) {
	r.title("Row range 1..6 with column range 1..4")
	rows := r.frame.ILocRange(1, 6)
	if rows.Nrow() == 0 {
		return r.skip("row range 1..6 empty")
	}
	to := 4
	if to > rows.Ncol() {
		to = rows.Ncol()
	}
	if to <= 1 {
		return r.skip("not enough columns for range 1..4")
	}
	positions := make([]int, 0, to-1)
	for p := 1; p < to; p++ {
		positions = append(positions, p)
	}
	sel, err := rows.SelectPositions(positions...)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", sel.Table())
	return r.done()
}

func (r *Runner) stepAppendRow() (bool, string) {
	r.title("Append a row")
	cells := make(map[string]string)
	if name, ok := r.resolved(table.ColCity); ok {
		cells[name] = "NEWCITY"
	}
	if name, ok := r.resolved(table.ColPrice); ok {
		cells[name] = "123456"
	}
	if name, ok := r.resolved(table.ColStreet); ok {
		cells[name] = "Example Street 1"
	}
	frame, label := r.frame.AppendRow(cells)
	r.frame = frame
	row, err := r.frame.Loc(label)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("Appended row with label %d:\n%s\n", label, row.Table())
	return r.done()
}

func (r *Runner) stepDeleteRow() (bool, string) {
	r.title("Delete row with label 2")
	frame, dropped := r.frame.DropLabels(2)
	if len(dropped) == 0 {
		return r.skip("label 2 not present, nothing deleted")
	}
	r.frame = frame
	labels := r.frame.Labels()
	if len(labels) > 10 {
		labels = labels[:10]
	}
	r.printf("Deleted label 2. Remaining labels (first 10): %v\n", labels)
	return r.done()
}

func (r *Runner) stepDeleteRowRange() (bool, string) {
	r.title("Delete rows with labels 4 through 7")
	frame, dropped := r.frame.DropLabels(4, 5, 6, 7)
	if len(dropped) == 0 {
		return r.skip("none of labels 4..7 present")
	}
	r.frame = frame
	r.printf("Dropped labels: %v\n", dropped)
	return r.done()
}

func (r *Runner) stepDropColumn() (bool, string) {
	r.title("Drop house_size column")
	name, ok := r.resolved(table.ColHouseSize)
	if !ok {
		return r.skip("house_size column not found or already dropped")
	}
	frame, err := r.frame.DropColumns(name)
	if err != nil {
		return r.skip(err.Error())
	}
	r.frame = frame
	r.printf("Column %q dropped.\n", name)
	return r.done()
}

func (r *Runner) stepDropColumns() (bool, string) {
	r.title("Drop house_size and state columns")
	names := make([]string, 0, 2)
	for _, logical := range []string{table.ColHouseSize, table.ColState} {
		if name, ok := r.resolved(logical); ok {
			names = append(names, name)
		}
	}
	if len(names) == 0 {
		return r.skip("neither column present to drop")
	}
	frame, err := r.frame.DropColumns(names...)
	if err != nil {
		return r.skip(err.Error())
	}
	r.frame = frame
	r.printf("Dropped columns: %v\n", names)
	return r.done()
}

func (r *Runner) stepRenameColumn() (bool, string) {
	r.title("Rename state column to state_changed")
	name, ok := r.resolved(table.ColState)
	if !ok {
		return r.skip("state column not found, cannot rename")
	}
	frame, err := r.frame.RenameColumn(name, "state_changed")
	if err != nil {
		return r.skip(err.Error())
	}
	r.frame = frame
	r.printf("Renamed column. Columns now: %v\n", r.frame.Headers())
	return r.done()
}

func (r *Runner) stepRenameLabel() (bool, string) {
	r.title("Rename row label 3 to 5")
	if r.frame.HasLabel(5) {
		r.printf("Warning: label 5 already exists; renaming creates duplicate labels.\n")
	}
	frame, found := r.frame.RenameLabel(3, 5)
	if !found {
		return r.skip("label 3 not present, cannot rename")
	}
	r.frame = frame
	labels := r.frame.Labels()
	if len(labels) > 20 {
		labels = labels[:20]
	}
	r.printf("Labels sample (first 20): %v\n", labels)
	return r.done()
}

func (r *Runner) stepQuery() (bool, string) {
	r.title("Query: price below 127400 outside Adjuntas")
	priceCol, okPrice := r.resolved(table.ColPrice)
	cityCol, okCity := r.resolved(table.ColCity)
	if !okPrice || !okCity {
		return r.skip("price or city column not found")
	}
	res := r.frame.Filter(dataframe.F{
		Colname:    priceCol,
		Comparator: series.Less,
		Comparando: 127400.0,
	}).Filter(dataframe.F{
		Colname:    cityCol,
		Comparator: series.Neq,
		Comparando: "Adjuntas",
	})
	if res.Err != nil {
		return r.skip(res.Err.Error())
	}
	if res.Nrow() == 0 {
		r.printf("No rows match query.\n")
		return r.done()
	}
	r.printf("%s\n", res.String())
	return r.done()
}

func (r *Runner) stepSortByPrice() (bool, string) {
	r.title("Sort by price ascending")
	name, ok := r.resolved(table.ColPrice)
	if !ok {
		return r.skip("price column not found")
	}
	sorted, err := r.frame.SortByFloat(name, true)
	if err != nil {
		return r.skip(err.Error())
	}
	sel, err := sorted.Select(name)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", sel.Head(10).Table())
	return r.done()
}

func (r *Runner) stepGroupByCity() (bool, string) {
	r.title("Group by city, total price")
	cityCol, okCity := r.resolved(table.ColCity)
	priceCol, okPrice := r.resolved(table.ColPrice)
	if !okCity || !okPrice {
		return r.skip("city or price column not found, cannot group")
	}
	agg, err := r.frame.GroupSum(cityCol, priceCol)
	if err != nil {
		return r.skip(err.Error())
	}
	r.printf("%s\n", agg.String())
	return r.done()
}

func (r *Runner) stepDropNA() (bool, string) {
	r.title("Drop rows with missing values")
	clean := r.frame.DropNA()
	r.printf("After dropping missing rows: %d of %d rows remain.\n", clean.Nrow(), r.frame.Nrow())
	r.printf("%s\n", clean.Head(5).Table())
	return r.done()
}

func (r *Runner) stepFillNA() (bool, string) {
	r.title("Fill missing values with 0")
	filled := r.frame.FillNA("0")
	r.printf("%s\n", filled.Head(5).Table())
	return r.done()
}

func (r *Runner) stepTransforms() (bool, string) {
	r.title("Numeric transforms on price and acre_lot")
	priceCol, okPrice := r.resolved(table.ColPrice)
	if !okPrice {
		return r.skip("price column not found")
	}
	prices, err := r.frame.ColFloats(priceCol)
	if err != nil {
		return r.skip(err.Error())
	}
	if len(prices) == 0 {
		return r.skip("no price values to transform")
	}

	r.section("price + 1000 (first 5)", formatFloats(transform.AddConst(prices, 1000), 5))
	r.section("price * 2 (first 5)", formatFloats(transform.Scale(prices, 2), 5))
	r.section("sqrt(price) (first 5)", formatFloats(transform.Sqrt(prices), 5))
	r.section("log10(price) (first 5)", formatFloats(transform.Log10(prices), 5))
	r.section("sin(price) (first 5)", formatFloats(transform.Sin(prices), 5))
	r.section("cos(price) (first 5)", formatFloats(transform.Cos(prices), 5))
	r.section("exp(price / 1e6) (first 5)", formatFloats(transform.Exp(transform.Scale(prices, 1e-6)), 5))
	r.section("cumulative sum (first 5)", formatFloats(transform.CumSum(prices), 5))
	r.printf("Total price (missing skipped): %.2f\n", transform.NaNSum(prices))

	if lotCol, ok := r.resolved(table.ColAcreLot); ok {
		lots, err := r.frame.ColFloats(lotCol)
		if err == nil {
			if perAcre, derr := transform.Div(prices, lots); derr == nil {
				r.section("price / acre_lot (first 5)", formatFloats(perAcre, 5))
			}
			if dot, derr := transform.Dot(prices, lots); derr == nil && !math.IsNaN(dot) {
				r.printf("Dot product price . acre_lot: %.2f\n", dot)
			}
		}
	}
	return r.done()
}

func formatFloats(xs []float64, n int) string {
	if n > len(xs) {
		n = len(xs)
	}
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(xs[i]) {
			parts[i] = "NaN"
		} else {
			parts[i] = fmt.Sprintf("%.4f", xs[i])
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
