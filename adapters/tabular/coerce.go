package tabular

import (
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-gota/gota/series"

	"propscope/domain/table"
)

// currencyChars strips formatting commonly found in price-like cells.
var currencyChars = regexp.MustCompile(`[$,\s]`)

// CoerceNumeric rewrites the resolved numeric columns (price,
// house_size, acre_lot) as float columns. Cells that do not parse
// become missing values rather than errors, so a dirty column degrades
// instead of failing the load.
func CoerceNumeric(f table.Frame, m table.Mapping) table.Frame {
	for _, logical := range table.NumericColumns() {
		name, ok := m.Lookup(logical)
		if !ok {
			continue
		}
		s, err := f.Col(name)
		if err != nil {
			continue
		}
		recs := s.Records()
		vals := make([]float64, len(recs))
		missing := 0
		for i, rec := range recs {
			vals[i] = parseNumericCell(rec)
			if math.IsNaN(vals[i]) {
				missing++
			}
		}
		coerced, err := f.WithColumn(series.New(vals, series.Float, name))
		if err != nil {
			log.Printf("[DataReader] Coercion of %q skipped: %v", name, err)
			continue
		}
		f = coerced
		if missing > 0 {
			log.Printf("[DataReader] Coerced %q to numeric (%d cells missing)", name, missing)
		}
	}
	return f
}

func parseNumericCell(raw string) float64 {
	cleaned := currencyChars.ReplaceAllString(strings.TrimSpace(raw), "")
	if cleaned == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
