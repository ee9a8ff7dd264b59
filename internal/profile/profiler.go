// Package profile computes per-column health statistics for a loaded
// frame: missing rates, cardinality, and a numeric summary where the
// column type allows one.
package profile

import (
	"context"
	"math"
	"runtime"

	"github.com/go-gota/gota/series"
	"github.com/montanaflynn/stats"
	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"propscope/domain/core"
	"propscope/domain/table"
)

const (
	zeroVarianceEpsilon      = 1e-10
	highCardinalityThreshold = 0.9
)

// ColumnProfile describes the health of a single column.
type ColumnProfile struct {
	Name            string          `json:"name"`
	Type            string          `json:"type"`
	SampleSize      int             `json:"sample_size"`
	Missing         int             `json:"missing"`
	MissingRate     float64         `json:"missing_rate"`
	Cardinality     int             `json:"cardinality"`
	ZeroVariance    bool            `json:"zero_variance"`
	HighCardinality bool            `json:"high_cardinality"`
	Summary         *NumericSummary `json:"summary,omitempty"`
}

// NumericSummary holds descriptive statistics for numeric columns.
type NumericSummary struct {
	Mean     float64 `json:"mean"`
	StdDev   float64 `json:"std_dev"`
	Variance float64 `json:"variance"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Median   float64 `json:"median"`
	Q25      float64 `json:"q25"`
	Q75      float64 `json:"q75"`
	Skewness float64 `json:"skewness"`
}

// Profiler computes column profiles concurrently.
type Profiler struct {
	workers int
}

// NewProfiler creates a profiler; workers <= 0 means one per CPU.
func NewProfiler(workers int) *Profiler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Profiler{workers: workers}
}

// ProfileFrame profiles every column of the frame. Results come back in
// column order regardless of scheduling.
func (p *Profiler) ProfileFrame(ctx context.Context, f table.Frame) ([]ColumnProfile, error) {
	if f.Nrow() == 0 {
		return nil, core.ErrInsufficientData
	}

	names := f.Headers()
	profiles := make([]ColumnProfile, len(names))

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, name := range names {
		g.Go(func() error {
			s, err := f.Col(name)
			if err != nil {
				return err
			}
			profiles[i] = profileColumn(s)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return profiles, nil
}

func profileColumn(s series.Series) ColumnProfile {
	records := s.Records()
	nan := s.IsNaN()

	missing := 0
	distinct := make(map[string]struct{})
	for i, rec := range records {
		if nan[i] {
			missing++
			continue
		}
		distinct[rec] = struct{}{}
	}

	valid := len(records) - missing
	prof := ColumnProfile{
		Name:        s.Name,
		Type:        string(s.Type()),
		SampleSize:  len(records),
		Missing:     missing,
		Cardinality: len(distinct),
	}
	if len(records) > 0 {
		prof.MissingRate = float64(missing) / float64(len(records))
	}
	if valid > 0 {
		prof.HighCardinality = float64(len(distinct))/float64(valid) > highCardinalityThreshold
	}

	if s.Type() != series.Float && s.Type() != series.Int {
		// Non-numeric columns still flag constant values.
		prof.ZeroVariance = len(distinct) <= 1
		return prof
	}

	vals := make([]float64, 0, valid)
	for _, v := range s.Float() {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	if len(vals) == 0 {
		prof.ZeroVariance = true
		return prof
	}

	summary := &NumericSummary{}
	summary.Mean, _ = stats.Mean(vals)
	summary.StdDev, _ = stats.StandardDeviation(vals)
	summary.Min, _ = stats.Min(vals)
	summary.Max, _ = stats.Max(vals)
	summary.Median, _ = stats.Median(vals)
	summary.Q25, _ = stats.Percentile(vals, 25)
	summary.Q75, _ = stats.Percentile(vals, 75)
	if len(vals) > 1 {
		summary.Variance = stat.Variance(vals, nil)
	}
	if len(vals) > 2 && summary.StdDev > 0 {
		summary.Skewness = stat.Skew(vals, nil)
	}

	prof.Summary = summary
	prof.ZeroVariance = summary.Variance < zeroVarianceEpsilon
	return prof
}
