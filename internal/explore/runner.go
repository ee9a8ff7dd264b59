// Package explore runs the fixed sequence of demonstration steps over a
// loaded frame: previews, selection, filtering, grouping, mutation,
// missing-value handling, and numeric transforms. Steps are independent:
// when a logical column did not resolve or a position is out of range,
// the step prints a notice and the run continues.
package explore

import (
	"fmt"
	"io"
	"strings"

	"propscope/domain/table"
)

// StepResult records the outcome of one demonstration step.
type StepResult struct {
	Name    string `json:"name"`
	Skipped bool   `json:"skipped"`
	Note    string `json:"note,omitempty"`
}

// Summary aggregates the run outcome.
type Summary struct {
	Steps   []StepResult `json:"steps"`
	Total   int          `json:"total"`
	Skipped int          `json:"skipped"`
}

// Runner executes the demonstration sequence against a frame. The
// frame is carried through the mutation steps, so later steps observe
// earlier appends, deletions, and renames, the way an interactive
// session would.
type Runner struct {
	out     io.Writer
	frame   table.Frame
	mapping table.Mapping
	results []StepResult
}

// NewRunner creates a runner writing human-readable output to out.
func NewRunner(out io.Writer) *Runner {
	return &Runner{out: out}
}

// Run executes every step in order and returns the summary. It never
// returns an error: per-step failures degrade to skip notices.
func (r *Runner) Run(f table.Frame, m table.Mapping) *Summary {
	r.frame = f
	r.mapping = m
	r.results = r.results[:0]

	steps := []struct {
		name string
		fn   func() (skipped bool, note string)
	}{
		{"frame preview", r.stepPreview},
		{"column mapping", r.stepMapping},
		{"frame summary", r.stepSummary},
		{"rendering options", r.stepRendering},
		{"top rows", r.stepHead},
		{"bottom rows", r.stepTail},
		{"single columns", r.stepSingleColumns},
		{"multiple columns", r.stepMultiColumns},
		{"row by label", r.stepRowByLabel},
		{"rows by labels", r.stepRowsByLabels},
		{"label range", r.stepLabelRange},
		{"price above threshold", r.stepPriceAbove},
		{"city filter", r.stepCityEquals},
		{"city and price filter", r.stepCityAndPrice},
		{"row with selected columns", r.stepRowWithColumns},
		{"column span", r.stepColumnSpan},
		{"filtered column span", r.stepFilteredSpan},
		{"row by position", r.stepRowByPosition},
		{"rows by positions", r.stepRowsByPositions},
		{"row position range", r.stepRowPositionRange},
		{"column by position", r.stepColumnByPosition},
		{"columns by positions", r.stepColumnsByPositions},
		{"column position range", r.stepColumnPositionRange},
		{"combined position selection", r.stepCombinedPositions},
		{"combined position ranges", r.stepCombinedPositionRanges},
		{"append row", r.stepAppendRow},
		{"delete row", r.stepDeleteRow},
		{"delete row range", r.stepDeleteRowRange},
		{"drop column", r.stepDropColumn},
		{"drop columns", r.stepDropColumns},
		{"rename column", r.stepRenameColumn},
		{"rename row label", r.stepRenameLabel},
		{"query filter", r.stepQuery},
		{"sort by price", r.stepSortByPrice},
		{"group by city", r.stepGroupByCity},
		{"drop missing rows", r.stepDropNA},
		{"fill missing values", r.stepFillNA},
		{"numeric transforms", r.stepTransforms},
	}

	for _, s := range steps {
		skipped, note := s.fn()
		r.results = append(r.results, StepResult{Name: s.name, Skipped: skipped, Note: note})
	}

	summary := &Summary{Steps: append([]StepResult(nil), r.results...), Total: len(r.results)}
	for _, res := range r.results {
		if res.Skipped {
			summary.Skipped++
		}
	}
	r.printf("\nRun complete: %d steps, %d skipped.\n", summary.Total, summary.Skipped)
	return summary
}

// Frame returns the frame as left by the mutation steps.
func (r *Runner) Frame() table.Frame { return r.frame }

const ruleWidth = 78

func (r *Runner) title(t string) {
	rule := strings.Repeat("=", ruleWidth)
	fmt.Fprintf(r.out, "\n%s\n%s\n%s\n\n", rule, t, rule)
}

func (r *Runner) printf(format string, args ...interface{}) {
	fmt.Fprintf(r.out, format, args...)
}

func (r *Runner) section(msg, body string) {
	fmt.Fprintf(r.out, "--- %s ---\n%s\n\n", msg, body)
}

// skip prints a notice and flags the step as skipped.
func (r *Runner) skip(reason string) (bool, string) {
	r.printf("Skipped: %s\n", reason)
	return true, reason
}

func (r *Runner) done() (bool, string) { return false, "" }

// column fetches a resolved header, or "" when the logical name did not
// resolve for this table.
func (r *Runner) column(logical string) (string, bool) {
	return r.mapping.Lookup(logical)
}
