// Package report assembles the outcome of a dataset run into a
// markdown document and renders it to HTML for the web surface.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"propscope/domain/core"
	"propscope/internal/explore"
	"propscope/internal/profile"
)

// Report holds everything a finished run produced.
type Report struct {
	ID          core.ID                 `json:"id"`
	Source      string                  `json:"source"`
	GeneratedAt core.Timestamp          `json:"generated_at"`
	Rows        int                     `json:"rows"`
	Cols        int                     `json:"cols"`
	Mapping     map[string]string       `json:"mapping"`
	Profiles    []profile.ColumnProfile `json:"profiles"`
	Run         *explore.Summary        `json:"run,omitempty"`
	RunOutput   string                  `json:"-"`
}

// New creates a report shell with a fresh ID and timestamp.
func New(source string, rows, cols int) *Report {
	return &Report{
		ID:          core.NewID(),
		Source:      source,
		GeneratedAt: core.Now(),
		Rows:        rows,
		Cols:        cols,
		Mapping:     make(map[string]string),
	}
}

// Markdown renders the report as a markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Dataset report %s\n\n", r.ID)
	fmt.Fprintf(&b, "- **Source:** `%s`\n", r.Source)
	fmt.Fprintf(&b, "- **Generated:** %s\n", r.GeneratedAt)
	fmt.Fprintf(&b, "- **Shape:** %d rows × %d columns\n\n", r.Rows, r.Cols)

	r.writeMapping(&b)
	r.writeProfiles(&b)
	r.writeRun(&b)

	if r.RunOutput != "" {
		b.WriteString("## Run transcript\n\n```\n")
		b.WriteString(strings.TrimRight(r.RunOutput, "\n"))
		b.WriteString("\n```\n")
	}
	return b.String()
}

func (r *Report) writeMapping(b *strings.Builder) {
	if len(r.Mapping) == 0 {
		return
	}
	b.WriteString("## Column mapping\n\n")
	b.WriteString("| Logical name | Resolved header |\n|---|---|\n")

	logicals := make([]string, 0, len(r.Mapping))
	for l := range r.Mapping {
		logicals = append(logicals, l)
	}
	sort.Strings(logicals)
	for _, l := range logicals {
		fmt.Fprintf(b, "| %s | `%s` |\n", l, r.Mapping[l])
	}
	b.WriteString("\n")
}

func (r *Report) writeProfiles(b *strings.Builder) {
	if len(r.Profiles) == 0 {
		return
	}
	b.WriteString("## Column profiles\n\n")
	b.WriteString("| Column | Type | Missing | Cardinality | Mean | Std | Min | Max |\n")
	b.WriteString("|---|---|---|---|---|---|---|---|\n")
	for _, p := range r.Profiles {
		mean, std, min, max := "-", "-", "-", "-"
		if p.Summary != nil {
			mean = formatFloat(p.Summary.Mean)
			std = formatFloat(p.Summary.StdDev)
			min = formatFloat(p.Summary.Min)
			max = formatFloat(p.Summary.Max)
		}
		fmt.Fprintf(b, "| `%s` | %s | %.1f%% | %d | %s | %s | %s | %s |\n",
			p.Name, p.Type, p.MissingRate*100, p.Cardinality, mean, std, min, max)
	}
	b.WriteString("\n")

	flagged := make([]string, 0)
	for _, p := range r.Profiles {
		switch {
		case p.ZeroVariance:
			flagged = append(flagged, fmt.Sprintf("- `%s` has zero variance", p.Name))
		case p.HighCardinality:
			flagged = append(flagged, fmt.Sprintf("- `%s` is high-cardinality (%d distinct values)", p.Name, p.Cardinality))
		}
	}
	if len(flagged) > 0 {
		b.WriteString("### Flags\n\n")
		b.WriteString(strings.Join(flagged, "\n"))
		b.WriteString("\n\n")
	}
}

func (r *Report) writeRun(b *strings.Builder) {
	if r.Run == nil {
		return
	}
	fmt.Fprintf(b, "## Exploration run\n\n%d steps, %d skipped.\n\n", r.Run.Total, r.Run.Skipped)
	if r.Run.Skipped == 0 {
		return
	}
	b.WriteString("| Skipped step | Reason |\n|---|---|\n")
	for _, s := range r.Run.Steps {
		if s.Skipped {
			fmt.Fprintf(b, "| %s | %s |\n", s.Name, s.Note)
		}
	}
	b.WriteString("\n")
}

func formatFloat(v float64) string {
	return strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.2f", v), "0"), ".")
}

// RenderHTML converts markdown into a standalone HTML fragment.
func RenderHTML(md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.Tables)
	renderer := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags})
	return markdown.ToHTML([]byte(md), p, renderer)
}
