package tabular

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/xuri/excelize/v2"

	"propscope/domain/core"
	"propscope/domain/table"
)

type sourceKind string

const (
	kindCSV       sourceKind = "csv"
	kindExcel     sourceKind = "xlsx"
	kindRemoteCSV sourceKind = "remote-csv"
)

// DataReader loads a delimited dataset from a local CSV file, a local
// XLSX workbook, or a CSV served over HTTP, into a labeled Frame with
// the logical column mapping resolved.
type DataReader struct {
	source string
	kind   sourceKind
	client *http.Client
}

// Result is the outcome of a successful load.
type Result struct {
	Frame   table.Frame
	Mapping table.Mapping
	Source  string
	Rows    int
	Cols    int
}

// NewDataReader picks the source kind from the location's shape: an
// http(s) URL is fetched as CSV, a .xlsx path is read via excelize,
// anything else is treated as a local CSV file.
func NewDataReader(source string) *DataReader {
	kind := kindCSV
	switch {
	case strings.HasPrefix(source, "http://"), strings.HasPrefix(source, "https://"):
		kind = kindRemoteCSV
	case strings.EqualFold(filepath.Ext(source), ".xlsx"):
		kind = kindExcel
	}
	return &DataReader{
		source: source,
		kind:   kind,
		client: &http.Client{Timeout: 60 * time.Second},
	}
}

// Load reads the dataset and resolves the logical column mapping.
// Failures are classified with the core source error taxonomy; Load
// never terminates the process.
func (r *DataReader) Load(ctx context.Context) (*Result, error) {
	log.Printf("[DataReader] Loading %s source: %s", r.kind, r.source)
	start := time.Now()

	var (
		frame table.Frame
		err   error
	)
	switch r.kind {
	case kindRemoteCSV:
		frame, err = r.loadRemoteCSV(ctx)
	case kindExcel:
		frame, err = r.loadExcel()
	default:
		frame, err = r.loadCSVFile()
	}
	if err != nil {
		return nil, err
	}

	if frame.Nrow() == 0 {
		return nil, core.NewSourceError(core.ErrSourceMalformed, r.source,
			fmt.Errorf("dataset must have a header row and at least one data row"))
	}

	mapping := table.NewMapping(frame.Headers(), table.LogicalColumns())
	frame = CoerceNumeric(frame, mapping)

	rows, cols := frame.Dims()
	log.Printf("[DataReader] Loaded %d rows, %d columns in %.2fms",
		rows, cols, float64(time.Since(start).Nanoseconds())/1e6)

	return &Result{
		Frame:   frame,
		Mapping: mapping,
		Source:  r.source,
		Rows:    rows,
		Cols:    cols,
	}, nil
}

func (r *DataReader) loadCSVFile() (table.Frame, error) {
	file, err := os.Open(r.source)
	if err != nil {
		return table.Frame{}, r.classifyFSError(err)
	}
	defer file.Close()
	return r.parseCSV(file)
}

func (r *DataReader) loadRemoteCSV(ctx context.Context) (table.Frame, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.source, nil)
	if err != nil {
		return table.Frame{}, core.NewSourceError(core.ErrSourceUnreadable, r.source, err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return table.Frame{}, core.NewSourceError(core.ErrSourceUnreadable, r.source, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return table.Frame{}, core.NewSourceError(core.ErrSourceNotFound, r.source,
			fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusUnauthorized:
		return table.Frame{}, core.NewSourceError(core.ErrSourcePermission, r.source,
			fmt.Errorf("HTTP %d", resp.StatusCode))
	case resp.StatusCode != http.StatusOK:
		return table.Frame{}, core.NewSourceError(core.ErrSourceUnreadable, r.source,
			fmt.Errorf("HTTP %d", resp.StatusCode))
	}
	return r.parseCSV(resp.Body)
}

func (r *DataReader) loadExcel() (table.Frame, error) {
	if _, err := os.Stat(r.source); err != nil {
		return table.Frame{}, r.classifyFSError(err)
	}
	f, err := excelize.OpenFile(r.source)
	if err != nil {
		return table.Frame{}, core.NewSourceError(core.ErrSourceMalformed, r.source, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return table.Frame{}, core.NewSourceError(core.ErrSourceMalformed, r.source,
			fmt.Errorf("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return table.Frame{}, core.NewSourceError(core.ErrSourceMalformed, r.source, err)
	}
	if len(rows) < 2 {
		return table.Frame{}, core.NewSourceError(core.ErrSourceMalformed, r.source,
			fmt.Errorf("sheet %q must have a header row and at least one data row", sheets[0]))
	}

	// excelize may return ragged rows; pad to the header width.
	width := len(rows[0])
	for i, row := range rows {
		for len(row) < width {
			row = append(row, "")
		}
		rows[i] = row[:width]
	}

	df := dataframe.LoadRecords(rows,
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
	)
	frame, err := table.NewFrame(df)
	if err != nil {
		return table.Frame{}, core.NewSourceError(core.ErrSourceMalformed, r.source, df.Err)
	}
	return frame, nil
}

func (r *DataReader) parseCSV(in io.Reader) (table.Frame, error) {
	df := dataframe.ReadCSV(in,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return table.Frame{}, core.NewSourceError(core.ErrSourceMalformed, r.source, df.Err)
	}
	return table.NewFrame(df)
}

func (r *DataReader) classifyFSError(err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return core.NewSourceError(core.ErrSourceNotFound, r.source, nil)
	case errors.Is(err, fs.ErrPermission):
		return core.NewSourceError(core.ErrSourcePermission, r.source, nil)
	default:
		return core.NewSourceError(core.ErrSourceUnreadable, r.source, err)
	}
}
