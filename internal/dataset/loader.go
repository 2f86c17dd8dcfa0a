package dataset

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"os"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/xuri/excelize/v2"

	"campaign-insights-go/internal/logger"
	"campaign-insights-go/internal/types"
)

// Options controls how a table is read.
type Options struct {
	// RowLimit keeps only the first N data rows; 0 means no cap.
	RowLimit int
	// FetchTimeout bounds the retries for http(s) sources.
	FetchTimeout time.Duration
	Client       *http.Client
}

// Table is one cleaned, alias-resolved input table.
type Table struct {
	Source  types.Source
	Path    string
	Records []types.Record
	// Columns maps each resolved field to the header it was read from.
	Columns map[types.Field]string
	Missing []types.Field
}

// Load reads a keyword or domain table from a local path or an http(s) URL.
// CSV and XLSX are detected by extension.
func Load(ctx context.Context, src types.Source, location string, opts Options) (*Table, error) {
	log := logger.New().Component("dataset.loader").WithField("source", src).WithField("path", location)
	log.Info("loading table")

	var (
		body []byte
		err  error
	)
	if isRemote(location) {
		body, err = fetchRemote(ctx, location, opts)
	} else {
		body, err = os.ReadFile(location)
	}
	if err != nil {
		log.WithField("error", err.Error()).Error("read failed")
		return nil, &types.DataLoadError{Source: src, Path: location, Reason: "cannot read source", Err: err}
	}

	t, err := Parse(src, location, bytes.NewReader(body), opts.RowLimit)
	if err != nil {
		log.WithField("error", err.Error()).Error("parse failed")
		return nil, err
	}
	log.WithField("rows", len(t.Records)).WithField("missing_columns", len(t.Missing)).Info("table loaded")
	return t, nil
}

// Parse decodes rows from r; name is only used to pick the format.
func Parse(src types.Source, name string, r io.Reader, rowLimit int) (*Table, error) {
	var (
		rows [][]string
		err  error
	)
	if isXLSX(name) {
		rows, err = readXLSX(r)
	} else {
		rows, err = readCSV(r)
	}
	if err != nil {
		return nil, &types.DataLoadError{Source: src, Path: name, Reason: "cannot parse rows", Err: err}
	}
	if len(rows) == 0 {
		return nil, &types.DataLoadError{Source: src, Path: name, Reason: "no header row"}
	}
	return buildTable(src, name, cleanHeader(rows[0]), rows[1:], rowLimit)
}

func buildTable(src types.Source, name string, header []string, rows [][]string, rowLimit int) (*Table, error) {
	t := &Table{Source: src, Path: name, Columns: map[types.Field]string{}}

	attrIdx := map[types.Field]int{}
	for _, c := range columnsFor(src) {
		i := findColumn(header, c.aliases)
		if i < 0 {
			t.Missing = append(t.Missing, c.field)
			continue
		}
		attrIdx[c.field] = i
		t.Columns[c.field] = header[i]
	}
	req := requiredField[src]
	if _, ok := attrIdx[req]; !ok {
		return nil, &types.DataLoadError{Source: src, Path: name, Reason: fmt.Sprintf("required column %q not found", req)}
	}

	metricIdx := make([]int, len(metricColumns))
	for j, c := range metricColumns {
		metricIdx[j] = findColumn(header, c.aliases)
	}

	if rowLimit > 0 && len(rows) > rowLimit {
		rows = rows[:rowLimit]
	}
	t.Records = make([]types.Record, 0, len(rows))
	for n, row := range rows {
		if blankRow(row) {
			continue
		}
		rec := types.Record{Row: n, Attrs: make(map[types.Field]string, len(attrIdx)+len(t.Missing))}
		for f, i := range attrIdx {
			rec.Attrs[f] = cleanAttr(f, cell(row, i))
		}
		for _, f := range t.Missing {
			rec.Attrs[f] = cleanAttr(f, "")
		}
		for j, c := range metricColumns {
			c.set(&rec, toNumber(cell(row, metricIdx[j])))
		}
		t.Records = append(t.Records, rec)
	}
	return t, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

// cleanAttr applies per-field cleaning. Multi-value fields keep their raw text
// so the explode step can apply its own fallbacks.
func cleanAttr(f types.Field, v string) string {
	switch f {
	case types.FieldPhraseComponents, types.FieldEmotionalIntent:
		return v
	case types.FieldSpecificity, types.FieldUrgency:
		if v == "" || v == "," {
			return types.Unknown
		}
		return v
	case types.FieldWordCount, types.FieldCharacterCount:
		return formatNumber(toNumber(v))
	case types.FieldNumberPosition:
		n, err := strconv.ParseFloat(v, 64)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return types.Unknown
		}
		return formatNumber(n)
	}
	if v == "" {
		return types.Unknown
	}
	return v
}

// toNumber coerces a cell to float; anything unparseable is 0.
func toNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return rows, nil
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return rows, nil
}

func isRemote(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

func isXLSX(name string) bool {
	if u, err := url.Parse(name); err == nil && u.Path != "" {
		name = u.Path
	}
	ext := strings.ToLower(path.Ext(name))
	return ext == ".xlsx" || ext == ".xlsm"
}

// fetchRemote downloads a source, retrying transport errors and 5xx responses.
func fetchRemote(ctx context.Context, location string, opts Options) ([]byte, error) {
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	bo := backoff.NewExponentialBackOff()
	bo.MaxElapsedTime = opts.FetchTimeout
	if bo.MaxElapsedTime == 0 {
		bo.MaxElapsedTime = 30 * time.Second
	}

	var body []byte
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		b, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}
		if resp.StatusCode >= 500 {
			return fmt.Errorf("server error: %s", resp.Status)
		}
		if resp.StatusCode >= 300 {
			return backoff.Permanent(fmt.Errorf("fetch failed: %s", resp.Status))
		}
		body = b
		return nil
	}
	if err := backoff.Retry(op, backoff.WithContext(bo, ctx)); err != nil {
		return nil, err
	}
	return body, nil
}
