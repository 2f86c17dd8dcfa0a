package main

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-insights-go/internal/export"
)

func setupData(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	kw := filepath.Join(dir, "kw.csv")
	dm := filepath.Join(dir, "dom.csv")
	require.NoError(t, os.WriteFile(kw, []byte("Campaign Objective,Keyword,Query_Type,Clicks\nSales,shoes,Buy,4\nAwareness,socks,Info,1\n"), 0o644))
	require.NoError(t, os.WriteFile(dm, []byte("Domain,Clicks\nnews.example,2\n"), 0o644))
	t.Setenv("KEYWORD_DATA_FILE", kw)
	t.Setenv("DOMAIN_DATA_FILE", dm)
	t.Setenv("ROW_LIMIT", "")
	t.Setenv("RENDER", "")
}

func run(t *testing.T, args ...string) string {
	t.Helper()
	flagFormat = "table"
	flagFilter.Objective = ""
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	require.NoError(t, rootCmd.Execute())
	return out.String()
}

func TestPanelsCommand(t *testing.T) {
	out := run(t, "panels", "domain")
	assert.Contains(t, out, "domain_categories")
	assert.NotContains(t, out, "keyword")
}

func TestAggregateCommandCSV(t *testing.T) {
	setupData(t)
	out := run(t, "aggregate", "keyword", "query_types", "--format", "csv")
	rows, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "Buy", rows[1][0])
}

func TestExportCommandFiltered(t *testing.T) {
	setupData(t)
	out := run(t, "export", "keyword", "--objective", "sales", "--format", "csv")
	rows, err := csv.NewReader(bytes.NewBufferString(out)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestWriteTableAligned(t *testing.T) {
	flagFormat = "table"
	var buf bytes.Buffer
	require.NoError(t, writeTable(&buf, export.Table{Header: []string{"A", "B"}, Rows: [][]string{{"x", "1"}}}))
	assert.Equal(t, "A  B\nx  1\n", buf.String())
}
