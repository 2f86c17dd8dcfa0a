package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"campaign-insights-go/internal/aggregator"
	"campaign-insights-go/internal/types"
)

func TestFromRecordsColumnOrder(t *testing.T) {
	recs := []types.Record{{
		Attrs:  map[types.Field]string{types.FieldDomain: "news.example", types.FieldCampaign: "Spring"},
		Clicks: 12, Impressions: 300, ROAS: 2.5,
	}}
	tbl := FromRecords("filtered_data", types.SourceDomain, recs)
	require.Len(t, tbl.Header, len(domainRecordColumns)+len(metricHeader))
	assert.Equal(t, "Campaign Objective", tbl.Header[0])
	assert.Equal(t, "Domain", tbl.Header[4])
	assert.Equal(t, "Ad Impressions", tbl.Header[6])
	assert.Equal(t, []string{"Unknown", "Unknown", "Unknown", "Spring", "news.example", "Unknown", "300", "12", "0", "0", "0", "2.5", "0", "0"}, tbl.Rows[0])
}

func TestFromRecordsKeepsRawMultiValue(t *testing.T) {
	recs := []types.Record{{Attrs: map[types.Field]string{types.FieldKeyword: "shoes"}}}
	tbl := FromRecords("filtered_data", types.SourceKeyword, recs)
	assert.Equal(t, "shoes", tbl.Rows[0][4])
	assert.Equal(t, "Unknown", tbl.Rows[0][5], "keyword category")
	assert.Equal(t, "", tbl.Rows[0][7], "emotional intent stays raw")
	assert.Equal(t, "", tbl.Rows[0][8], "phrase components stay raw")
}

func TestFromResult(t *testing.T) {
	res := aggregator.Result{
		Normalized: true,
		Rows: []aggregator.Summary{{
			Value: "Buy", Records: 2, Clicks: 10, CTR: 1.5,
			Normalized:      map[types.Metric]float64{types.MetricClicks: 100},
			TopContributors: "shoes (10 clicks)",
		}},
	}
	tbl := FromResult("query_type_analysis", "Query Type", res)
	assert.Equal(t, "Query Type", tbl.Header[0])
	assert.Equal(t, "Normalized clicks", tbl.Header[8])
	assert.Equal(t, "Top Contributors", tbl.Header[len(tbl.Header)-1])
	assert.Equal(t, "100", tbl.Rows[0][8])
	assert.Equal(t, "shoes (10 clicks)", tbl.Rows[0][len(tbl.Rows[0])-1])

	plain := FromResult("x", "Word", aggregator.Result{Rows: []aggregator.Summary{{Value: "a"}}})
	assert.Len(t, plain.Header, 8)
}

func TestWriteCSVRoundTrip(t *testing.T) {
	tbl := Table{Header: []string{"Keyword", "Clicks"}, Rows: [][]string{{"shoes, red", "3"}, {"a\nb", "1"}}}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl, FormatCSV))

	got, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, append([][]string{tbl.Header}, tbl.Rows...), got)
}

func TestWriteXLSX(t *testing.T) {
	tbl := Table{Name: "keyword_category_analysis", Header: []string{"Category", "Clicks"}, Rows: [][]string{{"Footwear", "7"}}}
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, tbl, FormatXLSX))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows("keyword_category_analysis")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"Category", "Clicks"}, {"Footwear", "7"}}, rows)
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)
	f, err = ParseFormat("XLSX")
	require.NoError(t, err)
	assert.Equal(t, "data.xlsx", f.Filename("data"))
	_, err = ParseFormat("pdf")
	assert.Error(t, err)
}

func TestSheetName(t *testing.T) {
	assert.Equal(t, "Sheet1", sheetName(""))
	assert.Len(t, sheetName("a_really_long_table_name_that_excel_rejects"), 31)
}
