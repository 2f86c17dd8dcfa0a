package dataset

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"campaign-insights-go/internal/types"
)

const keywordCSV = `[Learning] Campaign Objective,Advertiser.,Campaign Type,Campaign,.Keyword,Keyword Category,Query_Type,Emotional_Intent,Individual_Words,Number_of_Words,Number_of_Characters,Specificity_Score,Urgency_Level,Position_of_Number,Ad Impressions,Clicks,CTR,CVR,CPA,roas,Max System Cost,Weighted Conversion
Sales,Acme,Search,Spring,running shoes,Footwear,Commercial,Joy,running; shoes,2,13,High,",",,1000,50,5,2,10,4,200,1
Sales,Acme,Search,Spring,cheap socks,,Commercial,,,2,11,,Low,1,n/a,abc,,,,,,
`

func TestParseKeywordCSV(t *testing.T) {
	tbl, err := Parse(types.SourceKeyword, "kw.csv", strings.NewReader(keywordCSV), 0)
	require.NoError(t, err)
	require.Len(t, tbl.Records, 2)

	first := tbl.Records[0]
	assert.Equal(t, "Sales", first.Text(types.FieldObjective))
	assert.Equal(t, "Acme", first.Text(types.FieldAdvertiser))
	assert.Equal(t, "running shoes", first.Text(types.FieldKeyword))
	assert.Equal(t, "High", first.Text(types.FieldSpecificity))
	assert.Equal(t, types.Unknown, first.Text(types.FieldUrgency), "stray comma counts as missing")
	assert.Equal(t, types.Unknown, first.Text(types.FieldNumberPosition))
	assert.Equal(t, "13", first.Text(types.FieldCharacterCount))
	assert.InDelta(t, 1000, first.Impressions, 1e-9)
	assert.InDelta(t, 4, first.ROAS, 1e-9)
	assert.InDelta(t, 200, first.MaxSystemCost, 1e-9)

	second := tbl.Records[1]
	assert.Equal(t, types.Unknown, second.Text(types.FieldKeywordCategory))
	assert.Equal(t, types.Unknown, second.Text(types.FieldSpecificity))
	assert.Equal(t, "", second.Text(types.FieldEmotionalIntent), "multi-value fields stay raw")
	assert.Equal(t, "1", second.Text(types.FieldNumberPosition))
	assert.Zero(t, second.Impressions, "unparseable numbers coerce to zero")
	assert.Zero(t, second.Clicks)

	assert.Equal(t, "Advertiser.", tbl.Columns[types.FieldAdvertiser])
	assert.Contains(t, tbl.Missing, types.FieldIsQuestion)
}

func TestParseFillsMissingColumns(t *testing.T) {
	tbl, err := Parse(types.SourceKeyword, "kw.csv", strings.NewReader("Keyword,Clicks\nshoes,3\n"), 0)
	require.NoError(t, err)
	require.Len(t, tbl.Records, 1)
	r := tbl.Records[0]
	assert.Equal(t, types.Unknown, r.Text(types.FieldObjective))
	assert.Equal(t, types.Unknown, r.Text(types.FieldQueryType))
	assert.Equal(t, types.Unknown, r.Text(types.FieldNumberPosition))
	assert.Equal(t, "0", r.Text(types.FieldWordCount))
	assert.Equal(t, "", r.Text(types.FieldEmotionalIntent), "multi-value fields stay empty")
}

func TestParseMissingRequiredColumn(t *testing.T) {
	_, err := Parse(types.SourceDomain, "dom.csv", strings.NewReader("Campaign,Clicks\nA,1\n"), 0)
	require.Error(t, err)
	assert.True(t, errors.Is(err, types.ErrDataLoad))

	var dle *types.DataLoadError
	require.ErrorAs(t, err, &dle)
	assert.Equal(t, types.SourceDomain, dle.Source)
}

func TestParseRowLimit(t *testing.T) {
	csv := "Keyword,Clicks\na,1\nb,2\nc,3\n"
	tbl, err := Parse(types.SourceKeyword, "kw.csv", strings.NewReader(csv), 2)
	require.NoError(t, err)
	require.Len(t, tbl.Records, 2)
	assert.Equal(t, "b", tbl.Records[1].Text(types.FieldKeyword))
}

func TestParseSkipsBlankRows(t *testing.T) {
	tbl, err := Parse(types.SourceKeyword, "kw.csv", strings.NewReader("Keyword,Clicks\na,1\n,\nb,2\n"), 0)
	require.NoError(t, err)
	assert.Len(t, tbl.Records, 2)
}

func TestFindColumnExactBeforeCaseInsensitive(t *testing.T) {
	header := []string{"roas", "ROAS"}
	assert.Equal(t, 0, findColumn(header, []string{"roas", "roas.", "ROAS"}))
	assert.Equal(t, 1, findColumn([]string{"x", "campaign type"}, []string{"Campaign Type"}))
	assert.Equal(t, -1, findColumn([]string{"x"}, []string{"Campaign"}))
}

func TestParseXLSX(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Domain", "Sprig Domain Category", "Clicks", "Ad Impressions"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"news.example", "News", 12, 400}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	tbl, err := Parse(types.SourceDomain, "domains.xlsx", buf, 0)
	require.NoError(t, err)
	require.Len(t, tbl.Records, 1)
	assert.Equal(t, "news.example", tbl.Records[0].Text(types.FieldDomain))
	assert.Equal(t, "News", tbl.Records[0].Text(types.FieldDomainCategory))
	assert.InDelta(t, 12, tbl.Records[0].Clicks, 1e-9)
}

func TestLoadRemoteRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte("Keyword,Clicks\nshoes,3\n"))
	}))
	defer srv.Close()

	tbl, err := Load(context.Background(), types.SourceKeyword, srv.URL+"/kw.csv", Options{FetchTimeout: 5 * time.Second})
	require.NoError(t, err)
	require.Len(t, tbl.Records, 1)
	assert.EqualValues(t, 2, atomic.LoadInt32(&calls))
}

func TestLoadRemoteClientErrorIsPermanent(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := Load(context.Background(), types.SourceKeyword, srv.URL+"/kw.csv", Options{FetchTimeout: 5 * time.Second})
	require.ErrorIs(t, err, types.ErrDataLoad)
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), types.SourceKeyword, t.TempDir()+"/nope.csv", Options{})
	assert.ErrorIs(t, err, types.ErrDataLoad)
}
