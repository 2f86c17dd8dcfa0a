package processor

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campaign-insights-go/internal/aggregator"
	"campaign-insights-go/internal/export"
	"campaign-insights-go/internal/types"
)

func keywordRecords() []types.Record {
	mk := func(obj, kw, qt, cat string, clicks, imps float64) types.Record {
		return types.Record{
			Attrs: map[types.Field]string{
				types.FieldObjective:        obj,
				types.FieldKeyword:          kw,
				types.FieldQueryType:        qt,
				types.FieldKeywordCategory:  cat,
				types.FieldPhraseComponents: "",
				types.FieldUrgency:          "High",
			},
			Clicks: clicks, Impressions: imps, CTR: clicks / imps * 100,
		}
	}
	return []types.Record{
		mk("Sales", "running shoes", "Commercial", "Footwear", 40, 1000),
		mk("Sales", "trail shoes", "Commercial", "Footwear", 10, 800),
		mk("Sales", "how to lace", "Informational", "Guides", 5, 500),
		mk("Awareness", "brand socks", "Navigational", "Apparel", 1, 100),
	}
}

func TestPanelsRegistry(t *testing.T) {
	assert.Len(t, Panels(types.SourceKeyword), 11)
	assert.Len(t, Panels(types.SourceDomain), 2)

	p, ok := Lookup(types.SourceKeyword, "keyword_categories")
	require.True(t, ok)
	assert.Equal(t, 10, p.Options.Limit)
	assert.True(t, p.Options.Normalize)

	_, ok = Lookup(types.SourceDomain, "words")
	assert.False(t, ok)
}

func TestBuildKeywordDashboard(t *testing.T) {
	d := Build(keywordRecords(), types.SourceKeyword, types.Filter{Objective: "sales"})
	require.False(t, d.Empty)
	assert.Equal(t, 3, d.Totals.Records)
	assert.InDelta(t, 55, d.Totals.Clicks, 1e-9)
	require.Len(t, d.Stats, 6)
	require.Len(t, d.Panels, len(Panels(types.SourceKeyword)))

	words := d.Panels[0].Result
	assert.Equal(t, "shoes", words.Rows[0].Value)
	assert.InDelta(t, 50, words.Rows[0].Clicks, 1e-9)

	qt := d.Panels[1].Result
	assert.Equal(t, "Commercial", qt.Rows[0].Value)
	assert.Equal(t, "running shoes (40 clicks)\ntrail shoes (10 clicks)", qt.Rows[0].TopContributors)

	require.Len(t, d.Preview.Rows, 3)
	assert.Equal(t, "running shoes", d.Preview.Rows[0][0])
	assert.Equal(t, "Keyword", d.Preview.Header[0])
}

func TestBuildEmptySelection(t *testing.T) {
	d := Build(keywordRecords(), types.SourceKeyword, types.Filter{Advertiser: "nobody"})
	assert.True(t, d.Empty)
	assert.Equal(t, EmptyMessage, d.Message)
	for _, pv := range d.Panels {
		assert.True(t, pv.Result.NoData, pv.Panel.Name)
		assert.Equal(t, aggregator.NoDataLabel, pv.Result.Rows[0].Value)
	}
	assert.Empty(t, d.Preview.Rows)
	require.Len(t, d.Stats, 6)
}

func TestBuildPanelEmpty(t *testing.T) {
	p, _ := Lookup(types.SourceKeyword, "emotions")
	res := BuildPanel(keywordRecords(), types.Filter{Campaign: "none"}, p)
	assert.True(t, res.NoData)

	res = BuildPanel(keywordRecords(), types.Filter{}, p)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, aggregator.Neutral, res.Rows[0].Value)
}

func TestPreviewLimitAndPaging(t *testing.T) {
	var recs []types.Record
	for i := 0; i < 120; i++ {
		recs = append(recs, types.Record{
			Attrs:  map[types.Field]string{types.FieldDomain: fmt.Sprintf("d%03d.example", i)},
			Clicks: float64(i),
		})
	}
	prev := Preview(recs, types.SourceDomain)
	require.Len(t, prev.Rows, 100)
	assert.Equal(t, "d119.example", prev.Rows[0][0])
	assert.Equal(t, []string{"Domain", "Domain Category", "Clicks", "CTR", "CVR", "CPA", "ROAS"}, prev.Header)
	for _, row := range prev.Rows {
		require.Len(t, row, len(prev.Header))
	}

	first := Page(prev, 1, PreviewPageSize)
	assert.Len(t, first.Rows, 30)
	assert.Equal(t, "d119.example", first.Rows[0][0])
	assert.Len(t, Page(prev, 4, PreviewPageSize).Rows, 10)
	assert.Empty(t, Page(prev, 5, PreviewPageSize).Rows)
	assert.Len(t, Page(export.Table{Rows: prev.Rows}, 0, 0).Rows, PreviewPageSize)
}
