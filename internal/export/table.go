package export

import (
	"strconv"

	"github.com/samber/lo"

	"campaign-insights-go/internal/aggregator"
	"campaign-insights-go/internal/types"
)

// Table is a rendered grid ready for serialisation. Column order is fixed
// by the builder and preserved by every writer.
type Table struct {
	Name   string     `json:"name"`
	Header []string   `json:"header"`
	Rows   [][]string `json:"rows"`
}

type recordColumn struct {
	title string
	field types.Field
}

var keywordRecordColumns = []recordColumn{
	{"Campaign Objective", types.FieldObjective},
	{"Advertiser", types.FieldAdvertiser},
	{"Campaign Type", types.FieldCampaignType},
	{"Campaign", types.FieldCampaign},
	{"Keyword", types.FieldKeyword},
	{"Keyword Category", types.FieldKeywordCategory},
	{"Query Type", types.FieldQueryType},
	{"Emotional Intent", types.FieldEmotionalIntent},
	{"Phrase Components", types.FieldPhraseComponents},
	{"Word Count", types.FieldWordCount},
	{"Character Count", types.FieldCharacterCount},
	{"Is Question", types.FieldIsQuestion},
	{"Specificity Score", types.FieldSpecificity},
	{"Urgency Level", types.FieldUrgency},
	{"Is Number Present", types.FieldNumberPresent},
	{"Position of Number", types.FieldNumberPosition},
}

var domainRecordColumns = []recordColumn{
	{"Campaign Objective", types.FieldObjective},
	{"Advertiser", types.FieldAdvertiser},
	{"Campaign Type", types.FieldCampaignType},
	{"Campaign", types.FieldCampaign},
	{"Domain", types.FieldDomain},
	{"Domain Category", types.FieldDomainCategory},
}

var metricHeader = []string{"Ad Impressions", "Clicks", "CTR", "CVR", "CPA", "ROAS", "Max System Cost", "Weighted Conversion"}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FromRecords renders a row-set with every attribute and metric column.
func FromRecords(name string, src types.Source, records []types.Record) Table {
	cols := keywordRecordColumns
	if src == types.SourceDomain {
		cols = domainRecordColumns
	}
	header := append(lo.Map(cols, func(c recordColumn, _ int) string { return c.title }), metricHeader...)
	rows := lo.Map(records, func(r types.Record, _ int) []string {
		row := make([]string, 0, len(header))
		for _, c := range cols {
			row = append(row, r.Attr(c.field))
		}
		return append(row,
			num(r.Impressions), num(r.Clicks), num(r.CTR), num(r.CVR),
			num(r.CPA), num(r.ROAS), num(r.MaxSystemCost), num(r.WeightedConversion),
		)
	})
	return Table{Name: name, Header: header, Rows: rows}
}

// FromResult renders an aggregate table. Normalised and contributor columns
// are present only when the result carries them.
func FromResult(name, partitionTitle string, res aggregator.Result) Table {
	header := []string{partitionTitle, "Records", "Clicks", "Impressions", "CTR", "CVR", "CPA", "ROAS"}
	if res.Normalized {
		for _, m := range types.Metrics {
			header = append(header, "Normalized "+string(m))
		}
	}
	withTop := lo.SomeBy(res.Rows, func(s aggregator.Summary) bool { return s.TopContributors != "" })
	if withTop {
		header = append(header, "Top Contributors")
	}

	rows := lo.Map(res.Rows, func(s aggregator.Summary, _ int) []string {
		row := []string{
			s.Value, strconv.Itoa(s.Records), num(s.Clicks), num(s.Impressions),
			num(s.CTR), num(s.CVR), num(s.CPA), num(s.ROAS),
		}
		if res.Normalized {
			for _, m := range types.Metrics {
				row = append(row, num(s.Normalized[m]))
			}
		}
		if withTop {
			row = append(row, s.TopContributors)
		}
		return row
	})
	return Table{Name: name, Header: header, Rows: rows}
}
