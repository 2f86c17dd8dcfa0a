package dataset

import (
	"strings"

	"campaign-insights-go/internal/types"
)

type attrColumn struct {
	field   types.Field
	aliases []string
}

type metricColumn struct {
	name    string
	aliases []string
	set     func(*types.Record, float64)
}

var identityColumns = []attrColumn{
	{types.FieldObjective, []string{"[Learning] Campaign Objective", "Campaign Objective"}},
	{types.FieldAdvertiser, []string{"Advertiser", "Advertiser."}},
	{types.FieldCampaignType, []string{"Campaign Type"}},
	{types.FieldCampaign, []string{"Campaign"}},
}

var keywordColumns = append(append([]attrColumn{}, identityColumns...),
	attrColumn{types.FieldKeyword, []string{"Keyword", ".Keyword"}},
	attrColumn{types.FieldKeywordCategory, []string{"Keyword Category", "Keyword Category."}},
	attrColumn{types.FieldQueryType, []string{"Query_Type", "Query_Type."}},
	attrColumn{types.FieldEmotionalIntent, []string{"Emotional_Intent", "Emotional Intent"}},
	attrColumn{types.FieldPhraseComponents, []string{"Individual_Words", "Phrase Components"}},
	attrColumn{types.FieldWordCount, []string{"Number_of_Words", "Word Count"}},
	attrColumn{types.FieldCharacterCount, []string{"Number_of_Characters", "Character Count"}},
	attrColumn{types.FieldIsQuestion, []string{"Is_Question"}},
	attrColumn{types.FieldSpecificity, []string{"Specificity_Score", "Specificity Score"}},
	attrColumn{types.FieldUrgency, []string{"Urgency_Level", "Urgency Level"}},
	attrColumn{types.FieldNumberPresent, []string{"Is_Number_Present", "Number_Present"}},
	attrColumn{types.FieldNumberPosition, []string{"Position_of_Number"}},
)

var domainColumns = append(append([]attrColumn{}, identityColumns...),
	attrColumn{types.FieldDomain, []string{"Domain"}},
	attrColumn{types.FieldDomainCategory, []string{"Sprig Domain Category"}},
)

var metricColumns = []metricColumn{
	{"impressions", []string{"Ad Impressions", "Ad Impressions."}, func(r *types.Record, v float64) { r.Impressions = v }},
	{"clicks", []string{"Clicks", "Clicks."}, func(r *types.Record, v float64) { r.Clicks = v }},
	{"ctr", []string{"CTR", "CTR."}, func(r *types.Record, v float64) { r.CTR = v }},
	{"cvr", []string{"CVR", "CVR,"}, func(r *types.Record, v float64) { r.CVR = v }},
	{"cpa", []string{"CPA", "CPA."}, func(r *types.Record, v float64) { r.CPA = v }},
	{"roas", []string{"roas", "roas.", "ROAS"}, func(r *types.Record, v float64) { r.ROAS = v }},
	{"max_system_cost", []string{"Max System Cost", "Max System Cost."}, func(r *types.Record, v float64) { r.MaxSystemCost = v }},
	{"weighted_conversion", []string{"Weighted Conversion", "Weighted Conversion."}, func(r *types.Record, v float64) { r.WeightedConversion = v }},
}

// requiredField is the column without which a table cannot be used.
var requiredField = map[types.Source]types.Field{
	types.SourceKeyword: types.FieldKeyword,
	types.SourceDomain:  types.FieldDomain,
}

func columnsFor(src types.Source) []attrColumn {
	if src == types.SourceDomain {
		return domainColumns
	}
	return keywordColumns
}

// findColumn returns the header index for the first alias that matches
// exactly, falling back to a case-insensitive match. -1 when absent.
func findColumn(header []string, aliases []string) int {
	for _, a := range aliases {
		for i, h := range header {
			if h == a {
				return i
			}
		}
	}
	for _, a := range aliases {
		for i, h := range header {
			if strings.EqualFold(h, a) {
				return i
			}
		}
	}
	return -1
}

func cleanHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		out[i] = strings.Trim(strings.TrimSpace(h), `"`)
	}
	return out
}
