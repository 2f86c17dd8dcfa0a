package processor

import (
	"campaign-insights-go/internal/aggregator"
	"campaign-insights-go/internal/types"
)

// Panel is one aggregate view of a table.
type Panel struct {
	Name           string             `json:"name"`
	Title          string             `json:"title"`
	PartitionTitle string             `json:"partition_title"`
	Options        aggregator.Options `json:"-"`
	// Metrics are the columns the panel charts, in display order.
	Metrics []types.Metric `json:"metrics"`
	// ExportName is the download file name without extension.
	ExportName string `json:"export_name"`
}

var rateMetrics = []types.Metric{types.MetricCTR, types.MetricCVR, types.MetricCPA, types.MetricROAS}

var keywordPanels = []Panel{
	{
		Name: "words", Title: "Word performance", PartitionTitle: "Word",
		Options:    aggregator.Options{Field: types.FieldPhraseComponents, Limit: 30},
		Metrics:    rateMetrics,
		ExportName: "word_analysis",
	},
	{
		Name: "query_types", Title: "Query type overview", PartitionTitle: "Query Type",
		Options:    aggregator.Options{Field: types.FieldQueryType, Limit: 10, TopN: 3, Normalize: true},
		Metrics:    []types.Metric{types.MetricClicks, types.MetricCTR, types.MetricCVR, types.MetricCPA, types.MetricROAS},
		ExportName: "query_type_analysis",
	},
	{
		Name: "keyword_categories", Title: "Keyword category performance", PartitionTitle: "Keyword Category",
		Options:    aggregator.Options{Field: types.FieldKeywordCategory, Limit: 10, TopN: 3, Normalize: true},
		Metrics:    []types.Metric{types.MetricClicks, types.MetricCTR, types.MetricCVR, types.MetricCPA, types.MetricROAS},
		ExportName: "keyword_category_analysis",
	},
	{
		Name: "emotions", Title: "Emotional intent", PartitionTitle: "Emotion",
		Options:    aggregator.Options{Field: types.FieldEmotionalIntent, TopN: 3},
		Metrics:    rateMetrics,
		ExportName: "emotion_analysis",
	},
	{
		Name: "character_length", Title: "Keyword length (characters)", PartitionTitle: "Character Count",
		Options:    aggregator.Options{Field: types.FieldCharacterCount, Order: aggregator.OrderNumeric},
		Metrics:    rateMetrics,
		ExportName: "character_length_analysis",
	},
	{
		Name: "specificity", Title: "Specificity", PartitionTitle: "Specificity",
		Options:    aggregator.Options{Field: types.FieldSpecificity, Order: aggregator.OrderOrdinal},
		Metrics:    rateMetrics,
		ExportName: "specificity_analysis",
	},
	{
		Name: "urgency", Title: "Urgency", PartitionTitle: "Urgency",
		Options:    aggregator.Options{Field: types.FieldUrgency, Order: aggregator.OrderOrdinal},
		Metrics:    rateMetrics,
		ExportName: "urgency_analysis",
	},
	{
		Name: "word_count", Title: "Word count", PartitionTitle: "Word Count",
		Options:    aggregator.Options{Field: types.FieldWordCount, Order: aggregator.OrderNumeric},
		Metrics:    rateMetrics,
		ExportName: "word_count_analysis",
	},
	{
		Name: "number_present", Title: "Numbers in keyword", PartitionTitle: "Number Present",
		Options:    aggregator.Options{Field: types.FieldNumberPresent},
		Metrics:    rateMetrics,
		ExportName: "number_present_analysis",
	},
	{
		Name: "number_position", Title: "Number position", PartitionTitle: "Position",
		Options:    aggregator.Options{Field: types.FieldNumberPosition, Order: aggregator.OrderNumeric},
		Metrics:    rateMetrics,
		ExportName: "number_position_analysis",
	},
	{
		Name: "questions", Title: "Questions vs statements", PartitionTitle: "Is Question",
		Options:    aggregator.Options{Field: types.FieldIsQuestion},
		Metrics:    rateMetrics,
		ExportName: "question_analysis",
	},
}

var domainPanels = []Panel{
	{
		Name: "domains", Title: "Domain performance", PartitionTitle: "Domain",
		Options:    aggregator.Options{Field: types.FieldDomain, LabelField: types.FieldDomain, Limit: 50},
		Metrics:    rateMetrics,
		ExportName: "domain_analysis",
	},
	{
		Name: "domain_categories", Title: "Domain category overview", PartitionTitle: "Domain Category",
		Options:    aggregator.Options{Field: types.FieldDomainCategory, LabelField: types.FieldDomain, Limit: 10, TopN: 3, Normalize: true},
		Metrics:    []types.Metric{types.MetricClicks, types.MetricCTR, types.MetricCVR, types.MetricCPA, types.MetricROAS},
		ExportName: "domain_category_analysis",
	},
}

// Panels lists the views available for a table, in page order.
func Panels(src types.Source) []Panel {
	if src == types.SourceDomain {
		return domainPanels
	}
	return keywordPanels
}

func Lookup(src types.Source, name string) (Panel, bool) {
	for _, p := range Panels(src) {
		if p.Name == name {
			return p, true
		}
	}
	return Panel{}, false
}
