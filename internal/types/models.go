package types

import "strings"

// Source identifies one of the two input tables.
type Source string

const (
	SourceKeyword Source = "keyword"
	SourceDomain  Source = "domain"
)

func ParseSource(s string) (Source, bool) {
	switch Source(strings.ToLower(strings.TrimSpace(s))) {
	case SourceKeyword:
		return SourceKeyword, true
	case SourceDomain:
		return SourceDomain, true
	}
	return "", false
}

// Field is a logical (alias-resolved) column name.
type Field string

const (
	FieldObjective        Field = "campaign_objective"
	FieldAdvertiser       Field = "advertiser"
	FieldCampaignType     Field = "campaign_type"
	FieldCampaign         Field = "campaign"
	FieldKeyword          Field = "keyword"
	FieldDomain           Field = "domain"
	FieldKeywordCategory  Field = "keyword_category"
	FieldDomainCategory   Field = "domain_category"
	FieldQueryType        Field = "query_type"
	FieldEmotionalIntent  Field = "emotional_intent"
	FieldPhraseComponents Field = "phrase_components"
	FieldWordCount        Field = "word_count"
	FieldCharacterCount   Field = "character_count"
	FieldIsQuestion       Field = "is_question"
	FieldSpecificity      Field = "specificity_score"
	FieldUrgency          Field = "urgency_level"
	FieldNumberPresent    Field = "is_number_present"
	FieldNumberPosition   Field = "position_of_number"
)

// Unknown is the value stored for a missing categorical attribute.
const Unknown = "Unknown"

// IsMultiValue reports whether a field holds a delimited list per record.
func (f Field) IsMultiValue() bool {
	return f == FieldPhraseComponents || f == FieldEmotionalIntent
}

// Metric names an aggregate column.
type Metric string

const (
	MetricClicks      Metric = "clicks"
	MetricImpressions Metric = "impressions"
	MetricCTR         Metric = "ctr"
	MetricCVR         Metric = "cvr"
	MetricCPA         Metric = "cpa"
	MetricROAS        Metric = "roas"
)

// Metrics lists every aggregate column in display order.
var Metrics = []Metric{MetricClicks, MetricImpressions, MetricCTR, MetricCVR, MetricCPA, MetricROAS}

func ParseMetric(s string) (Metric, bool) {
	m := Metric(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Metrics {
		if m == known {
			return m, true
		}
	}
	return "", false
}

// Record is one cleaned row of either table. Records are immutable after load.
type Record struct {
	Row   int              `json:"row"`
	Attrs map[Field]string `json:"attrs"`

	Impressions        float64 `json:"impressions"`
	Clicks             float64 `json:"clicks"`
	CTR                float64 `json:"ctr"`
	CVR                float64 `json:"cvr"`
	CPA                float64 `json:"cpa"`
	ROAS               float64 `json:"roas"`
	MaxSystemCost      float64 `json:"max_system_cost"`
	WeightedConversion float64 `json:"weighted_conversion"`
}

// Text returns the stored value of f, or "" when the record has none.
func (r Record) Text(f Field) string {
	return r.Attrs[f]
}

// Category returns the value of f with Unknown substituted for blanks.
func (r Record) Category(f Field) string {
	v := strings.TrimSpace(r.Attrs[f])
	if v == "" {
		return Unknown
	}
	return v
}

// Attr is the value consumers compare and print: the raw text for
// multi-value fields, Category for everything else.
func (r Record) Attr(f Field) string {
	if f.IsMultiValue() {
		return r.Text(f)
	}
	return r.Category(f)
}

// Value returns the raw numeric value for a metric column.
func (r Record) Value(m Metric) float64 {
	switch m {
	case MetricClicks:
		return r.Clicks
	case MetricImpressions:
		return r.Impressions
	case MetricCTR:
		return r.CTR
	case MetricCVR:
		return r.CVR
	case MetricCPA:
		return r.CPA
	case MetricROAS:
		return r.ROAS
	}
	return 0
}

// Filter is the four-level cascading selection. Empty members do not constrain.
type Filter struct {
	Objective    string `json:"objective,omitempty"`
	Advertiser   string `json:"advertiser,omitempty"`
	CampaignType string `json:"campaign_type,omitempty"`
	Campaign     string `json:"campaign,omitempty"`
}

// FilterFields is the fixed application order of the cascade.
var FilterFields = []Field{FieldObjective, FieldAdvertiser, FieldCampaignType, FieldCampaign}

func (f Filter) ValueOf(field Field) string {
	switch field {
	case FieldObjective:
		return f.Objective
	case FieldAdvertiser:
		return f.Advertiser
	case FieldCampaignType:
		return f.CampaignType
	case FieldCampaign:
		return f.Campaign
	}
	return ""
}

// Upto keeps only the cascade levels before field.
func (f Filter) Upto(field Field) Filter {
	out := Filter{}
	for _, ff := range FilterFields {
		if ff == field {
			break
		}
		switch ff {
		case FieldObjective:
			out.Objective = f.Objective
		case FieldAdvertiser:
			out.Advertiser = f.Advertiser
		case FieldCampaignType:
			out.CampaignType = f.CampaignType
		}
	}
	return out
}
