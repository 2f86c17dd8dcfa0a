package actionable

import (
	"campaign-insights-go/internal/aggregator"
	"campaign-insights-go/internal/types"
)

// StatCard is one headline figure above the dashboard panels.
type StatCard struct {
	Label string  `json:"label"`
	Value string  `json:"value"`
	Raw   float64 `json:"raw"`
	Tier  Tier    `json:"tier"`
	Color string  `json:"color"`
}

var cardLabels = map[types.Metric]string{
	types.MetricImpressions: "Total Impressions",
	types.MetricClicks:      "Total Clicks",
	types.MetricCTR:         "Avg CTR",
	types.MetricCVR:         "Avg CVR",
	types.MetricCPA:         "Avg CPA",
	types.MetricROAS:        "Avg ROAS",
}

var cardOrder = []types.Metric{
	types.MetricImpressions, types.MetricClicks,
	types.MetricCTR, types.MetricCVR, types.MetricCPA, types.MetricROAS,
}

// Generate builds the stats row for a selection.
func Generate(t aggregator.Totals) []StatCard {
	vals := map[types.Metric]float64{
		types.MetricImpressions: t.Impressions,
		types.MetricClicks:      t.Clicks,
		types.MetricCTR:         t.CTR,
		types.MetricCVR:         t.CVR,
		types.MetricCPA:         t.CPA,
		types.MetricROAS:        t.ROAS,
	}
	cards := make([]StatCard, 0, len(cardOrder))
	for _, m := range cardOrder {
		tier := TierFor(m, vals[m])
		cards = append(cards, StatCard{
			Label: cardLabels[m],
			Value: FormatMetric(m, vals[m]),
			Raw:   vals[m],
			Tier:  tier,
			Color: tier.Color(),
		})
	}
	return cards
}
