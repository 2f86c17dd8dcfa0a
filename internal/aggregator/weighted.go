package aggregator

import (
	"github.com/samber/lo"

	"campaign-insights-go/internal/types"
)

// weightOf pairs each rate metric with the volume that weights it.
func weightOf(m types.Metric) func(types.Record) float64 {
	switch m {
	case types.MetricCTR:
		return func(r types.Record) float64 { return r.Impressions }
	case types.MetricCVR:
		return func(r types.Record) float64 { return r.Clicks }
	case types.MetricCPA:
		return func(r types.Record) float64 { return r.WeightedConversion }
	case types.MetricROAS:
		return func(r types.Record) float64 { return r.MaxSystemCost }
	}
	return nil
}

// WeightedMean is Σ(v·w)/Σw, or 0 when the weights sum to 0.
func WeightedMean(values, weights []float64) float64 {
	var num, den float64
	for i := range values {
		if i >= len(weights) {
			break
		}
		num += values[i] * weights[i]
		den += weights[i]
	}
	if den == 0 {
		return 0
	}
	return num / den
}

// Weighted computes a metric over a bucket of records. Volume metrics are
// summed; rate metrics use their fixed weighting column.
func Weighted(bucket []types.Record, m types.Metric) float64 {
	switch m {
	case types.MetricClicks:
		return lo.SumBy(bucket, func(r types.Record) float64 { return r.Clicks })
	case types.MetricImpressions:
		return lo.SumBy(bucket, func(r types.Record) float64 { return r.Impressions })
	}
	w := weightOf(m)
	if w == nil {
		return 0
	}
	values := lo.Map(bucket, func(r types.Record, _ int) float64 { return r.Value(m) })
	weights := lo.Map(bucket, func(r types.Record, _ int) float64 { return w(r) })
	return WeightedMean(values, weights)
}

// Totals is the headline row over a whole selection.
type Totals struct {
	Records     int     `json:"records"`
	Impressions float64 `json:"impressions"`
	Clicks      float64 `json:"clicks"`
	CTR         float64 `json:"ctr"`
	CVR         float64 `json:"cvr"`
	CPA         float64 `json:"cpa"`
	ROAS        float64 `json:"roas"`
}

func Total(records []types.Record) Totals {
	return Totals{
		Records:     len(records),
		Impressions: Weighted(records, types.MetricImpressions),
		Clicks:      Weighted(records, types.MetricClicks),
		CTR:         Weighted(records, types.MetricCTR),
		CVR:         Weighted(records, types.MetricCVR),
		CPA:         Weighted(records, types.MetricCPA),
		ROAS:        Weighted(records, types.MetricROAS),
	}
}
