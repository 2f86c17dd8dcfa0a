package actionable

import (
	"fmt"

	"campaign-insights-go/internal/types"
)

// Tier is a qualitative band for a metric value.
type Tier string

const (
	TierGood    Tier = "good"
	TierFair    Tier = "fair"
	TierPoor    Tier = "poor"
	TierNeutral Tier = "neutral"
)

// Palette
const (
	ColorGood    = "#00F5A0"
	ColorFair    = "#FFD93D"
	ColorPoor    = "#FF6B6B"
	ColorNeutral = "#A78BFA"
)

type threshold struct {
	good, poor    float64
	lowerIsBetter bool
}

var thresholds = map[types.Metric]threshold{
	types.MetricCVR:  {good: 1.0, poor: 0.5},
	types.MetricCPA:  {good: 50, poor: 150, lowerIsBetter: true},
	types.MetricROAS: {good: 3.0, poor: 1.5},
}

// TierFor bands CVR, CPA and ROAS. Other metrics are neutral.
func TierFor(m types.Metric, v float64) Tier {
	th, ok := thresholds[m]
	if !ok {
		return TierNeutral
	}
	if th.lowerIsBetter {
		switch {
		case v <= th.good:
			return TierGood
		case v > th.poor:
			return TierPoor
		}
		return TierFair
	}
	switch {
	case v >= th.good:
		return TierGood
	case v < th.poor:
		return TierPoor
	}
	return TierFair
}

func (t Tier) Color() string {
	switch t {
	case TierGood:
		return ColorGood
	case TierFair:
		return ColorFair
	case TierPoor:
		return ColorPoor
	}
	return ColorNeutral
}

// ColorFor is TierFor(m, v).Color().
func ColorFor(m types.Metric, v float64) string {
	return TierFor(m, v).Color()
}

// FormatMetric renders a value the way the dashboard displays it.
func FormatMetric(m types.Metric, v float64) string {
	switch m {
	case types.MetricClicks, types.MetricImpressions:
		return formatCount(v)
	case types.MetricCTR, types.MetricCVR:
		return fmt.Sprintf("%.2f%%", v)
	case types.MetricCPA:
		return fmt.Sprintf("$%.2f", v)
	case types.MetricROAS:
		return fmt.Sprintf("%.2fx", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func formatCount(v float64) string {
	n := int64(v)
	neg := n < 0
	if neg {
		n = -n
	}
	s := fmt.Sprintf("%d", n)
	var out []byte
	for i := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, s[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
