package chart

import (
	"bytes"
	"fmt"
	"io"
	"math"

	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"campaign-insights-go/internal/actionable"
	"campaign-insights-go/internal/aggregator"
	"campaign-insights-go/internal/types"
)

const (
	defaultHeight = 420
	minWidth      = 640
	barWidth      = 28
	maxLabelLen   = 18
)

var seriesColors = map[types.Metric]string{
	types.MetricClicks:      "00D9FF",
	types.MetricImpressions: "7B61FF",
	types.MetricCTR:         "00F5A0",
	types.MetricCVR:         "FFD93D",
	types.MetricCPA:         "FF6B6B",
	types.MetricROAS:        "A78BFA",
}

func hexColor(h string) drawing.Color {
	if len(h) > 0 && h[0] == '#' {
		h = h[1:]
	}
	return drawing.ColorFromHex(h)
}

func shortLabel(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelLen {
		return s
	}
	return string(r[:maxLabelLen-1]) + "…"
}

// Bars renders one metric per partition. Bars are coloured by the
// metric's quality tier.
func Bars(w io.Writer, title string, res aggregator.Result, m types.Metric) error {
	if res.NoData || len(res.Rows) == 0 {
		return Placeholder(w, title)
	}
	bars := make([]gochart.Value, 0, len(res.Rows))
	hi := 0.0
	for _, r := range res.Rows {
		v := r.Metric(m)
		hi = math.Max(hi, v)
		col := hexColor(actionable.ColorFor(m, v))
		if actionable.TierFor(m, v) == actionable.TierNeutral {
			col = hexColor(seriesColors[m])
		}
		bars = append(bars, gochart.Value{
			Label: shortLabel(r.Value),
			Value: v,
			Style: gochart.Style{FillColor: col, StrokeColor: col},
		})
	}
	if hi <= 0 {
		return Placeholder(w, title)
	}

	width := len(bars) * (barWidth + 16)
	if width < minWidth {
		width = minWidth
	}
	graph := gochart.BarChart{
		Title:      fmt.Sprintf("%s: %s", title, m),
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		Width:      width,
		Height:     defaultHeight,
		BarWidth:   barWidth,
		YAxis:      gochart.YAxis{Range: &gochart.ContinuousRange{Min: 0, Max: hi * 1.1}},
		Bars:       bars,
	}
	return render(w, graph.Render)
}

// Normalized draws each metric's 0-100 scaled value across partitions,
// one line per metric.
func Normalized(w io.Writer, title string, res aggregator.Result, metrics []types.Metric) error {
	if res.NoData || !res.Normalized || len(res.Rows) == 0 {
		return Placeholder(w, title)
	}
	n := len(res.Rows)
	xs := make([]float64, n)
	ticks := make([]gochart.Tick, n)
	for i, r := range res.Rows {
		xs[i] = float64(i)
		ticks[i] = gochart.Tick{Value: float64(i), Label: shortLabel(r.Value)}
	}

	var series []gochart.Series
	for _, m := range metrics {
		ys := make([]float64, n)
		for i, r := range res.Rows {
			ys[i] = r.Normalized[m]
		}
		col := hexColor(seriesColors[m])
		series = append(series, gochart.ContinuousSeries{
			Name:    string(m),
			XValues: xs,
			YValues: ys,
			Style:   gochart.Style{StrokeColor: col, StrokeWidth: 2, DotWidth: 4, DotColor: col},
		})
	}

	width := n * 70
	if width < minWidth {
		width = minWidth
	}
	graph := gochart.Chart{
		Title:      title,
		Width:      width,
		Height:     defaultHeight,
		Background: gochart.Style{Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis: gochart.XAxis{
			Ticks: ticks,
			Range: &gochart.ContinuousRange{Min: -0.5, Max: float64(n) - 0.5},
		},
		YAxis:  gochart.YAxis{Range: &gochart.ContinuousRange{Min: 0, Max: 100}},
		Series: series,
	}
	graph.Elements = []gochart.Renderable{gochart.Legend(&graph)}
	return render(w, graph.Render)
}

// Placeholder draws an empty chart carrying the no-data label.
func Placeholder(w io.Writer, title string) error {
	graph := gochart.BarChart{
		Title:      title,
		Background: gochart.Style{Padding: gochart.Box{Top: 40}},
		Width:      minWidth,
		Height:     defaultHeight,
		BarWidth:   barWidth,
		YAxis:      gochart.YAxis{Range: &gochart.ContinuousRange{Min: 0, Max: 1}},
		Bars:       []gochart.Value{{Label: aggregator.NoDataLabel, Value: 0}},
	}
	return render(w, graph.Render)
}

// render buffers the PNG so a failed render never leaves a partial body.
func render(w io.Writer, fn func(gochart.RendererProvider, io.Writer) error) error {
	var buf bytes.Buffer
	if err := fn(gochart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	_, err := buf.WriteTo(w)
	return err
}
