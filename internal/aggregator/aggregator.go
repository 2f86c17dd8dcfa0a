package aggregator

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"campaign-insights-go/internal/types"
)

// NoDataLabel is the partition value of the placeholder row.
const NoDataLabel = "No data"

const normEpsilon = 1e-9

// Order selects the final ordering of partitions.
type Order int

const (
	// OrderClicks sorts by total clicks, highest first.
	OrderClicks Order = iota
	// OrderOrdinal sorts by Options.Rank, then by clicks.
	OrderOrdinal
	// OrderNumeric sorts by the numeric partition value, ascending.
	OrderNumeric
)

// SeverityRank orders specificity and urgency levels.
var SeverityRank = map[string]int{"Low": 0, "Medium": 1, "High": 2, types.Unknown: 3}

type Options struct {
	Field types.Field
	// LabelField names each contributor; defaults to the keyword.
	LabelField types.Field
	// TopN contributors listed per partition; 0 disables.
	TopN int
	// Normalize adds 0-100 min-max scaled copies of every metric.
	Normalize bool
	// Limit keeps the K partitions with most clicks; 0 keeps all.
	Limit int
	Order Order
	Rank  map[string]int
}

type Contributor struct {
	Label  string  `json:"label"`
	Clicks float64 `json:"clicks"`
}

// Summary is one output row: a partition value and its metrics.
type Summary struct {
	Value           string                   `json:"value"`
	Records         int                      `json:"records"`
	Clicks          float64                  `json:"clicks"`
	Impressions     float64                  `json:"impressions"`
	CTR             float64                  `json:"ctr"`
	CVR             float64                  `json:"cvr"`
	CPA             float64                  `json:"cpa"`
	ROAS            float64                  `json:"roas"`
	Normalized      map[types.Metric]float64 `json:"normalized,omitempty"`
	Contributors    []Contributor            `json:"contributors,omitempty"`
	TopContributors string                   `json:"top_contributors,omitempty"`
}

func (s Summary) Metric(m types.Metric) float64 {
	switch m {
	case types.MetricClicks:
		return s.Clicks
	case types.MetricImpressions:
		return s.Impressions
	case types.MetricCTR:
		return s.CTR
	case types.MetricCVR:
		return s.CVR
	case types.MetricCPA:
		return s.CPA
	case types.MetricROAS:
		return s.ROAS
	}
	return 0
}

type Result struct {
	Field      types.Field `json:"field"`
	NoData     bool        `json:"no_data"`
	Normalized bool        `json:"normalized"`
	Rows       []Summary   `json:"rows"`
}

// Placeholder is the single-row result shown instead of an empty chart.
func Placeholder(field types.Field) Result {
	return Result{Field: field, NoData: true, Rows: []Summary{{Value: NoDataLabel}}}
}

type bucket struct {
	value   string
	records []types.Record
}

// Aggregate groups records by opts.Field and computes per-partition metrics.
// Steps: group, aggregate, sort by clicks, cap, normalise the kept rows,
// then apply the requested order. Input records are never modified.
func Aggregate(records []types.Record, opts Options) Result {
	if len(records) == 0 {
		return Placeholder(opts.Field)
	}
	labelField := opts.LabelField
	if labelField == "" {
		labelField = types.FieldKeyword
	}

	index := map[string]int{}
	var buckets []*bucket
	for _, r := range records {
		for _, v := range Explode(r, opts.Field) {
			i, ok := index[v]
			if !ok {
				i = len(buckets)
				index[v] = i
				buckets = append(buckets, &bucket{value: v})
			}
			buckets[i].records = append(buckets[i].records, r)
		}
	}
	if len(buckets) == 0 {
		return Placeholder(opts.Field)
	}

	rows := make([]Summary, 0, len(buckets))
	for _, b := range buckets {
		s := Summary{
			Value:       b.value,
			Records:     len(b.records),
			Clicks:      Weighted(b.records, types.MetricClicks),
			Impressions: Weighted(b.records, types.MetricImpressions),
			CTR:         Weighted(b.records, types.MetricCTR),
			CVR:         Weighted(b.records, types.MetricCVR),
			CPA:         Weighted(b.records, types.MetricCPA),
			ROAS:        Weighted(b.records, types.MetricROAS),
		}
		if opts.TopN > 0 {
			s.Contributors = topContributors(b.records, labelField, opts.TopN)
			s.TopContributors = FormatContributors(s.Contributors)
		}
		rows = append(rows, s)
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Clicks > rows[j].Clicks })
	if opts.Limit > 0 && len(rows) > opts.Limit {
		rows = rows[:opts.Limit]
	}

	if opts.Normalize {
		if !normalize(rows) {
			return Placeholder(opts.Field)
		}
	}

	switch opts.Order {
	case OrderOrdinal:
		rank := opts.Rank
		if rank == nil {
			rank = SeverityRank
		}
		sort.SliceStable(rows, func(i, j int) bool {
			return rankOf(rank, rows[i].Value) < rankOf(rank, rows[j].Value)
		})
	case OrderNumeric:
		sort.SliceStable(rows, func(i, j int) bool {
			return numericLess(rows[i].Value, rows[j].Value)
		})
	}

	return Result{Field: opts.Field, Normalized: opts.Normalize, Rows: rows}
}

func topContributors(records []types.Record, labelField types.Field, n int) []Contributor {
	cs := make([]Contributor, len(records))
	for i, r := range records {
		cs[i] = Contributor{Label: r.Category(labelField), Clicks: r.Clicks}
	}
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Clicks > cs[j].Clicks })
	if len(cs) > n {
		cs = cs[:n]
	}
	return cs
}

// FormatContributors renders "label (N clicks)" lines.
func FormatContributors(cs []Contributor) string {
	lines := make([]string, len(cs))
	for i, c := range cs {
		lines[i] = fmt.Sprintf("%s (%d clicks)", c.Label, int64(c.Clicks))
	}
	return strings.Join(lines, "\n")
}

// normalize fills Normalized on every row. It reports false when every
// metric column is constant across rows.
func normalize(rows []Summary) bool {
	for i := range rows {
		rows[i].Normalized = make(map[types.Metric]float64, len(types.Metrics))
	}
	varied := false
	for _, m := range types.Metrics {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range rows {
			v := r.Metric(m)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		if hi > lo {
			varied = true
		}
		for i := range rows {
			rows[i].Normalized[m] = MinMax(rows[i].Metric(m), lo, hi)
		}
	}
	return varied
}

// MinMax scales v into [0, 100]; a constant column maps to 0.
func MinMax(v, lo, hi float64) float64 {
	if hi <= lo {
		return 0
	}
	n := (v - lo) / (hi - lo + normEpsilon) * 100
	return math.Max(0, math.Min(100, n))
}

func rankOf(rank map[string]int, v string) int {
	if r, ok := rank[v]; ok {
		return r
	}
	return len(rank)
}

func numericLess(a, b string) bool {
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	switch {
	case errA == nil && errB == nil:
		return fa < fb
	case errA == nil:
		return true
	}
	return false
}
