package processor

import (
	"errors"
	"fmt"
	"sort"

	"campaign-insights-go/internal/actionable"
	"campaign-insights-go/internal/aggregator"
	"campaign-insights-go/internal/export"
	"campaign-insights-go/internal/filter"
	"campaign-insights-go/internal/logger"
	"campaign-insights-go/internal/types"
)

// EmptyMessage is shown when a selection matches no rows.
const EmptyMessage = "No data for selected filters"

// PreviewPageSize is the number of preview rows per page.
const PreviewPageSize = 30

var previewLimit = map[types.Source]int{
	types.SourceKeyword: 100,
	types.SourceDomain:  100,
}

type PanelView struct {
	Panel  Panel             `json:"panel"`
	Result aggregator.Result `json:"result"`
}

// Dashboard is everything one tab renders for a selection.
type Dashboard struct {
	Source  types.Source          `json:"source"`
	Filter  types.Filter          `json:"filter"`
	Empty   bool                  `json:"empty"`
	Message string                `json:"message,omitempty"`
	Totals  aggregator.Totals     `json:"totals"`
	Stats   []actionable.StatCard `json:"stats"`
	Panels  []PanelView           `json:"panels"`
	Preview export.Table          `json:"preview"`
}

// Select filters records, reporting ErrEmptyResult when nothing matches.
func Select(records []types.Record, f types.Filter) ([]types.Record, error) {
	rows := filter.Apply(records, f)
	return rows, filter.RequireRows(rows, f)
}

// BuildPanel filters then aggregates. An empty selection yields the placeholder.
func BuildPanel(records []types.Record, f types.Filter, p Panel) aggregator.Result {
	rows, err := Select(records, f)
	if errors.Is(err, types.ErrEmptyResult) {
		logger.New().Component("processor").WithField("panel", p.Name).Debug(err.Error())
		return aggregator.Placeholder(p.Options.Field)
	}
	return aggregator.Aggregate(rows, p.Options)
}

// Build assembles a full dashboard tab.
func Build(records []types.Record, src types.Source, f types.Filter) Dashboard {
	log := logger.New().Component("processor").WithField("source", src)
	d := Dashboard{Source: src, Filter: f}

	rows, err := Select(records, f)
	if errors.Is(err, types.ErrEmptyResult) {
		log.WithField("filter", fmt.Sprintf("%+v", f)).Info("empty selection")
		d.Empty = true
		d.Message = EmptyMessage
		d.Stats = actionable.Generate(d.Totals)
		for _, p := range Panels(src) {
			d.Panels = append(d.Panels, PanelView{Panel: p, Result: aggregator.Placeholder(p.Options.Field)})
		}
		d.Preview = Preview(nil, src)
		return d
	}

	d.Totals = aggregator.Total(rows)
	d.Stats = actionable.Generate(d.Totals)
	for _, p := range Panels(src) {
		d.Panels = append(d.Panels, PanelView{Panel: p, Result: aggregator.Aggregate(rows, p.Options)})
	}
	d.Preview = Preview(rows, src)
	log.WithFields(map[string]interface{}{
		"rows":   len(rows),
		"panels": len(d.Panels),
	}).Debug("dashboard built")
	return d
}

// Preview is the top rows by clicks with the tab's display columns.
func Preview(records []types.Record, src types.Source) export.Table {
	sorted := append([]types.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Clicks > sorted[j].Clicks })
	if n := previewLimit[src]; len(sorted) > n {
		sorted = sorted[:n]
	}

	if src == types.SourceDomain {
		t := export.Table{
			Name:   "domain_preview",
			Header: []string{"Domain", "Domain Category", "Clicks", "CTR", "CVR", "CPA", "ROAS"},
		}
		for _, r := range sorted {
			t.Rows = append(t.Rows, []string{
				r.Category(types.FieldDomain), r.Category(types.FieldDomainCategory),
				fmt.Sprintf("%.0f", r.Clicks),
				fmt.Sprintf("%.2f", r.CTR), fmt.Sprintf("%.2f", r.CVR),
				fmt.Sprintf("%.2f", r.CPA), fmt.Sprintf("%.2f", r.ROAS),
			})
		}
		return t
	}

	t := export.Table{
		Name:   "keyword_preview",
		Header: []string{"Keyword", "Clicks", "CTR", "CVR", "CPA", "ROAS", "Campaign Type", "Query Type"},
	}
	for _, r := range sorted {
		t.Rows = append(t.Rows, []string{
			r.Category(types.FieldKeyword), fmt.Sprintf("%.0f", r.Clicks),
			fmt.Sprintf("%.2f", r.CTR), fmt.Sprintf("%.2f", r.CVR),
			fmt.Sprintf("%.2f", r.CPA), fmt.Sprintf("%.2f", r.ROAS),
			r.Category(types.FieldCampaignType), r.Category(types.FieldQueryType),
		})
	}
	return t
}

// Page returns one page of a table; page is 1-based.
func Page(t export.Table, page, size int) export.Table {
	if size <= 0 {
		size = PreviewPageSize
	}
	if page < 1 {
		page = 1
	}
	out := export.Table{Name: t.Name, Header: t.Header}
	start := (page - 1) * size
	if start >= len(t.Rows) {
		return out
	}
	end := start + size
	if end > len(t.Rows) {
		end = len(t.Rows)
	}
	out.Rows = t.Rows[start:end]
	return out
}
