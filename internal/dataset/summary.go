package dataset

import (
	"sort"

	"campaign-insights-go/internal/logger"
	"campaign-insights-go/internal/types"
)

// TableSummary is a compact description of a loaded table.
type TableSummary struct {
	Source           types.Source           `json:"source"`
	Path             string                 `json:"path"`
	TotalRows        int                    `json:"total_rows"`
	ResolvedColumns  map[types.Field]string `json:"resolved_columns"`
	MissingColumns   []types.Field          `json:"missing_columns,omitempty"`
	ByObjective      map[string]int         `json:"rows_by_objective"`
	TopAdvertisersBy map[string][]string    `json:"top_advertisers_by_objective"`
	TotalClicks      float64                `json:"total_clicks"`
}

// Summarize counts rows per objective and the three advertisers with the
// most clicks under each objective.
func Summarize(t *Table) TableSummary {
	log := logger.New().Component("dataset.summary").WithField("source", t.Source)

	byObjective := map[string]int{}
	clicks := map[string]map[string]float64{}
	total := 0.0
	for _, r := range t.Records {
		obj := r.Category(types.FieldObjective)
		adv := r.Category(types.FieldAdvertiser)
		byObjective[obj]++
		if _, ok := clicks[obj]; !ok {
			clicks[obj] = map[string]float64{}
		}
		clicks[obj][adv] += r.Clicks
		total += r.Clicks
	}

	top := map[string][]string{}
	for obj, m := range clicks {
		type ac struct {
			a string
			c float64
		}
		var arr []ac
		for k, v := range m {
			arr = append(arr, ac{k, v})
		}
		sort.Slice(arr, func(i, j int) bool {
			if arr[i].c != arr[j].c {
				return arr[i].c > arr[j].c
			}
			return arr[i].a < arr[j].a
		})
		names := []string{}
		for i := 0; i < len(arr) && i < 3; i++ {
			names = append(names, arr[i].a)
		}
		top[obj] = names
	}

	s := TableSummary{
		Source:           t.Source,
		Path:             t.Path,
		TotalRows:        len(t.Records),
		ResolvedColumns:  t.Columns,
		MissingColumns:   t.Missing,
		ByObjective:      byObjective,
		TopAdvertisersBy: top,
		TotalClicks:      total,
	}
	log.WithFields(map[string]interface{}{
		"total_rows": s.TotalRows,
		"objectives": len(s.ByObjective),
		"missing":    len(s.MissingColumns),
	}).Debug("table summarized")
	return s
}
