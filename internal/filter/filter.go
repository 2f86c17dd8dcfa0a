package filter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/samber/lo"

	"campaign-insights-go/internal/types"
)

// Predicate is an equality constraint on one field. An empty Value matches
// everything.
type Predicate struct {
	Field types.Field
	Value string
}

// Predicates expands a cascade filter in its fixed application order.
func Predicates(f types.Filter) []Predicate {
	out := make([]Predicate, 0, len(types.FilterFields))
	for _, field := range types.FilterFields {
		out = append(out, Predicate{Field: field, Value: f.ValueOf(field)})
	}
	return out
}

// Records returns the records satisfying every predicate. Comparison is
// case-insensitive on trimmed text. The input slice is not modified.
func Records(records []types.Record, preds ...Predicate) []types.Record {
	out := records
	for _, p := range preds {
		want := strings.TrimSpace(p.Value)
		if want == "" {
			continue
		}
		out = lo.Filter(out, func(r types.Record, _ int) bool {
			return strings.EqualFold(strings.TrimSpace(r.Attr(p.Field)), want)
		})
	}
	if len(out) == len(records) {
		return append([]types.Record(nil), records...)
	}
	return out
}

// Apply is Records with the four-level cascade.
func Apply(records []types.Record, f types.Filter) []types.Record {
	return Records(records, Predicates(f)...)
}

// RequireRows reports ErrEmptyResult for an empty selection.
func RequireRows(records []types.Record, f types.Filter) error {
	if len(records) == 0 {
		return fmt.Errorf("filter %+v: %w", f, types.ErrEmptyResult)
	}
	return nil
}

// Options lists the choices for one cascade level given the selections made
// at the levels before it. Unknown values are not offered.
func Options(records []types.Record, f types.Filter, level types.Field) []string {
	scoped := Apply(records, f.Upto(level))
	values := lo.Uniq(lo.FilterMap(scoped, func(r types.Record, _ int) (string, bool) {
		v := strings.TrimSpace(r.Attr(level))
		return v, v != "" && v != types.Unknown
	}))
	sort.Strings(values)
	return values
}

// Cascade is the option list for every level.
type Cascade struct {
	Objectives    []string `json:"objectives"`
	Advertisers   []string `json:"advertisers"`
	CampaignTypes []string `json:"campaign_types"`
	Campaigns     []string `json:"campaigns"`
}

func BuildCascade(records []types.Record, f types.Filter) Cascade {
	return Cascade{
		Objectives:    Options(records, f, types.FieldObjective),
		Advertisers:   Options(records, f, types.FieldAdvertiser),
		CampaignTypes: Options(records, f, types.FieldCampaignType),
		Campaigns:     Options(records, f, types.FieldCampaign),
	}
}
