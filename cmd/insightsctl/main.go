package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"campaign-insights-go/internal/config"
	"campaign-insights-go/internal/dataset"
	"campaign-insights-go/internal/export"
	"campaign-insights-go/internal/filter"
	"campaign-insights-go/internal/processor"
	"campaign-insights-go/internal/types"
)

var (
	flagFilter types.Filter
	flagFormat string
)

var rootCmd = &cobra.Command{
	Use:   "insightsctl",
	Short: "Offline access to campaign keyword and domain aggregates",
	Long: `insightsctl loads the same keyword and domain tables as the dashboard
service (KEYWORD_DATA_FILE, DOMAIN_DATA_FILE, ROW_LIMIT) and prints or exports
its panels without starting a server.`,
	SilenceUsage: true,
}

var panelsCmd = &cobra.Command{
	Use:   "panels [keyword|domain]",
	Short: "List the panels available for a table",
	Args:  cobra.RangeArgs(0, 1),
	RunE:  runPanels,
}

var aggregateCmd = &cobra.Command{
	Use:   "aggregate <keyword|domain> <panel>",
	Short: "Aggregate a panel for the current filter",
	Args:  cobra.ExactArgs(2),
	RunE:  runAggregate,
}

var exportCmd = &cobra.Command{
	Use:   "export <keyword|domain>",
	Short: "Write the filtered rows as CSV or XLSX",
	Args:  cobra.ExactArgs(1),
	RunE:  runExport,
}

var optionsCmd = &cobra.Command{
	Use:   "options",
	Short: "Print the cascading filter choices",
	Args:  cobra.NoArgs,
	RunE:  runOptions,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flagFilter.Objective, "objective", "", "campaign objective")
	pf.StringVar(&flagFilter.Advertiser, "advertiser", "", "advertiser")
	pf.StringVar(&flagFilter.CampaignType, "campaign-type", "", "campaign type")
	pf.StringVar(&flagFilter.Campaign, "campaign", "", "campaign")
	pf.StringVar(&flagFormat, "format", "table", "output format: table, json, csv or xlsx")

	rootCmd.AddCommand(panelsCmd, aggregateCmd, exportCmd, optionsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func openStore(ctx context.Context) (*dataset.Store, error) {
	store := dataset.Open(ctx, config.Load())
	if err := store.Err(); err != nil {
		return nil, err
	}
	return store, nil
}

func parseSource(s string) (types.Source, error) {
	src, ok := types.ParseSource(s)
	if !ok {
		return "", fmt.Errorf("unknown table %q (want keyword or domain)", s)
	}
	return src, nil
}

func runPanels(cmd *cobra.Command, args []string) error {
	sources := []types.Source{types.SourceKeyword, types.SourceDomain}
	if len(args) == 1 {
		src, err := parseSource(args[0])
		if err != nil {
			return err
		}
		sources = []types.Source{src}
	}
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, src := range sources {
		for _, p := range processor.Panels(src) {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", src, p.Name, p.Title)
		}
	}
	return tw.Flush()
}

func runAggregate(cmd *cobra.Command, args []string) error {
	src, err := parseSource(args[0])
	if err != nil {
		return err
	}
	p, ok := processor.Lookup(src, args[1])
	if !ok {
		return fmt.Errorf("unknown panel %q for %s", args[1], src)
	}
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	recs, err := store.Records(src)
	if err != nil {
		return err
	}
	res := processor.BuildPanel(recs, flagFilter, p)
	if flagFormat == "json" {
		return writeJSON(cmd.OutOrStdout(), res)
	}
	return writeTable(cmd.OutOrStdout(), export.FromResult(p.ExportName, p.PartitionTitle, res))
}

func runExport(cmd *cobra.Command, args []string) error {
	src, err := parseSource(args[0])
	if err != nil {
		return err
	}
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	recs, err := store.Records(src)
	if err != nil {
		return err
	}
	rows := filter.Apply(recs, flagFilter)
	return writeTable(cmd.OutOrStdout(), export.FromRecords("filtered_data", src, rows))
}

func runOptions(cmd *cobra.Command, _ []string) error {
	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	recs, err := store.Records(types.SourceKeyword)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), filter.BuildCascade(recs, flagFilter))
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeTable prints aligned columns, or serialises when --format asks for a file format.
func writeTable(w io.Writer, t export.Table) error {
	switch flagFormat {
	case "json":
		return writeJSON(w, t)
	case "csv", "xlsx":
		f, err := export.ParseFormat(flagFormat)
		if err != nil {
			return err
		}
		return export.Write(w, t, f)
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, row := range append([][]string{t.Header}, t.Rows...) {
		for i, c := range row {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, c)
		}
		fmt.Fprintln(tw)
	}
	return tw.Flush()
}
