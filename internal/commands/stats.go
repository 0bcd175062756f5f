package commands

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/balkashynov/rangelog/internal/analytics"
	"github.com/balkashynov/rangelog/internal/engine"
	"github.com/balkashynov/rangelog/internal/entitlement"
	"github.com/balkashynov/rangelog/internal/parser"
)

const chartWidth = 40

func newStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Show shooting statistics",
		Long: `Show totals, rounds over time, most-shot firearms and malfunctions.

Ranges: 7d, 30d (default), 90d, ytd, all. Ranges longer than 30 days are a
pro feature (RANGELOG_PRO=true or RANGELOG_FEATURES=extended_history).`,
		Args: cobra.NoArgs,
		RunE: withEngine(func(cmd *cobra.Command, args []string, a *app) error {
			rangeFlag, _ := cmd.Flags().GetString("range")
			r, err := parser.ParseRange(rangeFlag)
			if err != nil {
				return err
			}
			if r.Extended() && !a.gate.Allowed(entitlement.FeatureExtendedHistory) {
				return fmt.Errorf("%s stats: %w", r.Label(), engine.ErrFeatureLocked)
			}
			top, _ := cmd.Flags().GetInt("top")
			by, _ := cmd.Flags().GetString("by")
			if by != "day" && by != "week" {
				return fmt.Errorf("invalid --by '%s'. Use: day or week", by)
			}

			report := analytics.BuildReport(a.engine.Sessions(), r, a.engine.Now(), top)

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			printReport(cmd, report, by)
			return nil
		}),
	}
	statsCmd.Flags().String("range", "30d", "Range: 7d|30d|90d|ytd|all")
	statsCmd.Flags().Int("top", 5, "Number of firearms to rank (0 for all)")
	statsCmd.Flags().String("by", "day", "Chart buckets: day|week")
	statsCmd.Flags().Bool("json", false, "JSON output")
	return statsCmd
}

func printReport(cmd *cobra.Command, report analytics.Report, by string) {
	s := report.Summary
	printf(cmd, "📊 %s\n", report.Range.Label())
	printf(cmd, "%s\n", strings.Repeat("-", 60))
	printf(cmd, "Sessions: %d · Runs: %d · Range time: %s\n", s.Sessions, s.Runs, formatDuration(s.Duration))
	printf(cmd, "Rounds: %d · Malfunctions: %d (%.1f per 1000)\n", s.Rounds, s.Malfunctions, report.Per1000)

	buckets, layout := report.ByDay, "Mon Jan 02"
	if by == "week" {
		buckets, layout = report.ByWeek, "wk Jan 02"
	}
	if len(buckets) > 0 {
		printf(cmd, "\nRounds by %s:\n", by)
		peak := 0
		for _, b := range buckets {
			peak = max(peak, b.Rounds)
		}
		for _, b := range buckets {
			bar := max(1, b.Rounds*chartWidth/peak)
			printf(cmd, "  %-10s %s %d\n", b.Start.Format(layout), strings.Repeat("█", bar), b.Rounds)
		}
	}

	if len(report.TopFirearms) > 0 {
		printf(cmd, "\nMost shot:\n")
		for i, fr := range report.TopFirearms {
			printf(cmd, "  %d. %-34s %6d rds\n", i+1, truncate(fr.Name, 34), fr.Rounds)
		}
	}

	if len(report.Malfunctions) > 0 {
		printf(cmd, "\nMalfunctions:\n")
		for _, kc := range report.Malfunctions {
			printf(cmd, "  %-22s %d\n", kc.Kind.Label(), kc.Count)
		}
	}
}
