package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/appspark/waitlist/internal/insights"
	"github.com/appspark/waitlist/internal/stats"
	"github.com/appspark/waitlist/internal/store"
	"github.com/spf13/cobra"
)

var insightsFormat string

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Show aggregated waitlist insights",
	Long: `Show signup totals, questionnaire completion and answer breakdowns.

Examples:
  waitlist insights
  waitlist insights --format json`,
	RunE: runInsights,
}

func init() {
	insightsCmd.Flags().StringVarP(&insightsFormat, "format", "f", "table", "output format (table or json)")
	rootCmd.AddCommand(insightsCmd)
}

func runInsights(cmd *cobra.Command, args []string) error {
	if insightsFormat != "table" && insightsFormat != "json" {
		return fmt.Errorf("invalid format: must be 'table' or 'json'")
	}

	return withStore(func(s store.Store) error {
		agg, err := insights.NewService(s).Fetch(context.Background())
		if err != nil {
			return err
		}

		if insightsFormat == "json" {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(agg)
		}
		printInsights(cmd.OutOrStdout(), agg)
		return nil
	})
}

func printInsights(out io.Writer, agg *insights.Aggregate) {
	ci := stats.CompletionInterval(agg.CompletedQuestionnaires, agg.TotalSignups)

	fmt.Fprintf(out, "SIGNUPS: %s\n", formatNumber(agg.TotalSignups))
	fmt.Fprintf(out, "COMPLETED: %s (%.1f%%", formatNumber(agg.CompletedQuestionnaires), ci.Rate*100)
	if agg.TotalSignups > 0 {
		fmt.Fprintf(out, ", 95%% CI %.1f%%-%.1f%%", ci.Lower*100, ci.Upper*100)
	}
	fmt.Fprintln(out, ")")

	sections := []struct {
		title   string
		entries []insights.Entry
	}{
		{"SIGNUPS BY DATE", agg.SignupsByDate.Sorted()},
		{"INTERESTS", agg.Interests.ByCount()},
		{"PREVIOUS EXPERIENCE", agg.PreviousExperience.ByCount()},
		{"SKILL LEVEL", agg.SkillLevel.ByCount()},
		{"PRIMARY GOAL", agg.PrimaryGoal.ByCount()},
		{"BETA TEST", agg.BetaTest.ByCount()},
	}

	for _, sec := range sections {
		fmt.Fprintln(out)
		fmt.Fprintln(out, sec.title)
		if len(sec.entries) == 0 {
			fmt.Fprintln(out, "  (no responses)")
			continue
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		for _, e := range sec.entries {
			fmt.Fprintf(w, "  %s\t%s\n", e.Label, formatNumber(e.Count))
		}
		w.Flush()
	}
}

func formatNumber(n int) string {
	if n < 1000 {
		return fmt.Sprintf("%d", n)
	}
	if n < 1000000 {
		return fmt.Sprintf("%d,%03d", n/1000, n%1000)
	}
	return fmt.Sprintf("%d,%03d,%03d", n/1000000, (n/1000)%1000, n%1000)
}
