package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ukydev/fleet-lifecycle/internal/analysis"
)

func newAnalyzeCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze FILE",
		Short: "Run every analysis over the assets in FILE",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.checkFormat(); err != nil {
				return err
			}
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			now, err := opts.referenceTime()
			if err != nil {
				return err
			}
			assets, err := loadAssets(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			report, err := engine.AnalyzeFleet(cmd.Context(), assets, now)
			if err != nil {
				return err
			}
			log.WithFields(log.Fields{
				"run_id":   report.RunID,
				"assets":   len(assets),
				"failures": len(report.Failures),
			}).Debug("Analysis completed")

			out := cmd.OutOrStdout()
			if opts.format == "json" {
				return writeJSON(out, report)
			}
			return writeFleetText(out, report)
		},
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func money(v float64) string {
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

func writeFleetText(w io.Writer, report analysis.FleetReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Reference date:\t%s\n", report.ReferenceTime.Format("2006-01-02"))
	fmt.Fprintf(tw, "Assets analyzed:\t%d\n", len(report.Results))
	fmt.Fprintf(tw, "Rejected:\t%d\n", len(report.Failures))
	fmt.Fprintf(tw, "Approaching break-even:\t%d\n", report.Summary.ApproachingBreakEven)
	fmt.Fprintf(tw, "Monthly maintenance:\t%s\n", money(report.Summary.TotalMonthlyCost))
	fmt.Fprintf(tw, "Critical assets:\t%d (%s)\n\n", report.Critical.Count, money(report.Critical.TotalEstimatedCost))

	fmt.Fprintln(tw, "ASSET\tCATEGORY\tBREAK-EVEN\tMONTHS\tRECOMMENDATION\tUPCOMING\tNEXT DUE")
	for _, r := range report.Results {
		breakEven, months, rec := "N/A", "N/A", "N/A"
		if r.BreakEven != nil {
			breakEven = r.BreakEven.BreakEvenDate.String()
			months = fmt.Sprint(r.BreakEven.MonthsToBreakEven)
			rec = string(r.BreakEven.Recommendation)
		}
		next := "-"
		if r.Schedule.NextDue != nil {
			next = r.Schedule.NextDue.String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.AssetID, r.Category, breakEven, months, rec, money(r.Costs.Total), next)
	}

	if len(report.Failures) > 0 {
		fmt.Fprintln(tw, "\nREJECTED\tINDEX\tERROR")
		for _, f := range report.Failures {
			fmt.Fprintf(tw, "%s\t%d\t%s\n", f.AssetID, f.Index, f.Error)
		}
	}
	return tw.Flush()
}
