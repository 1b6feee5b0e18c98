package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ukydev/fleet-lifecycle/internal/analysis"
)

func newCriticalCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "critical FILE",
		Short: "List assets needing immediate attention",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.checkFormat(); err != nil {
				return err
			}
			engine, err := opts.engine()
			if err != nil {
				return err
			}
			assets, err := loadAssets(args[0], cmd.InOrStdin())
			if err != nil {
				return err
			}

			report, failures := engine.CriticalAssets(assets)
			for _, f := range failures {
				log.WithFields(log.Fields{"asset_id": f.AssetID, "index": f.Index}).Warn(f.Error)
			}
			if opts.format == "json" {
				return writeJSON(cmd.OutOrStdout(), report)
			}
			return writeCriticalText(cmd.OutOrStdout(), report)
		},
	}
}

func writeCriticalText(w io.Writer, report analysis.CriticalAssetsReport) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Critical assets:\t%d\n", report.Count)
	fmt.Fprintf(tw, "Estimated cost:\t%s\n\n", money(report.TotalEstimatedCost))
	if report.Count == 0 {
		return tw.Flush()
	}
	fmt.Fprintln(tw, "ASSET\tCATEGORY\tPRIORITY\tCONDITION\tSTATUS\tPREDICTED")
	for _, a := range report.Assets {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Category, orDash(string(a.Priority)), orDash(string(a.Condition)), orDash(string(a.Status)),
			money(analysis.TotalCost(a.Predictions)))
	}
	return tw.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
