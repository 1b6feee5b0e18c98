package main

import (
	"fmt"
	"io"
	"os"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ukydev/fleet-lifecycle/internal/analysis"
	"github.com/ukydev/fleet-lifecycle/internal/config"
	"github.com/ukydev/fleet-lifecycle/internal/models"
)

// options are the flags shared by the analysis commands.
type options struct {
	now       string
	threshold int
	horizons  string
	limit     int
	workers   int
	format    string
	verbose   bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:   "fleetctl",
		Short: "Maintenance and replacement analysis for fleet assets",
		Long: `fleetctl analyzes asset files (YAML or JSON) without a database.

Examples:
  fleetctl analyze fleet.yaml
  fleetctl analyze --now 2024-07-01 --format json fleet.json
  fleetctl critical fleet.yaml
  fleetctl hash-password`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetOutput(cmd.ErrOrStderr())
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&opts.now, "now", "", "reference date YYYY-MM-DD (default today, UTC)")
	flags.IntVar(&opts.threshold, "threshold", analysis.DefaultApproachingThresholdMonths, "months before break-even that trigger replacement")
	flags.StringVar(&opts.horizons, "horizons", "", "projection horizons in months, e.g. 1,3,6,12,24")
	flags.IntVar(&opts.limit, "limit", 0, "maximum predictions shown per asset (0 = all)")
	flags.IntVar(&opts.workers, "workers", 4, "assets analyzed concurrently")
	flags.StringVarP(&opts.format, "format", "f", "text", "output format (text, json)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newAnalyzeCmd(opts))
	root.AddCommand(newCriticalCmd(opts))
	root.AddCommand(newHashPasswordCmd())
	return root
}

// engine builds an engine from the flags.
func (o *options) engine() (*analysis.Engine, error) {
	if o.threshold <= 0 {
		return nil, fmt.Errorf("--threshold must be positive, got %d", o.threshold)
	}
	horizons, err := config.ParseHorizons(o.horizons)
	if err != nil {
		return nil, err
	}
	return analysis.NewEngine(analysis.Config{
		ApproachingThresholdMonths: o.threshold,
		DefaultProjectionHorizons:  horizons,
		MaxItemsPerPredictionList:  o.limit,
		Workers:                    o.workers,
	}), nil
}

// referenceTime resolves --now once per invocation.
func (o *options) referenceTime() (time.Time, error) {
	if o.now == "" {
		return models.DateOf(time.Now()).Time, nil
	}
	d, err := models.ParseDate(o.now)
	if err != nil {
		return time.Time{}, err
	}
	return d.Time, nil
}

func (o *options) checkFormat() error {
	switch o.format {
	case "text", "json":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want text or json)", o.format)
	}
}

// assetFile is the document form of an asset file. A bare list of assets is
// accepted as well.
type assetFile struct {
	Assets []models.Asset `yaml:"assets"`
}

// loadAssets reads assets from a YAML or JSON file; "-" reads stdin.
func loadAssets(path string, stdin io.Reader) ([]models.Asset, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parseAssets(data)
}

func parseAssets(data []byte) ([]models.Asset, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse assets: %w", err)
	}
	if len(doc.Content) == 0 {
		return []models.Asset{}, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		var assets []models.Asset
		if err := root.Decode(&assets); err != nil {
			return nil, fmt.Errorf("failed to decode assets: %w", err)
		}
		return assets, nil
	case yaml.MappingNode:
		var f assetFile
		if err := root.Decode(&f); err != nil {
			return nil, fmt.Errorf("failed to decode assets: %w", err)
		}
		return f.Assets, nil
	default:
		return nil, fmt.Errorf("asset file must be a list or a document with an assets key")
	}
}
