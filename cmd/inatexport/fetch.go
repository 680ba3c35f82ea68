package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"inatexport/pkg/config"
	"inatexport/pkg/logger"
	"inatexport/pkg/pipeline"
)

var (
	// Fetch command flags
	daysBack    int
	place       string
	outputDir   string
	rateLimit   float64
	maxRetries  int
	timeout     int
	perPage     int
	review      bool
	locationID  string
	submitterID string
)

// fetchCmd represents the fetch command
var fetchCmd = &cobra.Command{
	Use:   "fetch <species>...",
	Short: "Fetch recent observations for one or more species",
	Long: `Fetch recent observations for the given species names and export
them to CSV.

Each name is resolved against the iNaturalist taxonomy; common and
scientific names both work. Only observations with photos are exported.
Photos are downloaded into a photos/ subdirectory of the output
directory, and an observation's row references them by filename.

With --review, the command writes an interactive HTML page instead of
a CSV. Open it in a browser to inspect each observation's photos,
deselect the ones you don't want, and save the final CSV from there.`,
	Example: `  # Export last 30 days of leafy seadragon sightings
  inatexport fetch "leafy seadragon"

  # Several species, restricted to a region, over 90 days
  inatexport fetch "leafy seadragon" "weedy seadragon" --place "South Australia" --days 90

  # Review the results in a browser before committing to a CSV
  inatexport fetch "Phycodurus eques" --review

  # Slow down for a shared network, write somewhere specific
  inatexport fetch "leafy seadragon" --rate-limit 2.5 --output ./exports`,
	Args: cobra.MinimumNArgs(1),
	RunE: runFetch,
}

func init() {
	rootCmd.AddCommand(fetchCmd)

	fetchCmd.Flags().IntVarP(&daysBack, "days", "d", 30, "how many days back to search")
	fetchCmd.Flags().StringVar(&place, "place", "", "restrict observations to a named place")
	fetchCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory (default: ./inat_data)")
	fetchCmd.Flags().Float64Var(&rateLimit, "rate-limit", 1.0, "seconds between API requests")
	fetchCmd.Flags().IntVar(&maxRetries, "max-retries", 3, "attempts per page request before giving up")
	fetchCmd.Flags().IntVar(&timeout, "timeout", 30, "request timeout in seconds")
	fetchCmd.Flags().IntVar(&perPage, "per-page", 200, "observations per API page (max 200)")
	fetchCmd.Flags().BoolVar(&review, "review", false, "write an interactive review page instead of a CSV")
	fetchCmd.Flags().StringVar(&locationID, "location-id", "", "value for the Encounter.locationID column")
	fetchCmd.Flags().StringVar(&submitterID, "submitter-id", "", "value for the Encounter.submitterID column")
}

func runFetch(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	applyFetchFlags(cmd, cfg, args)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	if err := logger.Initialize(&cfg.Logging); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	log := logger.GetLogger()
	log.WithField("version", version).Info("inatexport starting")

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p, err := pipeline.New(cfg)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx)
	if err != nil {
		log.WithError(err).Error("export failed")
		return err
	}

	printSummary(result)
	return nil
}

// applyFetchFlags overlays command line arguments and explicitly set
// flags onto the loaded configuration.
func applyFetchFlags(cmd *cobra.Command, cfg *config.Config, species []string) {
	cfg.Fetch.Species = cfg.Fetch.Species[:0]
	for _, name := range species {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.Fetch.Species = append(cfg.Fetch.Species, trimmed)
		}
	}

	flags := cmd.Flags()
	if flags.Changed("days") {
		cfg.Fetch.DaysBack = daysBack
	}
	if flags.Changed("place") {
		cfg.Fetch.Place = place
	}
	if flags.Changed("per-page") {
		cfg.Fetch.PerPage = perPage
	}
	if flags.Changed("timeout") {
		cfg.Fetch.RequestTimeout = time.Duration(timeout) * time.Second
	}
	if flags.Changed("output") {
		cfg.Export.OutputDir = outputDir
	}
	if flags.Changed("review") {
		cfg.Export.Review = review
	}
	if flags.Changed("location-id") {
		cfg.Export.LocationID = locationID
	}
	if flags.Changed("submitter-id") {
		cfg.Export.SubmitterID = submitterID
	}
	if flags.Changed("rate-limit") {
		cfg.RateLimit.Delay = time.Duration(rateLimit * float64(time.Second))
	}
	if flags.Changed("max-retries") {
		cfg.Retry.MaxAttempts = maxRetries
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}
	if logFile != "" {
		cfg.Logging.File = logFile
	}
}

func printSummary(result *pipeline.Result) {
	fmt.Printf("\nExported %d observations (%d photos", result.Observations, result.PhotosDownloaded)
	if result.PhotosFailed > 0 {
		fmt.Printf(", %d failed", result.PhotosFailed)
	}
	fmt.Println(")")

	if len(result.SpeciesSkipped) > 0 {
		fmt.Printf("Skipped species with no taxonomy match: %s\n", strings.Join(result.SpeciesSkipped, ", "))
	}

	fmt.Printf("Output: %s\n", result.OutputPath)
}
