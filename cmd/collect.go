package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/time/rate"

	"github.com/dealhound/dealhound/internal/utils"
	"github.com/dealhound/dealhound/pkg/collector"
	"github.com/dealhound/dealhound/pkg/feeds"
	"github.com/dealhound/dealhound/pkg/scrape"
	"github.com/dealhound/dealhound/pkg/whttp"
)

// collectCmd implements: dealhound collect
//
// Flags:
//
//	--concurrency int   Per-feed page fetch workers
//	--describe          Print each record's full description instead of the short form
//	--abort-on-error    Stop the run at the first failed entry
var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Collect deals from the configured RSS feeds",
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) > 0 {
			return fmt.Errorf("unknown command: '%s'. See 'dealhound collect --help'", args[0])
		}

		sources, err := configuredSources()
		if err != nil {
			return err
		}
		if len(sources) == 0 {
			return fmt.Errorf("no feeds configured. Add a 'feeds' list to ~/.dealhound.yaml")
		}

		concurrency, _ := cmd.Flags().GetInt("concurrency")
		if concurrency <= 0 {
			concurrency = viper.GetInt("collect.concurrency")
		}
		describe, _ := cmd.Flags().GetBool("describe")
		abort, _ := cmd.Flags().GetBool("abort-on-error")

		interval := time.Duration(viper.GetInt("collect.rate_ms")) * time.Millisecond
		if interval <= 0 {
			interval = 500 * time.Millisecond
		}

		cfg := collector.Config{
			Sources:           sources,
			Fetcher:           feeds.NewFetcher(),
			Builder:           scrape.NewBuilder(whttp.NewClient(whttp.DefaultTimeout)),
			Concurrency:       concurrency,
			Limiter:           rate.NewLimiter(rate.Every(interval), 1),
			AbortOnEntryError: abort,
			Log:               utils.Log,
			OnFeedDone: func(source collector.Source, built, failed int) {
				utils.Log.Infof("Feed %s done: %d built, %d failed", source.Category, built, failed)
			},
		}

		result, err := collector.Collect(cmd.Context(), cfg)
		if err != nil {
			return err
		}

		for _, deal := range result.Deals {
			if describe {
				fmt.Println(deal.Describe())
				fmt.Println()
			} else {
				fmt.Println(deal.String())
			}
		}

		utils.Log.Infof("Collected %d deals from %d/%d feeds (%d feed failures, %d entry failures)",
			len(result.Deals), result.FeedsOK, len(sources), len(result.FeedErrors), len(result.EntryErrors))

		if result.FeedsOK == 0 {
			return fmt.Errorf("no feed could be fetched: %d of %d failed", len(result.FeedErrors), len(sources))
		}
		return nil
	},
}

// configuredSources reads the feed list from config. Each item carries a
// url and the category label stamped onto that feed's records.
func configuredSources() ([]collector.Source, error) {
	var raw []map[string]string
	if err := viper.UnmarshalKey("feeds", &raw); err != nil {
		return nil, fmt.Errorf("invalid 'feeds' config: %w", err)
	}

	sources := make([]collector.Source, 0, len(raw))
	for _, item := range raw {
		if item["url"] == "" {
			continue
		}
		sources = append(sources, collector.Source{URL: item["url"], Category: item["category"]})
	}
	return sources, nil
}

func init() {
	collectCmd.Flags().IntP("concurrency", "c", 0, "Per-feed page fetch workers (default from config)")
	collectCmd.Flags().Bool("describe", false, "Print full record descriptions")
	collectCmd.Flags().Bool("abort-on-error", false, "Stop the run at the first failed entry")
	rootCmd.AddCommand(collectCmd)
}
