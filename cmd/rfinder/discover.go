package main

import (
	"encoding/json"
	"fmt"

	"rfinder/internal/services/finder/domain"
	findermod "rfinder/internal/services/finder/module"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	discoverFlags   runFlags
	discoverVerbose bool
	discoverJSON    bool
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Sample random accounts until enough of them match",
	Long: `Sample random account ids, keep those whose username fits the method,
collect their signals and print the ones that pass every filter.

The nonstop method runs until interrupted and appends inactive matches to
per-bucket files in the output directory.

Example:
  $ rfinder discover -m real_name -n 5 -y 2008,2009 --rap-min 1k+ --active not`,
	RunE: runDiscover,
}

func init() {
	discoverFlags.bind(discoverCmd.Flags())
	discoverCmd.Flags().BoolVarP(&discoverVerbose, "verbose", "v", false, "also print method and filter rejections")
	discoverCmd.Flags().BoolVar(&discoverJSON, "json", false, "print matches as JSON lines and nothing else")
	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	cfg, err := discoverFlags.resolve(cmd.Flags())
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()
	mod, cleanup, err := openModule(ctx, findermod.Options{})
	if err != nil {
		return err
	}
	defer cleanup()

	events := make(chan domain.Event, 64)
	out := cmd.OutOrStdout()
	p := printer{out: out, verbose: discoverVerbose}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(events)
		_, err := mod.Finder().Finder.Discover(gctx, cfg, domain.ChanEmitter(events))
		return err
	})
	g.Go(func() error {
		// keep draining after a write error so the run never blocks on a send
		var werr error
		enc := json.NewEncoder(out)
		for e := range events {
			switch {
			case werr != nil:
			case !discoverJSON:
				p.event(e)
			default:
				if m, ok := e.(domain.MatchFound); ok {
					if err := enc.Encode(m.Match); err != nil {
						werr = fmt.Errorf("write match: %w", err)
					}
				}
			}
		}
		return werr
	})
	return g.Wait()
}
