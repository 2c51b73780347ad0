// Command rfinder discovers accounts whose usernames fit a naming pattern
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"rfinder/internal/core/version"
	"rfinder/internal/modkit"
	"rfinder/internal/platform/config"
	"rfinder/internal/platform/logger"
	"rfinder/internal/platform/store/pg"
	findermod "rfinder/internal/services/finder/module"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "rfinder",
	Short:         "Find accounts by username pattern, value and activity",
	Version:       version.Info().String(),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		opts := logger.FromEnv()
		opts.Component = cmd.Name()
		opts.StaticFields = map[string]string{"version": version.Info().Version}
		logger.Init(opts)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", bad("Error:"), err)
		os.Exit(1)
	}
}

// openModule resolves options, opens the journal database when configured and builds the finder.
// The returned cleanup closes the pool.
func openModule(ctx context.Context, over findermod.Options) (*findermod.Module, func(), error) {
	root := config.New()
	opts := findermod.FromConfig(root).Merge(over)
	deps := modkit.Deps{Log: logger.Named("cmd"), Cfg: root}
	cleanup := func() {}

	if opts.PGURL != "" {
		pool, err := pg.Open(ctx, pg.Config{URL: opts.PGURL, MaxConns: 4, SlowMs: opts.PGSlowMs}, nil)
		if err != nil {
			return nil, cleanup, err
		}
		if err := pg.Ping(ctx, pool); err != nil {
			pool.Close()
			return nil, cleanup, err
		}
		deps.PG = pool
		cleanup = pool.Close
	}

	m, err := findermod.New(ctx, deps, over)
	if err != nil {
		cleanup()
		return nil, func() {}, err
	}
	return m, cleanup, nil
}
