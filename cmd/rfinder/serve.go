package main

import (
	"rfinder/internal/platform/logger"
	phttp "rfinder/internal/platform/net/http"
	findermod "rfinder/internal/services/finder/module"

	"github.com/go-chi/chi/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve lookups and background runs over HTTP",
	Long: `Serve the finder API:

  GET  /v1/lookup/{username}
  POST /v1/runs            start a run (JSON run config)
  GET  /v1/runs/{id}       run status, recent matches and log lines
  POST /v1/runs/{id}/stop  stop a run
  GET  /v1/methods | /v1/years | /v1/badges
  GET  /docs/             Swagger UI (FINDER_DOCS=false disables it)`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		mod, cleanup, err := openModule(ctx, findermod.Options{HTTPAddr: serveAddr})
		if err != nil {
			return err
		}
		defer cleanup()

		opts := mod.Options()
		srv := phttp.NewServer(opts.HTTPAddr, func(m *chi.Mux) {
			m.Use(phttp.Defaults(phttp.CORSOptions{AllowedOrigins: opts.CORS, MaxAge: 300})...)
			mod.MountRoutes(m)
		})

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error { return srv.Run(gctx) })
		g.Go(func() error {
			<-gctx.Done()
			if n := mod.Finder().Stop(); n > 0 {
				logger.Named("cmd").Info().Int("runs", n).Msg("stopped active runs")
			}
			return nil
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from FINDER_HTTP_ADDR)")
	rootCmd.AddCommand(serveCmd)
}
