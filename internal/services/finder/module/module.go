// Package module wires the finder service and exposes its ports
package module

import (
	"context"

	"rfinder/internal/adapters/roblox"
	"rfinder/internal/modkit"
	"rfinder/internal/modkit/repokit"
	"rfinder/internal/platform/logger"
	phttp "rfinder/internal/platform/net/http"
	fhttp "rfinder/internal/services/finder/http"
	"rfinder/internal/services/finder/domain"
	"rfinder/internal/services/finder/repo"
	"rfinder/internal/services/finder/service"

	"github.com/go-chi/chi/v5"
)

// Module is the finder module
type Module struct {
	deps      modkit.Deps
	opts      Options
	ports     Ports
	journaled int64
}

var _ modkit.Module = (*Module)(nil)

// New constructs the finder module. Options come from env with overrides applied on top.
// When deps.PG is set the match journal table is created before returning.
func New(ctx context.Context, deps modkit.Deps, overrides Options) (*Module, error) {
	opts := FromConfig(deps.Cfg).Merge(overrides)

	client := roblox.NewClient(roblox.Options{
		UsersURL:       opts.UsersURL,
		InventoryURL:   opts.InventoryURL,
		AvatarURL:      opts.AvatarURL,
		AccountInfoURL: opts.AccountInfoURL,
		ThumbnailsURL:  opts.ThumbnailsURL,
		UserAgent:      opts.UserAgent,
		Timeout:        opts.Timeout,
		RPS:            opts.RPS,
		Burst:          opts.Burst,
	})

	var (
		journal   domain.Journal
		journaled int64
	)
	if deps.HasPG() {
		r := repokit.MustBind(repo.NewPG(), deps.PG)
		if err := r.EnsureSchema(ctx); err != nil {
			return nil, err
		}
		n, err := r.CountMatches(ctx)
		if err != nil {
			return nil, err
		}
		logger.Named("finder").Info().Int64("matches", n).Msg("match journal ready")
		journal, journaled = r, n
	}

	svc := service.New(client, journal, service.Config{
		Workers:      opts.Workers,
		Backoff:      opts.Backoff,
		InitialDelay: opts.InitialDelay,
		OutputDir:    opts.OutputDir,
		MaxAttempts:  opts.MaxAttempts,
		MaxPages:     opts.MaxPages,
	})

	return &Module{
		deps:      deps,
		opts:      opts,
		journaled: journaled,
		ports: Ports{
			Finder: svc,
			Runs:   svc,
			Stop:   svc.Stop,
		},
	}, nil
}

// Name returns the module name
func (m *Module) Name() string { return "finder" }

// Ports returns the module ports
func (m *Module) Ports() any { return m.ports }

// Finder returns the typed ports
func (m *Module) Finder() Ports { return m.ports }

// Journaled is the journal size when the module was built, 0 without a database
func (m *Module) Journaled() int64 { return m.journaled }

// Options returns the resolved options
func (m *Module) Options() Options { return m.opts }

// MountRoutes mounts the finder API under /v1 and, when enabled, its docs under /docs
func (m *Module) MountRoutes(r chi.Router) {
	r.Route("/v1", func(r chi.Router) {
		fhttp.Register(r, m.ports.Finder, m.ports.Runs)
	})
	phttp.MountDocs(r, "/docs", m.opts.Docs, fhttp.OpenAPI())
}
