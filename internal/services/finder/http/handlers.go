// Package http provides http transport for the finder
package http

import (
	stdhttp "net/http"

	"rfinder/internal/core/classify"
	"rfinder/internal/core/filter"
	"rfinder/internal/core/sample"
	phttp "rfinder/internal/platform/net/http"
	"rfinder/internal/platform/validate"
	"rfinder/internal/services/finder/domain"

	"github.com/go-chi/chi/v5"
)

// Register mounts the finder routes
func Register(r chi.Router, f domain.FinderPort, runs domain.RunsPort) {
	h := &handlers{finder: f, runs: runs}
	r.Get("/lookup/{username}", h.lookup)
	r.Get("/methods", h.methods)
	r.Get("/years", h.years)
	r.Get("/badges", h.badges)
	r.Route("/runs", func(r chi.Router) {
		r.Post("/", h.startRun)
		r.Get("/{id}", h.runStatus)
		r.Post("/{id}/stop", h.stopRun)
	})
}

type handlers struct {
	finder domain.FinderPort
	runs   domain.RunsPort
}

// StartedRun is the body of a 202 after starting a run
type StartedRun struct {
	ID string `json:"id"`
}

// @Summary Look up one account by username
// @Tags Lookup
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} domain.LookupResult "ok"
// @Failure 404 {object} phttp.Envelope "unknown username"
// @Router /lookup/{username} [get]
func (h *handlers) lookup(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	res, err := h.finder.Lookup(r.Context(), chi.URLParam(r, "username"), nil)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondOK(w, r, res)
}

// @Summary Start a background discovery run
// @Tags Runs
// @Accept json
// @Produce json
// @Param payload body domain.RunConfig true "Run config"
// @Success 202 {object} StartedRun "accepted"
// @Failure 400 {object} phttp.Envelope "invalid config"
// @Router /runs/ [post]
func (h *handlers) startRun(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	cfg, err := validate.DecodeJSON[domain.RunConfig](r)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	id, err := h.runs.StartRun(cfg)
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondAccepted(w, r, StartedRun{ID: id})
}

// @Summary Run status with recent matches and log lines
// @Tags Runs
// @Produce json
// @Param id path string true "Run id"
// @Success 200 {object} domain.RunStatus "ok"
// @Router /runs/{id} [get]
func (h *handlers) runStatus(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	st, err := h.runs.RunStatus(chi.URLParam(r, "id"))
	if err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondOK(w, r, st)
}

// @Summary Stop a run
// @Tags Runs
// @Produce json
// @Param id path string true "Run id"
// @Success 202 {object} StartedRun "accepted"
// @Router /runs/{id}/stop [post]
func (h *handlers) stopRun(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	id := chi.URLParam(r, "id")
	if err := h.runs.StopRun(id); err != nil {
		phttp.RespondError(w, r, err)
		return
	}
	phttp.RespondAccepted(w, r, StartedRun{ID: id})
}

// @Summary Username methods
// @Tags Listings
// @Success 200 {array} string
// @Router /methods [get]
func (h *handlers) methods(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	phttp.RespondOK(w, r, classify.Methods)
}

// @Summary Creation year buckets
// @Tags Listings
// @Success 200 {array} string
// @Router /years [get]
func (h *handlers) years(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	phttp.RespondOK(w, r, sample.Labels())
}

// @Summary Badges a run can require
// @Tags Listings
// @Success 200 {array} string
// @Router /badges [get]
func (h *handlers) badges(w stdhttp.ResponseWriter, r *stdhttp.Request) {
	phttp.RespondOK(w, r, filter.BadgeAllowlist)
}
