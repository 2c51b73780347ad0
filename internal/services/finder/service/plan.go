package service

import (
	"context"
	"fmt"
	"strings"

	"rfinder/internal/adapters/output"
	"rfinder/internal/core/classify"
	"rfinder/internal/core/filter"
	"rfinder/internal/core/sample"
	perr "rfinder/internal/platform/errors"
	"rfinder/internal/services/finder/domain"
)

// plan is a validated RunConfig with every default resolved
type plan struct {
	cfg         domain.RunConfig
	method      classify.Method
	nonstop     bool
	workers     int
	amount      int
	maxAttempts int64
	sampler     *sample.Sampler
	filter      filter.Config
	sink        *output.Sink
}

func (s *Svc) compile(ctx context.Context, cfg domain.RunConfig, opts ...sample.Option) (plan, error) {
	if err := cfg.Validate(); err != nil {
		return plan{}, err
	}
	p := plan{
		cfg:         cfg,
		method:      cfg.Method,
		nonstop:     cfg.Nonstop(),
		workers:     cfg.Workers,
		amount:      cfg.Amount,
		maxAttempts: cfg.MaxAttempts,
	}
	if p.workers <= 0 {
		p.workers = s.config.Workers
	}
	if p.maxAttempts <= 0 {
		p.maxAttempts = s.config.MaxAttempts
		if p.nonstop {
			p.maxAttempts = s.config.NonstopMaxAttempts
		}
	}

	var err error
	if cfg.UseRange() {
		p.sampler, err = sample.NewRange(cfg.IDMin, cfg.IDMax, opts...)
	} else {
		p.sampler, err = sample.NewYears(cfg.Years, opts...)
	}
	if err != nil {
		return plan{}, err
	}

	rapMin, _ := filter.ParseRAPMin(cfg.RAPMin)
	hatMin, _ := filter.ParseHatMin(cfg.HatMin)
	p.filter = filter.Config{
		SkipIDs:           make(map[int64]struct{}, len(cfg.SkipIDs)),
		MinLen:            cfg.MinLen,
		MaxLen:            cfg.MaxLen,
		RAPMin:            rapMin,
		IncludeUnknownRAP: cfg.IncludeUnknownRAP,
		HatMin:            hatMin,
		Banned:            cfg.Banned,
		Verified:          cfg.Verified,
		Active:            cfg.Active,
		RequiredBadges:    cfg.Badges,
	}
	for _, id := range cfg.SkipIDs {
		p.filter.SkipIDs[id] = struct{}{}
	}
	if cfg.SkipSaved {
		if s.journal == nil {
			return plan{}, perr.WithField(perr.InvalidArgf("skip_saved needs a match journal"), "skip_saved")
		}
		ids, err := s.journal.KnownIDs(ctx)
		if err != nil {
			return plan{}, perr.WithOp(err, "finder.compile")
		}
		for _, id := range ids {
			p.filter.SkipIDs[id] = struct{}{}
		}
	}

	if p.nonstop {
		// nonstop only keeps inactive accounts
		p.filter.Active = filter.OnlyNot
		dir := cfg.OutputDir
		if dir == "" {
			dir = s.config.OutputDir
		}
		if p.sink, err = output.Open(dir); err != nil {
			return plan{}, err
		}
	}
	return p, nil
}

// summary is the start-of-run log line
func (p plan) summary() string {
	target := fmt.Sprint(p.amount)
	if p.nonstop {
		target = "unbounded"
	}
	idRange := "off"
	if p.cfg.UseRange() {
		idRange = fmt.Sprintf("%d-%d", p.cfg.IDMin, p.cfg.IDMax)
	}
	badges := "none"
	if len(p.filter.RequiredBadges) > 0 {
		badges = strings.Join(p.filter.RequiredBadges, ", ")
	}
	out := "stdout"
	if p.sink != nil {
		out = p.sink.Dir()
	}
	return fmt.Sprintf(
		"Start: sampler=%s, method=%s, target=%s, workers=%d, rap_min=%s, hat_min=%s, id_range=%s, active_filter=%s, banned_filter=%s, verified_filter=%s, required_badges=%s, skip_ids=%d, output=%s",
		p.sampler, p.method, target, p.workers,
		rapMinString(p.filter.RAPMin), hatMinString(p.filter.HatMin), idRange,
		p.filter.Active, p.filter.Banned, p.filter.Verified, badges, len(p.filter.SkipIDs), out,
	)
}

func rapMinString(r *int64) string {
	if r == nil {
		return "off"
	}
	return domain.RAPString(r)
}

func hatMinString(h *int) string {
	if h == nil {
		return "off"
	}
	return domain.HatsString(h)
}
