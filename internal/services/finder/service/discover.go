package service

import (
	"context"
	"fmt"
	"strings"

	"rfinder/internal/adapters/roblox"
	"rfinder/internal/core/classify"
	"rfinder/internal/core/filter"
	perr "rfinder/internal/platform/errors"
	"rfinder/internal/services/finder/domain"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type outcome struct {
	match domain.Match
	ok    bool
}

// Discover runs attempts until the target is met, the attempt ceiling is hit, ctx ends or
// Stop is called. It returns the number of emitted matches. Only configuration errors are
// returned; remote failures end the attempt that hit them.
func (s *Svc) Discover(ctx context.Context, cfg domain.RunConfig, emit domain.Emitter) (int, error) {
	return s.discover(ctx, uuid.NewString(), cfg, emit)
}

func (s *Svc) discover(ctx context.Context, id string, cfg domain.RunConfig, emit domain.Emitter) (int, error) {
	p, err := s.compile(ctx, cfg)
	if err != nil {
		return 0, err
	}
	r := s.newRun(ctx, id, p, emit)
	s.track(r)
	defer s.untrack(r)
	release := context.AfterFunc(ctx, r.halt)
	defer release()

	return s.loop(ctx, r), nil
}

func (s *Svc) loop(ctx context.Context, r *run) int {
	p := r.plan
	r.log.Info().Str("method", string(p.method)).Int("target", p.amount).Int("workers", p.workers).Msg("run started")
	r.logf(domain.CatWorker, "%s", p.summary())

	results := make(chan outcome, p.workers)
	var attempts int64
	inflight := 0
	submit := func() {
		attempts++
		inflight++
		n := attempts
		go func() {
			m, ok := s.attempt(ctx, r, n)
			results <- outcome{match: m, ok: ok}
		}()
	}

	for inflight < p.workers && attempts < p.maxAttempts && !r.isDone() {
		submit()
	}

	found := 0
	for inflight > 0 {
		res := <-results
		inflight--
		if r.isDone() {
			continue
		}
		if res.ok {
			found++
			s.accept(ctx, r, res.match)
			if !p.nonstop {
				r.emit(domain.Progress{Found: found, Target: p.amount})
				if found >= p.amount {
					r.halt()
					continue
				}
			}
		}
		if attempts < p.maxAttempts {
			submit()
		}
	}

	// the flag is only raised here by the target, Stop or ctx
	if attempts >= p.maxAttempts && !r.isDone() {
		r.logf(domain.CatWorker, "Reached max attempts.")
	}
	evt := r.log.Info().Int("found", found).Int64("attempts", attempts)
	if p.sink != nil {
		counts := p.sink.Counts()
		totals := zerolog.Dict()
		parts := make([]string, 0, len(counts))
		for _, b := range classify.Buckets {
			totals.Int(string(b), counts[b])
			parts = append(parts, fmt.Sprintf("%s=%d", b, counts[b]))
		}
		evt = evt.Dict("buckets", totals)
		r.logf(domain.CatWorker, "Bucket totals: %s", strings.Join(parts, ", "))
	}
	evt.Msg("run finished")
	r.emit(domain.Finished{Total: found})
	return found
}

// accept routes a nonstop match to its bucket file, then feeds the journal and emits it.
// A match that fits no bucket is still counted and emitted, it just has no file.
func (s *Svc) accept(ctx context.Context, r *run, m domain.Match) {
	if r.plan.sink != nil {
		if b, ok := classify.NonstopBucketOf(m.Account.Username); ok {
			m.Bucket = string(b)
			if _, err := r.plan.sink.Write(b, m.Account.Username); err != nil {
				r.logf(domain.CatWorker, "Failed to write %s to %s: %v", m.Account.Username, m.Bucket, err)
			}
		} else {
			r.logf(domain.CatWorker, "[%d] '%s' fits no nonstop bucket, not written", m.Attempt, m.Account.Username)
		}
	}
	if s.journal != nil {
		if err := s.journal.RecordMatch(ctx, m); err != nil {
			r.log.Warn().Err(err).Int64("user_id", m.Account.ID).Msg("journal write failed")
		}
	}
	r.emit(domain.MatchFound{Match: m})
}

// attempt samples one identifier and walks it through fetch, classify, collect and filter
func (s *Svc) attempt(ctx context.Context, r *run, n int64) (domain.Match, bool) {
	p := r.plan
	if r.isDone() {
		return domain.Match{}, false
	}
	id := p.sampler.Sample()
	if !r.markSeen(id) {
		return domain.Match{}, false
	}
	if p.filter.Skip(id) {
		r.logf(domain.CatFilter, "[%d] %d skipped (in saved IDs skip set)", n, id)
		return domain.Match{}, false
	}

	if !r.throttle.Wait(ctx, r.isDone) {
		return domain.Match{}, false
	}
	user, err := s.remote.UserByID(ctx, id)
	if r.isDone() {
		return domain.Match{}, false
	}
	if err != nil {
		if perr.Throttling(err) {
			if _, moved := r.throttle.RecordFailure(s.config.Backoff); moved {
				r.logf(domain.CatRateLimit, "Rate-limit suspected, backing off for %.1fs", s.config.Backoff.Seconds())
			}
		} else if !perr.IsCode(err, perr.ErrorCodeNotFound) {
			r.log.Debug().Err(err).
				Int64("user_id", id).
				Int("status", roblox.StatusOf(err)).
				Bool("retryable", perr.Retryable(err)).
				Msg("account fetch failed")
		}
		return domain.Match{}, false
	}

	ok, reason := classify.Classify(user.Name, p.method)
	if !ok {
		r.logf(domain.CatMethod, "[%d] %d: '%s' filtered by method (%s) - reason: %s", n, id, user.Name, p.method, reason)
		return domain.Match{}, false
	}

	acct := accountOf(user)
	sig, ok := s.collect(ctx, acct, collectOpts{
		policy:     discoveryPolicy,
		skipActive: p.nonstop,
		logf:       func(format string, a ...any) { r.logf(domain.CatWorker, "[%d] "+format, append([]any{n}, a...)...) },
		maxPages:   s.config.MaxPages,
	})
	if !ok {
		return domain.Match{}, false
	}

	pass, clause := filter.Check(p.filter, filter.Candidate{
		ID:       acct.ID,
		Username: acct.Username,
		RAP:      sig.RAP,
		Hats:     sig.Hats,
		Banned:   acct.Banned,
		Verified: sig.Verified,
		Active:   sig.Active,
		Badges:   sig.Badges,
	})
	if !pass {
		r.logf(domain.CatFilter, "[%d] %d: '%s' filtered (%s)", n, id, acct.Username, clause)
		return domain.Match{}, false
	}

	return domain.Match{
		RunID:   r.id,
		Attempt: n,
		Method:  string(p.method),
		Reason:  reason,
		FoundAt: s.now().UTC(),
		Account: acct,
		Signals: sig,
	}, true
}
