package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"rfinder/internal/adapters/roblox"
	"rfinder/internal/platform/logger"
	"rfinder/internal/services/finder/domain"
)

// run is the state of one discovery run
type run struct {
	id       string
	plan     plan
	emit     domain.Emitter
	throttle *roblox.Throttle
	log      *logger.Logger

	stopped atomic.Bool

	seenMu sync.Mutex
	seen   map[int64]struct{}
}

func (r *run) halt()        { r.stopped.Store(true) }
func (r *run) isDone() bool { return r.stopped.Load() }

// markSeen reports whether id is new to this run
func (r *run) markSeen(id int64) bool {
	r.seenMu.Lock()
	defer r.seenMu.Unlock()
	if _, ok := r.seen[id]; ok {
		return false
	}
	r.seen[id] = struct{}{}
	return true
}

func (r *run) logf(cat domain.Category, format string, a ...any) {
	text := fmt.Sprintf(format, a...)
	r.log.Debug().Str("category", string(cat)).Msg(text)
	r.emit(domain.LogLine{Category: cat, Text: text})
}

func (s *Svc) newRun(ctx context.Context, id string, p plan, emit domain.Emitter) *run {
	if emit == nil {
		emit = domain.Discard
	}
	return &run{
		id:       id,
		plan:     p,
		emit:     emit,
		throttle: roblox.NewThrottle(s.config.InitialDelay),
		log:      logger.C(logger.WithRun(ctx, id)),
		seen:     map[int64]struct{}{},
	}
}
