package service

import (
	"context"
	"sync"

	perr "rfinder/internal/platform/errors"
	ptime "rfinder/internal/platform/time"
	"rfinder/internal/services/finder/domain"

	"github.com/google/uuid"
)

const (
	keepMatches = 100
	keepLogs    = 200
)

type tracked struct {
	mu     sync.Mutex
	status domain.RunStatus
	cancel context.CancelFunc
}

// registry keeps background runs queryable after they finish, oldest finished evicted first
type registry struct {
	mu    sync.Mutex
	keep  int
	order []string
	runs  map[string]*tracked
}

func newRegistry(keep int) *registry {
	return &registry{keep: keep, runs: map[string]*tracked{}}
}

func (g *registry) add(t *tracked) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.runs[t.status.ID] = t
	g.order = append(g.order, t.status.ID)
	excess := len(g.order) - g.keep
	if excess <= 0 {
		return
	}
	// running entries are passed over, the oldest finished ones go
	kept := g.order[:0]
	for _, id := range g.order {
		if excess > 0 {
			if old := g.runs[id]; old == nil || old.snapshot().State != domain.RunRunning {
				delete(g.runs, id)
				excess--
				continue
			}
		}
		kept = append(kept, id)
	}
	g.order = kept
}

func (g *registry) get(id string) (*tracked, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	t, ok := g.runs[id]
	return t, ok
}

func (t *tracked) snapshot() domain.RunStatus {
	t.mu.Lock()
	defer t.mu.Unlock()
	st := t.status
	st.Matches = append([]domain.Match(nil), t.status.Matches...)
	st.Logs = append([]string(nil), t.status.Logs...)
	return st
}

func (t *tracked) observe(e domain.Event) {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch ev := e.(type) {
	case domain.MatchFound:
		t.status.Found++
		t.status.Matches = appendCapped(t.status.Matches, ev.Match, keepMatches)
	case domain.LogLine:
		t.status.Logs = appendCapped(t.status.Logs, ev.String(), keepLogs)
	case domain.Finished:
		t.status.Found = ev.Total
	}
}

func appendCapped[T any](s []T, v T, limit int) []T {
	s = append(s, v)
	if len(s) > limit {
		s = s[len(s)-limit:]
	}
	return s
}

// StartRun validates cfg and starts a discovery run in the background
func (s *Svc) StartRun(cfg domain.RunConfig) (string, error) {
	if err := cfg.Validate(); err != nil {
		return "", err
	}
	id := uuid.NewString()
	ctx, cancel := context.WithCancel(context.Background())
	t := &tracked{
		cancel: cancel,
		status: domain.RunStatus{
			ID:        id,
			State:     domain.RunRunning,
			Method:    string(cfg.Method),
			Target:    cfg.Amount,
			StartedAt: s.now().UTC(),
			Matches:   []domain.Match{},
			Logs:      []string{},
		},
	}
	s.runs.add(t)

	go func() {
		defer cancel()
		_, err := s.discover(ctx, id, cfg, t.observe)
		t.mu.Lock()
		defer t.mu.Unlock()
		t.status.FinishedAt = ptime.Ptr(s.now().UTC())
		if err != nil {
			t.status.State = domain.RunFailed
			t.status.Error = err.Error()
			s.log.Warn().Err(err).Str("run_id", id).Msg("background run failed")
			return
		}
		t.status.State = domain.RunFinished
	}()
	return id, nil
}

// RunStatus returns a snapshot of a background run
func (s *Svc) RunStatus(id string) (domain.RunStatus, error) {
	t, ok := s.runs.get(id)
	if !ok {
		return domain.RunStatus{}, perr.NotFoundf("run %q not found", id)
	}
	return t.snapshot(), nil
}

// StopRun asks a background run to stop; in-flight attempts finish and are discarded
func (s *Svc) StopRun(id string) error {
	t, ok := s.runs.get(id)
	if !ok {
		return perr.NotFoundf("run %q not found", id)
	}
	t.mu.Lock()
	if t.status.State == domain.RunRunning {
		t.status.State = domain.RunStopping
	}
	t.mu.Unlock()
	if r, ok := s.activeRun(id); ok {
		r.halt()
	}
	t.cancel()
	return nil
}
