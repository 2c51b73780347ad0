package domain

import (
	"context"
	"time"
)

// FinderPort runs discovery and single lookups
type FinderPort interface {
	Discover(ctx context.Context, cfg RunConfig, emit Emitter) (int, error)
	Lookup(ctx context.Context, username string, emit Emitter) (LookupResult, error)
}

// RunsPort manages background runs started over HTTP
type RunsPort interface {
	StartRun(cfg RunConfig) (string, error)
	RunStatus(id string) (RunStatus, error)
	StopRun(id string) error
}

// Journal persists matches so later runs can skip them
type Journal interface {
	RecordMatch(ctx context.Context, m Match) error
	KnownIDs(ctx context.Context) ([]int64, error)
}

// RunState is the lifecycle of a background run
type RunState string

// Run states
const (
	RunRunning  RunState = "running"
	RunStopping RunState = "stopping"
	RunFinished RunState = "finished"
	RunFailed   RunState = "failed"
)

// RunStatus is a snapshot of a background run
type RunStatus struct {
	ID         string     `json:"id"`
	State      RunState   `json:"state"`
	Method     string     `json:"method"`
	Target     int        `json:"target"`
	Found      int        `json:"found"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	Error      string     `json:"error,omitempty"`
	Matches    []Match    `json:"matches"`
	Logs       []string   `json:"logs"`
}
