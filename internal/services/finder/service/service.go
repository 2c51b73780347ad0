// Package service contains the finder workflows: discovery runs, single lookups and background runs
package service

import (
	"context"
	"sync"
	"time"

	"rfinder/internal/adapters/roblox"
	"rfinder/internal/platform/logger"
	"rfinder/internal/services/finder/domain"
)

// Remote is the subset of the roblox client the finder reads from
type Remote interface {
	UserByID(ctx context.Context, id int64) (roblox.User, error)
	UserIDByName(ctx context.Context, username string) (int64, error)
	OwnsAsset(ctx context.Context, userID, assetID int64) (bool, error)
	AvatarRig(ctx context.Context, userID int64) (roblox.Rig, error)
	Collectibles(ctx context.Context, userID int64, cursor string) (roblox.CollectiblesPage, error)
	HatInventory(ctx context.Context, userID int64, cursor string) (roblox.HatPage, error)
	RobloxBadges(ctx context.Context, userID int64) ([]string, error)
	AvatarHeadshotURL(ctx context.Context, userID int64) (string, error)
}

// Config carries runtime knobs shared by every run
type Config struct {
	// Workers is the default number of in-flight attempts
	Workers int
	// Backoff is how far a rate-limit signal pushes the watermark
	Backoff time.Duration
	// InitialDelay is the watermark offset at run start
	InitialDelay time.Duration
	// OutputDir is the default nonstop output directory
	OutputDir string
	// MaxAttempts caps bounded runs; NonstopMaxAttempts caps nonstop runs
	MaxAttempts        int64
	NonstopMaxAttempts int64
	// MaxPages caps inventory pagination per account
	MaxPages int
	// KeepRuns is how many finished background runs stay queryable
	KeepRuns int
}

const (
	defaultWorkers            = 4
	defaultMaxAttempts        = 500_000
	defaultNonstopMaxAttempts = 10_000_000_000
	defaultMaxPages           = 200
	defaultKeepRuns           = 32
)

func withDefaults(c Config) Config {
	if c.Workers <= 0 {
		c.Workers = defaultWorkers
	}
	if c.Backoff <= 0 {
		c.Backoff = roblox.BackoffWindow
	}
	if c.InitialDelay <= 0 {
		c.InitialDelay = roblox.InitialDelay
	}
	if c.OutputDir == "" {
		c.OutputDir = "output"
	}
	if c.MaxAttempts <= 0 {
		c.MaxAttempts = defaultMaxAttempts
	}
	if c.NonstopMaxAttempts <= 0 {
		c.NonstopMaxAttempts = defaultNonstopMaxAttempts
	}
	if c.MaxPages <= 0 {
		c.MaxPages = defaultMaxPages
	}
	if c.KeepRuns <= 0 {
		c.KeepRuns = defaultKeepRuns
	}
	return c
}

// Svc implements the finder ports
type Svc struct {
	remote  Remote
	journal domain.Journal
	config  Config
	log     *logger.Logger
	now     func() time.Time

	mu     sync.Mutex
	active map[string]*run
	runs   *registry
}

var (
	_ domain.FinderPort = (*Svc)(nil)
	_ domain.RunsPort   = (*Svc)(nil)
)

// New constructs the service. journal may be nil.
func New(remote Remote, journal domain.Journal, cfg Config) *Svc {
	if remote == nil {
		panic("finder.Service requires a non nil Remote")
	}
	cfg = withDefaults(cfg)
	return &Svc{
		remote:  remote,
		journal: journal,
		config:  cfg,
		log:     logger.Named("finder"),
		now:     time.Now,
		active:  map[string]*run{},
		runs:    newRegistry(cfg.KeepRuns),
	}
}

// Stop raises the stop flag of every active run and returns how many were signalled
func (s *Svc) Stop() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.active {
		r.halt()
	}
	return len(s.active)
}

func (s *Svc) track(r *run) {
	s.mu.Lock()
	s.active[r.id] = r
	s.mu.Unlock()
}

func (s *Svc) untrack(r *run) {
	s.mu.Lock()
	delete(s.active, r.id)
	s.mu.Unlock()
}

func (s *Svc) activeRun(id string) (*run, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.active[id]
	return r, ok
}
