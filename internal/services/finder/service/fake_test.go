package service

import (
	"context"
	"sync"
	"time"

	"rfinder/internal/adapters/roblox"
	perr "rfinder/internal/platform/errors"
	"rfinder/internal/services/finder/domain"
)

// fakeRemote answers every read from fixed fields; user builds the account document
type fakeRemote struct {
	mu          sync.Mutex
	inflight    int
	maxInflight int
	userCalls   int

	delay time.Duration
	user  func(call int, id int64) (roblox.User, error)

	nameToID map[string]int64
	owns     bool
	ownsErr  error
	rig      roblox.Rig
	rigErr   error
	pages    []roblox.CollectiblesPage
	pageErr  map[string]error
	hatPages []roblox.HatPage
	badges   []string
	headshot string
}

func newFake() *fakeRemote {
	rap := int64(250)
	return &fakeRemote{
		rig:      roblox.RigR15,
		pages:    []roblox.CollectiblesPage{{Items: []roblox.Collectible{{Name: "Hat", AssetID: 1, RAP: &rap}}}},
		hatPages: []roblox.HatPage{{Count: 2}},
		user: func(_ int, id int64) (roblox.User, error) {
			return roblox.User{ID: id, Name: "someone", DisplayName: "someone", Created: "2016-01-02T00:00:00Z"}, nil
		},
	}
}

func (f *fakeRemote) UserByID(ctx context.Context, id int64) (roblox.User, error) {
	f.mu.Lock()
	f.userCalls++
	call := f.userCalls
	f.inflight++
	f.maxInflight = max(f.maxInflight, f.inflight)
	f.mu.Unlock()
	defer func() {
		f.mu.Lock()
		f.inflight--
		f.mu.Unlock()
	}()
	if f.delay > 0 {
		select {
		case <-ctx.Done():
			return roblox.User{}, perr.Wrap(ctx.Err(), perr.ErrorCodeTransport, "cancelled")
		case <-time.After(f.delay):
		}
	}
	return f.user(call, id)
}

func (f *fakeRemote) UserIDByName(_ context.Context, username string) (int64, error) {
	if id, ok := f.nameToID[username]; ok {
		return id, nil
	}
	return 0, perr.NotFoundf("no user %q", username)
}

func (f *fakeRemote) OwnsAsset(context.Context, int64, int64) (bool, error) {
	return f.owns, f.ownsErr
}

func (f *fakeRemote) AvatarRig(context.Context, int64) (roblox.Rig, error) {
	return f.rig, f.rigErr
}

func (f *fakeRemote) Collectibles(_ context.Context, _ int64, cursor string) (roblox.CollectiblesPage, error) {
	if err := f.pageErr[cursor]; err != nil {
		return roblox.CollectiblesPage{}, err
	}
	i := 0
	if cursor != "" {
		i = int(cursor[0] - '0')
	}
	if i >= len(f.pages) {
		return roblox.CollectiblesPage{}, nil
	}
	return f.pages[i], nil
}

func (f *fakeRemote) HatInventory(_ context.Context, _ int64, cursor string) (roblox.HatPage, error) {
	i := 0
	if cursor != "" {
		i = int(cursor[0] - '0')
	}
	if i >= len(f.hatPages) {
		return roblox.HatPage{}, nil
	}
	return f.hatPages[i], nil
}

func (f *fakeRemote) RobloxBadges(context.Context, int64) ([]string, error) {
	return f.badges, nil
}

func (f *fakeRemote) AvatarHeadshotURL(context.Context, int64) (string, error) {
	if f.headshot == "" {
		return "", perr.NotFoundf("no headshot")
	}
	return f.headshot, nil
}

func (f *fakeRemote) stats() (calls, maxInflight int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.userCalls, f.maxInflight
}

// recorder collects events from any goroutine
type recorder struct {
	mu     sync.Mutex
	events []domain.Event
}

func (r *recorder) emit(e domain.Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

func (r *recorder) all() []domain.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]domain.Event(nil), r.events...)
}

func (r *recorder) matches() []domain.Match {
	var out []domain.Match
	for _, e := range r.all() {
		if m, ok := e.(domain.MatchFound); ok {
			out = append(out, m.Match)
		}
	}
	return out
}

func (r *recorder) logs(cat domain.Category) []string {
	var out []string
	for _, e := range r.all() {
		if l, ok := e.(domain.LogLine); ok && l.Category == cat {
			out = append(out, l.Text)
		}
	}
	return out
}

type fakeJournal struct {
	mu    sync.Mutex
	known []int64
	saved []domain.Match
	err   error
}

func (j *fakeJournal) RecordMatch(_ context.Context, m domain.Match) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.saved = append(j.saved, m)
	return nil
}

func (j *fakeJournal) KnownIDs(context.Context) ([]int64, error) { return j.known, j.err }

func fastConfig() Config {
	return Config{InitialDelay: time.Nanosecond, Backoff: time.Hour}
}
