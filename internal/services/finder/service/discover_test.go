package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"rfinder/internal/adapters/roblox"
	"rfinder/internal/core/classify"
	"rfinder/internal/core/filter"
	perr "rfinder/internal/platform/errors"
	"rfinder/internal/platform/testkit"
	"rfinder/internal/services/finder/domain"
)

func TestDiscoverEmitsExactlyAmount(t *testing.T) {
	f := newFake()
	f.delay = 5 * time.Millisecond
	j := &fakeJournal{}
	s := New(f, j, fastConfig())
	rec := &recorder{}

	n, err := s.Discover(context.Background(), domain.RunConfig{Method: classify.Random, Amount: 10, Workers: 4}, rec.emit)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if n != 10 {
		t.Fatalf("found = %d, want 10", n)
	}
	ms := rec.matches()
	if len(ms) != 10 {
		t.Fatalf("match events = %d, want 10", len(ms))
	}
	ids := map[int64]bool{}
	for _, m := range ms {
		if ids[m.Account.ID] {
			t.Fatalf("id %d emitted twice", m.Account.ID)
		}
		ids[m.Account.ID] = true
		if m.Signals.RAP == nil || *m.Signals.RAP != 250 || m.Signals.Active {
			t.Fatalf("unexpected signals %+v", m.Signals)
		}
	}
	if _, peak := f.stats(); peak > 4 {
		t.Fatalf("in-flight peak = %d, want <= 4", peak)
	}

	evs := rec.all()
	fin, ok := evs[len(evs)-1].(domain.Finished)
	if !ok || fin.Total != 10 {
		t.Fatalf("last event = %#v", evs[len(evs)-1])
	}
	var last domain.Progress
	for _, e := range evs {
		if p, ok := e.(domain.Progress); ok {
			last = p
		}
	}
	if last != (domain.Progress{Found: 10, Target: 10}) {
		t.Fatalf("last progress = %+v", last)
	}
	if len(j.saved) != 10 {
		t.Fatalf("journal saw %d matches", len(j.saved))
	}
	testkit.MustContain(t, rec.logs(domain.CatWorker)[0], "Start: sampler=years Any year, method=random, target=10")
}

func TestDiscoverReachesMaxAttempts(t *testing.T) {
	f := newFake()
	f.user = func(_ int, id int64) (roblox.User, error) {
		return roblox.User{ID: id, Name: "abc1"}, nil
	}
	s := New(f, nil, fastConfig())
	rec := &recorder{}

	n, err := s.Discover(context.Background(), domain.RunConfig{Method: classify.Numberless, Amount: 3, MaxAttempts: 20}, rec.emit)
	if err != nil || n != 0 {
		t.Fatalf("Discover = %d, %v", n, err)
	}
	if calls, _ := f.stats(); calls != 20 {
		t.Fatalf("account fetches = %d, want 20", calls)
	}
	method := rec.logs(domain.CatMethod)
	if len(method) != 20 {
		t.Fatalf("method rejections = %d", len(method))
	}
	testkit.MustContain(t, method[0], "filtered by method (numberless)")
	worker := rec.logs(domain.CatWorker)
	if worker[len(worker)-1] != "Reached max attempts." {
		t.Fatalf("last worker line = %q", worker[len(worker)-1])
	}
}

func TestDiscoverStop(t *testing.T) {
	f := newFake()
	f.delay = 10 * time.Millisecond
	s := New(f, nil, fastConfig())
	rec := &recorder{}

	done := make(chan int, 1)
	go func() {
		n, _ := s.Discover(context.Background(), domain.RunConfig{Method: classify.Random, Amount: 1_000_000}, rec.emit)
		done <- n
	}()
	testkit.Eventually(t, 2*time.Second, 5*time.Millisecond, func() bool { return len(rec.matches()) >= 3 }, "no matches before stop")
	if s.Stop() != 1 {
		t.Fatalf("expected one active run")
	}

	select {
	case n := <-done:
		if n != len(rec.matches()) {
			t.Fatalf("returned %d but emitted %d", n, len(rec.matches()))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not stop")
	}
	for _, l := range rec.logs(domain.CatWorker) {
		if l == "Reached max attempts." {
			t.Fatal("a stopped run must not report the attempt ceiling")
		}
	}
	if s.Stop() != 0 {
		t.Fatal("run still tracked after return")
	}
}

func TestDiscoverCancelledContext(t *testing.T) {
	f := newFake()
	f.delay = 10 * time.Millisecond
	s := New(f, nil, fastConfig())
	ctx, cancel := context.WithCancel(context.Background())
	rec := &recorder{}

	done := make(chan struct{})
	go func() {
		_, _ = s.Discover(ctx, domain.RunConfig{Method: classify.Random, Amount: 1_000_000}, rec.emit)
		close(done)
	}()
	testkit.Eventually(t, 2*time.Second, 5*time.Millisecond, func() bool { return len(rec.matches()) >= 1 }, "no matches before cancel")
	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("run ignored cancellation")
	}
}

func TestDiscoverBacksOffOnRateLimit(t *testing.T) {
	f := newFake()
	f.user = func(int, int64) (roblox.User, error) {
		return roblox.User{}, perr.New(perr.ErrorCodeTooManyRequests, "429")
	}
	s := New(f, nil, fastConfig())
	rec := &recorder{}

	done := make(chan struct{})
	go func() {
		_, _ = s.Discover(context.Background(), domain.RunConfig{Method: classify.Random, Amount: 5, Workers: 4}, rec.emit)
		close(done)
	}()
	testkit.Eventually(t, 2*time.Second, 5*time.Millisecond, func() bool {
		return len(rec.logs(domain.CatRateLimit)) > 0
	}, "no rate-limit line")

	// everyone now waits behind the hour-long watermark
	time.Sleep(100 * time.Millisecond)
	if calls, _ := f.stats(); calls > 4 {
		t.Fatalf("account fetches during backoff = %d", calls)
	}
	testkit.MustContain(t, rec.logs(domain.CatRateLimit)[0], "backing off for 3600.0s")

	s.Stop()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("waiting attempts ignored stop")
	}
}

func TestDiscoverSkipsSavedIDs(t *testing.T) {
	f := newFake()
	j := &fakeJournal{known: []int64{1, 2}}
	s := New(f, j, fastConfig())
	rec := &recorder{}

	cfg := domain.RunConfig{Method: classify.Random, Amount: 1, IDMin: 1, IDMax: 2, SkipSaved: true, MaxAttempts: 10}
	n, err := s.Discover(context.Background(), cfg, rec.emit)
	if err != nil || n != 0 {
		t.Fatalf("Discover = %d, %v", n, err)
	}
	if calls, _ := f.stats(); calls != 0 {
		t.Fatalf("skipped ids were fetched %d times", calls)
	}
	skipped := rec.logs(domain.CatFilter)
	if len(skipped) == 0 || len(skipped) > 2 {
		t.Fatalf("skip lines = %v", skipped)
	}
	testkit.MustContain(t, skipped[0], "skipped (in saved IDs skip set)")

	_, err = New(f, nil, fastConfig()).Discover(context.Background(), cfg, nil)
	if !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("skip_saved without journal: %v", err)
	}
}

func TestDiscoverFilterRejection(t *testing.T) {
	f := newFake()
	s := New(f, nil, fastConfig())
	rec := &recorder{}

	cfg := domain.RunConfig{Method: classify.Random, Amount: 1, MaxAttempts: 4, Workers: 1, Verified: filter.Only}
	if n, _ := s.Discover(context.Background(), cfg, rec.emit); n != 0 {
		t.Fatalf("found %d unverified accounts", n)
	}
	lines := rec.logs(domain.CatFilter)
	if len(lines) != 4 {
		t.Fatalf("filter lines = %d", len(lines))
	}
	testkit.MustContain(t, lines[0], "filtered (verified=No)")
}

func TestDiscoverRejectsInvalidConfig(t *testing.T) {
	s := New(newFake(), nil, fastConfig())
	_, err := s.Discover(context.Background(), domain.RunConfig{Method: classify.Random}, nil)
	if !perr.IsCode(err, perr.ErrorCodeValidation) {
		t.Fatalf("err = %v", err)
	}
}

func TestDiscoverNonstopWritesBuckets(t *testing.T) {
	names := []string{"john12", "abcabc7", "qwzx1", "plainname", "a1b2"}
	f := newFake()
	f.user = func(call int, id int64) (roblox.User, error) {
		n := names[(call-1)%len(names)]
		return roblox.User{ID: id, Name: n, DisplayName: n, Created: "2016-01-02T00:00:00Z"}, nil
	}
	dir := t.TempDir()
	s := New(f, nil, fastConfig())
	rec := &recorder{}

	n, err := s.Discover(context.Background(), domain.RunConfig{Method: classify.Nonstop, MaxAttempts: 20, OutputDir: dir}, rec.emit)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	for _, e := range rec.all() {
		if _, ok := e.(domain.Progress); ok {
			t.Fatal("nonstop runs must not report progress")
		}
	}

	want := map[classify.Bucket][]string{}
	expected := 0
	for _, name := range names {
		if b, ok := classify.NonstopBucketOf(name); ok {
			want[b] = append(want[b], name)
			expected++
		}
	}
	if n < expected {
		t.Fatalf("found %d, want at least %d", n, expected)
	}
	for b, list := range want {
		raw, err := os.ReadFile(filepath.Join(dir, string(b)))
		if err != nil {
			t.Fatalf("read %s: %v", b, err)
		}
		lines := strings.Fields(string(raw))
		if len(lines) != len(list) {
			t.Fatalf("%s has %v, want %v", b, lines, list)
		}
	}
	for _, m := range rec.matches() {
		b, _ := classify.NonstopBucketOf(m.Account.Username)
		if m.Bucket != string(b) || m.Signals.Active {
			t.Fatalf("bad nonstop match %+v", m)
		}
	}
	totals := rec.logs(domain.CatWorker)
	testkit.MustContain(t, totals[len(totals)-1], "Bucket totals: ")
}

func TestDiscoverNonstopKeepsUnbucketedMatches(t *testing.T) {
	f := newFake()
	f.user = func(_ int, id int64) (roblox.User, error) {
		return roblox.User{ID: id, Name: "ab1cd", DisplayName: "ab1cd", Created: "2016-01-02T00:00:00Z"}, nil
	}
	dir := t.TempDir()
	j := &fakeJournal{}
	s := New(f, j, fastConfig())
	rec := &recorder{}

	cfg := domain.RunConfig{Method: classify.Nonstop, MaxAttempts: 8, IDMin: 1, IDMax: 1_000_000, IncludeUnknownRAP: true, OutputDir: dir}
	n, err := s.Discover(context.Background(), cfg, rec.emit)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if n != 8 || len(rec.matches()) != 8 || len(j.saved) != 8 {
		t.Fatalf("found=%d matches=%d saved=%d, want 8 each", n, len(rec.matches()), len(j.saved))
	}
	for _, m := range rec.matches() {
		if m.Bucket != "" {
			t.Fatalf("ab1cd routed to %q", m.Bucket)
		}
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	for _, e := range entries {
		if raw, _ := os.ReadFile(filepath.Join(dir, e.Name())); len(raw) > 0 {
			t.Fatalf("%s written: %q", e.Name(), raw)
		}
	}
	worker := strings.Join(rec.logs(domain.CatWorker), "\n")
	testkit.MustContain(t, worker, "'ab1cd' fits no nonstop bucket, not written")
	for _, l := range rec.logs(domain.CatMethod) {
		t.Fatalf("unexpected method rejection %q", l)
	}
}

func TestDiscoverNonstopSkipsActive(t *testing.T) {
	f := newFake()
	f.user = func(_ int, id int64) (roblox.User, error) {
		return roblox.User{ID: id, Name: "john12", DisplayName: "Johnny"}, nil
	}
	s := New(f, nil, fastConfig())
	rec := &recorder{}

	n, _ := s.Discover(context.Background(), domain.RunConfig{Method: classify.Nonstop, MaxAttempts: 6, OutputDir: t.TempDir()}, rec.emit)
	if n != 0 {
		t.Fatalf("active accounts kept: %d", n)
	}
	worker := rec.logs(domain.CatWorker)
	testkit.MustContain(t, strings.Join(worker, "\n"), "active=Yes (has_distinct_display_name=True)")
	testkit.MustContain(t, worker[0], fmt.Sprintf("active_filter=%s", filter.OnlyNot))
}
