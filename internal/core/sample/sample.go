// Package sample draws candidate account ids, either from an explicit range or from year buckets
package sample

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	perr "rfinder/internal/platform/errors"
)

// Sampler produces one candidate id per call; safe for concurrent use
type Sampler struct {
	mu      sync.Mutex
	rng     *rand.Rand
	buckets []Bucket
	desc    string
}

// Option configures a Sampler
type Option func(*Sampler)

// WithSeed makes draws reproducible
func WithSeed(seed uint64) Option {
	return func(s *Sampler) { s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) }
}

func newSampler(buckets []Bucket, desc string, opts []Option) *Sampler {
	s := &Sampler{
		rng:     rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		buckets: buckets,
		desc:    desc,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// NewRange samples uniformly from [min,max]. Both bounds must be positive and min < max.
func NewRange(min, max int64, opts ...Option) (*Sampler, error) {
	if min <= 0 || max <= 0 || min >= max {
		return nil, perr.InvalidArgf("invalid id range [%d,%d]: need positive bounds and min < max", min, max)
	}
	return newSampler([]Bucket{{Label: "range", Min: min, Max: max}}, fmt.Sprintf("ids %d-%d", min, max), opts), nil
}

// NewYears picks a selected bucket uniformly, then an id uniformly inside it.
// No labels means AnyYear; AnyYear next to other labels collapses to AnyYear alone.
func NewYears(labels []string, opts ...Option) (*Sampler, error) {
	labels = Normalize(labels)
	buckets := make([]Bucket, 0, len(labels))
	for _, l := range labels {
		b, ok := Lookup(l)
		if !ok {
			return nil, perr.WithField(perr.InvalidArgf("unknown year %q", l), "years")
		}
		buckets = append(buckets, b)
	}
	return newSampler(buckets, "years "+strings.Join(labels, ","), opts), nil
}

// Normalize trims and dedups labels, applying the AnyYear rules
func Normalize(labels []string) []string {
	out := make([]string, 0, len(labels))
	seen := map[string]bool{}
	for _, l := range labels {
		l = strings.TrimSpace(l)
		if l == "" || seen[l] {
			continue
		}
		if strings.EqualFold(l, AnyYear) || strings.EqualFold(l, "any") {
			return []string{AnyYear}
		}
		seen[l] = true
		out = append(out, l)
	}
	if len(out) == 0 {
		return []string{AnyYear}
	}
	return out
}

// Sample draws the next candidate id
func (s *Sampler) Sample() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.buckets[0]
	if len(s.buckets) > 1 {
		b = s.buckets[s.rng.IntN(len(s.buckets))]
	}
	return b.Min + s.rng.Int64N(b.Max-b.Min+1)
}

// String describes the distribution, used in the run start log line
func (s *Sampler) String() string { return s.desc }
