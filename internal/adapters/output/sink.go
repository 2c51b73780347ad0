// Package output writes nonstop matches into per-bucket append-only text files
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"rfinder/internal/core/classify"
	perr "rfinder/internal/platform/errors"
	"rfinder/internal/platform/logger"
)

type bucket struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// Sink deduplicates usernames per bucket for the lifetime of one run.
// It does not read existing files, so a new run may repeat names written by an earlier one.
type Sink struct {
	dir string
	log *logger.Logger

	mu      sync.Mutex
	buckets map[classify.Bucket]*bucket

	appendLine func(path, line string) error
}

// Open creates dir if needed and returns an empty Sink writing into it
func Open(dir string) (*Sink, error) {
	if dir == "" {
		dir = "output"
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "resolve output dir %q", dir)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeUnknown, "create output dir %q", abs)
	}
	return &Sink{
		dir:        abs,
		log:        logger.Named("sink"),
		buckets:    map[classify.Bucket]*bucket{},
		appendLine: appendLine,
	}, nil
}

// Dir returns the absolute output directory
func (s *Sink) Dir() string { return s.dir }

func (s *Sink) bucket(b classify.Bucket) *bucket {
	s.mu.Lock()
	defer s.mu.Unlock()
	bk, ok := s.buckets[b]
	if !ok {
		bk = &bucket{seen: map[string]struct{}{}}
		s.buckets[b] = bk
	}
	return bk
}

// Write appends username to the bucket file unless this run already wrote it there.
// The name is remembered even if the write fails, so a failed name is not retried.
func (s *Sink) Write(b classify.Bucket, username string) (bool, error) {
	bk := s.bucket(b)
	bk.mu.Lock()
	defer bk.mu.Unlock()

	if _, dup := bk.seen[username]; dup {
		return false, nil
	}
	bk.seen[username] = struct{}{}

	path := filepath.Join(s.dir, string(b))
	if err := s.appendLine(path, username); err != nil {
		s.log.Warn().Err(err).Str("bucket", string(b)).Str("username", username).Msg("output write failed")
		return false, perr.Wrapf(err, perr.ErrorCodeUnknown, "failed writing to %s", b)
	}
	return true, nil
}

// Counts returns how many distinct names each bucket has seen this run
func (s *Sink) Counts() map[classify.Bucket]int {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[classify.Bucket]int, len(s.buckets))
	for b, bk := range s.buckets {
		bk.mu.Lock()
		out[b] = len(bk.seen)
		bk.mu.Unlock()
	}
	return out
}

func appendLine(path, line string) (err error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	_, err = fmt.Fprintln(f, line)
	return err
}
