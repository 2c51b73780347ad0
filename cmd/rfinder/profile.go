package main

import (
	"bufio"
	"bytes"
	"os"
	"strconv"
	"strings"

	"rfinder/internal/core/classify"
	"rfinder/internal/core/filter"
	perr "rfinder/internal/platform/errors"
	"rfinder/internal/services/finder/domain"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"
)

// loadProfile reads a YAML run profile; unknown keys are rejected
func loadProfile(path string) (domain.RunConfig, error) {
	var cfg domain.RunConfig
	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read profile %q", path)
	}
	dec := yaml.NewDecoder(bytes.NewReader(raw))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return cfg, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "parse profile %q", path)
	}
	return cfg, nil
}

// readSkipFile reads one id per line; blank lines and # comments are ignored
func readSkipFile(path string) ([]int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "open skip file %q", path)
	}
	defer f.Close()

	var ids []int64
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		id, err := strconv.ParseInt(line, 10, 64)
		if err != nil || id <= 0 {
			return nil, perr.InvalidArgf("skip file %q line %d: %q is not an id", path, n, line)
		}
		ids = append(ids, id)
	}
	if err := sc.Err(); err != nil {
		return nil, perr.Wrapf(err, perr.ErrorCodeInvalidArgument, "read skip file %q", path)
	}
	return ids, nil
}

// runFlags mirrors RunConfig on the command line
type runFlags struct {
	profile  string
	skipFile string

	method      string
	amount      int
	workers     int
	years       []string
	idMin       int64
	idMax       int64
	minLen      int
	maxLen      int
	rapMin      string
	unknownRAP  bool
	hatMin      string
	banned      string
	verified    string
	active      string
	badges      []string
	skipSaved   bool
	outputDir   string
	maxAttempts int64
}

func (f *runFlags) bind(fs *pflag.FlagSet) {
	fs.StringVar(&f.profile, "profile", "", "YAML run profile; flags override its values")
	fs.StringVar(&f.skipFile, "skip-file", "", "file with one account id per line to skip")
	fs.StringVarP(&f.method, "method", "m", string(classify.Random), "username method (see `rfinder methods`)")
	fs.IntVarP(&f.amount, "amount", "n", 10, "matches to find; ignored by nonstop")
	fs.IntVarP(&f.workers, "workers", "w", 0, "in-flight attempts (default from FINDER_WORKERS)")
	fs.StringSliceVarP(&f.years, "years", "y", nil, "year buckets to sample (see `rfinder years`)")
	fs.Int64Var(&f.idMin, "id-min", 0, "lower id bound; replaces --years")
	fs.Int64Var(&f.idMax, "id-max", 0, "upper id bound; replaces --years")
	fs.IntVar(&f.minLen, "min-len", 0, "minimum username length")
	fs.IntVar(&f.maxLen, "max-len", 0, "maximum username length")
	fs.StringVar(&f.rapMin, "rap-min", "", "minimum RAP: a number or one of 100+, 500+, 1k+, 2.5k+, 5k+, 10k+")
	fs.BoolVar(&f.unknownRAP, "include-unknown-rap", false, "keep accounts whose RAP could not be read")
	fs.StringVar(&f.hatMin, "hat-min", "", "minimum hat count: a number or 1+ ... 10+")
	fs.StringVar(&f.banned, "banned", "all", "all, only or not")
	fs.StringVar(&f.verified, "verified", "all", "all, only or not")
	fs.StringVar(&f.active, "active", "all", "all, only or not")
	fs.StringSliceVar(&f.badges, "badge", nil, "required badge; repeatable (see `rfinder badges`)")
	fs.BoolVar(&f.skipSaved, "skip-saved", false, "skip ids already in the match journal")
	fs.StringVarP(&f.outputDir, "output-dir", "o", "", "nonstop output directory")
	fs.Int64Var(&f.maxAttempts, "max-attempts", 0, "attempt ceiling (default 500000, nonstop 10^10)")
}

// resolve starts from the profile, if any, and applies every flag the user set
func (f *runFlags) resolve(fs *pflag.FlagSet) (domain.RunConfig, error) {
	var cfg domain.RunConfig
	if f.profile != "" {
		p, err := loadProfile(f.profile)
		if err != nil {
			return cfg, err
		}
		cfg = p
	}
	set := func(name string) bool { return f.profile == "" || fs.Changed(name) }

	if set("method") {
		cfg.Method = classify.Method(f.method)
	}
	if set("amount") {
		cfg.Amount = f.amount
	}
	if set("workers") {
		cfg.Workers = f.workers
	}
	if set("years") {
		cfg.Years = f.years
	}
	if set("id-min") {
		cfg.IDMin = f.idMin
	}
	if set("id-max") {
		cfg.IDMax = f.idMax
	}
	if set("min-len") {
		cfg.MinLen = f.minLen
	}
	if set("max-len") {
		cfg.MaxLen = f.maxLen
	}
	if set("rap-min") {
		cfg.RAPMin = f.rapMin
	}
	if set("include-unknown-rap") {
		cfg.IncludeUnknownRAP = f.unknownRAP
	}
	if set("hat-min") {
		cfg.HatMin = f.hatMin
	}
	for flag, dst := range map[string]*filter.TriState{"banned": &cfg.Banned, "verified": &cfg.Verified, "active": &cfg.Active} {
		if !set(flag) {
			continue
		}
		v, _ := fs.GetString(flag)
		t, err := filter.ParseTriState(v)
		if err != nil {
			return cfg, perr.WithField(err, flag)
		}
		*dst = t
	}
	if set("badge") {
		cfg.Badges = f.badges
	}
	if set("skip-saved") {
		cfg.SkipSaved = f.skipSaved
	}
	if set("output-dir") {
		cfg.OutputDir = f.outputDir
	}
	if set("max-attempts") {
		cfg.MaxAttempts = f.maxAttempts
	}
	if f.skipFile != "" {
		ids, err := readSkipFile(f.skipFile)
		if err != nil {
			return cfg, err
		}
		cfg.SkipIDs = append(cfg.SkipIDs, ids...)
	}
	return cfg, nil
}
