// Package filter is the compound predicate applied to a fully collected account
package filter

import (
	"fmt"
	"strings"
	"unicode/utf8"

	perr "rfinder/internal/platform/errors"
)

// TriState restricts a yes/no attribute
type TriState uint8

const (
	// All accepts both values
	All TriState = iota
	// Only accepts the attribute being true
	Only
	// OnlyNot accepts the attribute being false
	OnlyNot
)

func (t TriState) String() string {
	switch t {
	case Only:
		return "only"
	case OnlyNot:
		return "not"
	default:
		return "all"
	}
}

// MarshalText renders the short form
func (t TriState) MarshalText() ([]byte, error) { return []byte(t.String()), nil }

// UnmarshalText accepts the short forms and the long menu labels
func (t *TriState) UnmarshalText(b []byte) error {
	v, err := ParseTriState(string(b))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// ParseTriState accepts "all", "only", "not" and labels like "Only not banned" or "Only inactive"
func ParseTriState(s string) (TriState, error) {
	switch k := strings.ToLower(strings.TrimSpace(s)); k {
	case "", "all":
		return All, nil
	case "only", "yes", "only banned", "only verified", "only active":
		return Only, nil
	case "not", "no", "only not banned", "only unverified", "only inactive":
		return OnlyNot, nil
	default:
		return All, perr.InvalidArgf("unknown tri-state filter %q", s)
	}
}

// Accepts reports whether v passes t
func (t TriState) Accepts(v bool) bool {
	switch t {
	case Only:
		return v
	case OnlyNot:
		return !v
	default:
		return true
	}
}

// Config holds the user thresholds; zero values disable a clause
type Config struct {
	SkipIDs map[int64]struct{}

	MinLen int
	MaxLen int

	RAPMin            *int64
	IncludeUnknownRAP bool
	HatMin            *int

	Banned   TriState
	Verified TriState
	Active   TriState

	RequiredBadges []string
}

// Skip reports whether id is in the skip set
func (c Config) Skip(id int64) bool {
	_, ok := c.SkipIDs[id]
	return ok
}

// Candidate is what the filter sees of a collected account. Nil RAP or Hats means unknown.
type Candidate struct {
	ID       int64
	Username string
	RAP      *int64
	Hats     *int
	Banned   bool
	Verified bool
	Active   bool
	Badges   []string
}

// Check runs the clauses in order and returns the first failing one
func Check(c Config, in Candidate) (bool, string) {
	if c.Skip(in.ID) {
		return false, "skip_ids"
	}

	n := utf8.RuneCountInString(in.Username)
	if c.MinLen > 0 && n < c.MinLen {
		return false, fmt.Sprintf("length %d < %d", n, c.MinLen)
	}
	if c.MaxLen > 0 && n > c.MaxLen {
		return false, fmt.Sprintf("length %d > %d", n, c.MaxLen)
	}

	if in.RAP == nil {
		if !c.IncludeUnknownRAP {
			return false, "rap unknown"
		}
	} else if c.RAPMin != nil && *in.RAP < *c.RAPMin {
		return false, fmt.Sprintf("rap %d < %d", *in.RAP, *c.RAPMin)
	}

	if c.HatMin != nil {
		if in.Hats == nil {
			return false, "hat count unknown"
		}
		if *in.Hats < *c.HatMin {
			return false, fmt.Sprintf("hats %d < %d", *in.Hats, *c.HatMin)
		}
	}

	if !c.Banned.Accepts(in.Banned) {
		return false, "banned=" + yesNo(in.Banned)
	}
	if !c.Verified.Accepts(in.Verified) {
		return false, "verified=" + yesNo(in.Verified)
	}
	if !c.Active.Accepts(in.Active) {
		return false, "active=" + yesNo(in.Active)
	}

	if len(c.RequiredBadges) > 0 {
		have := make(map[string]struct{}, len(in.Badges))
		for _, b := range in.Badges {
			have[b] = struct{}{}
		}
		for _, want := range c.RequiredBadges {
			if _, ok := have[want]; !ok {
				return false, "missing badge " + want
			}
		}
	}
	return true, ""
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
