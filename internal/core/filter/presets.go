package filter

import (
	"strconv"
	"strings"

	perr "rfinder/internal/platform/errors"
)

// RAPPresets are the named RAP minimums offered by the UI
var RAPPresets = map[string]int64{
	"100+":  100,
	"500+":  500,
	"1k+":   1_000,
	"2.5k+": 2_500,
	"5k+":   5_000,
	"10k+":  10_000,
}

// HatPresets are the named hat minimums offered by the UI
var HatPresets = map[string]int{
	"1+":  1,
	"2+":  2,
	"5+":  5,
	"10+": 10,
}

// BadgeAllowlist is the set of legacy platform badges the collector keeps
var BadgeAllowlist = []string{
	"Combat Initiation",
	"Warrior",
	"Bloxxer",
	"Official Model Maker",
	"Bricksmith",
	"Homestead",
	"Inviter",
	"Ambassador",
	"Friendship",
	"Veteran",
	"Administrator",
	"Welcome To The Club",
}

// AllowedBadge reports whether name is in BadgeAllowlist
func AllowedBadge(name string) bool {
	for _, b := range BadgeAllowlist {
		if b == name {
			return true
		}
	}
	return false
}

// ParseRAPMin accepts a preset label or a plain number ("1,000" allowed). Empty or "off" means no minimum.
func ParseRAPMin(s string) (*int64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "off") {
		return nil, nil
	}
	if v, ok := RAPPresets[strings.ToLower(s)]; ok {
		return &v, nil
	}
	v, err := strconv.ParseInt(strings.TrimSuffix(strings.ReplaceAll(s, ",", ""), "+"), 10, 64)
	if err != nil || v < 0 {
		return nil, perr.WithField(perr.InvalidArgf("invalid RAP minimum %q", s), "rap_min")
	}
	return &v, nil
}

// ParseHatMin accepts a preset label or a plain number. Empty or "off" means no minimum.
func ParseHatMin(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "off") {
		return nil, nil
	}
	if v, ok := HatPresets[s]; ok {
		return &v, nil
	}
	v, err := strconv.Atoi(strings.TrimSuffix(s, "+"))
	if err != nil || v < 0 {
		return nil, perr.WithField(perr.InvalidArgf("invalid hat minimum %q", s), "hat_min")
	}
	return &v, nil
}
