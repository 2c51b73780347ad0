// Package activity guesses whether an account is still in use from a handful of weak signals
package activity

import (
	"strings"
)

// OldAccountYear is the last creation year for which an empty private inventory counts as activity
const OldAccountYear = 2014

// Inputs are the signals gathered for one account. Nil pointers mean the signal could not be read.
type Inputs struct {
	Username    string
	DisplayName string
	// CreatedYear is 0 when the creation date is missing or unparsable
	CreatedYear int
	PlaidHat    *bool
	IsR15       *bool
	RAPKnown    bool
	RAPItems    int
}

// Policy decides the verdict when no signal is decisive
type Policy struct {
	Name          string
	DefaultActive bool
}

// The two call paths disagree on the undecided default; both are kept as named policies.
var (
	DiscoveryPolicy = Policy{Name: "discovery", DefaultActive: false}
	LookupPolicy    = Policy{Name: "lookup", DefaultActive: true}
)

// Verdict is the outcome of Evaluate
type Verdict struct {
	Active bool
	// Defaulted is true when the policy default was applied
	Defaulted bool
	Reasons   []string

	DistinctDisplayName bool
	OldPublicInventory  bool
}

// Reason joins all contributing reasons for logging
func (v Verdict) Reason() string {
	if len(v.Reasons) == 0 {
		return "no signals"
	}
	return strings.Join(v.Reasons, ", ")
}

// DistinctDisplayName reports whether display is non-blank and differs from username
func DistinctDisplayName(username, display string) bool {
	return strings.TrimSpace(display) != "" && display != username
}

// OldPublicInventory is the "old account whose inventory now reads as private" signal
func OldPublicInventory(createdYear int, rapKnown bool, rapItems int) bool {
	return createdYear > 0 && createdYear <= OldAccountYear && !rapKnown && rapItems == 0
}

// Evaluate applies the signals in order; any positive signal marks the account active.
// With no positive signal an R15 avatar means inactive, otherwise p decides.
func Evaluate(in Inputs, p Policy) Verdict {
	v := Verdict{
		DistinctDisplayName: DistinctDisplayName(in.Username, in.DisplayName),
		OldPublicInventory:  OldPublicInventory(in.CreatedYear, in.RAPKnown, in.RAPItems),
	}
	decided := false
	mark := func(reason string) {
		v.Active = true
		decided = true
		v.Reasons = append(v.Reasons, reason)
	}

	if in.PlaidHat != nil && *in.PlaidHat {
		mark("has_plaid_hat=True")
	}
	if v.DistinctDisplayName {
		mark("has_distinct_display_name=True")
	}
	if v.OldPublicInventory {
		mark("old_public_inventory_signal=True (<=2014, inventory private now)")
	}
	if in.IsR15 != nil && !*in.IsR15 {
		mark("is_r15=False (R6)")
	}
	if decided {
		return v
	}

	if in.PlaidHat != nil && !*in.PlaidHat {
		v.Reasons = append(v.Reasons, "has_plaid_hat=False (no plaid-hat signal)")
	}
	if in.IsR15 != nil && *in.IsR15 {
		v.Active = false
		v.Reasons = append(v.Reasons, "is_r15=True (R15) and no positive signals")
		return v
	}

	v.Active = p.DefaultActive
	v.Defaulted = true
	if p.DefaultActive {
		v.Reasons = append(v.Reasons, "no decisive signals -> default active ("+p.Name+")")
	} else {
		v.Reasons = append(v.Reasons, "no decisive signals -> default inactive ("+p.Name+")")
	}
	return v
}
