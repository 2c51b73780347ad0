// Package domain defines the records, run configuration, events and ports of the finder
package domain

import (
	"time"
)

// Account is the account document as fetched once per surviving attempt
type Account struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	Created     time.Time `json:"created,omitzero"`
	Banned      bool      `json:"banned"`
}

// CreatedYear is 0 when the creation date is unknown
func (a Account) CreatedYear() int {
	if a.Created.IsZero() {
		return 0
	}
	return a.Created.Year()
}

// Item is one collectible counted towards RAP
type Item struct {
	Name    string `json:"name"`
	AssetID int64  `json:"asset_id"`
	RAP     *int64 `json:"rap"`
}

// Signals are derived from the account plus the extra reads. Nil pointers are unknown values.
type Signals struct {
	Verified            bool     `json:"verified"`
	RAP                 *int64   `json:"rap"`
	RAPItems            []Item   `json:"rap_items,omitempty"`
	Hats                *int     `json:"hats"`
	Badges              []string `json:"badges"`
	IsR15               *bool    `json:"is_r15"`
	PlaidHat            *bool    `json:"plaid_hat"`
	DistinctDisplayName bool     `json:"distinct_display_name"`
	Active              bool     `json:"active"`
	ActiveReason        string   `json:"active_reason"`
	// ActiveDefaulted is true when no signal decided Active
	ActiveDefaulted bool `json:"active_defaulted"`
}

// Match is the emitted result of a successful attempt
type Match struct {
	RunID   string    `json:"run_id,omitempty"`
	Attempt int64     `json:"attempt"`
	Method  string    `json:"method"`
	Reason  string    `json:"reason,omitempty"`
	Bucket  string    `json:"bucket,omitempty"`
	FoundAt time.Time `json:"found_at"`

	Account Account `json:"account"`
	Signals Signals `json:"signals"`
}

// LookupResult is the single-username report
type LookupResult struct {
	Account     Account `json:"account"`
	Signals     Signals `json:"signals"`
	HeadshotURL string  `json:"headshot_url,omitempty"`
}

// YesNo renders a flag the way logs and files show it
func YesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// RAPString renders RAP with thousands separators, or "Unknown"
func RAPString(rap *int64) string {
	if rap == nil {
		return "Unknown"
	}
	return Thousands(*rap)
}

// HatsString renders a hat count or "Unknown"
func HatsString(h *int) string {
	if h == nil {
		return "Unknown"
	}
	return Thousands(int64(*h))
}

// Thousands formats n as 1,234,567
func Thousands(n int64) string {
	neg := n < 0
	if neg {
		n = -n
	}
	digits := []byte{}
	for i := 0; ; i++ {
		if i > 0 && i%3 == 0 {
			digits = append(digits, ',')
		}
		digits = append(digits, byte('0'+n%10))
		n /= 10
		if n == 0 {
			break
		}
	}
	if neg {
		digits = append(digits, '-')
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}
	return string(digits)
}
