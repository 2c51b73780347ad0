package filter

import (
	"strings"
	"testing"

	perr "rfinder/internal/platform/errors"
)

func i64(v int64) *int64 { return &v }
func intp(v int) *int    { return &v }

func base() Candidate {
	return Candidate{
		ID:       42,
		Username: "builder12",
		RAP:      i64(1500),
		Hats:     intp(3),
		Verified: true,
		Badges:   []string{"Veteran", "Homestead"},
	}
}

func TestCheckClauses(t *testing.T) {
	cases := []struct {
		name   string
		cfg    Config
		mut    func(*Candidate)
		ok     bool
		clause string
	}{
		{name: "zero config passes", ok: true},
		{name: "skip id", cfg: Config{SkipIDs: map[int64]struct{}{42: {}}}, clause: "skip_ids"},
		{name: "too short", cfg: Config{MinLen: 10}, clause: "length"},
		{name: "too long", cfg: Config{MaxLen: 5}, clause: "length"},
		{name: "length counts runes", cfg: Config{MaxLen: 3}, mut: func(c *Candidate) { c.Username = "äöü" }, ok: true},
		{name: "unknown rap rejected", mut: func(c *Candidate) { c.RAP = nil }, clause: "rap unknown"},
		{name: "unknown rap included", cfg: Config{IncludeUnknownRAP: true, RAPMin: i64(10)}, mut: func(c *Candidate) { c.RAP = nil }, ok: true},
		{name: "rap below min", cfg: Config{RAPMin: i64(2500)}, clause: "rap 1500 < 2500"},
		{name: "rap at min", cfg: Config{RAPMin: i64(1500)}, ok: true},
		{name: "hat unknown", cfg: Config{HatMin: intp(1)}, mut: func(c *Candidate) { c.Hats = nil }, clause: "hat count unknown"},
		{name: "hat below", cfg: Config{HatMin: intp(5)}, clause: "hats 3 < 5"},
		{name: "hat unknown without min", mut: func(c *Candidate) { c.Hats = nil }, ok: true},
		{name: "only banned", cfg: Config{Banned: Only}, clause: "banned=No"},
		{name: "only not banned", cfg: Config{Banned: OnlyNot}, mut: func(c *Candidate) { c.Banned = true }, clause: "banned=Yes"},
		{name: "only unverified", cfg: Config{Verified: OnlyNot}, clause: "verified=Yes"},
		{name: "only inactive", cfg: Config{Active: OnlyNot}, ok: true},
		{name: "only active", cfg: Config{Active: Only}, clause: "active=No"},
		{name: "badges subset ok", cfg: Config{RequiredBadges: []string{"Veteran"}}, ok: true},
		{name: "badge missing", cfg: Config{RequiredBadges: []string{"Veteran", "Bloxxer"}}, clause: "missing badge Bloxxer"},
		{name: "first failing clause wins", cfg: Config{MinLen: 20, RAPMin: i64(1 << 40)}, clause: "length"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := base()
			if tc.mut != nil {
				tc.mut(&c)
			}
			ok, clause := Check(tc.cfg, c)
			if ok != tc.ok {
				t.Fatalf("ok=%v clause=%q", ok, clause)
			}
			if !tc.ok && !strings.Contains(clause, tc.clause) {
				t.Fatalf("clause %q does not mention %q", clause, tc.clause)
			}
		})
	}
}

func TestParseTriState(t *testing.T) {
	cases := map[string]TriState{
		"":                All,
		"All":             All,
		"only":            Only,
		"Only banned":     Only,
		"Only verified":   Only,
		"Only active":     Only,
		"not":             OnlyNot,
		"Only not banned": OnlyNot,
		"Only unverified": OnlyNot,
		"Only inactive":   OnlyNot,
	}
	for in, want := range cases {
		got, err := ParseTriState(in)
		if err != nil || got != want {
			t.Fatalf("ParseTriState(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseTriState("sometimes"); !perr.IsCode(err, perr.ErrorCodeInvalidArgument) {
		t.Fatalf("want invalid argument, got %v", err)
	}

	var ts TriState
	if err := ts.UnmarshalText([]byte("Only inactive")); err != nil || ts != OnlyNot {
		t.Fatalf("UnmarshalText = %v, %v", ts, err)
	}
	if b, _ := ts.MarshalText(); string(b) != "not" {
		t.Fatalf("MarshalText = %s", b)
	}
}

func TestPresets(t *testing.T) {
	cases := []struct {
		in   string
		want int64
		none bool
	}{
		{"", 0, true},
		{"Off", 0, true},
		{"2.5k+", 2500, false},
		{"10K+", 10000, false},
		{"1,234", 1234, false},
		{"750+", 750, false},
	}
	for _, tc := range cases {
		got, err := ParseRAPMin(tc.in)
		if err != nil {
			t.Fatalf("ParseRAPMin(%q): %v", tc.in, err)
		}
		if tc.none != (got == nil) || (got != nil && *got != tc.want) {
			t.Fatalf("ParseRAPMin(%q) = %v", tc.in, got)
		}
	}
	if _, err := ParseRAPMin("lots"); err == nil {
		t.Fatalf("expected error")
	}

	h, err := ParseHatMin("5+")
	if err != nil || *h != 5 {
		t.Fatalf("ParseHatMin = %v, %v", h, err)
	}
	if h, _ := ParseHatMin("off"); h != nil {
		t.Fatalf("off should be nil")
	}
	if _, err := ParseHatMin("-1"); err == nil {
		t.Fatalf("expected error for negative")
	}
}

func TestBadgeAllowlist(t *testing.T) {
	if len(BadgeAllowlist) != 12 || !AllowedBadge("Welcome To The Club") || AllowedBadge("Bored") {
		t.Fatalf("allowlist mismatch")
	}
}
