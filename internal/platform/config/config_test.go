package config

import (
	"testing"
	"time"

	kit "rfinder/internal/platform/testkit"
)

func TestPrefixAndKey(t *testing.T) {
	root := New()
	f := root.Prefix("FINDER_")
	if got := f.key("WORKERS"); got != "FINDER_WORKERS" {
		t.Fatalf("key() = %q, want %q", got, "FINDER_WORKERS")
	}
	if got := f.Prefix("PG_").key("URL"); got != "FINDER_PG_URL" {
		t.Fatalf("nested key() = %q", got)
	}
}

func TestMustString(t *testing.T) {
	c := New().Prefix("APP_")
	t.Setenv("APP_NAME", "  rfinder ")
	if got := c.MustString("NAME"); got != "rfinder" {
		t.Fatalf("MustString = %q", got)
	}
	kit.MustPanic(t, func() { _ = c.MustString("MISSING") })
}

func TestMustInt(t *testing.T) {
	c := New().Prefix("SVC_")
	t.Setenv("SVC_WORKERS", "  8 ")
	if got := c.MustInt("WORKERS"); got != 8 {
		t.Fatalf("MustInt = %d, want 8", got)
	}
	t.Setenv("SVC_BAD", "x")
	kit.MustPanic(t, func() { _ = c.MustInt("BAD") })
}

func TestMayValues(t *testing.T) {
	c := New().Prefix("M_")
	t.Setenv("M_INT", "12")
	t.Setenv("M_BADINT", "twelve")
	t.Setenv("M_I64", "9,000,000,000")
	t.Setenv("M_F", "2.5")
	t.Setenv("M_B", "true")
	t.Setenv("M_D", "250ms")
	t.Setenv("M_BADD", "soon")
	t.Setenv("M_CSV", " a, ,b ")

	if c.MayInt("INT", 1) != 12 || c.MayInt("BADINT", 1) != 1 || c.MayInt("NONE", 3) != 3 {
		t.Fatalf("MayInt mismatch")
	}
	if c.MayInt64("I64", 0) != 9_000_000_000 {
		t.Fatalf("MayInt64 did not strip separators")
	}
	if c.MayFloat64("F", 0) != 2.5 {
		t.Fatalf("MayFloat64 mismatch")
	}
	if !c.MayBool("B", false) || c.MayBool("NONE", true) != true {
		t.Fatalf("MayBool mismatch")
	}
	if c.MayDuration("D", 0) != 250*time.Millisecond || c.MayDuration("BADD", time.Second) != time.Second {
		t.Fatalf("MayDuration mismatch")
	}
	if got := c.MayCSV("CSV", nil); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("MayCSV = %v", got)
	}
	if c.MayString("NONE", "def") != "def" {
		t.Fatalf("MayString default not used")
	}
}

func TestMayURLAndAddr(t *testing.T) {
	c := New().Prefix("U_")
	t.Setenv("U_GOOD", "https://users.example.com/")
	t.Setenv("U_BAD", "not a url")
	t.Setenv("U_PORT", "8088")
	t.Setenv("U_OOB", "70000")
	t.Setenv("U_ADDR", "127.0.0.1:9000")

	if got := c.MayURL("GOOD", "x"); got != "https://users.example.com" {
		t.Fatalf("MayURL = %q", got)
	}
	if got := c.MayURL("BAD", "https://d"); got != "https://d" {
		t.Fatalf("MayURL invalid = %q", got)
	}
	if got := c.MayAddr("PORT", ":1"); got != ":8088" {
		t.Fatalf("MayAddr port = %q", got)
	}
	if got := c.MayAddr("OOB", ":1"); got != ":1" {
		t.Fatalf("MayAddr oob = %q", got)
	}
	if got := c.MayAddr("ADDR", ":1"); got != "127.0.0.1:9000" {
		t.Fatalf("MayAddr addr = %q", got)
	}
}
