package domain

import (
	"testing"

	"rfinder/internal/core/classify"
	perr "rfinder/internal/platform/errors"
)

func TestRunConfigValidate(t *testing.T) {
	ok := RunConfig{Method: classify.Random, Amount: 5, Years: []string{"2010"}}
	if err := ok.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name  string
		mut   func(*RunConfig)
		field string
	}{
		{"missing method", func(c *RunConfig) { c.Method = "" }, "method"},
		{"zero amount", func(c *RunConfig) { c.Amount = 0 }, "amount"},
		{"too many workers", func(c *RunConfig) { c.Workers = 100 }, "workers"},
		{"bad range", func(c *RunConfig) { c.IDMin, c.IDMax = 10, 5 }, "id_min"},
		{"half range", func(c *RunConfig) { c.IDMin = 10 }, "id_min"},
		{"unknown year", func(c *RunConfig) { c.Years = []string{"1999"} }, "years"},
		{"len order", func(c *RunConfig) { c.MinLen, c.MaxLen = 8, 4 }, "min_len"},
		{"bad rap", func(c *RunConfig) { c.RAPMin = "lots" }, "rap_min"},
		{"bad badge", func(c *RunConfig) { c.Badges = []string{"Bored"} }, "badges"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := ok
			tc.mut(&c)
			err := c.Validate()
			e, isOurs := perr.As(err)
			if !isOurs || e.Field() != tc.field {
				t.Fatalf("want error on %q, got %v", tc.field, err)
			}
		})
	}

	nonstop := RunConfig{Method: classify.Nonstop}
	if err := nonstop.Validate(); err != nil {
		t.Fatalf("nonstop needs no amount: %v", err)
	}
}

func TestFormatting(t *testing.T) {
	cases := map[int64]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -2500: "-2,500"}
	for in, want := range cases {
		if got := Thousands(in); got != want {
			t.Fatalf("Thousands(%d) = %q", in, got)
		}
	}
	if RAPString(nil) != "Unknown" || HatsString(nil) != "Unknown" {
		t.Fatalf("unknown rendering")
	}
	h := 3
	if HatsString(&h) != "3" || YesNo(true) != "Yes" {
		t.Fatalf("rendering mismatch")
	}
	if (LogLine{Category: CatFilter, Text: "x"}).String() != "[filter] x" {
		t.Fatalf("log line format")
	}
}
