package main

import (
	"fmt"
	"io"
	"strings"

	"rfinder/internal/services/finder/domain"

	"github.com/fatih/color"
)

var (
	good = color.New(color.FgGreen, color.Bold).SprintFunc()
	bad  = color.New(color.FgRed, color.Bold).SprintFunc()
	warn = color.New(color.FgYellow).SprintFunc()
	dim  = color.New(color.FgHiBlack).SprintFunc()
	who  = color.New(color.FgCyan, color.Bold).SprintFunc()
)

var categoryColor = map[domain.Category]func(a ...any) string{
	domain.CatMethod:    dim,
	domain.CatFilter:    dim,
	domain.CatRateLimit: warn,
	domain.CatWorker:    color.New(color.FgBlue).SprintFunc(),
	domain.CatLookup:    color.New(color.FgMagenta).SprintFunc(),
}

// printer renders events as text; verbose adds method and filter rejections
type printer struct {
	out     io.Writer
	verbose bool
}

func (p printer) event(e domain.Event) {
	switch ev := e.(type) {
	case domain.MatchFound:
		p.match(ev.Match)
	case domain.Progress:
		fmt.Fprintf(p.out, "%s %d/%d\n", dim("progress"), ev.Found, ev.Target)
	case domain.LogLine:
		if !p.verbose && (ev.Category == domain.CatMethod || ev.Category == domain.CatFilter) {
			return
		}
		paint := categoryColor[ev.Category]
		if paint == nil {
			paint = dim
		}
		fmt.Fprintf(p.out, "%s %s\n", paint("["+string(ev.Category)+"]"), ev.Text)
	case domain.Finished:
		fmt.Fprintf(p.out, "%s %d match(es)\n", good("done"), ev.Total)
	}
}

func (p printer) match(m domain.Match) {
	a, s := m.Account, m.Signals
	fmt.Fprintf(p.out, "%s %s (%d) %s\n", good("+"), who(a.Username), a.ID, dim(m.Reason))
	fmt.Fprintf(p.out, "    rap=%s hats=%s verified=%s banned=%s active=%s",
		domain.RAPString(s.RAP), domain.HatsString(s.Hats),
		domain.YesNo(s.Verified), domain.YesNo(a.Banned), domain.YesNo(s.Active))
	if len(s.Badges) > 0 {
		fmt.Fprintf(p.out, " badges=%s", strings.Join(s.Badges, ", "))
	}
	if m.Bucket != "" {
		fmt.Fprintf(p.out, " bucket=%s", m.Bucket)
	}
	fmt.Fprintln(p.out)
}

func (p printer) lookup(r domain.LookupResult) {
	a, s := r.Account, r.Signals
	fmt.Fprintf(p.out, "%s (%d)\n", who(a.Username), a.ID)
	rows := [][2]string{
		{"display name", a.DisplayName},
		{"created", a.Created.Format("2006-01-02")},
		{"verified", domain.YesNo(s.Verified)},
		{"banned", domain.YesNo(a.Banned)},
		{"active", domain.YesNo(s.Active) + " (" + s.ActiveReason + ")"},
		{"rap", domain.RAPString(s.RAP)},
		{"hats", domain.HatsString(s.Hats)},
		{"badges", strings.Join(s.Badges, ", ")},
		{"headshot", r.HeadshotURL},
	}
	if a.Created.IsZero() {
		rows[1][1] = "Unknown"
	}
	for _, row := range rows {
		fmt.Fprintf(p.out, "  %-13s %s\n", row[0], row[1])
	}
	for _, it := range s.RAPItems {
		fmt.Fprintf(p.out, "    %s %s (%d) rap=%s\n", dim("-"), it.Name, it.AssetID, domain.RAPString(it.RAP))
	}
}
