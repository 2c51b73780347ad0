package pg

import (
	"context"
	"time"

	"rfinder/internal/platform/logger"

	"github.com/jackc/pgx/v5"
)

type traceKey struct{}

type traceStart struct {
	sql   string
	start time.Time
}

// Tracer implements pgx.QueryTracer and logs queries through the "pg" logger.
// Queries at or above slow log at warn, failures at error, the rest at debug.
type Tracer struct {
	slow time.Duration
	now  func() time.Time
	log  *logger.Logger
}

// NewTracer builds a Tracer with the given slow threshold
func NewTracer(slow time.Duration) *Tracer {
	return &Tracer{slow: slow, now: time.Now, log: logger.Named("pg")}
}

// TraceQueryStart stashes the statement and start time on ctx
func (t *Tracer) TraceQueryStart(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryStartData) context.Context {
	return context.WithValue(ctx, traceKey{}, traceStart{sql: data.SQL, start: t.now()})
}

// TraceQueryEnd logs the finished statement
func (t *Tracer) TraceQueryEnd(ctx context.Context, _ *pgx.Conn, data pgx.TraceQueryEndData) {
	st, ok := ctx.Value(traceKey{}).(traceStart)
	if !ok {
		return
	}
	elapsed := t.now().Sub(st.start)
	slow := t.slow > 0 && elapsed >= t.slow

	evt := t.log.Debug()
	switch {
	case data.Err != nil:
		evt = t.log.Error().Err(data.Err)
	case slow:
		evt = t.log.Warn()
	}
	evt.Dur("elapsed", elapsed).
		Bool("slow", slow).
		Str("sql", compact(st.sql)).
		Str("tag", data.CommandTag.String()).
		Msg("pg query")
}

func compact(s string) string {
	out := make([]rune, 0, len(s))
	space := false
	for _, r := range s {
		if r == '\n' || r == '\t' || r == '\r' || r == ' ' {
			if !space {
				out = append(out, ' ')
				space = true
			}
			continue
		}
		space = false
		out = append(out, r)
	}
	return string(out)
}
