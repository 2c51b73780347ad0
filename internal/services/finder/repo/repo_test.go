package repo

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"rfinder/internal/modkit/repokit"
	perr "rfinder/internal/platform/errors"
	"rfinder/internal/services/finder/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

type execCall struct {
	sql  string
	args []any
}

type fakeQ struct {
	execs []execCall
	err   error
	count int64
}

func (f *fakeQ) Exec(_ context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	f.execs = append(f.execs, execCall{sql: sql, args: args})
	return pgconn.NewCommandTag("INSERT 0 1"), f.err
}

func (f *fakeQ) Query(context.Context, string, ...any) (pgx.Rows, error) {
	return nil, f.err
}

func (f *fakeQ) QueryRow(context.Context, string, ...any) pgx.Row { return fakeRow{f} }

type fakeRow struct{ f *fakeQ }

func (r fakeRow) Scan(dest ...any) error {
	if r.f.err != nil {
		return r.f.err
	}
	*(dest[0].(*int64)) = r.f.count
	return nil
}

var _ repokit.Queryer = (*fakeQ)(nil)

func TestRecordMatchArgs(t *testing.T) {
	q := &fakeQ{}
	r := repokit.MustBind(NewPG(), q)

	rap := int64(1200)
	at := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	m := domain.Match{
		RunID:   "run-1",
		Method:  "real_name",
		FoundAt: at,
		Account: domain.Account{ID: 77, Username: "john12", DisplayName: "John"},
		Signals: domain.Signals{RAP: &rap, Verified: true},
	}
	if err := r.RecordMatch(context.Background(), m); err != nil {
		t.Fatalf("RecordMatch: %v", err)
	}
	if len(q.execs) != 1 {
		t.Fatalf("execs = %d", len(q.execs))
	}
	call := q.execs[0]
	if !strings.Contains(call.sql, "ON CONFLICT (user_id)") {
		t.Fatalf("upsert missing: %s", call.sql)
	}
	if call.args[0] != int64(77) || call.args[1] != "john12" || call.args[5] != "run-1" {
		t.Fatalf("args = %v", call.args)
	}
	if b, ok := call.args[11].([]string); !ok || b == nil {
		t.Fatalf("badges must be a non-nil slice, got %#v", call.args[11])
	}
	if call.args[4] != nil {
		t.Fatalf("blank bucket must be NULL, got %#v", call.args[4])
	}
	if call.args[12] != at {
		t.Fatalf("found_at = %v", call.args[12])
	}
}

func TestErrorsMapToDB(t *testing.T) {
	q := &fakeQ{err: errors.New("conn reset")}
	r := PG{}.Bind(q)
	ctx := context.Background()

	if err := r.EnsureSchema(ctx); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("EnsureSchema: %v", err)
	}
	if err := r.RecordMatch(ctx, domain.Match{}); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("RecordMatch: %v", err)
	}
	if _, err := r.KnownIDs(ctx); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("KnownIDs: %v", err)
	}
	if _, err := r.CountMatches(ctx); !perr.IsCode(err, perr.ErrorCodeDB) {
		t.Fatalf("CountMatches: %v", err)
	}
}

func TestCountMatches(t *testing.T) {
	r := PG{}.Bind(&fakeQ{count: 12})
	n, err := r.CountMatches(context.Background())
	if err != nil || n != 12 {
		t.Fatalf("CountMatches = %d, %v", n, err)
	}
}
