// Package repo provides the finder match journal on Postgres
package repo

import (
	"context"

	"rfinder/internal/modkit/repokit"
	perr "rfinder/internal/platform/errors"
	pstrings "rfinder/internal/platform/strings"
	"rfinder/internal/services/finder/domain"

	"github.com/jackc/pgx/v5"
)

// Repo defines the match journal contract
type Repo interface {
	domain.Journal

	// EnsureSchema creates the journal table when missing
	EnsureSchema(ctx context.Context) error
	// CountMatches returns the number of distinct accounts journaled
	CountMatches(ctx context.Context) (int64, error)
}

type (
	// PG is a Postgres match journal
	PG      struct{}
	queries struct{ q repokit.Queryer }
)

// NewPG constructs a Postgres match journal binder
func NewPG() repokit.Binder[Repo] { return PG{} }

// Bind binds a Queryer to a Postgres implementation of Repo
func (PG) Bind(q repokit.Queryer) Repo { return &queries{q: q} }

const schemaSQL = `
	CREATE TABLE IF NOT EXISTS finder_matches (
		user_id     BIGINT PRIMARY KEY,
		username    TEXT NOT NULL,
		display     TEXT NULL,
		method      TEXT NOT NULL,
		bucket      TEXT NULL,
		run_id      TEXT NULL,
		rap         BIGINT NULL,
		hats        INT NULL,
		verified    BOOLEAN NOT NULL,
		banned      BOOLEAN NOT NULL,
		active      BOOLEAN NOT NULL,
		badges      TEXT[] NOT NULL DEFAULT '{}',
		found_at    TIMESTAMPTZ NOT NULL,
		last_seen   TIMESTAMPTZ NOT NULL,
		seen_count  INT NOT NULL DEFAULT 1
	)
`

// EnsureSchema creates finder_matches if it does not exist
func (r *queries) EnsureSchema(ctx context.Context) error {
	if _, err := r.q.Exec(ctx, schemaSQL); err != nil {
		return perr.Wrap(err, perr.ErrorCodeDB, "create finder_matches")
	}
	return nil
}

// RecordMatch upserts a match; a repeat keeps the first sighting and bumps the counter
func (r *queries) RecordMatch(ctx context.Context, m domain.Match) error {
	const sql = `
		INSERT INTO finder_matches
			(user_id, username, display, method, bucket, run_id, rap, hats, verified, banned, active, badges, found_at, last_seen)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $13)
		ON CONFLICT (user_id) DO UPDATE
		SET username   = excluded.username,
		    display    = excluded.display,
		    rap        = COALESCE(excluded.rap, finder_matches.rap),
		    hats       = COALESCE(excluded.hats, finder_matches.hats),
		    verified   = excluded.verified,
		    banned     = excluded.banned,
		    active     = excluded.active,
		    badges     = excluded.badges,
		    last_seen  = excluded.last_seen,
		    seen_count = finder_matches.seen_count + 1
	`
	_, err := r.q.Exec(ctx, sql,
		m.Account.ID, m.Account.Username, pstrings.SQLNull(m.Account.DisplayName), m.Method,
		pstrings.SQLNull(m.Bucket), pstrings.SQLNull(m.RunID),
		m.Signals.RAP, m.Signals.Hats, m.Signals.Verified, m.Account.Banned, m.Signals.Active,
		pstrings.IfEmpty(m.Signals.Badges, []string{}), m.FoundAt,
	)
	if err != nil {
		return perr.Wrapf(err, perr.ErrorCodeDB, "record match %d", m.Account.ID)
	}
	return nil
}

// KnownIDs returns every journaled account id
func (r *queries) KnownIDs(ctx context.Context) ([]int64, error) {
	rows, err := r.q.Query(ctx, `SELECT user_id FROM finder_matches ORDER BY user_id`)
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "list known ids")
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, perr.Wrap(err, perr.ErrorCodeDB, "scan known ids")
	}
	return ids, nil
}

// CountMatches returns the journal size
func (r *queries) CountMatches(ctx context.Context) (int64, error) {
	var n int64
	if err := r.q.QueryRow(ctx, `SELECT count(*) FROM finder_matches`).Scan(&n); err != nil {
		return 0, perr.Wrap(err, perr.ErrorCodeDB, "count matches")
	}
	return n, nil
}
