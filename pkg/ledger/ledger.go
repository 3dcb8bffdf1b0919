// Package ledger records one row per index_builder invocation to an
// optional Postgres table, giving operators a queryable history of
// build runs. It is purely additive: a build that can't reach
// Postgres still succeeds.
package ledger

import (
	"context"
	"fmt"
	"time"

	pkgpostgres "github.com/sidx-engine/sidx/pkg/postgres"
)

// Ledger records build runs to the build_runs table.
type Ledger struct {
	client *pkgpostgres.Client
}

func New(client *pkgpostgres.Client) *Ledger {
	return &Ledger{client: client}
}

// EnsureSchema creates the build_runs table if it does not already
// exist. Safe to call on every startup.
func (l *Ledger) EnsureSchema(ctx context.Context) error {
	const stmt = `
CREATE TABLE IF NOT EXISTS build_runs (
	id              BIGSERIAL PRIMARY KEY,
	started_at      TIMESTAMPTZ NOT NULL,
	finished_at     TIMESTAMPTZ NOT NULL,
	docs_indexed    BIGINT NOT NULL,
	unique_terms    BIGINT NOT NULL,
	total_postings  BIGINT NOT NULL,
	hash_capacity   INTEGER NOT NULL,
	status          TEXT NOT NULL
)`
	if _, err := l.client.DB.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("creating build_runs table: %w", err)
	}
	return nil
}

// Run is one row of the build_runs table.
type Run struct {
	StartedAt     time.Time
	FinishedAt    time.Time
	DocsIndexed   uint64
	UniqueTerms   uint64
	TotalPostings uint64
	HashCapacity  int
	Status        string
}

// Record inserts one Run row, returning its generated id.
func (l *Ledger) Record(ctx context.Context, run Run) (int64, error) {
	const stmt = `
INSERT INTO build_runs (started_at, finished_at, docs_indexed, unique_terms, total_postings, hash_capacity, status)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id`
	var id int64
	err := l.client.DB.QueryRowContext(ctx, stmt,
		run.StartedAt, run.FinishedAt, run.DocsIndexed, run.UniqueTerms, run.TotalPostings, run.HashCapacity, run.Status,
	).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("recording build run: %w", err)
	}
	return id, nil
}

// Recent returns the most recent n build runs, newest first.
func (l *Ledger) Recent(ctx context.Context, n int) ([]Run, error) {
	const stmt = `
SELECT started_at, finished_at, docs_indexed, unique_terms, total_postings, hash_capacity, status
FROM build_runs ORDER BY id DESC LIMIT $1`
	rows, err := l.client.DB.QueryContext(ctx, stmt, n)
	if err != nil {
		return nil, fmt.Errorf("querying recent build runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.StartedAt, &r.FinishedAt, &r.DocsIndexed, &r.UniqueTerms, &r.TotalPostings, &r.HashCapacity, &r.Status); err != nil {
			return nil, fmt.Errorf("scanning build run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
