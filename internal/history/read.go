package history

import (
	"context"
	"database/sql"
	"fmt"
)

const selectEntry = `
	SELECT seq, run_id, module, name, source_file, extension, outcome, actual_digest, expected_digest
	FROM outcomes
`

// Recent returns up to limit entries, newest first. A limit of zero or less
// returns every entry.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = -1
	}
	rows, err := l.db.QueryContext(ctx, selectEntry+`
		ORDER BY seq DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query recent outcomes: %w", err)
	}
	return scanEntries(rows)
}

// ByTest returns every entry for one test, oldest first.
func (l *Ledger) ByTest(ctx context.Context, sourceFile, name string) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, selectEntry+`
		WHERE source_file = ? AND name = ?
		ORDER BY seq ASC
	`, sourceFile, name)
	if err != nil {
		return nil, fmt.Errorf("query test outcomes: %w", err)
	}
	return scanEntries(rows)
}

// ByRun returns every entry recorded under runID, oldest first.
func (l *Ledger) ByRun(ctx context.Context, runID string) ([]Entry, error) {
	rows, err := l.db.QueryContext(ctx, selectEntry+`
		WHERE run_id = ?
		ORDER BY seq ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query run outcomes: %w", err)
	}
	return scanEntries(rows)
}

// scanEntries drains and closes rows. Returns an empty slice, not nil, when
// there are no rows.
func scanEntries(rows *sql.Rows) ([]Entry, error) {
	defer rows.Close()

	entries := []Entry{}
	for rows.Next() {
		var e Entry
		var outcome string
		if err := rows.Scan(
			&e.Seq,
			&e.RunID,
			&e.Module,
			&e.Name,
			&e.SourceFile,
			&e.Extension,
			&outcome,
			&e.ActualDigest,
			&e.ExpectedDigest,
		); err != nil {
			return nil, fmt.Errorf("scan outcome: %w", err)
		}
		e.Outcome = Outcome(outcome)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outcomes: %w", err)
	}
	return entries, nil
}
