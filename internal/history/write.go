package history

import (
	"context"
	"fmt"
)

// Record appends e under the ledger's run and returns its seq.
func (l *Ledger) Record(ctx context.Context, e Entry) (int64, error) {
	if err := e.validate(); err != nil {
		return 0, fmt.Errorf("record outcome: %w", err)
	}
	if err := l.registerRun(ctx); err != nil {
		return 0, fmt.Errorf("record outcome: %w", err)
	}

	result, err := l.db.ExecContext(ctx, `
		INSERT INTO outcomes
		(run_id, module, name, source_file, extension, outcome, actual_digest, expected_digest)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`,
		l.runID,
		e.Module,
		e.Name,
		e.SourceFile,
		e.Extension,
		string(e.Outcome),
		e.ActualDigest,
		e.ExpectedDigest,
	)
	if err != nil {
		return 0, fmt.Errorf("record outcome: %w", err)
	}

	seq, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record outcome: get seq: %w", err)
	}
	return seq, nil
}
