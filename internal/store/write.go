package store

import (
	"context"
	"errors"
	"fmt"
)

// WriteRun inserts a run and its artifacts in one transaction.
// Uses ON CONFLICT DO NOTHING for idempotency - writing the same run twice
// leaves the first copy in place.
func (s *Store) WriteRun(ctx context.Context, run Run) error {
	if run.ID == "" {
		return errors.New("write run: empty run id")
	}

	argsJSON, err := marshalArgs(run.CargoArgs)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	toolsJSON, err := marshalTools(run.Tools)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("write run: begin: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx, `
		INSERT INTO runs
		(id, started_at, finished_at, strip, cargo_args, tools, status, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`,
		run.ID,
		run.StartedAt.UTC().UnixNano(),
		run.FinishedAt.UTC().UnixNano(),
		boolToInt(run.Strip),
		argsJSON,
		toolsJSON,
		string(run.Status),
		run.Error,
	)
	if err != nil {
		return fmt.Errorf("write run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil
	}

	for i, a := range run.Artifacts {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO artifacts
			(run_id, position, module, object, stage, stripped, module_size, object_size, object_sha256, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			run.ID,
			i,
			a.Module,
			a.Object,
			a.Stage,
			boolToInt(a.Stripped),
			a.ModuleSize,
			a.ObjectSize,
			a.ObjectSHA256,
			a.Error,
		)
		if err != nil {
			return fmt.Errorf("write artifact %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("write run: commit: %w", err)
	}
	return nil
}
