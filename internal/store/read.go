package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// ListRuns returns up to limit runs, newest first, with their artifacts.
// A limit of zero or less returns every run.
//
// Returns an empty slice (not nil) if the ledger is empty.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, started_at, finished_at, strip, cargo_args, tools, status, error
		FROM runs
		ORDER BY started_at DESC, id COLLATE BINARY DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}

	runs := []Run{}
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			rows.Close()
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	// The pool holds a single connection; release it before the next query.
	rows.Close()

	for i := range runs {
		artifacts, err := s.readArtifacts(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Artifacts = artifacts
	}
	return runs, nil
}

// FindArtifacts returns every recorded artifact whose object hashed to
// sha256, oldest first, together with the ID of the run that produced it.
func (s *Store) FindArtifacts(ctx context.Context, sha256 string) ([]string, []Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT a.run_id, a.module, a.object, a.stage, a.stripped, a.module_size, a.object_size, a.object_sha256, a.error
		FROM artifacts a
		JOIN runs r ON a.run_id = r.id
		WHERE a.object_sha256 = ?
		ORDER BY r.started_at ASC, r.id COLLATE BINARY ASC, a.position ASC
	`, sha256)
	if err != nil {
		return nil, nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	runIDs := []string{}
	artifacts := []Artifact{}
	for rows.Next() {
		var runID string
		a, err := scanArtifact(rows, &runID)
		if err != nil {
			return nil, nil, err
		}
		runIDs = append(runIDs, runID)
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return runIDs, artifacts, nil
}

func (s *Store) readArtifacts(ctx context.Context, runID string) ([]Artifact, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT run_id, module, object, stage, stripped, module_size, object_size, object_sha256, error
		FROM artifacts
		WHERE run_id = ?
		ORDER BY position ASC
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("query artifacts: %w", err)
	}
	defer rows.Close()

	artifacts := []Artifact{}
	for rows.Next() {
		var id string
		a, err := scanArtifact(rows, &id)
		if err != nil {
			return nil, err
		}
		artifacts = append(artifacts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate artifacts: %w", err)
	}
	return artifacts, nil
}

func scanRun(rows *sql.Rows) (Run, error) {
	var (
		run                 Run
		started, finished   int64
		strip               int
		argsJSON, toolsJSON string
		status              string
	)
	if err := rows.Scan(&run.ID, &started, &finished, &strip, &argsJSON, &toolsJSON, &status, &run.Error); err != nil {
		return Run{}, fmt.Errorf("scan run: %w", err)
	}

	args, err := unmarshalArgs(argsJSON)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: %w", run.ID, err)
	}
	tools, err := unmarshalTools(toolsJSON)
	if err != nil {
		return Run{}, fmt.Errorf("run %s: %w", run.ID, err)
	}

	run.StartedAt = time.Unix(0, started).UTC()
	run.FinishedAt = time.Unix(0, finished).UTC()
	run.Strip = strip != 0
	run.CargoArgs = args
	run.Tools = tools
	run.Status = Status(status)
	return run, nil
}

func scanArtifact(rows *sql.Rows, runID *string) (Artifact, error) {
	var (
		a        Artifact
		stripped int
	)
	if err := rows.Scan(runID, &a.Module, &a.Object, &a.Stage, &stripped, &a.ModuleSize, &a.ObjectSize, &a.ObjectSHA256, &a.Error); err != nil {
		return Artifact{}, fmt.Errorf("scan artifact: %w", err)
	}
	a.Stripped = stripped != 0
	return a, nil
}
