package store

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LayerOneX/cargo-l1x/internal/testutil"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func TestNewRunID_IsUUIDv7(t *testing.T) {
	id := NewRunID()

	parsed, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), parsed.Version())
	assert.NotEqual(t, id, NewRunID())
}

func TestWriteRun_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun(testutil.NewDeterministicClock(epoch), StatusOK)

	require.NoError(t, s.WriteRun(ctx, run))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, run, runs[0])
}

func TestWriteRun_Idempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun(testutil.NewDeterministicClock(epoch), StatusOK)

	require.NoError(t, s.WriteRun(ctx, run))

	changed := run
	changed.Status = StatusFailed
	require.NoError(t, s.WriteRun(ctx, changed))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, StatusOK, runs[0].Status)
	assert.Len(t, runs[0].Artifacts, 1)
}

func TestWriteRun_EmptyID(t *testing.T) {
	s := createTestStore(t)
	err := s.WriteRun(context.Background(), Run{Status: StatusOK})
	assert.Error(t, err)
}

func TestWriteRun_InvalidStatusRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	run := createTestRun(testutil.NewDeterministicClock(epoch), Status("unknown"))

	assert.Error(t, s.WriteRun(ctx, run))

	var count int
	require.NoError(t, s.db.QueryRow("SELECT COUNT(*) FROM artifacts").Scan(&count))
	assert.Zero(t, count)
}

func TestWriteRun_NilCollections(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	run := Run{ID: NewRunID(), StartedAt: epoch, FinishedAt: epoch, Status: StatusFailed, Error: "failed to build wasm"}
	require.NoError(t, s.WriteRun(ctx, run))

	runs, err := s.ListRuns(ctx, 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []string{}, runs[0].CargoArgs)
	assert.Equal(t, map[string]string{}, runs[0].Tools)
	assert.Equal(t, []Artifact{}, runs[0].Artifacts)
	assert.Equal(t, "failed to build wasm", runs[0].Error)
}

func TestListRuns_NewestFirstWithLimit(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	clock := testutil.NewDeterministicClock(epoch)

	var ids []string
	for i := 0; i < 4; i++ {
		run := createTestRun(clock, StatusOK)
		require.NoError(t, s.WriteRun(ctx, run))
		ids = append(ids, run.ID)
	}

	runs, err := s.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, ids[3], runs[0].ID)
	assert.Equal(t, ids[2], runs[1].ID)

	all, err := s.ListRuns(ctx, -1)
	require.NoError(t, err)
	assert.Len(t, all, 4)
}

func TestListRuns_Empty(t *testing.T) {
	s := createTestStore(t)

	runs, err := s.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.NotNil(t, runs)
	assert.Empty(t, runs)
}

func TestFindArtifacts(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	clock := testutil.NewDeterministicClock(epoch)

	first := createTestRun(clock, StatusOK)
	second := createTestRun(clock, StatusOK)
	other := createTestRun(clock, StatusOK)
	other.Artifacts[0].ObjectSHA256 = "0000"
	for _, r := range []Run{first, second, other} {
		require.NoError(t, s.WriteRun(ctx, r))
	}

	runIDs, artifacts, err := s.FindArtifacts(ctx, first.Artifacts[0].ObjectSHA256)
	require.NoError(t, err)
	assert.Equal(t, []string{first.ID, second.ID}, runIDs)
	require.Len(t, artifacts, 2)
	assert.Equal(t, first.Artifacts[0], artifacts[0])

	runIDs, artifacts, err = s.FindArtifacts(ctx, "missing")
	require.NoError(t, err)
	assert.Empty(t, runIDs)
	assert.Empty(t, artifacts)
}
