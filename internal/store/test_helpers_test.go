package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/LayerOneX/cargo-l1x/internal/testutil"
)

// createTestStore creates a new store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// createTestRun creates a run with one artifact, timed by clock.
func createTestRun(clock *testutil.DeterministicClock, status Status) Run {
	started := clock.Now()
	return Run{
		ID:         NewRunID(),
		StartedAt:  started,
		FinishedAt: started.Add(1500 * time.Millisecond),
		Strip:      true,
		CargoArgs:  []string{"--features", "extra"},
		Tools: map[string]string{
			"llc":         "/usr/bin/llc-18",
			"llvm-strip":  "/usr/bin/llvm-strip-18",
			"wasm-llvmir": "/usr/local/bin/wasm-llvmir",
		},
		Status: status,
		Artifacts: []Artifact{{
			Module:       "/work/target/wasm32-unknown-unknown/release/counter.wasm",
			Object:       "/work/target/l1x/release/counter.o",
			Stage:        "strip",
			Stripped:     true,
			ModuleSize:   812,
			ObjectSize:   4096,
			ObjectSHA256: "9f86d081884c7d659a2feaa0c55ad015a3bf4f1b2b0b822cd15d6c15b0f00a08",
		}},
	}
}
