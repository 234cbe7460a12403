package store

import (
	"time"

	"github.com/google/uuid"
)

// Status is the outcome of a build run.
type Status string

const (
	StatusOK     Status = "ok"
	StatusFailed Status = "failed"
)

// Run records one build invocation.
type Run struct {
	ID         string            `json:"id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Strip      bool              `json:"strip"`
	CargoArgs  []string          `json:"cargo_args"`
	Tools      map[string]string `json:"tools"` // logical tool name -> resolved path
	Status     Status            `json:"status"`
	Error      string            `json:"error,omitempty"`
	Artifacts  []Artifact        `json:"artifacts"`
}

// Artifact records how far one module got within a run.
type Artifact struct {
	Module       string `json:"module"`
	Object       string `json:"object"`
	Stage        string `json:"stage"` // last completed stage
	Stripped     bool   `json:"stripped"`
	ModuleSize   int64  `json:"module_size"`
	ObjectSize   int64  `json:"object_size"`
	ObjectSHA256 string `json:"object_sha256"`
	Error        string `json:"error,omitempty"`
}

// NewRunID generates a time-ordered run ID.
// Uses github.com/google/uuid package for RFC 9562 UUIDv7.
func NewRunID() string {
	return uuid.Must(uuid.NewV7()).String()
}
