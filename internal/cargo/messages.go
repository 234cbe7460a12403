package cargo

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"slices"
)

const (
	reasonArtifact = "compiler-artifact"
	reasonFinished = "build-finished"

	// Upper bound for one JSON message line.
	maxMessageSize = 16 << 20
)

// message is the subset of cargo's JSON message format used here.
type message struct {
	Reason    string   `json:"reason"`
	PackageID string   `json:"package_id"`
	Target    target   `json:"target"`
	Filenames []string `json:"filenames"`
	Success   *bool    `json:"success"`
}

type target struct {
	Name string   `json:"name"`
	Kind []string `json:"kind"`
}

// Artifact is a "compiler-artifact" message.
type Artifact struct {
	PackageID string
	Target    string
	Filenames []string
}

// Modules returns the artifact's WebAssembly files.
func (a Artifact) Modules() []string {
	var modules []string
	for _, f := range a.Filenames {
		if filepath.Ext(f) == ".wasm" {
			modules = append(modules, f)
		}
	}
	return modules
}

// Output summarises a cargo message stream.
type Output struct {
	Artifacts []Artifact
	Finished  bool // A build-finished message was seen.
	Success   bool // Value of build-finished.success.
}

// Modules returns every distinct WebAssembly file reported by the build, in
// report order.
func (o *Output) Modules() []string {
	var modules []string
	for _, a := range o.Artifacts {
		for _, m := range a.Modules() {
			if !slices.Contains(modules, m) {
				modules = append(modules, m)
			}
		}
	}
	return modules
}

// ParseMessages reads line-delimited cargo messages from r until EOF. Lines
// that are not JSON objects are skipped, as are message kinds other than
// artifacts and the final build status.
func ParseMessages(r io.Reader) (*Output, error) {
	out := &Output{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64<<10), maxMessageSize)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 || line[0] != '{' {
			continue
		}

		var msg message
		if err := json.Unmarshal(line, &msg); err != nil {
			continue
		}

		switch msg.Reason {
		case reasonArtifact:
			out.Artifacts = append(out.Artifacts, Artifact{
				PackageID: msg.PackageID,
				Target:    msg.Target.Name,
				Filenames: msg.Filenames,
			})
		case reasonFinished:
			out.Finished = true
			out.Success = msg.Success != nil && *msg.Success
		}
	}

	if err := scanner.Err(); err != nil {
		// Keep draining so the writer never blocks on a full pipe.
		_, _ = io.Copy(io.Discard, r)
		return out, fmt.Errorf("read cargo messages: %w", err)
	}
	return out, nil
}
