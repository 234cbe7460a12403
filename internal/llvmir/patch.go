package llvmir

import (
	"bytes"
	"fmt"
	"os"
)

// Substitution is an exact-match rewrite.
type Substitution struct {
	Old string
	New string
}

// Compatibility repairs the section names the translator emits on macOS,
// where a comma is prepended to the name.
var Compatibility = []Substitution{
	{Old: `section ",_memory"`, New: `section "_memory"`},
	{Old: `section ",_init_memory"`, New: `section "_init_memory"`},
}

// Patch applies every substitution in table to content and returns the result
// together with the number of replacements made.
func Patch(content []byte, table []Substitution) ([]byte, int) {
	total := 0
	for _, sub := range table {
		old := []byte(sub.Old)
		n := bytes.Count(content, old)
		if n == 0 {
			continue
		}
		content = bytes.ReplaceAll(content, old, []byte(sub.New))
		total += n
	}
	return content, total
}

// PatchFile rewrites the file at path with table applied. The file is left
// untouched when nothing matches.
func PatchFile(path string, table []Substitution) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read versioned IR: %w", err)
	}

	patched, n := Patch(content, table)
	if n == 0 {
		return 0, nil
	}

	if err := os.WriteFile(path, patched, 0o644); err != nil {
		return 0, fmt.Errorf("write versioned IR: %w", err)
	}
	return n, nil
}
