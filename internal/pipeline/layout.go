package pipeline

import (
	"path/filepath"
	"strings"
)

// Layout places pipeline outputs under <target>/l1x/release.
type Layout struct {
	Dir string
}

// NewLayout returns the layout for a cargo target directory.
func NewLayout(targetDir string) Layout {
	return Layout{Dir: filepath.Join(targetDir, "l1x", "release")}
}

// Paths are the artifacts derived from one module.
type Paths struct {
	Module      string
	IR          string // <stem>.ll, never modified after translation
	VersionedIR string // <stem>.versioned.ll
	Object      string // <stem>.o
}

// Paths returns the artifact paths for module.
func (l Layout) Paths(module string) Paths {
	base := filepath.Base(module)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return Paths{
		Module:      module,
		IR:          filepath.Join(l.Dir, stem+".ll"),
		VersionedIR: filepath.Join(l.Dir, stem+".versioned.ll"),
		Object:      filepath.Join(l.Dir, stem+".o"),
	}
}
