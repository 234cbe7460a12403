package toolchain

import (
	"fmt"
	"slices"
)

// SupportedVersions lists the LLVM major versions the backend accepts, in the
// order versioned executables are searched for.
var SupportedVersions = []int{17, 18, 19}

// Logical tools used by the build pipeline.
var (
	// LLC is the LLVM static compiler that emits eBPF objects.
	LLC = Tool{Name: "llc", Versions: SupportedVersions}

	// LLVMStrip removes symbols from the emitted object.
	LLVMStrip = Tool{Name: "llvm-strip", Versions: SupportedVersions}

	// Translator turns a WebAssembly module into LLVM IR. It is not tied to
	// an LLVM release, so no version is verified.
	Translator = Tool{Name: "wasm-llvmir"}
)

// Tool is a logical executable name plus the major versions it may report.
// An empty Versions slice disables versioned lookup and verification.
type Tool struct {
	Name     string
	Versions []int
}

// Supports reports whether major is one of the tool's accepted versions.
func (t Tool) Supports(major int) bool {
	return slices.Contains(t.Versions, major)
}

// Ref is a resolved executable for a logical tool.
type Ref struct {
	Tool    string // Logical name, e.g. "llc".
	Path    string // Executable path passed to exec.
	Version int    // LLVM major version, 0 when unknown or not applicable.
}

func (r Ref) String() string {
	if r.Version == 0 {
		return fmt.Sprintf("%s (%s)", r.Tool, r.Path)
	}
	return fmt.Sprintf("%s %d (%s)", r.Tool, r.Version, r.Path)
}
