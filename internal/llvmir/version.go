package llvmir

import (
	"fmt"
	"io"
	"os"
	"strings"
)

const (
	// ObjectFileVersion is the format version of objects produced by this tool.
	ObjectFileVersion int64 = 1

	// ExpectedRuntimeVersion is the oldest runtime able to load the objects.
	ExpectedRuntimeVersion int64 = 3

	// VersionSection is the ELF section holding the version record.
	VersionSection = "_version"
)

// VersionRecord returns the declarations appended by [InjectVersion].
func VersionRecord() string {
	var b strings.Builder
	writeGlobal(&b, "_OBJECT_VERSION", ObjectFileVersion)
	writeGlobal(&b, "_EXPECTED_RUNTIME_VERSION", ExpectedRuntimeVersion)
	return b.String()
}

func writeGlobal(w io.Writer, name string, value int64) {
	fmt.Fprintf(w, "@%s = global i64 %d, section %q, align 1\n", name, value, VersionSection)
}

// InjectVersion appends the version record to the IR file at path. Existing
// bytes are never rewritten; if the file does not end in a newline one is
// written first so the record starts on its own line.
func InjectVersion(path string) error {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_APPEND, 0)
	if err != nil {
		return fmt.Errorf("open versioned IR: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat versioned IR: %w", err)
	}

	record := VersionRecord()
	if size := info.Size(); size > 0 {
		last := make([]byte, 1)
		if _, err := f.ReadAt(last, size-1); err != nil {
			return fmt.Errorf("read versioned IR: %w", err)
		}
		if last[0] != '\n' {
			record = "\n" + record
		}
	}

	if _, err := io.WriteString(f, record); err != nil {
		return fmt.Errorf("write version info: %w", err)
	}
	return f.Close()
}
