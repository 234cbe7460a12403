// Package translate converts compiled WebAssembly modules into textual LLVM
// IR, the input format of the backend.
package translate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/LayerOneX/cargo-l1x/internal/toolchain"
)

// ErrTranslation is wrapped by every translation failure.
var ErrTranslation = errors.New("could not build ll file")

// Translator writes the IR for the module at modulePath to irPath.
type Translator interface {
	Translate(ctx context.Context, modulePath, irPath string) error
}

// Exec translates by running an external translator executable as
// "<tool> <module> -o <ir>".
type Exec struct {
	Tool toolchain.Ref
}

// Translate checks the module header, then runs the translator.
func (e Exec) Translate(ctx context.Context, modulePath, irPath string) error {
	if err := CheckModule(modulePath); err != nil {
		return err
	}
	slog.Debug("translating module", "module", modulePath, "ir", irPath, "translator", e.Tool.Path)
	if _, err := toolchain.Run(ctx, e.Tool, modulePath, "-o", irPath); err != nil {
		return fmt.Errorf("%w: %w", ErrTranslation, err)
	}
	if _, err := os.Stat(irPath); err != nil {
		return fmt.Errorf("%w: translator produced no output: %w", ErrTranslation, err)
	}
	return nil
}

// WebAssembly binary preamble: "\0asm" followed by version 1, little endian.
var wasmPreamble = []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}

// CheckModule verifies that path holds a version 1 WebAssembly binary.
func CheckModule(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrTranslation, err)
	}
	defer f.Close()

	header := make([]byte, len(wasmPreamble))
	if _, err := io.ReadFull(f, header); err != nil {
		return fmt.Errorf("%w: %s is not a WebAssembly module: %w", ErrTranslation, path, err)
	}
	if !bytes.Equal(header, wasmPreamble) {
		return fmt.Errorf("%w: %s is not a WebAssembly module", ErrTranslation, path)
	}
	return nil
}
