package scaffold

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"golang.org/x/text/unicode/norm"
)

const (
	manifestTemplate = "Cargo.toml.template"
	manifest         = "Cargo.toml"
)

// Creator materializes templates into new project directories.
type Creator struct {
	BaseURL string       // Remote template base; empty uses DefaultBaseURL.
	Client  *http.Client // nil uses http.DefaultClient.
}

// Create makes a new project at name from tmpl and returns its directory.
// The template and destination are validated, and a remote archive fetched,
// before anything is written. An existing destination is never touched; a
// directory created by this call is removed again if extraction fails.
func (c *Creator) Create(ctx context.Context, name string, tmpl Template) (string, error) {
	tmpl, err := ParseTemplate(string(tmpl))
	if err != nil {
		return "", err
	}

	dest := norm.NFC.String(name)
	if strings.TrimSpace(dest) == "" {
		return "", fmt.Errorf("%w: name is empty", ErrInvalidName)
	}

	if _, err := os.Lstat(dest); err == nil {
		return "", fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: check destination %s: %w", ErrFileSystem, dest, err)
	}

	src, err := c.source(ctx, tmpl)
	if err != nil {
		return "", err
	}

	// The destination may have appeared while the archive was downloading.
	if err := os.Mkdir(dest, 0o755); errors.Is(err, fs.ErrExist) {
		return "", fmt.Errorf("%w: %s", ErrDestinationExists, dest)
	} else if err != nil {
		return "", fmt.Errorf("%w: create directory %s: %w", ErrFileSystem, dest, err)
	}
	if err := Extract(src, dest); err != nil {
		if rmErr := os.RemoveAll(dest); rmErr != nil {
			slog.Warn("failed to remove partial project", "path", dest, "error", rmErr)
		}
		return "", err
	}

	slog.Debug("project created", "path", dest, "template", tmpl)
	return dest, nil
}

func (c *Creator) source(ctx context.Context, tmpl Template) (fs.FS, error) {
	if tmpl.Bundled() {
		return bundledSource()
	}

	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	client := c.Client
	if client == nil {
		client = http.DefaultClient
	}

	data, err := fetch(ctx, client, tmpl.URL(base))
	if err != nil {
		return nil, err
	}
	return archiveSource(data)
}

// Extract copies the tree src into the existing directory dest, renaming
// Cargo.toml.template files to Cargo.toml.
func Extract(src fs.FS, dest string) error {
	return fs.WalkDir(src, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("%w: %w", ErrExtract, err)
		}
		if p == "." {
			return nil
		}

		target := filepath.Join(dest, filepath.FromSlash(p))
		if d.IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("%w: create directory %s: %w", ErrFileSystem, target, err)
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		if path.Base(p) == manifestTemplate {
			target = filepath.Join(filepath.Dir(target), manifest)
		}
		return copyFile(src, p, target)
	})
}

func copyFile(src fs.FS, name, target string) error {
	in, err := src.Open(name)
	if err != nil {
		return fmt.Errorf("%w: open %s: %w", ErrExtract, name, err)
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("%w: create directory %s: %w", ErrFileSystem, filepath.Dir(target), err)
	}
	out, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("%w: create file %s: %w", ErrFileSystem, target, err)
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("%w: copy file %s: %w", ErrExtract, target, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("%w: copy file %s: %w", ErrFileSystem, target, err)
	}
	return nil
}
