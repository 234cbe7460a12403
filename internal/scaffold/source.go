package scaffold

import (
	"archive/zip"
	"bytes"
	"context"
	"embed"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path/filepath"
)

//go:embed default_template
var bundled embed.FS

// Upper bound for a downloaded template archive.
const maxArchiveSize = 64 << 20

func bundledSource() (fs.FS, error) {
	return fs.Sub(bundled, "default_template")
}

// fetch downloads a template archive.
func fetch(ctx context.Context, client *http.Client, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	slog.Debug("fetching template", "url", url)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s: %s", ErrFetch, url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArchiveSize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrFetch, url, err)
	}
	if len(body) > maxArchiveSize {
		return nil, fmt.Errorf("%w: %s is larger than %d bytes", ErrFetch, url, maxArchiveSize)
	}
	return body, nil
}

// archiveSource opens a zip archive as a file tree. Every entry must have a
// local name; a single top-level directory, as produced by repository
// archives, is stripped.
func archiveSource(data []byte) (fs.FS, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtract, err)
	}
	for _, f := range zr.File {
		if !filepath.IsLocal(f.Name) {
			return nil, fmt.Errorf("%w: %w: %s", ErrExtract, zip.ErrInsecurePath, f.Name)
		}
	}
	return stripTopLevel(zr)
}

func stripTopLevel(fsys fs.FS) (fs.FS, error) {
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrExtract, err)
	}
	if len(entries) == 1 && entries[0].IsDir() {
		return fs.Sub(fsys, entries[0].Name())
	}
	return fsys, nil
}
