package scaffold

import (
	"fmt"
	"strings"
)

// Template identifies a project template.
type Template string

const (
	LocalDefault Template = "local_default"
	Default      Template = "default"
	FT           Template = "ft"
	NFT          Template = "nft"
)

// DefaultBaseURL hosts the remote templates as <base>/<name>.zip.
const DefaultBaseURL = "https://github.com/L1X-Foundation/cargo-l1x-templates/archive/refs/heads"

var templates = []Template{LocalDefault, Default, FT, NFT}

// Templates returns every known template, bundled one first.
func Templates() []Template {
	return append([]Template(nil), templates...)
}

// ParseTemplate validates a template identifier.
func ParseTemplate(s string) (Template, error) {
	for _, t := range templates {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTemplate, s)
}

// Bundled reports whether the template ships inside the binary.
func (t Template) Bundled() bool {
	return t == LocalDefault
}

// URL returns the archive location of a remote template.
func (t Template) URL(base string) string {
	return strings.TrimSuffix(base, "/") + "/" + string(t) + ".zip"
}
