// Package config loads the optional cargo-l1x configuration file.
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"github.com/adrg/xdg"
	"gopkg.in/yaml.v3"

	"github.com/LayerOneX/cargo-l1x/internal/scaffold"
)

// EnvLLVMBinPath overrides llvm_bin_path.
const EnvLLVMBinPath = "LLVM_BIN_PATH"

const appName = "cargo-l1x"

//go:embed schema.cue
var schemaSource string

// Config holds user settings. Zero values mean "use the default".
type Config struct {
	// LLVMBinPath is the directory searched first for llc and llvm-strip.
	LLVMBinPath string `yaml:"llvm_bin_path" json:"llvm_bin_path,omitempty"`

	// Translator is the path of the wasm-to-IR translator. Empty resolves
	// wasm-llvmir like the other tools.
	Translator string `yaml:"translator" json:"translator,omitempty"`

	FailFast bool `yaml:"fail_fast" json:"fail_fast"`
	Ledger   bool `yaml:"ledger" json:"ledger"`

	Templates Templates `yaml:"templates" json:"templates"`

	// Source is the file the configuration was read from, if any.
	Source string `yaml:"-" json:"-"`
}

type Templates struct {
	BaseURL string `yaml:"base_url" json:"base_url"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Ledger:    true,
		Templates: Templates{BaseURL: scaffold.DefaultBaseURL},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/cargo-l1x/config.yaml.
func DefaultPath() string {
	return filepath.Join(xdg.ConfigHome, appName, "config.yaml")
}

// Load reads the configuration from path, or from DefaultPath when path is
// empty. A missing default file yields the defaults; a missing explicit file
// is an error. LLVM_BIN_PATH takes precedence over the file.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	cfg := Default()
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := Decode(data, cfg); err != nil {
			var cerr *ConfigError
			if errors.As(err, &cerr) {
				cerr.File = path
			}
			return nil, err
		}
		cfg.Source = path
	case errors.Is(err, fs.ErrNotExist) && !explicit:
	default:
		return nil, &ConfigError{File: path, Message: "cannot read configuration", Err: err}
	}

	if dir := os.Getenv(EnvLLVMBinPath); dir != "" {
		cfg.LLVMBinPath = dir
	}
	return cfg, nil
}

// Decode parses a YAML document into cfg, whose existing values act as
// defaults, and validates the result. Unknown keys are rejected.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return &ConfigError{Message: strings.TrimPrefix(err.Error(), "yaml: "), Err: err}
	}
	return Validate(cfg)
}

// Validate checks cfg against the embedded CUE schema.
func Validate(cfg *Config) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile config schema: %w", err)
	}

	value := schema.LookupPath(cue.ParsePath("#Config")).Unify(ctx.Encode(cfg))
	if err := value.Validate(cue.Concrete(true)); err != nil {
		return formatCUEError(err)
	}
	return nil
}

// formatCUEError reduces a CUE error list to its first entry.
func formatCUEError(err error) error {
	errs := cueerrors.Errors(err)
	if len(errs) == 0 {
		return &ConfigError{Message: err.Error(), Err: err}
	}

	first := errs[0]
	format, args := first.Msg()
	cerr := &ConfigError{
		Field:   strings.Join(first.Path(), "."),
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
	if positions := cueerrors.Positions(first); len(positions) > 0 {
		cerr.Pos = positions[0]
	}
	return cerr
}
