package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LayerOneX/cargo-l1x/internal/config"
	"github.com/LayerOneX/cargo-l1x/internal/scaffold"
)

// CreateOptions holds flags for the create command.
type CreateOptions struct {
	*RootOptions
	Template string
}

// CreateResult is the JSON payload of a successful create.
type CreateResult struct {
	Path     string `json:"path"`
	Template string `json:"template"`
}

// NewCreateCommand creates the create command.
func NewCreateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CreateOptions{RootOptions: rootOpts}

	names := make([]string, 0, len(scaffold.Templates()))
	for _, t := range scaffold.Templates() {
		names = append(names, string(t))
	}

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new contract project",
		Long: `Create a new contract project in the directory <name>.

The local_default template is bundled with cargo-l1x. The default, ft and nft
templates are downloaded from https://github.com/L1X-Foundation/cargo-l1x-templates.

Example:
  cargo l1x create counter
  cargo l1x create token --template ft`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCreate(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Template, "template", "t", string(scaffold.LocalDefault),
		fmt.Sprintf("template to use (%s)", strings.Join(names, "|")))

	return cmd
}

func runCreate(opts *CreateOptions, name string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	// Reject unknown templates before touching anything
	tmpl, err := scaffold.ParseTemplate(opts.Template)
	if err != nil {
		return fail(formatter, "cannot create project", err, nil)
	}

	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fail(formatter, "failed to load configuration", err, nil)
	}

	if !tmpl.Bundled() {
		formatter.VerboseLog("Fetching %s", tmpl.URL(cfg.Templates.BaseURL))
	}

	creator := &scaffold.Creator{BaseURL: cfg.Templates.BaseURL}
	path, err := creator.Create(cmd.Context(), name, tmpl)
	if err != nil {
		return fail(formatter, "cannot create project", err, map[string]any{"name": name})
	}

	if formatter.Format == "json" {
		return formatter.Success(CreateResult{Path: path, Template: string(tmpl)})
	}
	fmt.Fprintf(formatter.Writer, "✓ Created %s from template %s\n", path, tmpl)
	return nil
}
