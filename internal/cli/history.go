package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/LayerOneX/cargo-l1x/internal/cargo"
	"github.com/LayerOneX/cargo-l1x/internal/pipeline"
	"github.com/LayerOneX/cargo-l1x/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Limit  int
	Object string
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent builds from the build ledger",
		Long: `Show recent builds of the project in the current directory, newest first.

With --object, show the builds that produced an object with the same
SHA-256 as the given file.

Example:
  cargo l1x history -n 5
  cargo l1x history --object target/l1x/release/l1x_contract.o`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(cmd.Context(), opts, cmd)
		},
	}

	cmd.Flags().IntVarP(&opts.Limit, "limit", "n", 10, "maximum number of builds to show (0 for all)")
	cmd.Flags().StringVar(&opts.Object, "object", "", "find the builds that produced this object")

	return cmd
}

// ObjectMatch is one build that produced a given object.
type ObjectMatch struct {
	RunID    string         `json:"run_id"`
	Artifact store.Artifact `json:"artifact"`
}

func runHistory(ctx context.Context, opts *HistoryOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	targetDir, err := cargo.TargetDir(ctx, "", "")
	if err != nil {
		return fail(formatter, "failed to locate target directory", err, nil)
	}

	path := store.LedgerPath(targetDir)
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if formatter.Format == "json" {
			return formatter.Success([]store.Run{})
		}
		fmt.Fprintln(formatter.Writer, "No builds recorded")
		return nil
	}

	st, err := store.Open(path)
	if err != nil {
		return ledgerError(formatter, err)
	}
	defer st.Close()

	if opts.Object != "" {
		return runObjectLookup(ctx, st, opts.Object, formatter)
	}

	runs, err := st.ListRuns(ctx, opts.Limit)
	if err != nil {
		return ledgerError(formatter, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(runs)
	}
	if len(runs) == 0 {
		fmt.Fprintln(formatter.Writer, "No builds recorded")
		return nil
	}
	for _, run := range runs {
		printRun(formatter, run)
	}
	return nil
}

func runObjectLookup(ctx context.Context, st *store.Store, object string, formatter *OutputFormatter) error {
	_, sum, err := pipeline.Digest(object)
	if err != nil {
		return fail(formatter, "cannot read object", fmt.Errorf("%w: %w", pipeline.ErrFileSystem, err), nil)
	}

	runIDs, artifacts, err := st.FindArtifacts(ctx, sum)
	if err != nil {
		return ledgerError(formatter, err)
	}

	matches := make([]ObjectMatch, len(runIDs))
	for i := range runIDs {
		matches[i] = ObjectMatch{RunID: runIDs[i], Artifact: artifacts[i]}
	}

	if formatter.Format == "json" {
		return formatter.Success(matches)
	}
	if len(matches) == 0 {
		fmt.Fprintf(formatter.Writer, "No recorded build produced %s (sha256 %s)\n", object, sum)
		return nil
	}
	for _, m := range matches {
		fmt.Fprintf(formatter.Writer, "%s  %s -> %s\n", m.RunID, filepath.Base(m.Artifact.Module), m.Artifact.Object)
	}
	return nil
}

func printRun(formatter *OutputFormatter, run store.Run) {
	mark := "✓"
	if run.Status != store.StatusOK {
		mark = "✗"
	}
	strip := "strip"
	if !run.Strip {
		strip = "no-strip"
	}
	fmt.Fprintf(formatter.Writer, "%s %s  %s  %s  %s\n",
		mark, run.ID, run.StartedAt.Local().Format(time.DateTime),
		run.FinishedAt.Sub(run.StartedAt).Round(time.Millisecond), strip)
	for _, a := range run.Artifacts {
		if a.Error != "" {
			fmt.Fprintf(formatter.Writer, "    %s: %s\n", filepath.Base(a.Module), a.Error)
			continue
		}
		fmt.Fprintf(formatter.Writer, "    %s  %d bytes  %s\n", filepath.Base(a.Object), a.ObjectSize, a.ObjectSHA256)
	}
	if run.Error != "" && len(run.Artifacts) == 0 {
		fmt.Fprintf(formatter.Writer, "    %s\n", run.Error)
	}
}

func ledgerError(formatter *OutputFormatter, err error) error {
	_ = formatter.Error(ErrCodeLedger, "cannot read build ledger: "+err.Error(), nil)
	exitErr := WrapExitError(ExitFailure, "cannot read build ledger", err)
	exitErr.Reported = true
	return exitErr
}
