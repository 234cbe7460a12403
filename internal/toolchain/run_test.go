package toolchain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LayerOneX/cargo-l1x/internal/testutil"
)

func TestRun_CapturesOutput(t *testing.T) {
	path := testutil.WriteTool(t, t.TempDir(), "tool", `echo "out $1"; echo "warn" >&2`)

	res, err := Run(context.Background(), Ref{Tool: "tool", Path: path}, "arg")
	require.NoError(t, err)
	assert.Equal(t, "out arg\n", string(res.Stdout))
	assert.Equal(t, "warn\n", string(res.Stderr))
}

func TestRun_NonZeroExitCarriesStderr(t *testing.T) {
	path := testutil.WriteTool(t, t.TempDir(), "llc", `echo "error: bad input" >&2; exit 3`)

	_, err := Run(context.Background(), Ref{Tool: "llc", Path: path}, "in.ll")
	require.Error(t, err)

	var exitErr *ExitError
	require.ErrorAs(t, err, &exitErr)
	assert.Equal(t, 3, exitErr.Code)
	assert.Equal(t, "error: bad input\n", exitErr.Stderr)
	assert.Equal(t, []string{"in.ll"}, exitErr.Args)
	assert.Equal(t, "llc exited with status 3", exitErr.Error())
}

func TestRun_MissingExecutable(t *testing.T) {
	_, err := Run(context.Background(), Ref{Tool: "llc", Path: "/nonexistent/llc"})
	require.Error(t, err)

	var exitErr *ExitError
	assert.NotErrorAs(t, err, &exitErr)
	assert.Contains(t, err.Error(), "run llc")
}
