package cargo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const messageStream = `{"reason":"compiler-artifact","package_id":"serde 1.0.0","target":{"name":"serde","kind":["lib"]},"filenames":["/t/wasm32-unknown-unknown/release/deps/libserde.rlib"]}
{"reason":"build-script-executed","package_id":"x 0.1.0"}
not json at all
{"reason":"compiler-artifact","package_id":"counter 0.1.0","target":{"name":"counter","kind":["cdylib","rlib"]},"filenames":["/t/wasm32-unknown-unknown/release/counter.wasm","/t/wasm32-unknown-unknown/release/libcounter.rlib"]}
{"reason":"compiler-artifact","package_id":"counter 0.1.0","target":{"name":"counter","kind":["cdylib"]},"filenames":["/t/wasm32-unknown-unknown/release/counter.wasm"]}
{"reason":"build-finished","success":true}
`

func TestParseMessages(t *testing.T) {
	out, err := ParseMessages(strings.NewReader(messageStream))
	require.NoError(t, err)

	assert.True(t, out.Finished)
	assert.True(t, out.Success)
	require.Len(t, out.Artifacts, 3)
	assert.Equal(t, "counter", out.Artifacts[1].Target)
	assert.Equal(t, []string{"/t/wasm32-unknown-unknown/release/counter.wasm"}, out.Artifacts[1].Modules())
	assert.Empty(t, out.Artifacts[0].Modules())

	assert.Equal(t, []string{"/t/wasm32-unknown-unknown/release/counter.wasm"}, out.Modules())
}

func TestParseMessages_Failure(t *testing.T) {
	out, err := ParseMessages(strings.NewReader(`{"reason":"build-finished","success":false}` + "\n"))
	require.NoError(t, err)
	assert.True(t, out.Finished)
	assert.False(t, out.Success)
	assert.Empty(t, out.Modules())
}

func TestParseMessages_Empty(t *testing.T) {
	out, err := ParseMessages(strings.NewReader(""))
	require.NoError(t, err)
	assert.False(t, out.Finished)
	assert.Empty(t, out.Artifacts)
}

func TestParseMessages_OversizedLine(t *testing.T) {
	long := `{"reason":"compiler-artifact","filenames":["` + strings.Repeat("a", maxMessageSize) + `"]}`
	_, err := ParseMessages(strings.NewReader(long + "\n"))
	assert.Error(t, err)
}
