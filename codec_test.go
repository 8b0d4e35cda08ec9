package statefile

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONCodec_Format(t *testing.T) {
	t.Parallel()
	v := &testState{Foo: "Test String", Bar: 42}

	data, err := JSONCodec[testState]{}.Encode(v)
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"foo\": \"Test String\",\n  \"bar\": 42\n}", string(data))
}

func TestYAMLCodec_RoundTrip(t *testing.T) {
	t.Parallel()
	want := &testState{Foo: "yaml", Bar: 3, Tags: []string{"a", "b"}}

	data, err := YAMLCodec[testState]{}.Encode(want)
	require.NoError(t, err)

	got := new(testState)
	require.NoError(t, YAMLCodec[testState]{}.Decode(data, got))
	assert.Equal(t, want, got)
}

func TestYAMLCodec_WithFile(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.yaml")
	ctx := context.Background()

	f, err := Open(path, WithCodec[testState](YAMLCodec[testState]{}))
	require.NoError(t, err)

	require.NoError(t, f.Update(ctx, func(s *testState) error {
		s.Foo = "from yaml"
		s.Bar = 11
		return nil
	}))
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "from yaml")

	reopened, err := Open(path, WithCodec[testState](YAMLCodec[testState]{}))
	require.NoError(t, err)
	defer reopened.Close()
	assert.Equal(t, testState{Foo: "from yaml", Bar: 11}, reopened.Read())
}

func TestYAMLCodec_CorruptSurfaced(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "state.yaml")
	require.NoError(t, os.WriteFile(path, []byte("[unclosed"), 0644))

	_, err := Open(path, WithCodec[testState](YAMLCodec[testState]{}))
	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}
