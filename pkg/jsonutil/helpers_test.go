package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeJSONDiff(t *testing.T) {
	diffs, err := ComputeJSONDiff(
		`{"count":1,"title":"a","meta":{"pinned":false,"color":"red"}}`,
		`{"count":2,"meta":{"pinned":true,"color":"red"},"owner":"me"}`,
	)

	require.NoError(t, err)
	require.Equal(t, []Diff{
		{Path: "count", Type: "update", OldValue: "1", NewValue: "2"},
		{Path: "meta.pinned", Type: "update", OldValue: "false", NewValue: "true"},
		{Path: "owner", Type: "add", NewValue: `"me"`},
		{Path: "title", Type: "delete", OldValue: `"a"`},
	}, diffs)
}

func TestComputeJSONDiffEmptySides(t *testing.T) {
	diffs, err := ComputeJSONDiff("", "null")
	require.NoError(t, err)
	require.Empty(t, diffs)

	_, err = ComputeJSONDiff("{", "{}")
	require.Error(t, err)
}

func TestDiffValues(t *testing.T) {
	diffs, err := DiffValues(map[string]any{"n": 1}, map[string]any{"n": 1})
	require.NoError(t, err)
	require.Empty(t, diffs)

	_, err = DiffValues(map[string]any{"f": func() {}}, nil)
	require.Error(t, err)
}

func TestTruncateString(t *testing.T) {
	require.Equal(t, "hello", TruncateString("hello", 5))
	require.Equal(t, "he...", TruncateString("hello world", 5))
	require.Equal(t, "hé", TruncateString("héllo", 2))
	require.Empty(t, TruncateString("x", 0))
}

func TestSafeUnmarshal(t *testing.T) {
	require.Equal(t, map[string]any{"a": float64(1)}, SafeUnmarshal(`{"a":1}`))
	require.Empty(t, SafeUnmarshal("not json"))
}
