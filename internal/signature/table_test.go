package signature

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDefault verifies the built-in table keeps the legacy key and flags the
// unresolved 1.48 entry instead of inventing a value.
func TestDefault(t *testing.T) {
	tbl := Default()

	assert.Equal(t, 2, tbl.Len())
	assert.Equal(t, []string{LegacyKey}, tbl.Keys())
	assert.True(t, tbl.Contains(LegacyKey))
	assert.False(t, tbl.Contains(""))

	unresolved := tbl.Unresolved()
	require.Len(t, unresolved, 1)
	assert.Equal(t, "1.48", unresolved[0].Version.Original())
	assert.False(t, unresolved[0].Resolved())
}

// TestNew_SortsByVersion verifies entries are ordered by version, not by
// position in the configuration.
func TestNew_SortsByVersion(t *testing.T) {
	tbl, err := New([]Spec{
		{Version: "2.0", Key: "c"},
		{Version: "1.10", Key: "b"},
		{Version: "1.9", Key: "a"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, tbl.Keys())
}

// TestNew_Rejects covers invalid tables.
func TestNew_Rejects(t *testing.T) {
	tests := []struct {
		name  string
		specs []Spec
	}{
		{"bad version", []Spec{{Version: "one", Key: "x"}}},
		{"duplicate version", []Spec{{Version: "1.0", Key: "x"}, {Version: "1.0.0", Key: "y"}}},
		{"duplicate key", []Spec{{Version: "1.0", Key: "x"}, {Version: "2.0", Key: "x"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.specs)
			assert.Error(t, err)
		})
	}
}

// TestMerge verifies configuration can resolve a gap and extend the table.
func TestMerge(t *testing.T) {
	tbl, err := Default().Merge([]Spec{
		{Version: "1.48", Key: "{RESOLVED}"},
		{Version: "3.0", Key: "{NEWER}"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{LegacyKey, "{RESOLVED}", "{NEWER}"}, tbl.Keys())
	assert.Empty(t, tbl.Unresolved())
	assert.Equal(t, 3, tbl.Len())

	// The receiver is not modified.
	assert.Len(t, Default().Unresolved(), 1)
}

func TestMerge_InvalidVersion(t *testing.T) {
	_, err := Default().Merge([]Spec{{Version: "x.y", Key: "k"}})
	assert.Error(t, err)
}
