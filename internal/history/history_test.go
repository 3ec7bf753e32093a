package history_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastels/microscheme/internal/history"
)

func TestLoadMissingFileIsEmpty(t *testing.T) {
	h, err := history.Load(filepath.Join(t.TempDir(), "nope"))
	require.NoError(t, err)
	assert.Empty(t, h.Lines())
}

func TestSaveAndReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".history")
	h, err := history.Load(path)
	require.NoError(t, err)
	h.Add("(+ 1 2)")
	h.Add("(quit)")
	require.NoError(t, h.Save())

	reloaded, err := history.Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"(+ 1 2)", "(quit)"}, reloaded.Lines())
}
