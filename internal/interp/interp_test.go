package interp_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dastels/microscheme/internal/interp"
)

func TestEvalStringSequencesTopLevelForms(t *testing.T) {
	it, err := interp.New()
	require.NoError(t, err)

	out, err := it.EvalString("(define x 10) (+ x 5)")
	require.NoError(t, err)
	assert.Equal(t, "15", out)
}

func TestEvalStringEmptySourceIsNil(t *testing.T) {
	it, err := interp.New()
	require.NoError(t, err)

	out, err := it.EvalString("   ")
	require.NoError(t, err)
	assert.Equal(t, "nil", out)
}

func TestEvalStringPropagatesErrors(t *testing.T) {
	it, err := interp.New()
	require.NoError(t, err)

	_, err = it.EvalString("(undefined-fn 1)")
	require.Error(t, err)
}

func TestHeapCapacityOption(t *testing.T) {
	it, err := interp.New(interp.HeapCapacity(64))
	require.NoError(t, err)
	assert.Equal(t, 64, it.HeapSize())
}
