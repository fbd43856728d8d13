package instruments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FenHarel95/pymeasure/comm"
)

func TestStrictSet(t *testing.T) {
	v := StrictSet("BUS", "EXT", "IMM")

	got, err := v("EXT")
	require.NoError(t, err)
	assert.Equal(t, "EXT", got)

	_, err = v("BOGUS")
	require.Error(t, err)
	var cerr *comm.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, comm.ErrValidate, cerr.Kind)
}

func TestStrictRange(t *testing.T) {
	v := StrictRange(1, 999)

	got, err := v(1)
	require.NoError(t, err)
	assert.Equal(t, 1, got)
	got, err = v(999)
	require.NoError(t, err)
	assert.Equal(t, 999, got)

	_, err = v(0)
	require.Error(t, err)
	_, err = v(1000)
	require.Error(t, err)
}

func TestTruncatedRange(t *testing.T) {
	v := TruncatedRange(-50.0, 50.0)

	got, err := v(12.5)
	require.NoError(t, err)
	assert.Equal(t, 12.5, got)

	got, err = v(120.0)
	require.NoError(t, err)
	assert.Equal(t, 50.0, got)

	got, err = v(-120.0)
	require.NoError(t, err)
	assert.Equal(t, -50.0, got)
}
