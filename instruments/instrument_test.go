package instruments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FenHarel95/pymeasure/comm"
)

func TestInstrumentCommonCommands(t *testing.T) {
	pipe := comm.NewPipe().
		Expect("*IDN?", "Rohde&Schwarz,ZVA50-4Port,1145.1110k50/000000,2.72").
		ExpectWrite("*RST").
		ExpectWrite("*CLS").
		ExpectWrite("*WAI").
		Expect("*OPC?", "1").
		Expect("*STB?", "0").
		Expect("*TST?", "0")
	inst := NewInstrument(comm.NewConn(pipe), "test instrument")

	id, err := inst.ID()
	require.NoError(t, err)
	assert.Equal(t, "Rohde&Schwarz,ZVA50-4Port,1145.1110k50/000000,2.72", id)

	require.NoError(t, inst.Reset())
	require.NoError(t, inst.Clear())
	require.NoError(t, inst.Wait())

	done, err := inst.Complete()
	require.NoError(t, err)
	assert.Equal(t, 1, done)

	stb, err := inst.Status()
	require.NoError(t, err)
	assert.Zero(t, stb)

	code, err := inst.SelfTest()
	require.NoError(t, err)
	assert.Zero(t, code)

	require.NoError(t, pipe.Done())
}

func TestInstrumentNextError(t *testing.T) {
	pipe := comm.NewPipe().
		Expect("SYST:ERR?", `-222,"Data out of range"`).
		Expect("SYST:ERR?", `0,"No error"`)
	inst := NewInstrument(comm.NewConn(pipe), "test instrument")

	code, msg, err := inst.NextError()
	require.NoError(t, err)
	assert.Equal(t, -222, code)
	assert.Equal(t, "Data out of range", msg)

	code, msg, err = inst.NextError()
	require.NoError(t, err)
	assert.Zero(t, code)
	assert.Equal(t, "No error", msg)
}

func TestParseFloats(t *testing.T) {
	values, err := ParseFloats("1.0e10, -2.5,3")
	require.NoError(t, err)
	assert.Equal(t, []float64{1.0e10, -2.5, 3}, values)

	_, err = ParseFloats("1.0,abc")
	require.Error(t, err)
}

func TestParseInt(t *testing.T) {
	n, err := ParseInt(" 42\r")
	require.NoError(t, err)
	assert.Equal(t, 42, n)

	// exponent form counts come back from sweep counters
	n, err = ParseInt("3.000000E+00")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = ParseInt("NaNE")
	require.Error(t, err)
}
