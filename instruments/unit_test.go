package instruments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FenHarel95/pymeasure/comm"
)

func TestUnitExpand(t *testing.T) {
	root := NewUnit(comm.NewConn(comm.NewPipe()))
	assert.Equal(t, "SENS:BAND?", root.Expand("SENS:BAND?"))

	ch := root.Child("ch", "2")
	assert.Equal(t, "SENS2:BAND?", ch.Expand("SENS{ch}:BAND?"))
}

func TestUnitNestedPlaceholders(t *testing.T) {
	root := NewUnit(comm.NewConn(comm.NewPipe()))
	tr := root.Child("ch", "1").Child("tr", "1_2")

	assert.Equal(t, "CALC1:PAR:MEAS? 'Trc1_2'", tr.Expand("CALC{ch}:PAR:MEAS? 'Trc{tr}'"))
}

func TestUnitChildDoesNotMutateParent(t *testing.T) {
	root := NewUnit(comm.NewConn(comm.NewPipe()))
	ch := root.Child("ch", "3")
	_ = ch.Child("tr", "a")
	_ = ch.Child("tr", "b")

	assert.Equal(t, "CALC3:X {tr}", ch.Expand("CALC{ch}:X {tr}"))
}

func TestUnitWriteExpands(t *testing.T) {
	pipe := comm.NewPipe().
		ExpectWrite("INIT4:IMM; *OPC").
		Expect("CALC4:DATA:NSW:COUN?", "2")
	ch := NewUnit(comm.NewConn(pipe)).Child("ch", "4")

	require.NoError(t, ch.Write("INIT{ch}:IMM; *OPC"))
	line, err := ch.Ask("CALC{ch}:DATA:NSW:COUN?")
	require.NoError(t, err)
	assert.Equal(t, "2", line)
	require.NoError(t, pipe.Done())
}
