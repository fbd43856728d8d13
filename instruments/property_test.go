package instruments

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FenHarel95/pymeasure/comm"
)

func newTestUnit(pipe *comm.Pipe) *Unit {
	return NewUnit(comm.NewConn(pipe))
}

func TestPropertyRoundTrip(t *testing.T) {
	setpoint := Property[float64]{
		Name:     "voltage_setpoint",
		Query:    "VOLT?",
		Command:  "VOLT %g",
		Validate: TruncatedRange(-50.0, 50.0),
		Parse:    ParseFloat,
	}
	pipe := comm.NewPipe().
		ExpectWrite("VOLT 12.5").
		Expect("VOLT?", "12.5")
	u := newTestUnit(pipe)

	require.NoError(t, setpoint.Set(u, 12.5))
	v, err := setpoint.Get(u)
	require.NoError(t, err)
	assert.Equal(t, 12.5, v)
	require.NoError(t, pipe.Done())
}

func TestPropertyStrictRangeRejectsBeforeWrite(t *testing.T) {
	power := Property[float64]{
		Name:     "power",
		Command:  "SOUR:POW %g",
		Validate: StrictRange(-40.0, 10.0),
	}
	pipe := comm.NewPipe()
	u := newTestUnit(pipe)

	err := power.Set(u, 20)
	require.Error(t, err)
	var cerr *comm.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, comm.ErrValidate, cerr.Kind)
	assert.Zero(t, pipe.WriteCount(), "invalid value must never reach the wire")
}

func TestPropertyTruncatedRangeClamps(t *testing.T) {
	setpoint := Property[float64]{
		Name:     "current_setpoint",
		Command:  "CURR %g",
		Validate: TruncatedRange(-20.0, 20.0),
	}
	pipe := comm.NewPipe().ExpectWrite("CURR 20")
	u := newTestUnit(pipe)

	require.NoError(t, setpoint.Set(u, 100))
	require.NoError(t, pipe.Done())
}

func TestPropertyValueMap(t *testing.T) {
	enabled := Property[bool]{
		Name:    "output_enabled",
		Query:   "OUTP?",
		Command: "OUTP %s",
		Values:  NewValueMap(map[bool]string{true: "1", false: "0"}),
	}
	pipe := comm.NewPipe().
		ExpectWrite("OUTP 1").
		Expect("OUTP?", "0")
	u := newTestUnit(pipe)

	require.NoError(t, enabled.Set(u, true))
	on, err := enabled.Get(u)
	require.NoError(t, err)
	assert.False(t, on)
	require.NoError(t, pipe.Done())
}

func TestPropertyValueMapUnknownResponse(t *testing.T) {
	enabled := Property[bool]{
		Name:   "output_enabled",
		Query:  "OUTP?",
		Values: NewValueMap(map[bool]string{true: "ON", false: "OFF"}),
	}
	pipe := comm.NewPipe().Expect("OUTP?", "MAYBE")
	u := newTestUnit(pipe)

	_, err := enabled.Get(u)
	require.Error(t, err)
	var cerr *comm.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, comm.ErrDecode, cerr.Kind)
}

func TestPropertyUnitConversion(t *testing.T) {
	freq := Property[float64]{
		Name:       "cw_frequency",
		Query:      "FREQ:CW?",
		Command:    "FREQ:CW %g",
		Validate:   StrictRange(0.01, 50.0),
		Parse:      ParseFloat,
		SetProcess: func(ghz float64) float64 { return ghz * 1e9 },
		GetProcess: func(hz float64) float64 { return hz * 1e-9 },
	}
	pipe := comm.NewPipe().
		ExpectWrite("FREQ:CW 2.4e+09").
		Expect("FREQ:CW?", "1.0e10")
	u := newTestUnit(pipe)

	require.NoError(t, freq.Set(u, 2.4))
	ghz, err := freq.Get(u)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, ghz, 1e-12)
	require.NoError(t, pipe.Done())
}

func TestPropertyDecodeError(t *testing.T) {
	voltage := Property[float64]{
		Name:  "voltage",
		Query: "MEAS:VOLT?",
		Parse: ParseFloat,
	}
	pipe := comm.NewPipe().Expect("MEAS:VOLT?", "***ERROR***")
	u := newTestUnit(pipe)

	_, err := voltage.Get(u)
	require.Error(t, err)
	var cerr *comm.Error
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, comm.ErrDecode, cerr.Kind)
	assert.Equal(t, []byte("***ERROR***"), cerr.Received)
}

func TestPropertyWriteOnlyAndReadOnly(t *testing.T) {
	ports := Property[string]{
		Name:     "measure_ports",
		Command:  "CALC:PAR:DEF:SGR %s",
		Validate: StrictSet("1", "2", "1,2"),
	}
	counter := Property[int]{
		Name:  "sweep_counter",
		Query: "CALC:DATA:NSW:COUN?",
		Parse: ParseInt,
	}
	pipe := comm.NewPipe()
	u := newTestUnit(pipe)

	_, err := ports.Get(u)
	require.Error(t, err)
	err = counter.Set(u, 3)
	require.Error(t, err)
	assert.Zero(t, pipe.WriteCount())
}

func TestNewValueMapDuplicateWireToken(t *testing.T) {
	assert.Panics(t, func() {
		NewValueMap(map[string]string{"A": "1", "B": "1"})
	})
}
