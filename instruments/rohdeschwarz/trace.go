package rohdeschwarz

import (
	"fmt"
	"strconv"

	"github.com/FenHarel95/pymeasure/comm"
	"github.com/FenHarel95/pymeasure/instruments"
)

var (
	trMeasurement = instruments.Property[string]{
		Name:    "measurement",
		Query:   "CALC{ch}:PAR:MEAS? 'Trc{tr}'",
		Command: "CALC{ch}:PAR:MEAS 'Trc{tr}', '%s'",
		Validate: instruments.StrictSet(
			"S11", "S12", "S21", "S22", "Z-S11", "Z-S12", "Z-S21", "Z-S22"),
		Parse: instruments.ParseQuoted,
	}
	// Formats interpret the complex result z = x + jy per sweep point:
	// magnitude (linear or log scale), phase, Smith chart, real or
	// imaginary part, and the remaining display formats of the manual.
	trFormat = instruments.Property[string]{
		Name:    "format",
		Query:   "CALC{ch}:PAR:SEL 'Trc{tr}'; :CALC{ch}:FORM?",
		Command: "CALC{ch}:PAR:SEL 'Trc{tr}'; :CALC{ch}:FORM %s",
		Validate: instruments.StrictSet(
			"MLIN", "MLOG", "UPH", "PHAS", "SMIT", "REAL", "IMAG", "POL", "ISM", "GDEL", "SWR"),
		Parse: instruments.ParseString,
	}
)

// Trace is one analyzer trace of a channel. Its templates carry both the
// {ch} placeholder of the parent channel and its own {tr} placeholder; the
// device-side name is Trc{tr}.
type Trace struct {
	instruments.Unit
	key string
}

func (tr *Trace) Key() string { return tr.key }

// Measurement is the quantity assigned to the trace, e.g. "S21" or "Z-S11".
// A freshly created trace carries the measurement it was defined with.
func (tr *Trace) Measurement() (string, error) {
	return trMeasurement.Get(&tr.Unit)
}

func (tr *Trace) SetMeasurement(m string) error {
	return trMeasurement.Set(&tr.Unit, m)
}

// Format is the display format of the trace. Select the format before
// reading formatted data.
func (tr *Trace) Format() (string, error) {
	return trFormat.Get(&tr.Unit)
}

func (tr *Trace) SetFormat(format string) error {
	return trFormat.Set(&tr.Unit, format)
}

// RawData reads the real and imaginary part of every sweep point, two
// values per point irrespective of the trace format.
func (tr *Trace) RawData() ([]float64, error) {
	return tr.askFloats("CALC{ch}:PAR:SEL 'Trc{tr}'; :CALC:DATA? SDAT; *WAI")
}

// FormattedData reads the trace according to its format, one value per
// sweep point.
func (tr *Trace) FormattedData() ([]float64, error) {
	return tr.askFloats("CALC{ch}:PAR:SEL 'Trc{tr}'; :CALC:DATA? FDAT; *WAI")
}

// AssignToWindow feeds the trace into display window wnd.
func (tr *Trace) AssignToWindow(wnd int) error {
	return tr.Write("DISP:WIND" + strconv.Itoa(wnd) + ":TRAC:EFE 'Trc{tr}'")
}

func (tr *Trace) askFloats(cmd string) ([]float64, error) {
	line, err := tr.Ask(cmd)
	if err != nil {
		return nil, err
	}
	values, perr := instruments.ParseFloats(line)
	if perr != nil {
		return nil, &comm.Error{Kind: comm.ErrDecode, Received: []byte(line),
			Err: fmt.Errorf("trace %s: %w", tr.key, perr)}
	}
	return values, nil
}
