package instruments

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FenHarel95/pymeasure/comm"
)

// Instrument is the base every driver embeds: the root Unit of a device
// plus the IEEE-488.2 common command set.
type Instrument struct {
	Unit
	name string
}

func NewInstrument(conn *comm.Conn, name string) *Instrument {
	return &Instrument{Unit: *NewUnit(conn), name: name}
}

func (i *Instrument) Name() string { return i.name }

// ID queries the identification string.
func (i *Instrument) ID() (string, error) {
	return i.Ask("*IDN?")
}

// Reset restores the power-on defaults.
func (i *Instrument) Reset() error {
	return i.Write("*RST")
}

// Clear clears the status byte and error queue.
func (i *Instrument) Clear() error {
	return i.Write("*CLS")
}

// Wait holds off subsequent commands until pending ones complete.
func (i *Instrument) Wait() error {
	return i.Write("*WAI")
}

// Complete blocks until all pending operations finish.
func (i *Instrument) Complete() (int, error) {
	return i.askInt("*OPC?")
}

// Status reads the status byte register.
func (i *Instrument) Status() (int, error) {
	return i.askInt("*STB?")
}

// SelfTest runs the interface self-test and returns the raw result code.
// Interpretation of non-zero codes is instrument specific.
func (i *Instrument) SelfTest() (int, error) {
	return i.askInt("*TST?")
}

// NextError pops one entry from the instrument's error queue. The entry is
// returned as a value, never as a Go error; an empty queue reads as code 0.
func (i *Instrument) NextError() (code int, message string, err error) {
	line, err := i.Ask("SYST:ERR?")
	if err != nil {
		return 0, "", err
	}
	field, rest, _ := strings.Cut(line, ",")
	code, cerr := strconv.Atoi(strings.TrimSpace(field))
	if cerr != nil {
		return 0, "", &comm.Error{Kind: comm.ErrDecode, Received: []byte(line), Err: cerr}
	}
	return code, strings.Trim(strings.TrimSpace(rest), `"`), nil
}

func (i *Instrument) askInt(cmd string) (int, error) {
	line, err := i.Ask(cmd)
	if err != nil {
		return 0, err
	}
	v, cerr := ParseInt(line)
	if cerr != nil {
		return 0, &comm.Error{Kind: comm.ErrDecode, Send: []byte(cmd), Received: []byte(line),
			Err: fmt.Errorf("%s: %w", cmd, cerr)}
	}
	return v, nil
}
