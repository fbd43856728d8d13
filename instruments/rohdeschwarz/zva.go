// Package rohdeschwarz drives the Rohde & Schwarz ZVA vector network
// analyzer, including its device-side channels, traces and display windows.
package rohdeschwarz

import (
	"fmt"
	"strconv"

	"github.com/FenHarel95/pymeasure/comm"
	"github.com/FenHarel95/pymeasure/instruments"
)

var source = instruments.Property[string]{
	Name:     "source",
	Query:    "OUTP:STAT?",
	Command:  "OUTP:STAT %s",
	Validate: instruments.StrictSet("OFF", "ON"),
	Parse:    instruments.ParseString,
}

// ZVA is a Rohde & Schwarz ZVA vector network analyzer. Channels and
// windows are created on demand and tracked here; the analyzer keeps its
// side alive until an explicit delete, mirroring the hardware state.
type ZVA struct {
	*instruments.Instrument
	channels map[int]*Channel
	windows  map[int]struct{}
}

func New(conn *comm.Conn) *ZVA {
	return &ZVA{
		Instrument: instruments.NewInstrument(conn, "Rohde&Schwarz ZVA"),
		channels:   make(map[int]*Channel),
		windows:    make(map[int]struct{}),
	}
}

// CreateChannel activates channel n on the analyzer and returns its handle.
// The handle is registered only after the activation command succeeds, and
// an already-created number is an error.
func (z *ZVA) CreateChannel(n int) (*Channel, error) {
	if _, ok := z.channels[n]; ok {
		return nil, fmt.Errorf("channel %d already created", n)
	}
	if err := z.Write("CONF:CHAN" + strconv.Itoa(n) + ":STAT ON"); err != nil {
		return nil, err
	}
	ch := &Channel{
		Unit:   *z.Unit.Child("ch", strconv.Itoa(n)),
		num:    n,
		traces: make(map[string]*Trace),
	}
	z.channels[n] = ch
	return ch, nil
}

// Channel returns an already-created channel handle.
func (z *ZVA) Channel(n int) (*Channel, bool) {
	ch, ok := z.channels[n]
	return ch, ok
}

// DeleteChannel deactivates channel n on the analyzer and drops its handle.
func (z *ZVA) DeleteChannel(n int) error {
	if _, ok := z.channels[n]; !ok {
		return fmt.Errorf("channel %d not created", n)
	}
	if err := z.Write("CONF:CHAN" + strconv.Itoa(n) + ":STAT OFF"); err != nil {
		return err
	}
	delete(z.channels, n)
	return nil
}

// DefineDefaultChannels creates channels 1..count.
func (z *ZVA) DefineDefaultChannels(count int) ([]*Channel, error) {
	if count < 1 {
		return nil, &comm.Error{Kind: comm.ErrValidate,
			Err: fmt.Errorf("need at least 1 channel, got %d", count)}
	}
	channels := make([]*Channel, 0, count)
	for n := 1; n <= count; n++ {
		ch, err := z.CreateChannel(n)
		if err != nil {
			return channels, err
		}
		channels = append(channels, ch)
	}
	return channels, nil
}

// CreateWindow opens display window n.
func (z *ZVA) CreateWindow(n int) error {
	if _, ok := z.windows[n]; ok {
		return fmt.Errorf("window %d already created", n)
	}
	if err := z.Write("DISP:WIND" + strconv.Itoa(n) + ":STAT ON"); err != nil {
		return err
	}
	z.windows[n] = struct{}{}
	return nil
}

// DeleteWindow closes display window n.
func (z *ZVA) DeleteWindow(n int) error {
	if _, ok := z.windows[n]; !ok {
		return fmt.Errorf("window %d not created", n)
	}
	if err := z.Write("DISP:WIND" + strconv.Itoa(n) + ":STAT OFF"); err != nil {
		return err
	}
	delete(z.windows, n)
	return nil
}

// LoadState recalls an analyzer state from the given file path.
func (z *ZVA) LoadState(path string) error {
	return z.Write("MMEM:LOAD:STAT 1," + path)
}

// Source reports whether the internal source power at all ports is ON or OFF.
func (z *ZVA) Source() (string, error) {
	return source.Get(&z.Unit)
}

// SetSource switches the internal source power and all external generators.
func (z *ZVA) SetSource(state string) error {
	return source.Set(&z.Unit, state)
}
