// Package kepco drives the Kepco BOP GL 50-20 bipolar power supply.
package kepco

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FenHarel95/pymeasure/comm"
	"github.com/FenHarel95/pymeasure/instruments"
)

const (
	vMax = 50.0
	iMax = 20.0
)

// TestError is the bitmask the supply returns from its self-test queries.
// Zero means all subsystems passed.
type TestError int

const (
	TestROM TestError = 1 << iota
	TestRAM
	TestFlash
	TestOpticalBuffer
	TestDigitalPot
	TestLoopBack
	TestMaxVoltageOutput
	TestMinVoltageOutput
	TestQuarterScaleVoltage
	TestQuarterScaleVoltageReadback
)

const TestOK TestError = 0

var testErrorNames = []struct {
	bit  TestError
	name string
}{
	{TestROM, "ROM"},
	{TestRAM, "RAM"},
	{TestFlash, "FLASH"},
	{TestOpticalBuffer, "OPTICAL_BUFFER"},
	{TestDigitalPot, "DIGITAL_POT"},
	{TestLoopBack, "LOOP_BACK"},
	{TestMaxVoltageOutput, "MAX_VOLTAGE_OUTPUT"},
	{TestMinVoltageOutput, "MIN_VOLTAGE_OUTPUT"},
	{TestQuarterScaleVoltage, "QUARTER_SCALE_VOLTAGE"},
	{TestQuarterScaleVoltageReadback, "QUARTER_SCALE_VOLTAGE_READBACK"},
}

func (e TestError) String() string {
	if e == TestOK {
		return "OK"
	}
	var names []string
	for _, te := range testErrorNames {
		if e&te.bit != 0 {
			names = append(names, te.name)
		}
	}
	if len(names) == 0 {
		return fmt.Sprintf("TestError(%d)", int(e))
	}
	return strings.Join(names, "|")
}

// OperatingModes are the accepted FUNC:MODE values. The query form returns
// an index into this list instead of the symbol.
var OperatingModes = []string{"VOLT", "CURR"}

var (
	voltage = instruments.Property[float64]{
		Name:  "voltage",
		Query: "MEASure:VOLTage?",
		Parse: instruments.ParseFloat,
	}
	current = instruments.Property[float64]{
		Name:  "current",
		Query: "MEASure:CURRent?",
		Parse: instruments.ParseFloat,
	}
	operatingMode = instruments.Property[string]{
		Name:     "operating_mode",
		Query:    "FUNCtion:MODE?",
		Command:  "FUNCtion:MODE %s",
		Validate: instruments.StrictSet(OperatingModes...),
		Parse: func(s string) (string, error) {
			i, err := strconv.Atoi(strings.TrimSpace(s))
			if err != nil {
				return "", err
			}
			if i < 0 || i >= len(OperatingModes) {
				return "", fmt.Errorf("no operating mode with index %d", i)
			}
			return OperatingModes[i], nil
		},
	}
	voltageSetpoint = instruments.Property[float64]{
		Name:     "voltage_setpoint",
		Query:    "VOLTage?",
		Command:  "VOLTage %g",
		Validate: instruments.TruncatedRange(-vMax, vMax),
		Parse:    instruments.ParseFloat,
	}
	currentSetpoint = instruments.Property[float64]{
		Name:     "current_setpoint",
		Query:    "CURRent?",
		Command:  "CURRent %g",
		Validate: instruments.TruncatedRange(-iMax, iMax),
		Parse:    instruments.ParseFloat,
	}
	outputEnabled = instruments.Property[bool]{
		Name:    "output_enabled",
		Query:   "OUTPut?",
		Command: "OUTP:CONT OFF; OUTPut %s",
		Values:  instruments.NewValueMap(map[bool]string{true: "1", false: "0"}),
	}
	outputMode = instruments.Property[string]{
		Name:     "output_mode",
		Query:    "OUTP:MODE?",
		Command:  "OUTP:MODE %s",
		Validate: instruments.StrictSet("ACTIVE", "RESISTIVE", "BATTERY"),
		Parse:    instruments.ParseString,
	}
	triggerSource = instruments.Property[string]{
		Name:     "trigger_source",
		Query:    "TRIG:SOUR?",
		Command:  "TRIG:SOUR %s",
		Validate: instruments.StrictSet("BUS", "EXT", "IMM"),
		Parse:    instruments.ParseString,
	}
	triggerVoltage = instruments.Property[float64]{
		Name:     "trigger_voltage",
		Query:    "VOLT:TRIG?",
		Command:  "VOLT:TRIG %g",
		Validate: instruments.TruncatedRange(-vMax, vMax),
		Parse:    instruments.ParseFloat,
	}
	triggerCurrent = instruments.Property[float64]{
		Name:     "trigger_current",
		Query:    "CURR:TRIG?",
		Command:  "CURR:TRIG %g",
		Validate: instruments.TruncatedRange(-iMax, iMax),
		Parse:    instruments.ParseFloat,
	}
	triggerContinuous = instruments.Property[bool]{
		Name:    "trigger_continuous",
		Query:   "INIT:CONT?",
		Command: "INIT:CONT %s",
		Values:  instruments.NewValueMap(map[bool]string{true: "1", false: "0"}),
	}
	voltageProtectLimit = instruments.Property[float64]{
		Name:     "voltage_protect_limit",
		Query:    "VOLT:PROT:LIM?",
		Command:  "VOLT:PROT:LIM %g",
		Validate: instruments.TruncatedRange(-vMax*1.01, vMax*1.01),
		Parse:    instruments.ParseFloat,
	}
	currentProtectLimit = instruments.Property[float64]{
		Name:     "current_protect_limit",
		Query:    "CURR:PROT:LIM?",
		Command:  "CURR:PROT:LIM %g",
		Validate: instruments.TruncatedRange(-iMax*1.01, iMax*1.01),
		Parse:    instruments.ParseFloat,
	}
	voltageLimit = instruments.Property[float64]{
		Name:     "voltage_limit",
		Query:    "VOLT:LIM?",
		Command:  "VOLT:LIM %g",
		Validate: instruments.TruncatedRange(-vMax, vMax),
		Parse:    instruments.ParseFloat,
	}
	currentLimit = instruments.Property[float64]{
		Name:     "current_limit",
		Query:    "CURR:LIM?",
		Command:  "CURR:LIM %g",
		Validate: instruments.TruncatedRange(-iMax, iMax),
		Parse:    instruments.ParseFloat,
	}

	memorySlot = instruments.StrictRange(1, 99)
)

// BOP5020 is a Kepco BOP GL 50-20 bipolar power supply (+-50 V, +-20 A).
type BOP5020 struct {
	*instruments.Instrument
}

func New(conn *comm.Conn) *BOP5020 {
	return &BOP5020{instruments.NewInstrument(conn, "Kepco BOPGL 50-20 Bipolar Power Supply")}
}

// Beep causes the unit to emit a brief audible tone.
func (d *BOP5020) Beep() error {
	return d.Write("SYSTem:BEEP")
}

// ConfidenceTest runs the interface self-test and reports which subsystems
// failed. A TestOK result means all tests passed. Failures are data, not
// errors; interpretation is up to the caller.
func (d *BOP5020) ConfidenceTest() (TestError, error) {
	code, err := d.SelfTest()
	return TestError(code), err
}

// BOPTest runs the full power supply self-test. The output switches on and
// swings to maximum values; disconnect any load before testing.
func (d *BOP5020) BOPTest() (TestError, error) {
	line, err := d.Ask("DIAG:TST?")
	if err != nil {
		return 0, err
	}
	code, cerr := instruments.ParseInt(line)
	if cerr != nil {
		return 0, &comm.Error{Kind: comm.ErrDecode, Received: []byte(line), Err: cerr}
	}
	return TestError(code), nil
}

// WaitToContinue makes the supply finish all previously issued commands
// and queries before executing subsequent ones.
func (d *BOP5020) WaitToContinue() error {
	return d.Wait()
}

// Voltage measures the voltage present across the output terminals in Volts.
func (d *BOP5020) Voltage() (float64, error) {
	return voltage.Get(&d.Unit)
}

// Current measures the current through the output terminals in Amps.
func (d *BOP5020) Current() (float64, error) {
	return current.Get(&d.Unit)
}

// OperatingMode reports whether the supply regulates voltage or current,
// as "VOLT" or "CURR".
func (d *BOP5020) OperatingMode() (string, error) {
	return operatingMode.Get(&d.Unit)
}

func (d *BOP5020) SetOperatingMode(mode string) error {
	return operatingMode.Set(&d.Unit, mode)
}

// VoltageSetpoint reads the programmed voltage. In voltage mode this is the
// output setpoint, in current mode the compliance voltage.
func (d *BOP5020) VoltageSetpoint() (float64, error) {
	return voltageSetpoint.Get(&d.Unit)
}

// SetVoltageSetpoint programs the voltage setpoint, truncated to +-50 V.
// The output must be enabled separately.
func (d *BOP5020) SetVoltageSetpoint(v float64) error {
	return voltageSetpoint.Set(&d.Unit, v)
}

// CurrentSetpoint reads the programmed current. In current mode this is the
// output setpoint, in voltage mode the compliance current.
func (d *BOP5020) CurrentSetpoint() (float64, error) {
	return currentSetpoint.Get(&d.Unit)
}

// SetCurrentSetpoint programs the current setpoint, truncated to +-20 A.
func (d *BOP5020) SetCurrentSetpoint(v float64) error {
	return currentSetpoint.Set(&d.Unit, v)
}

func (d *BOP5020) OutputEnabled() (bool, error) {
	return outputEnabled.Get(&d.Unit)
}

// SetOutputEnabled switches the output on or off. The set command also
// releases external output control first.
func (d *BOP5020) SetOutputEnabled(on bool) error {
	return outputEnabled.Set(&d.Unit, on)
}

// OutputMode reports the output characteristic: ACTIVE, RESISTIVE or BATTERY.
func (d *BOP5020) OutputMode() (string, error) {
	return outputMode.Get(&d.Unit)
}

func (d *BOP5020) SetOutputMode(mode string) error {
	return outputMode.Set(&d.Unit, mode)
}

// TriggerSource reports where trigger events come from: BUS, EXT or IMM.
func (d *BOP5020) TriggerSource() (string, error) {
	return triggerSource.Get(&d.Unit)
}

func (d *BOP5020) SetTriggerSource(source string) error {
	return triggerSource.Set(&d.Unit, source)
}

// TriggerVoltage is the voltage transferred to the output by a trigger.
func (d *BOP5020) TriggerVoltage() (float64, error) {
	return triggerVoltage.Get(&d.Unit)
}

func (d *BOP5020) SetTriggerVoltage(v float64) error {
	return triggerVoltage.Set(&d.Unit, v)
}

// TriggerCurrent is the current transferred to the output by a trigger.
func (d *BOP5020) TriggerCurrent() (float64, error) {
	return triggerCurrent.Get(&d.Unit)
}

func (d *BOP5020) SetTriggerCurrent(v float64) error {
	return triggerCurrent.Set(&d.Unit, v)
}

// TriggerContinuous reports whether the trigger system rearms itself after
// every trigger. When false, ArmSingleTrigger is needed before each trigger.
func (d *BOP5020) TriggerContinuous() (bool, error) {
	return triggerContinuous.Get(&d.Unit)
}

func (d *BOP5020) SetTriggerContinuous(on bool) error {
	return triggerContinuous.Set(&d.Unit, on)
}

// VoltageProtectLimit is the protection voltage limit of the output,
// 1.01 times the working limit.
func (d *BOP5020) VoltageProtectLimit() (float64, error) {
	return voltageProtectLimit.Get(&d.Unit)
}

func (d *BOP5020) SetVoltageProtectLimit(v float64) error {
	return voltageProtectLimit.Set(&d.Unit, v)
}

func (d *BOP5020) CurrentProtectLimit() (float64, error) {
	return currentProtectLimit.Get(&d.Unit)
}

func (d *BOP5020) SetCurrentProtectLimit(v float64) error {
	return currentProtectLimit.Set(&d.Unit, v)
}

// VoltageLimit is the maximum voltage programmable at the output.
func (d *BOP5020) VoltageLimit() (float64, error) {
	return voltageLimit.Get(&d.Unit)
}

func (d *BOP5020) SetVoltageLimit(v float64) error {
	return voltageLimit.Set(&d.Unit, v)
}

// CurrentLimit is the maximum current programmable at the output.
func (d *BOP5020) CurrentLimit() (float64, error) {
	return currentLimit.Get(&d.Unit)
}

func (d *BOP5020) SetCurrentLimit(v float64) error {
	return currentLimit.Set(&d.Unit, v)
}

// ArmSingleTrigger prepares the supply to receive a single trigger.
func (d *BOP5020) ArmSingleTrigger() error {
	return d.Write("INIT:IMM; *WAI")
}

// SingleTrigger sends one trigger. ArmSingleTrigger must run first unless
// continuous triggering is on.
func (d *BOP5020) SingleTrigger() error {
	return d.Write("*TRG")
}

// RemoteOutput disables the physical trigger port so the output is
// controlled remotely only.
func (d *BOP5020) RemoteOutput() error {
	return d.Write("OUTP:CONT OFF")
}

// EstablishLimits sets the voltage and current working limits together with
// their protection limits at 1.01 times the working value. With store the
// limits are also persisted to nonvolatile memory.
func (d *BOP5020) EstablishLimits(volt, curr float64, store bool) error {
	if err := d.SetVoltageProtectLimit(volt * 1.01); err != nil {
		return err
	}
	if err := d.SetCurrentProtectLimit(curr * 1.01); err != nil {
		return err
	}
	if err := d.SetVoltageLimit(volt); err != nil {
		return err
	}
	if err := d.SetCurrentLimit(curr); err != nil {
		return err
	}
	if store {
		return d.Write("MEM:UPD LIM")
	}
	return nil
}

// SaveState saves the current supply state to a memory slot. Slots run from
// 1 to 99; 1-15 can be selected as power-up setup with the S3 switches.
func (d *BOP5020) SaveState(slot int) error {
	slot, err := memorySlot(slot)
	if err != nil {
		return err
	}
	return d.Write("*SAV " + strconv.Itoa(slot))
}

// RecallState restores the supply to a state saved in a memory slot.
func (d *BOP5020) RecallState(slot int) error {
	slot, err := memorySlot(slot)
	if err != nil {
		return err
	}
	return d.Write("*RCL " + strconv.Itoa(slot) + "; *OPC")
}
