package rohdeschwarz

import (
	"fmt"
	"time"

	"github.com/FenHarel95/pymeasure/comm"
	"github.com/FenHarel95/pymeasure/instruments"
)

var boolOnOff = instruments.NewValueMap(map[bool]string{false: "OFF", true: "ON"})

var (
	chPower = instruments.Property[float64]{
		Name:     "power",
		Query:    "SOUR{ch}:POW?",
		Command:  "SOUR{ch}:POW %g",
		Validate: instruments.StrictRange(-40.0, 10.0),
		Parse:    instruments.ParseFloat,
	}
	chIFBandwidth = instruments.Property[int]{
		Name:     "if_bandwidth",
		Query:    "SENS{ch}:BAND?",
		Command:  "SENS{ch}:BAND %d",
		Validate: instruments.StrictRange(1, 1000000),
		Parse:    instruments.ParseInt,
	}
	chSelectiveBandwidth = instruments.Property[bool]{
		Name:    "selective_bandwidth",
		Query:   "SENS{ch}:BAND:DRED?",
		Command: "SENS{ch}:BAND:DRED %s",
		Values:  boolOnOff,
	}
	chSweepContinuous = instruments.Property[bool]{
		Name:    "sweep_continuous",
		Query:   "INIT{ch}:CONT?",
		Command: "INIT{ch}:CONT %s",
		Values:  boolOnOff,
	}
	chSweepCount = instruments.Property[int]{
		Name:     "sweep_count",
		Query:    "SENS{ch}:SWE:COUN?",
		Command:  "SENS{ch}:SWE:COUN %d",
		Validate: instruments.StrictRange(1, 999),
		Parse:    instruments.ParseInt,
	}
	chSweepCounter = instruments.Property[int]{
		Name:  "sweep_counter",
		Query: "CALC{ch}:DATA:NSW:COUN?",
		Parse: instruments.ParseInt,
	}
	chSweepScopeSingle = instruments.Property[bool]{
		Name:    "sweep_scope_single",
		Query:   "INIT:IMM:SCOP?",
		Command: "INIT:IMM:SCOP %s",
		Values:  instruments.NewValueMap(map[bool]string{false: "ALL", true: "SING"}),
	}
	chSweepPoints = instruments.Property[int]{
		Name:     "sweep_points",
		Query:    "SENS{ch}:SWE:POIN?",
		Command:  "SENS{ch}:SWE:POIN %d",
		Validate: instruments.StrictRange(1, 60001),
		Parse:    instruments.ParseInt,
	}
	chSweepTime = instruments.Property[float64]{
		Name:  "sweep_time",
		Query: "SENS{ch}:SWE:TIME?",
		Parse: instruments.ParseFloat,
	}
	chSweepType = instruments.Property[string]{
		Name:     "sweep_type",
		Query:    "SENSe{ch}:SWEep:TYPE?",
		Command:  "SENSe{ch}:SWEep:TYPE %s",
		Validate: instruments.StrictSet("LIN", "SEG", "POW", "POIN", "LOG", "CW", "PUL", "IAMP", "IPH"),
		Parse:    instruments.ParseString,
	}
	chCWFrequency = instruments.Property[float64]{
		Name:       "cw_frequency",
		Query:      "SENS{ch}:FREQ:CW?",
		Command:    "SENS{ch}:FREQ:CW %g",
		Validate:   instruments.StrictRange(0.01, 50.0),
		Parse:      instruments.ParseFloat,
		SetProcess: func(ghz float64) float64 { return ghz * 1e9 },
		GetProcess: func(hz float64) float64 { return hz * 1e-9 },
	}
	chAveragingEnabled = instruments.Property[bool]{
		Name:    "averaging_enabled",
		Query:   "SENSe{ch}:AVER:STAT?",
		Command: "SENSe{ch}:AVER:STAT %s",
		Values:  boolOnOff,
	}
	chAveragingCount = instruments.Property[int]{
		Name:     "averaging_count",
		Query:    "SENS{ch}:AVER:COUN?",
		Command:  "SENS{ch}:AVER:COUN %d",
		Validate: instruments.StrictRange(1, 999),
		Parse:    instruments.ParseInt,
	}
	chAveragingCounter = instruments.Property[int]{
		Name:  "averaging_counter",
		Query: "SENS{ch}:AVER:COUN:CURR?",
		Parse: instruments.ParseInt,
	}
	chFreqStart = instruments.Property[float64]{
		Name:       "freq_start",
		Query:      "SENS{ch}:FREQ:STAR?",
		Command:    "SENS{ch}:FREQ:STAR %g",
		Validate:   instruments.StrictRange(0.01, 50.0),
		Parse:      instruments.ParseFloat,
		SetProcess: func(ghz float64) float64 { return ghz * 1e9 },
		GetProcess: func(hz float64) float64 { return hz * 1e-9 },
	}
	chFreqStop = instruments.Property[float64]{
		Name:       "freq_stop",
		Query:      "SENS{ch}:FREQ:STOP?",
		Command:    "SENS{ch}:FREQ:STOP %g",
		Validate:   instruments.StrictRange(0.01, 50.0),
		Parse:      instruments.ParseFloat,
		SetProcess: func(ghz float64) float64 { return ghz * 1e9 },
		GetProcess: func(hz float64) float64 { return hz * 1e-9 },
	}
	chMeasurePorts = instruments.Property[string]{
		Name:     "measure_ports",
		Command:  "CALC{ch}:PAR:DEF:SGR %s",
		Validate: instruments.StrictSet("1", "2", "1,2"),
	}
	chTriggerSequence = instruments.Property[string]{
		Name:     "trigger_sequence",
		Query:    "TRIG{ch}:SEQ:LINK?",
		Command:  "TRIG{ch}:SEQ:LINK %s",
		Validate: instruments.StrictSet("SWE", "SEG", "POIN", "PPO"),
		Parse:    instruments.ParseQuoted,
	}
	chTriggerSource = instruments.Property[string]{
		Name:     "trigger_source",
		Query:    "TRIG{ch}:SEQ:SOUR?",
		Command:  "TRIG{ch}:SEQ:SOUR %s",
		Validate: instruments.StrictSet("IMM", "EXT", "TIM", "MAN", "PGEN"),
		Parse:    instruments.ParseString,
	}
	chTriggerTimer = instruments.Property[float64]{
		Name:       "trigger_timer",
		Query:      "TRIG{ch}:SEQ:TIM?",
		Command:    "TRIG{ch}:SEQ:TIM %g",
		Validate:   instruments.StrictRange(0.01, 13680000.0),
		Parse:      instruments.ParseFloat,
		SetProcess: func(ms float64) float64 { return ms * 1e-3 },
		GetProcess: func(s float64) float64 { return s * 1e3 },
	}
)

// Channel is one measurement channel of the analyzer. Its command
// templates carry the {ch} placeholder filled with the channel number.
type Channel struct {
	instruments.Unit
	num    int
	traces map[string]*Trace
}

func (ch *Channel) Number() int { return ch.num }

// Power is the power of the internal signal source in dBm.
func (ch *Channel) Power() (float64, error) { return chPower.Get(&ch.Unit) }

func (ch *Channel) SetPower(dbm float64) error { return chPower.Set(&ch.Unit, dbm) }

// IFBandwidth is the IF bandwidth resolution in Hz.
func (ch *Channel) IFBandwidth() (int, error) { return chIFBandwidth.Get(&ch.Unit) }

func (ch *Channel) SetIFBandwidth(hz int) error { return chIFBandwidth.Set(&ch.Unit, hz) }

// SelectiveBandwidth reports whether the IF bandwidth is reduced at low
// frequencies (slower sweep, more accurate).
func (ch *Channel) SelectiveBandwidth() (bool, error) { return chSelectiveBandwidth.Get(&ch.Unit) }

func (ch *Channel) SetSelectiveBandwidth(on bool) error {
	return chSelectiveBandwidth.Set(&ch.Unit, on)
}

// SweepContinuous reports whether the analyzer repeats the current sweep
// indefinitely instead of stopping after SweepCount sweeps.
func (ch *Channel) SweepContinuous() (bool, error) { return chSweepContinuous.Get(&ch.Unit) }

func (ch *Channel) SetSweepContinuous(on bool) error { return chSweepContinuous.Set(&ch.Unit, on) }

// SweepCount is the number of sweeps performed in single sweep mode.
func (ch *Channel) SweepCount() (int, error) { return chSweepCount.Get(&ch.Unit) }

func (ch *Channel) SetSweepCount(n int) error { return chSweepCount.Set(&ch.Unit, n) }

// SweepCounter reads how many sweeps of the running sequence completed.
func (ch *Channel) SweepCounter() (int, error) { return chSweepCounter.Get(&ch.Unit) }

// SweepScopeSingle reports whether a single sweep runs in the active
// channel only (true) or in all channels (false).
func (ch *Channel) SweepScopeSingle() (bool, error) { return chSweepScopeSingle.Get(&ch.Unit) }

func (ch *Channel) SetSweepScopeSingle(single bool) error {
	return chSweepScopeSingle.Set(&ch.Unit, single)
}

// LaunchSingleSweep starts a new single sweep sequence according to the
// sweep scope.
func (ch *Channel) LaunchSingleSweep() error {
	return ch.Write("INIT{ch}:IMM; *OPC")
}

// SweepPoints is the number of measurement points per sweep.
func (ch *Channel) SweepPoints() (int, error) { return chSweepPoints.Get(&ch.Unit) }

func (ch *Channel) SetSweepPoints(n int) error { return chSweepPoints.Set(&ch.Unit, n) }

// SweepTime measures the calculated duration of one sweep in seconds,
// assuming automatic sweep time.
func (ch *Channel) SweepTime() (float64, error) { return chSweepTime.Get(&ch.Unit) }

// SweepType is the sweep variable: LIN, SEG, POW, POIN, LOG, CW, PUL,
// IAMP or IPH.
func (ch *Channel) SweepType() (string, error) { return chSweepType.Get(&ch.Unit) }

func (ch *Channel) SetSweepType(typ string) error { return chSweepType.Set(&ch.Unit, typ) }

// CWFrequency is the continuous wave frequency in GHz for fixed frequency
// sweeps; the analyzer is programmed in Hz.
func (ch *Channel) CWFrequency() (float64, error) { return chCWFrequency.Get(&ch.Unit) }

func (ch *Channel) SetCWFrequency(ghz float64) error { return chCWFrequency.Set(&ch.Unit, ghz) }

// AveragingEnabled reports whether the sweep average is active.
func (ch *Channel) AveragingEnabled() (bool, error) { return chAveragingEnabled.Get(&ch.Unit) }

func (ch *Channel) SetAveragingEnabled(on bool) error { return chAveragingEnabled.Set(&ch.Unit, on) }

// AveragingCount is the number of consecutive sweeps combined for the
// sweep average.
func (ch *Channel) AveragingCount() (int, error) { return chAveragingCount.Get(&ch.Unit) }

func (ch *Channel) SetAveragingCount(n int) error { return chAveragingCount.Set(&ch.Unit, n) }

// AveragingCounter reads the number of the sweep currently measured.
func (ch *Channel) AveragingCounter() (int, error) { return chAveragingCounter.Get(&ch.Unit) }

// ClearAveraging discards any previous averaging and restarts the process.
func (ch *Channel) ClearAveraging() error {
	return ch.Write("SENSe{ch}:AVER:CLE")
}

// FreqStart is the start frequency in GHz for frequency sweeps.
func (ch *Channel) FreqStart() (float64, error) { return chFreqStart.Get(&ch.Unit) }

func (ch *Channel) SetFreqStart(ghz float64) error { return chFreqStart.Set(&ch.Unit, ghz) }

// FreqStop is the stop frequency in GHz for frequency sweeps.
func (ch *Channel) FreqStop() (float64, error) { return chFreqStop.Get(&ch.Unit) }

func (ch *Channel) SetFreqStop(ghz float64) error { return chFreqStop.Set(&ch.Unit, ghz) }

// SetMeasurePorts defines the S-parameter trace group for the given ports:
// "1", "2" or "1,2". Write-only.
func (ch *Channel) SetMeasurePorts(ports string) error {
	return chMeasurePorts.Set(&ch.Unit, ports)
}

// MeasureTraces reads the S-parameter trace group defined with
// SetMeasurePorts.
func (ch *Channel) MeasureTraces() ([]float64, error) {
	return ch.askFloats("CALC{ch}:DATA:SGR?")
}

// StimulusValues reads the stimulus axis of the sweep.
func (ch *Channel) StimulusValues() ([]float64, error) {
	return ch.askFloats("CALC{ch}:DATA:STIM?")
}

// TriggerSequence is what one trigger event starts: SWE, SEG, POIN or PPO.
func (ch *Channel) TriggerSequence() (string, error) { return chTriggerSequence.Get(&ch.Unit) }

func (ch *Channel) SetTriggerSequence(seq string) error {
	return chTriggerSequence.Set(&ch.Unit, seq)
}

// TriggerSource is where trigger events come from: IMM, EXT, TIM, MAN or
// PGEN.
func (ch *Channel) TriggerSource() (string, error) { return chTriggerSource.Get(&ch.Unit) }

func (ch *Channel) SetTriggerSource(source string) error {
	return chTriggerSource.Set(&ch.Unit, source)
}

// TriggerTimer is the period in ms of the internal periodic trigger; the
// analyzer is programmed in seconds.
func (ch *Channel) TriggerTimer() (float64, error) { return chTriggerTimer.Get(&ch.Unit) }

func (ch *Channel) SetTriggerTimer(ms float64) error { return chTriggerTimer.Set(&ch.Unit, ms) }

// CreateTrace defines an analyzer trace named Trc<key> for the given
// measurement ("S11", "Z-S21", ...) and returns its handle. The handle is
// registered only after the device-side definition succeeds.
func (ch *Channel) CreateTrace(key, measurement string) (*Trace, error) {
	if _, ok := ch.traces[key]; ok {
		return nil, fmt.Errorf("trace %q already created", key)
	}
	if err := ch.Write(fmt.Sprintf("CALC{ch}:PAR:SDEF 'Trc%s', '%s'", key, measurement)); err != nil {
		return nil, err
	}
	tr := &Trace{Unit: *ch.Unit.Child("tr", key), key: key}
	ch.traces[key] = tr
	return tr, nil
}

// Trace returns an already-created trace handle.
func (ch *Channel) Trace(key string) (*Trace, bool) {
	tr, ok := ch.traces[key]
	return tr, ok
}

// DeleteTrace removes the trace from the analyzer and drops its handle.
func (ch *Channel) DeleteTrace(key string) error {
	if _, ok := ch.traces[key]; !ok {
		return fmt.Errorf("trace %q not created", key)
	}
	if err := ch.Write(fmt.Sprintf("CALC{ch}:PAR:DEL 'Trc%s'", key)); err != nil {
		return err
	}
	delete(ch.traces, key)
	return nil
}

// DefineDefaultTraces creates one trace per measurement, keyed
// <channel>_<index>, e.g. traces 1_1..1_4 for a full two-port S-matrix.
func (ch *Channel) DefineDefaultTraces(measurements []string) ([]*Trace, error) {
	traces := make([]*Trace, 0, len(measurements))
	for i, m := range measurements {
		key := fmt.Sprintf("%d_%d", ch.num, i+1)
		tr, err := ch.CreateTrace(key, m)
		if err != nil {
			return traces, err
		}
		traces = append(traces, tr)
	}
	return traces, nil
}

// AwaitSweeps restarts averaging, launches one single sweep sequence and
// polls the sweep counter until target sweeps have completed. The start
// command is issued exactly once; poll sets the query cadence. A zero
// timeout waits indefinitely. progress, when non-nil, is called whenever
// the counter advances.
func (ch *Channel) AwaitSweeps(target int, poll, timeout time.Duration, progress func(done int)) error {
	if err := ch.ClearAveraging(); err != nil {
		return err
	}
	if err := ch.LaunchSingleSweep(); err != nil {
		return err
	}
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	last := -1
	for {
		n, err := ch.SweepCounter()
		if err != nil {
			return err
		}
		if progress != nil && n != last {
			progress(n)
			last = n
		}
		if n >= target {
			return nil
		}
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return fmt.Errorf("sweep %d of %d after %s: %w", n, target, timeout, comm.ErrTimeout)
		}
		time.Sleep(poll)
	}
}

func (ch *Channel) askFloats(cmd string) ([]float64, error) {
	line, err := ch.Ask(cmd)
	if err != nil {
		return nil, err
	}
	values, perr := instruments.ParseFloats(line)
	if perr != nil {
		return nil, &comm.Error{Kind: comm.ErrDecode, Received: []byte(line), Err: perr}
	}
	return values, nil
}
