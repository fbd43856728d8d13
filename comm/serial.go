package comm

import (
	"strings"
	"time"

	"go.bug.st/serial"
)

var parityMap = map[string]serial.Parity{
	"none":  serial.NoParity,
	"odd":   serial.OddParity,
	"even":  serial.EvenParity,
	"mark":  serial.MarkParity,
	"space": serial.SpaceParity,
}

func getParity(parity string) serial.Parity {
	if p, ok := parityMap[strings.ToLower(parity)]; ok {
		return p
	}
	return serial.NoParity
}

type SerialMode struct {
	BaudRate int    `json:"baud_rate"` // The serial port bitrate (aka Baud rate)
	DataBits int    `json:"data_bits"` // Size of the character (must be 5, 6, 7 or 8)
	Parity   string `json:"parity"`    // Parity: None, Odd, Even, Mark, Space
}

// SerialPort is a Port over a local serial device.
type SerialPort struct {
	conn serial.Port
}

func OpenSerial(name string, readTimeout time.Duration, mode SerialMode) (*SerialPort, error) {
	port, err := serial.Open(name, &serial.Mode{
		BaudRate: mode.BaudRate,
		DataBits: mode.DataBits,
		Parity:   getParity(mode.Parity),
		StopBits: serial.OneStopBit,
	})
	if err != nil {
		return nil, err
	}
	if err = port.SetReadTimeout(readTimeout); err != nil {
		_ = port.Close()
		return nil, err
	}
	return &SerialPort{conn: port}, nil
}

func (p *SerialPort) Read(b []byte) (n int, err error) {
	n, err = p.conn.Read(b)
	if n == 0 && err == nil {
		return 0, ErrTimeout
	}
	return n, err
}

func (p *SerialPort) Write(b []byte) (n int, err error) {
	return p.conn.Write(b)
}

func (p *SerialPort) ResetInputBuffer() error {
	return p.conn.ResetInputBuffer()
}

func (p *SerialPort) Close() error {
	return p.conn.Close()
}
