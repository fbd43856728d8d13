package comm

import (
	"errors"
	"net"
	"os"
	"time"
)

// TCPPort is a Port over a raw TCP socket, for instruments exposing
// their command set on a plain network listener.
type TCPPort struct {
	conn        *net.TCPConn
	readTimeout time.Duration
	drainBuf    []byte
}

func DialTCP(addr string, readTimeout time.Duration) (*TCPPort, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	tcp := conn.(*net.TCPConn)
	if err = tcp.SetKeepAlive(true); err != nil {
		_ = tcp.Close()
		return nil, err
	}
	if err = tcp.SetKeepAlivePeriod(30 * time.Second); err != nil {
		_ = tcp.Close()
		return nil, err
	}
	return &TCPPort{conn: tcp, readTimeout: readTimeout, drainBuf: make([]byte, 1024)}, nil
}

func (p *TCPPort) Read(b []byte) (n int, err error) {
	_ = p.conn.SetReadDeadline(time.Now().Add(p.readTimeout))
	n, err = p.conn.Read(b)
	if err != nil && errors.Is(err, os.ErrDeadlineExceeded) {
		// Keep whatever arrived before the deadline; bufio holds on to it.
		return n, ErrTimeout
	}
	return n, err
}

func (p *TCPPort) Write(b []byte) (n int, err error) {
	return p.conn.Write(b)
}

// ResetInputBuffer discards whatever the instrument has already sent.
func (p *TCPPort) ResetInputBuffer() error {
	for {
		_ = p.conn.SetReadDeadline(time.Now())
		n, err := p.conn.Read(p.drainBuf)
		if err != nil || n == 0 {
			break
		}
	}
	_ = p.conn.SetReadDeadline(time.Time{})
	return nil
}

func (p *TCPPort) Close() error {
	return p.conn.Close()
}
