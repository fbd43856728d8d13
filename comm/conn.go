package comm

import (
	"bufio"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Conn wraps a Port with the line discipline of a SCPI conversation:
// terminators, one-transaction-at-a-time locking, and wire tracing.
// Callers sharing an instrument across goroutines get serialization of
// individual transactions only, nothing more.
type Conn struct {
	port   Port
	reader *bufio.Reader
	mu     sync.Mutex
	log    *zap.Logger

	// WriteTermination is appended to every outgoing command and
	// ReadTermination ends every response line. Both default to "\n".
	WriteTermination string
	ReadTermination  byte
}

func NewConn(port Port) *Conn {
	return &Conn{
		port:             port,
		reader:           bufio.NewReader(port),
		log:              zap.NewNop(),
		WriteTermination: "\n",
		ReadTermination:  '\n',
	}
}

// SetLogger installs a logger tracing every line sent and received.
func (c *Conn) SetLogger(log *zap.Logger) {
	if log != nil {
		c.log = log
	}
}

// WriteLine sends one command, fire and forget.
func (c *Conn) WriteLine(cmd string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.writeLine(cmd)
}

// Ask sends a query and reads back one response line, terminator stripped.
func (c *Conn) Ask(cmd string) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := c.writeLine(cmd); err != nil {
		return "", err
	}
	line, err := c.readLine()
	if err != nil {
		return "", &Error{Kind: ErrIO, Send: []byte(cmd), Received: []byte(line), Err: err}
	}
	return line, nil
}

// ReadLine reads one unsolicited response line.
func (c *Conn) ReadLine() (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	line, err := c.readLine()
	if err != nil {
		return "", &Error{Kind: ErrIO, Received: []byte(line), Err: err}
	}
	return line, nil
}

func (c *Conn) Close() error {
	return c.port.Close()
}

func (c *Conn) writeLine(cmd string) error {
	c.log.Debug("write", zap.String("cmd", cmd))
	if _, err := c.port.Write([]byte(cmd + c.WriteTermination)); err != nil {
		return &Error{Kind: ErrIO, Send: []byte(cmd), Err: err}
	}
	return nil
}

func (c *Conn) readLine() (string, error) {
	line, err := c.reader.ReadString(c.ReadTermination)
	if err != nil {
		return line, err
	}
	line = strings.TrimRight(line, "\r\n")
	c.log.Debug("read", zap.String("line", line))
	return line, nil
}
