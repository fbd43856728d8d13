package comm

import (
	"fmt"
	"sync"
)

type pipeStep struct {
	cmd   string
	reply string
	query bool
}

// Pipe is an in-memory Port scripted with the exact exchange a test
// expects. Unscripted or out-of-order commands fail the transaction, and
// every write is recorded so tests can assert nothing reached the wire.
type Pipe struct {
	mu      sync.Mutex
	steps   []pipeStep
	next    int
	writes  []string
	pending []byte
}

func NewPipe() *Pipe {
	return &Pipe{}
}

// Expect scripts a query: cmd must be written, reply comes back with a
// trailing newline.
func (p *Pipe) Expect(cmd, reply string) *Pipe {
	p.steps = append(p.steps, pipeStep{cmd: cmd, reply: reply, query: true})
	return p
}

// ExpectWrite scripts a command with no response.
func (p *Pipe) ExpectWrite(cmd string) *Pipe {
	p.steps = append(p.steps, pipeStep{cmd: cmd})
	return p
}

func (p *Pipe) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cmd := string(b)
	for len(cmd) > 0 && (cmd[len(cmd)-1] == '\n' || cmd[len(cmd)-1] == '\r') {
		cmd = cmd[:len(cmd)-1]
	}
	p.writes = append(p.writes, cmd)
	if p.next >= len(p.steps) {
		return 0, fmt.Errorf("unscripted command %q", cmd)
	}
	step := p.steps[p.next]
	if cmd != step.cmd {
		return 0, fmt.Errorf("command %q, scripted %q", cmd, step.cmd)
	}
	p.next++
	if step.query {
		p.pending = append(p.pending, step.reply...)
		p.pending = append(p.pending, '\n')
	}
	return len(b), nil
}

func (p *Pipe) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.pending) == 0 {
		return 0, ErrTimeout
	}
	n := copy(b, p.pending)
	p.pending = p.pending[n:]
	return n, nil
}

func (p *Pipe) ResetInputBuffer() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.pending = nil
	return nil
}

func (p *Pipe) Close() error { return nil }

// Writes returns every command line written so far.
func (p *Pipe) Writes() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.writes...)
}

// WriteCount reports how many commands reached the wire.
func (p *Pipe) WriteCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.writes)
}

// Done reports whether the whole script was consumed.
func (p *Pipe) Done() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.next != len(p.steps) {
		return fmt.Errorf("%d scripted steps not reached, next: %q", len(p.steps)-p.next, p.steps[p.next].cmd)
	}
	return nil
}
