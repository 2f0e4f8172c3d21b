// internal/protocol/serial/serialtest/port.go
package serialtest

import (
	"sync"
	"time"

	"go.bug.st/serial"

	protoserial "bee-counter/internal/protocol/serial"
)

// Port is an in-memory serial port. Bytes queued with Emit are returned by
// the next Read; Read never blocks.
type Port struct {
	mu          sync.Mutex
	data        []byte
	readErr     error
	closed      bool
	closeCount  int
	reads       int
	readTimeout time.Duration
}

// NewPort creates an empty simulated port
func NewPort() *Port {
	return &Port{readTimeout: -1}
}

// Emit queues bytes as if the device had sent them
func (p *Port) Emit(s string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.data = append(p.data, s...)
}

// Fail makes every following Read return err
func (p *Port) Fail(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readErr = err
}

// Read implements serial.Port
func (p *Port) Read(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.reads++
	if p.closed {
		return 0, &serial.PortError{}
	}
	if p.readErr != nil {
		return 0, p.readErr
	}
	n := copy(b, p.data)
	p.data = p.data[n:]
	return n, nil
}

// Close implements serial.Port
func (p *Port) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	p.closeCount++
	return nil
}

// SetReadTimeout records the timeout requested by the connection
func (p *Port) SetReadTimeout(t time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readTimeout = t
	return nil
}

// Closed reports whether Close has been called
func (p *Port) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// CloseCount returns how many times Close was called
func (p *Port) CloseCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closeCount
}

// Reads returns how many times Read was called
func (p *Port) Reads() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.reads
}

// ReadTimeout returns the last timeout set on the port
func (p *Port) ReadTimeout() time.Duration {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.readTimeout
}

// Opener hands out simulated ports and records how it was called
type Opener struct {
	mu       sync.Mutex
	ports    []*Port
	err      error
	calls    int
	lastName string
	lastMode serial.Mode
}

// NewOpener creates an opener that returns ports in order. When the list is
// exhausted a fresh Port is created for each call.
func NewOpener(ports ...*Port) *Opener {
	return &Opener{ports: ports}
}

// FailWith makes Open return err
func (o *Opener) FailWith(err error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.err = err
}

// Open implements protoserial.Opener
func (o *Opener) Open(name string, mode *serial.Mode) (protoserial.Port, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.calls++
	o.lastName = name
	if mode != nil {
		o.lastMode = *mode
	}
	if o.err != nil {
		return nil, o.err
	}
	if len(o.ports) == 0 {
		return NewPort(), nil
	}
	port := o.ports[0]
	o.ports = o.ports[1:]
	return port, nil
}

// Calls returns the number of Open calls
func (o *Opener) Calls() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.calls
}

// LastName returns the port name of the last Open call
func (o *Opener) LastName() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastName
}

// LastMode returns the mode of the last Open call
func (o *Opener) LastMode() serial.Mode {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastMode
}
