// internal/protocol/serial/connection.go
package serial

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"go.bug.st/serial"
	"go.uber.org/zap"
)

// Fixed line framing of the counting device: 8 data bits, no parity, 1 stop bit
const (
	DataBits = 8
	Parity   = serial.NoParity
	StopBits = serial.OneStopBit
)

// Port is the part of an open serial port used by a Connection
type Port interface {
	Read(p []byte) (int, error)
	Close() error
}

// Opener opens a named serial port
type Opener func(name string, mode *serial.Mode) (Port, error)

// OpenPort opens a port through go.bug.st/serial
func OpenPort(name string, mode *serial.Mode) (Port, error) {
	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, err
	}
	return port, nil
}

// Connection represents a serial port connection
type Connection struct {
	config *Config
	opener Opener
	port   Port
	framer *LineFramer
	buffer []byte
	logger *zap.Logger
	mutex  sync.RWMutex
	isOpen bool
	stats  Stats
}

// Config represents serial port configuration
type Config struct {
	Port          string        `json:"port"`
	BaudRate      int           `json:"baud_rate"`
	ReadTimeout   time.Duration `json:"read_timeout"`
	ReadBuffer    int           `json:"read_buffer"`
	MaxLineLength int           `json:"max_line_length"`
}

// Stats holds connection counters
type Stats struct {
	BytesRead    int64     `json:"bytes_read"`
	Records      int64     `json:"records"`
	Overflows    int64     `json:"overflows"`
	OpenedAt     time.Time `json:"opened_at"`
	LastActivity time.Time `json:"last_activity"`
}

// NewConnection creates a new serial connection
func NewConnection(config *Config, opener Opener, logger *zap.Logger) (*Connection, error) {
	if config.Port == "" {
		return nil, fmt.Errorf("port is required")
	}
	if config.BaudRate <= 0 {
		return nil, fmt.Errorf("invalid baud rate: %d", config.BaudRate)
	}
	if opener == nil {
		opener = OpenPort
	}
	if config.ReadBuffer <= 0 {
		config.ReadBuffer = 256
	}

	return &Connection{
		config: config,
		opener: opener,
		framer: NewLineFramer(config.MaxLineLength),
		buffer: make([]byte, config.ReadBuffer),
		logger: logger.With(
			zap.String("protocol", "serial"),
			zap.String("port", config.Port),
		),
	}, nil
}

// Open opens the serial connection
func (c *Connection) Open(ctx context.Context) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if c.isOpen {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	mode := &serial.Mode{
		BaudRate: c.config.BaudRate,
		DataBits: DataBits,
		Parity:   Parity,
		StopBits: StopBits,
	}

	port, err := c.opener(c.config.Port, mode)
	if err != nil {
		c.logger.Error("Failed to open serial port",
			zap.Error(err),
			zap.Int("baud_rate", c.config.BaudRate),
		)
		return fmt.Errorf("failed to open serial port: %w", err)
	}

	// A zero read timeout makes Read return whatever is buffered without waiting
	if tp, ok := port.(interface{ SetReadTimeout(time.Duration) error }); ok {
		if err := tp.SetReadTimeout(c.config.ReadTimeout); err != nil {
			port.Close()
			return fmt.Errorf("failed to set read timeout: %w", err)
		}
	}

	c.port = port
	c.isOpen = true
	c.framer.Reset()
	c.stats = Stats{OpenedAt: time.Now()}

	c.logger.Info("Serial port opened successfully",
		zap.Int("baud_rate", c.config.BaudRate),
	)

	return nil
}

// Close closes the serial connection
func (c *Connection) Close() error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isOpen || c.port == nil {
		return nil
	}

	err := c.port.Close()
	c.port = nil
	c.isOpen = false

	if err != nil {
		c.logger.Error("Failed to close serial port", zap.Error(err))
		return fmt.Errorf("failed to close serial port: %w", err)
	}

	c.logger.Info("Serial port closed")
	return nil
}

// ReadRecords performs one non-blocking read and returns the complete lines
// received so far, oldest first. No data yields no records and no error.
func (c *Connection) ReadRecords() ([][]byte, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if !c.isOpen || c.port == nil {
		return nil, fmt.Errorf("port not open")
	}

	n, err := c.port.Read(c.buffer)
	if err != nil && !(errors.Is(err, io.EOF) && n > 0) {
		return nil, fmt.Errorf("failed to read from serial port: %w", err)
	}
	if n == 0 {
		return nil, nil
	}

	c.stats.BytesRead += int64(n)
	c.stats.LastActivity = time.Now()

	records, overflow := c.framer.Feed(c.buffer[:n])
	if overflow {
		c.stats.Overflows++
		c.logger.Warn("Discarding unterminated line",
			zap.Int("max_line_length", c.framer.MaxLength()),
		)
	}
	c.stats.Records += int64(len(records))

	c.logger.Debug("Data read from serial port",
		zap.Int("bytes_read", n),
		zap.Int("records", len(records)),
	)

	return records, nil
}

// IsOpen returns whether the connection is open
func (c *Connection) IsOpen() bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.isOpen
}

// GetConfig returns the connection configuration
func (c *Connection) GetConfig() *Config {
	return c.config
}

// GetStats returns a copy of the connection counters
func (c *Connection) GetStats() Stats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.stats
}
