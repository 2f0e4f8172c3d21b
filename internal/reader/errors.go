// internal/reader/errors.go
package reader

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned for lifecycle calls made in the wrong state
	ErrBusy = errors.New("reader busy")
	// ErrInvalidConfig matches every ConfigurationError
	ErrInvalidConfig = errors.New("invalid connection config")
	// ErrConnection matches every ConnectionError
	ErrConnection = errors.New("serial connection failed")
	// ErrReadFault matches every ReadFault
	ErrReadFault = errors.New("serial read fault")
)

// ConfigurationError reports a missing or invalid port or baud rate at start.
// No connection is attempted.
type ConfigurationError struct {
	Field  string
	Value  interface{}
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfig
}

// ConnectionError reports a failure to open the serial endpoint
type ConnectionError struct {
	Port     string
	BaudRate int
	Kind     string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %s at %d baud (%s): %v", e.Port, e.BaudRate, e.Kind, e.Err)
}

func (e *ConnectionError) Is(target error) bool {
	return target == ErrConnection
}

func (e *ConnectionError) Unwrap() error {
	return e.Err
}

// ReadFault reports an I/O error that ended a polling session
type ReadFault struct {
	Port      string
	SessionID string
	Err       error
}

func (e *ReadFault) Error() string {
	return fmt.Sprintf("read %s: %v", e.Port, e.Err)
}

func (e *ReadFault) Is(target error) bool {
	return target == ErrReadFault
}

func (e *ReadFault) Unwrap() error {
	return e.Err
}
