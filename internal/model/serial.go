// internal/model/serial.go
package model

import "time"

// ReaderState is a state of the port reader lifecycle
type ReaderState string

const (
	ReaderStateIdle       ReaderState = "IDLE"
	ReaderStateConnecting ReaderState = "CONNECTING"
	ReaderStatePolling    ReaderState = "POLLING"
	ReaderStateStopping   ReaderState = "STOPPING"
)

// ConnectionConfig selects the serial endpoint to poll
type ConnectionConfig struct {
	PortName string `json:"port_name"`
	BaudRate int    `json:"baud_rate"`
}

// SerialEndpoint describes one serial port found on the host
type SerialEndpoint struct {
	Name         string `json:"name"`
	IsUSB        bool   `json:"is_usb,omitempty"`
	VID          string `json:"vid,omitempty"`
	PID          string `json:"pid,omitempty"`
	SerialNumber string `json:"serial_number,omitempty"`
	Product      string `json:"product,omitempty"`
}

// ReaderStatus is a point-in-time snapshot of the port reader
type ReaderStatus struct {
	State     ReaderState      `json:"state"`
	Config    ConnectionConfig `json:"config"`
	SessionID string           `json:"session_id,omitempty"`
	StartedAt *time.Time       `json:"started_at,omitempty"`
	Records   uint64           `json:"records"`
	LastValue *uint32          `json:"last_value,omitempty"`
	LastError string           `json:"last_error,omitempty"`
}
