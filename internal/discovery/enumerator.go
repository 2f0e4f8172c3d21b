// internal/discovery/enumerator.go
package discovery

import (
	"sort"

	"go.bug.st/serial"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap"

	"bee-counter/internal/model"
)

// standardBaudRates is the termios speed set advertised by the host
var standardBaudRates = []int{
	50, 75, 110, 134, 150, 200, 300, 600, 1200, 1800, 2400, 4800, 9600,
	19200, 38400, 57600, 115200, 230400, 460800, 500000, 576000, 921600,
	1000000, 1152000, 1500000, 2000000, 2500000, 3000000, 3500000, 4000000,
}

// PortLister returns the names of the serial ports on the host
type PortLister func() ([]string, error)

// DetailLister returns detailed descriptions of the serial ports on the host
type DetailLister func() ([]*enumerator.PortDetails, error)

// Enumerator lists serial endpoints and baud rates for selection
type Enumerator struct {
	listPorts   PortLister
	listDetails DetailLister
	logger      *zap.Logger
}

// NewEnumerator creates an enumerator backed by the host serial subsystem
func NewEnumerator(logger *zap.Logger) *Enumerator {
	return NewEnumeratorWith(serial.GetPortsList, enumerator.GetDetailedPortsList, logger)
}

// NewEnumeratorWith creates an enumerator with custom listing functions
func NewEnumeratorWith(listPorts PortLister, listDetails DetailLister, logger *zap.Logger) *Enumerator {
	return &Enumerator{
		listPorts:   listPorts,
		listDetails: listDetails,
		logger:      logger.With(zap.String("scanner", "serial")),
	}
}

// ListPorts returns the serial endpoints present on the host, sorted by name.
// Failure to enumerate yields an empty list.
func (e *Enumerator) ListPorts() []model.SerialEndpoint {
	names, err := e.listPorts()
	if err != nil {
		e.logger.Warn("Failed to enumerate serial ports", zap.Error(err))
		return []model.SerialEndpoint{}
	}

	endpoints := make([]model.SerialEndpoint, 0, len(names))
	for _, name := range names {
		if name == "" {
			continue
		}
		endpoints = append(endpoints, model.SerialEndpoint{Name: name})
	}
	sortEndpoints(endpoints)

	e.logger.Debug("Serial ports enumerated", zap.Strings("ports", names))
	return endpoints
}

// ListPortDetails is ListPorts with USB identification where available
func (e *Enumerator) ListPortDetails() []model.SerialEndpoint {
	details, err := e.listDetails()
	if err != nil {
		e.logger.Warn("Failed to enumerate serial port details", zap.Error(err))
		return []model.SerialEndpoint{}
	}

	endpoints := make([]model.SerialEndpoint, 0, len(details))
	for _, d := range details {
		if d == nil || d.Name == "" {
			continue
		}
		endpoints = append(endpoints, model.SerialEndpoint{
			Name:         d.Name,
			IsUSB:        d.IsUSB,
			VID:          d.VID,
			PID:          d.PID,
			SerialNumber: d.SerialNumber,
			Product:      d.Product,
		})
	}
	sortEndpoints(endpoints)
	return endpoints
}

// StandardBaudRates returns the standard baud rates in ascending order
func (e *Enumerator) StandardBaudRates() []int {
	return StandardBaudRates()
}

// StandardBaudRates returns a copy of the standard baud rate set
func StandardBaudRates() []int {
	rates := make([]int, len(standardBaudRates))
	copy(rates, standardBaudRates)
	return rates
}

// IsStandardBaudRate reports whether rate belongs to the standard set
func IsStandardBaudRate(rate int) bool {
	i := sort.SearchInts(standardBaudRates, rate)
	return i < len(standardBaudRates) && standardBaudRates[i] == rate
}

func sortEndpoints(endpoints []model.SerialEndpoint) {
	sort.Slice(endpoints, func(i, j int) bool {
		return endpoints[i].Name < endpoints[j].Name
	})
}
