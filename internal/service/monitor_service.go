// internal/service/monitor_service.go
package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"bee-counter/internal/broadcast"
	"bee-counter/internal/config"
	"bee-counter/internal/discovery"
	"bee-counter/internal/model"
	"bee-counter/internal/reader"
	"bee-counter/internal/utils"
)

// MonitorService combines the reader, the broadcaster and the port
// enumerator behind one API for handlers
type MonitorService struct {
	reader      *reader.Reader
	broadcaster *broadcast.Broadcaster
	enumerator  *discovery.Enumerator
	config      *config.Config
	logger      *utils.ServiceLogger
}

// NewMonitorService creates a new monitor service
func NewMonitorService(
	reader *reader.Reader,
	broadcaster *broadcast.Broadcaster,
	enumerator *discovery.Enumerator,
	config *config.Config,
	logger *zap.Logger,
) *MonitorService {
	return &MonitorService{
		reader:      reader,
		broadcaster: broadcaster,
		enumerator:  enumerator,
		config:      config,
		logger:      utils.NewServiceLogger(logger, "monitor-service"),
	}
}

// NewReaderFromConfig builds a reader using the serial defaults from config
func NewReaderFromConfig(cfg *config.Config, publisher reader.Publisher, options reader.Options, logger *zap.Logger) *reader.Reader {
	options.PollInterval = cfg.Serial.PollInterval
	options.ReadTimeout = cfg.Serial.ReadTimeout
	options.ReadBuffer = cfg.Serial.ReadBuffer
	options.MaxLineLength = cfg.Serial.MaxLineLength

	initial := model.ConnectionConfig{
		PortName: cfg.Serial.Port,
		BaudRate: cfg.Serial.BaudRate,
	}
	return reader.NewReader(initial, publisher, options, logger)
}

// Configure replaces the pending connection config
func (ms *MonitorService) Configure(ctx context.Context, req *ConfigureRequest) (*model.ReaderStatus, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := model.ConnectionConfig{
		PortName: req.PortName,
		BaudRate: req.BaudRate,
	}
	if err := ms.reader.Configure(cfg); err != nil {
		return nil, fmt.Errorf("configure reader: %w", err)
	}

	status := ms.reader.Status()
	return &status, nil
}

// Start opens the configured port and begins publishing state events
func (ms *MonitorService) Start(ctx context.Context) (*model.ReaderStatus, error) {
	cfg := ms.reader.Config()
	ms.logger.Info("Starting reader",
		zap.String("port", cfg.PortName),
		zap.Int("baud_rate", cfg.BaudRate),
	)

	if err := ms.reader.Start(ctx); err != nil {
		ms.logger.Warn("Reader start failed", zap.Error(err))
		return nil, fmt.Errorf("start reader: %w", err)
	}

	status := ms.reader.Status()
	ms.logger.Info("Reader started", zap.String("session_id", status.SessionID))
	return &status, nil
}

// Stop ends the current session. It returns once the port is closed or ctx
// is done, whichever happens first; the reader still finishes stopping in
// the latter case.
func (ms *MonitorService) Stop(ctx context.Context) (*model.ReaderStatus, error) {
	errCh := make(chan error, 1)
	go func() {
		errCh <- ms.reader.Stop()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			// the session is over either way
			ms.logger.Warn("Serial port close failed", zap.Error(err))
		}
	case <-ctx.Done():
		return nil, fmt.Errorf("stop reader: %w", ctx.Err())
	}

	status := ms.reader.Status()
	return &status, nil
}

// Status returns a snapshot of the reader
func (ms *MonitorService) Status() model.ReaderStatus {
	return ms.reader.Status()
}

// State returns the reader lifecycle state
func (ms *MonitorService) State() model.ReaderState {
	return ms.reader.State()
}

// ListPorts returns the serial endpoints present on the host
func (ms *MonitorService) ListPorts(detailed bool) []model.SerialEndpoint {
	if detailed {
		return ms.enumerator.ListPortDetails()
	}
	return ms.enumerator.ListPorts()
}

// BaudRates returns the selectable baud rates
func (ms *MonitorService) BaudRates() []int {
	return ms.enumerator.StandardBaudRates()
}

// Subscribe registers a new event consumer
func (ms *MonitorService) Subscribe() *broadcast.Subscription {
	return ms.broadcaster.Subscribe()
}

// BroadcastStats returns fan-out counters
func (ms *MonitorService) BroadcastStats() broadcast.Stats {
	return ms.broadcaster.Stats()
}

// AutoStart starts the reader when serial.auto_start is set
func (ms *MonitorService) AutoStart(ctx context.Context) error {
	if ms.config == nil || !ms.config.Serial.AutoStart {
		return nil
	}
	_, err := ms.Start(ctx)
	return err
}

// Shutdown stops the reader and closes every subscription
func (ms *MonitorService) Shutdown(ctx context.Context) error {
	ms.logger.LogServiceStop("shutdown")

	_, err := ms.Stop(ctx)
	ms.broadcaster.Shutdown()
	return err
}

// DTOs for Monitor Service

// ConfigureRequest represents a connection config change
type ConfigureRequest struct {
	PortName string `json:"port_name" binding:"required"`
	BaudRate int    `json:"baud_rate" binding:"required,min=1"`
}
