// internal/reader/reader.go
package reader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"bee-counter/internal/discovery"
	"bee-counter/internal/model"
	protoserial "bee-counter/internal/protocol/serial"
	"bee-counter/internal/utils"
	"bee-counter/pkg/bitdecoder"
)

// DefaultPollInterval is the delay between checks for new serial data
const DefaultPollInterval = 10 * time.Millisecond

// Publisher receives the events produced by a polling session
type Publisher interface {
	Publish(event model.Event)
}

// Options tune the reader
type Options struct {
	PollInterval  time.Duration
	ReadTimeout   time.Duration
	ReadBuffer    int
	MaxLineLength int
	Opener        protoserial.Opener
	ValidBaudRate func(rate int) bool
}

func (o *Options) setDefaults() {
	if o.PollInterval <= 0 {
		o.PollInterval = DefaultPollInterval
	}
	if o.ReadBuffer <= 0 {
		o.ReadBuffer = 256
	}
	if o.MaxLineLength <= 0 {
		o.MaxLineLength = protoserial.DefaultMaxLineLength
	}
	if o.Opener == nil {
		o.Opener = protoserial.OpenPort
	}
	if o.ValidBaudRate == nil {
		o.ValidBaudRate = discovery.IsStandardBaudRate
	}
}

// Reader owns one serial connection and drives the decode loop.
//
// Lifecycle: IDLE -> CONNECTING -> POLLING -> STOPPING -> IDLE. A read fault
// moves POLLING straight back to IDLE.
type Reader struct {
	// lifecycle serializes Configure, Start and Stop
	lifecycle sync.Mutex

	mutex     sync.RWMutex
	state     model.ReaderState
	config    model.ConnectionConfig
	sessionID string
	startedAt time.Time
	records   uint64
	lastValue *uint32
	lastError error
	closeErr  error
	stop      chan struct{}
	done      chan struct{}

	options   Options
	publisher Publisher
	logger    *zap.Logger
}

// NewReader creates an idle reader with an initial connection config
func NewReader(config model.ConnectionConfig, publisher Publisher, options Options, logger *zap.Logger) *Reader {
	options.setDefaults()
	return &Reader{
		state:     model.ReaderStateIdle,
		config:    config,
		options:   options,
		publisher: publisher,
		logger:    logger.With(zap.String("component", "reader")),
	}
}

// Configure replaces the pending connection config. It is only accepted
// while idle and takes effect on the next Start.
func (r *Reader) Configure(config model.ConnectionConfig) error {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if r.state != model.ReaderStateIdle {
		r.logger.Warn("Configuration rejected",
			zap.String("state", string(r.state)),
			zap.String("port", config.PortName),
			zap.Int("baud_rate", config.BaudRate),
		)
		return fmt.Errorf("%w: cannot reconfigure while %s", ErrBusy, r.state)
	}

	r.config = config
	r.logger.Info("Connection configured",
		zap.String("port", config.PortName),
		zap.Int("baud_rate", config.BaudRate),
	)
	return nil
}

// Start opens the configured endpoint and launches the poll loop
func (r *Reader) Start(ctx context.Context) error {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	// A session that ended on a read fault is idle but may still be exiting
	r.mutex.RLock()
	done := r.done
	idle := r.state == model.ReaderStateIdle
	r.mutex.RUnlock()
	if idle && done != nil {
		<-done
	}

	r.mutex.Lock()
	if r.state != model.ReaderStateIdle {
		state := r.state
		r.mutex.Unlock()
		return fmt.Errorf("%w: cannot start while %s", ErrBusy, state)
	}
	config := r.config
	if err := r.validate(config); err != nil {
		// the rejected call gets the error; LastError tracks device faults only
		r.mutex.Unlock()
		r.logger.Warn("Start rejected", zap.Error(err))
		return err
	}
	r.state = model.ReaderStateConnecting
	r.mutex.Unlock()

	conn, err := protoserial.NewConnection(&protoserial.Config{
		Port:          config.PortName,
		BaudRate:      config.BaudRate,
		ReadTimeout:   r.options.ReadTimeout,
		ReadBuffer:    r.options.ReadBuffer,
		MaxLineLength: r.options.MaxLineLength,
	}, r.options.Opener, r.logger)
	if err == nil {
		err = conn.Open(ctx)
	}
	if err != nil {
		connErr := &ConnectionError{
			Port:     config.PortName,
			BaudRate: config.BaudRate,
			Kind:     protoserial.ClassifyOpenError(err),
			Err:      err,
		}
		r.mutex.Lock()
		r.state = model.ReaderStateIdle
		r.lastError = connErr
		r.mutex.Unlock()
		return connErr
	}

	sessionID := uuid.New().String()
	session := utils.NewSessionLogger(r.logger, sessionID, config.PortName, config.BaudRate)
	stop := make(chan struct{})
	done = make(chan struct{})

	r.mutex.Lock()
	r.state = model.ReaderStatePolling
	r.sessionID = sessionID
	r.startedAt = time.Now()
	r.records = 0
	r.lastValue = nil
	r.lastError = nil
	r.closeErr = nil
	r.stop = stop
	r.done = done
	r.mutex.Unlock()

	session.LogConnection("open", true, nil)
	go r.poll(conn, session, sessionID, stop, done)
	return nil
}

// Stop ends the current session and waits until the port is released.
// No event of the session is published after Stop returns.
func (r *Reader) Stop() error {
	r.lifecycle.Lock()
	defer r.lifecycle.Unlock()

	r.mutex.Lock()
	if r.state == model.ReaderStatePolling {
		r.state = model.ReaderStateStopping
		close(r.stop)
	}
	done := r.done
	r.mutex.Unlock()

	if done == nil {
		return nil
	}
	<-done

	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.stop = nil
	r.done = nil
	return r.closeErr
}

// poll runs on its own goroutine and exclusively owns conn
func (r *Reader) poll(conn *protoserial.Connection, session *utils.SessionLogger, sessionID string, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)

	ticker := time.NewTicker(r.options.PollInterval)
	defer ticker.Stop()

	var seq uint64
	var fault error
	reason := model.ReasonStopped

poll:
	for {
		select {
		case <-stop:
			break poll
		case <-ticker.C:
		}

		// a pending stop wins over a ready tick
		select {
		case <-stop:
			break poll
		default:
		}

		records, err := conn.ReadRecords()
		if err != nil {
			fault = &ReadFault{Port: conn.GetConfig().Port, SessionID: sessionID, Err: err}
			reason = model.ReasonReadFault
			break poll
		}

		for _, record := range records {
			sv := bitdecoder.DecodeRecord(record)
			seq++
			r.recordValue(sv.Encode())
			r.publisher.Publish(model.NewStateEvent(sessionID, seq, sv))
			session.Debug("State decoded",
				zap.Uint64("seq", seq),
				zap.Ints("active", sv.Indices()),
				zap.Int("active_count", sv.Count()),
			)
		}
	}

	closeErr := conn.Close()
	stats := conn.GetStats()

	seq++
	r.publisher.Publish(model.NewSessionEndedEvent(sessionID, seq, reason, fault))
	session.LogSessionEnd(reason, stats.Records, time.Since(stats.OpenedAt), fault)

	r.mutex.Lock()
	r.state = model.ReaderStateIdle
	r.closeErr = closeErr
	if fault != nil {
		r.lastError = fault
	}
	r.mutex.Unlock()
}

func (r *Reader) recordValue(v uint32) {
	r.mutex.Lock()
	defer r.mutex.Unlock()
	r.records++
	r.lastValue = &v
}

func (r *Reader) validate(config model.ConnectionConfig) error {
	if config.PortName == "" {
		return &ConfigurationError{Field: "port_name", Value: `""`, Reason: "port name is required"}
	}
	if !r.options.ValidBaudRate(config.BaudRate) {
		return &ConfigurationError{Field: "baud_rate", Value: config.BaudRate, Reason: "not a standard baud rate"}
	}
	return nil
}

// State returns the current lifecycle state
func (r *Reader) State() model.ReaderState {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.state
}

// Config returns the pending connection config
func (r *Reader) Config() model.ConnectionConfig {
	r.mutex.RLock()
	defer r.mutex.RUnlock()
	return r.config
}

// PollInterval returns the effective poll interval
func (r *Reader) PollInterval() time.Duration {
	return r.options.PollInterval
}

// Status returns a snapshot of the reader
func (r *Reader) Status() model.ReaderStatus {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	status := model.ReaderStatus{
		State:   r.state,
		Config:  r.config,
		Records: r.records,
	}
	if r.state != model.ReaderStateIdle {
		status.SessionID = r.sessionID
		startedAt := r.startedAt
		status.StartedAt = &startedAt
	}
	if r.lastValue != nil {
		v := *r.lastValue
		status.LastValue = &v
	}
	if r.lastError != nil {
		status.LastError = r.lastError.Error()
	}
	return status
}
