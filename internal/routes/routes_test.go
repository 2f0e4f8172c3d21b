package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial/enumerator"
	"go.uber.org/zap/zaptest"

	"bee-counter/internal/broadcast"
	"bee-counter/internal/config"
	"bee-counter/internal/discovery"
	"bee-counter/internal/middleware"
	"bee-counter/internal/protocol/serial/serialtest"
	"bee-counter/internal/reader"
	"bee-counter/internal/service"
)

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()
	logger := zaptest.NewLogger(t)

	cfg := &config.Config{
		Serial: config.SerialConfig{Port: "COM3", BaudRate: 115200, PollInterval: 10 * time.Millisecond},
		App:    config.AppConfig{Name: "bee-counter", Environment: "test"},
	}

	b := broadcast.NewBroadcaster(16, logger)
	r := service.NewReaderFromConfig(cfg, b, reader.Options{Opener: serialtest.NewOpener().Open}, logger)
	enum := discovery.NewEnumeratorWith(
		func() ([]string, error) { return nil, nil },
		func() ([]*enumerator.PortDetails, error) { return nil, nil },
		logger,
	)
	svc := service.NewMonitorService(r, b, enum, cfg, logger)
	t.Cleanup(func() { _ = svc.Shutdown(context.Background()) })

	return NewRouter(cfg, logger, svc).SetupRouter()
}

func TestRoutesRegistered(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/live", http.StatusOK},
		{http.MethodGet, "/ready", http.StatusServiceUnavailable},
		{http.MethodGet, "/api/v1/ports", http.StatusOK},
		{http.MethodGet, "/api/v1/baud-rates", http.StatusOK},
		{http.MethodGet, "/api/v1/reader", http.StatusOK},
		{http.MethodPost, "/api/v1/reader/stop", http.StatusOK},
		{http.MethodGet, "/ws/stats", http.StatusOK},
		{http.MethodGet, "/docs", http.StatusMovedPermanently},
		{http.MethodGet, "/api/v1/devices", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.status, w.Code)
		})
	}
}

func TestMiddlewareApplied(t *testing.T) {
	router := newTestRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/reader", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(middleware.RequestIDHeader))
	assert.Contains(t, w.Body.String(), `"request_id":"`+w.Header().Get(middleware.RequestIDHeader)+`"`)
}
