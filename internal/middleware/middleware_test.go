package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"bee-counter/internal/config"
	"bee-counter/internal/utils"
)

func newEngine(logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RecoveryMiddleware(logger))
	engine.Use(RequestIDMiddleware())
	engine.Use(LoggingMiddleware(utils.NewServiceLogger(logger, "http-server")))
	return engine
}

func TestRequestIDGenerated(t *testing.T) {
	engine := newEngine(zap.NewNop())
	var seen string
	engine.GET("/x", func(c *gin.Context) {
		seen = c.GetString(utils.RequestIDKey)
		c.Status(http.StatusNoContent)
	})

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	assert.NotEmpty(t, seen)
	assert.Equal(t, seen, w.Header().Get(RequestIDHeader))
}

func TestRequestIDPropagated(t *testing.T) {
	engine := newEngine(zap.NewNop())
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(RequestIDHeader, "abc")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	assert.Equal(t, "abc", w.Header().Get(RequestIDHeader))
}

func TestRecovery(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	engine := newEngine(zap.New(core))
	engine.GET("/panic", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "INTERNAL_SERVER_ERROR")

	recovered := logs.FilterMessage("Panic recovered").All()
	require.Len(t, recovered, 1)
	assert.NotEmpty(t, recovered[0].ContextMap()["request_id"])
}

func TestLoggingLevels(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	engine := newEngine(zap.New(core))
	engine.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	engine.GET("/busy", func(c *gin.Context) { c.Status(http.StatusConflict) })

	for _, path := range []string{"/ok", "/busy"} {
		engine.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	requests := logs.FilterMessage("API request").All()
	require.Len(t, requests, 2)
	assert.Equal(t, zapcore.InfoLevel, requests[0].Level)
	assert.Equal(t, zapcore.WarnLevel, requests[1].Level)
	assert.EqualValues(t, 409, requests[1].ContextMap()["status_code"])
	assert.NotEmpty(t, requests[1].ContextMap()["request_id"])
}

func TestCORSAllowedOrigin(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORSMiddleware(&config.SecurityConfig{AllowedOrigins: []string{"http://hive.local"}}))
	engine.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://hive.local")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, "http://hive.local", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://elsewhere")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
