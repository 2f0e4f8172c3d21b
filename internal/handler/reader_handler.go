// internal/handler/reader_handler.go
package handler

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	protoserial "bee-counter/internal/protocol/serial"
	"bee-counter/internal/reader"
	"bee-counter/internal/service"
	"bee-counter/internal/utils"
)

// ReaderHandler handles reader lifecycle requests
type ReaderHandler struct {
	monitorService *service.MonitorService
	logger         *utils.ServiceLogger
}

// NewReaderHandler creates a new reader handler
func NewReaderHandler(monitorService *service.MonitorService, logger *zap.Logger) *ReaderHandler {
	return &ReaderHandler{
		monitorService: monitorService,
		logger:         utils.NewServiceLogger(logger, "reader-handler"),
	}
}

// GetStatus returns the reader status
// @Summary Get reader status
// @Description Get the lifecycle state, pending connection config and session counters
// @Tags Reader
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.ReaderStatus} "Reader status retrieved"
// @Router /reader [get]
func (h *ReaderHandler) GetStatus(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Reader status retrieved", h.monitorService.Status())
}

// Configure sets the port and baud rate for the next session
// @Summary Configure reader
// @Description Set the serial port and baud rate; only accepted while the reader is idle
// @Tags Reader
// @Accept json
// @Produce json
// @Param request body service.ConfigureRequest true "Connection config"
// @Success 200 {object} utils.APIResponse{data=model.ReaderStatus} "Reader configured"
// @Failure 400 {object} utils.APIResponse "Invalid request"
// @Failure 409 {object} utils.APIResponse "Reader is not idle"
// @Router /reader/config [put]
func (h *ReaderHandler) Configure(c *gin.Context) {
	var req service.ConfigureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			utils.ValidationErrorResponse(c, bindingErrors(req, fieldErrs))
			return
		}
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	req.PortName = strings.TrimSpace(req.PortName)

	status, err := h.monitorService.Configure(c.Request.Context(), &req)
	if err != nil {
		h.respondError(c, "Failed to configure reader", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reader configured", status)
}

// Start opens the configured port
// @Summary Start reader
// @Description Open the configured serial port and start publishing state events
// @Tags Reader
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.ReaderStatus} "Reader started"
// @Failure 400 {object} utils.APIResponse "Invalid connection config"
// @Failure 409 {object} utils.APIResponse "Reader is not idle"
// @Failure 502 {object} utils.APIResponse "Serial port could not be opened"
// @Router /reader/start [post]
func (h *ReaderHandler) Start(c *gin.Context) {
	status, err := h.monitorService.Start(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to start reader", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reader started", status)
}

// Stop ends the current session
// @Summary Stop reader
// @Description Stop polling and release the serial port; a no-op when idle
// @Tags Reader
// @Produce json
// @Success 200 {object} utils.APIResponse{data=model.ReaderStatus} "Reader stopped"
// @Failure 504 {object} utils.APIResponse "Stop did not complete in time"
// @Router /reader/stop [post]
func (h *ReaderHandler) Stop(c *gin.Context) {
	status, err := h.monitorService.Stop(c.Request.Context())
	if err != nil {
		h.respondError(c, "Failed to stop reader", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Reader stopped", status)
}

// respondError maps reader errors to HTTP status codes
func (h *ReaderHandler) respondError(c *gin.Context, message string, err error) {
	var connErr *reader.ConnectionError

	switch {
	case errors.Is(err, reader.ErrInvalidConfig):
		utils.ErrorResponseWithCode(c, http.StatusBadRequest, "INVALID_CONFIG", message, err)
	case errors.Is(err, reader.ErrBusy):
		utils.ErrorResponse(c, http.StatusConflict, message, err)
	case errors.As(err, &connErr):
		h.logger.Warn(message, zap.String("kind", connErr.Kind), zap.Error(err))
		utils.ErrorResponseWithCode(c, http.StatusBadGateway, connectionErrorCode(connErr.Kind), message, err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		utils.ErrorResponse(c, http.StatusGatewayTimeout, message, err)
	default:
		utils.LogError(h.logger.Logger, message, err, zap.String("path", c.FullPath()))
		utils.ErrorResponse(c, http.StatusInternalServerError, message, err)
	}
}

// bindingErrors keys failed rules by the JSON name of the field
func bindingErrors(obj interface{}, fieldErrs validator.ValidationErrors) map[string]string {
	t := reflect.TypeOf(obj)
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		name := fe.Field()
		if f, ok := t.FieldByName(fe.StructField()); ok {
			if tag, _, _ := strings.Cut(f.Tag.Get("json"), ","); tag != "" && tag != "-" {
				name = tag
			}
		}
		out[name] = fe.Tag()
	}
	return out
}

func connectionErrorCode(kind string) string {
	switch kind {
	case protoserial.KindNotFound:
		return "PORT_NOT_FOUND"
	case protoserial.KindBusy:
		return "PORT_BUSY"
	case protoserial.KindPermission:
		return "PORT_PERMISSION_DENIED"
	default:
		return "PORT_UNAVAILABLE"
	}
}
