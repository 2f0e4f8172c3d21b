// internal/handler/port_handler.go
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bee-counter/internal/service"
	"bee-counter/internal/utils"
)

// PortHandler handles serial port discovery requests
type PortHandler struct {
	monitorService *service.MonitorService
	logger         *utils.ServiceLogger
}

// NewPortHandler creates a new port handler
func NewPortHandler(monitorService *service.MonitorService, logger *zap.Logger) *PortHandler {
	return &PortHandler{
		monitorService: monitorService,
		logger:         utils.NewServiceLogger(logger, "port-handler"),
	}
}

// ListPorts returns the serial ports present on the host
// @Summary List serial ports
// @Description List serial ports; with detailed=true USB adapters carry VID, PID, serial number and product
// @Tags Ports
// @Produce json
// @Param detailed query bool false "Include USB details" default(false)
// @Success 200 {object} utils.APIResponse{data=object{ports_found=int,ports=[]model.SerialEndpoint}} "Serial ports listed"
// @Failure 400 {object} utils.APIResponse "Invalid query"
// @Router /ports [get]
func (h *PortHandler) ListPorts(c *gin.Context) {
	detailed, err := strconv.ParseBool(c.DefaultQuery("detailed", "false"))
	if err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid detailed parameter", err)
		return
	}

	ports := h.monitorService.ListPorts(detailed)
	h.logger.Debug("Serial ports listed", zap.Int("ports_found", len(ports)), zap.Bool("detailed", detailed))

	utils.SuccessResponse(c, http.StatusOK, "Serial ports listed", gin.H{
		"ports_found": len(ports),
		"ports":       ports,
	})
}

// ListBaudRates returns the selectable baud rates
// @Summary List baud rates
// @Description List the standard baud rates accepted by the reader
// @Tags Ports
// @Produce json
// @Success 200 {object} utils.APIResponse{data=object{baud_rates=[]int}} "Baud rates listed"
// @Router /baud-rates [get]
func (h *PortHandler) ListBaudRates(c *gin.Context) {
	utils.SuccessResponse(c, http.StatusOK, "Baud rates listed", gin.H{
		"baud_rates": h.monitorService.BaudRates(),
	})
}
