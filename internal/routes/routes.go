// internal/routes/routes.go
package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerfiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"bee-counter/internal/config"
	"bee-counter/internal/handler"
	"bee-counter/internal/middleware"
	"bee-counter/internal/service"
	"bee-counter/internal/utils"
)

// Router holds all dependencies for routing
type Router struct {
	config         *config.Config
	logger         *zap.Logger
	monitorService *service.MonitorService
}

// NewRouter creates a new router instance
func NewRouter(
	config *config.Config,
	logger *zap.Logger,
	monitorService *service.MonitorService,
) *Router {
	return &Router{
		config:         config,
		logger:         logger,
		monitorService: monitorService,
	}
}

// SetupRouter creates and configures the Gin router
func (r *Router) SetupRouter() *gin.Engine {
	if r.config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	} else if r.config.App.Environment == "test" {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	router := gin.New()

	r.addMiddleware(router)
	r.addRoutes(router)

	return router
}

// addMiddleware adds middleware to the router
func (r *Router) addMiddleware(router *gin.Engine) {
	router.Use(middleware.RecoveryMiddleware(r.logger))
	router.Use(middleware.RequestIDMiddleware())

	serviceLogger := utils.NewServiceLogger(r.logger, "http-server")
	router.Use(middleware.LoggingMiddleware(serviceLogger))

	router.Use(middleware.CORSMiddleware(&r.config.Security))

	r.logger.Info("Middleware configured")
}

// addRoutes sets up all application routes
func (r *Router) addRoutes(router *gin.Engine) {
	healthHandler := handler.NewHealthHandler(r.monitorService, r.config, r.logger)
	readerHandler := handler.NewReaderHandler(r.monitorService, r.logger)
	portHandler := handler.NewPortHandler(r.monitorService, r.logger)
	wsHandler := handler.NewWebSocketHandler(r.monitorService, &r.config.Security, r.logger)

	r.addHealthRoutes(router, healthHandler)

	apiV1 := router.Group("/api/v1")
	r.addPortRoutes(apiV1, portHandler)
	r.addReaderRoutes(apiV1, readerHandler)

	r.addWebSocketRoutes(router, wsHandler)

	r.addDocumentationRoutes(router)

	r.logger.Info("All routes configured successfully")
}

// addHealthRoutes sets up health check routes
func (r *Router) addHealthRoutes(router *gin.Engine, handler *handler.HealthHandler) {
	health := router.Group("")
	{
		health.GET("/health", handler.HealthCheck)
		health.GET("/ready", handler.ReadinessCheck)
		health.GET("/live", handler.LivenessCheck)
	}
}

// addPortRoutes sets up serial port discovery routes
func (r *Router) addPortRoutes(api *gin.RouterGroup, handler *handler.PortHandler) {
	api.GET("/ports", handler.ListPorts)
	api.GET("/baud-rates", handler.ListBaudRates)
}

// addReaderRoutes sets up reader lifecycle routes
func (r *Router) addReaderRoutes(api *gin.RouterGroup, handler *handler.ReaderHandler) {
	reader := api.Group("/reader")
	{
		reader.GET("", handler.GetStatus)
		reader.PUT("/config", handler.Configure)
		reader.POST("/start", handler.Start)
		reader.POST("/stop", handler.Stop)
	}
}

// addWebSocketRoutes sets up WebSocket routes
func (r *Router) addWebSocketRoutes(router *gin.Engine, handler *handler.WebSocketHandler) {
	ws := router.Group("/ws")
	{
		ws.GET("/states", handler.HandleStateConnection)
		ws.GET("/stats", handler.GetStats)
	}
}

// addDocumentationRoutes sets up documentation routes
func (r *Router) addDocumentationRoutes(router *gin.Engine) {
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerfiles.Handler))

	router.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/swagger/index.html")
	})
}
