package handlers

import (
	"time"

	"agrisense/internal/logger"
	"agrisense/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services     *service.Service
	log          *logger.Logger
	pushInterval time.Duration
}

// NewHandler constructs a new HTTP handler with dependencies.
func NewHandler(services *service.Service, log *logger.Logger) *Handler {
	return &Handler{services: services, log: log}
}

// SetPushInterval changes the default WebSocket push period.
func (h *Handler) SetPushInterval(d time.Duration) {
	h.pushInterval = d
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), h.requestLogger)

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", h.health)
	if h.services.Metrics != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(h.services.Metrics.Registry, promhttp.HandlerOpts{})))
	}

	h.registerAPIRoutes(router)

	// Dashboard push over WebSocket, same port
	router.GET("/ws", h.wsConnect)

	return router
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1")
	{
		h.registerMonitoringRoutes(api)
		h.registerPumpRoutes(api)
		h.registerScheduleRoutes(api)
		h.registerLogRoutes(api)
		h.registerAssistantRoutes(api)
		h.registerSpeechRoutes(api)
	}
}

func (h *Handler) registerMonitoringRoutes(api *gin.RouterGroup) {
	api.GET("/dashboard", h.getDashboard)
	api.GET("/sensors", h.getSensors)
	api.GET("/chart", h.getChart)
	api.GET("/chart/stats", h.getChartStats)
	api.GET("/advice", h.getAdvice)
	api.GET("/weather", h.getWeather)
}

func (h *Handler) registerPumpRoutes(api *gin.RouterGroup) {
	pump := api.Group("/pump")
	{
		pump.POST("/on", h.pumpOn)
		pump.POST("/off", h.pumpOff)
		// Body example: {"seconds":300}
		pump.POST("/timer", h.pumpTimer)
		// Body example: {"enabled":true}
		pump.POST("/auto", h.pumpAuto)
	}
}

func (h *Handler) registerScheduleRoutes(api *gin.RouterGroup) {
	schedule := api.Group("/schedule")
	{
		schedule.GET("", h.getSchedule)
		// Body example: {"start":"06:30","end":"18:45"}
		schedule.PUT("", h.updateSchedule)
		schedule.POST("/load", h.loadSchedule)
	}
}

func (h *Handler) registerLogRoutes(api *gin.RouterGroup) {
	api.GET("/logs", h.getLogs)
}

func (h *Handler) registerAssistantRoutes(api *gin.RouterGroup) {
	assistant := api.Group("/assistant")
	{
		assistant.GET("/messages", h.getMessages)
		assistant.POST("/messages", h.sendMessage)
		assistant.DELETE("/messages", h.resetMessages)
		assistant.GET("/languages", h.getLanguages)
	}
}

func (h *Handler) registerSpeechRoutes(api *gin.RouterGroup) {
	speech := api.Group("/speech")
	{
		speech.GET("", h.speechStatus)
		speech.POST("/speak", h.speak)
		speech.POST("/stop", h.stopSpeaking)
		speech.POST("/listen", h.listen)
	}
}
