package server

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"kgeyst.com/captioner/pkg/captioner/api"
	"kgeyst.com/captioner/pkg/common"
)

const (
	// ConfigKeyServerAddress the host:port the web UI listens on
	ConfigKeyServerAddress = "serverAddress"
	// ConfigKeyDebugMode enables gin's debug output; off in normal operation
	ConfigKeyDebugMode = "serverDebugMode"
)

const defaultServerAddress = "localhost:8080"

// Server hosts the single-page web UI and its JSON API. Each user action (upload, URL submit,
// camera snapshot) maps to one synchronous request/response cycle; inference requests serialize
// on the model backend's own mutex.
type Server struct {
	engine  *gin.Engine
	address string
	logger  common.Logger
}

func NewServer(captionerAPI api.API, config *common.Config, logger common.Logger) *Server {
	if config.GetIntOrDefault(ConfigKeyDebugMode, 0) == 0 {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogger(logger))
	server := &Server{
		engine:  engine,
		address: config.GetStringOrDefault(ConfigKeyServerAddress, defaultServerAddress),
		logger:  logger,
	}
	handlers := newHandlers(captionerAPI)
	engine.GET("/", handlers.handleIndex)
	engine.GET("/api/health", handlers.handleHealth)
	engine.POST("/api/caption", handlers.handleCaptionUpload)
	engine.POST("/api/caption/url", handlers.handleCaptionURL)
	engine.POST("/api/caption/frame", handlers.handleCaptionFrame)
	return server
}

func (s *Server) Run() error {
	s.logger.Log(fmt.Sprintf("listening on %s\n", s.address))
	return s.engine.Run(s.address)
}

// requestLogger tags every request with an ID so that pipeline log lines can be correlated
// with the request that produced them.
func requestLogger(logger common.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := uuid.NewString()
		c.Set("requestID", requestID)
		startTime := time.Now()
		c.Next()
		logger.Log(fmt.Sprintf(
			"[%s] %s %s -> %d (%d ms)\n",
			requestID,
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			time.Since(startTime).Milliseconds(),
		))
	}
}
