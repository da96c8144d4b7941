package api

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Uranury/sensor-output/output"
	"github.com/Uranury/sensor-output/sensors"
)

type Server struct {
	router      *gin.Engine
	srv         *http.Server
	sensor      sensors.Sensor
	measurement string
	logger      *slog.Logger
}

type errorResponse struct {
	Error string `json:"error"`
}

// NewServer builds the router and the http.Server listening on addr.
// The server is created up front so Stop is safe to call at any time.
func NewServer(addr string, sensor sensors.Sensor, measurement string, logger *slog.Logger) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())

	s := &Server{
		router:      router,
		sensor:      sensor,
		measurement: measurement,
		logger:      logger,
	}

	router.Use(func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("request",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", time.Since(start))
	})

	api := router.Group("/api/sensors")
	{
		api.GET("/sample", s.handleSample)
		api.GET("/health", s.handleHealth)
	}

	s.srv = &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// handleSample takes a fresh reading per request; nothing is cached.
func (s *Server) handleSample(c *gin.Context) {
	format, err := output.ParseFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	data, err := s.sensor.Read()
	if err != nil {
		s.logger.Error("sensor read failed", "sensor", s.sensor.Name(), "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "sensor read failed"})
		return
	}

	enc := output.Encoder{Format: format, Measurement: s.measurement, Sensor: s.sensor.Name()}
	body, err := enc.Render(data)
	if err != nil {
		s.logger.Error("render sample", "format", format, "err", err)
		c.JSON(http.StatusInternalServerError, errorResponse{Error: "render failed"})
		return
	}

	c.Data(http.StatusOK, format.ContentType(), append(body, '\n'))
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "sensor": s.sensor.Name()})
}

// Start listens on the configured address and blocks until the server
// stops. After Stop it returns http.ErrServerClosed, including when Stop
// ran before Start.
func (s *Server) Start() error {
	s.logger.Info("server starting", "addr", s.srv.Addr)
	return s.srv.ListenAndServe()
}

// Serve is Start on an existing listener.
func (s *Server) Serve(ln net.Listener) error {
	s.logger.Info("server starting", "addr", ln.Addr().String())
	return s.srv.Serve(ln)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
